// test/mock/nyt.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/bookclub/nyt"
)

// MockListSource is a mock implementation of service.ListSource
type MockListSource struct {
	mock.Mock
}

func (m *MockListSource) CurrentList(ctx context.Context, listName string) (*nyt.ListResults, error) {
	args := m.Called(ctx, listName)
	results, _ := args.Get(0).(*nyt.ListResults)
	return results, args.Error(1)
}
