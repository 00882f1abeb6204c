// test/mock/service.go
package mock

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// MockBestsellerService is a mock implementation of service.IBestsellerService
type MockBestsellerService struct {
	mock.Mock
}

func (m *MockBestsellerService) GetList(ctx context.Context, listName string) (json.RawMessage, error) {
	args := m.Called(ctx, listName)
	payload, _ := args.Get(0).(json.RawMessage)
	return payload, args.Error(1)
}

func (m *MockBestsellerService) GetBookByISBN(ctx context.Context, isbn string) (json.RawMessage, error) {
	args := m.Called(ctx, isbn)
	payload, _ := args.Get(0).(json.RawMessage)
	return payload, args.Error(1)
}
