// test/mock/dao.go
package mock

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/bookclub/model"
)

type MockUserDAO struct {
	mock.Mock
}

func (m *MockUserDAO) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserDAO) GetUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserDAO) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserDAO) GetUsersByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	args := m.Called(ctx, ids)
	u, _ := args.Get(0).([]*model.User)
	return u, args.Error(1)
}

func (m *MockUserDAO) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	args := m.Called(ctx, limit, offset)
	u, _ := args.Get(0).([]*model.User)
	return u, args.Error(1)
}

type MockBookDAO struct {
	mock.Mock
}

func (m *MockBookDAO) CreateBook(ctx context.Context, book model.Book) (*model.Book, error) {
	args := m.Called(ctx, book)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *MockBookDAO) GetBook(ctx context.Context, bookID string) (*model.Book, error) {
	args := m.Called(ctx, bookID)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *MockBookDAO) GetBooksByIDs(ctx context.Context, ids []string) ([]*model.Book, error) {
	args := m.Called(ctx, ids)
	b, _ := args.Get(0).([]*model.Book)
	return b, args.Error(1)
}

func (m *MockBookDAO) ListBooks(ctx context.Context, limit, offset int) ([]*model.Book, error) {
	args := m.Called(ctx, limit, offset)
	b, _ := args.Get(0).([]*model.Book)
	return b, args.Error(1)
}

type MockClubDAO struct {
	mock.Mock
}

func (m *MockClubDAO) club(args mock.Arguments) (*model.Club, error) {
	c, _ := args.Get(0).(*model.Club)
	return c, args.Error(1)
}

func (m *MockClubDAO) CreateClub(ctx context.Context, club model.Club) (*model.Club, error) {
	return m.club(m.Called(ctx, club))
}

func (m *MockClubDAO) GetClub(ctx context.Context, clubID string) (*model.Club, error) {
	return m.club(m.Called(ctx, clubID))
}

func (m *MockClubDAO) GetClubsByIDs(ctx context.Context, ids []string) ([]*model.Club, error) {
	args := m.Called(ctx, ids)
	c, _ := args.Get(0).([]*model.Club)
	return c, args.Error(1)
}

func (m *MockClubDAO) ListClubs(ctx context.Context, limit, offset int) ([]*model.Club, error) {
	args := m.Called(ctx, limit, offset)
	c, _ := args.Get(0).([]*model.Club)
	return c, args.Error(1)
}

func (m *MockClubDAO) AddMember(ctx context.Context, clubID, userID string) (*model.Club, error) {
	return m.club(m.Called(ctx, clubID, userID))
}

func (m *MockClubDAO) RemoveMember(ctx context.Context, clubID, userID string) (*model.Club, error) {
	return m.club(m.Called(ctx, clubID, userID))
}

func (m *MockClubDAO) AddBook(ctx context.Context, clubID, bookID string) (*model.Club, error) {
	return m.club(m.Called(ctx, clubID, bookID))
}

func (m *MockClubDAO) RemoveBook(ctx context.Context, clubID, bookID string) (*model.Club, error) {
	return m.club(m.Called(ctx, clubID, bookID))
}

func (m *MockClubDAO) DeleteClub(ctx context.Context, clubID string) error {
	return m.Called(ctx, clubID).Error(0)
}

type MockReviewDAO struct {
	mock.Mock
}

func (m *MockReviewDAO) CreateReview(ctx context.Context, review model.Review) (*model.Review, error) {
	args := m.Called(ctx, review)
	r, _ := args.Get(0).(*model.Review)
	return r, args.Error(1)
}

func (m *MockReviewDAO) GetReview(ctx context.Context, reviewID string) (*model.Review, error) {
	args := m.Called(ctx, reviewID)
	r, _ := args.Get(0).(*model.Review)
	return r, args.Error(1)
}

func (m *MockReviewDAO) ListReviewsByBook(ctx context.Context, bookID string) ([]*model.Review, error) {
	args := m.Called(ctx, bookID)
	r, _ := args.Get(0).([]*model.Review)
	return r, args.Error(1)
}

func (m *MockReviewDAO) DeleteReview(ctx context.Context, reviewID string) error {
	return m.Called(ctx, reviewID).Error(0)
}

type MockRatingDAO struct {
	mock.Mock
}

func (m *MockRatingDAO) UpsertRating(ctx context.Context, rating model.Rating) (*model.Rating, error) {
	args := m.Called(ctx, rating)
	r, _ := args.Get(0).(*model.Rating)
	return r, args.Error(1)
}

func (m *MockRatingDAO) ListRatingsByBook(ctx context.Context, bookID string) ([]*model.Rating, error) {
	args := m.Called(ctx, bookID)
	r, _ := args.Get(0).([]*model.Rating)
	return r, args.Error(1)
}

func (m *MockRatingDAO) AverageRating(ctx context.Context, bookID string) (float64, int, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

// MemoryUserCache is an in-process util.UserCache.
type MemoryUserCache struct {
	mu    sync.Mutex
	users map[string]model.User
}

func NewMemoryUserCache() *MemoryUserCache {
	return &MemoryUserCache{users: make(map[string]model.User)}
}

func (c *MemoryUserCache) GetUser(_ context.Context, userID string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *MemoryUserCache) SetUser(_ context.Context, user model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.ID] = user
	return nil
}

func (c *MemoryUserCache) DeleteUser(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, userID)
	return nil
}

// Has reports whether userID is cached.
func (c *MemoryUserCache) Has(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.users[userID]
	return ok
}
