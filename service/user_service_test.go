package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	"github.com/dev-mohitbeniwal/bookclub/auth"
	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	"github.com/dev-mohitbeniwal/bookclub/model"
	"github.com/dev-mohitbeniwal/bookclub/service"
	mock_util "github.com/dev-mohitbeniwal/bookclub/test/mock"
	"github.com/dev-mohitbeniwal/bookclub/util"
)

type userFixture struct {
	dao     *mock_util.MockUserDAO
	cache   *mock_util.MemoryUserCache
	audit   *mock_util.RecordingAuditService
	bus     *util.EventBus
	codec   *auth.TokenCodec
	service *service.UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{
		dao:   new(mock_util.MockUserDAO),
		cache: mock_util.NewMemoryUserCache(),
		audit: &mock_util.RecordingAuditService{},
		bus:   util.NewEventBus(),
		codec: auth.NewTokenCodec("test-secret"),
	}
	f.service = service.NewUserService(f.dao, f.codec, util.NewValidationUtil(), f.cache,
		util.NewNotificationService(), f.bus, f.audit)
	return f
}

func TestUserService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_HashesPasswordAndIssuesToken", func(t *testing.T) {
		f := newUserFixture()
		f.dao.On("CreateUser", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.Email == "ada@example.com" && u.PasswordHash != "" &&
				u.PasswordHash != "s3cret!" && auth.CheckPassword(u.PasswordHash, "s3cret!") == nil
		})).Return(&model.User{ID: "u-1", Username: "ada", Email: "ada@example.com"}, nil)

		payload, err := f.service.Signup(ctx, model.SignupRequest{
			Username: "ada", Email: "  Ada@Example.com ", Password: "s3cret!",
		})
		require.NoError(t, err)
		f.bus.Wait()

		identity, err := f.codec.Verify(payload.Token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", identity.ID)
		assert.Equal(t, "ada", identity.Username)
		assert.True(t, f.cache.Has("u-1"))
		assert.Equal(t, []string{audit.ActionSignup}, f.audit.Actions())
		f.dao.AssertExpectations(t)
	})

	t.Run("InvalidEmail_Rejected", func(t *testing.T) {
		f := newUserFixture()

		_, err := f.service.Signup(ctx, model.SignupRequest{Username: "ada", Email: "nope", Password: "s3cret!"})
		assert.ErrorIs(t, err, bookclub_errors.ErrInvalidUserData)
		f.dao.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("ShortPassword_Rejected", func(t *testing.T) {
		f := newUserFixture()

		_, err := f.service.Signup(ctx, model.SignupRequest{Username: "ada", Email: "ada@example.com", Password: "123"})
		assert.ErrorIs(t, err, bookclub_errors.ErrInvalidUserData)
	})

	t.Run("Conflict_PassedThrough", func(t *testing.T) {
		f := newUserFixture()
		f.dao.On("CreateUser", mock.Anything, mock.Anything).Return(nil, bookclub_errors.ErrUserConflict)

		_, err := f.service.Signup(ctx, model.SignupRequest{Username: "ada", Email: "ada@example.com", Password: "s3cret!"})
		assert.ErrorIs(t, err, bookclub_errors.ErrUserConflict)
		assert.Empty(t, f.audit.Actions())
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	stored := &model.User{ID: "u-1", Username: "ada", Email: "ada@example.com", PasswordHash: hash}

	t.Run("Success", func(t *testing.T) {
		f := newUserFixture()
		f.dao.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(stored, nil)

		payload, err := f.service.Login(ctx, model.LoginRequest{Email: "ADA@example.com", Password: "s3cret!"})
		require.NoError(t, err)
		assert.Equal(t, "u-1", payload.User.ID)
		assert.NotEmpty(t, payload.Token)
		assert.Equal(t, []string{audit.ActionLogin}, f.audit.Actions())
	})

	t.Run("WrongPassword", func(t *testing.T) {
		f := newUserFixture()
		f.dao.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(stored, nil)

		_, err := f.service.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "guess"})
		assert.ErrorIs(t, err, bookclub_errors.ErrInvalidCredentials)
	})

	t.Run("UnknownEmail_SameErrorAsWrongPassword", func(t *testing.T) {
		f := newUserFixture()
		f.dao.On("GetUserByEmail", mock.Anything, "who@example.com").Return(nil, bookclub_errors.ErrUserNotFound)

		_, err := f.service.Login(ctx, model.LoginRequest{Email: "who@example.com", Password: "guess"})
		assert.ErrorIs(t, err, bookclub_errors.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, bookclub_errors.ErrUserNotFound)
	})
}

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("ReadThroughCache", func(t *testing.T) {
		f := newUserFixture()
		f.dao.On("GetUser", mock.Anything, "u-1").Return(&model.User{ID: "u-1", Username: "ada"}, nil).Once()

		_, err := f.service.GetUser(ctx, "u-1")
		require.NoError(t, err)
		user, err := f.service.GetUser(ctx, "u-1")
		require.NoError(t, err)

		assert.Equal(t, "ada", user.Username)
		f.dao.AssertNumberOfCalls(t, "GetUser", 1)
	})

	t.Run("MembershipChange_EvictsCachedUser", func(t *testing.T) {
		f := newUserFixture()
		require.NoError(t, f.cache.SetUser(ctx, model.User{ID: "u-1"}))

		f.bus.Publish(ctx, util.TopicMemberJoined, model.MembershipChange{ClubID: "c-1", UserID: "u-1"})
		f.bus.Wait()

		assert.False(t, f.cache.Has("u-1"))
	})

	t.Run("ClubDeleted_EvictsEveryMember", func(t *testing.T) {
		f := newUserFixture()
		require.NoError(t, f.cache.SetUser(ctx, model.User{ID: "u-1"}))
		require.NoError(t, f.cache.SetUser(ctx, model.User{ID: "u-2"}))
		require.NoError(t, f.cache.SetUser(ctx, model.User{ID: "u-3"}))

		f.bus.Publish(ctx, util.TopicClubDeleted, model.Club{ID: "c-1", Users: []string{"u-1", "u-2"}})
		f.bus.Wait()

		assert.False(t, f.cache.Has("u-1"))
		assert.False(t, f.cache.Has("u-2"))
		assert.True(t, f.cache.Has("u-3"))
	})
}

func TestUserService_ListUsers_InvalidPagination(t *testing.T) {
	f := newUserFixture()

	_, err := f.service.ListUsers(context.Background(), -1, 0)
	assert.ErrorIs(t, err, bookclub_errors.ErrInvalidPagination)
}
