package graph_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	"github.com/dev-mohitbeniwal/bookclub/auth"
	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	"github.com/dev-mohitbeniwal/bookclub/graph"
	"github.com/dev-mohitbeniwal/bookclub/metrics"
	"github.com/dev-mohitbeniwal/bookclub/model"
	"github.com/dev-mohitbeniwal/bookclub/pdp/engine"
	pdp_model "github.com/dev-mohitbeniwal/bookclub/pdp/model"
	"github.com/dev-mohitbeniwal/bookclub/service"
	mock_util "github.com/dev-mohitbeniwal/bookclub/test/mock"
	"github.com/dev-mohitbeniwal/bookclub/util"
)

type harness struct {
	schema  graphql.Schema
	users   *mock_util.MockUserDAO
	clubs   *mock_util.MockClubDAO
	ratings *mock_util.MockRatingDAO
	audit   *mock_util.RecordingAuditService
	bus     *util.EventBus
	codec   *auth.TokenCodec
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		users:   new(mock_util.MockUserDAO),
		clubs:   new(mock_util.MockClubDAO),
		ratings: new(mock_util.MockRatingDAO),
		audit:   &mock_util.RecordingAuditService{},
		bus:     util.NewEventBus(),
		codec:   auth.NewTokenCodec("graph-secret"),
	}
	validation := util.NewValidationUtil()
	notifications := util.NewNotificationService()
	services := &service.Services{
		User:   service.NewUserService(h.users, h.codec, validation, mock_util.NewMemoryUserCache(), notifications, h.bus, h.audit),
		Book:   service.NewBookService(new(mock_util.MockBookDAO), validation, h.audit),
		Club:   service.NewClubService(h.clubs, validation, notifications, h.bus, h.audit),
		Review: service.NewReviewService(new(mock_util.MockReviewDAO), h.clubs, validation, notifications, h.bus, h.audit),
		Rating: service.NewRatingService(h.ratings, validation, h.bus, h.audit),
	}
	evaluator, err := engine.NewOperationEvaluator(engine.DefaultPolicies)
	require.NoError(t, err)

	resolver := &graph.Resolver{Services: services, Evaluator: evaluator, Audit: h.audit, Metrics: metrics.New()}
	h.schema, err = resolver.Schema()
	require.NoError(t, err)
	return h
}

func (h *harness) run(identity *model.Identity, query string) *graphql.Result {
	ctx := context.Background()
	if identity != nil {
		ctx = auth.WithIdentity(ctx, identity)
	}
	result := graphql.Do(graphql.Params{Schema: h.schema, RequestString: query, Context: ctx})
	h.bus.Wait()
	return result
}

func data(t *testing.T, result *graphql.Result, field string) map[string]interface{} {
	t.Helper()
	require.Empty(t, result.Errors)
	root, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	value, ok := root[field].(map[string]interface{})
	require.True(t, ok, "field %s missing", field)
	return value
}

var reader = &model.Identity{ID: "u-2", Username: "reader", Email: "reader@example.com"}

func club() *model.Club {
	return &model.Club{ID: "c-1", Name: "Mystery Mondays", OwnerID: "u-1", Users: []string{"u-1"}}
}

func TestSchema_EveryRootFieldHasPolicy(t *testing.T) {
	h := newHarness(t)
	evaluator, err := engine.NewOperationEvaluator(engine.DefaultPolicies)
	require.NoError(t, err)

	for name := range h.schema.QueryType().Fields() {
		_, ok := evaluator.Policy(pdp_model.KindQuery, name)
		assert.True(t, ok, "query %s has no policy", name)
	}
	for name := range h.schema.MutationType().Fields() {
		_, ok := evaluator.Policy(pdp_model.KindMutation, name)
		assert.True(t, ok, "mutation %s has no policy", name)
	}
	assert.Len(t, engine.DefaultPolicies, len(h.schema.QueryType().Fields())+len(h.schema.MutationType().Fields()))
}

func TestSchema_Guard(t *testing.T) {
	t.Run("AnonymousJoinClub_Unauthorized", func(t *testing.T) {
		h := newHarness(t)

		result := h.run(nil, `mutation { joinClub(clubId: "c-1") { id } }`)

		require.Len(t, result.Errors, 1)
		assert.Equal(t, bookclub_errors.ErrUnauthorized.Error(), result.Errors[0].Message)
		h.clubs.AssertNotCalled(t, "GetClub", mock.Anything, mock.Anything)
		assert.Equal(t, []string{audit.ActionOperationDenied}, h.audit.Actions())
	})

	t.Run("AnonymousAddRating_Unauthorized", func(t *testing.T) {
		h := newHarness(t)

		result := h.run(nil, `mutation { addRating(bookId: "b-1", value: 5) { id } }`)

		require.Len(t, result.Errors, 1)
		assert.Equal(t, bookclub_errors.ErrUnauthorized.Error(), result.Errors[0].Message)
		h.ratings.AssertNotCalled(t, "UpsertRating", mock.Anything, mock.Anything)
	})

	t.Run("AnonymousMe_Unauthorized", func(t *testing.T) {
		h := newHarness(t)

		result := h.run(nil, `{ me { id } }`)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, bookclub_errors.ErrUnauthorized.Error(), result.Errors[0].Message)
	})

	t.Run("AuthenticatedJoinClub", func(t *testing.T) {
		h := newHarness(t)
		joined := club()
		joined.Users = append(joined.Users, reader.ID)
		h.clubs.On("GetClub", mock.Anything, "c-1").Return(club(), nil)
		h.clubs.On("AddMember", mock.Anything, "c-1", reader.ID).Return(joined, nil)

		result := h.run(reader, `mutation { joinClub(clubId: "c-1") { id userIds } }`)

		joinedData := data(t, result, "joinClub")
		assert.Equal(t, "c-1", joinedData["id"])
		assert.Equal(t, []interface{}{"u-1", reader.ID}, joinedData["userIds"])
	})

	t.Run("AnonymousClubs_Public", func(t *testing.T) {
		h := newHarness(t)
		h.clubs.On("ListClubs", mock.Anything, 20, 0).Return([]*model.Club{club()}, nil)

		result := h.run(nil, `{ clubs { id name } }`)

		require.Empty(t, result.Errors)
		clubs := result.Data.(map[string]interface{})["clubs"].([]interface{})
		require.Len(t, clubs, 1)
		assert.Equal(t, "Mystery Mondays", clubs[0].(map[string]interface{})["name"])
	})

	t.Run("DomainErrorsReachCaller", func(t *testing.T) {
		h := newHarness(t)
		h.clubs.On("GetClub", mock.Anything, "c-1").Return(club(), nil)

		result := h.run(&model.Identity{ID: "u-1"}, `mutation { joinClub(clubId: "c-1") { id } }`)

		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0].Message, bookclub_errors.ErrAlreadyMember.Error())
	})

	t.Run("InfrastructureErrorsHidden", func(t *testing.T) {
		h := newHarness(t)
		h.clubs.On("GetClub", mock.Anything, "c-1").
			Return(nil, bookclub_errors.ErrDatabaseOperation)

		result := h.run(nil, `{ club(id: "c-1") { id } }`)

		require.Len(t, result.Errors, 1)
		assert.Equal(t, bookclub_errors.ErrInternalServer.Error(), result.Errors[0].Message)
	})
}

func TestSchema_LoginThenMe(t *testing.T) {
	h := newHarness(t)
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	stored := &model.User{ID: "u-9", Username: "nina", Email: "nina@example.com", PasswordHash: hash}
	h.users.On("GetUserByEmail", mock.Anything, "nina@example.com").Return(stored, nil)
	h.users.On("GetUser", mock.Anything, "u-9").Return(stored, nil)

	login := data(t, h.run(nil, `mutation { login(email: "nina@example.com", password: "s3cret!") { token user { id username } } }`), "login")
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	identity, err := h.codec.Verify(token)
	require.NoError(t, err)

	me := data(t, h.run(identity, `{ me { id username email } }`), "me")
	assert.Equal(t, "u-9", me["id"])
	assert.Equal(t, "nina", me["username"])
	assert.Equal(t, "nina@example.com", me["email"])
}

func TestSchema_NestedInfrastructureErrorsHidden(t *testing.T) {
	h := newHarness(t)
	h.clubs.On("GetClub", mock.Anything, "c-1").Return(club(), nil)
	h.users.On("GetUser", mock.Anything, "u-1").
		Return(nil, fmt.Errorf("%w: ConnectivityError: bolt://10.0.0.5:7687 refused", bookclub_errors.ErrDatabaseOperation))

	result := h.run(nil, `{ club(id: "c-1") { id owner { id } } }`)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, bookclub_errors.ErrInternalServer.Error(), result.Errors[0].Message)
	assert.NotContains(t, result.Errors[0].Message, "bolt://")
}

func TestSchema_NestedDomainErrorsReachCaller(t *testing.T) {
	h := newHarness(t)
	h.clubs.On("GetClub", mock.Anything, "c-1").Return(club(), nil)
	h.users.On("GetUser", mock.Anything, "u-1").Return(nil, bookclub_errors.ErrUserNotFound)

	result := h.run(nil, `{ club(id: "c-1") { id owner { id } } }`)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, bookclub_errors.ErrUserNotFound.Error(), result.Errors[0].Message)
}

func TestSchema_EmailVisibleToOwnerOnly(t *testing.T) {
	alice := &model.User{ID: "u-1", Username: "alice", Email: "alice@private.example"}
	query := `{ users { id email } }`

	t.Run("Anonymous", func(t *testing.T) {
		h := newHarness(t)
		h.users.On("ListUsers", mock.Anything, 20, 0).Return([]*model.User{alice}, nil)

		result := h.run(nil, query)

		require.Empty(t, result.Errors)
		users := result.Data.(map[string]interface{})["users"].([]interface{})
		require.Len(t, users, 1)
		assert.Equal(t, "u-1", users[0].(map[string]interface{})["id"])
		assert.Nil(t, users[0].(map[string]interface{})["email"])
	})

	t.Run("OtherUser", func(t *testing.T) {
		h := newHarness(t)
		h.users.On("ListUsers", mock.Anything, 20, 0).Return([]*model.User{alice}, nil)

		result := h.run(reader, query)

		require.Empty(t, result.Errors)
		users := result.Data.(map[string]interface{})["users"].([]interface{})
		assert.Nil(t, users[0].(map[string]interface{})["email"])
	})

	t.Run("Self", func(t *testing.T) {
		h := newHarness(t)
		h.users.On("ListUsers", mock.Anything, 20, 0).Return([]*model.User{alice}, nil)

		result := h.run(&model.Identity{ID: "u-1", Username: "alice"}, query)

		require.Empty(t, result.Errors)
		users := result.Data.(map[string]interface{})["users"].([]interface{})
		assert.Equal(t, "alice@private.example", users[0].(map[string]interface{})["email"])
	})
}
