package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	"github.com/dev-mohitbeniwal/bookclub/model"
	"github.com/dev-mohitbeniwal/bookclub/service"
	mock_util "github.com/dev-mohitbeniwal/bookclub/test/mock"
	"github.com/dev-mohitbeniwal/bookclub/util"
)

func newClubService() (*service.ClubService, *mock_util.MockClubDAO, *mock_util.RecordingAuditService, *util.EventBus) {
	clubDAO := new(mock_util.MockClubDAO)
	recorder := &mock_util.RecordingAuditService{}
	bus := util.NewEventBus()
	svc := service.NewClubService(clubDAO, util.NewValidationUtil(), util.NewNotificationService(), bus, recorder)
	return svc, clubDAO, recorder, bus
}

func sampleClub() *model.Club {
	return &model.Club{
		ID:      "c-1",
		Name:    "Sci-fi Sundays",
		OwnerID: "owner",
		Users:   []string{"owner", "member"},
		Books:   []string{"b-1"},
	}
}

func TestClubService_CreateClub(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerSetFromCaller", func(t *testing.T) {
		svc, clubDAO, recorder, bus := newClubService()
		clubDAO.On("CreateClub", mock.Anything, mock.MatchedBy(func(c model.Club) bool {
			return c.OwnerID == "owner" && c.Name == "Sci-fi Sundays"
		})).Return(sampleClub(), nil)

		club, err := svc.CreateClub(ctx, model.Club{Name: "  Sci-fi Sundays ", OwnerID: "someone-else"}, "owner")
		require.NoError(t, err)
		bus.Wait()

		assert.Equal(t, "c-1", club.ID)
		assert.Equal(t, []string{audit.ActionCreateClub}, recorder.Actions())
	})

	t.Run("EmptyName_Rejected", func(t *testing.T) {
		svc, clubDAO, _, _ := newClubService()

		_, err := svc.CreateClub(ctx, model.Club{Name: "   "}, "owner")
		assert.ErrorIs(t, err, bookclub_errors.ErrInvalidClubData)
		clubDAO.AssertNotCalled(t, "CreateClub", mock.Anything, mock.Anything)
	})
}

func TestClubService_Membership(t *testing.T) {
	ctx := context.Background()

	t.Run("Join_Success", func(t *testing.T) {
		svc, clubDAO, recorder, bus := newClubService()
		joined := sampleClub()
		joined.Users = append(joined.Users, "newbie")
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)
		clubDAO.On("AddMember", mock.Anything, "c-1", "newbie").Return(joined, nil)

		club, err := svc.JoinClub(ctx, "c-1", "newbie")
		require.NoError(t, err)
		bus.Wait()

		assert.True(t, club.HasMember("newbie"))
		assert.Equal(t, []string{audit.ActionJoinClub}, recorder.Actions())
	})

	t.Run("Join_AlreadyMember", func(t *testing.T) {
		svc, clubDAO, _, _ := newClubService()
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)

		_, err := svc.JoinClub(ctx, "c-1", "member")
		assert.ErrorIs(t, err, bookclub_errors.ErrAlreadyMember)
		clubDAO.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Join_UnknownClub", func(t *testing.T) {
		svc, clubDAO, _, _ := newClubService()
		clubDAO.On("GetClub", mock.Anything, "nope").Return(nil, bookclub_errors.ErrClubNotFound)

		_, err := svc.JoinClub(ctx, "nope", "member")
		assert.ErrorIs(t, err, bookclub_errors.ErrClubNotFound)
	})

	t.Run("Leave_NotMember", func(t *testing.T) {
		svc, clubDAO, _, _ := newClubService()
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)

		_, err := svc.LeaveClub(ctx, "c-1", "stranger")
		assert.ErrorIs(t, err, bookclub_errors.ErrNotMember)
	})

	t.Run("Leave_OwnerForbidden", func(t *testing.T) {
		svc, clubDAO, _, _ := newClubService()
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)

		_, err := svc.LeaveClub(ctx, "c-1", "owner")
		assert.ErrorIs(t, err, bookclub_errors.ErrForbidden)
	})

	t.Run("Leave_Success", func(t *testing.T) {
		svc, clubDAO, _, bus := newClubService()
		left := sampleClub()
		left.Users = []string{"owner"}
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)
		clubDAO.On("RemoveMember", mock.Anything, "c-1", "member").Return(left, nil)

		club, err := svc.LeaveClub(ctx, "c-1", "member")
		require.NoError(t, err)
		bus.Wait()
		assert.False(t, club.HasMember("member"))
	})
}

func TestClubService_ReadingList(t *testing.T) {
	ctx := context.Background()

	t.Run("AddBook_NonMemberRejected", func(t *testing.T) {
		svc, clubDAO, _, _ := newClubService()
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)

		_, err := svc.AddBookToClub(ctx, "c-1", "b-2", "stranger")
		assert.ErrorIs(t, err, bookclub_errors.ErrNotMember)
	})

	t.Run("AddBook_AlreadyListed_NoWrite", func(t *testing.T) {
		svc, clubDAO, recorder, _ := newClubService()
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)

		club, err := svc.AddBookToClub(ctx, "c-1", "b-1", "member")
		require.NoError(t, err)
		assert.Equal(t, []string{"b-1"}, club.Books)
		clubDAO.AssertNotCalled(t, "AddBook", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, recorder.Actions())
	})

	t.Run("AddBook_Success", func(t *testing.T) {
		svc, clubDAO, _, bus := newClubService()
		updated := sampleClub()
		updated.Books = append(updated.Books, "b-2")
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)
		clubDAO.On("AddBook", mock.Anything, "c-1", "b-2").Return(updated, nil)

		club, err := svc.AddBookToClub(ctx, "c-1", "b-2", "member")
		require.NoError(t, err)
		bus.Wait()
		assert.True(t, club.HasBook("b-2"))
	})

	t.Run("RemoveBook_NotListed", func(t *testing.T) {
		svc, clubDAO, _, _ := newClubService()
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)

		_, err := svc.RemoveBookFromClub(ctx, "c-1", "b-9", "member")
		assert.ErrorIs(t, err, bookclub_errors.ErrBookNotInClub)
	})
}

func TestClubService_DeleteClub(t *testing.T) {
	ctx := context.Background()

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		svc, clubDAO, _, _ := newClubService()
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)

		err := svc.DeleteClub(ctx, "c-1", "member")
		assert.ErrorIs(t, err, bookclub_errors.ErrForbidden)
		clubDAO.AssertNotCalled(t, "DeleteClub", mock.Anything, mock.Anything)
	})

	t.Run("OwnerDeletes", func(t *testing.T) {
		svc, clubDAO, recorder, bus := newClubService()
		clubDAO.On("GetClub", mock.Anything, "c-1").Return(sampleClub(), nil)
		clubDAO.On("DeleteClub", mock.Anything, "c-1").Return(nil)

		require.NoError(t, svc.DeleteClub(ctx, "c-1", "owner"))
		bus.Wait()
		assert.Equal(t, []string{audit.ActionDeleteClub}, recorder.Actions())
	})
}
