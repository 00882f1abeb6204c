// service/club_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	"github.com/dev-mohitbeniwal/bookclub/dao"
	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/model"
	"github.com/dev-mohitbeniwal/bookclub/util"
	helper_util "github.com/dev-mohitbeniwal/bookclub/util/helper"
)

type IClubService interface {
	CreateClub(ctx context.Context, club model.Club, ownerID string) (*model.Club, error)
	GetClub(ctx context.Context, clubID string) (*model.Club, error)
	GetClubsByIDs(ctx context.Context, ids []string) ([]*model.Club, error)
	ListClubs(ctx context.Context, limit, offset int) ([]*model.Club, error)
	JoinClub(ctx context.Context, clubID, userID string) (*model.Club, error)
	LeaveClub(ctx context.Context, clubID, userID string) (*model.Club, error)
	AddBookToClub(ctx context.Context, clubID, bookID, userID string) (*model.Club, error)
	RemoveBookFromClub(ctx context.Context, clubID, bookID, userID string) (*model.Club, error)
	DeleteClub(ctx context.Context, clubID, userID string) error
}

// ClubService owns membership and reading lists. The member list stored here
// is authoritative; clients mirror it.
type ClubService struct {
	clubDAO         dao.IClubDAO
	validationUtil  *util.ValidationUtil
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditService    audit.Service
}

var _ IClubService = &ClubService{}

func NewClubService(
	clubDAO dao.IClubDAO,
	validationUtil *util.ValidationUtil,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	auditService audit.Service,
) *ClubService {
	service := &ClubService{
		clubDAO:         clubDAO,
		validationUtil:  validationUtil,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditService:    auditService,
	}

	eventBus.Subscribe(util.TopicClubCreated, service.handleClubEvent("created"))
	eventBus.Subscribe(util.TopicClubDeleted, service.handleClubEvent("deleted"))
	eventBus.Subscribe(util.TopicClubBookAdded, service.handleClubEvent("book_added"))
	eventBus.Subscribe(util.TopicMemberJoined, service.handleMembershipEvent("joined"))
	eventBus.Subscribe(util.TopicMemberLeft, service.handleMembershipEvent("left"))

	return service
}

func (s *ClubService) handleClubEvent(changeType string) util.EventHandler {
	return func(ctx context.Context, event util.Event) error {
		return s.notificationSvc.NotifyClubChange(ctx, changeType, event.Payload.(model.Club))
	}
}

func (s *ClubService) handleMembershipEvent(changeType string) util.EventHandler {
	return func(ctx context.Context, event util.Event) error {
		return s.notificationSvc.NotifyMembershipChange(ctx, changeType, event.Payload.(model.MembershipChange))
	}
}

func (s *ClubService) CreateClub(ctx context.Context, club model.Club, ownerID string) (*model.Club, error) {
	club.Name = strings.TrimSpace(club.Name)
	club.OwnerID = ownerID
	if err := s.validationUtil.ValidateClub(club); err != nil {
		return nil, err
	}

	created, err := s.clubDAO.CreateClub(ctx, club)
	if err != nil {
		logger.Error("Error creating club", zap.Error(err), zap.String("ownerID", ownerID))
		return nil, err
	}

	s.eventBus.Publish(ctx, util.TopicClubCreated, *created)
	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:        ownerID,
		Action:        audit.ActionCreateClub,
		ResourceType:  "club",
		ResourceID:    created.ID,
		ChangeDetails: audit.Details(created),
	})
	logger.Info("Club created", zap.String("clubID", created.ID), zap.String("ownerID", ownerID))
	return created, nil
}

func (s *ClubService) GetClub(ctx context.Context, clubID string) (*model.Club, error) {
	return s.clubDAO.GetClub(ctx, clubID)
}

func (s *ClubService) GetClubsByIDs(ctx context.Context, ids []string) ([]*model.Club, error) {
	return s.clubDAO.GetClubsByIDs(ctx, ids)
}

func (s *ClubService) ListClubs(ctx context.Context, limit, offset int) ([]*model.Club, error) {
	limit, offset, err := helper_util.Pagination(limit, offset)
	if err != nil {
		return nil, err
	}
	return s.clubDAO.ListClubs(ctx, limit, offset)
}

func (s *ClubService) JoinClub(ctx context.Context, clubID, userID string) (*model.Club, error) {
	club, err := s.clubDAO.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if club.HasMember(userID) {
		return nil, fmt.Errorf("%w: %s", bookclub_errors.ErrAlreadyMember, clubID)
	}

	updated, err := s.clubDAO.AddMember(ctx, clubID, userID)
	if err != nil {
		return nil, err
	}
	s.membershipChanged(ctx, util.TopicMemberJoined, audit.ActionJoinClub, clubID, userID)
	return updated, nil
}

// LeaveClub removes userID from the club. Owners delete their club instead.
func (s *ClubService) LeaveClub(ctx context.Context, clubID, userID string) (*model.Club, error) {
	club, err := s.clubDAO.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !club.HasMember(userID) {
		return nil, fmt.Errorf("%w: %s", bookclub_errors.ErrNotMember, clubID)
	}
	if club.OwnerID == userID {
		return nil, fmt.Errorf("%w: the owner cannot leave club %s", bookclub_errors.ErrForbidden, clubID)
	}

	updated, err := s.clubDAO.RemoveMember(ctx, clubID, userID)
	if err != nil {
		return nil, err
	}
	s.membershipChanged(ctx, util.TopicMemberLeft, audit.ActionLeaveClub, clubID, userID)
	return updated, nil
}

func (s *ClubService) membershipChanged(ctx context.Context, topic, action, clubID, userID string) {
	s.eventBus.Publish(ctx, topic, model.MembershipChange{ClubID: clubID, UserID: userID})
	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: "club",
		ResourceID:   clubID,
	})
}

// AddBookToClub puts bookID on the club's reading list. Only members may
// change the list.
func (s *ClubService) AddBookToClub(ctx context.Context, clubID, bookID, userID string) (*model.Club, error) {
	club, err := s.clubDAO.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !club.HasMember(userID) {
		return nil, fmt.Errorf("%w: %s", bookclub_errors.ErrNotMember, clubID)
	}
	if club.HasBook(bookID) {
		return club, nil
	}

	updated, err := s.clubDAO.AddBook(ctx, clubID, bookID)
	if err != nil {
		return nil, err
	}
	s.eventBus.Publish(ctx, util.TopicClubBookAdded, *updated)
	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:        userID,
		Action:        audit.ActionAddClubBook,
		ResourceType:  "club",
		ResourceID:    clubID,
		ChangeDetails: audit.Details(map[string]string{"bookId": bookID}),
	})
	return updated, nil
}

func (s *ClubService) RemoveBookFromClub(ctx context.Context, clubID, bookID, userID string) (*model.Club, error) {
	club, err := s.clubDAO.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !club.HasMember(userID) {
		return nil, fmt.Errorf("%w: %s", bookclub_errors.ErrNotMember, clubID)
	}
	if !club.HasBook(bookID) {
		return nil, fmt.Errorf("%w: %s", bookclub_errors.ErrBookNotInClub, bookID)
	}

	updated, err := s.clubDAO.RemoveBook(ctx, clubID, bookID)
	if err != nil {
		return nil, err
	}
	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:        userID,
		Action:        audit.ActionRemoveClubBook,
		ResourceType:  "club",
		ResourceID:    clubID,
		ChangeDetails: audit.Details(map[string]string{"bookId": bookID}),
	})
	return updated, nil
}

// DeleteClub is reserved to the club's owner.
func (s *ClubService) DeleteClub(ctx context.Context, clubID, userID string) error {
	club, err := s.clubDAO.GetClub(ctx, clubID)
	if err != nil {
		return err
	}
	if club.OwnerID != userID {
		return fmt.Errorf("%w: only the owner may delete club %s", bookclub_errors.ErrForbidden, clubID)
	}

	if err := s.clubDAO.DeleteClub(ctx, clubID); err != nil {
		return err
	}
	s.eventBus.Publish(ctx, util.TopicClubDeleted, *club)
	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:        userID,
		Action:        audit.ActionDeleteClub,
		ResourceType:  "club",
		ResourceID:    clubID,
		ChangeDetails: audit.Details(club),
	})
	logger.Info("Club deleted", zap.String("clubID", clubID), zap.String("userID", userID))
	return nil
}
