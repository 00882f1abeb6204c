// service/review_service.go
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
)

type IReviewService interface {
	AddReview(ctx context.Context, review model.Review, author model.Identity) (*model.Review, error)
	DeleteReview(ctx context.Context, reviewID, userID string) error
	ListReviews(ctx context.Context, bookID string) ([]*model.Review, error)
}

type ReviewService struct {
	reviewDAO       dao.IReviewDAO
	clubDAO         dao.IClubDAO
	validationUtil  *util.ValidationUtil
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditService    audit.Service
}

var _ IReviewService = &ReviewService{}

func NewReviewService(
	reviewDAO dao.IReviewDAO,
	clubDAO dao.IClubDAO,
	validationUtil *util.ValidationUtil,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	auditService audit.Service,
) *ReviewService {
	service := &ReviewService{
		reviewDAO:       reviewDAO,
		clubDAO:         clubDAO,
		validationUtil:  validationUtil,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditService:    auditService,
	}
	eventBus.Subscribe(util.TopicReviewAdded, service.handleReviewAdded)
	return service
}

func (s *ReviewService) handleReviewAdded(ctx context.Context, event util.Event) error {
	review := event.Payload.(model.Review)
	if review.ClubID == "" {
		return nil
	}
	club, err := s.clubDAO.GetClub(ctx, review.ClubID)
	if err != nil {
		return err
	}
	return s.notificationSvc.NotifyClubMembers(ctx, review, club.Users)
}

// AddReview stores a review written by author. A review posted in a club
// requires membership of that club.
func (s *ReviewService) AddReview(ctx context.Context, review model.Review, author model.Identity) (*model.Review, error) {
	review.Text = strings.TrimSpace(review.Text)
	review.UserID = author.ID
	review.Username = author.Username
	if err := s.validationUtil.ValidateReview(review); err != nil {
		return nil, err
	}

	if review.ClubID != "" {
		club, err := s.clubDAO.GetClub(ctx, review.ClubID)
		if err != nil {
			return nil, err
		}
		if !club.HasMember(author.ID) {
			return nil, fmt.Errorf("%w: %s", bookclub_errors.ErrNotMember, review.ClubID)
		}
	}

	created, err := s.reviewDAO.CreateReview(ctx, review)
	if err != nil {
		logger.Error("Error creating review", zap.Error(err), zap.String("bookID", review.BookID))
		return nil, err
	}

	s.eventBus.Publish(ctx, util.TopicReviewAdded, *created)
	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:       author.ID,
		Action:       audit.ActionCreateReview,
		ResourceType: "review",
		ResourceID:   created.ID,
	})
	return created, nil
}

// DeleteReview is reserved to the review's author.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID string) error {
	review, err := s.reviewDAO.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return fmt.Errorf("%w: only the author may delete review %s", bookclub_errors.ErrForbidden, reviewID)
	}
	if err := s.reviewDAO.DeleteReview(ctx, reviewID); err != nil {
		return err
	}
	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:        userID,
		Action:        audit.ActionDeleteReview,
		ResourceType:  "review",
		ResourceID:    reviewID,
		ChangeDetails: audit.Details(review),
	})
	return nil
}

func (s *ReviewService) ListReviews(ctx context.Context, bookID string) ([]*model.Review, error) {
	return s.reviewDAO.ListReviewsByBook(ctx, bookID)
}
