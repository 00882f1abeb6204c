// service/rating_service.go
package service

import (
	"context"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	"github.com/dev-mohitbeniwal/bookclub/dao"
	"github.com/dev-mohitbeniwal/bookclub/model"
	"github.com/dev-mohitbeniwal/bookclub/util"
)

// AverageRating summarises the ratings of one book.
type AverageRating struct {
	BookID  string  `json:"book_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type IRatingService interface {
	AddRating(ctx context.Context, rating model.Rating, userID string) (*model.Rating, error)
	ListRatings(ctx context.Context, bookID string) ([]*model.Rating, error)
	AverageRating(ctx context.Context, bookID string) (*AverageRating, error)
}

type RatingService struct {
	ratingDAO      dao.IRatingDAO
	validationUtil *util.ValidationUtil
	eventBus       *util.EventBus
	auditService   audit.Service
}

var _ IRatingService = &RatingService{}

func NewRatingService(ratingDAO dao.IRatingDAO, validationUtil *util.ValidationUtil, eventBus *util.EventBus, auditService audit.Service) *RatingService {
	return &RatingService{
		ratingDAO:      ratingDAO,
		validationUtil: validationUtil,
		eventBus:       eventBus,
		auditService:   auditService,
	}
}

func (s *RatingService) AddRating(ctx context.Context, rating model.Rating, userID string) (*model.Rating, error) {
	rating.UserID = userID
	if err := s.validationUtil.ValidateRating(rating); err != nil {
		return nil, err
	}

	saved, err := s.ratingDAO.UpsertRating(ctx, rating)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, util.TopicRatingAdded, *saved)
	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:        userID,
		Action:        audit.ActionRateBook,
		ResourceType:  "book",
		ResourceID:    rating.BookID,
		ChangeDetails: audit.Details(map[string]int{"value": rating.Value}),
	})
	return saved, nil
}

func (s *RatingService) ListRatings(ctx context.Context, bookID string) ([]*model.Rating, error) {
	return s.ratingDAO.ListRatingsByBook(ctx, bookID)
}

func (s *RatingService) AverageRating(ctx context.Context, bookID string) (*AverageRating, error) {
	average, count, err := s.ratingDAO.AverageRating(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &AverageRating{BookID: bookID, Average: average, Count: count}, nil
}
