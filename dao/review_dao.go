// dao/review_dao.go
package dao

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/model"
	bookclub_neo4j "github.com/dev-mohitbeniwal/bookclub/model/neo4j"
)

type IReviewDAO interface {
	CreateReview(ctx context.Context, review model.Review) (*model.Review, error)
	GetReview(ctx context.Context, reviewID string) (*model.Review, error)
	ListReviewsByBook(ctx context.Context, bookID string) ([]*model.Review, error)
	DeleteReview(ctx context.Context, reviewID string) error
}

type ReviewDAO struct {
	Driver neo4j.DriverWithContext
}

var _ IReviewDAO = &ReviewDAO{}

func NewReviewDAO(driver neo4j.DriverWithContext) *ReviewDAO {
	return &ReviewDAO{Driver: driver}
}

const reviewReturn = `
	MATCH (author:` + bookclub_neo4j.LabelUser + `)-[:` + bookclub_neo4j.RelWrote + `]->(r)-[:` + bookclub_neo4j.RelAbout + `]->(b:` + bookclub_neo4j.LabelBook + `)
	OPTIONAL MATCH (r)-[:` + bookclub_neo4j.RelPostedIn + `]->(c:` + bookclub_neo4j.LabelClub + `)
	RETURN r, author.id AS userId, author.username AS username, b.id AS bookId, c.id AS clubId
`

func (dao *ReviewDAO) CreateReview(ctx context.Context, review model.Review) (*model.Review, error) {
	start := time.Now()
	if review.ID == "" {
		review.ID = uuid.New().String()
	}

	result, err := writeTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (u:` + bookclub_neo4j.LabelUser + ` {id: $userId})
			MATCH (b:` + bookclub_neo4j.LabelBook + ` {id: $bookId})
			CREATE (u)-[:` + bookclub_neo4j.RelWrote + `]->(r:` + bookclub_neo4j.LabelReview + ` {id: $id, text: $text, createdAt: $now})-[:` + bookclub_neo4j.RelAbout + `]->(b)
			RETURN r.id AS id
		`, map[string]any{
			"id":     review.ID,
			"userId": review.UserID,
			"bookId": review.BookID,
			"text":   review.Text,
			"now":    now(),
		})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, bookclub_errors.ErrBookNotFound
		}

		if review.ClubID != "" {
			res, err := tx.Run(ctx, `
				MATCH (r:` + bookclub_neo4j.LabelReview + ` {id: $id})
				MATCH (c:` + bookclub_neo4j.LabelClub + ` {id: $clubId})
				MERGE (r)-[:` + bookclub_neo4j.RelPostedIn + `]->(c)
				RETURN c.id
			`, map[string]any{"id": review.ID, "clubId": review.ClubID})
			if err != nil {
				return nil, err
			}
			if !res.Next(ctx) {
				if err := res.Err(); err != nil {
					return nil, err
				}
				return nil, bookclub_errors.ErrClubNotFound
			}
		}
		return dao.fetch(ctx, tx, review.ID)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create review",
			zap.Error(err),
			zap.String("bookID", review.BookID),
			zap.Duration("duration", duration))
		return nil, dbError(err, nil)
	}
	logger.Info("Review created successfully",
		zap.String("reviewID", review.ID),
		zap.Duration("duration", duration))
	return result.(*model.Review), nil
}

func (dao *ReviewDAO) GetReview(ctx context.Context, reviewID string) (*model.Review, error) {
	result, err := readTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		return dao.fetch(ctx, tx, reviewID)
	})
	if err != nil {
		return nil, dbError(err, nil)
	}
	return result.(*model.Review), nil
}

func (dao *ReviewDAO) ListReviewsByBook(ctx context.Context, bookID string) ([]*model.Review, error) {
	result, err := readTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (r:` + bookclub_neo4j.LabelReview + `)-[:` + bookclub_neo4j.RelAbout + `]->(:` + bookclub_neo4j.LabelBook + ` {id: $bookId})
		`+reviewReturn, map[string]any{"bookId": bookID})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		reviews := make([]*model.Review, 0, len(records))
		for _, record := range records {
			review, err := mapRecordToReview(record)
			if err != nil {
				return nil, err
			}
			reviews = append(reviews, review)
		}
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		})
		return reviews, nil
	})
	if err != nil {
		logger.Error("Failed to list reviews", zap.String("bookID", bookID), zap.Error(err))
		return nil, dbError(err, nil)
	}
	return result.([]*model.Review), nil
}

func (dao *ReviewDAO) DeleteReview(ctx context.Context, reviewID string) error {
	_, err := writeTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (r:` + bookclub_neo4j.LabelReview + ` {id: $id}) DETACH DELETE r`, map[string]any{"id": reviewID})
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		if summary.Counters().NodesDeleted() == 0 {
			return nil, bookclub_errors.ErrReviewNotFound
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to delete review", zap.String("reviewID", reviewID), zap.Error(err))
		return dbError(err, nil)
	}
	logger.Info("Review deleted", zap.String("reviewID", reviewID))
	return nil
}

func (dao *ReviewDAO) fetch(ctx context.Context, tx neo4j.ManagedTransaction, reviewID string) (*model.Review, error) {
	res, err := tx.Run(ctx, `MATCH (r:` + bookclub_neo4j.LabelReview + ` {id: $id})`+reviewReturn, map[string]any{"id": reviewID})
	if err != nil {
		return nil, err
	}
	if !res.Next(ctx) {
		if err := res.Err(); err != nil {
			return nil, err
		}
		return nil, bookclub_errors.ErrReviewNotFound
	}
	return mapRecordToReview(res.Record())
}

func mapRecordToReview(record *neo4j.Record) (*model.Review, error) {
	p, err := nodeProps(recordValue(record, "r"))
	if err != nil {
		return nil, fmt.Errorf("failed to map review node: %w", err)
	}
	str := func(key string) string {
		s, _ := recordValue(record, key).(string)
		return s
	}
	return &model.Review{
		ID:        p.str("id"),
		BookID:    str("bookId"),
		ClubID:    str("clubId"),
		UserID:    str("userId"),
		Username:  str("username"),
		Text:      p.str("text"),
		CreatedAt: p.time("createdAt"),
	}, nil
}
