// dao/rating_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/model"
	bookclub_neo4j "github.com/dev-mohitbeniwal/bookclub/model/neo4j"
)

type IRatingDAO interface {
	UpsertRating(ctx context.Context, rating model.Rating) (*model.Rating, error)
	ListRatingsByBook(ctx context.Context, bookID string) ([]*model.Rating, error)
	AverageRating(ctx context.Context, bookID string) (float64, int, error)
}

type RatingDAO struct {
	Driver neo4j.DriverWithContext
}

var _ IRatingDAO = &RatingDAO{}

func NewRatingDAO(driver neo4j.DriverWithContext) *RatingDAO {
	return &RatingDAO{Driver: driver}
}

// UpsertRating keeps one rating per user and book; rating again overwrites
// the value.
func (dao *RatingDAO) UpsertRating(ctx context.Context, rating model.Rating) (*model.Rating, error) {
	start := time.Now()
	result, err := writeTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (u:` + bookclub_neo4j.LabelUser + ` {id: $userId})
			MATCH (b:` + bookclub_neo4j.LabelBook + ` {id: $bookId})
			MERGE (u)-[:` + bookclub_neo4j.RelGave + `]->(r:` + bookclub_neo4j.LabelRating + `)-[:` + bookclub_neo4j.RelFor + `]->(b)
			ON CREATE SET r.id = $id, r.createdAt = $now
			SET r.value = $value, r.updatedAt = $now
			RETURN r, u.id AS userId, b.id AS bookId
		`, map[string]any{
			"id":     uuid.New().String(),
			"userId": rating.UserID,
			"bookId": rating.BookID,
			"value":  rating.Value,
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
		return mapRecordToRating(res.Record())
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to save rating",
			zap.Error(err),
			zap.String("bookID", rating.BookID),
			zap.Duration("duration", duration))
		return nil, dbError(err, nil)
	}
	logger.Info("Rating saved",
		zap.String("bookID", rating.BookID),
		zap.Int("value", rating.Value),
		zap.Duration("duration", duration))
	return result.(*model.Rating), nil
}

func (dao *RatingDAO) ListRatingsByBook(ctx context.Context, bookID string) ([]*model.Rating, error) {
	result, err := readTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (u:` + bookclub_neo4j.LabelUser + `)-[:` + bookclub_neo4j.RelGave + `]->(r:` + bookclub_neo4j.LabelRating + `)-[:` + bookclub_neo4j.RelFor + `]->(b:` + bookclub_neo4j.LabelBook + ` {id: $bookId})
			RETURN r, u.id AS userId, b.id AS bookId
			ORDER BY r.createdAt DESC
		`, map[string]any{"bookId": bookID})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		ratings := make([]*model.Rating, 0, len(records))
		for _, record := range records {
			rating, err := mapRecordToRating(record)
			if err != nil {
				return nil, err
			}
			ratings = append(ratings, rating)
		}
		return ratings, nil
	})
	if err != nil {
		logger.Error("Failed to list ratings", zap.String("bookID", bookID), zap.Error(err))
		return nil, dbError(err, nil)
	}
	return result.([]*model.Rating), nil
}

// AverageRating returns the mean value and the number of ratings. A book
// with no ratings averages 0.
func (dao *RatingDAO) AverageRating(ctx context.Context, bookID string) (float64, int, error) {
	result, err := readTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			OPTIONAL MATCH (r:` + bookclub_neo4j.LabelRating + `)-[:` + bookclub_neo4j.RelFor + `]->(:` + bookclub_neo4j.LabelBook + ` {id: $bookId})
			RETURN coalesce(avg(r.value), 0.0) AS average, count(r) AS total
		`, map[string]any{"bookId": bookID})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		logger.Error("Failed to average ratings", zap.String("bookID", bookID), zap.Error(err))
		return 0, 0, dbError(err, nil)
	}
	record := result.(*neo4j.Record)
	average, _ := recordValue(record, "average").(float64)
	total, _ := recordValue(record, "total").(int64)
	return average, int(total), nil
}

func mapRecordToRating(record *neo4j.Record) (*model.Rating, error) {
	p, err := nodeProps(recordValue(record, "r"))
	if err != nil {
		return nil, fmt.Errorf("failed to map rating node: %w", err)
	}
	userID, _ := recordValue(record, "userId").(string)
	bookID, _ := recordValue(record, "bookId").(string)
	return &model.Rating{
		ID:        p.str("id"),
		BookID:    bookID,
		UserID:    userID,
		Value:     p.int("value"),
		CreatedAt: p.time("createdAt"),
	}, nil
}
