// dao/book_dao.go
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

type IBookDAO interface {
	CreateBook(ctx context.Context, book model.Book) (*model.Book, error)
	GetBook(ctx context.Context, bookID string) (*model.Book, error)
	GetBooksByIDs(ctx context.Context, ids []string) ([]*model.Book, error)
	ListBooks(ctx context.Context, limit, offset int) ([]*model.Book, error)
}

type BookDAO struct {
	Driver neo4j.DriverWithContext
}

var _ IBookDAO = &BookDAO{}

func NewBookDAO(driver neo4j.DriverWithContext) *BookDAO {
	return &BookDAO{Driver: driver}
}

// CreateBook stores a book. ISBNs are unique; a duplicate is ErrBookConflict.
func (dao *BookDAO) CreateBook(ctx context.Context, book model.Book) (*model.Book, error) {
	start := time.Now()
	logger.Info("Creating new book", zap.String("isbn", book.ISBN))

	if book.ID == "" {
		book.ID = uuid.New().String()
	}

	result, err := writeTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			CREATE (b:` + bookclub_neo4j.LabelBook + ` {id: $id})
			SET b += $props
			RETURN b
		`, map[string]any{
			"id": book.ID,
			"props": map[string]any{
				"isbn":        book.ISBN,
				"title":       book.Title,
				"author":      book.Author,
				"description": book.Description,
				"imageUrl":    book.ImageURL,
				"createdAt":   now(),
			},
		})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return mapRecordToBook(record)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create book",
			zap.Error(err),
			zap.String("isbn", book.ISBN),
			zap.Duration("duration", duration))
		return nil, dbError(err, bookclub_errors.ErrBookConflict)
	}

	logger.Info("Book created successfully",
		zap.String("bookID", book.ID),
		zap.Duration("duration", duration))
	return result.(*model.Book), nil
}

func (dao *BookDAO) GetBook(ctx context.Context, bookID string) (*model.Book, error) {
	books, err := dao.query(ctx, `MATCH (b:` + bookclub_neo4j.LabelBook + ` {id: $id}) RETURN b`, map[string]any{"id": bookID})
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, bookclub_errors.ErrBookNotFound
	}
	return books[0], nil
}

func (dao *BookDAO) GetBooksByIDs(ctx context.Context, ids []string) ([]*model.Book, error) {
	if len(ids) == 0 {
		return []*model.Book{}, nil
	}
	return dao.query(ctx, `
		MATCH (b:` + bookclub_neo4j.LabelBook + `) WHERE b.id IN $ids
		RETURN b ORDER BY b.title
	`, map[string]any{"ids": ids})
}

func (dao *BookDAO) ListBooks(ctx context.Context, limit, offset int) ([]*model.Book, error) {
	return dao.query(ctx, `
		MATCH (b:` + bookclub_neo4j.LabelBook + `)
		RETURN b ORDER BY b.createdAt DESC SKIP $offset LIMIT $limit
	`, map[string]any{"limit": limit, "offset": offset})
}

func (dao *BookDAO) query(ctx context.Context, cypher string, params map[string]any) ([]*model.Book, error) {
	result, err := readTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		books := make([]*model.Book, 0, len(records))
		for _, record := range records {
			book, err := mapRecordToBook(record)
			if err != nil {
				return nil, err
			}
			books = append(books, book)
		}
		return books, nil
	})
	if err != nil {
		logger.Error("Failed to query books", zap.Error(err))
		return nil, dbError(err, nil)
	}
	return result.([]*model.Book), nil
}

func mapRecordToBook(record *neo4j.Record) (*model.Book, error) {
	p, err := nodeProps(recordValue(record, "b"))
	if err != nil {
		return nil, fmt.Errorf("failed to map book node: %w", err)
	}
	return &model.Book{
		ID:          p.str("id"),
		ISBN:        p.str("isbn"),
		Title:       p.str("title"),
		Author:      p.str("author"),
		Description: p.str("description"),
		ImageURL:    p.str("imageUrl"),
		CreatedAt:   p.time("createdAt"),
	}, nil
}
