// dao/club_dao.go
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

type IClubDAO interface {
	CreateClub(ctx context.Context, club model.Club) (*model.Club, error)
	GetClub(ctx context.Context, clubID string) (*model.Club, error)
	GetClubsByIDs(ctx context.Context, ids []string) ([]*model.Club, error)
	ListClubs(ctx context.Context, limit, offset int) ([]*model.Club, error)
	AddMember(ctx context.Context, clubID, userID string) (*model.Club, error)
	RemoveMember(ctx context.Context, clubID, userID string) (*model.Club, error)
	AddBook(ctx context.Context, clubID, bookID string) (*model.Club, error)
	RemoveBook(ctx context.Context, clubID, bookID string) (*model.Club, error)
	DeleteClub(ctx context.Context, clubID string) error
}

type ClubDAO struct {
	Driver neo4j.DriverWithContext
}

var _ IClubDAO = &ClubDAO{}

func NewClubDAO(driver neo4j.DriverWithContext) *ClubDAO {
	return &ClubDAO{Driver: driver}
}

// clubReturn derives the users and books arrays from relationships.
const clubReturn = `
	OPTIONAL MATCH (owner:` + bookclub_neo4j.LabelUser + `)-[:` + bookclub_neo4j.RelOwns + `]->(c)
	OPTIONAL MATCH (m:` + bookclub_neo4j.LabelUser + `)-[:` + bookclub_neo4j.RelMemberOf + `]->(c)
	WITH c, owner, collect(DISTINCT m.id) AS users
	OPTIONAL MATCH (c)-[:` + bookclub_neo4j.RelReading + `]->(b:` + bookclub_neo4j.LabelBook + `)
	RETURN c, owner.id AS ownerId, users, collect(DISTINCT b.id) AS books
`

// CreateClub stores a club owned by club.OwnerID. The owner is also its
// first member.
func (dao *ClubDAO) CreateClub(ctx context.Context, club model.Club) (*model.Club, error) {
	start := time.Now()
	logger.Info("Creating new club", zap.String("name", club.Name), zap.String("ownerID", club.OwnerID))

	if club.ID == "" {
		club.ID = uuid.New().String()
	}

	result, err := writeTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (owner:` + bookclub_neo4j.LabelUser + ` {id: $ownerId})
			CREATE (c:` + bookclub_neo4j.LabelClub + ` {id: $id})
			SET c += $props
			MERGE (owner)-[:` + bookclub_neo4j.RelOwns + `]->(c)
			MERGE (owner)-[:` + bookclub_neo4j.RelMemberOf + `]->(c)
			RETURN c.id AS id
		`, map[string]any{
			"id":      club.ID,
			"ownerId": club.OwnerID,
			"props": map[string]any{
				"name":        club.Name,
				"description": club.Description,
				"createdAt":   now(),
				"updatedAt":   now(),
			},
		})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, bookclub_errors.ErrUserNotFound
		}
		return dao.fetch(ctx, tx, club.ID)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create club",
			zap.Error(err),
			zap.String("name", club.Name),
			zap.Duration("duration", duration))
		return nil, dbError(err, nil)
	}

	logger.Info("Club created successfully",
		zap.String("clubID", club.ID),
		zap.Duration("duration", duration))
	return result.(*model.Club), nil
}

func (dao *ClubDAO) GetClub(ctx context.Context, clubID string) (*model.Club, error) {
	result, err := readTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		return dao.fetch(ctx, tx, clubID)
	})
	if err != nil {
		return nil, dbError(err, nil)
	}
	return result.(*model.Club), nil
}

func (dao *ClubDAO) GetClubsByIDs(ctx context.Context, ids []string) ([]*model.Club, error) {
	if len(ids) == 0 {
		return []*model.Club{}, nil
	}
	return dao.list(ctx, `
		MATCH (c:` + bookclub_neo4j.LabelClub + `) WHERE c.id IN $ids
	`, map[string]any{"ids": ids}, func(a, b *model.Club) bool { return a.Name < b.Name })
}

func (dao *ClubDAO) ListClubs(ctx context.Context, limit, offset int) ([]*model.Club, error) {
	return dao.list(ctx, `
		MATCH (c:` + bookclub_neo4j.LabelClub + `)
		WITH c ORDER BY c.createdAt DESC SKIP $offset LIMIT $limit
	`, map[string]any{"limit": limit, "offset": offset}, newestClubFirst)
}

func (dao *ClubDAO) AddMember(ctx context.Context, clubID, userID string) (*model.Club, error) {
	return dao.link(ctx, "add member", clubID, `
		MATCH (c:` + bookclub_neo4j.LabelClub + ` {id: $clubId})
		MATCH (u:` + bookclub_neo4j.LabelUser + ` {id: $otherId})
		MERGE (u)-[:` + bookclub_neo4j.RelMemberOf + `]->(c)
		SET c.updatedAt = $now
		RETURN c.id AS id
	`, userID, bookclub_errors.ErrUserNotFound)
}

func (dao *ClubDAO) RemoveMember(ctx context.Context, clubID, userID string) (*model.Club, error) {
	return dao.link(ctx, "remove member", clubID, `
		MATCH (c:` + bookclub_neo4j.LabelClub + ` {id: $clubId})
		OPTIONAL MATCH (:` + bookclub_neo4j.LabelUser + ` {id: $otherId})-[r:` + bookclub_neo4j.RelMemberOf + `]->(c)
		DELETE r
		SET c.updatedAt = $now
		RETURN c.id AS id
	`, userID, bookclub_errors.ErrClubNotFound)
}

func (dao *ClubDAO) AddBook(ctx context.Context, clubID, bookID string) (*model.Club, error) {
	return dao.link(ctx, "add book", clubID, `
		MATCH (c:` + bookclub_neo4j.LabelClub + ` {id: $clubId})
		MATCH (b:` + bookclub_neo4j.LabelBook + ` {id: $otherId})
		MERGE (c)-[:` + bookclub_neo4j.RelReading + `]->(b)
		SET c.updatedAt = $now
		RETURN c.id AS id
	`, bookID, bookclub_errors.ErrBookNotFound)
}

func (dao *ClubDAO) RemoveBook(ctx context.Context, clubID, bookID string) (*model.Club, error) {
	return dao.link(ctx, "remove book", clubID, `
		MATCH (c:` + bookclub_neo4j.LabelClub + ` {id: $clubId})
		OPTIONAL MATCH (c)-[r:` + bookclub_neo4j.RelReading + `]->(:` + bookclub_neo4j.LabelBook + ` {id: $otherId})
		DELETE r
		SET c.updatedAt = $now
		RETURN c.id AS id
	`, bookID, bookclub_errors.ErrClubNotFound)
}

// link runs a relationship mutation and returns the club as it stands after.
// An empty match means either the club or the other node is missing.
func (dao *ClubDAO) link(ctx context.Context, op, clubID, cypher, otherID string, missing error) (*model.Club, error) {
	start := time.Now()
	result, err := writeTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := dao.exists(ctx, tx, clubID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, bookclub_errors.ErrClubNotFound
		}

		res, err := tx.Run(ctx, cypher, map[string]any{
			"clubId":  clubID,
			"otherId": otherID,
			"now":     now(),
		})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, missing
		}
		return dao.fetch(ctx, tx, clubID)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update club",
			zap.String("operation", op),
			zap.String("clubID", clubID),
			zap.String("otherID", otherID),
			zap.Error(err),
			zap.Duration("duration", duration))
		return nil, dbError(err, nil)
	}
	logger.Info("Club updated",
		zap.String("operation", op),
		zap.String("clubID", clubID),
		zap.Duration("duration", duration))
	return result.(*model.Club), nil
}

// DeleteClub removes the club and its relationships. Reviews posted in the
// club survive; they still describe their book.
func (dao *ClubDAO) DeleteClub(ctx context.Context, clubID string) error {
	start := time.Now()
	_, err := writeTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (c:` + bookclub_neo4j.LabelClub + ` {id: $id})
			DETACH DELETE c
			RETURN count(*) AS deleted
		`, map[string]any{"id": clubID})
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		if summary.Counters().NodesDeleted() == 0 {
			return nil, bookclub_errors.ErrClubNotFound
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to delete club", zap.String("clubID", clubID), zap.Error(err))
		return dbError(err, nil)
	}
	logger.Info("Club deleted", zap.String("clubID", clubID), zap.Duration("duration", time.Since(start)))
	return nil
}

func (dao *ClubDAO) exists(ctx context.Context, tx neo4j.ManagedTransaction, clubID string) (bool, error) {
	res, err := tx.Run(ctx, `MATCH (c:` + bookclub_neo4j.LabelClub + ` {id: $id}) RETURN c.id`, map[string]any{"id": clubID})
	if err != nil {
		return false, err
	}
	found := res.Next(ctx)
	return found, res.Err()
}

func (dao *ClubDAO) fetch(ctx context.Context, tx neo4j.ManagedTransaction, clubID string) (*model.Club, error) {
	res, err := tx.Run(ctx, `MATCH (c:` + bookclub_neo4j.LabelClub + ` {id: $id})`+clubReturn, map[string]any{"id": clubID})
	if err != nil {
		return nil, err
	}
	if !res.Next(ctx) {
		if err := res.Err(); err != nil {
			return nil, err
		}
		return nil, bookclub_errors.ErrClubNotFound
	}
	return mapRecordToClub(res.Record())
}

// list runs match followed by clubReturn. Aggregation drops row order, so
// the page is re-sorted with less.
func (dao *ClubDAO) list(ctx context.Context, match string, params map[string]any, less func(a, b *model.Club) bool) ([]*model.Club, error) {
	result, err := readTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, match+clubReturn, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		clubs := make([]*model.Club, 0, len(records))
		for _, record := range records {
			club, err := mapRecordToClub(record)
			if err != nil {
				return nil, err
			}
			clubs = append(clubs, club)
		}
		return clubs, nil
	})
	if err != nil {
		logger.Error("Failed to list clubs", zap.Error(err))
		return nil, dbError(err, nil)
	}
	clubs := result.([]*model.Club)
	sort.SliceStable(clubs, func(i, j int) bool { return less(clubs[i], clubs[j]) })
	return clubs, nil
}

func newestClubFirst(a, b *model.Club) bool {
	return a.CreatedAt.After(b.CreatedAt)
}

func mapRecordToClub(record *neo4j.Record) (*model.Club, error) {
	p, err := nodeProps(recordValue(record, "c"))
	if err != nil {
		return nil, fmt.Errorf("failed to map club node: %w", err)
	}
	ownerID, _ := recordValue(record, "ownerId").(string)
	return &model.Club{
		ID:          p.str("id"),
		Name:        p.str("name"),
		Description: p.str("description"),
		OwnerID:     ownerID,
		Users:       stringList(recordValue(record, "users")),
		Books:       stringList(recordValue(record, "books")),
		CreatedAt:   p.time("createdAt"),
		UpdatedAt:   p.time("updatedAt"),
	}, nil
}
