// dao/user_dao.go
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

type IUserDAO interface {
	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error)
}

type UserDAO struct {
	Driver neo4j.DriverWithContext
}

var _ IUserDAO = &UserDAO{}

func NewUserDAO(driver neo4j.DriverWithContext) *UserDAO {
	return &UserDAO{Driver: driver}
}

const userReturn = `
	OPTIONAL MATCH (u)-[:` + bookclub_neo4j.RelMemberOf + `]->(c:` + bookclub_neo4j.LabelClub + `)
	RETURN u, collect(DISTINCT c.id) AS clubs
`

// CreateUser stores a new user. Email and username must be unused.
func (dao *UserDAO) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	start := time.Now()
	logger.Info("Creating new user", zap.String("username", user.Username))

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	result, err := writeTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		existing, err := tx.Run(ctx, `
			MATCH (u:` + bookclub_neo4j.LabelUser + `)
			WHERE u.email = $email OR u.username = $username
			RETURN count(u) AS n
		`, map[string]any{"email": user.Email, "username": user.Username})
		if err != nil {
			return nil, err
		}
		record, err := existing.Single(ctx)
		if err != nil {
			return nil, err
		}
		if n, _ := record.Get("n"); n.(int64) > 0 {
			return nil, bookclub_errors.ErrUserConflict
		}

		res, err := tx.Run(ctx, `
			CREATE (u:` + bookclub_neo4j.LabelUser + ` {id: $id})
			SET u += $props
			RETURN u, [] AS clubs
		`, map[string]any{
			"id": user.ID,
			"props": map[string]any{
				"username":     user.Username,
				"email":        user.Email,
				"passwordHash": user.PasswordHash,
				"createdAt":    now(),
				"updatedAt":    now(),
			},
		})
		if err != nil {
			return nil, err
		}
		record, err = res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return mapRecordToUser(record)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
			zap.Duration("duration", duration))
		return nil, dbError(err, bookclub_errors.ErrUserConflict)
	}

	created := result.(*model.User)
	logger.Info("User created successfully",
		zap.String("userID", created.ID),
		zap.Duration("duration", duration))
	return created, nil
}

func (dao *UserDAO) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return dao.getOne(ctx, `MATCH (u:` + bookclub_neo4j.LabelUser + ` {id: $value})`, userID)
}

// GetUserByEmail is the login lookup; the result carries the password hash.
func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return dao.getOne(ctx, `MATCH (u:` + bookclub_neo4j.LabelUser + ` {email: $value})`, email)
}

func (dao *UserDAO) getOne(ctx context.Context, match, value string) (*model.User, error) {
	result, err := readTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, match+userReturn, map[string]any{"value": value})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, bookclub_errors.ErrUserNotFound
		}
		return mapRecordToUser(res.Record())
	})
	if err != nil {
		logger.Debug("User lookup failed", zap.Error(err))
		return nil, dbError(err, nil)
	}
	return result.(*model.User), nil
}

func (dao *UserDAO) GetUsersByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	return dao.list(ctx, `
		MATCH (u:` + bookclub_neo4j.LabelUser + `) WHERE u.id IN $ids
	`, map[string]any{"ids": ids}, func(a, b *model.User) bool { return a.Username < b.Username })
}

func (dao *UserDAO) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	return dao.list(ctx, `
		MATCH (u:` + bookclub_neo4j.LabelUser + `)
		WITH u ORDER BY u.createdAt DESC SKIP $offset LIMIT $limit
	`, map[string]any{"limit": limit, "offset": offset}, func(a, b *model.User) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (dao *UserDAO) list(ctx context.Context, match string, params map[string]any, less func(a, b *model.User) bool) ([]*model.User, error) {
	result, err := readTx(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, match+userReturn, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		users := make([]*model.User, 0, len(records))
		for _, record := range records {
			user, err := mapRecordToUser(record)
			if err != nil {
				return nil, err
			}
			users = append(users, user)
		}
		return users, nil
	})
	if err != nil {
		logger.Error("Failed to list users", zap.Error(err))
		return nil, dbError(err, nil)
	}
	users := result.([]*model.User)
	sort.SliceStable(users, func(i, j int) bool { return less(users[i], users[j]) })
	return users, nil
}

func mapRecordToUser(record *neo4j.Record) (*model.User, error) {
	p, err := nodeProps(recordValue(record, "u"))
	if err != nil {
		return nil, fmt.Errorf("failed to map user node: %w", err)
	}
	return &model.User{
		ID:           p.str("id"),
		Username:     p.str("username"),
		Email:        p.str("email"),
		PasswordHash: p.str("passwordHash"),
		Clubs:        stringList(recordValue(record, "clubs")),
		CreatedAt:    p.time("createdAt"),
		UpdatedAt:    p.time("updatedAt"),
	}, nil
}
