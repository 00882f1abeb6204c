// dao/neo4j.go
package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	bookclub_neo4j "github.com/dev-mohitbeniwal/bookclub/model/neo4j"
	helper_util "github.com/dev-mohitbeniwal/bookclub/util/helper"
)

const constraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

// EnsureConstraints creates the uniqueness constraints the DAOs rely on.
func EnsureConstraints(ctx context.Context, driver neo4j.DriverWithContext) error {
	statements := []string{
		`CREATE CONSTRAINT unique_user_id IF NOT EXISTS FOR (u:` + bookclub_neo4j.LabelUser + `) REQUIRE u.id IS UNIQUE`,
		`CREATE CONSTRAINT unique_user_email IF NOT EXISTS FOR (u:` + bookclub_neo4j.LabelUser + `) REQUIRE u.email IS UNIQUE`,
		`CREATE CONSTRAINT unique_user_username IF NOT EXISTS FOR (u:` + bookclub_neo4j.LabelUser + `) REQUIRE u.username IS UNIQUE`,
		`CREATE CONSTRAINT unique_club_id IF NOT EXISTS FOR (c:` + bookclub_neo4j.LabelClub + `) REQUIRE c.id IS UNIQUE`,
		`CREATE CONSTRAINT unique_book_id IF NOT EXISTS FOR (b:` + bookclub_neo4j.LabelBook + `) REQUIRE b.id IS UNIQUE`,
		`CREATE CONSTRAINT unique_book_isbn IF NOT EXISTS FOR (b:` + bookclub_neo4j.LabelBook + `) REQUIRE b.isbn IS UNIQUE`,
		`CREATE CONSTRAINT unique_review_id IF NOT EXISTS FOR (r:` + bookclub_neo4j.LabelReview + `) REQUIRE r.id IS UNIQUE`,
		`CREATE CONSTRAINT unique_rating_id IF NOT EXISTS FOR (r:` + bookclub_neo4j.LabelRating + `) REQUIRE r.id IS UNIQUE`,
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range statements {
		res, err := session.Run(ctx, stmt, nil)
		if err == nil {
			_, err = res.Consume(ctx)
		}
		if err != nil {
			logger.Error("Failed to ensure constraint", zap.String("statement", stmt), zap.Error(err))
			return fmt.Errorf("%w: %v", bookclub_errors.ErrDatabaseOperation, err)
		}
	}
	logger.Info("Neo4j constraints ensured", zap.Int("count", len(statements)))
	return nil
}

func writeTx(ctx context.Context, driver neo4j.DriverWithContext, work neo4j.ManagedTransactionWork) (any, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	return session.ExecuteWrite(ctx, work)
}

func readTx(ctx context.Context, driver neo4j.DriverWithContext, work neo4j.ManagedTransactionWork) (any, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)
	return session.ExecuteRead(ctx, work)
}

// dbError keeps sentinel errors raised inside a transaction, maps unique
// constraint violations to onConflict and wraps everything else as a
// database failure.
func dbError(err error, onConflict error) error {
	if err == nil {
		return nil
	}
	var neoErr *neo4j.Neo4jError
	if onConflict != nil && errors.As(err, &neoErr) && neoErr.Code == constraintViolation {
		return fmt.Errorf("%w: %s", onConflict, neoErr.Msg)
	}
	for _, sentinel := range passThrough {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", bookclub_errors.ErrDatabaseOperation, err)
}

var passThrough = []error{
	bookclub_errors.ErrUserNotFound,
	bookclub_errors.ErrUserConflict,
	bookclub_errors.ErrBookNotFound,
	bookclub_errors.ErrBookConflict,
	bookclub_errors.ErrClubNotFound,
	bookclub_errors.ErrReviewNotFound,
}

// props reads typed values out of a node's property map.
type props map[string]any

func nodeProps(v any) (props, error) {
	node, ok := v.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("%w: expected node, got %T", bookclub_errors.ErrDatabaseOperation, v)
	}
	return props(node.Props), nil
}

func (p props) str(key string) string {
	s, _ := p[key].(string)
	return s
}

func (p props) int(key string) int {
	switch v := p[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func (p props) time(key string) time.Time {
	t, err := helper_util.ParseTime(p[key])
	if err != nil {
		logger.Warn("Unreadable timestamp property", zap.String("key", key), zap.Error(err))
	}
	return t
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func recordValue(record *neo4j.Record, key string) any {
	v, _ := record.Get(key)
	return v
}

func now() string {
	return helper_util.FormatTime(time.Now())
}
