// util/cache_service.go

package util

import (
	"context"

	"github.com/dev-mohitbeniwal/bookclub/db"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

// UserCache is the read-through cache the user service consults before Neo4j.
type UserCache interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	SetUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, userID string) error
}

// CacheService keeps encrypted user records in Redis.
type CacheService struct{}

var _ UserCache = (*CacheService)(nil)

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) SetUser(ctx context.Context, user model.User) error {
	return db.CacheUser(ctx, &user)
}

func (c *CacheService) DeleteUser(ctx context.Context, userID string) error {
	return db.DeleteCachedUser(ctx, userID)
}

func (c *CacheService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return db.GetCachedUser(ctx, userID)
}
