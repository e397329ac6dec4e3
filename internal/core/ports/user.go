package ports

import (
	"context"
	"time"

	"github.com/bookhive/api/internal/core/domain"
)

// UserRepository defines persistence for accounts and the follow graph.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	SetPermissions(ctx context.Context, userID uint, codenames []string) error

	// Follow is idempotent: an existing edge is not an error.
	Follow(ctx context.Context, followerID, followingID uint) (created bool, err error)
	Unfollow(ctx context.Context, followerID, followingID uint) error
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	Followers(ctx context.Context, userID uint, page domain.PageRequest) ([]*domain.User, int64, error)
	Following(ctx context.Context, userID uint, page domain.PageRequest) ([]*domain.User, int64, error)
}

// TokenDenylist records revoked token ids until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
