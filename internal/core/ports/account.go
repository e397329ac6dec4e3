package ports

import (
	"context"
	"time"

	"github.com/bookhive/api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	Password2   string
	Bio         string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
}

// ProfileUpdate is a partial update: nil fields are left untouched.
type ProfileUpdate struct {
	Username       *string
	Bio            *string
	FirstName      *string
	LastName       *string
	ProfilePicture *string
	DateOfBirth    *time.Time
}

// TokenClaims is what a validated token resolves to.
type TokenClaims struct {
	Principal domain.Principal
	TokenID   string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, claims TokenClaims) error
	ParseToken(ctx context.Context, token string) (*TokenClaims, error)
	CreateSuperuser(ctx context.Context, email, username, password string) (*domain.User, error)
}

type AccountService interface {
	Profile(ctx context.Context, userID uint) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*domain.User, error)
	Follow(ctx context.Context, actor domain.Principal, targetID uint) (*domain.User, error)
	Unfollow(ctx context.Context, actor domain.Principal, targetID uint) (*domain.User, error)
	Followers(ctx context.Context, userID uint, page domain.PageRequest) (*domain.Page[*domain.User], error)
	Following(ctx context.Context, userID uint, page domain.PageRequest) (*domain.Page[*domain.User], error)
	SetRole(ctx context.Context, userID uint, role string) (*domain.User, error)
	SetPermissions(ctx context.Context, userID uint, codenames []string) (*domain.User, error)
}
