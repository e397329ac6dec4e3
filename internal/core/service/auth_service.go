package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookhive/api/internal/api/metrics"
	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

// AuthService implements registration, login and token handling.
type AuthService struct {
	users     ports.UserRepository
	denylist  ports.TokenDenylist
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// noDenylist is used by one-shot commands that never revoke or parse tokens.
type noDenylist struct{}

func (noDenylist) Revoke(context.Context, string, time.Duration) error { return nil }
func (noDenylist) IsRevoked(context.Context, string) (bool, error)     { return false, nil }

func NewAuthService(users ports.UserRepository, denylist ports.TokenDenylist, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if denylist == nil {
		denylist = noDenylist{}
	}
	return &AuthService{users: users, denylist: denylist, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	v := domain.NewValidationError()
	if email == "" {
		v.Add("email", "This field is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		v.Add("email", "Enter a valid email address.")
	}
	if username == "" {
		v.Add("username", "This field is required.")
	}
	if in.Password != in.Password2 {
		v.Add("password", "Password fields didn't match.")
	} else if err := validatePassword(in.Password, email, username); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			for _, msg := range ve.Fields["password"] {
				v.Add("password", msg)
			}
		}
	}
	if v.HasErrors() {
		return "", nil, v
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.FieldError("email", "user with this email already exists.")
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Bio:          in.Bio,
		DateOfBirth:  in.DateOfBirth,
		PasswordHash: string(hash),
		Role:         domain.RoleMember,
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			// lost a race with a concurrent registration; report the column that collided
			if _, ferr := s.users.FindByEmail(ctx, email); ferr == nil {
				return "", nil, domain.FieldError("email", "user with this email already exists.")
			}
			return "", nil, domain.FieldError("username", "A user with that username already exists.")
		}
		return "", nil, err
	}

	token, _, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	s.log.Info().Uint("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return token, created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, _, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims ports.TokenClaims) error {
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ParseToken validates the signature and expiry, rejects revoked tokens and
// reloads the user so role and permission changes apply immediately.
func (s *AuthService) ParseToken(ctx context.Context, raw string) (*ports.TokenClaims, error) {
	claims := jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid || claims.ExpiresAt == nil {
		return nil, domain.ErrUnauthorized
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("jti", claims.ID).Msg("denylist check failed, accepting token")
	} else if revoked {
		return nil, domain.ErrTokenRevoked
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized
	}

	return &ports.TokenClaims{
		Principal: principalOf(user),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// CreateSuperuser creates a staff account holding every permission.
func (s *AuthService) CreateSuperuser(ctx context.Context, email, username, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsStaff:      true,
		IsSuperuser:  true,
		IsActive:     true,
		Permissions:  append([]string(nil), domain.AllPermissions...),
		DateJoined:   now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("superuser created")
	return user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	return signed, jti, err
}

func principalOf(u *domain.User) domain.Principal {
	return domain.Principal{
		UserID:      u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		Permissions: append([]string(nil), u.Permissions...),
	}
}
