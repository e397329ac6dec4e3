package sqldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a gorm-backed UserRepository.
func NewUserRepository(db *gorm.DB) ports.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	model := &UserModel{}
	model.FromDomain(user)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) findOne(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Preload("Permissions").Where(query, args...).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*domain.User, error) {
	out := make(map[uint]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var models []UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	for i := range models {
		out[models[i].ID] = models[i].ToDomain()
	}
	return out, nil
}

// Update saves profile columns. Permissions change only through SetPermissions.
func (r *userRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	model := &UserModel{}
	model.FromDomain(user)

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return r.FindByID(ctx, user.ID)
}

func (r *userRepository) SetPermissions(ctx context.Context, userID uint, codenames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&PermissionModel{}).Error; err != nil {
			return fmt.Errorf("clear permissions: %w", err)
		}
		if len(codenames) == 0 {
			return nil
		}
		rows := make([]PermissionModel, 0, len(codenames))
		for _, c := range codenames {
			rows = append(rows, PermissionModel{UserID: userID, Codename: c})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("grant permissions: %w", err)
		}
		return nil
	})
}

func (r *userRepository) Follow(ctx context.Context, followerID, followingID uint) (bool, error) {
	edge := &FollowModel{FollowerID: followerID, FollowingID: followingID, CreatedAt: time.Now().UTC()}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(edge)
	if res.Error != nil {
		return false, fmt.Errorf("follow: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) Unfollow(ctx context.Context, followerID, followingID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&FollowModel{}).Error
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

func (r *userRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&FollowModel{}).
		Where("follower_id = ?", userID).
		Order("following_id").
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("following ids: %w", err)
	}
	return ids, nil
}

func (r *userRepository) Followers(ctx context.Context, userID uint, page domain.PageRequest) ([]*domain.User, int64, error) {
	return r.edgeUsers(ctx, "follows.follower_id = users.id", "follows.following_id = ?", userID, page)
}

func (r *userRepository) Following(ctx context.Context, userID uint, page domain.PageRequest) ([]*domain.User, int64, error) {
	return r.edgeUsers(ctx, "follows.following_id = users.id", "follows.follower_id = ?", userID, page)
}

// edgeUsers lists the users on the other end of userID's follow edges, most
// recent edge first.
func (r *userRepository) edgeUsers(ctx context.Context, on, where string, userID uint, page domain.PageRequest) ([]*domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&UserModel{}).
		Joins("JOIN follows ON "+on).
		Where(where, userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count follow edges: %w", err)
	}

	var models []UserModel
	err := paginate(q.Select("users.*").Order("follows.created_at DESC").Order("users.id"), page).Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list follow edges: %w", err)
	}

	users := make([]*domain.User, 0, len(models))
	for i := range models {
		users = append(users, models[i].ToDomain())
	}
	return users, total, nil
}
