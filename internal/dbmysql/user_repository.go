package dbmysql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"labtrack/internal/common"

	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID uint64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CheckUserExists(ctx context.Context, email string) (bool, error)

	// DisplayByIDs resolves notification recipient/sender ids (decimal user
	// ids) to display projections. Unknown or malformed ids are skipped, not
	// errors: a notification may outlive its sender.
	DisplayByIDs(ctx context.Context, ids []string) (map[string]common.UserDisplay, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, userID uint64) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, "active").First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ? AND status = ?", email, "active").First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CheckUserExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) DisplayByIDs(ctx context.Context, ids []string) (map[string]common.UserDisplay, error) {
	numeric := make([]uint64, 0, len(ids))
	for _, id := range ids {
		parsed, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			continue
		}
		numeric = append(numeric, parsed)
	}

	result := make(map[string]common.UserDisplay, len(numeric))
	if len(numeric) == 0 {
		return result, nil
	}

	var users []*User
	if err := r.db.WithContext(ctx).Where("user_id IN ?", numeric).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}

	for _, u := range users {
		id := strconv.FormatUint(u.UserID, 10)
		result[id] = common.UserDisplay{ID: id, Name: u.Name, Email: u.Email}
	}
	return result, nil
}
