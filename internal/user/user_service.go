package user

import (
	"context"
	"fmt"
	"strconv"

	"labtrack/internal/common"
	"labtrack/internal/dbmysql"
)

type UserService interface {
	RegisterUser(ctx context.Context, name, email, password string) (*dbmysql.User, string, error)
	LoginUser(ctx context.Context, email, password string) (*dbmysql.User, string, error)
	GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error)
}

type userService struct {
	userRepo dbmysql.UserRepository
	events   common.Subject
}

func NewUserService(userRepo dbmysql.UserRepository, events common.Subject) UserService {
	return &userService{userRepo: userRepo, events: events}
}

func (s *userService) RegisterUser(ctx context.Context, name, email, password string) (*dbmysql.User, string, error) {
	if err := common.ValidateName(name); err != nil {
		return nil, "", err
	}
	if err := common.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	exists, err := s.userRepo.CheckUserExists(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", common.NewValidationError("email", "already registered")
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &dbmysql.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Status:       "active",
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	userID := strconv.FormatUint(user.UserID, 10)
	token, err := common.GenerateToken(userID, user.Name)
	if err != nil {
		return nil, "", err
	}

	s.events.NotifyAsync(common.ActivityEvent{
		Type:        "user_created",
		Description: fmt.Sprintf("New user registered: %s", user.Name),
		ActorID:     userID,
		Meta:        map[string]interface{}{"category": "user"},
	})

	return user, token, nil
}

func (s *userService) LoginUser(ctx context.Context, email, password string) (*dbmysql.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", common.ErrNotFound
	}

	userID := strconv.FormatUint(user.UserID, 10)

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		// A bad password is still an auditable event.
		s.events.NotifyAsync(common.ActivityEvent{
			Type:        "failed_login_attempt",
			Description: fmt.Sprintf("Failed login attempt for %s", user.Email),
			ActorID:     userID,
			Meta:        map[string]interface{}{"category": "user"},
		})
		return nil, "", common.ErrNotFound
	}

	token, err := common.GenerateToken(userID, user.Name)
	if err != nil {
		return nil, "", err
	}

	s.events.NotifyAsync(common.ActivityEvent{
		Type:        "user_login",
		Description: fmt.Sprintf("%s logged in", user.Name),
		ActorID:     userID,
		Meta:        map[string]interface{}{"category": "user"},
	})

	return user, token, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}
