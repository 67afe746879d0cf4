package services

import (
	"context"

	"github.com/Aarti-panchal01/Khoj/types"
)

// UserStore defines the entity-store operations user use-cases need.
type UserStore interface {
	CreateUser(ctx context.Context, data types.User) (types.User, error)
	LoginUser(ctx context.Context, email, password string) (types.User, error)
	CurrentUser(ctx context.Context) (*types.User, error)
	LogoutUser(ctx context.Context) error
	UpdateUser(ctx context.Context, userID string, upd types.UserUpdate) (types.User, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Register(ctx context.Context, data types.User) (types.User, error) {
	return s.store.CreateUser(ctx, data)
}

func (s *UserService) Login(ctx context.Context, email, password string) (types.User, error) {
	return s.store.LoginUser(ctx, email, password)
}

func (s *UserService) Current(ctx context.Context) (*types.User, error) {
	return s.store.CurrentUser(ctx)
}

func (s *UserService) Logout(ctx context.Context) error {
	return s.store.LogoutUser(ctx)
}

func (s *UserService) Update(ctx context.Context, userID string, upd types.UserUpdate) (types.User, error) {
	return s.store.UpdateUser(ctx, userID, upd)
}
