package repository

import (
	"context"

	"app/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, bool, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	List(ctx context.Context, page int, limit int) ([]model.User, int64, error)
	Create(ctx context.Context, u model.User) (int64, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	Deactivate(ctx context.Context, userID int64) error
	BumpTokenVersion(ctx context.Context, userID int64) error
}
