package repository

import (
	"context"

	"app/internal/domain/model"
)

type MenuListFilter struct {
	Page       int
	Limit      int
	Q          string
	Category   string
	ActiveOnly bool
}

type MenuRepository interface {
	FindByID(ctx context.Context, menuID int64) (model.Menu, error)
	FindByIDs(ctx context.Context, menuIDs []int64) ([]model.Menu, error)
	List(ctx context.Context, f MenuListFilter) ([]model.Menu, int64, error)
	Create(ctx context.Context, m model.Menu) (int64, error)
	Update(ctx context.Context, m model.Menu) error
	UpdateImageURL(ctx context.Context, menuID int64, imageURL string) error
	SoftDelete(ctx context.Context, menuID int64) error
}
