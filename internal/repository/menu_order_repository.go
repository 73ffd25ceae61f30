package repository

import (
	"context"

	"app/internal/domain/model"
)

type MenuOrderRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.MenuOrder) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.MenuOrder, error)
}
