package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type MenuOrderGormRepository struct {
	db *gorm.DB
}

func NewMenuOrderGormRepository(db *gorm.DB) *MenuOrderGormRepository {
	return &MenuOrderGormRepository{db: db}
}

func (r *MenuOrderGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.MenuOrder) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *MenuOrderGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.MenuOrder, error) {
	var items []model.MenuOrder
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.MenuOrder{}, err
	}
	return items, nil
}
