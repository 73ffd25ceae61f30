package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type PurchaseGormRepository struct {
	db *gorm.DB
}

func NewPurchaseGormRepository(db *gorm.DB) *PurchaseGormRepository {
	return &PurchaseGormRepository{db: db}
}

func (r *PurchaseGormRepository) FindByID(ctx context.Context, purchaseID int64) (model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).Where("id = ?", purchaseID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Purchase{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Purchase{}, err
	}
	return p, nil
}

func (r *PurchaseGormRepository) List(ctx context.Context, f repo.PurchaseListFilter) ([]model.Purchase, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Purchase{})

	if f.From != nil {
		q = q.Where("purchased_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("purchased_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Purchase{}, 0, err
	}

	var items []model.Purchase
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("purchased_at desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Purchase{}, 0, err
	}

	return items, total, nil
}

func (r *PurchaseGormRepository) Create(ctx context.Context, p model.Purchase) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *PurchaseGormRepository) Delete(ctx context.Context, purchaseID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", purchaseID).Delete(&model.Purchase{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PurchaseGormRepository) SumCost(ctx context.Context, from, to time.Time) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("COALESCE(SUM(total_cost), 0)").
		Where("purchased_at BETWEEN ? AND ?", from, to).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}
