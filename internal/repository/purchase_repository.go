package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type PurchaseListFilter struct {
	Page  int
	Limit int
	From  *time.Time
	To    *time.Time
}

type PurchaseRepository interface {
	FindByID(ctx context.Context, purchaseID int64) (model.Purchase, error)
	List(ctx context.Context, f PurchaseListFilter) ([]model.Purchase, int64, error)
	Create(ctx context.Context, p model.Purchase) (int64, error)
	Delete(ctx context.Context, purchaseID int64) error

	// ダッシュボード：期間内の仕入れ合計（サタン）
	SumCost(ctx context.Context, from, to time.Time) (int64, error)
}
