package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type OrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByPublicID(ctx context.Context, publicOrderID string) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)

	// Sweeperが使う。指定ステータスの注文を全件返す。
	ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)

	// 楽観的更新。fromのまま残っている行だけを書き換える。
	// 空振りは ErrStatusConflict。
	UpdateStatusIf(ctx context.Context, orderID int64, from, to model.OrderStatus, updatedAt time.Time) error

	// スリップ提出：ステータス遷移とslip_urlの設定を1文で行う。
	UpdateSlipIf(ctx context.Context, orderID int64, from, to model.OrderStatus, slipURL string, updatedAt time.Time) error

	// 管理者・スタッフ用の一覧
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	// ダッシュボード：期間内の完了注文の売上合計（サタン）
	SumCompletedAmount(ctx context.Context, from, to time.Time) (int64, error)
}
