package repository

import (
	"context"

	"gorm.io/gorm"
)

type OrderCounterGormRepository struct {
	db *gorm.DB
}

func NewOrderCounterGormRepository(db *gorm.DB) *OrderCounterGormRepository {
	return &OrderCounterGormRepository{db: db}
}

// Next はその日の連番をアトミックに進める。
// 1文のUPSERTなので同時実行でも同じ番号は二度返らない。
func (r *OrderCounterGormRepository) Next(ctx context.Context, day string) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO order_counters (day, seq) VALUES (?, 1)
		 ON CONFLICT (day) DO UPDATE SET seq = order_counters.seq + 1
		 RETURNING seq`,
		day,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
