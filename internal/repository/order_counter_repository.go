package repository

import "context"

// 暦日ごとの連番。Nextはアトミックに +1 して新しい値を返す。
// 注文INSERTと同一トランザクションの中で呼ぶこと。
type OrderCounterRepository interface {
	Next(ctx context.Context, day string) (int64, error)
}
