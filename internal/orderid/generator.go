package orderid

import (
	"context"
	"fmt"

	"app/internal/clock"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// 連番が読めないときに諦めるまでの回数
const maxAttempts = 3

// CounterRepo は暦日キーの連番をアトミックに進める約束。
type CounterRepo interface {
	Next(ctx context.Context, day string) (int64, error)
}

type Generator struct {
	clock clock.Clock
	log   *zap.Logger
}

func NewGenerator(c clock.Clock, log *zap.Logger) *Generator {
	return &Generator{clock: c, log: log}
}

// Mint は ORD-YYYYMMDD-NNN を発番する。
// counters は注文INSERTと同じトランザクションのものを渡すこと。
// 連番が取れない場合は衝突しないフォールバック形式に切り替え、劣化をログに残す。
// 番号の見た目より注文を受け付けられることを優先する。
func (g *Generator) Mint(ctx context.Context, counters CounterRepo) string {
	day := clock.DayKey(g.clock.Now())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		seq, err := counters.Next(ctx, day)
		if err == nil {
			return fmt.Sprintf("ORD-%s-%03d", day, seq)
		}
		lastErr = err
	}

	id := g.Fallback()
	g.log.Warn("order id counter unavailable, using fallback id",
		zap.String("day", day),
		zap.String("fallback_id", id),
		zap.Error(lastErr),
	)
	return id
}

// Fallback はULID（時刻順＋乱数）ベースの注文番号。
// 通常形式と見分けがつくように ORD-F- を付ける。
func (g *Generator) Fallback() string {
	now := g.clock.Now()
	return "ORD-F-" + ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}
