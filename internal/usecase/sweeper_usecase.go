package usecase

import (
	"context"
	"errors"

	"app/internal/clock"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"go.uber.org/zap"
)

// SweeperUsecase は支払い期限切れの注文を payment_timeout に倒す定期ジョブの本体。
// 起動は外部スケジューラから（認証はhandlerで済んでいる前提）。
type SweeperUsecase struct {
	orderRepo repo.OrderRepository
	notifRepo repo.NotificationRepository
	userRepo  repo.UserRepository
	clock     clock.Clock
	log       *zap.Logger
}

func NewSweeperUsecase(
	orderRepo repo.OrderRepository,
	notifRepo repo.NotificationRepository,
	userRepo repo.UserRepository,
	c clock.Clock,
	log *zap.Logger,
) *SweeperUsecase {
	return &SweeperUsecase{
		orderRepo: orderRepo,
		notifRepo: notifRepo,
		userRepo:  userRepo,
		clock:     c,
		log:       log,
	}
}

type SweepSummary struct {
	// タイムアウトに倒した件数
	TimedOut int `json:"timed_out"`

	// 走査したが期限内だった件数
	StillWithinDeadline int `json:"still_within_deadline"`

	// 更新の瞬間に状態が変わっていて見送った件数（支払いとの競合など）
	Skipped int `json:"skipped"`

	// 更新エラーになった注文ID
	FailedOrderIDs []int64 `json:"failed_order_ids"`
}

// Sweep は awaiting_payment の注文を走査して、期限切れを payment_timeout に倒す。
// 期限 = 受け取り予定時刻 - 12時間。
// 更新は「まだ awaiting_payment のままの行だけ」に条件付けるので、
// 直前に支払いが提出された注文を誤って倒すことはないし、二度走っても冪等。
func (u *SweeperUsecase) Sweep(ctx context.Context) (SweepSummary, error) {
	now := u.clock.Now()
	summary := SweepSummary{FailedOrderIDs: []int64{}}

	orders, err := u.orderRepo.ListByStatus(ctx, model.StatusAwaitingPayment)
	if err != nil {
		return summary, &DependencyError{Op: "list awaiting_payment orders", Err: err}
	}

	// タイムアウト通知は管理者にも届ける
	admins, err := u.userRepo.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		u.log.Warn("failed to list admins for timeout notification", zap.Error(err))
		admins = nil
	}

	for _, o := range orders {
		deadline := o.AppointmentTime.Add(-paymentLeadTime)
		if !now.After(deadline) {
			summary.StillWithinDeadline++
			continue
		}

		// Sweeperも遷移表を迂回しない
		if err := model.CheckTransition(o.Status, model.StatusPaymentTimeout, model.RoleSystem); err != nil {
			summary.FailedOrderIDs = append(summary.FailedOrderIDs, o.ID)
			u.log.Error("sweeper transition rejected", zap.Int64("order_id", o.ID), zap.Error(err))
			continue
		}

		err := u.orderRepo.UpdateStatusIf(ctx, o.ID, model.StatusAwaitingPayment, model.StatusPaymentTimeout, now)
		if errors.Is(err, repo.ErrStatusConflict) {
			// その瞬間に支払いが来た。触らない。
			summary.Skipped++
			continue
		}
		if err != nil {
			summary.FailedOrderIDs = append(summary.FailedOrderIDs, o.ID)
			u.log.Error("failed to time out order", zap.Int64("order_id", o.ID), zap.Error(err))
			continue
		}
		summary.TimedOut++

		events := []notificationEvent{{
			UserID:   o.UserID,
			OrderID:  o.ID,
			Template: model.NotifyPaymentTimeout,
		}}
		for _, a := range admins {
			events = append(events, notificationEvent{
				UserID:   a.ID,
				OrderID:  o.ID,
				Template: model.NotifyAdminPaymentTimeout,
			})
		}
		dispatchNotifications(ctx, u.notifRepo, u.clock, u.log, events...)
	}

	u.log.Info("payment timeout sweep finished",
		zap.Int("timed_out", summary.TimedOut),
		zap.Int("still_within_deadline", summary.StillWithinDeadline),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", len(summary.FailedOrderIDs)),
	)
	return summary, nil
}
