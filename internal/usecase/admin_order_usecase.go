package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/clock"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"go.uber.org/zap"
)

// 店側（STAFF/ADMIN）の注文操作。どの役割がどのエッジを進められるかは
// 遷移表が決める。ここでは役割をそのまま渡すだけ。
type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	notifRepo repo.NotificationRepository
	clock     clock.Clock
	log       *zap.Logger
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	notifRepo repo.NotificationRepository,
	c clock.Clock,
	log *zap.Logger,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, notifRepo: notifRepo, clock: c, log: log}
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.OrderListFilter) ([]OrderOutput, int64, error) {
	if f.Page < 1 {
		return []OrderOutput{}, 0, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, 0, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" {
		if _, ok := model.ParseOrderStatus(f.Status); !ok {
			return []OrderOutput{}, 0, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, t, err := r.Orders().List(ctx, f)
		if err != nil {
			return &DependencyError{Op: "list orders", Err: err}
		}
		total = t

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.MenuOrders().ListByOrderID(ctx, o.ID)
			if err != nil {
				return &DependencyError{Op: "load order items", Err: err}
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, 0, err
	}
	return outs, total, nil
}

// AdvanceStatus は指定の次ステータスへ進める。
// 遷移表＋役割の検証を通ってから条件付き更新で書く。
// next が空なら本線の次の状態を自動で選ぶ。
func (u *AdminOrderUsecase) AdvanceStatus(ctx context.Context, actorRole model.Role, orderID int64, next model.OrderStatus) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if actorRole != model.RoleStaff && actorRole != model.RoleAdmin {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var updated model.Order
	var items []model.MenuOrder

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return &DependencyError{Op: "load order", Err: err}
		}

		target := next
		if target == "" {
			n, ok := model.NextStatus(o.Status)
			if !ok {
				return &model.InvalidTransitionError{From: o.Status, To: "", Role: actorRole, NoSuchEdge: true}
			}
			target = n
		}

		if err := model.CheckTransition(o.Status, target, actorRole); err != nil {
			return err
		}

		now := u.clock.Now()
		err = r.Orders().UpdateStatusIf(ctx, o.ID, o.Status, target, now)
		if errors.Is(err, repo.ErrStatusConflict) {
			return ErrConcurrentModification
		}
		if err != nil {
			return &DependencyError{Op: "update order", Err: err}
		}

		o.Status = target
		o.UpdatedAt = now
		updated = o

		items, err = r.MenuOrders().ListByOrderID(ctx, o.ID)
		if err != nil {
			return &DependencyError{Op: "load order items", Err: err}
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	if tpl, ok := model.TemplateForStatus(updated.Status); ok {
		dispatchNotifications(ctx, u.notifRepo, u.clock, u.log, notificationEvent{
			UserID:   updated.UserID,
			OrderID:  updated.ID,
			Template: tpl,
		})
	}

	return toOrderOutput(updated, items), nil
}
