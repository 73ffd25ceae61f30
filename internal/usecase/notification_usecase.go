package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type NotificationUsecase struct {
	notifRepo repo.NotificationRepository
}

func NewNotificationUsecase(notifRepo repo.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{notifRepo: notifRepo}
}

type NotificationOutput struct {
	ID        int64     `json:"id"`
	OrderID   *int64    `json:"order_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *NotificationUsecase) ListMine(ctx context.Context, userID int64, page int, limit int) ([]NotificationOutput, int64, error) {
	if userID <= 0 {
		return []NotificationOutput{}, 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifs, total, err := u.notifRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return []NotificationOutput{}, 0, &DependencyError{Op: "list notifications", Err: err}
	}

	outs := make([]NotificationOutput, 0, len(notifs))
	for _, n := range notifs {
		outs = append(outs, toNotificationOutput(n))
	}
	return outs, total, nil
}

func (u *NotificationUsecase) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	count, err := u.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, &DependencyError{Op: "count unread notifications", Err: err}
	}
	return count, nil
}

// MarkRead は本人の通知だけ既読にできる。他人の通知は存在しない扱い。
func (u *NotificationUsecase) MarkRead(ctx context.Context, userID int64, notificationID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if notificationID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.notifRepo.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return &DependencyError{Op: "mark notification read", Err: err}
	}
	return nil
}

func toNotificationOutput(n model.Notification) NotificationOutput {
	return NotificationOutput{
		ID:        n.ID,
		OrderID:   n.OrderID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
