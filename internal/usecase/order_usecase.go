package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"app/internal/clock"
	"app/internal/domain/model"
	"app/internal/orderid"
	repo "app/internal/repository"
	"app/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 厨房の準備時間。受け取り時刻はこの分だけ先でないといけないし、
// 支払い期限も受け取り時刻からこの分だけ逆算する。
const paymentLeadTime = 12 * time.Hour

const maxItemQuantity = 9999

// QREncoder は支払いQRのPNGを作る約束。純粋関数で副作用なし。
type QREncoder interface {
	EncodeQR(target string, amountSatang int64) ([]byte, error)
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	menuRepo  repo.MenuRepository
	notifRepo repo.NotificationRepository
	gen       *orderid.Generator
	qr        QREncoder
	store     storage.Storage
	clock     clock.Clock
	log       *zap.Logger

	promptPayID string
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	menuRepo repo.MenuRepository,
	notifRepo repo.NotificationRepository,
	gen *orderid.Generator,
	qr QREncoder,
	store storage.Storage,
	c clock.Clock,
	log *zap.Logger,
	promptPayID string,
) *OrderUsecase {
	return &OrderUsecase{
		tx:          tx,
		menuRepo:    menuRepo,
		notifRepo:   notifRepo,
		gen:         gen,
		qr:          qr,
		store:       store,
		clock:       c,
		log:         log,
		promptPayID: promptPayID,
	}
}

type CreateOrderItemInput struct {
	MenuID   int64 `json:"menu_id"`
	Quantity int64 `json:"quantity"`
}

type CreateOrderInput struct {
	Items           []CreateOrderItemInput
	AppointmentTime time.Time
	Notes           string
}

type OrderItemOutput struct {
	MenuID   int64  `json:"menu_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	PublicOrderID   string                `json:"public_order_id"`
	UserID          int64                 `json:"user_id"`
	Status          string                `json:"status"`
	StatusDisplay   model.StatusDisplay   `json:"status_display"`
	Timeline        []model.TimelineEntry `json:"timeline"`
	TotalAmount     int64                 `json:"total_amount"`
	AppointmentTime time.Time             `json:"appointment_time"`
	Notes           string                `json:"notes"`
	QRURL           string                `json:"qr_url"`
	SlipURL         string                `json:"slip_url"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []OrderItemOutput     `json:"items"`
}

// Create は注文を作る。発番・QR生成・注文と明細のINSERT・通知をひとまとめに行う。
// DB側（発番＋INSERT）は1トランザクション。QRアップロードだけは外部なので、
// トランザクションが失敗したらアップロード済みのQRを消して痕跡を残さない。
func (u *OrderUsecase) Create(ctx context.Context, userID int64, in CreateOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return OrderOutput{}, &ValidationError{Field: "items", Message: "items must not be empty"}
	}
	for _, it := range in.Items {
		if it.MenuID <= 0 {
			return OrderOutput{}, &ValidationError{Field: "items", Message: "invalid menu_id"}
		}
		if it.Quantity <= 0 || it.Quantity > maxItemQuantity {
			return OrderOutput{}, &ValidationError{
				Field:   "items",
				Message: fmt.Sprintf("quantity must be between 1 and %d", maxItemQuantity),
			}
		}
	}

	now := u.clock.Now()
	minAppointment := now.Add(paymentLeadTime)
	if !in.AppointmentTime.After(minAppointment) {
		return OrderOutput{}, &ValidationError{
			Field:   "appointment_time",
			Message: fmt.Sprintf("appointment_time must be after %s (12-hour lead time)", clock.ToCivilISO(minAppointment)),
		}
	}

	// メニューを引いて価格スナップショットと合計を確定する
	ids := make([]int64, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.MenuID)
	}
	menus, err := u.menuRepo.FindByIDs(ctx, ids)
	if err != nil {
		return OrderOutput{}, &DependencyError{Op: "load menus", Err: err}
	}
	menuByID := make(map[int64]model.Menu, len(menus))
	for _, m := range menus {
		menuByID[m.ID] = m
	}

	var total int64
	items := make([]model.MenuOrder, 0, len(in.Items))
	for _, it := range in.Items {
		m, ok := menuByID[it.MenuID]
		if !ok {
			return OrderOutput{}, &ValidationError{Field: "items", Message: fmt.Sprintf("menu %d not found", it.MenuID)}
		}
		if !m.IsActive {
			return OrderOutput{}, &ValidationError{Field: "items", Message: fmt.Sprintf("menu %d is not available", it.MenuID)}
		}
		items = append(items, model.MenuOrder{
			MenuID:            m.ID,
			MenuNameSnapshot:  m.Name,
			UnitPriceSnapshot: m.Price,
			Quantity:          it.Quantity,
		})
		total += m.Price * it.Quantity
	}

	// QRはトランザクションの外で先に用意する
	qrBytes, err := u.qr.EncodeQR(u.promptPayID, total)
	if err != nil {
		return OrderOutput{}, &OrderCreationError{Step: "encode qr", Err: err}
	}
	qrPath := "qr/" + uuid.NewString() + ".png"
	qrURL, err := u.store.Put(ctx, qrPath, qrBytes, "image/png")
	if err != nil {
		return OrderOutput{}, &OrderCreationError{Step: "upload qr", Err: err}
	}

	var created model.Order
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 発番は注文INSERTと同じトランザクションでコミットされる
		publicID := u.gen.Mint(ctx, r.Counters())

		order := model.Order{
			PublicOrderID:   publicID,
			UserID:          userID,
			TotalAmount:     total,
			Status:          model.StatusAwaitingPayment,
			AppointmentTime: in.AppointmentTime,
			Notes:           in.Notes,
			QRURL:           qrURL,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}
		if err := r.MenuOrders().CreateBulk(ctx, orderID, items); err != nil {
			return err
		}

		order.ID = orderID
		created = order
		return nil
	})
	if err != nil {
		// 注文が残らなかった以上、QRも残さない
		if derr := u.store.Delete(ctx, qrPath); derr != nil {
			u.log.Warn("failed to clean up orphan qr image",
				zap.String("path", qrPath), zap.Error(derr))
		}
		return OrderOutput{}, &OrderCreationError{Step: "insert order", Err: err}
	}

	u.dispatch(ctx, notificationEvent{
		UserID:   userID,
		OrderID:  created.ID,
		Template: model.NotifyAwaitingPayment,
	})

	return toOrderOutput(created, items), nil
}

// SubmitSlip は支払いスリップを受け取り、管理者レビュー待ちへ進める。
func (u *OrderUsecase) SubmitSlip(ctx context.Context, userID int64, orderID int64, slip []byte, contentType string) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if len(slip) == 0 {
		return OrderOutput{}, &ValidationError{Field: "slip", Message: "slip image is required"}
	}

	return u.customerTransition(ctx, userID, orderID, model.StatusAwaitingAdminReview, func(o model.Order) (string, error) {
		path := fmt.Sprintf("slips/%s-%s", o.PublicOrderID, uuid.NewString())
		url, err := u.store.Put(ctx, path, slip, contentType)
		if err != nil {
			return "", &DependencyError{Op: "upload slip", Err: err}
		}
		return url, nil
	})
}

// Cancel は客自身によるキャンセル。支払い前しか通らない。
func (u *OrderUsecase) Cancel(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.customerTransition(ctx, userID, orderID, model.StatusCancelled, nil)
}

// customerTransition は客起点の遷移の共通部。
// 遷移表の検証 → 条件付き更新 → 通知、の順。通知は失敗してもロールバックしない。
func (u *OrderUsecase) customerTransition(
	ctx context.Context,
	userID int64,
	orderID int64,
	next model.OrderStatus,
	uploadSlip func(o model.Order) (string, error),
) (OrderOutput, error) {
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
		if o.UserID != userID {
			// 他人の注文は存在しない扱い
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		// 永続化の前に必ず遷移表を通す
		if err := model.CheckTransition(o.Status, next, model.RoleCustomer); err != nil {
			return err
		}

		now := u.clock.Now()
		if uploadSlip != nil {
			slipURL, err := uploadSlip(o)
			if err != nil {
				return err
			}
			err = r.Orders().UpdateSlipIf(ctx, o.ID, o.Status, next, slipURL, now)
			if errors.Is(err, repo.ErrStatusConflict) {
				return ErrConcurrentModification
			}
			if err != nil {
				return &DependencyError{Op: "update order", Err: err}
			}
			o.SlipURL = slipURL
		} else {
			err = r.Orders().UpdateStatusIf(ctx, o.ID, o.Status, next, now)
			if errors.Is(err, repo.ErrStatusConflict) {
				return ErrConcurrentModification
			}
			if err != nil {
				return &DependencyError{Op: "update order", Err: err}
			}
		}

		o.Status = next
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

	if tpl, ok := model.TemplateForStatus(next); ok {
		u.dispatch(ctx, notificationEvent{UserID: userID, OrderID: updated.ID, Template: tpl})
	}

	return toOrderOutput(updated, items), nil
}

func (u *OrderUsecase) ListMine(ctx context.Context, userID int64, page int, limit int) ([]OrderOutput, int64, error) {
	if userID <= 0 {
		return []OrderOutput{}, 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, t, err := r.Orders().ListByUserID(ctx, userID, page, limit)
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

func (u *OrderUsecase) Detail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return &DependencyError{Op: "load order", Err: err}
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.MenuOrders().ListByOrderID(ctx, o.ID)
		if err != nil {
			return &DependencyError{Op: "load order items", Err: err}
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 通知イベント。状態変更のコミット後に送る。
type notificationEvent struct {
	UserID   int64
	OrderID  int64
	Template model.NotificationTemplate
}

// dispatch はベストエフォート。通知の失敗で業務を止めない（ログだけ残す）。
func (u *OrderUsecase) dispatch(ctx context.Context, events ...notificationEvent) {
	dispatchNotifications(ctx, u.notifRepo, u.clock, u.log, events...)
}

func dispatchNotifications(
	ctx context.Context,
	notifRepo repo.NotificationRepository,
	c clock.Clock,
	log *zap.Logger,
	events ...notificationEvent,
) {
	for _, ev := range events {
		orderID := ev.OrderID
		n := model.Notification{
			UserID:    ev.UserID,
			OrderID:   &orderID,
			Message:   model.MessageFor(ev.Template),
			CreatedAt: c.Now(),
		}
		if err := notifRepo.Create(ctx, n); err != nil {
			log.Warn("failed to enqueue notification",
				zap.Int64("user_id", ev.UserID),
				zap.Int64("order_id", ev.OrderID),
				zap.String("template", string(ev.Template)),
				zap.Error(err),
			)
		}
	}
}

func toOrderOutput(o model.Order, items []model.MenuOrder) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			MenuID:   it.MenuID,
			Name:     it.MenuNameSnapshot,
			Price:    it.UnitPriceSnapshot,
			Quantity: it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		PublicOrderID:   o.PublicOrderID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		StatusDisplay:   model.DisplayInfo(o.Status),
		Timeline:        model.Timeline(o.Status),
		TotalAmount:     o.TotalAmount,
		AppointmentTime: o.AppointmentTime,
		Notes:           o.Notes,
		QRURL:           o.QRURL,
		SlipURL:         o.SlipURL,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
