package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/clock"
	"app/internal/domain/model"
	"app/internal/orderid"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// 2026-03-10 16:00 タイ時間
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newOrderUsecase(t *testing.T, tx *txManagerStub, menuRepo *MenuRepoMock, notifRepo *NotificationRepoMock, qr *QREncoderMock, store *StorageMock) *usecase.OrderUsecase {
	t.Helper()
	clk := clock.Fixed{T: testNow}
	gen := orderid.NewGenerator(clk, zap.NewNop())
	return usecase.NewOrderUsecase(tx, menuRepo, notifRepo, gen, qr, store, clk, zap.NewNop(), "0812345678")
}

func activeMenus() []model.Menu {
	return []model.Menu{
		{ID: 1, Name: "ผัดไทย", Price: 50, IsActive: true},
		{ID: 2, Name: "ต้มยำกุ้ง", Price: 30, IsActive: true},
	}
}

func TestOrderUsecase_Create_Success(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	menuRepo := new(MenuRepoMock)
	notifRepo := new(NotificationRepoMock)
	qr := new(QREncoderMock)
	store := new(StorageMock)
	uc := newOrderUsecase(t, tx, menuRepo, notifRepo, qr, store)

	menuRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(activeMenus(), nil)

	// 合計 = 2*50 + 1*30 = 130
	qr.On("EncodeQR", "0812345678", int64(130)).Return([]byte("png"), nil)
	store.On("Put", mock.Anything, mock.Anything, []byte("png"), "image/png").Return("http://files/qr.png", nil)

	tx.repos.counters.On("Next", mock.Anything, "20260310").Return(int64(1), nil)
	tx.repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.PublicOrderID == "ORD-20260310-001" &&
			o.Status == model.StatusAwaitingPayment &&
			o.TotalAmount == 130 &&
			o.QRURL == "http://files/qr.png"
	})).Return(int64(42), nil)
	tx.repos.menuOrders.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(nil)
	notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Create(context.Background(), 7, usecase.CreateOrderInput{
		Items: []usecase.CreateOrderItemInput{
			{MenuID: 1, Quantity: 2},
			{MenuID: 2, Quantity: 1},
		},
		AppointmentTime: testNow.Add(13 * time.Hour),
	})

	assert.NoError(t, err)
	assert.Equal(t, "ORD-20260310-001", out.PublicOrderID)
	assert.Equal(t, int64(130), out.TotalAmount)
	assert.Equal(t, string(model.StatusAwaitingPayment), out.Status)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "ผัดไทย", out.Items[0].Name)

	tx.repos.orders.AssertExpectations(t)
	tx.repos.counters.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
}

func TestOrderUsecase_Create_RejectsShortLeadTime(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	uc := newOrderUsecase(t, tx, new(MenuRepoMock), new(NotificationRepoMock), new(QREncoderMock), new(StorageMock))

	// ちょうど12時間は不可（超えている必要がある）
	_, err := uc.Create(context.Background(), 7, usecase.CreateOrderInput{
		Items:           []usecase.CreateOrderItemInput{{MenuID: 1, Quantity: 1}},
		AppointmentTime: testNow.Add(12 * time.Hour),
	})

	var ve *usecase.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "appointment_time", ve.Field)
}

func TestOrderUsecase_Create_AcceptsJustOverLeadTime(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	menuRepo := new(MenuRepoMock)
	notifRepo := new(NotificationRepoMock)
	qr := new(QREncoderMock)
	store := new(StorageMock)
	uc := newOrderUsecase(t, tx, menuRepo, notifRepo, qr, store)

	menuRepo.On("FindByIDs", mock.Anything, []int64{1}).Return(activeMenus()[:1], nil)
	qr.On("EncodeQR", mock.Anything, mock.Anything).Return([]byte("png"), nil)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("url", nil)
	tx.repos.counters.On("Next", mock.Anything, mock.Anything).Return(int64(5), nil)
	tx.repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)
	tx.repos.menuOrders.On("CreateBulk", mock.Anything, int64(1), mock.Anything).Return(nil)
	notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Create(context.Background(), 7, usecase.CreateOrderInput{
		Items:           []usecase.CreateOrderItemInput{{MenuID: 1, Quantity: 1}},
		AppointmentTime: testNow.Add(12*time.Hour + time.Second),
	})

	assert.NoError(t, err)
}

func TestOrderUsecase_Create_RejectsInactiveMenu(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	menuRepo := new(MenuRepoMock)
	uc := newOrderUsecase(t, tx, menuRepo, new(NotificationRepoMock), new(QREncoderMock), new(StorageMock))

	menuRepo.On("FindByIDs", mock.Anything, []int64{1}).Return([]model.Menu{
		{ID: 1, Name: "ผัดไทย", Price: 50, IsActive: false},
	}, nil)

	_, err := uc.Create(context.Background(), 7, usecase.CreateOrderInput{
		Items:           []usecase.CreateOrderItemInput{{MenuID: 1, Quantity: 1}},
		AppointmentTime: testNow.Add(24 * time.Hour),
	})

	var ve *usecase.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestOrderUsecase_Create_CleansUpQROnTxFailure(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	menuRepo := new(MenuRepoMock)
	qr := new(QREncoderMock)
	store := new(StorageMock)
	uc := newOrderUsecase(t, tx, menuRepo, new(NotificationRepoMock), qr, store)

	menuRepo.On("FindByIDs", mock.Anything, []int64{1}).Return(activeMenus()[:1], nil)
	qr.On("EncodeQR", mock.Anything, mock.Anything).Return([]byte("png"), nil)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("url", nil)
	tx.repos.counters.On("Next", mock.Anything, mock.Anything).Return(int64(1), nil)
	tx.repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("insert failed"))

	//トランザクション失敗時はアップロード済みQRを消す
	store.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Create(context.Background(), 7, usecase.CreateOrderInput{
		Items:           []usecase.CreateOrderItemInput{{MenuID: 1, Quantity: 1}},
		AppointmentTime: testNow.Add(24 * time.Hour),
	})

	var ce *usecase.OrderCreationError
	assert.ErrorAs(t, err, &ce)
	store.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Cancel_Success(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	notifRepo := new(NotificationRepoMock)
	uc := newOrderUsecase(t, tx, new(MenuRepoMock), notifRepo, new(QREncoderMock), new(StorageMock))

	tx.repos.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, UserID: 7, Status: model.StatusAwaitingPayment,
	}, nil)
	tx.repos.orders.On("UpdateStatusIf", mock.Anything, int64(42),
		model.StatusAwaitingPayment, model.StatusCancelled, mock.Anything).Return(nil)
	tx.repos.menuOrders.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.MenuOrder{}, nil)
	notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Cancel(context.Background(), 7, 42)

	assert.NoError(t, err)
	assert.Equal(t, string(model.StatusCancelled), out.Status)
}

func TestOrderUsecase_Cancel_OtherUsersOrderIsNotFound(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	uc := newOrderUsecase(t, tx, new(MenuRepoMock), new(NotificationRepoMock), new(QREncoderMock), new(StorageMock))

	tx.repos.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, UserID: 99, Status: model.StatusAwaitingPayment,
	}, nil)

	_, err := uc.Cancel(context.Background(), 7, 42)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestOrderUsecase_Cancel_AfterPaymentRejected(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	uc := newOrderUsecase(t, tx, new(MenuRepoMock), new(NotificationRepoMock), new(QREncoderMock), new(StorageMock))

	tx.repos.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, UserID: 7, Status: model.StatusPreparing,
	}, nil)

	_, err := uc.Cancel(context.Background(), 7, 42)

	var te *model.InvalidTransitionError
	assert.ErrorAs(t, err, &te)
	assert.True(t, te.NoSuchEdge)
}

func TestOrderUsecase_SubmitSlip_Success(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	notifRepo := new(NotificationRepoMock)
	store := new(StorageMock)
	uc := newOrderUsecase(t, tx, new(MenuRepoMock), notifRepo, new(QREncoderMock), store)

	tx.repos.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, UserID: 7, PublicOrderID: "ORD-20260310-001", Status: model.StatusAwaitingPayment,
	}, nil)
	store.On("Put", mock.Anything, mock.Anything, []byte("slip"), "image/jpeg").Return("http://files/slip.jpg", nil)
	tx.repos.orders.On("UpdateSlipIf", mock.Anything, int64(42),
		model.StatusAwaitingPayment, model.StatusAwaitingAdminReview,
		"http://files/slip.jpg", mock.Anything).Return(nil)
	tx.repos.menuOrders.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.MenuOrder{}, nil)
	notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.SubmitSlip(context.Background(), 7, 42, []byte("slip"), "image/jpeg")

	assert.NoError(t, err)
	assert.Equal(t, string(model.StatusAwaitingAdminReview), out.Status)
	assert.Equal(t, "http://files/slip.jpg", out.SlipURL)
}

func TestOrderUsecase_SubmitSlip_ConflictWhenSweeperWins(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	store := new(StorageMock)
	uc := newOrderUsecase(t, tx, new(MenuRepoMock), new(NotificationRepoMock), new(QREncoderMock), store)

	tx.repos.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, UserID: 7, PublicOrderID: "ORD-20260310-001", Status: model.StatusAwaitingPayment,
	}, nil)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("url", nil)

	//読んだ直後にSweeperが倒した：条件付き更新が空振りする
	tx.repos.orders.On("UpdateSlipIf", mock.Anything, int64(42),
		model.StatusAwaitingPayment, model.StatusAwaitingAdminReview,
		mock.Anything, mock.Anything).Return(repo.ErrStatusConflict)

	_, err := uc.SubmitSlip(context.Background(), 7, 42, []byte("slip"), "image/jpeg")

	assert.ErrorIs(t, err, usecase.ErrConcurrentModification)
}

func TestOrderUsecase_Create_NotificationFailureDoesNotFailOrder(t *testing.T) {
	tx := &txManagerStub{repos: newTxRepos()}
	menuRepo := new(MenuRepoMock)
	notifRepo := new(NotificationRepoMock)
	qr := new(QREncoderMock)
	store := new(StorageMock)
	uc := newOrderUsecase(t, tx, menuRepo, notifRepo, qr, store)

	menuRepo.On("FindByIDs", mock.Anything, []int64{1}).Return(activeMenus()[:1], nil)
	qr.On("EncodeQR", mock.Anything, mock.Anything).Return([]byte("png"), nil)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("url", nil)
	tx.repos.counters.On("Next", mock.Anything, mock.Anything).Return(int64(1), nil)
	tx.repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)
	tx.repos.menuOrders.On("CreateBulk", mock.Anything, int64(1), mock.Anything).Return(nil)
	notifRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("notification down"))

	_, err := uc.Create(context.Background(), 7, usecase.CreateOrderInput{
		Items:           []usecase.CreateOrderItemInput{{MenuID: 1, Quantity: 1}},
		AppointmentTime: testNow.Add(24 * time.Hour),
	})

	assert.NoError(t, err)
}
