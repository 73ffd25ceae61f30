package usecase_test

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByPublicID(ctx context.Context, publicOrderID string) (model.Order, error) {
	args := m.Called(ctx, publicOrderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	args := m.Called(ctx, status)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatusIf(ctx context.Context, orderID int64, from, to model.OrderStatus, updatedAt time.Time) error {
	args := m.Called(ctx, orderID, from, to, updatedAt)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateSlipIf(ctx context.Context, orderID int64, from, to model.OrderStatus, slipURL string, updatedAt time.Time) error {
	args := m.Called(ctx, orderID, from, to, slipURL, updatedAt)
	return args.Error(0)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) SumCompletedAmount(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

type MenuOrderRepoMock struct{ mock.Mock }

func (m *MenuOrderRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.MenuOrder) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *MenuOrderRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.MenuOrder, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.MenuOrder)
	return items, args.Error(1)
}

type MenuRepoMock struct{ mock.Mock }

func (m *MenuRepoMock) FindByID(ctx context.Context, menuID int64) (model.Menu, error) {
	args := m.Called(ctx, menuID)
	menu, _ := args.Get(0).(model.Menu)
	return menu, args.Error(1)
}

func (m *MenuRepoMock) FindByIDs(ctx context.Context, menuIDs []int64) ([]model.Menu, error) {
	args := m.Called(ctx, menuIDs)
	menus, _ := args.Get(0).([]model.Menu)
	return menus, args.Error(1)
}

func (m *MenuRepoMock) List(ctx context.Context, f repo.MenuListFilter) ([]model.Menu, int64, error) {
	args := m.Called(ctx, f)
	menus, _ := args.Get(0).([]model.Menu)
	return menus, args.Get(1).(int64), args.Error(2)
}

func (m *MenuRepoMock) Create(ctx context.Context, menu model.Menu) (int64, error) {
	args := m.Called(ctx, menu)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MenuRepoMock) Update(ctx context.Context, menu model.Menu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

func (m *MenuRepoMock) UpdateImageURL(ctx context.Context, menuID int64, imageURL string) error {
	args := m.Called(ctx, menuID, imageURL)
	return args.Error(0)
}

func (m *MenuRepoMock) SoftDelete(ctx context.Context, menuID int64) error {
	args := m.Called(ctx, menuID)
	return args.Error(0)
}

type CounterRepoMock struct{ mock.Mock }

func (m *CounterRepoMock) Next(ctx context.Context, day string) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

type NotificationRepoMock struct{ mock.Mock }

func (m *NotificationRepoMock) Create(ctx context.Context, n model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Notification, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	notifs, _ := args.Get(0).([]model.Notification)
	return notifs, args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepoMock) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepoMock) MarkRead(ctx context.Context, notificationID int64, userID int64) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Bool(1), args.Error(2)
}

func (m *UserRepoMock) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context, page int, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, page, limit)
	users, _ := args.Get(0).([]model.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) UpdateLastLogin(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepoMock) Deactivate(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepoMock) BumpTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, rt model.RefreshToken) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) FindByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(model.RefreshToken)
	return rt, args.Error(1)
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	args := m.Called(ctx, id, usedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, id string, revokedAt time.Time) error {
	args := m.Called(ctx, id, revokedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) RevokeAllForUser(ctx context.Context, userID int64, revokedAt time.Time) error {
	args := m.Called(ctx, userID, revokedAt)
	return args.Error(0)
}

// =====================
// Tx周りのスタブ
// =====================

// txRepos はモック一式をTxReposとして見せるだけ。
type txRepos struct {
	orders     *OrderRepoMock
	menuOrders *MenuOrderRepoMock
	menus      *MenuRepoMock
	counters   *CounterRepoMock
	notifs     *NotificationRepoMock
	users      *UserRepoMock
}

func newTxRepos() *txRepos {
	return &txRepos{
		orders:     new(OrderRepoMock),
		menuOrders: new(MenuOrderRepoMock),
		menus:      new(MenuRepoMock),
		counters:   new(CounterRepoMock),
		notifs:     new(NotificationRepoMock),
		users:      new(UserRepoMock),
	}
}

func (r *txRepos) Orders() repo.OrderRepository               { return r.orders }
func (r *txRepos) MenuOrders() repo.MenuOrderRepository       { return r.menuOrders }
func (r *txRepos) Menus() repo.MenuRepository                 { return r.menus }
func (r *txRepos) Counters() repo.OrderCounterRepository      { return r.counters }
func (r *txRepos) Notifications() repo.NotificationRepository { return r.notifs }
func (r *txRepos) Users() repo.UserRepository                 { return r.users }

// txManagerStub はfnをそのまま実行する。エラーが返ればロールバック相当。
type txManagerStub struct {
	repos *txRepos
}

func (t *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t.repos)
}

// =====================
// QR・ストレージ
// =====================

type QREncoderMock struct{ mock.Mock }

func (m *QREncoderMock) EncodeQR(target string, amountSatang int64) ([]byte, error) {
	args := m.Called(target, amountSatang)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type StorageMock struct{ mock.Mock }

func (m *StorageMock) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, path, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *StorageMock) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// =====================
// 認証部品
// =====================

type HasherStub struct{}

func (HasherStub) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (HasherStub) Verify(hash string, password string) bool { return hash == "hashed:"+password }

type IssuerStub struct{}

func (IssuerStub) Issue(userID int64, role model.Role, tokenVersion int, expiresAt time.Time) (string, error) {
	return "access-token", nil
}
