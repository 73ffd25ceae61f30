package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders        repo.OrderRepository
	menuOrders    repo.MenuOrderRepository
	menus         repo.MenuRepository
	counters      repo.OrderCounterRepository
	notifications repo.NotificationRepository
	users         repo.UserRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository               { return r.orders }
func (r *txReposGorm) MenuOrders() repo.MenuOrderRepository       { return r.menuOrders }
func (r *txReposGorm) Menus() repo.MenuRepository                 { return r.menus }
func (r *txReposGorm) Counters() repo.OrderCounterRepository      { return r.counters }
func (r *txReposGorm) Notifications() repo.NotificationRepository { return r.notifications }
func (r *txReposGorm) Users() repo.UserRepository                 { return r.users }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:        NewOrderGormRepository(tx),
			menuOrders:    NewMenuOrderGormRepository(tx),
			menus:         NewMenuGormRepository(tx),
			counters:      NewOrderCounterGormRepository(tx),
			notifications: NewNotificationGormRepository(tx),
			users:         NewUserGormRepository(tx),
		}
		return fn(r)
	})
}
