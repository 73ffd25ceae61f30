package model

import "time"

// 注文の明細。作成後は変更しない。
// 価格は注文時点のスナップショットを必ず保存する（メニュー改定の影響を受けない）。
type MenuOrder struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64     `gorm:"not null;index" json:"order_id"`
	MenuID            int64     `gorm:"not null;index" json:"menu_id"`
	MenuNameSnapshot  string    `gorm:"type:varchar(255);not null" json:"menu_name_snapshot"`
	UnitPriceSnapshot int64     `gorm:"not null" json:"unit_price_snapshot"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
