package model

import "time"

// 仕入れ（支出）記録。ダッシュボードの支出集計に使う。
// 在庫数量への反映は行わない。
type Purchase struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	IngredientID int64     `gorm:"not null;index" json:"ingredient_id"`
	AdminUserID  int64     `gorm:"not null;index" json:"admin_user_id"`
	Quantity     int64     `gorm:"not null" json:"quantity"`
	UnitCost     int64     `gorm:"not null" json:"unit_cost"`
	TotalCost    int64     `gorm:"not null" json:"total_cost"`
	Note         string    `gorm:"type:varchar(255)" json:"note"`
	PurchasedAt  time.Time `gorm:"not null;index" json:"purchased_at"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
