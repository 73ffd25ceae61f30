package model

import "time"

// 注文。金額の単位はサタン（1バーツ=100サタン）。
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 客・スタッフに見せる注文番号（ORD-YYYYMMDD-NNN）。作成後は変わらない。
	PublicOrderID string `gorm:"type:varchar(40);not null;uniqueIndex" json:"public_order_id"`

	UserID      int64       `gorm:"not null;index" json:"user_id"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	Status      OrderStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	// 受け取り予定時刻。支払い期限はここから逆算する。
	AppointmentTime time.Time `gorm:"not null" json:"appointment_time"`

	Notes string `gorm:"type:text" json:"notes"`

	// 支払いQR画像のURL
	QRURL string `gorm:"type:varchar(500)" json:"qr_url"`

	// 客がアップロードした支払いスリップのURL（支払い提出後のみ入る）
	SlipURL string `gorm:"type:varchar(500)" json:"slip_url"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
