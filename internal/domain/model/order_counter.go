package model

// タイ暦日ごとの注文連番。行の更新はアトミックなUPSERTで行い、
// 注文INSERTと同じトランザクションでコミットする。
type OrderCounter struct {
	Day string `gorm:"type:varchar(8);primaryKey" json:"day"` // YYYYMMDD
	Seq int64  `gorm:"not null" json:"seq"`
}
