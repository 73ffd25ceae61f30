package model

import "time"

// 通知テンプレートのキー。メッセージ本文は固定文。
type NotificationTemplate string

const (
	NotifyAwaitingPayment NotificationTemplate = "order_awaiting_payment"
	NotifyAwaitingReview  NotificationTemplate = "order_awaiting_admin_review"
	NotifyOrderReceived   NotificationTemplate = "order_recived"
	NotifyPreparing       NotificationTemplate = "order_preparing"
	NotifyReadyForPickup  NotificationTemplate = "order_ready_for_pickup"
	NotifyCompleted       NotificationTemplate = "order_completed"
	NotifyCancelled       NotificationTemplate = "order_cancelled"
	NotifyPaymentTimeout  NotificationTemplate = "order_payment_timeout"

	// 管理者向け（タイムアウト発生の知らせ）
	NotifyAdminPaymentTimeout NotificationTemplate = "admin_payment_timeout"
)

var notificationMessages = map[NotificationTemplate]string{
	NotifyAwaitingPayment:     "ได้รับคำสั่งซื้อแล้ว กรุณาชำระเงินผ่าน QR ภายในเวลาที่กำหนด",
	NotifyAwaitingReview:      "ได้รับหลักฐานการชำระเงินแล้ว กำลังรอการตรวจสอบ",
	NotifyOrderReceived:       "ร้านยืนยันการชำระเงินและรับออเดอร์ของคุณแล้ว",
	NotifyPreparing:           "ร้านกำลังเตรียมอาหารของคุณ",
	NotifyReadyForPickup:      "อาหารของคุณพร้อมรับแล้ว!",
	NotifyCompleted:           "รับอาหารเรียบร้อย ขอบคุณที่ใช้บริการ",
	NotifyCancelled:           "คำสั่งซื้อของคุณถูกยกเลิกแล้ว",
	NotifyPaymentTimeout:      "คำสั่งซื้อถูกยกเลิกเนื่องจากไม่ชำระเงินภายในเวลาที่กำหนด",
	NotifyAdminPaymentTimeout: "มีคำสั่งซื้อหมดเวลาชำระเงินและถูกยกเลิกโดยระบบ",
}

// MessageFor はテンプレートキーから本文を引く。未知のキーはキーをそのまま返す。
func MessageFor(tpl NotificationTemplate) string {
	if msg, ok := notificationMessages[tpl]; ok {
		return msg
	}
	return string(tpl)
}

// 通知。注文のステータス変化の副作用として作られ、既読化以外では変更されない。
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_notifications_user_read" json:"user_id"`
	OrderID   *int64    `gorm:"index" json:"order_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
