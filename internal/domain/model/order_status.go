package model

import "fmt"

type OrderStatus string

// "order_recived" はDBに保存済みの値なのでスペルごと固定。
const (
	StatusAwaitingPayment     OrderStatus = "awaiting_payment"
	StatusAwaitingAdminReview OrderStatus = "awaiting_admin_review"
	StatusOrderReceived       OrderStatus = "order_recived"
	StatusPreparing           OrderStatus = "preparing"
	StatusReadyForPickup      OrderStatus = "ready_for_pickup"
	StatusCompleted           OrderStatus = "completed"
	StatusCancelled           OrderStatus = "cancelled"
	StatusPaymentTimeout      OrderStatus = "payment_timeout"
)

// 順方向の本線。この並びがタイムライン表示の順でもある。
var happyPath = []OrderStatus{
	StatusAwaitingPayment,
	StatusAwaitingAdminReview,
	StatusOrderReceived,
	StatusPreparing,
	StatusReadyForPickup,
	StatusCompleted,
}

// 遷移表。エッジごとに許可される役割を持つ。
// awaiting_admin_review → order_recived はADMIN限定：
// スリップの目視確認を管理者に強制する承認ゲート。STAFFは通さない。
var transitions = map[OrderStatus]map[OrderStatus][]Role{
	StatusAwaitingPayment: {
		StatusAwaitingAdminReview: {RoleCustomer},
		StatusCancelled:           {RoleCustomer},
		StatusPaymentTimeout:      {RoleSystem},
	},
	StatusAwaitingAdminReview: {
		StatusOrderReceived: {RoleAdmin},
	},
	StatusOrderReceived: {
		StatusPreparing: {RoleStaff, RoleAdmin},
	},
	StatusPreparing: {
		StatusReadyForPickup: {RoleStaff, RoleAdmin},
	},
	StatusReadyForPickup: {
		StatusCompleted: {RoleStaff, RoleAdmin},
	},
}

// ParseOrderStatus はDB・リクエスト境界で値を検証する。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusAwaitingPayment, StatusAwaitingAdminReview, StatusOrderReceived,
		StatusPreparing, StatusReadyForPickup, StatusCompleted,
		StatusCancelled, StatusPaymentTimeout:
		return OrderStatus(s), true
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusPaymentTimeout
}

// NextStatus は本線の次の状態を返す。終端や表にない状態は ok=false。
func NextStatus(current OrderStatus) (OrderStatus, bool) {
	for i, s := range happyPath {
		if s == current && i+1 < len(happyPath) {
			return happyPath[i+1], true
		}
	}
	return "", false
}

// InvalidTransitionError は遷移拒否の理由を持つ。
// NoSuchEdge=true はエッジ自体が存在しない、false はエッジはあるが役割に権限がない。
type InvalidTransitionError struct {
	From       OrderStatus
	To         OrderStatus
	Role       Role
	NoSuchEdge bool
}

func (e *InvalidTransitionError) Error() string {
	if e.NoSuchEdge {
		return fmt.Sprintf("no transition from %s to %s", e.From, e.To)
	}
	return fmt.Sprintf("role %s may not transition %s to %s", e.Role, e.From, e.To)
}

// CheckTransition は遷移表と役割を検証する。永続化の前に必ず呼ぶ。
func CheckTransition(current, next OrderStatus, role Role) error {
	edges, ok := transitions[current]
	if !ok {
		return &InvalidTransitionError{From: current, To: next, Role: role, NoSuchEdge: true}
	}
	roles, ok := edges[next]
	if !ok {
		return &InvalidTransitionError{From: current, To: next, Role: role, NoSuchEdge: true}
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return &InvalidTransitionError{From: current, To: next, Role: role}
}

func IsTransitionAllowed(current, next OrderStatus, role Role) bool {
	return CheckTransition(current, next, role) == nil
}

// 表示用メタデータ。副作用なしの参照のみ。
type StatusDisplay struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var statusDisplays = map[OrderStatus]StatusDisplay{
	StatusAwaitingPayment:     {Label: "รอชำระเงิน", Color: "warning", Icon: "qr-code"},
	StatusAwaitingAdminReview: {Label: "รอตรวจสอบการชำระเงิน", Color: "info", Icon: "receipt"},
	StatusOrderReceived:       {Label: "ร้านรับออเดอร์แล้ว", Color: "primary", Icon: "clipboard-check"},
	StatusPreparing:           {Label: "กำลังเตรียมอาหาร", Color: "primary", Icon: "chef-hat"},
	StatusReadyForPickup:      {Label: "พร้อมรับอาหาร", Color: "success", Icon: "bell"},
	StatusCompleted:           {Label: "รับอาหารแล้ว", Color: "success", Icon: "check-circle"},
	StatusCancelled:           {Label: "ยกเลิกแล้ว", Color: "error", Icon: "x-circle"},
	StatusPaymentTimeout:      {Label: "หมดเวลาชำระเงิน", Color: "error", Icon: "clock-x"},
}

func DisplayInfo(s OrderStatus) StatusDisplay {
	if d, ok := statusDisplays[s]; ok {
		return d
	}
	return StatusDisplay{Label: string(s), Color: "default", Icon: "help"}
}

type TimelineEntry struct {
	Status    OrderStatus   `json:"status"`
	Display   StatusDisplay `json:"display"`
	Reached   bool          `json:"reached"`
	IsCurrent bool          `json:"is_current"`
}

// Timeline は進捗表示用の並び。
// cancelled / payment_timeout は本線に乗せず、終了1件だけの並びに短絡する。
func Timeline(current OrderStatus) []TimelineEntry {
	if current == StatusCancelled || current == StatusPaymentTimeout {
		return []TimelineEntry{{
			Status:    current,
			Display:   DisplayInfo(current),
			Reached:   true,
			IsCurrent: true,
		}}
	}

	pos := -1
	for i, s := range happyPath {
		if s == current {
			pos = i
			break
		}
	}

	entries := make([]TimelineEntry, 0, len(happyPath))
	for i, s := range happyPath {
		entries = append(entries, TimelineEntry{
			Status:    s,
			Display:   DisplayInfo(s),
			Reached:   pos >= 0 && i <= pos,
			IsCurrent: i == pos,
		})
	}
	return entries
}

// TemplateForStatus は遷移先に対応する客向け通知テンプレート。
func TemplateForStatus(s OrderStatus) (NotificationTemplate, bool) {
	switch s {
	case StatusAwaitingPayment:
		return NotifyAwaitingPayment, true
	case StatusAwaitingAdminReview:
		return NotifyAwaitingReview, true
	case StatusOrderReceived:
		return NotifyOrderReceived, true
	case StatusPreparing:
		return NotifyPreparing, true
	case StatusReadyForPickup:
		return NotifyReadyForPickup, true
	case StatusCompleted:
		return NotifyCompleted, true
	case StatusCancelled:
		return NotifyCancelled, true
	case StatusPaymentTimeout:
		return NotifyPaymentTimeout, true
	}
	return "", false
}
