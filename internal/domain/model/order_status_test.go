package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []OrderStatus{
	StatusAwaitingPayment,
	StatusAwaitingAdminReview,
	StatusOrderReceived,
	StatusPreparing,
	StatusReadyForPickup,
	StatusCompleted,
	StatusCancelled,
	StatusPaymentTimeout,
}

var allRoles = []Role{RoleCustomer, RoleStaff, RoleAdmin, RoleSystem}

// 許可される (from, to, role) の全組み合わせ。これ以外は全部拒否。
var allowed = map[[3]string]bool{
	{string(StatusAwaitingPayment), string(StatusAwaitingAdminReview), string(RoleCustomer)}: true,
	{string(StatusAwaitingPayment), string(StatusCancelled), string(RoleCustomer)}:           true,
	{string(StatusAwaitingPayment), string(StatusPaymentTimeout), string(RoleSystem)}:        true,
	{string(StatusAwaitingAdminReview), string(StatusOrderReceived), string(RoleAdmin)}:      true,
	{string(StatusOrderReceived), string(StatusPreparing), string(RoleStaff)}:                true,
	{string(StatusOrderReceived), string(StatusPreparing), string(RoleAdmin)}:                true,
	{string(StatusPreparing), string(StatusReadyForPickup), string(RoleStaff)}:               true,
	{string(StatusPreparing), string(StatusReadyForPickup), string(RoleAdmin)}:               true,
	{string(StatusReadyForPickup), string(StatusCompleted), string(RoleStaff)}:               true,
	{string(StatusReadyForPickup), string(StatusCompleted), string(RoleAdmin)}:               true,
}

func TestIsTransitionAllowed_Exhaustive(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			for _, role := range allRoles {
				want := allowed[[3]string{string(from), string(to), string(role)}]
				got := IsTransitionAllowed(from, to, role)
				assert.Equal(t, want, got, "from=%s to=%s role=%s", from, to, role)
			}
		}
	}
}

func TestCheckTransition_StaffCannotApproveReview(t *testing.T) {
	// 承認ゲート：STAFFはスリップ承認を進められない
	err := CheckTransition(StatusAwaitingAdminReview, StatusOrderReceived, RoleStaff)
	assert.Error(t, err)

	var ite *InvalidTransitionError
	assert.True(t, errors.As(err, &ite))
	assert.False(t, ite.NoSuchEdge, "エッジはあるが権限がない、の形で拒否する")

	assert.NoError(t, CheckTransition(StatusAwaitingAdminReview, StatusOrderReceived, RoleAdmin))
}

func TestCheckTransition_NoSuchEdge(t *testing.T) {
	// 逆行は存在しないエッジ
	err := CheckTransition(StatusPreparing, StatusAwaitingPayment, RoleAdmin)
	var ite *InvalidTransitionError
	assert.True(t, errors.As(err, &ite))
	assert.True(t, ite.NoSuchEdge)
}

func TestCheckTransition_TerminalStatesHaveNoEdges(t *testing.T) {
	for _, from := range []OrderStatus{StatusCompleted, StatusCancelled, StatusPaymentTimeout} {
		for _, to := range allStatuses {
			for _, role := range allRoles {
				assert.Error(t, CheckTransition(from, to, role), "from=%s to=%s role=%s", from, to, role)
			}
		}
	}
}

func TestCheckTransition_SweeperEdgeIsSystemOnly(t *testing.T) {
	for _, role := range []Role{RoleCustomer, RoleStaff, RoleAdmin} {
		assert.Error(t, CheckTransition(StatusAwaitingPayment, StatusPaymentTimeout, role))
	}
	assert.NoError(t, CheckTransition(StatusAwaitingPayment, StatusPaymentTimeout, RoleSystem))
}

func TestNextStatus(t *testing.T) {
	next, ok := NextStatus(StatusAwaitingPayment)
	assert.True(t, ok)
	assert.Equal(t, StatusAwaitingAdminReview, next)

	next, ok = NextStatus(StatusReadyForPickup)
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, next)

	_, ok = NextStatus(StatusCompleted)
	assert.False(t, ok)
	_, ok = NextStatus(StatusCancelled)
	assert.False(t, ok)
	_, ok = NextStatus(StatusPaymentTimeout)
	assert.False(t, ok)
	_, ok = NextStatus(OrderStatus("unknown"))
	assert.False(t, ok)
}

func TestParseOrderStatus(t *testing.T) {
	s, ok := ParseOrderStatus("order_recived")
	assert.True(t, ok)
	assert.Equal(t, StatusOrderReceived, s)

	_, ok = ParseOrderStatus("order_received")
	assert.False(t, ok, "保存形式はスペルごと固定")

	_, ok = ParseOrderStatus("")
	assert.False(t, ok)
}

func TestTimeline_HappyPath(t *testing.T) {
	entries := Timeline(StatusPreparing)
	assert.Len(t, entries, 6)

	assert.True(t, entries[0].Reached)
	assert.True(t, entries[3].Reached)
	assert.True(t, entries[3].IsCurrent)
	assert.Equal(t, StatusPreparing, entries[3].Status)
	assert.False(t, entries[4].Reached)
	assert.False(t, entries[5].Reached)
}

func TestTimeline_TerminalShortCircuits(t *testing.T) {
	for _, s := range []OrderStatus{StatusCancelled, StatusPaymentTimeout} {
		entries := Timeline(s)
		assert.Len(t, entries, 1)
		assert.Equal(t, s, entries[0].Status)
		assert.True(t, entries[0].IsCurrent)
		assert.True(t, entries[0].Reached)
	}
}

func TestDisplayInfo(t *testing.T) {
	d := DisplayInfo(StatusReadyForPickup)
	assert.Equal(t, "พร้อมรับอาหาร", d.Label)
	assert.Equal(t, "success", d.Color)

	d = DisplayInfo(OrderStatus("unknown"))
	assert.Equal(t, "default", d.Color)
}

func TestTemplateForStatus(t *testing.T) {
	tpl, ok := TemplateForStatus(StatusReadyForPickup)
	assert.True(t, ok)
	assert.Equal(t, "อาหารของคุณพร้อมรับแล้ว!", MessageFor(tpl))

	// キャンセルとタイムアウトは本線と別テンプレート
	c, _ := TemplateForStatus(StatusCancelled)
	p, _ := TemplateForStatus(StatusPaymentTimeout)
	assert.NotEqual(t, MessageFor(c), MessageFor(p))

	_, ok = TemplateForStatus(OrderStatus("unknown"))
	assert.False(t, ok)
}
