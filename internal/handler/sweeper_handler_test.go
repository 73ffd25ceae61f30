package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/clock"
	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// 必要なメソッドだけ上書きするスタブ。他が呼ばれたらnil panicで気付ける。
type stubOrderRepo struct {
	repo.OrderRepository
	orders []model.Order
}

func (s *stubOrderRepo) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return s.orders, nil
}

type stubUserRepo struct {
	repo.UserRepository
}

func (s *stubUserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return nil, nil
}

type stubNotifRepo struct {
	repo.NotificationRepository
}

func (s *stubNotifRepo) Create(ctx context.Context, n model.Notification) error {
	return nil
}

func newSweeperHandlerForTest() *SweeperHandler {
	uc := usecase.NewSweeperUsecase(
		&stubOrderRepo{},
		&stubNotifRepo{},
		&stubUserRepo{},
		clock.Bangkok{},
		zap.NewNop(),
	)
	return NewSweeperHandler(uc, config.Config{SweeperSecret: "topsecret"})
}

func TestSweeperHandler_RejectsMissingSecret(t *testing.T) {
	h := newSweeperHandlerForTest()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/internal/sweeper/run", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.run(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSweeperHandler_RejectsWrongSecret(t *testing.T) {
	h := newSweeperHandlerForTest()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/internal/sweeper/run", nil)
	req.Header.Set("X-Sweeper-Secret", "guess")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.run(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSweeperHandler_RunsWithCorrectSecret(t *testing.T) {
	h := newSweeperHandlerForTest()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/internal/sweeper/run", nil)
	req.Header.Set("X-Sweeper-Secret", "topsecret")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.run(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "timed_out")
}
