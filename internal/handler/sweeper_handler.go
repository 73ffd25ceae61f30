package handler

import (
	"crypto/subtle"
	"net/http"

	"app/internal/config"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 外部スケジューラ（cron等）から叩かれる内部エンドポイント。
// 認証は共有シークレットのヘッダ一本。JWTは使わない。
type SweeperHandler struct {
	uc     *usecase.SweeperUsecase
	secret string
}

func NewSweeperHandler(uc *usecase.SweeperUsecase, cfg config.Config) *SweeperHandler {
	return &SweeperHandler{uc: uc, secret: cfg.SweeperSecret}
}

func (h *SweeperHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/internal/sweeper/run", h.run)
}

func (h *SweeperHandler) run(c echo.Context) error {
	//ボディを読む前にシークレットを照合する
	provided := c.Request().Header.Get("X-Sweeper-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	summary, err := h.uc.Sweep(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
