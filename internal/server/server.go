package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Handlers はルート登録に必要なhandler一式。
type Handlers struct {
	Auth         *handler.AuthHandler
	Menu         *handler.MenuHandler
	AdminMenu    *handler.AdminMenuHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
	Notification *handler.NotificationHandler
	Purchase     *handler.PurchaseHandler
	AdminUser    *handler.AdminUserHandler
	Sweeper      *handler.SweeperHandler
}

// New はechoインスタンスを組み立ててルートを登録する。
func New(cfg config.Config, log *zap.Logger, userRepo repository.UserRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))

	//QR・スリップ・メニュー画像の配信
	e.Static("/files", cfg.StorageDir)

	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.Menu.RegisterRoutes(e)
	h.AdminMenu.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
	h.Notification.RegisterRoutes(e, cfg, userRepo)
	h.Purchase.RegisterRoutes(e, cfg, userRepo)
	h.AdminUser.RegisterRoutes(e, cfg, userRepo)
	h.Sweeper.RegisterRoutes(e)

	return e
}

func Start(e *echo.Echo, port string) error {
	addr := port
	if addr == "" {
		addr = "8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}
