package main

import (
	"log"

	"app/internal/clock"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	infraAuth "app/internal/infra/auth"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logger"
	"app/internal/orderid"
	"app/internal/promptpay"
	"app/internal/server"
	"app/internal/storage"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無くても動く（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.GoEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		zlog.Fatal("failed to connect database", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Menu{},
		&model.Order{},
		&model.MenuOrder{},
		&model.OrderCounter{},
		&model.Notification{},
		&model.Ingredient{},
		&model.Purchase{},
	); err != nil {
		zlog.Fatal("failed to migrate", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	menuRepo := infraRepo.NewMenuGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	notifRepo := infraRepo.NewNotificationGormRepository(gormDB)
	ingredientRepo := infraRepo.NewIngredientGormRepository(gormDB)
	purchaseRepo := infraRepo.NewPurchaseGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	bkk := clock.Bangkok{}
	store, err := storage.NewLocalStorage(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		zlog.Fatal("failed to init storage", zap.Error(err))
	}
	idGen := orderid.NewGenerator(bkk, zlog)
	hasher := infraAuth.NewBcryptHasher()
	issuer := infraAuth.NewJWTIssuer(cfg.JWTSecret)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, rtRepo, hasher, issuer, bkk, zlog)
	menuUC := usecase.NewMenuUsecase(menuRepo, store, bkk, zlog)
	orderUC := usecase.NewOrderUsecase(txManager, menuRepo, notifRepo, idGen, promptpay.Encoder{}, store, bkk, zlog, cfg.PromptPayID)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, notifRepo, bkk, zlog)
	notifUC := usecase.NewNotificationUsecase(notifRepo)
	purchaseUC := usecase.NewPurchaseUsecase(purchaseRepo, ingredientRepo, orderRepo, bkk)
	sweeperUC := usecase.NewSweeperUsecase(orderRepo, notifRepo, userRepo, bkk, zlog)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Menu:         handler.NewMenuHandler(menuUC),
		AdminMenu:    handler.NewAdminMenuHandler(menuUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		Notification: handler.NewNotificationHandler(notifUC),
		Purchase:     handler.NewPurchaseHandler(purchaseUC),
		AdminUser:    handler.NewAdminUserHandler(authUC),
		Sweeper:      handler.NewSweeperHandler(sweeperUC, cfg),
	}

	//Server起動
	e := server.New(cfg, zlog, userRepo, handlers)
	if err := server.Start(e, cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
