package main

import (
	"log"
	"time"

	"tokonada/internal/config"
	"tokonada/internal/domain/model"
	"tokonada/internal/handler"
	infraAuth "tokonada/internal/infra/auth"
	"tokonada/internal/infra/db"
	infraGw "tokonada/internal/infra/gateway"
	infraRepo "tokonada/internal/infra/repository"
	"tokonada/internal/server"
	"tokonada/internal/usecase"
	auth "tokonada/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	// Missing .env is fine in containers where env comes from the runtime.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Shipment{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	shipmentRepo := infraRepo.NewShipmentGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	paymentGw := infraGw.NewMidtransClient(cfg.MidtransBaseURL, cfg.MidtransServerKey)
	shippingGw := infraGw.NewRajaOngkirClient(cfg.RajaOngkirBaseURL, cfg.RajaOngkirAPIKey)

	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := infraAuth.NewJwtIssuer(cfg.JWTSecret)

	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, inventoryRepo, auditRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager)
	paymentUC := usecase.NewPaymentUsecase(txManager, orderRepo, shipmentRepo, userRepo, paymentGw)
	shipmentUC := usecase.NewShipmentUsecase(
		txManager,
		orderRepo,
		shipmentRepo,
		cartRepo,
		cartItemRepo,
		productRepo,
		auditRepo,
		shippingGw,
		cfg.OriginCityID,
	)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, auditRepo)
	reportUC := usecase.NewReportUsecase(orderRepo)

	h := server.Handlers{
		Auth:         handler.NewAuthHandler(registerUC, loginUC),
		Product:      handler.NewProductHandler(productUC),
		Category:     handler.NewCategoryHandler(categoryUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		Payment:      handler.NewPaymentHandler(paymentUC),
		Shipping:     handler.NewShippingHandler(shipmentUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC, shipmentUC),
		AdminUser:    handler.NewAdminUserHandler(adminUserUC),
		Report:       handler.NewReportHandler(reportUC),
	}

	e := server.New(cfg, userRepo, h)

	addr := ":" + cfg.Port
	if cfg.Port != "" && cfg.Port[0] == ':' {
		addr = cfg.Port
	}

	if err := e.Start(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
