package main

import (
	"context"
	"log"
	"net/http"

	"github.com/chopie/restaurant/config"
	handler "github.com/chopie/restaurant/internal/handler/http"
	"github.com/chopie/restaurant/internal/logger"
	"github.com/chopie/restaurant/internal/mailer"
	"github.com/chopie/restaurant/internal/middleware"
	"github.com/chopie/restaurant/internal/notifier"
	"github.com/chopie/restaurant/internal/repository"
	"github.com/chopie/restaurant/internal/repository/postgres"
	"github.com/chopie/restaurant/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	if cfg.TokenKey == "" {
		logger.Log.Fatal("JWT_SECRET is not set")
	}
	token := service.NewAuthToken([]byte(cfg.TokenKey), cfg.TokenTTL)

	// real-time hub
	hub := notifier.NewHub()
	go hub.Run(ctx)

	// mail queue
	mail := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	go mail.Run(ctx)

	// dependency injection
	// orders
	orderRepo := repository.NewOrderRepository(db)
	rejectionRepo := repository.NewRejectionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	orderService := service.NewOrderService(orderRepo, rejectionRepo, auditRepo, hub, mail, cfg.DuplicateWindow)
	orderHandler := handler.NewOrderHandler(orderService)

	// staff accounts
	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, token, auditRepo, mail)
	userHandler := handler.NewUserHandler(authService)

	// audit trail
	auditService := service.NewAuditService(auditRepo)
	auditHandler := handler.NewAuditHandler(auditService)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	// public
	router.Post("/api/v1/orders", orderHandler.CreateOrder())
	router.Get("/api/v1/orders/{orderNumber}/track", orderHandler.TrackOrder())
	router.Post("/api/v1/staff/login", userHandler.Login())
	router.Get("/ws", hub.Handler(cfg.WSOrigin))

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))

		group.Get("/api/v1/staff/orders", orderHandler.ListOrders())
		group.Get("/api/v1/staff/orders/{orderID}", orderHandler.GetOrder())
		group.Patch("/api/v1/staff/orders/{orderID}/accept", orderHandler.AcceptOrder())
		group.Patch("/api/v1/staff/orders/{orderID}/reject", orderHandler.RejectOrder())
		group.Patch("/api/v1/staff/orders/{orderID}/status", orderHandler.AdvanceOrder())
		group.Get("/api/v1/staff/rejections", orderHandler.ListRejections())

		group.Group(func(admin chi.Router) {
			admin.Use(handler.RequirePermission(service.PermDeleteOrder))
			admin.Delete("/api/v1/staff/orders/{orderID}", orderHandler.DeleteOrder())
		})

		group.Group(func(admin chi.Router) {
			admin.Use(handler.RequirePermission(service.PermClearRejections))
			admin.Post("/api/v1/staff/rejections/clear", orderHandler.ClearRejections())
		})

		group.Group(func(admin chi.Router) {
			admin.Use(handler.RequirePermission(service.PermManageUsers))
			admin.Post("/api/v1/staff/users", userHandler.CreateUser())
			admin.Get("/api/v1/staff/users", userHandler.ListUsers())
			admin.Patch("/api/v1/staff/users/{userID}/status", userHandler.ToggleUserStatus())
		})

		group.Group(func(elevated chi.Router) {
			elevated.Use(handler.RequirePermission(service.PermAwardStar))
			elevated.Patch("/api/v1/staff/users/{userID}/star", userHandler.AwardStar())
		})

		group.Group(func(elevated chi.Router) {
			elevated.Use(handler.RequirePermission(service.PermViewAudit))
			elevated.Get("/api/v1/staff/audit", auditHandler.ListEntries())
		})
	})

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
