package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/blob"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/config"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/database"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/handler"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/jwtutil"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/logger"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/mailer"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/metrics"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/middleware"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/paypal"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/service"
)

func main() {
	// Load configuration
	conf, err := config.Load("promo-tourism")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	// Initialize database connection
	db, err := database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database")
	}

	// Run migrations
	err = database.MigrateModels(
		&model.User{},
		&model.Merchant{},
		&model.MerchantDocument{},
		&model.Product{},
		&model.Order{},
		&model.OrderCounter{},
		&model.Payment{},
		&model.Review{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database models")
	}

	// Blob storage for documents and product images
	blobs, err := blob.NewFSStore(conf.Blob.Root)
	if err != nil {
		log.Fatal("Failed to initialize blob storage")
	}

	// External boundaries
	mail := mailer.NewSMTPMailer(&conf.SMTP)
	checkout := paypal.NewClient(&conf.PayPal)

	// Identity gate
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	// Core components
	authSvc := service.NewAuthService(db, jwt)
	merchantSvc := service.NewMerchantService(db, blobs, mail)
	catalogSvc := service.NewCatalogService(db, blobs)
	orderSvc := service.NewOrderService(db, mail)
	paymentSvc := service.NewPaymentService(db)
	reviewSvc := service.NewReviewService(db)
	analyticsSvc := service.NewAnalyticsService(db)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	merchantHandler := handler.NewMerchantHandler(merchantSvc)
	productHandler := handler.NewProductHandler(catalogSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, checkout)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	fileHandler := handler.NewFileHandler(blobs)
	healthHandler := handler.NewHealthHandler(db)

	// Initialize HTTP metrics
	httpMetrics := metrics.NewHTTPMetrics(conf.ServiceName)

	// Initialize Echo framework
	e := echo.New()

	// Apply middleware
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	// Operational endpoints
	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))

	// Public routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/merchants", merchantHandler.Register)
	e.GET("/products", productHandler.ListAll)
	e.GET("/products/categories", productHandler.Categories)
	e.GET("/products/:id", productHandler.Get)
	e.GET("/products/:id/average-rating", productHandler.AverageRating)
	e.GET("/files/:handle", fileHandler.Download)

	// Authenticated routes
	auth := e.Group("", middleware.JWTAuthMiddleware(jwt))
	auth.POST("/auth/change-password", authHandler.ChangePassword)

	// Merchant onboarding documents may be attached while the application is pending
	auth.POST("/merchants/:id/documents", merchantHandler.AttachDocuments,
		middleware.RequireRole(jwtutil.RoleMerchant, jwtutil.RoleMinistry))
	auth.GET("/merchants/email/:email", merchantHandler.FindIDByEmail,
		middleware.RequireRole(jwtutil.RoleMerchant, jwtutil.RoleMinistry))
	auth.GET("/merchants/:id/products", productHandler.ListByMerchant,
		middleware.RequireRole(jwtutil.RoleMerchant, jwtutil.RoleMinistry))

	// Ministry-only routes
	ministry := auth.Group("", middleware.RequireRole(jwtutil.RoleMinistry))
	ministry.GET("/merchants/pending", merchantHandler.ListPending)
	ministry.PUT("/merchants/:id/status", merchantHandler.Transition)
	ministry.GET("/analytics/merchants", analyticsHandler.AllMerchantAnalytics)

	// Merchant catalog management
	merchants := auth.Group("", middleware.RequireRole(jwtutil.RoleMerchant))
	merchants.POST("/products", productHandler.Create)
	merchants.PUT("/products/:id", productHandler.Update)
	merchants.DELETE("/products/:id", productHandler.Delete)
	merchants.GET("/analytics/merchants/:id/products", analyticsHandler.ProductAnalytics)
	merchants.GET("/analytics/merchants/:id/purchasing-power", analyticsHandler.PurchasingPowerAnalytics)

	// Customer routes
	customers := auth.Group("", middleware.RequireRole(jwtutil.RoleCustomer))
	customers.POST("/checkout", paymentHandler.CreateCheckout)
	customers.POST("/orders", orderHandler.Create)
	customers.POST("/payments", paymentHandler.Save)
	customers.POST("/reviews", reviewHandler.Submit)
	customers.GET("/reviews/unreviewed-orders", reviewHandler.UnreviewedOrders)

	// Lookup routes shared by authenticated roles
	auth.GET("/orders/:id", orderHandler.Get)
	auth.GET("/payments/:transaction_id", paymentHandler.FindByExternalID)

	// Start server
	log.Info("Starting promo-tourism service on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
