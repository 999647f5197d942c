package server

import (
	"fmt"
	"os"

	"github.com/GabrielFBos/pix-saas-working/config"
	"github.com/GabrielFBos/pix-saas-working/internal/gateway"
	"github.com/GabrielFBos/pix-saas-working/internal/handlers"
	"github.com/GabrielFBos/pix-saas-working/internal/middleware"
	"github.com/GabrielFBos/pix-saas-working/internal/repository"
	"github.com/GabrielFBos/pix-saas-working/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	leads := repository.NewGormLeadRepository(db)
	charges := repository.NewGormChargeRepository(db)

	gw, err := gateway.New(cfg.Pix, charges)
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway: %v", err)
	}

	svc := service.New(leads, charges, gw, cfg.Pix)

	r := gin.Default()

	setupRoutes(r, db, svc)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, svc *service.ChargeService) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ChargeServiceMiddleware(svc))

	r.GET("/healthz", handlers.Health)

	api := r.Group("/api")
	{
		api.POST("/pre-cadastro", handlers.PreRegister)

		pix := api.Group("/pix")
		{
			pix.GET("/status", handlers.ChargeStatus)
			pix.POST("/webhook", handlers.Webhook)
		}
	}
}
