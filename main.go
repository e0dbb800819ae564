package main

import (
	"os"
	"time"

	"backend/configs"
	"backend/controllers"
	"backend/repository"
	"backend/routes"
	"backend/services"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	cfg := configs.LoadConfig()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.GinMode == "debug" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}

	// DB
	if err := configs.ConnectionDB(cfg.DBSource); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	db := configs.DB()

	if err := configs.SetupDatabase(); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	if err := configs.SeedAdmin(cfg); err != nil {
		logger.Fatal().Err(err).Msg("seed admin failed")
	}

	// Repos
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	dirRepo := repository.NewDirectoryRepository(db)
	itemRepo := repository.NewItemRepository(db)

	// Services
	identity := services.NewIdentityService(dirRepo, logger, cfg.JWTSecret, cfg.JWTTTL)
	carts := services.NewCartService(db, cartRepo, itemRepo, logger)
	orders := services.NewOrderService(db, orderRepo, cartRepo, dirRepo, logger)

	hub := ws.NewOrderHub(orders, logger)
	orders.Pub = hub
	go hub.Run()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Identity: identity,
		Carts:    carts,
		Orders:   orders,
		Menu:     controllers.NewMenuController(itemRepo),
		Hub:      hub,
		Log:      logger,
	})

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
