package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/config"
	"github.com/amanihq/amani-backend/internal/api"
	"github.com/amanihq/amani-backend/internal/middleware"
	"github.com/amanihq/amani-backend/internal/router"
	"github.com/amanihq/amani-backend/internal/service"
)

// Server wires the service graph and owns the HTTP listener.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	cfg    *config.Config
}

// New assembles all services and handlers around the shared database handle.
// redisClient may be nil; chat then runs uncached and unthrottled.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	clock := service.SystemClock()
	loc := cfg.EventLocation()

	ledger := service.NewLedgerService(service.Allowances{
		Lunches: cfg.WeeklyLunches,
		Dinners: cfg.WeeklyDinners,
		Drinks:  cfg.WeeklyDrinks,
	})
	inventory := service.NewInventoryService(db)
	transactions := service.NewTransactionService(db)
	consumption := service.NewConsumptionService(db, ledger, inventory, transactions, clock, loc)
	dashboard := service.NewDashboardService(db, loc)

	consumptionHandler := api.NewConsumptionHandler(consumption)
	drinksHandler := api.NewDrinksHandler(inventory, transactions)
	adminHandler := api.NewAdminHandler(db, dashboard, inventory, ledger, clock)

	var chatHandler *api.ChatHandler
	var chatLimiter *middleware.RateLimiter
	if ai, err := service.NewAIService(cfg); err != nil {
		// The allowance API works without the assistant; just say so.
		log.Printf("Chat assistant disabled: %v", err)
	} else {
		chat := service.NewChatService(db, ai, redisClient, dashboard, clock)
		chatHandler = api.NewChatHandler(chat)
		if redisClient != nil {
			chatLimiter = middleware.NewChatRateLimiter(redisClient)
		}
	}

	engine := router.SetupRouter(consumptionHandler, drinksHandler, chatHandler, adminHandler, chatLimiter)

	return &Server{
		engine: engine,
		cfg:    cfg,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
