package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/JiaXinLow/period-poverty-api/internal/config"
	"github.com/JiaXinLow/period-poverty-api/internal/handler"
	"github.com/JiaXinLow/period-poverty-api/internal/integrations/ons"
	"github.com/JiaXinLow/period-poverty-api/internal/repository"
	"github.com/JiaXinLow/period-poverty-api/internal/service"
	"github.com/JiaXinLow/period-poverty-api/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize datastore
	var (
		store      repository.Store
		basketRepo repository.BasketRepository
		priceSink  service.PriceSink
	)
	if cfg.Store == "memory" {
		mem := repository.NewMemoryStore()
		store, basketRepo, priceSink = mem, mem, mem
		logger.Warn("Running with the in-memory store; data is not persisted")
	} else {
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("Failed to ping database: %v", err)
		}
		repo := repository.NewRepository(db)
		if err := repo.EnsureSchema(); err != nil {
			logger.Fatalf("Failed to ensure schema: %v", err)
		}
		store, basketRepo, priceSink = repo, repo, repo
	}

	// Result cache: Redis when configured, in-process map otherwise
	var cache repository.CacheRepository
	if cfg.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.RedisAddr, time.Hour)
	} else {
		cache = repository.NewMockCache()
	}

	// Initialize layers
	analytics := service.NewAnalyticsService(store, cache, logger)
	basket := service.NewBasketService(basketRepo, logger)
	h := handler.NewHandler(analytics, basket, logger)

	// Scheduled price-index refresh from the ONS feed
	if cfg.RefreshSchedule != "" {
		feed := ons.NewClient(cfg, logger)
		var alerts service.AlertSender
		if cfg.AlertEmail != "" {
			alerts = email.NewSender(cfg, logger)
		}
		refresher := service.NewRefreshService(priceSink, feed, alerts, logger)
		c := cron.New()
		if _, err := c.AddFunc(cfg.RefreshSchedule, refresher.Run); err != nil {
			logger.Fatalf("Invalid REFRESH_SCHEDULE: %v", err)
		}
		c.Start()
		defer c.Stop()
		logger.Infof("Price index refresh scheduled: %s", cfg.RefreshSchedule)
	}

	// Setup router
	r := mux.NewRouter()
	r.HandleFunc("/v1/health", h.Health).Methods("GET")
	// Analytics
	r.HandleFunc("/v1/analytics/inflation-trend", h.InflationTrend).Methods("GET")
	r.HandleFunc("/v1/analytics/cost-estimate", h.CostEstimate).Methods("POST")
	r.HandleFunc("/v1/analytics/cost-burden", h.CostBurden).Methods("GET")
	r.HandleFunc("/v1/analytics/severity-score", h.SeverityScore).Methods("GET")
	// Datasets (read-only)
	r.HandleFunc("/v1/price-index", h.PriceIndex).Methods("GET")
	r.HandleFunc("/v1/pip/uk/{year}", h.WelfareYear).Methods("GET")
	r.HandleFunc("/v1/hygiene/uk", h.HygieneLatest).Methods("GET")
	// Basket CRUD
	r.HandleFunc("/v1/basket-items", h.CreateBasketItem).Methods("POST")
	r.HandleFunc("/v1/basket-items", h.ListBasketItems).Methods("GET")
	r.HandleFunc("/v1/basket-items/{id}", h.GetBasketItem).Methods("GET")
	r.HandleFunc("/v1/basket-items/{id}", h.UpdateBasketItem).Methods("PUT")
	r.HandleFunc("/v1/basket-items/{id}", h.DeleteBasketItem).Methods("DELETE")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
