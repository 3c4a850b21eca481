package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/zemouh/finagent/config"
	"github.com/zemouh/finagent/internal/advisor"
	"github.com/zemouh/finagent/internal/cache"
	"github.com/zemouh/finagent/internal/cli"
	"github.com/zemouh/finagent/internal/finnhub"
	"github.com/zemouh/finagent/internal/handlers"
	"github.com/zemouh/finagent/internal/middleware"
	"github.com/zemouh/finagent/internal/repository"
	"github.com/zemouh/finagent/internal/services"
	"github.com/zemouh/finagent/internal/storage"
)

func main() {
	cliMode := flag.Bool("cli", false, "run the interactive prompt loop instead of the server")
	withAdvice := flag.Bool("advice", false, "request generated advice for each CLI evaluation")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Choose the storage backend
	var (
		recordStore services.RecordStore
		userStore   services.UserStore
		closeStore  func()
	)
	switch cfg.DBBackend {
	case config.BackendPostgres:
		if err := repository.RunMigrations(cfg.PGURL); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		pool, err := pgxpool.New(ctx, cfg.PGURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		recordStore = repository.NewRecordRepository(pool)
		userStore = repository.NewUserRepository(pool)
		closeStore = pool.Close
	default:
		db, err := storage.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		recordStore = storage.NewRecordStore(db)
		userStore = storage.NewUserStore(db)
		closeStore = func() { db.Close() }
	}
	defer closeStore()

	// Advice generation is optional; without a key the classifier still works
	var adv services.Advisor
	if cfg.ZhipuKey != "" {
		adv = advisor.NewComposer(advisor.NewClient(cfg.ZhipuKey))
	} else {
		log.Warn("ZHIPU_API_KEY not set, advice generation disabled")
	}

	// Initialize services
	budgetSvc := services.NewBudgetService(recordStore, adv)
	authSvc := services.NewAuthService(userStore, cfg.JWTSecret)

	if *cliMode {
		app := cli.NewApp(os.Stdin, os.Stdout, budgetSvc, userStore, *withAdvice)
		if err := app.Run(ctx); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required to serve")
	}

	memCache := cache.NewMemoryCache(5 * time.Minute)
	newsSvc := services.NewNewsService(finnhub.NewClient(cfg.FinnhubKey), memCache)
	sentimentSvc := services.NewSentimentService()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	budgetHandler := handlers.NewBudgetHandler(budgetSvc)
	newsHandler := handlers.NewNewsHandler(newsSvc, sentimentSvc)

	// Setup Gin router
	router := gin.Default()

	// Apply global middleware
	router.Use(middleware.Authenticate(authSvc))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	// Budget routes (identity required; records are per-user)
	authed := router.Group("/", middleware.RequireAuth())
	authed.POST("/evaluate", budgetHandler.Evaluate)
	authed.GET("/records", budgetHandler.ListRecords)
	authed.GET("/records/:id", budgetHandler.GetRecord)
	authed.DELETE("/records/:id", budgetHandler.DeleteRecord)
	authed.DELETE("/records", budgetHandler.DeleteAllRecords)
	authed.GET("/statistics", budgetHandler.Statistics)
	authed.GET("/export/csv", budgetHandler.ExportCSV)

	// Market news routes
	router.GET("/news", newsHandler.MarketNews)
	router.GET("/news/:symbol", newsHandler.CompanyNews)
	router.GET("/news/:symbol/sentiment", newsHandler.Sentiment)
	router.GET("/quote/:symbol", newsHandler.Quote)
	router.GET("/symbols", newsHandler.SearchSymbols)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on port %s (backend: %s)", cfg.Port, cfg.DBBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	fmt.Println("Server exited")
}
