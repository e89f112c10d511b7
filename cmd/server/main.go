package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tburn-scan.backend/internal/config"
	"tburn-scan.backend/internal/infrastructure/blockchain"
	"tburn-scan.backend/internal/infrastructure/jobs"
	"tburn-scan.backend/internal/infrastructure/repositories"
	"tburn-scan.backend/internal/interfaces/http/handlers"
	"tburn-scan.backend/internal/interfaces/http/middleware"
	"tburn-scan.backend/internal/usecases"
	"tburn-scan.backend/pkg/logger"
	"tburn-scan.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	dialChain = blockchain.NewChainClient
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Connect to the chain RPC. The factory degrades to fallback behavior
	// when the endpoint is unreachable, so a dial failure is not fatal.
	var chainClient usecases.ChainRPC
	if client, err := dialChain(cfg.Blockchain.RPCURL); err != nil {
		logger.Warn(context.Background(), "Chain RPC unreachable, running in degraded mode",
			zap.String("rpcUrl", cfg.Blockchain.RPCURL), zap.Error(err))
	} else {
		defer client.Close()
		chainClient = client
		logger.Info(context.Background(), "Connected to chain RPC",
			zap.String("rpcUrl", cfg.Blockchain.RPCURL), zap.String("chainId", client.ChainID().String()))
	}

	// Initialize repositories
	tokenRepo := repositories.NewRegisteredTokenRepository(db)

	// Initialize usecases
	registryUsecase := usecases.NewTokenRegistryUsecase(tokenRepo)
	if err := registryUsecase.Initialize(context.Background()); err != nil {
		log.Printf("⚠️ Registry cache not warmed: %v (serving from empty cache)", err)
	}

	factoryUsecase := usecases.NewTokenFactoryUsecase(chainClient, registryUsecase, usecases.FactoryConfig{
		ChainID:           cfg.Blockchain.ChainID,
		TBC20Address:      cfg.Blockchain.TBC20Factory.Address,
		TBC20Configured:   cfg.Blockchain.TBC20Factory.Configured,
		TBC721Address:     cfg.Blockchain.TBC721Factory.Address,
		TBC721Configured:  cfg.Blockchain.TBC721Factory.Configured,
		TBC1155Address:    cfg.Blockchain.TBC1155Factory.Address,
		TBC1155Configured: cfg.Blockchain.TBC1155Factory.Configured,
		ReceiptTimeout:    cfg.Blockchain.ReceiptTimeout,
	})

	// Initialize handlers
	factoryHandler := handlers.NewTokenFactoryHandler(factoryUsecase)
	registryHandler := handlers.NewTokenRegistryHandler(registryUsecase)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthJob := jobs.NewChainHealthJob(factoryUsecase)
	go healthJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		factoryHandler:  factoryHandler,
		registryHandler: registryHandler,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		healthJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 TBURN Scan Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
