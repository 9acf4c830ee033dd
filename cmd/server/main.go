package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/landrise/Fund-Distribution-Backend/internal/api"
	"github.com/landrise/Fund-Distribution-Backend/internal/config"
	"github.com/landrise/Fund-Distribution-Backend/internal/database"
	"github.com/landrise/Fund-Distribution-Backend/internal/repository"
	"github.com/landrise/Fund-Distribution-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	fundRepo := repository.NewFundRepository(db)
	investorRepo := repository.NewInvestorRepository(db)
	tierRepo := repository.NewTierRepository(db)
	distributionRepo := repository.NewDistributionRepository(db)
	calculationRepo := repository.NewCalculationRepository(db)
	accrualRepo := repository.NewAccrualRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	fundService := service.NewFundService(
		fundRepo,
		investorRepo,
		tierRepo,
		calculationRepo,
	)
	distributionService := service.NewDistributionService(
		db,
		fundRepo,
		investorRepo,
		tierRepo,
		distributionRepo,
		calculationRepo,
	)
	accrualService := service.NewAccrualService(
		fundRepo,
		investorRepo,
		calculationRepo,
		accrualRepo,
	)

	// Nightly preferred-return accrual snapshot
	scheduler := cron.New()
	if cfg.Accrual.Enabled {
		_, err := scheduler.AddFunc(cfg.Accrual.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			count, err := accrualService.RunSnapshots(ctx, time.Now().UTC())
			if err != nil {
				log.Printf("Accrual snapshot job failed: %v", err)
				return
			}
			log.Printf("Accrual snapshot job wrote %d snapshots", count)
		})
		if err != nil {
			log.Fatalf("Failed to schedule accrual job: %v", err)
		}
		scheduler.Start()
		log.Printf("Accrual snapshot job scheduled: %s", cfg.Accrual.Schedule)
	}

	// Create router
	router := api.NewRouter(systemService, fundService, distributionService, accrualService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if cfg.Accrual.Enabled {
		scheduler.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
