package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservations/config"
	"github.com/yeremiapane/table-reservations/database"
	"github.com/yeremiapane/table-reservations/events"
	"github.com/yeremiapane/table-reservations/hub"
	"github.com/yeremiapane/table-reservations/router"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.SetLogLevel(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := database.Open(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	utils.InfoLogger.Printf("Database ready (driver=%s)", db.Driver())

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			utils.ErrorLogger.Printf("Reservation events disabled: %v", err)
		} else {
			publisher = amqpPublisher
			utils.InfoLogger.Printf("Publishing reservation events to exchange %q", cfg.Events.Exchange)
		}
	}
	defer publisher.Close()

	clock := utils.SystemClock{}
	floorPlan := hub.New()

	reservations := services.NewReservationService(db, publisher)
	layout := services.NewTableLayoutService(reservations, clock, cfg.Layout.NumTables)
	backups := services.NewBackupService(db, cfg.Backup.Dir, clock)

	// Denah live: polling berkala + refresh setiap ada perubahan reservasi
	monitor := services.NewLayoutMonitor(layout, floorPlan, clock, cfg.Layout.NumTables, cfg.Layout.PollInterval)
	reservations.OnChange(monitor.Refresh)
	monitor.Start()
	defer monitor.Stop()

	if cfg.Backup.Enabled && db.IsFileBased() {
		scheduler, err := services.NewBackupScheduler(backups, cfg.Backup.Schedule, cfg.Backup.KeepCount)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to start backup scheduler: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	redisClient := config.NewRedisClient(cfg.HTTP)
	if redisClient != nil {
		defer redisClient.Close()
		utils.InfoLogger.Printf("Using redis rate limiter at %s", cfg.HTTP.RedisAddr)
	} else if cfg.HTTP.RedisAddr != "" {
		utils.ErrorLogger.Printf("Redis at %s not reachable, using in-memory rate limiter", cfg.HTTP.RedisAddr)
	}

	r := router.SetupRouter(router.Dependencies{
		Config:       cfg,
		Clock:        clock,
		Reservations: reservations,
		Query:        services.NewReservationQueryService(reservations),
		Layout:       layout,
		Backups:      backups,
		Reports:      services.NewReportService(reservations, clock),
		Sections:     services.NewSectionService(db),
		Waiters:      services.NewWaiterService(db),
		Shifts:       services.NewShiftService(db, clock),
		Hub:          floorPlan,
		Redis:        redisClient,
		OnRestore:    monitor.Refresh,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server forced to shutdown: %v", err)
	}
}
