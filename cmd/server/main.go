package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/adityar2309/Vehicle-Parking-App/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/adityar2309/Vehicle-Parking-App/internal/activity"
	"github.com/adityar2309/Vehicle-Parking-App/internal/auth"
	"github.com/adityar2309/Vehicle-Parking-App/internal/cache"
	"github.com/adityar2309/Vehicle-Parking-App/internal/config"
	"github.com/adityar2309/Vehicle-Parking-App/internal/db"
	"github.com/adityar2309/Vehicle-Parking-App/internal/handler"
	"github.com/adityar2309/Vehicle-Parking-App/internal/jobs"
	"github.com/adityar2309/Vehicle-Parking-App/internal/mail"
	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
	"github.com/adityar2309/Vehicle-Parking-App/internal/repository"
	"github.com/adityar2309/Vehicle-Parking-App/internal/router"
	"github.com/adityar2309/Vehicle-Parking-App/internal/service"
)

// @title Vehicle Parking API
// @version 1.0
// @description Vehicle parking reservation API with lot management, spot booking, CSV exports, and JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.UserActivity{},
			&model.ExportJob{},
			&model.Reservation{},
			&model.ParkingSpot{},
			&model.ParkingLot{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.ParkingLot{},
		&model.ParkingSpot{},
		&model.Reservation{},
		&model.ExportJob{},
		&model.UserActivity{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories and the transaction manager
	repos := repository.NewRepositories(gormDB)
	txManager := repository.NewTxManager(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Activity log worker
	recorder := activity.NewAsyncRecorder(repos.Activities)
	defer recorder.Close()

	// Export worker pool
	exportQueue := jobs.NewQueue(cfg.ExportWorkers, cfg.ExportQueueSize)
	defer exportQueue.Shutdown()

	var mailer mail.Mailer = mail.Disabled{}
	if cfg.MailEnable {
		mailer = mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}

	// Initialize services
	authService := service.NewAuthService(repos.Users, jwtService, tokenStore)
	lotService := service.NewLotService(repos, txManager, cacheClient, cfg.LotListCacheTTL)
	reservationService := service.NewReservationService(repos, txManager, cacheClient, recorder, cfg.ReservationCacheTTL)
	userService := service.NewUserService(repos, cacheClient, cfg.DashboardCacheTTL)
	exportService := service.NewExportService(repos, exportQueue, recorder, mailer, cfg.ExportDir, cfg.ExportExpiry)
	reportService := service.NewReportService(repos, mailer, recorder)

	// Scheduled mail jobs
	scheduler := jobs.NewScheduler()
	mustSchedule(scheduler, cfg.ReminderSchedule, "daily_reminder", func() {
		if _, _, err := reportService.SendDailyReminders(context.Background()); err != nil {
			log.Printf("daily reminder job: %v", err)
		}
	})
	mustSchedule(scheduler, cfg.ReportSchedule, "monthly_report", func() {
		if _, _, err := reportService.SendMonthlyReports(context.Background()); err != nil {
			log.Printf("monthly report job: %v", err)
		}
	})
	mustSchedule(scheduler, cfg.CleanupSchedule, "export_cleanup", func() {
		if _, err := exportService.CleanupExpired(context.Background()); err != nil {
			log.Printf("export cleanup job: %v", err)
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	lotHandler := handler.NewLotHandler(lotService, userService)
	reservationHandler := handler.NewReservationHandler(reservationService, lotService, userService)
	exportHandler := handler.NewExportHandler(exportService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		lotHandler,
		reservationHandler,
		exportHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func mustSchedule(s *jobs.Scheduler, spec, name string, fn func()) {
	if err := s.Add(spec, name, fn); err != nil {
		log.Fatalf("schedule %s (%q): %v", name, spec, err)
	}
}
