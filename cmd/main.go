package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_booking"
	cancelHoldHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_hold"
	confirmHoldHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/confirm_hold"
	createHoldHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_hold"
	getBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking"
	getHoldHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_hold"
	getScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_schedule"
	recordPaymentStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/record_payment_status"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/eventbus"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	clinicRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/clinic"
	coverageRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/coverage"
	holdRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/hold"
	serviceTypeRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/servicetype"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	holdsService "github.com/m04kA/SMC-SchedulingService/internal/service/holds"
	"github.com/m04kA/SMC-SchedulingService/internal/sweep"
	confirmHoldUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/confirm_hold"
	createHoldUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_hold"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Интерфейс transaction manager, общий для сервисов и use cases
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории и публикатор событий (с метриками или без)
	var (
		bookingRepository     *bookingRepo.Repository
		holdRepository        *holdRepo.Repository
		clinicRepository      *clinicRepo.Repository
		serviceTypeRepository *serviceTypeRepo.Repository
		coverageRepository    *coverageRepo.Repository
		eventPublisher        *eventbus.Publisher
		txMgr                 TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		holdRepository = holdRepo.NewRepository(wrappedDB)
		clinicRepository = clinicRepo.NewRepository(wrappedDB)
		serviceTypeRepository = serviceTypeRepo.NewRepository(wrappedDB)
		coverageRepository = coverageRepo.NewRepository(wrappedDB)
		eventPublisher = eventbus.NewPublisher(wrappedDB, metricsCollector)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		holdRepository = holdRepo.NewRepository(db)
		clinicRepository = clinicRepo.NewRepository(db)
		serviceTypeRepository = serviceTypeRepo.NewRepository(db)
		coverageRepository = coverageRepo.NewRepository(db)
		eventPublisher = eventbus.NewPublisher(db, nil)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	holdsSvc := holdsService.NewService(
		holdRepository,
		eventPublisher,
		txMgr,
		log,
	)
	bookingsSvc := bookingsService.NewService(
		bookingRepository,
		holdRepository,
		eventPublisher,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createHoldUseCase := createHoldUC.NewUseCase(
		clinicRepository,
		serviceTypeRepository,
		coverageRepository,
		bookingRepository,
		holdRepository,
		eventPublisher,
		txMgr,
		log,
	)
	confirmHoldUseCase := confirmHoldUC.NewUseCase(
		holdRepository,
		bookingRepository,
		eventPublisher,
		txMgr,
		log,
	)

	// Фоновое освобождение истекших холдов
	var sweeper *sweep.Sweeper
	if cfg.Sweeper.Enabled {
		sweeper = sweep.New(
			holdsSvc,
			time.Duration(cfg.Sweeper.IntervalSeconds)*time.Second,
			metricsCollector,
			log,
		)
		sweeper.Start()
	} else {
		log.Info("Sweeper disabled, holds expire lazily on read")
	}

	// Инициализируем handlers
	createHold := createHoldHandler.NewHandler(createHoldUseCase, log)
	confirmHold := confirmHoldHandler.NewHandler(confirmHoldUseCase, log)
	cancelHold := cancelHoldHandler.NewHandler(holdsSvc, log)
	getHold := getHoldHandler.NewHandler(holdsSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingsSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingsSvc, log)
	recordPaymentStatus := recordPaymentStatusHandler.NewHandler(bookingsSvc, log)
	getSchedule := getScheduleHandler.NewHandler(bookingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix; все маршруты требуют заголовков тенанта и пользователя
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Холды ---
	api.HandleFunc("/holds", createHold.Handle).Methods(http.MethodPost)
	api.HandleFunc("/holds/{holdId}", getHold.Handle).Methods(http.MethodGet)
	api.HandleFunc("/holds/{holdId}/confirm", confirmHold.Handle).Methods(http.MethodPost)
	api.HandleFunc("/holds/{holdId}/cancel", cancelHold.Handle).Methods(http.MethodPatch)

	// --- Записи ---
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/payment-status", recordPaymentStatus.Handle).Methods(http.MethodPatch)

	// --- Расписание специалиста ---
	api.HandleFunc("/professionals/{professionalId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем sweeper и сбор метрик connection pool
	if sweeper != nil {
		sweeper.Stop()
	}
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
