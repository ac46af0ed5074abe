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

	cancelBookingHandler "github.com/nvkhoa/CourtHub-SlotService/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/nvkhoa/CourtHub-SlotService/internal/api/handlers/confirm_booking"
	getBookingHandler "github.com/nvkhoa/CourtHub-SlotService/internal/api/handlers/get_booking"
	getSlotMapHandler "github.com/nvkhoa/CourtHub-SlotService/internal/api/handlers/get_slot_map"
	getUserBookingsHandler "github.com/nvkhoa/CourtHub-SlotService/internal/api/handlers/get_user_bookings"
	reserveSlotsHandler "github.com/nvkhoa/CourtHub-SlotService/internal/api/handlers/reserve_slots"
	"github.com/nvkhoa/CourtHub-SlotService/internal/api/middleware"
	"github.com/nvkhoa/CourtHub-SlotService/internal/app"
	"github.com/nvkhoa/CourtHub-SlotService/internal/config"
	bookingRepo "github.com/nvkhoa/CourtHub-SlotService/internal/infra/storage/booking"
	holdRepo "github.com/nvkhoa/CourtHub-SlotService/internal/infra/storage/hold"
	centerServiceClient "github.com/nvkhoa/CourtHub-SlotService/internal/integrations/centerservice"
	loyaltyServiceClient "github.com/nvkhoa/CourtHub-SlotService/internal/integrations/loyaltyservice"
	bookingsService "github.com/nvkhoa/CourtHub-SlotService/internal/service/bookings"
	"github.com/nvkhoa/CourtHub-SlotService/internal/service/sweeper"
	getSlotMapUC "github.com/nvkhoa/CourtHub-SlotService/internal/usecase/get_slot_map"
	reserveSlotsUC "github.com/nvkhoa/CourtHub-SlotService/internal/usecase/reserve_slots"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/dbmetrics"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/logger"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/metrics"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/simpletxmanager"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/txmanager"
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

	log.Info("Starting CourtHub-SlotService...")
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

	// Прогоняем миграции (если включены)
	if cfg.Database.Migrations {
		migrator, err := app.NewMigrator(db)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		version, err := migrator.Version(context.Background())
		if err != nil {
			log.Fatal("Failed to get migrations version: %v", err)
		}
		log.Info("Migrations applied, schema version=%d", version)
	}

	// Инициализируем интеграционных клиентов
	centerClient := centerServiceClient.NewClient(
		cfg.CenterService.URL,
		time.Duration(cfg.CenterService.Timeout)*time.Second,
		log,
	)
	loyaltyClient := loyaltyServiceClient.NewClient(
		cfg.LoyaltyService.URL,
		time.Duration(cfg.LoyaltyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CenterService=%s timeout=%ds, LoyaltyService=%s timeout=%ds)",
		cfg.CenterService.URL, cfg.CenterService.Timeout, cfg.LoyaltyService.URL, cfg.LoyaltyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		holdRepository    *holdRepo.Repository
		bookingRepository *bookingRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		holdRepository = holdRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		holdRepository = holdRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		holdRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	reserveSlotsUseCase := reserveSlotsUC.NewUseCase(
		holdRepository,
		bookingRepository,
		centerClient,
		loyaltyClient,
		txMgr,
		time.Duration(cfg.Booking.HoldTTL)*time.Second,
		metricsCollector,
		log,
	)

	getSlotMapUseCase := getSlotMapUC.NewUseCase(
		holdRepository,
		centerClient,
		log,
	)

	// Запускаем sweeper (если включён)
	sweeperCtx, sweeperCancel := context.WithCancel(context.Background())
	defer sweeperCancel()

	var slotSweeper *sweeper.Sweeper
	if cfg.Sweeper.Enabled {
		slotSweeper = sweeper.New(
			bookingRepository,
			holdRepository,
			txMgr,
			time.Duration(cfg.Sweeper.Interval)*time.Second,
			metricsCollector,
			log,
		)
		slotSweeper.Start(sweeperCtx)
		log.Info("Sweeper started (interval=%ds)", cfg.Sweeper.Interval)
	}

	// Инициализируем handlers
	reserveSlots := reserveSlotsHandler.NewHandler(reserveSlotsUseCase, log)
	getSlotMap := getSlotMapHandler.NewHandler(getSlotMapUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка слотов центра на дату (зритель опционален)
	api.HandleFunc("/centers/{centerId}/slot-map",
		getSlotMap.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Бронирование набора слотов
	protected.HandleFunc("/bookings", reserveSlots.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Подтверждение оплаты бронирования
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

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

	// Останавливаем sweeper
	if slotSweeper != nil {
		slotSweeper.Stop()
		log.Info("Sweeper stopped")
	}

	// Останавливаем сбор метрик connection pool
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
