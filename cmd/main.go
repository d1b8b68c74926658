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

	cancelBookingHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/get_booking"
	getPackageCapacityHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/get_package_capacity"
	getTenantBookingsHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/get_tenant_bookings"
	listSlotLocksHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/list_slot_locks"
	lockSlotHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/lock_slot"
	releaseLockHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/release_lock"
	subscribePackageHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/subscribe_package"
	updateBookingHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/update_booking"
	validateLockHandler "github.com/bookati/Bookati-BookingService/internal/api/handlers/validate_lock"
	"github.com/bookati/Bookati-BookingService/internal/api/middleware"
	"github.com/bookati/Bookati-BookingService/internal/auth"
	"github.com/bookati/Bookati-BookingService/internal/config"
	"github.com/bookati/Bookati-BookingService/internal/infra/queue"
	bookingRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/booking"
	lockRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/lock"
	slotRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/slot"
	subscriptionRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/subscription"
	"github.com/bookati/Bookati-BookingService/internal/integrations/messaging"
	bookingsService "github.com/bookati/Bookati-BookingService/internal/service/bookings"
	locksService "github.com/bookati/Bookati-BookingService/internal/service/locks"
	notificationsService "github.com/bookati/Bookati-BookingService/internal/service/notifications"
	packagesService "github.com/bookati/Bookati-BookingService/internal/service/packages"
	acquireLockUC "github.com/bookati/Bookati-BookingService/internal/usecase/acquire_lock"
	createBookingUC "github.com/bookati/Bookati-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/bookati/Bookati-BookingService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/bookati/Bookati-BookingService/internal/usecase/reschedule_booking"
	"github.com/bookati/Bookati-BookingService/pkg/dbmetrics"
	"github.com/bookati/Bookati-BookingService/pkg/logger"
	"github.com/bookati/Bookati-BookingService/pkg/metrics"
	"github.com/bookati/Bookati-BookingService/pkg/simpletxmanager"
	"github.com/bookati/Bookati-BookingService/pkg/txmanager"
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

	log.Info("Starting Bookati-BookingService...")
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

	// Менеджер JWT токенов
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTokenTTL)*time.Minute,
	)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		slotRepository         *slotRepo.Repository
		lockRepository         *lockRepo.Repository
		subscriptionRepository *subscriptionRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		lockRepository = lockRepo.NewRepository(wrappedDB)
		subscriptionRepository = subscriptionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		lockRepository = lockRepo.NewRepository(db)
		subscriptionRepository = subscriptionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Издатель событий: RabbitMQ или noop-заглушка
	type EventPublisher interface {
		Publish(ctx context.Context, routingKey string, event interface{}) error
	}
	var publisher EventPublisher

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	if cfg.AMQP.Enabled {
		amqpPublisher, err := queue.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Event publisher connected to RabbitMQ (exchange=%s)", cfg.AMQP.Exchange)

		// Потребитель уведомлений: билеты, счета, исчерпание пакетов
		messagingClient := messaging.NewClient(
			cfg.Messaging.URL,
			time.Duration(cfg.Messaging.Timeout)*time.Second,
			log,
		)
		notificationsSvc := notificationsService.NewService(messagingClient, log)

		consumer, err := queue.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, notificationsSvc, log)
		if err != nil {
			log.Fatal("Failed to start notifications consumer: %v", err)
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Run(consumerCtx); err != nil {
				log.Error("Notifications consumer stopped: %v", err)
			}
		}()
		log.Info("Notifications consumer started (queue=%s)", cfg.AMQP.Queue)
	} else {
		publisher = queue.NewNoopPublisher(log)
		log.Info("AMQP disabled, events are logged only")
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		txMgr,
		publisher,
		log,
	)
	locksSvc := locksService.NewService(lockRepository, log)
	packagesSvc := packagesService.NewService(subscriptionRepository, txMgr, log)

	// Инициализируем use cases
	acquireLockUseCase := acquireLockUC.NewUseCase(
		slotRepository,
		lockRepository,
		txMgr,
		time.Duration(cfg.Booking.LockDurationSeconds)*time.Second,
		cfg.Booking.MaxReservedCapacity,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		lockRepository,
		bookingRepository,
		subscriptionRepository,
		txMgr,
		publisher,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		lockRepository,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		lockRepository,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	lockSlot := lockSlotHandler.NewHandler(acquireLockUseCase, log)
	validateLock := validateLockHandler.NewHandler(locksSvc, log)
	releaseLock := releaseLockHandler.NewHandler(locksSvc, log)
	listSlotLocks := listSlotLocksHandler.NewHandler(locksSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)
	subscribePackage := subscribePackageHandler.NewHandler(packagesSvc, log)
	getPackageCapacity := getPackageCapacityHandler.NewHandler(packagesSvc, log)

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
	// PUBLIC ROUTES (клиентский поток выбора слота, без токена)
	// ============================================================

	// Витрина доступных слотов с учетом активных блокировок
	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Блокировка вместимости слота на время оформления
	api.HandleFunc("/bookings/lock", lockSlot.Handle).Methods(http.MethodPost)

	// Проверка блокировки (без побочных эффектов)
	api.HandleFunc("/bookings/lock/{id}/validate", validateLock.Handle).Methods(http.MethodGet)

	// Досрочное снятие блокировки
	api.HandleFunc("/bookings/lock/{id}/release", releaseLock.Handle).Methods(http.MethodPost)

	// Активные блокировки по слотам (для календаря доступности)
	api.HandleFunc("/bookings/locks", listSlotLocks.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokenManager, log))

	// --- Бронирования ---
	// Создание бронирования (ресепшен, администратор)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Список бронирований тенанта с фильтрацией
	protected.HandleFunc("/bookings", getTenantBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)

	// Обновление и перенос бронирования
	protected.HandleFunc("/bookings/{id}", updateBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования с возвратом вместимости слота
	protected.HandleFunc("/bookings/{id}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// --- Пакеты ---
	// Оформление подписки на пакет
	protected.HandleFunc("/packages/subscribe", subscribePackage.Handle).Methods(http.MethodPost)

	// Остаток предоплаченной вместимости клиента по услуге
	protected.HandleFunc("/packages/capacity", getPackageCapacity.Handle).Methods(http.MethodGet)

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

	// Останавливаем потребителя уведомлений
	stopConsumer()

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
