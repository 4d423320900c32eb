package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	cancelBookingHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/create_booking"
	createEventHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/create_event"
	exportEventBookingsHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/export_event_bookings"
	generateSlotsHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/generate_slots"
	getAvailableSlotsHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/get_booking"
	getEventHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/get_event"
	getEventBookingsHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/get_event_bookings"
	googleAuthHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/google_auth"
	listAgentEventsHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/list_agent_events"
	listEventsHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/list_events"
	questionnaireWebhookHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/questionnaire_webhook"
	updateBookingStatusHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/update_booking_status"
	updateEventHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/update_event"
	updateEventStatusHandler "github.com/m04kA/SMC-OpenHouseService/internal/api/handlers/update_event_status"
	"github.com/m04kA/SMC-OpenHouseService/internal/api/middleware"
	"github.com/m04kA/SMC-OpenHouseService/internal/config"
	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/internal/infra/export"
	bookingRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/booking"
	clientRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/client"
	eventRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/event"
	oauthtokenRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/oauthtoken"
	propertyRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/property"
	slotRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-OpenHouseService/internal/integrations/google"
	bookingsService "github.com/m04kA/SMC-OpenHouseService/internal/service/bookings"
	eventsService "github.com/m04kA/SMC-OpenHouseService/internal/service/events"
	googleAuthService "github.com/m04kA/SMC-OpenHouseService/internal/service/googleauth"
	notificationsService "github.com/m04kA/SMC-OpenHouseService/internal/service/notifications"
	completeQuestionnaireUC "github.com/m04kA/SMC-OpenHouseService/internal/usecase/complete_questionnaire"
	createBookingUC "github.com/m04kA/SMC-OpenHouseService/internal/usecase/create_booking"
	generateSlotsUC "github.com/m04kA/SMC-OpenHouseService/internal/usecase/generate_slots"
	getAvailableSlotsUC "github.com/m04kA/SMC-OpenHouseService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-OpenHouseService/internal/worker"
	"github.com/m04kA/SMC-OpenHouseService/pkg/dbmetrics"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
	"github.com/m04kA/SMC-OpenHouseService/pkg/metrics"
	"github.com/m04kA/SMC-OpenHouseService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level, logger.Options{
		Format:  cfg.Logs.Format,
		Service: cfg.Metrics.ServiceName,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-OpenHouseService...")
	log.Info("Configuration loaded from %s", configPath)

	loc, err := time.LoadLocation(cfg.Google.Timezone)
	if err != nil {
		log.Fatal("Invalid timezone %q: %v", cfg.Google.Timezone, err)
	}

	// Бизнес-метрики пишем всегда, эндпоинт публикуем только если включено
	metricsCollector := metrics.New(cfg.Metrics.ServiceName, nil)
	stopMetricsCh := make(chan struct{})

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

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)
	eventRepository := eventRepo.NewRepository(wrappedDB)
	propertyRepository := propertyRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	tokenRepository := oauthtokenRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Интеграция с Google
	if !cfg.GoogleEnabled() {
		log.Warn("Google OAuth credentials are not configured, notifications will fail until they are set")
	}
	googleOAuth := google.NewOAuth(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL, nil)
	mailer := google.NewMailer()
	calendar := google.NewCalendar(cfg.Google.CalendarID, cfg.Google.Timezone)

	googleAuthSvc := googleAuthService.NewService(
		googleOAuth,
		tokenRepository,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.OAuthStateTTL)*time.Minute,
		cfg.Google.SuccessURL,
		log,
	)

	// Уведомления: очередь, пул воркеров и sweeper
	notificationSvc := notificationsService.NewService(
		bookingRepository,
		googleAuthSvc,
		mailer,
		calendar,
		cfg.Notifications.QuestionnaireURL,
		cfg.Notifications.DashboardURL,
		log,
	)

	var queue worker.Queue
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		queue = worker.NewRedisQueue(redisClient, cfg.Redis.Queue, cfg.Redis.DeadLetter)
		log.Info("Notification queue: redis (addr=%s, key=%s)", cfg.Redis.Addr, cfg.Redis.Queue)
	} else {
		queue = worker.NewMemoryQueue(cfg.Notifications.QueueSize)
		log.Info("Notification queue: in-memory (size=%d)", cfg.Notifications.QueueSize)
	}

	pool := worker.NewPool(queue, notificationSvc, metricsCollector, log,
		worker.WithWorkers(cfg.Notifications.Workers),
		worker.WithRetryPolicy(worker.RetryPolicy{
			MaxAttempts:  cfg.Notifications.MaxAttempts,
			InitialDelay: time.Duration(cfg.Notifications.BaseDelay) * time.Second,
			MaxDelay:     time.Duration(cfg.Notifications.MaxDelay) * time.Second,
		}),
		worker.WithSendTimeout(time.Duration(cfg.Notifications.SendTimeout)*time.Second),
		worker.WithPermanentErrors(notificationsService.PermanentErrors...),
	)

	sweeper := worker.NewSweeper(
		bookingRepository,
		pool,
		queue,
		time.Duration(cfg.Sweeper.MinAge)*time.Minute,
		time.Duration(cfg.Sweeper.MaxAge)*time.Hour,
		log,
	)

	// Сервисы
	exporter := export.NewXLSXExporter(loc)
	bookingSvc := bookingsService.NewService(bookingRepository, eventRepository, exporter, metricsCollector, log)
	eventSvc := eventsService.NewService(
		eventRepository,
		propertyRepository,
		slotRepository,
		bookingRepository,
		txMgr,
		loc,
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		eventRepository,
		slotRepository,
		clientRepository,
		bookingRepository,
		txMgr,
		pool,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(eventRepository, slotRepository, bookingRepository, log)
	generateSlotsUseCase := generateSlotsUC.NewUseCase(eventRepository, slotRepository, bookingRepository, txMgr, log)
	completeQuestionnaireUseCase := completeQuestionnaireUC.NewUseCase(bookingRepository, pool, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getEventBookings := getEventBookingsHandler.NewHandler(bookingSvc, log)
	exportEventBookings := exportEventBookingsHandler.NewHandler(bookingSvc, log)
	createEvent := createEventHandler.NewHandler(eventSvc, log)
	getEvent := getEventHandler.NewHandler(eventSvc, log)
	listEvents := listEventsHandler.NewHandler(eventSvc, log)
	listAgentEvents := listAgentEventsHandler.NewHandler(eventSvc, log)
	updateEvent := updateEventHandler.NewHandler(eventSvc, log)
	updateEventStatus := updateEventStatusHandler.NewHandler(eventSvc, log)
	questionnaireWebhook := questionnaireWebhookHandler.NewHandler(completeQuestionnaireUseCase, log)
	googleAuth := googleAuthHandler.NewHandler(googleAuthSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector, log))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/events", listEvents.Handle).Methods(http.MethodGet)
	api.HandleFunc("/events/{eventId}", getEvent.Handle).Methods(http.MethodGet)
	api.HandleFunc("/events/{eventId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования клиентом, с ограничением частоты по IP
	var (
		createBookingHTTP http.Handler = http.HandlerFunc(createBooking.Handle)
		limiter           *middleware.RateLimiter
	)
	if cfg.RateLimit.Enabled {
		trustedProxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
		if err != nil {
			log.Fatal("Invalid ratelimit.trusted_proxies: %v", err)
		}
		limiter = middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.Burst,
			middleware.WithTrustedProxies(trustedProxies),
		)
		createBookingHTTP = limiter.Middleware(log)(createBookingHTTP)
		log.Info("Rate limit on POST /bookings: %d req/min, burst %d",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	api.Handle("/bookings", createBookingHTTP).Methods(http.MethodPost)

	// Google возвращает агента сюда без нашего токена, агент берётся из state
	api.HandleFunc("/auth/google/callback", googleAuth.Callback).Methods(http.MethodGet)

	// ============================================================
	// WEBHOOKS (общий секрет в заголовке)
	// ============================================================

	webhooks := api.PathPrefix("/webhooks").Subrouter()
	webhooks.Use(middleware.WebhookSecret(cfg.Auth.WebhookSecret, log))
	webhooks.HandleFunc("/questionnaire", questionnaireWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT агентства)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret, log))

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/events/{eventId}/bookings", getEventBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/events/{eventId}/bookings/export", exportEventBookings.Handle).Methods(http.MethodGet)

	// --- Google ---
	protected.HandleFunc("/auth/google", googleAuth.Connect).Methods(http.MethodGet)
	protected.HandleFunc("/auth/google/status", googleAuth.Status).Methods(http.MethodGet)

	// --- Управление событиями (агенты и администраторы) ---
	managers := protected.PathPrefix("").Subrouter()
	managers.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleAgent))

	managers.HandleFunc("/agents/me/events", listAgentEvents.Handle).Methods(http.MethodGet)
	managers.HandleFunc("/events", createEvent.Handle).Methods(http.MethodPost)
	managers.HandleFunc("/events/{eventId}", updateEvent.Handle).Methods(http.MethodPatch)
	managers.HandleFunc("/events/{eventId}/status", updateEventStatus.Handle).Methods(http.MethodPatch)
	managers.HandleFunc("/events/{eventId}/generate-slots", generateSlots.Handle).Methods(http.MethodPost)
	managers.HandleFunc("/generate-slots", generateSlots.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return pool.Run(gctx)
	})

	if limiter != nil {
		g.Go(func() error {
			return limiter.Run(
				gctx,
				time.Duration(cfg.RateLimit.CleanupInterval)*time.Second,
				time.Duration(cfg.RateLimit.IdleTTL)*time.Second,
				log,
			)
		})
	}

	if cfg.Sweeper.Enabled {
		if err := sweeper.Start(gctx, cfg.Sweeper.Schedule); err != nil {
			log.Fatal("Failed to start sweeper: %v", err)
		}
	}

	// Ожидаем сигнал завершения или падение одной из горутин
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		if cfg.Sweeper.Enabled {
			sweeper.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
