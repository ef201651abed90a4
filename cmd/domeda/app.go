package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/agamariel/domeda/internal/config"
	"github.com/agamariel/domeda/internal/events"
	"github.com/agamariel/domeda/internal/handlers"
	"github.com/agamariel/domeda/internal/metrics"
	"github.com/agamariel/domeda/internal/migrations"
	"github.com/agamariel/domeda/internal/payment"
	"github.com/agamariel/domeda/internal/services"
	"github.com/agamariel/domeda/internal/storage"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg         *config.Config
	logger      *log.Logger
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	publisher   *events.KafkaPublisher
	store       *storage.Store
	echo        *echo.Echo
	metrics     *metrics.ServerMetrics

	// Handlers
	catalogHandler  *handlers.CatalogHandler
	checkoutHandler *handlers.CheckoutHandler
	orderHandler    *handlers.OrderHandler
	reviewHandler   *handlers.ReviewHandler
	partnerHandler  *handlers.PartnerHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: log.Default(),
	}

	if err := app.initStorage(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initDependencies(); err != nil {
		app.closeStorage()
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app.initServer()

	return app, nil
}

// initStorage выбирает хранилище коллекций: PostgreSQL, Redis или файлы.
func (app *App) initStorage(ctx context.Context) error {
	var backend storage.Backend

	switch {
	case app.cfg.DatabaseURI != "":
		if err := app.initDatabase(ctx); err != nil {
			return err
		}
		backend = storage.NewPostgresBackend(app.dbPool)
	case app.cfg.RedisAddress != "":
		client := redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddress})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("unable to ping redis: %w", err)
		}
		app.redisClient = client
		backend = storage.NewRedisBackend(client)
		log.Printf("Using redis collections at %s", app.cfg.RedisAddress)
	default:
		backend = storage.NewFileBackend(app.cfg.DataDir)
		log.Printf("Using file collections in %s", app.cfg.DataDir)
	}

	app.store = storage.NewStore(backend, app.logger, app.cfg.StrictStorage)
	return nil
}

// initDatabase открывает пул соединений и выполняет миграции.
func (app *App) initDatabase(ctx context.Context) error {
	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return fmt.Errorf("unable to ping database: %w", err)
	}
	log.Println("Successfully connected to database")

	log.Println("Running database migrations...")
	if err := migrations.RunPool(dbPool, app.logger); err != nil {
		dbPool.Close()
		return err
	}
	log.Println("Migrations completed successfully")

	app.dbPool = dbPool
	return nil
}

// initDependencies инициализирует сервисы и обработчики.
func (app *App) initDependencies() error {
	loc, err := app.cfg.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", app.cfg.Timezone, err)
	}
	clock := services.Clock(func() time.Time { return time.Now().In(loc) })

	var publisher events.Publisher = events.NopPublisher{}
	if len(app.cfg.KafkaBrokers) > 0 {
		app.publisher = events.NewKafkaPublisher(
			events.NewKafkaWriter(app.cfg.KafkaBrokers, app.cfg.EventsTopic), app.logger)
		publisher = app.publisher
		log.Printf("Publishing order events to %s", app.cfg.EventsTopic)
	} else {
		log.Println("KAFKA_BROKERS is not configured, order events are not published")
	}

	gateway := payment.NewMockGateway(clock)

	// Service layer
	catalogService := services.NewCatalogService(app.store, clock)
	checkoutService := services.NewCheckoutService(app.store, gateway, publisher, app.logger, clock)
	orderService := services.NewOrderService(app.store, publisher, app.logger, clock, app.cfg.PublicBaseURL)
	reviewService := services.NewReviewService(app.store, publisher, clock)
	partnerService := services.NewPartnerService(clock)

	// Handler layer
	app.catalogHandler = handlers.NewCatalogHandler(catalogService)
	app.checkoutHandler = handlers.NewCheckoutHandler(checkoutService)
	app.orderHandler = handlers.NewOrderHandler(orderService)
	app.reviewHandler = handlers.NewReviewHandler(reviewService)
	app.partnerHandler = handlers.NewPartnerHandler(partnerService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.metrics = metrics.NewServerMetrics(registry)

	return nil
}

// initServer инициализирует HTTP-сервер и настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.ErrorHandler(app.logger)

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())
	// Recover должен идти после метрик, иначе паники не попадают в счётчик.
	e.Use(app.metrics.Middleware())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	e.GET("/metrics", echo.WrapHandler(app.metrics.Handler()))

	api := e.Group("/api")
	api.GET("/health", handlers.Health)

	api.GET("/dishes", app.catalogHandler.ListDishes)
	api.POST("/dishes", app.catalogHandler.CreateDish)
	api.GET("/dishes/:id", app.catalogHandler.GetDish)
	api.GET("/dishes/:id/reviews", app.catalogHandler.DishReviews)
	api.GET("/cooks", app.catalogHandler.ListCooks)
	api.GET("/cooks/map", app.catalogHandler.CookMap)
	api.GET("/cart/preview", app.catalogHandler.CartPreview)
	api.GET("/subscriptions", app.catalogHandler.Subscriptions)

	api.POST("/checkout", app.checkoutHandler.Checkout)

	api.GET("/orders", app.orderHandler.ListOrders)
	api.POST("/orders", app.orderHandler.CreateOrder)
	api.GET("/orders/:id", app.orderHandler.GetOrder)
	api.POST("/orders/:id/status", app.orderHandler.UpdateStatus)
	api.GET("/orders/:id/qrcode", app.orderHandler.OrderQRCode)
	api.GET("/payments", app.orderHandler.ListPayments)

	api.POST("/reviews", app.reviewHandler.CreateReview)

	api.POST("/courier/book", app.partnerHandler.BookCourier)
	api.POST("/cooks/verification", app.partnerHandler.RequestVerification)

	app.echo = e
}

// Start запускает HTTP-сервер.
func (app *App) Start() error {
	log.Printf("Starting server on %s", app.cfg.RunAddress)
	if err := app.echo.Start(app.cfg.RunAddress); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if err := app.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			log.Printf("failed to close kafka writer: %v", err)
		}
	}
	app.closeStorage()

	log.Println("Server gracefully stopped")
	return nil
}

// closeStorage закрывает соединения с Redis и PostgreSQL.
func (app *App) closeStorage() {
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			log.Printf("failed to close redis client: %v", err)
		}
		app.redisClient = nil
	}
	if app.dbPool != nil {
		app.dbPool.Close()
		app.dbPool = nil
	}
}
