package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodcourt-labs/order-platform/internal/api/handlers"
	"github.com/foodcourt-labs/order-platform/internal/api/middleware"
	"github.com/foodcourt-labs/order-platform/internal/cache"
	"github.com/foodcourt-labs/order-platform/internal/cart"
	"github.com/foodcourt-labs/order-platform/internal/config"
	"github.com/foodcourt-labs/order-platform/internal/health"
	"github.com/foodcourt-labs/order-platform/internal/metrics"
	"github.com/foodcourt-labs/order-platform/internal/realtime"
	repository "github.com/foodcourt-labs/order-platform/internal/repositories"
	service "github.com/foodcourt-labs/order-platform/internal/services"
	"github.com/foodcourt-labs/order-platform/internal/telemetry"
	"github.com/foodcourt-labs/order-platform/pkg/expo"
	"github.com/foodcourt-labs/order-platform/pkg/sendgrid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	_ = godotenv.Load()

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		slog.Error("❌ Error initializing tracing", "error", err.Error())
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	if err := repository.Migrate(cfg); err != nil {
		slog.Error("❌ Error applying migrations", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := cache.NewRedisClient(&cfg.RedisConnect)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}
	productCache := cache.NewRedisCache(redisClient)

	jwtKey := []byte(cfg.Security.JWTKey)
	pushClient := expo.NewClient(cfg.Expo.PushURL, cfg.Expo.Timeout)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	cartStore := cart.NewStore()
	bus := realtime.NewBus()
	listener := realtime.NewListener(cfg.Database.GetDSN(), cfg.Feed, bus)

	productService := service.NewProductService(repos.Product, productCache, cfg.RedisConnect.CacheTTL)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(cartStore, productService)
	cartHandler := handlers.NewCartHandler(cartService)
	notificationService := service.NewNotificationService(repos.Profile, pushClient)
	orderService := service.NewOrderService(repos.Order, notificationService)
	checkoutService := service.NewCheckoutService(cartStore, repos.Order, repos.Profile, emailService)
	orderHandler := handlers.NewOrderHandler(orderService, checkoutService)
	profileHandler := handlers.NewProfileHandler(repos.Profile)
	eventsHandler := handlers.NewEventsHandler(bus, orderService, cfg.Feed.SubscriberBuffer)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error initializing health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// The listener feeds the in-process bus from the orders change channel
	// for as long as the server runs.
	listenerCtx, stopListener := context.WithCancel(context.Background())

	go func() {
		if err := listener.Run(listenerCtx); err != nil && listenerCtx.Err() == nil {
			slog.Error("❌ Order change listener stopped", "error", err.Error())
		}
	}()

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", authMiddleware.Authenticate(productHandler.ListProducts()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.GetProduct()))
	routerMux.HandleFunc("GET /api/v1/carts", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/carts/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PATCH /api/v1/carts/items/{id}", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("POST /api/v1/orders/checkout", authMiddleware.Authenticate(orderHandler.Checkout()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/events", authMiddleware.Authenticate(eventsHandler.Stream()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authMiddleware.Authenticate(authMiddleware.RequireAdmin(orderHandler.UpdateOrderStatus())))
	routerMux.HandleFunc("PUT /api/v1/profiles/push-token", authMiddleware.Authenticate(profileHandler.SavePushToken()))
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "order-platform")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	stopListener()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
	}
}
