package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/wiselyspent/backend/internal/auth"
	"github.com/wiselyspent/backend/internal/config"
	"github.com/wiselyspent/backend/internal/middleware"
	"github.com/wiselyspent/backend/internal/notify"
	"github.com/wiselyspent/backend/internal/rpc"
	"github.com/wiselyspent/backend/internal/service"
	"github.com/wiselyspent/backend/internal/storage/sqlite"
	"github.com/wiselyspent/backend/pkg/logging"
)

// rpcPrefix is the path prefix shared by every Connect procedure.
const rpcPrefix = "/wiselyspent.v1."

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Configure(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	notifier := newNotifier(cfg)
	defer notifier.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	metrics := middleware.NewMetrics()

	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.LoggingInterceptor(),
		middleware.RequireAuth(jwtManager, rpc.PublicProcedures...),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(rpc.NewAuthServiceHandler(
		service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, slog.Default()),
		interceptors,
	))
	mux.Handle(rpc.NewGroupServiceHandler(service.NewGroupService(store), interceptors))
	mux.Handle(rpc.NewExpenseServiceHandler(service.NewExpenseService(store), interceptors))
	mux.Handle(rpc.NewBalanceServiceHandler(service.NewBalanceService(store), interceptors))
	mux.Handle(rpc.NewSettlementServiceHandler(service.NewSettlementService(store, notifier, metrics), interceptors))

	if cfg.MetricsEnabled {
		mux.Handle("/metrics", metrics.Handler())
		slog.Info("Metrics enabled", "path", "/metrics")
	}

	// Serve static files
	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		slog.Error("Failed to resolve static path", "error", err)
		os.Exit(1)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("Connect server starting", "address", cfg.Addr(), "url", "http://localhost"+cfg.Addr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}

// newNotifier publishes reminders to RabbitMQ when a broker is configured and
// logs them otherwise.
func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.AMQPURL == "" {
		slog.Info("No AMQP broker configured, reminders will be logged")
		return notify.NewLogNotifier(nil)
	}

	n, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPReminderQueue)
	if err != nil {
		slog.Warn("Failed to connect to AMQP broker, reminders will be logged", "error", err)
		return notify.NewLogNotifier(nil)
	}
	slog.Info("Publishing reminders to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPReminderQueue)
	return n
}

// staticHandler serves the frontend. Unknown paths fall back to index.html;
// unknown RPC paths get a plain 404.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, rpcPrefix) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
