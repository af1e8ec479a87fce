package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/jvitormendess/jaci-api/internal/app"
	"github.com/jvitormendess/jaci-api/internal/auth"
	"github.com/jvitormendess/jaci-api/internal/cart"
	"github.com/jvitormendess/jaci-api/internal/catalog"
	"github.com/jvitormendess/jaci-api/internal/checkout"
	"github.com/jvitormendess/jaci-api/internal/common"
	"github.com/jvitormendess/jaci-api/internal/config"
	"github.com/jvitormendess/jaci-api/internal/health"
	"github.com/jvitormendess/jaci-api/internal/notify"
	"github.com/jvitormendess/jaci-api/internal/obs"
	"github.com/jvitormendess/jaci-api/internal/ratelimit"
	"github.com/jvitormendess/jaci-api/internal/resilience"
	"github.com/jvitormendess/jaci-api/internal/security"
	"github.com/jvitormendess/jaci-api/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "jaci")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "jaci-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "jaci-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	catalogSvc := &catalog.Service{
		Repo:  &catalog.Store{Pool: pool},
		Cache: catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		Log:   logger,
	}
	catalogHandler := &catalog.Handler{Svc: catalogSvc}

	cartSvc := &cart.Service{
		KV:  &session.RedisStore{Client: redisClient, Prefix: "cart:"},
		TTL: cfg.CartTTL,
	}
	cartHandler := &cart.Handler{Svc: cartSvc, Catalog: catalogSvc}

	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisOpts.Addr,
		Password: redisOpts.Password,
		DB:       redisOpts.DB,
	})
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()

	checkoutSvc := &checkout.Service{
		Cart:       cartSvc,
		Validate:   validator.New(),
		Dispatch:   &notify.Enqueuer{Client: taskClient},
		StoreName:  cfg.StoreName,
		StorePhone: cfg.StorePhone,
		Log:        logger,
	}
	if cfg.WhatsAppGateway != "" {
		checkoutSvc.Sink = &notify.GatewaySink{
			URL:     cfg.WhatsAppGateway,
			Token:   cfg.WhatsAppToken,
			Client:  notify.HTTPClient(cfg.GatewayTimeoutMs),
			Breaker: resilience.NewBreaker("whatsapp_gateway", 5, 0.5, 30*time.Second, logger),
		}
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	authSvc, err := auth.NewService(auth.Config{
		Secret:       cfg.JWTSecret,
		AdminUser:    cfg.AdminUser,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		TokenTTL:     cfg.AdminTokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authHandler := &auth.Handler{Svc: authSvc}
	authMiddleware := auth.Middleware{Service: authSvc}

	loginLimiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "ratelimit:login:"},
		Config: ratelimit.Config{
			Key:    ratelimit.ClientIP,
			Window: cfg.LoginRateWindow,
			Max:    cfg.LoginRateLimit,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("login rate limiter")
		},
	}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}
	sessions := session.Middleware{
		CookieDomain: cfg.CookieDomain,
		CookieSecure: cfg.CookieSecure,
		TTL:          cfg.CartTTL,
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{EnableHSTS: cfg.CookieSecure}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.RequestBodyLimit}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", common.IdempotencyHeader, session.HeaderName},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker:      health.Probes{DB: pool, Redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/products", catalogHandler.List)
		v.Get("/products/{id}", catalogHandler.Get)

		v.Route("/cart", func(c chi.Router) {
			c.Use(sessions.Handler)
			c.Get("/", cartHandler.Get)
			c.Post("/items", cartHandler.AddItem)
			c.Patch("/items/{key}", cartHandler.UpdateItem)
			c.Delete("/items/{key}", cartHandler.RemoveItem)
			c.Delete("/", cartHandler.Clear)
		})

		v.With(sessions.Handler, idem.Middleware).Post("/checkout", checkoutHandler.Submit)

		v.Route("/admin", func(admin chi.Router) {
			admin.With(loginLimiter.Middleware).Post("/login", authHandler.Login)
			admin.Group(func(g chi.Router) {
				g.Use(authMiddleware.RequireAdmin)
				g.Post("/products", catalogHandler.Create)
				g.Put("/products/{id}", catalogHandler.Update)
				g.Delete("/products/{id}", catalogHandler.Delete)
			})
		})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		health.SetReady(false)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
