package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jvitormendess/jaci-api/internal/config"
	"github.com/jvitormendess/jaci-api/internal/notify"
	"github.com/jvitormendess/jaci-api/internal/obs"
	"github.com/jvitormendess/jaci-api/internal/resilience"
)

const (
	retryBase   = 5 * time.Second
	retryJitter = 0.2
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(
		envOrDefault("OBS_LOG_FORMAT", "json"),
		envOrDefault("OBS_LOG_LEVEL", "info"),
	).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid redis url")
	}

	var sink notify.Sink
	if cfg.WhatsAppGateway != "" {
		sink = &notify.GatewaySink{
			URL:     cfg.WhatsAppGateway,
			Token:   cfg.WhatsAppToken,
			Client:  notify.HTTPClient(cfg.GatewayTimeoutMs),
			Breaker: resilience.NewBreaker("whatsapp_gateway", 5, 0.5, 30*time.Second, logger),
		}
		logger.Info().Str("gateway", cfg.WhatsAppGateway).Msg("delivering via whatsapp gateway")
	} else {
		sink = &logSink{log: logger}
		logger.Warn().Msg("no whatsapp gateway configured, messages are logged only")
	}

	worker := &notify.Worker{Sink: sink, Log: logger}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisOpts.Addr,
			Password: redisOpts.Password,
			DB:       redisOpts.DB,
		},
		asynq.Config{
			Concurrency: 4,
			RetryDelayFunc: func(n int, _ error, _ *asynq.Task) time.Duration {
				return resilience.Backoff(retryBase, n, retryJitter)
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notify.TypeOrderMessage, worker.Handle)

	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker failed to start")
	}
	logger.Info().Msg("worker started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

// logSink records deliveries in the log stream when no gateway is configured.
type logSink struct {
	log zerolog.Logger
}

func (s *logSink) Send(_ context.Context, destination, text string) error {
	s.log.Info().
		Str("destination", destination).
		Int("text_len", len(text)).
		Msg("order message delivered to log sink")
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
