package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"interview-coach/internal/config"
	"interview-coach/internal/db"
	apihttp "interview-coach/internal/http"
	"interview-coach/internal/llm"
	applog "interview-coach/internal/logger"
	"interview-coach/internal/repository"
	"interview-coach/internal/service"
)

const janitorInterval = time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := applog.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	llmClient := llm.NewFromConfig(ctx, cfg, logger)
	gateway := llm.NewGateway(llmClient, cfg.LLMTimeout(), logger)

	store := repository.NewMemorySessionStore(cfg.SessionTTL(), cfg.MaxSessions)
	store.StartJanitor(ctx, janitorInterval, func(removed int) {
		logger.Debug("expired sessions swept", zap.Int("removed", removed), zap.Int("remaining", store.Len()))
	})

	var reports repository.ReportRepository
	pool, err := db.Open(ctx, cfg)
	switch {
	case err != nil:
		logger.Warn("db connect failed, reports disabled", zap.Error(err))
	case pool == nil:
		logger.Info("database not configured, reports disabled")
	default:
		defer pool.Close()
		pgReports := repository.NewPgReportRepository(pool)
		if err := pgReports.EnsureSchema(ctx); err != nil {
			logger.Warn("report schema init failed, reports disabled", zap.Error(err))
		} else {
			reports = pgReports
		}
	}

	limiter := service.NewStartRateLimiter(cfg.StartLimitWindow(), cfg.StartLimit)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory start limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisStartRateLimiter(redisClient, cfg.StartLimitWindow(), cfg.StartLimit)
		}
		cancel()
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		// Los tokens emitidos no sobreviven a un reinicio.
		jwtSecret = uuid.NewString() + uuid.NewString()
		logger.Warn("jwt secret not configured, using ephemeral secret")
	}
	tokens := service.NewSessionTokenService(jwtSecret, cfg.JWTTTL())

	interviewSvc := service.NewInterviewService(store, gateway, reports, logger)
	interviewHandler := apihttp.NewInterviewHandler(logger, interviewSvc, tokens, limiter)
	router := apihttp.NewRouter(logger, interviewHandler, tokens)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.Bool("reports_enabled", reports != nil),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
