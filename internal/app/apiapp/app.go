package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ivankudzin/worklance/backend/internal/config"
	s3infra "github.com/ivankudzin/worklance/backend/internal/infra/s3"
	"github.com/ivankudzin/worklance/backend/internal/jobs/cleanup"
	pgrepo "github.com/ivankudzin/worklance/backend/internal/repo/postgres"
	redrepo "github.com/ivankudzin/worklance/backend/internal/repo/redis"
	authsvc "github.com/ivankudzin/worklance/backend/internal/services/auth"
	modsvc "github.com/ivankudzin/worklance/backend/internal/services/moderation"
	ratesvc "github.com/ivankudzin/worklance/backend/internal/services/rate"
)

type App struct {
	cfg          config.Config
	logger       *zap.Logger
	server       *http.Server
	postgres     *pgxpool.Pool
	redis        *goredis.Client
	retentionJob *cleanup.Job
	httpRouter   http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	// The audit trail is the point of the gateway, so the service does
	// not start without a reachable Postgres configuration.
	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	logRepo := pgrepo.NewModerationLogRepo(pool)
	warningRepo := pgrepo.NewWarningRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	userRepo := pgrepo.NewUserRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, cfg.Auth.RefreshTTL)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Moderation.CheckMaxPerMinute, cfg.Moderation.CheckMaxPer10Sec)
	moderationService := modsvc.NewService(modsvc.Dependencies{
		Logs:     logRepo,
		Warnings: warningRepo,
		Profiles: profileRepo,
		Logger:   log,
	})

	var retentionJob *cleanup.Job
	if s3Client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, audit log archival disabled", zap.Error(err))
	} else if archive, err := s3infra.NewArchive(s3Client, cfg.S3.Bucket); err != nil {
		log.Warn("s3 archive init failed, audit log archival disabled", zap.Error(err))
	} else {
		retentionJob = cleanup.NewLogRetentionJob(logRepo, archive, cfg.Moderation.LogRetention, log)
	}

	RegisterRoutes(r, Dependencies{
		AuthService:       authService,
		ModerationService: moderationService,
		RateLimiter:       rateLimiter,
		Logger:            log,
		Config:            cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:          cfg,
		logger:       log,
		server:       server,
		postgres:     pool,
		redis:        redisClient,
		retentionJob: retentionJob,
		httpRouter:   r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// StartRetentionLoop runs the audit log retention job in the background
// until ctx is cancelled. No-op when archival is disabled.
func (a *App) StartRetentionLoop(ctx context.Context) {
	if a.retentionJob == nil {
		return
	}
	go a.retentionJob.RunLoop(ctx, a.cfg.Moderation.ArchiveInterval)
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
