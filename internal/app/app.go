// Package app assembles the workspace service from configuration: the
// snapshot backend, id generator, mailer, scheduler and HTTP router.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/api"
	"github.com/lalith-99/beans/internal/auth"
	"github.com/lalith-99/beans/internal/config"
	"github.com/lalith-99/beans/internal/db"
	"github.com/lalith-99/beans/internal/mail"
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/repository"
	"github.com/lalith-99/beans/internal/repository/file"
	"github.com/lalith-99/beans/internal/repository/memory"
	"github.com/lalith-99/beans/internal/repository/postgres"
	redisrepo "github.com/lalith-99/beans/internal/repository/redis"
	"github.com/lalith-99/beans/internal/repository/sqlite"
	"github.com/lalith-99/beans/internal/scheduler"
	"github.com/lalith-99/beans/internal/store"
	"github.com/lalith-99/beans/internal/workspace"
	"go.uber.org/zap"
)

// Backend is an opened snapshot repository plus its liveness check and
// cleanup.
type Backend struct {
	Repo  repository.SnapshotRepository
	Ready func(ctx context.Context) error
	close []func()
}

func (b *Backend) Close() {
	for i := len(b.close) - 1; i >= 0; i-- {
		b.close[i]()
	}
}

func alwaysReady(context.Context) error { return nil }

// OpenBackend connects the repository named by cfg.StoreBackend.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return &Backend{Repo: memory.NewSnapshotStore(), Ready: alwaysReady}, nil

	case config.BackendFile:
		return &Backend{Repo: file.NewSnapshotStore(cfg.DataFile), Ready: alwaysReady}, nil

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{Repo: s, Ready: alwaysReady, close: []func(){func() { s.Close() }}}, nil

	case config.BackendPostgres:
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		s := postgres.NewSnapshotStore(database.Pool())
		if err := s.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		return &Backend{Repo: s, Ready: database.Health, close: []func(){database.Close}}, nil

	case config.BackendRedis:
		client, err := db.NewRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return &Backend{
			Repo:  redisrepo.NewSnapshotStore(client, cfg.RedisKey),
			Ready: func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close: []func(){func() { client.Close() }},
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// NewMailer sends over SMTP when a host is configured and only logs
// otherwise.
func NewMailer(cfg *config.Config, logger *zap.Logger) mail.Mailer {
	if cfg.SMTP.Host == "" {
		return mail.NewLogMailer(logger)
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
}

// App is a running workspace: service, scheduler and the lock both share.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Backend   *Backend
	Service   *workspace.Service
	Scheduler *scheduler.Timer

	lock sync.Mutex
}

// New loads the stored snapshot (or starts empty) and reschedules any
// deferred work it contains.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	backend, err := OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	data, err := backend.Repo.Load(ctx)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if data == nil {
		data = models.NewData()
	}

	ids, err := store.NewSnowflakeIDs(cfg.NodeID)
	if err != nil {
		backend.Close()
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, Backend: backend}
	a.Scheduler = scheduler.New(&a.lock, logger)
	a.Service = workspace.New(workspace.Deps{
		Registry:          store.NewRegistry(data, ids),
		Repo:              backend.Repo,
		Issuer:            auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Hasher:            auth.NewHasher(cfg.BcryptCost),
		Mailer:            NewMailer(cfg, logger),
		Scheduler:         a.Scheduler,
		Logger:            logger,
		DefaultProfileImg: cfg.DefaultProfileImg,
	})

	a.lock.Lock()
	a.Service.Restore()
	a.lock.Unlock()

	logger.Info("workspace loaded",
		zap.String("backend", cfg.StoreBackend),
		zap.Int("users", len(data.Users)),
		zap.Int("channels", len(data.Channels)),
		zap.Int("dms", len(data.DMs)),
		zap.Int("messages", len(data.Messages)),
	)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return api.NewRouter(api.RouterConfig{
		Service:     a.Service,
		Logger:      a.Logger,
		Lock:        &a.lock,
		Ready:       a.Backend.Ready,
		EnableClear: !a.Config.IsProduction(),
	})
}

// Close stops pending timers and releases the backend.
func (a *App) Close() {
	a.Scheduler.Stop()
	a.Backend.Close()
}
