// Package cli wires configuration into the long-lived objects shared by the
// flowboard commands: logger, metrics, snapshot store, session manager.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/flowboard/internal/adapters/file"
	"github.com/aretw0/flowboard/internal/config"
	"github.com/aretw0/flowboard/internal/logging"
	"github.com/aretw0/flowboard/pkg/adapters/memory"
	"github.com/aretw0/flowboard/pkg/adapters/redis"
	"github.com/aretw0/flowboard/pkg/editor"
	"github.com/aretw0/flowboard/pkg/observability"
	"github.com/aretw0/flowboard/pkg/persistence/middleware"
	"github.com/aretw0/flowboard/pkg/ports"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/aretw0/flowboard/pkg/session"
	"github.com/aretw0/flowboard/pkg/submit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds the dependencies built from a Config.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *registry.Registry
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Store    ports.GraphStore
	Client   *submit.Client
	Sessions *session.Manager

	notifier submit.Notifier
	closers  []func() error
}

// AppOption configures Build.
type AppOption func(*App)

// WithLogger overrides the logger derived from the log config.
func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) {
		a.Logger = l
	}
}

// WithNotifier receives submission outcomes of every session.
func WithNotifier(n submit.Notifier) AppOption {
	return func(a *App) {
		a.notifier = n
	}
}

// WithStore replaces the configured snapshot store.
func WithStore(s ports.GraphStore) AppOption {
	return func(a *App) {
		a.Store = s
	}
}

// Build creates an App from cfg. Call Close when done.
func Build(cfg config.Config, opts ...AppOption) (*App, error) {
	a := &App{Config: cfg, Registry: registry.Builtin()}
	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		a.Logger = logging.New(level, cfg.Log.Format)
	}
	if a.notifier == nil {
		a.notifier = logNotifier(a.Logger)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = observability.NewMetrics(promReg)
	a.Gatherer = promReg

	policy, err := editor.ParsePolicy(cfg.Editor.ConnectPolicy)
	if err != nil {
		return nil, err
	}

	var locker ports.DistributedLocker
	if a.Store == nil {
		switch cfg.Storage.Backend {
		case "", "memory":
			a.Store = memory.NewStore()
		case "file":
			a.Store = file.New(cfg.Storage.Dir)
		case "redis":
			prefix := cfg.Storage.Redis.Prefix
			if prefix == "" {
				prefix = redis.DefaultPrefix
			}
			rs := redis.New(cfg.Storage.Redis.Addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB,
				redis.WithPrefix(prefix),
				redis.WithTTL(cfg.Storage.Redis.TTL),
			)
			locker = redis.NewLocker(rs.Client(), prefix+"lock:")
			a.Store = rs
			a.closers = append(a.closers, rs.Close)
		default:
			return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
		}
	}

	if len(cfg.Storage.Redact) > 0 {
		redact, err := middleware.NewRedactMiddleware(cfg.Storage.Redact)
		if err != nil {
			return nil, err
		}
		a.Store = middleware.Chain(a.Store, redact)
	}

	a.Client = submit.NewClient(cfg.Validator.URL,
		submit.WithHTTPClient(&http.Client{Timeout: cfg.Validator.Timeout}),
		submit.WithClientLogger(a.Logger),
	)

	factory := func(sessionID string) *editor.Session {
		logger := a.Logger.With("session_id", sessionID)
		return editor.New(a.Registry,
			editor.WithSubmitter(submit.NewSubmitter(a.Client,
				submit.WithNotifier(a.notifier),
				submit.WithMetrics(a.Metrics),
				submit.WithLogger(logger),
			)),
			editor.WithConnectPolicy(policy),
			editor.WithStrictFields(cfg.Editor.StrictFields),
			editor.WithLogger(logger),
		)
	}

	mopts := []session.Option{
		session.WithMetrics(a.Metrics),
		session.WithLogger(a.Logger),
	}
	if cfg.Storage.LockTTL > 0 {
		mopts = append(mopts, session.WithLockTTL(cfg.Storage.LockTTL))
	}
	if locker != nil {
		mopts = append(mopts, session.WithLocker(locker))
	}
	a.Sessions = session.NewManager(a.Store, factory, mopts...)

	a.Logger.Debug("app built",
		"storage", cfg.Storage.Backend, "validator", cfg.Validator.URL, "policy", policy.String())
	return a, nil
}

// Close persists live sessions and releases backend connections.
func (a *App) Close(ctx context.Context) error {
	err := a.Sessions.CloseAll(ctx)
	for _, c := range a.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func logNotifier(logger *slog.Logger) submit.Notifier {
	return submit.NotifierFunc(func(n submit.Notification) {
		switch n.Level {
		case submit.LevelError:
			logger.Warn(n.Title, "detail", n.Message)
		default:
			logger.Info(n.Title, "detail", n.Message)
		}
	})
}
