package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/iksnae/studio-session/internal"
	"github.com/iksnae/studio-session/internal/config"
	"github.com/spf13/cobra"
)

// lockWait bounds how long a command waits for another process to finish
var lockWait = 5 * time.Second

// workspace is one opened store with its controller. Commands get it through
// withWorkspace and never outlive it.
type workspace struct {
	cfg   *config.Config
	store *internal.Store
	lock  *flock.Flock
	ctrl  *internal.Controller
	guard internal.GuardResult
}

// loadConfig reads the config file and applies the persistent flag overrides
func loadConfig() (*config.Config, error) {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if backendName != "" {
		cfg.Store.Backend = backendName
	}
	if storePath != "" {
		if cfg.Store.Path, err = config.ExpandPath(storePath); err != nil {
			return nil, fmt.Errorf("--store: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openBackend(cfg *config.Config) (internal.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		return internal.OpenSQLiteBackend(cfg.Store.Path)
	case config.BackendRedis:
		return internal.NewRedisBackend(cfg.Store.RedisURL, cfg.Store.RedisPrefix+":")
	case config.BackendMemory:
		return internal.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Store.Backend)
	}
}

// acquireLock serializes processes sharing a SQLite file. Redis and memory
// stores are not file-bound and run unlocked.
func acquireLock(ctx context.Context, cfg *config.Config) (*flock.Flock, error) {
	if cfg.Store.Backend != config.BackendSQLite {
		return nil, nil
	}
	lock := flock.New(cfg.Store.Path + ".lock")
	ctx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	ok, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return nil, errors.New("workspace is locked by another studio-session process")
	}
	return lock, nil
}

func openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	backend, err := openBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	lock, err := acquireLock(ctx, cfg)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	store := internal.NewStore(backend)
	notifier := internal.NewWebhookNotifier(
		cfg.Webhooks.DefaultURL,
		cfg.Webhooks.URLs,
		time.Duration(cfg.Webhooks.TimeoutSeconds)*time.Second,
	)
	ctrl, guard := internal.Open(store, internal.Options{
		Version:       version,
		Notifier:      notifier,
		NotifyTimeout: time.Duration(cfg.Webhooks.TimeoutSeconds) * time.Second,
		AutoSync:      cfg.Session.AutoSync,
	})
	if guard.Wiped && guard.Previous != "" {
		internal.LogWarn("Store was written by %s; session data was reset for %s", guard.Previous, guard.Current)
	}

	return &workspace{cfg: cfg, store: store, lock: lock, ctrl: ctrl, guard: guard}, nil
}

func (w *workspace) Close() {
	w.ctrl.Close()
	if err := w.store.Close(); err != nil {
		internal.LogWarn("Failed to close store: %v", err)
	}
	if w.lock != nil {
		if err := w.lock.Unlock(); err != nil {
			internal.LogWarn("Failed to release workspace lock: %v", err)
		}
	}
}

// withWorkspace opens the workspace around fn and always releases it
func withWorkspace(fn func(cmd *cobra.Command, args []string, ws *workspace) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		defer ws.Close()
		return fn(cmd, args, ws)
	}
}
