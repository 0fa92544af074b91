package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dpshade/prompt-overflow/internal/config"
	"github.com/dpshade/prompt-overflow/internal/logging"
	"github.com/dpshade/prompt-overflow/internal/storage"
)

// OpenRepository builds the repository named by cfg.Source. The returned
// function releases any resources the repository holds.
func OpenRepository(cfg *config.Config) (storage.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source {
	case config.SourceFile:
		store, err := storage.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return store, noop, nil

	case config.SourceRemote:
		store := storage.NewRemoteStore(cfg.Remote.URL, cfg.Remote.Key, cfg.Remote.Table)
		if cfg.Remote.Timeout > 0 {
			store.WithHTTPClient(&http.Client{Timeout: cfg.Remote.Timeout})
		}
		return store, noop, nil

	case config.SourceSQLite:
		store, err := storage.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.SourceSeed:
		return storage.NewSeedStore(), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

// WatchLibrary reloads the collection whenever prompt files change. It only
// applies to the file source; for other sources it returns a nil stop
// function and no error. onReload runs after each reload attempt.
func (s *Service) WatchLibrary(ctx context.Context, onReload func(error)) (func() error, error) {
	store, ok := s.repo.(*storage.FileStore)
	if !ok {
		return nil, nil
	}

	watcher, err := storage.NewWatcher(store.PromptsDir(), storage.DefaultDebounce, func() {
		err := s.Load(ctx)
		if err != nil {
			logging.Logger.Warnw("library reload failed", "error", err)
		}
		if onReload != nil {
			onReload(err)
		}
	})
	if err != nil {
		return nil, err
	}

	watcher.Start()
	logging.Logger.Infow("watching prompt library", "dir", store.PromptsDir())
	return watcher.Stop, nil
}
