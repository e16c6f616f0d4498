package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/justmara/ns-sync/internal/config"
	"github.com/justmara/ns-sync/internal/logging"
	"github.com/justmara/ns-sync/internal/nightscout"
	"github.com/justmara/ns-sync/internal/profile"
	"github.com/justmara/ns-sync/internal/storage"
)

type app struct {
	cfg *config.Config
	out io.Writer
}

func (a *app) logger() logging.Logger {
	return logging.New(os.Stderr, a.cfg.LogLevel)
}

func (a *app) client(opts ...nightscout.Option) (*nightscout.Client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	endpoint, err := nightscout.NewEndpoint(a.cfg.URL, a.cfg.Secret)
	if err != nil {
		return nil, err
	}
	opts = append([]nightscout.Option{nightscout.WithLogger(a.logger())}, opts...)
	return nightscout.NewClient(endpoint, opts...), nil
}

type profileStore interface {
	profile.Storage
	profile.Loader
}

// openStorage opens the configured profile backend. The returned func
// releases it.
func (a *app) openStorage(ctx context.Context) (profileStore, func(), error) {
	switch a.cfg.Store {
	case config.StoreMongo:
		s, err := storage.OpenMongo(ctx, a.cfg.MongoURI, a.cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close(context.Background()) }, nil
	default:
		s, err := storage.OpenSQLite(ctx, a.cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
