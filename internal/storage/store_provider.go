package storage

import (
	"context"
	"fmt"
	"io"

	"scoringd/internal/models"
	"scoringd/internal/providers"
	"scoringd/internal/structures"
)

// NewHistoryStore builds the configured HistoryStore backend. The returned
// cleanup releases the backend connection.
func NewHistoryStore(conf *structures.Config, logger providers.Logger) (models.HistoryStore, func(), error) {
	maxSubjects := conf.Analytics.MaxSubjects
	maxSnapshots := conf.Analytics.MaxSnapshotsPerSubject
	ctx := context.Background()

	switch conf.Store.Backend {
	case "", "memory":
		logger.Infof(providers.TypeApp, "Using in-memory history store (subjects<=%d, snapshots<=%d)", maxSubjects, maxSnapshots)
		return models.NewMemoryHistoryStore(maxSubjects, maxSnapshots), func() {}, nil
	case "redis":
		store, err := NewRedisHistoryStore(ctx, conf.Store.RedisURL, conf.Store.RedisPrefix, maxSubjects, maxSnapshots)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof(providers.TypeApp, "Using redis history store")
		return store, closeStore(store, logger), nil
	case "postgres":
		db, err := OpenPostgres(ctx, conf.Store.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof(providers.TypeApp, "Using postgres history store")
		store := NewPostgresHistoryStore(db, maxSubjects, maxSnapshots)
		return store, closeStore(store, logger), nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", conf.Store.Backend)
}

func closeStore(store io.Closer, logger providers.Logger) func() {
	return func() {
		if err := store.Close(); err != nil {
			logger.Errorf(providers.TypeApp, "Error while closing history store: %s", err)
		}
	}
}
