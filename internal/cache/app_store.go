package cache

import (
	"context"
	"errors"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const appListKey = "list"

// AppStore is a read-through cache in front of the application registry.
// Cache failures fall back to the registry and are only logged.
type AppStore struct {
	next  store.AppStore
	cache *Cache[[]models.AppItem]
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewAppStore(next store.AppStore, rc *redis.Client, ttl time.Duration, log logrus.FieldLogger) *AppStore {
	return &AppStore{
		next:  next,
		cache: NewCache[[]models.AppItem](rc, "jobconsole:apps"),
		ttl:   ttl,
		log:   log,
	}
}

func (s *AppStore) List(ctx context.Context) ([]models.AppItem, error) {
	apps, err := s.cache.Get(ctx, appListKey)
	if err == nil {
		return apps, nil
	}
	if !errors.Is(err, ErrMiss) {
		s.log.WithError(err).Warn("app cache read failed")
	}

	apps, err = s.next.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, appListKey, apps, s.ttl); err != nil {
		s.log.WithError(err).Warn("app cache write failed")
	}
	return apps, nil
}

var _ store.AppStore = (*AppStore)(nil)
