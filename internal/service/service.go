// Package service orchestrates the store, cache, and notifier per request.
// The store outcome alone decides success or failure; cache and notifier are
// secondary effects that are dispatched afterward and only ever logged.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/revenantonthemission/sogangcomputerclub.org/internal/cache"
	"github.com/revenantonthemission/sogangcomputerclub.org/internal/models"
	"github.com/revenantonthemission/sogangcomputerclub.org/internal/notify"
)

type Store interface {
	Insert(ctx context.Context, in models.MemoCreate) (*models.Memo, error)
	GetByID(ctx context.Context, id uint) (*models.Memo, error)
	ListPage(ctx context.Context, skip, limit int) ([]models.Memo, error)
	Update(ctx context.Context, id uint, in models.MemoUpdate) (*models.Memo, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string) ([]models.Memo, error)
	Ping(ctx context.Context) error
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Ping(ctx context.Context) error
	Configured() bool
}

type Notifier interface {
	Publish(ctx context.Context, event notify.Event) error
	Configured() bool
}

type Service struct {
	store    Store
	cache    Cache
	notifier Notifier
}

func New(store Store, cache Cache, notifier Notifier) *Service {
	return &Service{store: store, cache: cache, notifier: notifier}
}

func cacheKey(id uint) string {
	return fmt.Sprintf("memo:%d", id)
}

func (s *Service) Create(ctx context.Context, in models.MemoCreate) (*models.Memo, error) {
	memo, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, notify.Event{Type: "created", MemoID: memo.ID, Title: memo.Title})
	return memo, nil
}

// Get serves from the cache when it can. A cached value is returned as-is
// without re-checking the store; staleness is bounded by the TTL.
func (s *Service) Get(ctx context.Context, id uint) (*models.Memo, error) {
	if raw, ok := s.cache.Get(ctx, cacheKey(id)); ok {
		var memo models.Memo
		if err := json.Unmarshal(raw, &memo); err == nil {
			return &memo, nil
		}
		logrus.Warnf("discarding unreadable cache entry for memo %d", id)
	}

	memo, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(memo); err == nil {
		s.cache.Set(ctx, cacheKey(id), raw, cache.DefaultTTL)
	}
	return memo, nil
}

// List results are never cached: pattern invalidation on every mutation is
// only worth it for point lookups.
func (s *Service) List(ctx context.Context, skip, limit int) ([]models.Memo, error) {
	return s.store.ListPage(ctx, skip, limit)
}

func (s *Service) Update(ctx context.Context, id uint, in models.MemoUpdate) (*models.Memo, error) {
	if in.IsEmpty() {
		return nil, models.ErrEmptyUpdate
	}

	memo, err := s.store.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cacheKey(id))
	s.publish(ctx, notify.Event{Type: "updated", MemoID: id})
	return memo, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(ctx, cacheKey(id))
	s.publish(ctx, notify.Event{Type: "deleted", MemoID: id})
	return nil
}

func (s *Service) Search(ctx context.Context, query string) ([]models.Memo, error) {
	if query == "" {
		return nil, models.ErrEmptyQuery
	}
	return s.store.Search(ctx, query)
}

func (s *Service) publish(ctx context.Context, event notify.Event) {
	if err := s.notifier.Publish(ctx, event); err != nil {
		logrus.Warn(errors.Wrapf(err, "publishing %s event for memo %d", event.Type, event.MemoID))
	}
}

type Health struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Health never fails. An unconfigured optional dependency is reported as
// not_configured without degrading the aggregate; an unreachable one degrades it.
func (s *Service) Health(ctx context.Context) Health {
	h := Health{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  map[string]string{},
	}

	if err := s.store.Ping(ctx); err != nil {
		logrus.Error(errors.Wrap(err, "database health check"))
		h.Services["database"] = "unhealthy"
		h.Status = "degraded"
	} else {
		h.Services["database"] = "healthy"
	}

	if !s.cache.Configured() {
		h.Services["redis"] = "not_configured"
	} else if err := s.cache.Ping(ctx); err != nil {
		logrus.Error(errors.Wrap(err, "redis health check"))
		h.Services["redis"] = "unhealthy"
		h.Status = "degraded"
	} else {
		h.Services["redis"] = "healthy"
	}

	// kafka-go has no cheap ping; a configured writer counts as healthy.
	if s.notifier.Configured() {
		h.Services["kafka"] = "healthy"
	} else {
		h.Services["kafka"] = "not_configured"
	}

	return h
}
