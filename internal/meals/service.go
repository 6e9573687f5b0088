package meals

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/reactmeals-backend/pkg/errors"
	"github.com/angelmondragon/reactmeals-backend/pkg/logger"
)

// Service exposes the meal catalog to the storefront.
type Service interface {
	List(ctx context.Context) ([]Meal, error)
	Get(ctx context.Context, id string) (Meal, error)
}

// LoadObserver is notified after every source load.
type LoadObserver interface {
	ObserveCatalogLoad(source string, duration time.Duration, err error)
}

// ServiceParams wires the catalog service.
type ServiceParams struct {
	Source   Source
	Cache    *Cache
	Logger   *logger.Logger
	Observer LoadObserver
}

type service struct {
	source   Source
	cache    *Cache
	logg     *logger.Logger
	observer LoadObserver
}

func NewService(params ServiceParams) (Service, error) {
	if params.Source == nil {
		return nil, errors.New("meals source is required")
	}
	return &service{
		source:   params.Source,
		cache:    params.Cache,
		logg:     params.Logger,
		observer: params.Observer,
	}, nil
}

// List serves from cache when possible and falls back to the source.
func (s *service) List(ctx context.Context) ([]Meal, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.warn(ctx, "meals.cache_read_failed", err)
	}
	if ok {
		return cached, nil
	}

	start := time.Now()
	list, err := s.source.Load(ctx)
	if s.observer != nil {
		s.observer.ObserveCatalogLoad(s.source.Name(), time.Since(start), err)
	}
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load meals")
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, list); err != nil {
		s.warn(ctx, "meals.cache_write_failed", err)
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id string) (Meal, error) {
	list, err := s.List(ctx)
	if err != nil {
		return Meal{}, err
	}
	for _, m := range list {
		if m.ID == id {
			return m, nil
		}
	}
	return Meal{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("meal %q not found", id))
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}
