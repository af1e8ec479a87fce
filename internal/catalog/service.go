package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jvitormendess/jaci-api/internal/obs"
)

const listCacheKey = "catalog:products"

// Repo is the persistence surface the service depends on.
type Repo interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Insert(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id string) error
}

// Service orchestrates product queries, validation, and list caching.
type Service struct {
	Repo  Repo
	Cache *Cache
	Log   zerolog.Logger
}

// List returns the whole catalog in name order. The result is cached; a
// cache failure falls through to the store.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	var cached []Product
	hit, err := s.Cache.GetJSON(ctx, listCacheKey, &cached)
	switch {
	case err != nil:
		obs.ObserveCatalogCacheLookup("error")
		s.Log.Warn().Err(err).Msg("catalog cache read failed")
	case hit:
		obs.ObserveCatalogCacheLookup("hit")
		return cached, nil
	default:
		obs.ObserveCatalogCacheLookup("miss")
	}
	products, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetJSON(ctx, listCacheKey, products); err != nil {
		s.Log.Warn().Err(err).Msg("catalog cache write failed")
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	return s.Repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	created, err := s.Repo.Insert(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, p Product) (Product, error) {
	if p.ID == "" {
		return Product{}, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	updated, err := s.Repo.Update(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx, listCacheKey); err != nil {
		s.Log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
