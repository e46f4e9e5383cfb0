package service

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"fleetcare/internal/repository"
)

const catalogCacheKey = "catalogs"

// CatalogService serves the reference lists. They are immutable data
// maintained outside this service, so responses are cached with a TTL.
type CatalogService interface {
	All(ctx context.Context) (*repository.Catalogs, error)
}

type catalogService struct {
	repo  repository.CatalogRepository
	cache *gocache.Cache
}

// NewCatalogService returns a new instance of CatalogService
func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *catalogService) All(ctx context.Context) (*repository.Catalogs, error) {
	if cached, ok := s.cache.Get(catalogCacheKey); ok {
		return cached.(*repository.Catalogs), nil
	}

	catalogs, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalogs: %w", err)
	}

	s.cache.Set(catalogCacheKey, catalogs, gocache.DefaultExpiration)
	return catalogs, nil
}
