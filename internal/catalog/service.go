package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LukasGLars/construction-buddy/internal/common"
	"github.com/LukasGLars/construction-buddy/internal/obs"
)

const listCacheKey = "catalog:items:all"

// Service validates search input, delegates matching to the external store,
// and maps store failures to the search-unavailable error. The store does
// the matching; the service only builds the filter and shapes errors.
type Service struct {
	store       Store
	cache       *Cache
	searchLimit int
	listLimit   int
	timeout     time.Duration
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store       Store
	Cache       *Cache
	SearchLimit int
	ListLimit   int
	Timeout     time.Duration
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	searchLimit := cfg.SearchLimit
	if searchLimit < 1 {
		searchLimit = 200
	}
	listLimit := cfg.ListLimit
	if listLimit < 1 {
		listLimit = 50
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		store:       cfg.Store,
		cache:       cfg.Cache,
		searchLimit: searchLimit,
		listLimit:   listLimit,
		timeout:     timeout,
	}, nil
}

// Search returns catalog rows whose name, article number, or category
// contains the query, case-insensitively. An empty query is rejected before
// any store round-trip. Zero matches is a normal outcome, not an error.
func (s *Service) Search(ctx context.Context, query string) ([]Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.ValidationError("search query is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	items, err := s.store.Search(ctx, query, s.searchLimit)
	observeSearch(start, err)
	if err != nil {
		return nil, common.UnavailableError("catalog search unavailable", err)
	}
	return items, nil
}

// List returns the catalog up to the configured limit, caching the result.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	var cached []Item
	if ok, err := s.cache.GetJSON(ctx, listCacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	items, err := s.store.List(ctx, s.listLimit)
	observeSearch(start, err)
	if err != nil {
		return nil, common.UnavailableError("catalog search unavailable", err)
	}
	_ = s.cache.SetJSON(ctx, listCacheKey, items)
	return items, nil
}

// Get fetches one article by its exact article number.
func (s *Service) Get(ctx context.Context, articleNo string) (Item, error) {
	articleNo = strings.TrimSpace(articleNo)
	if articleNo == "" {
		return Item{}, common.ValidationError("article number is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	item, err := s.store.Get(ctx, articleNo)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Item{}, common.NotFoundError("article not found", err)
		}
		return Item{}, common.UnavailableError("catalog search unavailable", err)
	}
	return item, nil
}

func observeSearch(start time.Time, err error) {
	if obs.CatalogSearchLatency != nil {
		obs.CatalogSearchLatency.Observe(obs.DurationMillis(time.Since(start)))
	}
	if obs.CatalogSearchTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	obs.CatalogSearchTotal.WithLabelValues(result).Inc()
}
