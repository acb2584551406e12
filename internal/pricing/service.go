package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/tldpricer/tldpricer-backend/pkg/errors"
	"github.com/tldpricer/tldpricer-backend/pkg/logger"
	"github.com/tldpricer/tldpricer-backend/pkg/metrics"
	"github.com/tldpricer/tldpricer-backend/pkg/pagination"
	"github.com/tldpricer/tldpricer-backend/pkg/redis"
)

// Service exposes the two canonical price listings.
type Service interface {
	ListPrices(ctx context.Context, in ListPricesInput) (*PriceListResult, error)
	ListCheapest(ctx context.Context, in ListCheapestInput) (*PriceListResult, error)
}

type lister interface {
	ListCurrent(ctx context.Context, in ListPricesInput) (*ListResult, error)
	ListCheapest(ctx context.Context, in ListCheapestInput) (*ListResult, error)
}

type responseCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Options carries the optional collaborators of the pricing service. A nil
// Cache disables the cheapest-listing cache entirely.
type Options struct {
	Cache    responseCache
	CacheTTL time.Duration
	Metrics  *metrics.QueryMetrics
	Logger   *logger.Logger
}

type service struct {
	repo     lister
	cache    responseCache
	cacheTTL time.Duration
	metrics  *metrics.QueryMetrics
	logg     *logger.Logger
}

// NewService constructs the pricing service.
func NewService(repo lister, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &service{
		repo:     repo,
		cache:    opts.Cache,
		cacheTTL: ttl,
		metrics:  opts.Metrics,
		logg:     opts.Logger,
	}, nil
}

// ListPrices returns one page of current prices. Out-of-range pagination is
// clamped; empty sort parameters fall back to registrar ascending.
func (s *service) ListPrices(ctx context.Context, in ListPricesInput) (*PriceListResult, error) {
	start := time.Now()
	in = normalizeListInput(in)

	result, err := s.repo.ListCurrent(ctx, in)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list prices")
	}

	s.metrics.ObserveDuration("prices", time.Since(start))
	params := pagination.Params{Page: in.Page, Limit: in.Limit}
	return &PriceListResult{
		Records:    toPriceRecords(result),
		Pagination: params.MetaFor(result.TotalCount),
	}, nil
}

// ListCheapest returns one page of cheapest-per-extension prices, consulting
// the response cache when one is configured. Cache failures degrade to the
// store path; they are logged, never surfaced.
func (s *service) ListCheapest(ctx context.Context, in ListCheapestInput) (*PriceListResult, error) {
	start := time.Now()
	in = normalizeCheapestInput(in)

	key := cheapestCacheKey(in)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var out PriceListResult
			if err := json.Unmarshal([]byte(cached), &out); err == nil {
				s.metrics.IncCacheHit("cheapest")
				return &out, nil
			}
			s.warn(ctx, "cheapest cache entry unreadable, falling through")
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			s.warn(ctx, "cheapest cache read failed, falling through")
		}
		s.metrics.IncCacheMiss("cheapest")
	}

	result, err := s.repo.ListCheapest(ctx, in)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list cheapest prices")
	}

	params := pagination.Params{Page: in.Page, Limit: in.Limit}
	out := &PriceListResult{
		Records:    toPriceRecords(result),
		Pagination: params.MetaFor(result.TotalCount),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
				s.warn(ctx, "cheapest cache write failed")
			}
		}
	}

	s.metrics.ObserveDuration("cheapest", time.Since(start))
	return out, nil
}

func normalizeListInput(in ListPricesInput) ListPricesInput {
	params := pagination.Normalize(in.Page, in.Limit)
	in.Page = params.Page
	in.Limit = params.Limit
	if in.SortBy == "" {
		in.SortBy = SortByRegistrar
	}
	if in.SortOrder == "" {
		in.SortOrder = SortAsc
	}
	return in
}

func normalizeCheapestInput(in ListCheapestInput) ListCheapestInput {
	params := pagination.Normalize(in.Page, in.Limit)
	in.Page = params.Page
	in.Limit = params.Limit
	if in.SortBy == "" {
		in.SortBy = CheapestByTLD
	}
	if in.SortOrder == "" {
		in.SortOrder = SortAsc
	}
	return in
}

func cheapestCacheKey(in ListCheapestInput) string {
	return redis.CacheKey("cheapest",
		"f="+strings.ToLower(strings.TrimSpace(in.ExtensionContains)),
		fmt.Sprintf("s=%s.%s", in.SortBy, in.SortOrder),
		fmt.Sprintf("p=%d.%d", in.Page, in.Limit),
	)
}

func (s *service) warn(ctx context.Context, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(ctx, msg)
}
