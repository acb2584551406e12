package pricing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tldpricer/tldpricer-backend/pkg/errors"
	"github.com/tldpricer/tldpricer-backend/pkg/redis"
)

type stubLister struct {
	lastList     ListPricesInput
	lastCheapest ListCheapestInput
	result       *ListResult
	err          error
	calls        int
}

func (s *stubLister) ListCurrent(_ context.Context, in ListPricesInput) (*ListResult, error) {
	s.calls++
	s.lastList = in
	return s.result, s.err
}

func (s *stubLister) ListCheapest(_ context.Context, in ListCheapestInput) (*ListResult, error) {
	s.calls++
	s.lastCheapest = in
	return s.result, s.err
}

type fakeCache struct {
	entries map[string]string
	getErr  error
	setErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	value, ok := f.entries[key]
	if !ok {
		return "", redis.ErrCacheMiss
	}
	return value, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	switch v := value.(type) {
	case []byte:
		f.entries[key] = string(v)
	case string:
		f.entries[key] = v
	}
	return nil
}

func TestListPricesClampsPaginationAndAppliesDefaults(t *testing.T) {
	repo := &stubLister{result: &ListResult{TotalCount: 45}}
	svc, err := NewService(repo, Options{})
	require.NoError(t, err)

	out, err := svc.ListPrices(context.Background(), ListPricesInput{Page: -3, Limit: 500})
	require.NoError(t, err)

	require.Equal(t, 1, repo.lastList.Page)
	require.Equal(t, 20, repo.lastList.Limit)
	require.Equal(t, SortByRegistrar, repo.lastList.SortBy)
	require.Equal(t, SortAsc, repo.lastList.SortOrder)

	require.Equal(t, 1, out.Pagination.Page)
	require.Equal(t, 20, out.Pagination.Limit)
	require.EqualValues(t, 45, out.Pagination.TotalCount)
	require.Equal(t, 3, out.Pagination.TotalPages)
	require.True(t, out.Pagination.HasNext)
	require.False(t, out.Pagination.HasPrev)
}

func TestListPricesWrapsStoreFailure(t *testing.T) {
	repo := &stubLister{err: context.DeadlineExceeded}
	svc, err := NewService(repo, Options{})
	require.NoError(t, err)

	_, err = svc.ListPrices(context.Background(), ListPricesInput{})
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeInternal, coded.Code())
}

func TestListCheapestCacheMissThenHit(t *testing.T) {
	repo := &stubLister{result: &ListResult{TotalCount: 2}}
	cache := newFakeCache()
	svc, err := NewService(repo, Options{Cache: cache, CacheTTL: time.Minute})
	require.NoError(t, err)

	first, err := svc.ListCheapest(context.Background(), ListCheapestInput{})
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)
	require.Equal(t, 1, cache.sets)

	second, err := svc.ListCheapest(context.Background(), ListCheapestInput{})
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls, "second call must be served from cache")
	require.Equal(t, first.Pagination, second.Pagination)
}

func TestListCheapestCacheKeyVariesByInput(t *testing.T) {
	repo := &stubLister{result: &ListResult{TotalCount: 1}}
	cache := newFakeCache()
	svc, err := NewService(repo, Options{Cache: cache, CacheTTL: time.Minute})
	require.NoError(t, err)

	_, err = svc.ListCheapest(context.Background(), ListCheapestInput{ExtensionContains: "com"})
	require.NoError(t, err)
	_, err = svc.ListCheapest(context.Background(), ListCheapestInput{ExtensionContains: "net"})
	require.NoError(t, err)

	require.Equal(t, 2, repo.calls)
	require.Len(t, cache.entries, 2)
}

func TestListCheapestCacheFailuresDegradeToStore(t *testing.T) {
	repo := &stubLister{result: &ListResult{TotalCount: 1}}
	cache := newFakeCache()
	cache.getErr = context.DeadlineExceeded
	cache.setErr = context.DeadlineExceeded
	svc, err := NewService(repo, Options{Cache: cache, CacheTTL: time.Minute})
	require.NoError(t, err)

	out, err := svc.ListCheapest(context.Background(), ListCheapestInput{})
	require.NoError(t, err)
	require.EqualValues(t, 1, out.Pagination.TotalCount)
	require.Equal(t, 1, repo.calls)
}

func TestListCheapestUnreadableCacheEntryFallsThrough(t *testing.T) {
	repo := &stubLister{result: &ListResult{TotalCount: 1}}
	cache := newFakeCache()
	svc, err := NewService(repo, Options{Cache: cache, CacheTTL: time.Minute})
	require.NoError(t, err)

	key := cheapestCacheKey(normalizeCheapestInput(ListCheapestInput{}))
	cache.entries[key] = "{not json"

	out, err := svc.ListCheapest(context.Background(), ListCheapestInput{})
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	// The bad entry gets overwritten with a readable payload.
	var stored PriceListResult
	require.NoError(t, json.Unmarshal([]byte(cache.entries[key]), &stored))
	require.Equal(t, out.Pagination, stored.Pagination)
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil, Options{})
	require.Error(t, err)
}
