package coordinator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/repositories/proximity"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/repositories/regioncache"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/matryer/is"
)

var sundsvall = types.Position{Latitude: 62.3908, Longitude: 17.3069}

func TestQueryNearFetchesMissingDatasetOnlyOnce(t *testing.T) {
	is, ctx := testSetup(t)

	var requests int32
	server := datasetServer(is, t, &requests)
	defer server.Close()

	cache, err := regioncache.New(regioncache.Config{Dir: t.TempDir(), RemoteRoot: server.URL})
	is.NoErr(err)

	var opens int32
	c := New(cache, WithStoreOpener(func(ctx context.Context, path string) (proximity.Store, error) {
		atomic.AddInt32(&opens, 1)
		return proximity.Open(ctx, path)
	}))
	defer c.Close()

	cells, err := c.QueryNear(ctx, sundsvall, StaticResolver("SE"))
	is.NoErr(err)
	is.True(len(cells) > 0)
	is.True(cache.HasDataset("se"))

	cells, err = c.QueryNear(ctx, sundsvall, StaticResolver("se"))
	is.NoErr(err)
	is.True(len(cells) > 0)

	is.Equal(atomic.LoadInt32(&requests), int32(1))
	is.Equal(atomic.LoadInt32(&opens), int32(1))
}

func TestQueryNearRespectsLimit(t *testing.T) {
	is, ctx := testSetup(t)

	var requests int32
	server := datasetServer(is, t, &requests)
	defer server.Close()

	cache, err := regioncache.New(regioncache.Config{Dir: t.TempDir(), RemoteRoot: server.URL})
	is.NoErr(err)

	c := New(cache, WithLimit(3))
	defer c.Close()

	cells, err := c.QueryNear(ctx, sundsvall, StaticResolver("se"))
	is.NoErr(err)
	is.Equal(len(cells), 3)
}

func TestQueryNearFailsWhenFetchFails(t *testing.T) {
	is, ctx := testSetup(t)

	cache := &regioncache.RegionCacheMock{
		HasDatasetFunc: func(types.RegionKey) bool { return false },
		FetchFunc: func(context.Context, types.RegionKey) error {
			return fmt.Errorf("%w: connection refused", regioncache.ErrNetwork)
		},
	}

	opened := false
	c := New(cache, WithStoreOpener(func(context.Context, string) (proximity.Store, error) {
		opened = true
		return nil, nil
	}))

	_, err := c.QueryNear(ctx, sundsvall, StaticResolver("se"))
	is.True(errors.Is(err, ErrFetchFailed))
	is.True(!opened)
	is.Equal(len(cache.FetchCalls()), 1)
}

func TestQueryNearFailsWhenGeocodingFails(t *testing.T) {
	is, ctx := testSetup(t)

	cache := &regioncache.RegionCacheMock{}
	c := New(cache)

	_, err := c.QueryNear(ctx, sundsvall, RegionResolverFunc(func(context.Context, types.Position) (types.RegionKey, error) {
		return "", errors.New("geocoder unavailable")
	}))
	is.True(errors.Is(err, ErrGeocodeFailed))

	_, err = c.QueryNear(ctx, sundsvall, nil)
	is.True(errors.Is(err, ErrGeocodeFailed))
}

func TestCorruptDatasetIsInvalidated(t *testing.T) {
	is, ctx := testSetup(t)

	cache := testCache(true)
	c := New(cache, WithStoreOpener(func(context.Context, string) (proximity.Store, error) {
		return nil, fmt.Errorf("%w: file is not a database", proximity.ErrCorrupt)
	}))

	_, err := c.QueryNear(ctx, sundsvall, StaticResolver("se"))
	is.True(errors.Is(err, ErrOpenFailed))
	is.Equal(len(cache.InvalidateCalls()), 1)
	is.Equal(cache.InvalidateCalls()[0].Key, types.RegionKey("se"))
}

func TestConcurrentQueriesShareOneStore(t *testing.T) {
	is, ctx := testSetup(t)

	var opens int32
	store := testStore()
	c := New(testCache(true), WithStoreOpener(func(context.Context, string) (proximity.Store, error) {
		atomic.AddInt32(&opens, 1)
		time.Sleep(20 * time.Millisecond)
		return store, nil
	}))

	const callers = 10
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := c.QueryNear(ctx, sundsvall, StaticResolver("se"))
			errs <- err
		}()
	}

	for i := 0; i < callers; i++ {
		is.NoErr(<-errs)
	}

	is.Equal(atomic.LoadInt32(&opens), int32(1))
	is.Equal(len(store.NearestCellsCalls()), callers)
}

func TestRegionsGetSeparateStores(t *testing.T) {
	is, ctx := testSetup(t)

	paths := map[string]bool{}
	mu := sync.Mutex{}

	c := New(testCache(true), WithStoreOpener(func(_ context.Context, path string) (proximity.Store, error) {
		mu.Lock()
		paths[path] = true
		mu.Unlock()
		return testStore(), nil
	}))

	_, err := c.QueryNear(ctx, sundsvall, StaticResolver("se"))
	is.NoErr(err)
	_, err = c.QueryNear(ctx, sundsvall, StaticResolver("no"))
	is.NoErr(err)

	is.Equal(len(paths), 2)
}

func TestCloseReleasesStores(t *testing.T) {
	is, ctx := testSetup(t)

	store := testStore()
	c := New(testCache(true), WithStoreOpener(func(context.Context, string) (proximity.Store, error) {
		return store, nil
	}))

	_, err := c.QueryNear(ctx, sundsvall, StaticResolver("se"))
	is.NoErr(err)

	is.NoErr(c.Close())
	is.Equal(len(store.CloseCalls()), 1)

	_, err = c.QueryNear(ctx, sundsvall, StaticResolver("se"))
	is.True(errors.Is(err, ErrClosed))

	is.NoErr(c.Close())
	is.Equal(len(store.CloseCalls()), 1)
}

func TestStoreOpenedAfterCloseIsReleased(t *testing.T) {
	is, ctx := testSetup(t)

	opening := make(chan struct{})
	proceed := make(chan struct{})
	store := testStore()

	c := New(testCache(true), WithStoreOpener(func(context.Context, string) (proximity.Store, error) {
		close(opening)
		<-proceed
		return store, nil
	}))

	result := make(chan error, 1)
	go func() {
		_, err := c.QueryNear(ctx, sundsvall, StaticResolver("se"))
		result <- err
	}()

	<-opening
	is.NoErr(c.Close())
	close(proceed)

	is.True(errors.Is(<-result, ErrClosed))
	is.Equal(len(store.CloseCalls()), 1)
}

func TestFailingQueryDiscardsStore(t *testing.T) {
	is, ctx := testSetup(t)

	var opens int32
	broken := &proximity.StoreMock{
		NearestCellsFunc: func(context.Context, types.Position, int) ([]types.Cell, error) {
			return nil, errors.New("no such column: cid")
		},
		CloseFunc: func() error { return nil },
	}

	cache := testCache(true)
	c := New(cache, WithStoreOpener(func(context.Context, string) (proximity.Store, error) {
		atomic.AddInt32(&opens, 1)
		return broken, nil
	}))

	_, err := c.QueryNear(ctx, sundsvall, StaticResolver("se"))
	is.True(errors.Is(err, ErrQueryFailed))
	is.Equal(len(broken.CloseCalls()), 1)
	is.Equal(len(cache.InvalidateCalls()), 1)

	_, err = c.QueryNear(ctx, sundsvall, StaticResolver("se"))
	is.True(errors.Is(err, ErrQueryFailed))
	is.Equal(atomic.LoadInt32(&opens), int32(2))
}

func TestFailureToTouchDatasetDoesNotFailQuery(t *testing.T) {
	is, ctx := testSetup(t)

	cache := testCache(true)
	cache.TouchFunc = func(types.RegionKey) error {
		return fmt.Errorf("%w: read-only file system", regioncache.ErrIO)
	}

	c := New(cache, WithStoreOpener(func(context.Context, string) (proximity.Store, error) {
		return testStore(), nil
	}))
	defer c.Close()

	cells, err := c.QueryNear(ctx, sundsvall, StaticResolver("se"))
	is.NoErr(err)
	is.Equal(len(cells), 1)
	is.Equal(len(cache.TouchCalls()), 1)
}

func testSetup(t *testing.T) (*is.I, context.Context) {
	return is.New(t), context.Background()
}

func testCache(present bool) *regioncache.RegionCacheMock {
	return &regioncache.RegionCacheMock{
		HasDatasetFunc: func(types.RegionKey) bool { return present },
		FetchFunc:      func(context.Context, types.RegionKey) error { return nil },
		PathForFunc: func(key types.RegionKey) string {
			return filepath.Join("/datasets", string(key)+".sqlite")
		},
		InvalidateFunc: func(types.RegionKey) error { return nil },
		TouchFunc:      func(types.RegionKey) error { return nil },
	}
}

func testStore() *proximity.StoreMock {
	return &proximity.StoreMock{
		NearestCellsFunc: func(context.Context, types.Position, int) ([]types.Cell, error) {
			return []types.Cell{{ID: "31001", Latitude: 62.39, Longitude: 17.30}}, nil
		},
		CloseFunc: func() error { return nil },
	}
}

// datasetServer serves a generated dataset for any region key and counts requests.
func datasetServer(is *is.I, t *testing.T, requests *int32) *httptest.Server {
	path := filepath.Join(t.TempDir(), "source.sqlite")

	cells := []types.Cell{}
	for i := 0; i < 10; i++ {
		cells = append(cells, types.Cell{
			ID:        fmt.Sprintf("%d", 31000+i),
			Latitude:  62.3 + float64(i)*0.01,
			Longitude: 17.3 + float64(i)*0.01,
		})
	}
	is.NoErr(proximity.CreateDataset(context.Background(), path, cells))

	content, err := os.ReadFile(path)
	is.NoErr(err)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		if !strings.HasSuffix(r.URL.Path, ".sqlite") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(content)
	}))
}
