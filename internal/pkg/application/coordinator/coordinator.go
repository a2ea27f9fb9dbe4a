package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/metrics"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/repositories/proximity"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/repositories/regioncache"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("cell-locator/coordinator")

var ErrGeocodeFailed = fmt.Errorf("could not resolve a region for position")
var ErrFetchFailed = fmt.Errorf("could not fetch dataset")
var ErrOpenFailed = fmt.Errorf("could not open dataset")
var ErrQueryFailed = fmt.Errorf("proximity query failed")
var ErrClosed = fmt.Errorf("coordinator is closed")

//go:generate moq -rm -out coordinator_mock.go . Coordinator

type Coordinator interface {
	QueryNear(ctx context.Context, pos types.Position, resolver RegionResolver) ([]types.Cell, error)
	Close() error
}

type StoreOpener func(ctx context.Context, datasetPath string) (proximity.Store, error)

type Option func(*coordinator)

// WithLimit sets the maximum number of cells returned by QueryNear.
func WithLimit(limit int) Option {
	return func(c *coordinator) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

func WithStoreOpener(opener StoreOpener) Option {
	return func(c *coordinator) {
		c.open = opener
	}
}

type coordinator struct {
	cache regioncache.RegionCache
	open  StoreOpener
	limit int

	opens singleflight.Group

	mu     sync.Mutex
	stores map[types.RegionKey]proximity.Store
	closed bool
}

func New(cache regioncache.RegionCache, opts ...Option) Coordinator {
	c := &coordinator{
		cache:  cache,
		open:   proximity.Open,
		limit:  proximity.DefaultLimit,
		stores: map[types.RegionKey]proximity.Store{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// QueryNear resolves the region for pos, makes sure its dataset is present and open,
// and returns the highest ranked cells. Stores are retained per region until Close.
func (c *coordinator) QueryNear(ctx context.Context, pos types.Position, resolver RegionResolver) (cells []types.Cell, err error) {
	ctx, span := tracer.Start(ctx, "query-near")
	start := time.Now()
	defer func() {
		metrics.QueriesTotal.WithLabelValues(resultLabel(err)).Inc()
		metrics.QueryDurationMs.Observe(float64(time.Since(start).Milliseconds()))
		tracing.RecordAnyErrorAndEndSpan(err, span)
	}()

	if resolver == nil {
		err = fmt.Errorf("%w: no resolver", ErrGeocodeFailed)
		return nil, err
	}

	key, err := resolver.Resolve(ctx, pos)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrGeocodeFailed, err.Error())
		return nil, err
	}

	key = regioncache.NormalizeKey(string(key))
	if key == "" {
		err = fmt.Errorf("%w: empty region key", ErrGeocodeFailed)
		return nil, err
	}

	ctx, log := logging.WithRegion(ctx, string(key))

	// a store can be discarded by a concurrent failure, in that case one more attempt is made
	for attempt := 0; attempt < 2; attempt++ {
		var s proximity.Store
		s, err = c.storeFor(ctx, key)
		if err != nil {
			return nil, err
		}

		cells, err = s.NearestCells(ctx, pos, c.limit)
		if err == nil {
			return cells, nil
		}

		if errors.Is(err, proximity.ErrClosed) {
			if c.isClosed() {
				err = ErrClosed
				return nil, err
			}
			continue
		}

		if ctx.Err() == nil {
			log.Error().Err(err).Msg("query failed, discarding dataset")
			c.discard(ctx, key, s)
		}

		err = fmt.Errorf("%w: %s", ErrQueryFailed, err.Error())
		return nil, err
	}

	err = fmt.Errorf("%w: store was released during query", ErrQueryFailed)
	return nil, err
}

func (c *coordinator) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *coordinator) retained(key types.RegionKey) (proximity.Store, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, false, ErrClosed
	}

	s, ok := c.stores[key]
	return s, ok, nil
}

func (c *coordinator) storeFor(ctx context.Context, key types.RegionKey) (proximity.Store, error) {
	s, ok, err := c.retained(key)
	if err != nil || ok {
		return s, err
	}

	detached := context.WithoutCancel(ctx)
	ch := c.opens.DoChan(string(key), func() (any, error) {
		return c.fetchAndOpen(detached, key)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(proximity.Store), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *coordinator) fetchAndOpen(ctx context.Context, key types.RegionKey) (proximity.Store, error) {
	log := logging.GetFromContext(ctx)

	s, ok, err := c.retained(key)
	if err != nil || ok {
		return s, err
	}

	if !c.cache.HasDataset(key) {
		log.Info().Msg("dataset is not cached, fetching")

		err = c.cache.Fetch(ctx, key)
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch dataset")
			return nil, fmt.Errorf("%w: %s", ErrFetchFailed, err.Error())
		}
	}

	s, err = c.open(ctx, c.cache.PathFor(key))
	if err != nil {
		if errors.Is(err, proximity.ErrCorrupt) || errors.Is(err, proximity.ErrNotFound) {
			log.Warn().Err(err).Msg("removing unusable dataset from cache")
			if ierr := c.cache.Invalidate(key); ierr != nil {
				log.Error().Err(ierr).Msg("failed to invalidate dataset")
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrOpenFailed, err.Error())
	}

	if err := c.cache.Touch(key); err != nil {
		log.Warn().Err(err).Msg("failed to mark dataset as recently used")
	}

	c.mu.Lock()
	existing, found := c.stores[key]
	closed := c.closed
	if !closed && !found {
		c.stores[key] = s
		metrics.OpenStores.Inc()
	}
	c.mu.Unlock()

	if closed {
		s.Close()
		return nil, ErrClosed
	}

	if found {
		s.Close()
		return existing, nil
	}

	return s, nil
}

func (c *coordinator) discard(ctx context.Context, key types.RegionKey, s proximity.Store) {
	c.mu.Lock()
	if current, ok := c.stores[key]; ok && current == s {
		delete(c.stores, key)
		metrics.OpenStores.Dec()
	}
	c.mu.Unlock()

	s.Close()

	if err := c.cache.Invalidate(key); err != nil {
		log := logging.GetFromContext(ctx)
		log.Error().Err(err).Msg("failed to invalidate dataset")
	}
}

// Close releases every retained store. Stores opened by calls still in flight are
// released as soon as those calls complete.
func (c *coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	stores := c.stores
	c.stores = map[types.RegionKey]proximity.Store{}
	c.mu.Unlock()

	var errs []error
	for key, s := range stores {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store for %s: %w", key, err))
		}
		metrics.OpenStores.Dec()
	}

	return errors.Join(errs...)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrGeocodeFailed):
		return "geocode"
	case errors.Is(err, ErrFetchFailed):
		return "fetch"
	case errors.Is(err, ErrOpenFailed):
		return "open"
	case errors.Is(err, ErrClosed):
		return "closed"
	default:
		return "query"
	}
}
