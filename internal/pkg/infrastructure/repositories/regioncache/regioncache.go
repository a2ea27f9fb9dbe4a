package regioncache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/metrics"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"
	"golang.org/x/sys/unix"
)

var tracer = otel.Tracer("cell-locator/regioncache")

const (
	DefaultRemoteRoot   string        = "https://cdn.radiocells.org"
	DefaultExtension    string        = "sqlite"
	DefaultFetchTimeout time.Duration = 5 * time.Minute
)

var ErrNetwork = fmt.Errorf("failed to download dataset")
var ErrIO = fmt.Errorf("failed to store dataset")
var ErrInvalidKey = fmt.Errorf("invalid region key")

//go:generate moq -rm -out regioncache_mock.go . RegionCache

type RegionCache interface {
	HasDataset(key types.RegionKey) bool
	PathFor(key types.RegionKey) string
	Fetch(ctx context.Context, key types.RegionKey) error
	Invalidate(key types.RegionKey) error
	Touch(key types.RegionKey) error
}

type Config struct {
	Dir          string
	RemoteRoot   string
	Extension    string
	FetchTimeout time.Duration
	// MaxDatasets caps the number of dataset files kept in Dir. Zero means no cap.
	MaxDatasets int
}

type regionCache struct {
	cfg        Config
	httpClient http.Client
	fetches    singleflight.Group
}

func New(cfg Config) (RegionCache, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("no dataset directory configured")
	}
	if cfg.RemoteRoot == "" {
		cfg.RemoteRoot = DefaultRemoteRoot
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	cfg.Extension = strings.TrimPrefix(cfg.Extension, ".")
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIO, err.Error())
	}

	return &regionCache{
		cfg: cfg,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.FetchTimeout,
		},
	}, nil
}

// NormalizeKey turns a region name, file name or path into the key used to name datasets:
// trailing separators are removed, the last path element is kept without its extension
// and the result is lowercased.
func NormalizeKey(name string) types.RegionKey {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	name = strings.TrimRight(name, "/")

	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}

	return types.RegionKey(strings.ToLower(name))
}

func validKey(key types.RegionKey) (types.RegionKey, bool) {
	k := NormalizeKey(string(key))
	if k == "" || k == "." || k == ".." || strings.HasPrefix(string(k), ".") {
		return "", false
	}
	return k, true
}

func (c *regionCache) fileName(key types.RegionKey) string {
	return string(key) + "." + c.cfg.Extension
}

func (c *regionCache) PathFor(key types.RegionKey) string {
	k, _ := validKey(key)
	return filepath.Join(c.cfg.Dir, c.fileName(k))
}

func (c *regionCache) HasDataset(key types.RegionKey) bool {
	k, ok := validKey(key)
	if !ok {
		return false
	}

	path := filepath.Join(c.cfg.Dir, c.fileName(k))

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()

	return true
}

// Fetch downloads the dataset for key and atomically replaces any existing file.
// Concurrent calls for the same key share one download. The download itself is not
// cancelled when ctx is, a cancelled caller just stops waiting for it.
func (c *regionCache) Fetch(ctx context.Context, key types.RegionKey) error {
	k, ok := validKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	detached := context.WithoutCancel(ctx)
	ch := c.fetches.DoChan(string(k), func() (any, error) {
		return nil, c.download(detached, k)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *regionCache) download(ctx context.Context, key types.RegionKey) error {
	var err error
	ctx, span := tracer.Start(ctx, "fetch-dataset")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	ctx, log := logging.WithRegion(ctx, string(key))

	source, err := url.JoinPath(c.cfg.RemoteRoot, c.fileName(key))
	if err != nil {
		err = fmt.Errorf("%w: bad remote root: %s", ErrNetwork, err.Error())
		return err
	}

	log.Info().Str("source", source).Msg("downloading dataset")

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrNetwork, err.Error())
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, unix.ECONNREFUSED) {
			log.Error().Err(err).Msg("dataset source refused the connection")
		}
		metrics.DatasetFetchesTotal.WithLabelValues("network").Inc()
		err = fmt.Errorf("%w: %s", ErrNetwork, err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.DatasetFetchesTotal.WithLabelValues("network").Inc()
		err = fmt.Errorf("%w: unexpected response code %d from %s", ErrNetwork, resp.StatusCode, source)
		return err
	}

	written, err := c.writeAtomically(key, resp.Body)
	if err != nil {
		if errors.Is(err, ErrNetwork) {
			metrics.DatasetFetchesTotal.WithLabelValues("network").Inc()
		} else {
			metrics.DatasetFetchesTotal.WithLabelValues("io").Inc()
		}
		log.Error().Err(err).Msg("dataset download failed")
		return err
	}

	metrics.DatasetFetchesTotal.WithLabelValues("ok").Inc()
	metrics.DatasetFetchBytesTotal.Add(float64(written))

	log.Info().Int64("bytes", written).Dur("elapsed", time.Since(start)).Msg("dataset downloaded")

	if c.cfg.MaxDatasets > 0 {
		c.evict(ctx, key)
	}

	return nil
}

// writeAtomically streams body into a temporary file next to the canonical path and
// renames it into place, so the canonical path never holds a partial dataset.
func (c *regionCache) writeAtomically(key types.RegionKey, body io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(c.cfg.Dir, c.fileName(key)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrIO, err.Error())
	}

	tmpName := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	written, err := io.Copy(tmp, body)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return written, fmt.Errorf("%w: %s", ErrIO, err.Error())
		}
		return written, fmt.Errorf("%w: interrupted after %d bytes: %s", ErrNetwork, written, err.Error())
	}

	if written == 0 {
		return 0, fmt.Errorf("%w: empty response body", ErrNetwork)
	}

	if err = tmp.Sync(); err != nil {
		return written, fmt.Errorf("%w: %s", ErrIO, err.Error())
	}

	if err = tmp.Close(); err != nil {
		return written, fmt.Errorf("%w: %s", ErrIO, err.Error())
	}

	if err = os.Rename(tmpName, filepath.Join(c.cfg.Dir, c.fileName(key))); err != nil {
		return written, fmt.Errorf("%w: %s", ErrIO, err.Error())
	}

	keep = true

	return written, nil
}

func (c *regionCache) Invalidate(key types.RegionKey) error {
	k, ok := validKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	err := os.Remove(filepath.Join(c.cfg.Dir, c.fileName(k)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrIO, err.Error())
	}

	return nil
}

// Touch marks the dataset for key as recently used.
func (c *regionCache) Touch(key types.RegionKey) error {
	k, ok := validKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	now := time.Now()
	err := os.Chtimes(filepath.Join(c.cfg.Dir, c.fileName(k)), now, now)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrIO, err.Error())
	}

	return nil
}
