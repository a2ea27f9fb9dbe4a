package locator

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/geo"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/pkg/types"
)

const (
	DefaultMinInterval time.Duration = 10 * time.Second
	DefaultMinDistance float64       = 3.0
)

var ErrInvalidPosition = fmt.Errorf("invalid position")

type Config struct {
	MinInterval time.Duration
	// MinDistance is the minimum displacement in meters between two emitted samples.
	MinDistance float64
}

func DefaultConfig() Config {
	return Config{
		MinInterval: DefaultMinInterval,
		MinDistance: DefaultMinDistance,
	}
}

type Sink func(ctx context.Context, pos types.Position)

//go:generate moq -rm -out locator_mock.go . Locator

// Locator turns raw position samples into a throttled stream of positions.
type Locator interface {
	Start(ctx context.Context, sink Sink) error
	Stop()

	Feed(ctx context.Context, pos types.Position) error
	LastKnown() (types.Position, bool)
}

type locator struct {
	cfg Config
	now func() time.Time

	mu          sync.Mutex
	sink        Sink
	lastKnown   *types.Position
	lastEmitted *types.Position
}

func New(cfg Config) Locator {
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	if cfg.MinDistance < 0 {
		cfg.MinDistance = 0
	}

	return &locator{
		cfg: cfg,
		now: time.Now,
	}
}

func (l *locator) Start(ctx context.Context, sink Sink) error {
	if sink == nil {
		return fmt.Errorf("a sink is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sink != nil {
		return fmt.Errorf("locator already started")
	}

	l.sink = sink
	l.lastEmitted = nil

	log := logging.GetFromContext(ctx)
	log.Info().
		Dur("minInterval", l.cfg.MinInterval).
		Float64("minDistance", l.cfg.MinDistance).
		Msg("locator started")

	return nil
}

func (l *locator) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sink = nil
	l.lastEmitted = nil
}

// Feed records pos as the last known position and passes it on to the sink if it is the
// first sample since Start, or if both MinInterval and MinDistance have been exceeded
// since the last sample passed on. Samples without a timestamp are stamped on arrival.
func (l *locator) Feed(ctx context.Context, pos types.Position) error {
	if !valid(pos) {
		return fmt.Errorf("%w: (%f, %f)", ErrInvalidPosition, pos.Latitude, pos.Longitude)
	}

	if pos.Timestamp.IsZero() {
		pos.Timestamp = l.now().UTC()
	}

	l.mu.Lock()
	latest := pos
	l.lastKnown = &latest

	sink := l.sink
	emit := sink != nil && l.shouldEmit(pos)
	if emit {
		l.lastEmitted = &latest
	}
	l.mu.Unlock()

	if emit {
		sink(ctx, pos)
	}

	return nil
}

func (l *locator) shouldEmit(pos types.Position) bool {
	if l.lastEmitted == nil {
		return true
	}

	if pos.Timestamp.Sub(l.lastEmitted.Timestamp) < l.cfg.MinInterval {
		return false
	}

	return geo.Distance(*l.lastEmitted, pos) >= l.cfg.MinDistance
}

// LastKnown returns the most recent sample fed to the locator, filtered or not.
func (l *locator) LastKnown() (types.Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lastKnown == nil {
		return types.Position{}, false
	}

	return *l.lastKnown, true
}

func valid(pos types.Position) bool {
	if math.IsNaN(pos.Latitude) || math.IsNaN(pos.Longitude) {
		return false
	}
	return pos.Latitude >= -90 && pos.Latitude <= 90 && pos.Longitude >= -180 && pos.Longitude <= 180
}
