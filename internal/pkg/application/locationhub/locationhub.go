package locationhub

import (
	"context"
	"reflect"
	"slices"
	"strconv"
	"sync"

	"github.com/diwise/cell-locator/internal/pkg/application/coordinator"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/geo"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/metrics"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/rs/zerolog"
)

//go:generate moq -rm -out locationhub_mock.go . LocationHub Subscriber

// Subscriber receives position and cell updates. All callbacks are made from the hub's
// dispatcher goroutine, one at a time. Implementations must be comparable, e.g. pointers.
// Subscribers that are not are never registered.
type Subscriber interface {
	OnPosition(pos types.Position)
	OnCells(cells []types.Cell)
}

type LocationHub interface {
	Start(ctx context.Context)
	// Stop halts delivery. It must not be called from a Subscriber callback.
	Stop()

	Submit(ctx context.Context, pos types.Position)
	AddSubscriber(s Subscriber)
	// RemoveSubscriber deregisters s. When called outside of a Subscriber callback while s
	// is being notified, it returns once that callback has returned.
	RemoveSubscriber(s Subscriber)

	LastPosition() (types.Position, bool)
}

type hub struct {
	coordinator coordinator.Coordinator
	resolver    coordinator.RegionResolver

	mu          sync.Mutex
	subscribers []Subscriber
	last        *types.Position

	// queries numbers every Submit, latestCells is the number of the last query whose
	// result was queued for delivery.
	queries     uint64
	latestCells uint64

	delivering   Subscriber
	delivered    *sync.Cond
	dispatcherID uint64

	running    bool
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
	pending    []func()
	wake       chan struct{}
	done       chan struct{}
	dispatcher sync.WaitGroup
}

func New(c coordinator.Coordinator, resolver coordinator.RegionResolver) LocationHub {
	h := &hub{
		coordinator: c,
		resolver:    resolver,
		subscribers: []Subscriber{},
		ctx:         context.Background(),
		cancel:      func() {},
		wake:        make(chan struct{}, 1),
	}
	h.delivered = sync.NewCond(&h.mu)

	return h
}

func (h *hub) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return
	}

	h.running = true
	h.generation++
	h.ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})

	h.dispatcher.Add(1)
	go h.dispatch(logging.GetFromContext(ctx), h.done)
}

func (h *hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}

	h.running = false
	h.pending = nil
	h.cancel()
	close(h.done)
	h.mu.Unlock()

	h.dispatcher.Wait()
}

// dispatch runs every queued delivery in order until done is closed.
func (h *hub) dispatch(log zerolog.Logger, done <-chan struct{}) {
	defer h.dispatcher.Done()

	h.mu.Lock()
	h.dispatcherID = goroutineID()
	h.mu.Unlock()

	for {
		select {
		case <-done:
			return
		case <-h.wake:
		}

		for {
			h.mu.Lock()
			if !h.running || len(h.pending) == 0 {
				h.mu.Unlock()
				break
			}
			next := h.pending[0]
			h.pending = h.pending[1:]
			h.mu.Unlock()

			h.run(log, next)
		}
	}
}

func (h *hub) run(log zerolog.Logger, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("subscriber callback panicked: %v", r)
		}
	}()

	fn()
}

// enqueueLocked queues fn for the dispatcher. h.mu must be held.
func (h *hub) enqueueLocked(fn func()) {
	h.pending = append(h.pending, fn)

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// enqueueCells queues the fan-out of the result of query number seq. Results older than one
// already queued are dropped, as are results from before the hub was last stopped.
func (h *hub) enqueueCells(generation, seq uint64, fn func()) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running || h.generation != generation || seq < h.latestCells {
		return false
	}

	h.latestCells = seq
	h.enqueueLocked(fn)
	return true
}

// beginDelivery marks s as being notified if it is still subscribed.
func (h *hub) beginDelivery(s Subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !slices.Contains(h.subscribers, s) {
		return false
	}

	h.delivering = s
	return true
}

func (h *hub) endDelivery() {
	h.mu.Lock()
	h.delivering = nil
	h.delivered.Broadcast()
	h.mu.Unlock()
}

// fanOut calls fn for every subscriber in snapshot that is still subscribed when its turn comes.
func (h *hub) fanOut(snapshot []Subscriber, fn func(Subscriber)) {
	for _, s := range snapshot {
		if !h.beginDelivery(s) {
			continue
		}

		func() {
			defer h.endDelivery()
			fn(s)
		}()
	}
}

// Submit records pos as the latest position, fans it out if it differs from the previous
// one and starts a proximity query whose result is fanned out when it succeeds. A result
// that arrives after the result of a later Submit has been queued is dropped.
func (h *hub) Submit(ctx context.Context, pos types.Position) {
	log := logging.GetFromContext(ctx)

	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		log.Warn().Msg("location hub is not running, position dropped")
		return
	}

	moved := h.last == nil || geo.Distance(*h.last, pos) > 0
	latest := pos
	h.last = &latest

	snapshot := slices.Clone(h.subscribers)
	generation := h.generation
	h.queries++
	seq := h.queries
	queryCtx := logging.NewContextWithLogger(h.ctx, log)

	if moved {
		h.enqueueLocked(func() {
			h.fanOut(snapshot, func(s Subscriber) { s.OnPosition(pos) })
		})
	}
	h.mu.Unlock()

	metrics.PositionsTotal.WithLabelValues(strconv.FormatBool(moved)).Inc()

	go func() {
		cells, err := h.coordinator.QueryNear(queryCtx, pos, h.resolver)
		if err != nil {
			if queryCtx.Err() == nil {
				log.Error().Err(err).Msg("failed to query nearby cells")
			}
			return
		}

		if !h.enqueueCells(generation, seq, func() {
			h.fanOut(snapshot, func(s Subscriber) { s.OnCells(cells) })
		}) {
			log.Debug().Msg("hub stopped or a newer result was queued, result dropped")
		}
	}()
}

// AddSubscriber registers s. If a position is known, s receives it right away.
func (h *hub) AddSubscriber(s Subscriber) {
	if s == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !isComparable(s) {
		log := logging.GetFromContext(h.ctx)
		log.Warn().Msgf("subscriber of type %T is not comparable and was not added", s)
		return
	}

	if slices.Contains(h.subscribers, s) {
		return
	}

	h.subscribers = append(h.subscribers, s)

	if h.last != nil && h.running {
		pos := *h.last
		h.enqueueLocked(func() {
			h.fanOut([]Subscriber{s}, func(s Subscriber) { s.OnPosition(pos) })
		})
	}
}

func (h *hub) RemoveSubscriber(s Subscriber) {
	if s == nil || !isComparable(s) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.subscribers = slices.DeleteFunc(h.subscribers, func(e Subscriber) bool {
		return e == s
	})

	if h.delivering != s || goroutineID() == h.dispatcherID {
		return
	}

	for h.delivering == s {
		h.delivered.Wait()
	}
}

func isComparable(s Subscriber) bool {
	return reflect.ValueOf(s).Comparable()
}

func (h *hub) LastPosition() (types.Position, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.last == nil {
		return types.Position{}, false
	}

	return *h.last, true
}
