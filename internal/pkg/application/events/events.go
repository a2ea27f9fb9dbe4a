package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
	yaml "gopkg.in/yaml.v2"
)

const (
	CellsUpdatedEventType    string = "diwise.cells.updated"
	PositionUpdatedEventType string = "diwise.position.updated"

	eventSource string = "github.com/diwise/cell-locator"
	queueSize   int    = 32
)

// Notifier is a location hub subscriber that forwards updates as cloud events to the
// endpoints configured for each event type. Events are sent from the notifier's own
// goroutine so that slow endpoints never hold up the hub.
type Notifier struct {
	client      cloudevents.Client
	subscribers map[string][]SubscriberConfig

	queue chan cloudevents.Event

	mu      sync.Mutex
	logger  zerolog.Logger
	cancel  context.CancelFunc
	running sync.WaitGroup
}

func NewNotifier(cfg *Config) (*Notifier, error) {
	c, err := cloudevents.NewClientHTTP()
	if err != nil {
		return nil, err
	}

	n := &Notifier{
		client:      c,
		subscribers: make(map[string][]SubscriberConfig),
		queue:       make(chan cloudevents.Event, queueSize),
		logger:      zerolog.Nop(),
	}

	if cfg != nil {
		for _, s := range cfg.Notifications {
			n.subscribers[s.Type] = append(n.subscribers[s.Type], s.Subscribers...)
		}
	}

	return n, nil
}

func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		return
	}

	ctx, n.cancel = context.WithCancel(ctx)
	n.logger = logging.GetFromContext(ctx)

	n.running.Add(1)
	go n.run(ctx)
}

// Stop halts the notifier. Events still queued are dropped.
func (n *Notifier) Stop() {
	n.mu.Lock()
	cancel := n.cancel
	n.cancel = nil
	n.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	n.running.Wait()
}

func (n *Notifier) run(ctx context.Context) {
	defer n.running.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-n.queue:
			if err := n.Send(ctx, event); err != nil {
				log := logging.GetFromContext(ctx)
				log.Error().Err(err).Str("type", event.Type()).Msg("failed to notify subscribers")
			}
		}
	}
}

func (n *Notifier) OnPosition(pos types.Position) {
	now := time.Now().UTC()
	n.enqueue(PositionUpdatedEventType, now, types.PositionUpdated{
		Position:  pos,
		Timestamp: now,
	})
}

func (n *Notifier) OnCells(cells []types.Cell) {
	now := time.Now().UTC()
	n.enqueue(CellsUpdatedEventType, now, types.CellsUpdated{
		Cells:     cells,
		Timestamp: now,
	})
}

func (n *Notifier) enqueue(eventType string, timestamp time.Time, data any) {
	if s, ok := n.subscribers[eventType]; !ok || len(s) == 0 {
		return
	}

	n.mu.Lock()
	logger := n.logger
	n.mu.Unlock()

	event, err := newEvent(eventType, timestamp, data)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create event")
		return
	}

	select {
	case n.queue <- event:
	default:
		logger.Warn().Str("type", eventType).Msg("notification queue full, event dropped")
	}
}

// Send delivers event to every endpoint subscribing to its type.
func (n *Notifier) Send(ctx context.Context, event cloudevents.Event) error {
	var err error

	logger := logging.GetFromContext(ctx)

	for _, s := range n.subscribers[event.Type()] {
		ctxWithTarget := cloudevents.ContextWithTarget(ctx, s.Endpoint)

		result := n.client.Send(ctxWithTarget, event)
		if cloudevents.IsUndelivered(result) || errors.Is(result, unix.ECONNREFUSED) {
			logger.Error().Err(result).Msgf("failed to send event to %s", s.Endpoint)
			err = fmt.Errorf("%w", result)
		}
	}

	return err
}

func newEvent(eventType string, timestamp time.Time, data any) (cloudevents.Event, error) {
	event := cloudevents.NewEvent()
	event.SetID(uuid.New().String())
	event.SetTime(timestamp)
	event.SetSource(eventSource)
	event.SetType(eventType)

	err := event.SetData(cloudevents.ApplicationJSON, data)
	return event, err
}

type SubscriberConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type Notification struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Type        string             `yaml:"type"`
	Subscribers []SubscriberConfig `yaml:"subscribers"`
}

type Config struct {
	Notifications []Notification `yaml:"notifications"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := yaml.Unmarshal(buf, &cfg); err == nil {
		return &cfg, nil
	} else {
		return nil, err
	}
}
