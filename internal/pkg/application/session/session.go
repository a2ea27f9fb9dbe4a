package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/diwise/cell-locator/internal/pkg/application/coordinator"
	"github.com/diwise/cell-locator/internal/pkg/application/locationhub"
	"github.com/diwise/cell-locator/internal/pkg/application/locator"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
)

var ErrAlreadyStarted = fmt.Errorf("session already started")
var ErrEnded = fmt.Errorf("session has ended")

// Session owns the lifetime of a locator, a location hub and the coordinator behind it.
type Session interface {
	Start(ctx context.Context) error
	Stop() error
}

type session struct {
	locator     locator.Locator
	hub         locationhub.LocationHub
	coordinator coordinator.Coordinator

	mu      sync.Mutex
	started bool
	ended   bool
}

func New(l locator.Locator, h locationhub.LocationHub, c coordinator.Coordinator) Session {
	return &session{
		locator:     l,
		hub:         h,
		coordinator: c,
	}
}

// Start starts the hub and routes locator samples into it. If the locator already knows
// a position it is submitted right away so subscribers need not wait for the next sample.
func (s *session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return ErrEnded
	}
	if s.started {
		return ErrAlreadyStarted
	}

	s.hub.Start(ctx)

	err := s.locator.Start(ctx, s.hub.Submit)
	if err != nil {
		s.hub.Stop()
		return fmt.Errorf("failed to start locator: %w", err)
	}

	s.started = true

	if pos, ok := s.locator.LastKnown(); ok {
		log := logging.GetFromContext(ctx)
		log.Debug().Msg("submitting last known position")
		s.hub.Submit(ctx, pos)
	}

	return nil
}

// Stop ends the session and releases every open dataset. A stopped session cannot be restarted.
func (s *session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return nil
	}
	s.ended = true

	if s.started {
		s.locator.Stop()
		s.hub.Stop()
	}

	return s.coordinator.Close()
}
