package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diwise/cell-locator/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/matryer/is"
)

func TestConfig(t *testing.T) {
	is := setupTest(t)
	config := strings.NewReader(`
notifications:
  - id: nearby
    name: Nearby cells
    type: diwise.cells.updated
    subscribers:
    - endpoint: http://api-notification:8990
  - id: position
    name: Position
    type: diwise.position.updated
    subscribers:
    - endpoint: http://api-notification:8990
    - endpoint: http://tracker:8080/events
`)
	cfg, err := LoadConfiguration(config)

	is.NoErr(err)
	is.Equal(len(cfg.Notifications), 2)
	is.Equal(cfg.Notifications[0].ID, "nearby")
	is.Equal(cfg.Notifications[1].Type, PositionUpdatedEventType)
	is.Equal(len(cfg.Notifications[1].Subscribers), 2)
}

func TestNotifierSendsCellsToSubscribers(t *testing.T) {
	is := setupTest(t)
	ctx := context.Background()

	type received struct {
		eventType string
		body      []byte
	}
	requests := make(chan received, 10)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests <- received{eventType: r.Header.Get("Ce-Type"), body: body}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := NewNotifier(&Config{
		Notifications: []Notification{
			{Type: CellsUpdatedEventType, Subscribers: []SubscriberConfig{{Endpoint: srv.URL}}},
		},
	})
	is.NoErr(err)

	n.Start(ctx)
	defer n.Stop()

	n.OnCells([]types.Cell{{ID: "31001", Latitude: 62.39, Longitude: 17.30}})

	select {
	case r := <-requests:
		is.Equal(r.eventType, CellsUpdatedEventType)

		msg := types.CellsUpdated{}
		is.NoErr(json.Unmarshal(r.body, &msg))
		is.Equal(len(msg.Cells), 1)
		is.Equal(msg.Cells[0].ID, "31001")
	case <-time.After(5 * time.Second):
		is.Fail() // no event received
	}
}

func TestNotifierIgnoresTypesWithoutSubscribers(t *testing.T) {
	is := setupTest(t)
	ctx := context.Background()

	requests := make(chan string, 10)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r.Header.Get("Ce-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := NewNotifier(&Config{
		Notifications: []Notification{
			{Type: CellsUpdatedEventType, Subscribers: []SubscriberConfig{{Endpoint: srv.URL}}},
		},
	})
	is.NoErr(err)

	n.Start(ctx)
	defer n.Stop()

	n.OnPosition(types.Position{Latitude: 62.39, Longitude: 17.30})

	select {
	case <-requests:
		is.Fail() // position events have no subscribers
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSendReportsUnreachableEndpoints(t *testing.T) {
	is := setupTest(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	n, err := NewNotifier(&Config{
		Notifications: []Notification{
			{Type: PositionUpdatedEventType, Subscribers: []SubscriberConfig{{Endpoint: endpoint}}},
		},
	})
	is.NoErr(err)

	event, err := newEvent(PositionUpdatedEventType, time.Now().UTC(), types.PositionUpdated{})
	is.NoErr(err)

	err = n.Send(ctx, event)
	is.True(err != nil)
}

func TestTopicPublisherPublishesUpdates(t *testing.T) {
	is := setupTest(t)
	ctx := context.Background()

	msgCtx := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
	}

	p := NewTopicPublisher(ctx, msgCtx)
	p.OnPosition(types.Position{Latitude: 62.39, Longitude: 17.30})
	p.OnCells([]types.Cell{{ID: "31001"}})

	calls := msgCtx.PublishOnTopicCalls()
	is.Equal(len(calls), 2)
	is.Equal(calls[0].Message.TopicName(), "cells.positionUpdated")
	is.Equal(calls[1].Message.TopicName(), "cells.cellsUpdated")

	cells, ok := calls[1].Message.(*types.CellsUpdated)
	is.True(ok)
	is.Equal(cells.Cells[0].ID, "31001")
}

func setupTest(t *testing.T) *is.I {
	is := is.New(t)

	return is
}
