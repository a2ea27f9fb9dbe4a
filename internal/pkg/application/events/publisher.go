package events

import (
	"context"
	"time"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
)

// TopicPublisher is a location hub subscriber that republishes every update on the message bus.
type TopicPublisher struct {
	ctx       context.Context
	messenger messaging.MsgContext
}

func NewTopicPublisher(ctx context.Context, messenger messaging.MsgContext) *TopicPublisher {
	return &TopicPublisher{
		ctx:       ctx,
		messenger: messenger,
	}
}

func (p *TopicPublisher) OnPosition(pos types.Position) {
	p.publish(&types.PositionUpdated{
		Position:  pos,
		Timestamp: time.Now().UTC(),
	})
}

func (p *TopicPublisher) OnCells(cells []types.Cell) {
	p.publish(&types.CellsUpdated{
		Cells:     cells,
		Timestamp: time.Now().UTC(),
	})
}

func (p *TopicPublisher) publish(msg messaging.TopicMessage) {
	err := p.messenger.PublishOnTopic(p.ctx, msg)
	if err != nil {
		log := logging.GetFromContext(p.ctx)
		log.Error().Err(err).Msgf("failed to publish message on %s", msg.TopicName())
	}
}
