package locator

import (
	"context"
	"encoding/json"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const PositionSampleRoutingKey string = "cells.positionSample"

func RegisterTopicMessageHandler(messenger messaging.MsgContext, l Locator) {
	messenger.RegisterTopicMessageHandler(PositionSampleRoutingKey, NewPositionTopicHandler(l))
}

// NewPositionTopicHandler feeds position samples published on the message bus to l.
func NewPositionTopicHandler(l Locator) messaging.TopicMessageHandler {
	return func(ctx context.Context, msg amqp.Delivery, logger zerolog.Logger) {
		pos := types.Position{}

		err := json.Unmarshal(msg.Body, &pos)
		if err != nil {
			logger.Error().Err(err).Msgf("failed to unmarshal message from %s", msg.RoutingKey)
			return
		}

		ctx = logging.NewContextWithLogger(ctx, logger)

		err = l.Feed(ctx, pos)
		if err != nil {
			logger.Error().Err(err).Msg("position sample rejected")
			return
		}

		logger.Debug().Msgf("%s handled", msg.RoutingKey)
	}
}
