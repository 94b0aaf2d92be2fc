package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/rag/index"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/avast/retry-go/v4"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	indexer    IIndexingService
	logger     logger.ILogger
	attempts   uint
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	indexer IIndexingService,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		indexer:    indexer,
		logger:     logger,
		attempts:   3,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal index job", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Malformed payloads would fail forever
		msg.Ack()
		return
	}

	cs.logger.Info("CONSUMER", "Processing index job", map[string]interface{}{
		"message_id": msg.UUID,
		"source_id":  payload.SourceId,
	})

	err := retry.Do(
		func() error {
			_, err := cs.indexer.IndexDocument(ctx, &dto.IndexDocumentRequest{
				SourceId: payload.SourceId,
				Text:     payload.Text,
				Metadata: payload.Metadata,
			})
			return err
		},
		retry.Context(ctx),
		retry.Attempts(cs.attempts),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, index.ErrEmptyDocument) && !errors.Is(err, index.ErrMissingSource)
		}),
	)
	if err != nil {
		// gochannel redelivers a nacked message immediately, so give up here
		cs.logger.Error("CONSUMER", "Index job dropped", map[string]interface{}{
			"message_id": msg.UUID,
			"source_id":  payload.SourceId,
			"error":      err.Error(),
		})
	}

	msg.Ack()
}
