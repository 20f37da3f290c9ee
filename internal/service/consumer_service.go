package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"ai-research-hub-be/internal/dto"
	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/repository/contract"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService persists query outcomes off the request path so the
// HTTP reply never waits on the log write.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logRepo   contract.QueryLogRepository
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	logRepo contract.QueryLogRepository,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		logRepo:   logRepo,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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
	var payload dto.PublishQueryLogMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal query log message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	queryLog := &entity.QueryLog{
		Id:        uuid.New(),
		RawText:   payload.RawText,
		Citations: payload.Citations,
		Partial:   payload.Partial,
		LatencyMs: payload.LatencyMs,
		CreatedAt: time.Now(),
	}
	if payload.QueryID != "" {
		if qid, err := uuid.Parse(payload.QueryID); err == nil {
			queryLog.QueryId = &qid
		}
	}
	if payload.Answer != "" {
		answer := payload.Answer
		queryLog.Answer = &answer
	}
	if payload.ErrorKind != "" {
		kind := payload.ErrorKind
		queryLog.ErrorKind = &kind
	}
	if len(payload.Diagnostics) > 0 {
		queryLog.Details = map[string]interface{}{
			"diagnostics": payload.Diagnostics,
		}
	}

	if err := cs.logRepo.Create(ctx, queryLog); err != nil {
		log.Printf("[ERROR] Failed to persist query log: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[INFO] Query log persisted: %s", queryLog.Id)
	msg.Ack()
}
