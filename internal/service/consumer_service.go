// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"mondichat-be/internal/dto"
	"mondichat-be/internal/entity"
	"mondichat-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
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
	var payload dto.PublishReportMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal report message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	content := strings.TrimSpace(payload.Content)
	if payload.UserId == "" || content == "" {
		log.Printf("[WARN] Dropping empty report (user_id=%q)", payload.UserId)
		msg.Ack()
		return
	}

	createdAt := time.Now().UTC()
	if payload.CreatedAt > 0 {
		createdAt = time.UnixMilli(payload.CreatedAt).UTC()
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	report := &entity.Report{
		Id:        uuid.New(),
		UserId:    payload.UserId,
		Content:   content,
		CreatedAt: createdAt,
	}
	if err := uow.ReportRepository().Create(ctx, report); err != nil {
		log.Printf("[ERROR] Failed to store report for user %s: %v", payload.UserId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Report %s stored for user %s", report.Id, payload.UserId)
	msg.Ack()
}
