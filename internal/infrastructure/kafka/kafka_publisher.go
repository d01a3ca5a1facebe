package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	var km []kafka.Message
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	return k.writer.WriteMessages(context.Background(), km...)
}

func (k *DefaultKafkaPublisher) PublishAward(topic string, award *domain.BonusAward) error {
	v, err := json.Marshal(newAwardEvent(award))
	if err != nil {
		return err
	}

	return k.Publish(topic, domain.Message{Key: []byte(award.WorkerID), Value: v})
}

// BatchPublishAwards - батчевая публикация событий начислений
func (k *DefaultKafkaPublisher) BatchPublishAwards(topic string, awards []*domain.BonusAward) error {
	if len(awards) == 0 {
		return nil
	}

	if len(awards) == 1 {
		return k.PublishAward(topic, awards[0])
	}

	messages := make([]kafka.Message, 0, len(awards))
	timestamp := time.Now()

	for _, award := range awards {
		msg, err := json.Marshal(newAwardEvent(award))
		if err != nil {
			log.Printf("Failed to marshal event for award %s: %v", award.ID, err)
			continue // Пропускаем проблемное сообщение, но продолжаем с остальными
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(award.WorkerID),
			Value: msg,
			Time:  timestamp,
			Topic: topic,
		})
	}

	if len(messages) == 0 {
		return fmt.Errorf("no valid messages to publish")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to write batch messages: %w", err)
	}

	log.Printf("Successfully published %d award events to Kafka", len(messages))
	return nil
}

// BatchPublishAwardsWithRetry - батчевая публикация с retry и разбивкой на части
func (k *DefaultKafkaPublisher) BatchPublishAwardsWithRetry(topic string, awards []*domain.BonusAward, batchSize int, maxRetries int) error {
	if len(awards) == 0 {
		return nil
	}

	if batchSize <= 0 {
		batchSize = 100 // По умолчанию 100 сообщений в батче
	}

	var allErrors []error
	successfulCount := 0

	for i := 0; i < len(awards); i += batchSize {
		end := i + batchSize
		if end > len(awards) {
			end = len(awards)
		}

		batch := awards[i:end]

		var err error
		for attempt := 1; attempt <= maxRetries; attempt++ {
			err = k.BatchPublishAwards(topic, batch)
			if err == nil {
				successfulCount += len(batch)
				break
			}

			log.Printf("Batch publish attempt %d failed: %v", attempt, err)

			// Линейная задержка между попытками
			if attempt < maxRetries {
				time.Sleep(time.Duration(attempt) * time.Second)
			}
		}

		if err != nil {
			allErrors = append(allErrors, fmt.Errorf("batch %d-%d failed after %d attempts: %w",
				i, end, maxRetries, err))
		}
	}

	log.Printf("Batch publish completed: %d/%d events successful", successfulCount, len(awards))

	if successfulCount == 0 && len(allErrors) > 0 {
		return fmt.Errorf("all batches failed: %v", allErrors)
	}

	return nil
}
