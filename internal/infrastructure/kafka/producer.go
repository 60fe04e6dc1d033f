package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/shopping-list/internal/cfg"
	"github.com/DRSN-tech/shopping-list/internal/usecase"
	"github.com/DRSN-tech/shopping-list/pkg/e"
	"github.com/DRSN-tech/shopping-list/pkg/jitter"
	"github.com/DRSN-tech/shopping-list/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// messageWriter - часть kafka.Writer, которой пользуется Producer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer публикует события списка в топик Kafka.
type Producer struct {
	writer messageWriter
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    1,
		WriteTimeout: cfg.WriteTimeout,
		// Топик создаётся при первой записи, если брокер это разрешает
		AllowAutoTopicCreation: true,
	}

	return newProducer(writer, logger, cfg)
}

func newProducer(writer messageWriter, logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// Notify публикует событие с ключом = ID позиции, чтобы события одной позиции шли в одну партицию.
// Временные ошибки брокера повторяются с экспоненциальной задержкой и jitter.
func (p *Producer) Notify(ctx context.Context, event *usecase.ListChangedEvent) error {
	const op = "Producer.Notify"

	value, err := json.Marshal(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Product.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	attempts := max(p.cfg.MaxRetries, 1)
	for attempt := 0; attempt < attempts; attempt++ {
		err = p.writer.WriteMessages(ctx, msg)
		if err == nil {
			return nil
		}

		if !isRetryableError(err) || attempt == attempts-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(p.cfg.RetryBase, p.cfg.RetryMax, attempt, jitter.DefaultJitter)
		p.logger.Warnf("kafka write failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)

		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return e.Wrap(op, ctx.Err())
		}
	}

	return e.Wrap(op, fmt.Errorf("topic %s: %w", p.cfg.Topic, err))
}

// Close закрывает writer; сигнатура подходит для closer.Func.
func (p *Producer) Close(_ context.Context) error {
	if err := p.writer.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if kerr, ok := err.(kafka.Error); ok {
		return kerr.Temporary()
	}

	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}

	return false
}
