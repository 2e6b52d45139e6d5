package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"event-reservation/internal/model"
	"event-reservation/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitMQNoticeQueue publishes notices as persistent JSON messages on a
// durable queue through the default exchange.
type RabbitMQNoticeQueue struct {
	conn      *amqp.Connection
	queueName string

	mu      sync.Mutex
	pubChan *amqp.Channel
}

func NewRabbitMQNoticeQueue(url, queueName string) (NoticeQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}

	if err := declareQueue(ch, queueName); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQNoticeQueue{
		conn:      conn,
		queueName: queueName,
		pubChan:   ch,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}

func (q *RabbitMQNoticeQueue) PublishNotice(ctx context.Context, notice *model.ReservationNotice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(notice.Kind),
		Body:         body,
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.pubChan.PublishWithContext(ctx, "", q.queueName, false, false, pub); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}

func (q *RabbitMQNoticeQueue) SubscribeNotices(ctx context.Context) (<-chan Delivery, error) {
	ch, err := q.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if err := ch.Qos(50, 0, false); err != nil {
		logger.WithComponent("mq").Warn("set QoS failed", zap.Error(err))
	}
	if err := declareQueue(ch, q.queueName); err != nil {
		_ = ch.Close()
		return nil, err
	}

	msgs, err := ch.ConsumeWithContext(ctx, q.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue consume: %w", err)
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		defer func() { _ = ch.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					logger.WithComponent("mq").Warn("rabbitmq deliveries channel closed")
					return
				}
				delivery, ok := newAMQPDelivery(d)
				if !ok {
					continue
				}
				select {
				case out <- delivery:
				case <-ctx.Done():
					_ = d.Nack(false, true)
					return
				}
			}
		}
	}()

	return out, nil
}

func newAMQPDelivery(d amqp.Delivery) (Delivery, bool) {
	var notice model.ReservationNotice
	if err := json.Unmarshal(d.Body, &notice); err != nil {
		logger.WithComponent("mq").Warn("unmarshal notice failed", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
		// 格式錯誤，不重新入列
		_ = d.Nack(false, false)
		return Delivery{}, false
	}
	return Delivery{
		Data: &notice,
		Ack: func() {
			if err := d.Ack(false); err != nil {
				logger.WithComponent("mq").Error("ack failed", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if err := d.Nack(false, requeue); err != nil {
				logger.WithComponent("mq").Error("nack failed", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
			}
		},
	}, true
}

func (q *RabbitMQNoticeQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pubChan != nil {
		_ = q.pubChan.Close()
	}
	return q.conn.Close()
}
