package queue

import (
	"context"
	"errors"

	"event-reservation/internal/model"
	"event-reservation/pkg/logger"

	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("notice queue is full")

type Delivery struct {
	Data *model.ReservationNotice
	Ack  func()
	Nack func(requeue bool)
}

type NoticeQueue interface {
	// 發送預約通知到隊列
	PublishNotice(ctx context.Context, notice *model.ReservationNotice) error
	// 訂閱通知隊列，ctx 結束時 channel 會被關閉
	SubscribeNotices(ctx context.Context) (<-chan Delivery, error)
	Close() error
}

type MemoryNoticeQueue struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.ReservationNotice
}

func NewMemoryNoticeQueue(bufferSize int) NoticeQueue {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &MemoryNoticeQueue{
		ch: make(chan *model.ReservationNotice, bufferSize),
	}
}

// PublishNotice never blocks the caller: a full buffer is reported as ErrQueueFull.
func (q *MemoryNoticeQueue) PublishNotice(ctx context.Context, notice *model.ReservationNotice) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.ch <- notice:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryNoticeQueue) SubscribeNotices(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case notice := <-q.ch:
				d := Delivery{
					Data: notice,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if !requeue {
							return
						}
						select {
						case q.ch <- notice:
						default:
							logger.WithComponent("mq").Warn("drop notice on requeue, buffer full",
								zap.String("reservation_id", notice.ReservationID.String()))
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (q *MemoryNoticeQueue) Close() error {
	return nil
}
