package worker

import (
	"context"

	"event-reservation/internal/model"
	"event-reservation/internal/queue"
	"event-reservation/pkg/logger"

	"go.uber.org/zap"
)

// Notifier 把預約通知送到外部（信件、推播…），目前預設只寫 log
type Notifier interface {
	Notify(ctx context.Context, notice *model.ReservationNotice) error
}

type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.WithComponent("notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, notice *model.ReservationNotice) error {
	n.log.Info("reservation notice",
		zap.String("kind", string(notice.Kind)),
		zap.String("reservation_id", notice.ReservationID.String()),
		zap.String("event_id", notice.EventID.String()),
		zap.String("user_id", notice.UserID.String()),
		zap.String("status", string(notice.Status)),
		zap.Time("occurred_at", notice.OccurredAt))
	return nil
}

type NoticeWorker interface {
	// 訂閱通知隊列，在背景處理直到 ctx 結束
	Start(ctx context.Context) error
	// Done 在處理迴圈結束後關閉
	Done() <-chan struct{}
}

type NoticeWorkerImpl struct {
	queue    queue.NoticeQueue
	notifier Notifier
	done     chan struct{}
}

func NewNoticeWorker(queue queue.NoticeQueue, notifier Notifier) NoticeWorker {
	return &NoticeWorkerImpl{
		queue:    queue,
		notifier: notifier,
		done:     make(chan struct{}),
	}
}

func (w *NoticeWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeNotices(ctx)
	if err != nil {
		close(w.done)
		return err
	}

	log := logger.WithComponent("worker")
	go func() {
		defer close(w.done)
		for msg := range msgs {
			if err := w.notifier.Notify(ctx, msg.Data); err != nil {
				// 交給 queue 重試
				log.Warn("notify failed, requeue",
					zap.String("reservation_id", msg.Data.ReservationID.String()),
					zap.Error(err))
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
		log.Info("notice worker stopped")
	}()
	return nil
}

func (w *NoticeWorkerImpl) Done() <-chan struct{} {
	return w.done
}
