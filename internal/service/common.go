package service

import (
	"context"
	"time"

	"event-reservation/internal/auth"
	"event-reservation/internal/model"
	"event-reservation/internal/queue"
	"event-reservation/pkg/logger"
	apperrors "event-reservation/pkg/app_errors"

	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

// authorize runs the access predicate and maps a refusal to an error.
// Ownership failures are reported as ErrNotOwner, everything else as
// ErrAccessDenied.
func authorize(p auth.Principal, op auth.Operation, res *auth.Resource) error {
	if !p.IsAuthenticated() {
		return apperrors.ErrUnauthorized
	}
	if auth.CanPerform(p, op, res) {
		return nil
	}
	if res != nil && auth.RequiresOwnership(op) && !p.IsAdmin() {
		return apperrors.ErrNotOwner
	}
	return apperrors.ErrAccessDenied
}

// publishNotice 在交易提交後發送通知；失敗只記錄，不影響請求結果
func publishNotice(ctx context.Context, q queue.NoticeQueue, r *model.Reservation, at time.Time) {
	if q == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	notice := model.NewReservationNotice(r, at)
	if err := q.PublishNotice(ctx, notice); err != nil {
		logger.WithComponent("service").Warn("publish reservation notice failed",
			zap.String("kind", string(notice.Kind)),
			zap.String("reservation_id", r.ID.String()),
			zap.Error(err))
	}
}
