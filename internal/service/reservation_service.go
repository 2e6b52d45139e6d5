package service

import (
	"context"
	"errors"
	"time"

	"event-reservation/internal/auth"
	"event-reservation/internal/model"
	"event-reservation/internal/queue"
	"event-reservation/internal/repository"
	"event-reservation/pkg/logger"
	apperrors "event-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationService interface {
	// 建立 PENDING 預約：活動須為 PUBLISHED、無進行中的預約、尚有名額
	Create(ctx context.Context, p auth.Principal, eventID uuid.UUID) (*model.Reservation, error)
	// 確認前再次檢查名額，確保 CONFIRMED 不超過容量
	Confirm(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error)
	Refuse(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error)
	CancelByAdmin(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error)
	CancelByUser(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error)
	ListMine(ctx context.Context, p auth.Principal) ([]*model.ReservationView, error)
	ListAll(ctx context.Context, p auth.Principal) ([]*model.ReservationView, error)
	ListByEvent(ctx context.Context, p auth.Principal, eventID uuid.UUID) ([]*model.ReservationView, error)
	Stats(ctx context.Context, p auth.Principal) (model.ReservationStats, error)
}

type ReservationServiceImpl struct {
	tx           repository.Transactor
	events       repository.EventRepository
	reservations repository.ReservationRepository
	notices      queue.NoticeQueue
	now          func() time.Time
}

func NewReservationService(
	tx repository.Transactor,
	events repository.EventRepository,
	reservations repository.ReservationRepository,
	notices queue.NoticeQueue,
) ReservationService {
	return &ReservationServiceImpl{
		tx:           tx,
		events:       events,
		reservations: reservations,
		notices:      notices,
		now:          time.Now,
	}
}

func (s *ReservationServiceImpl) Create(ctx context.Context, p auth.Principal, eventID uuid.UUID) (*model.Reservation, error) {
	if err := authorize(p, auth.OpReservationCreate, nil); err != nil {
		return nil, err
	}

	var created *model.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// 1. 鎖住活動列，同一活動的建立與確認會排隊執行
		event, err := s.events.LockByID(ctx, tx, eventID)
		if err != nil {
			return err
		}
		// 2. 只接受已發布的活動
		if !event.IsBookable() {
			return apperrors.ErrEventNotBookable
		}
		// 3. 同一使用者同一活動只能有一筆進行中的預約
		exists, err := s.reservations.HasActive(ctx, tx, p.UserID, eventID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrActiveReservationExists
		}
		// 4. 第一道名額檢查
		active, err := s.reservations.CountActiveByEvent(ctx, tx, eventID, uuid.Nil)
		if err != nil {
			return err
		}
		if model.RemainingPlaces(event.Capacity, active) < 1 {
			return apperrors.ErrEventFullyBooked
		}

		created, err = s.reservations.Create(ctx, tx, &model.Reservation{
			ID:      uuid.New(),
			UserID:  p.UserID,
			EventID: eventID,
			Status:  model.ReservationStatusPending,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithComponent("service").Info("reservation created",
		zap.String("reservation_id", created.ID.String()),
		zap.String("event_id", eventID.String()),
		zap.String("user_id", p.UserID.String()))
	publishNotice(ctx, s.notices, created, s.now())
	return created, nil
}

func (s *ReservationServiceImpl) Confirm(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error) {
	if err := authorize(p, auth.OpReservationConfirm, nil); err != nil {
		return nil, err
	}

	var confirmed *model.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		current, err := s.reservations.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Status != model.ReservationStatusPending {
			return apperrors.ErrOnlyPendingConfirm
		}

		// 第二道名額檢查：鎖住活動後重新計算，不含這筆預約本身
		event, err := s.events.LockByID(ctx, tx, current.EventID)
		if err != nil {
			return err
		}
		others, err := s.reservations.CountActiveByEvent(ctx, tx, event.ID, current.ID)
		if err != nil {
			return err
		}
		if model.RemainingPlaces(event.Capacity, others) < 1 {
			return apperrors.ErrEventCapacityReached
		}

		confirmed, err = s.reservations.UpdateStatus(ctx, tx, id,
			[]model.ReservationStatus{model.ReservationStatusPending}, model.ReservationStatusConfirmed)
		if errors.Is(err, repository.ErrStatusChanged) {
			return apperrors.ErrOnlyPendingConfirm
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(confirmed, model.ReservationStatusPending, p)
	publishNotice(ctx, s.notices, confirmed, s.now())
	return confirmed, nil
}

func (s *ReservationServiceImpl) Refuse(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error) {
	if err := authorize(p, auth.OpReservationRefuse, nil); err != nil {
		return nil, err
	}
	return s.transition(ctx, p, id, model.ReservationStatusRefused, apperrors.ErrOnlyPendingRefuse, nil)
}

func (s *ReservationServiceImpl) CancelByAdmin(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error) {
	if err := authorize(p, auth.OpReservationAdminCancel, nil); err != nil {
		return nil, err
	}
	return s.transition(ctx, p, id, model.ReservationStatusCanceled, apperrors.ErrReservationClosed, nil)
}

func (s *ReservationServiceImpl) CancelByUser(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error) {
	if !p.IsAuthenticated() {
		return nil, apperrors.ErrUnauthorized
	}
	return s.transition(ctx, p, id, model.ReservationStatusCanceled, apperrors.ErrReservationClosed, func(r *model.Reservation) error {
		return authorize(p, auth.OpReservationCancelOwn, auth.OwnedBy(r.UserID))
	})
}

// transition 載入預約、檢查權限與狀態，再以條件式更新切換狀態
func (s *ReservationServiceImpl) transition(
	ctx context.Context,
	p auth.Principal,
	id uuid.UUID,
	to model.ReservationStatus,
	invalid error,
	check func(r *model.Reservation) error,
) (*model.Reservation, error) {
	current, err := s.reservations.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if check != nil {
		if err := check(current); err != nil {
			return nil, err
		}
	}
	if !current.Status.CanTransitionTo(to) {
		return nil, invalid
	}

	updated, err := s.reservations.UpdateStatus(ctx, nil, id, model.SourcesFor(to), to)
	if errors.Is(err, repository.ErrStatusChanged) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}

	s.logTransition(updated, current.Status, p)
	publishNotice(ctx, s.notices, updated, s.now())
	return updated, nil
}

func (s *ReservationServiceImpl) logTransition(r *model.Reservation, from model.ReservationStatus, p auth.Principal) {
	logger.WithComponent("service").Info("reservation status changed",
		zap.String("reservation_id", r.ID.String()),
		zap.String("event_id", r.EventID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(r.Status)),
		zap.String("actor", p.UserID.String()))
}

func (s *ReservationServiceImpl) ListMine(ctx context.Context, p auth.Principal) ([]*model.ReservationView, error) {
	if err := authorize(p, auth.OpReservationListMine, nil); err != nil {
		return nil, err
	}
	return s.reservations.List(ctx, repository.ReservationFilter{UserID: &p.UserID})
}

func (s *ReservationServiceImpl) ListAll(ctx context.Context, p auth.Principal) ([]*model.ReservationView, error) {
	if err := authorize(p, auth.OpReservationListAll, nil); err != nil {
		return nil, err
	}
	return s.reservations.List(ctx, repository.ReservationFilter{})
}

func (s *ReservationServiceImpl) ListByEvent(ctx context.Context, p auth.Principal, eventID uuid.UUID) ([]*model.ReservationView, error) {
	if err := authorize(p, auth.OpReservationListByEvent, nil); err != nil {
		return nil, err
	}
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.reservations.List(ctx, repository.ReservationFilter{EventID: &eventID})
}

func (s *ReservationServiceImpl) Stats(ctx context.Context, p auth.Principal) (model.ReservationStats, error) {
	if err := authorize(p, auth.OpReservationStats, nil); err != nil {
		return model.ReservationStats{}, err
	}
	counts, err := s.reservations.CountByStatus(ctx)
	if err != nil {
		return model.ReservationStats{}, err
	}
	return model.NewReservationStats(counts), nil
}
