package service

import (
	"context"
	"strings"
	"time"

	"event-reservation/internal/auth"
	"event-reservation/internal/model"
	"event-reservation/internal/repository"
	"event-reservation/pkg/logger"
	apperrors "event-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	// 建立草稿活動，不檢查容量
	CreateDraft(ctx context.Context, p auth.Principal, params model.CreateEventParams) (*model.EventView, error)
	// 公開列表：只有 PUBLISHED，依時間升冪
	ListPublished(ctx context.Context) ([]*model.EventView, error)
	GetPublished(ctx context.Context, id uuid.UUID) (*model.EventView, error)
	ListAll(ctx context.Context, p auth.Principal) ([]*model.EventView, error)
	GetAny(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.EventView, error)
	Update(ctx context.Context, p auth.Principal, id uuid.UUID, params model.UpdateEventParams) (*model.EventView, error)
	// 取消活動，已取消時直接回傳
	Cancel(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.EventView, error)
	Stats(ctx context.Context, p auth.Principal) (model.EventStats, error)
}

type EventServiceImpl struct {
	repo repository.EventRepository
	now  func() time.Time
}

func NewEventService(repo repository.EventRepository) EventService {
	return &EventServiceImpl{repo: repo, now: time.Now}
}

func publicView(e *model.Event) *model.EventView {
	return model.NewEventView(e, nil)
}

func adminView(e *model.Event) *model.EventView {
	return model.NewEventView(e, e.Creator)
}

func (s *EventServiceImpl) CreateDraft(ctx context.Context, p auth.Principal, params model.CreateEventParams) (*model.EventView, error) {
	if err := authorize(p, auth.OpEventCreate, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Title) == "" || params.Capacity < 1 || params.DateTime.IsZero() {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.repo.Create(ctx, &model.Event{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		DateTime:    params.DateTime.UTC(),
		Location:    params.Location,
		Capacity:    params.Capacity,
		Status:      model.EventStatusDraft,
		CreatedBy:   p.UserID,
	})
	if err != nil {
		return nil, err
	}

	logger.WithComponent("service").Info("event created",
		zap.String("event_id", event.ID.String()),
		zap.String("created_by", p.UserID.String()))
	return adminView(event), nil
}

func (s *EventServiceImpl) ListPublished(ctx context.Context) ([]*model.EventView, error) {
	status := model.EventStatusPublished
	events, err := s.repo.List(ctx, repository.EventFilter{Status: &status})
	if err != nil {
		return nil, err
	}

	views := make([]*model.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, publicView(e))
	}
	return views, nil
}

func (s *EventServiceImpl) GetPublished(ctx context.Context, id uuid.UUID) (*model.EventView, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventStatusPublished {
		return nil, apperrors.ErrEventNotAvailable
	}
	return publicView(event), nil
}

func (s *EventServiceImpl) ListAll(ctx context.Context, p auth.Principal) ([]*model.EventView, error) {
	if err := authorize(p, auth.OpEventListAll, nil); err != nil {
		return nil, err
	}

	events, err := s.repo.List(ctx, repository.EventFilter{})
	if err != nil {
		return nil, err
	}

	views := make([]*model.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, adminView(e))
	}
	return views, nil
}

func (s *EventServiceImpl) GetAny(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.EventView, error) {
	if err := authorize(p, auth.OpEventGetAny, nil); err != nil {
		return nil, err
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return adminView(event), nil
}

// checkEventTransition 只封鎖離開 CANCELED 的狀態變更
func checkEventTransition(from model.EventStatus, to model.EventStatus) error {
	if !to.IsValid() {
		return apperrors.ErrInvalidInput
	}
	if from.CanTransitionTo(to) {
		return nil
	}
	if to == model.EventStatusPublished {
		return apperrors.ErrCannotPublishCanceled
	}
	return apperrors.ErrEventCanceled
}

func (s *EventServiceImpl) Update(ctx context.Context, p auth.Principal, id uuid.UUID, params model.UpdateEventParams) (*model.EventView, error) {
	if err := authorize(p, auth.OpEventUpdate, nil); err != nil {
		return nil, err
	}
	if params.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}
	if params.Capacity != nil && *params.Capacity < 1 {
		return nil, apperrors.ErrInvalidInput
	}
	if params.Title != nil && strings.TrimSpace(*params.Title) == "" {
		return nil, apperrors.ErrInvalidInput
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Status != nil {
		if err := checkEventTransition(current.Status, *params.Status); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	if updated.Status != current.Status {
		logger.WithComponent("service").Info("event status changed",
			zap.String("event_id", id.String()),
			zap.String("from", string(current.Status)),
			zap.String("to", string(updated.Status)))
	}
	return adminView(updated), nil
}

func (s *EventServiceImpl) Cancel(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.EventView, error) {
	if err := authorize(p, auth.OpEventCancel, nil); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == model.EventStatusCanceled {
		return adminView(current), nil
	}

	canceled := model.EventStatusCanceled
	updated, err := s.repo.Update(ctx, id, model.UpdateEventParams{Status: &canceled})
	if err != nil {
		return nil, err
	}

	logger.WithComponent("service").Info("event canceled",
		zap.String("event_id", id.String()),
		zap.String("from", string(current.Status)),
		zap.Int("active_reservations", updated.ActiveReservations))
	return adminView(updated), nil
}

func (s *EventServiceImpl) Stats(ctx context.Context, p auth.Principal) (model.EventStats, error) {
	if err := authorize(p, auth.OpEventStats, nil); err != nil {
		return model.EventStats{}, err
	}

	now := s.now()
	status := model.EventStatusPublished
	events, err := s.repo.List(ctx, repository.EventFilter{Status: &status, After: &now})
	if err != nil {
		return model.EventStats{}, err
	}
	return model.SummarizeUpcoming(events, now), nil
}
