package mocks

import (
	"context"

	"event-reservation/internal/auth"
	"event-reservation/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) CreateDraft(ctx context.Context, p auth.Principal, params model.CreateEventParams) (*model.EventView, error) {
	args := m.Called(ctx, p, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventView), args.Error(1)
}

func (m *EventServiceMock) ListPublished(ctx context.Context) ([]*model.EventView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EventView), args.Error(1)
}

func (m *EventServiceMock) GetPublished(ctx context.Context, id uuid.UUID) (*model.EventView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventView), args.Error(1)
}

func (m *EventServiceMock) ListAll(ctx context.Context, p auth.Principal) ([]*model.EventView, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EventView), args.Error(1)
}

func (m *EventServiceMock) GetAny(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.EventView, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventView), args.Error(1)
}

func (m *EventServiceMock) Update(ctx context.Context, p auth.Principal, id uuid.UUID, params model.UpdateEventParams) (*model.EventView, error) {
	args := m.Called(ctx, p, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventView), args.Error(1)
}

func (m *EventServiceMock) Cancel(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.EventView, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventView), args.Error(1)
}

func (m *EventServiceMock) Stats(ctx context.Context, p auth.Principal) (model.EventStats, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.EventStats), args.Error(1)
}
