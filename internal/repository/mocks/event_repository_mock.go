package mocks

import (
	"context"

	"event-reservation/internal/model"
	"event-reservation/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type EventRepositoryMock struct {
	mock.Mock
}

func NewEventRepositoryMock() *EventRepositoryMock {
	return &EventRepositoryMock{}
}

func (m *EventRepositoryMock) event(args mock.Arguments) (*model.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	return m.event(m.Called(ctx, event))
}

func (m *EventRepositoryMock) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return m.event(m.Called(ctx, id))
}

func (m *EventRepositoryMock) LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error) {
	return m.event(m.Called(ctx, tx, id))
}

func (m *EventRepositoryMock) List(ctx context.Context, filter repository.EventFilter) ([]*model.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	return m.event(m.Called(ctx, id, params))
}
