package mocks

import (
	"context"

	"event-reservation/internal/auth"
	"event-reservation/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ReservationServiceMock struct {
	mock.Mock
}

func NewReservationServiceMock() *ReservationServiceMock {
	return &ReservationServiceMock{}
}

func (m *ReservationServiceMock) reservation(args mock.Arguments) (*model.Reservation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *ReservationServiceMock) views(args mock.Arguments) ([]*model.ReservationView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ReservationView), args.Error(1)
}

func (m *ReservationServiceMock) Create(ctx context.Context, p auth.Principal, eventID uuid.UUID) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, p, eventID))
}

func (m *ReservationServiceMock) Confirm(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, p, id))
}

func (m *ReservationServiceMock) Refuse(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, p, id))
}

func (m *ReservationServiceMock) CancelByAdmin(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, p, id))
}

func (m *ReservationServiceMock) CancelByUser(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, p, id))
}

func (m *ReservationServiceMock) ListMine(ctx context.Context, p auth.Principal) ([]*model.ReservationView, error) {
	return m.views(m.Called(ctx, p))
}

func (m *ReservationServiceMock) ListAll(ctx context.Context, p auth.Principal) ([]*model.ReservationView, error) {
	return m.views(m.Called(ctx, p))
}

func (m *ReservationServiceMock) ListByEvent(ctx context.Context, p auth.Principal, eventID uuid.UUID) ([]*model.ReservationView, error) {
	return m.views(m.Called(ctx, p, eventID))
}

func (m *ReservationServiceMock) Stats(ctx context.Context, p auth.Principal) (model.ReservationStats, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.ReservationStats), args.Error(1)
}
