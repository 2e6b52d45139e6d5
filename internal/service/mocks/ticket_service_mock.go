package mocks

import (
	"context"

	"event-reservation/internal/auth"
	"event-reservation/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type TicketServiceMock struct {
	mock.Mock
}

func NewTicketServiceMock() *TicketServiceMock {
	return &TicketServiceMock{}
}

func (m *TicketServiceMock) RenderTicket(ctx context.Context, p auth.Principal, reservationID uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, p, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}
