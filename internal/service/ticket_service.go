package service

import (
	"context"

	"event-reservation/internal/auth"
	"event-reservation/internal/model"
	"event-reservation/internal/repository"
	"event-reservation/internal/ticket"
	apperrors "event-reservation/pkg/app_errors"

	"github.com/google/uuid"
)

type TicketService interface {
	// 只有擁有者或管理員能取得，且預約必須為 CONFIRMED
	RenderTicket(ctx context.Context, p auth.Principal, reservationID uuid.UUID) (*model.Ticket, error)
}

type TicketServiceImpl struct {
	reservations repository.ReservationRepository
	renderer     ticket.Renderer
}

func NewTicketService(reservations repository.ReservationRepository, renderer ticket.Renderer) TicketService {
	return &TicketServiceImpl{reservations: reservations, renderer: renderer}
}

func (s *TicketServiceImpl) RenderTicket(ctx context.Context, p auth.Principal, reservationID uuid.UUID) (*model.Ticket, error) {
	if !p.IsAuthenticated() {
		return nil, apperrors.ErrUnauthorized
	}

	view, err := s.reservations.FindViewByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !auth.CanPerform(p, auth.OpReservationTicket, auth.OwnedBy(view.UserID)) {
		return nil, apperrors.ErrAccessDenied
	}
	if view.Status != model.ReservationStatusConfirmed {
		return nil, apperrors.ErrTicketNotAvailable
	}

	return s.renderer.Render(ticket.FieldsFromView(view))
}
