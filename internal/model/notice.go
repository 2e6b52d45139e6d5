package model

import (
	"time"

	"github.com/google/uuid"
)

// NoticeKind 預約生命週期事件類型
type NoticeKind string

const (
	NoticeReservationCreated   NoticeKind = "reservation.created"
	NoticeReservationConfirmed NoticeKind = "reservation.confirmed"
	NoticeReservationRefused   NoticeKind = "reservation.refused"
	NoticeReservationCanceled  NoticeKind = "reservation.canceled"
)

// NoticeKindFor maps a reservation status reached by a transition to its notice.
func NoticeKindFor(status ReservationStatus) NoticeKind {
	switch status {
	case ReservationStatusConfirmed:
		return NoticeReservationConfirmed
	case ReservationStatusRefused:
		return NoticeReservationRefused
	case ReservationStatusCanceled:
		return NoticeReservationCanceled
	default:
		return NoticeReservationCreated
	}
}

// ReservationNotice is published after a reservation change is committed.
type ReservationNotice struct {
	Kind          NoticeKind        `json:"kind"`
	ReservationID uuid.UUID         `json:"reservation_id"`
	EventID       uuid.UUID         `json:"event_id"`
	UserID        uuid.UUID         `json:"user_id"`
	Status        ReservationStatus `json:"status"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

func NewReservationNotice(r *Reservation, at time.Time) *ReservationNotice {
	return &ReservationNotice{
		Kind:          NoticeKindFor(r.Status),
		ReservationID: r.ID,
		EventID:       r.EventID,
		UserID:        r.UserID,
		Status:        r.Status,
		OccurredAt:    at.UTC(),
	}
}
