package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketFields is everything printed on a ticket document.
type TicketFields struct {
	EventTitle       string
	EventDateTime    time.Time
	EventLocation    string
	ParticipantName  string
	ParticipantEmail string
	ReservationID    uuid.UUID
	Status           ReservationStatus
}

// Ticket 產出的票券文件
type Ticket struct {
	Filename    string
	ContentType string
	Content     []byte
}
