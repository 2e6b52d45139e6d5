package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus 預約狀態類型
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusRefused   ReservationStatus = "REFUSED"
	ReservationStatusCanceled  ReservationStatus = "CANCELED"
)

// ActiveReservationStatuses are the statuses that hold a seat.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
}

// AllReservationStatuses in display order.
var AllReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusRefused,
	ReservationStatusCanceled,
}

// IsValid 驗證狀態是否有效
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusRefused, ReservationStatusCanceled:
		return true
	}
	return false
}

// IsActive 是否佔用名額
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// IsTerminal 終止狀態不可再轉換
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusRefused || s == ReservationStatusCanceled
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	transitions := map[ReservationStatus][]ReservationStatus{
		ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusRefused, ReservationStatusCanceled},
		ReservationStatusConfirmed: {ReservationStatusCanceled},
		ReservationStatusRefused:   {},
		ReservationStatusCanceled:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// SourcesFor lists the statuses from which target is reachable.
func SourcesFor(target ReservationStatus) []ReservationStatus {
	var from []ReservationStatus
	for _, s := range AllReservationStatuses {
		if s.CanTransitionTo(target) {
			from = append(from, s)
		}
	}
	return from
}

// Reservation 預約模型
type Reservation struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	UserID    uuid.UUID         `json:"user_id" db:"user_id"`
	EventID   uuid.UUID         `json:"event_id" db:"event_id"`
	Status    ReservationStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// IsOwnedBy 檢查預約擁有者
func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// ReservationView joins the reservation with user and event summaries.
type ReservationView struct {
	Reservation
	User  *UserSummary  `json:"user,omitempty"`
	Event *EventSummary `json:"event,omitempty"`
}

// CreateReservationRequest 建立預約請求
type CreateReservationRequest struct {
	EventID string `json:"event_id" binding:"required,uuid"`
}

// ReservationResponse 建立預約後回傳 id 與狀態
type ReservationResponse struct {
	ID     uuid.UUID         `json:"id"`
	Status ReservationStatus `json:"status"`
}

// ReservationStats 管理端預約統計
type ReservationStats struct {
	StatusCounts map[ReservationStatus]int `json:"status_counts"`
	Total        int                       `json:"total"`
}

func NewReservationStats(counts map[ReservationStatus]int) ReservationStats {
	stats := ReservationStats{StatusCounts: make(map[ReservationStatus]int, len(AllReservationStatuses))}
	for _, s := range AllReservationStatuses {
		stats.StatusCounts[s] = counts[s]
		stats.Total += counts[s]
	}
	return stats
}
