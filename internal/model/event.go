package model

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus 活動狀態類型
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusCanceled  EventStatus = "CANCELED"
)

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an update may move the event to target.
// CANCELED has no way out; every other edge is open.
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	if !target.IsValid() {
		return false
	}
	if s == EventStatusCanceled {
		return target == EventStatusCanceled
	}
	return true
}

// Event 活動模型
type Event struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	DateTime    time.Time   `json:"date_time" db:"date_time"`
	Location    string      `json:"location" db:"location"`
	Capacity    int         `json:"capacity" db:"capacity"`
	Status      EventStatus `json:"status" db:"status"`
	CreatedBy   uuid.UUID   `json:"created_by" db:"created_by"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`

	// ActiveReservations is loaded alongside the event on read paths and is
	// never persisted.
	ActiveReservations int `json:"-" db:"-"`
	// Creator is populated by joined reads.
	Creator *UserSummary `json:"-" db:"-"`
}

// IsBookable 檢查活動是否可預約
func (e *Event) IsBookable() bool {
	return e.Status == EventStatusPublished
}

// RemainingPlaces derives the free seats from the loaded active count.
func (e *Event) RemainingPlaces() int {
	return RemainingPlaces(e.Capacity, e.ActiveReservations)
}

// Summary is the event projection embedded in reservation read models.
func (e *Event) Summary() *EventSummary {
	return &EventSummary{
		ID:       e.ID,
		Title:    e.Title,
		DateTime: e.DateTime,
		Location: e.Location,
		Status:   e.Status,
	}
}

type EventSummary struct {
	ID       uuid.UUID   `json:"id"`
	Title    string      `json:"title"`
	DateTime time.Time   `json:"date_time"`
	Location string      `json:"location"`
	Status   EventStatus `json:"status"`
}

// CreateEventParams 建立活動欄位
type CreateEventParams struct {
	Title       string
	Description string
	DateTime    time.Time
	Location    string
	Capacity    int
}

// UpdateEventParams holds a partial update; nil fields are left untouched.
type UpdateEventParams struct {
	Title       *string
	Description *string
	DateTime    *time.Time
	Location    *string
	Capacity    *int
	Status      *EventStatus
}

func (p UpdateEventParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DateTime == nil &&
		p.Location == nil && p.Capacity == nil && p.Status == nil
}

// EventView 回傳給客戶端的活動，附帶剩餘名額
type EventView struct {
	Event
	RemainingPlaces int          `json:"remaining_places"`
	Creator         *UserSummary `json:"creator,omitempty"`
}

func NewEventView(e *Event, creator *UserSummary) *EventView {
	return &EventView{
		Event:           *e,
		RemainingPlaces: e.RemainingPlaces(),
		Creator:         creator,
	}
}

// EventStats 管理端活動統計
type EventStats struct {
	UpcomingCount int `json:"upcoming_count"`
	FillRate      int `json:"fill_rate"`
}
