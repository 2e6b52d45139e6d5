package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"event-reservation/internal/model"
	"event-reservation/internal/repository"
	apperrors "event-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// store is an in-memory stand-in for the three tables. WithinTx holds txMu
// for the whole callback, which plays the role of the event row lock.
type store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users        map[uuid.UUID]*model.User
	events       map[uuid.UUID]*model.Event
	reservations map[uuid.UUID]*model.Reservation
	clock        time.Time

	failNext error
}

func newStore() *store {
	return &store{
		users:        make(map[uuid.UUID]*model.User),
		events:       make(map[uuid.UUID]*model.Event),
		reservations: make(map[uuid.UUID]*model.Reservation),
		clock:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so ordering by created_at is stable.
func (s *store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *store) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *store) activeCount(eventID, exclude uuid.UUID) int {
	n := 0
	for _, r := range s.reservations {
		if r.EventID == eventID && r.ID != exclude && r.Status.IsActive() {
			n++
		}
	}
	return n
}

func (s *store) eventCopy(e *model.Event) *model.Event {
	cp := *e
	cp.ActiveReservations = s.activeCount(e.ID, uuid.Nil)
	if u, ok := s.users[e.CreatedBy]; ok {
		cp.Creator = u.Summary()
	}
	return &cp
}

func (s *store) view(r *model.Reservation) *model.ReservationView {
	v := &model.ReservationView{Reservation: *r}
	if u, ok := s.users[r.UserID]; ok {
		v.User = u.Summary()
	}
	if e, ok := s.events[r.EventID]; ok {
		v.Event = e.Summary()
	}
	return v
}

type fakeTransactor struct{ s *store }

func (f fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	f.s.txMu.Lock()
	defer f.s.txMu.Unlock()

	f.s.mu.Lock()
	snapshot := make(map[uuid.UUID]model.Reservation, len(f.s.reservations))
	for id, r := range f.s.reservations {
		snapshot[id] = *r
	}
	f.s.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		// rollback
		f.s.mu.Lock()
		f.s.reservations = make(map[uuid.UUID]*model.Reservation, len(snapshot))
		for id, r := range snapshot {
			f.s.reservations[id] = &r
		}
		f.s.mu.Unlock()
		return err
	}
	return nil
}

type fakeUserRepo struct{ s *store }

func (f fakeUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.takeFailure(); err != nil {
		return nil, err
	}
	for _, u := range f.s.users {
		if u.Email == user.Email {
			return nil, apperrors.ErrEmailAlreadyRegistered
		}
	}
	cp := *user
	cp.CreatedAt = f.s.tick()
	cp.UpdatedAt = cp.CreatedAt
	f.s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeEventRepo struct{ s *store }

func (f fakeEventRepo) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.takeFailure(); err != nil {
		return nil, err
	}
	cp := *event
	cp.CreatedAt = f.s.tick()
	cp.UpdatedAt = cp.CreatedAt
	f.s.events[cp.ID] = &cp
	return f.s.eventCopy(&cp), nil
}

func (f fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.takeFailure(); err != nil {
		return nil, err
	}
	e, ok := f.s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return f.s.eventCopy(e), nil
}

func (f fakeEventRepo) LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	e, ok := f.s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f fakeEventRepo) List(ctx context.Context, filter repository.EventFilter) ([]*model.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.takeFailure(); err != nil {
		return nil, err
	}
	out := make([]*model.Event, 0)
	for _, e := range f.s.events {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.After != nil && !e.DateTime.After(*filter.After) {
			continue
		}
		out = append(out, f.s.eventCopy(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func (f fakeEventRepo) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if params.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}
	e, ok := f.s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	// 與 SQL 的 status <> 'CANCELED' 條件一致
	if params.Status != nil && *params.Status != model.EventStatusCanceled && e.Status == model.EventStatusCanceled {
		if *params.Status == model.EventStatusPublished {
			return nil, apperrors.ErrCannotPublishCanceled
		}
		return nil, apperrors.ErrEventCanceled
	}
	if params.Title != nil {
		e.Title = *params.Title
	}
	if params.Description != nil {
		e.Description = *params.Description
	}
	if params.DateTime != nil {
		e.DateTime = *params.DateTime
	}
	if params.Location != nil {
		e.Location = *params.Location
	}
	if params.Capacity != nil {
		e.Capacity = *params.Capacity
	}
	if params.Status != nil {
		e.Status = *params.Status
	}
	e.UpdatedAt = f.s.tick()
	return f.s.eventCopy(e), nil
}

type fakeReservationRepo struct{ s *store }

func (f fakeReservationRepo) Create(ctx context.Context, tx pgx.Tx, r *model.Reservation) (*model.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.takeFailure(); err != nil {
		return nil, err
	}
	for _, existing := range f.s.reservations {
		if existing.UserID == r.UserID && existing.EventID == r.EventID && existing.Status.IsActive() {
			return nil, apperrors.ErrActiveReservationExists
		}
	}
	cp := *r
	cp.CreatedAt = f.s.tick()
	cp.UpdatedAt = cp.CreatedAt
	f.s.reservations[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f fakeReservationRepo) FindByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.reservations[id]
	if !ok {
		return nil, apperrors.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (f fakeReservationRepo) FindViewByID(ctx context.Context, id uuid.UUID) (*model.ReservationView, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.reservations[id]
	if !ok {
		return nil, apperrors.ErrReservationNotFound
	}
	return f.s.view(r), nil
}

func (f fakeReservationRepo) HasActive(ctx context.Context, tx pgx.Tx, userID, eventID uuid.UUID) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, r := range f.s.reservations {
		if r.UserID == userID && r.EventID == eventID && r.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeReservationRepo) CountActiveByEvent(ctx context.Context, tx pgx.Tx, eventID, excludeID uuid.UUID) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.activeCount(eventID, excludeID), nil
}

func (f fakeReservationRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from []model.ReservationStatus, to model.ReservationStatus) (*model.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.reservations[id]
	if !ok {
		return nil, repository.ErrStatusChanged
	}
	matched := false
	for _, s := range from {
		if r.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return nil, repository.ErrStatusChanged
	}
	r.Status = to
	r.UpdatedAt = f.s.tick()
	cp := *r
	return &cp, nil
}

func (f fakeReservationRepo) List(ctx context.Context, filter repository.ReservationFilter) ([]*model.ReservationView, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]*model.ReservationView, 0)
	for _, r := range f.s.reservations {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.EventID != nil && r.EventID != *filter.EventID {
			continue
		}
		out = append(out, f.s.view(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeReservationRepo) CountByStatus(ctx context.Context) (map[model.ReservationStatus]int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	counts := make(map[model.ReservationStatus]int)
	for _, r := range f.s.reservations {
		counts[r.Status]++
	}
	return counts, nil
}

var (
	_ repository.Transactor            = fakeTransactor{}
	_ repository.UserRepository        = fakeUserRepo{}
	_ repository.EventRepository       = fakeEventRepo{}
	_ repository.ReservationRepository = fakeReservationRepo{}
)
