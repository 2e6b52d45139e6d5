package service_test

import (
	"testing"
	"time"

	"event-reservation/internal/auth"
	"event-reservation/internal/model"
	"event-reservation/internal/queue"
	"event-reservation/internal/service"
	"event-reservation/internal/ticket"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store        *store
	notices      queue.NoticeQueue
	tokens       *auth.TokenManager
	auth         service.AuthService
	events       service.EventService
	reservations service.ReservationService
	tickets      service.TicketService

	admin auth.Principal
	alice auth.Principal
	bob   auth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := newStore()
	notices := queue.NewMemoryNoticeQueue(64)
	tokens := auth.NewTokenManager("test-secret-0123456789", time.Hour)

	f := &fixture{
		store:        s,
		notices:      notices,
		tokens:       tokens,
		auth:         service.NewAuthService(fakeUserRepo{s}, tokens, 4),
		events:       service.NewEventService(fakeEventRepo{s}),
		reservations: service.NewReservationService(fakeTransactor{s}, fakeEventRepo{s}, fakeReservationRepo{s}, notices),
		tickets:      service.NewTicketService(fakeReservationRepo{s}, ticket.NewPDFRenderer()),
	}
	f.admin = f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	f.alice = f.addUser("Alice", "alice@example.com", model.RoleParticipant)
	f.bob = f.addUser("Bob", "bob@example.com", model.RoleParticipant)
	return f
}

func (f *fixture) addUser(name, email string, role model.Role) auth.Principal {
	u := &model.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: "x", Role: role}
	f.store.users[u.ID] = u
	return auth.PrincipalFor(u)
}

func (f *fixture) participant(t *testing.T) auth.Principal {
	t.Helper()
	id := uuid.NewString()
	return f.addUser("User "+id[:8], id+"@example.com", model.RoleParticipant)
}

// publishedEvent 建立並發布一個未來的活動
func (f *fixture) publishedEvent(t *testing.T, capacity int) *model.EventView {
	t.Helper()
	ctx := t.Context()

	draft, err := f.events.CreateDraft(ctx, f.admin, model.CreateEventParams{
		Title:       "Concert",
		Description: "Live music",
		DateTime:    time.Now().Add(48 * time.Hour),
		Location:    "Paris",
		Capacity:    capacity,
	})
	require.NoError(t, err)

	published := model.EventStatusPublished
	view, err := f.events.Update(ctx, f.admin, draft.ID, model.UpdateEventParams{Status: &published})
	require.NoError(t, err)
	return view
}

func (f *fixture) remaining(t *testing.T, eventID uuid.UUID) int {
	t.Helper()
	view, err := f.events.GetAny(t.Context(), f.admin, eventID)
	require.NoError(t, err)
	return view.RemainingPlaces
}
