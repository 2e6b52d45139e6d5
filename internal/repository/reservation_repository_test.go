package repository_test

import (
	"context"
	"testing"
	"time"

	"event-reservation/internal/model"
	"event-reservation/internal/repository"
	apperrors "event-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationRepository_Create(t *testing.T) {
	pool := getTestDB(t)
	repo := repository.NewReservationRepository(pool)
	ctx := context.Background()

	adminID := createTestUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	userID := createTestUser(t, "Alice", "alice@example.com", model.RoleParticipant)
	eventID := createTestEvent(t, adminID, "Concert", 10, model.EventStatusPublished, time.Now().Add(time.Hour))

	t.Run("Success", func(t *testing.T) {
		created, err := repo.Create(ctx, nil, &model.Reservation{
			ID:      uuid.New(),
			UserID:  userID,
			EventID: eventID,
			Status:  model.ReservationStatusPending,
		})
		require.NoError(t, err)
		assert.Equal(t, model.ReservationStatusPending, created.Status)
		assert.NotZero(t, created.CreatedAt)
	})

	t.Run("SecondActiveRejected", func(t *testing.T) {
		_, err := repo.Create(ctx, nil, &model.Reservation{
			ID:      uuid.New(),
			UserID:  userID,
			EventID: eventID,
			Status:  model.ReservationStatusPending,
		})
		assert.ErrorIs(t, err, apperrors.ErrActiveReservationExists)
	})
}

func TestReservationRepository_RebookAfterCancel(t *testing.T) {
	getTestDB(t)
	repo := repository.NewReservationRepository(testDB)
	ctx := context.Background()

	adminID := createTestUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	userID := createTestUser(t, "Alice", "alice@example.com", model.RoleParticipant)
	eventID := createTestEvent(t, adminID, "Concert", 10, model.EventStatusPublished, time.Now().Add(time.Hour))
	createTestReservation(t, userID, eventID, model.ReservationStatusCanceled)
	createTestReservation(t, userID, eventID, model.ReservationStatusRefused)

	has, err := repo.HasActive(ctx, nil, userID, eventID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = repo.Create(ctx, nil, &model.Reservation{
		ID:      uuid.New(),
		UserID:  userID,
		EventID: eventID,
		Status:  model.ReservationStatusPending,
	})
	require.NoError(t, err)

	has, err = repo.HasActive(ctx, nil, userID, eventID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestReservationRepository_CountActiveByEvent(t *testing.T) {
	getTestDB(t)
	repo := repository.NewReservationRepository(testDB)
	ctx := context.Background()

	adminID := createTestUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	alice := createTestUser(t, "Alice", "alice@example.com", model.RoleParticipant)
	bob := createTestUser(t, "Bob", "bob@example.com", model.RoleParticipant)
	carol := createTestUser(t, "Carol", "carol@example.com", model.RoleParticipant)
	eventID := createTestEvent(t, adminID, "Concert", 10, model.EventStatusPublished, time.Now().Add(time.Hour))

	pending := createTestReservation(t, alice, eventID, model.ReservationStatusPending)
	createTestReservation(t, bob, eventID, model.ReservationStatusConfirmed)
	createTestReservation(t, carol, eventID, model.ReservationStatusRefused)

	count, err := repo.CountActiveByEvent(ctx, nil, eventID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountActiveByEvent(ctx, nil, eventID, pending)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	getTestDB(t)
	repo := repository.NewReservationRepository(testDB)
	ctx := context.Background()

	adminID := createTestUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	userID := createTestUser(t, "Alice", "alice@example.com", model.RoleParticipant)
	eventID := createTestEvent(t, adminID, "Concert", 10, model.EventStatusPublished, time.Now().Add(time.Hour))
	id := createTestReservation(t, userID, eventID, model.ReservationStatusPending)

	t.Run("GuardMatches", func(t *testing.T) {
		updated, err := repo.UpdateStatus(ctx, nil, id,
			[]model.ReservationStatus{model.ReservationStatusPending}, model.ReservationStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, model.ReservationStatusConfirmed, updated.Status)
	})

	t.Run("GuardMisses", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, nil, id,
			[]model.ReservationStatus{model.ReservationStatusPending}, model.ReservationStatusRefused)
		assert.ErrorIs(t, err, repository.ErrStatusChanged)

		found, err := repo.FindByID(ctx, nil, id)
		require.NoError(t, err)
		assert.Equal(t, model.ReservationStatusConfirmed, found.Status)
	})

	t.Run("InsideTransaction", func(t *testing.T) {
		err := repository.NewTransactor(testDB).WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			_, err := repo.UpdateStatus(ctx, tx, id, model.SourcesFor(model.ReservationStatusCanceled), model.ReservationStatusCanceled)
			return err
		})
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, nil, id)
		require.NoError(t, err)
		assert.Equal(t, model.ReservationStatusCanceled, found.Status)
	})
}

func TestReservationRepository_ListAndStats(t *testing.T) {
	getTestDB(t)
	repo := repository.NewReservationRepository(testDB)
	ctx := context.Background()

	adminID := createTestUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	alice := createTestUser(t, "Alice", "alice@example.com", model.RoleParticipant)
	bob := createTestUser(t, "Bob", "bob@example.com", model.RoleParticipant)
	concert := createTestEvent(t, adminID, "Concert", 10, model.EventStatusPublished, time.Now().Add(time.Hour))
	talk := createTestEvent(t, adminID, "Talk", 10, model.EventStatusPublished, time.Now().Add(time.Hour))

	first := createTestReservation(t, alice, concert, model.ReservationStatusPending)
	time.Sleep(10 * time.Millisecond)
	second := createTestReservation(t, alice, talk, model.ReservationStatusConfirmed)
	createTestReservation(t, bob, concert, model.ReservationStatusRefused)

	t.Run("ByUserNewestFirst", func(t *testing.T) {
		views, err := repo.List(ctx, repository.ReservationFilter{UserID: &alice})
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, second, views[0].ID)
		assert.Equal(t, first, views[1].ID)
		assert.Equal(t, "Talk", views[0].Event.Title)
		assert.Equal(t, "alice@example.com", views[0].User.Email)
	})

	t.Run("ByEvent", func(t *testing.T) {
		views, err := repo.List(ctx, repository.ReservationFilter{EventID: &concert})
		require.NoError(t, err)
		assert.Len(t, views, 2)
	})

	t.Run("ViewByID", func(t *testing.T) {
		view, err := repo.FindViewByID(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, "Alice", view.User.Name)
		assert.Equal(t, "Concert", view.Event.Title)

		_, err = repo.FindViewByID(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrReservationNotFound)
	})

	t.Run("CountByStatus", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, counts[model.ReservationStatusPending])
		assert.Equal(t, 1, counts[model.ReservationStatusConfirmed])
		assert.Equal(t, 1, counts[model.ReservationStatusRefused])
		assert.Equal(t, 0, counts[model.ReservationStatusCanceled])
	})
}
