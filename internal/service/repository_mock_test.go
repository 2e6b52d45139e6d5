package service_test

import (
	"errors"
	"testing"
	"time"

	"event-reservation/internal/auth"
	"event-reservation/internal/model"
	"event-reservation/internal/repository"
	"event-reservation/internal/repository/mocks"
	"event-reservation/internal/service"
	apperrors "event-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errDatabaseDown = errors.New("database down")

func TestEventService_ListPublished_UsesPublishedFilter(t *testing.T) {
	repo := mocks.NewEventRepositoryMock()
	svc := service.NewEventService(repo)

	creator := &model.UserSummary{ID: uuid.New(), Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin}
	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.EventFilter) bool {
		return f.Status != nil && *f.Status == model.EventStatusPublished && f.After == nil
	})).Return([]*model.Event{{
		ID:                 uuid.New(),
		Title:              "Concert",
		DateTime:           time.Now().Add(time.Hour),
		Capacity:           10,
		Status:             model.EventStatusPublished,
		ActiveReservations: 4,
		Creator:            creator,
	}}, nil).Once()

	events, err := svc.ListPublished(t.Context())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 6, events[0].RemainingPlaces)
	assert.Nil(t, events[0].Creator)
	repo.AssertExpectations(t)
}

func TestEventService_RepositoryErrorPropagates(t *testing.T) {
	repo := mocks.NewEventRepositoryMock()
	svc := service.NewEventService(repo)
	id := uuid.New()

	repo.On("FindByID", mock.Anything, id).Return(nil, errDatabaseDown).Once()

	_, err := svc.GetPublished(t.Context(), id)
	assert.ErrorIs(t, err, errDatabaseDown)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	repo.AssertExpectations(t)
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	users := mocks.NewUserRepositoryMock()
	svc := service.NewAuthService(users, auth.NewTokenManager("test-secret-0123456789", time.Hour), 4)

	users.On("FindByEmail", mock.Anything, "frank@example.com").Return(nil, errDatabaseDown).Once()

	_, err := svc.Login(t.Context(), model.LoginRequest{Email: "Frank@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, errDatabaseDown)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
	users.AssertExpectations(t)
}

func TestAuthService_EnsureAdmin_ExistingUserUntouched(t *testing.T) {
	users := mocks.NewUserRepositoryMock()
	svc := service.NewAuthService(users, auth.NewTokenManager("test-secret-0123456789", time.Hour), 4)

	existing := &model.User{ID: uuid.New(), Email: "root@example.com", Name: "Root", Role: model.RoleAdmin}
	users.On("FindByEmail", mock.Anything, "root@example.com").Return(existing, nil).Once()

	got, err := svc.EnsureAdmin(t.Context(), "root@example.com", "Root", "pass-word")
	require.NoError(t, err)
	assert.Equal(t, existing, got)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}
