package repository

import (
	"testing"
	"time"

	"event-reservation/internal/model"
	apperrors "event-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEventUpdate(t *testing.T) {
	id := uuid.New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("OnlyProvidedFields", func(t *testing.T) {
		title := "New title"
		capacity := 20

		b, err := buildEventUpdate(id, model.UpdateEventParams{Title: &title, Capacity: &capacity}, now)
		require.NoError(t, err)

		query, args, err := b.ToSql()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE events SET title = $1, capacity = $2, updated_at = $3 WHERE id = $4", query)
		assert.Equal(t, []any{"New title", 20, now, id}, args)
	})

	t.Run("StatusOnly", func(t *testing.T) {
		status := model.EventStatusPublished

		b, err := buildEventUpdate(id, model.UpdateEventParams{Status: &status}, now)
		require.NoError(t, err)

		query, args, err := b.ToSql()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE events SET status = $1, updated_at = $2 WHERE id = $3 AND status <> $4", query)
		assert.Equal(t, []any{status, now, id, model.EventStatusCanceled}, args)
	})

	t.Run("CancelIsUnguarded", func(t *testing.T) {
		status := model.EventStatusCanceled

		b, err := buildEventUpdate(id, model.UpdateEventParams{Status: &status}, now)
		require.NoError(t, err)

		query, _, err := b.ToSql()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE events SET status = $1, updated_at = $2 WHERE id = $3", query)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := buildEventUpdate(id, model.UpdateEventParams{}, now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestActiveStatusList(t *testing.T) {
	assert.Equal(t, "'PENDING', 'CONFIRMED'", activeStatusList())
}
