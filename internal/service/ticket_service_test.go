package service_test

import (
	"bytes"
	"testing"

	"event-reservation/internal/auth"
	"event-reservation/internal/ticket"
	apperrors "event-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketService_RenderTicket(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	event := f.publishedEvent(t, 5)

	r, err := f.reservations.Create(ctx, f.alice, event.ID)
	require.NoError(t, err)

	t.Run("Pending", func(t *testing.T) {
		_, err := f.tickets.RenderTicket(ctx, f.alice, r.ID)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotAvailable)
	})

	_, err = f.reservations.Confirm(ctx, f.admin, r.ID)
	require.NoError(t, err)

	t.Run("Owner", func(t *testing.T) {
		doc, err := f.tickets.RenderTicket(ctx, f.alice, r.ID)
		require.NoError(t, err)
		assert.Equal(t, ticket.ContentTypePDF, doc.ContentType)
		assert.Equal(t, ticket.Filename(r.ID), doc.Filename)
		assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))
	})

	t.Run("Admin", func(t *testing.T) {
		_, err := f.tickets.RenderTicket(ctx, f.admin, r.ID)
		assert.NoError(t, err)
	})

	t.Run("Stranger", func(t *testing.T) {
		_, err := f.tickets.RenderTicket(ctx, f.bob, r.ID)
		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	})

	t.Run("Anonymous", func(t *testing.T) {
		_, err := f.tickets.RenderTicket(ctx, auth.Anonymous, r.ID)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.tickets.RenderTicket(ctx, f.alice, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrReservationNotFound)
	})

	t.Run("CanceledAfterConfirm", func(t *testing.T) {
		_, err := f.reservations.CancelByUser(ctx, f.alice, r.ID)
		require.NoError(t, err)

		_, err = f.tickets.RenderTicket(ctx, f.alice, r.ID)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotAvailable)
	})
}
