package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-reservation/internal/model"
	apperrors "event-reservation/pkg/app_errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationFilter narrows List. Zero values mean no constraint.
type ReservationFilter struct {
	UserID  *uuid.UUID
	EventID *uuid.UUID
}

// Methods taking a pgx.Tx run on the pool when tx is nil.
type ReservationRepository interface {
	Create(ctx context.Context, tx pgx.Tx, reservation *model.Reservation) (*model.Reservation, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Reservation, error)
	FindViewByID(ctx context.Context, id uuid.UUID) (*model.ReservationView, error)
	HasActive(ctx context.Context, tx pgx.Tx, userID, eventID uuid.UUID) (bool, error)
	// CountActiveByEvent counts PENDING and CONFIRMED reservations of the
	// event, leaving out excludeID when it is not uuid.Nil.
	CountActiveByEvent(ctx context.Context, tx pgx.Tx, eventID, excludeID uuid.UUID) (int, error)
	// UpdateStatus moves the reservation to `to` only while its current
	// status is one of `from`. It returns ErrStatusChanged when the guard
	// matched nothing.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from []model.ReservationStatus, to model.ReservationStatus) (*model.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]*model.ReservationView, error)
	CountByStatus(ctx context.Context) (map[model.ReservationStatus]int, error)
}

type ReservationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &ReservationRepositoryImpl{
		pool: pool,
	}
}

const reservationReturning = "id, user_id, event_id, status, created_at, updated_at"

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var reservation model.Reservation
	err := row.Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.EventID,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func selectReservationViews() sq.SelectBuilder {
	return psql.Select(
		"r.id", "r.user_id", "r.event_id", "r.status", "r.created_at", "r.updated_at",
		"u.name", "u.email", "u.role",
		"e.title", "e.date_time", "e.location", "e.status",
	).
		From("reservations r").
		Join("users u ON u.id = r.user_id").
		Join("events e ON e.id = r.event_id")
}

func scanReservationView(row pgx.Row) (*model.ReservationView, error) {
	var view model.ReservationView
	user := &model.UserSummary{}
	event := &model.EventSummary{}
	err := row.Scan(
		&view.ID,
		&view.UserID,
		&view.EventID,
		&view.Status,
		&view.CreatedAt,
		&view.UpdatedAt,
		&user.Name,
		&user.Email,
		&user.Role,
		&event.Title,
		&event.DateTime,
		&event.Location,
		&event.Status,
	)
	if err != nil {
		return nil, err
	}
	user.ID = view.UserID
	event.ID = view.EventID
	view.User = user
	view.Event = event
	return &view, nil
}

func (r *ReservationRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, reservation *model.Reservation) (*model.Reservation, error) {
	query := `
		INSERT INTO reservations (id, user_id, event_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + reservationReturning

	created, err := scanReservation(conn(r.pool, tx).QueryRow(ctx, query,
		reservation.ID, reservation.UserID, reservation.EventID, reservation.Status,
	))
	if err != nil {
		if isUniqueViolation(err, constraintActiveReservation) {
			return nil, apperrors.ErrActiveReservationExists
		}
		return nil, err
	}
	return created, nil
}

func (r *ReservationRepositoryImpl) FindByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Reservation, error) {
	query := `
		SELECT ` + reservationReturning + `
		FROM reservations
		WHERE id = $1
	`
	reservation, err := scanReservation(conn(r.pool, tx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}
	return reservation, nil
}

func (r *ReservationRepositoryImpl) FindViewByID(ctx context.Context, id uuid.UUID) (*model.ReservationView, error) {
	row, err := queryRow(ctx, r.pool, selectReservationViews().Where(sq.Expr("r.id = ?", id)))
	if err != nil {
		return nil, err
	}

	view, err := scanReservationView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}
	return view, nil
}

func (r *ReservationRepositoryImpl) HasActive(ctx context.Context, tx pgx.Tx, userID, eventID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE user_id = $1 AND event_id = $2 AND status = ANY($3)
		)
	`
	var exists bool
	err := conn(r.pool, tx).QueryRow(ctx, query,
		userID, eventID, statusStrings(model.ActiveReservationStatuses),
	).Scan(&exists)
	return exists, err
}

func (r *ReservationRepositoryImpl) CountActiveByEvent(ctx context.Context, tx pgx.Tx, eventID, excludeID uuid.UUID) (int, error) {
	b := psql.Select("COUNT(*)").
		From("reservations").
		Where(sq.Expr("event_id = ?", eventID)).
		Where(sq.Eq{"status": statusStrings(model.ActiveReservationStatuses)})
	if excludeID != uuid.Nil {
		b = b.Where(sq.Expr("id <> ?", excludeID))
	}

	row, err := queryRow(ctx, conn(r.pool, tx), b)
	if err != nil {
		return 0, err
	}

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReservationRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from []model.ReservationStatus, to model.ReservationStatus) (*model.Reservation, error) {
	if len(from) == 0 {
		return nil, ErrStatusChanged
	}

	b := psql.Update("reservations").
		Set("status", to).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Expr("id = ?", id)).
		Where(sq.Eq{"status": statusStrings(from)}).
		Suffix("RETURNING " + reservationReturning)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	updated, err := scanReservation(conn(r.pool, tx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatusChanged
		}
		return nil, err
	}
	return updated, nil
}

func (r *ReservationRepositoryImpl) List(ctx context.Context, filter ReservationFilter) ([]*model.ReservationView, error) {
	b := selectReservationViews().OrderBy("r.created_at DESC", "r.id DESC")
	if filter.UserID != nil {
		b = b.Where(sq.Expr("r.user_id = ?", *filter.UserID))
	}
	if filter.EventID != nil {
		b = b.Where(sq.Expr("r.event_id = ?", *filter.EventID))
	}

	rows, err := selectRows(ctx, r.pool, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]*model.ReservationView, 0)
	for rows.Next() {
		view, err := scanReservationView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func (r *ReservationRepositoryImpl) CountByStatus(ctx context.Context) (map[model.ReservationStatus]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM reservations
		GROUP BY status
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.ReservationStatus]int, len(model.AllReservationStatuses))
	for rows.Next() {
		var status model.ReservationStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
