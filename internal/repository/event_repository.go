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

// EventFilter narrows List. Zero values mean no constraint.
type EventFilter struct {
	Status *model.EventStatus
	After  *time.Time
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// LockByID loads the event row with SELECT ... FOR UPDATE inside tx.
	// ActiveReservations is not populated.
	LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error)
	List(ctx context.Context, filter EventFilter) ([]*model.Event, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

var eventColumns = []string{
	"e.id", "e.title", "e.description", "e.date_time", "e.location",
	"e.capacity", "e.status", "e.created_by", "e.created_at", "e.updated_at",
}

// eventReadColumns adds the creator and the live active reservation count.
func eventReadColumns() []string {
	cols := append([]string{}, eventColumns...)
	return append(cols,
		"u.name", "u.email", "u.role",
		fmt.Sprintf("(SELECT COUNT(*) FROM reservations r WHERE r.event_id = e.id AND r.status IN (%s)) AS active_reservations", activeStatusList()),
	)
}

func selectEvents() sq.SelectBuilder {
	return psql.Select(eventReadColumns()...).
		From("events e").
		Join("users u ON u.id = e.created_by")
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	var creator model.UserSummary
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.DateTime,
		&event.Location,
		&event.Capacity,
		&event.Status,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
		&creator.Name,
		&creator.Email,
		&creator.Role,
		&event.ActiveReservations,
	)
	if err != nil {
		return nil, err
	}
	creator.ID = event.CreatedBy
	event.Creator = &creator
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (id, title, description, date_time, location, capacity, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		event.ID, event.Title, event.Description, event.DateTime,
		event.Location, event.Capacity, event.Status, event.CreatedBy,
	).Scan(
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, event.ID)
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	row, err := queryRow(ctx, r.pool, selectEvents().Where(sq.Expr("e.id = ?", id)))
	if err != nil {
		return nil, err
	}

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error) {
	b := psql.Select(eventColumns...).
		From("events e").
		Where(sq.Expr("e.id = ?", id)).
		Suffix("FOR UPDATE")

	row, err := queryRow(ctx, conn(r.pool, tx), b)
	if err != nil {
		return nil, err
	}

	var event model.Event
	err = row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.DateTime,
		&event.Location,
		&event.Capacity,
		&event.Status,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter EventFilter) ([]*model.Event, error) {
	b := selectEvents().OrderBy("e.date_time ASC", "e.id ASC")
	if filter.Status != nil {
		b = b.Where(sq.Eq{"e.status": *filter.Status})
	}
	if filter.After != nil {
		b = b.Where(sq.Gt{"e.date_time": *filter.After})
	}

	rows, err := selectRows(ctx, r.pool, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// buildEventUpdate turns a partial update into an UPDATE statement. Nil
// fields are skipped; an empty update is rejected. A status change other
// than CANCELED only matches rows that are not already CANCELED.
func buildEventUpdate(id uuid.UUID, params model.UpdateEventParams, now time.Time) (sq.UpdateBuilder, error) {
	if params.IsEmpty() {
		return sq.UpdateBuilder{}, apperrors.ErrInvalidInput
	}

	b := psql.Update("events")
	if params.Title != nil {
		b = b.Set("title", *params.Title)
	}
	if params.Description != nil {
		b = b.Set("description", *params.Description)
	}
	if params.DateTime != nil {
		b = b.Set("date_time", params.DateTime.UTC())
	}
	if params.Location != nil {
		b = b.Set("location", *params.Location)
	}
	if params.Capacity != nil {
		b = b.Set("capacity", *params.Capacity)
	}
	if params.Status != nil {
		b = b.Set("status", *params.Status)
	}

	b = b.Set("updated_at", now).Where(sq.Expr("id = ?", id))
	if params.Status != nil && *params.Status != model.EventStatusCanceled {
		b = b.Where(sq.NotEq{"status": model.EventStatusCanceled})
	}
	return b, nil
}

// canceledUpdateError reports why a guarded status change matched no row.
func canceledUpdateError(to model.EventStatus) error {
	if to == model.EventStatusPublished {
		return apperrors.ErrCannotPublishCanceled
	}
	return apperrors.ErrEventCanceled
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	b, err := buildEventUpdate(id, params, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		// 區分不存在與已取消
		if params.Status == nil || *params.Status == model.EventStatusCanceled {
			return nil, apperrors.ErrEventNotFound
		}
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, canceledUpdateError(*params.Status)
	}

	return r.FindByID(ctx, id)
}
