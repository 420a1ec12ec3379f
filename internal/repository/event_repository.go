package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"booknest/internal/model"
	apperrors "booknest/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CompletePast(ctx context.Context, now time.Time) ([]uuid.UUID, error)

	// Transaction methods
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, tx pgx.Tx, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	DecrementSeats(ctx context.Context, tx pgx.Tx, id uuid.UUID, seats int) error
	IncrementSeats(ctx context.Context, tx pgx.Tx, id uuid.UUID, seats int) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, title, description, date, location, max_participants,
		available_seats, status, created_by, created_at, updated_at`

func scanEvent(row rowScanner) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.MaxParticipants,
		&event.AvailableSeats,
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

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (title, description, date, location, max_participants,
			available_seats, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.Title, event.Description, event.Date.UTC(), event.Location,
		event.MaxParticipants, event.AvailableSeats, event.Status, event.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	conds := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Status != nil {
		conds = append(conds, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.StartDate != nil {
		conds = append(conds, fmt.Sprintf("date >= $%d", argPos))
		args = append(args, filter.StartDate.UTC())
		argPos++
	}
	if filter.EndDate != nil {
		conds = append(conds, fmt.Sprintf("date <= $%d", argPos))
		args = append(args, filter.EndDate.UTC())
		argPos++
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		%s
		ORDER BY date ASC
	`, eventColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
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

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

func (r *EventRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	return scanEvent(tx.QueryRow(ctx, query, id))
}

func (r *EventRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		add("title", strings.TrimSpace(*params.Title))
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Date != nil {
		add("date", params.Date.UTC())
	}
	if params.Location != nil {
		add("location", *params.Location)
	}
	if params.MaxParticipants != nil {
		add("max_participants", *params.MaxParticipants)
	}
	if params.AvailableSeats != nil {
		add("available_seats", *params.AvailableSeats)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	add("updated_at", time.Now().UTC())

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	return scanEvent(tx.QueryRow(ctx, query, args...))
}

func (r *EventRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) (*model.Event, error) {
	query := `
		UPDATE events
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + eventColumns

	return scanEvent(r.pool.QueryRow(ctx, query, status, time.Now().UTC(), id))
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		// 預約紀錄不會被刪除，有預約的活動只能取消
		if isForeignKeyViolation(err) {
			return apperrors.ErrEventHasReservations
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

// CompletePast 將已過期的 PUBLISHED 活動標記為 COMPLETED，回傳受影響的 id
func (r *EventRepositoryImpl) CompletePast(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE events
		SET status = $1, updated_at = $2
		WHERE status = $3 AND date < $2
		RETURNING id
	`

	rows, err := r.pool.Query(ctx, query, model.EventStatusCompleted, now.UTC(), model.EventStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DecrementSeats 只有剩餘座位足夠時才扣除
func (r *EventRepositoryImpl) DecrementSeats(ctx context.Context, tx pgx.Tx, id uuid.UUID, seats int) error {
	query := `
		UPDATE events
		SET available_seats = available_seats - $1, updated_at = $2
		WHERE id = $3 AND available_seats >= $1
	`

	result, err := tx.Exec(ctx, query, seats, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to decrement seats: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInsufficientSeats
	}

	return nil
}

// IncrementSeats 歸還座位，不可超過 max_participants
func (r *EventRepositoryImpl) IncrementSeats(ctx context.Context, tx pgx.Tx, id uuid.UUID, seats int) error {
	query := `
		UPDATE events
		SET available_seats = available_seats + $1, updated_at = $2
		WHERE id = $3 AND available_seats + $1 <= max_participants
	`

	result, err := tx.Exec(ctx, query, seats, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to increment seats: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("increment seats on event %s: %w", id, apperrors.ErrInvalidInput)
	}

	return nil
}
