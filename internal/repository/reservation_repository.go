package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booknest/internal/model"
	apperrors "booknest/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Reservation, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Reservation, error)
	Stats(ctx context.Context, eventID uuid.UUID) (*model.ReservationStats, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, reservation *model.Reservation) (*model.Reservation, error)
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Reservation, error)
	FindUncancelledByUserAndEvent(ctx context.Context, tx pgx.Tx, userID, eventID uuid.UUID) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error)
}

type ReservationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &ReservationRepositoryImpl{
		pool: pool,
	}
}

const reservationColumns = `r.id, r.event_id, r.user_id, r.status, r.number_of_seats,
		r.reservation_date, r.created_at, r.updated_at`

func scanReservation(row rowScanner, extra ...any) (*model.Reservation, error) {
	var reservation model.Reservation
	dest := []any{
		&reservation.ID,
		&reservation.EventID,
		&reservation.UserID,
		&reservation.Status,
		&reservation.NumberOfSeats,
		&reservation.ReservationDate,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *ReservationRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, reservation *model.Reservation) (*model.Reservation, error) {
	query := `
		INSERT INTO reservations AS r (event_id, user_id, status, number_of_seats, reservation_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reservationColumns

	created, err := scanReservation(tx.QueryRow(ctx, query,
		reservation.EventID, reservation.UserID, reservation.Status,
		reservation.NumberOfSeats, reservation.ReservationDate.UTC(),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrReservationExists
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	return created, nil
}

// FindByID 連同活動摘要一併回傳
func (r *ReservationRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `,
		       e.id, e.title, e.date, e.location, e.status
		FROM reservations r
		JOIN events e ON e.id = r.event_id
		WHERE r.id = $1
	`

	var event model.EventSummary
	reservation, err := scanReservation(r.pool.QueryRow(ctx, query, id),
		&event.ID, &event.Title, &event.Date, &event.Location, &event.Status,
	)
	if err != nil {
		return nil, err
	}
	reservation.Event = &event

	return reservation, nil
}

func (r *ReservationRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1 FOR UPDATE`
	return scanReservation(tx.QueryRow(ctx, query, id))
}

func (r *ReservationRepositoryImpl) FindUncancelledByUserAndEvent(ctx context.Context, tx pgx.Tx, userID, eventID uuid.UUID) (*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		WHERE r.user_id = $1 AND r.event_id = $2 AND r.status <> $3
		LIMIT 1
	`
	return scanReservation(tx.QueryRow(ctx, query, userID, eventID, model.ReservationStatusCancelled))
}

// ListByUser 使用者所有預約（含已取消），新到舊
func (r *ReservationRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `,
		       e.id, e.title, e.date, e.location, e.status
		FROM reservations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]*model.Reservation, 0)
	for rows.Next() {
		var event model.EventSummary
		reservation, err := scanReservation(rows,
			&event.ID, &event.Title, &event.Date, &event.Location, &event.Status,
		)
		if err != nil {
			return nil, err
		}
		reservation.Event = &event
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}

// ListByEvent 活動的未取消預約，新到舊，附使用者摘要
func (r *ReservationRepositoryImpl) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `,
		       u.id, u.email, u.first_name, u.last_name
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1 AND r.status <> $2
		ORDER BY r.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID, model.ReservationStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]*model.Reservation, 0)
	for rows.Next() {
		var user model.UserSummary
		reservation, err := scanReservation(rows,
			&user.ID, &user.Email, &user.FirstName, &user.LastName,
		)
		if err != nil {
			return nil, err
		}
		reservation.User = &user
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *ReservationRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error) {
	query := `
		UPDATE reservations AS r
		SET status = $1, updated_at = $2
		WHERE r.id = $3
		RETURNING ` + reservationColumns

	reservation, err := scanReservation(tx.QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, apperrors.ErrReservationNotFound) {
			return nil, err
		}
		if isUniqueViolation(err) {
			return nil, apperrors.ErrReservationExists
		}
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	return reservation, nil
}

func (r *ReservationRepositoryImpl) Stats(ctx context.Context, eventID uuid.UUID) (*model.ReservationStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(number_of_seats), 0)
		FROM reservations
		WHERE event_id = $1 AND status <> $2
	`

	stats := &model.ReservationStats{EventID: eventID}
	err := r.pool.QueryRow(ctx, query, eventID, model.ReservationStatusCancelled).
		Scan(&stats.TotalReservations, &stats.TotalSeatsReserved)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
