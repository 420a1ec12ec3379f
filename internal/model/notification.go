package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType 預約生命週期通知類型
type NotificationType string

const (
	NotificationReservationCreated   NotificationType = "reservation.created"
	NotificationReservationConfirmed NotificationType = "reservation.confirmed"
	NotificationReservationCancelled NotificationType = "reservation.cancelled"
	NotificationReservationRefused   NotificationType = "reservation.refused"
)

// Notification 放入佇列的訊息，worker 依 ID 重新查詢使用者與活動
type Notification struct {
	ID            uuid.UUID         `json:"id"`
	Type          NotificationType  `json:"type"`
	ReservationID uuid.UUID         `json:"reservation_id"`
	EventID       uuid.UUID         `json:"event_id"`
	UserID        uuid.UUID         `json:"user_id"`
	Status        ReservationStatus `json:"status"`
	NumberOfSeats int               `json:"number_of_seats"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

func NewNotification(t NotificationType, r *Reservation, at time.Time) *Notification {
	return &Notification{
		ID:            uuid.New(),
		Type:          t,
		ReservationID: r.ID,
		EventID:       r.EventID,
		UserID:        r.UserID,
		Status:        r.Status,
		NumberOfSeats: r.NumberOfSeats,
		OccurredAt:    at,
	}
}
