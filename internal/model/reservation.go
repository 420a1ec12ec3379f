package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus 預約狀態類型
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusRefused   ReservationStatus = "REFUSED"
)

const (
	MinSeatsPerReservation = 1
	MaxSeatsPerReservation = 10

	seatsRule = "gte=1,lte=10"
)

// IsValid 驗證狀態是否有效
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusRefused:
		return true
	}
	return false
}

// IsActive 有效預約會佔用活動座位
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	transitions := map[ReservationStatus][]ReservationStatus{
		ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusRefused},
		ReservationStatusConfirmed: {ReservationStatusCancelled, ReservationStatusRefused},
		ReservationStatusRefused:   {ReservationStatusCancelled},
		ReservationStatusCancelled: {}, // 不能轉換到任何狀態
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Reservation 預約模型
type Reservation struct {
	ID              uuid.UUID         `json:"id" db:"id"`
	EventID         uuid.UUID         `json:"event_id" db:"event_id"`
	UserID          uuid.UUID         `json:"user_id" db:"user_id"`
	Status          ReservationStatus `json:"status" db:"status"`
	NumberOfSeats   int               `json:"number_of_seats" db:"number_of_seats"`
	ReservationDate time.Time         `json:"reservation_date" db:"reservation_date"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`

	Event *EventSummary `json:"event,omitempty" db:"-"`
	User  *UserSummary  `json:"user,omitempty" db:"-"`
}

// CreateReservationParams 建立預約請求
type CreateReservationParams struct {
	EventID       uuid.UUID `json:"event_id" binding:"required"`
	NumberOfSeats *int      `json:"number_of_seats,omitempty"`
}

// Seats 未指定時預設為 1
func (p CreateReservationParams) Seats() int {
	if p.NumberOfSeats == nil {
		return MinSeatsPerReservation
	}
	return *p.NumberOfSeats
}

func (p CreateReservationParams) Validate() error {
	return ValidateSeatCount(p.Seats())
}

func ValidateSeatCount(n int) error {
	return checkVar("number_of_seats", n, seatsRule)
}

// ReservationStats 單一活動的預約統計，不含已取消
type ReservationStats struct {
	EventID            uuid.UUID `json:"event_id"`
	TotalReservations  int       `json:"total_reservations"`
	TotalSeatsReserved int       `json:"total_seats_reserved"`
}
