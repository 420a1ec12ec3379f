package apperrors

import (
	"errors"
	"fmt"
)

// Kind 錯誤分類，handler 依此決定 HTTP 狀態碼
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf 回傳錯誤鏈中第一個 *Error 的分類，找不到時為 KindInternal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Validation 包裝 ErrValidation 並附上原因
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

var (
	ErrValidation   = New(KindValidation, "validation failed")
	ErrInvalidInput = New(KindValidation, "invalid input")

	ErrEventNotPublished           = New(KindValidation, "event is not published")
	ErrEventInPast                 = New(KindValidation, "event date is in the past")
	ErrInsufficientSeats           = New(KindValidation, "insufficient seats")
	ErrCapacityBelowReserved       = New(KindValidation, "capacity cannot be lower than reserved seats")
	ErrInvalidEventStatus          = New(KindValidation, "invalid event status")
	ErrReservationAlreadyCancelled = New(KindValidation, "reservation is already cancelled")
	ErrReservationNotPending       = New(KindValidation, "reservation is not pending")
	ErrInvalidReservationStatus    = New(KindValidation, "invalid reservation status transition")
)

var (
	ErrUnauthorized       = New(KindUnauthenticated, "unauthorized")
	ErrInvalidCredentials = New(KindUnauthenticated, "invalid email or password")
	ErrAccountDisabled    = New(KindUnauthenticated, "account is disabled")
	ErrInvalidToken       = New(KindUnauthenticated, "invalid or expired token")
)

var (
	ErrForbidden           = New(KindForbidden, "forbidden")
	ErrNotEventOwner       = New(KindForbidden, "only the event creator can modify this event")
	ErrNotReservationOwner = New(KindForbidden, "reservation belongs to another user")
)

var (
	ErrUserNotFound        = New(KindNotFound, "user not found")
	ErrEventNotFound       = New(KindNotFound, "event not found")
	ErrReservationNotFound = New(KindNotFound, "reservation not found")
)

var (
	ErrEmailTaken        = New(KindConflict, "email is already registered")
	ErrReservationExists = New(KindConflict, "an active reservation already exists for this event")

	ErrEventHasReservations = New(KindConflict, "event has reservations, cancel it instead")
)

var (
	ErrTooManyRequests     = New(KindTooManyRequests, "too many requests")
	ErrCacheMiss           = New(KindInternal, "cache miss")
	ErrInternalServerError = New(KindInternal, "internal server error")
)
