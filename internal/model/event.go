package model

import (
	"strings"
	"time"

	apperrors "booknest/pkg/app_errors"

	"github.com/google/uuid"
)

// EventStatus 活動狀態
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusCompleted EventStatus = "COMPLETED"
)

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// 欄位驗證規則
const (
	titleRule       = "min=3,max=200"
	descriptionRule = "max=2000"
	locationRule    = "required"
	capacityRule    = "gte=1"
)

type Event struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	Title           string      `json:"title" db:"title"`
	Description     string      `json:"description" db:"description"`
	Date            time.Time   `json:"date" db:"date"`
	Location        string      `json:"location" db:"location"`
	MaxParticipants int         `json:"max_participants" db:"max_participants"`
	AvailableSeats  int         `json:"available_seats" db:"available_seats"`
	Status          EventStatus `json:"status" db:"status"`
	CreatedBy       uuid.UUID   `json:"created_by" db:"created_by"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// ReservedSeats 目前被有效預約佔用的座位數
func (e *Event) ReservedSeats() int {
	return e.MaxParticipants - e.AvailableSeats
}

// IsBookable 檢查活動在 now 時間點是否接受預約
func (e *Event) IsBookable(now time.Time) bool {
	return e.Status == EventStatusPublished && e.Date.After(now)
}

// EventSummary 預約列表中附帶的活動資訊
type EventSummary struct {
	ID       uuid.UUID   `json:"id"`
	Title    string      `json:"title"`
	Date     time.Time   `json:"date"`
	Location string      `json:"location"`
	Status   EventStatus `json:"status"`
}

// CreateEventParams 建立活動請求
type CreateEventParams struct {
	Title           string       `json:"title" binding:"required"`
	Description     string       `json:"description"`
	Date            time.Time    `json:"date" binding:"required"`
	Location        string       `json:"location" binding:"required"`
	MaxParticipants int          `json:"max_participants" binding:"required"`
	Status          *EventStatus `json:"status,omitempty"`
}

func (p CreateEventParams) Validate(now time.Time) error {
	if err := checkVar("title", strings.TrimSpace(p.Title), titleRule); err != nil {
		return err
	}
	if err := checkVar("description", p.Description, descriptionRule); err != nil {
		return err
	}
	if err := checkVar("location", strings.TrimSpace(p.Location), locationRule); err != nil {
		return err
	}
	if err := checkVar("max_participants", p.MaxParticipants, capacityRule); err != nil {
		return err
	}
	if !p.Date.After(now) {
		return apperrors.ErrEventInPast
	}
	if p.Status != nil && !p.Status.IsValid() {
		return apperrors.ErrInvalidEventStatus
	}
	return nil
}

// UpdateEventParams 部分更新，nil 代表不修改
type UpdateEventParams struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	Location        *string    `json:"location,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`

	// AvailableSeats 由 service 依 MaxParticipants 重新計算，不接受客戶端輸入
	AvailableSeats *int `json:"-"`
}

func (p UpdateEventParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil &&
		p.Location == nil && p.MaxParticipants == nil
}

func (p UpdateEventParams) Validate(now time.Time) error {
	if p.IsEmpty() {
		return apperrors.Validation("no fields to update")
	}
	if p.Title != nil {
		if err := checkVar("title", strings.TrimSpace(*p.Title), titleRule); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := checkVar("description", *p.Description, descriptionRule); err != nil {
			return err
		}
	}
	if p.Location != nil {
		if err := checkVar("location", strings.TrimSpace(*p.Location), locationRule); err != nil {
			return err
		}
	}
	if p.MaxParticipants != nil {
		if err := checkVar("max_participants", *p.MaxParticipants, capacityRule); err != nil {
			return err
		}
	}
	if p.Date != nil && !p.Date.After(now) {
		return apperrors.ErrEventInPast
	}
	return nil
}

// UpdateEventStatusParams 修改活動狀態請求
type UpdateEventStatusParams struct {
	Status EventStatus `json:"status" binding:"required"`
}

// EventFilter 活動列表篩選條件
type EventFilter struct {
	Status    *EventStatus
	StartDate *time.Time
	EndDate   *time.Time
}
