package repository_test

import (
	"context"
	"testing"
	"time"

	"booknest/internal/model"
	"booknest/internal/repository"
	"booknest/internal/testutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// setupTestWithTruncate 取得測試 DB 並清空資料，DB 不可用時 skip
func setupTestWithTruncate(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool := testutil.DB(t)
	testutil.Truncate(t, pool)
	return pool
}

// createTestUser 輔助函數：建立測試用使用者
func createTestUser(t *testing.T, pool *pgxpool.Pool, email string) *model.User {
	t.Helper()
	user, err := repository.NewUserRepository(pool).Create(context.Background(), &model.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         model.RoleParticipant,
		IsActive:     true,
	})
	require.NoError(t, err)
	return user
}

// createTestEvent 輔助函數：建立 PUBLISHED 的未來活動
func createTestEvent(t *testing.T, pool *pgxpool.Pool, owner uuid.UUID, maxParticipants int) *model.Event {
	t.Helper()
	return createTestEventAt(t, pool, owner, maxParticipants, model.EventStatusPublished, time.Now().Add(48*time.Hour))
}

func createTestEventAt(t *testing.T, pool *pgxpool.Pool, owner uuid.UUID, maxParticipants int, status model.EventStatus, date time.Time) *model.Event {
	t.Helper()
	event, err := repository.NewEventRepository(pool).Create(context.Background(), &model.Event{
		Title:           "Go Meetup",
		Description:     "Monthly meetup",
		Date:            date,
		Location:        "Casablanca",
		MaxParticipants: maxParticipants,
		AvailableSeats:  maxParticipants,
		Status:          status,
		CreatedBy:       owner,
	})
	require.NoError(t, err)
	return event
}
