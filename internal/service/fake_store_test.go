package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"booknest/internal/model"
	"booknest/internal/queue"
	apperrors "booknest/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// fakeStore 以單一 mutex 模擬資料列鎖定；WithinTx 失敗時還原快照
type fakeStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]model.User
	events       map[uuid.UUID]model.Event
	reservations map[uuid.UUID]model.Reservation
	seq          int

	decrementErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[uuid.UUID]model.User{},
		events:       map[uuid.UUID]model.Event{},
		reservations: map[uuid.UUID]model.Reservation{},
	}
}

func (s *fakeStore) WithinTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make(map[uuid.UUID]model.Event, len(s.events))
	for k, v := range s.events {
		events[k] = v
	}
	reservations := make(map[uuid.UUID]model.Reservation, len(s.reservations))
	for k, v := range s.reservations {
		reservations[k] = v
	}

	if err := fn(nil); err != nil {
		s.events = events
		s.reservations = reservations
		return err
	}
	return nil
}

func (s *fakeStore) nextTime() time.Time {
	s.seq++
	return testNow.Add(time.Duration(s.seq) * time.Second)
}

func (s *fakeStore) addUser(role model.Role) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{ID: uuid.New(), Email: uuid.NewString()[:8] + "@example.com", FirstName: "Test", LastName: "User", Role: role, IsActive: true}
	s.users[u.ID] = u
	return u
}

func (s *fakeStore) addEvent(owner uuid.UUID, max, available int, status model.EventStatus, date time.Time) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := model.Event{
		ID:              uuid.New(),
		Title:           "Event",
		Location:        "Casablanca",
		Date:            date,
		MaxParticipants: max,
		AvailableSeats:  available,
		Status:          status,
		CreatedBy:       owner,
		CreatedAt:       s.nextTime(),
	}
	s.events[e.ID] = e
	return e
}

func (s *fakeStore) addReservation(eventID, userID uuid.UUID, status model.ReservationStatus, seats int) model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := model.Reservation{ID: uuid.New(), EventID: eventID, UserID: userID, Status: status, NumberOfSeats: seats, CreatedAt: s.nextTime()}
	s.reservations[r.ID] = r
	return r
}

func (s *fakeStore) event(id uuid.UUID) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id]
}

func (s *fakeStore) reservation(id uuid.UUID) model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id]
}

func (s *fakeStore) reservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

// fakeEvents 實作 repository.EventRepository
type fakeEvents struct{ *fakeStore }

func (f fakeEvents) Create(_ context.Context, event *model.Event) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := *event
	e.ID = uuid.New()
	e.CreatedAt = f.nextTime()
	e.UpdatedAt = e.CreatedAt
	f.events[e.ID] = e
	return &e, nil
}

func (f fakeEvents) List(_ context.Context, filter model.EventFilter) ([]*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Event, 0)
	for _, e := range f.events {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.StartDate != nil && e.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.Date.After(*filter.EndDate) {
			continue
		}
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f fakeEvents) FindByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return &e, nil
}

func (f fakeEvents) UpdateStatus(_ context.Context, id uuid.UUID, status model.EventStatus) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	e.Status = status
	f.events[id] = e
	return &e, nil
}

func (f fakeEvents) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	for _, r := range f.reservations {
		if r.EventID == id {
			return apperrors.ErrEventHasReservations
		}
	}
	delete(f.events, id)
	return nil
}

func (f fakeEvents) CompletePast(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uuid.UUID, 0)
	for id, e := range f.events {
		if e.Status == model.EventStatusPublished && e.Date.Before(now) {
			e.Status = model.EventStatusCompleted
			f.events[id] = e
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f fakeEvents) FindByIDForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return &e, nil
}

func (f fakeEvents) Update(_ context.Context, _ pgx.Tx, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	if params.Title != nil {
		e.Title = *params.Title
	}
	if params.Description != nil {
		e.Description = *params.Description
	}
	if params.Date != nil {
		e.Date = *params.Date
	}
	if params.Location != nil {
		e.Location = *params.Location
	}
	if params.MaxParticipants != nil {
		e.MaxParticipants = *params.MaxParticipants
	}
	if params.AvailableSeats != nil {
		e.AvailableSeats = *params.AvailableSeats
	}
	f.events[id] = e
	return &e, nil
}

func (f fakeEvents) DecrementSeats(_ context.Context, _ pgx.Tx, id uuid.UUID, seats int) error {
	if f.decrementErr != nil {
		return f.decrementErr
	}
	e, ok := f.events[id]
	if !ok || e.AvailableSeats < seats {
		return apperrors.ErrInsufficientSeats
	}
	e.AvailableSeats -= seats
	f.events[id] = e
	return nil
}

func (f fakeEvents) IncrementSeats(_ context.Context, _ pgx.Tx, id uuid.UUID, seats int) error {
	e, ok := f.events[id]
	if !ok || e.AvailableSeats+seats > e.MaxParticipants {
		return apperrors.ErrInvalidInput
	}
	e.AvailableSeats += seats
	f.events[id] = e
	return nil
}

// fakeReservations 實作 repository.ReservationRepository
type fakeReservations struct{ *fakeStore }

func (f fakeReservations) FindByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, apperrors.ErrReservationNotFound
	}
	return &r, nil
}

func (f fakeReservations) ListByUser(_ context.Context, userID uuid.UUID) ([]*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Reservation, 0)
	for _, r := range f.reservations {
		if r.UserID != userID {
			continue
		}
		r := r
		e := f.events[r.EventID]
		r.Event = &model.EventSummary{ID: e.ID, Title: e.Title, Date: e.Date, Location: e.Location, Status: e.Status}
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeReservations) ListByEvent(_ context.Context, eventID uuid.UUID) ([]*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Reservation, 0)
	for _, r := range f.reservations {
		if r.EventID != eventID || r.Status == model.ReservationStatusCancelled {
			continue
		}
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeReservations) Stats(_ context.Context, eventID uuid.UUID) (*model.ReservationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &model.ReservationStats{EventID: eventID}
	for _, r := range f.reservations {
		if r.EventID == eventID && r.Status != model.ReservationStatusCancelled {
			stats.TotalReservations++
			stats.TotalSeatsReserved += r.NumberOfSeats
		}
	}
	return stats, nil
}

func (f fakeReservations) Create(_ context.Context, _ pgx.Tx, reservation *model.Reservation) (*model.Reservation, error) {
	for _, r := range f.reservations {
		if r.UserID == reservation.UserID && r.EventID == reservation.EventID && r.Status != model.ReservationStatusCancelled {
			return nil, apperrors.ErrReservationExists
		}
	}
	r := *reservation
	r.ID = uuid.New()
	r.CreatedAt = f.nextTime()
	r.UpdatedAt = r.CreatedAt
	f.reservations[r.ID] = r
	return &r, nil
}

func (f fakeReservations) FindByIDForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*model.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, apperrors.ErrReservationNotFound
	}
	return &r, nil
}

func (f fakeReservations) FindUncancelledByUserAndEvent(_ context.Context, _ pgx.Tx, userID, eventID uuid.UUID) (*model.Reservation, error) {
	for _, r := range f.reservations {
		if r.UserID == userID && r.EventID == eventID && r.Status != model.ReservationStatusCancelled {
			return &r, nil
		}
	}
	return nil, apperrors.ErrReservationNotFound
}

func (f fakeReservations) UpdateStatus(_ context.Context, _ pgx.Tx, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, apperrors.ErrReservationNotFound
	}
	r.Status = status
	f.reservations[id] = r
	return &r, nil
}

// fakeCache 記錄失效的活動 id
type fakeCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]model.Event
	versions    map[uuid.UUID]int64
	invalidated []uuid.UUID
	gets        int

	// afterVersion 模擬回源查詢期間的並發寫入
	afterVersion func(id uuid.UUID)
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[uuid.UUID]model.Event{}, versions: map[uuid.UUID]int64{}}
}

func (c *fakeCache) Version(_ context.Context, id uuid.UUID) (int64, error) {
	c.mu.Lock()
	v := c.versions[id]
	hook := c.afterVersion
	c.mu.Unlock()
	if hook != nil {
		hook(id)
	}
	return v, nil
}

func (c *fakeCache) Get(_ context.Context, id uuid.UUID) (*model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	e, ok := c.entries[id]
	if !ok {
		return nil, apperrors.ErrCacheMiss
	}
	return &e, nil
}

func (c *fakeCache) Set(_ context.Context, event *model.Event, version int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[event.ID] != version {
		return nil
	}
	c.entries[event.ID] = *event
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, ids ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
		c.versions[id]++
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

func (c *fakeCache) wasInvalidated(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, got := range c.invalidated {
		if got == id {
			return true
		}
	}
	return false
}

// recordingQueue 記錄發出的通知
type recordingQueue struct {
	mu   sync.Mutex
	sent []*model.Notification
	err  error
}

func (q *recordingQueue) Publish(_ context.Context, n *model.Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.sent = append(q.sent, n)
	return nil
}

func (q *recordingQueue) Subscribe(context.Context) (<-chan queue.Delivery, error) {
	return nil, nil
}

func (q *recordingQueue) types() []model.NotificationType {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.NotificationType, 0, len(q.sent))
	for _, n := range q.sent {
		out = append(out, n.Type)
	}
	return out
}
