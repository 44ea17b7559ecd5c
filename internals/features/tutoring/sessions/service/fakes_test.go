package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	m "tutorku_backend/internals/features/tutoring/sessions/model"
)

// fakeClock: waktu yang bisa dimajukan manual.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeSessionRepo: store in-memory dengan semantik yang sama dengan store
// asli (termasuk guard unik satu sesi aktif per teacher).
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]m.SessionModel
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]m.SessionModel)}
}

var _ SessionRepository = (*fakeSessionRepo)(nil)

func (r *fakeSessionRepo) Create(_ context.Context, mdl *m.SessionModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.SessionTeacherId == mdl.SessionTeacherId && s.IsActive() {
			return ErrActiveSessionExists
		}
	}
	if mdl.SessionId == uuid.Nil {
		mdl.SessionId = uuid.New()
	}
	r.sessions[mdl.SessionId] = *mdl
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (m.SessionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mdl, ok := r.sessions[id]
	if !ok {
		return m.SessionModel{}, ErrSessionNotFound
	}
	return mdl, nil
}

func (r *fakeSessionRepo) GetOwned(_ context.Context, id, teacherID uuid.UUID) (m.SessionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mdl, ok := r.sessions[id]
	if !ok || mdl.SessionTeacherId != teacherID {
		return m.SessionModel{}, ErrSessionNotFound
	}
	return mdl, nil
}

func (r *fakeSessionRepo) FindActiveByTeacher(_ context.Context, teacherID uuid.UUID) (*m.SessionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.SessionTeacherId == teacherID && s.IsActive() {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) ListOngoing(_ context.Context) ([]m.SessionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []m.SessionModel
	for _, s := range r.sessions {
		if s.SessionStatus == m.SessionStatusOngoing {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mdl, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	for k, v := range fields {
		switch k {
		case "session_status":
			mdl.SessionStatus = v.(string)
		case "session_end_time":
			t := v.(time.Time)
			mdl.SessionEndTime = &t
		case "session_actual_duration":
			d := v.(int)
			mdl.SessionActualDuration = &d
		case "session_actual_earnings":
			e := v.(decimal.Decimal)
			mdl.SessionActualEarnings = &e
		case "session_half_pay":
			mdl.SessionHalfPay = v.(bool)
		case "session_screenshot_url":
			u := v.(string)
			mdl.SessionScreenshotUrl = &u
		case "session_screenshot_name":
			n := v.(string)
			mdl.SessionScreenshotName = &n
		}
	}
	r.sessions[id] = mdl
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) ListByTeacher(_ context.Context, teacherID uuid.UUID, from, to *time.Time, limit, offset int) ([]m.SessionModel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []m.SessionModel
	for _, s := range r.sessions {
		if s.SessionTeacherId != teacherID {
			continue
		}
		if from != nil && s.SessionStartTime.Before(*from) {
			continue
		}
		if to != nil && !s.SessionStartTime.Before(to.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}
