package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	m "tutorku_backend/internals/features/tutoring/sessions/model"
)

// SessionRepository memisahkan state machine dari store aslinya supaya
// service bisa dites dengan snapshot deterministik (fake in-memory),
// bukan subscription live.
type SessionRepository interface {
	Create(ctx context.Context, mdl *m.SessionModel) error
	GetByID(ctx context.Context, id uuid.UUID) (m.SessionModel, error)
	GetOwned(ctx context.Context, id, teacherID uuid.UUID) (m.SessionModel, error)

	// FindActiveByTeacher: sesi dengan status ongoing/awaiting_screenshot,
	// nil kalau tidak ada (bukan error).
	FindActiveByTeacher(ctx context.Context, teacherID uuid.UUID) (*m.SessionModel, error)

	// ListOngoing: semua sesi ongoing lintas teacher (resume timer saat boot).
	ListOngoing(ctx context.Context) ([]m.SessionModel, error)

	// UpdateFields: partial patch — field yang tidak disebut tidak disentuh.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	Delete(ctx context.Context, id uuid.UUID) error

	ListByTeacher(ctx context.Context, teacherID uuid.UUID, from, to *time.Time, limit, offset int) ([]m.SessionModel, int64, error)
}
