package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	m "tutorku_backend/internals/features/tutoring/sessions/model"
)

// GormSessionRepository: implementasi store Postgres via GORM.
type GormSessionRepository struct {
	DB *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{DB: db}
}

var _ SessionRepository = (*GormSessionRepository)(nil)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// fallback lib/pq (simple protocol / pgbouncer)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value")
}

func (r *GormSessionRepository) Create(ctx context.Context, mdl *m.SessionModel) error {
	if err := r.DB.WithContext(ctx).Create(mdl).Error; err != nil {
		if isUniqueViolation(err) {
			// kena partial unique index one_active_session_per_teacher
			return ErrActiveSessionExists
		}
		return err
	}
	return nil
}

func (r *GormSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (m.SessionModel, error) {
	var mdl m.SessionModel
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", id).
		Take(&mdl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m.SessionModel{}, ErrSessionNotFound
	}
	return mdl, err
}

func (r *GormSessionRepository) GetOwned(ctx context.Context, id, teacherID uuid.UUID) (m.SessionModel, error) {
	var mdl m.SessionModel
	err := r.DB.WithContext(ctx).
		Where("session_id = ? AND session_teacher_id = ?", id, teacherID).
		Take(&mdl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m.SessionModel{}, ErrSessionNotFound
	}
	return mdl, err
}

func (r *GormSessionRepository) FindActiveByTeacher(ctx context.Context, teacherID uuid.UUID) (*m.SessionModel, error) {
	var mdl m.SessionModel
	err := r.DB.WithContext(ctx).
		Where("session_teacher_id = ? AND session_status IN ?", teacherID,
			[]string{m.SessionStatusOngoing, m.SessionStatusAwaitingScreenshot}).
		Take(&mdl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mdl, nil
}

func (r *GormSessionRepository) ListOngoing(ctx context.Context) ([]m.SessionModel, error) {
	var models []m.SessionModel
	err := r.DB.WithContext(ctx).
		Where("session_status = ?", m.SessionStatusOngoing).
		Find(&models).Error
	return models, err
}

func (r *GormSessionRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.DB.WithContext(ctx).
		Model(&m.SessionModel{}).
		Where("session_id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *GormSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&m.SessionModel{}).Error
}

func (r *GormSessionRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, from, to *time.Time, limit, offset int) ([]m.SessionModel, int64, error) {
	q := r.DB.WithContext(ctx).Model(&m.SessionModel{}).
		Where("session_teacher_id = ?", teacherID)

	// from inklusif; to = exclusive end-of-day (tanggal berikutnya jam 00:00)
	if from != nil {
		q = q.Where("session_start_time >= ?", *from)
	}
	if to != nil {
		endExclusive := to.AddDate(0, 0, 1).Truncate(24 * time.Hour)
		q = q.Where("session_start_time < ?", endExclusive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []m.SessionModel
	err := q.Order("session_start_time DESC").
		Limit(limit).Offset(offset).
		Find(&models).Error
	return models, total, err
}

// BulkDelete: admin CRUD biasa (hapus banyak sesi sekaligus).
func (r *GormSessionRepository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}
	res := r.DB.WithContext(ctx).
		Exec("DELETE FROM sessions WHERE session_id = ANY(?)", pq.Array(strIDs))
	return res.RowsAffected, res.Error
}
