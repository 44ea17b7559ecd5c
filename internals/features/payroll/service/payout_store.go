package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pm "tutorku_backend/internals/features/payroll/model"
	sm "tutorku_backend/internals/features/tutoring/sessions/model"
	tm "tutorku_backend/internals/features/tutoring/teachers/model"
)

// PayrollStore: akses data yang dibutuhkan aggregator + payout recorder.
// Dibaca sekali per aksi (snapshot), bukan live subscription — konsumen
// wajib refetch setelah mutasi.
type PayrollStore interface {
	ListAllSessions(ctx context.Context) ([]sm.SessionModel, error)
	ListTeacherSessions(ctx context.Context, teacherID uuid.UUID, from, to *time.Time) ([]sm.SessionModel, error)
	ListTeachers(ctx context.Context) ([]tm.TeacherModel, error)
	GetTeacher(ctx context.Context, id uuid.UUID) (tm.TeacherModel, error)

	CreateReport(ctx context.Context, mdl *pm.PayoutReportModel) error
	GetReport(ctx context.Context, id uuid.UUID) (pm.PayoutReportModel, error)
	ListReports(ctx context.Context) ([]pm.PayoutReportModel, error)
	SetReportMarked(ctx context.Context, id uuid.UUID) error

	// MarkSessionsPaid: completed → paid untuk satu teacher.
	// Idempotent: resubmit tidak mengubah apa-apa lagi.
	MarkSessionsPaid(ctx context.Context, teacherID uuid.UUID) (int64, error)
}

type GormPayrollStore struct {
	DB *gorm.DB
}

func NewGormPayrollStore(db *gorm.DB) *GormPayrollStore {
	return &GormPayrollStore{DB: db}
}

var _ PayrollStore = (*GormPayrollStore)(nil)

func (s *GormPayrollStore) ListAllSessions(ctx context.Context) ([]sm.SessionModel, error) {
	var out []sm.SessionModel
	err := s.DB.WithContext(ctx).Find(&out).Error
	return out, err
}

func (s *GormPayrollStore) ListTeacherSessions(ctx context.Context, teacherID uuid.UUID, from, to *time.Time) ([]sm.SessionModel, error) {
	q := s.DB.WithContext(ctx).Model(&sm.SessionModel{}).
		Where("session_teacher_id = ?", teacherID)
	if from != nil {
		q = q.Where("session_start_time >= ?", *from)
	}
	if to != nil {
		q = q.Where("session_start_time < ?", to.AddDate(0, 0, 1))
	}
	var out []sm.SessionModel
	err := q.Order("session_start_time DESC").Find(&out).Error
	return out, err
}

func (s *GormPayrollStore) ListTeachers(ctx context.Context) ([]tm.TeacherModel, error) {
	var out []tm.TeacherModel
	err := s.DB.WithContext(ctx).Order("teacher_name ASC").Find(&out).Error
	return out, err
}

func (s *GormPayrollStore) GetTeacher(ctx context.Context, id uuid.UUID) (tm.TeacherModel, error) {
	var mdl tm.TeacherModel
	err := s.DB.WithContext(ctx).Where("teacher_id = ?", id).Take(&mdl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tm.TeacherModel{}, ErrTeacherNotFound
	}
	return mdl, err
}

func (s *GormPayrollStore) CreateReport(ctx context.Context, mdl *pm.PayoutReportModel) error {
	return s.DB.WithContext(ctx).Create(mdl).Error
}

func (s *GormPayrollStore) GetReport(ctx context.Context, id uuid.UUID) (pm.PayoutReportModel, error) {
	var mdl pm.PayoutReportModel
	err := s.DB.WithContext(ctx).Where("payout_report_id = ?", id).Take(&mdl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pm.PayoutReportModel{}, ErrReportNotFound
	}
	return mdl, err
}

func (s *GormPayrollStore) ListReports(ctx context.Context) ([]pm.PayoutReportModel, error) {
	var out []pm.PayoutReportModel
	err := s.DB.WithContext(ctx).Order("payout_report_created_at DESC").Find(&out).Error
	return out, err
}

func (s *GormPayrollStore) SetReportMarked(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Model(&pm.PayoutReportModel{}).
		Where("payout_report_id = ?", id).
		Update("payout_report_sessions_marked_paid", true).Error
}

func (s *GormPayrollStore) MarkSessionsPaid(ctx context.Context, teacherID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&sm.SessionModel{}).
		Where("session_teacher_id = ? AND session_status = ?", teacherID, sm.SessionStatusCompleted).
		Update("session_status", sm.SessionStatusPaid)
	return res.RowsAffected, res.Error
}
