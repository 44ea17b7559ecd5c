package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeacherModel struct {
	TeacherId uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:teacher_id" json:"teacher_id"`

	TeacherName  string `gorm:"type:varchar(100);not null;column:teacher_name" json:"teacher_name"`
	TeacherEmail string `gorm:"type:varchar(120);not null;uniqueIndex;column:teacher_email" json:"teacher_email"`

	// bcrypt hash — tidak pernah ikut response
	TeacherPassword string `gorm:"type:varchar(100);not null;column:teacher_password" json:"-"`

	TeacherRole string `gorm:"type:varchar(16);not null;default:teacher;column:teacher_role" json:"teacher_role"`

	TeacherPhotoUrl     *string `gorm:"column:teacher_photo_url" json:"teacher_photo_url,omitempty"`
	TeacherPaymentQrUrl *string `gorm:"column:teacher_payment_qr_url" json:"teacher_payment_qr_url,omitempty"`

	TeacherCreatedAt time.Time      `gorm:"column:teacher_created_at;autoCreateTime" json:"teacher_created_at"`
	TeacherUpdatedAt *time.Time     `gorm:"column:teacher_updated_at;autoUpdateTime" json:"teacher_updated_at,omitempty"`
	TeacherDeletedAt gorm.DeletedAt `gorm:"column:teacher_deleted_at;index" json:"teacher_deleted_at,omitempty"`
}

func (TeacherModel) TableName() string { return "teachers" }
