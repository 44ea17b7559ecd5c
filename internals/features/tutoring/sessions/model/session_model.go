package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status sesi. Transisi valid:
// ongoing → awaiting_screenshot (timeout / stop manual / half-pay)
// awaiting_screenshot → completed (screenshot terupload)
// completed → paid (payout admin)
// ongoing → (deleted) lewat cancel
const (
	SessionStatusOngoing             = "ongoing"
	SessionStatusAwaitingScreenshot  = "awaiting_screenshot"
	SessionStatusCompleted           = "completed"
	SessionStatusPaid                = "paid"
)

type SessionModel struct {
	SessionId uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:session_id" json:"session_id"`

	SessionTeacherId uuid.UUID `gorm:"type:uuid;not null;index;column:session_teacher_id" json:"session_teacher_id"`
	SessionClassType string    `gorm:"type:varchar(40);not null;column:session_class_type" json:"session_class_type"`

	// Snapshot rate profil saat start — tidak ikut berubah kalau konfigurasi
	// profil berubah belakangan.
	SessionRate                decimal.Decimal `gorm:"type:numeric(12,2);not null;column:session_rate" json:"session_rate"`
	SessionBaseDurationMinutes int             `gorm:"not null;column:session_base_duration_minutes" json:"session_base_duration_minutes"`

	SessionDurationSeconds int        `gorm:"not null;column:session_duration_seconds" json:"session_duration_seconds"`
	SessionStartTime       time.Time  `gorm:"not null;column:session_start_time" json:"session_start_time"`
	SessionEndTime         *time.Time `gorm:"column:session_end_time" json:"session_end_time,omitempty"`

	SessionStatus string `gorm:"type:varchar(24);not null;default:ongoing;index;column:session_status" json:"session_status"`

	// Proyeksi earnings dari durasi rencana (dibulatkan 2dp saat persist).
	SessionTotalEarnings decimal.Decimal `gorm:"type:numeric(12,2);not null;column:session_total_earnings" json:"session_total_earnings"`

	// Terisi hanya di jalur stop manual / half-pay.
	SessionActualDuration *int             `gorm:"column:session_actual_duration" json:"session_actual_duration,omitempty"`
	SessionActualEarnings *decimal.Decimal `gorm:"type:numeric(12,2);column:session_actual_earnings" json:"session_actual_earnings,omitempty"`
	SessionHalfPay        bool             `gorm:"not null;default:false;column:session_half_pay" json:"session_half_pay"`

	SessionScreenshotUrl  *string `gorm:"column:session_screenshot_url" json:"session_screenshot_url,omitempty"`
	SessionScreenshotName *string `gorm:"column:session_screenshot_name" json:"session_screenshot_name,omitempty"`

	SessionCreatedAt time.Time  `gorm:"column:session_created_at;autoCreateTime" json:"session_created_at"`
	SessionUpdatedAt *time.Time `gorm:"column:session_updated_at;autoUpdateTime" json:"session_updated_at,omitempty"`
}

func (SessionModel) TableName() string { return "sessions" }

// IsActive: sesi yang masih "dimiliki" teacher (timer jalan atau nunggu bukti).
func (m SessionModel) IsActive() bool {
	return m.SessionStatus == SessionStatusOngoing || m.SessionStatus == SessionStatusAwaitingScreenshot
}

// IsPayable: sudah selesai tapi belum dibayar.
func (m SessionModel) IsPayable() bool {
	return m.SessionStatus == SessionStatusCompleted
}

// EffectiveEarnings: satu field earnings yang dipakai downstream —
// actual (stop manual / half-pay) menang atas proyeksi.
func (m SessionModel) EffectiveEarnings() decimal.Decimal {
	if m.SessionActualEarnings != nil {
		return *m.SessionActualEarnings
	}
	return m.SessionTotalEarnings
}
