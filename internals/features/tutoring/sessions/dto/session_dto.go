// file: internals/features/tutoring/sessions/dto/session_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	m "tutorku_backend/internals/features/tutoring/sessions/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Start (JSON)
type StartSessionRequest struct {
	SessionClassType string `json:"session_class_type" validate:"required,max=40"`

	// Hanya dipakai kalau profil mengizinkan custom duration.
	// Harus ≥ durasi dasar profil dan kelipatan 5 menit.
	SessionCustomMinutes *int `json:"session_custom_minutes" validate:"omitempty,min=1,max=600"`
}

// Filter / List (query)
type FilterSessionsRequest struct {
	From *string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   *string `query:"to" validate:"omitempty,datetime=2006-01-02"`

	Page  *int `query:"page" validate:"omitempty,min=1"`
	Limit *int `query:"limit" validate:"omitempty,min=1,max=200"`
}

// Bulk delete (admin)
type BulkDeleteSessionsRequest struct {
	SessionIds []uuid.UUID `json:"session_ids" validate:"required,min=1"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type SessionResponse struct {
	SessionId        uuid.UUID `json:"session_id"`
	SessionTeacherId uuid.UUID `json:"session_teacher_id"`
	SessionClassType string    `json:"session_class_type"`

	SessionRate                decimal.Decimal `json:"session_rate"`
	SessionBaseDurationMinutes int             `json:"session_base_duration_minutes"`

	SessionDurationSeconds int        `json:"session_duration_seconds"`
	SessionStartTime       time.Time  `json:"session_start_time"`
	SessionEndTime         *time.Time `json:"session_end_time,omitempty"`

	SessionStatus string `json:"session_status"`

	SessionTotalEarnings  decimal.Decimal  `json:"session_total_earnings"`
	SessionActualDuration *int             `json:"session_actual_duration,omitempty"`
	SessionActualEarnings *decimal.Decimal `json:"session_actual_earnings,omitempty"`
	SessionHalfPay        bool             `json:"session_half_pay"`

	// Satu angka yang dipakai downstream (actual menang atas proyeksi).
	SessionEffectiveEarnings decimal.Decimal `json:"session_effective_earnings"`

	SessionScreenshotUrl  *string `json:"session_screenshot_url,omitempty"`
	SessionScreenshotName *string `json:"session_screenshot_name,omitempty"`

	// Terisi hanya untuk sesi aktif: elapsed dihitung ulang dari start_time.
	SessionElapsedSeconds *int `json:"session_elapsed_seconds,omitempty"`

	SessionCreatedAt time.Time `json:"session_created_at"`
}

func NewSessionResponse(mdl m.SessionModel) SessionResponse {
	return SessionResponse{
		SessionId:                  mdl.SessionId,
		SessionTeacherId:           mdl.SessionTeacherId,
		SessionClassType:           mdl.SessionClassType,
		SessionRate:                mdl.SessionRate,
		SessionBaseDurationMinutes: mdl.SessionBaseDurationMinutes,
		SessionDurationSeconds:     mdl.SessionDurationSeconds,
		SessionStartTime:           mdl.SessionStartTime,
		SessionEndTime:             mdl.SessionEndTime,
		SessionStatus:              mdl.SessionStatus,
		SessionTotalEarnings:       mdl.SessionTotalEarnings,
		SessionActualDuration:      mdl.SessionActualDuration,
		SessionActualEarnings:      mdl.SessionActualEarnings,
		SessionHalfPay:             mdl.SessionHalfPay,
		SessionEffectiveEarnings:   mdl.EffectiveEarnings(),
		SessionScreenshotUrl:       mdl.SessionScreenshotUrl,
		SessionScreenshotName:      mdl.SessionScreenshotName,
		SessionCreatedAt:           mdl.SessionCreatedAt,
	}
}

func NewSessionResponseWithElapsed(mdl m.SessionModel, elapsedSeconds int) SessionResponse {
	resp := NewSessionResponse(mdl)
	resp.SessionElapsedSeconds = &elapsedSeconds
	return resp
}

func NewSessionResponses(models []m.SessionModel) []SessionResponse {
	out := make([]SessionResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewSessionResponse(mdl))
	}
	return out
}
