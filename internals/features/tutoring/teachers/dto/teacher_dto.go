package dto

import (
	"time"

	"github.com/google/uuid"

	m "tutorku_backend/internals/features/tutoring/teachers/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CreateTeacherRequest struct {
	TeacherName     string `json:"teacher_name" validate:"required,max=100"`
	TeacherEmail    string `json:"teacher_email" validate:"required,email,max=120"`
	TeacherPassword string `json:"teacher_password" validate:"required,min=8,max=72"`
	TeacherRole     string `json:"teacher_role" validate:"omitempty,oneof=teacher admin"`
}

// Update (partial JSON)
type UpdateTeacherRequest struct {
	TeacherName     *string `json:"teacher_name" validate:"omitempty,max=100"`
	TeacherEmail    *string `json:"teacher_email" validate:"omitempty,email,max=120"`
	TeacherPhotoUrl *string `json:"teacher_photo_url" validate:"omitempty,url"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GenerateQrRequest: kalau teacher belum punya gambar QR, bisa digenerate
// dari string pembayaran (nomor rekening / payload e-wallet).
type GenerateQrRequest struct {
	PaymentString string `json:"payment_string" validate:"required,max=500"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type TeacherResponse struct {
	TeacherId           uuid.UUID `json:"teacher_id"`
	TeacherName         string    `json:"teacher_name"`
	TeacherEmail        string    `json:"teacher_email"`
	TeacherRole         string    `json:"teacher_role"`
	TeacherPhotoUrl     *string   `json:"teacher_photo_url,omitempty"`
	TeacherPaymentQrUrl *string   `json:"teacher_payment_qr_url,omitempty"`
	TeacherCreatedAt    time.Time `json:"teacher_created_at"`
}

func NewTeacherResponse(mdl m.TeacherModel) TeacherResponse {
	return TeacherResponse{
		TeacherId:           mdl.TeacherId,
		TeacherName:         mdl.TeacherName,
		TeacherEmail:        mdl.TeacherEmail,
		TeacherRole:         mdl.TeacherRole,
		TeacherPhotoUrl:     mdl.TeacherPhotoUrl,
		TeacherPaymentQrUrl: mdl.TeacherPaymentQrUrl,
		TeacherCreatedAt:    mdl.TeacherCreatedAt,
	}
}

func NewTeacherResponses(models []m.TeacherModel) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewTeacherResponse(mdl))
	}
	return out
}
