package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pm "tutorku_backend/internals/features/payroll/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type GeneratePayoutRequest struct {
	// Hard precondition: bukti transfer wajib diupload dulu
	ReceiptUrl string `json:"receipt_url" validate:"required,url"`

	From *string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   *string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

// PayrollRow: satu baris ringkasan per teacher.
type PayrollRow struct {
	TeacherId     uuid.UUID       `json:"teacher_id"`
	TeacherName   string          `json:"teacher_name"`
	TeacherEmail  string          `json:"teacher_email"`
	PhotoUrl      *string         `json:"photo_url,omitempty"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	Paid          bool            `json:"paid"`
}

type PayrollSummaryResponse struct {
	Rows []PayrollRow `json:"rows"`

	TotalPayrollPaid     decimal.Decimal `json:"total_payroll_paid"`
	NumberPendingPayroll int             `json:"number_pending_payroll"`
}

type PayoutReportResponse struct {
	PayoutReportId        uuid.UUID       `json:"payout_report_id"`
	PayoutReportTeacherId uuid.UUID       `json:"payout_report_teacher_id"`
	PayoutReportTotal     decimal.Decimal `json:"payout_report_total"`

	PayoutReportPeriodFrom *time.Time `json:"payout_report_period_from,omitempty"`
	PayoutReportPeriodTo   *time.Time `json:"payout_report_period_to,omitempty"`

	PayoutReportReceiptUrl string `json:"payout_report_receipt_url"`
	PayoutReportPdfUrl     string `json:"payout_report_pdf_url"`

	PayoutReportSessionsMarkedPaid bool      `json:"payout_report_sessions_marked_paid"`
	PayoutReportCreatedAt          time.Time `json:"payout_report_created_at"`
}

func NewPayoutReportResponse(mdl pm.PayoutReportModel) PayoutReportResponse {
	return PayoutReportResponse{
		PayoutReportId:                 mdl.PayoutReportId,
		PayoutReportTeacherId:          mdl.PayoutReportTeacherId,
		PayoutReportTotal:              mdl.PayoutReportTotal,
		PayoutReportPeriodFrom:         mdl.PayoutReportPeriodFrom,
		PayoutReportPeriodTo:           mdl.PayoutReportPeriodTo,
		PayoutReportReceiptUrl:         mdl.PayoutReportReceiptUrl,
		PayoutReportPdfUrl:             mdl.PayoutReportPdfUrl,
		PayoutReportSessionsMarkedPaid: mdl.PayoutReportSessionsMarkedPaid,
		PayoutReportCreatedAt:          mdl.PayoutReportCreatedAt,
	}
}

func NewPayoutReportResponses(models []pm.PayoutReportModel) []PayoutReportResponse {
	out := make([]PayoutReportResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewPayoutReportResponse(mdl))
	}
	return out
}
