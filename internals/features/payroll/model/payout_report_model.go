package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PayoutReportModel: jejak satu aksi payout. Laporan PDF-nya sendiri hidup di
// blob storage; row ini yang bikin kondisi "laporan sudah jadi tapi mark-paid
// gagal" bisa di-retry (sessions_marked_paid=false).
type PayoutReportModel struct {
	PayoutReportId uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:payout_report_id" json:"payout_report_id"`

	PayoutReportTeacherId uuid.UUID       `gorm:"type:uuid;not null;index;column:payout_report_teacher_id" json:"payout_report_teacher_id"`
	PayoutReportTotal     decimal.Decimal `gorm:"type:numeric(12,2);not null;column:payout_report_total" json:"payout_report_total"`

	PayoutReportPeriodFrom *time.Time `gorm:"column:payout_report_period_from" json:"payout_report_period_from,omitempty"`
	PayoutReportPeriodTo   *time.Time `gorm:"column:payout_report_period_to" json:"payout_report_period_to,omitempty"`

	PayoutReportReceiptUrl string `gorm:"not null;column:payout_report_receipt_url" json:"payout_report_receipt_url"`
	PayoutReportPdfUrl     string `gorm:"not null;column:payout_report_pdf_url" json:"payout_report_pdf_url"`

	PayoutReportSessionsMarkedPaid bool `gorm:"not null;default:false;column:payout_report_sessions_marked_paid" json:"payout_report_sessions_marked_paid"`

	PayoutReportMetadata datatypes.JSON `gorm:"type:jsonb;column:payout_report_metadata" json:"payout_report_metadata,omitempty"`

	PayoutReportCreatedAt time.Time `gorm:"column:payout_report_created_at;autoCreateTime" json:"payout_report_created_at"`
}

func (PayoutReportModel) TableName() string { return "payout_reports" }
