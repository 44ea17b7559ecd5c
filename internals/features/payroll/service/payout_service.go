package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tutorku_backend/internals/features/payroll/dto"
	pm "tutorku_backend/internals/features/payroll/model"
	sm "tutorku_backend/internals/features/tutoring/sessions/model"
	helper "tutorku_backend/internals/helpers"
	helperOSS "tutorku_backend/internals/helpers/oss"
)

// PayoutService: orkestrasi payout per teacher.
//
// Urutan GeneratePayout disusun supaya semua langkah yang bisa gagal karena
// input (gambar rusak, QR belum ada, tidak ada yang payable) terjadi SEBELUM
// ada mutasi. Setelah report tercatat, satu-satunya kegagalan yang tersisa
// adalah mark-paid — dan itu tidak pernah ditelan diam-diam: report disimpan
// dengan sessions_marked_paid=false dan caller dapat ErrMarkPaidFailed.
type PayoutService struct {
	Store PayrollStore
	Blob  helperOSS.BlobService
}

func NewPayoutService(store PayrollStore, blob helperOSS.BlobService) *PayoutService {
	return &PayoutService{Store: store, Blob: blob}
}

// Summary menghitung ringkasan payroll semua teacher dari snapshot sessions.
func (s *PayoutService) Summary(ctx context.Context) (dto.PayrollSummaryResponse, error) {
	sessions, err := s.Store.ListAllSessions(ctx)
	if err != nil {
		return dto.PayrollSummaryResponse{}, err
	}
	teachers, err := s.Store.ListTeachers(ctx)
	if err != nil {
		return dto.PayrollSummaryResponse{}, err
	}
	return Aggregate(sessions, teachers), nil
}

// TeacherSessions: drill-down riwayat session satu teacher (untuk layar
// detail payroll admin).
func (s *PayoutService) TeacherSessions(ctx context.Context, teacherID uuid.UUID, from, to *time.Time) ([]sm.SessionModel, error) {
	if _, err := s.Store.GetTeacher(ctx, teacherID); err != nil {
		return nil, err
	}
	return s.Store.ListTeacherSessions(ctx, teacherID, from, to)
}

type GeneratePayoutResult struct {
	Report pm.PayoutReportModel
	// MarkPaidErr != nil berarti report sudah tersimpan tapi transisi
	// completed→paid gagal. Ditantang ke caller, bukan disembunyikan.
	MarkPaidErr error
}

// GeneratePayout menjalankan payout penuh untuk satu teacher:
//
//  1. precondition: receipt URL wajib (tidak ada mutasi tanpanya)
//  2. teacher harus punya payment QR
//  3. harus ada minimal satu session completed (payable)
//  4. unduh + normalisasi QR & receipt ke PNG — gagal di sini = abort bersih
//  5. render PDF, upload ke blob storage
//  6. catat PayoutReportModel (sessions_marked_paid=false)
//  7. mark completed→paid; sukses → flip flag, gagal → ErrMarkPaidFailed
func (s *PayoutService) GeneratePayout(ctx context.Context, teacherID uuid.UUID, req dto.GeneratePayoutRequest) (GeneratePayoutResult, error) {
	if req.ReceiptUrl == "" {
		return GeneratePayoutResult{}, ErrReceiptRequired
	}

	teacher, err := s.Store.GetTeacher(ctx, teacherID)
	if err != nil {
		return GeneratePayoutResult{}, err
	}
	if teacher.TeacherPaymentQrUrl == nil || *teacher.TeacherPaymentQrUrl == "" {
		return GeneratePayoutResult{}, ErrTeacherQrMissing
	}

	from, to, err := parsePeriod(req.From, req.To)
	if err != nil {
		return GeneratePayoutResult{}, err
	}

	sessions, err := s.Store.ListTeacherSessions(ctx, teacherID, from, to)
	if err != nil {
		return GeneratePayoutResult{}, err
	}
	total := decimal.Zero
	payable := 0
	for _, ss := range sessions {
		if ss.IsPayable() {
			total = total.Add(ss.EffectiveEarnings())
			payable++
		}
	}
	if payable == 0 {
		return GeneratePayoutResult{}, ErrNothingPayable
	}
	total = total.Round(2)

	// Kedua gambar dinormalisasi dulu. Kalau salah satu gagal, belum ada
	// yang berubah di DB maupun blob storage.
	qrPNG, err := s.fetchAsPNG(ctx, *teacher.TeacherPaymentQrUrl)
	if err != nil {
		log.Printf("[PAYOUT] ❌ QR teacher %s tidak bisa diproses: %v", teacherID, err)
		return GeneratePayoutResult{}, ErrImageUnusable
	}
	receiptPNG, err := s.fetchAsPNG(ctx, req.ReceiptUrl)
	if err != nil {
		log.Printf("[PAYOUT] ❌ receipt teacher %s tidak bisa diproses: %v", teacherID, err)
		return GeneratePayoutResult{}, ErrImageUnusable
	}

	pdfBytes, err := BuildPayoutPDF(teacher.TeacherName, total, periodLabel(from, to), qrPNG, receiptPNG)
	if err != nil {
		return GeneratePayoutResult{}, err
	}

	filename := fmt.Sprintf("payout-%s.pdf", time.Now().Format("20060102-150405"))
	pdfURL, err := s.Blob.UploadReportPDF(ctx, teacherID, filename, pdfBytes)
	if err != nil {
		return GeneratePayoutResult{}, err
	}

	report := pm.PayoutReportModel{
		PayoutReportTeacherId:          teacherID,
		PayoutReportTotal:              total,
		PayoutReportPeriodFrom:         from,
		PayoutReportPeriodTo:           to,
		PayoutReportReceiptUrl:         req.ReceiptUrl,
		PayoutReportPdfUrl:             pdfURL,
		PayoutReportSessionsMarkedPaid: false,
	}
	if err := s.Store.CreateReport(ctx, &report); err != nil {
		return GeneratePayoutResult{}, err
	}

	if _, err := s.Store.MarkSessionsPaid(ctx, teacherID); err != nil {
		log.Printf("[PAYOUT] ⚠️ report %s tersimpan tapi mark-paid gagal: %v", report.PayoutReportId, err)
		return GeneratePayoutResult{Report: report, MarkPaidErr: err}, ErrMarkPaidFailed
	}
	if err := s.Store.SetReportMarked(ctx, report.PayoutReportId); err != nil {
		// Session sudah paid; hanya flag report yang tertinggal. Retry
		// endpoint akan merapikan (MarkSessionsPaid idempotent).
		log.Printf("[PAYOUT] ⚠️ gagal set flag marked untuk report %s: %v", report.PayoutReportId, err)
		return GeneratePayoutResult{Report: report, MarkPaidErr: err}, ErrMarkPaidFailed
	}
	report.PayoutReportSessionsMarkedPaid = true

	log.Printf("[PAYOUT] ✅ payout teacher %s total %s (%d session)", teacherID, total.StringFixed(2), payable)
	return GeneratePayoutResult{Report: report}, nil
}

// RetryMarkPaid mengulang transisi completed→paid untuk report yang
// tercatat dengan sessions_marked_paid=false. Idempotent.
func (s *PayoutService) RetryMarkPaid(ctx context.Context, reportID uuid.UUID) (pm.PayoutReportModel, error) {
	report, err := s.Store.GetReport(ctx, reportID)
	if err != nil {
		return pm.PayoutReportModel{}, err
	}
	if report.PayoutReportSessionsMarkedPaid {
		return report, ErrAlreadyMarkedPaid
	}
	if _, err := s.Store.MarkSessionsPaid(ctx, report.PayoutReportTeacherId); err != nil {
		return report, ErrMarkPaidFailed
	}
	if err := s.Store.SetReportMarked(ctx, report.PayoutReportId); err != nil {
		return report, ErrMarkPaidFailed
	}
	report.PayoutReportSessionsMarkedPaid = true
	log.Printf("[PAYOUT] ✅ retry mark-paid sukses untuk report %s", reportID)
	return report, nil
}

func (s *PayoutService) ListReports(ctx context.Context) ([]pm.PayoutReportModel, error) {
	return s.Store.ListReports(ctx)
}

func (s *PayoutService) fetchAsPNG(ctx context.Context, publicURL string) ([]byte, error) {
	raw, err := s.Blob.FetchBytes(ctx, publicURL)
	if err != nil {
		return nil, err
	}
	return helper.NormalizeToPNG(raw, publicURL)
}

func parsePeriod(from, to *string) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if from != nil && *from != "" {
		v, err := time.Parse("2006-01-02", *from)
		if err != nil {
			return nil, nil, fmt.Errorf("format tanggal 'from' tidak valid: %w", err)
		}
		f = &v
	}
	if to != nil && *to != "" {
		v, err := time.Parse("2006-01-02", *to)
		if err != nil {
			return nil, nil, fmt.Errorf("format tanggal 'to' tidak valid: %w", err)
		}
		t = &v
	}
	return f, t, nil
}

func periodLabel(from, to *time.Time) string {
	switch {
	case from != nil && to != nil:
		return from.Format("02 Jan 2006") + " - " + to.Format("02 Jan 2006")
	case from != nil:
		return "sejak " + from.Format("02 Jan 2006")
	case to != nil:
		return "s/d " + to.Format("02 Jan 2006")
	default:
		return ""
	}
}
