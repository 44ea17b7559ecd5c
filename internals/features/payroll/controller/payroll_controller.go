package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tutorku_backend/internals/features/payroll/dto"
	"tutorku_backend/internals/features/payroll/service"
	sessDto "tutorku_backend/internals/features/tutoring/sessions/dto"
	helper "tutorku_backend/internals/helpers"
	helperOSS "tutorku_backend/internals/helpers/oss"
)

var validate = validator.New()

type PayrollController struct {
	Service *service.PayoutService
	Blob    helperOSS.BlobService
}

func NewPayrollController(svc *service.PayoutService, blob helperOSS.BlobService) *PayrollController {
	return &PayrollController{Service: svc, Blob: blob}
}

/* ===================== SUMMARY ===================== */
// GET /payroll
func (ctrl *PayrollController) Summary(c *fiber.Ctx) error {
	out, err := ctrl.Service.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return helper.Success(c, "Ringkasan payroll", out)
}

/* ===================== DRILL-DOWN ===================== */
// GET /payroll/:teacher_id/sessions?from=YYYY-MM-DD&to=YYYY-MM-DD
func (ctrl *PayrollController) TeacherSessions(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacher_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "teacher_id tidak valid")
	}

	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sessions, err := ctrl.Service.TeacherSessions(c.UserContext(), teacherID, from, to)
	if err != nil {
		return err
	}
	return helper.Success(c, "Riwayat sesi teacher", sessDto.NewSessionResponses(sessions))
}

/* ===================== RECEIPT UPLOAD ===================== */
// POST /payroll/:teacher_id/receipt  (multipart: file/image/receipt)
func (ctrl *PayrollController) UploadReceipt(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacher_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "teacher_id tidak valid")
	}

	fh := helperOSS.TryGetImageFile(c, "file", "image", "receipt")
	if fh == nil {
		return fiber.NewError(fiber.StatusBadRequest, "File bukti transfer tidak ditemukan di form")
	}

	url, err := ctrl.Blob.UploadPayoutReceipt(c.UserContext(), teacherID, fh)
	if err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Bukti transfer terupload", fiber.Map{
		"receipt_url": url,
	})
}

/* ===================== GENERATE PAYOUT ===================== */
// POST /payroll/:teacher_id/payout
func (ctrl *PayrollController) GeneratePayout(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacher_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "teacher_id tidak valid")
	}

	var req dto.GeneratePayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctrl.Service.GeneratePayout(c.UserContext(), teacherID, req)
	if err == service.ErrMarkPaidFailed {
		// Report sudah tersimpan; kasih tahu admin supaya bisa retry.
		return helper.ErrorWithDetails(c, fiber.StatusInternalServerError, err.Error(), fiber.Map{
			"report": dto.NewPayoutReportResponse(res.Report),
		})
	}
	if err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Payout berhasil", dto.NewPayoutReportResponse(res.Report))
}

/* ===================== REPORTS ===================== */
// GET /payroll/reports
func (ctrl *PayrollController) ListReports(c *fiber.Ctx) error {
	reports, err := ctrl.Service.ListReports(c.UserContext())
	if err != nil {
		return err
	}
	return helper.Success(c, "Daftar payout report", dto.NewPayoutReportResponses(reports))
}

// POST /payroll/reports/:id/mark-paid
func (ctrl *PayrollController) RetryMarkPaid(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id report tidak valid")
	}

	report, err := ctrl.Service.RetryMarkPaid(c.UserContext(), reportID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Status paid berhasil diupdate", dto.NewPayoutReportResponse(report))
}

func parseDateRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != "" {
		v, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Format 'from' harus YYYY-MM-DD")
		}
		from = &v
	}
	if toStr != "" {
		v, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Format 'to' harus YYYY-MM-DD")
		}
		to = &v
	}
	return from, to, nil
}
