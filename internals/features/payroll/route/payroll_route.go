package route

import (
	"github.com/gofiber/fiber/v2"

	payrollCtrl "tutorku_backend/internals/features/payroll/controller"
	"tutorku_backend/internals/features/payroll/service"
	helperOSS "tutorku_backend/internals/helpers/oss"
	"tutorku_backend/internals/middlewares"
)

// PayrollAdminRoutes mendaftarkan endpoint payroll & payout (admin only —
// guard role dipasang di router induk).
func PayrollAdminRoutes(r fiber.Router, svc *service.PayoutService, blob helperOSS.BlobService) {
	ctrl := payrollCtrl.NewPayrollController(svc, blob)

	pGroup := r.Group("/payroll")

	// =====================
	// Ringkasan & drill-down
	// =====================
	pGroup.Get("/", ctrl.Summary)
	pGroup.Get("/:teacher_id/sessions", ctrl.TeacherSessions)

	// =====================
	// Payout workflow
	// =====================
	pGroup.Post("/:teacher_id/receipt", middlewares.UploadRateLimiter(), ctrl.UploadReceipt)
	pGroup.Post("/:teacher_id/payout", ctrl.GeneratePayout)

	// =====================
	// Reports
	// =====================
	pGroup.Get("/reports", ctrl.ListReports)
	pGroup.Post("/reports/:id/mark-paid", ctrl.RetryMarkPaid)
}
