package route

import (
	"github.com/gofiber/fiber/v2"

	sessCtrl "tutorku_backend/internals/features/tutoring/sessions/controller"
	"tutorku_backend/internals/features/tutoring/sessions/service"
	helperOSS "tutorku_backend/internals/helpers/oss"
	"tutorku_backend/internals/middlewares"
)

// SessionTeacherRoutes mendaftarkan endpoint timer/billing sesi (teacher).
func SessionTeacherRoutes(r fiber.Router, svc *service.SessionService, blob helperOSS.BlobService) {
	ctrl := sessCtrl.NewSessionController(svc, blob)

	// =====================
	// Class Profiles (kartu kelas)
	// =====================
	r.Get("/class-profiles", ctrl.ListClassProfiles)

	// =====================
	// Sessions (state machine)
	// =====================
	sGroup := r.Group("/sessions")
	sGroup.Get("/", ctrl.ListMine)
	sGroup.Post("/", ctrl.Start)
	sGroup.Get("/active", ctrl.Active)
	sGroup.Post("/:id/stop", ctrl.Stop)
	sGroup.Post("/:id/half-pay", ctrl.HalfPay)
	sGroup.Post("/:id/cancel", ctrl.Cancel)
	sGroup.Post("/:id/screenshot", middlewares.UploadRateLimiter(), ctrl.UploadScreenshot)
	sGroup.Get("/:id/screenshot-progress", ctrl.ScreenshotProgress)
}
