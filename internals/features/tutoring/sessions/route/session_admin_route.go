package route

import (
	"github.com/gofiber/fiber/v2"

	sessCtrl "tutorku_backend/internals/features/tutoring/sessions/controller"
	"tutorku_backend/internals/features/tutoring/sessions/service"
)

// SessionAdminRoutes mendaftarkan CRUD sesi sisi admin.
func SessionAdminRoutes(r fiber.Router, repo *service.GormSessionRepository) {
	ctrl := sessCtrl.NewSessionAdminController(repo)

	r.Delete("/sessions", ctrl.BulkDelete)
}
