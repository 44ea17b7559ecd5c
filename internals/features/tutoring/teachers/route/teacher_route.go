package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	teacherCtrl "tutorku_backend/internals/features/tutoring/teachers/controller"
	helperOSS "tutorku_backend/internals/helpers/oss"
	"tutorku_backend/internals/middlewares"
)

// TeacherPublicRoutes: login (rate-limited ketat).
func TeacherPublicRoutes(r fiber.Router, db *gorm.DB, blob helperOSS.BlobService) {
	ctrl := teacherCtrl.NewTeacherController(db, blob)
	r.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
}

// TeacherSelfRoutes: profil teacher yang sedang login.
func TeacherSelfRoutes(r fiber.Router, db *gorm.DB, blob helperOSS.BlobService) {
	ctrl := teacherCtrl.NewTeacherController(db, blob)
	r.Get("/profile", ctrl.MyProfile)
}

// TeacherAdminRoutes: CRUD teacher + QR pembayaran (admin).
func TeacherAdminRoutes(r fiber.Router, db *gorm.DB, blob helperOSS.BlobService) {
	ctrl := teacherCtrl.NewTeacherController(db, blob)

	tGroup := r.Group("/teachers")
	tGroup.Get("/", ctrl.List)
	tGroup.Post("/", ctrl.Create)
	tGroup.Get("/:id", ctrl.GetByID)
	tGroup.Patch("/:id", ctrl.Update)
	tGroup.Delete("/:id", ctrl.Delete)
	tGroup.Post("/:id/qr", middlewares.UploadRateLimiter(), ctrl.UpsertPaymentQr)
}
