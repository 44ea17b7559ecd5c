package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	payrollRoute "tutorku_backend/internals/features/payroll/route"
	payrollSvc "tutorku_backend/internals/features/payroll/service"
	sessRoute "tutorku_backend/internals/features/tutoring/sessions/route"
	sessSvc "tutorku_backend/internals/features/tutoring/sessions/service"
	teacherRoute "tutorku_backend/internals/features/tutoring/teachers/route"
	helperOSS "tutorku_backend/internals/helpers/oss"
	authMw "tutorku_backend/internals/middlewares/auth"
)

// SetupRoutes menyusun seluruh route aplikasi:
//
//	/api      → publik (login)
//	/api/t/*  → teacher (JWT + role teacher/admin)
//	/api/a/*  → admin   (JWT + role admin)
func SetupRoutes(app *fiber.App, db *gorm.DB, sessionSvc *sessSvc.SessionService, blob helperOSS.BlobService) {
	api := app.Group("/api")

	// =========================
	// 🌐 Public
	// =========================
	log.Println("[ROUTE] 🌐 register public routes")
	teacherRoute.TeacherPublicRoutes(api, db, blob)

	// =========================
	// 👩‍🏫 Teacher area
	// =========================
	log.Println("[ROUTE] 👩‍🏫 register teacher routes (/api/t)")
	teacherArea := api.Group("/t", authMw.AuthMiddleware(), authMw.OnlyTeacher())
	teacherRoute.TeacherSelfRoutes(teacherArea, db, blob)
	sessRoute.SessionTeacherRoutes(teacherArea, sessionSvc, blob)

	// =========================
	// 🛡️ Admin area
	// =========================
	log.Println("[ROUTE] 🛡️ register admin routes (/api/a)")
	adminArea := api.Group("/a", authMw.AuthMiddleware(), authMw.OnlyAdmin())
	teacherRoute.TeacherAdminRoutes(adminArea, db, blob)
	sessRoute.SessionAdminRoutes(adminArea, sessSvc.NewGormSessionRepository(db))

	payoutSvc := payrollSvc.NewPayoutService(payrollSvc.NewGormPayrollStore(db), blob)
	payrollRoute.PayrollAdminRoutes(adminArea, payoutSvc, blob)
}
