package controller

import (
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	classprofile "tutorku_backend/internals/features/tutoring/class_profiles"
	"tutorku_backend/internals/features/tutoring/sessions/dto"
	"tutorku_backend/internals/features/tutoring/sessions/service"
	helper "tutorku_backend/internals/helpers"
	helperOSS "tutorku_backend/internals/helpers/oss"
	authMw "tutorku_backend/internals/middlewares/auth"
)

var validate = validator.New()

type SessionController struct {
	Service *service.SessionService
	Blob    helperOSS.BlobService

	// progress upload screenshot per sesi (0–100), dibaca lewat endpoint
	// terpisah selama upload berjalan
	progressMu sync.Mutex
	progress   map[uuid.UUID]int
}

func NewSessionController(svc *service.SessionService, blob helperOSS.BlobService) *SessionController {
	return &SessionController{
		Service:  svc,
		Blob:     blob,
		progress: make(map[uuid.UUID]int),
	}
}

/* ===================== CLASS PROFILES ===================== */
// GET /class-profiles
func (ctrl *SessionController) ListClassProfiles(c *fiber.Ctx) error {
	return helper.Success(c, "Daftar profil kelas", classprofile.List())
}

/* ===================== START ===================== */
// POST /sessions
func (ctrl *SessionController) Start(c *fiber.Ctx) error {
	teacherID, err := authMw.GetUserUUID(c)
	if err != nil {
		return err
	}

	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	mdl, err := ctrl.Service.Start(c.UserContext(), teacherID, req.SessionClassType, req.SessionCustomMinutes)
	if err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Sesi dimulai", dto.NewSessionResponseWithElapsed(mdl, 0))
}

/* ===================== ACTIVE (rekonstruksi) ===================== */
// GET /sessions/active
func (ctrl *SessionController) Active(c *fiber.Ctx) error {
	teacherID, err := authMw.GetUserUUID(c)
	if err != nil {
		return err
	}

	mdl, elapsed, err := ctrl.Service.Active(c.UserContext(), teacherID)
	if err != nil {
		return err
	}
	if mdl == nil {
		return helper.Success(c, "Tidak ada sesi aktif", nil)
	}
	return helper.Success(c, "Sesi aktif", dto.NewSessionResponseWithElapsed(*mdl, elapsed))
}

/* ===================== STOP MANUAL ===================== */
// POST /sessions/:id/stop
func (ctrl *SessionController) Stop(c *fiber.Ctx) error {
	teacherID, sessionID, err := ctrl.ownedIDs(c)
	if err != nil {
		return err
	}
	mdl, err := ctrl.Service.StopManual(c.UserContext(), teacherID, sessionID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Sesi dihentikan", dto.NewSessionResponse(mdl))
}

/* ===================== HALF-PAY ===================== */
// POST /sessions/:id/half-pay
func (ctrl *SessionController) HalfPay(c *fiber.Ctx) error {
	teacherID, sessionID, err := ctrl.ownedIDs(c)
	if err != nil {
		return err
	}
	mdl, err := ctrl.Service.HalfPay(c.UserContext(), teacherID, sessionID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Sesi dihentikan (half-pay)", dto.NewSessionResponse(mdl))
}

/* ===================== CANCEL ===================== */
// POST /sessions/:id/cancel
func (ctrl *SessionController) Cancel(c *fiber.Ctx) error {
	teacherID, sessionID, err := ctrl.ownedIDs(c)
	if err != nil {
		return err
	}
	if err := ctrl.Service.Cancel(c.UserContext(), teacherID, sessionID); err != nil {
		return err
	}
	return helper.Success(c, "Sesi dibatalkan", nil)
}

/* ===================== SCREENSHOT ===================== */
// POST /sessions/:id/screenshot (multipart)
func (ctrl *SessionController) UploadScreenshot(c *fiber.Ctx) error {
	teacherID, sessionID, err := ctrl.ownedIDs(c)
	if err != nil {
		return err
	}

	fh := helperOSS.TryGetImageFile(c, "file", "image", "screenshot")
	if fh == nil {
		return fiber.NewError(fiber.StatusBadRequest, "File screenshot tidak ditemukan")
	}
	if fh.Size > helperOSS.MaxUploadSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Ukuran file melebihi batas")
	}

	ctrl.setProgress(sessionID, 0)
	defer ctrl.clearProgress(sessionID)

	start := time.Now()
	url, name, err := ctrl.Blob.UploadSessionScreenshot(c.UserContext(), teacherID, fh, func(pct int) {
		ctrl.setProgress(sessionID, pct)
	})
	if err != nil {
		// status sesi tidak disentuh — teacher bisa retry dengan file yang
		// sama atau file lain
		log.Printf("[SESSION] upload screenshot gagal id=%s: %v", sessionID, err)
		return err
	}
	log.Printf("[SESSION] upload screenshot id=%s dur=%s", sessionID, time.Since(start))

	mdl, err := ctrl.Service.AttachScreenshot(c.UserContext(), teacherID, sessionID, url, name)
	if err != nil {
		return err
	}
	return helper.Success(c, "Screenshot terupload, sesi completed", dto.NewSessionResponse(mdl))
}

// GET /sessions/:id/screenshot-progress
func (ctrl *SessionController) ScreenshotProgress(c *fiber.Ctx) error {
	_, sessionID, err := ctrl.ownedIDs(c)
	if err != nil {
		return err
	}
	ctrl.progressMu.Lock()
	pct, ok := ctrl.progress[sessionID]
	ctrl.progressMu.Unlock()
	if !ok {
		return helper.Success(c, "Tidak ada upload berjalan", fiber.Map{"uploading": false})
	}
	return helper.Success(c, "Progress upload", fiber.Map{"uploading": true, "percent": pct})
}

/* ===================== LIST ===================== */
// GET /sessions?from=&to=&page=&limit=
func (ctrl *SessionController) ListMine(c *fiber.Ctx) error {
	teacherID, err := authMw.GetUserUUID(c)
	if err != nil {
		return err
	}

	var req dto.FilterSessionsRequest
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return err
	}

	p := helper.ParsePagination(c)
	models, total, err := ctrl.Service.ListByTeacher(c.UserContext(), teacherID, from, to, p.PerPage, p.Offset())
	if err != nil {
		return err
	}
	return helper.Success(c, "Daftar sesi", fiber.Map{
		"sessions":   dto.NewSessionResponses(models),
		"pagination": p.Meta(total),
	})
}

/* ===================== helpers ===================== */

func (ctrl *SessionController) ownedIDs(c *fiber.Ctx) (teacherID, sessionID uuid.UUID, err error) {
	teacherID, err = authMw.GetUserUUID(c)
	if err != nil {
		return
	}
	sessionID, err = uuid.Parse(c.Params("id"))
	if err != nil {
		err = fiber.NewError(fiber.StatusBadRequest, "session id tidak valid")
	}
	return
}

func (ctrl *SessionController) setProgress(id uuid.UUID, pct int) {
	ctrl.progressMu.Lock()
	ctrl.progress[id] = pct
	ctrl.progressMu.Unlock()
}

func (ctrl *SessionController) clearProgress(id uuid.UUID) {
	ctrl.progressMu.Lock()
	delete(ctrl.progress, id)
	ctrl.progressMu.Unlock()
}

func parseDateRange(fromStr, toStr *string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != nil && *fromStr != "" {
		t, err := time.Parse("2006-01-02", *fromStr)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "from harus format YYYY-MM-DD")
		}
		from = &t
	}
	if toStr != nil && *toStr != "" {
		t, err := time.Parse("2006-01-02", *toStr)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "to harus format YYYY-MM-DD")
		}
		to = &t
	}
	return from, to, nil
}
