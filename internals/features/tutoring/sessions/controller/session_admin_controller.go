package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"tutorku_backend/internals/features/tutoring/sessions/dto"
	"tutorku_backend/internals/features/tutoring/sessions/service"
	helper "tutorku_backend/internals/helpers"
)

// SessionAdminController: CRUD sesi sisi admin (di luar state machine).
type SessionAdminController struct {
	Repo *service.GormSessionRepository
}

func NewSessionAdminController(repo *service.GormSessionRepository) *SessionAdminController {
	return &SessionAdminController{Repo: repo}
}

// DELETE /sessions
func (ctrl *SessionAdminController) BulkDelete(c *fiber.Ctx) error {
	var req dto.BulkDeleteSessionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	deleted, err := ctrl.Repo.BulkDelete(c.UserContext(), req.SessionIds)
	if err != nil {
		return err
	}

	log.Printf("[SESSION][ADMIN] 🗑️ bulk delete %d sesi", deleted)
	return helper.Success(c, "Sesi berhasil dihapus", fiber.Map{
		"deleted": deleted,
	})
}
