package auth

import (
	"github.com/gofiber/fiber/v2"

	"tutorku_backend/internals/constants"
)

// OnlyRoles menolak request jika role di Locals tidak termasuk daftar.
func OnlyRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if _, ok := allowed[role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, "Akses ditolak untuk role ini")
		}
		return c.Next()
	}
}

func OnlyAdmin() fiber.Handler   { return OnlyRoles(constants.RoleAdmin) }
func OnlyTeacher() fiber.Handler { return OnlyRoles(constants.RoleTeacher, constants.RoleAdmin) }
