package middleware

import (
	"storefront/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Session binds a fresh persistence session to every request, so all the
// repositories and the unit of work of one request share it.
func Session(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := database.NewSession(db)
		c.SetUserContext(database.WithSession(c.UserContext(), sess))
		return c.Next()
	}
}
