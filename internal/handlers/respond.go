package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/heartlinkapp/heartlink/internal/apperr"
)

// fail serializes any service error into the {success:false, message} envelope
// with the status its kind maps to.
func fail(c *fiber.Ctx, err error, dev bool) error {
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{
		"success": false,
		"message": apperr.Message(err, dev),
	})
}
