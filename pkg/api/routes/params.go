package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

func badRequest(c *fiber.Ctx, message string) error {
	c.Status(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": message,
	})
}

// reduced marshals value with the basic group only, or with the detailed group as well when
// the request asks for detail=full
func reduced(c *fiber.Ctx, value interface{}) error {
	groups := []string{"basic"}
	if c.Query("detail") == "full" {
		groups = append(groups, "detailed")
	}

	valueReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, value)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce response",
		})
	}

	return c.JSON(valueReduced)
}
