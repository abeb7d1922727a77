package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) GetAchievements(c *fiber.Ctx) error {
	achievements, err := handler.achievements.List()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load achievements")
	}
	return c.JSON(fiber.Map{"achievements": achievements})
}
