package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetReport(c *fiber.Ctx) error {
	days := parseDaysQuery(c.Query("days"), 7)
	report := handler.reports.BuildReport(time.Now().In(handler.location), days)
	return c.JSON(report)
}

func (handler *Handler) GetDailyAdherence(c *fiber.Ctx) error {
	day := time.Now().In(handler.location)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid date")
		}
		day = parsed
	}

	rate := handler.reports.DailyRate(day)
	return c.JSON(fiber.Map{
		"date":           day.Format("2006-01-02"),
		"adherence_rate": rate,
	})
}

func (handler *Handler) GetDashboard(c *fiber.Ctx) error {
	summary := handler.reports.BuildDashboard(time.Now().In(handler.location))
	return c.JSON(summary)
}

func (handler *Handler) GetMedicationDashboard(c *fiber.Ctx) error {
	id, err := parseIDParam(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid medication id")
	}

	summary := handler.reports.BuildMedicationDashboard(id, time.Now().In(handler.location))
	return c.JSON(summary)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
