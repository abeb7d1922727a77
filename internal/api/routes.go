package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	medications := api.Group("/medications")
	medications.Get("", handler.GetMedications)
	medications.Post("", handler.CreateMedication)
	medications.Get("/:id", handler.GetMedication)
	medications.Put("/:id", handler.UpdateMedication)
	medications.Delete("/:id", handler.DeleteMedication)
	medications.Post("/:id/doses", handler.LogDose)
	medications.Get("/:id/history", handler.GetMedicationHistory)
	medications.Get("/:id/dashboard", handler.GetMedicationDashboard)

	api.Post("/notifications/callback", handler.ReminderCallback)

	api.Get("/history", handler.GetHistory)

	stats := api.Group("/stats")
	stats.Get("/report", handler.GetReport)
	stats.Get("/daily", handler.GetDailyAdherence)

	api.Get("/dashboard", handler.GetDashboard)
	api.Get("/achievements", handler.GetAchievements)
}
