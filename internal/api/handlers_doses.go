package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pillbox/internal/models"
	"github.com/terraincognita07/pillbox/internal/services"
)

func (handler *Handler) LogDose(c *fiber.Ctx) error {
	id, err := parseIDParam(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid medication id")
	}

	payload := dosePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	taken := true
	if payload.Taken != nil {
		taken = *payload.Taken
	}

	entry, err := handler.doses.LogDose(id, taken, payload.Notes, time.Now().In(handler.location))
	if err != nil {
		if errors.Is(err, services.ErrMedicationNotFound) {
			return apiError(c, fiber.StatusNotFound, "medication not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to log dose")
	}
	return c.Status(fiber.StatusCreated).JSON(historyEntryView(entry))
}

// ReminderCallback receives the notification subsystem's response payload.
// A TAKE action must always end up as a taken event in the log.
func (handler *Handler) ReminderCallback(c *fiber.Ctx) error {
	payload := reminderCallbackPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response := models.ReminderResponse{MedicationID: payload.MedicationID, Action: payload.Action}
	entry, err := handler.doses.HandleReminderResponse(response, time.Now().In(handler.location))
	if err != nil {
		if errors.Is(err, services.ErrUnknownReminderAction) {
			return apiError(c, fiber.StatusBadRequest, "unknown action")
		}
		if errors.Is(err, services.ErrMedicationNotFound) {
			return apiError(c, fiber.StatusNotFound, "medication not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to record response")
	}
	return c.Status(fiber.StatusCreated).JSON(historyEntryView(entry))
}

func (handler *Handler) GetHistory(c *fiber.Ctx) error {
	entries, err := handler.history.ListAll()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load history")
	}
	return c.JSON(fiber.Map{"entries": historyEntryViews(entries)})
}

func (handler *Handler) GetMedicationHistory(c *fiber.Ctx) error {
	id, err := parseIDParam(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid medication id")
	}

	entries, err := handler.history.ListByMedication(id)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load history")
	}
	total, err := handler.history.CountByMedication(id)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load history")
	}
	return c.JSON(fiber.Map{
		"entries": historyEntryViews(entries),
		"total":   total,
	})
}

type historyEntryResponse struct {
	ID           uint   `json:"id"`
	MedicationID uint   `json:"medication_id"`
	Timestamp    int64  `json:"timestamp"`
	Taken        bool   `json:"taken"`
	Notes        string `json:"notes,omitempty"`
}

// historyEntryView keeps dose timestamps as epoch milliseconds on the wire.
func historyEntryView(entry models.HistoryEntry) historyEntryResponse {
	return historyEntryResponse{
		ID:           entry.ID,
		MedicationID: entry.MedicationID,
		Timestamp:    entry.Timestamp.UnixMilli(),
		Taken:        entry.Taken,
		Notes:        entry.Notes,
	}
}

func historyEntryViews(entries []models.HistoryEntry) []historyEntryResponse {
	views := make([]historyEntryResponse, 0, len(entries))
	for _, entry := range entries {
		views = append(views, historyEntryView(entry))
	}
	return views
}
