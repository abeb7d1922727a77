package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pillbox/internal/services"
)

func (handler *Handler) GetMedications(c *fiber.Ctx) error {
	medications, err := handler.medications.List()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load medications")
	}
	return c.JSON(fiber.Map{"medications": medications})
}

func (handler *Handler) GetMedication(c *fiber.Ctx) error {
	id, err := parseIDParam(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid medication id")
	}

	medication, found, err := handler.medications.FindByID(id)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load medication")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "medication not found")
	}
	return c.JSON(medication)
}

func (handler *Handler) CreateMedication(c *fiber.Ctx) error {
	payload := medicationPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	medication, err := handler.medications.Create(payload.toInput())
	if err != nil {
		if isMedicationInputError(err) {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to create medication")
	}
	return c.Status(fiber.StatusCreated).JSON(medication)
}

func (handler *Handler) UpdateMedication(c *fiber.Ctx) error {
	id, err := parseIDParam(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid medication id")
	}

	payload := medicationPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	medication, found, err := handler.medications.Update(id, payload.toInput())
	if err != nil {
		if isMedicationInputError(err) {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to update medication")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "medication not found")
	}
	return c.JSON(medication)
}

func (handler *Handler) DeleteMedication(c *fiber.Ctx) error {
	id, err := parseIDParam(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid medication id")
	}

	if err := handler.medications.Delete(id); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete medication")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func isMedicationInputError(err error) bool {
	return errors.Is(err, services.ErrMedicationNameRequired) ||
		errors.Is(err, services.ErrNegativeSupply) ||
		errors.Is(err, services.ErrNegativeThreshold)
}
