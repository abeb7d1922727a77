package api

import (
	"time"

	"github.com/terraincognita07/pillbox/internal/services"
)

type Handler struct {
	medications  *services.MedicationService
	doses        *services.DoseService
	history      *services.HistoryService
	reports      *services.ReportService
	achievements *services.AchievementService
	location     *time.Location
}

type medicationPayload struct {
	Name               string    `json:"name" form:"name"`
	Dosage             string    `json:"dosage" form:"dosage"`
	Unit               string    `json:"unit" form:"unit"`
	Frequency          string    `json:"frequency" form:"frequency"`
	Instructions       string    `json:"instructions" form:"instructions"`
	ScheduledTime      time.Time `json:"scheduled_time" form:"scheduled_time"`
	Supply             int       `json:"supply" form:"supply"`
	LowSupplyThreshold int       `json:"low_supply_threshold" form:"low_supply_threshold"`
}

type dosePayload struct {
	Taken *bool  `json:"taken"`
	Notes string `json:"notes"`
}

type reminderCallbackPayload struct {
	MedicationID uint   `json:"medication_id"`
	Action       string `json:"action"`
}

func NewHandler(
	medications *services.MedicationService,
	doses *services.DoseService,
	history *services.HistoryService,
	reports *services.ReportService,
	achievements *services.AchievementService,
	location *time.Location,
) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		medications:  medications,
		doses:        doses,
		history:      history,
		reports:      reports,
		achievements: achievements,
		location:     location,
	}
}

func (payload medicationPayload) toInput() services.MedicationInput {
	return services.MedicationInput{
		Name:               payload.Name,
		Dosage:             payload.Dosage,
		Unit:               payload.Unit,
		Frequency:          payload.Frequency,
		Instructions:       payload.Instructions,
		ScheduledTime:      payload.ScheduledTime,
		Supply:             payload.Supply,
		LowSupplyThreshold: payload.LowSupplyThreshold,
	}
}
