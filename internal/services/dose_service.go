package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/terraincognita07/pillbox/internal/models"
)

var (
	ErrMedicationNotFound    = errors.New("medication not found")
	ErrAppendDoseFailed      = errors.New("append dose event failed")
	ErrUpdateSupplyFailed    = errors.New("update supply failed")
	ErrUnknownReminderAction = errors.New("unknown reminder action")
)

type DoseMedicationStore interface {
	FindByID(id uint) (models.Medication, bool, error)
	UpdateByID(id uint, updates map[string]any) error
}

type DoseEventAppender interface {
	Append(input HistoryEntryInput) (models.HistoryEntry, error)
}

type LowSupplyRegistrar interface {
	ArmLowSupply(medication models.Medication) (string, error)
}

type DoseAchievementEvaluator interface {
	EvaluateAll(now time.Time)
}

// DoseService handles the dose-taken write path: the event is appended first
// and is durable before the supply decrement and low-supply check run. The
// two writes are sequenced, not transactional.
type DoseService struct {
	medications  DoseMedicationStore
	history      DoseEventAppender
	reminders    LowSupplyRegistrar
	achievements DoseAchievementEvaluator
}

func NewDoseService(medications DoseMedicationStore, history DoseEventAppender, reminders LowSupplyRegistrar, achievements DoseAchievementEvaluator) *DoseService {
	return &DoseService{
		medications:  medications,
		history:      history,
		reminders:    reminders,
		achievements: achievements,
	}
}

func (service *DoseService) LogDose(medicationID uint, taken bool, notes string, now time.Time) (models.HistoryEntry, error) {
	medication, found, err := service.medications.FindByID(medicationID)
	if err != nil {
		return models.HistoryEntry{}, err
	}
	if !found {
		return models.HistoryEntry{}, ErrMedicationNotFound
	}

	entry, err := service.history.Append(HistoryEntryInput{
		MedicationID: medicationID,
		Taken:        taken,
		Notes:        notes,
		Timestamp:    now,
	})
	if err != nil {
		return models.HistoryEntry{}, fmt.Errorf("%w: %v", ErrAppendDoseFailed, err)
	}

	if taken {
		if err := service.consumeSupply(medication); err != nil {
			// The event above is already durable; surface the supply
			// failure so the caller can retry or alert.
			return entry, err
		}
	}

	if service.achievements != nil {
		service.achievements.EvaluateAll(now)
	}

	return entry, nil
}

// HandleReminderResponse maps a notification callback onto the event log.
// A "TAKE" response must always end in an appended taken event.
func (service *DoseService) HandleReminderResponse(response models.ReminderResponse, now time.Time) (models.HistoryEntry, error) {
	switch response.Action {
	case models.ReminderActionTake:
		return service.LogDose(response.MedicationID, true, "", now)
	case models.ReminderActionSkip:
		return service.LogDose(response.MedicationID, false, "", now)
	default:
		return models.HistoryEntry{}, ErrUnknownReminderAction
	}
}

func (service *DoseService) consumeSupply(medication models.Medication) error {
	newSupply := medication.Supply - 1
	if newSupply < 0 {
		newSupply = 0
	}

	if err := service.medications.UpdateByID(medication.ID, map[string]any{"supply": newSupply}); err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateSupplyFailed, err)
	}

	medication.Supply = newSupply
	if medication.IsLowOnSupply() && service.reminders != nil {
		if _, err := service.reminders.ArmLowSupply(medication); err != nil {
			// Registration is re-armed on the next dose; the dose itself
			// already succeeded.
			log.Printf("doses: arm low-supply reminder failed for medication %d: %v", medication.ID, err)
		}
	}
	return nil
}
