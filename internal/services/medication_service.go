package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/terraincognita07/pillbox/internal/models"
)

var (
	ErrMedicationNameRequired = errors.New("medication name is required")
	ErrNegativeSupply         = errors.New("supply cannot be negative")
	ErrNegativeThreshold      = errors.New("low-supply threshold cannot be negative")
)

type MedicationInput struct {
	Name               string
	Dosage             string
	Unit               string
	Frequency          string
	Instructions       string
	ScheduledTime      time.Time
	Supply             int
	LowSupplyThreshold int
}

type MedicationStore interface {
	List() ([]models.Medication, error)
	FindByID(id uint) (models.Medication, bool, error)
	Create(medication *models.Medication) error
	Save(medication *models.Medication) error
	DeleteByID(id uint) error
}

type MedicationReminderScheduler interface {
	Schedule(medication models.Medication) (string, error)
	Reschedule(medication models.Medication) (string, error)
	ArmLowSupply(medication models.Medication) (string, error)
	CancelMedication(medicationID uint) error
}

// MedicationService owns medication records and keeps their reminder
// triggers in step: create and update re-derive the daily trigger, delete
// cancels it.
type MedicationService struct {
	medications MedicationStore
	reminders   MedicationReminderScheduler
}

func NewMedicationService(medications MedicationStore, reminders MedicationReminderScheduler) *MedicationService {
	return &MedicationService{
		medications: medications,
		reminders:   reminders,
	}
}

func (service *MedicationService) List() ([]models.Medication, error) {
	return service.medications.List()
}

func (service *MedicationService) FindByID(id uint) (models.Medication, bool, error) {
	return service.medications.FindByID(id)
}

func (service *MedicationService) Create(input MedicationInput) (models.Medication, error) {
	if err := validateMedicationInput(input); err != nil {
		return models.Medication{}, err
	}

	medication := models.Medication{
		Name:               strings.TrimSpace(input.Name),
		Dosage:             strings.TrimSpace(input.Dosage),
		Unit:               strings.TrimSpace(input.Unit),
		Frequency:          strings.TrimSpace(input.Frequency),
		Instructions:       strings.TrimSpace(input.Instructions),
		ScheduledTime:      input.ScheduledTime,
		Supply:             input.Supply,
		LowSupplyThreshold: input.LowSupplyThreshold,
	}
	if err := service.medications.Create(&medication); err != nil {
		return models.Medication{}, err
	}

	if _, err := service.reminders.Schedule(medication); err != nil {
		return models.Medication{}, err
	}
	service.armIfLow(medication)
	return medication, nil
}

func (service *MedicationService) Update(id uint, input MedicationInput) (models.Medication, bool, error) {
	if err := validateMedicationInput(input); err != nil {
		return models.Medication{}, false, err
	}

	medication, found, err := service.medications.FindByID(id)
	if err != nil {
		return models.Medication{}, false, err
	}
	if !found {
		return models.Medication{}, false, nil
	}

	medication.Name = strings.TrimSpace(input.Name)
	medication.Dosage = strings.TrimSpace(input.Dosage)
	medication.Unit = strings.TrimSpace(input.Unit)
	medication.Frequency = strings.TrimSpace(input.Frequency)
	medication.Instructions = strings.TrimSpace(input.Instructions)
	medication.ScheduledTime = input.ScheduledTime
	medication.Supply = input.Supply
	medication.LowSupplyThreshold = input.LowSupplyThreshold

	if err := service.medications.Save(&medication); err != nil {
		return models.Medication{}, false, err
	}

	if _, err := service.reminders.Reschedule(medication); err != nil {
		return models.Medication{}, false, err
	}
	service.armIfLow(medication)
	return medication, true, nil
}

func (service *MedicationService) Delete(id uint) error {
	if err := service.medications.DeleteByID(id); err != nil {
		return err
	}
	return service.reminders.CancelMedication(id)
}

// ScheduleAll re-registers triggers for every stored medication. Run at
// startup: local timers do not survive a restart.
func (service *MedicationService) ScheduleAll() error {
	medications, err := service.medications.List()
	if err != nil {
		return err
	}

	for _, medication := range medications {
		if _, err := service.reminders.Schedule(medication); err != nil {
			log.Printf("medications: schedule reminder failed for %d: %v", medication.ID, err)
			continue
		}
		service.armIfLow(medication)
	}
	return nil
}

func (service *MedicationService) armIfLow(medication models.Medication) {
	if !medication.IsLowOnSupply() {
		return
	}
	if _, err := service.reminders.ArmLowSupply(medication); err != nil {
		log.Printf("medications: arm low-supply reminder failed for %d: %v", medication.ID, err)
	}
}

func validateMedicationInput(input MedicationInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrMedicationNameRequired
	}
	if input.Supply < 0 {
		return ErrNegativeSupply
	}
	if input.LowSupplyThreshold < 0 {
		return ErrNegativeThreshold
	}
	return nil
}
