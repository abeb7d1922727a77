package services

import (
	"time"

	"github.com/terraincognita07/pillbox/internal/models"
)

type HistoryEntryInput struct {
	MedicationID uint
	Taken        bool
	Notes        string
	Timestamp    time.Time
}

type HistoryRepository interface {
	Append(entry *models.HistoryEntry) error
	ListAll() ([]models.HistoryEntry, error)
	ListByMedication(medicationID uint) ([]models.HistoryEntry, error)
	ListSince(since time.Time) ([]models.HistoryEntry, error)
	CountByMedication(medicationID uint) (int64, error)
}

// HistoryService is the event-log surface the rest of the core works with.
// Appends are user-initiated writes and always propagate storage errors.
type HistoryService struct {
	entries HistoryRepository
}

func NewHistoryService(entries HistoryRepository) *HistoryService {
	return &HistoryService{entries: entries}
}

func (service *HistoryService) Append(input HistoryEntryInput) (models.HistoryEntry, error) {
	entry := models.HistoryEntry{
		MedicationID: input.MedicationID,
		Timestamp:    input.Timestamp,
		Taken:        input.Taken,
		Notes:        input.Notes,
	}
	if err := service.entries.Append(&entry); err != nil {
		return models.HistoryEntry{}, err
	}
	return entry, nil
}

func (service *HistoryService) ListAll() ([]models.HistoryEntry, error) {
	return service.entries.ListAll()
}

func (service *HistoryService) ListByMedication(medicationID uint) ([]models.HistoryEntry, error) {
	return service.entries.ListByMedication(medicationID)
}

func (service *HistoryService) ListSince(since time.Time) ([]models.HistoryEntry, error) {
	return service.entries.ListSince(since)
}

// CountByMedication is the lifetime event total for one medication, counted
// in storage rather than by loading the log.
func (service *HistoryService) CountByMedication(medicationID uint) (int64, error) {
	return service.entries.CountByMedication(medicationID)
}
