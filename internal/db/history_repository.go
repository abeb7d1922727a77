package db

import (
	"time"

	"github.com/terraincognita07/pillbox/internal/models"
	"gorm.io/gorm"
)

// HistoryRepository is the append-only dose event log. Entries are never
// updated or deleted; queries return entries in storage order and callers
// sort what they need.
type HistoryRepository struct {
	database *gorm.DB
}

func NewHistoryRepository(database *gorm.DB) *HistoryRepository {
	return &HistoryRepository{database: database}
}

func (repo *HistoryRepository) Append(entry *models.HistoryEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *HistoryRepository) ListAll() ([]models.HistoryEntry, error) {
	entries := make([]models.HistoryEntry, 0)
	if err := repo.database.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *HistoryRepository) ListByMedication(medicationID uint) ([]models.HistoryEntry, error) {
	entries := make([]models.HistoryEntry, 0)
	if err := repo.database.Where("medication_id = ?", medicationID).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListSince returns entries with timestamp >= since (inclusive lower bound,
// unbounded upper).
func (repo *HistoryRepository) ListSince(since time.Time) ([]models.HistoryEntry, error) {
	entries := make([]models.HistoryEntry, 0)
	if err := repo.database.Where("timestamp >= ?", since).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *HistoryRepository) CountByMedication(medicationID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.HistoryEntry{}).Where("medication_id = ?", medicationID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
