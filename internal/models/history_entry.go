package models

import "time"

// HistoryEntry is one recorded dose event. Entries are append-only: they are
// never updated or deleted once written.
type HistoryEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MedicationID uint      `gorm:"index;not null" json:"medication_id"`
	Timestamp    time.Time `gorm:"index;not null" json:"timestamp"`
	Taken        bool      `gorm:"not null;default:false" json:"taken"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}
