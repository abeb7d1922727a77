package models

import "time"

type Medication struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"not null" json:"name"`
	Dosage             string    `json:"dosage"`
	Unit               string    `gorm:"not null;default:''" json:"unit"`
	Frequency          string    `json:"frequency"`
	Instructions       string    `json:"instructions"`
	ScheduledTime      time.Time `gorm:"not null" json:"scheduled_time"`
	Supply             int       `gorm:"not null;default:0" json:"supply"`
	LowSupplyThreshold int       `gorm:"not null;default:0" json:"low_supply_threshold"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsLowOnSupply reports whether the remaining supply has reached the
// configured alert threshold.
func (medication Medication) IsLowOnSupply() bool {
	return medication.LowSupplyThreshold > 0 && medication.Supply <= medication.LowSupplyThreshold
}
