package db

import "gorm.io/gorm"

type Repositories struct {
	Medications  *MedicationRepository
	History      *HistoryRepository
	Achievements *AchievementRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Medications:  NewMedicationRepository(database),
		History:      NewHistoryRepository(database),
		Achievements: NewAchievementRepository(database),
	}
}
