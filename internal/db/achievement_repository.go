package db

import (
	"github.com/terraincognita07/pillbox/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AchievementRepository persists achievements with keyed writes. Per-id
// upserts keep a slow writer from undoing another writer's progress.
type AchievementRepository struct {
	database *gorm.DB
}

func NewAchievementRepository(database *gorm.DB) *AchievementRepository {
	return &AchievementRepository{database: database}
}

func (repo *AchievementRepository) List() ([]models.Achievement, error) {
	achievements := make([]models.Achievement, 0)
	if err := repo.database.Order("id ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (repo *AchievementRepository) FindByID(id string) (models.Achievement, bool, error) {
	achievement := models.Achievement{}
	result := repo.database.Where("id = ?", id).Limit(1).Find(&achievement)
	if result.Error != nil {
		return models.Achievement{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Achievement{}, false, nil
	}
	return achievement, true, nil
}

func (repo *AchievementRepository) Save(achievement *models.Achievement) error {
	return repo.database.Save(achievement).Error
}

// SeedDefaults inserts missing catalog entries without touching progress on
// rows that already exist.
func (repo *AchievementRepository) SeedDefaults(defaults []models.Achievement) error {
	if len(defaults) == 0 {
		return nil
	}
	return repo.database.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error
}
