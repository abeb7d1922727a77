package services

import (
	"log"
	"time"

	"github.com/terraincognita07/pillbox/internal/models"
)

type AchievementStore interface {
	List() ([]models.Achievement, error)
	FindByID(id string) (models.Achievement, bool, error)
	Save(achievement *models.Achievement) error
}

type AchievementHistoryReader interface {
	ListAll() ([]models.HistoryEntry, error)
}

// AchievementService owns all achievement progress. Progress only moves
// forward: updates below the current value are no-ops, values above the
// target are clamped, and a completed achievement never un-completes.
type AchievementService struct {
	achievements AchievementStore
	history      AchievementHistoryReader
	location     *time.Location
}

func NewAchievementService(achievements AchievementStore, history AchievementHistoryReader, location *time.Location) *AchievementService {
	if location == nil {
		location = time.Local
	}
	return &AchievementService{
		achievements: achievements,
		history:      history,
		location:     location,
	}
}

func (service *AchievementService) List() ([]models.Achievement, error) {
	return service.achievements.List()
}

// UpdateProgress applies newProgress to one achievement. The found flag is
// false for an unknown id; an error means storage failed. The two are never
// conflated.
func (service *AchievementService) UpdateProgress(id string, newProgress int, now time.Time) (models.Achievement, bool, error) {
	achievement, found, err := service.achievements.FindByID(id)
	if err != nil {
		return models.Achievement{}, false, err
	}
	if !found {
		return models.Achievement{}, false, nil
	}

	progress := newProgress
	if progress > achievement.Target {
		progress = achievement.Target
	}
	if progress <= achievement.Progress {
		return achievement, true, nil
	}

	achievement.Progress = progress
	if !achievement.Completed && achievement.Progress >= achievement.Target {
		achievement.Completed = true
		completedAt := now
		achievement.CompletedAt = &completedAt
	}

	if err := service.achievements.Save(&achievement); err != nil {
		return models.Achievement{}, false, err
	}
	return achievement, true, nil
}

// EvaluateAll runs the wired trigger predicates against the event log and
// advances the matching achievements. Catalog entries without a predicate
// stay untouched. Storage problems here are logged, never propagated: a
// broken stats read should not fail the dose that triggered it.
func (service *AchievementService) EvaluateAll(now time.Time) {
	entries, err := service.history.ListAll()
	if err != nil {
		log.Printf("achievements: fetch history failed: %v", err)
		return
	}

	takenCount := 0
	for _, entry := range entries {
		if entry.Taken {
			takenCount++
		}
	}

	if takenCount > 0 {
		service.advance(models.AchievementFirstDose, 1, now)
	}
	service.advance(models.AchievementCenturion, takenCount, now)

	if streak := CurrentStreak(entries, now, service.location); streak > 0 {
		service.advance(models.AchievementWeekStreak, streak, now)
	}

	weekly := BuildAdherenceReport(entries, now, service.location, 7)
	if weekly.TotalDoses > 0 && weekly.AdherenceRate == 100 {
		service.advance(models.AchievementPerfectWeek, 7, now)
	}
}

func (service *AchievementService) advance(id string, progress int, now time.Time) {
	if _, found, err := service.UpdateProgress(id, progress, now); err != nil {
		log.Printf("achievements: update %s failed: %v", id, err)
	} else if !found {
		log.Printf("achievements: %s missing from catalog", id)
	}
}
