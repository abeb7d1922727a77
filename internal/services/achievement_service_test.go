package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/pillbox/internal/models"
)

type stubAchievementStore struct {
	achievements map[string]models.Achievement
	saveErr      error
	findErr      error
	saveCalls    int
}

func newStubAchievementStore(achievements ...models.Achievement) *stubAchievementStore {
	stub := &stubAchievementStore{achievements: make(map[string]models.Achievement)}
	for _, achievement := range achievements {
		stub.achievements[achievement.ID] = achievement
	}
	return stub
}

func (stub *stubAchievementStore) List() ([]models.Achievement, error) {
	list := make([]models.Achievement, 0, len(stub.achievements))
	for _, achievement := range stub.achievements {
		list = append(list, achievement)
	}
	return list, nil
}

func (stub *stubAchievementStore) FindByID(id string) (models.Achievement, bool, error) {
	if stub.findErr != nil {
		return models.Achievement{}, false, stub.findErr
	}
	achievement, found := stub.achievements[id]
	return achievement, found, nil
}

func (stub *stubAchievementStore) Save(achievement *models.Achievement) error {
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.saveCalls++
	stub.achievements[achievement.ID] = *achievement
	return nil
}

type stubHistoryReader struct {
	entries []models.HistoryEntry
	err     error
}

func (stub *stubHistoryReader) ListAll() ([]models.HistoryEntry, error) {
	if stub.err != nil {
		return nil, stub.err
	}
	result := make([]models.HistoryEntry, len(stub.entries))
	copy(result, stub.entries)
	return result, nil
}

func newTestAchievementService(store *stubAchievementStore, history *stubHistoryReader) *AchievementService {
	if history == nil {
		history = &stubHistoryReader{}
	}
	return NewAchievementService(store, history, time.UTC)
}

func TestUpdateProgressClampsToTarget(t *testing.T) {
	store := newStubAchievementStore(models.Achievement{ID: "centurion", Target: 100})
	service := newTestAchievementService(store, nil)
	now := mustParseTime("2025-03-05 08:00")

	achievement, found, err := service.UpdateProgress("centurion", 250, now)
	if err != nil || !found {
		t.Fatalf("update failed: found=%v err=%v", found, err)
	}
	if achievement.Progress != 100 {
		t.Fatalf("expected progress clamped to 100, got %d", achievement.Progress)
	}
	if !achievement.Completed || achievement.CompletedAt == nil {
		t.Fatal("expected achievement completed at target")
	}
}

func TestUpdateProgressIsIdempotent(t *testing.T) {
	store := newStubAchievementStore(models.Achievement{ID: "centurion", Target: 100})
	service := newTestAchievementService(store, nil)
	now := mustParseTime("2025-03-05 08:00")

	first, _, err := service.UpdateProgress("centurion", 40, now)
	if err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	second, _, err := service.UpdateProgress("centurion", 40, now)
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}

	if first.Progress != second.Progress || first.Completed != second.Completed {
		t.Fatalf("expected identical state, got %+v vs %+v", first, second)
	}
	if store.saveCalls != 1 {
		t.Fatalf("expected a single persisted write, got %d", store.saveCalls)
	}
}

func TestUpdateProgressNeverDecreases(t *testing.T) {
	store := newStubAchievementStore(models.Achievement{ID: "week_streak", Target: 7})
	service := newTestAchievementService(store, nil)
	now := mustParseTime("2025-03-05 08:00")

	if _, _, err := service.UpdateProgress("week_streak", 5, now); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	achievement, _, err := service.UpdateProgress("week_streak", 2, now)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if achievement.Progress != 5 {
		t.Fatalf("expected progress to stay at 5, got %d", achievement.Progress)
	}
}

func TestCompletedAchievementStaysCompleted(t *testing.T) {
	store := newStubAchievementStore(models.Achievement{ID: "perfect_week", Target: 7})
	service := newTestAchievementService(store, nil)
	now := mustParseTime("2025-03-05 08:00")

	if _, _, err := service.UpdateProgress("perfect_week", 7, now); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	achievement, _, err := service.UpdateProgress("perfect_week", 3, now)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !achievement.Completed {
		t.Fatal("completed achievement must never revert")
	}
	if achievement.Progress != 7 {
		t.Fatalf("expected progress pinned at target, got %d", achievement.Progress)
	}
}

func TestUpdateProgressUnknownIDIsNotAnError(t *testing.T) {
	service := newTestAchievementService(newStubAchievementStore(), nil)

	_, found, err := service.UpdateProgress("missing", 1, mustParseTime("2025-03-05 08:00"))
	if err != nil {
		t.Fatalf("unknown id must not be an error, got %v", err)
	}
	if found {
		t.Fatal("expected found=false for unknown id")
	}
}

func TestUpdateProgressStorageFailureIsAnError(t *testing.T) {
	store := newStubAchievementStore()
	store.findErr = errors.New("disk gone")
	service := newTestAchievementService(store, nil)

	if _, _, err := service.UpdateProgress("centurion", 1, mustParseTime("2025-03-05 08:00")); err == nil {
		t.Fatal("expected storage failure to propagate")
	}
}

func TestEvaluateAllAdvancesWiredAchievements(t *testing.T) {
	store := newStubAchievementStore(models.DefaultAchievements()...)
	history := &stubHistoryReader{entries: []models.HistoryEntry{
		makeEntry("2025-03-04 08:00", true),
		makeEntry("2025-03-05 08:00", true),
	}}
	service := newTestAchievementService(store, history)

	service.EvaluateAll(mustParseTime("2025-03-05 12:00"))

	if got := store.achievements[models.AchievementFirstDose]; !got.Completed {
		t.Fatalf("expected first_dose completed, got %+v", got)
	}
	if got := store.achievements[models.AchievementCenturion]; got.Progress != 2 {
		t.Fatalf("expected centurion progress 2, got %d", got.Progress)
	}
	if got := store.achievements[models.AchievementWeekStreak]; got.Progress != 2 {
		t.Fatalf("expected week_streak progress 2, got %d", got.Progress)
	}
	if got := store.achievements[models.AchievementPerfectWeek]; !got.Completed {
		t.Fatalf("expected perfect_week completed at 100%% weekly adherence, got %+v", got)
	}
}

func TestEvaluateAllLeavesInertCatalogEntriesAlone(t *testing.T) {
	store := newStubAchievementStore(models.DefaultAchievements()...)
	history := &stubHistoryReader{entries: []models.HistoryEntry{
		makeEntry("2025-03-05 08:00", true),
	}}
	service := newTestAchievementService(store, history)

	service.EvaluateAll(mustParseTime("2025-03-05 12:00"))

	if got := store.achievements[models.AchievementEarlyBird]; got.Progress != 0 {
		t.Fatalf("inert catalog entry must stay untouched, got %+v", got)
	}
	if got := store.achievements[models.AchievementNightOwl]; got.Progress != 0 {
		t.Fatalf("inert catalog entry must stay untouched, got %+v", got)
	}
}

func TestEvaluateAllDegradesSilentlyOnReadFailure(t *testing.T) {
	store := newStubAchievementStore(models.DefaultAchievements()...)
	history := &stubHistoryReader{err: errors.New("storage offline")}
	service := newTestAchievementService(store, history)

	service.EvaluateAll(mustParseTime("2025-03-05 12:00"))

	if store.saveCalls != 0 {
		t.Fatalf("expected no writes when the history read fails, got %d", store.saveCalls)
	}
}
