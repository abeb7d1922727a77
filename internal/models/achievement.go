package models

import "time"

const (
	AchievementFirstDose        = "first_dose"
	AchievementPerfectWeek      = "perfect_week"
	AchievementWeekStreak       = "week_streak"
	AchievementCenturion        = "centurion"
	AchievementMedicationMaster = "medication_master"
	AchievementEarlyBird        = "early_bird"
	AchievementNightOwl         = "night_owl"
)

// Achievement tracks progress toward a fixed target. Progress never
// decreases and is clamped to Target; Completed is terminal.
type Achievement struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	Target      int        `gorm:"not null" json:"target"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DefaultAchievements is the seeded catalog. Entries without an active
// trigger (early_bird, night_owl, medication_master) are kept as inert
// catalog data.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: AchievementFirstDose, Name: "First Dose", Description: "Log your first dose", Icon: "💊", Target: 1},
		{ID: AchievementPerfectWeek, Name: "Perfect Week", Description: "Take every dose for 7 days", Icon: "🏆", Target: 7},
		{ID: AchievementWeekStreak, Name: "Week Streak", Description: "Keep a 7-day adherence streak", Icon: "🔥", Target: 7},
		{ID: AchievementCenturion, Name: "Centurion", Description: "Log 100 doses", Icon: "💯", Target: 100},
		{ID: AchievementMedicationMaster, Name: "Medication Master", Description: "Keep 90% adherence for a month", Icon: "🎓", Target: 30},
		{ID: AchievementEarlyBird, Name: "Early Bird", Description: "Take 10 morning doses", Icon: "🌅", Target: 10},
		{ID: AchievementNightOwl, Name: "Night Owl", Description: "Take 10 evening doses", Icon: "🌙", Target: 10},
	}
}
