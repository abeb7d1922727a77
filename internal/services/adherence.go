package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/pillbox/internal/models"
)

// AdherenceReport is the derived summary for one time window. The rate is
// reduced to a whole percentage here and nowhere earlier; every intermediate
// ratio stays a float64. Truncation, not rounding: 2 of 3 doses is 66%.
type AdherenceReport struct {
	AdherenceRate int `json:"adherence_rate"`
	Streak        int `json:"streak"`
	MissedDoses   int `json:"missed_doses"`
	TotalDoses    int `json:"total_doses"`
}

// TimeOfDayBuckets counts taken doses per part of day. Missed doses are not
// bucketed; this is a display-only breakdown of doses that actually happened.
type TimeOfDayBuckets struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Evening   int `json:"evening"`
	Night     int `json:"night"`
}

// WindowedAdherence returns the taken percentage over the trailing window of
// whole days ending at now. An empty window is 0%, no data means no
// adherence, not "unknown".
func WindowedAdherence(entries []models.HistoryEntry, now time.Time, days int) float64 {
	since := now.Add(-time.Duration(days) * 24 * time.Hour)
	taken := 0
	total := 0
	for _, entry := range entries {
		if entry.Timestamp.Before(since) {
			continue
		}
		total++
		if entry.Taken {
			taken++
		}
	}
	return adherencePercentage(taken, total)
}

// DailyAdherence returns the taken percentage for one local calendar day.
// The window is [startOfDay, nextDayStart): an entry one millisecond before
// midnight belongs to the earlier day, one at midnight to the later.
func DailyAdherence(entries []models.HistoryEntry, day time.Time, location *time.Location) float64 {
	dayStart, nextDayStart := DayRange(day, location)
	taken := 0
	total := 0
	for _, entry := range entries {
		if entry.Timestamp.Before(dayStart) || !entry.Timestamp.Before(nextDayStart) {
			continue
		}
		total++
		if entry.Taken {
			taken++
		}
	}
	return adherencePercentage(taken, total)
}

// MissedDoses returns the not-taken entries inside the trailing window,
// newest first.
func MissedDoses(entries []models.HistoryEntry, now time.Time, days int) []models.HistoryEntry {
	since := now.Add(-time.Duration(days) * 24 * time.Hour)
	missed := make([]models.HistoryEntry, 0)
	for _, entry := range entries {
		if entry.Timestamp.Before(since) || entry.Taken {
			continue
		}
		missed = append(missed, entry)
	}
	sort.Slice(missed, func(i, j int) bool {
		return missed[i].Timestamp.After(missed[j].Timestamp)
	})
	return missed
}

// CurrentStreak counts consecutive local calendar days ending today that
// each contain at least one taken entry. A day with only missed entries
// breaks the run, and a today without a taken entry means no streak at all.
func CurrentStreak(entries []models.HistoryEntry, now time.Time, location *time.Location) int {
	takenDays := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.Taken {
			takenDays[dayKey(entry.Timestamp, location)] = true
		}
	}

	today := DateAtLocation(now, location)
	if !takenDays[today.Format("2006-01-02")] {
		return 0
	}

	streak := 0
	for day := today; takenDays[day.Format("2006-01-02")]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// BucketByTimeOfDay groups taken entries by local hour: [6,12) morning,
// [12,18) afternoon, [18,24) evening, [0,6) night.
func BucketByTimeOfDay(entries []models.HistoryEntry, location *time.Location) TimeOfDayBuckets {
	if location == nil {
		location = time.UTC
	}

	buckets := TimeOfDayBuckets{}
	for _, entry := range entries {
		if !entry.Taken {
			continue
		}
		switch hour := entry.Timestamp.In(location).Hour(); {
		case hour >= 6 && hour < 12:
			buckets.Morning++
		case hour >= 12 && hour < 18:
			buckets.Afternoon++
		case hour >= 18:
			buckets.Evening++
		default:
			buckets.Night++
		}
	}
	return buckets
}

// BuildAdherenceReport assembles the windowed rate, streak and dose counts
// into the report shape consumed by the dashboard.
func BuildAdherenceReport(entries []models.HistoryEntry, now time.Time, location *time.Location, days int) AdherenceReport {
	since := now.Add(-time.Duration(days) * 24 * time.Hour)
	total := 0
	for _, entry := range entries {
		if !entry.Timestamp.Before(since) {
			total++
		}
	}

	return AdherenceReport{
		AdherenceRate: int(WindowedAdherence(entries, now, days)),
		Streak:        CurrentStreak(entries, now, location),
		MissedDoses:   len(MissedDoses(entries, now, days)),
		TotalDoses:    total,
	}
}

func adherencePercentage(taken, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(taken) / float64(total) * 100
}
