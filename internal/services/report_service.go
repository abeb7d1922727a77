package services

import (
	"log"
	"time"

	"github.com/terraincognita07/pillbox/internal/models"
)

// DashboardSummary compares the weekly and monthly windows in one shape,
// used identically for the whole account and for a single medication.
type DashboardSummary struct {
	WeeklyRate  int              `json:"weekly_rate"`
	MonthlyRate int              `json:"monthly_rate"`
	Streak      int              `json:"streak"`
	TotalDoses  int              `json:"total_doses"`
	Buckets     TimeOfDayBuckets `json:"time_of_day"`
}

type ReportHistoryReader interface {
	ListAll() ([]models.HistoryEntry, error)
	ListByMedication(medicationID uint) ([]models.HistoryEntry, error)
}

// ReportService packages calculator output for the dashboard. All reads are
// fail-soft: a storage error is logged and an empty report returned, so a
// flaky disk degrades the stats screen instead of breaking it.
type ReportService struct {
	history  ReportHistoryReader
	location *time.Location
}

func NewReportService(history ReportHistoryReader, location *time.Location) *ReportService {
	if location == nil {
		location = time.Local
	}
	return &ReportService{history: history, location: location}
}

func (service *ReportService) BuildReport(now time.Time, days int) AdherenceReport {
	entries, err := service.history.ListAll()
	if err != nil {
		log.Printf("reports: fetch history failed: %v", err)
		return AdherenceReport{}
	}
	return BuildAdherenceReport(entries, now, service.location, days)
}

func (service *ReportService) BuildMedicationReport(medicationID uint, now time.Time, days int) AdherenceReport {
	entries, err := service.history.ListByMedication(medicationID)
	if err != nil {
		log.Printf("reports: fetch history failed for medication %d: %v", medicationID, err)
		return AdherenceReport{}
	}
	return BuildAdherenceReport(entries, now, service.location, days)
}

func (service *ReportService) BuildDashboard(now time.Time) DashboardSummary {
	entries, err := service.history.ListAll()
	if err != nil {
		log.Printf("reports: fetch history failed: %v", err)
		return DashboardSummary{}
	}
	return service.buildSummary(entries, now)
}

func (service *ReportService) BuildMedicationDashboard(medicationID uint, now time.Time) DashboardSummary {
	entries, err := service.history.ListByMedication(medicationID)
	if err != nil {
		log.Printf("reports: fetch history failed for medication %d: %v", medicationID, err)
		return DashboardSummary{}
	}
	return service.buildSummary(entries, now)
}

func (service *ReportService) DailyRate(day time.Time) float64 {
	entries, err := service.history.ListAll()
	if err != nil {
		log.Printf("reports: fetch history failed: %v", err)
		return 0
	}
	return DailyAdherence(entries, day, service.location)
}

func (service *ReportService) buildSummary(entries []models.HistoryEntry, now time.Time) DashboardSummary {
	weekly := BuildAdherenceReport(entries, now, service.location, 7)
	monthly := BuildAdherenceReport(entries, now, service.location, 30)

	return DashboardSummary{
		WeeklyRate:  weekly.AdherenceRate,
		MonthlyRate: monthly.AdherenceRate,
		Streak:      weekly.Streak,
		TotalDoses:  monthly.TotalDoses,
		Buckets:     BucketByTimeOfDay(entries, service.location),
	}
}
