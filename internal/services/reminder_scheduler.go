package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/terraincognita07/pillbox/internal/models"
)

const lowSupplyReminderHour = 9

// Notifier is the notification subsystem the scheduler registers triggers
// with. Handles are opaque; cancelling an unknown handle must not fail.
type Notifier interface {
	Register(trigger models.NotificationTrigger) (string, error)
	Cancel(handle string) error
}

// ReminderScheduler derives daily wall-clock triggers from medication
// schedules. Registrations are keyed by medication id and always replace:
// schedule, reschedule and the low-supply arm all cancel any prior trigger
// for the medication before registering, so repeated calls cannot stack
// duplicate alerts.
type ReminderScheduler struct {
	notifier      Notifier
	location      *time.Location
	retryAttempts int
	retryDelay    time.Duration

	mu               sync.Mutex
	doseHandles      map[uint]string
	lowSupplyHandles map[uint]string
}

func NewReminderScheduler(notifier Notifier, location *time.Location) *ReminderScheduler {
	if location == nil {
		location = time.Local
	}
	return &ReminderScheduler{
		notifier:         notifier,
		location:         location,
		retryAttempts:    3,
		retryDelay:       250 * time.Millisecond,
		doseHandles:      make(map[uint]string),
		lowSupplyHandles: make(map[uint]string),
	}
}

// NextDailyTrigger returns the first fire time for a daily trigger at the
// hour:minute of scheduledTime. When that time has already passed today the
// first fire rolls over to the same hour:minute tomorrow.
func NextDailyTrigger(scheduledTime time.Time, now time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.Local
	}

	localized := scheduledTime.In(location)
	reference := now.In(location)
	candidate := time.Date(
		reference.Year(), reference.Month(), reference.Day(),
		localized.Hour(), localized.Minute(), 0, 0,
		location,
	)
	if !candidate.After(reference) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// Schedule registers the daily dose reminder for a medication, replacing any
// existing one.
func (scheduler *ReminderScheduler) Schedule(medication models.Medication) (string, error) {
	scheduledLocal := medication.ScheduledTime.In(scheduler.location)
	trigger := models.NotificationTrigger{
		Title:        "Time for your medication",
		Body:         fmt.Sprintf("Take %s (%s)", medication.Name, medication.Dosage),
		MedicationID: medication.ID,
		Hour:         scheduledLocal.Hour(),
		Minute:       scheduledLocal.Minute(),
	}
	return scheduler.replace(scheduler.doseHandles, medication.ID, trigger)
}

// Reschedule is replace, not patch: the prior trigger is cancelled
// unconditionally and a fresh one registered from the medication's current
// schedule.
func (scheduler *ReminderScheduler) Reschedule(medication models.Medication) (string, error) {
	return scheduler.Schedule(medication)
}

// ArmLowSupply registers the daily 09:00 low-supply alert for a medication.
// Re-arming while already armed replaces the existing registration, so
// callers may invoke it on every supply change without stacking alerts.
func (scheduler *ReminderScheduler) ArmLowSupply(medication models.Medication) (string, error) {
	unit := medication.Unit
	if unit == "" {
		unit = "doses"
	}
	trigger := models.NotificationTrigger{
		Title:        "Medication running low",
		Body:         fmt.Sprintf("%s has %d %s left", medication.Name, medication.Supply, unit),
		MedicationID: medication.ID,
		Hour:         lowSupplyReminderHour,
		Minute:       0,
	}
	return scheduler.replace(scheduler.lowSupplyHandles, medication.ID, trigger)
}

// Cancel revokes one trigger handle. Unknown handles are a no-op.
func (scheduler *ReminderScheduler) Cancel(handle string) error {
	if handle == "" {
		return nil
	}

	scheduler.mu.Lock()
	for medicationID, registered := range scheduler.doseHandles {
		if registered == handle {
			delete(scheduler.doseHandles, medicationID)
		}
	}
	for medicationID, registered := range scheduler.lowSupplyHandles {
		if registered == handle {
			delete(scheduler.lowSupplyHandles, medicationID)
		}
	}
	scheduler.mu.Unlock()

	return scheduler.notifier.Cancel(handle)
}

// CancelMedication drops both the dose and low-supply triggers for a
// medication, typically on delete.
func (scheduler *ReminderScheduler) CancelMedication(medicationID uint) error {
	scheduler.mu.Lock()
	doseHandle := scheduler.doseHandles[medicationID]
	lowHandle := scheduler.lowSupplyHandles[medicationID]
	delete(scheduler.doseHandles, medicationID)
	delete(scheduler.lowSupplyHandles, medicationID)
	scheduler.mu.Unlock()

	if doseHandle != "" {
		if err := scheduler.notifier.Cancel(doseHandle); err != nil {
			return err
		}
	}
	if lowHandle != "" {
		return scheduler.notifier.Cancel(lowHandle)
	}
	return nil
}

func (scheduler *ReminderScheduler) replace(handles map[uint]string, medicationID uint, trigger models.NotificationTrigger) (string, error) {
	scheduler.mu.Lock()
	previous := handles[medicationID]
	scheduler.mu.Unlock()

	if previous != "" {
		if err := scheduler.notifier.Cancel(previous); err != nil {
			return "", fmt.Errorf("cancel previous trigger: %w", err)
		}
	}

	handle, err := scheduler.registerWithRetry(trigger)
	if err != nil {
		scheduler.mu.Lock()
		delete(handles, medicationID)
		scheduler.mu.Unlock()
		return "", err
	}

	scheduler.mu.Lock()
	handles[medicationID] = handle
	scheduler.mu.Unlock()
	return handle, nil
}

// registerWithRetry retries transient registration failures with a doubling
// backoff. Notification subsystems commonly reject short registration
// bursts.
func (scheduler *ReminderScheduler) registerWithRetry(trigger models.NotificationTrigger) (string, error) {
	delay := scheduler.retryDelay
	var lastErr error
	for attempt := 0; attempt < scheduler.retryAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}

		handle, err := scheduler.notifier.Register(trigger)
		if err == nil {
			return handle, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("register trigger after %d attempts: %w", scheduler.retryAttempts, lastErr)
}
