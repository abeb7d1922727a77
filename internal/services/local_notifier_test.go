package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/pillbox/internal/models"
)

func TestLocalNotifierRegisterAssignsUniqueHandles(t *testing.T) {
	notifier := NewLocalNotifier(time.UTC, nil)
	defer notifier.Close()

	trigger := models.NotificationTrigger{Title: "Time for your medication", Hour: 8, Minute: 0, MedicationID: 1}
	first, err := notifier.Register(trigger)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	second, err := notifier.Register(trigger)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if first == second {
		t.Fatal("expected unique handles per registration")
	}
	if len(notifier.timers) != 2 {
		t.Fatalf("expected two armed timers, got %d", len(notifier.timers))
	}
}

func TestLocalNotifierCancelIsIdempotent(t *testing.T) {
	notifier := NewLocalNotifier(time.UTC, nil)
	defer notifier.Close()

	handle, err := notifier.Register(models.NotificationTrigger{Hour: 8})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := notifier.Cancel(handle); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := notifier.Cancel(handle); err != nil {
		t.Fatalf("second cancel must not fail: %v", err)
	}
	if err := notifier.Cancel("never-registered"); err != nil {
		t.Fatalf("cancel of unknown handle must not fail: %v", err)
	}
}

func TestLocalNotifierCloseStopsTimers(t *testing.T) {
	notifier := NewLocalNotifier(time.UTC, nil)

	if _, err := notifier.Register(models.NotificationTrigger{Hour: 8}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	notifier.Close()

	if len(notifier.timers) != 0 {
		t.Fatalf("expected all timers stopped, got %d", len(notifier.timers))
	}
}
