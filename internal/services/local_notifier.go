package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/pillbox/internal/models"
)

// LocalNotifier is the in-process notification subsystem: every registered
// trigger gets a timer armed for its next wall-clock fire, and firing
// re-arms the timer for the next day. Delivery invokes the attached
// handler; without one the fire is only logged.
type LocalNotifier struct {
	location *time.Location
	deliver  func(trigger models.NotificationTrigger)

	mu       sync.Mutex
	timers   map[string]*time.Timer
	triggers map[string]models.NotificationTrigger
	closed   bool
}

func NewLocalNotifier(location *time.Location, deliver func(trigger models.NotificationTrigger)) *LocalNotifier {
	if location == nil {
		location = time.Local
	}
	return &LocalNotifier{
		location: location,
		deliver:  deliver,
		timers:   make(map[string]*time.Timer),
		triggers: make(map[string]models.NotificationTrigger),
	}
}

func (notifier *LocalNotifier) Register(trigger models.NotificationTrigger) (string, error) {
	handle := uuid.NewString()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.closed {
		return handle, nil
	}

	notifier.triggers[handle] = trigger
	notifier.armLocked(handle, trigger)
	return handle, nil
}

func (notifier *LocalNotifier) Cancel(handle string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	if timer, ok := notifier.timers[handle]; ok {
		timer.Stop()
		delete(notifier.timers, handle)
	}
	delete(notifier.triggers, handle)
	return nil
}

// Close stops every pending timer. Registered handles stay valid for Cancel
// but never fire again.
func (notifier *LocalNotifier) Close() {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	notifier.closed = true
	for handle, timer := range notifier.timers {
		timer.Stop()
		delete(notifier.timers, handle)
	}
}

func (notifier *LocalNotifier) armLocked(handle string, trigger models.NotificationTrigger) {
	now := time.Now().In(notifier.location)
	scheduled := time.Date(now.Year(), now.Month(), now.Day(), trigger.Hour, trigger.Minute, 0, 0, notifier.location)
	fireAt := NextDailyTrigger(scheduled, now, notifier.location)

	notifier.timers[handle] = time.AfterFunc(time.Until(fireAt), func() {
		notifier.fire(handle)
	})
}

func (notifier *LocalNotifier) fire(handle string) {
	notifier.mu.Lock()
	trigger, ok := notifier.triggers[handle]
	if ok && !notifier.closed {
		notifier.armLocked(handle, trigger)
	}
	notifier.mu.Unlock()

	if !ok {
		return
	}

	if notifier.deliver != nil {
		notifier.deliver(trigger)
		return
	}
	log.Printf("notifier: %s: %s (medication %d)", trigger.Title, trigger.Body, trigger.MedicationID)
}
