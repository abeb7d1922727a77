package models

const (
	ReminderActionTake = "TAKE"
	ReminderActionSkip = "SKIP"
)

// NotificationTrigger is the projection handed to the notification
// subsystem: a daily-repeating alert at Hour:Minute local time. It is
// derived from a medication's schedule and never persisted.
type NotificationTrigger struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	MedicationID uint   `json:"medication_id"`
	Hour         int    `json:"hour"`
	Minute       int    `json:"minute"`
}

// ReminderResponse is delivered by the notification subsystem when the user
// responds to a fired reminder.
type ReminderResponse struct {
	MedicationID uint   `json:"medication_id"`
	Action       string `json:"action"`
}
