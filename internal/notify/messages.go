// Package notify publishes pay cycle events for the push-notification service.
package notify

import (
	"encoding/json"
	"time"
)

// Routing keys of the events exchange.
const (
	RoutingPaydayReminder = "payday.reminder"
	RoutingCycleSwitched  = "paycycle.switched"
)

// When values of a PaydayReminder.
const (
	WhenToday    = "today"
	WhenTomorrow = "tomorrow"
)

// PaydayReminder tells a household its active cycle ends today or tomorrow.
type PaydayReminder struct {
	HouseholdID string    `json:"household_id"`
	PayCycleID  string    `json:"paycycle_id"`
	CycleName   string    `json:"cycle_name"`
	EndDate     time.Time `json:"end_date"`
	When        string    `json:"when"`
	Timestamp   time.Time `json:"timestamp"`
}

// CycleSwitched reports a completed cycle and the one that replaced it.
type CycleSwitched struct {
	HouseholdID      string    `json:"household_id"`
	CompletedCycleID string    `json:"completed_cycle_id"`
	ActiveCycleID    string    `json:"active_cycle_id"`
	Promoted         bool      `json:"promoted"`
	Timestamp        time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *PaydayReminder) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToJSON converts the message to JSON bytes
func (m *CycleSwitched) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PaydayReminderFromJSON decodes a reminder body.
func PaydayReminderFromJSON(data []byte) (*PaydayReminder, error) {
	var msg PaydayReminder
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
