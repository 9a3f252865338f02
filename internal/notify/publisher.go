package notify

import (
	"context"

	"payday/internal/logger"
)

// Publisher sends pay cycle events.
type Publisher interface {
	PublishReminder(ctx context.Context, msg PaydayReminder) error
	PublishSwitched(ctx context.Context, msg CycleSwitched) error
	Close() error
}

// LogPublisher logs events instead of sending them. It stands in when no
// broker is configured.
type LogPublisher struct{}

// PublishReminder logs the reminder.
func (LogPublisher) PublishReminder(_ context.Context, msg PaydayReminder) error {
	logger.ForHousehold(msg.HouseholdID).Infow("payday reminder (no broker configured)",
		"paycycle_id", msg.PayCycleID,
		"when", msg.When,
	)
	return nil
}

// PublishSwitched logs the switchover.
func (LogPublisher) PublishSwitched(_ context.Context, msg CycleSwitched) error {
	logger.ForHousehold(msg.HouseholdID).Infow("pay cycle switched (no broker configured)",
		"completed_cycle_id", msg.CompletedCycleID,
		"active_cycle_id", msg.ActiveCycleID,
	)
	return nil
}

// Close is a no-op.
func (LogPublisher) Close() error { return nil }

var _ Publisher = LogPublisher{}

// Open returns an AMQP publisher when url is set and a LogPublisher otherwise.
func Open(url, exchange, queue string) (Publisher, error) {
	if url == "" {
		logger.Get().Warn("AMQP_URL not set, pay cycle events will only be logged")
		return LogPublisher{}, nil
	}
	p, err := NewAMQPPublisher(url, exchange, queue)
	if err != nil {
		return nil, err
	}
	return p, nil
}
