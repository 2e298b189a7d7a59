package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/order"
)

// DefaultGracePeriodDays is how long a grace-period order may wait for its
// bank transfer before the reminder fires.
const DefaultGracePeriodDays = 3

// GraceReminder schedules a payment reminder for a grace-period order. The
// checkout calls it best-effort after the order is committed; a scheduling
// failure never fails the sale.
type GraceReminder interface {
	ScheduleReminder(ctx context.Context, o *order.CustomerOrder, dueAt time.Time) error
}

// LoggingGraceReminder records the reminder in the log and nothing else.
// Stands in until a real notification channel (SMS, email) is attached.
type LoggingGraceReminder struct {
	logger *zap.Logger
}

// NewLoggingGraceReminder creates a LoggingGraceReminder
func NewLoggingGraceReminder(logger *zap.Logger) *LoggingGraceReminder {
	return &LoggingGraceReminder{logger: logger}
}

// ScheduleReminder logs the reminder intent
func (r *LoggingGraceReminder) ScheduleReminder(_ context.Context, o *order.CustomerOrder, dueAt time.Time) error {
	r.logger.Info("Grace-period payment reminder scheduled",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.Time("due_at", dueAt),
	)
	return nil
}
