package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
)

// NumberService generates order numbers from the per-year database counter.
// Generation never blocks an order: if the counter reservation fails, a
// timestamp-derived fallback number is issued instead and the failure is
// logged for follow-up.
type NumberService struct {
	clock  shared.Clock
	logger *zap.Logger
}

// NewNumberService creates a NumberService
func NewNumberService(clock shared.Clock, logger *zap.Logger) *NumberService {
	return &NumberService{clock: clock, logger: logger}
}

// Generate reserves the next sequence value for the current year and formats
// it. The reservation goes through the caller's transaction so a rolled-back
// checkout does not burn a number observed by anyone else.
func (s *NumberService) Generate(ctx context.Context, numbers order.NumberRepository) string {
	now := s.clock.Now()
	seq, err := numbers.Reserve(ctx, now.Year())
	if err != nil {
		s.logger.Error("Order number reservation failed, issuing fallback number",
			zap.Int("year", now.Year()),
			zap.Error(err),
		)
		return order.FallbackNumber(now)
	}
	return order.FormatNumber(now.Year(), seq)
}
