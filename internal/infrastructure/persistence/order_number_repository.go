package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/momtazchem/backend/internal/domain/order"
)

// GormOrderNumberRepository implements order.NumberRepository. Reservation is
// a single UPDATE ... RETURNING so concurrent callers serialize on the row
// lock and never observe the same value.
type GormOrderNumberRepository struct {
	db *gorm.DB
}

// NewGormOrderNumberRepository creates a new GormOrderNumberRepository
func NewGormOrderNumberRepository(db *gorm.DB) *GormOrderNumberRepository {
	return &GormOrderNumberRepository{db: db}
}

// Reserve atomically increments and returns the counter for the given year,
// wrapping from the upper bound back to the start. The counter row for a new
// year is created on first use.
func (r *GormOrderNumberRepository) Reserve(ctx context.Context, year int) (int, error) {
	for {
		var counter int
		err := r.db.WithContext(ctx).Raw(
			`UPDATE order_number_counters
			 SET counter = CASE WHEN counter >= ? THEN ? ELSE counter + 1 END
			 WHERE year = ?
			 RETURNING counter`,
			order.CounterEnd, order.CounterStart, year,
		).Row().Scan(&counter)
		if err == nil {
			return counter, nil
		}
		if !errors.Is(err, sql.ErrNoRows) && !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("failed to reserve order number: %w", err)
		}

		// First order of the year: seed the counter row. ON CONFLICT keeps a
		// lost race from erroring, which inside a surrounding transaction
		// would abort every later statement. The loser retries the UPDATE.
		result := r.db.WithContext(ctx).Exec(
			`INSERT INTO order_number_counters (year, counter)
			 VALUES (?, ?)
			 ON CONFLICT (year) DO NOTHING`,
			year, order.CounterStart,
		)
		if result.Error != nil {
			return 0, fmt.Errorf("failed to seed order number counter: %w", result.Error)
		}
		if result.RowsAffected == 1 {
			return order.CounterStart, nil
		}
	}
}

var _ order.NumberRepository = (*GormOrderNumberRepository)(nil)
