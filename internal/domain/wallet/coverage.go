package wallet

import (
	"github.com/shopspring/decimal"
)

// Coverage tolerance bands. Ledger amounts can carry rounding and fee
// artifacts, so full payment is recognized from 99% up rather than by exact
// equality.
var (
	coverageFullThreshold        = decimal.NewFromFloat(0.99)
	coverageConditionalThreshold = decimal.NewFromFloat(0.95)
)

// CoverageEligibility classifies how much of an order the wallet ledger
// covers.
type CoverageEligibility int

const (
	// CoverageNotEligible means coverage is below 95%; the order requires
	// manual handling.
	CoverageNotEligible CoverageEligibility = iota
	// CoverageConditional means coverage is in [95%, 99%); auto-approval is
	// conditionally allowed.
	CoverageConditional
	// CoverageEligible means coverage is at least 99%; the order is treated
	// as fully wallet-paid.
	CoverageEligible
)

// String returns a readable name for the eligibility tier
func (e CoverageEligibility) String() string {
	switch e {
	case CoverageEligible:
		return "eligible"
	case CoverageConditional:
		return "conditional"
	}
	return "not_eligible"
}

// Coverage is the result of summing an order's wallet debits against its
// total.
type Coverage struct {
	DebitTotal  decimal.Decimal
	OrderTotal  decimal.Decimal
	Ratio       decimal.Decimal
	Eligibility CoverageEligibility
}

// Covered reports whether the order may bypass manual review at all.
func (c Coverage) Covered() bool {
	return c.Eligibility != CoverageNotEligible
}

// ComputeCoverage sums the order-linked debit entries and classifies the
// ratio against the tolerance bands.
func ComputeCoverage(debits []*Transaction, orderTotal decimal.Decimal) Coverage {
	total := decimal.Zero
	for _, tx := range debits {
		if tx.Type == TransactionTypeDebit && tx.Status == TransactionStatusCompleted {
			total = total.Add(tx.Amount)
		}
	}

	c := Coverage{DebitTotal: total, OrderTotal: orderTotal}
	if orderTotal.LessThanOrEqual(decimal.Zero) {
		c.Ratio = decimal.Zero
		c.Eligibility = CoverageNotEligible
		return c
	}

	c.Ratio = total.Div(orderTotal)
	switch {
	case c.Ratio.GreaterThanOrEqual(coverageFullThreshold):
		c.Eligibility = CoverageEligible
	case c.Ratio.GreaterThanOrEqual(coverageConditionalThreshold):
		c.Eligibility = CoverageConditional
	default:
		c.Eligibility = CoverageNotEligible
	}
	return c
}
