package leasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/propstack/backend/internal/domain/shared"
)

// BillingPeriod is the recurrence unit determining payment cadence
type BillingPeriod string

const (
	BillingPeriodWeekly  BillingPeriod = "WEEKLY"
	BillingPeriodMonthly BillingPeriod = "MONTHLY"
	BillingPeriodYearly  BillingPeriod = "YEARLY"
)

// IsValid checks if the period is a valid BillingPeriod
func (p BillingPeriod) IsValid() bool {
	switch p {
	case BillingPeriodWeekly, BillingPeriodMonthly, BillingPeriodYearly:
		return true
	}
	return false
}

// String returns the string representation of BillingPeriod
func (p BillingPeriod) String() string {
	return string(p)
}

// DaySpan returns the number of days between two payments of this period.
// Months and years are fixed spans, not calendar arithmetic.
func (p BillingPeriod) DaySpan() int {
	switch p {
	case BillingPeriodWeekly:
		return 7
	case BillingPeriodMonthly:
		return 30
	case BillingPeriodYearly:
		return 365
	}
	return 0
}

// NextPaymentDate returns the payment date one billing period after from
func (p BillingPeriod) NextPaymentDate(from time.Time) time.Time {
	return shared.DateOf(from).AddDate(0, 0, p.DaySpan())
}

// ParseBillingPeriod parses a string into a BillingPeriod.
// This is the single place billing period strings are validated.
func ParseBillingPeriod(value string) (BillingPeriod, error) {
	p := BillingPeriod(strings.ToUpper(strings.TrimSpace(value)))
	if !p.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Incorrect billing period %q, must be one of WEEKLY, MONTHLY, YEARLY", value))
	}
	return p, nil
}
