// internal/domain/daily_limit.go
package domain

import (
	"time"

	"finflow-account/internal/util"
)

// DailyLimit counts the debits made on an account during one UTC day.
type DailyLimit struct {
	AccountID AccountID `db:"account_id"`
	Day       time.Time `db:"day"`
	Counter   int       `db:"counter"`
	Limit     int       `db:"debit_limit"`
}

// NewDailyLimit creates a DailyLimit for the UTC day containing day.
func NewDailyLimit(accountID AccountID, day time.Time, counter, limit int) DailyLimit {
	return DailyLimit{
		AccountID: accountID,
		Day:       TruncateDay(day),
		Counter:   counter,
		Limit:     limit,
	}
}

// IsLimitReached reports whether no further debit is allowed today.
func (d DailyLimit) IsLimitReached() bool {
	return d.Counter >= d.Limit
}

// IncreaseCounter returns a copy of d with the counter bumped by one.
// d itself is never modified; ErrDailyLimitReached is returned when d is already at its limit.
func (d DailyLimit) IncreaseCounter() (DailyLimit, error) {
	if d.IsLimitReached() {
		return d, util.ErrDailyLimitReached
	}
	d.Counter++
	return d, nil
}

// TruncateDay returns midnight UTC of t's UTC day.
func TruncateDay(t time.Time) time.Time {
	y, m, dd := t.UTC().Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}
