package dialog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Repayment terms the loan flow accepts, in months.
const (
	minRepaymentMonths = 1
	maxRepaymentMonths = 60
)

// IsResetToken reports whether the input is the global reset shortcut that
// returns the member to the main menu from any state.
func IsResetToken(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "menu", "0":
		return true
	default:
		return false
	}
}

// ParseAmount accepts a number strictly greater than zero.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.GreaterThan(decimal.Zero) {
		return decimal.Zero, false
	}
	return d, true
}

// ParseMonths accepts an integer repayment term between 1 and 60 months.
func ParseMonths(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < minRepaymentMonths || n > maxRepaymentMonths {
		return 0, false
	}
	return n, true
}
