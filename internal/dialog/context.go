package dialog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Flow tags which multi-turn flow the context belongs to, so a stale
// check-in field can never leak into a loan request or vice versa.
type Flow string

const (
	FlowNone    Flow = ""
	FlowCheckin Flow = "checkin"
	FlowLoan    Flow = "loan"
)

// Context is the per-flow accumulator of partial input values. It is
// persisted alongside the state and cleared whenever a flow completes or
// the member resets to the menu. All setters are copy-on-write: they return
// a new Context and leave the receiver untouched.
type Context struct {
	Flow            Flow             `json:"flow,omitempty"`
	Contribution    *decimal.Decimal `json:"contribution,omitempty"`
	Repayment       *decimal.Decimal `json:"repayment,omitempty"`
	LoanAmount      *decimal.Decimal `json:"loanAmount,omitempty"`
	LoanPurpose     LoanPurpose      `json:"loanPurpose,omitempty"`
	RepaymentMonths int              `json:"repaymentMonths,omitempty"`
}

// StartCheckin begins a fresh check-in flow carrying only the contribution.
func StartCheckin(amount decimal.Decimal) Context {
	return Context{Flow: FlowCheckin, Contribution: &amount}
}

// StartLoan begins a fresh loan flow carrying only the requested amount.
func StartLoan(amount decimal.Decimal) Context {
	return Context{Flow: FlowLoan, LoanAmount: &amount}
}

// WithRepayment records the repayment amount the member entered.
func (c Context) WithRepayment(amount decimal.Decimal) Context {
	c.Repayment = &amount
	return c
}

// WithoutRepayment records that the member has no repayment this month.
func (c Context) WithoutRepayment() Context {
	c.Repayment = nil
	return c
}

// WithLoanPurpose records the validated loan purpose.
func (c Context) WithLoanPurpose(p LoanPurpose) Context {
	c.LoanPurpose = p
	return c
}

// WithRepaymentMonths records the validated repayment term.
func (c Context) WithRepaymentMonths(months int) Context {
	c.RepaymentMonths = months
	return c
}

// Encode serializes the context for persistence on the member record.
func (c Context) Encode() json.RawMessage {
	data, err := json.Marshal(c)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

// DecodeContext restores a persisted context. Malformed or absent data
// decodes to an empty context; the transition table treats missing fields
// as zero amounts rather than failing the turn.
func DecodeContext(raw json.RawMessage) Context {
	var c Context
	if len(raw) == 0 {
		return c
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return Context{}
	}
	return c
}

func amountOrZero(a *decimal.Decimal) decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	return *a
}
