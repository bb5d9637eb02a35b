// Package dialog implements the per-member conversation state machine: it
// interprets one inbound text message against the state it was received in,
// accumulates flow context across turns, fires ledger side effects on
// confirmation, and produces exactly one reply per turn.
package dialog

// State is the persisted control signal of the conversation machine. It is
// stored on the member record by the backend and re-read every turn.
type State string

const (
	StateIdle                  State = "IDLE"
	StateAwaitMenuChoice       State = "AWAIT_MENU_CHOICE"
	StateAwaitContribution     State = "AWAIT_CONTRIBUTION"
	StateAwaitRepaymentCheck   State = "AWAIT_REPAYMENT_CHECK"
	StateAwaitRepaymentAmount  State = "AWAIT_REPAYMENT_AMOUNT"
	StateConfirmCheckin        State = "CONFIRM_CHECKIN"
	StateAwaitLoanAmount       State = "AWAIT_LOAN_AMOUNT"
	StateAwaitLoanPurpose      State = "AWAIT_LOAN_PURPOSE"
	StateAwaitLoanMonths       State = "AWAIT_LOAN_MONTHS"
	StateAwaitOutstandingCheck State = "AWAIT_OUTSTANDING_CHECK"
)

// ParseState maps a persisted state string onto the closed state set. A
// member record with an empty or unrecognized state is treated as unknown
// and the machine resets it to the main menu on the next turn.
func ParseState(s string) (State, bool) {
	switch State(s) {
	case StateIdle, StateAwaitMenuChoice, StateAwaitContribution,
		StateAwaitRepaymentCheck, StateAwaitRepaymentAmount, StateConfirmCheckin,
		StateAwaitLoanAmount, StateAwaitLoanPurpose, StateAwaitLoanMonths,
		StateAwaitOutstandingCheck:
		return State(s), true
	default:
		return "", false
	}
}
