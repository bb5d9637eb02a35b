package ledger

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types accepted by the backend.
const (
	TransactionContribution  = "CONTRIBUTION"
	TransactionLoanRepayment = "LOAN_REPAYMENT"
)

// Loan statuses the backend reports. A loan counts as active while it is
// pending, approved or disbursed.
const (
	LoanPending   = "PENDING"
	LoanApproved  = "APPROVED"
	LoanDisbursed = "DISBURSED"
	LoanRepaid    = "REPAID"
	LoanRejected  = "REJECTED"
)

// Member is the backend's member record. The dialog engine fetches it fresh
// at the start of every turn and never caches it across turns.
type Member struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Language    string `json:"language"`
	GroupID     string `json:"groupId"`

	ConversationState   string          `json:"conversationState"`
	ConversationContext json.RawMessage `json:"conversationContext"`

	OutstandingLoanAmount decimal.Decimal `json:"outstandingLoanAmount"`
	TotalContributed      decimal.Decimal `json:"totalContributed"`

	// CreditScore is a pointer so that a member the backend has never scored
	// can be told apart from a member with a score of zero.
	CreditScore *float64 `json:"creditScore"`
	ScoreBand   string   `json:"scoreBand"`
}

// MemberPatch carries the writable member fields. Nil fields are left
// untouched by the backend.
type MemberPatch struct {
	ConversationState     *string          `json:"conversationState,omitempty"`
	ConversationContext   json.RawMessage  `json:"conversationContext,omitempty"`
	OutstandingLoanAmount *decimal.Decimal `json:"outstandingLoanAmount,omitempty"`
	TotalContributed      *decimal.Decimal `json:"totalContributed,omitempty"`
}

// TransactionRequest creates one ledger transaction.
type TransactionRequest struct {
	MemberID         string          `json:"memberId"`
	GroupID          string          `json:"groupId"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	DaysLate         int             `json:"daysLate"`
	VerifiedByMember bool            `json:"verifiedByMember"`
	// ClientRef identifies the commit sequence that produced this write so
	// the backend can drop duplicates from redelivered turns.
	ClientRef string `json:"clientRef,omitempty"`
}

// Transaction is a recorded ledger entry.
type Transaction struct {
	ID        string          `json:"id"`
	MemberID  string          `json:"memberId"`
	GroupID   string          `json:"groupId"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

// LoanRequest submits a new loan for leader approval.
type LoanRequest struct {
	MemberID        string          `json:"memberId"`
	GroupID         string          `json:"groupId"`
	Amount          decimal.Decimal `json:"amount"`
	Purpose         string          `json:"purpose"`
	RepaymentMonths int             `json:"repaymentMonths"`
	Status          string          `json:"status"`
	ClientRef       string          `json:"clientRef,omitempty"`
}

// Loan is a loan record as the backend stores it.
type Loan struct {
	ID              string          `json:"id"`
	MemberID        string          `json:"memberId"`
	Amount          decimal.Decimal `json:"amount"`
	Purpose         string          `json:"purpose"`
	RepaymentMonths int             `json:"repaymentMonths"`
	Status          string          `json:"status"`
}

// Group is a self-help group record.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LeaderName  string `json:"leaderName"`
	LeaderPhone string `json:"leaderPhone"`
}

// Scheme is a government scheme with the member's computed eligibility.
type Scheme struct {
	ID         string `json:"id"`
	SchemeName string `json:"schemeName"`
	Benefit    string `json:"benefit"`
	IsEligible bool   `json:"isEligible"`
}

// ScoreResult is returned by a score recalculation.
type ScoreResult struct {
	Score float64 `json:"score"`
	Band  string  `json:"band"`
}

// IsActiveLoan reports whether the loan should appear in the member's
// active-loan listing.
func IsActiveLoan(l Loan) bool {
	switch l.Status {
	case LoanPending, LoanApproved, LoanDisbursed:
		return true
	default:
		return false
	}
}
