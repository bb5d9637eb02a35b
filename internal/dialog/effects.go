package dialog

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sakhilabs/sakhi/internal/catalog"
	"github.com/sakhilabs/sakhi/internal/ledger"
)

// runCommitSequence fires the durable writes for a confirmed check-in, in
// order: contribution transaction, repayment transaction plus outstanding
// balance patch, total-contributed increment, score recalculation. Steps
// are attempted once each; a failed step is logged and counted but earlier
// steps are not rolled back and later steps still run. The member sees the
// success reply regardless, matching the accepted inconsistency window
// between user-visible state and ledger truth.
func (e *Engine) runCommitSequence(ctx context.Context, m *ledger.Member, c Context) {
	ref := uuid.NewString()
	contribution := amountOrZero(c.Contribution)
	clean := true

	err := e.ledger.CreateTransaction(ctx, ledger.TransactionRequest{
		MemberID:         m.ID,
		GroupID:          m.GroupID,
		Type:             ledger.TransactionContribution,
		Amount:           contribution,
		DaysLate:         0,
		VerifiedByMember: true,
		ClientRef:        ref,
	})
	if err != nil {
		log.Printf("dialog: save contribution for member %s failed: %v", m.ID, err)
		e.collaboratorError("save_contribution")
		clean = false
	} else {
		log.Printf("dialog: saved contribution member=%s amount=%s", m.ID, contribution)
	}

	if c.Repayment != nil {
		clean = e.saveRepayment(ctx, m, *c.Repayment, ref) && clean
	}

	if !e.addToTotalContributed(ctx, m.ID, contribution) {
		clean = false
	}

	if _, err := e.ledger.RecalculateScore(ctx, m.ID); err != nil {
		log.Printf("dialog: score recalculation for member %s failed: %v", m.ID, err)
		e.collaboratorError("recalculate_score")
		clean = false
	}

	if e.metrics != nil {
		outcome := "clean"
		if !clean {
			outcome = "degraded"
		}
		e.metrics.CommitSequences.WithLabelValues(outcome).Inc()
	}
}

// saveRepayment records the repayment transaction and, only once that has
// succeeded, reduces the outstanding balance (never below zero).
func (e *Engine) saveRepayment(ctx context.Context, m *ledger.Member, repayment decimal.Decimal, ref string) bool {
	err := e.ledger.CreateTransaction(ctx, ledger.TransactionRequest{
		MemberID:         m.ID,
		GroupID:          m.GroupID,
		Type:             ledger.TransactionLoanRepayment,
		Amount:           repayment,
		DaysLate:         0,
		VerifiedByMember: true,
		ClientRef:        ref,
	})
	if err != nil {
		log.Printf("dialog: save repayment for member %s failed: %v", m.ID, err)
		e.collaboratorError("save_repayment")
		return false
	}
	log.Printf("dialog: saved repayment member=%s amount=%s", m.ID, repayment)

	outstanding := decimal.Max(decimal.Zero, m.OutstandingLoanAmount.Sub(repayment))
	patch := ledger.MemberPatch{OutstandingLoanAmount: &outstanding}
	if err := e.ledger.PatchMember(ctx, m.ID, patch); err != nil {
		log.Printf("dialog: update outstanding for member %s failed: %v", m.ID, err)
		e.collaboratorError("update_outstanding")
		return false
	}
	return true
}

// addToTotalContributed is a read-modify-write: the backend exposes only
// GET and PATCH for this field, so two overlapping turns can race. Known
// non-atomicity, kept until the backend grows an increment operation.
func (e *Engine) addToTotalContributed(ctx context.Context, memberID string, delta decimal.Decimal) bool {
	fresh, err := e.ledger.Member(ctx, memberID)
	if err != nil {
		log.Printf("dialog: refetch member %s for total update failed: %v", memberID, err)
		e.collaboratorError("update_total_contributed")
		return false
	}
	total := fresh.TotalContributed.Add(delta)
	patch := ledger.MemberPatch{TotalContributed: &total}
	if err := e.ledger.PatchMember(ctx, memberID, patch); err != nil {
		log.Printf("dialog: update totalContributed for member %s failed: %v", memberID, err)
		e.collaboratorError("update_total_contributed")
		return false
	}
	return true
}

// submitLoan creates the pending loan request from the accumulated loan
// flow context. A failure is logged and counted; the flow still completes
// and the member is told the request went out, per the no-rollback policy.
func (e *Engine) submitLoan(ctx context.Context, m *ledger.Member, c Context) {
	req := ledger.LoanRequest{
		MemberID:        m.ID,
		GroupID:         m.GroupID,
		Amount:          amountOrZero(c.LoanAmount),
		Purpose:         string(c.LoanPurpose),
		RepaymentMonths: c.RepaymentMonths,
		Status:          ledger.LoanPending,
		ClientRef:       uuid.NewString(),
	}
	if _, err := e.ledger.CreateLoanRequest(ctx, req); err != nil {
		log.Printf("dialog: loan request for member %s failed: %v", m.ID, err)
		e.collaboratorError("create_loan_request")
		return
	}
	log.Printf("dialog: loan request submitted member=%s amount=%s", m.ID, req.Amount)
}

// Read-only lookups degrade to empty results so a backend hiccup produces a
// reply with zeroes instead of a failed turn.

func (e *Engine) fetchTotalSavings(ctx context.Context, memberID string) decimal.Decimal {
	total, err := e.ledger.TotalSavings(ctx, memberID)
	if err != nil {
		log.Printf("dialog: total savings for member %s failed: %v", memberID, err)
		e.collaboratorError("total_savings")
		return decimal.Zero
	}
	return total
}

func (e *Engine) fetchActiveLoans(ctx context.Context, memberID string) []catalog.Loan {
	loans, err := e.ledger.MemberLoans(ctx, memberID)
	if err != nil {
		log.Printf("dialog: loan list for member %s failed: %v", memberID, err)
		e.collaboratorError("member_loans")
		return nil
	}
	var active []catalog.Loan
	for _, l := range loans {
		if ledger.IsActiveLoan(l) {
			active = append(active, catalog.Loan{Amount: l.Amount, Purpose: l.Purpose, Status: l.Status})
		}
	}
	return active
}

func (e *Engine) fetchGroup(ctx context.Context, groupID string) *ledger.Group {
	g, err := e.ledger.Group(ctx, groupID)
	if err != nil {
		if !errors.Is(err, ledger.ErrNotFound) {
			log.Printf("dialog: group %s lookup failed: %v", groupID, err)
			e.collaboratorError("group")
		}
		return nil
	}
	return g
}

func (e *Engine) fetchEligibleSchemes(ctx context.Context, memberID string) []catalog.Scheme {
	schemes, err := e.ledger.Schemes(ctx, memberID)
	if err != nil {
		log.Printf("dialog: scheme list for member %s failed: %v", memberID, err)
		e.collaboratorError("schemes")
		return nil
	}
	var eligible []catalog.Scheme
	for _, s := range schemes {
		if s.IsEligible {
			eligible = append(eligible, catalog.Scheme{Name: s.SchemeName})
		}
	}
	return eligible
}
