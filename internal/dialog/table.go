package dialog

import (
	"context"
	"math"
	"strings"

	"github.com/sakhilabs/sakhi/internal/catalog"
	"github.com/sakhilabs/sakhi/internal/ledger"
)

// result is the outcome of one transition: the state and context to
// persist, the reply to send, and a short outcome tag for metrics and the
// turn log. persist is false for rejected input, which never advances state
// or mutates context.
type result struct {
	state   State
	context Context
	persist bool
	reply   string
	outcome string
}

func reject(reply, prompt string) result {
	return result{persist: false, reply: reply + "\n\n" + prompt, outcome: "rejected"}
}

// dispatch routes a validated-or-raw input through the transition table.
// Every reachable state has an explicit row; an unknown persisted state
// resets to the menu rather than trapping the member.
func (e *Engine) dispatch(ctx context.Context, m *ledger.Member, msgs catalog.Messages, state State, known bool, c Context, body string) result {
	if !known {
		return result{state: StateAwaitMenuChoice, context: Context{}, persist: true, reply: msgs.WelcomeMenu, outcome: "reset_unknown_state"}
	}

	body = strings.TrimSpace(body)

	switch state {
	case StateIdle:
		// Any first message opens the menu.
		return result{state: StateAwaitMenuChoice, context: Context{}, persist: true, reply: msgs.WelcomeMenu, outcome: "menu_shown"}
	case StateAwaitMenuChoice:
		return e.handleMenuChoice(ctx, m, msgs, body)
	case StateAwaitContribution:
		return e.handleAwaitContribution(msgs, body)
	case StateAwaitRepaymentCheck:
		return e.handleRepaymentCheck(msgs, c, body)
	case StateAwaitRepaymentAmount:
		return e.handleRepaymentAmount(msgs, c, body)
	case StateConfirmCheckin:
		return e.handleConfirmCheckin(ctx, m, msgs, c, body)
	case StateAwaitLoanAmount:
		return e.handleAwaitLoanAmount(msgs, body)
	case StateAwaitLoanPurpose:
		return e.handleLoanPurpose(msgs, c, body)
	case StateAwaitLoanMonths:
		return e.handleLoanMonths(msgs, c, body)
	case StateAwaitOutstandingCheck:
		return e.handleOutstandingCheck(ctx, m, msgs, c, body)
	default:
		return result{state: StateAwaitMenuChoice, context: Context{}, persist: true, reply: msgs.WelcomeMenu, outcome: "reset_unknown_state"}
	}
}

func (e *Engine) handleMenuChoice(ctx context.Context, m *ledger.Member, msgs catalog.Messages, body string) result {
	switch body {
	case "1":
		return result{state: StateAwaitContribution, context: Context{}, persist: true, reply: msgs.AskContribution, outcome: "checkin_started"}
	case "2":
		return result{state: StateAwaitLoanAmount, context: Context{}, persist: true, reply: msgs.AskLoanAmount, outcome: "loan_started"}
	case "3":
		savings := e.fetchTotalSavings(ctx, m.ID)
		score := 50
		if m.CreditScore != nil {
			score = int(math.Round(*m.CreditScore))
		}
		band := m.ScoreBand
		if band == "" {
			band = "FAIR"
		}
		band = strings.ReplaceAll(band, "_", " ")
		reply := msgs.ScoreDisplay(score, band, savings, m.OutstandingLoanAmount)
		return result{state: StateIdle, context: Context{}, persist: true, reply: reply, outcome: "score_shown"}
	case "4":
		loans := e.fetchActiveLoans(ctx, m.ID)
		return result{state: StateIdle, context: Context{}, persist: true, reply: msgs.LoanDetails(loans), outcome: "loans_shown"}
	case "5":
		group := e.fetchGroup(ctx, m.GroupID)
		reply := msgs.InvalidInput
		if group != nil {
			reply = msgs.LeaderContact(group.LeaderName, group.LeaderPhone)
		}
		return result{state: StateIdle, context: Context{}, persist: true, reply: reply, outcome: "leader_shown"}
	case "6":
		schemes := e.fetchEligibleSchemes(ctx, m.ID)
		return result{state: StateIdle, context: Context{}, persist: true, reply: msgs.SchemesList(schemes), outcome: "schemes_shown"}
	default:
		return reject(msgs.InvalidInput, msgs.WelcomeMenu)
	}
}

func (e *Engine) handleAwaitContribution(msgs catalog.Messages, body string) result {
	amount, ok := ParseAmount(body)
	if !ok {
		return reject(msgs.InvalidInput, msgs.AskContribution)
	}
	return result{state: StateAwaitRepaymentCheck, context: StartCheckin(amount), persist: true, reply: msgs.AskRepayment, outcome: "contribution_entered"}
}

func (e *Engine) handleRepaymentCheck(msgs catalog.Messages, c Context, body string) result {
	switch body {
	case "1":
		return result{state: StateAwaitRepaymentAmount, context: c, persist: true, reply: msgs.AskRepaymentAmount, outcome: "repayment_requested"}
	case "2":
		next := c.WithoutRepayment()
		reply := msgs.ConfirmCheckin(amountOrZero(next.Contribution), nil)
		return result{state: StateConfirmCheckin, context: next, persist: true, reply: reply, outcome: "checkin_summary"}
	default:
		return reject(msgs.InvalidInput, msgs.AskRepayment)
	}
}

func (e *Engine) handleRepaymentAmount(msgs catalog.Messages, c Context, body string) result {
	amount, ok := ParseAmount(body)
	if !ok {
		return reject(msgs.InvalidInput, msgs.AskRepaymentAmount)
	}
	next := c.WithRepayment(amount)
	reply := msgs.ConfirmCheckin(amountOrZero(next.Contribution), next.Repayment)
	return result{state: StateConfirmCheckin, context: next, persist: true, reply: reply, outcome: "checkin_summary"}
}

func (e *Engine) handleConfirmCheckin(ctx context.Context, m *ledger.Member, msgs catalog.Messages, c Context, body string) result {
	switch body {
	case "1":
		e.runCommitSequence(ctx, m, c)
		return result{state: StateIdle, context: Context{}, persist: true, reply: msgs.SavedSuccess, outcome: "checkin_committed"}
	case "2":
		return result{state: StateAwaitContribution, context: c, persist: true, reply: msgs.AskContribution, outcome: "checkin_restarted"}
	default:
		return reject(msgs.InvalidInput, msgs.ConfirmCheckin(amountOrZero(c.Contribution), c.Repayment))
	}
}

func (e *Engine) handleAwaitLoanAmount(msgs catalog.Messages, body string) result {
	amount, ok := ParseAmount(body)
	if !ok {
		return reject(msgs.InvalidInput, msgs.AskLoanAmount)
	}
	return result{state: StateAwaitLoanPurpose, context: StartLoan(amount), persist: true, reply: msgs.AskLoanPurpose, outcome: "loan_amount_entered"}
}

func (e *Engine) handleLoanPurpose(msgs catalog.Messages, c Context, body string) result {
	purpose, ok := PurposeFromCode(body)
	if !ok {
		return reject(msgs.InvalidInput, msgs.AskLoanPurpose)
	}
	return result{state: StateAwaitLoanMonths, context: c.WithLoanPurpose(purpose), persist: true, reply: msgs.AskLoanMonths, outcome: "loan_purpose_entered"}
}

func (e *Engine) handleLoanMonths(msgs catalog.Messages, c Context, body string) result {
	months, ok := ParseMonths(body)
	if !ok {
		return reject(msgs.InvalidInput, msgs.AskLoanMonths)
	}
	return result{state: StateAwaitOutstandingCheck, context: c.WithRepaymentMonths(months), persist: true, reply: msgs.AskOutstanding, outcome: "loan_months_entered"}
}

func (e *Engine) handleOutstandingCheck(ctx context.Context, m *ledger.Member, msgs catalog.Messages, c Context, body string) result {
	if body != "1" && body != "2" {
		return reject(msgs.InvalidInput, msgs.AskOutstanding)
	}
	e.submitLoan(ctx, m, c)
	return result{state: StateIdle, context: Context{}, persist: true, reply: msgs.LoanSubmitted(amountOrZero(c.LoanAmount)), outcome: "loan_submitted"}
}
