package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sakhilabs/sakhi/internal/catalog"
	"github.com/sakhilabs/sakhi/internal/ledger"
	"github.com/sakhilabs/sakhi/internal/observability"
	"github.com/sakhilabs/sakhi/internal/turnlog"
)

// Ledger is the backend collaborator surface the engine needs. It is
// satisfied by *ledger.Client.
type Ledger interface {
	MemberByPlatformID(ctx context.Context, platformID string) (*ledger.Member, error)
	Member(ctx context.Context, memberID string) (*ledger.Member, error)
	SaveConversation(ctx context.Context, memberID, state string, convCtx json.RawMessage) error
	CreateTransaction(ctx context.Context, req ledger.TransactionRequest) error
	PatchMember(ctx context.Context, memberID string, patch ledger.MemberPatch) error
	RecalculateScore(ctx context.Context, memberID string) (ledger.ScoreResult, error)
	CreateLoanRequest(ctx context.Context, req ledger.LoanRequest) (*ledger.Loan, error)
	MemberLoans(ctx context.Context, memberID string) ([]ledger.Loan, error)
	Group(ctx context.Context, groupID string) (*ledger.Group, error)
	Schemes(ctx context.Context, memberID string) ([]ledger.Scheme, error)
	TotalSavings(ctx context.Context, memberID string) (decimal.Decimal, error)
}

// TurnRecorder receives the audit record of each processed turn. It is
// satisfied by turnlog.Store.
type TurnRecorder interface {
	Record(ctx context.Context, turn turnlog.Turn) error
}

// Engine is the per-message dialog driver. It holds no conversation state
// of its own; every turn is a function of the freshly fetched member record
// and the inbound text.
type Engine struct {
	ledger      Ledger
	turns       TurnRecorder
	metrics     *observability.Metrics
	defaultLang catalog.Language
}

func New(l Ledger, turns TurnRecorder, metrics *observability.Metrics, defaultLang catalog.Language) *Engine {
	if defaultLang == "" {
		defaultLang = catalog.English
	}
	return &Engine{
		ledger:      l,
		turns:       turns,
		metrics:     metrics,
		defaultLang: defaultLang,
	}
}

// HandleMessage processes one inbound text turn and returns the single
// reply to deliver.
func (e *Engine) HandleMessage(ctx context.Context, platformID, text string) (reply string) {
	started := time.Now()
	outcome := "error"
	defer func() {
		if r := recover(); r != nil {
			log.Printf("dialog: panic handling turn for %s: %v", platformID, r)
			reply = catalog.ForLanguage(e.defaultLang).SomethingWrong
			outcome = "panic"
		}
		e.observe(outcome, started)
	}()

	m, err := e.ledger.MemberByPlatformID(ctx, platformID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			outcome = "not_registered"
			e.recordTurn(ctx, turnlog.Turn{PlatformID: platformID, Outcome: outcome})
			return catalog.ForLanguage(e.defaultLang).NotRegisteredWithID(platformID)
		}
		log.Printf("dialog: member lookup for %s failed: %v", platformID, err)
		e.collaboratorError("member_by_platform_id")
		return catalog.ForLanguage(e.defaultLang).SomethingWrong
	}

	msgs := catalog.ForLanguage(catalog.Language(m.Language))

	if IsResetToken(text) {
		e.persist(ctx, m.ID, StateAwaitMenuChoice, Context{})
		outcome = "reset"
		e.recordTurn(ctx, turnlog.Turn{
			MemberID:    m.ID,
			PlatformID:  platformID,
			StateBefore: m.ConversationState,
			StateAfter:  string(StateAwaitMenuChoice),
			Outcome:     outcome,
		})
		return msgs.WelcomeMenu
	}

	state, known := ParseState(m.ConversationState)
	var cur Context
	if known {
		cur = DecodeContext(m.ConversationContext)
	}

	res := e.dispatch(ctx, m, msgs, state, known, cur, text)
	if res.persist {
		e.persist(ctx, m.ID, res.state, res.context)
	}
	outcome = res.outcome
	after := m.ConversationState
	if res.persist {
		after = string(res.state)
	}
	e.recordTurn(ctx, turnlog.Turn{
		MemberID:    m.ID,
		PlatformID:  platformID,
		StateBefore: m.ConversationState,
		StateAfter:  after,
		Outcome:     outcome,
	})
	return res.reply
}

// HandleStart implements the /start command: registration check first, then
// the reset-to-menu behavior.
func (e *Engine) HandleStart(ctx context.Context, platformID string) string {
	started := time.Now()
	m, err := e.ledger.MemberByPlatformID(ctx, platformID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			e.observe("not_registered", started)
			e.recordTurn(ctx, turnlog.Turn{PlatformID: platformID, Outcome: "not_registered"})
			return catalog.ForLanguage(e.defaultLang).StartNotRegistered(platformID)
		}
		log.Printf("dialog: member lookup for %s failed: %v", platformID, err)
		e.collaboratorError("member_by_platform_id")
		e.observe("error", started)
		return catalog.ForLanguage(e.defaultLang).SomethingWrong
	}

	msgs := catalog.ForLanguage(catalog.Language(m.Language))
	e.persist(ctx, m.ID, StateAwaitMenuChoice, Context{})
	e.observe("start", started)
	e.recordTurn(ctx, turnlog.Turn{
		MemberID:    m.ID,
		PlatformID:  platformID,
		StateBefore: m.ConversationState,
		StateAfter:  string(StateAwaitMenuChoice),
		Outcome:     "start",
	})
	return msgs.WelcomeMenu
}

// HandleMenu implements the /menu command, which behaves as the reset token.
func (e *Engine) HandleMenu(ctx context.Context, platformID string) string {
	started := time.Now()
	m, err := e.ledger.MemberByPlatformID(ctx, platformID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			e.observe("not_registered", started)
			return catalog.ForLanguage(e.defaultLang).NotRegistered
		}
		log.Printf("dialog: member lookup for %s failed: %v", platformID, err)
		e.collaboratorError("member_by_platform_id")
		e.observe("error", started)
		return catalog.ForLanguage(e.defaultLang).SomethingWrong
	}

	msgs := catalog.ForLanguage(catalog.Language(m.Language))
	e.persist(ctx, m.ID, StateAwaitMenuChoice, Context{})
	e.observe("reset", started)
	e.recordTurn(ctx, turnlog.Turn{
		MemberID:    m.ID,
		PlatformID:  platformID,
		StateBefore: m.ConversationState,
		StateAfter:  string(StateAwaitMenuChoice),
		Outcome:     "reset",
	})
	return msgs.WelcomeMenu
}

// persist writes state and context together. A persistence failure is
// logged and counted but does not block the reply; the member can always
// recover with the reset token.
func (e *Engine) persist(ctx context.Context, memberID string, state State, c Context) {
	if err := e.ledger.SaveConversation(ctx, memberID, string(state), c.Encode()); err != nil {
		log.Printf("dialog: persist state %s for member %s failed: %v", state, memberID, err)
		e.collaboratorError("save_conversation")
	}
}

func (e *Engine) recordTurn(ctx context.Context, turn turnlog.Turn) {
	if e.turns == nil {
		return
	}
	if err := e.turns.Record(ctx, turn); err != nil {
		log.Printf("dialog: turn log write failed: %v", err)
	}
}

func (e *Engine) observe(outcome string, started time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.TurnsTotal.WithLabelValues(outcome).Inc()
	e.metrics.ObserveTurnLatency(time.Since(started))
}

func (e *Engine) collaboratorError(op string) {
	if e.metrics == nil {
		return
	}
	e.metrics.CollaboratorErrors.WithLabelValues(op).Inc()
}
