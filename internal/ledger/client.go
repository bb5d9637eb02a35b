// Package ledger is the HTTP client for the backend member/ledger service.
// The client reports errors faithfully; the degrade-on-read policy lives in
// the dialog engine, which decides what an empty result means for a reply.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sakhilabs/sakhi/internal/reliability"
)

// ErrNotFound is returned when the backend reports 404 for a lookup.
var ErrNotFound = errors.New("ledger: not found")

const (
	readAttempts = 2
	retryBase    = 200 * time.Millisecond
	retryCap     = 2 * time.Second
)

// Client talks JSON-over-HTTP to the backend.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// MemberByPlatformID looks up a member by their Telegram user id.
func (c *Client) MemberByPlatformID(ctx context.Context, platformID string) (*Member, error) {
	var m Member
	if err := c.getJSON(ctx, "/api/members/by-telegram/"+platformID, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Member fetches a member by their internal id.
func (c *Client) Member(ctx context.Context, memberID string) (*Member, error) {
	var m Member
	if err := c.getJSON(ctx, "/api/members/"+memberID, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveConversation persists the member's conversation state and context in a
// single patch so they can never drift apart.
func (c *Client) SaveConversation(ctx context.Context, memberID, state string, convCtx json.RawMessage) error {
	if len(convCtx) == 0 {
		convCtx = json.RawMessage(`{}`)
	}
	patch := MemberPatch{
		ConversationState:   &state,
		ConversationContext: convCtx,
	}
	return c.send(ctx, http.MethodPatch, "/api/members/"+memberID, patch, nil)
}

// PatchMember updates writable member fields.
func (c *Client) PatchMember(ctx context.Context, memberID string, patch MemberPatch) error {
	return c.send(ctx, http.MethodPatch, "/api/members/"+memberID, patch, nil)
}

// CreateTransaction records one contribution or repayment transaction.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) error {
	return c.send(ctx, http.MethodPost, "/api/transactions", req, nil)
}

// RecalculateScore asks the backend to recompute the member's credit score.
func (c *Client) RecalculateScore(ctx context.Context, memberID string) (ScoreResult, error) {
	var out ScoreResult
	err := c.send(ctx, http.MethodPost, "/api/members/"+memberID+"/recalculate-score", nil, &out)
	return out, err
}

// CreateLoanRequest submits a loan request for leader approval.
func (c *Client) CreateLoanRequest(ctx context.Context, req LoanRequest) (*Loan, error) {
	var loan Loan
	if err := c.send(ctx, http.MethodPost, "/api/loans", req, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// MemberLoans lists all loans for a member.
func (c *Client) MemberLoans(ctx context.Context, memberID string) ([]Loan, error) {
	var loans []Loan
	if err := c.getJSON(ctx, "/api/loans/member/"+memberID, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// Group fetches a group record.
func (c *Client) Group(ctx context.Context, groupID string) (*Group, error) {
	var g Group
	if err := c.getJSON(ctx, "/api/groups/"+groupID, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Schemes lists government schemes with the member's eligibility flags.
func (c *Client) Schemes(ctx context.Context, memberID string) ([]Scheme, error) {
	var schemes []Scheme
	if err := c.getJSON(ctx, "/api/members/"+memberID+"/schemes", &schemes); err != nil {
		return nil, err
	}
	return schemes, nil
}

// TotalSavings sums the member's CONTRIBUTION transactions.
func (c *Client) TotalSavings(ctx context.Context, memberID string) (decimal.Decimal, error) {
	var txns []Transaction
	if err := c.getJSON(ctx, "/api/transactions/member/"+memberID, &txns); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, t := range txns {
		if t.Type == TransactionContribution {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

// Ping checks backend reachability for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	return c.getJSON(ctx, "/api/health", nil)
}

// getJSON issues a GET, retrying once on transient failures. Reads are safe
// to retry; writes are not and go through send.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := 0; attempt < readAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(reliability.ExponentialBackoff(attempt-1, retryBase, retryCap)):
			}
		}
		err := c.send(ctx, http.MethodGet, path, nil, out)
		if err == nil || errors.Is(err, ErrNotFound) {
			return err
		}
		var se *statusError
		if errors.As(err, &se) && !reliability.IsRetryableHTTPStatus(se.code) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &statusError{method: method, path: path, code: res.StatusCode, body: string(snippet)}
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

type statusError struct {
	method string
	path   string
	code   int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s %s: backend status %d: %s", e.method, e.path, e.code, e.body)
}
