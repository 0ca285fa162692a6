package bankapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// CreateTransactionRequest moves money on an account.
type CreateTransactionRequest struct {
	AccountNumber       string      `json:"accountNumber"`
	TargetAccountNumber string      `json:"targetAccountNumber,omitempty"`
	Type                string      `json:"transactionType"`
	Amount              json.Number `json:"amount"`
	Description         string      `json:"description,omitempty"`
}

// Validate checks the request before it is sent.
func (r CreateTransactionRequest) Validate() error {
	if strings.TrimSpace(r.AccountNumber) == "" {
		return validationError("account_required", "account number is required")
	}
	amount, err := r.Amount.Float64()
	if err != nil || amount <= 0 {
		return validationError("invalid_amount", "amount must be greater than zero")
	}
	if strings.TrimSpace(r.Type) == "" {
		return validationError("type_required", "transaction type is required")
	}
	return nil
}

// CreateTransaction posts a transaction. Each call carries a fresh
// Idempotency-Key.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (Transaction, error) {
	if err := req.Validate(); err != nil {
		return Transaction{}, err
	}
	return call[Transaction](ctx, c, Request{
		Method:     http.MethodPost,
		Path:       "/api/transactions/create",
		Body:       req,
		Idempotent: true,
	})
}

// Transaction fetches one transaction by id.
func (c *Client) Transaction(ctx context.Context, id int64) (Transaction, error) {
	return call[Transaction](ctx, c, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/transactions/%s", id),
		Route:  "/api/transactions/{id}",
	})
}

// AccountTransactions lists an account's transactions one page at a time.
func (c *Client) AccountTransactions(ctx context.Context, accountID int64, page PageRequest) (Page[Transaction], error) {
	return callPage[Transaction](ctx, c, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/transactions/account/%s", accountID),
		Query:  page.values(),
		Route:  "/api/transactions/account/{id}",
	})
}

// TransactionsByDateRange lists transactions with dates in [start, end].
func (c *Client) TransactionsByDateRange(ctx context.Context, accountID int64, start, end time.Time) ([]Transaction, error) {
	if end.Before(start) {
		return nil, validationError("invalid_range", "end date is before start date")
	}
	q := url.Values{}
	q.Set("startDate", start.Format(dateLayout))
	q.Set("endDate", end.Format(dateLayout))
	return c.transactionList(ctx, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/transactions/account/%s/date-range", accountID),
		Query:  q,
		Route:  "/api/transactions/account/{id}/date-range",
	})
}

// TransactionsByType lists transactions of one type such as DEPOSIT.
func (c *Client) TransactionsByType(ctx context.Context, accountID int64, txType string) ([]Transaction, error) {
	return c.transactionList(ctx, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/transactions/account/%s/type/%s", accountID, txType),
		Route:  "/api/transactions/account/{id}/type/{type}",
	})
}

// RecentTransactions returns the latest limit transactions.
func (c *Client) RecentTransactions(ctx context.Context, accountID int64, limit int) ([]Transaction, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.transactionList(ctx, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/transactions/account/%s/recent", accountID),
		Query:  q,
		Route:  "/api/transactions/account/{id}/recent",
	})
}

// SearchTransactions matches description or reference against query.
func (c *Client) SearchTransactions(ctx context.Context, accountID int64, query string) ([]Transaction, error) {
	if strings.TrimSpace(query) == "" {
		return nil, validationError("query_required", "search query is required")
	}
	q := url.Values{}
	q.Set("query", query)
	return c.transactionList(ctx, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/transactions/account/%s/search", accountID),
		Query:  q,
		Route:  "/api/transactions/account/{id}/search",
	})
}

func (c *Client) transactionList(ctx context.Context, r Request) ([]Transaction, error) {
	page, err := callPage[Transaction](ctx, c, r)
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

// Statistics summarizes an account's activity.
func (c *Client) Statistics(ctx context.Context, accountID int64) (TransactionStatistics, error) {
	return call[TransactionStatistics](ctx, c, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/transactions/account/%s/statistics", accountID),
		Route:  "/api/transactions/account/{id}/statistics",
	})
}

// Passbook returns the statement view of an account.
func (c *Client) Passbook(ctx context.Context, accountID int64) (Passbook, error) {
	return call[Passbook](ctx, c, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/transactions/account/%s/passbook", accountID),
		Route:  "/api/transactions/account/{id}/passbook",
	})
}

// PassbookRange optionally bounds a generated passbook. Zero times are omitted.
type PassbookRange struct {
	Start time.Time
	End   time.Time
}

func (p PassbookRange) values() url.Values {
	q := url.Values{}
	if !p.Start.IsZero() {
		q.Set("startDate", p.Start.Format(dateLayout))
	}
	if !p.End.IsZero() {
		q.Set("endDate", p.End.Format(dateLayout))
	}
	return q
}

// DownloadPassbook fetches the passbook document.
func (c *Client) DownloadPassbook(ctx context.Context, accountID int64) (Download, error) {
	return c.download(ctx, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/transactions/account/%s/passbook/download", accountID),
		Route:  "/api/transactions/account/{id}/passbook/download",
	})
}

// GeneratePassbook is the POST variant of DownloadPassbook with a date range.
func (c *Client) GeneratePassbook(ctx context.Context, accountID int64, rng PassbookRange) (Download, error) {
	return c.download(ctx, Request{
		Method: http.MethodPost,
		Path:   pathf("/api/transactions/account/%s/passbook/download", accountID),
		Query:  rng.values(),
		Route:  "/api/transactions/account/{id}/passbook/download",
	})
}

// EmailPassbook asks the backend to mail the passbook to the customer.
func (c *Client) EmailPassbook(ctx context.Context, accountID int64, rng PassbookRange) (Ack, error) {
	return call[Ack](ctx, c, Request{
		Method: http.MethodPost,
		Path:   pathf("/api/transactions/account/%s/passbook/email", accountID),
		Query:  rng.values(),
		Route:  "/api/transactions/account/{id}/passbook/email",
	})
}
