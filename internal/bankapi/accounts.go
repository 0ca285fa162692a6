package bankapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// CreateAccountRequest opens a new account for the signed-in customer.
type CreateAccountRequest struct {
	AccountType    string      `json:"accountType"`
	InitialDeposit json.Number `json:"initialDeposit,omitempty"`
}

// Validate checks the request before it is sent.
func (r CreateAccountRequest) Validate() error {
	if strings.TrimSpace(r.AccountType) == "" {
		return validationError("account_type_required", "account type is required")
	}
	if r.InitialDeposit != "" {
		if v, err := r.InitialDeposit.Float64(); err != nil || v < 0 {
			return validationError("invalid_amount", "initial deposit must be a non-negative number")
		}
	}
	return nil
}

// Accounts lists the signed-in customer's accounts.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	page, err := callPage[Account](ctx, c, Request{Method: http.MethodGet, Path: "/api/accounts"})
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

// CreateAccount opens an account.
func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (Account, error) {
	if err := req.Validate(); err != nil {
		return Account{}, err
	}
	return call[Account](ctx, c, Request{Method: http.MethodPost, Path: "/api/accounts/create", Body: req, Idempotent: true})
}
