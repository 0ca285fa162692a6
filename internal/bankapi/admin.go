package bankapi

import (
	"context"
	"net/http"
	"strings"
)

// KYC review decisions.
const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// ReviewKYCRequest records an administrator's decision on a document.
type ReviewKYCRequest struct {
	Decision string `json:"status"`
	Remarks  string `json:"remarks,omitempty"`
}

// Validate checks the request before it is sent.
func (r ReviewKYCRequest) Validate() error {
	switch r.Decision {
	case DecisionApproved:
		return nil
	case DecisionRejected:
		if strings.TrimSpace(r.Remarks) == "" {
			return validationError("remarks_required", "remarks are required when rejecting")
		}
		return nil
	default:
		return validationError("invalid_decision", "decision must be APPROVED or REJECTED")
	}
}

// AdminCustomers lists customers.
func (c *Client) AdminCustomers(ctx context.Context, page PageRequest) (Page[CustomerProfile], error) {
	return callPage[CustomerProfile](ctx, c, Request{Method: http.MethodGet, Path: "/admin/customers", Query: page.values()})
}

// AdminCustomer fetches one customer.
func (c *Client) AdminCustomer(ctx context.Context, id int64) (CustomerProfile, error) {
	return call[CustomerProfile](ctx, c, Request{
		Method: http.MethodGet,
		Path:   pathf("/admin/customers/%s", id),
		Route:  "/admin/customers/{id}",
	})
}

// PendingKYC lists documents awaiting review.
func (c *Client) PendingKYC(ctx context.Context, page PageRequest) (Page[KYCDocument], error) {
	return callPage[KYCDocument](ctx, c, Request{Method: http.MethodGet, Path: "/admin/kyc/pending", Query: page.values()})
}

// ReviewKYC approves or rejects a document.
func (c *Client) ReviewKYC(ctx context.Context, documentID int64, req ReviewKYCRequest) (KYCDocument, error) {
	if err := req.Validate(); err != nil {
		return KYCDocument{}, err
	}
	return call[KYCDocument](ctx, c, Request{
		Method: http.MethodPost,
		Path:   pathf("/admin/kyc/%s/review", documentID),
		Body:   req,
		Route:  "/admin/kyc/{id}/review",
	})
}

// AdminSupportTickets lists tickets across all customers.
func (c *Client) AdminSupportTickets(ctx context.Context, page PageRequest) (Page[Ticket], error) {
	return callPage[Ticket](ctx, c, Request{Method: http.MethodGet, Path: "/admin/support/tickets", Query: page.values()})
}
