package bankapi

import (
	"context"
	"net/http"
	"strings"
)

// CreateTicketRequest opens a support ticket.
type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// Validate checks the request before it is sent.
func (r CreateTicketRequest) Validate() error {
	if strings.TrimSpace(r.Subject) == "" {
		return validationError("subject_required", "subject is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return validationError("description_required", "description is required")
	}
	return nil
}

type ticketMessageRequest struct {
	Message string `json:"message"`
}

// CreateTicket opens a ticket for the signed-in customer.
func (c *Client) CreateTicket(ctx context.Context, req CreateTicketRequest) (Ticket, error) {
	if err := req.Validate(); err != nil {
		return Ticket{}, err
	}
	return call[Ticket](ctx, c, Request{Method: http.MethodPost, Path: "/api/support/tickets", Body: req})
}

// Tickets lists the signed-in customer's tickets.
func (c *Client) Tickets(ctx context.Context, page PageRequest) (Page[Ticket], error) {
	return callPage[Ticket](ctx, c, Request{Method: http.MethodGet, Path: "/api/support/tickets", Query: page.values()})
}

// Ticket fetches one ticket with its conversation.
func (c *Client) Ticket(ctx context.Context, id int64) (Ticket, error) {
	return call[Ticket](ctx, c, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/support/tickets/%s", id),
		Route:  "/api/support/tickets/{id}",
	})
}

// AddTicketMessage appends a message to a ticket.
func (c *Client) AddTicketMessage(ctx context.Context, id int64, message string) (Ticket, error) {
	if strings.TrimSpace(message) == "" {
		return Ticket{}, validationError("message_required", "message is required")
	}
	return call[Ticket](ctx, c, Request{
		Method: http.MethodPost,
		Path:   pathf("/api/support/tickets/%s/messages", id),
		Body:   ticketMessageRequest{Message: message},
		Route:  "/api/support/tickets/{id}/messages",
	})
}
