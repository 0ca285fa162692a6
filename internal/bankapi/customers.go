package bankapi

import (
	"context"
	"net/http"
	"strings"
)

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	FirstName  string `json:"firstName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Phone      string `json:"phoneNumber,omitempty"`
	Address    string `json:"address,omitempty"`
}

// Profile fetches the signed-in customer's profile.
func (c *Client) Profile(ctx context.Context) (CustomerProfile, error) {
	return call[CustomerProfile](ctx, c, Request{Method: http.MethodGet, Path: "/api/customers/me"})
}

// UpdateProfile saves profile changes and returns the stored profile.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (CustomerProfile, error) {
	return call[CustomerProfile](ctx, c, Request{Method: http.MethodPut, Path: "/api/customers/me", Body: req})
}

// CustomerKYCStatus returns the backend's plain-text KYC status (for example "VERIFIED").
func (c *Client) CustomerKYCStatus(ctx context.Context) (string, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/customers/kyc-status"})
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(string(resp.Body)), `"`), nil
}
