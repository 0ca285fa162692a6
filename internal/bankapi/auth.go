package bankapi

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"github.com/congo-pay/bank_portal/internal/tokenstore"
)

const minPasswordLength = 8

// LoginRequest is shared by customer and administrator login.
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// Validate checks the request before it is sent.
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" && strings.TrimSpace(r.Username) == "" {
		return validationError("identifier_required", "email or username is required")
	}
	if r.Password == "" {
		return validationError("password_required", "password is required")
	}
	return nil
}

// InitiateRegistrationRequest starts onboarding and triggers an email OTP.
type InitiateRegistrationRequest struct {
	Email     string `json:"email"`
	Phone     string `json:"phoneNumber,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Validate checks the request before it is sent.
func (r InitiateRegistrationRequest) Validate() error {
	return validateEmail(r.Email)
}

// VerifyEmailRequest confirms the OTP sent during initiation.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Validate checks the request before it is sent.
func (r VerifyEmailRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if strings.TrimSpace(r.OTP) == "" {
		return validationError("otp_required", "verification code is required")
	}
	return nil
}

// CompleteRegistrationRequest finishes onboarding and signs the customer in.
type CompleteRegistrationRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	MiddleName      string `json:"middleName,omitempty"`
	LastName        string `json:"lastName"`
	Phone           string `json:"phoneNumber,omitempty"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	Address         string `json:"address,omitempty"`
	AccountType     string `json:"accountType,omitempty"`
}

// Validate checks the request before it is sent.
func (r CompleteRegistrationRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return validationError("name_required", "first and last name are required")
	}
	if len(r.Password) < minPasswordLength {
		return validationError("password_too_short", "password must be at least 8 characters")
	}
	if r.Password != r.ConfirmPassword {
		return validationError("password_mismatch", "passwords do not match")
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return validationError("email_required", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return validationError("email_invalid", "email address is invalid")
	}
	return nil
}

// Login signs a customer in and stores the returned token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	return c.login(ctx, "/auth/login", req, tokenstore.KindCustomer)
}

// AdminLogin signs an administrator in and stores the returned token.
func (c *Client) AdminLogin(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	return c.login(ctx, "/admin/auth/login", req, tokenstore.KindAdmin)
}

func (c *Client) login(ctx context.Context, path string, req LoginRequest, kind tokenstore.Kind) (AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return AuthResponse{}, err
	}
	auth, err := call[AuthResponse](ctx, c, Request{Method: http.MethodPost, Path: path, Body: req})
	if err != nil {
		return AuthResponse{}, err
	}
	if err := c.creds.Set(ctx, auth.BearerToken(), kind); err != nil {
		return AuthResponse{}, credentialsError("store credential", err)
	}
	return auth, nil
}

// InitiateRegistration starts onboarding.
func (c *Client) InitiateRegistration(ctx context.Context, req InitiateRegistrationRequest) (Ack, error) {
	if err := req.Validate(); err != nil {
		return Ack{}, err
	}
	return call[Ack](ctx, c, Request{Method: http.MethodPost, Path: "/auth/register/initiate", Body: req})
}

// VerifyEmail confirms the registration OTP.
func (c *Client) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (Ack, error) {
	if err := req.Validate(); err != nil {
		return Ack{}, err
	}
	return call[Ack](ctx, c, Request{Method: http.MethodPost, Path: "/auth/register/verify-email", Body: req})
}

// CompleteRegistration finishes onboarding and stores the customer token.
func (c *Client) CompleteRegistration(ctx context.Context, req CompleteRegistrationRequest) (AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return AuthResponse{}, err
	}
	auth, err := call[AuthResponse](ctx, c, Request{Method: http.MethodPost, Path: "/auth/register/complete", Body: req})
	if err != nil {
		return AuthResponse{}, err
	}
	if err := c.creds.Set(ctx, auth.BearerToken(), tokenstore.KindCustomer); err != nil {
		return AuthResponse{}, credentialsError("store credential", err)
	}
	return auth, nil
}

// Logout ends the customer session remotely and always clears the local
// credential. The remote error, if any, is returned after the clear.
func (c *Client) Logout(ctx context.Context) error {
	return c.logout(ctx, "/auth/logout")
}

// AdminLogout is Logout for administrator sessions.
func (c *Client) AdminLogout(ctx context.Context) error {
	return c.logout(ctx, "/admin/auth/logout")
}

func (c *Client) logout(ctx context.Context, path string) error {
	_, remoteErr := c.Do(ctx, Request{Method: http.MethodPost, Path: path})
	if err := c.creds.Clear(ctx); err != nil {
		return credentialsError("clear credential", err)
	}
	return remoteErr
}
