package bankapi

import (
	"context"
	"net/http"
	"strings"
)

// OTPRequest asks for, or verifies, a one-time code for a purpose such as
// TRANSACTION.
type OTPRequest struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phoneNumber,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	OTP     string `json:"otp,omitempty"`
}

// SendOTP dispatches a one-time code.
func (c *Client) SendOTP(ctx context.Context, req OTPRequest) (Ack, error) {
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Phone) == "" {
		return Ack{}, validationError("recipient_required", "email or phone number is required")
	}
	return call[Ack](ctx, c, Request{Method: http.MethodPost, Path: "/api/otp/send", Body: req})
}

// VerifyOTP checks a one-time code.
func (c *Client) VerifyOTP(ctx context.Context, req OTPRequest) (OTPVerification, error) {
	if strings.TrimSpace(req.OTP) == "" {
		return OTPVerification{}, validationError("otp_required", "verification code is required")
	}
	return call[OTPVerification](ctx, c, Request{Method: http.MethodPost, Path: "/api/otp/verify", Body: req})
}
