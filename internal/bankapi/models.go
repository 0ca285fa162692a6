package bankapi

import (
	"encoding/json"
	"errors"
)

// AuthResponse is returned by login and registration completion.
type AuthResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken,omitempty"`
	TokenType   string `json:"tokenType,omitempty"`
	ExpiresIn   int64  `json:"expiresIn,omitempty"`
	CustomerID  string `json:"customerId,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	Message     string `json:"message,omitempty"`
}

// BearerToken returns whichever token field the backend populated.
func (a AuthResponse) BearerToken() string {
	if a.Token != "" {
		return a.Token
	}
	return a.AccessToken
}

func (a *AuthResponse) check() error {
	if a.BearerToken() == "" {
		return errors.New("response carries no token")
	}
	return nil
}

// Ack is a plain acknowledgement envelope.
type Ack struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// CustomerProfile is the signed-in customer's identity record.
type CustomerProfile struct {
	ID            int64     `json:"id,omitempty"`
	CustomerID    string    `json:"customerId,omitempty"`
	FirstName     string    `json:"firstName"`
	MiddleName    string    `json:"middleName,omitempty"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phoneNumber,omitempty"`
	DateOfBirth   string    `json:"dateOfBirth,omitempty"`
	Address       string    `json:"address,omitempty"`
	KYCStatus     string    `json:"kycStatus,omitempty"`
	AccountNumber string    `json:"accountNumber,omitempty"`
	Accounts      []Account `json:"accounts,omitempty"`
	CreatedAt     string    `json:"createdAt,omitempty"`
}

// DisplayName joins the name parts.
func (p CustomerProfile) DisplayName() string {
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	if name == "" {
		return p.Email
	}
	return name
}

func (p *CustomerProfile) check() error {
	if p.FirstName == "" && p.Email == "" && p.CustomerID == "" && p.ID == 0 {
		return errors.New("profile carries no identity fields")
	}
	return nil
}

// Account is a customer bank account.
type Account struct {
	ID            int64       `json:"id"`
	AccountNumber string      `json:"accountNumber"`
	AccountType   string      `json:"accountType"`
	Balance       json.Number `json:"balance"`
	Currency      string      `json:"currency,omitempty"`
	Status        string      `json:"status,omitempty"`
	CreatedAt     string      `json:"createdAt,omitempty"`
}

// Transaction is one posting on an account.
type Transaction struct {
	ID              int64       `json:"id"`
	TransactionID   string      `json:"transactionId,omitempty"`
	AccountID       int64       `json:"accountId,omitempty"`
	AccountNumber   string      `json:"accountNumber,omitempty"`
	Type            string      `json:"transactionType"`
	Amount          json.Number `json:"amount"`
	BalanceAfter    json.Number `json:"balanceAfter,omitempty"`
	Description     string      `json:"description,omitempty"`
	Reference       string      `json:"referenceNumber,omitempty"`
	Status          string      `json:"status,omitempty"`
	TransactionDate string      `json:"transactionDate,omitempty"`
}

// TransactionStatistics summarizes an account's activity.
type TransactionStatistics struct {
	TotalCredits     json.Number `json:"totalCredits"`
	TotalDebits      json.Number `json:"totalDebits"`
	TransactionCount int64       `json:"transactionCount"`
	CurrentBalance   json.Number `json:"currentBalance,omitempty"`
	AverageAmount    json.Number `json:"averageTransactionAmount,omitempty"`
}

// Passbook is the statement view of an account.
type Passbook struct {
	AccountNumber  string        `json:"accountNumber"`
	AccountHolder  string        `json:"accountHolderName,omitempty"`
	AccountType    string        `json:"accountType,omitempty"`
	OpeningBalance json.Number   `json:"openingBalance,omitempty"`
	ClosingBalance json.Number   `json:"closingBalance,omitempty"`
	Transactions   []Transaction `json:"transactions"`
	GeneratedAt    string        `json:"generatedAt,omitempty"`
}

// KYCDocument is an uploaded identity document.
type KYCDocument struct {
	ID           int64  `json:"id"`
	CustomerID   string `json:"customerId,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
	DocumentType string `json:"documentType"`
	FileName     string `json:"fileName,omitempty"`
	Status       string `json:"status"`
	Remarks      string `json:"remarks,omitempty"`
	UploadedAt   string `json:"uploadedAt,omitempty"`
	ReviewedAt   string `json:"reviewedAt,omitempty"`
}

// KYCStatus is the verification state of the signed-in customer.
type KYCStatus struct {
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Documents []KYCDocument `json:"documents,omitempty"`
}

// OTPVerification is the outcome of an OTP check.
type OTPVerification struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message,omitempty"`
}

// Ticket is a support ticket.
type Ticket struct {
	ID           int64           `json:"id"`
	TicketNumber string          `json:"ticketNumber,omitempty"`
	CustomerID   string          `json:"customerId,omitempty"`
	Subject      string          `json:"subject"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Priority     string          `json:"priority,omitempty"`
	Status       string          `json:"status"`
	Messages     []TicketMessage `json:"messages,omitempty"`
	CreatedAt    string          `json:"createdAt,omitempty"`
	UpdatedAt    string          `json:"updatedAt,omitempty"`
}

// TicketMessage is one entry in a ticket conversation.
type TicketMessage struct {
	ID         int64  `json:"id"`
	SenderType string `json:"senderType,omitempty"`
	SenderName string `json:"senderName,omitempty"`
	Message    string `json:"message"`
	CreatedAt  string `json:"createdAt,omitempty"`
}
