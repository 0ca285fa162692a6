// Package session turns the stored credential into the acting identity and
// selects the view the portal starts in.
package session

import (
	"github.com/congo-pay/bank_portal/internal/bankapi"
	"github.com/congo-pay/bank_portal/internal/tokenstore"
)

// State is the shell's lifecycle position.
type State string

const (
	StateInitializing   State = "initializing"
	StateAnonymous      State = "anonymous"
	StateCustomerActive State = "customer-active"
	StateAdminActive    State = "admin-active"
)

// View names the screen a state starts in.
type View string

const (
	ViewLoading           View = "loading"
	ViewLanding           View = "landing"
	ViewCustomerDashboard View = "customer-dashboard"
	ViewAdminDashboard    View = "admin-dashboard"
)

// Session is the acting identity: Anonymous, Customer or Admin.
type Session interface {
	Kind() tokenstore.Kind
	isSession()
}

// Anonymous is the signed-out session.
type Anonymous struct{}

// Customer is a signed-in customer with the profile fetched at sign-in.
type Customer struct {
	Profile  bankapi.CustomerProfile `json:"profile"`
	Accounts []bankapi.Account       `json:"accounts,omitempty"`
}

// Admin is a signed-in administrator.
type Admin struct {
	Descriptor AdminDescriptor `json:"descriptor"`
}

// AdminDescriptor stands in for a profile; the backend has no admin profile endpoint.
type AdminDescriptor struct {
	DisplayName string   `json:"displayName"`
	Permissions []string `json:"permissions"`
}

func (Anonymous) Kind() tokenstore.Kind { return tokenstore.KindNone }
func (Customer) Kind() tokenstore.Kind  { return tokenstore.KindCustomer }
func (Admin) Kind() tokenstore.Kind     { return tokenstore.KindAdmin }

func (Anonymous) isSession() {}
func (Customer) isSession()  {}
func (Admin) isSession()     {}

// Admin permissions granted to every administrator session.
const (
	PermissionCustomersRead = "customers:read"
	PermissionKYCReview     = "kyc:review"
	PermissionSupportManage = "support:manage"
)

func defaultAdminDescriptor() AdminDescriptor {
	return AdminDescriptor{
		DisplayName: "Administrator",
		Permissions: []string{PermissionCustomersRead, PermissionKYCReview, PermissionSupportManage},
	}
}

func stateOf(s Session) State {
	switch s.(type) {
	case Customer:
		return StateCustomerActive
	case Admin:
		return StateAdminActive
	default:
		return StateAnonymous
	}
}

// ViewFor maps a state to its initial view.
func ViewFor(state State) View {
	switch state {
	case StateCustomerActive:
		return ViewCustomerDashboard
	case StateAdminActive:
		return ViewAdminDashboard
	case StateAnonymous:
		return ViewLanding
	default:
		return ViewLoading
	}
}

// Snapshot is a copy of the shell's state safe to hand to callers.
type Snapshot struct {
	State   State   `json:"state"`
	View    View    `json:"view"`
	Session Session `json:"session"`
}

func copySession(s Session) Session {
	switch v := s.(type) {
	case Customer:
		v.Accounts = append([]bankapi.Account(nil), v.Accounts...)
		v.Profile.Accounts = append([]bankapi.Account(nil), v.Profile.Accounts...)
		return v
	case Admin:
		v.Descriptor.Permissions = append([]string(nil), v.Descriptor.Permissions...)
		return v
	default:
		return Anonymous{}
	}
}
