package tokenstore

import (
	"context"
	"errors"
	"fmt"
)

// Kind identifies who a credential was issued to.
type Kind string

const (
	// KindNone is reported when no credential is stored.
	KindNone     Kind = ""
	KindCustomer Kind = "customer"
	KindAdmin    Kind = "admin"
)

// ErrUnknownKind is returned when a persisted or supplied kind is not customer or admin.
var ErrUnknownKind = errors.New("unknown credential kind")

// ParseKind validates a raw kind value.
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindCustomer, KindAdmin:
		return Kind(raw), nil
	default:
		return KindNone, fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
}

// Credential is the bearer token plus the subject kind it authenticates.
type Credential struct {
	Token string
	Kind  Kind
}

// Persisted field names; they match the keys the portal has always written.
const (
	fieldToken = "auth_token"
	fieldKind  = "auth_type"
)

// Storage persists a single credential record. Save writes token and kind
// together; Delete of an absent record is not an error.
type Storage interface {
	Load(ctx context.Context) (Credential, bool, error)
	Save(ctx context.Context, cred Credential) error
	Delete(ctx context.Context) error
}
