package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/congo-pay/bank_portal/internal/bankapi"
	"github.com/congo-pay/bank_portal/internal/notification"
	"github.com/congo-pay/bank_portal/internal/tokenstore"
)

var (
	// ErrNotAuthenticated is returned by operations that need an active session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAdminTokenExpired marks a stored admin token whose exp claim has passed.
	ErrAdminTokenExpired = errors.New("admin token expired")
)

// Backend is the part of the banking API the shell drives.
type Backend interface {
	Login(ctx context.Context, req bankapi.LoginRequest) (bankapi.AuthResponse, error)
	AdminLogin(ctx context.Context, req bankapi.LoginRequest) (bankapi.AuthResponse, error)
	CompleteRegistration(ctx context.Context, req bankapi.CompleteRegistrationRequest) (bankapi.AuthResponse, error)
	Logout(ctx context.Context) error
	AdminLogout(ctx context.Context) error
	Profile(ctx context.Context) (bankapi.CustomerProfile, error)
	Accounts(ctx context.Context) ([]bankapi.Account, error)
}

// Credentials is the part of the token store the shell reads and clears.
type Credentials interface {
	Credential(ctx context.Context) (tokenstore.Credential, error)
	Clear(ctx context.Context) error
}

// Shell owns the current Session. Flows run without holding the lock across
// network calls and commit their result at the end.
type Shell struct {
	api      Backend
	creds    Credentials
	notifier notification.Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	state   State
	session Session
}

// Option configures a Shell.
type Option func(*Shell)

// WithNotifier routes surfaced errors and confirmations to n.
func WithNotifier(n notification.Notifier) Option {
	return func(s *Shell) { s.notifier = n }
}

// WithLogger sets the shell logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// NewShell creates a shell in the initializing state.
func NewShell(api Backend, creds Credentials, opts ...Option) *Shell {
	s := &Shell{
		api:     api,
		creds:   creds,
		logger:  slog.Default(),
		now:     time.Now,
		state:   StateInitializing,
		session: Anonymous{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state and a copy of the session.
func (s *Shell) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{State: s.state, View: ViewFor(s.state), Session: copySession(s.session)}
}

// Require returns ErrNotAuthenticated unless the active session is of kind.
func (s *Shell) Require(kind tokenstore.Kind) error {
	if s.Session().Kind() != kind || kind == tokenstore.KindNone {
		return ErrNotAuthenticated
	}
	return nil
}

// State returns the current lifecycle state.
func (s *Shell) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// View returns the view for the current state.
func (s *Shell) View() View {
	return ViewFor(s.State())
}

// Session returns a copy of the current session.
func (s *Shell) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.session)
}

func (s *Shell) commit(sess Session) Snapshot {
	s.mu.Lock()
	s.session = sess
	s.state = stateOf(sess)
	s.mu.Unlock()
	return s.Snapshot()
}

// Bootstrap rebuilds the session from the stored credential. It never fails:
// any problem clears the credential and leaves the shell anonymous.
func (s *Shell) Bootstrap(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.state = StateInitializing
	s.mu.Unlock()

	sess, err := s.resolve(ctx)
	if err != nil {
		s.logger.Warn("session bootstrap failed, continuing signed out", slog.Any("error", err))
		s.surface(ctx, "bootstrap", err)
		s.clearLocal(ctx)
		return s.commit(Anonymous{})
	}
	s.logger.Info("session bootstrapped", slog.String("state", string(stateOf(sess))))
	return s.commit(sess)
}

func (s *Shell) resolve(ctx context.Context) (Session, error) {
	cred, err := s.creds.Credential(ctx)
	if err != nil {
		return nil, fmt.Errorf("read credential: %w", err)
	}
	if cred.Token == "" {
		return Anonymous{}, nil
	}

	switch cred.Kind {
	case tokenstore.KindCustomer:
		var customer Customer
		err := runSteps(ctx, s.fetchProfile(&customer))
		if err != nil {
			return nil, err
		}
		return customer, nil
	case tokenstore.KindAdmin:
		if adminTokenExpired(cred.Token, s.now()) {
			return nil, ErrAdminTokenExpired
		}
		return Admin{Descriptor: defaultAdminDescriptor()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", tokenstore.ErrUnknownKind, cred.Kind)
	}
}

// adminTokenExpired inspects an unverified JWT's exp claim. Tokens that are
// not JWTs, or carry no exp, are treated as live.
func adminTokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(now)
}

// Login signs a customer in and loads their profile.
func (s *Shell) Login(ctx context.Context, req bankapi.LoginRequest) (Snapshot, error) {
	var (
		customer Customer
		signedIn bool
	)
	err := runSteps(ctx,
		func(ctx context.Context) error {
			if _, err := s.api.Login(ctx, req); err != nil {
				return err
			}
			signedIn = true
			return nil
		},
		s.fetchProfile(&customer),
	)
	return s.finishSignIn(ctx, "login", customer, signedIn, err)
}

// AdminLogin signs an administrator in.
func (s *Shell) AdminLogin(ctx context.Context, req bankapi.LoginRequest) (Snapshot, error) {
	if _, err := s.api.AdminLogin(ctx, req); err != nil {
		return s.finishSignIn(ctx, "admin_login", nil, false, err)
	}
	return s.finishSignIn(ctx, "admin_login", Admin{Descriptor: defaultAdminDescriptor()}, true, nil)
}

// CompleteRegistration finishes onboarding, then loads the new customer's
// profile and accounts.
func (s *Shell) CompleteRegistration(ctx context.Context, req bankapi.CompleteRegistrationRequest) (Snapshot, error) {
	var (
		customer   Customer
		registered bool
	)
	err := runSteps(ctx,
		func(ctx context.Context) error {
			if _, err := s.api.CompleteRegistration(ctx, req); err != nil {
				return err
			}
			registered = true
			return nil
		},
		s.fetchProfile(&customer),
		s.fetchAccounts(&customer),
	)
	return s.finishSignIn(ctx, "register", customer, registered, err)
}

// finishSignIn commits sess on success. When the flow fails before a new
// token was stored the current session and credential are kept. Once
// tokenWritten is set the previous credential is gone, so a later failure
// clears the new token and signs out.
func (s *Shell) finishSignIn(ctx context.Context, source string, sess Session, tokenWritten bool, err error) (Snapshot, error) {
	if err != nil {
		s.surface(ctx, source, err)
		if !tokenWritten {
			return s.Snapshot(), err
		}
		s.clearLocal(ctx)
		return s.commit(Anonymous{}), err
	}
	s.notify(ctx, notification.Message{Kind: notification.KindInfo, Source: source, Body: "signed in"})
	return s.commit(sess), nil
}

// Logout ends the session. The remote call is best effort; the local
// credential is always cleared and the shell always ends anonymous. Only a
// failure to clear the stored credential is returned.
func (s *Shell) Logout(ctx context.Context) (Snapshot, error) {
	kind := s.Session().Kind()
	if kind == tokenstore.KindNone {
		if cred, err := s.creds.Credential(ctx); err == nil {
			kind = cred.Kind
		}
	}

	var remoteErr error
	switch kind {
	case tokenstore.KindAdmin:
		remoteErr = s.api.AdminLogout(ctx)
	case tokenstore.KindCustomer:
		remoteErr = s.api.Logout(ctx)
	}
	if remoteErr != nil {
		s.logger.Warn("remote logout failed", slog.Any("error", remoteErr))
	}
	clearErr := s.creds.Clear(ctx)

	snap := s.commit(Anonymous{})
	if clearErr != nil {
		s.surface(ctx, "logout", clearErr)
		return snap, fmt.Errorf("clear credential: %w", clearErr)
	}
	s.notify(ctx, notification.Message{Kind: notification.KindInfo, Source: "logout", Body: "signed out"})
	return snap, nil
}

func (s *Shell) fetchProfile(dst *Customer) step {
	return func(ctx context.Context) error {
		profile, err := s.api.Profile(ctx)
		if err != nil {
			return err
		}
		dst.Profile = profile
		return nil
	}
}

func (s *Shell) fetchAccounts(dst *Customer) step {
	return func(ctx context.Context) error {
		accounts, err := s.api.Accounts(ctx)
		if err != nil {
			return err
		}
		dst.Accounts = accounts
		return nil
	}
}

func (s *Shell) clearLocal(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.logger.Error("clear credential", slog.Any("error", err))
	}
}

// surface forwards the user-facing message of err to the notifier.
func (s *Shell) surface(ctx context.Context, source string, err error) {
	s.notify(ctx, notification.Message{Kind: notification.KindError, Source: source, Body: bankapi.MessageOf(err)})
}

func (s *Shell) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("notification delivery failed", slog.Any("error", err))
	}
}
