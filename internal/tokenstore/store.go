package tokenstore

import (
	"context"
	"fmt"
	"sync"
)

// Store holds the process-wide credential. It is built once by the
// application root and handed to the API client and the session shell.
type Store struct {
	storage Storage

	mu     sync.Mutex
	cached *Credential
}

// New wraps a storage backend.
func New(storage Storage) *Store {
	return &Store{storage: storage}
}

// Set replaces any existing credential and persists it before returning.
func (s *Store) Set(ctx context.Context, token string, kind Kind) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	cred := Credential{Token: token, Kind: kind}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Save(ctx, cred); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	s.cached = &cred
	return nil
}

// Token returns the current bearer token, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	cred, err := s.current(ctx)
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

// Kind returns the subject kind of the current credential, or KindNone.
func (s *Store) Kind(ctx context.Context) (Kind, error) {
	cred, err := s.current(ctx)
	if err != nil {
		return KindNone, err
	}
	return cred.Kind, nil
}

// Credential returns token and kind read under one lock.
func (s *Store) Credential(ctx context.Context) (Credential, error) {
	return s.current(ctx)
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// Clear removes the cached and persisted credential. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Delete(ctx); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	s.cached = nil
	return nil
}

func (s *Store) current(ctx context.Context) (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return *s.cached, nil
	}

	cred, ok, err := s.storage.Load(ctx)
	if err != nil {
		return Credential{}, fmt.Errorf("load credential: %w", err)
	}
	if !ok || cred.Token == "" {
		return Credential{}, nil
	}
	s.cached = &cred
	return cred, nil
}
