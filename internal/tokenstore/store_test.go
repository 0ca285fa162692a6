package tokenstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type storageFactory func(t *testing.T) Storage

func backends() map[string]storageFactory {
	return map[string]storageFactory{
		"memory": func(t *testing.T) Storage { return NewMemoryStorage() },
		"file": func(t *testing.T) Storage {
			fs, err := NewFileStorage(filepath.Join(t.TempDir(), "credential.json"), nil)
			if err != nil {
				t.Fatalf("file storage: %v", err)
			}
			return fs
		},
		"redis": func(t *testing.T) Storage {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("start miniredis: %v", err)
			}
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() {
				client.Close()
				mr.Close()
			})
			return NewRedisStorage(client, "")
		},
	}
}

func TestSetThenGetSurvivesReload(t *testing.T) {
	pairs := []Credential{
		{Token: "tok123", Kind: KindCustomer},
		{Token: "tokAdmin", Kind: KindAdmin},
	}

	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			storage := factory(t)

			for _, pair := range pairs {
				store := New(storage)
				if err := store.Set(ctx, pair.Token, pair.Kind); err != nil {
					t.Fatalf("set %+v: %v", pair, err)
				}
				assertCredential(t, store, pair)

				// a fresh Store over the same storage simulates a process restart
				assertCredential(t, New(storage), pair)
			}
		})
	}
}

func TestSetReplacesPriorCredentialOfOtherKind(t *testing.T) {
	ctx := context.Background()
	store := New(NewMemoryStorage())

	if err := store.Set(ctx, "customer-token", KindCustomer); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if err := store.Set(ctx, "admin-token", KindAdmin); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	assertCredential(t, store, Credential{Token: "admin-token", Kind: KindAdmin})
}

func TestClearIsIdempotent(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			storage := factory(t)
			store := New(storage)

			if err := store.Set(ctx, "tok123", KindCustomer); err != nil {
				t.Fatalf("set: %v", err)
			}
			for i := 0; i < 2; i++ {
				if err := store.Clear(ctx); err != nil {
					t.Fatalf("clear #%d: %v", i+1, err)
				}
				ok, err := store.IsAuthenticated(ctx)
				if err != nil {
					t.Fatalf("is authenticated: %v", err)
				}
				if ok {
					t.Fatalf("expected unauthenticated after clear #%d", i+1)
				}
			}

			if ok, _ := New(storage).IsAuthenticated(ctx); ok {
				t.Fatalf("expected cleared credential to stay cleared after reload")
			}
		})
	}
}

func TestSetRejectsUnknownKind(t *testing.T) {
	store := New(NewMemoryStorage())
	if err := store.Set(context.Background(), "tok", Kind("teller")); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

type failingStorage struct{ err error }

func (f failingStorage) Load(context.Context) (Credential, bool, error) { return Credential{}, false, f.err }
func (f failingStorage) Save(context.Context, Credential) error         { return f.err }
func (f failingStorage) Delete(context.Context) error                   { return f.err }

func TestStorageFailuresPropagate(t *testing.T) {
	boom := errors.New("quota exceeded")
	store := New(failingStorage{err: boom})
	ctx := context.Background()

	if err := store.Set(ctx, "tok", KindCustomer); !errors.Is(err, boom) {
		t.Fatalf("set: expected %v, got %v", boom, err)
	}
	if _, err := store.Token(ctx); !errors.Is(err, boom) {
		t.Fatalf("token: expected %v, got %v", boom, err)
	}
	if err := store.Clear(ctx); !errors.Is(err, boom) {
		t.Fatalf("clear: expected %v, got %v", boom, err)
	}
}

func assertCredential(t *testing.T, store *Store, want Credential) {
	t.Helper()
	ctx := context.Background()
	token, err := store.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	kind, err := store.Kind(ctx)
	if err != nil {
		t.Fatalf("kind: %v", err)
	}
	if token != want.Token || kind != want.Kind {
		t.Fatalf("expected (%q, %q), got (%q, %q)", want.Token, want.Kind, token, kind)
	}
}
