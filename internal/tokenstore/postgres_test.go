package tokenstore

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgresStorageRoundTrip(t *testing.T) {
	url := os.Getenv("PORTAL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PORTAL_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	storage := NewPostgresStorage(pool, "test-"+t.Name())
	if err := storage.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	t.Cleanup(func() { _ = storage.Delete(context.Background()) })

	store := New(storage)
	if err := store.Set(ctx, "tok123", KindCustomer); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "tokAdmin", KindAdmin); err != nil {
		t.Fatalf("replace: %v", err)
	}
	assertCredential(t, New(storage), Credential{Token: "tokAdmin", Kind: KindAdmin})

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	assertCredential(t, New(storage), Credential{})
}
