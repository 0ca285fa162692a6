package tokenstore

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisStorageWritesHashFields(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	storage := NewRedisStorage(client, "test:")
	if err := storage.Save(context.Background(), Credential{Token: "tok123", Kind: KindCustomer}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := mr.HGet("test:credential", "auth_token"); got != "tok123" {
		t.Fatalf("expected auth_token tok123, got %q", got)
	}
	if got := mr.HGet("test:credential", "auth_type"); got != "customer" {
		t.Fatalf("expected auth_type customer, got %q", got)
	}

	if err := storage.Delete(context.Background()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("test:credential") {
		t.Fatalf("expected credential hash to be removed")
	}
}

func TestRedisStorageUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	store := New(NewRedisStorage(client, ""))
	if err := store.Set(context.Background(), "tok", KindCustomer); err == nil {
		t.Fatalf("expected set to fail when redis is down")
	}
}
