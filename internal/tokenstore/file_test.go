package tokenstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorageWritesPlainRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credential.json")
	storage, err := NewFileStorage(path, nil)
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}

	if err := storage.Save(context.Background(), Credential{Token: "tok123", Kind: KindCustomer}); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var rec map[string]string
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["auth_token"] != "tok123" || rec["auth_type"] != "customer" {
		t.Fatalf("unexpected record %v", rec)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestFileStorageSealedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.bin")
	key := bytes.Repeat([]byte{7}, 32)
	storage, err := NewFileStorage(path, key)
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}
	ctx := context.Background()

	if err := storage.Save(ctx, Credential{Token: "tokAdmin", Kind: KindAdmin}); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if bytes.Contains(raw, []byte("tokAdmin")) {
		t.Fatalf("sealed file leaks the token")
	}

	cred, ok, err := storage.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if cred.Token != "tokAdmin" || cred.Kind != KindAdmin {
		t.Fatalf("unexpected credential %+v", cred)
	}

	other, _ := NewFileStorage(path, bytes.Repeat([]byte{9}, 32))
	if _, _, err := other.Load(ctx); !errors.Is(err, ErrSealedRecord) {
		t.Fatalf("expected ErrSealedRecord with wrong key, got %v", err)
	}
}

func TestFileStorageRejectsBadKey(t *testing.T) {
	if _, err := NewFileStorage("credential.json", []byte("short")); err == nil {
		t.Fatalf("expected key length error")
	}
}

func TestFileStorageUnknownKindFailsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	if err := os.WriteFile(path, []byte(`{"auth_token":"x","auth_type":"teller"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	storage, _ := NewFileStorage(path, nil)
	if _, _, err := storage.Load(context.Background()); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
