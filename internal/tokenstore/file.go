package tokenstore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrSealedRecord is returned when a sealed credential file cannot be opened with the configured key.
var ErrSealedRecord = errors.New("credential file cannot be opened")

type fileRecord struct {
	Token string `json:"auth_token"`
	Kind  string `json:"auth_type"`
}

// FileStorage persists the credential as a JSON document on disk. With a
// key the document is sealed with XChaCha20-Poly1305.
type FileStorage struct {
	path string
	key  []byte
}

// NewFileStorage builds a file-backed storage. key may be nil; otherwise it
// must be chacha20poly1305.KeySize bytes.
func NewFileStorage(path string, key []byte) (*FileStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("token store path is required")
	}
	if key != nil && len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("token store key must be %d bytes", chacha20poly1305.KeySize)
	}
	return &FileStorage{path: path, key: key}, nil
}

// Load reads the credential file; a missing file means no credential.
func (f *FileStorage) Load(_ context.Context) (Credential, bool, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Credential{}, false, nil
	}
	if err != nil {
		return Credential{}, false, fmt.Errorf("read %s: %w", f.path, err)
	}

	if f.key != nil {
		if raw, err = f.open(raw); err != nil {
			return Credential{}, false, err
		}
	}

	var rec fileRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Credential{}, false, fmt.Errorf("decode %s: %w", f.path, err)
	}
	kind, err := ParseKind(rec.Kind)
	if err != nil {
		return Credential{}, false, err
	}
	return Credential{Token: rec.Token, Kind: kind}, true, nil
}

// Save writes the record to a temp file in the same directory and renames it
// over the previous one so token and kind always change together.
func (f *FileStorage) Save(_ context.Context, cred Credential) error {
	payload, err := json.Marshal(fileRecord{Token: cred.Token, Kind: string(cred.Kind)})
	if err != nil {
		return err
	}
	if f.key != nil {
		if payload, err = f.seal(payload); err != nil {
			return err
		}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// Delete removes the credential file if present.
func (f *FileStorage) Delete(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStorage) seal(plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plain, nil), nil
}

func (f *FileStorage) open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrSealedRecord
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSealedRecord, err)
	}
	return plain, nil
}
