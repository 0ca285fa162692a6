package bankapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/congo-pay/bank_portal/internal/tokenstore"
)

func TestLoginStoresCustomerToken(t *testing.T) {
	var body map[string]string
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, `{"token":"tok123","email":"asha@example.com"}`)
	})

	ctx := context.Background()
	if _, err := client.Login(ctx, LoginRequest{Email: "asha@example.com", Password: "secret"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if body["email"] != "asha@example.com" || body["password"] != "secret" {
		t.Fatalf("unexpected login body: %v", body)
	}

	cred, err := store.Credential(ctx)
	if err != nil {
		t.Fatalf("credential: %v", err)
	}
	if cred.Token != "tok123" || cred.Kind != tokenstore.KindCustomer {
		t.Fatalf("unexpected credential: %+v", cred)
	}
}

func TestAdminLoginStoresAdminKind(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, `{"accessToken":"tokAdmin"}`)
	})

	ctx := context.Background()
	if _, err := client.AdminLogin(ctx, LoginRequest{Username: "root", Password: "secret"}); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	kind, _ := store.Kind(ctx)
	token, _ := store.Token(ctx)
	if kind != tokenstore.KindAdmin || token != "tokAdmin" {
		t.Fatalf("unexpected credential %q %q", token, kind)
	}
}

func TestLoginWithoutTokenIsDecodeError(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"message":"ok"}`)
	})

	ctx := context.Background()
	_, err := client.Login(ctx, LoginRequest{Email: "asha@example.com", Password: "secret"})
	if apiErr, ok := AsError(err); !ok || apiErr.Kind != KindDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
	if ok, _ := store.IsAuthenticated(ctx); ok {
		t.Fatalf("expected no credential to be stored")
	}
}

func TestLogoutClearsEvenWhenRemoteFails(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message":"logout failed"}`)
	})

	ctx := context.Background()
	if err := store.Set(ctx, "tok123", tokenstore.KindCustomer); err != nil {
		t.Fatalf("set: %v", err)
	}

	err := client.Logout(ctx)
	if StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected remote error to be returned, got %v", err)
	}
	if ok, _ := store.IsAuthenticated(ctx); ok {
		t.Fatalf("expected credential to be cleared")
	}
}

func TestValidationErrorsNeverTouchTheNetwork(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, `{}`)
	})
	ctx := context.Background()

	calls := map[string]func() error{
		"login without password": func() error {
			_, err := client.Login(ctx, LoginRequest{Email: "asha@example.com"})
			return err
		},
		"short password": func() error {
			_, err := client.CompleteRegistration(ctx, CompleteRegistrationRequest{
				Email: "asha@example.com", FirstName: "Asha", LastName: "Rao",
				Password: "short", ConfirmPassword: "short",
			})
			return err
		},
		"password mismatch": func() error {
			_, err := client.CompleteRegistration(ctx, CompleteRegistrationRequest{
				Email: "asha@example.com", FirstName: "Asha", LastName: "Rao",
				Password: "longenough", ConfirmPassword: "different1",
			})
			return err
		},
		"zero amount": func() error {
			_, err := client.CreateTransaction(ctx, CreateTransactionRequest{AccountNumber: "ACC1", Type: "DEPOSIT", Amount: "0"})
			return err
		},
		"reject without remarks": func() error {
			_, err := client.ReviewKYC(ctx, 7, ReviewKYCRequest{Decision: DecisionRejected})
			return err
		},
		"unknown decision": func() error {
			_, err := client.ReviewKYC(ctx, 7, ReviewKYCRequest{Decision: "MAYBE"})
			return err
		},
		"empty upload": func() error {
			_, err := client.UploadDocument(ctx, Upload{DocumentType: DocumentPAN, FileName: "pan.png"})
			return err
		},
		"inverted range": func() error {
			now := time.Now()
			_, err := client.TransactionsByDateRange(ctx, 1, now, now.AddDate(0, 0, -1))
			return err
		},
	}

	for name, fn := range calls {
		err := fn()
		apiErr, ok := AsError(err)
		if !ok || apiErr.Kind != KindValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if n := hits.Load(); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestCreateTransactionSendsFreshIdempotencyKey(t *testing.T) {
	var keys []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get(idempotencyKeyHeader))
		writeJSON(w, http.StatusCreated, `{"id":1,"transactionType":"DEPOSIT","amount":250.00}`)
	})

	ctx := context.Background()
	req := CreateTransactionRequest{AccountNumber: "ACC1", Type: "DEPOSIT", Amount: "250.00"}
	for i := 0; i < 2; i++ {
		tx, err := client.CreateTransaction(ctx, req)
		if err != nil {
			t.Fatalf("create transaction: %v", err)
		}
		if tx.Amount.String() != "250.00" {
			t.Fatalf("unexpected amount %q", tx.Amount)
		}
	}
	if len(keys) != 2 || keys[0] == "" || keys[0] == keys[1] {
		t.Fatalf("expected two distinct idempotency keys, got %v", keys)
	}
}

func TestUploadDocumentSendsMultipart(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary=") {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		if got := r.FormValue("documentType"); got != DocumentAadhar {
			t.Errorf("unexpected documentType %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "aadhar.png" || string(data) != "scan-bytes" {
			t.Errorf("unexpected file part %q %q", header.Filename, data)
		}
		writeJSON(w, http.StatusOK, `{"id":9,"documentType":"AADHAR","status":"PENDING"}`)
	})

	doc, err := client.UploadAadhar(context.Background(), "aadhar.png", []byte("scan-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.ID != 9 || doc.Status != "PENDING" {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestDownloadPassbookReturnsBinary(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transactions/account/5/passbook/download" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="passbook-5.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4"))
	})

	d, err := client.DownloadPassbook(context.Background(), 5)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if d.Filename != "passbook-5.pdf" || d.ContentType != "application/pdf" || string(d.Data) != "%PDF-1.4" {
		t.Fatalf("unexpected download %+v", d)
	}
}

func TestDateRangeFormatsQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("startDate") != "2024-01-01" || q.Get("endDate") != "2024-01-31" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, `[{"id":1,"transactionType":"DEPOSIT","amount":10}]`)
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txs, err := client.TransactionsByDateRange(context.Background(), 3, start, start.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("date range: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != "DEPOSIT" {
		t.Fatalf("unexpected transactions %+v", txs)
	}
}

func TestPathArgumentsAreEscaped(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/transactions/account/3/type/CASH%20OUT" {
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
		}
		writeJSON(w, http.StatusOK, `[]`)
	})

	if _, err := client.TransactionsByType(context.Background(), 3, "CASH OUT"); err != nil {
		t.Fatalf("by type: %v", err)
	}
}
