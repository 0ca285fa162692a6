package bankapi

import (
	"context"
	"net/http"
	"testing"
)

func TestNewPageSatisfiesInvariants(t *testing.T) {
	cases := []struct {
		name   string
		items  int
		number int
		size   int
		total  int64
	}{
		{name: "empty", items: 0, number: 0, size: 20, total: 0},
		{name: "single full page", items: 3, number: 0, size: 3, total: 3},
		{name: "first of many", items: 10, number: 0, size: 10, total: 35},
		{name: "last partial", items: 5, number: 3, size: 10, total: 35},
		{name: "size below content", items: 4, number: 0, size: 2, total: 4},
		{name: "total too small", items: 3, number: 2, size: 10, total: 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := NewPage(make([]int, tc.items), tc.number, tc.size, tc.total)
			if err := page.Validate(); err != nil {
				t.Fatalf("invariants violated: %v (%+v)", err, page)
			}
			if page.TotalElements < int64(tc.items) {
				t.Fatalf("total %d below item count %d", page.TotalElements, tc.items)
			}
		})
	}
}

func TestPageValidateReportsEveryViolation(t *testing.T) {
	page := Page[int]{Content: []int{1, 2}, NumberOfElements: 3, Size: 1, Number: 1, First: true, TotalPages: 2, Last: false, Empty: true}
	if err := page.Validate(); err == nil {
		t.Fatalf("expected violations")
	}
}

func TestBareArrayBecomesSingleFullPage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":1,"subject":"card"},{"id":2,"subject":"loan"}]`)
	})

	page, err := client.Tickets(context.Background(), PageRequest{})
	if err != nil {
		t.Fatalf("tickets: %v", err)
	}
	if page.Number != 0 || page.TotalPages != 1 || page.Size != 2 || page.NumberOfElements != 2 {
		t.Fatalf("unexpected page metadata %+v", page)
	}
	if !page.First || !page.Last || page.Empty {
		t.Fatalf("unexpected page flags %+v", page)
	}
}

func TestEnvelopeIsDecodedAndChecked(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" || r.URL.Query().Get("size") != "2" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, `{"content":[{"id":3,"firstName":"Ravi"}],"number":1,"size":2,"totalElements":3,"totalPages":2,"numberOfElements":1,"first":false,"last":true,"empty":false}`)
	})

	page, err := client.AdminCustomers(context.Background(), PageRequest{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("customers: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].FirstName != "Ravi" {
		t.Fatalf("unexpected content %+v", page.Content)
	}
}

func TestInconsistentEnvelopeIsDecodeError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"content":[{"id":3}],"number":0,"size":10,"totalElements":1,"totalPages":1,"numberOfElements":4,"first":true,"last":true,"empty":false}`)
	})

	_, err := client.Tickets(context.Background(), PageRequest{})
	if apiErr, ok := AsError(err); !ok || apiErr.Kind != KindDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
}
