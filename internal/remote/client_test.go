package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/conorfennell/flashdeck/internal/deck"
	"github.com/conorfennell/flashdeck/internal/domain"
)

var _ deck.Remote = (*Client)(nil)

func TestNew(t *testing.T) {
	testCases := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "http", baseURL: "http://localhost:3000"},
		{name: "https with path", baseURL: "https://example.com/api"},
		{name: "no scheme", baseURL: "localhost:3000", wantErr: true},
		{name: "ftp", baseURL: "ftp://example.com", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.baseURL, time.Second, nil)
			if (err != nil) != tc.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tc.baseURL, err, tc.wantErr)
			}
		})
	}
}

func TestRequestsFollowTheContract(t *testing.T) {
	type seen struct{ method, path string }
	var (
		mu     sync.Mutex
		got    []seen
		posted domain.Card
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, seen{r.Method, r.URL.Path})
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode([]domain.Card{{ID: "1", Question: "What is 2+2?", Answer: "Four is the answer"}})
		case http.MethodPost:
			json.NewDecoder(r.Body).Decode(&posted)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(domain.Card{ID: "7", Question: posted.Question, Answer: posted.Answer})
		case http.MethodPut:
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer ts.Close()

	c, err := New(ts.URL+"/api", time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	cards, err := c.List(ctx)
	if err != nil || len(cards) != 1 || cards[0].ID != "1" {
		t.Fatalf("List() = %+v, %v", cards, err)
	}
	created, err := c.Create(ctx, domain.Card{ID: "client-guess", Question: "Largest planet?", Answer: "Jupiter by far"})
	if err != nil {
		t.Fatalf("Create() returned an unexpected error: %v", err)
	}
	mu.Lock()
	postedID := posted.ID
	mu.Unlock()
	if postedID != "" {
		t.Errorf("Expected POST body without id, but got '%s'", postedID)
	}
	if created.ID != "7" {
		t.Errorf("Expected id '7', but got '%s'", created.ID)
	}
	if err := c.Update(ctx, created); err != nil {
		t.Fatalf("Update() returned an unexpected error: %v", err)
	}
	if err := c.Delete(ctx, "7"); err != nil {
		t.Fatalf("Delete() returned an unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []seen{
		{http.MethodGet, "/api/flashcards"},
		{http.MethodPost, "/api/flashcards"},
		{http.MethodPut, "/api/flashcards/7"},
		{http.MethodDelete, "/api/flashcards/7"},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d requests, but got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Request %d: expected %+v, but got %+v", i, want[i], got[i])
		}
	}
}

func TestCreateWithEmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c, _ := New(ts.URL, time.Second, nil)
	created, err := c.Create(context.Background(), domain.Card{Question: "Largest planet?", Answer: "Jupiter by far"})
	if err != nil {
		t.Fatalf("Create() returned an unexpected error: %v", err)
	}
	if created != (domain.Card{}) {
		t.Errorf("Expected a zero card, but got %+v", created)
	}
}

func TestStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"Answer must be at least 10 characters long."}`))
	}))
	defer ts.Close()

	c, _ := New(ts.URL, time.Second, nil)
	err := c.Update(context.Background(), domain.Card{ID: "1"})

	var sErr *StatusError
	if !errors.As(err, &sErr) {
		t.Fatalf("Expected a StatusError, but got %v", err)
	}
	if sErr.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, but got %d", sErr.Code)
	}
	if sErr.Message != "Answer must be at least 10 characters long." {
		t.Errorf("Unexpected message: %s", sErr.Message)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("A 422 must not match ErrNotFound")
	}
}

func TestUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, _ := New(url, time.Second, nil)
	if _, err := c.List(context.Background()); err == nil {
		t.Error("Expected an error from a closed server")
	}
}
