package stub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/recordstore"
)

func newStubServer(t *testing.T) (*RecordStorage, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage := NewRecordStorage(1)
	r := gin.New()
	NewHandler(storage).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return storage, srv
}

func events(n int) []domain.Event {
	at := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	out := make([]domain.Event, 0, n)
	for i := range n {
		out = append(out, domain.NewEvent(domain.EventKindPee, at.Add(time.Duration(i)*time.Minute), nil))
	}
	return out
}

func TestStubRoundTripWithRecordStoreClient(t *testing.T) {
	storage, srv := newStubServer(t)
	client := recordstore.NewClientWithHTTPClient(srv.URL, srv.Client())
	ctx := context.Background()

	batch := events(3)
	results, err := client.SaveBatch(ctx, batch)
	if err != nil {
		t.Fatalf("SaveBatch() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for _, r := range results {
		if !r.Confirmed() {
			t.Errorf("result %v not confirmed: %v", r.ID, r.Err)
		}
	}

	got, err := client.Fetch(ctx, batch[1].ID)
	if err != nil || got.ID != batch[1].ID {
		t.Fatalf("Fetch() = %v, %v", got, err)
	}

	if err := client.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if _, err := client.Fetch(ctx, batch[1].ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("Fetch() after delete error = %v, want ErrEventNotFound", err)
	}

	if stats := storage.Stats(defaultRunID); stats.BatchCount != 1 || stats.RecordCount != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStubFailureInjection(t *testing.T) {
	batch := events(4)
	prefix := batch[0].ID.String()

	tests := []struct {
		name          string
		failures      FailureConfig
		wantTransport bool
		wantRejected  int
	}{
		{name: "none", failures: FailureConfig{}},
		{name: "reject by prefix", failures: FailureConfig{RejectPrefix: prefix}, wantRejected: 1},
		{name: "reject all by rate", failures: FailureConfig{FailureRate: 1}, wantRejected: 4},
		{name: "outage", failures: FailureConfig{Outage: true}, wantTransport: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, srv := newStubServer(t)
			storage.SetFailures(tt.failures)
			client := recordstore.NewClientWithHTTPClient(srv.URL, srv.Client())

			results, err := client.SaveBatch(context.Background(), batch)
			if tt.wantTransport {
				if !errors.Is(err, domain.ErrRemoteTransport) {
					t.Errorf("SaveBatch() error = %v, want ErrRemoteTransport", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SaveBatch() error = %v", err)
			}

			rejected := 0
			for _, r := range results {
				if !r.Confirmed() {
					rejected++
				}
			}
			if rejected != tt.wantRejected {
				t.Errorf("rejected = %d, want %d", rejected, tt.wantRejected)
			}
		})
	}
}

func TestStubHandlerRoutes(t *testing.T) {
	_, srv := newStubServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "unknown action", method: http.MethodPost, path: "/api/v1/records:purge", body: `{}`, wantStatus: http.StatusNotFound},
		{name: "invalid failure rate", method: http.MethodPut, path: "/stub/failures", body: `{"failure_rate":2}`, wantStatus: http.StatusBadRequest},
		{name: "set failures", method: http.MethodPut, path: "/stub/failures", body: `{"outage":true}`, wantStatus: http.StatusOK},
		{name: "reset", method: http.MethodPost, path: "/stub/reset?run_id=r1", wantStatus: http.StatusOK},
		{name: "stats", method: http.MethodGet, path: "/stub/stats", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("NewRequest() error = %v", err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
