package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *VisualCrossingProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewVisualCrossingProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL
	return p
}

func TestFetchTimelineDecodesDays(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"days":[
			{"datetime":"2025-03-08","temp":31.2,"humidity":40.5,"windspeed":3.1},
			{"datetime":"2025-03-09","temp":32.0,"humidity":38.0,"windspeed":2.8}
		]}`))
	})

	records, err := p.FetchTimeline(context.Background(), "Hyderabad, India", "2025-03-08", "2025-03-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Date != "2025-03-08" || records[0].TempC != 31.2 {
		t.Errorf("unexpected first record: %+v", records[0])
	}
}

func TestFetchTimelineRateLimited(t *testing.T) {
	calls := 0
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := p.FetchTimeline(context.Background(), "Hyderabad, India", "2025-03-08", "2025-03-09")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("got %v, want ErrRateLimited", err)
	}
	if calls != 1 {
		t.Fatalf("rate-limited request must not retry, got %d calls", calls)
	}
}

func TestFetchTimelineBadRequest(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := p.FetchTimeline(context.Background(), "Hyderabad, India", "not-a-date", "2025-03-09")
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("got %v, want ErrBadRequest", err)
	}
}

func TestFetchTimelineMissingKey(t *testing.T) {
	p := NewVisualCrossingProvider(http.DefaultClient, "")
	if _, err := p.FetchTimeline(context.Background(), "Hyderabad, India", "2025-03-08", "2025-03-09"); err == nil {
		t.Fatal("expected error when api key is missing")
	}
}
