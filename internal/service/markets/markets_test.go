package markets

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xhttp "OddsCast/pkg/http"
)

func marketServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPolymarketFetch(t *testing.T) {
	srv := marketServer(t, http.StatusOK, `{
		"outcomes": [
			{"name": "Garcia", "price": 0.285},
			{"name": "Wilson", "price": 0.41},
			{"name": "", "price": 0.1}
		]
	}`)

	client := NewPolymarket(srv.URL, xhttp.NewClient(xhttp.WithTimeout(2*time.Second)))
	readings, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings (nameless entry skipped), got %d", len(readings))
	}
	if readings[0].Name != "Garcia" || math.Abs(readings[0].Price-28.5) > 1e-9 {
		t.Fatalf("garcia reading = %+v", readings[0])
	}
}

func TestPolymarketFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: `{}`},
		{name: "missing outcomes", status: http.StatusOK, body: `{"markets": []}`},
		{name: "empty outcomes", status: http.StatusOK, body: `{"outcomes": []}`},
		{name: "not json", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := marketServer(t, tt.status, tt.body)
			client := NewPolymarket(srv.URL, xhttp.NewClient(xhttp.WithTimeout(2*time.Second)))
			if _, err := client.Fetch(context.Background()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestKalshiFetch(t *testing.T) {
	srv := marketServer(t, http.StatusOK, `{
		"markets": [
			{"candidate": "Garcia", "last_price": 29, "yes_bid": 28, "yes_ask": 31, "bid_depth": 140, "ask_depth": 90},
			{"candidate": "Wilson", "last_price": 40, "yes_bid": 0, "yes_ask": 19, "bid_depth": 0, "ask_depth": 12}
		]
	}`)

	client := NewKalshi(srv.URL, xhttp.NewClient(xhttp.WithTimeout(2*time.Second)))
	quotes, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	g := quotes[0]
	if g.Name != "Garcia" || g.Last != 29 || g.YesBid != 28 || g.YesAsk != 31 || g.BidDepth != 140 || g.AskDepth != 90 {
		t.Fatalf("garcia quote = %+v", g)
	}
	// Thin-market quotes come through untouched; the aggregator decides
	// what to do with an empty bid side.
	if quotes[1].YesBid != 0 || quotes[1].YesAsk != 19 {
		t.Fatalf("wilson quote = %+v", quotes[1])
	}
}

func TestKalshiFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusBadGateway, body: `{}`},
		{name: "missing markets", status: http.StatusOK, body: `{"outcomes": []}`},
		{name: "empty markets", status: http.StatusOK, body: `{"markets": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := marketServer(t, tt.status, tt.body)
			client := NewKalshi(srv.URL, xhttp.NewClient(xhttp.WithTimeout(2*time.Second)))
			if _, err := client.Fetch(context.Background()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestFetchHonorsContext(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(func() { close(block); srv.Close() })

	client := NewPolymarket(srv.URL, xhttp.NewClient(xhttp.WithTimeout(10*time.Second)))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Fetch(ctx); err == nil {
		t.Fatalf("expected context deadline error")
	}
}
