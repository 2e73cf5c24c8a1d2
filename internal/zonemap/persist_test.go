package zonemap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPPersisterMove(t *testing.T) {
	var got MoveRequest
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/zones/walking-street/move" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		requestID = r.Header.Get("X-Request-ID")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewHTTPPersister(srv.URL)
	err := p.Move(context.Background(), MoveRequest{
		ZoneID: "walking-street", EntityID: "venue-1", Row: 1, Col: 7,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if got.EntityID != "venue-1" || got.Row != 1 || got.Col != 7 {
		t.Fatalf("server saw %+v", got)
	}
	if requestID == "" {
		t.Fatal("request carried no X-Request-ID")
	}
}

func TestHTTPPersisterClassifiesFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"occupied", http.StatusConflict, `{"error":"occupied"}`, ErrPositionOccupied},
		{"out of range", http.StatusUnprocessableEntity, `{"error":"out_of_range"}`, ErrOutOfRange},
		{"server error", http.StatusInternalServerError, `{}`, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(c.status)
				w.Write([]byte(c.body))
			}))
			defer srv.Close()

			p := NewHTTPPersister(srv.URL)
			err := p.Swap(context.Background(), SwapRequest{ZoneID: "z", AID: "a", BID: "b"})
			if err == nil {
				t.Fatal("expected an error")
			}
			if c.want != nil && !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
			if c.want == nil && (errors.Is(err, ErrPositionOccupied) || errors.Is(err, ErrOutOfRange)) {
				t.Fatalf("generic failure misclassified: %v", err)
			}
		})
	}
}

func TestHTTPPersisterNetworkError(t *testing.T) {
	p := NewHTTPPersister("http://127.0.0.1:1") // nothing listens here
	err := p.Move(context.Background(), MoveRequest{ZoneID: "z", EntityID: "x"})
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if errors.Is(err, ErrPositionOccupied) || errors.Is(err, ErrOutOfRange) {
		t.Fatalf("transport error misclassified: %v", err)
	}
}
