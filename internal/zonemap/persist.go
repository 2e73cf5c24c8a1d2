package zonemap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Classified persistence failures. Anything else wrapped by a Move or
// Swap call is treated as a transient/network failure.
var (
	ErrPositionOccupied = errors.New("position already occupied")
	ErrOutOfRange       = errors.New("position out of range")
)

// MoveRequest places one entity at a target cell.
type MoveRequest struct {
	ZoneID   string `json:"zone_id"`
	EntityID string `json:"entity_id"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

// SwapRequest exchanges two entities' cells as one atomic operation, so
// the server never observes an intermediate conflict state.
type SwapRequest struct {
	ZoneID string `json:"zone_id"`
	AID    string `json:"a_id"`
	BID    string `json:"b_id"`
	ARow   int    `json:"a_row"`
	ACol   int    `json:"a_col"`
	BRow   int    `json:"b_row"`
	BCol   int    `json:"b_col"`
}

// Persister is the remote endpoint that records entity positions.
type Persister interface {
	Move(ctx context.Context, req MoveRequest) error
	Swap(ctx context.Context, req SwapRequest) error
}

// HTTPPersister talks JSON over HTTP POST to the position API.
type HTTPPersister struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPPersister(baseURL string) *HTTPPersister {
	return &HTTPPersister{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPPersister) Move(ctx context.Context, req MoveRequest) error {
	return p.post(ctx, fmt.Sprintf("%s/zones/%s/move", p.BaseURL, req.ZoneID), req)
}

func (p *HTTPPersister) Swap(ctx context.Context, req SwapRequest) error {
	return p.post(ctx, fmt.Sprintf("%s/zones/%s/swap", p.BaseURL, req.ZoneID), req)
}

// apiError is the wire shape of a classified failure response.
type apiError struct {
	Error string `json:"error"`
}

func (p *HTTPPersister) post(ctx context.Context, url string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("position api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var ae apiError
	_ = json.NewDecoder(resp.Body).Decode(&ae)
	switch ae.Error {
	case "occupied":
		return fmt.Errorf("%w", ErrPositionOccupied)
	case "out_of_range":
		return fmt.Errorf("%w", ErrOutOfRange)
	}
	return fmt.Errorf("position api: status %d", resp.StatusCode)
}
