package zonemap

import (
	"encoding/json"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DataSource supplies the authoritative entity list for a zone. The
// refresh cadence is controlled by the source, not by the view; the
// view simply drains Snapshots from its update loop.
type DataSource interface {
	Snapshots() <-chan []Entity
	Close() error
}

// StaticSource emits one fixed snapshot. Used offline and in tests.
type StaticSource struct {
	ch chan []Entity
}

func NewStaticSource(entities []Entity) *StaticSource {
	ch := make(chan []Entity, 1)
	ch <- entities
	return &StaticSource{ch: ch}
}

func (s *StaticSource) Snapshots() <-chan []Entity { return s.ch }
func (s *StaticSource) Close() error               { return nil }

// entityDTO is the wire shape of one entity in a feed snapshot.
type entityDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"` // "venue" or "worker"
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Color string `json:"color"` // "#rrggbb"
}

func (d entityDTO) toEntity() Entity {
	kind := KindVenue
	if d.Kind == "worker" {
		kind = KindWorker
	}
	return Entity{
		ID:    d.ID,
		Name:  d.Name,
		Kind:  kind,
		Cell:  Cell{Row: d.Row, Col: d.Col},
		Color: parseHexColor(d.Color),
	}
}

// FeedSource receives authoritative snapshots pushed over a websocket.
// A reader goroutine forwards them to the snapshot channel; if the view
// is mid-frame the newest snapshot simply replaces the wait, stale ones
// are dropped.
type FeedSource struct {
	url string

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	ch chan []Entity
}

func NewFeedSource(url string) *FeedSource {
	f := &FeedSource{url: url, ch: make(chan []Entity, 1)}
	go f.run()
	return f
}

func (f *FeedSource) Snapshots() <-chan []Entity { return f.ch }

// Close tears the feed down; the reader goroutine exits on the next
// read error and does not reconnect.
func (f *FeedSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}

func (f *FeedSource) run() {
	backoff := time.Second
	for {
		if f.isClosed() {
			return
		}
		conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
		if err != nil {
			log.Printf("zonemap: feed dial %s: %v", f.url, err)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
		f.setConn(conn)
		f.readLoop(conn)
		f.setConn(nil)
	}
}

func (f *FeedSource) readLoop(conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if !f.isClosed() {
				log.Printf("zonemap: feed read: %v", err)
			}
			return
		}
		var dtos []entityDTO
		if err := json.Unmarshal(payload, &dtos); err != nil {
			log.Printf("zonemap: feed decode: %v", err)
			continue
		}
		entities := make([]Entity, 0, len(dtos))
		for _, d := range dtos {
			entities = append(entities, d.toEntity())
		}
		// Replace any undrained snapshot with the fresher one.
		select {
		case <-f.ch:
		default:
		}
		f.ch <- entities
	}
}

func (f *FeedSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *FeedSource) setConn(conn *websocket.Conn) {
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
}

// parseHexColor reads "#rrggbb"; anything malformed falls back to a
// neutral grey so a bad feed value cannot break rendering.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
