package stream

import (
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(log.New(io.Discard, "", 0))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, s *Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", s.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	s, ts := newTestServer(t)
	a := dial(t, ts)
	b := dial(t, ts)
	waitForClients(t, s, 2)

	type frame struct {
		Step int `json:"step"`
	}
	if err := s.Broadcast(frame{Step: 7}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var got frame
		if err := json.Unmarshal(payload, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Step != 7 {
			t.Fatalf("step = %d, want 7", got.Step)
		}
	}
}

func TestDisconnectedClientIsDropped(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	waitForClients(t, s, 1)

	conn.Close()
	// The read loop notices the close; a broadcast must not fail afterwards.
	waitForClients(t, s, 0)
	if err := s.Broadcast(map[string]int{"step": 1}); err != nil {
		t.Fatalf("broadcast after disconnect: %v", err)
	}
}

func TestBroadcastRejectsUnmarshalable(t *testing.T) {
	s, _ := newTestServer(t)
	if err := s.Broadcast(func() {}); err == nil {
		t.Fatal("expected marshal error for a function value")
	}
}
