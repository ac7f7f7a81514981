package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/timkanbur/asyncNetwork/pkg/api"
	"github.com/timkanbur/asyncNetwork/pkg/config"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
)

func dialTestHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readPacket(t *testing.T, conn *websocket.Conn) api.In {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var in api.In
	if err := json.Unmarshal(message, &in); err != nil {
		t.Fatalf("undecodable packet %s: %v", message, err)
	}
	return in
}

func TestHubRelayEndToEnd(t *testing.T) {
	log := logger.Default()
	s := NewSession(config.Session{Name: "e2e", MaxPeers: 2}, 50000, log)
	hub := NewHub(s, log)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	a := dialTestHub(t, url)
	b := dialTestHub(t, url)

	// the hub admits asynchronously from the test's perspective
	deadline := time.Now().Add(2 * time.Second)
	for s.Occupancy() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("peers were not admitted, occupancy %d", s.Occupancy())
		}
		time.Sleep(10 * time.Millisecond)
	}

	// a learns about b joining
	if in := readPacket(t, a); in.E != api.EventInfo {
		t.Errorf("expected %v on peer a, got %v", api.EventInfo, in.E)
	}

	err := a.WriteJSON(api.Out{E: api.EventRelay, P: api.RelayEnvelope{
		EventType: "CHAT",
		Data:      json.RawMessage(`"hello"`),
	}})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	in := readPacket(t, b)
	if in.E != "CHAT" {
		t.Errorf("expected CHAT on peer b, got %v", in.E)
	}
	if string(in.P) != `"hello"` {
		t.Errorf(`expected "hello", got %s`, in.P)
	}
}

func TestHubRejectsThirdConnection(t *testing.T) {
	log := logger.Default()
	s := NewSession(config.Session{Name: "e2e", MaxPeers: 2}, 50000, log)
	hub := NewHub(s, log)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	dialTestHub(t, url)
	dialTestHub(t, url)
	c := dialTestHub(t, url)

	if in := readPacket(t, c); in.E != api.EventWarning {
		t.Errorf("expected %v on the rejected peer, got %v", api.EventWarning, in.E)
	}
	// the server closes the connection right after the warning
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := c.ReadMessage(); err == nil {
		t.Error("expected a closed connection after the capacity warning")
	}
}
