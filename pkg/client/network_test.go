package client

import (
	"encoding/json"
	"testing"

	"github.com/timkanbur/asyncNetwork/pkg/config"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
)

func testNetwork() *Network {
	return New(config.Discovery{Port: 50020, ListenWindow: 1}, logger.Default())
}

func TestRouteDiscoveryReply(t *testing.T) {
	n := testNetwork()

	n.route([]byte(`{"e":"NET_DISCOVER","p":{"connectable":true,"player_count":1,"session_name":"MySession","session_host":"192.168.0.7","session_port":50000}}`))
	servers := n.PotentialServers()
	if len(servers) != 1 {
		t.Fatalf("expected one potential server, got %v", servers)
	}
	s := servers[0]
	if s.PlayerCount != 1 || s.SessionName != "MySession" || s.SessionHost != "192.168.0.7" || s.SessionPort != "50000" {
		t.Errorf("unexpected potential server: %+v", s)
	}
}

func TestRouteNonConnectableReply(t *testing.T) {
	n := testNetwork()

	n.route([]byte(`{"e":"NET_DISCOVER","p":{"connectable":false}}`))
	if servers := n.PotentialServers(); len(servers) != 0 {
		t.Errorf("non-connectable reply produced %v", servers)
	}
}

func TestRouteForwardsUnknownEvents(t *testing.T) {
	n := testNetwork()
	var got string
	n.Events().AddListener("CHAT", func(data json.RawMessage) {
		_ = json.Unmarshal(data, &got)
	})

	n.route([]byte(`{"e":"CHAT","p":"hello"}`))
	if got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}

func TestRouteProtocolEventsSkipDispatch(t *testing.T) {
	n := testNetwork()
	fired := false
	n.Events().AddListener("NET_INFO", func(json.RawMessage) { fired = true })

	n.route([]byte(`{"e":"NET_INFO","p":"peer connected"}`))
	if fired {
		t.Error("protocol event leaked into the application dispatcher")
	}
}

func TestSendWithoutConnection(t *testing.T) {
	n := testNetwork()
	if err := n.Send("CHAT", "hello"); err != ErrNotConnected {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestPotentialServersResetPerRun(t *testing.T) {
	n := testNetwork()
	n.route([]byte(`{"e":"NET_DISCOVER","p":{"connectable":true,"player_count":0,"session_name":"a","session_host":"10.0.0.1","session_port":50000}}`))
	if len(n.PotentialServers()) != 1 {
		t.Fatal("seed reply was not recorded")
	}

	// a fresh run starts with an empty list; no announcements arrive
	// within the (single poll) window
	<-n.StartDiscovery()
	if servers := n.PotentialServers(); len(servers) != 0 {
		t.Errorf("stale servers survived a discovery run: %v", servers)
	}
}
