// Package client implements the peer side of the relay protocol:
// connecting to a session, sending typed messages through the relay
// and discovering sessions on the local network.
package client

import (
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/timkanbur/asyncNetwork/pkg/api"
	"github.com/timkanbur/asyncNetwork/pkg/config"
	"github.com/timkanbur/asyncNetwork/pkg/discovery"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
	"github.com/timkanbur/asyncNetwork/pkg/network/websocket"
)

var ErrNotConnected = errors.New("not connected")

// Network manages the connection to one session server and the
// client's discovery runs. Discovery occupies its own goroutine; the
// rest of the client stays unblocked while it runs.
type Network struct {
	conf   config.Discovery
	events *Dispatcher
	log    *logger.Logger

	mu          sync.Mutex
	conn        *websocket.WS
	potential   []discovery.PotentialServer
	discovering bool
}

func New(conf config.Discovery, log *logger.Logger) *Network {
	return &Network{conf: conf, events: NewDispatcher(log), log: log}
}

// Events exposes the application event registry.
func (n *Network) Events() *Dispatcher { return n.events }

// Connect dials a session server and starts routing inbound events.
func (n *Network) Connect(host, port string) error {
	u := url.URL{Scheme: "ws", Host: net.JoinHostPort(host, port), Path: "/ws"}
	conn, err := websocket.NewClient(u, n.log)
	if err != nil {
		return err
	}
	conn.OnMessage = func(message []byte, _ error) { n.route(message) }
	conn.Listen()

	n.mu.Lock()
	n.conn = conn
	n.mu.Unlock()
	n.log.Debug().Msgf("Connected to %v", u.Host)
	return nil
}

func (n *Network) Disconnect() {
	n.mu.Lock()
	conn := n.conn
	n.conn = nil
	n.mu.Unlock()
	if conn != nil {
		conn.Close()
		n.log.Info().Msg("Disconnected")
	}
}

// Done reports the liveness channel of the current connection.
func (n *Network) Done() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return n.conn.Done
}

// Send wraps data into a relay envelope under the given event type
// and hands it to the server for forwarding to the other peer.
func (n *Network) Send(eventType string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return n.Emit(api.EventRelay, api.RelayEnvelope{EventType: eventType, Data: raw})
}

// Emit sends a raw protocol event to the server.
func (n *Network) Emit(event string, payload any) error {
	n.mu.Lock()
	conn := n.conn
	n.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	data, err := json.Marshal(api.Out{E: event, P: payload})
	if err != nil {
		return err
	}
	conn.Write(data)
	return nil
}

// StartDiscovery kicks off one discovery run on a dedicated
// goroutine and returns a channel closing when the run finishes.
// The potential server list is rebuilt from scratch each run.
func (n *Network) StartDiscovery() <-chan struct{} {
	done := make(chan struct{})
	n.mu.Lock()
	if n.discovering {
		n.mu.Unlock()
		close(done)
		return done
	}
	n.discovering = true
	n.potential = nil
	n.mu.Unlock()

	go func() {
		defer func() {
			n.mu.Lock()
			n.discovering = false
			n.mu.Unlock()
			close(done)
			n.log.Debug().Msg("Server discovery stopped")
		}()
		n.discover()
	}()
	return done
}

func (n *Network) IsDiscovering() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.discovering
}

// PotentialServers returns the servers that confirmed themselves
// connectable during the most recent discovery run.
func (n *Network) PotentialServers() []discovery.PotentialServer {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]discovery.PotentialServer, len(n.potential))
	copy(out, n.potential)
	return out
}

func (n *Network) discover() {
	listener := discovery.NewListener(n.conf, n.log)
	candidates, err := listener.Listen()
	if err != nil {
		n.log.Error().Err(err).Msg("Couldn't listen for announcements")
		return
	}
	n.log.Debug().Msgf("Found %d candidate(s)", len(candidates))

	for _, c := range candidates {
		if err := n.Connect(c.Host, c.Port); err != nil {
			n.log.Error().Err(err).Msgf("Failed to connect to %v:%v", c.Host, c.Port)
			continue
		}
		// the dialed host doubles as the host hint, so the reply
		// carries an address this client can actually reach
		_ = n.Emit(api.EventDiscover, c.Host)
		time.Sleep(n.conf.ProbeDelay)
		n.Disconnect()
	}
}

func (n *Network) route(message []byte) {
	var in api.In
	if err := json.Unmarshal(message, &in); err != nil {
		n.log.Warn().Err(err).Msg("Undecodable packet")
		return
	}
	switch in.E {
	case api.EventInfo:
		n.log.Info().Msg(asText(in.P))
	case api.EventWarning:
		n.log.Warn().Msg(asText(in.P))
	case api.EventDiscover:
		n.handleDiscoveryReply(in.P)
	default:
		n.events.Trigger(in.E, in.P)
	}
}

func (n *Network) handleDiscoveryReply(payload json.RawMessage) {
	var reply api.DiscoveryReply
	if err := json.Unmarshal(payload, &reply); err != nil {
		n.log.Error().Err(err).Msg("Broken discovery reply")
		return
	}
	if !reply.Connectable {
		n.log.Info().Msg("Discovery failure, session not connectable")
		return
	}
	n.mu.Lock()
	n.potential = append(n.potential, discovery.PotentialServer{
		PlayerCount: reply.PlayerCount,
		SessionName: reply.SessionName,
		SessionHost: reply.SessionHost,
		SessionPort: strconv.Itoa(reply.SessionPort),
	})
	n.mu.Unlock()
	n.log.Info().Msgf("Discovery success on %v:%d", reply.SessionHost, reply.SessionPort)
}

func asText(payload json.RawMessage) string {
	var s string
	if err := json.Unmarshal(payload, &s); err != nil {
		return string(payload)
	}
	return s
}
