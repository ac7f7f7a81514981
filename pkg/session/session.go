// Package session implements the server side of the relay protocol:
// the capacity-limited peer registry, the one-hop message relay and
// discovery query answering.
package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/timkanbur/asyncNetwork/pkg/api"
	"github.com/timkanbur/asyncNetwork/pkg/config"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
	"github.com/timkanbur/asyncNetwork/pkg/network"
)

// Peer is one connected client as seen by the registry.
type Peer interface {
	Id() network.Uid
	Notify(event string, payload any)
	Disconnect()
}

// Session is the single server-managed pairing of up to MaxPeers
// clients. All registry mutations go through one mutex; outbound
// notifications happen outside of it so a slow peer cannot stall
// concurrent connect/disconnect handling.
type Session struct {
	name       string
	port       int
	maxPeers   int
	queryDelay time.Duration

	mu    sync.Mutex
	peers []Peer

	log *logger.Logger
}

func NewSession(conf config.Session, port int, log *logger.Logger) *Session {
	return &Session{
		name:       conf.Name,
		port:       port,
		maxPeers:   conf.MaxPeers,
		queryDelay: conf.QueryDelay,
		log:        log,
	}
}

func (s *Session) Name() string { return s.name }
func (s *Session) Port() int    { return s.port }

// Occupancy returns the current number of connected peers.
func (s *Session) Occupancy() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

// HandleConnect admits a new peer or turns it away when the session
// is full. A rejected peer gets a warning event and a forced
// disconnect; nothing is reported to the caller either way.
func (s *Session) HandleConnect(p Peer) {
	s.mu.Lock()
	if len(s.peers) >= s.maxPeers {
		s.mu.Unlock()
		s.log.Warn().Msgf("Rejected %v, session is full", p.Id().Short())
		p.Notify(api.EventWarning, "Disconnected due to exceeded connections")
		p.Disconnect()
		return
	}
	var first Peer
	if len(s.peers) > 0 {
		first = s.peers[0]
	}
	s.peers = append(s.peers, p)
	n := len(s.peers)
	s.mu.Unlock()

	if first != nil {
		first.Notify(api.EventInfo, fmt.Sprintf("Peer %v connected", p.Id().Short()))
	}
	connectedPeers.Set(float64(n))
	s.log.Debug().Msgf("Connected %v (%d/%d)", p.Id().Short(), n, s.maxPeers)
}

// HandleDisconnect removes a peer and tells the remaining one.
// Unknown ids are ignored.
func (s *Session) HandleDisconnect(id network.Uid) {
	s.mu.Lock()
	idx := -1
	var other Peer
	for i, p := range s.peers {
		if p.Id() == id {
			idx = i
		} else {
			other = p
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.peers = append(s.peers[:idx], s.peers[idx+1:]...)
	n := len(s.peers)
	s.mu.Unlock()

	if other != nil {
		other.Notify(api.EventInfo, fmt.Sprintf("Peer %v disconnected", id.Short()))
	}
	connectedPeers.Set(float64(n))
	s.log.Debug().Msgf("Disconnected %v (%d/%d)", id.Short(), n, s.maxPeers)
}

// HandleDiscovery answers a probing client after a flat delay, which
// keeps broadcast-triggered probe floods in check. The reply stays
// connectable below maxPeers+1 occupants: the probe connection holds
// a seat itself while querying, so the +1 keeps an otherwise free
// session visible. hostHint is echoed back as the reachable address
// since the server does not know which of its interfaces the client
// dialed.
func (s *Session) HandleDiscovery(p Peer, hostHint string) {
	time.Sleep(s.queryDelay)
	n := s.Occupancy()
	discoveryQueries.Inc()
	if n < s.maxPeers+1 {
		p.Notify(api.EventDiscover, api.DiscoveryReply{
			Connectable: true,
			PlayerCount: n,
			SessionName: s.name,
			SessionHost: hostHint,
			SessionPort: s.port,
		})
		s.log.Debug().Msgf("Discovered by %v (success)", p.Id().Short())
	} else {
		p.Notify(api.EventDiscover, api.DiscoveryReply{Connectable: false})
		s.log.Debug().Msgf("Discovered by %v (failure)", p.Id().Short())
	}
}

// HandleRelay forwards a relay envelope to the other connected peer.
// Strictly store-less: an envelope with nobody on the other end is
// dropped with a warning to the sender, never queued.
func (s *Session) HandleRelay(sender Peer, payload json.RawMessage) {
	var env api.RelayEnvelope
	if err := json.Unmarshal(payload, &env); err != nil || !env.Valid() {
		relayDropped.Inc()
		sender.Notify(api.EventWarning, "Invalid data format")
		return
	}

	s.mu.Lock()
	var other Peer
	for _, p := range s.peers {
		if p.Id() != sender.Id() {
			other = p
		}
	}
	s.mu.Unlock()

	if other == nil {
		relayDropped.Inc()
		sender.Notify(api.EventWarning, "No clients available to send")
		return
	}
	other.Notify(env.EventType, env.Data)
	relayedMessages.Inc()
	s.log.Debug().Msgf("Relayed %v from %v", env.EventType, sender.Id().Short())
}
