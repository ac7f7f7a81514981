package session

import (
	"encoding/json"
	"net/http"

	"github.com/timkanbur/asyncNetwork/pkg/api"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
	"github.com/timkanbur/asyncNetwork/pkg/network/websocket"
)

// Hub glues the websocket endpoint to the session registry: it
// upgrades inbound connections, runs admission control and routes
// protocol events to their handlers.
type Hub struct {
	session *Session
	log     *logger.Logger
}

func NewHub(session *Session, log *logger.Logger) *Hub {
	return &Hub{session: session, log: log}
}

// HandleConnection upgrades an HTTP request and attaches the new peer
// to the session for the lifetime of the connection.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.NewServer(w, r, h.log)
	if err != nil {
		h.log.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}
	p := newPeer(conn, h.log)
	// every inbound message gets its own goroutine, so a delayed
	// discovery reply cannot block the read pump
	conn.OnMessage = func(message []byte, _ error) { go h.route(p, message) }
	conn.Listen()

	h.session.HandleConnect(p)
	go func() {
		<-conn.Done
		h.session.HandleDisconnect(p.Id())
	}()
}

func (h *Hub) route(p *peer, message []byte) {
	var in api.In
	if err := json.Unmarshal(message, &in); err != nil {
		h.log.Warn().Err(err).Msgf("Undecodable packet from %v", p.Id().Short())
		p.Notify(api.EventWarning, "Invalid data format")
		return
	}
	switch in.E {
	case api.EventDiscover:
		var host string
		if err := json.Unmarshal(in.P, &host); err != nil {
			p.Notify(api.EventWarning, "Invalid data format")
			return
		}
		h.session.HandleDiscovery(p, host)
	case api.EventRelay:
		h.session.HandleRelay(p, in.P)
	default:
		h.log.Warn().Msgf("Unhandled event %v from %v", in.E, p.Id().Short())
	}
}
