package session

import (
	"encoding/json"

	"github.com/timkanbur/asyncNetwork/pkg/api"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
	"github.com/timkanbur/asyncNetwork/pkg/network"
	"github.com/timkanbur/asyncNetwork/pkg/network/websocket"
)

// peer wraps one websocket connection into the registry's Peer contract.
type peer struct {
	conn *websocket.WS
	log  *logger.Logger
}

func newPeer(conn *websocket.WS, log *logger.Logger) *peer {
	return &peer{conn: conn, log: log}
}

func (p *peer) Id() network.Uid { return p.conn.Id() }

// Notify sends an event to the peer. Marshalling failures surface as
// a local log entry only; the caller treats sends as fire-and-forget.
func (p *peer) Notify(event string, payload any) {
	data, err := json.Marshal(api.Out{E: event, P: payload})
	if err != nil {
		p.log.Error().Err(err).Msgf("Couldn't encode %v for %v", event, p.Id().Short())
		return
	}
	p.conn.Write(data)
}

func (p *peer) Disconnect() { p.conn.Close() }
