// Package api defines the event protocol spoken between a session
// server and its peers.
//
// Every message on the wire is a JSON-encoded "packet" of the form:
//
//	e - (required) the event name;
//	p - (optional) event payload with arbitrary data.
//
// A handful of event names are reserved for the protocol itself;
// anything else is application-defined and travels through the relay
// untouched, wrapped into a RelayEnvelope.
//
// Example:
//
//	{"e":"RELAY","p":{"event_type":"CHAT","data":"hello"}}
package api

import "encoding/json"

const (
	// EventInfo carries informational peer lifecycle notices.
	EventInfo = "NET_INFO"
	// EventWarning carries capacity, validation and delivery warnings.
	EventWarning = "NET_WARNING"
	// EventDiscover is bidirectional: a query from a probing client
	// (its payload is the host string the client dialed) and the
	// server's DiscoveryReply.
	EventDiscover = "NET_DISCOVER"
	// EventRelay carries a RelayEnvelope to be forwarded to the other peer.
	EventRelay = "RELAY"
)

// In is an inbound packet with a payload left raw for a 2-pass unmarshal.
type In struct {
	E string          `json:"e"`
	P json.RawMessage `json:"p,omitempty"`
}

// Out is an outbound packet.
type Out struct {
	E string `json:"e"`
	P any    `json:"p,omitempty"`
}

// RelayEnvelope is the payload of every relay message. Both fields
// are mandatory; envelopes missing either never reach the other peer.
type RelayEnvelope struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

func (e RelayEnvelope) Valid() bool { return e.EventType != "" && len(e.Data) > 0 }

// DiscoveryReply answers a discovery query. A non-connectable reply
// carries nothing but the flag.
type DiscoveryReply struct {
	Connectable bool   `json:"connectable"`
	PlayerCount int    `json:"player_count"`
	SessionName string `json:"session_name"`
	SessionHost string `json:"session_host"`
	SessionPort int    `json:"session_port"`
}
