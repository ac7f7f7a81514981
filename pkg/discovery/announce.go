// Package discovery implements the UDP broadcast protocol by which
// clients locate running sessions on the local network: servers
// announce themselves periodically, clients collect announcements for
// a bounded window and probe each candidate afterwards.
package discovery

import (
	"fmt"
	"strings"
)

// Magic is the fixed prefix of every announcement datagram, shared
// verbatim by servers and clients. Always 18 characters.
const Magic = "[asyncNet Session]"

// Announcement renders the wire payload: "<Magic> <port>".
func Announcement(port int) []byte {
	return []byte(fmt.Sprintf("%s %d", Magic, port))
}

// ParseAnnouncement extracts the session port from a datagram.
// The port stays a string; it travels into a dial address anyway.
func ParseAnnouncement(data []byte) (port string, ok bool) {
	s := string(data)
	if len(s) < len(Magic)+2 || !strings.HasPrefix(s, Magic) {
		return "", false
	}
	return s[len(Magic)+1:], true
}
