package discovery

import (
	"net"
	"time"

	"github.com/timkanbur/asyncNetwork/pkg/config"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
	"github.com/timkanbur/asyncNetwork/pkg/network/socket"
)

const pollTimeout = time.Second

// Candidate is a server inferred from a received announcement, not
// yet confirmed connectable.
type Candidate struct {
	Host string
	Port string
}

// PotentialServer is a candidate confirmed connectable via a
// discovery query round-trip.
type PotentialServer struct {
	PlayerCount int
	SessionName string
	SessionHost string
	SessionPort string
}

// Listener collects session announcements from the local network.
// One Listen call is one discovery run; candidate state never leaks
// between runs.
type Listener struct {
	port   int
	window int
	log    *logger.Logger
}

func NewListener(conf config.Discovery, log *logger.Logger) *Listener {
	return &Listener{port: conf.Port, window: conf.ListenWindow, log: log}
}

// Listen binds the announcement port with address reuse and polls it
// with a one-second timeout for the configured number of iterations.
// A timed-out poll is the normal "still waiting" case. The resulting
// candidate list is deduplicated by sender host and may be empty.
func (l *Listener) Listen() ([]Candidate, error) {
	conn, err := socket.ListenUDPReuse(l.port)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()
	return l.collect(conn), nil
}

func (l *Listener) collect(conn net.PacketConn) []Candidate {
	var found []Candidate
	seen := map[string]bool{}
	buf := make([]byte, 1024)
	for i := 0; i < l.window; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(pollTimeout))
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				l.log.Debug().Msg("Listening for announcements...")
				continue
			}
			l.log.Warn().Err(err).Msg("Announcement receive failed")
			continue
		}
		port, ok := ParseAnnouncement(buf[:n])
		if !ok {
			continue
		}
		host := hostOf(addr)
		if seen[host] {
			continue
		}
		seen[host] = true
		found = append(found, Candidate{Host: host, Port: port})
		l.log.Debug().Msgf("Received announcement from %v", addr)
	}
	return found
}

func hostOf(addr net.Addr) string {
	if udp, ok := addr.(*net.UDPAddr); ok {
		return udp.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
