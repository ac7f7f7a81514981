package discovery

import (
	"context"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/timkanbur/asyncNetwork/pkg/config"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
	"github.com/timkanbur/asyncNetwork/pkg/network/socket"
)

var announcementsSent = promauto.NewCounter(prometheus.CounterOpts{
	Name: "discovery_announcements_sent_total",
	Help: "UDP announcements broadcast by this session.",
})

// Broadcaster announces a live session on the subnet broadcast
// address for the lifetime of the server process. Sending is
// best-effort: a failed tick is logged and the next one tries again.
type Broadcaster struct {
	interval    time.Duration
	port        int
	sessionPort int

	conn *net.UDPConn
	done chan struct{}
	log  *logger.Logger
}

func NewBroadcaster(conf config.Discovery, sessionPort int, log *logger.Logger) *Broadcaster {
	return &Broadcaster{
		interval:    conf.Interval,
		port:        conf.Port,
		sessionPort: sessionPort,
		done:        make(chan struct{}),
		log:         log,
	}
}

func (b *Broadcaster) Run() { go b.loop() }

func (b *Broadcaster) loop() {
	payload := Announcement(b.sessionPort)
	addr := &net.UDPAddr{IP: net.IPv4bcast, Port: b.port}
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.send(payload, addr)
	for {
		select {
		case <-ticker.C:
			b.send(payload, addr)
		case <-b.done:
			if b.conn != nil {
				_ = b.conn.Close()
			}
			b.log.Debug().Msg("Broadcast stopped")
			return
		}
	}
}

func (b *Broadcaster) send(payload []byte, addr *net.UDPAddr) {
	if b.conn == nil {
		conn, err := socket.NewBroadcastConn()
		if err != nil {
			b.log.Error().Err(err).Msg("Couldn't open broadcast socket")
			return
		}
		b.conn = conn
	}
	if _, err := b.conn.WriteToUDP(payload, addr); err != nil {
		b.log.Error().Err(err).Msg("Couldn't broadcast session info")
		return
	}
	announcementsSent.Inc()
	b.log.Debug().Msgf("Broadcasting session info: %s", payload)
}

func (b *Broadcaster) Shutdown(context.Context) error {
	close(b.done)
	return nil
}
