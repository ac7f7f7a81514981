package httpx

import (
	"net"
	"strconv"

	"github.com/timkanbur/asyncNetwork/pkg/network"
	"github.com/timkanbur/asyncNetwork/pkg/network/socket"
)

const maxPortRollAttempts = 42

type Listener struct {
	net.Listener
}

// NewListener binds a TCP listener on the given address.
// When rollPorts is off, a busy port is returned as an error to the
// caller instead of silently rebinding somewhere else; the session
// server relies on that to refuse startup on a port conflict.
func NewListener(address string, rollPorts bool) (*Listener, error) {
	ls, err := net.Listen("tcp4", address)
	if err != nil {
		if rollPorts && socket.IsPortBusyError(err) {
			host := network.Address(address).Host()
			port, _ := network.Address(address).Port()
			for i := port + 1; i < port+maxPortRollAttempts; i++ {
				ls, err = net.Listen("tcp4", host+":"+strconv.Itoa(i))
				if err == nil {
					return &Listener{ls}, nil
				}
			}
		}
		return nil, err
	}
	return &Listener{ls}, nil
}

func (l *Listener) Port() int {
	return l.Addr().(*net.TCPAddr).Port
}
