// Package socket holds the raw UDP plumbing of the discovery protocol.
package socket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"syscall"
)

// ListenUDPReuse binds a UDP socket on the given port with address
// reuse enabled, so several processes on one machine can listen for
// the same broadcasts.
func ListenUDPReuse(port int) (net.PacketConn, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	return lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", port))
}

// NewBroadcastConn returns a UDP socket suitable for sending
// datagrams to the subnet broadcast address.
func NewBroadcastConn() (*net.UDPConn, error) {
	return net.ListenUDP("udp4", nil)
}

// IsPortBusyError tests if the given error is one of
// the port busy errors.
func IsPortBusyError(err error) bool {
	if err == nil {
		return false
	}
	var eOsSyscall *os.SyscallError
	if !errors.As(err, &eOsSyscall) {
		return false
	}
	var errErrno syscall.Errno
	if !errors.As(eOsSyscall, &errErrno) {
		return false
	}
	if errErrno == syscall.EADDRINUSE {
		return true
	}
	const WSAEADDRINUSE = 10048
	if runtime.GOOS == "windows" && errErrno == WSAEADDRINUSE {
		return true
	}
	return false
}
