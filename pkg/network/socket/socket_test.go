package socket

import (
	"net"
	"testing"
)

func TestIsPortBusyError(t *testing.T) {
	l, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer l.Close()

	_, err = net.Listen("tcp4", l.Addr().String())
	if err == nil {
		t.Fatal("expected a busy port error, got none")
	}
	if !IsPortBusyError(err) {
		t.Errorf("busy port error was not recognized: %v", err)
	}
	if IsPortBusyError(nil) {
		t.Error("nil was classified as a busy port error")
	}
}

func TestListenUDPReuse(t *testing.T) {
	conn, err := ListenUDPReuse(0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer conn.Close()
	if _, ok := conn.LocalAddr().(*net.UDPAddr); !ok {
		t.Errorf("unexpected address type %T", conn.LocalAddr())
	}
}
