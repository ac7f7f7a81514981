package httpx

import "testing"

func TestBusyPortIsFatalWithoutRoll(t *testing.T) {
	l, err := NewListener("127.0.0.1:0", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer l.Close()

	_, err = NewListener(l.Addr().String(), false)
	if err == nil {
		t.Error("expected a busy port error, got none")
	}
}

func TestBusyPortRollsWhenAllowed(t *testing.T) {
	l, err := NewListener("127.0.0.1:0", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer l.Close()

	l2, err := NewListener(l.Addr().String(), true)
	if err != nil {
		t.Fatalf("expected a rolled port, got %v", err)
	}
	defer l2.Close()
	if l2.Port() == l.Port() {
		t.Errorf("rolled listener reused port %d", l.Port())
	}
}
