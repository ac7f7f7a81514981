package client

import (
	"encoding/json"
	"testing"

	"github.com/timkanbur/asyncNetwork/pkg/logger"
)

func TestDispatchOrder(t *testing.T) {
	d := NewDispatcher(logger.Default())
	var calls []int
	d.AddListener("TURN", func(json.RawMessage) { calls = append(calls, 1) })
	d.AddListener("TURN", func(json.RawMessage) { calls = append(calls, 2) })
	d.AddListener("TURN", func(json.RawMessage) { calls = append(calls, 3) })

	d.Trigger("TURN", nil)
	if len(calls) != 3 || calls[0] != 1 || calls[1] != 2 || calls[2] != 3 {
		t.Errorf("listeners ran out of order: %v", calls)
	}
}

func TestDispatchDuplicateListener(t *testing.T) {
	d := NewDispatcher(logger.Default())
	count := 0
	fn := func(json.RawMessage) { count++ }
	d.AddListener("ACK", fn)
	d.AddListener("ACK", fn)

	d.Trigger("ACK", nil)
	if count != 2 {
		t.Errorf("duplicate listener fired %d times, expected 2", count)
	}
}

func TestDispatchPassesData(t *testing.T) {
	d := NewDispatcher(logger.Default())
	var got string
	d.AddListener("CHAT", func(data json.RawMessage) {
		_ = json.Unmarshal(data, &got)
	})

	d.Trigger("CHAT", json.RawMessage(`"hello"`))
	if got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}

func TestDispatchWithoutListeners(t *testing.T) {
	d := NewDispatcher(logger.Default())
	// must not panic, only log
	d.Trigger("MOVE", json.RawMessage(`{}`))
}
