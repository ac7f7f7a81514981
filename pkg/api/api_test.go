package api

import (
	"encoding/json"
	"testing"
)

func TestRelayEnvelopeValid(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{in: `{"event_type":"CHAT","data":"hello"}`, valid: true},
		{in: `{"event_type":"CHAT","data":null}`, valid: true}, // data key present is enough
		{in: `{"event_type":"CHAT"}`, valid: false},
		{in: `{"data":"hello"}`, valid: false},
		{in: `{}`, valid: false},
	}
	for _, tt := range tests {
		var env RelayEnvelope
		if err := json.Unmarshal([]byte(tt.in), &env); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if env.Valid() != tt.valid {
			t.Errorf("%s: expected valid=%v", tt.in, tt.valid)
		}
	}
}

func TestTwoPassUnmarshal(t *testing.T) {
	raw := []byte(`{"e":"RELAY","p":{"event_type":"CHAT","data":"hello"}}`)
	var in In
	if err := json.Unmarshal(raw, &in); err != nil {
		t.Fatal(err)
	}
	if in.E != EventRelay {
		t.Fatalf("expected %v, got %v", EventRelay, in.E)
	}
	var env RelayEnvelope
	if err := json.Unmarshal(in.P, &env); err != nil {
		t.Fatal(err)
	}
	if env.EventType != "CHAT" || string(env.Data) != `"hello"` {
		t.Errorf("unexpected envelope: %+v", env)
	}
}
