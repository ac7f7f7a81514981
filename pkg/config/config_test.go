package config

import (
	"os"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	var conf Config
	if err := LoadConfig(&conf, ""); err != nil {
		t.Fatal(err)
	}
	if conf.Session.MaxPeers != 2 {
		t.Errorf("expected 2 max peers, got %d", conf.Session.MaxPeers)
	}
	if conf.Session.QueryDelay != time.Second {
		t.Errorf("expected 1s query delay, got %v", conf.Session.QueryDelay)
	}
	if conf.Discovery.Port != 50020 {
		t.Errorf("expected broadcast port 50020, got %d", conf.Discovery.Port)
	}
	if conf.Discovery.Interval != 10*time.Second {
		t.Errorf("expected 10s broadcast interval, got %v", conf.Discovery.Interval)
	}
	if conf.Discovery.ListenWindow != 20 {
		t.Errorf("expected a 20 poll listen window, got %d", conf.Discovery.ListenWindow)
	}
	if conf.Discovery.ProbeDelay != 2*time.Second {
		t.Errorf("expected 2s probe delay, got %v", conf.Discovery.ProbeDelay)
	}
}

func TestEnvOverride(t *testing.T) {
	_ = os.Setenv("ASYNC_NET_SESSION_NAME", "FromEnv")
	defer func() { _ = os.Unsetenv("ASYNC_NET_SESSION_NAME") }()

	var conf Config
	if err := LoadConfig(&conf, ""); err != nil {
		t.Fatal(err)
	}
	if conf.Session.Name != "FromEnv" {
		t.Errorf("environment did not override session name, got %q", conf.Session.Name)
	}
}
