package config

import (
	"time"

	"github.com/spf13/pflag"
)

type Config struct {
	App        App
	Session    Session
	Discovery  Discovery
	Monitoring Monitoring
}

type App struct {
	Debug bool
}

// Session holds the server side parameters of one relay session.
type Session struct {
	Name     string
	MaxPeers int
	// QueryDelay is the flat anti-flood delay before every discovery reply.
	QueryDelay time.Duration
	Server     Server
}

type Server struct {
	Address string
	Https   bool
	Tls     struct {
		Domain    string
		HttpsKey  string
		HttpsCert string
	}
}

// Discovery holds the parameters shared by the broadcaster and the
// listening clients.
type Discovery struct {
	// Port is the well-known UDP port announcements are sent to.
	Port int
	// Interval between two announcements of a live server.
	Interval time.Duration
	// ListenWindow is the number of one-second receive polls a
	// client spends collecting announcements.
	ListenWindow int
	// ProbeDelay is how long a client lingers on a probed candidate
	// before disconnecting.
	ProbeDelay time.Duration
}

type Monitoring struct {
	Port             int
	URLPrefix        string
	MetricEnabled    bool `fig:"metric_enabled"`
	ProfilingEnabled bool `fig:"profiling_enabled"`
}

func (c *Monitoring) IsEnabled() bool { return c.MetricEnabled || c.ProfilingEnabled }

// allows custom config path
var configPath string

func NewConfig() (conf Config) {
	if err := LoadConfig(&conf, configPath); err != nil {
		panic(err)
	}
	return
}

func (c *Config) ParseFlags() {
	c.WithFlags(pflag.CommandLine)
	pflag.Parse()
}

func (c *Config) WithFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.App.Debug, "debug", c.App.Debug, "Enable debug logging")
	fs.StringVar(&c.Session.Name, "name", c.Session.Name, "Session name announced to clients")
	fs.StringVar(&c.Session.Server.Address, "address", c.Session.Server.Address, "Server address (host:port)")
	fs.IntVar(&c.Session.MaxPeers, "maxPeers", c.Session.MaxPeers, "Maximum number of peers per session")
	fs.IntVar(&c.Discovery.Port, "broadcastPort", c.Discovery.Port, "UDP port for session announcements")
	fs.DurationVar(&c.Discovery.Interval, "broadcastInterval", c.Discovery.Interval, "Period between session announcements")
	fs.IntVar(&c.Discovery.ListenWindow, "listenWindow", c.Discovery.ListenWindow, "Number of 1s polls during client discovery")
	fs.DurationVar(&c.Discovery.ProbeDelay, "probeDelay", c.Discovery.ProbeDelay, "Delay between candidate probes")
	fs.IntVar(&c.Monitoring.Port, "monitoring.port", c.Monitoring.Port, "Monitoring server port")
	fs.StringVar(&configPath, "conf", configPath, "Set custom configuration file path")
}
