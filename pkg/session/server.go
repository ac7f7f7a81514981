package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/timkanbur/asyncNetwork/pkg/config"
	"github.com/timkanbur/asyncNetwork/pkg/discovery"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
	"github.com/timkanbur/asyncNetwork/pkg/monitoring"
	"github.com/timkanbur/asyncNetwork/pkg/network/httpx"
	"github.com/timkanbur/asyncNetwork/pkg/network/socket"
	"github.com/timkanbur/asyncNetwork/pkg/service"
)

// Server bundles everything one session process runs: the websocket
// endpoint, the discovery broadcaster and optional monitoring.
type Server struct {
	conf     config.Config
	session  *Session
	hub      *Hub
	srv      *httpx.Server
	services service.Group
	log      *logger.Logger
}

// New wires up a session server. A busy port is a hard startup
// failure; the server refuses to start rather than rebind elsewhere.
func New(conf config.Config, log *logger.Logger) (*Server, error) {
	s := &Server{conf: conf, log: log}

	opts := []httpx.Option{httpx.WithLogger(log)}
	if conf.Session.Server.Https {
		tls := conf.Session.Server.Tls
		opts = append(opts, httpx.WithTls(tls.HttpsCert, tls.HttpsKey, tls.Domain))
	}
	srv, err := httpx.NewServer(
		conf.Session.Server.Address,
		func(*httpx.Server) http.Handler {
			mux := http.NewServeMux()
			mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) { s.hub.HandleConnection(w, r) })
			return mux
		},
		opts...,
	)
	if err != nil {
		if socket.IsPortBusyError(err) {
			return nil, fmt.Errorf("address %v is already in use: %w", conf.Session.Server.Address, err)
		}
		return nil, err
	}
	s.srv = srv
	s.session = NewSession(conf.Session, srv.Port(), log)
	s.hub = NewHub(s.session, log)

	s.services.Add(discovery.NewBroadcaster(conf.Discovery, srv.Port(), log))
	s.services.AddIf(conf.Monitoring.IsEnabled(), monitoring.New(conf.Monitoring, "session", log))
	return s, nil
}

func (s *Server) Session() *Session { return s.session }

func (s *Server) Run() {
	s.log.Info().Msgf("Session %v is up on port %d", s.conf.Session.Name, s.srv.Port())
	s.srv.Run()
	s.services.Start()
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.services.Shutdown(ctx)
	if srvErr := s.srv.Shutdown(ctx); srvErr != nil && err == nil {
		err = srvErr
	}
	return err
}
