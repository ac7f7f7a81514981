package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/timkanbur/asyncNetwork/pkg/logger"
)

type Server struct {
	http.Server

	autoCert *TLS
	opts     Options

	listener *Listener
	log      *logger.Logger
}

// NewServer creates an HTTP(S) server bound right away, so port
// conflicts surface here and not on Run.
func NewServer(address string, handler func(*Server) http.Handler, options ...Option) (*Server, error) {
	opts := &Options{
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	opts.override(options...)
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	server := &Server{
		Server: http.Server{
			Addr:         address,
			IdleTimeout:  opts.IdleTimeout,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
		opts: *opts,
		log:  opts.Logger,
	}
	server.Handler = handler(server)

	if opts.Https && opts.IsAutoHttpsCert() {
		server.autoCert = NewTLSConfig(opts.HttpsDomain)
		server.TLSConfig = server.autoCert.CertManager.TLSConfig()
	}

	listener, err := NewListener(address, opts.PortRoll)
	if err != nil {
		return nil, err
	}
	server.listener = listener
	return server, nil
}

func (s *Server) Run() { go s.run() }

func (s *Server) run() {
	s.log.Info().Msgf("Listening on %v (%v)", s.listener.Addr(), s.GetProtocol())
	var err error
	if s.opts.Https {
		err = s.ServeTLS(s.listener, s.opts.HttpsCert, s.opts.HttpsKey)
	} else {
		err = s.Serve(s.listener)
	}
	if err != nil && err != http.ErrServerClosed {
		s.log.Error().Err(err).Msg("HTTP server stopped")
	}
}

func (s *Server) Shutdown(ctx context.Context) error { return s.Server.Shutdown(ctx) }

// Port returns the actually bound port of the server.
func (s *Server) Port() int { return s.listener.Port() }

func (s *Server) GetProtocol() string {
	if s.opts.Https {
		return "https"
	}
	return "http"
}
