package main

import (
	"context"

	"github.com/timkanbur/asyncNetwork/pkg/config"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
	"github.com/timkanbur/asyncNetwork/pkg/os"
	"github.com/timkanbur/asyncNetwork/pkg/session"
)

var Version = "?"

func main() {
	conf := config.NewConfig()
	conf.ParseFlags()

	log := logger.NewConsole(conf.App.Debug, "s", false)
	log.Info().Msgf("version %s", Version)
	if log.GetLevel() < logger.InfoLevel {
		log.Debug().Msgf("config: %+v", conf)
	}

	server, err := session.New(conf, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't start the session server")
	}
	server.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Service shutdown errors")
		}
	}()
	<-os.ExpectTermination()
	cancel()
}
