package main

import (
	"fmt"

	"github.com/timkanbur/asyncNetwork/pkg/client"
	"github.com/timkanbur/asyncNetwork/pkg/config"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
)

var Version = "?"

func main() {
	conf := config.NewConfig()
	conf.ParseFlags()

	log := logger.NewConsole(conf.App.Debug, "d", false)
	log.Info().Msgf("version %s", Version)

	n := client.New(conf.Discovery, log)
	log.Info().Msgf("Discovering sessions for up to %ds...", conf.Discovery.ListenWindow)
	<-n.StartDiscovery()

	servers := n.PotentialServers()
	if len(servers) == 0 {
		log.Info().Msg("No connectable sessions found")
		return
	}
	for _, s := range servers {
		fmt.Printf("%v at %v:%v (%d player(s))\n", s.SessionName, s.SessionHost, s.SessionPort, s.PlayerCount)
	}
}
