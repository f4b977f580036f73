package main

import (
	"net/netip"

	"github.com/spf13/cobra"

	"github.com/mojo333/gamelink/internal/config"
	"github.com/mojo333/gamelink/internal/netifaces"
	"github.com/mojo333/gamelink/internal/relay"
)

// broadcastAddr is the destination of LAN discovery packets.
var broadcastAddr = netip.AddrFrom4([4]byte{255, 255, 255, 255})

var vpnCmd = &cobra.Command{
	Use:   "vpn [configFile]",
	Short: "Relay game broadcasts to the players listed in the configuration",
	Long: `Relays the broadcast traffic of all games with verified LAN support
to every player address in the configuration file. The interface and the
player addresses are read from ` + config.DefaultFile + ` unless another
file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile := config.DefaultFile
		if len(args) == 1 {
			configFile = args[0]
		}
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if err := cfg.ValidateVPN(); err != nil {
			return err
		}
		players, err := cfg.PlayerAddrs()
		if err != nil {
			return err
		}
		if _, err := netifaces.FindByName(cfg.VPN.Interface); err != nil {
			return err
		}
		games, err := config.LoadGames(config.DefaultGamesFile)
		if err != nil {
			return err
		}

		rule := relay.Rule{
			Filter: relay.Filter{
				Interface:      cfg.VPN.Interface,
				OldDestination: broadcastAddr,
				WatchedPorts:   config.WatchedPorts(games, true),
			},
			NewDestinations: players,
		}
		return runSession(rule)
	},
}
