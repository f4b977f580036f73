package main

import (
	"github.com/spf13/cobra"

	"github.com/mojo333/gamelink/internal/config"
	"github.com/mojo333/gamelink/internal/partylan"
	"github.com/mojo333/gamelink/internal/relay"
)

var partylanAll bool

var partylanCmd = &cobra.Command{
	Use:   "partylan [path]",
	Short: "Relay game broadcasts to the peers found in a PartyLAN log",
	Long: `Derives the player addresses from the peer discovery log of a local
PartyLAN installation and relays the broadcasts of all games with
verified LAN support to them. The installation path is taken from the
command line or from ` + config.DefaultFile + `.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir string
		if len(args) == 1 {
			dir = args[0]
		} else {
			cfg, err := config.Load(config.DefaultFile)
			if err != nil {
				return err
			}
			if err := cfg.ValidatePartyLAN(); err != nil {
				return err
			}
			dir = cfg.PartyLAN.Path
		}

		src, err := partylan.Open(dir)
		if err != nil {
			return err
		}
		filter := partylan.StatusAccepted
		if partylanAll {
			filter = partylan.StatusAll
		}
		peers, err := src.Addresses(filter)
		if err != nil {
			return err
		}
		games, err := config.LoadGames(config.DefaultGamesFile)
		if err != nil {
			return err
		}

		rule := relay.Rule{
			Filter: relay.Filter{
				Interface:      src.Interface(),
				OldDestination: broadcastAddr,
				WatchedPorts:   config.WatchedPorts(games, true),
			},
			NewDestinations: peers,
		}
		return runSession(rule)
	},
}

func init() {
	partylanCmd.Flags().BoolVarP(&partylanAll, "all", "a", false,
		"derive addresses for all logged peers, not only accepted sessions")
}
