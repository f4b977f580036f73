package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mojo333/gamelink/internal/config"
	"github.com/mojo333/gamelink/internal/netifaces"
	"github.com/mojo333/gamelink/internal/procports"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show information about interfaces, games or game ports",
}

var showInterfaceCmd = &cobra.Command{
	Use:   "interface",
	Short: "List the network interfaces usable for sniffing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := netifaces.Interfaces()
		if err != nil {
			return err
		}
		printHeader("Available network interfaces")
		for _, info := range infos {
			line := info.Name
			if info.Description != "" {
				line += " (" + info.Description + ")"
			}
			if len(info.Addrs) > 0 {
				addrs := make([]string, len(info.Addrs))
				for i, a := range info.Addrs {
					addrs[i] = a.String()
				}
				line += " " + strings.Join(addrs, ", ")
			}
			fmt.Println(line)
		}
		return nil
	},
}

var showGameCmd = &cobra.Command{
	Use:   "game",
	Short: "List the games with verified LAN support",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		games, err := config.LoadGames(config.DefaultGamesFile)
		if err != nil {
			return err
		}
		printHeader("Games with verified LAN support")
		for _, g := range config.VerifiedGames(games) {
			fmt.Printf("%s (UDP ports: %v)\n", g.Name, g.UDPPorts)
		}
		return nil
	},
}

var showPortsCmd = &cobra.Command{
	Use:   "ports <process> <interface>",
	Short: "Monitor the UDP broadcasts a running game sends",
	Long: `Finds the open UDP ports of the named process and reports every
broadcast packet it sends on them. Useful for discovering the discovery
ports of a game that is not in the database yet.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := netifaces.FindByName(args[1]); err != nil {
			return err
		}
		return procports.Monitor(args[0], args[1], log)
	},
}

func printHeader(title string) {
	fmt.Println(title)
	fmt.Println(strings.Repeat("-", len(title)))
}
