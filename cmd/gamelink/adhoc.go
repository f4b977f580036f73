package main

import (
	"fmt"
	"net/netip"

	"github.com/spf13/cobra"

	"github.com/mojo333/gamelink/internal/netifaces"
	"github.com/mojo333/gamelink/internal/relay"
)

var adhocFlags struct {
	oldDestination string
	ports          []uint
	newIPs         []string
}

var adhocCmd = &cobra.Command{
	Use:   "adhoc <interface>",
	Short: "Relay packets with manually given filter and destinations",
	Long: `Captures UDP packets addressed to the old destination on the given
interface and re-sends one unicast copy per new destination. All filter
parameters are taken from the command line instead of a configuration
file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := netifaces.FindByName(args[0]); err != nil {
			return err
		}
		oldDest, err := netip.ParseAddr(adhocFlags.oldDestination)
		if err != nil {
			return fmt.Errorf("invalid old destination %q: %w", adhocFlags.oldDestination, err)
		}
		ports := make([]uint16, 0, len(adhocFlags.ports))
		for _, p := range adhocFlags.ports {
			if p == 0 || p > 65535 {
				return fmt.Errorf("invalid UDP port %d", p)
			}
			ports = append(ports, uint16(p))
		}
		newDests := make([]netip.Addr, 0, len(adhocFlags.newIPs))
		for _, ip := range adhocFlags.newIPs {
			addr, err := netip.ParseAddr(ip)
			if err != nil {
				return fmt.Errorf("invalid new destination %q: %w", ip, err)
			}
			newDests = append(newDests, addr)
		}

		rule := relay.Rule{
			Filter: relay.Filter{
				Interface:      args[0],
				OldDestination: oldDest,
				WatchedPorts:   ports,
			},
			NewDestinations: newDests,
		}
		return runSession(rule)
	},
}

func init() {
	adhocCmd.Flags().StringVarP(&adhocFlags.oldDestination, "old-destination", "o",
		"255.255.255.255", "destination address of the packets to capture")
	adhocCmd.Flags().UintSliceVarP(&adhocFlags.ports, "port", "p",
		nil, "UDP destination port to relay (repeatable)")
	adhocCmd.Flags().StringSliceVarP(&adhocFlags.newIPs, "new-destination", "n",
		nil, "address to send rewritten copies to (repeatable)")
	adhocCmd.MarkFlagRequired("port")
}
