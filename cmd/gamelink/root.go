package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mojo333/gamelink/internal/logger"
	"github.com/mojo333/gamelink/internal/relay"
)

const version = "0.1.0"

// errSessionFailed marks a relay session that already logged its failure;
// run maps it to exit code 1 without printing again.
var errSessionFailed = errors.New("relay session failed")

var (
	debug       bool
	showVersion bool
	log         *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "gamelink",
	Short:         "Connects players via different networks",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "gamelink version %s\n", version)
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "print more informations")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print the version and exit")

	showCmd.AddCommand(showInterfaceCmd, showGameCmd, showPortsCmd)
	rootCmd.AddCommand(showCmd, adhocCmd, vpnCmd, partylanCmd)
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSessionFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		return 1
	}
	return 0
}

// runSession runs one relay session to completion.
func runSession(rule relay.Rule) error {
	sess, err := relay.NewSession(rule, log)
	if err != nil {
		return err
	}
	if code := sess.Run(); code != 0 {
		return errSessionFailed
	}
	return nil
}
