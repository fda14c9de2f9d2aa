// Command player runs the ceremony's client side: it connects to a
// coordinator, commits to a freshly sampled PublicKey, and walks the
// Stage1/Stage2/Stage3 exchange (spec §4.8, §6's CLI surface).
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asv/mpc/internal/logging"
	"github.com/asv/mpc/player"
	"github.com/asv/mpc/qap"
	"github.com/asv/mpc/wire"
)

var version = "dev"

const (
	flagAddress     = "addr"
	flagPeerID      = "peer-id"
	flagCircuitFile = "circuit"
	flagDomainSize  = "domain-size"
	flagNumVars     = "num-vars"
	flagNumInputs   = "num-inputs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "player",
		Short: "Participate in a ceremony run as a single player",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the player's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var address, peerIDHex, circuitFile string
	var domainSize, numVars, numInputs int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to a coordinator and complete the ceremony",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.Default()

			id, err := parsePeerID(peerIDHex)
			if err != nil {
				return fmt.Errorf("player: %w", err)
			}

			var source qap.Source
			if circuitFile != "" {
				f, err := os.Open(circuitFile)
				if err != nil {
					return fmt.Errorf("player: open circuit file: %w", err)
				}
				defer f.Close()
				source = qap.FromFile{Reader: f}
			} else {
				log.Warn().Msg("no --circuit given, using a synthetic constraint system")
				source = qap.Synthetic{D: domainSize, NumVars: numVars, NumInputs: numInputs}
			}
			cs, err := source.Load()
			if err != nil {
				return fmt.Errorf("player: load constraint system: %w", err)
			}

			cfg := player.DefaultConfig(address, id)
			c, err := player.New(cfg, cs, log)
			if err != nil {
				return fmt.Errorf("player: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := c.Run(ctx); err != nil {
				return fmt.Errorf("player: %w", err)
			}
			log.Info().Msg("ceremony participation complete")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&address, flagAddress, "127.0.0.1:65530", "coordinator address to connect to")
	flags.StringVar(&peerIDHex, flagPeerID, "", "8-byte hex-encoded peer identifier, required")
	flags.StringVar(&circuitFile, flagCircuitFile, "", "path to a compiled constraint-system dump (omit to use a synthetic fixture, must match the coordinator's)")
	flags.IntVar(&domainSize, flagDomainSize, 4, "synthetic constraint system: evaluation domain size")
	flags.IntVar(&numVars, flagNumVars, 3, "synthetic constraint system: number of witness variables")
	flags.IntVar(&numInputs, flagNumInputs, 1, "synthetic constraint system: number of public input variables")
	if err := cmd.MarkFlagRequired(flagPeerID); err != nil {
		panic(err)
	}

	return cmd
}

func parsePeerID(s string) (wire.PeerID, error) {
	var id wire.PeerID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid --peer-id: %w", err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("invalid --peer-id: want %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}
