// Command coordinator runs the ceremony's server side: it binds the
// TCP address given by --listen-addr, waits for players, drives the protocol to completion,
// and writes the resulting keypair to disk (spec §6's CLI surface).
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/asv/mpc/coordinator"
	"github.com/asv/mpc/internal/logging"
	"github.com/asv/mpc/qap"
)

var version = "dev"

const (
	flagListenAddr  = "listen-addr"
	flagStatusAddr  = "status-addr"
	flagPlayers     = "players"
	flagKeypairOut  = "out"
	flagReportOut   = "report"
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
		Use:   "coordinator",
		Short: "Run the trusted-setup ceremony coordinator",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the coordinator's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	cfg := coordinator.DefaultConfig()
	var statusAddr string
	var circuitFile string
	var domainSize, numVars, numInputs int
	var reportPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Accept connections and drive the ceremony to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.Default()

			var source qap.Source
			if circuitFile != "" {
				f, err := os.Open(circuitFile)
				if err != nil {
					return fmt.Errorf("coordinator: open circuit file: %w", err)
				}
				defer f.Close()
				source = qap.FromFile{Reader: f}
			} else {
				log.Warn().Msg("no --circuit given, using a synthetic constraint system")
				source = qap.Synthetic{D: domainSize, NumVars: numVars, NumInputs: numInputs}
			}
			cs, err := source.Load()
			if err != nil {
				return fmt.Errorf("coordinator: load constraint system: %w", err)
			}

			metrics := coordinator.NewMetrics(prometheus.DefaultRegisterer)
			c := coordinator.New(cfg, cs, log, metrics)

			ln, err := net.Listen("tcp", cfg.ListenAddr)
			if err != nil {
				return fmt.Errorf("coordinator: listen: %w", err)
			}
			defer ln.Close()

			status := coordinator.NewStatusServer(statusAddr, c)
			go func() {
				if err := status.Start(); err != nil {
					log.Error().Err(err).Msg("status server stopped")
				}
			}()
			defer status.Stop()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				if err := c.Serve(ctx, ln); err != nil {
					log.Error().Err(err).Msg("accept loop stopped")
				}
			}()

			if _, err := c.Run(ctx); err != nil {
				return fmt.Errorf("coordinator: ceremony aborted: %w", err)
			}
			log.Info().Str("path", cfg.KeypairPath).Msg("ceremony complete")

			if reportPath != "" {
				rf, err := os.Create(reportPath)
				if err != nil {
					return fmt.Errorf("coordinator: create report file: %w", err)
				}
				defer rf.Close()
				if err := coordinator.RenderTimingReport(rf, c.Timings()); err != nil {
					return fmt.Errorf("coordinator: render timing report: %w", err)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.ListenAddr, flagListenAddr, cfg.ListenAddr, "address to accept player connections on")
	flags.StringVar(&statusAddr, flagStatusAddr, "127.0.0.1:8080", "address for the /status and /metrics HTTP endpoints")
	flags.IntVar(&cfg.Players, flagPlayers, cfg.Players, "number of players required before the ceremony starts")
	flags.StringVar(&cfg.KeypairPath, flagKeypairOut, cfg.KeypairPath, "path to write the assembled keypair to")
	flags.StringVar(&reportPath, flagReportOut, "", "optional path to write a PNG stage-timing report to")
	flags.StringVar(&circuitFile, flagCircuitFile, "", "path to a compiled constraint-system dump (omit to use a synthetic fixture)")
	flags.IntVar(&domainSize, flagDomainSize, 4, "synthetic constraint system: evaluation domain size")
	flags.IntVar(&numVars, flagNumVars, 3, "synthetic constraint system: number of witness variables")
	flags.IntVar(&numInputs, flagNumInputs, 1, "synthetic constraint system: number of public input variables")

	return cmd
}
