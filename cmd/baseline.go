package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Real-Life-IaC/ch-pubsub/internal/gate"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage the accepted-findings baseline",
}

var baselineUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Regenerate the baseline from a fresh scan (never blocked by findings)",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log, g, err := setup()
		if err != nil {
			fatal(err)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, cfg.ToolTimeout)
		defer cancel()

		out := g.UpdateBaseline(ctx)
		if out.State == gate.StateErrored {
			fmt.Fprintf(os.Stderr, "error: %v\n", out.Err)
			os.Exit(out.ExitCode())
		}

		gate.RenderSummary(os.Stdout, out)
		fmt.Printf("Review and commit %s alongside the infrastructure change.\n", cfg.BaselinePath)
		os.Exit(out.ExitCode())
	},
}

func init() {
	baselineCmd.AddCommand(baselineUpdateCmd)
	rootCmd.AddCommand(baselineCmd)
}
