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

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Render the infrastructure definitions without scanning",
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

		out := g.Synth(ctx)
		if out.State == gate.StateErrored {
			fmt.Fprintf(os.Stderr, "error: %v\n", out.Err)
			os.Exit(out.ExitCode())
		}

		fmt.Printf("synthesized %d template(s) into %s\n", len(out.Artifacts.Templates), out.Artifacts.Dir)
		for _, t := range out.Artifacts.Templates {
			fmt.Printf("- %s\n", t)
		}
	},
}

func init() {
	rootCmd.AddCommand(synthCmd)
}
