package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Real-Life-IaC/ch-pubsub/internal/gate"
	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
	"github.com/Real-Life-IaC/ch-pubsub/internal/sarif"
)

var checkOutput string

type checkPayload struct {
	RunID    string           `json:"run_id"`
	State    gate.State       `json:"state"`
	Scanner  string           `json:"scanner"`
	New      []model.Finding  `json:"new_findings"`
	Accepted []model.Finding  `json:"accepted_findings"`
	Resolved []model.Identity `json:"resolved_findings"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Synthesize, scan and fail on findings not in the baseline",
	Run: func(cmd *cobra.Command, args []string) {
		// reject a bad format before paying for synth and scan
		format, err := parseCheckOutput(checkOutput)
		if err != nil {
			fatal(err)
		}

		cfg, log, g, err := setup()
		if err != nil {
			fatal(err)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, cfg.ToolTimeout)
		defer cancel()

		out := g.Check(ctx)
		if out.State == gate.StateErrored {
			fmt.Fprintf(os.Stderr, "error: %v\n", out.Err)
			os.Exit(out.ExitCode())
		}

		switch format {
		case "summary":
			gate.RenderSummary(os.Stdout, out)
		case "json":
			payload := checkPayload{
				RunID:    out.RunID,
				State:    out.State,
				Scanner:  out.Report.Scanner,
				New:      out.Result.NewFindings,
				Accepted: out.Result.AcceptedFindings,
				Resolved: out.Result.Resolved,
			}
			encoded, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				fatal(err)
			}
			fmt.Println(string(encoded))
		case "sarif":
			encoded, err := sarif.Export(out.Result.NewFindings, "iacgate", version)
			if err != nil {
				fatal(err)
			}
			fmt.Println(string(encoded))
		}

		os.Exit(out.ExitCode())
	},
}

// parseCheckOutput normalizes the --output flag and rejects unknown formats.
func parseCheckOutput(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", "summary":
		return "summary", nil
	case "json", "sarif":
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format: %s", s)
	}
}

func init() {
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "summary", "Output format (summary, json, sarif)")
	rootCmd.AddCommand(checkCmd)
}
