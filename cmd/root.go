package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Real-Life-IaC/ch-pubsub/internal/baseline"
	"github.com/Real-Life-IaC/ch-pubsub/internal/config"
	"github.com/Real-Life-IaC/ch-pubsub/internal/execx"
	"github.com/Real-Life-IaC/ch-pubsub/internal/gate"
	"github.com/Real-Life-IaC/ch-pubsub/internal/logging"
	"github.com/Real-Life-IaC/ch-pubsub/internal/scanner"
	"github.com/Real-Life-IaC/ch-pubsub/internal/synth"
)

const version = "0.1.0"

var debugMode bool
var envFile string

var rootCmd = &cobra.Command{
	Use:   "iacgate",
	Short: "iacgate - security baseline gate for the PubSub infrastructure",
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Optional env file with GATE_* settings")
}

// setup wires config, logger and the gate pipeline shared by all commands.
func setup() (*config.Config, *zap.SugaredLogger, *gate.Gate, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logging.New(debugMode)
	if err != nil {
		return nil, nil, nil, err
	}

	runner := execx.OSRunner{}
	synthesizer := synth.New(runner, synth.Options{
		Bin:    cfg.SynthBin,
		AppDir: cfg.AppDir,
		OutDir: cfg.OutDir,
	})

	engine, err := scanner.New(cfg.Scanner, runner, scanner.Options{
		MinSeverity: cfg.MinSeverity,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	g := gate.New(synthesizer, scanner.NewRunner(engine), baseline.NewStore(cfg.BaselinePath), log)
	return cfg, log, g, nil
}

// fatal reports setup failures with the adapter-error exit code so they
// never masquerade as gate verdicts.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(gate.ExitError)
}
