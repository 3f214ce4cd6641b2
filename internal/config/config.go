package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every path and tool setting the gate needs. The baseline
// path and output dir are always passed explicitly so independent projects
// and test runs never share state.
type Config struct {
	// Synthesis
	SynthBin string // CDK binary
	AppDir   string // directory holding the CDK app
	OutDir   string // rendered artifact output, overwritten per run

	// Scanning
	Scanner     string // engine name: checkov | trivy
	MinSeverity string // lowest severity the scanner reports, empty = all

	// Baseline
	BaselinePath string

	// Operational
	ToolTimeout time.Duration
}

func Load(envFile string) (*Config, error) {
	// The env file is optional; plain environment variables work alone.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load(".env")
	}

	cfg := &Config{
		SynthBin:     getEnvOrDefault("GATE_SYNTH_BIN", "cdk"),
		AppDir:       getEnvOrDefault("GATE_APP_DIR", "."),
		OutDir:       getEnvOrDefault("GATE_OUT_DIR", "cdk.out"),
		Scanner:      strings.ToLower(getEnvOrDefault("GATE_SCANNER", "checkov")),
		MinSeverity:  os.Getenv("GATE_MIN_SEVERITY"),
		BaselinePath: getEnvOrDefault("GATE_BASELINE_PATH", ".gate-baseline.json"),
	}

	timeoutStr := getEnvOrDefault("GATE_TOOL_TIMEOUT", "10m")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid GATE_TOOL_TIMEOUT: %w", err)
	}
	cfg.ToolTimeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	required := map[string]string{
		"GATE_SYNTH_BIN":     c.SynthBin,
		"GATE_APP_DIR":       c.AppDir,
		"GATE_OUT_DIR":       c.OutDir,
		"GATE_SCANNER":       c.Scanner,
		"GATE_BASELINE_PATH": c.BaselinePath,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if c.ToolTimeout < time.Second {
		return fmt.Errorf("GATE_TOOL_TIMEOUT must be at least 1 second")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
