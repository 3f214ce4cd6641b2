package scanner

import (
	"context"
	"strings"

	"github.com/Real-Life-IaC/ch-pubsub/internal/adapters"
	"github.com/Real-Life-IaC/ch-pubsub/internal/execx"
	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
)

type Checkov struct {
	runner execx.Runner
	opts   Options
}

func NewCheckov(runner execx.Runner, opts Options) Engine {
	return &Checkov{runner: runner, opts: opts}
}

func (c *Checkov) Name() string { return "checkov" }

// Scan runs checkov over the rendered templates. The run is always
// soft-failed so a non-zero exit means the tool broke, not that findings
// exist; pass/fail belongs to reconciliation.
func (c *Checkov) Scan(ctx context.Context, artifactDir string) ([]model.Finding, error) {
	args := []string{"-d", artifactDir, "-o", "json", "--quiet", "--soft-fail"}
	if c.opts.BaselinePath != "" {
		args = append(args, "--baseline", c.opts.BaselinePath)
	}
	if c.opts.MinSeverity != "" {
		args = append(args, "--check", strings.ToUpper(c.opts.MinSeverity))
	}

	out, err := c.runner.Run(ctx, "checkov", args...)
	if err != nil {
		return nil, &Error{Tool: "checkov", Err: err}
	}

	findings, err := adapters.ParseCheckovBytes(out)
	if err != nil {
		return nil, &Error{Tool: "checkov", Err: err}
	}
	return findings, nil
}
