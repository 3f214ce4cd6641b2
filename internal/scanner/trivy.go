package scanner

import (
	"context"
	"strings"

	"github.com/Real-Life-IaC/ch-pubsub/internal/adapters"
	"github.com/Real-Life-IaC/ch-pubsub/internal/execx"
	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
)

type Trivy struct {
	runner execx.Runner
	opts   Options
}

func NewTrivy(runner execx.Runner, opts Options) Engine {
	return &Trivy{runner: runner, opts: opts}
}

func (t *Trivy) Name() string { return "trivy" }

// Scan runs `trivy config` over the rendered templates and returns the
// misconfiguration findings. Trivy exits zero when findings exist, so any
// error from the runner is a real invocation failure.
func (t *Trivy) Scan(ctx context.Context, artifactDir string) ([]model.Finding, error) {
	args := []string{"config", "-f", "json", "-q"}
	if t.opts.MinSeverity != "" {
		args = append(args, "--severity", severitiesFrom(t.opts.MinSeverity))
	}
	args = append(args, artifactDir)

	out, err := t.runner.Run(ctx, "trivy", args...)
	if err != nil {
		return nil, &Error{Tool: "trivy", Err: err}
	}

	findings, err := adapters.ParseTrivyBytes(out)
	if err != nil {
		return nil, &Error{Tool: "trivy", Err: err}
	}
	return findings, nil
}

// severitiesFrom expands a minimum severity into the comma list trivy
// expects, ex: MEDIUM -> MEDIUM,HIGH,CRITICAL.
func severitiesFrom(min string) string {
	minSev := model.Severity(strings.ToUpper(strings.TrimSpace(min)))
	ordered := []model.Severity{
		model.SevInfo, model.SevLow, model.SevMedium, model.SevHigh, model.SevCritical,
	}
	var out []string
	for _, s := range ordered {
		if s.Weight() < minSev.Weight() {
			continue
		}
		label := string(s)
		if s == model.SevInfo {
			// trivy calls the lowest bucket UNKNOWN
			label = "UNKNOWN"
		}
		out = append(out, label)
	}
	return strings.Join(out, ",")
}
