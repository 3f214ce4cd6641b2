package scanner

import (
	"context"
	"fmt"

	"github.com/Real-Life-IaC/ch-pubsub/internal/execx"
	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
)

// Options are the invocation flags every engine recognizes. Severity
// thresholds belong here, at the tool boundary; the reconciler never
// filters by severity.
type Options struct {
	BaselinePath string // optional tool-side baseline pass-through
	MinSeverity  string // lowest severity to report, empty = all
}

// Engine runs one scanning tool over an artifact directory and returns
// normalized findings. Engines fail only on tool-invocation errors, never
// on findings being present.
type Engine interface {
	Name() string
	Scan(ctx context.Context, artifactDir string) ([]model.Finding, error)
}

type Factory func(runner execx.Runner, opts Options) Engine

var engines = map[string]Factory{
	"checkov": NewCheckov,
	"trivy":   NewTrivy,
}

func New(name string, runner execx.Runner, opts Options) (Engine, error) {
	factory, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("scanner '%s' not supported", name)
	}
	return factory(runner, opts), nil
}
