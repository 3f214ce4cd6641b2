package scanner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
	"github.com/Real-Life-IaC/ch-pubsub/internal/synth"
)

// Error means the scanner tool failed to execute: missing binary, crash,
// unreadable output. Findings being present is never an Error.
type Error struct {
	Tool string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("scanner %s failed: %v", e.Tool, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Runner binds one engine into the report-producing scan stage. It never
// touches the baseline store.
type Runner struct {
	engine Engine
	now    func() time.Time
}

func NewRunner(engine Engine) *Runner {
	return &Runner{engine: engine, now: time.Now}
}

func (r *Runner) Scan(ctx context.Context, artifacts synth.ArtifactSet) (model.Report, error) {
	findings, err := r.engine.Scan(ctx, artifacts.Dir)
	if err != nil {
		return model.Report{}, err
	}

	SortFindings(findings)
	return model.Report{
		GeneratedAt: r.now().UTC(),
		Scanner:     r.engine.Name(),
		ArtifactDir: artifacts.Dir,
		Findings:    findings,
	}, nil
}

// SortFindings orders findings by file, line, then rule id so reports and
// summaries come out stable across runs.
func SortFindings(fs []model.Finding) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].FilePath == fs[j].FilePath {
			if fs[i].StartLine == fs[j].StartLine {
				return fs[i].RuleID < fs[j].RuleID
			}
			return fs[i].StartLine < fs[j].StartLine
		}
		return fs[i].FilePath < fs[j].FilePath
	})
}
