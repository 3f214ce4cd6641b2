package gate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Real-Life-IaC/ch-pubsub/internal/baseline"
	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
	"github.com/Real-Life-IaC/ch-pubsub/internal/reconcile"
	"github.com/Real-Life-IaC/ch-pubsub/internal/synth"
)

type State string

const (
	StateInit            State = "INIT"
	StateSynthesizing    State = "SYNTHESIZING"
	StateScanning        State = "SCANNING"
	StateReconciling     State = "RECONCILING"
	StatePassed          State = "PASSED"
	StateFailed          State = "FAILED"
	StateBaselineWritten State = "BASELINE_WRITTEN"
	StateErrored         State = "ERRORED"
)

// Exit codes: findings and crashes are different outcomes and must never
// share a code.
const (
	ExitPassed      = 0
	ExitNewFindings = 1
	ExitError       = 2
)

type Synthesizer interface {
	Synthesize(ctx context.Context) (synth.ArtifactSet, error)
}

type Scanner interface {
	Scan(ctx context.Context, artifacts synth.ArtifactSet) (model.Report, error)
}

type BaselineStore interface {
	Load() (model.Baseline, error)
	Replace(b model.Baseline) error
}

// Gate sequences synthesis, scanning and reconciliation for one invocation.
// Stages run strictly in order; any adapter error short-circuits to ERRORED.
type Gate struct {
	synthesizer Synthesizer
	scanner     Scanner
	store       BaselineStore
	log         *zap.SugaredLogger
}

func New(s Synthesizer, sc Scanner, store BaselineStore, log *zap.SugaredLogger) *Gate {
	return &Gate{synthesizer: s, scanner: sc, store: store, log: log}
}

// Outcome is the terminal record of one gate run.
type Outcome struct {
	RunID     string
	State     State
	Artifacts synth.ArtifactSet
	Report    model.Report
	Result    model.Reconciliation
	Err       error
}

func (o Outcome) ExitCode() int {
	switch o.State {
	case StatePassed, StateBaselineWritten:
		return ExitPassed
	case StateFailed:
		return ExitNewFindings
	default:
		return ExitError
	}
}

// Check runs the blocking gate: fresh findings not present in the baseline
// fail the run regardless of severity. A missing baseline counts as empty
// so first runs work before anyone created one.
func (g *Gate) Check(ctx context.Context) Outcome {
	out := Outcome{RunID: uuid.NewString(), State: StateInit}
	log := g.log.With("run_id", out.RunID, "mode", "check")

	base, err := g.store.Load()
	if err != nil {
		if !errors.Is(err, baseline.ErrNotFound) {
			log.Errorw("baseline load failed", "error", err)
			out.State = StateErrored
			out.Err = err
			return out
		}
		log.Infow("no baseline yet, treating as empty; run 'baseline update' to create one")
		base = model.Baseline{}
	}

	if !g.runSynthAndScan(ctx, log, &out) {
		return out
	}

	out.State = StateReconciling
	out.Result = reconcile.Reconcile(out.Report, base)

	if out.Result.Passed() {
		out.State = StatePassed
		log.Infow("gate passed",
			"accepted", len(out.Result.AcceptedFindings),
			"resolved", len(out.Result.Resolved))
	} else {
		out.State = StateFailed
		log.Warnw("gate failed: new findings present",
			"new", len(out.Result.NewFindings),
			"accepted", len(out.Result.AcceptedFindings))
	}
	return out
}

// UpdateBaseline regenerates the baseline from a fresh scan. Findings never
// block here; only adapter errors do, and then nothing is written.
func (g *Gate) UpdateBaseline(ctx context.Context) Outcome {
	out := Outcome{RunID: uuid.NewString(), State: StateInit}
	log := g.log.With("run_id", out.RunID, "mode", "baseline-update")

	if !g.runSynthAndScan(ctx, log, &out) {
		return out
	}

	newBase := baseline.FromReport(out.Report)
	if err := g.store.Replace(newBase); err != nil {
		log.Errorw("baseline write failed", "error", err)
		out.State = StateErrored
		out.Err = err
		return out
	}

	out.State = StateBaselineWritten
	log.Infow("baseline written", "accepted", len(newBase.Accepted))
	return out
}

// Synth runs the synthesizer alone, for the standalone synth command.
func (g *Gate) Synth(ctx context.Context) Outcome {
	out := Outcome{RunID: uuid.NewString(), State: StateSynthesizing}
	log := g.log.With("run_id", out.RunID, "mode", "synth")

	artifacts, err := g.synthesizer.Synthesize(ctx)
	if err != nil {
		log.Errorw("synthesis failed", "error", err)
		out.State = StateErrored
		out.Err = err
		return out
	}
	out.Artifacts = artifacts
	out.State = StatePassed
	log.Infow("synthesis complete", "dir", artifacts.Dir, "templates", len(artifacts.Templates))
	return out
}

func (g *Gate) runSynthAndScan(ctx context.Context, log *zap.SugaredLogger, out *Outcome) bool {
	out.State = StateSynthesizing
	artifacts, err := g.synthesizer.Synthesize(ctx)
	if err != nil {
		log.Errorw("synthesis failed", "error", err)
		out.State = StateErrored
		out.Err = err
		return false
	}
	out.Artifacts = artifacts
	log.Debugw("synthesis complete", "dir", artifacts.Dir, "templates", len(artifacts.Templates))

	out.State = StateScanning
	report, err := g.scanner.Scan(ctx, artifacts)
	if err != nil {
		log.Errorw("scan failed", "error", err)
		out.State = StateErrored
		out.Err = err
		return false
	}
	out.Report = report
	log.Debugw("scan complete", "scanner", report.Scanner, "findings", len(report.Findings))
	return true
}

// RenderSummary writes the human-readable verdict. New findings are listed
// first as the blocking set; accepted and resolved sit under non-blocking
// headings for visibility.
func RenderSummary(w io.Writer, o Outcome) {
	switch o.State {
	case StateErrored:
		fmt.Fprintf(w, "gate errored: %v\n", o.Err)
		return
	case StateBaselineWritten:
		fmt.Fprintf(w, "baseline written: %d accepted finding(s)\n", len(o.Report.Findings))
		return
	}

	fmt.Fprintf(w, "gate %s\n", o.State)
	fmt.Fprintf(w, "- scanner: %s\n", o.Report.Scanner)
	fmt.Fprintf(w, "- templates: %d\n", len(o.Artifacts.Templates))
	fmt.Fprintf(w, "- findings: %d new, %d accepted, %d resolved\n",
		len(o.Result.NewFindings), len(o.Result.AcceptedFindings), len(o.Result.Resolved))

	if len(o.Result.NewFindings) > 0 {
		fmt.Fprintln(w, "\nNew findings (blocking):")
		for _, f := range o.Result.NewFindings {
			fmt.Fprintf(w, "- [%s] %s %s: %s\n", f.Severity, f.RuleID, f.ResourcePath, f.Message)
		}
		fmt.Fprintln(w, "\nAccept intentionally with 'baseline update' after review.")
	}

	if len(o.Result.AcceptedFindings) > 0 {
		fmt.Fprintln(w, "\nAccepted findings (non-blocking):")
		for _, f := range o.Result.AcceptedFindings {
			fmt.Fprintf(w, "- [%s] %s %s\n", f.Severity, f.RuleID, f.ResourcePath)
		}
	}

	if len(o.Result.Resolved) > 0 {
		fmt.Fprintln(w, "\nResolved (candidates for baseline pruning):")
		for _, id := range o.Result.Resolved {
			fmt.Fprintf(w, "- %s %s\n", id.RuleID, id.ResourcePath)
		}
	}
}
