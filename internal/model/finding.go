package model

import "time"

type Severity string

const (
	SevInfo     Severity = "INFO"
	SevLow      Severity = "LOW"
	SevMedium   Severity = "MEDIUM"
	SevHigh     Severity = "HIGH"
	SevCritical Severity = "CRITICAL"
)

// Weight orders severities for sorting and display. It never drives the
// gate decision: an unaccepted finding blocks at any severity.
func (s Severity) Weight() int {
	switch s {
	case SevCritical:
		return 5
	case SevHigh:
		return 4
	case SevMedium:
		return 3
	case SevLow:
		return 2
	default:
		return 1
	}
}

type Finding struct {
	RuleID       string   `json:"rule_id"`            // scanner check id (ex: CKV_AWS_18)
	RuleName     string   `json:"rule_name"`          // check title, if the scanner reports one
	Severity     Severity `json:"severity"`           // normalized severity
	Message      string   `json:"message"`            // short description
	ResourcePath string   `json:"resource_path"`      // template path + logical resource address
	FilePath     string   `json:"file_path"`          // rendered template file
	StartLine    int      `json:"start_line"`         // 1-based, 0 = unknown
	HelpURI      string   `json:"help_uri,omitempty"` // guideline/docs link
}

// Identity is the comparison key for baseline reconciliation.
// Severity and message are descriptive, not identifying.
type Identity struct {
	RuleID       string `json:"rule_id"`
	ResourcePath string `json:"resource_path"`
}

func (f Finding) Identity() Identity {
	return Identity{RuleID: f.RuleID, ResourcePath: f.ResourcePath}
}

func (id Identity) Less(other Identity) bool {
	if id.RuleID != other.RuleID {
		return id.RuleID < other.RuleID
	}
	return id.ResourcePath < other.ResourcePath
}

// Report is the outcome of one scan run. Immutable once produced.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Scanner     string    `json:"scanner"`
	ArtifactDir string    `json:"artifact_dir"`
	Findings    []Finding `json:"findings"`
}

func (r Report) Identities() map[Identity]struct{} {
	out := make(map[Identity]struct{}, len(r.Findings))
	for _, f := range r.Findings {
		out[f.Identity()] = struct{}{}
	}
	return out
}

// Baseline is the set of finding identities accepted as known. The gate
// never mutates it; evolution is whole-file replacement through the store.
type Baseline struct {
	Accepted []Identity
}

func (b Baseline) Contains(id Identity) bool {
	for _, a := range b.Accepted {
		if a == id {
			return true
		}
	}
	return false
}

func (b Baseline) Identities() map[Identity]struct{} {
	out := make(map[Identity]struct{}, len(b.Accepted))
	for _, a := range b.Accepted {
		out[a] = struct{}{}
	}
	return out
}

// Reconciliation partitions a report against a baseline. Derived every
// run, never persisted.
type Reconciliation struct {
	NewFindings      []Finding  // in report, not in baseline: blocking
	AcceptedFindings []Finding  // in report and in baseline: visibility only
	Resolved         []Identity // in baseline, no longer reported
}

func (r Reconciliation) Passed() bool {
	return len(r.NewFindings) == 0
}
