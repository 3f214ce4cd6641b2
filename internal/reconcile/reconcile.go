// Package reconcile classifies a fresh findings report against the accepted
// baseline. Pure functions only; persistence and process exit live elsewhere.
package reconcile

import (
	"sort"

	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
)

// Reconcile partitions the report's findings into new (blocking) and
// accepted (known), and lists baseline identities no longer reported as
// resolved. Severity never filters here: every violation not explicitly
// accepted blocks, and suppression happens only by editing the baseline.
func Reconcile(report model.Report, base model.Baseline) model.Reconciliation {
	accepted := base.Identities()
	reported := report.Identities()

	var result model.Reconciliation
	seen := map[model.Identity]struct{}{}
	for _, f := range report.Findings {
		id := f.Identity()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, ok := accepted[id]; ok {
			result.AcceptedFindings = append(result.AcceptedFindings, f)
		} else {
			result.NewFindings = append(result.NewFindings, f)
		}
	}

	for _, id := range base.Accepted {
		if _, ok := reported[id]; !ok {
			result.Resolved = append(result.Resolved, id)
		}
	}

	sortByIdentity(result.NewFindings)
	sortByIdentity(result.AcceptedFindings)
	sort.Slice(result.Resolved, func(i, j int) bool {
		return result.Resolved[i].Less(result.Resolved[j])
	})
	return result
}

func sortByIdentity(fs []model.Finding) {
	sort.Slice(fs, func(i, j int) bool {
		return fs[i].Identity().Less(fs[j].Identity())
	})
}
