package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
)

func finding(rule, resource string, sev model.Severity) model.Finding {
	return model.Finding{
		RuleID:       rule,
		Severity:     sev,
		Message:      "m",
		ResourcePath: resource,
	}
}

func identities(fs []model.Finding) []model.Identity {
	out := make([]model.Identity, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Identity())
	}
	return out
}

func TestReconcile_PartitionsAreDisjointAndCoverReport(t *testing.T) {
	report := model.Report{Findings: []model.Finding{
		finding("S3-001", "bucket/main", model.SevHigh),
		finding("IAM-002", "role/admin", model.SevCritical),
		finding("LOG-003", "loggroup/app", model.SevLow),
	}}
	base := model.Baseline{Accepted: []model.Identity{
		{RuleID: "S3-001", ResourcePath: "bucket/main"},
		{RuleID: "KMS-009", ResourcePath: "key/main"},
	}}

	result := Reconcile(report, base)

	reported := report.Identities()
	for _, id := range identities(result.NewFindings) {
		assert.Contains(t, reported, id)
		assert.False(t, base.Contains(id), "new finding %v must not be in baseline", id)
	}
	for _, id := range identities(result.AcceptedFindings) {
		assert.Contains(t, reported, id)
		assert.True(t, base.Contains(id))
	}

	// new ∪ accepted covers every reported identity exactly once
	assert.Len(t, result.NewFindings, 2)
	assert.Len(t, result.AcceptedFindings, 1)

	// resolved = baseline identities no longer reported
	require.Len(t, result.Resolved, 1)
	assert.Equal(t, model.Identity{RuleID: "KMS-009", ResourcePath: "key/main"}, result.Resolved[0])
}

func TestReconcile_KnownAndNewFindingsScenario(t *testing.T) {
	report := model.Report{Findings: []model.Finding{
		finding("S3-001", "bucket/main", model.SevHigh),
		finding("IAM-002", "role/admin", model.SevMedium),
	}}
	base := model.Baseline{Accepted: []model.Identity{
		{RuleID: "S3-001", ResourcePath: "bucket/main"},
	}}

	result := Reconcile(report, base)

	require.Len(t, result.AcceptedFindings, 1)
	assert.Equal(t, "S3-001", result.AcceptedFindings[0].RuleID)
	require.Len(t, result.NewFindings, 1)
	assert.Equal(t, "IAM-002", result.NewFindings[0].RuleID)
	assert.Empty(t, result.Resolved)
	assert.False(t, result.Passed())
}

func TestReconcile_EmptyReportEmptyBaseline(t *testing.T) {
	result := Reconcile(model.Report{}, model.Baseline{})

	assert.Empty(t, result.NewFindings)
	assert.Empty(t, result.AcceptedFindings)
	assert.Empty(t, result.Resolved)
	assert.True(t, result.Passed())
}

func TestReconcile_SeverityNeverFilters(t *testing.T) {
	// one unaccepted INFO finding blocks just like a CRITICAL one
	for _, sev := range []model.Severity{
		model.SevInfo, model.SevLow, model.SevMedium, model.SevHigh, model.SevCritical,
	} {
		t.Run(string(sev), func(t *testing.T) {
			report := model.Report{Findings: []model.Finding{
				finding("R1", "res/a", sev),
			}}
			result := Reconcile(report, model.Baseline{})
			assert.False(t, result.Passed())
		})
	}
}

func TestReconcile_IsPureAndIdempotent(t *testing.T) {
	report := model.Report{Findings: []model.Finding{
		finding("B-2", "res/b", model.SevLow),
		finding("A-1", "res/a", model.SevHigh),
	}}
	base := model.Baseline{Accepted: []model.Identity{
		{RuleID: "A-1", ResourcePath: "res/a"},
		{RuleID: "Z-9", ResourcePath: "res/z"},
	}}

	first := Reconcile(report, base)
	second := Reconcile(report, base)

	assert.Equal(t, first, second)
	// inputs untouched
	assert.Equal(t, "B-2", report.Findings[0].RuleID)
	assert.Len(t, base.Accepted, 2)
}

func TestReconcile_DuplicateReportIdentitiesCountOnce(t *testing.T) {
	report := model.Report{Findings: []model.Finding{
		finding("R1", "res/a", model.SevHigh),
		finding("R1", "res/a", model.SevHigh),
	}}

	result := Reconcile(report, model.Baseline{})
	assert.Len(t, result.NewFindings, 1)
}

func TestReconcile_OutputOrderIsDeterministic(t *testing.T) {
	report := model.Report{Findings: []model.Finding{
		finding("Z-1", "res/z", model.SevLow),
		finding("A-1", "res/z", model.SevLow),
		finding("A-1", "res/a", model.SevLow),
	}}

	result := Reconcile(report, model.Baseline{})

	require.Len(t, result.NewFindings, 3)
	assert.Equal(t, model.Identity{RuleID: "A-1", ResourcePath: "res/a"}, result.NewFindings[0].Identity())
	assert.Equal(t, model.Identity{RuleID: "A-1", ResourcePath: "res/z"}, result.NewFindings[1].Identity())
	assert.Equal(t, model.Identity{RuleID: "Z-1", ResourcePath: "res/z"}, result.NewFindings[2].Identity())
}
