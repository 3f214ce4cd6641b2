package adapters

import (
	"encoding/json"
	"strings"

	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
)

// checkov emits one report object per framework (cloudformation, secrets,
// ...) and wraps them in an array when more than one ran.
type checkovJSON struct {
	CheckType string `json:"check_type"`
	Results   struct {
		FailedChecks []checkovCheck `json:"failed_checks"`
	} `json:"results"`
}

type checkovCheck struct {
	CheckID     string `json:"check_id"`
	BcCheckID   string `json:"bc_check_id"`
	CheckName   string `json:"check_name"`
	FilePath    string `json:"file_path"`
	Resource    string `json:"resource"`
	Guideline   string `json:"guideline"`
	Severity    string `json:"severity"` // null unless severity data is available
	CheckResult struct {
		Result string `json:"result"`
	} `json:"check_result"`
	FileLineRange []int `json:"file_line_range"`
}

func ParseCheckovBytes(b []byte) ([]model.Finding, error) {
	var docs []checkovJSON
	if err := json.Unmarshal(b, &docs); err != nil {
		// single-framework runs emit a bare object
		var doc checkovJSON
		if e2 := json.Unmarshal(b, &doc); e2 != nil {
			return nil, err
		}
		docs = []checkovJSON{doc}
	}

	out := make([]model.Finding, 0, 32)
	for _, doc := range docs {
		for _, c := range doc.Results.FailedChecks {
			fp := cleanPath(c.FilePath)
			line := 0
			if len(c.FileLineRange) > 0 {
				line = safeLine(c.FileLineRange[0])
			}

			out = append(out, model.Finding{
				RuleID:       c.CheckID,
				RuleName:     c.CheckName,
				Severity:     checkovSeverity(c.Severity),
				Message:      firstNonEmpty(c.CheckName, c.CheckID),
				ResourcePath: fp + ":" + c.Resource,
				FilePath:     fp,
				StartLine:    line,
				HelpURI:      c.Guideline,
			})
		}
	}
	return out, nil
}

func checkovSeverity(s string) model.Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return model.SevCritical
	case "HIGH":
		return model.SevHigh
	case "MEDIUM":
		return model.SevMedium
	case "LOW":
		return model.SevLow
	default:
		return model.SevInfo
	}
}
