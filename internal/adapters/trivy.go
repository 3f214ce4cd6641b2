package adapters

import (
	"encoding/json"
	"strings"

	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
)

type trivyJSON struct {
	Results []struct {
		Target            string `json:"Target"`
		Misconfigurations []struct {
			ID            string   `json:"ID"`
			Title         string   `json:"Title"`
			Description   string   `json:"Description"`
			Severity      string   `json:"Severity"`
			PrimaryURL    string   `json:"PrimaryURL"`
			References    []string `json:"References"`
			CauseMetadata struct {
				Resource  string `json:"Resource"`
				StartLine int    `json:"StartLine"`
			} `json:"CauseMetadata"`
		} `json:"Misconfigurations"`
	} `json:"Results"`
}

func ParseTrivyBytes(b []byte) ([]model.Finding, error) {
	var doc trivyJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	var out []model.Finding
	for _, r := range doc.Results {
		target := cleanPath(r.Target)
		for _, m := range r.Misconfigurations {
			help := m.PrimaryURL
			if help == "" && len(m.References) > 0 {
				help = m.References[0]
			}

			resourcePath := target
			if res := strings.TrimSpace(m.CauseMetadata.Resource); res != "" {
				resourcePath = target + ":" + res
			}

			out = append(out, model.Finding{
				RuleID:       m.ID,
				RuleName:     m.Title,
				Severity:     trivySeverity(m.Severity),
				Message:      firstNonEmpty(m.Description, m.Title),
				ResourcePath: resourcePath,
				FilePath:     target,
				StartLine:    safeLine(m.CauseMetadata.StartLine),
				HelpURI:      help,
			})
		}
	}
	return out, nil
}

func trivySeverity(s string) model.Severity {
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
