package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
)

const trivySample = `{
  "Results": [
    {
      "Target": "PubSub-sandbox.template.json",
      "Misconfigurations": [
        {
          "ID": "AVD-AWS-0086",
          "Title": "S3 bucket blocks public ACLs",
          "Description": "Public ACLs should be blocked.",
          "Severity": "HIGH",
          "PrimaryURL": "https://avd.aquasec.com/misconfig/avd-aws-0086",
          "CauseMetadata": {
            "Resource": "StorageBucket",
            "StartLine": 14
          }
        },
        {
          "ID": "AVD-AWS-0132",
          "Title": "Encryption customer key",
          "Description": "",
          "Severity": "UNKNOWN",
          "References": ["https://avd.aquasec.com/misconfig/avd-aws-0132"],
          "CauseMetadata": {}
        }
      ]
    }
  ]
}`

func TestParseTrivyBytes(t *testing.T) {
	findings, err := ParseTrivyBytes([]byte(trivySample))
	require.NoError(t, err)
	require.Len(t, findings, 2)

	first := findings[0]
	assert.Equal(t, "AVD-AWS-0086", first.RuleID)
	assert.Equal(t, model.SevHigh, first.Severity)
	assert.Equal(t, "PubSub-sandbox.template.json:StorageBucket", first.ResourcePath)
	assert.Equal(t, 14, first.StartLine)
	assert.Equal(t, "https://avd.aquasec.com/misconfig/avd-aws-0086", first.HelpURI)

	second := findings[1]
	// no resource address: the target alone identifies the finding
	assert.Equal(t, "PubSub-sandbox.template.json", second.ResourcePath)
	assert.Equal(t, model.SevInfo, second.Severity)
	// falls back to references when PrimaryURL is absent
	assert.Equal(t, "https://avd.aquasec.com/misconfig/avd-aws-0132", second.HelpURI)
	// empty description falls back to title
	assert.Equal(t, "Encryption customer key", second.Message)
}

func TestParseTrivyBytes_Garbage(t *testing.T) {
	_, err := ParseTrivyBytes([]byte("no json here"))
	assert.Error(t, err)
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/scan/t.json", "scan/t.json"},
		{"../../t.json", "t.json"},
		{"./t.json", "t.json"},
		{"  t.json ", "t.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanPath(tt.in), "path %q", tt.in)
	}
}
