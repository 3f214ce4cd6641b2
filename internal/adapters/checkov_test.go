package adapters

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
)

const checkovSingle = `{
  "check_type": "cloudformation",
  "results": {
    "failed_checks": [
      {
        "check_id": "CKV_AWS_18",
        "bc_check_id": "BC_AWS_S3_13",
        "check_name": "Ensure the S3 bucket has access logging enabled",
        "check_result": {"result": "FAILED"},
        "file_path": "/PubSub-sandbox.template.json",
        "file_line_range": [12, 48],
        "resource": "AWS::S3::Bucket.StorageBucket",
        "guideline": "https://docs.example.com/ckv-aws-18",
        "severity": null
      },
      {
        "check_id": "CKV_AWS_111",
        "check_name": "Ensure IAM policies does not allow write access without constraints",
        "check_result": {"result": "FAILED"},
        "file_path": "./PubSub-sandbox.template.json",
        "file_line_range": [90, 120],
        "resource": "AWS::IAM::Role.DeliveryRole",
        "severity": "HIGH"
      }
    ]
  },
  "summary": {"passed": 40, "failed": 2}
}`

const checkovMulti = `[
  {
    "check_type": "cloudformation",
    "results": {
      "failed_checks": [
        {
          "check_id": "CKV_AWS_18",
          "check_name": "Access logging",
          "check_result": {"result": "FAILED"},
          "file_path": "/t.json",
          "file_line_range": [1, 2],
          "resource": "AWS::S3::Bucket.B"
        }
      ]
    }
  },
  {
    "check_type": "secrets",
    "results": {
      "failed_checks": []
    }
  }
]`

func TestParseCheckovBytes_SingleFrameworkObject(t *testing.T) {
	findings, err := ParseCheckovBytes([]byte(checkovSingle))
	require.NoError(t, err)
	require.Len(t, findings, 2)

	first := findings[0]
	assert.Equal(t, "CKV_AWS_18", first.RuleID)
	assert.Equal(t, "PubSub-sandbox.template.json", first.FilePath)
	assert.Equal(t, "PubSub-sandbox.template.json:AWS::S3::Bucket.StorageBucket", first.ResourcePath)
	assert.Equal(t, 12, first.StartLine)
	assert.Equal(t, "https://docs.example.com/ckv-aws-18", first.HelpURI)
	// null severity normalizes to the lowest bucket
	assert.Equal(t, model.SevInfo, first.Severity)

	second := findings[1]
	assert.Equal(t, model.SevHigh, second.Severity)
	assert.Equal(t, "PubSub-sandbox.template.json:AWS::IAM::Role.DeliveryRole", second.ResourcePath)
}

func TestParseCheckovBytes_MultiFrameworkArray(t *testing.T) {
	findings, err := ParseCheckovBytes([]byte(checkovMulti))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "t.json:AWS::S3::Bucket.B", findings[0].ResourcePath)
}

func TestParseCheckovBytes_IdentityStableAcrossScanLocations(t *testing.T) {
	// the same check reported with path-prefix noise maps to one identity
	template := `{"results": {"failed_checks": [{"check_id": "CKV_AWS_18", "check_result": {"result": "FAILED"}, "file_path": %q, "resource": "AWS::S3::Bucket.B"}]}}`

	var ids []model.Identity
	for _, p := range []string{"/t.json", "./t.json", "../t.json", "t.json"} {
		findings, err := ParseCheckovBytes([]byte(fmt.Sprintf(template, p)))
		require.NoError(t, err)
		require.Len(t, findings, 1)
		ids = append(ids, findings[0].Identity())
	}

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
}

func TestParseCheckovBytes_Garbage(t *testing.T) {
	_, err := ParseCheckovBytes([]byte("checkov blew up"))
	assert.Error(t, err)
}

func TestCheckovSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want model.Severity
	}{
		{"CRITICAL", model.SevCritical},
		{"high", model.SevHigh},
		{" MEDIUM ", model.SevMedium},
		{"LOW", model.SevLow},
		{"", model.SevInfo},
		{"whatever", model.SevInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, checkovSeverity(tt.in), "severity %q", tt.in)
	}
}
