package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	predictionhandler "churn-prediction/backend/internal/prediction/handler"
)

var (
	artifact = filepath.Join("..", "..", "ml", "artifacts", "churn_pipeline.json")
	sample   = filepath.Join("..", "..", "ml", "data", "sample_customers.csv")
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--model", artifact}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestScore_JSON(t *testing.T) {
	out, err := execute(t, "score", sample)
	require.NoError(t, err)

	var resp predictionhandler.BatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 16, resp.TotalProcessed)
	assert.Len(t, resp.FullResults, 16)
	assert.Equal(t, "7590-VHVEG", resp.FullResults[0].CustomerID)
	for i := 1; i < len(resp.PreviewRows); i++ {
		assert.GreaterOrEqual(t, resp.PreviewRows[i-1].ChurnProbability, resp.PreviewRows[i].ChurnProbability)
	}
	high := 0
	for _, r := range resp.FullResults {
		if r.Risk == "HIGH" {
			high++
		}
	}
	assert.Equal(t, high, resp.HighRiskCount)
}

func TestScore_Text(t *testing.T) {
	out, err := execute(t, "--format", "text", "score", "--top", "3", sample)
	require.NoError(t, err)
	assert.Contains(t, out, "total processed:")
	assert.Contains(t, out, "CUSTOMER")
}

func TestScore_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("customerID,tenure\nA,1\n"), 0o600))
	_, err := execute(t, "score", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing columns: gender")
}

func TestModelInspect(t *testing.T) {
	out, err := execute(t, "model", "inspect")
	require.NoError(t, err)
	var info ModelInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "logistic", info.Kind)
	assert.Equal(t, 45, info.Width)
	assert.Len(t, info.Columns, 45)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "model", "inspect")
	assert.ErrorContains(t, err, "invalid format")
}
