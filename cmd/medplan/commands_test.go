package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempConfig points the commands at a fresh database and resets viper afterwards.
func useTempConfig(t *testing.T, format string) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dbPath := filepath.Join(t.TempDir(), "medplan.db")
	viper.Set("database.path", dbPath)
	viper.Set("report.format", format)
	viper.Set("planner.workers", 2)
	return dbPath
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAssessCmd_JSON(t *testing.T) {
	useTempConfig(t, "json")
	path := writeClientFile(t, "smith.json", singleClient)

	out, err := execute(t, assessCmd(), "--client", path)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "smith-001", result["client_id"])
	assert.Equal(t, "florida", result["jurisdiction"])
	assert.Equal(t, "2025-01-01", result["effective_date"])
	assert.Equal(t, "success", result["status"])
}

func TestAssessCmd_RequiresClient(t *testing.T) {
	useTempConfig(t, "text")

	_, err := execute(t, assessCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client")
}

func TestAssessCmd_UnknownJurisdiction(t *testing.T) {
	useTempConfig(t, "text")
	path := writeClientFile(t, "smith.json", singleClient)

	out, err := execute(t, assessCmd(), "--client", path, "--jurisdiction", "atlantis")
	require.Error(t, err)
	assert.Contains(t, out, "Planning failed")
	assert.Contains(t, out, "atlantis")
}

func TestAssessCmd_SaveAndListPlans(t *testing.T) {
	useTempConfig(t, "text")
	path := writeClientFile(t, "jones.json", marriedClient)

	out, err := execute(t, assessCmd(), "--client", path, "--jurisdiction", "FL", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Community Spouse Allowances:")
	assert.Contains(t, out, "Plan saved as")
	assert.Contains(t, out, "rules effective 2024-01-01")

	out, err = execute(t, plansCmd(), "list", "--client", "jones-002")
	require.NoError(t, err)
	assert.Contains(t, out, "jones-002")
	assert.Contains(t, out, "florida")

	out, err = execute(t, plansCmd(), "list", "--client", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved plans")

	_, err = execute(t, plansCmd(), "show", "missing-plan")
	assert.Error(t, err)
}

func TestBatchCmd(t *testing.T) {
	useTempConfig(t, "text")
	dir := t.TempDir()

	good := filepath.Join(dir, "smith.json")
	require.NoError(t, os.WriteFile(good, []byte(singleClient), 0o600))
	married := filepath.Join(dir, "jones.json")
	require.NoError(t, os.WriteFile(married, []byte(marriedClient), 0o600))
	bad := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"profile": `), 0o600))

	out, err := execute(t, batchCmd(), "--jurisdiction", "fl", "--save", good, married, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 plans failed")
	assert.Contains(t, out, "smith.json: smith-001")
	assert.Contains(t, out, "jones.json: jones-002")
	assert.Contains(t, out, "broken.json")

	out, err = execute(t, plansCmd(), "list", "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "smith-001")
	assert.Contains(t, out, "jones-002")
}

func TestRulesCmd_ListAndShow(t *testing.T) {
	useTempConfig(t, "text")

	out, err := execute(t, rulesCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "florida")
	assert.Contains(t, out, "newyork")

	out, err = execute(t, rulesCmd(), "show", "FL", "--as-of", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Effective 2024-01-01")
	assert.Contains(t, out, "9703.00")

	_, err = execute(t, rulesCmd(), "show", "atlantis")
	assert.Error(t, err)
}

func TestRulesCmd_ImportIntoDatabase(t *testing.T) {
	useTempConfig(t, "text")

	data := `{
  "version": "test",
  "jurisdictions": [
    {"key": "Ohio", "display_name": "Ohio", "effective_date": "2025-01-01",
     "resource_limit_single": 2000, "resource_limit_married": 3000,
     "income_limit_single": 2901, "income_limit_married": 5802,
     "csra_min": 31584, "csra_max": 157920, "mmna_min": 2643.75, "mmna_max": 3948,
     "excess_shelter_standard": 793.13, "home_equity_limit": 730000,
     "personal_needs_allowance": 50, "penalty_divisor": 7453, "lookback_months": 60,
     "income_cap_state": true, "estate_recovery": {"applies": true}}
  ]
}`
	path := writeClientFile(t, "ohio.json", data)

	out, err := execute(t, rulesCmd(), "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 rule sets for 1 jurisdictions")

	viper.Set("rules.source", "database")
	out, err = execute(t, rulesCmd(), "show", "OH")
	require.NoError(t, err)
	assert.Contains(t, out, "Ohio (ohio)")
	assert.Contains(t, out, "7453.00")

	out, err = execute(t, rulesCmd(), "delete", "Ohio", "2025-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted ohio")

	_, err = execute(t, rulesCmd(), "delete", "ohio", "2025-01-01")
	assert.Error(t, err)
}

func TestMigrateCmd(t *testing.T) {
	dbPath := useTempConfig(t, "text")

	_, err := execute(t, migrateCmd())
	require.NoError(t, err)
	assert.FileExists(t, dbPath)

	_, err = execute(t, migrateCmd(), "--status")
	require.NoError(t, err)
}
