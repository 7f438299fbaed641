package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleClient = `{
  "jurisdiction": "FL",
  "profile": {"id": "smith-001", "name": "Ada Smith", "age": 82, "marital_status": "single"},
  "snapshot": {
    "assets": {"savings": 48000, "checking": "2500.50", "primary_residence": 210000},
    "income": {"social_security": 1850, "pension": 600},
    "expenses": {"health_insurance_premiums": 174.7}
  }
}`

const marriedClient = `{
  "as_of": "2024-06-01",
  "profile": {
    "id": "jones-002", "age": 79, "marital_status": "married",
    "spouse": {"age": 76, "monthly_income": 1200, "needs_long_term_care": false}
  },
  "snapshot": {
    "assets": {"savings": 180000, "stocks": 40000},
    "income": {"social_security": 2100},
    "expenses": {"mortgage": 1100, "property_tax": 300}
  }
}`

func writeClientFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadClientFile(t *testing.T) {
	cf, err := readClientFile(writeClientFile(t, "smith.json", singleClient))
	require.NoError(t, err)

	assert.Equal(t, "FL", cf.Jurisdiction)
	assert.Equal(t, "smith-001", cf.Profile.ID)
	assert.Equal(t, model.MaritalSingle, cf.Profile.MaritalStatus)
	assert.Equal(t, "50500.5", cf.Snapshot.CountableAssets().String())
	assert.Equal(t, "2450", cf.Snapshot.TotalIncome().String())
	assert.Nil(t, cf.AsOf)
}

func TestReadClientFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "unknown field",
			body:    `{"profile": {"id": "x", "age": 70, "marital_status": "single"}, "snapshot": {}, "extra": 1}`,
			wantErr: common.ErrValidation,
		},
		{
			name:    "bad marital status",
			body:    `{"profile": {"id": "x", "age": 70, "marital_status": "engaged"}, "snapshot": {}}`,
			wantErr: common.ErrValidation,
		},
		{
			name:    "negative asset",
			body:    `{"profile": {"id": "x", "age": 70, "marital_status": "single"}, "snapshot": {"assets": {"savings": -5}}}`,
			wantErr: common.ErrValidation,
		},
		{
			name:    "spouse for single applicant",
			body:    `{"profile": {"id": "x", "age": 70, "marital_status": "single", "spouse": {"age": 70}}, "snapshot": {}}`,
			wantErr: common.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readClientFile(writeClientFile(t, "client.json", tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := readClientFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestClientFile_Request(t *testing.T) {
	cf, err := readClientFile(writeClientFile(t, "jones.json", marriedClient))
	require.NoError(t, err)

	fileDate := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	flagDate := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	configDate := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	// No jurisdiction in the file or on the command line.
	_, err = cf.request("", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	req, err := cf.request("fl", nil, &configDate)
	require.NoError(t, err)
	assert.Equal(t, "fl", req.Jurisdiction)
	require.NotNil(t, req.AsOf)
	assert.Equal(t, fileDate, *req.AsOf)

	req, err = cf.request("fl", &flagDate, &configDate)
	require.NoError(t, err)
	assert.Equal(t, flagDate, *req.AsOf)

	cf.AsOf = nil
	req, err = cf.request("fl", nil, &configDate)
	require.NoError(t, err)
	assert.Equal(t, configDate, *req.AsOf)
}

func TestParseAsOf(t *testing.T) {
	got, err := parseAsOf("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseAsOf("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), *got)

	_, err = parseAsOf("02/28/2025")
	assert.Error(t, err)
}
