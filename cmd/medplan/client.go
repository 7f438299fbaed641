package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/planner"
)

// clientFile is the JSON layout accepted by assess and batch.
type clientFile struct {
	AsOf         *model.Date             `json:"as_of,omitempty"`
	Jurisdiction string                  `json:"jurisdiction"`
	Profile      model.ClientProfile     `json:"profile"`
	Snapshot     model.FinancialSnapshot `json:"snapshot"`
}

func readClientFile(path string) (*clientFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to read client file: %w", err)
	}

	var cf clientFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, common.Invalid("client file", err.Error()))
	}

	if err := cf.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cf, nil
}

// Validate checks the client data once, before it reaches the planner.
func (cf *clientFile) Validate() error {
	if err := cf.Profile.Validate(); err != nil {
		return err
	}
	return cf.Snapshot.Validate()
}

// request builds a planner request. A non-empty jurisdiction flag replaces the
// file's value. The effective date comes from the flag, then the file, then the
// configured default.
func (cf *clientFile) request(jurisdiction string, asOf, defaultAsOf *time.Time) (planner.Request, error) {
	req := planner.Request{
		Jurisdiction: cf.Jurisdiction,
		Profile:      cf.Profile,
		Snapshot:     cf.Snapshot,
		AsOf:         defaultAsOf,
	}
	if jurisdiction != "" {
		req.Jurisdiction = jurisdiction
	}
	if cf.AsOf != nil {
		req.AsOf = &cf.AsOf.Time
	}
	if asOf != nil {
		req.AsOf = asOf
	}
	if strings.TrimSpace(req.Jurisdiction) == "" {
		return req, common.Invalid("jurisdiction", "is required (set it in the file or pass --jurisdiction)")
	}
	return req, nil
}

// parseAsOf parses an optional --as-of flag value.
func parseAsOf(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d.Time, nil
}
