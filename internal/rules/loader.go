package rules

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/medplan/internal/model"
)

//go:embed data/medicaid_rules_2025.json
var defaultRules []byte

// File is the on-disk layout of a rule data file.
type File struct {
	Version       string                      `json:"version"`
	Source        string                      `json:"source,omitempty"`
	Jurisdictions []model.JurisdictionRuleSet `json:"jurisdictions"`
}

// Source supplies rule sets from an external store.
type Source interface {
	ListRuleSets(ctx context.Context) ([]model.JurisdictionRuleSet, error)
}

// Parse decodes a rule data file.
func Parse(r io.Reader) ([]model.JurisdictionRuleSet, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode rule data: %w", err)
	}
	if len(f.Jurisdictions) == 0 {
		return nil, fmt.Errorf("rule data version %q contains no jurisdictions", f.Version)
	}
	return f.Jurisdictions, nil
}

// LoadFile reads rule sets from a JSON file.
func LoadFile(path string) ([]model.JurisdictionRuleSet, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sets, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sets, nil
}

// LoadDefault returns the rule sets compiled into the binary.
func LoadDefault() ([]model.JurisdictionRuleSet, error) {
	return Parse(bytes.NewReader(defaultRules))
}

// Open builds a repository from a rule file, or from the built-in data when path is empty.
func Open(path string) (*Repository, error) {
	var (
		sets []model.JurisdictionRuleSet
		err  error
	)
	if path == "" {
		sets, err = LoadDefault()
	} else {
		sets, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}

	repo, err := NewRepository(sets)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded rule sets", "count", len(sets), "jurisdictions", len(repo.Jurisdictions()))
	return repo, nil
}

// OpenSource builds a repository from an external rule store.
func OpenSource(ctx context.Context, src Source) (*Repository, error) {
	sets, err := src.ListRuleSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule sets: %w", err)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("rule store is empty; import rules first")
	}
	return NewRepository(sets)
}

// Reload re-reads rules from a store and swaps them into an existing repository.
func Reload(ctx context.Context, repo *Repository, src Source) error {
	sets, err := src.ListRuleSets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rule sets: %w", err)
	}
	return repo.Replace(sets)
}
