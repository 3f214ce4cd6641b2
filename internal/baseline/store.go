package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Real-Life-IaC/ch-pubsub/internal/model"
)

// ErrNotFound distinguishes "no baseline persisted yet" from an empty
// baseline, which is valid and means zero accepted findings.
var ErrNotFound = errors.New("baseline file not found")

const fileVersion = 1

// baselineFile is the version-controlled persisted form. It carries no
// timestamp so re-serializing an unchanged baseline is byte-identical and
// produces no spurious diffs.
type baselineFile struct {
	Version  int              `json:"version"`
	Accepted []model.Identity `json:"accepted"`
}

// Store reads and replaces the baseline at one file path. The path is
// explicit configuration so independent projects never share state.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

func (s *Store) Load() (model.Baseline, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Baseline{}, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return model.Baseline{}, fmt.Errorf("read baseline %s: %w", s.Path, err)
	}

	var doc baselineFile
	if err := json.Unmarshal(b, &doc); err != nil {
		return model.Baseline{}, fmt.Errorf("parse baseline %s: %w", s.Path, err)
	}
	return model.Baseline{Accepted: dedupe(doc.Accepted)}, nil
}

// Replace atomically overwrites the persisted baseline via
// write-to-temp-then-rename. Readers never observe a torn file.
func (s *Store) Replace(b model.Baseline) error {
	doc := baselineFile{
		Version:  fileVersion,
		Accepted: dedupe(b.Accepted),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal baseline: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create baseline dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".gate-baseline-*")
	if err != nil {
		return fmt.Errorf("create temp baseline: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp baseline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp baseline: %w", err)
	}
	// CreateTemp yields 0600; the baseline is a version-controlled artifact
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp baseline: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace baseline %s: %w", s.Path, err)
	}
	return nil
}

// FromReport derives a baseline accepting every identity in the report.
func FromReport(r model.Report) model.Baseline {
	ids := make([]model.Identity, 0, len(r.Findings))
	for _, f := range r.Findings {
		ids = append(ids, f.Identity())
	}
	return model.Baseline{Accepted: dedupe(ids)}
}

// dedupe sorts by rule id then resource path and drops duplicates, keeping
// the invariant that a baseline holds each identity once and serializes
// deterministically.
func dedupe(ids []model.Identity) []model.Identity {
	sorted := append([]model.Identity(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	out := sorted[:0]
	var prev model.Identity
	for i, id := range sorted {
		if i > 0 && id == prev {
			continue
		}
		out = append(out, id)
		prev = id
	}
	return out
}
