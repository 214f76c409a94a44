package run

import (
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"godescribe/domain/core"
	"godescribe/domain/describe"
)

// Manifest describes one describe run: what was read, how it was
// classified, which passes ran and which files were written.
type Manifest struct {
	RunID          core.RunID              `json:"run_id"`
	Source         string                  `json:"source"`
	Rows           int                     `json:"rows"`
	Columns        int                     `json:"columns"`
	Classification describe.Classification `json:"classification"`
	Executed       []ExecutedKeySet        `json:"executed_key_sets"`
	Skipped        []SkippedKeySet         `json:"skipped_key_sets"`
	Files          []string                `json:"files"`
	Timings        Timings                 `json:"timings"`
	Fingerprint    RunFingerprint          `json:"fingerprint"`
	CreatedAt      core.Timestamp          `json:"created_at"`
}

// NewManifest starts a manifest for a freshly loaded source
func NewManifest(source string, inputHash core.Hash, keySets []describe.KeySet, settings Settings) *Manifest {
	byName := make(map[string][]string, len(keySets))
	for _, ks := range keySets {
		byName[ks.Name] = ks.Columns
	}

	return &Manifest{
		RunID:       core.NewRunID(),
		Source:      source,
		Executed:    []ExecutedKeySet{},
		Skipped:     []SkippedKeySet{},
		Files:       []string{},
		Fingerprint: NewRunFingerprint(inputHash, core.ComputeKeySetHash(byName), settings),
		CreatedAt:   core.Now(),
	}
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return errors.New("run_manifest: run_id cannot be empty")
	}
	if m.Source == "" {
		return errors.New("run_manifest: source cannot be empty")
	}
	if len(m.Classification.Numeric)+len(m.Classification.Categorical) != m.Columns {
		return fmt.Errorf("run_manifest: classification covers %d columns, table has %d",
			len(m.Classification.Numeric)+len(m.Classification.Categorical), m.Columns)
	}
	if m.Fingerprint.Fingerprint == "" {
		return errors.New("run_manifest: fingerprint cannot be empty")
	}
	return nil
}

// Report is everything a run produced
type Report struct {
	Manifest  *Manifest
	Overall   *describe.OverallDocument
	Groupings []describe.Grouping
}

// MarshalJSON renders groupings as an object keyed by key set name, in pass order
func (r *Report) MarshalJSON() ([]byte, error) {
	groupings := orderedmap.New[string, *describe.ResultCollection]()
	for _, g := range r.Groupings {
		groupings.Set(g.KeySet.Name, g.Results)
	}

	return json.Marshal(struct {
		Manifest  *Manifest                                                  `json:"manifest"`
		Overall   *describe.OverallDocument                                  `json:"overall"`
		Groupings *orderedmap.OrderedMap[string, *describe.ResultCollection] `json:"groupings"`
	}{r.Manifest, r.Overall, groupings})
}
