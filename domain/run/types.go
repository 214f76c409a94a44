package run

import (
	"crypto/sha256"
	"fmt"

	"godescribe/domain/core"
)

// Settings are the analysis options that influence a run's output
type Settings struct {
	SampleRows     int    `json:"sample_rows"`
	SampleStrategy string `json:"sample_strategy"`
	NumberFormat   string `json:"number_format"`
	CodeVersion    string `json:"code_version"`
}

// RunFingerprint identifies the deterministic output of a run: the same
// input bytes, key sets and settings always produce the same documents.
type RunFingerprint struct {
	InputHash   core.Hash `json:"input_hash,omitempty"`
	KeySetHash  core.Hash `json:"key_set_hash"`
	Settings    Settings  `json:"settings"`
	Fingerprint core.Hash `json:"fingerprint"` // Hash of all above
}

// NewRunFingerprint creates a fingerprint from determinism parameters
func NewRunFingerprint(inputHash, keySetHash core.Hash, settings Settings) RunFingerprint {
	return RunFingerprint{
		InputHash:   inputHash,
		KeySetHash:  keySetHash,
		Settings:    settings,
		Fingerprint: computeRunFingerprint(inputHash, keySetHash, settings),
	}
}

// computeRunFingerprint generates deterministic hash from all determinism parameters
func computeRunFingerprint(inputHash, keySetHash core.Hash, s Settings) core.Hash {
	data := fmt.Sprintf("input:%s|key_sets:%s|sample:%d:%s|numbers:%s|code:%s",
		inputHash, keySetHash, s.SampleRows, s.SampleStrategy, s.NumberFormat, s.CodeVersion)

	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}

// Timings records how long each phase of a run took, in milliseconds
type Timings struct {
	LoadMS      int64 `json:"load_ms"`
	ClassifyMS  int64 `json:"classify_ms"`
	AggregateMS int64 `json:"aggregate_ms"`
	WriteMS     int64 `json:"write_ms"`
}

// ExecutedKeySet is a grouping pass that ran
type ExecutedKeySet struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Groups  int      `json:"groups"`
}

// SkippedKeySet is a grouping pass that did not run because a key column is missing
type SkippedKeySet struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Reason  string   `json:"reason"`
}
