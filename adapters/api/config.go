package api

import "time"

// RecordsConfig describes a JSON records source: a local file or an http(s) URL
type RecordsConfig struct {
	Location string `json:"location"`
	// DataPath is a gjson path to the records inside the document; empty means the root.
	DataPath string            `json:"data_path"`
	Headers  map[string]string `json:"headers"`
	Timeout  time.Duration     `json:"timeout"`
}

// DefaultRecordsConfig returns sensible defaults for location
func DefaultRecordsConfig(location string) RecordsConfig {
	return RecordsConfig{
		Location: location,
		Timeout:  30 * time.Second,
	}
}
