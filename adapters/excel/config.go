package excel

// ReaderConfig holds configuration for a CSV or Excel data source
type ReaderConfig struct {
	FilePath string `json:"file_path"`
	// FileType is "csv", "xlsx" or "auto" (from the file extension).
	FileType  string `json:"file_type"`
	Sheet     string `json:"sheet"` // empty means the first sheet
	Delimiter rune   `json:"delimiter"`
}

// DefaultReaderConfig returns sensible defaults for path
func DefaultReaderConfig(path string) ReaderConfig {
	return ReaderConfig{
		FilePath:  path,
		FileType:  "auto",
		Delimiter: ',',
	}
}
