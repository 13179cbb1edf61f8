package models

// GenerationMetadata is the report written by the generate stage.
type GenerationMetadata struct {
	GenerationTime  string   `json:"generation_time"`
	FilesCreated    []string `json:"files_created"`
	TotalFiles      int      `json:"total_files"`
	PipelineVersion string   `json:"pipeline_version"`
}

// ManifestEntry is one file listed in the upload manifest.
// Uploaded is asserted for every discovered file; nothing is transferred.
type ManifestEntry struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Uploaded  bool   `json:"uploaded"`
}

// UploadManifest is the report written by the upload stage.
type UploadManifest struct {
	UploadTime string          `json:"upload_time"`
	Files      []ManifestEntry `json:"files"`
	Status     string          `json:"status"`
}

// ValidationRecord is the per-file result of the validate stage.
// Valid records carry NumHDU, DataShape and FileSizeMB; invalid ones carry Error.
type ValidationRecord struct {
	File       string  `json:"file"`
	Valid      bool    `json:"valid"`
	NumHDU     int     `json:"num_hdu,omitempty"`
	DataShape  string  `json:"data_shape,omitempty"`
	FileSizeMB float64 `json:"file_size_mb,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// CountValid returns how many records in rs are valid.
func CountValid(rs []ValidationRecord) int {
	n := 0
	for _, r := range rs {
		if r.Valid {
			n++
		}
	}
	return n
}
