// Package report persists the JSON documents each pipeline stage emits.
// Every write replaces the previous document wholesale.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nvandessel/fits-pipeline/internal/constants"
	"github.com/nvandessel/fits-pipeline/internal/models"
)

// WriteJSON marshals v with two-space indentation and writes it to path.
// The file is written atomically via a temp file and rename, so a killed
// process leaves either the old document or the new one.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing report temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming report file: %w", err)
	}
	return nil
}

// ReadJSON decodes the document at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing report %s: %w", filepath.Base(path), err)
	}
	return nil
}

// GenerationPath returns the generation metadata location inside reportsDir.
func GenerationPath(reportsDir string) string {
	return filepath.Join(reportsDir, constants.GenerationReportFile)
}

// ManifestPath returns the upload manifest location inside reportsDir.
func ManifestPath(reportsDir string) string {
	return filepath.Join(reportsDir, constants.UploadManifestFile)
}

// ValidationPath returns the validation report location inside reportsDir.
func ValidationPath(reportsDir string) string {
	return filepath.Join(reportsDir, constants.ValidationReportFile)
}

// WriteGeneration writes the generate stage's report.
func WriteGeneration(reportsDir string, m models.GenerationMetadata) error {
	if m.FilesCreated == nil {
		m.FilesCreated = []string{}
	}
	return WriteJSON(GenerationPath(reportsDir), m)
}

// WriteManifest writes the upload stage's manifest.
func WriteManifest(reportsDir string, m models.UploadManifest) error {
	if m.Files == nil {
		m.Files = []models.ManifestEntry{}
	}
	return WriteJSON(ManifestPath(reportsDir), m)
}

// WriteValidation writes the validate stage's report.
func WriteValidation(reportsDir string, records []models.ValidationRecord) error {
	if records == nil {
		records = []models.ValidationRecord{}
	}
	return WriteJSON(ValidationPath(reportsDir), records)
}

// ReadValidation loads a validation report. A missing report returns
// os.ErrNotExist wrapped in the error chain.
func ReadValidation(reportsDir string) ([]models.ValidationRecord, error) {
	var records []models.ValidationRecord
	if err := ReadJSON(ValidationPath(reportsDir), &records); err != nil {
		return nil, err
	}
	return records, nil
}
