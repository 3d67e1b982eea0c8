// Package export renders report rows to CSV and exercises to ZIP bundles.
//
// Both transforms are deterministic: identical input produces identical
// bytes. CSV uses the semicolon dialect with a UTF-8 BOM so spreadsheet
// tools open Cyrillic exercise names correctly; ZIP members carry a fixed
// modification time derived from the injected clock.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gymlog/internal/models"
	"gymlog/internal/reports"
)

// Content types of the produced artifacts.
const (
	ContentTypeCSV = "text/csv; charset=utf-8"
	ContentTypeZIP = "application/zip"
)

// utf8BOM makes Excel detect the encoding; the original report consumers
// expect it.
const utf8BOM = "\uFEFF"

const dateLayout = "2006-01-02"

// AttachmentFile is one file pulled from the file store for bundling.
type AttachmentFile struct {
	Filename string
	Content  []byte
}

// FileStore lists the files attached to an exercise.
type FileStore interface {
	ListAttachments(exerciseID string) ([]AttachmentFile, error)
}

// ExportService renders reports and exercise bundles. The clock stamps
// bundle manifests and archive members; tests inject a fixed one.
type ExportService struct {
	files FileStore
	clock func() time.Time
}

// NewExportService creates a new ExportService.
func NewExportService(files FileStore) *ExportService {
	return &ExportService{
		files: files,
		clock: time.Now,
	}
}

// WithClock overrides the time source, mainly for deterministic tests.
func (s *ExportService) WithClock(clock func() time.Time) *ExportService {
	s.clock = clock
	return s
}

// VolumeCSV renders the volume report.
//
// Columns: Date;Workout Type;Sets;Reps;Weight (kg);Calories;Duration (min)
func (s *ExportService) VolumeCSV(rows []reports.VolumeRow) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write([]string{"Date", "Workout Type", "Sets", "Reps", "Weight (kg)", "Calories", "Duration (min)"}); err != nil {
		return nil, fmt.Errorf("failed to write volume CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Date.Format(dateLayout),
			row.WorkoutType,
			strconv.Itoa(row.SetsTotal),
			strconv.Itoa(row.RepsTotal),
			formatDecimal(row.WeightTotal),
			formatDecimal(row.CaloriesTotal),
			strconv.Itoa(row.DurationMinutes),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write volume CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush volume CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// RecordsCSV renders the personal records report.
//
// Columns: Exercise;Max Weight (kg);Achieved On;Sets;Reps;Max Volume (kg);First Workout;Last Workout
func (s *ExportService) RecordsCSV(rows []reports.RecordRow) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write([]string{"Exercise", "Max Weight (kg)", "Achieved On", "Sets", "Reps", "Max Volume (kg)", "First Workout", "Last Workout"}); err != nil {
		return nil, fmt.Errorf("failed to write records CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.ExerciseName,
			formatDecimal(row.MaxWeight),
			row.AchievedOn.Format(dateLayout),
			strconv.Itoa(row.Sets),
			strconv.Itoa(row.Reps),
			formatDecimal(row.MaxVolume),
			row.FirstWorkout.Format(dateLayout),
			row.LastWorkout.Format(dateLayout),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write records CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush records CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// exerciseManifest is the structured manifest written to exercise.json.
type exerciseManifest struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	MuscleGroup    string  `json:"muscle_group"`
	Equipment      string  `json:"equipment"`
	Difficulty     string  `json:"difficulty"`
	CaloriesPerSet float64 `json:"calories_per_set"`
	IsPublic       bool    `json:"is_public"`
	OwnerID        *string `json:"owner_id"`
	ExportedAt     string  `json:"exported_at"`
}

// ExerciseBundle builds a ZIP archive with an exercise.json manifest and
// the exercise's attachments under attachments/. An index prefix keeps
// member paths collision-free even for repeated filenames. Zero
// attachments is valid: the archive then contains the manifest alone.
func (s *ExportService) ExerciseBundle(exercise *models.Exercise) ([]byte, error) {
	attachments, err := s.files.ListAttachments(exercise.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments for exercise %s: %w", exercise.ID, err)
	}

	now := s.clock().UTC()
	manifest := exerciseManifest{
		ID:             exercise.ID,
		Name:           exercise.Name,
		Description:    exercise.Description,
		MuscleGroup:    exercise.MuscleGroup,
		Equipment:      exercise.Equipment,
		Difficulty:     exercise.Difficulty,
		CaloriesPerSet: exercise.CaloriesPerSet,
		IsPublic:       exercise.IsPublic,
		OwnerID:        exercise.OwnerID,
		ExportedAt:     now.Format("2006-01-02 15:04:05"),
	}
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal exercise manifest: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeZipMember(zw, "exercise.json", now, manifestJSON); err != nil {
		return nil, err
	}
	for i, att := range attachments {
		path := fmt.Sprintf("attachments/%d_%s", i+1, att.Filename)
		if err := writeZipMember(zw, path, now, att.Content); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize exercise bundle: %w", err)
	}
	return buf.Bytes(), nil
}

func writeZipMember(zw *zip.Writer, name string, modified time.Time, content []byte) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create archive member %s: %w", name, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("failed to write archive member %s: %w", name, err)
	}
	return nil
}

// formatDecimal renders weights and calories with a fixed 2-place
// precision, applied only at presentation.
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
