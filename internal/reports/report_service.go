package reports

import (
	"fmt"
	"time"
)

// VolumeFilter bounds a volume report. Nil bounds are unbounded; bounds
// are inclusive.
type VolumeFilter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	ExerciseID *string
}

// ReportService produces volume and records reports scoped to a single
// owner. Cross-user aggregation never happens implicitly: the owner ID is
// an explicit parameter on every call, and the service keeps no state
// between calls.
type ReportService struct {
	entries EntryLister
}

// NewReportService creates a new ReportService.
func NewReportService(entries EntryLister) *ReportService {
	return &ReportService{entries: entries}
}

// Volume computes the volume report for the owner. An inverted date range
// is a validation error raised before any rows are read; a filter naming
// an unknown exercise simply matches nothing and yields zero rows.
func (s *ReportService) Volume(ownerID string, filter VolumeFilter) ([]VolumeRow, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, &ValidationError{Field: "date_range", Reason: "date_from is after date_to"}
	}

	entries, err := s.entries.ListEntries(ownerID, filter.DateFrom, filter.DateTo, filter.ExerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for volume report: %w", err)
	}
	return ComputeVolume(entries), nil
}

// Records computes the personal records report for the owner, optionally
// narrowed to one exercise.
func (s *ReportService) Records(ownerID string, exerciseID *string) ([]RecordRow, error) {
	entries, err := s.entries.ListEntries(ownerID, nil, nil, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for records report: %w", err)
	}
	return ComputeRecords(entries), nil
}
