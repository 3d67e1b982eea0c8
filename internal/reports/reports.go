// Package reports computes volume and personal-record aggregates over a
// user's workout entries.
//
// The aggregation itself is a pure function over already-materialized
// rows; storage stays behind the EntryLister interface so the math is
// testable without a database and independent of any query language.
package reports

import (
	"fmt"
	"time"
)

// Entry is one workout entry flattened with the owning workout's fields,
// the shape EntryLister hands to the aggregation functions. Rows arrive
// ordered by workout date ascending, ties in creation order.
type Entry struct {
	WorkoutID       string
	WorkoutDate     time.Time
	WorkoutType     string
	DurationMinutes int
	ExerciseID      string
	ExerciseName    string
	Sets            int
	Reps            int
	Weight          *float64 // nil for unweighted work
	Calories        float64
	OrderInWorkout  int
	CreatedAt       time.Time
}

// EntryLister is the read side of the resource store the report service
// needs. dateFrom/dateTo are inclusive; nil means unbounded. A nil
// exerciseID means no exercise filter.
type EntryLister interface {
	ListEntries(ownerID string, dateFrom, dateTo *time.Time, exerciseID *string) ([]Entry, error)
}

// VolumeRow is one per-workout row of the volume report.
type VolumeRow struct {
	WorkoutID       string    `json:"workout_id"`
	Date            time.Time `json:"date"`
	WorkoutType     string    `json:"workout_type"`
	SetsTotal       int       `json:"sets_total"`
	RepsTotal       int       `json:"reps_total"`
	WeightTotal     float64   `json:"weight_total"`
	CaloriesTotal   float64   `json:"calories_total"`
	DurationMinutes int       `json:"duration_minutes"`
}

// RecordRow is one per-exercise row of the personal records report.
type RecordRow struct {
	ExerciseID   string    `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	MaxWeight    float64   `json:"max_weight"`
	AchievedOn   time.Time `json:"achieved_on"` // earliest occurrence of the max
	Sets         int       `json:"sets"`        // at that occurrence
	Reps         int       `json:"reps"`        // at that occurrence
	MaxVolume    float64   `json:"max_volume"`  // max(sets*reps*weight) over all entries
	FirstWorkout time.Time `json:"first_workout"`
	LastWorkout  time.Time `json:"last_workout"`
}

// ValidationError reports invalid caller input, surfaced before any
// aggregation runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ComputeVolume aggregates entries into one row per workout.
//
// Per row: SetsTotal = Σsets, RepsTotal = Σreps,
// WeightTotal = Σ(sets×reps×weight) with nil weight as 0,
// CaloriesTotal = Σcalories. Input order is preserved (entries arrive
// date-ascending with ties in creation order), so rows come out date
// ascending too. Empty input yields zero rows, not an error.
func ComputeVolume(entries []Entry) []VolumeRow {
	rows := make([]VolumeRow, 0)
	index := make(map[string]int) // workout ID -> position in rows

	for _, entry := range entries {
		i, ok := index[entry.WorkoutID]
		if !ok {
			rows = append(rows, VolumeRow{
				WorkoutID:       entry.WorkoutID,
				Date:            entry.WorkoutDate,
				WorkoutType:     entry.WorkoutType,
				DurationMinutes: entry.DurationMinutes,
			})
			i = len(rows) - 1
			index[entry.WorkoutID] = i
		}

		rows[i].SetsTotal += entry.Sets
		rows[i].RepsTotal += entry.Reps
		if entry.Weight != nil {
			rows[i].WeightTotal += float64(entry.Sets) * float64(entry.Reps) * *entry.Weight
		}
		rows[i].CaloriesTotal += entry.Calories
	}

	return rows
}

// ComputeRecords finds, per exercise, the maximum weight ever logged and
// the entry where it was first achieved. Entries with nil weight are
// ignored for the maximum; exercises with no weighted entries at all are
// excluded rather than reported as zero. Weights are compared on the
// stored value directly, no rounding. Rows come out in order of first
// appearance of each exercise in the input, which keeps the report
// deterministic for a fixed entry sequence.
func ComputeRecords(entries []Entry) []RecordRow {
	rows := make([]RecordRow, 0)
	index := make(map[string]int) // exercise ID -> position in rows
	seen := make(map[string]bool) // exercise IDs with at least one weighted entry

	for _, entry := range entries {
		i, ok := index[entry.ExerciseID]
		if !ok {
			rows = append(rows, RecordRow{
				ExerciseID:   entry.ExerciseID,
				ExerciseName: entry.ExerciseName,
				FirstWorkout: entry.WorkoutDate,
				LastWorkout:  entry.WorkoutDate,
			})
			i = len(rows) - 1
			index[entry.ExerciseID] = i
		}

		if entry.WorkoutDate.Before(rows[i].FirstWorkout) {
			rows[i].FirstWorkout = entry.WorkoutDate
		}
		if entry.WorkoutDate.After(rows[i].LastWorkout) {
			rows[i].LastWorkout = entry.WorkoutDate
		}

		if entry.Weight == nil {
			continue
		}

		weight := *entry.Weight
		volume := float64(entry.Sets) * float64(entry.Reps) * weight
		if volume > rows[i].MaxVolume {
			rows[i].MaxVolume = volume
		}

		// Strictly greater keeps the earliest occurrence when the max recurs.
		if !seen[entry.ExerciseID] || weight > rows[i].MaxWeight {
			rows[i].MaxWeight = weight
			rows[i].AchievedOn = entry.WorkoutDate
			rows[i].Sets = entry.Sets
			rows[i].Reps = entry.Reps
			seen[entry.ExerciseID] = true
		}
	}

	// Drop exercises that never had a weighted entry.
	out := rows[:0]
	for _, row := range rows {
		if seen[row.ExerciseID] {
			out = append(out, row)
		}
	}
	return out
}
