package reports

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func weight(v float64) *float64 {
	return &v
}

// stubLister serves a fixed entry slice, applying the same filter
// semantics a real store would.
type stubLister struct {
	entries []Entry
	err     error
}

func (s *stubLister) ListEntries(ownerID string, dateFrom, dateTo *time.Time, exerciseID *string) ([]Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Entry, 0)
	for _, e := range s.entries {
		if dateFrom != nil && e.WorkoutDate.Before(*dateFrom) {
			continue
		}
		if dateTo != nil && e.WorkoutDate.After(*dateTo) {
			continue
		}
		if exerciseID != nil && e.ExerciseID != *exerciseID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func TestComputeVolume_SingleWorkout(t *testing.T) {
	entries := []Entry{
		{
			WorkoutID:       "w-1",
			WorkoutDate:     day("2024-01-15"),
			WorkoutType:     "strength",
			DurationMinutes: 60,
			ExerciseID:      "ex-1",
			ExerciseName:    "Приседания",
			Sets:            3,
			Reps:            10,
			Weight:          weight(50),
			Calories:        36,
		},
	}

	rows := ComputeVolume(entries)

	assert.Len(t, rows, 1)
	assert.Equal(t, "w-1", rows[0].WorkoutID)
	assert.Equal(t, 3, rows[0].SetsTotal)
	assert.Equal(t, 10, rows[0].RepsTotal)
	assert.Equal(t, 1500.0, rows[0].WeightTotal)
	assert.Equal(t, 36.0, rows[0].CaloriesTotal)
	assert.Equal(t, 60, rows[0].DurationMinutes)
}

func TestComputeVolume_NilWeightCountsAsZero(t *testing.T) {
	entries := []Entry{
		{WorkoutID: "w-1", WorkoutDate: day("2024-02-01"), ExerciseID: "ex-1", Sets: 3, Reps: 10, Weight: weight(40), Calories: 30},
		{WorkoutID: "w-1", WorkoutDate: day("2024-02-01"), ExerciseID: "ex-2", Sets: 4, Reps: 15, Weight: nil, Calories: 20},
	}

	rows := ComputeVolume(entries)

	assert.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].SetsTotal)
	assert.Equal(t, 10+15, rows[0].RepsTotal)
	// The unweighted entry still counts sets, reps and calories.
	assert.Equal(t, 1200.0, rows[0].WeightTotal)
	assert.Equal(t, 50.0, rows[0].CaloriesTotal)
}

func TestComputeVolume_GroupsPerWorkoutInDateOrder(t *testing.T) {
	entries := []Entry{
		{WorkoutID: "w-1", WorkoutDate: day("2024-03-01"), ExerciseID: "ex-1", Sets: 2, Reps: 5, Weight: weight(100)},
		{WorkoutID: "w-2", WorkoutDate: day("2024-03-03"), ExerciseID: "ex-1", Sets: 1, Reps: 5, Weight: weight(110)},
		{WorkoutID: "w-2", WorkoutDate: day("2024-03-03"), ExerciseID: "ex-2", Sets: 3, Reps: 8, Weight: nil},
	}

	rows := ComputeVolume(entries)

	assert.Len(t, rows, 2)
	assert.Equal(t, "w-1", rows[0].WorkoutID)
	assert.Equal(t, "w-2", rows[1].WorkoutID)
	assert.Equal(t, 1000.0, rows[0].WeightTotal)
	assert.Equal(t, 550.0, rows[1].WeightTotal)
	assert.Equal(t, 4, rows[1].SetsTotal)
}

func TestComputeVolume_EmptyInput(t *testing.T) {
	rows := ComputeVolume(nil)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
}

func TestComputeRecords_EarliestMaxWins(t *testing.T) {
	entries := []Entry{
		{WorkoutID: "w-1", WorkoutDate: day("2024-01-05"), ExerciseID: "ex-1", ExerciseName: "Жим лёжа", Sets: 5, Reps: 5, Weight: weight(80)},
		{WorkoutID: "w-2", WorkoutDate: day("2024-01-12"), ExerciseID: "ex-1", ExerciseName: "Жим лёжа", Sets: 3, Reps: 3, Weight: weight(80)},
		{WorkoutID: "w-3", WorkoutDate: day("2024-01-19"), ExerciseID: "ex-1", ExerciseName: "Жим лёжа", Sets: 4, Reps: 8, Weight: weight(70)},
	}

	rows := ComputeRecords(entries)

	assert.Len(t, rows, 1)
	assert.Equal(t, 80.0, rows[0].MaxWeight)
	// The max recurred on 2024-01-12; the first achievement is reported.
	assert.Equal(t, day("2024-01-05"), rows[0].AchievedOn)
	assert.Equal(t, 5, rows[0].Sets)
	assert.Equal(t, 5, rows[0].Reps)
	assert.Equal(t, day("2024-01-05"), rows[0].FirstWorkout)
	assert.Equal(t, day("2024-01-19"), rows[0].LastWorkout)
	assert.Equal(t, 5*5*80.0, rows[0].MaxVolume)
}

func TestComputeRecords_SkipsUnweightedExercises(t *testing.T) {
	entries := []Entry{
		{WorkoutID: "w-1", WorkoutDate: day("2024-01-05"), ExerciseID: "ex-run", ExerciseName: "Бег", Sets: 1, Reps: 1, Weight: nil},
		{WorkoutID: "w-1", WorkoutDate: day("2024-01-05"), ExerciseID: "ex-1", ExerciseName: "Становая тяга", Sets: 3, Reps: 5, Weight: weight(120)},
	}

	rows := ComputeRecords(entries)

	assert.Len(t, rows, 1)
	assert.Equal(t, "ex-1", rows[0].ExerciseID)
}

func TestComputeRecords_NilWeightDoesNotResetMax(t *testing.T) {
	entries := []Entry{
		{WorkoutID: "w-1", WorkoutDate: day("2024-01-05"), ExerciseID: "ex-1", Sets: 3, Reps: 5, Weight: weight(60)},
		{WorkoutID: "w-2", WorkoutDate: day("2024-01-12"), ExerciseID: "ex-1", Sets: 3, Reps: 12, Weight: nil},
	}

	rows := ComputeRecords(entries)

	assert.Len(t, rows, 1)
	assert.Equal(t, 60.0, rows[0].MaxWeight)
	assert.Equal(t, day("2024-01-05"), rows[0].AchievedOn)
	// The unweighted session still moves the activity bounds.
	assert.Equal(t, day("2024-01-12"), rows[0].LastWorkout)
}

func TestReportService_Volume(t *testing.T) {
	lister := &stubLister{entries: []Entry{
		{WorkoutID: "w-1", WorkoutDate: day("2024-01-15"), WorkoutType: "strength", DurationMinutes: 45, ExerciseID: "ex-1", Sets: 3, Reps: 10, Weight: weight(50), Calories: 36},
	}}
	service := NewReportService(lister)

	from, to := day("2024-01-01"), day("2024-01-31")
	rows, err := service.Volume("user-1", VolumeFilter{DateFrom: &from, DateTo: &to})

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1500.0, rows[0].WeightTotal)
}

func TestReportService_VolumeInvertedRange(t *testing.T) {
	lister := &stubLister{err: errors.New("store must not be touched")}
	service := NewReportService(lister)

	from, to := day("2024-02-01"), day("2024-01-01")
	rows, err := service.Volume("user-1", VolumeFilter{DateFrom: &from, DateTo: &to})

	assert.Nil(t, rows)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Equal(t, "date_range", validation.Field)
}

func TestReportService_VolumeAdditiveOverSubRanges(t *testing.T) {
	lister := &stubLister{entries: []Entry{
		{WorkoutID: "w-1", WorkoutDate: day("2024-01-05"), ExerciseID: "ex-1", Sets: 3, Reps: 10, Weight: weight(50)},
		{WorkoutID: "w-2", WorkoutDate: day("2024-01-15"), ExerciseID: "ex-1", Sets: 5, Reps: 5, Weight: weight(80)},
		{WorkoutID: "w-3", WorkoutDate: day("2024-01-25"), ExerciseID: "ex-2", Sets: 4, Reps: 12, Weight: nil},
	}}
	service := NewReportService(lister)

	sum := func(rows []VolumeRow) (sets int, w float64) {
		for _, r := range rows {
			sets += r.SetsTotal
			w += r.WeightTotal
		}
		return
	}

	from, mid, midNext, to := day("2024-01-01"), day("2024-01-15"), day("2024-01-16"), day("2024-01-31")

	full, err := service.Volume("user-1", VolumeFilter{DateFrom: &from, DateTo: &to})
	assert.NoError(t, err)
	first, err := service.Volume("user-1", VolumeFilter{DateFrom: &from, DateTo: &mid})
	assert.NoError(t, err)
	second, err := service.Volume("user-1", VolumeFilter{DateFrom: &midNext, DateTo: &to})
	assert.NoError(t, err)

	fullSets, fullWeight := sum(full)
	firstSets, firstWeight := sum(first)
	secondSets, secondWeight := sum(second)

	assert.Equal(t, fullSets, firstSets+secondSets)
	assert.Equal(t, fullWeight, firstWeight+secondWeight)
}

func TestReportService_VolumeUnknownExerciseFilter(t *testing.T) {
	lister := &stubLister{entries: []Entry{
		{WorkoutID: "w-1", WorkoutDate: day("2024-01-05"), ExerciseID: "ex-1", Sets: 3, Reps: 10, Weight: weight(50)},
	}}
	service := NewReportService(lister)

	unknown := "no-such-exercise"
	rows, err := service.Volume("user-1", VolumeFilter{ExerciseID: &unknown})

	assert.NoError(t, err)
	assert.Len(t, rows, 0)
}

func TestReportService_VolumeEmptyOwner(t *testing.T) {
	service := NewReportService(&stubLister{})

	rows, err := service.Volume("user-without-workouts", VolumeFilter{})

	assert.NoError(t, err)
	assert.Len(t, rows, 0)
}

func TestReportService_Records(t *testing.T) {
	lister := &stubLister{entries: []Entry{
		{WorkoutID: "w-1", WorkoutDate: day("2024-01-05"), ExerciseID: "ex-1", ExerciseName: "Приседания", Sets: 5, Reps: 5, Weight: weight(100)},
		{WorkoutID: "w-2", WorkoutDate: day("2024-01-12"), ExerciseID: "ex-2", ExerciseName: "Жим лёжа", Sets: 3, Reps: 8, Weight: weight(75)},
	}}
	service := NewReportService(lister)

	rows, err := service.Records("user-1", nil)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	only := "ex-2"
	rows, err = service.Records("user-1", &only)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Жим лёжа", rows[0].ExerciseName)
}

func TestReportService_ListerFailure(t *testing.T) {
	service := NewReportService(&stubLister{err: errors.New("connection reset")})

	_, err := service.Volume("user-1", VolumeFilter{})
	assert.Error(t, err)

	_, err = service.Records("user-1", nil)
	assert.Error(t, err)
}
