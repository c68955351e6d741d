package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/liftlog/internal/catalog"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

var day0 = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func benchSession(id string, sets ...models.LoggedSet) models.WorkoutSession {
	done := day0
	s := models.WorkoutSession{
		ID:   id,
		Type: "push",
		Exercises: []models.ExercisePrescription{
			{ExerciseID: "chest_press_flat_bb", Sets: 3, Reps: "6-8"},
		},
		Sets:        sets,
		StartedAt:   day0.Add(-time.Hour),
		CompletedAt: &done,
	}
	s.Volume = s.TotalVolume()
	return s
}

func benchSet(reps int, weight float64) models.LoggedSet {
	return models.LoggedSet{ExerciseID: "chest_press_flat_bb", Reps: reps, Weight: weight}
}

func validSnapshot() models.Snapshot {
	snap := models.NewSnapshot(constants.SnapshotVersion)
	snap.WorkoutHistory = []models.WorkoutSession{
		benchSession("s1", benchSet(8, 80), benchSet(7, 80), benchSet(6, 80)),
	}
	snap.PersonalRecords["chest_press_flat_bb"] = models.PersonalRecord{Weight: 80, Reps: 8, Date: day0}
	snap.DailyCheckIns = []models.DailyCheckIn{
		{Day: "2026-03-01", Weight: 80.2, ProteinHit: true, Sleep: intPtr(4)},
		{Day: "2026-03-02", Weight: 80.0, Calories: intPtr(2100)},
	}
	snap.WeightHistory = []models.WeightEntry{
		{Day: "2026-03-01", Weight: 80.2},
		{Day: "2026-03-02", Weight: 80.0},
	}
	return snap
}

func TestValidateSnapshot_Clean(t *testing.T) {
	validator := New(catalog.MustDefault())

	result := validator.ValidateSnapshot(validSnapshot())

	if result.HasConflicts() {
		t.Errorf("Expected no conflicts, got:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("Unexpected report: %q", result.FormatReport())
	}
}

func TestValidateSnapshot_EmptySnapshot(t *testing.T) {
	validator := New(catalog.MustDefault())

	result := validator.ValidateSnapshot(models.NewSnapshot(constants.SnapshotVersion))

	if result.HasConflicts() {
		t.Errorf("Expected no conflicts for empty state, got:\n%s", result.FormatReport())
	}
}

func TestValidateSnapshot_RecordBelowHistory(t *testing.T) {
	validator := New(catalog.MustDefault())

	snap := validSnapshot()
	snap.PersonalRecords["chest_press_flat_bb"] = models.PersonalRecord{Weight: 75, Reps: 8, Date: day0}

	result := validator.ValidateSnapshot(snap)

	if got := result.Count(ConflictRecordBelowHistory); got != 1 {
		t.Errorf("Expected 1 record_below_history conflict, got %d", got)
	}
}

func TestValidateSnapshot_MissingRecord(t *testing.T) {
	validator := New(catalog.MustDefault())

	snap := validSnapshot()
	delete(snap.PersonalRecords, "chest_press_flat_bb")

	result := validator.ValidateSnapshot(snap)

	if got := result.Count(ConflictMissingRecord); got != 1 {
		t.Errorf("Expected 1 missing_record conflict, got %d", got)
	}
	if !strings.Contains(result.FormatReport(), "chest_press_flat_bb") {
		t.Errorf("Expected report to name the exercise, got:\n%s", result.FormatReport())
	}
}

func TestValidateSnapshot_SessionChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *models.WorkoutSession)
		want   ConflictType
	}{
		{
			name: "unknown exercise",
			mutate: func(s *models.WorkoutSession) {
				s.Exercises = append(s.Exercises, models.ExercisePrescription{ExerciseID: "bench_dips", Sets: 2, Reps: "8-10"})
			},
			want: ConflictUnknownExercise,
		},
		{
			name: "too many sets",
			mutate: func(s *models.WorkoutSession) {
				s.Sets = append(s.Sets, benchSet(5, 80))
				s.Volume = s.TotalVolume()
			},
			want: ConflictSetCountExceeded,
		},
		{
			name: "sets for an exercise that was not prescribed",
			mutate: func(s *models.WorkoutSession) {
				s.Sets = append(s.Sets, models.LoggedSet{ExerciseID: "curl_db", Reps: 10, Weight: 12})
				s.Volume = s.TotalVolume()
			},
			want: ConflictSetCountExceeded,
		},
		{
			name: "stale volume",
			mutate: func(s *models.WorkoutSession) {
				s.Volume = 100
			},
			want: ConflictVolumeMismatch,
		},
	}

	validator := New(catalog.MustDefault())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := validSnapshot()
			tt.mutate(&snap.WorkoutHistory[0])
			snap.PersonalRecords["curl_db"] = models.PersonalRecord{Weight: 12, Reps: 10, Date: day0}

			result := validator.ValidateSnapshot(snap)

			if got := result.Count(tt.want); got != 1 {
				t.Errorf("Expected 1 %s conflict, got %d:\n%s", tt.want, got, result.FormatReport())
			}
		})
	}
}

func TestValidateSnapshot_NilCatalogSkipsExerciseIDs(t *testing.T) {
	validator := New(nil)

	snap := validSnapshot()
	snap.WorkoutHistory[0].Exercises[0].ExerciseID = "homemade_press"
	snap.WorkoutHistory[0].Exercises = append(snap.WorkoutHistory[0].Exercises,
		models.ExercisePrescription{ExerciseID: "chest_press_flat_bb", Sets: 3, Reps: "6-8"})

	result := validator.ValidateSnapshot(snap)

	if result.Count(ConflictUnknownExercise) != 0 {
		t.Errorf("Expected exercise ids to be skipped without a catalog, got:\n%s", result.FormatReport())
	}
}

func TestValidateSnapshot_CheckInsAndWeights(t *testing.T) {
	validator := New(catalog.MustDefault())

	snap := validSnapshot()
	snap.DailyCheckIns = append(snap.DailyCheckIns,
		models.DailyCheckIn{Day: "2026-03-02", Weight: 79.9},           // duplicate day
		models.DailyCheckIn{Day: "03/04/2026", Weight: 79.8},           // invalid date
		models.DailyCheckIn{Day: "2026-03-05", Sleep: intPtr(7)},       // sleep out of range
		models.DailyCheckIn{Day: "2026-03-06", Calories: intPtr(-100)}, // negative calories
	)
	snap.WeightHistory = append(snap.WeightHistory,
		models.WeightEntry{Day: "2026-03-01", Weight: 80.1},
		models.WeightEntry{Day: "yesterday", Weight: 80.1},
	)

	result := validator.ValidateSnapshot(snap)

	if got := result.Count(ConflictDuplicateDay); got != 2 {
		t.Errorf("Expected 2 duplicate_day conflicts, got %d", got)
	}
	if got := result.Count(ConflictInvalidDate); got != 2 {
		t.Errorf("Expected 2 invalid_date conflicts, got %d", got)
	}
	if got := result.Count(ConflictInvalidCheckIn); got != 2 {
		t.Errorf("Expected 2 invalid_checkin conflicts, got %d", got)
	}
}

func TestValidateSnapshot_Draft(t *testing.T) {
	validator := New(catalog.MustDefault())

	inProgress := benchSession("draft", benchSet(8, 82.5))
	inProgress.CompletedAt = nil
	inProgress.Volume = 0

	t.Run("consistent", func(t *testing.T) {
		snap := validSnapshot()
		snap.DraftWorkout = &models.Draft{Session: inProgress, CompletedSets: []int{1}}

		result := validator.ValidateSnapshot(snap)
		if result.HasConflicts() {
			t.Errorf("Expected no conflicts, got:\n%s", result.FormatReport())
		}
	})

	t.Run("count differs from logged sets", func(t *testing.T) {
		snap := validSnapshot()
		snap.DraftWorkout = &models.Draft{Session: inProgress, CompletedSets: []int{2}}

		result := validator.ValidateSnapshot(snap)
		if got := result.Count(ConflictDraftCounts); got != 1 {
			t.Errorf("Expected 1 draft_counts conflict, got %d", got)
		}
	})

	t.Run("wrong length", func(t *testing.T) {
		snap := validSnapshot()
		snap.DraftWorkout = &models.Draft{Session: inProgress, CompletedSets: []int{1, 0}}

		result := validator.ValidateSnapshot(snap)
		if got := result.Count(ConflictDraftCounts); got != 1 {
			t.Errorf("Expected 1 draft_counts conflict, got %d", got)
		}
	})
}
