package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/liftlog/internal/constants"
	lerrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
)

func intPtr(v int) *int { return &v }

func sampleSnapshot() models.Snapshot {
	started := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)
	done := started.Add(time.Hour)

	s := models.NewSnapshot(constants.SnapshotVersion)
	s.Profile = models.UserProfile{
		Name:          "Sam",
		Weight:        80,
		Height:        180,
		Age:           30,
		Gender:        models.GenderMale,
		Goal:          models.GoalCut,
		ActivityLevel: models.ActivityModerate,
		TrainingDays:  4,
		Calories:      2259,
		ProteinG:      176,
		FatG:          63,
		CarbsG:        247,
	}
	s.WorkoutHistory = []models.WorkoutSession{{
		ID:        "s1",
		Type:      "push",
		Exercises: []models.ExercisePrescription{{ExerciseID: "chest_press_flat_bb", Sets: 1, Reps: "6-8"}},
		Sets: []models.LoggedSet{
			{ExerciseID: "chest_press_flat_bb", SetIndex: 0, Reps: 6, Weight: 82.5, LoggedAt: started.Add(10 * time.Minute)},
		},
		StartedAt:   started,
		CompletedAt: &done,
		Volume:      495,
	}}
	s.PersonalRecords["chest_press_flat_bb"] = models.PersonalRecord{Weight: 82.5, Reps: 6, Date: done}
	s.WeightHistory = []models.WeightEntry{{Day: "2026-03-02", Weight: 80.2, At: started}}
	s.DailyCheckIns = []models.DailyCheckIn{{
		Day: "2026-03-02", Weight: 80.2, ProteinHit: true, Calories: intPtr(2200), Sleep: intPtr(4), CreatedAt: done,
	}}
	s.DraftWorkout = &models.Draft{
		Session: models.WorkoutSession{
			ID:        "s2",
			Type:      "pull",
			Exercises: []models.ExercisePrescription{{ExerciseID: "pullup", Sets: 3, Reps: "6-10"}},
			Sets:      []models.LoggedSet{{ExerciseID: "pullup", Reps: 8, Weight: 5, LoggedAt: done}},
			StartedAt: done,
		},
		CompletedSets: []int{1},
		Resting:       true,
		SavedAt:       done,
	}
	s.WeeklyReviews = []models.WeeklyReview{{
		WindowStart: "2026-02-24", WindowEnd: "2026-03-02", Adjustment: -200, Reason: "loss too slow",
		PreviousCalories: 2459, NewCalories: 2259, GeneratedAt: done,
	}}
	return s
}

type storeCase struct {
	name string
	open func(t *testing.T, dir string) storage.Provider
}

func storeCases() []storeCase {
	return []storeCase{
		{
			name: "sqlite",
			open: func(t *testing.T, dir string) storage.Provider {
				return storage.NewSQLiteStore(filepath.Join(dir, constants.DBFileName))
			},
		},
		{
			name: "json",
			open: func(t *testing.T, dir string) storage.Provider {
				return storage.NewJSONStore(filepath.Join(dir, constants.JSONFileName))
			},
		},
	}
}

func TestStores_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, tc := range storeCases() {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			store := tc.open(t, dir)
			require.NoError(t, store.Init())

			want := sampleSnapshot()
			require.NoError(t, store.SaveSnapshot(ctx, want))

			got, err := store.LoadSnapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			require.NoError(t, store.Close())

			// a fresh process sees the same state
			reopened := tc.open(t, dir)
			require.NoError(t, reopened.Load())
			t.Cleanup(func() { _ = reopened.Close() })

			got, err = reopened.LoadSnapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// saving what was loaded changes nothing
			require.NoError(t, reopened.SaveSnapshot(ctx, got))
			again, err := reopened.LoadSnapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestStores_OverwriteKeepsSingleSnapshot(t *testing.T) {
	ctx := context.Background()
	for _, tc := range storeCases() {
		t.Run(tc.name, func(t *testing.T) {
			store := tc.open(t, t.TempDir())
			require.NoError(t, store.Init())
			t.Cleanup(func() { _ = store.Close() })

			first := sampleSnapshot()
			require.NoError(t, store.SaveSnapshot(ctx, first))

			second := sampleSnapshot()
			second.DraftWorkout = nil
			second.Profile.Calories = 2059
			require.NoError(t, store.SaveSnapshot(ctx, second))

			got, err := store.LoadSnapshot(ctx)
			require.NoError(t, err)
			assert.Nil(t, got.DraftWorkout)
			assert.Equal(t, 2059, got.Profile.Calories)
		})
	}
}

func TestStores_EmptyStoreLoadsEmptyState(t *testing.T) {
	ctx := context.Background()
	for _, tc := range storeCases() {
		t.Run(tc.name, func(t *testing.T) {
			store := tc.open(t, t.TempDir())
			require.NoError(t, store.Init())
			t.Cleanup(func() { _ = store.Close() })

			got, err := store.LoadSnapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, models.NewSnapshot(constants.SnapshotVersion), got)
		})
	}
}

func TestStores_LoadWithoutInit(t *testing.T) {
	for _, tc := range storeCases() {
		t.Run(tc.name, func(t *testing.T) {
			store := tc.open(t, t.TempDir())
			err := store.Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, storage.ErrNotInitialized))
		})
	}
}

func TestStores_NotLoaded(t *testing.T) {
	ctx := context.Background()
	for _, tc := range storeCases() {
		t.Run(tc.name, func(t *testing.T) {
			store := tc.open(t, t.TempDir())

			_, err := store.LoadSnapshot(ctx)
			assert.ErrorIs(t, err, lerrors.ErrPersistence)
			assert.ErrorIs(t, store.SaveSnapshot(ctx, sampleSnapshot()), lerrors.ErrPersistence)
		})
	}
}

func TestJSONStore_PartialSnapshotIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.JSONFileName)
	raw := `{"profile":{"name":"Sam","weight":80,"goal":"cut"},"workoutHistory":[{"id":"s1","type":"legs"}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	store := storage.NewJSONStore(path)
	require.NoError(t, store.Load())

	got, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constants.SnapshotVersion, got.Version)
	assert.Equal(t, "Sam", got.Profile.Name)
	assert.NotNil(t, got.PersonalRecords)
	assert.NotNil(t, got.DailyCheckIns)
	assert.NotNil(t, got.WeightHistory)
	assert.NotNil(t, got.WeeklyReviews)
	require.Len(t, got.WorkoutHistory, 1)
	assert.NotNil(t, got.WorkoutHistory[0].Sets)
	assert.Nil(t, got.DraftWorkout)
}

func TestJSONStore_NewerVersionLoadsBestEffort(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.JSONFileName)
	raw := `{"version":99,"profile":{"name":"Sam"},"futureField":{"a":1}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	store := storage.NewJSONStore(path)
	require.NoError(t, store.Load())

	got, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 99, got.Version)
	assert.Equal(t, "Sam", got.Profile.Name)
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.JSONFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := storage.NewJSONStore(path)
	require.NoError(t, store.Load())

	_, err := store.LoadSnapshot(context.Background())
	assert.ErrorIs(t, err, lerrors.ErrPersistence)
}

func TestJSONStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewJSONStore(filepath.Join(dir, constants.JSONFileName))
	require.NoError(t, store.Init())

	for range 3 {
		require.NoError(t, store.SaveSnapshot(context.Background(), sampleSnapshot()))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, constants.JSONFileName, entries[0].Name())

	info, err := os.Stat(filepath.Join(dir, constants.JSONFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSQLiteStore_SavedAt(t *testing.T) {
	ctx := context.Background()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), constants.DBFileName))
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	_, ok, err := store.SavedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	before := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.SaveSnapshot(ctx, sampleSnapshot()))

	at, ok, err := store.SavedAt(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, at.Before(before))
}

func TestSQLiteStore_SchemaStatus(t *testing.T) {
	ctx := context.Background()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), constants.DBFileName))

	_, _, err := store.SchemaStatus(ctx)
	assert.Error(t, err)
	assert.Error(t, store.Ping(ctx))

	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Ping(ctx))
	current, latest, err := store.SchemaStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, latest, current)
	assert.GreaterOrEqual(t, current, 1)
}

func TestNew(t *testing.T) {
	p, err := storage.New(constants.DriverSQLite, "x.db")
	require.NoError(t, err)
	assert.IsType(t, &storage.SQLiteStore{}, p)

	p, err = storage.New(constants.DriverJSON, "x.json")
	require.NoError(t, err)
	assert.IsType(t, &storage.JSONStore{}, p)

	_, err = storage.New("postgres", "x")
	assert.True(t, lerrors.IsInvalidInput(err))
}
