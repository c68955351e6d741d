package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/storage"
)

type runner interface {
	Run(ctx *Context) error
}

func newTestContext(t *testing.T, path string) (*Context, *bytes.Buffer) {
	t.Helper()

	cfg := config.Default()
	cfg.Dir = filepath.Dir(path)
	cfg.Storage.Path = path
	cfg.Backup.MaxBackups = 3
	if filepath.Ext(path) == ".json" {
		cfg.Storage.Driver = constants.DriverJSON
	}

	store, err := storage.New(cfg.Storage.Driver, path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := NewContext(cfg, store)
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.In = strings.NewReader("")
	return ctx, out
}

// invoke runs cmd the way one process would: fresh context, run, close
func invoke(t *testing.T, path string, cmd runner) (string, error) {
	t.Helper()

	ctx, out := newTestContext(t, path)
	err := cmd.Run(ctx)
	if closeErr := ctx.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return out.String(), err
}

func mustInvoke(t *testing.T, path string, cmd runner) string {
	t.Helper()

	out, err := invoke(t, path, cmd)
	if err != nil {
		t.Fatalf("%T failed: %v\noutput:\n%s", cmd, err, out)
	}
	return out
}

func setupStore(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	mustInvoke(t, path, &InitCmd{})
	return path
}

func assertContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, out)
	}
}

func TestWorkoutSpansInvocations(t *testing.T) {
	for _, name := range []string{constants.DBFileName, constants.JSONFileName} {
		t.Run(name, func(t *testing.T) {
			path := setupStore(t, name)

			out := mustInvoke(t, path, &SessionStartCmd{Type: "push"})
			assertContains(t, out, "Started push workout")
			assertContains(t, out, "0/4 x 6-8")

			out = mustInvoke(t, path, &SessionLogCmd{Reps: 8, Weight: 80})
			assertContains(t, out, "set 1/4: 8 x 80 kg")

			out = mustInvoke(t, path, &SessionLogCmd{Reps: 7, Weight: 80})
			assertContains(t, out, "set 2/4: 7 x 80 kg")

			out = mustInvoke(t, path, &SessionLogCmd{Reps: 12, Weight: 8, Position: 4})
			assertContains(t, out, "set 1/3: 12 x 8 kg")

			out = mustInvoke(t, path, &SessionStatusCmd{})
			assertContains(t, out, "2/4 x 6-8")
			assertContains(t, out, "1/3 x 12-15")
			assertContains(t, out, "3/16 sets")

			out = mustInvoke(t, path, &SessionCompleteCmd{})
			assertContains(t, out, "push workout complete")
			assertContains(t, out, "NEW PR")
			assertContains(t, out, "chest_press_flat_bb")

			out = mustInvoke(t, path, &RecordsCmd{})
			assertContains(t, out, "Personal records (2)")
			assertContains(t, out, "80 kg")

			out = mustInvoke(t, path, &SessionStatusCmd{})
			assertContains(t, out, "No workout in progress. Next up: pull")

			out = mustInvoke(t, path, &LastCmd{Exercise: "chest_press_flat_bb"})
			assertContains(t, out, "Set 1: 8 x 80 kg")
			assertContains(t, out, "Set 2: 7 x 80 kg")
		})
	}
}

func TestSessionStart_DefaultsToRotation(t *testing.T) {
	path := setupStore(t, constants.DBFileName)

	out := mustInvoke(t, path, &SessionStartCmd{})
	assertContains(t, out, "Started push workout")

	for _, cmd := range []*SessionStartCmd{{}, {Type: "push"}} {
		if _, err := invoke(t, path, cmd); err == nil {
			t.Fatalf("expected starting %q again to fail while the draft is saved", cmd.Type)
		}
	}
}

func TestSessionStart_OtherTypeDropsStaleDraft(t *testing.T) {
	path := setupStore(t, constants.DBFileName)

	mustInvoke(t, path, &SessionStartCmd{Type: "push"})
	mustInvoke(t, path, &SessionLogCmd{Reps: 8, Weight: 80})

	out := mustInvoke(t, path, &SessionStartCmd{Type: "legs"})
	assertContains(t, out, "Dropped the saved push workout")
	assertContains(t, out, "Started legs workout")

	out = mustInvoke(t, path, &SessionStatusCmd{})
	assertContains(t, out, "Legs workout")

	out = mustInvoke(t, path, &DebugDumpCmd{Section: "draft"})
	assertContains(t, out, `"legs"`)
	if strings.Contains(out, `"push"`) {
		t.Errorf("expected the push draft to be gone, got:\n%s", out)
	}

	// a custom start counts as another type too
	out = mustInvoke(t, path, &SessionStartCmd{Exercise: []string{"curl_db:2"}})
	assertContains(t, out, "Dropped the saved legs workout")
	assertContains(t, out, "Started custom workout")
}

func TestSessionStart_CustomExercisesCompleteOnLastSet(t *testing.T) {
	path := setupStore(t, constants.DBFileName)

	out := mustInvoke(t, path, &SessionStartCmd{Exercise: []string{"curl_db:1:10-12"}})
	assertContains(t, out, "Started custom workout")

	out = mustInvoke(t, path, &SessionLogCmd{Reps: 12, Weight: 14})
	assertContains(t, out, "custom workout complete")
	assertContains(t, out, "NEW PR")

	// Custom workouts do not move the rotation
	out = mustInvoke(t, path, &NextCmd{})
	assertContains(t, out, "Next workout: push")
}

func TestSessionStart_RejectsBadInput(t *testing.T) {
	path := setupStore(t, constants.DBFileName)

	tests := []struct {
		name string
		cmd  *SessionStartCmd
	}{
		{"unknown template", &SessionStartCmd{Type: "arms"}},
		{"unknown exercise", &SessionStartCmd{Exercise: []string{"bench_dips"}}},
		{"bad set count", &SessionStartCmd{Exercise: []string{"curl_db:zero"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := invoke(t, path, tt.cmd); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSessionSwap(t *testing.T) {
	path := setupStore(t, constants.DBFileName)
	mustInvoke(t, path, &SessionStartCmd{Type: "push"})

	out := mustInvoke(t, path, &SessionSwapCmd{Position: 1})
	assertContains(t, out, "Alternatives for")
	assertContains(t, out, "chest_press_machine")

	out = mustInvoke(t, path, &SessionSwapCmd{Position: 1, Exercise: "chest_press_machine"})
	assertContains(t, out, "Swapped")

	out = mustInvoke(t, path, &SessionStatusCmd{})
	assertContains(t, out, "(chest_press_machine)")

	if _, err := invoke(t, path, &SessionSwapCmd{Position: 9, Exercise: "pushup"}); err == nil {
		t.Error("expected an error for a position outside the workout")
	}
}

func TestSessionSelectShowsTarget(t *testing.T) {
	path := setupStore(t, constants.DBFileName)
	mustInvoke(t, path, &SessionStartCmd{Exercise: []string{"curl_db:3:10-12", "curl_hammer:1"}})
	mustInvoke(t, path, &SessionLogCmd{Reps: 12, Weight: 12})
	mustInvoke(t, path, &SessionLogCmd{Reps: 12, Weight: 12})
	mustInvoke(t, path, &SessionLogCmd{Reps: 12, Weight: 12})
	mustInvoke(t, path, &SessionLogCmd{Reps: 10, Weight: 10})

	mustInvoke(t, path, &SessionStartCmd{Exercise: []string{"curl_db:3:10-12"}})
	out := mustInvoke(t, path, &SessionSelectCmd{Position: 1})
	assertContains(t, out, "Prescribed: 3 x 10-12 (0 done)")
	assertContains(t, out, "Target:     14.5 kg")
	assertContains(t, out, "Record:     12 kg x 12")
}

func TestSessionRest(t *testing.T) {
	path := setupStore(t, constants.DBFileName)
	mustInvoke(t, path, &SessionStartCmd{Type: "push"})

	out := mustInvoke(t, path, &SessionRestCmd{Skip: true})
	assertContains(t, out, "No rest period running.")

	out = mustInvoke(t, path, &SessionLogCmd{Reps: 8, Weight: 80})
	assertContains(t, out, "Rest period started")

	out = mustInvoke(t, path, &SessionRestCmd{Skip: true})
	assertContains(t, out, "Rest skipped.")

	out = mustInvoke(t, path, &SessionRestCmd{Skip: true})
	assertContains(t, out, "No rest period running.")
}

func TestSessionLogInOneProcess(t *testing.T) {
	path := setupStore(t, constants.DBFileName)
	ctx, out := newTestContext(t, path)
	defer ctx.Close()

	if err := (&SessionStartCmd{Exercise: []string{"curl_db:2"}}).Run(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := (&SessionLogCmd{Reps: 10, Weight: 12}).Run(ctx); err != nil {
		t.Fatalf("first set failed: %v", err)
	}
	// The second set ends the rest period and completes the workout
	if err := (&SessionLogCmd{Reps: 10, Weight: 12}).Run(ctx); err != nil {
		t.Fatalf("second set failed: %v", err)
	}
	assertContains(t, out.String(), "custom workout complete")
}

func TestSessionDrafts(t *testing.T) {
	path := setupStore(t, constants.DBFileName)

	if _, err := invoke(t, path, &SessionDraftResumeCmd{}); err == nil {
		t.Error("expected resume without a draft to fail")
	}

	mustInvoke(t, path, &SessionStartCmd{Type: "legs"})
	mustInvoke(t, path, &SessionLogCmd{Reps: 6, Weight: 100})

	out := mustInvoke(t, path, &SessionDraftSaveCmd{})
	assertContains(t, out, "Draft saved (1 sets logged)")

	out = mustInvoke(t, path, &SessionDraftResumeCmd{})
	assertContains(t, out, "Draft resumed")
	assertContains(t, out, "1/4 x 6-8")

	out = mustInvoke(t, path, &SessionDraftDiscardCmd{})
	assertContains(t, out, "Draft discarded.")

	out = mustInvoke(t, path, &SessionStatusCmd{})
	assertContains(t, out, "No workout in progress")

	if _, err := invoke(t, path, &SessionDraftDiscardCmd{}); err == nil {
		t.Error("expected discarding a missing draft to fail")
	}
}

func TestSessionDiscard(t *testing.T) {
	path := setupStore(t, constants.DBFileName)
	mustInvoke(t, path, &SessionStartCmd{Type: "pull"})

	out := mustInvoke(t, path, &SessionDiscardCmd{})
	assertContains(t, out, "Workout discarded.")

	out = mustInvoke(t, path, &NextCmd{})
	assertContains(t, out, "Next workout: push")

	if _, err := invoke(t, path, &SessionDiscardCmd{}); err == nil {
		t.Error("expected discard without a workout to fail")
	}
}

func TestProfileCommands(t *testing.T) {
	path := setupStore(t, constants.DBFileName)

	out := mustInvoke(t, path, &ProfileShowCmd{})
	assertContains(t, out, "No profile yet")

	out = mustInvoke(t, path, &ProfileSetCmd{
		Name:         "Sam",
		Weight:       80,
		Height:       180,
		Age:          30,
		Gender:       "male",
		Goal:         "cut",
		Activity:     "moderate",
		TrainingDays: 4,
	})
	assertContains(t, out, "Profile updated")
	assertContains(t, out, "Calories:")

	// Partial update keeps the other fields
	mustInvoke(t, path, &ProfileSetCmd{Goal: "maintain"})
	out = mustInvoke(t, path, &ProfileShowCmd{})
	assertContains(t, out, "Sam")
	assertContains(t, out, "Goal:      maintain")
	assertContains(t, out, "80 kg, 180 cm, 30 y")

	if _, err := invoke(t, path, &ProfileSetCmd{Gender: "robot"}); err == nil {
		t.Error("expected an invalid gender to be rejected")
	}
	if _, err := invoke(t, path, &ProfileSetCmd{Goal: "shred"}); err == nil {
		t.Error("expected an invalid goal to be rejected")
	}
}

func TestBodyCommands(t *testing.T) {
	path := setupStore(t, constants.DBFileName)
	mustInvoke(t, path, &ProfileSetCmd{Weight: 80, Height: 180, Age: 30, Gender: "male", Goal: "cut", TrainingDays: 4})

	out := mustInvoke(t, path, &CheckinCmd{Weight: 80, Protein: true, Calories: 2100, Sleep: 4, Date: "2026-01-05"})
	assertContains(t, out, "Checked in for 2026-01-05: 80 kg, protein hit, 2100 kcal, sleep 4/5")

	out = mustInvoke(t, path, &CheckinCmd{Weight: 79.6, Calories: -1})
	assertContains(t, out, "79.6 kg")
	if strings.Contains(out, "kcal") {
		t.Errorf("expected no calories in output, got:\n%s", out)
	}

	if _, err := invoke(t, path, &CheckinCmd{Weight: 80, Calories: -1, Sleep: 9}); err == nil {
		t.Error("expected a sleep rating of 9 to be rejected")
	}

	out = mustInvoke(t, path, &WeightCmd{Weight: 79.5})
	assertContains(t, out, "Weight recorded: 79.5 kg")
	assertContains(t, out, "Macros now")

	out = mustInvoke(t, path, &ReviewCmd{})
	assertContains(t, out, "Weekly review")

	out = mustInvoke(t, path, &ReviewCmd{Apply: true})
	assertContains(t, out, "Calorie target set to")
}

func TestReviewApplyNeedsProfile(t *testing.T) {
	path := setupStore(t, constants.DBFileName)

	if _, err := invoke(t, path, &ReviewCmd{Apply: true}); err == nil {
		t.Error("expected applying a review without a profile to fail")
	}
}

func TestQueryCommands(t *testing.T) {
	path := setupStore(t, constants.DBFileName)

	out := mustInvoke(t, path, &AlternativesCmd{Exercise: "chest_press_flat_db"})
	assertContains(t, out, "chest_press_flat_bb")
	assertContains(t, out, "pushup")

	out = mustInvoke(t, path, &AlternativesCmd{Exercise: "face_pull"})
	assertContains(t, out, "No alternatives known")

	out = mustInvoke(t, path, &SuggestCmd{Exercise: "curl_db"})
	assertContains(t, out, "No history for")

	out = mustInvoke(t, path, &LastCmd{Exercise: "curl_db"})
	assertContains(t, out, "has not been trained yet")

	out = mustInvoke(t, path, &RecordsCmd{})
	assertContains(t, out, "No personal records yet.")

	out = mustInvoke(t, path, &NextCmd{})
	assertContains(t, out, "Next workout: push")
	assertContains(t, out, "1. ")
}

func TestBackupCommands(t *testing.T) {
	path := setupStore(t, constants.DBFileName)

	out := mustInvoke(t, path, &BackupListCmd{})
	assertContains(t, out, "No backups found.")

	out = mustInvoke(t, path, &BackupCreateCmd{})
	assertContains(t, out, "Backup created: liftlog-")

	out = mustInvoke(t, path, &BackupListCmd{})
	assertContains(t, out, "Available backups (1 total, keeping most recent 3)")

	ctx, _ := newTestContext(t, path)
	backups, err := ctx.backups().ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup, got %d (err: %v)", len(backups), err)
	}
	name := filepath.Base(backups[0].Path)

	// Declined confirmation leaves the data alone
	ctx, buf := newTestContext(t, path)
	ctx.In = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	_ = ctx.Close()
	assertContains(t, buf.String(), "Restore cancelled.")

	mustInvoke(t, path, &ProfileSetCmd{Weight: 80, Height: 180, Age: 30, Gender: "male", Goal: "bulk"})

	out = mustInvoke(t, path, &BackupRestoreCmd{BackupFile: name, Yes: true})
	assertContains(t, out, "Data restored successfully!")
	assertContains(t, out, "Previous data saved as:")

	// The profile was set after the backup was taken
	out = mustInvoke(t, path, &ProfileShowCmd{})
	assertContains(t, out, "No profile yet")

	if _, err := invoke(t, path, &BackupRestoreCmd{BackupFile: "missing.db", Yes: true}); err == nil {
		t.Error("expected restoring a missing backup to fail")
	}
}

func TestDoctorAndValidate(t *testing.T) {
	path := setupStore(t, constants.DBFileName)
	mustInvoke(t, path, &SessionStartCmd{Exercise: []string{"curl_db:1"}})
	mustInvoke(t, path, &SessionLogCmd{Reps: 10, Weight: 12})

	out := mustInvoke(t, path, &DoctorCmd{})
	assertContains(t, out, "✓ Storage reachable: OK")
	assertContains(t, out, "✓ Schema version: OK")
	assertContains(t, out, "✓ Data validation: OK")
	assertContains(t, out, "All diagnostics passed!")

	out = mustInvoke(t, path, &ValidateCmd{Strict: true})
	assertContains(t, out, "Validating 1 workouts, 1 records")
	assertContains(t, out, "No conflicts detected.")
}

func TestDoctorWithoutStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.DBFileName)

	out, err := invoke(t, path, &DoctorCmd{})
	if err == nil {
		t.Fatal("expected doctor to fail without a store")
	}
	assertContains(t, out, "❌ Storage reachable: FAIL")
	assertContains(t, out, "⊘ Data validation: SKIPPED")
}

func TestDebugCommands(t *testing.T) {
	path := setupStore(t, constants.JSONFileName)

	out := mustInvoke(t, path, &DebugDBPathCmd{})
	assertContains(t, out, `"path":`)
	assertContains(t, out, constants.JSONFileName)

	out = mustInvoke(t, path, &DebugDumpCmd{})
	assertContains(t, out, `"workoutHistory"`)

	out = mustInvoke(t, path, &DebugDumpCmd{Section: "records"})
	assertContains(t, out, "{}")

	if _, err := invoke(t, path, &DebugDumpCmd{Section: "tasks"}); err == nil {
		t.Error("expected an unknown section to fail")
	}

	out = mustInvoke(t, path, &DebugCatalogCmd{})
	assertContains(t, out, `"rotation"`)
}

func TestCommandsNeedInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.DBFileName)

	_, err := invoke(t, path, &NextCmd{})
	if !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestParsePrescription(t *testing.T) {
	tests := []struct {
		in      string
		id      string
		sets    int
		reps    string
		wantErr bool
	}{
		{in: "curl_db", id: "curl_db", sets: 3, reps: "8-10"},
		{in: "curl_db:4", id: "curl_db", sets: 4, reps: "8-10"},
		{in: "treadmill_incline_walk:1:20 min", id: "treadmill_incline_walk", sets: 1, reps: "20 min"},
		{in: " pushup:2:15 ", id: "pushup", sets: 2, reps: "15"},
		{in: "", wantErr: true},
		{in: "curl_db:0", wantErr: true},
		{in: "curl_db:x", wantErr: true},
		{in: "a:1:2:3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := parsePrescription(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected an error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.ExerciseID != tt.id || p.Sets != tt.sets || p.Reps != tt.reps {
				t.Errorf("got %+v", p)
			}
		})
	}
}
