package validation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/julianstephens/liftlog/internal/catalog"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictRecordBelowHistory ConflictType = "record_below_history"
	ConflictMissingRecord      ConflictType = "missing_record"
	ConflictUnknownExercise    ConflictType = "unknown_exercise"
	ConflictSetCountExceeded   ConflictType = "set_count_exceeded"
	ConflictVolumeMismatch     ConflictType = "volume_mismatch"
	ConflictDuplicateDay       ConflictType = "duplicate_day"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictInvalidCheckIn     ConflictType = "invalid_checkin"
	ConflictDraftCounts        ConflictType = "draft_counts"
)

// Conflict represents an inconsistency found in stored state
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Exercise ids or session ids involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of the given type
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks a snapshot against the catalog it was recorded with
type Validator struct {
	catalog *catalog.Catalog
}

// New creates a new Validator. A nil catalog skips exercise id checks.
func New(c *catalog.Catalog) *Validator {
	return &Validator{catalog: c}
}

// ValidateSnapshot checks the persisted state for inconsistencies
func (v *Validator) ValidateSnapshot(snap models.Snapshot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	v.validateHistory(&result, snap.WorkoutHistory)
	validateRecords(&result, snap.WorkoutHistory, snap.PersonalRecords)
	validateCheckIns(&result, snap.DailyCheckIns)
	validateWeights(&result, snap.WeightHistory)
	if snap.DraftWorkout != nil {
		v.validateDraft(&result, *snap.DraftWorkout)
	}

	return result
}

func (v *Validator) validateHistory(result *ValidationResult, history []models.WorkoutSession) {
	for _, s := range history {
		v.validateSession(result, s)

		if math.Abs(s.Volume-s.TotalVolume()) > 0.01 {
			result.add(Conflict{
				Type: ConflictVolumeMismatch,
				Description: fmt.Sprintf("Session %s has volume %.1f but its sets add up to %.1f",
					s.ID, s.Volume, s.TotalVolume()),
				Items: []string{s.ID},
			})
		}
	}
}

// validateSession checks exercise ids and per-exercise set counts
func (v *Validator) validateSession(result *ValidationResult, s models.WorkoutSession) {
	prescribed := make(map[string]int)
	for _, ex := range s.Exercises {
		prescribed[ex.ExerciseID] += ex.Sets
		if v.catalog != nil && !v.catalog.Has(ex.ExerciseID) {
			result.add(Conflict{
				Type:        ConflictUnknownExercise,
				Description: fmt.Sprintf("Session %s uses unknown exercise %q", s.ID, ex.ExerciseID),
				Items:       []string{s.ID, ex.ExerciseID},
			})
		}
	}

	logged := make(map[string]int)
	for _, set := range s.Sets {
		logged[set.ExerciseID]++
	}

	ids := make([]string, 0, len(logged))
	for id := range logged {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if logged[id] > prescribed[id] {
			result.add(Conflict{
				Type: ConflictSetCountExceeded,
				Description: fmt.Sprintf("Session %s has %d sets of %s but only %d were prescribed",
					s.ID, logged[id], id, prescribed[id]),
				Items: []string{s.ID, id},
			})
		}
	}
}

// validateRecords checks that every record is at least the heaviest set in history
func validateRecords(result *ValidationResult, history []models.WorkoutSession, records map[string]models.PersonalRecord) {
	heaviest := make(map[string]float64)
	for _, s := range history {
		for _, set := range s.Sets {
			if w, ok := heaviest[set.ExerciseID]; !ok || set.Weight > w {
				heaviest[set.ExerciseID] = set.Weight
			}
		}
	}

	ids := make([]string, 0, len(heaviest))
	for id := range heaviest {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		pr, ok := records[id]
		if !ok {
			result.add(Conflict{
				Type:        ConflictMissingRecord,
				Description: fmt.Sprintf("Exercise %s has logged sets but no personal record", id),
				Items:       []string{id},
			})
			continue
		}
		if pr.Weight < heaviest[id] {
			result.add(Conflict{
				Type: ConflictRecordBelowHistory,
				Description: fmt.Sprintf("Personal record for %s (%.1f kg) is below the heaviest logged set (%.1f kg)",
					id, pr.Weight, heaviest[id]),
				Items: []string{id},
			})
		}
	}
}

func validateCheckIns(result *ValidationResult, checkIns []models.DailyCheckIn) {
	seen := make(map[string]bool)
	for _, c := range checkIns {
		if !isValidDate(c.Day) {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Check-in has invalid date: %s", c.Day),
				Date:        c.Day,
			})
			continue
		}
		if seen[c.Day] {
			result.add(Conflict{
				Type:        ConflictDuplicateDay,
				Description: fmt.Sprintf("More than one check-in on %s", c.Day),
				Date:        c.Day,
			})
		}
		seen[c.Day] = true

		if c.Sleep != nil && (*c.Sleep < 1 || *c.Sleep > 5) {
			result.add(Conflict{
				Type:        ConflictInvalidCheckIn,
				Description: fmt.Sprintf("Check-in on %s has sleep rating %d (expected 1-5)", c.Day, *c.Sleep),
				Date:        c.Day,
			})
		}
		if c.Calories != nil && *c.Calories < 0 {
			result.add(Conflict{
				Type:        ConflictInvalidCheckIn,
				Description: fmt.Sprintf("Check-in on %s has negative calories", c.Day),
				Date:        c.Day,
			})
		}
	}
}

func validateWeights(result *ValidationResult, weights []models.WeightEntry) {
	seen := make(map[string]bool)
	for _, w := range weights {
		if !isValidDate(w.Day) {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Weight entry has invalid date: %s", w.Day),
				Date:        w.Day,
			})
			continue
		}
		if seen[w.Day] {
			result.add(Conflict{
				Type:        ConflictDuplicateDay,
				Description: fmt.Sprintf("More than one weight entry on %s", w.Day),
				Date:        w.Day,
			})
		}
		seen[w.Day] = true
	}
}

func (v *Validator) validateDraft(result *ValidationResult, d models.Draft) {
	v.validateSession(result, d.Session)

	if len(d.CompletedSets) != len(d.Session.Exercises) {
		result.add(Conflict{
			Type:        ConflictDraftCounts,
			Description: fmt.Sprintf("Draft tracks %d exercises but the session has %d", len(d.CompletedSets), len(d.Session.Exercises)),
			Items:       []string{d.Session.ID},
		})
		return
	}

	// Counts are compared per exercise id; the same id may appear twice
	counted := make(map[string]int)
	for i, ex := range d.Session.Exercises {
		counted[ex.ExerciseID] += d.CompletedSets[i]
	}
	ids := make([]string, 0, len(counted))
	for id := range counted {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := counted[id]
		if logged := len(d.Session.SetsFor(id)); logged != n {
			result.add(Conflict{
				Type:        ConflictDraftCounts,
				Description: fmt.Sprintf("Draft counts %d completed sets of %s but %d were logged", n, id, logged),
				Items:       []string{d.Session.ID, id},
			})
		}
	}
}

func isValidDate(day string) bool {
	_, err := time.Parse(constants.DateFormat, day)
	return err == nil
}
