package engine

import (
	"strings"

	"github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/session"
)

// Completion is the result of finishing a workout
type Completion struct {
	Session models.WorkoutSession
	// NewRecords lists the exercises that set a personal record, sorted
	NewRecords []string
}

// SetResult is the outcome of logging one set
type SetResult struct {
	Set models.LoggedSet
	// Resting is true while the rest period after the set runs
	Resting bool
	// Completion is set when the set was the last prescribed one and the
	// session was completed automatically
	Completion *Completion
}

// Status describes the workout in progress
type Status struct {
	State          session.State
	Session        models.WorkoutSession
	CompletedSets  []int
	ActiveExercise int
}

// StartSession begins a workout with the given prescriptions. Every exercise
// must exist in the catalog.
func (e *Engine) StartSession(sessionType string, exercises []models.ExercisePrescription) error {
	return e.mutate(func() error {
		for _, ex := range exercises {
			if !e.catalog.Has(ex.ExerciseID) {
				return errors.InvalidInput("unknown exercise %q", ex.ExerciseID)
			}
		}
		if err := e.machine.Start(sessionType, exercises); err != nil {
			return err
		}
		s, _ := e.machine.Session()
		logger.ForSession(s.ID, s.Type).Debug("Session started", "exercises", len(s.Exercises))
		return nil
	})
}

// StartFromTemplate begins a workout using the catalog template for dayType
func (e *Engine) StartFromTemplate(dayType string) error {
	dayType = strings.TrimSpace(dayType)
	exercises, ok := e.catalog.Template(dayType)
	if !ok {
		return errors.InvalidInput("unknown workout type %q", dayType)
	}
	return e.StartSession(dayType, exercises)
}

// SelectExercise makes the exercise at index active
func (e *Engine) SelectExercise(index int) error {
	return e.mutate(func() error {
		return e.machine.Select(index)
	})
}

// LogSet records a set for the active exercise. Logging the last prescribed
// set completes the session.
func (e *Engine) LogSet(reps int, weight float64) (SetResult, error) {
	var result SetResult
	err := e.mutate(func() error {
		done, err := e.machine.LogSet(reps, weight)
		if err != nil {
			return err
		}
		s, _ := e.machine.Session()
		result.Set = s.Sets[len(s.Sets)-1]
		result.Resting = e.machine.Resting()

		if done {
			c, err := e.completeLocked()
			if err != nil {
				return err
			}
			result.Completion = &c
		}
		return nil
	})
	return result, err
}

// SkipRest ends the rest period early
func (e *Engine) SkipRest() error {
	return e.mutate(e.machine.SkipRest)
}

// RestExpired is called by the rest timer when the rest period runs out
func (e *Engine) RestExpired() error {
	return e.mutate(e.machine.RestExpired)
}

// CompleteSession finishes the workout, updates personal records and appends
// it to history
func (e *Engine) CompleteSession() (Completion, error) {
	var c Completion
	err := e.mutate(func() error {
		var err error
		c, err = e.completeLocked()
		return err
	})
	return c, err
}

func (e *Engine) completeLocked() (Completion, error) {
	var newRecords []string
	finished, err := e.machine.Complete(func(s models.WorkoutSession) error {
		newRecords = e.tracker.Commit(s)
		return nil
	})
	if err != nil {
		return Completion{}, err
	}

	logger.ForSession(finished.ID, finished.Type).Info("Session completed",
		"sets", len(finished.Sets),
		"volume", finished.Volume,
		"records", len(newRecords))
	return Completion{Session: finished, NewRecords: newRecords}, nil
}

// DiscardSession abandons the workout without recording it
func (e *Engine) DiscardSession() error {
	return e.mutate(e.machine.Discard)
}

// SwapExercise replaces the exercise at index. newID must be a catalog
// exercise or a known alternative of the current one.
func (e *Engine) SwapExercise(index int, newID string) error {
	return e.mutate(func() error {
		newID = strings.TrimSpace(newID)
		s, ok := e.machine.Session()
		if !ok {
			return errors.InvalidTransition("no session in progress")
		}
		if index < 0 || index >= len(s.Exercises) {
			return errors.InvalidTransition("no exercise at index %d", index)
		}
		current := s.Exercises[index].ExerciseID
		if !e.catalog.Has(newID) && !e.resolver.IsAlternative(current, newID) {
			return errors.InvalidInput("unknown exercise %q", newID)
		}
		if err := e.machine.Swap(index, newID); err != nil {
			return err
		}
		logger.ForSession(s.ID, s.Type).Debug("Exercise swapped", "index", index, "from", current, "to", newID)
		return nil
	})
}

// SaveDraft checkpoints the workout in progress
func (e *Engine) SaveDraft() (models.Draft, error) {
	var d models.Draft
	err := e.mutate(func() error {
		var err error
		d, err = e.machine.SaveDraft()
		return err
	})
	return d, err
}

// ResumeDraft restores the saved checkpoint as the workout in progress
func (e *Engine) ResumeDraft() error {
	return e.mutate(e.machine.ResumeDraft)
}

// DiscardDraft drops the saved checkpoint
func (e *Engine) DiscardDraft() error {
	return e.mutate(e.machine.DiscardDraft)
}

// ActiveSession describes the workout in progress, if any
func (e *Engine) ActiveSession() (Status, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.machine.Session()
	if !ok {
		return Status{State: e.machine.State(), ActiveExercise: -1}, false
	}
	return Status{
		State:          e.machine.State(),
		Session:        s,
		CompletedSets:  e.machine.CompletedSets(),
		ActiveExercise: e.machine.ActiveExercise(),
	}, true
}

// Draft returns the saved checkpoint, or nil
func (e *Engine) Draft() *models.Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Draft()
}
