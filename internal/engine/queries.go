package engine

import (
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/recommend"
)

// GetAlternatives returns the substitutes for an exercise, sorted. An empty
// result means the exercise has none.
func (e *Engine) GetAlternatives(exerciseID string) []string {
	return e.resolver.Resolve(exerciseID)
}

// GetProgressiveSuggestion suggests the next target for an exercise from the
// most recent session that logged it
func (e *Engine) GetProgressiveSuggestion(exerciseID string) (recommend.Suggestion, bool) {
	last, ok := e.GetLastSession(exerciseID)
	if !ok {
		return recommend.Suggestion{}, false
	}
	return recommend.Suggest(last, exerciseID)
}

// GetLastSession returns the most recent completed session that logged the exercise
func (e *Engine) GetLastSession(exerciseID string) (models.WorkoutSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.LastSessionWith(exerciseID)
}

// GetNextWorkoutType returns the rotation day after the last completed one.
// Custom sessions do not advance the rotation.
func (e *Engine) GetNextWorkoutType() string {
	rotation := e.catalog.Rotation()
	if len(rotation) == 0 {
		return ""
	}

	e.mu.Lock()
	last, ok := e.tracker.LastRotationType(rotation)
	e.mu.Unlock()
	if !ok {
		return rotation[0]
	}

	for i, day := range rotation {
		if day == last {
			return rotation[(i+1)%len(rotation)]
		}
	}
	return rotation[0]
}

// GetPersonalRecords returns a copy of the personal-record map
func (e *Engine) GetPersonalRecords() map[string]models.PersonalRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Records()
}

// History returns the completed sessions, oldest first
func (e *Engine) History() []models.WorkoutSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.History()
}

// CheckIns returns the daily check-ins sorted by day
func (e *Engine) CheckIns() []models.DailyCheckIn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.CheckIns()
}

// WeightHistory returns body-weight entries sorted by day
func (e *Engine) WeightHistory() []models.WeightEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.WeightHistory()
}

// WeeklyReviews returns the applied reviews, oldest first
func (e *Engine) WeeklyReviews() []models.WeeklyReview {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Reviews()
}
