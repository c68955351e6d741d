// Package records keeps the workout history, the personal-record map,
// body-weight history and daily check-ins.
package records

import (
	"sort"
	"time"

	"github.com/julianstephens/liftlog/internal/models"
)

// Tracker is not safe for concurrent use; the engine serializes access.
type Tracker struct {
	history  []models.WorkoutSession
	records  map[string]models.PersonalRecord
	weights  []models.WeightEntry
	checkIns []models.DailyCheckIn
	reviews  []models.WeeklyReview
}

// NewTracker returns an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		history:  []models.WorkoutSession{},
		records:  make(map[string]models.PersonalRecord),
		weights:  []models.WeightEntry{},
		checkIns: []models.DailyCheckIn{},
		reviews:  []models.WeeklyReview{},
	}
}

// FromSnapshot builds a tracker over copies of the snapshot's collections
func FromSnapshot(s models.Snapshot) *Tracker {
	t := NewTracker()
	for _, w := range s.WorkoutHistory {
		t.history = append(t.history, w.Clone())
	}
	for id, pr := range s.PersonalRecords {
		t.records[id] = pr
	}
	t.weights = append(t.weights, s.WeightHistory...)
	t.checkIns = append(t.checkIns, s.DailyCheckIns...)
	t.reviews = append(t.reviews, s.WeeklyReviews...)
	sortWeights(t.weights)
	sortCheckIns(t.checkIns)
	return t
}

// Fill copies the tracker's collections into s
func (t *Tracker) Fill(s *models.Snapshot) {
	s.WorkoutHistory = t.History()
	s.PersonalRecords = t.Records()
	s.WeightHistory = t.WeightHistory()
	s.DailyCheckIns = t.CheckIns()
	s.WeeklyReviews = t.Reviews()
}

// UpdateRecords runs one pass over the session's sets and raises every record
// the session beat. Records only move up: a set must be strictly heavier than
// the current record. It returns the ids whose record changed, sorted.
func UpdateRecords(records map[string]models.PersonalRecord, session models.WorkoutSession) []string {
	date := session.StartedAt
	if session.CompletedAt != nil {
		date = *session.CompletedAt
	}

	changed := make(map[string]struct{})
	for _, set := range session.Sets {
		current, ok := records[set.ExerciseID]
		if ok && set.Weight <= current.Weight {
			continue
		}
		records[set.ExerciseID] = models.PersonalRecord{
			Weight: set.Weight,
			Reps:   set.Reps,
			Date:   date,
		}
		changed[set.ExerciseID] = struct{}{}
	}

	ids := make([]string, 0, len(changed))
	for id := range changed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Commit records a completed session: one record pass, then the history append.
// It returns the exercises that set a new record in this session.
func (t *Tracker) Commit(session models.WorkoutSession) []string {
	s := session.Clone()
	s.Volume = s.TotalVolume()
	newRecords := UpdateRecords(t.records, s)
	t.history = append(t.history, s)
	return newRecords
}

// History returns a copy of all completed sessions in completion order
func (t *Tracker) History() []models.WorkoutSession {
	out := make([]models.WorkoutSession, 0, len(t.history))
	for _, w := range t.history {
		out = append(out, w.Clone())
	}
	return out
}

// LastSessionWith returns the most recent completed session that logged at
// least one set of exerciseID
func (t *Tracker) LastSessionWith(exerciseID string) (models.WorkoutSession, bool) {
	for i := len(t.history) - 1; i >= 0; i-- {
		for _, set := range t.history[i].Sets {
			if set.ExerciseID == exerciseID {
				return t.history[i].Clone(), true
			}
		}
	}
	return models.WorkoutSession{}, false
}

// LastRotationType returns the type of the most recent session whose type is in
// rotation, ignoring custom sessions
func (t *Tracker) LastRotationType(rotation []string) (string, bool) {
	for i := len(t.history) - 1; i >= 0; i-- {
		for _, day := range rotation {
			if t.history[i].Type == day {
				return day, true
			}
		}
	}
	return "", false
}

// Records returns a copy of the personal-record map
func (t *Tracker) Records() map[string]models.PersonalRecord {
	out := make(map[string]models.PersonalRecord, len(t.records))
	for id, pr := range t.records {
		out[id] = pr
	}
	return out
}

// Record returns the personal record for one exercise
func (t *Tracker) Record(exerciseID string) (models.PersonalRecord, bool) {
	pr, ok := t.records[exerciseID]
	return pr, ok
}

// AddCheckIn stores a check-in. The latest check-in for a calendar day replaces
// any earlier one for that day; replaced reports whether that happened.
func (t *Tracker) AddCheckIn(c models.DailyCheckIn) (replaced bool) {
	for i := range t.checkIns {
		if t.checkIns[i].Day == c.Day {
			t.checkIns[i] = c
			return true
		}
	}
	t.checkIns = append(t.checkIns, c)
	sortCheckIns(t.checkIns)
	return false
}

// RecordWeight stores a body-weight measurement, latest per day wins
func (t *Tracker) RecordWeight(day string, weight float64, at time.Time) (replaced bool) {
	entry := models.WeightEntry{Day: day, Weight: weight, At: at}
	for i := range t.weights {
		if t.weights[i].Day == day {
			t.weights[i] = entry
			return true
		}
	}
	t.weights = append(t.weights, entry)
	sortWeights(t.weights)
	return false
}

// CheckIns returns the check-ins sorted by day
func (t *Tracker) CheckIns() []models.DailyCheckIn {
	return append([]models.DailyCheckIn{}, t.checkIns...)
}

// WeightHistory returns the weight entries sorted by day
func (t *Tracker) WeightHistory() []models.WeightEntry {
	return append([]models.WeightEntry{}, t.weights...)
}

// AddReview appends an applied weekly review
func (t *Tracker) AddReview(r models.WeeklyReview) {
	t.reviews = append(t.reviews, r)
}

// Reviews returns the applied weekly reviews, oldest first
func (t *Tracker) Reviews() []models.WeeklyReview {
	return append([]models.WeeklyReview{}, t.reviews...)
}

func sortCheckIns(c []models.DailyCheckIn) {
	sort.SliceStable(c, func(i, j int) bool { return c[i].Day < c[j].Day })
}

func sortWeights(w []models.WeightEntry) {
	sort.SliceStable(w, func(i, j int) bool { return w[i].Day < w[j].Day })
}
