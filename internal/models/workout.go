package models

import "time"

// ExercisePrescription is the planned work for one exercise in a session
type ExercisePrescription struct {
	ExerciseID string `json:"exerciseId" yaml:"exercise"`
	Sets       int    `json:"sets" yaml:"sets"`
	Reps       string `json:"reps" yaml:"reps"` // rep range ("8-10") or a literal duration for cardio ("20 min")
}

// LoggedSet is one completed set. Sets are never edited once logged.
type LoggedSet struct {
	ExerciseID string    `json:"exerciseId"`
	SetIndex   int       `json:"setIndex"`
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"` // kg
	LoggedAt   time.Time `json:"loggedAt"`
}

// Volume returns reps x weight for the set
func (s LoggedSet) Volume() float64 {
	return float64(s.Reps) * s.Weight
}

// WorkoutSession is a single workout attempt
type WorkoutSession struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Exercises   []ExercisePrescription `json:"exercises"`
	Sets        []LoggedSet            `json:"sets"`
	StartedAt   time.Time              `json:"startedAt"`
	CompletedAt *time.Time             `json:"completedAt,omitempty"`
	Volume      float64                `json:"volume"`
}

// TotalVolume sums reps x weight over every logged set
func (w WorkoutSession) TotalVolume() float64 {
	var total float64
	for _, s := range w.Sets {
		total += s.Volume()
	}
	return total
}

// SetsFor returns the sets logged for the given exercise, in log order
func (w WorkoutSession) SetsFor(exerciseID string) []LoggedSet {
	var sets []LoggedSet
	for _, s := range w.Sets {
		if s.ExerciseID == exerciseID {
			sets = append(sets, s)
		}
	}
	return sets
}

// PrescribedSets is the sum of set counts over all prescriptions
func (w WorkoutSession) PrescribedSets() int {
	total := 0
	for _, ex := range w.Exercises {
		total += ex.Sets
	}
	return total
}

// Clone returns a deep copy of the session
func (w WorkoutSession) Clone() WorkoutSession {
	c := w
	c.Exercises = append([]ExercisePrescription(nil), w.Exercises...)
	c.Sets = append([]LoggedSet(nil), w.Sets...)
	if w.CompletedAt != nil {
		t := *w.CompletedAt
		c.CompletedAt = &t
	}
	return c
}

// Draft is a checkpoint of an in-progress session
type Draft struct {
	Session WorkoutSession `json:"session"`
	// CompletedSets is indexed like Session.Exercises
	CompletedSets []int     `json:"completedSets"`
	Resting       bool      `json:"resting"`
	SavedAt       time.Time `json:"savedAt"`
}

// PersonalRecord is the heaviest set ever logged for an exercise
type PersonalRecord struct {
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
	Date   time.Time `json:"date"`
}
