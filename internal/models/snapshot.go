package models

// Snapshot is the complete persisted engine state
type Snapshot struct {
	Version         int                       `json:"version"`
	Profile         UserProfile               `json:"profile"`
	WorkoutHistory  []WorkoutSession          `json:"workoutHistory"`
	WeightHistory   []WeightEntry             `json:"weightHistory"`
	DailyCheckIns   []DailyCheckIn            `json:"dailyCheckIns"`
	PersonalRecords map[string]PersonalRecord `json:"personalRecords"`
	DraftWorkout    *Draft                    `json:"draftWorkout,omitempty"`
	WeeklyReviews   []WeeklyReview            `json:"weeklyReviews"`
}

// Normalize fills collections that older or partial snapshots left out,
// so callers never have to nil-check them. It reports whether anything was filled.
func (s *Snapshot) Normalize() bool {
	filled := false
	if s.WorkoutHistory == nil {
		s.WorkoutHistory = []WorkoutSession{}
		filled = true
	}
	if s.WeightHistory == nil {
		s.WeightHistory = []WeightEntry{}
		filled = true
	}
	if s.DailyCheckIns == nil {
		s.DailyCheckIns = []DailyCheckIn{}
		filled = true
	}
	if s.PersonalRecords == nil {
		s.PersonalRecords = make(map[string]PersonalRecord)
		filled = true
	}
	if s.WeeklyReviews == nil {
		s.WeeklyReviews = []WeeklyReview{}
		filled = true
	}
	for i := range s.WorkoutHistory {
		if s.WorkoutHistory[i].Exercises == nil {
			s.WorkoutHistory[i].Exercises = []ExercisePrescription{}
		}
		if s.WorkoutHistory[i].Sets == nil {
			s.WorkoutHistory[i].Sets = []LoggedSet{}
		}
	}
	if s.DraftWorkout != nil {
		d := s.DraftWorkout
		if d.Session.Sets == nil {
			d.Session.Sets = []LoggedSet{}
		}
		if len(d.CompletedSets) != len(d.Session.Exercises) {
			// Rebuild counts from the logged sets
			d.CompletedSets = CompletedCounts(d.Session)
			filled = true
		}
	}
	return filled
}

// CompletedCounts derives per-prescription completed-set counts from the logged sets.
// Sets are attributed to the first prescription with that exercise id that still has room.
func CompletedCounts(w WorkoutSession) []int {
	counts := make([]int, len(w.Exercises))
	for _, s := range w.Sets {
		for i, ex := range w.Exercises {
			if ex.ExerciseID == s.ExerciseID && counts[i] < ex.Sets {
				counts[i]++
				break
			}
		}
	}
	return counts
}

// NewSnapshot returns an empty, normalized snapshot at the current version
func NewSnapshot(version int) Snapshot {
	s := Snapshot{Version: version}
	s.Normalize()
	return s
}
