package recommend

import (
	"fmt"
	"math"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

// SuggestionKind is the type of progression suggested for the next session
type SuggestionKind string

const (
	KindWeightIncrease SuggestionKind = "weight_increase"
	KindWeightOrReps   SuggestionKind = "weight_or_reps"
	KindRepsIncrease   SuggestionKind = "reps_increase"
	KindMaintain       SuggestionKind = "maintain"
)

// Suggestion is the progressive-overload target for an exercise
type Suggestion struct {
	ExerciseID    string         `json:"exerciseId"`
	Kind          SuggestionKind `json:"kind"`
	CurrentWeight float64        `json:"currentWeight"`
	TargetWeight  float64        `json:"targetWeight"`
	TargetReps    string         `json:"targetReps"`
	Rationale     string         `json:"rationale"`

	// Stats of the session the suggestion is based on
	SessionID string  `json:"sessionId"`
	Sets      int     `json:"sets"`
	MinReps   int     `json:"minReps"`
	MaxReps   int     `json:"maxReps"`
	AvgReps   float64 `json:"avgReps"`
}

type setStats struct {
	count     int
	minReps   int
	maxReps   int
	avgReps   float64
	avgWeight float64
}

func statsFor(exerciseID string, sets []models.LoggedSet) (setStats, bool) {
	st := setStats{minReps: math.MaxInt}
	var repSum int
	var weightSum float64
	for _, s := range sets {
		if s.ExerciseID != exerciseID {
			continue
		}
		st.count++
		repSum += s.Reps
		weightSum += s.Weight
		if s.Reps < st.minReps {
			st.minReps = s.Reps
		}
		if s.Reps > st.maxReps {
			st.maxReps = s.Reps
		}
	}
	if st.count == 0 {
		return setStats{}, false
	}
	st.avgReps = float64(repSum) / float64(st.count)
	st.avgWeight = weightSum / float64(st.count)
	return st, true
}

// Suggest applies the progressive-overload rule to the given session's sets for
// exerciseID. It returns false when the session has no sets for the exercise.
// Suggest is pure: the same session always yields the same suggestion.
func Suggest(session models.WorkoutSession, exerciseID string) (Suggestion, bool) {
	st, ok := statsFor(exerciseID, session.Sets)
	if !ok {
		return Suggestion{}, false
	}

	current := roundKg(st.avgWeight)
	heavier := roundKg(st.avgWeight + constants.OverloadIncrementKg)
	nextRep := fmt.Sprintf("%d", st.maxReps+1)

	s := Suggestion{
		ExerciseID:    exerciseID,
		CurrentWeight: current,
		SessionID:     session.ID,
		Sets:          st.count,
		MinReps:       st.minReps,
		MaxReps:       st.maxReps,
		AvgReps:       math.Round(st.avgReps*100) / 100,
	}

	switch {
	case st.minReps >= constants.OverloadHighRepFloor:
		s.Kind = KindWeightIncrease
		s.TargetWeight = heavier
		s.TargetReps = constants.OverloadResetRepRange
		s.Rationale = fmt.Sprintf("Every set reached %d+ reps. Add %.1f kg and work back up from %s reps.",
			constants.OverloadHighRepFloor, constants.OverloadIncrementKg, constants.OverloadResetRepRange)
	case st.minReps >= constants.OverloadMidRepFloor:
		s.Kind = KindWeightOrReps
		s.TargetWeight = heavier
		s.TargetReps = nextRep
		s.Rationale = fmt.Sprintf("Every set reached %d+ reps. Either add %.1f kg (%s kg) or aim for %s reps at %s kg.",
			constants.OverloadMidRepFloor, constants.OverloadIncrementKg, formatKg(heavier), nextRep, formatKg(current))
	case st.minReps >= constants.OverloadLowRepFloor && st.maxReps < constants.OverloadHighRepFloor:
		s.Kind = KindRepsIncrease
		s.TargetWeight = current
		s.TargetReps = nextRep
		s.Rationale = fmt.Sprintf("Keep %s kg and aim for %s reps.", formatKg(current), nextRep)
	case st.maxReps < constants.OverloadLowRepFloor:
		s.Kind = KindMaintain
		s.TargetWeight = current
		s.TargetReps = fmt.Sprintf("%d", st.maxReps)
		s.Rationale = fmt.Sprintf("Fewer than %d reps per set. Keep the weight and focus on form.", constants.OverloadLowRepFloor)
	default:
		s.Kind = KindMaintain
		s.TargetWeight = current
		s.TargetReps = fmt.Sprintf("%d", st.maxReps)
		s.Rationale = "Rep counts are uneven across sets. Repeat the same weight and reps."
	}

	return s, true
}

func roundKg(kg float64) float64 {
	return math.Round(kg*100) / 100
}

func formatKg(kg float64) string {
	if kg == math.Trunc(kg) {
		return fmt.Sprintf("%.0f", kg)
	}
	return fmt.Sprintf("%g", kg)
}
