package session

// State is the lifecycle state of the session machine
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateExerciseActive
	StateResting
	StateCompleted
	StateDiscarded
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StateInProgress:     "in_progress",
	StateExerciseActive: "exercise_active",
	StateResting:        "resting",
	StateCompleted:      "completed",
	StateDiscarded:      "discarded",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Active reports whether a session is in progress in this state
func (s State) Active() bool {
	return s == StateInProgress || s == StateExerciseActive || s == StateResting
}
