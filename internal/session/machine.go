// Package session implements the lifecycle of a single workout:
// idle, in progress, exercise active / resting, then completed or discarded.
package session

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/models"
)

// Machine owns at most one in-progress session and its draft checkpoint.
// It is not safe for concurrent use; the engine serializes access.
type Machine struct {
	state     State
	session   models.WorkoutSession
	completed []int
	active    int
	draft     *models.Draft

	now   func() time.Time
	newID func() string
}

// Option configures a Machine
type Option func(*Machine)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithIDGenerator overrides session id generation
func WithIDGenerator(newID func() string) Option {
	return func(m *Machine) { m.newID = newID }
}

// New returns an idle machine
func New(opts ...Option) *Machine {
	m := &Machine{
		state:  StateIdle,
		active: -1,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Session returns a copy of the in-progress session
func (m *Machine) Session() (models.WorkoutSession, bool) {
	if !m.state.Active() {
		return models.WorkoutSession{}, false
	}
	return m.session.Clone(), true
}

// CompletedSets returns the per-exercise completed-set counts of the in-progress session
func (m *Machine) CompletedSets() []int {
	return append([]int(nil), m.completed...)
}

// ActiveExercise returns the selected exercise index, or -1
func (m *Machine) ActiveExercise() int {
	if m.state != StateExerciseActive {
		return -1
	}
	return m.active
}

// Resting reports whether the rest period after a set is running
func (m *Machine) Resting() bool {
	return m.state == StateResting
}

// Draft returns a copy of the saved checkpoint, or nil
func (m *Machine) Draft() *models.Draft {
	if m.draft == nil {
		return nil
	}
	d := *m.draft
	d.Session = m.draft.Session.Clone()
	d.CompletedSets = append([]int(nil), m.draft.CompletedSets...)
	return &d
}

// SetDraft installs a checkpoint loaded from storage without touching the current session
func (m *Machine) SetDraft(d *models.Draft) {
	if d == nil {
		m.draft = nil
		return
	}
	c := *d
	c.Session = d.Session.Clone()
	c.CompletedSets = append([]int(nil), d.CompletedSets...)
	m.draft = &c
}

// Start begins a new session. Any draft for a different session type is dropped.
func (m *Machine) Start(sessionType string, exercises []models.ExercisePrescription) error {
	if m.state.Active() {
		return errors.InvalidTransition("a %s session is already in progress", m.session.Type)
	}
	if len(exercises) == 0 {
		return errors.InvalidInput("a session needs at least one exercise")
	}
	for i, ex := range exercises {
		if strings.TrimSpace(ex.ExerciseID) == "" {
			return errors.InvalidInput("exercise %d has no id", i)
		}
		if ex.Sets < 1 {
			return errors.InvalidInput("exercise %d (%s) must prescribe at least one set", i, ex.ExerciseID)
		}
	}

	sessionType = strings.TrimSpace(sessionType)
	if sessionType == "" {
		sessionType = constants.CustomSessionType
	}

	if m.draft != nil && m.draft.Session.Type != sessionType {
		m.draft = nil
	}

	m.session = models.WorkoutSession{
		ID:        m.newID(),
		Type:      sessionType,
		Exercises: append([]models.ExercisePrescription(nil), exercises...),
		Sets:      []models.LoggedSet{},
		StartedAt: m.now(),
	}
	m.completed = make([]int, len(exercises))
	m.active = -1
	m.state = StateInProgress
	return nil
}

// Select makes the exercise at index active. Selecting an exhausted or
// non-existent exercise leaves the machine unchanged.
func (m *Machine) Select(index int) error {
	if m.state != StateInProgress {
		return errors.InvalidTransition("cannot select an exercise while %s", m.state)
	}
	if index < 0 || index >= len(m.session.Exercises) {
		return errors.InvalidTransition("no exercise at index %d", index)
	}
	if m.completed[index] >= m.session.Exercises[index].Sets {
		return errors.InvalidTransition("%s already has all %d sets", m.session.Exercises[index].ExerciseID, m.session.Exercises[index].Sets)
	}
	m.active = index
	m.state = StateExerciseActive
	return nil
}

// LogSet appends a set for the active exercise and starts the rest period.
// done is true when every prescribed set of the session has been logged; the
// machine is then back in progress and the owner is expected to complete it.
func (m *Machine) LogSet(reps int, weight float64) (done bool, err error) {
	if m.state != StateExerciseActive {
		return false, errors.InvalidTransition("no active exercise to log a set for")
	}
	if err := ValidateSet(reps, weight); err != nil {
		return false, err
	}

	ex := m.session.Exercises[m.active]
	m.session.Sets = append(m.session.Sets, models.LoggedSet{
		ExerciseID: ex.ExerciseID,
		SetIndex:   m.completed[m.active],
		Reps:       reps,
		Weight:     weight,
		LoggedAt:   m.now(),
	})
	m.completed[m.active]++
	m.active = -1

	if m.loggedTotal() >= m.session.PrescribedSets() {
		m.state = StateInProgress
		return true, nil
	}
	m.state = StateResting
	return false, nil
}

// ValidateSet rejects non-positive and non-finite values
func ValidateSet(reps int, weight float64) error {
	if reps <= 0 {
		return errors.InvalidInput("reps must be a positive number, got %d", reps)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return errors.InvalidInput("weight must be a positive number, got %v", weight)
	}
	return nil
}

func (m *Machine) loggedTotal() int {
	total := 0
	for _, c := range m.completed {
		total += c
	}
	return total
}

// SkipRest ends the rest period and returns to exercise selection
func (m *Machine) SkipRest() error {
	if m.state != StateResting {
		return errors.InvalidTransition("not resting")
	}
	m.state = StateInProgress
	return nil
}

// RestExpired is the rest-timer callback; it behaves like SkipRest
func (m *Machine) RestExpired() error {
	return m.SkipRest()
}

// Complete finishes the session. commit runs before the transition; if it
// fails the session stays in progress, so completion and its side effects
// happen together or not at all.
func (m *Machine) Complete(commit func(models.WorkoutSession) error) (models.WorkoutSession, error) {
	if !m.state.Active() {
		return models.WorkoutSession{}, errors.InvalidTransition("no session in progress")
	}

	finished := m.session.Clone()
	completedAt := m.now()
	finished.CompletedAt = &completedAt
	finished.Volume = finished.TotalVolume()

	if commit != nil {
		if err := commit(finished); err != nil {
			return models.WorkoutSession{}, err
		}
	}

	m.state = StateCompleted
	m.active = -1
	m.draft = nil
	return finished, nil
}

// Discard abandons the session without recording history
func (m *Machine) Discard() error {
	if !m.state.Active() {
		return errors.InvalidTransition("no session in progress")
	}
	m.state = StateDiscarded
	m.active = -1
	m.draft = nil
	return nil
}

// Swap replaces the exercise at index with newID, keeping its set count and
// rep range. Only allowed before any set of that exercise is logged.
func (m *Machine) Swap(index int, newID string) error {
	if !m.state.Active() {
		return errors.InvalidTransition("no session in progress")
	}
	if index < 0 || index >= len(m.session.Exercises) {
		return errors.InvalidTransition("no exercise at index %d", index)
	}
	if m.completed[index] > 0 {
		return errors.InvalidTransition("%s already has logged sets", m.session.Exercises[index].ExerciseID)
	}
	newID = strings.TrimSpace(newID)
	if newID == "" {
		return errors.InvalidInput("replacement exercise id is empty")
	}
	m.session.Exercises[index].ExerciseID = newID
	return nil
}

// SaveDraft checkpoints the in-progress session
func (m *Machine) SaveDraft() (models.Draft, error) {
	if !m.state.Active() {
		return models.Draft{}, errors.InvalidTransition("no session in progress")
	}
	m.draft = &models.Draft{
		Session:       m.session.Clone(),
		CompletedSets: append([]int(nil), m.completed...),
		Resting:       m.state == StateResting,
		SavedAt:       m.now(),
	}
	return *m.Draft(), nil
}

// ResumeDraft restores the checkpoint into an in-progress session. The draft
// is kept until the session is completed or discarded.
func (m *Machine) ResumeDraft() error {
	if m.state.Active() {
		return errors.InvalidTransition("a session is already in progress")
	}
	if m.draft == nil {
		return errors.InvalidTransition("no draft to resume")
	}

	m.session = m.draft.Session.Clone()
	if m.session.Sets == nil {
		m.session.Sets = []models.LoggedSet{}
	}
	m.completed = append([]int(nil), m.draft.CompletedSets...)
	if len(m.completed) != len(m.session.Exercises) {
		m.completed = models.CompletedCounts(m.session)
	}
	m.active = -1
	m.state = StateInProgress
	return nil
}

// DiscardDraft drops the checkpoint
func (m *Machine) DiscardDraft() error {
	if m.draft == nil {
		return errors.InvalidTransition("no draft to discard")
	}
	m.draft = nil
	return nil
}
