package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/engine"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/session"
)

// Session commands resume the saved draft before acting and checkpoint the
// workout again afterwards, so one workout can span many invocations.
type SessionCmd struct {
	Start        SessionStartCmd        `cmd:"" help:"Start a workout from a template or a list of exercises."`
	Select       SessionSelectCmd       `cmd:"" help:"Show an exercise of the current workout with its target."`
	Log          SessionLogCmd          `cmd:"" help:"Log a set."`
	Rest         SessionRestCmd         `cmd:"" help:"Run or skip the rest period after a set."`
	Swap         SessionSwapCmd         `cmd:"" help:"Replace an exercise with an alternative."`
	Complete     SessionCompleteCmd     `cmd:"" help:"Finish the workout and update records."`
	Discard      SessionDiscardCmd      `cmd:"" help:"Abandon the workout without recording it."`
	Status       SessionStatusCmd       `cmd:"" help:"Show the workout in progress."`
	DraftSave    SessionDraftSaveCmd    `cmd:"" name:"draft-save" help:"Checkpoint the workout in progress."`
	DraftResume  SessionDraftResumeCmd  `cmd:"" name:"draft-resume" help:"Resume the saved workout."`
	DraftDiscard SessionDraftDiscardCmd `cmd:"" name:"draft-discard" help:"Drop the saved workout."`
}

// workout returns the engine with the saved draft resumed, if there is one
func (ctx *Context) workout() (*engine.Engine, error) {
	e, err := ctx.Engine()
	if err != nil {
		return nil, err
	}
	if _, active := e.ActiveSession(); !active && e.Draft() != nil {
		if err := e.ResumeDraft(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// checkpoint saves the workout in progress as the draft
func checkpoint(e *engine.Engine) error {
	if _, active := e.ActiveSession(); !active {
		return nil
	}
	_, err := e.SaveDraft()
	return err
}

func activeStatus(e *engine.Engine) (engine.Status, error) {
	status, ok := e.ActiveSession()
	if !ok || !status.State.Active() {
		return engine.Status{}, fmt.Errorf("no workout in progress (start one with 'liftlog session start')")
	}
	return status, nil
}

// position converts a 1-based exercise position to an index
func position(status engine.Status, pos int) (int, error) {
	if pos < 1 || pos > len(status.Session.Exercises) {
		return 0, fmt.Errorf("no exercise at position %d (workout has %d)", pos, len(status.Session.Exercises))
	}
	return pos - 1, nil
}

type SessionStartCmd struct {
	Type     string   `arg:"" optional:"" help:"Workout type (push, pull, legs, cardio). Defaults to the next in the rotation."`
	Exercise []string `short:"e" help:"Custom exercise as id[:sets[:reps]], repeatable."`
}

func (c *SessionStartCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}

	// A draft of another type is left in place; starting drops it.
	// Otherwise the draft comes back and blocks a second start.
	stale := ""
	if d := e.Draft(); d != nil {
		if requested := c.explicitType(); requested != "" && requested != d.Session.Type {
			stale = d.Session.Type
		} else if e, err = ctx.workout(); err != nil {
			return err
		}
	}

	if len(c.Exercise) > 0 {
		var list []models.ExercisePrescription
		for _, raw := range c.Exercise {
			p, err := parsePrescription(raw)
			if err != nil {
				return err
			}
			list = append(list, p)
		}
		err = e.StartSession(c.Type, list)
	} else {
		dayType := c.Type
		if dayType == "" {
			dayType = e.GetNextWorkoutType()
		}
		err = e.StartFromTemplate(dayType)
	}
	if err != nil {
		return err
	}
	if err := checkpoint(e); err != nil {
		return err
	}

	status, _ := e.ActiveSession()
	if stale != "" {
		ctx.println(warnStyle.Render(fmt.Sprintf("Dropped the saved %s workout", stale)))
	}
	ctx.println(okStyle.Render(fmt.Sprintf("✓ Started %s workout", status.Session.Type)))
	printStatus(ctx, status)
	return nil
}

// explicitType is the workout type named on the command line, if any
func (c *SessionStartCmd) explicitType() string {
	t := strings.TrimSpace(c.Type)
	if t == "" && len(c.Exercise) > 0 {
		return constants.CustomSessionType
	}
	return t
}

type SessionSelectCmd struct {
	Position int `arg:"" help:"Exercise position (1-based)."`
}

func (c *SessionSelectCmd) Run(ctx *Context) error {
	e, err := ctx.workout()
	if err != nil {
		return err
	}
	status, err := activeStatus(e)
	if err != nil {
		return err
	}
	index, err := position(status, c.Position)
	if err != nil {
		return err
	}
	if err := e.SelectExercise(index); err != nil {
		return err
	}
	if err := checkpoint(e); err != nil {
		return err
	}

	ex := status.Session.Exercises[index]
	ctx.println(headerStyle.Render(ctx.exerciseLabel(ex.ExerciseID)))
	ctx.printf("  Prescribed: %d x %s (%d done)\n", ex.Sets, ex.Reps, status.CompletedSets[index])
	if s, ok := e.GetProgressiveSuggestion(ex.ExerciseID); ok {
		ctx.printf("  Target:     %s x %s\n", formatKg(s.TargetWeight), s.TargetReps)
		ctx.println(mutedStyle.Render("  " + s.Rationale))
	}
	if pr, ok := e.GetPersonalRecords()[ex.ExerciseID]; ok {
		ctx.printf("  Record:     %s x %d\n", formatKg(pr.Weight), pr.Reps)
	}
	return nil
}

// SessionLogCmd logs to the given exercise, or the active one, or the first
// exercise with sets remaining
type SessionLogCmd struct {
	Reps     int     `arg:"" help:"Repetitions performed."`
	Weight   float64 `arg:"" help:"Weight in kg."`
	Position int     `short:"p" help:"Exercise position (1-based)."`
}

func (c *SessionLogCmd) Run(ctx *Context) error {
	e, err := ctx.workout()
	if err != nil {
		return err
	}
	status, err := activeStatus(e)
	if err != nil {
		return err
	}
	// Logging the next set ends a rest period still running in this process
	if status.State == session.StateResting {
		if err := e.SkipRest(); err != nil {
			return err
		}
		status.State = session.StateInProgress
	}

	index := -1
	switch {
	case c.Position != 0:
		if index, err = position(status, c.Position); err != nil {
			return err
		}
	case status.State == session.StateExerciseActive:
		index = status.ActiveExercise
	default:
		for i, ex := range status.Session.Exercises {
			if status.CompletedSets[i] < ex.Sets {
				index = i
				break
			}
		}
	}
	if index < 0 {
		return fmt.Errorf("every prescribed set is logged; finish with 'liftlog session complete'")
	}
	if status.State != session.StateExerciseActive || status.ActiveExercise != index {
		if err := e.SelectExercise(index); err != nil {
			return err
		}
	}

	result, err := e.LogSet(c.Reps, c.Weight)
	if err != nil {
		return err
	}

	ex := status.Session.Exercises[index]
	ctx.printf("✓ %s set %d/%d: %d x %s\n",
		ctx.exerciseLabel(ex.ExerciseID), result.Set.SetIndex+1, ex.Sets, result.Set.Reps, formatKg(result.Set.Weight))

	if result.Completion != nil {
		printCompletion(ctx, *result.Completion)
		return nil
	}
	if err := checkpoint(e); err != nil {
		return err
	}
	if result.Resting {
		ctx.println(mutedStyle.Render("Rest period started. Run 'liftlog session rest' to time it."))
	}
	return nil
}

type SessionRestCmd struct {
	Duration time.Duration `short:"d" default:"90s" help:"Rest period length."`
	Skip     bool          `help:"End the rest period now."`
}

func (c *SessionRestCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	d := e.Draft()
	if d == nil || !d.Resting {
		ctx.println("No rest period running.")
		return nil
	}

	if !c.Skip {
		ctx.printf("Resting for %s...\n", c.Duration)
		time.Sleep(c.Duration)
	}

	e, err = ctx.workout()
	if err != nil {
		return err
	}
	// The resumed workout is no longer resting; saving it clears the flag
	if err := checkpoint(e); err != nil {
		return err
	}
	if c.Skip {
		ctx.println("Rest skipped.")
	} else {
		ctx.println(okStyle.Render("Rest over. Next set!"))
	}
	return nil
}

type SessionSwapCmd struct {
	Position int    `arg:"" help:"Exercise position (1-based)."`
	Exercise string `arg:"" optional:"" help:"Replacement exercise id. Omit to list alternatives."`
}

func (c *SessionSwapCmd) Run(ctx *Context) error {
	e, err := ctx.workout()
	if err != nil {
		return err
	}
	status, err := activeStatus(e)
	if err != nil {
		return err
	}
	index, err := position(status, c.Position)
	if err != nil {
		return err
	}
	current := status.Session.Exercises[index].ExerciseID

	if c.Exercise == "" {
		printAlternatives(ctx, current, e.GetAlternatives(current))
		return nil
	}

	if err := e.SwapExercise(index, c.Exercise); err != nil {
		return err
	}
	if err := checkpoint(e); err != nil {
		return err
	}
	ctx.printf("✓ Swapped %s for %s\n", ctx.exerciseLabel(current), ctx.exerciseLabel(c.Exercise))
	return nil
}

type SessionCompleteCmd struct{}

func (c *SessionCompleteCmd) Run(ctx *Context) error {
	e, err := ctx.workout()
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	completion, err := e.CompleteSession()
	if err != nil {
		return err
	}
	printCompletion(ctx, completion)
	return nil
}

type SessionDiscardCmd struct{}

func (c *SessionDiscardCmd) Run(ctx *Context) error {
	e, err := ctx.workout()
	if err != nil {
		return err
	}
	if err := e.DiscardSession(); err != nil {
		return err
	}
	ctx.println("Workout discarded.")
	return nil
}

type SessionStatusCmd struct{}

func (c *SessionStatusCmd) Run(ctx *Context) error {
	e, err := ctx.workout()
	if err != nil {
		return err
	}
	status, ok := e.ActiveSession()
	if !ok || !status.State.Active() {
		ctx.printf("No workout in progress. Next up: %s\n", e.GetNextWorkoutType())
		return nil
	}
	printStatus(ctx, status)
	return nil
}

type SessionDraftSaveCmd struct{}

func (c *SessionDraftSaveCmd) Run(ctx *Context) error {
	e, err := ctx.workout()
	if err != nil {
		return err
	}
	d, err := e.SaveDraft()
	if err != nil {
		return err
	}
	ctx.printf("✓ Draft saved (%d sets logged)\n", len(d.Session.Sets))
	return nil
}

type SessionDraftResumeCmd struct{}

func (c *SessionDraftResumeCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	if err := e.ResumeDraft(); err != nil {
		return err
	}
	status, _ := e.ActiveSession()
	ctx.println(okStyle.Render("✓ Draft resumed"))
	printStatus(ctx, status)
	return nil
}

type SessionDraftDiscardCmd struct{}

func (c *SessionDraftDiscardCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	if err := e.DiscardDraft(); err != nil {
		return err
	}
	ctx.println("Draft discarded.")
	return nil
}

func printStatus(ctx *Context, status engine.Status) {
	s := status.Session
	ctx.println(headerStyle.Render(fmt.Sprintf("%s workout", titleCase(s.Type))) +
		mutedStyle.Render(fmt.Sprintf("  started %s", s.StartedAt.Local().Format("15:04"))))

	for i, ex := range s.Exercises {
		marker := " "
		if i == status.ActiveExercise {
			marker = ">"
		}
		line := fmt.Sprintf("%s %d. %-36s %d/%d x %s", marker, i+1, ctx.exerciseLabel(ex.ExerciseID), status.CompletedSets[i], ex.Sets, ex.Reps)
		if status.CompletedSets[i] >= ex.Sets {
			line = mutedStyle.Render(line)
		}
		ctx.println(line)
	}
	ctx.printf("\n%d/%d sets, volume %.0f kg\n", len(s.Sets), s.PrescribedSets(), s.TotalVolume())
}

func printCompletion(ctx *Context, c engine.Completion) {
	s := c.Session
	duration := time.Duration(0)
	if s.CompletedAt != nil {
		duration = s.CompletedAt.Sub(s.StartedAt).Round(time.Minute)
	}
	ctx.println(okStyle.Render(fmt.Sprintf("✓ %s workout complete", s.Type)))
	ctx.printf("  %d sets, volume %.0f kg, %s\n", len(s.Sets), s.Volume, duration)
	for _, id := range c.NewRecords {
		ctx.println(recordStyle.Render("NEW PR") + " " + ctx.exerciseLabel(id))
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
