package cli

import (
	"fmt"
	"sort"

	"github.com/julianstephens/liftlog/internal/constants"
)

type AlternativesCmd struct {
	Exercise string `arg:"" help:"Exercise id."`
}

func (c *AlternativesCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	printAlternatives(ctx, c.Exercise, e.GetAlternatives(c.Exercise))
	return nil
}

func printAlternatives(ctx *Context, id string, alts []string) {
	if len(alts) == 0 {
		ctx.printf("No alternatives known for %s.\n", ctx.exerciseLabel(id))
		return
	}
	ctx.println(headerStyle.Render("Alternatives for " + ctx.exerciseLabel(id)))
	for _, alt := range alts {
		ctx.printf("  - %s\n", ctx.exerciseLabel(alt))
	}
}

type SuggestCmd struct {
	Exercise string `arg:"" help:"Exercise id."`
}

func (c *SuggestCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	s, ok := e.GetProgressiveSuggestion(c.Exercise)
	if !ok {
		ctx.printf("No history for %s yet. Pick a weight you can move for %s clean reps.\n",
			ctx.exerciseLabel(c.Exercise), constants.OverloadResetRepRange)
		return nil
	}

	ctx.println(headerStyle.Render("Next session: " + ctx.exerciseLabel(c.Exercise)))
	ctx.printf("  Last:    %d sets at %s, %d-%d reps\n", s.Sets, formatKg(s.CurrentWeight), s.MinReps, s.MaxReps)
	ctx.printf("  Target:  %s x %s\n", formatKg(s.TargetWeight), s.TargetReps)
	ctx.println(mutedStyle.Render("  " + s.Rationale))
	return nil
}

type LastCmd struct {
	Exercise string `arg:"" help:"Exercise id."`
}

func (c *LastCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	s, ok := e.GetLastSession(c.Exercise)
	if !ok {
		ctx.printf("%s has not been trained yet.\n", ctx.exerciseLabel(c.Exercise))
		return nil
	}

	day := s.StartedAt
	if s.CompletedAt != nil {
		day = *s.CompletedAt
	}
	ctx.println(headerStyle.Render(ctx.exerciseLabel(c.Exercise)) +
		mutedStyle.Render(fmt.Sprintf("  %s workout on %s", s.Type, day.Local().Format("Mon 2006-01-02"))))
	for i, set := range s.SetsFor(c.Exercise) {
		ctx.printf("  Set %d: %d x %s\n", i+1, set.Reps, formatKg(set.Weight))
	}
	return nil
}

type NextCmd struct{}

func (c *NextCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	next := e.GetNextWorkoutType()
	ctx.printf("Next workout: %s\n", headerStyle.Render(next))
	if exercises, ok := ctx.Catalog.Template(next); ok {
		for i, ex := range exercises {
			ctx.printf("  %d. %-36s %d x %s\n", i+1, ctx.exerciseLabel(ex.ExerciseID), ex.Sets, ex.Reps)
		}
	}
	return nil
}

type RecordsCmd struct{}

func (c *RecordsCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	records := e.GetPersonalRecords()
	if len(records) == 0 {
		ctx.println("No personal records yet.")
		return nil
	}

	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ctx.println(headerStyle.Render(fmt.Sprintf("Personal records (%d)", len(records))))
	for _, id := range ids {
		pr := records[id]
		ctx.printf("  %-40s %8s x %-3d %s\n",
			ctx.exerciseLabel(id), formatKg(pr.Weight), pr.Reps, mutedStyle.Render(pr.Date.Local().Format("2006-01-02")))
	}
	return nil
}
