package cli

import (
	"context"
	"encoding/json"
	"fmt"
)

type DebugCmd struct {
	DBPath  *DebugDBPathCmd  `cmd:"" name:"db-path" help:"Show data file path."`
	Dump    *DebugDumpCmd    `cmd:"" help:"Dump the stored state as JSON."`
	Catalog *DebugCatalogCmd `cmd:"" help:"List catalog exercises and templates as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"path": ctx.Store.GetConfigPath(),
	}
	return ctx.printJSON(output)
}

type DebugDumpCmd struct {
	Section string `arg:"" optional:"" help:"Only dump one section: profile, history, records, checkins, weights, draft or reviews."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	snap, err := ctx.Store.LoadSnapshot(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read stored state: %w", err)
	}

	switch cmd.Section {
	case "profile":
		return ctx.printJSON(snap.Profile)
	case "history":
		return ctx.printJSON(snap.WorkoutHistory)
	case "records":
		return ctx.printJSON(snap.PersonalRecords)
	case "checkins":
		return ctx.printJSON(snap.DailyCheckIns)
	case "weights":
		return ctx.printJSON(snap.WeightHistory)
	case "draft":
		return ctx.printJSON(snap.DraftWorkout)
	case "reviews":
		return ctx.printJSON(snap.WeeklyReviews)
	case "":
		return ctx.printJSON(snap)
	}
	return fmt.Errorf("unknown section %q", cmd.Section)
}

type DebugCatalogCmd struct{}

func (cmd *DebugCatalogCmd) Run(ctx *Context) error {
	templates := make(map[string]interface{})
	for _, name := range ctx.Catalog.TemplateNames() {
		templates[name], _ = ctx.Catalog.Template(name)
	}

	return ctx.printJSON(map[string]interface{}{
		"exercises":    ctx.Catalog.Exercises(),
		"alternatives": ctx.Catalog.AdjacencyTable(),
		"templates":    templates,
		"rotation":     ctx.Catalog.Rotation(),
	})
}

func (ctx *Context) printJSON(v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}
