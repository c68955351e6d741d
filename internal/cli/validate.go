package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/liftlog/internal/validation"
)

type ValidateCmd struct {
	Strict bool `help:"Exit with an error when conflicts are found."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	snap, err := ctx.Store.LoadSnapshot(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read stored state: %w", err)
	}

	ctx.printf("Validating %d workouts, %d records, %d check-ins...\n",
		len(snap.WorkoutHistory), len(snap.PersonalRecords), len(snap.DailyCheckIns))

	result := validation.New(ctx.Catalog).ValidateSnapshot(snap)

	ctx.println()
	ctx.println(result.FormatReport())

	if result.HasConflicts() && cmd.Strict {
		return fmt.Errorf("%d conflicts found", len(result.Conflicts))
	}
	return nil
}
