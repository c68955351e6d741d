package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	storeReachable := false

	// Check 1: store reachable
	if err := checkStoreReachable(ctx); err != nil {
		ctx.printf("❌ Storage reachable: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Storage reachable: OK\n")
		storeReachable = true
	}

	// Check 2: schema version and migrations (SQLite only)
	if storeReachable {
		if err := checkSchema(ctx); err != nil {
			ctx.printf("❌ Schema version: FAIL\n")
			ctx.printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.printf("✓ Schema version: OK\n")
		}
	} else {
		ctx.printf("⊘ Schema version: SKIPPED (storage not reachable)\n")
	}

	// Check 3: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		ctx.printf("⚠ Backups present: WARNING\n")
		ctx.printf("   %v\n", err)
	} else {
		ctx.printf("✓ Backups present: OK\n")
	}

	// Check 4: stored state is consistent
	if storeReachable {
		if err := checkValidation(ctx); err != nil {
			ctx.printf("❌ Data validation: FAIL\n")
			ctx.printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.printf("✓ Data validation: OK\n")
		}
	} else {
		ctx.printf("⊘ Data validation: SKIPPED (storage not reachable)\n")
	}

	// Check 5: clock sanity, check-in days come from the local clock
	if err := checkClock(ctx); err != nil {
		ctx.printf("❌ Clock/timezone: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Clock/timezone: OK\n")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		if err := sqliteStore.Ping(context.Background()); err != nil {
			return err
		}
	}

	if _, err := ctx.Store.LoadSnapshot(context.Background()); err != nil {
		return fmt.Errorf("failed to read stored state: %w", err)
	}
	return nil
}

func checkSchema(ctx *Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		// JSON store has no schema
		return nil
	}

	current, latest, err := sqliteStore.SchemaStatus(context.Background())
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.backups().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'liftlog backup create'")
	}

	return nil
}

func checkValidation(ctx *Context) error {
	snap, err := ctx.Store.LoadSnapshot(context.Background())
	if err != nil {
		return err
	}

	result := validation.New(ctx.Catalog).ValidateSnapshot(snap)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflicts found (run 'liftlog validate' for details)", len(result.Conflicts))
	}
	return nil
}

func checkClock(ctx *Context) error {
	now := time.Now()

	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if _, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		ctx.printf("   Note: timezone is UTC, check-in days follow UTC midnight\n")
	}

	return nil
}
