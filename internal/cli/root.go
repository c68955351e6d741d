package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/julianstephens/liftlog/internal/backup"
	"github.com/julianstephens/liftlog/internal/catalog"
	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/engine"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
)

type Context struct {
	Config  *config.Config
	Store   storage.Provider
	Catalog *catalog.Catalog
	Out     io.Writer
	In      io.Reader

	// EngineOptions are passed to engine.New on first use
	EngineOptions []engine.Option

	engine *engine.Engine
}

// NewContext builds the command context for the configured store
func NewContext(cfg *config.Config, store storage.Provider) *Context {
	return &Context{
		Config:  cfg,
		Store:   store,
		Catalog: catalog.MustDefault(),
		Out:     os.Stdout,
		In:      os.Stdin,
		EngineOptions: []engine.Option{
			engine.WithDebounce(cfg.Autosave.Debounce),
			engine.WithReviewWindow(cfg.Review.WindowDays),
			engine.WithBulkMirrored(cfg.Adaptive.BulkMirrored),
		},
	}
}

// Engine loads the store and the engine state on first use
func (ctx *Context) Engine() (*engine.Engine, error) {
	if ctx.engine != nil {
		return ctx.engine, nil
	}
	if err := ctx.Store.Load(); err != nil {
		return nil, err
	}

	opts := append([]engine.Option{engine.WithCatalog(ctx.Catalog)}, ctx.EngineOptions...)
	e := engine.New(ctx.Store, opts...)
	if err := e.Load(context.Background()); err != nil {
		return nil, err
	}
	ctx.engine = e
	return e, nil
}

// Close flushes the engine, if one was loaded, and closes the store
func (ctx *Context) Close() error {
	if ctx.engine != nil {
		e := ctx.engine
		ctx.engine = nil
		return e.Close(context.Background())
	}
	return ctx.Store.Close()
}

func (ctx *Context) backups() *backup.Manager {
	maxBackups := 0
	if ctx.Config != nil {
		maxBackups = ctx.Config.Backup.MaxBackups
	}
	return backup.NewManager(ctx.Store.GetConfigPath(), maxBackups)
}

// PerformAutomaticBackup snapshots the data file before destructive commands.
// Failures are logged and do not stop the command.
func (ctx *Context) PerformAutomaticBackup() {
	path, err := ctx.backups().CreateBackup()
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	logger.Debug("Automatic backup created", "path", path)
}

func (ctx *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(ctx.Out, format, args...)
}

func (ctx *Context) println(args ...interface{}) {
	fmt.Fprintln(ctx.Out, args...)
}

// exerciseLabel renders "Name (id)" for catalog exercises and the bare id otherwise
func (ctx *Context) exerciseLabel(id string) string {
	if name := ctx.Catalog.Name(id); name != "" && name != id {
		return fmt.Sprintf("%s (%s)", name, id)
	}
	return id
}

// parsePrescription parses "exercise_id:sets:reps", e.g. "curl_db:3:10-12".
// Sets default to 3 and reps to 8-10.
func parsePrescription(s string) (models.ExercisePrescription, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 || parts[0] == "" {
		return models.ExercisePrescription{}, fmt.Errorf("invalid exercise %q (expected id[:sets[:reps]])", s)
	}

	p := models.ExercisePrescription{ExerciseID: parts[0], Sets: 3, Reps: "8-10"}
	if len(parts) > 1 {
		sets, err := strconv.Atoi(parts[1])
		if err != nil || sets < 1 {
			return models.ExercisePrescription{}, fmt.Errorf("invalid set count in %q", s)
		}
		p.Sets = sets
	}
	if len(parts) > 2 && parts[2] != "" {
		p.Reps = parts[2]
	}
	return p, nil
}

func formatKg(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64) + " kg"
}
