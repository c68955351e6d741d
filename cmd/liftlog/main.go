package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"~/.config/liftlog/config.yaml"`
	Debug   bool   `help:"Log debug output to stderr."`
	DB      string `name:"db" help:"Data file path. A .json extension selects the JSON store."`

	Init         cli.InitCmd         `cmd:"" help:"Initialize liftlog storage."`
	Profile      cli.ProfileCmd      `cmd:"" help:"Manage the user profile and daily targets."`
	Session      cli.SessionCmd      `cmd:"" help:"Run a workout."`
	Next         cli.NextCmd         `cmd:"" help:"Show the next workout in the rotation." default:"1"`
	Alternatives cli.AlternativesCmd `cmd:"" help:"List alternatives for an exercise."`
	Suggest      cli.SuggestCmd      `cmd:"" help:"Suggest the next target for an exercise."`
	Last         cli.LastCmd         `cmd:"" help:"Show the last session of an exercise."`
	Records      cli.RecordsCmd      `cmd:"" help:"List personal records."`
	Checkin      cli.CheckinCmd      `cmd:"" help:"Log the daily check-in."`
	Weight       cli.WeightCmd       `cmd:"" help:"Record today's body weight."`
	Review       cli.ReviewCmd       `cmd:"" help:"Show the weekly review."`
	Backup       cli.BackupCmd       `cmd:"" help:"Manage data backups."`
	Doctor       cli.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Validate     cli.ValidateCmd     `cmd:"" help:"Check stored data for inconsistencies."`
	DebugCmd     cli.DebugCmd        `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Strength training log with progressive overload and adaptive calorie targets"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Logging.Debug = true
	}
	if CLI.DB != "" {
		cfg.Storage.Path = config.ExpandPath(CLI.DB)
		cfg.Storage.Driver = constants.DriverSQLite
		if strings.EqualFold(filepath.Ext(cfg.Storage.Path), ".json") {
			cfg.Storage.Driver = constants.DriverJSON
		}
	}

	if err := logger.Init(logger.Config{
		Level:     cfg.Logging.Level,
		Debug:     cfg.Logging.Debug,
		ConfigDir: cfg.Dir,
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := storage.New(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := cli.NewContext(cfg, store)

	logger.Debug("Running command", "command", ctx.Command(), "driver", cfg.Storage.Driver, "path", cfg.Storage.Path)
	runErr := ctx.Run(appCtx)
	closeErr := appCtx.Close()

	if runErr != nil {
		errors.Fatal(runErr)
	}
	if closeErr != nil {
		errors.Fatal(closeErr)
	}
}
