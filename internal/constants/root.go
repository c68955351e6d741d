package constants

const (
	AppName          = "liftlog"
	Version          = "v0.1.0"
	DefaultConfigDir = "~/.config/liftlog"
	ConfigFileName   = "config.yaml"
	DBFileName       = "liftlog.db"
	JSONFileName     = "liftlog.json"
	LogFileName      = "liftlog.log"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Snapshot constants
	SnapshotKey     = "liftlog.snapshot"
	SnapshotVersion = 1

	// Storage drivers
	DriverSQLite = "sqlite"
	DriverJSON   = "json"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "liftlog-"

	// CustomSessionType marks a session that is not part of the rotation
	CustomSessionType = "custom"
)
