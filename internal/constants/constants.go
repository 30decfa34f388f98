package constants

const (
	AppName            = "taskline"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/taskline"
	DefaultDBPath      = "~/.config/taskline/taskline.db"
	DefaultConfigFile  = "config.toml"
	ConnectionEnvVar   = "TASKLINE_DB_CONNECTION"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "taskline-"
	BackupFileSuffix = ".db"

	// Timeline policy defaults
	DefaultPaddingDays     = 7
	DefaultFallbackDays    = 30
	DefaultWorkdayHours    = 8.0
	DefaultMinWidthPercent = 2.0

	// Display defaults
	DefaultNameWidth = 24
	DefaultDayWidth  = 3

	// Settings keys
	SettingTimezone       = "timezone"
	SettingDefaultProject = "default_project"

	DefaultTimezone = "Local"
)
