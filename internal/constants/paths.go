package constants

// Log file settings.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.configrepo/logs/configrepo.log
	CLILogFileName = "configrepo.log"

	// LogMaxSizeMB is the size at which the CLI log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is how many rotated log files are kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated log files are kept.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file.
	// This file is located in the configrepo home directory.
	GlobalConfigName = "config.yaml"

	// EnvPrefix is the prefix of environment variables read by the configuration layer.
	EnvPrefix = "CONFIGREPO"

	// HomeEnvVar overrides the configrepo home directory.
	HomeEnvVar = "CONFIGREPO_HOME"
)
