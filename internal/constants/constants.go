// Package constants provides centralized constant values used throughout configrepo.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by configrepo for local state.
const (
	// AppHome is the hidden directory name where configrepo stores its data.
	// This directory is created in the user's home directory.
	AppHome = ".configrepo"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CipherKeyFileName is the name of the file holding the hex-encoded cipher key.
	CipherKeyFileName = "cipher.key"
)

// Pipeline defaults applied when a config-repo leaves a value out.
const (
	// DefaultGroupName is the pipeline group used when a pipeline declares no group
	// or a blank one.
	DefaultGroupName = "defaultGroup"

	// CountLabelTemplate is the label template used when a pipeline declares none.
	CountLabelTemplate = "${COUNT}"

	// DefaultGitBranch is the branch a git material tracks when none is declared.
	DefaultGitBranch = "master"

	// TestArtifactDestination is the destination folder of a test artifact
	// that declares no destination.
	TestArtifactDestination = "testoutput"

	// RunOnAllAgentsToken is the run-instance-count token meaning "one instance per agent".
	RunOnAllAgentsToken = "all"
)

// Lock behaviours a pipeline can declare.
const (
	// LockOnFailure keeps the pipeline locked when a run fails.
	LockOnFailure = "lockOnFailure"

	// UnlockWhenFinished locks while running and unlocks when the run completes.
	UnlockWhenFinished = "unlockWhenFinished"

	// LockNone never locks the pipeline.
	LockNone = "none"
)

// Conventional build files used when a build task names none.
const (
	// RakeDefaultBuildFile is the file rake reads when none is given.
	RakeDefaultBuildFile = "rakefile"

	// AntDefaultBuildFile is the file ant reads when none is given.
	AntDefaultBuildFile = "build.xml"

	// NantDefaultBuildFile is the file nant reads when none is given.
	NantDefaultBuildFile = "default.build"
)

// Filter display.
const (
	// FilterSeparator joins filter patterns in their display form.
	FilterSeparator = ","
)

// Conversion service defaults.
const (
	// DefaultParallelism is how many pipelines of one parse result are converted at once.
	DefaultParallelism = 1

	// MaxParallelism bounds the configurable conversion parallelism.
	MaxParallelism = 64

	// DefaultConversionTimeout bounds a full multi-repo parse run by the service.
	DefaultConversionTimeout = time.Minute
)

// Output formats of CLI reports.
const (
	// OutputText is the default human-readable output format.
	OutputText = "text"

	// OutputJSON is the machine-readable JSON output format.
	OutputJSON = "json"

	// OutputYAML renders reports as YAML.
	OutputYAML = "yaml"
)
