// Package errors provides centralized error handling for configrepo.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application, and the single ConversionError type every failed
// config-repo conversion is reported with. All error kinds can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Conversion error kinds.
// Every ConversionError carries exactly one of these as its Kind.
var (
	// ErrUnresolvedReference indicates that a package id or SCM id was not found in the
	// configuration snapshot, or that the material already configured for a config-repo
	// could not take the values the config-repo declared.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrUnsupportedFilterCombination indicates a whitelist filter on a pluggable SCM material.
	ErrUnsupportedFilterCombination = errors.New("unsupported filter combination")

	// ErrMissingMandatoryField indicates a required field was absent (e.g. a timer spec).
	ErrMissingMandatoryField = errors.New("missing mandatory field")

	// ErrUnknownVariant indicates an unrecognized task or material kind tag.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrSecretResolution indicates the cipher failed to decrypt a secure value.
	ErrSecretResolution = errors.New("secret resolution failed")

	// ErrInvalidFieldValue indicates a present but malformed value, such as a
	// non-numeric run instance count.
	ErrInvalidFieldValue = errors.New("invalid field value")
)

// Input, cipher and configuration errors.
var (
	// ErrParseResultNotFound indicates the parse result file does not exist.
	ErrParseResultNotFound = errors.New("parse result file not found")

	// ErrParseResultInvalid indicates the parse result file has invalid YAML/JSON syntax.
	ErrParseResultInvalid = errors.New("parse result parse error")

	// ErrSnapshotNotFound indicates the configuration snapshot file does not exist.
	ErrSnapshotNotFound = errors.New("snapshot file not found")

	// ErrSnapshotInvalid indicates the configuration snapshot file could not be decoded
	// or declares duplicate ids.
	ErrSnapshotInvalid = errors.New("invalid snapshot")

	// ErrSnapshotNotLoaded indicates a snapshot was requested before one was loaded.
	ErrSnapshotNotLoaded = errors.New("snapshot not loaded")

	// ErrInvalidCipherText indicates a value is not a well-formed cipher envelope.
	ErrInvalidCipherText = errors.New("invalid cipher text")

	// ErrInvalidKeySize indicates the loaded cipher key has an invalid size.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrCipherKeyNotLoaded indicates the cipher was used before its key was loaded.
	ErrCipherKeyNotLoaded = errors.New("cipher key not loaded")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidConversion indicates an invalid conversion configuration value.
	ErrConfigInvalidConversion = errors.New("invalid conversion configuration")

	// ErrConfigInvalidCipher indicates an invalid cipher configuration value.
	ErrConfigInvalidCipher = errors.New("invalid cipher configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrRepoNotFound indicates no parse result has been recorded for a config repo.
	ErrRepoNotFound = errors.New("config repo not found")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrLintFindings indicates lint reported at least one error-level finding.
	ErrLintFindings = errors.New("lint reported errors")

	// ErrConversionFailed indicates at least one config repo failed to convert.
	ErrConversionFailed = errors.New("config repo conversion failed")
)

// ConversionError is the single error type a failed conversion reports.
// Message is human readable; Kind is one of the conversion sentinels above;
// Cause is the underlying error, if any (for example the cipher's own error).
type ConversionError struct {
	Kind    error
	Message string
	Cause   error
}

// NewConversionError creates a ConversionError of the given kind with a formatted message.
func NewConversionError(kind error, format string, args ...any) *ConversionError {
	return &ConversionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapConversionError creates a ConversionError of the given kind around cause.
func WrapConversionError(kind, cause error, format string, args ...any) *ConversionError {
	return &ConversionError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ConversionError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// AsConversionError extracts the ConversionError from an error chain.
func AsConversionError(err error) (*ConversionError, bool) {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
