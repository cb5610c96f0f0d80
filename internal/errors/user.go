package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Conversion
	// ===================
	{
		err: ErrUnresolvedReference,
		info: ErrorInfo{
			Message: "The config repo references something that does not exist in the server configuration.",
			Action:  "Check that package and SCM ids exist in the snapshot and that the config repo material can take the declared destination and filter.",
		},
	},
	{
		err: ErrUnsupportedFilterCombination,
		info: ErrorInfo{
			Message: "Pluggable SCM materials only support ignore filters.",
			Action:  "Replace the whitelist with an ignore list on the pluggable SCM material.",
		},
	},
	{
		err: ErrMissingMandatoryField,
		info: ErrorInfo{
			Message: "A required field is missing from the config repo declaration.",
			Action:  "Add the missing field named in the error and push the config repo again.",
		},
	},
	{
		err: ErrUnknownVariant,
		info: ErrorInfo{
			Message: "The config repo uses a task or material type that is not supported.",
			Action:  "Check the type tag for typos or upgrade the config repo plugin.",
		},
	},
	{
		err: ErrSecretResolution,
		info: ErrorInfo{
			Message: "An encrypted value could not be decrypted.",
			Action:  "Re-encrypt the value with 'configrepo encrypt' using the server cipher key.",
		},
	},
	{
		err: ErrInvalidFieldValue,
		info: ErrorInfo{
			Message: "A value in the config repo declaration is malformed.",
			Action:  "Fix the value named in the error.",
		},
	},

	// ===================
	// Inputs
	// ===================
	{
		err: ErrParseResultNotFound,
		info: ErrorInfo{
			Message: "The parse result file was not found.",
			Action:  "Check the path passed to the command.",
		},
	},
	{
		err: ErrParseResultInvalid,
		info: ErrorInfo{
			Message: "The parse result file is not valid YAML or JSON.",
			Action:  "Fix the syntax error reported in the message.",
		},
	},
	{
		err: ErrSnapshotNotFound,
		info: ErrorInfo{
			Message: "The configuration snapshot file was not found.",
			Action:  "Pass --snapshot or set snapshot.path in the config file.",
		},
	},
	{
		err: ErrSnapshotInvalid,
		info: ErrorInfo{
			Message: "The configuration snapshot file is invalid.",
			Action:  "Fix the snapshot file; package and SCM ids must be unique.",
		},
	},
	{
		err: ErrInvalidCipherText,
		info: ErrorInfo{
			Message: "The encrypted value is not in the expected AES:<iv>:<data> form.",
			Action:  "Re-encrypt the value with 'configrepo encrypt'.",
		},
	},
	{
		err: ErrInvalidKeySize,
		info: ErrorInfo{
			Message: "The cipher key file does not hold a valid AES key.",
			Action:  "Restore the server cipher key or point cipher.key_file at it.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigInvalidConversion,
		info: ErrorInfo{
			Message: "The conversion settings are invalid.",
			Action:  "Check conversion.parallelism and conversion.timeout in the config file.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Unknown output format.",
			Action:  "Use one of text, json or yaml.",
		},
	},
	{
		err: ErrLintFindings,
		info: ErrorInfo{
			Message: "Lint reported errors.",
			Action:  "Fix the findings listed above.",
		},
	},
	{
		err: ErrConversionFailed,
		info: ErrorInfo{
			Message: "At least one config repo could not be converted.",
			Action:  "Fix the errors listed above; the other config repos were converted.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup, then falls back to errors.Is() traversal.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
