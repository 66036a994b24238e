package errs

// Code classifies an error for callers that need to branch on failure
// class rather than message text.
type Code string

const (
	CodeUnknown              Code = "UNKNOWN"
	CodeKeyGenerationFailure Code = "KEY_GENERATION_FAILURE"
	CodePersistenceFailure   Code = "PERSISTENCE_FAILURE"
	CodeBundleNotFound       Code = "BUNDLE_NOT_FOUND"
	CodeDirectoryUnavailable Code = "DIRECTORY_UNAVAILABLE"
	CodeStaleBundle          Code = "STALE_BUNDLE"
	CodeInvalidBundle        Code = "INVALID_BUNDLE"
)
