package errors

// Convenience functions for common error patterns

// State errors

// CorruptState marks a persisted fingerprint store that failed to parse.
// Fatal: a run must not compute a change set against unknown ground truth.
func CorruptState(path string, cause error) *SiteGenError {
	return Wrap(cause, CategoryState, SeverityFatal, "persisted state is corrupt").
		WithContext("path", path)
}

func StateNotFound(path string) *SiteGenError {
	return New(CategoryState, SeverityFatal, "persisted state not found (run 'sitegen create' first)").
		WithContext("path", path)
}

func StatePersistError(path string, cause error) *SiteGenError {
	return Wrap(cause, CategoryState, SeverityFatal, "failed to persist state").
		WithContext("path", path)
}

// Config errors

func ConfigNotFound(path string) *SiteGenError {
	return New(CategoryConfig, SeverityFatal, "site metadata file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SiteGenError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "site metadata is invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteGenError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Scan and generation errors

func ScanFailed(category string, cause error) *SiteGenError {
	return Wrap(cause, CategoryScan, SeverityFatal, "change scan failed").
		WithContext("category", category)
}

func HashError(path string, cause error) *SiteGenError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "content hashing failed").
		WithContext("path", path)
}

func RenderError(path string, cause error) *SiteGenError {
	return Wrap(cause, CategoryRender, SeverityFatal, "render failed").
		WithContext("path", path)
}

func WriteError(path string, cause error) *SiteGenError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output write failed").
		WithContext("path", path)
}

// Scaffold errors

// ScaffoldError marks a failure while creating the project structure.
// Deliberately its own category: scaffolding failures exit with the
// general code 1, not the generation code.
func ScaffoldError(path string, cause error) *SiteGenError {
	return Wrap(cause, CategoryScaffold, SeverityFatal, "scaffold failed").
		WithContext("path", path)
}
