package errors

// Convenience functions for common error patterns

// Path resolution errors

func ProjectNotFound(path string) *SphinxKitError {
	return New(CategoryNotFound, SeverityFatal, "project path not found").
		WithContext("path", path)
}

func DocsNotFound(path string) *SphinxKitError {
	return New(CategoryNotFound, SeverityFatal, "docs directory not found").
		WithContext("path", path)
}

// Build errors

func BuildFailed(stderr string, cause error) *SphinxKitError {
	return Wrap(cause, CategorySphinx, SeverityFatal, "sphinx-build failed").
		WithContext("stderr", stderr)
}

func ReleaseTagMissing(cause error) *SphinxKitError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "unable to resolve release tag")
}

func WorkspaceError(operation string, cause error) *SphinxKitError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

// Serve errors

func ServeFailed(reason string, cause error) *SphinxKitError {
	return Wrap(cause, CategoryServe, SeverityFatal, reason)
}

func BuildOutputMissing(path string) *SphinxKitError {
	return New(CategoryServe, SeverityFatal, "no build output to serve (run 'sphinxkit build' first)").
		WithContext("path", path)
}

// Publish errors

func PublishFailed(cause error) *SphinxKitError {
	return Wrap(cause, CategoryGit, SeverityFatal, "publishing documentation failed")
}

// Config errors

func ConfigError(path string, cause error) *SphinxKitError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "failed to load configuration").
		WithContext("path", path)
}
