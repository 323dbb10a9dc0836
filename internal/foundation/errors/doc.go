// Package errors provides the classified error primitives shared by docshelf commands.
//
// Every failure carries a category (config, build, filesystem, ...) and a
// severity. Publish steps use the severity to decide whether a failure aborts
// the run (SeverityFatal) or is logged and skipped (SeverityWarning).
//
// Example usage:
//
//	err := errors.WrapError(ioErr, errors.CategoryFileSystem, "promote build output").
//		Fatal().
//		WithContext("version", "v1.2.0").
//		Build()
package errors
