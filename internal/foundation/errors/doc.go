// Package errors provides the classified error type used across blockmark.
//
// A ClassifiedError carries a category (what kind of failure), a severity
// and a bag of structured context. The CLI and HTTP adapters map categories
// to exit codes and status codes so callers never switch on message text.
//
// Example:
//
//	err := errors.NewError(errors.CategoryParse, "extension failed").
//		WithContext("recognizer", name).
//		WithCause(cause).
//		Build()
package errors
