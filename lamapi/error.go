package lamapi

import (
	"github.com/serum-errors/go-serum"
)

const (
	ECodeAlreadyExists = "lamctl-error-already-exists"
	ECodeArgument      = "lamctl-error-invalid-argument"
	ECodeInternal      = "lamctl-error-internal"
	ECodeInvalid       = "lamctl-error-invalid"
	ECodeIo            = "lamctl-error-io"
	ECodeMissing       = "lamctl-error-missing"
	ECodeParse         = "lamctl-error-parse"
	ECodeProvider      = "lamctl-error-provider"
	ECodeUnknown       = "lamctl-error-unknown"
)

// ErrorUnknown is returned when an unknown error occurs
//
// Errors:
//
// - lamctl-error-unknown --
func ErrorUnknown(msg string, cause error) error {
	return serum.Errorf(ECodeUnknown, "%s: %w", msg, cause)
}

// ErrorInternal is for miscellaneous errors that should be handled
// internally.  Can be used when an end user is not expected to have viable
// intervention strategies.
//
// Errors:
//
// - lamctl-error-internal --
func ErrorInternal(msg string, cause error) error {
	return serum.Errorf(ECodeInternal, "%s: %w", msg, cause)
}

// ErrorIo wraps generic I/O errors from the Go stdlib
//
// Errors:
//
//    - lamctl-error-io --
func ErrorIo(context string, path string, cause error) error {
	result := serum.Errorf(ECodeIo, "io error: %s: %w", context, cause)
	addDetails(result, [][2]string{{"context", context}, {"path", path}})
	return result
}

// ErrorParse is returned when a provider response (or other document)
// cannot be decoded.
//
// Errors:
//
//    - lamctl-error-parse --
func ErrorParse(context string, cause error) error {
	result := serum.Errorf(ECodeParse, "parse error: %s: %w", context, cause)
	addDetails(result, [][2]string{{"context", context}})
	return result
}

// ErrorProvider is returned when the provider CLI exits non-zero or
// otherwise misbehaves.  The raw message from the provider is kept intact;
// it is usually the only actionable information there is.
//
// Errors:
//
//    - lamctl-error-provider --
func ErrorProvider(operation string, raw string, cause error) error {
	result := serum.Errorf(ECodeProvider, "provider %s failed: %s: %w", operation, raw, cause)
	addDetails(result, [][2]string{
		{"operation", operation},
		{"providerMessage", raw},
	})
	return result
}

// ErrorInvalid is returned when something is invalid.
// In most cases, prefer to use more specific errors.
// The caller must format the message string.
//
// Errors:
//
//  - lamctl-error-invalid --
func ErrorInvalid(message string, deets ...[2]string) error {
	opts := make([]serum.WithConstruction, 0, len(deets))
	for _, d := range deets {
		opts = append(opts, serum.WithDetail(d[0], d[1]))
	}
	opts = append(opts, serum.WithMessageLiteral(message))
	return serum.Error(ECodeInvalid, opts...)
}

// ErrorMissingConfigKey is returned when a configuration key that was asked
// for does not exist on the remote function.
//
// Errors:
//
//    - lamctl-error-missing --
func ErrorMissingConfigKey(fn FunctionName, key string) error {
	return serum.Error(ECodeMissing,
		serum.WithMessageTemplate("no variable {{key|q}} in configuration of function {{function|q}}"),
		serum.WithDetail("key", key),
		serum.WithDetail("function", string(fn)),
	)
}

// ErrorFileAlreadyExists is used when a file already exists
//
// Errors:
//
//    - lamctl-error-already-exists --
func ErrorFileAlreadyExists(path string) error {
	return serum.Error(ECodeAlreadyExists,
		serum.WithMessageTemplate("file already exists at path: {{path|q}}"),
		serum.WithDetail("path", path),
	)
}

// ErrorFileMissing is used when an expected file does not exist
//
// Errors:
//
//    - lamctl-error-missing --
func ErrorFileMissing(path string) error {
	return serum.Error(ECodeMissing,
		serum.WithMessageTemplate("file missing at path: {{path|q}}"),
		serum.WithDetail("path", path),
	)
}

// addDetails is a helper method to get around the fact that doing a type
// coercion within an exported function is not currently allowed by serum.
func addDetails(err error, details [][2]string) {
	s := err.(*serum.ErrorValue)
	s.Data.Details = append(s.Data.Details, details...)
}
