// Package apperrors defines the error taxonomy of the polynomial library:
// invalid arguments, empty containers, out-of-bounds indexing and
// configuration errors. Each typed error carries the context of the failure
// and matches its kind sentinel through errors.Is.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Callers should test kinds with errors.Is and extract details with errors.As.
package apperrors
