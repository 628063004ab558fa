// Package logging provides a unified logging interface for the polynomial engine.
// It abstracts the underlying logging implementation (zerolog by default),
// allowing consistent structured logging across components and easy
// substitution in tests.
package logging
