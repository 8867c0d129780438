// Package errors provides the structured error type used across searchlab.
// Errors carry a machine-readable code, a user-facing message, and a
// retryable flag that the retry policy consults before scheduling another
// attempt.
package errors
