// Package domain defines domain-level errors for the marketdata feature.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the sync pipeline.
// Typed errors below unwrap to one of these, so callers can match with errors.Is.
var (
	// ErrTransientAcquisition indicates a single provider call failed and may be retried.
	ErrTransientAcquisition = errors.New("transient acquisition failure")

	// ErrAcquisition indicates every attempt for a symbol was exhausted.
	ErrAcquisition = errors.New("acquisition failed")

	// ErrPersistence indicates the store rejected a snapshot upsert.
	ErrPersistence = errors.New("persistence failed")

	// ErrConfiguration indicates required store credentials are missing.
	// It is the only error that aborts a whole sync invocation.
	ErrConfiguration = errors.New("configuration error")

	// ErrSnapshotNotFound indicates no snapshot exists for the requested key.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// TransientAcquisitionError describes one failed provider call.
type TransientAcquisitionError struct {
	Symbol  string
	Attempt int
	Err     error
}

func (e *TransientAcquisitionError) Error() string {
	return fmt.Sprintf("attempt %d failed for %s: %v", e.Attempt, e.Symbol, e.Err)
}

func (e *TransientAcquisitionError) Unwrap() []error {
	return []error{ErrTransientAcquisition, e.Err}
}

// AcquisitionError is returned once the retry budget for a symbol is spent.
// Err is the cause of the final attempt.
type AcquisitionError struct {
	Symbol   string
	Attempts int
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("%s: giving up after %d attempts: %v", e.Symbol, e.Attempts, e.Err)
}

func (e *AcquisitionError) Unwrap() []error {
	return []error{ErrAcquisition, e.Err}
}

// PersistenceError wraps a store failure for one symbol's snapshot.
type PersistenceError struct {
	Symbol string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: upsert failed: %v", e.Symbol, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// ConfigurationError lists the required settings that are absent.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing store configuration: " + strings.Join(e.Missing, ", ")
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
