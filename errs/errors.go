// Package errs defines the sentinel errors returned by ptbin packages.
//
// Errors are wrapped with additional context using fmt.Errorf("%w: ...") at the
// point of failure, so callers should match them with errors.Is:
//
//	if errors.Is(err, errs.ErrAddressOutOfRange) {
//	    // the requested range runs past the end of the table
//	}
//
// None of these errors is transient. Each one aborts the current extraction.
package errs

import "errors"

// Request errors.
var (
	// ErrInvalidRange is returned when the left bound is not strictly less than the
	// right bound, or when either bound is negative or not finite.
	ErrInvalidRange = errors.New("ptbin: invalid wavenumber range")

	// ErrOutOfTableBounds is returned when the requested bounds fall outside the
	// physical extent declared for the table.
	ErrOutOfTableBounds = errors.New("ptbin: range outside table bounds")

	// ErrInvalidResolution is returned for an unrecognized decimation profile.
	ErrInvalidResolution = errors.New("ptbin: invalid resolution")

	// ErrInvalidLevel is returned when an atmospheric level cannot be mapped to a table name.
	ErrInvalidLevel = errors.New("ptbin: invalid atmospheric level")
)

// Table errors.
var (
	// ErrTableNotFound is returned when the table file cannot be opened.
	ErrTableNotFound = errors.New("ptbin: table not found")

	// ErrAddressOutOfRange is returned when a record's byte offset is negative or
	// lies at or beyond the end of the table file.
	ErrAddressOutOfRange = errors.New("ptbin: record address out of range")

	// ErrTruncatedRecord is returned when the table ends in the middle of a record.
	ErrTruncatedRecord = errors.New("ptbin: truncated record")

	// ErrTableClosed is returned when a closed table is read.
	ErrTableClosed = errors.New("ptbin: table is closed")

	// ErrInvalidFormat is returned when a record format has unusable constants.
	ErrInvalidFormat = errors.New("ptbin: invalid record format")
)

// Extraction and collaborator errors.
var (
	// ErrConsumed is reported by an extraction whose sequence was already iterated.
	ErrConsumed = errors.New("ptbin: extraction already consumed")

	// ErrCorruptSidecar is returned when the sidecar metadata lacks the table bounds
	// or carries an unparsable value.
	ErrCorruptSidecar = errors.New("ptbin: corrupted sidecar metadata")

	// ErrUnknownTarget is returned when the sidecar target quantity has no axis label.
	ErrUnknownTarget = errors.New("ptbin: unknown target value")

	// ErrEmptyLatestRun is returned when latest_run.txt names no run directory.
	ErrEmptyLatestRun = errors.New("ptbin: latest run file is empty")
)
