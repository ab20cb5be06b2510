package store

import "errors"

// ErrSnapshotNotFound is returned when no snapshot is cached for the
// requested site name.
var ErrSnapshotNotFound = errors.New("snapshot was not found")

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT or DELETE
	// fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single snapshot row fails.
	ErrScanningRow = errors.New("failed to scan snapshot row")

	// ErrScanningRows is returned when scanning during multi-row iteration
	// fails.
	ErrScanningRows = errors.New("failed to scan snapshot rows")
)

// Blob codec errors.
var (
	ErrCompressingSnapshot   = errors.New("failed to compress snapshot")
	ErrDecompressingSnapshot = errors.New("failed to decompress snapshot")
)
