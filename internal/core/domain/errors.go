package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrReferenceNotFound indicates a foreign key held by a session
	// could not be resolved during denormalisation. A missing document
	// sample is fatal to displaying the session.
	ErrReferenceNotFound = errors.New("referenced entity not found")

	// ErrTransactionFailed indicates a multi-table save was rolled
	// back. No partial state is visible after this error.
	ErrTransactionFailed = errors.New("storage transaction failed")

	// ErrInsufficientData indicates a sample requested more documents
	// than the source pools can provide. Reported before any write.
	ErrInsufficientData = errors.New("insufficient documents for requested sample")

	// ErrGenerationService indicates the question-generation service
	// failed (missing API key, network or service failure).
	ErrGenerationService = errors.New("question generation failed")

	// ErrSaveInProgress indicates a save is already running for the
	// loaded session.
	ErrSaveInProgress = errors.New("save already in progress")
)
