package caretrail

import "errors"

// Core errors surfaced to the caregiver, each with a distinct recovery path.
var (
	// ErrDeviceUnavailable indicates the microphone could not be acquired.
	// The session stays Idle and a retry is safe.
	ErrDeviceUnavailable = errors.New("audio device unavailable")

	// ErrRecognition indicates the speech engine failed mid-session.
	// The transcript accumulated so far is preserved.
	ErrRecognition = errors.New("speech recognition failed")

	// ErrValidation indicates an incident was rejected before persisting.
	ErrValidation = errors.New("incident validation failed")

	// ErrPersistence indicates a storage read or write failed.
	// The previously stored incidents are retained.
	ErrPersistence = errors.New("incident storage failed")

	// ErrImportFormat indicates a backup document is missing required fields.
	ErrImportFormat = errors.New("invalid backup document")

	// ErrDuplicateID indicates an incident id already exists in the store.
	ErrDuplicateID = errors.New("duplicate incident id")

	// ErrNotFound indicates the requested incident does not exist.
	ErrNotFound = errors.New("incident not found")
)
