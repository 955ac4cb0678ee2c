package caretrail

import (
	"context"
	"fmt"
)

// Fragment is one speech-recognition result. Interim fragments are
// provisional and only feed the live preview; final fragments are
// appended to the transcript exactly once, in delivery order. A
// fragment with Err set signals an engine failure; its text is empty.
type Fragment struct {
	Text  string
	Final bool
	Err   error
}

// Recognizer is a continuous speech-to-text stream with interim
// results. Implementations deliver fragments on the returned channel
// and close it when the stream ends, whether by Stop or on its own.
type Recognizer interface {
	// Start begins a recognition stream. The stream does not survive a
	// pause; the controller starts a fresh one on resume.
	Start(ctx context.Context) (<-chan Fragment, error)

	// Stop ends the stream and closes the result channel. Safe to call
	// when the stream already ended.
	Stop()
}

// AudioDevice is the microphone capability. The controller holds it
// exclusively for the lifetime of one session.
type AudioDevice interface {
	Acquire() error
	Release()
}

// LocationProvider resolves the device's current coordinates. The
// controller bounds the wait with a context deadline and falls back to
// the LocationUnavailable sentinel on error.
type LocationProvider interface {
	Current(ctx context.Context) (lat, lon float64, err error)
}

// FormatCoordinates renders a captured position the way it is stored on
// an incident: both axes to six decimal places.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}
