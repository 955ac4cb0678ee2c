package caretrail

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SessionStatus is the recording session state.
type SessionStatus string

const (
	StatusIdle      SessionStatus = "idle"
	StatusRecording SessionStatus = "recording"
	StatusPaused    SessionStatus = "paused"
	StatusStopped   SessionStatus = "stopped"
)

// DefaultLocationTimeout bounds the geolocation wait during Start.
const DefaultLocationTimeout = 5 * time.Second

// RecorderConfig carries the collaborator settings the capture core
// consumes. Disabled capabilities are skipped cleanly, never failed.
type RecorderConfig struct {
	// VoiceCapture enables the speech-recognition stream.
	VoiceCapture bool

	// LocationCapture enables the bounded geolocation lookup.
	LocationCapture bool

	// LocationTimeout caps the geolocation wait.
	// Defaults to DefaultLocationTimeout if zero.
	LocationTimeout time.Duration

	// Logger receives structured session events. Defaults to a
	// discarded logger if nil.
	Logger *logrus.Logger
}

func (c RecorderConfig) locationTimeout() time.Duration {
	if c.LocationTimeout > 0 {
		return c.LocationTimeout
	}
	return DefaultLocationTimeout
}

// Recorder owns one active capture session: the audio device, the
// elapsed-time counter, and the recognition stream. Exactly one session
// is active per Recorder; state-incompatible calls decline as no-ops
// rather than erroring.
type Recorder struct {
	mu sync.Mutex

	status     SessionStatus
	elapsed    int
	capturedAt time.Time
	location   string
	assembler  *Assembler

	store      Store
	audio      AudioDevice
	recognizer Recognizer
	locator    LocationProvider
	cfg        RecorderConfig
	log        *logrus.Logger

	audioHeld   bool
	stopTick    chan struct{}
	recogCancel context.CancelFunc
	recogDone   chan struct{}
}

// NewRecorder creates an idle session controller. The capture devices
// are injected as capabilities; any of them may be nil when the
// matching setting is disabled.
func NewRecorder(store Store, audio AudioDevice, recognizer Recognizer, locator LocationProvider, cfg RecorderConfig) *Recorder {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Recorder{
		status:     StatusIdle,
		assembler:  NewAssembler(),
		store:      store,
		audio:      audio,
		recognizer: recognizer,
		locator:    locator,
		cfg:        cfg,
		log:        log,
	}
}

// Start begins a capture session. Only valid from Idle; otherwise it
// declines as a no-op. On failure to acquire the microphone the
// session stays Idle with no partial artifacts.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := r.log.WithFields(logrus.Fields{"component": "recorder", "method": "Start"})

	if r.status != StatusIdle {
		log.WithField("status", r.status).Debug("start ignored: session already active")
		return nil
	}

	if err := r.audio.Acquire(); err != nil {
		log.WithError(err).Error("could not acquire audio device")
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	r.audioHeld = true

	r.location = r.captureLocation(ctx, log)
	r.capturedAt = time.Now()
	r.elapsed = 0

	r.stopTick = make(chan struct{})
	go r.runTicker(r.stopTick)

	r.startRecognitionLocked(log)
	r.status = StatusRecording

	log.Info("recording session started")
	return nil
}

// captureLocation resolves coordinates with a bounded wait. Denial,
// timeout, or a disabled setting never fail the session.
func (r *Recorder) captureLocation(ctx context.Context, log *logrus.Entry) string {
	if !r.cfg.LocationCapture || r.locator == nil {
		return ""
	}
	locCtx, cancel := context.WithTimeout(ctx, r.cfg.locationTimeout())
	defer cancel()

	lat, lon, err := r.locator.Current(locCtx)
	if err != nil {
		log.WithError(err).Warn("geolocation unavailable")
		return LocationUnavailable
	}
	return FormatCoordinates(lat, lon)
}

// Pause suspends the counter and the recognition stream. No-op outside
// Recording. Recognition does not auto-resume; Resume restarts it.
func (r *Recorder) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusRecording {
		return
	}
	r.stopRecognitionLocked()
	r.status = StatusPaused
	r.log.WithField("component", "recorder").Info("recording paused")
}

// Resume restarts the counter and a fresh recognition stream. No-op
// outside Paused.
func (r *Recorder) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPaused {
		return
	}
	r.startRecognitionLocked(r.log.WithFields(logrus.Fields{"component": "recorder", "method": "Resume"}))
	r.status = StatusRecording
	r.log.WithField("component", "recorder").Info("recording resumed")
}

// Stop ends capture and releases the audio device. The transcript and
// captured metadata stay available for review until Save or Reset.
// No-op outside Recording and Paused.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusRecording && r.status != StatusPaused {
		return
	}
	r.releaseResourcesLocked()
	r.status = StatusStopped
	r.log.WithFields(logrus.Fields{"component": "recorder", "elapsed_seconds": r.elapsed}).Info("recording stopped")
}

// Reset discards the session from any state, releasing whatever subset
// of resources is still held. Idempotent.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
	r.log.WithField("component", "recorder").Info("session reset")
}

// RestartRecognition starts a fresh recognition stream after an engine
// failure. The accumulator is untouched. No-op outside Recording.
func (r *Recorder) RestartRecognition() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusRecording {
		return
	}
	r.stopRecognitionLocked()
	r.startRecognitionLocked(r.log.WithFields(logrus.Fields{"component": "recorder", "method": "RestartRecognition"}))
}

// Save binds the finished session to an incident and persists it. On
// validation failure nothing is stored and the session stays Stopped so
// the caregiver can correct and retry. On success the session returns
// to Idle.
func (r *Recorder) Save(d Draft) (*Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusStopped {
		return nil, fmt.Errorf("%w: no finished session to save", ErrValidation)
	}

	inc, err := BuildIncident(r.assembler.Transcript(), d, r.capturedAt, r.location)
	if err != nil {
		return nil, err
	}
	if err := r.store.Append(*inc); err != nil {
		return nil, fmt.Errorf("save incident: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"component":   "recorder",
		"incident_id": inc.ID,
		"category":    inc.Category,
		"severity":    inc.Severity,
	}).Info("incident saved")

	r.resetLocked()
	return inc, nil
}

// SetTranscript replaces the pending narration while the session is
// Stopped, for caregiver edits before saving. No-op in other states.
func (r *Recorder) SetTranscript(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusStopped {
		return
	}
	r.assembler.SetTranscript(strings.TrimSpace(text))
}

// Status returns the current session state.
func (r *Recorder) Status() SessionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Elapsed returns whole seconds spent in Recording.
func (r *Recorder) Elapsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Transcript returns the pending accumulated narration.
func (r *Recorder) Transcript() string {
	return r.assembler.Transcript()
}

// LivePreview returns the latest interim recognition text.
func (r *Recorder) LivePreview() string {
	return r.assembler.LivePreview()
}

// Location returns the captured location, the LocationUnavailable
// sentinel, or empty when capture was skipped.
func (r *Recorder) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// runTicker increments the elapsed counter once per second while the
// session is Recording. Pausing gates the increment without tearing
// down the ticker.
func (r *Recorder) runTicker(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			if r.status == StatusRecording {
				r.elapsed++
			}
			r.mu.Unlock()
		case <-stop:
			return
		}
	}
}

// startRecognitionLocked begins a recognition stream and its consumer.
// An engine that refuses to start is non-fatal: the caregiver can still
// narrate by typing. Caller holds r.mu.
func (r *Recorder) startRecognitionLocked(log *logrus.Entry) {
	if !r.cfg.VoiceCapture || r.recognizer == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	results, err := r.recognizer.Start(ctx)
	if err != nil {
		cancel()
		log.WithError(err).Warn("speech recognition could not start")
		return
	}
	done := make(chan struct{})
	r.recogCancel = cancel
	r.recogDone = done
	go r.consumeResults(results, done)
}

// consumeResults feeds the assembler in delivery order until the stream
// closes. Engine errors stop nothing here; the accumulator keeps its
// last final state.
func (r *Recorder) consumeResults(results <-chan Fragment, done chan struct{}) {
	defer close(done)
	for f := range results {
		if f.Err != nil {
			r.log.WithField("component", "recorder").WithError(f.Err).
				Warn("speech recognition error; transcript preserved")
			continue
		}
		r.assembler.Consume(f)
	}
}

// stopRecognitionLocked ends the stream and waits for the consumer to
// drain pending fragments. Tolerates a stream that already ended on
// its own. Caller holds r.mu.
func (r *Recorder) stopRecognitionLocked() {
	if r.recogCancel == nil {
		return
	}
	r.recognizer.Stop()
	r.recogCancel()
	select {
	case <-r.recogDone:
	case <-time.After(time.Second):
	}
	r.recogCancel = nil
	r.recogDone = nil
}

// releaseResourcesLocked stops recognition, the ticker, and the audio
// device, tolerating any subset already released. Caller holds r.mu.
func (r *Recorder) releaseResourcesLocked() {
	r.stopRecognitionLocked()
	if r.stopTick != nil {
		close(r.stopTick)
		r.stopTick = nil
	}
	if r.audioHeld {
		r.audio.Release()
		r.audioHeld = false
	}
}

// resetLocked returns the session to Idle with all fields cleared.
// Caller holds r.mu.
func (r *Recorder) resetLocked() {
	r.releaseResourcesLocked()
	r.assembler.Reset()
	r.elapsed = 0
	r.capturedAt = time.Time{}
	r.location = ""
	r.status = StatusIdle
}
