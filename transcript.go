package caretrail

import (
	"strings"
	"sync"
)

// Assembler merges streaming recognition fragments into a stable
// transcript. Final fragments are appended to the accumulator exactly
// once, in arrival order; interim fragments only update the live
// preview and never reach the accumulator. The assembler survives
// recognition restarts: a fresh stream keeps appending to the same
// accumulator.
type Assembler struct {
	mu          sync.Mutex
	accumulated string
	preview     string
}

// NewAssembler creates an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Consume processes one recognition result. Fragments carrying an
// engine error are ignored here; the controller handles them. A final
// fragment clears the preview it supersedes.
func (a *Assembler) Consume(f Fragment) {
	if f.Err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	text := strings.TrimSpace(f.Text)
	if !f.Final {
		a.preview = text
		return
	}
	if text == "" {
		return
	}
	if a.accumulated != "" {
		a.accumulated += " "
	}
	a.accumulated += text
	a.preview = ""
}

// Transcript returns the accumulated final text.
func (a *Assembler) Transcript() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accumulated
}

// LivePreview returns the most recent interim fragment, for display
// while recognition is in flight.
func (a *Assembler) LivePreview() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.preview
}

// SetTranscript replaces the accumulator. Used when the caregiver edits
// the narration after capture, before saving.
func (a *Assembler) SetTranscript(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accumulated = text
	a.preview = ""
}

// Reset clears the accumulator and preview.
func (a *Assembler) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accumulated = ""
	a.preview = ""
}
