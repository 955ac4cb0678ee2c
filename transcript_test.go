package caretrail_test

import (
	"errors"
	"testing"

	"github.com/jmorrin/caretrail"
)

func TestAssembler_FinalFragmentsAppendInOrder(t *testing.T) {
	a := caretrail.NewAssembler()

	a.Consume(caretrail.Fragment{Text: "he had a hard", Final: true})
	a.Consume(caretrail.Fragment{Text: "morning at school", Final: true})

	got := a.Transcript()
	want := "he had a hard morning at school"
	if got != want {
		t.Errorf("Transcript() = %q, want %q", got, want)
	}
}

func TestAssembler_InterimNeverReachesAccumulator(t *testing.T) {
	a := caretrail.NewAssembler()

	a.Consume(caretrail.Fragment{Text: "he ha", Final: false})
	a.Consume(caretrail.Fragment{Text: "he had a", Final: false})
	a.Consume(caretrail.Fragment{Text: "he had a meltdown", Final: true})

	if got := a.Transcript(); got != "he had a meltdown" {
		t.Errorf("Transcript() = %q, want %q", got, "he had a meltdown")
	}
	if got := a.LivePreview(); got != "" {
		t.Errorf("LivePreview() = %q, want empty after final", got)
	}
}

func TestAssembler_PreviewTracksLatestInterim(t *testing.T) {
	a := caretrail.NewAssembler()

	a.Consume(caretrail.Fragment{Text: "he", Final: false})
	a.Consume(caretrail.Fragment{Text: "he was", Final: false})

	if got := a.LivePreview(); got != "he was" {
		t.Errorf("LivePreview() = %q, want %q", got, "he was")
	}
	if got := a.Transcript(); got != "" {
		t.Errorf("Transcript() = %q, want empty", got)
	}
}

func TestAssembler_ReplayIsDeterministic(t *testing.T) {
	frags := []caretrail.Fragment{
		{Text: "first", Final: true},
		{Text: "draft", Final: false},
		{Text: "second", Final: true},
		{Text: "third", Final: true},
	}

	var results []string
	for i := 0; i < 3; i++ {
		a := caretrail.NewAssembler()
		for _, f := range frags {
			a.Consume(f)
		}
		results = append(results, a.Transcript())
	}

	want := "first second third"
	for i, got := range results {
		if got != want {
			t.Errorf("replay %d: Transcript() = %q, want %q", i, got, want)
		}
	}
}

func TestAssembler_ErrorFragmentPreservesAccumulator(t *testing.T) {
	a := caretrail.NewAssembler()

	a.Consume(caretrail.Fragment{Text: "kept text", Final: true})
	a.Consume(caretrail.Fragment{Err: errors.New("no speech detected")})

	if got := a.Transcript(); got != "kept text" {
		t.Errorf("Transcript() = %q, want %q", got, "kept text")
	}
}

func TestAssembler_RestartContinuesSameAccumulator(t *testing.T) {
	a := caretrail.NewAssembler()

	// First stream.
	a.Consume(caretrail.Fragment{Text: "before pause", Final: true})
	// Fresh stream after resume.
	a.Consume(caretrail.Fragment{Text: "after resume", Final: true})

	want := "before pause after resume"
	if got := a.Transcript(); got != want {
		t.Errorf("Transcript() = %q, want %q", got, want)
	}
}

func TestAssembler_SetTranscriptReplaces(t *testing.T) {
	a := caretrail.NewAssembler()
	a.Consume(caretrail.Fragment{Text: "original", Final: true})

	a.SetTranscript("edited narration")

	if got := a.Transcript(); got != "edited narration" {
		t.Errorf("Transcript() = %q, want %q", got, "edited narration")
	}
}

func TestAssembler_Reset(t *testing.T) {
	a := caretrail.NewAssembler()
	a.Consume(caretrail.Fragment{Text: "something", Final: true})
	a.Consume(caretrail.Fragment{Text: "partial", Final: false})

	a.Reset()

	if got := a.Transcript(); got != "" {
		t.Errorf("Transcript() = %q, want empty", got)
	}
	if got := a.LivePreview(); got != "" {
		t.Errorf("LivePreview() = %q, want empty", got)
	}
}
