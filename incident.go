package caretrail

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// Severity bounds for an incident.
const (
	SeverityMin = 1
	SeverityMax = 5
)

// LocationUnavailable is recorded when geolocation was denied or timed
// out. An empty location means capture was skipped or disabled.
const LocationUnavailable = "Location unavailable"

// Categories is the suggested category vocabulary. A caregiver may also
// enter a custom label; category matching is exact either way.
var Categories = []string{
	"Meltdown",
	"School Refusal",
	"Sensory Overload",
	"Aggression",
	"Self-Injury",
	"Elopement",
	"Communication Difficulty",
	"Other",
}

// PeopleSuggestions is the suggested vocabulary for people involved.
var PeopleSuggestions = []string{
	"Child",
	"Parent/Guardian",
	"Teacher",
	"Sibling",
	"Therapist",
	"School Staff",
	"Peer",
	"Other",
}

// validate is shared by incident and report validation.
var validate = validator.New()

// Incident is one persisted record of a documented event. Records are
// immutable once created; they are replaced wholesale on import or
// removed by id, never mutated in place.
type Incident struct {
	ID             string    `json:"id" validate:"required"`
	Timestamp      time.Time `json:"timestamp" validate:"required"`
	Category       string    `json:"category" validate:"required"`
	Severity       int       `json:"severity" validate:"min=1,max=5"`
	Location       string    `json:"location,omitempty"`
	Transcript     string    `json:"transcript" validate:"required"`
	PeopleInvolved []string  `json:"peopleInvolved"`
}

// Validate checks the persistence invariants: non-blank transcript and
// category, severity within bounds, and no duplicate people entries.
func (inc Incident) Validate() error {
	if strings.TrimSpace(inc.Transcript) == "" {
		return fmt.Errorf("%w: transcript is empty", ErrValidation)
	}
	if strings.TrimSpace(inc.Category) == "" {
		return fmt.Errorf("%w: category is missing", ErrValidation)
	}
	if err := validate.Struct(inc); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	seen := make(map[string]bool, len(inc.PeopleInvolved))
	for _, p := range inc.PeopleInvolved {
		if seen[p] {
			return fmt.Errorf("%w: duplicate person %q", ErrValidation, p)
		}
		seen[p] = true
	}
	return nil
}

// Draft carries the caregiver-entered metadata bound to a finished
// session at save time.
type Draft struct {
	Category string
	Severity int
	People   []string
}

// BuildIncident assembles a validated Incident from a transcript and
// draft metadata. The transcript is trimmed; people are deduplicated
// preserving first occurrence. No store is touched on failure.
func BuildIncident(transcript string, d Draft, at time.Time, location string) (*Incident, error) {
	id, err := newIncidentID()
	if err != nil {
		return nil, fmt.Errorf("generate incident id: %w", err)
	}
	if at.IsZero() {
		at = time.Now()
	}
	inc := &Incident{
		ID:             id,
		Timestamp:      at,
		Category:       strings.TrimSpace(d.Category),
		Severity:       d.Severity,
		Location:       location,
		Transcript:     strings.TrimSpace(transcript),
		PeopleInvolved: dedupePeople(d.People),
	}
	if err := inc.Validate(); err != nil {
		return nil, err
	}
	return inc, nil
}

// SaveManual persists an incident entered without a recording session.
// The timestamp is the moment of entry and no location is attached.
func SaveManual(store Store, transcript string, d Draft) (*Incident, error) {
	inc, err := BuildIncident(transcript, d, time.Now(), "")
	if err != nil {
		return nil, err
	}
	if err := store.Append(*inc); err != nil {
		return nil, fmt.Errorf("save manual incident: %w", err)
	}
	return inc, nil
}

func newIncidentID() (string, error) {
	return nanoid.New()
}

func dedupePeople(people []string) []string {
	result := make([]string, 0, len(people))
	seen := make(map[string]bool, len(people))
	for _, p := range people {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result
}
