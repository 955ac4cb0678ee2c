package testutil

import (
	"time"

	"github.com/jmorrin/caretrail"
)

// SampleIncidents returns a small, fixed incident set: two Meltdown
// records a day apart with severities 2 and 5.
func SampleIncidents() []caretrail.Incident {
	return []caretrail.Incident{
		{
			ID:             "inc-001",
			Timestamp:      time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			Category:       "Meltdown",
			Severity:       2,
			Transcript:     "t1",
			PeopleInvolved: []string{},
		},
		{
			ID:             "inc-002",
			Timestamp:      time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
			Category:       "Meltdown",
			Severity:       5,
			Transcript:     "t2",
			PeopleInvolved: []string{"Child"},
		},
	}
}

// Incident builds a valid record with the given id, timestamp offset in
// days from a fixed origin, and severity.
func Incident(id string, dayOffset, severity int) caretrail.Incident {
	return caretrail.Incident{
		ID:         id,
		Timestamp:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset),
		Category:   "Sensory Overload",
		Severity:   severity,
		Transcript: "narration for " + id,
	}
}
