package caretrail

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TimelineCSVFilename is the download name for the tabular export.
const TimelineCSVFilename = "caretrail-timeline-data.csv"

// exportTimeLayout formats incident timestamps in export artifacts.
const exportTimeLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"Date", "Category", "Severity", "Location", "People Involved", "Transcript"}

// WriteTimelineCSV writes the tabular export: one header row followed
// by one row per incident, in the order given. Fields are quoted per
// standard CSV rules only when they need it. An empty set produces the
// header row alone.
func WriteTimelineCSV(w io.Writer, incidents []Incident) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, inc := range incidents {
		row := []string{
			inc.Timestamp.Format(exportTimeLayout),
			inc.Category,
			strconv.Itoa(inc.Severity),
			inc.Location,
			strings.Join(inc.PeopleInvolved, "; "),
			inc.Transcript,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
