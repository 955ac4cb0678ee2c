// Package caretrail implements the incident capture and documentation
// engine behind the caretrail caregiver app: recording sessions with
// streaming speech-to-text, the incident record lifecycle, and the
// query/export subsystem that turns stored incidents into filtered
// views and portable reports.
//
// The package is organized around a small set of collaborators:
//
//   - Recorder: the state machine for one active capture session
//   - Assembler: merges streaming recognition fragments into a transcript
//   - Store: durable incident storage (in-memory, JSON file, SQLite)
//   - View: pure filtered/ordered projections over the stored set
//   - Exporters: CSV timeline, paginated PDF reports, backup documents
//
// Subpackages:
//
//   - config: yaml settings (capture flags, data dir, log level)
//   - logger: structured logger construction
//   - testutil: fake capture devices and incident fixtures
//
// # Quick Start
//
//	store, _ := caretrail.NewFileStore(path)
//	rec := caretrail.NewRecorder(store, mic, speech, gps, caretrail.RecorderConfig{
//	    VoiceCapture:    true,
//	    LocationCapture: true,
//	})
//
//	rec.Start(ctx)
//	// ... caregiver narrates ...
//	rec.Stop()
//	incident, err := rec.Save(caretrail.Draft{Category: "Meltdown", Severity: 3})
//
// Hardware access is injected as capability interfaces (AudioDevice,
// Recognizer, LocationProvider), keeping transition logic independent
// of any particular device stack.
package caretrail
