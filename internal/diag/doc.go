// Package diag defines the issue model produced by structural detection and
// consumed by reporting and repair.
//
// # Data model
//
// Issue is the central record. It contains:
//
//   - Line – 1-based line number in the document; never the header.
//   - Content – the line's trimmed text as seen at detection time.
//   - Diagnosis – what is wrong: unbalanced quotes, or a field count that does
//     not match the header (with found/expected counts).
//   - Severity – tri-level enum defined in severity.go.
//   - Fixes – optional suggested replacements for the whole line.
//
// Code derives from the diagnosis and has a stable string form (CSV0001,
// CSV0002) suitable for machine output and golden tests.
//
// # Emitting issues
//
// Producers use a Reporter to decouple emission from storage. The detector
// builds each issue with NewReportBuilder, attaches suggestions with WithFix
// and calls Emit. BagReporter collects into a Bag, which supports a cap,
// sorting and deduplication.
//
// Package diag does no IO. Rendering lives in internal/report and applying a
// fix is the repair session's job.
package diag
