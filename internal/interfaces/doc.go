// Package interfaces documents the core abstractions of the exporter.
//
// # Interface Categories
//
// ## Export Pipeline
//
//   - NoteParser: Turns one Takeout HTML file into a note (internal/importers/pipeline.go)
//   - Sink: Consumes notes and produces one output format (internal/exporters/generic.go)
//
// ## Remote Export
//
//   - NoteCreator: Creates notes in a remote service (internal/exporters/remote.go)
//   - TransactionLog: Remembers which notes were created per destination (internal/exporters/remote.go)
//
// # Adding a New Output Format
//
//  1. Implement Sink in internal/exporters/
//
//     type MarkdownSink struct {
//         OutputDir string
//     }
//
//     func (s *MarkdownSink) Name() string { return "markdown" }
//     func (s *MarkdownSink) Export(ctx context.Context, note *entities.Note) error
//     func (s *MarkdownSink) Finalize(ctx context.Context) error
//
//  2. Add a Kind constant, list it in Kinds() and build it in New()
//
//  3. Add a compile-time check to checks.go
//
// Export is called once per note in source order, Finalize once after the
// last note, including after a cancelled run. Return an error wrapping
// ErrAlreadyExported or ErrEncodingMismatch to have a note counted as skipped
// instead of failed.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
