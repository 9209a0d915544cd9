// Package importers provides the pipeline that reads a Google Keep Takeout
// directory and feeds every note into an export sink.
//
// # Architecture
//
// The pipeline follows a simple flow:
//
//	Takeout/Keep/*.html → NoteParser → entities.Note → exporters.Sink → output
//
// Files are handled one at a time in name order. Files that are not HTML
// are reported and ignored. What happens to a note that cannot be handled
// depends on the error:
//
//   - keep.ErrMalformedDocument: note skipped, run continues
//   - keep.ErrInvalidAttachmentEncoding: note failed, run continues
//   - exporters.ErrEncodingMismatch, exporters.ErrAlreadyExported: note
//     skipped, run continues
//   - anything else (remote submission, transaction log corruption, I/O):
//     run aborts
//
// # Example Usage
//
//	sink, err := exporters.New(exporters.KindCintaNotes, exporters.Options{OutputFile: "notes.xml"})
//	if err != nil {
//		return err
//	}
//
//	keepDir, err := importers.FindKeepDir("Takeout")
//	if err != nil {
//		return err
//	}
//
//	pipeline := importers.NewPipeline(keep.NewParser(), sink, nil)
//	result, err := pipeline.Run(ctx, keepDir)
package importers
