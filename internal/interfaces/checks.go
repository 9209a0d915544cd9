package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/keep-export/internal/exporters"
	"github.com/mrlokans/keep-export/internal/importers"
	"github.com/mrlokans/keep-export/internal/keep"
	"github.com/mrlokans/keep-export/internal/notesapi"
	"github.com/mrlokans/keep-export/internal/txlog"
)

// =============================================================================
// Export Pipeline
// =============================================================================

// NoteParser implementations
var _ importers.NoteParser = (*keep.Parser)(nil)

// Sink implementations
var _ exporters.Sink = (*exporters.TextSink)(nil)
var _ exporters.Sink = (*exporters.CintaNotesSink)(nil)
var _ exporters.Sink = (*exporters.RemoteSink)(nil)
var _ exporters.Sink = (*exporters.SimulateSink)(nil)

// =============================================================================
// Remote Export
// =============================================================================

// NoteCreator implementations
var _ exporters.NoteCreator = (*notesapi.Client)(nil)

// TransactionLog implementations
var _ exporters.TransactionLog = (*txlog.Log)(nil)
