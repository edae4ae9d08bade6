package cubeimage

import "github.com/cubeimage/engine/diag"

// Warnings receives non-fatal diagnostics from codecs and transforms:
// coerced mip counts, skipped rotations on non-square faces, guessed pixel
// formats and the like. Presentation (logging, collecting, discarding) is
// entirely the caller's decision; the engine itself never formats a message
// for a human or writes to a stream. A nil Warnings is valid everywhere a
// Warnings is accepted and simply drops every message.
type Warnings = diag.Warnings

// DiscardWarnings is a Warnings that drops every message. It exists so
// callers can pass a concrete value instead of a bare nil when that reads
// more clearly at the call site.
type DiscardWarnings = diag.Discard

// CollectWarnings is a Warnings that appends every message it receives, for
// callers (and tests) that want to inspect what the engine reported.
type CollectWarnings = diag.Collect
