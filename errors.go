package cubeimage

import "github.com/cubeimage/engine/diag"

// ErrorKind classifies the failures the engine can report, per the error
// taxonomy of the design: IO, MagicMismatch, UnsupportedFormat,
// InvalidHeader, UnsupportedLayout and AllocationFailure are the kinds a
// caller needs to distinguish; Internal is a catch-all for invariant
// violations that should never occur outside of debug assertions.
type ErrorKind = diag.ErrorKind

const (
	KindIO                = diag.KindIO
	KindMagicMismatch     = diag.KindMagicMismatch
	KindUnsupportedFormat = diag.KindUnsupportedFormat
	KindInvalidHeader     = diag.KindInvalidHeader
	KindUnsupportedLayout = diag.KindUnsupportedLayout
	KindAllocationFailure = diag.KindAllocationFailure
	KindInternal          = diag.KindInternal
)

// Error is the error type returned by every fallible operation in this
// module. Op names the failing operation (e.g. "dds.Decode"), Kind
// classifies the failure and Err, if present, is the underlying cause.
type Error = diag.Error

// NewError constructs an *Error. It is the standard way for codecs and
// transforms in this module to report failure.
func NewError(op string, kind ErrorKind, err error) *Error {
	return diag.New(op, kind, err)
}
