package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the pipeline the error occurred.
type Phase string

const (
	PhaseDecode     Phase = "decode"     // binary codec, section walker
	PhaseEncode     Phase = "encode"     // import/export rewriter
	PhaseFragment   Phase = "fragment"   // fragment protocol parse/encode
	PhaseValidate   Phase = "validate"   // layout verifier
	PhaseSynthesize Phase = "synthesize" // loader synthesizer
	PhaseMinify     Phase = "minify"     // minification driver
	PhaseAssemble   Phase = "assemble"   // artifact assembly
	PhaseIO         Phase = "io"         // external I/O (reported for completeness; raised by callers)
)

// Kind categorizes the error.
type Kind string

const (
	KindInvalidData       Kind = "invalid_data"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindOverflow          Kind = "overflow"
	KindUnsupported       Kind = "unsupported"
	KindInvalidUTF8       Kind = "invalid_utf8"
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindDelimiterConflict Kind = "delimiter_conflict" // \x11 found where it must not appear
	KindMissingMemory     Kind = "missing_memory"     // feature needs memory, module has none
	KindMissingExport     Kind = "missing_export"     // feature needs an export the module lacks
	KindAlreadyProcessed  Kind = "already_processed"  // fragment has no js_code: module already processed
)

// Error is the structured error type used throughout this project.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Offset int // byte offset in the module, when known; -1 if not applicable
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset > 0 {
		fmt.Fprintf(&b, " (offset 0x%x)", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by Phase and Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder for the given phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the field path (e.g. section/entry names for a nested error).
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// At sets the byte offset within the module where the error was detected.
func (b *Builder) At(offset int) *Builder {
	b.err.Offset = offset
	return b
}

// Value sets the offending value.
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns.

// InvalidData creates an invalid data error.
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidData, Path: path, Detail: detail, Offset: -1}
}

// OutOfBounds creates an out-of-bounds error (a section or vector overran the module).
func OutOfBounds(phase Phase, path []string, offset, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("offset %d exceeds available length %d", offset, length),
		Value:  offset,
		Offset: offset,
	}
}

// Overflow creates a LEB128 overflow error.
func Overflow(phase Phase, path []string, detail string) *Error {
	return &Error{Phase: phase, Kind: KindOverflow, Path: path, Detail: detail, Offset: -1}
}

// Unsupported creates an unsupported-construct error.
func Unsupported(phase Phase, what string) *Error {
	return &Error{Phase: phase, Kind: KindUnsupported, Detail: what, Offset: -1}
}

// InvalidUTF8 creates an invalid UTF-8 error.
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
		Offset: -1,
	}
}

// NotFound creates a not-found error.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{Phase: phase, Kind: KindNotFound, Detail: fmt.Sprintf("%s %q not found", what, name), Offset: -1}
}

// InvalidInput creates an invalid input error.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidInput, Detail: detail, Offset: -1}
}

// DelimiterConflict creates an error for a \x11 byte found where it must not appear.
func DelimiterConflict(field string) *Error {
	return &Error{
		Phase:  PhaseFragment,
		Kind:   KindDelimiterConflict,
		Detail: fmt.Sprintf("field %q contains the reserved 0x11 delimiter", field),
		Offset: -1,
	}
}

// AlreadyProcessed creates the "module already processed" error spec.md §4.D requires
// when a J.* import field is missing its js_code record.
func AlreadyProcessed() *Error {
	return &Error{
		Phase:  PhaseFragment,
		Kind:   KindAlreadyProcessed,
		Detail: "module already processed",
		Offset: -1,
	}
}

// MissingMemory creates an error for a feature flag that requires memory the module lacks.
func MissingMemory(feature string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindMissingMemory,
		Detail: fmt.Sprintf("feature %q requires a memory but the module imports or exports none", feature),
		Offset: -1,
	}
}

// MissingExport creates an error for a feature flag that requires an export the module lacks.
func MissingExport(feature, export string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindMissingExport,
		Detail: fmt.Sprintf("feature %q requires export %q", feature, export),
		Offset: -1,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{Phase: phase, Kind: kind, Detail: detail, Cause: cause, Offset: -1}
}
