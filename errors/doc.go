// Package errors provides the structured error type shared across the
// wajic-sub001 pipeline: binary codec, section walker, fragment protocol,
// layout verifier, loader synthesizer, minifier, and artifact assembly.
//
// Errors are categorized by Phase (where in the pipeline the error
// occurred) and Kind (error category). The Error type carries a field
// path and, where known, the byte offset into the module being processed.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
//		Path("section", "import").
//		At(0x42).
//		Detail("import vector overruns module").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseDecode, path, offset, length)
//	err := errors.AlreadyProcessed()
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
