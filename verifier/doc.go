// Package verifier derives the feature-flag set that drives the loader
// synthesizer's conditional emission. It looks only at the module's
// observed imports, exports, and extracted fragment bodies — never at
// code section bytes — and raises a structured error the moment a
// derived requirement cannot be satisfied by what the module actually
// provides, the way the teacher's linker/internal/resolve package
// refuses to build an instance whose imports cannot be resolved.
package verifier
