// Package assemble decides which artifacts to emit for a finished build
// (the rewritten module, the loader script, an HTML harness) and, when
// the module is to travel embedded inside the loader text rather than as
// a sibling file, encodes it with one of the two inline binary-to-text
// schemes spec.md §4.F step 5 / §6 describe: W64 (base-64 over a
// backslash-free 64-character alphabet) or RLE85
// (run-length plus base-85).
//
// The encoders build their output by appending to a []byte/strings.Builder
// in small fixed steps, the same append-only assembly style
// linker/internal/wasm/synthmod.go uses to build a synthetic module one
// section at a time, applied here to a non-WASM text wire format instead.
package assemble
