// Package loader synthesizes the host-side JavaScript program that
// instantiates a processed WebAssembly module: the extracted fragment
// table, the shims for every import the verifier identified, the
// instantiation harness, and the startup sequence.
//
// Like wat's encoder, this builds its output by direct textual
// emission into a Buffer rather than through an AST: the loader is a
// fixed skeleton with conditionally-included sections, not a program
// whose structure needs to be represented as a tree before printing.
package loader
