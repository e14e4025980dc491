// Package wat compiles a small subset of the WebAssembly Text format to
// binary WASM. It has no knowledge of the J.* import-fragment convention;
// it exists so the rest of this project's tests can build small, readable
// fixture modules (an import here, a memory there, an exported function)
// instead of hand-writing raw byte slices.
//
// Basic usage:
//
//	wasm, err := wat.Compile(`(module
//		(func (export "f") (result i32) (i32.const 1))
//	)`)
//
// Supported forms:
//   - (import "module" "field" (func [(param T...)] [(result T...)]))
//   - (import "module" "field" (memory min [max]))
//   - (import "module" "field" (table min [max] funcref))
//   - (import "module" "field" (global T)) / (global (mut T))
//   - (memory [(export "name")] min [max])
//   - (global (mut T) (T.const N))
//   - (func [$name] [(export "name")] [(param T...)] [(result T...)] [(T.const N)])
//
// T is one of i32/i64/f32/f64. A function or global body holds at most a
// single i32.const instruction; there is no control flow, no locals beyond
// params, and no other opcode. That is everything this project's fixtures
// exercise — Compile is not a general WAT toolchain.
package wat
