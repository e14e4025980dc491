package loader

import (
	"fmt"
	"strings"
)

// writeMemoryProvisioning emits step 6a: either a WebAssembly.Memory the
// loader owns (when the module imports "env.memory"), or nothing here at
// all because the module exports its own memory and the instantiation
// callback below will capture it from instance.exports instead.
func writeMemoryProvisioning(b *strings.Builder, opts Options) {
	if !opts.Memory.Imported {
		return
	}
	initial := opts.Memory.InitialPages
	if initial == 0 {
		initial = 256
	}
	fmt.Fprintf(b, "MEM = new WebAssembly.Memory({ initial: %d, maximum: Math.ceil(WA.maxmem / 65536) });\n", initial)
	if opts.Flags.NeedsSetViews {
		b.WriteString("MSetViews();\n")
	}
}

// writeInstantiation opens the module-load/instantiate promise chain per
// spec.md §4.F step 7, choosing inline/fetch/streaming/Node-filesystem
// acquisition of the module bytes. Every path resolves with a
// WebAssembly ResultObject ({module, instance}); the chain's final
// .then() callback is left open here so writeStartup can append the
// startup sequence inside it, and writeErrorTail closes the chain with
// .catch(). WM/WA.wm is bound to the compiled WebAssembly.Module, never
// the instance, per the handshake §6 documents.
func writeInstantiation(b *strings.Builder, opts Options) {
	switch opts.Load {
	case LoadInline:
		decodeFn := "decodeW64"
		if opts.Encoding == EncodingRLE85 {
			decodeFn = "decodeRLE85"
		}
		fmt.Fprintf(b, "var wasmBytes = %s(%s);\n", decodeFn, jsStringLiteral(opts.InlineModule))
		b.WriteString("WebAssembly.instantiate(wasmBytes, importObject)\n")
	case LoadStreaming:
		fmt.Fprintf(b, "WebAssembly.instantiateStreaming(fetch(%s), importObject)\n", jsStringLiteral(opts.ModuleURL))
	case LoadFetch:
		fmt.Fprintf(b, "fetch(%s)\n", jsStringLiteral(opts.ModuleURL))
		b.WriteString(".then(function(resp) { return resp.arrayBuffer(); })\n")
		b.WriteString(".then(function(bytes) { return WebAssembly.instantiate(bytes, importObject); })\n")
	case LoadNodeFS:
		fmt.Fprintf(b, "Promise.resolve(require('fs').readFileSync(%s))\n", jsStringLiteral(opts.ModuleURL))
		b.WriteString(".then(function(bytes) { return WebAssembly.instantiate(bytes, importObject); })\n")
	}
	b.WriteString(".then(function(result) {\n")
	b.WriteString("WM = result.module;\n")
	b.WriteString("var instance = result.instance;\n")
	b.WriteString("ASM = instance.exports;\n")
	b.WriteString("WA.wm = WM;\n")
	b.WriteString("WA.asm = ASM;\n")
	if !opts.Memory.Imported {
		b.WriteString("MEM = ASM.memory;\n")
		if opts.Flags.NeedsSetViews {
			b.WriteString("MSetViews();\n")
		}
	}
}
