package loader

import "github.com/schellingb/wajic-sub001/verifier"

// ModuleLoad selects how the instantiation harness obtains the module
// bytes, per spec.md §4.F step 7.
type ModuleLoad int

const (
	// LoadInline embeds the module bytes directly in the loader text
	// (W64 or RLE85 encoded) and instantiates from the decoded buffer.
	LoadInline ModuleLoad = iota
	// LoadFetch issues a fetch() for the module URL and instantiates
	// from the resulting ArrayBuffer.
	LoadFetch
	// LoadStreaming uses WebAssembly.instantiateStreaming(fetch(url), ...).
	LoadStreaming
	// LoadNodeFS reads the module from the local filesystem, for a
	// Node-style host rather than a browser.
	LoadNodeFS
)

// InlineEncoding selects the binary-to-text scheme used to embed the
// module when ModuleLoad is LoadInline.
type InlineEncoding int

const (
	EncodingW64 InlineEncoding = iota
	EncodingRLE85
)

// LibraryGroup is one js_lib group of fragments: every fragment sharing a
// js_lib tag, plus the init texts those fragments carry, concatenated into
// one initializer that runs once for the whole group.
type LibraryGroup struct {
	Name  string // js_lib tag; "" is the default (no-init) group
	Init  string // concatenated initializer text, "" if none
	Funcs []FragmentFunc
}

// FragmentFunc is a single callable fragment, already in its final
// (possibly minified, possibly compact-renamed) textual form.
type FragmentFunc struct {
	Name string // the property name under which J[Name] or the lib-scoped table exposes it
	Args string // normalized JS parameter identifier list
	Code string // function body text (braces or expression form)
}

// MemorySpec describes the memory the instantiation harness must satisfy,
// derived from the module's import or export of a memory.
type MemorySpec struct {
	Imported     bool // true: module imports "env.memory"; false: module exports "memory"
	InitialPages uint32
}

// Options configures Synthesize beyond the feature flags the verifier
// derives.
type Options struct {
	Flags  verifier.Flags
	Memory MemorySpec

	Libraries []LibraryGroup

	// ExportNames lists every export the module provides, so the startup
	// sequence can test for __wasm_call_ctors, main variants, etc.
	ExportNames map[string]bool

	Load     ModuleLoad
	Encoding InlineEncoding

	// ModuleURL is used when Load is LoadFetch/LoadStreaming/LoadNodeFS.
	ModuleURL string

	// InlineModule holds the already-encoded (W64 or RLE85) text to embed
	// when Load is LoadInline.
	InlineModule string

	// EmbeddedFiles lists the "|name" custom sections present in the
	// module, for the WASI file-descriptor shim's __sys_open lookup.
	EmbeddedFiles map[string][]byte

	// RewriteWAMembers names the HTML-embedded "WA.foo -> WA_foo"
	// local-variable rewrite of spec.md §4.F step 2. Synthesize does not
	// read it and performs no such rewrite; minify.Flatten is the function
	// that rewrites WA members.
	RewriteWAMembers bool
}
