package assemble

// Emit selects which artifacts an Assemble call produces, per spec.md
// §4.H's "emit any subset" rule.
type Emit struct {
	Module bool
	Loader bool
	HTML   bool
}

// AssembleOptions configures how the artifacts are produced.
type AssembleOptions struct {
	Emit Emit

	// Encoding selects the inline binary-to-text scheme when the module
	// travels embedded inside the loader text rather than as a sibling
	// file.
	Encoding InlineEncoding
	Inline   bool // true: embed the module in the loader; false: reference ModuleURL

	ModuleURL string
	Title     string // HTML document title
	Progress  bool   // overlay a DOM progress bar updated from XHR progress events

	// SelfCheck runs the rewritten module through wasmfile.Validate
	// before it is emitted, to catch a structurally invalid rewrite
	// before it reaches an artifact. Opt-in: validating arbitrary
	// modules is out of scope, but checking our own rewrite output is a
	// narrower, cheap safety net.
	SelfCheck bool

	// MaxParallelism is unused by this core: the experimental N-way
	// external-compiler fan-out spec.md §5 describes belongs to a
	// higher-level toolchain invoker this package doesn't implement.
	// The field exists so that layer has somewhere to plumb a value
	// without changing this package's shape.
	MaxParallelism int
}

// Artifacts holds whichever outputs AssembleOptions.Emit requested.
type Artifacts struct {
	Module []byte // present when Emit.Module
	Loader string // present when Emit.Loader
	HTML   string // present when Emit.HTML
}

// Warning is a non-fatal finding accumulated during assembly.
type Warning struct {
	Message string
}
