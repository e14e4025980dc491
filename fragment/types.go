package fragment

// Delimiter is the in-band field separator used inside a J-module
// import's field name. It must never appear literally in any field value;
// DelimiterConflict errors guard that invariant at encode time.
const Delimiter = '\x11'

// Fragment is the decoded form of one J-module import's field name.
type Fragment struct {
	Name string // js_name: the original identifier
	Args string // js_args: normalized JS parameter identifier list
	Code string // js_code: function body text, braces or expression form
	Lib  string // js_lib: optional library group tag, "" = default group
	Init string // js_init: optional one-time initializer block, unwrapped of its parens
}

// HasInit reports whether the fragment carries a non-empty initializer.
func (f Fragment) HasInit() bool {
	return f.Init != ""
}

// HasLib reports whether the fragment declares a non-default library group.
func (f Fragment) HasLib() bool {
	return f.Lib != ""
}
