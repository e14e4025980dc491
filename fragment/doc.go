// Package fragment implements the import-fragment wire protocol: decoding
// and re-encoding the JavaScript source the compile-time macro layer packs
// into the field name of every `J`-module import.
//
// A fragment's wire form is a handful of \x11-delimited text fields
// (js_name, js_args, js_code, and the optional js_lib/js_init) carried
// directly in the import's UTF-8 field name — there is no framing beyond
// the delimiter, so parsing is a split, not a grammar. Encode mirrors
// Parse the way transcoder's Encoder/Decoder pair mirror each other in
// the teacher repo, and CompactNamer assigns the short post-minification
// identifiers the compact wire form uses.
package fragment
