// Package minify drives tdewolff/minify/v2's JavaScript minifier over
// synthesized loader source, in the two presets spec.md §4.G describes:
// an aggressive top-level pass for standalone loader output, and a
// formatting-only pass for sources that get concatenated and minified
// once downstream by the embedding page.
//
// Grounded on the markata-go js_minify plugin retrieved alongside this
// project: a package-level *minify.M built once via minify.New(), a
// sync.Pool of bytes.Buffer to avoid allocating one per call, and the
// minifier invoked through a Reader/Writer pair rather than operating
// on files directly.
package minify
