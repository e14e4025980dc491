package loader

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Synthesize emits the complete host-language loader program for a
// processed module, following spec.md §4.F's nine numbered steps.
func Synthesize(opts Options) (string, error) {
	Logger().Debug("synthesizing loader", zap.Int("library_count", len(opts.Libraries)), zap.Bool("inline", opts.Load == LoadInline))

	var b strings.Builder

	writePreamble(&b, opts)
	writeDeclarations(&b, opts)
	writeAbort(&b)
	writeMarshalling(&b, opts.Flags)
	if opts.Load == LoadInline {
		writeInlineDecoder(&b, opts.Encoding)
	}
	if err := writeImportObject(&b, opts); err != nil {
		return "", err
	}
	writeMemoryProvisioning(&b, opts)
	writeInstantiation(&b, opts)
	writeStartup(&b, opts)
	writeErrorTail(&b)

	b.WriteString("})();\n")
	return b.String(), nil
}

func writePreamble(b *strings.Builder, opts Options) {
	b.WriteString("'use strict';\n")
	b.WriteString("(function() {\n")
	b.WriteString("var WA = self.WA = self.WA || {};\n")
	b.WriteString("WA.canvas = WA.canvas || null;\n")
	b.WriteString("WA.print = WA.print || function(t) { (typeof console !== 'undefined') && console.log(t); };\n")
	b.WriteString("WA.error = WA.error || function(code, msg) { (typeof console !== 'undefined') && console.error(code, msg); };\n")
	b.WriteString("WA.started = WA.started || function() {};\n")
	b.WriteString("WA.module = WA.module || " + jsStringLiteral(opts.ModuleURL) + ";\n")
	b.WriteString("WA.maxmem = WA.maxmem || (256 * 1024 * 1024);\n")
}

func writeDeclarations(b *strings.Builder, opts Options) {
	b.WriteString("var STOP = false, TEMP = 0, WM = null, ASM = null, MEM = null;\n")
	if opts.Flags.NeedsSetViews {
		b.WriteString("var MU8, MU16, MU32, MI32, MF32;\n")
	}
	if opts.Flags.UsesSbrk {
		b.WriteString("var WASM_HEAP = 0, WASM_HEAP_MAX = WA.maxmem;\n")
	}
	if opts.Flags.UsesFileDescriptors {
		b.WriteString("var FPTS = [null, null];\n") // index 0/1 reserved
	}
}

func writeAbort(b *strings.Builder) {
	b.WriteString(`function abort(code, msg) {
  STOP = true;
  WA.error(code, msg);
  throw 'abort';
}
`)
}

// writeErrorTail emits step 9's final instantiation-promise catch clause.
func writeErrorTail(b *strings.Builder) {
	b.WriteString(`.catch(function(err) {
  if (err !== 'abort') abort('BOOT', 'WASM instantiate error: ' + err + (err && err.stack ? err.stack : ''));
});
`)
}

func jsStringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func fmtUint(n uint32) string {
	return fmt.Sprintf("%d", n)
}
