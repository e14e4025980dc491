package fragment

import (
	"strings"

	"github.com/schellingb/wajic-sub001/errors"
)

// Encode renders f back into its non-minifying wire form:
// js_name \x11 js_args \x11 js_code [\x11 js_lib [\x11 js_init]].
// js_init, if present, is re-wrapped in parentheses. Any \x11 found inside
// the caller-supplied field values is reported as a DelimiterConflict
// rather than silently corrupting the layout.
func Encode(f Fragment) (string, error) {
	if err := checkNoDelimiter("js_name", f.Name); err != nil {
		return "", err
	}
	if err := checkNoDelimiter("js_args", f.Args); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte(Delimiter)
	b.WriteString(f.Args)
	b.WriteByte(Delimiter)
	b.WriteString(escapeControlChars(f.Code))

	if f.Lib != "" || f.Init != "" {
		if err := checkNoDelimiter("js_lib", f.Lib); err != nil {
			return "", err
		}
		b.WriteByte(Delimiter)
		b.WriteString(f.Lib)
	}
	if f.Init != "" {
		b.WriteByte(Delimiter)
		b.WriteByte('(')
		b.WriteString(escapeControlChars(f.Init))
		b.WriteByte(')')
	}
	return b.String(), nil
}

// EncodeCompact renders the post-minification compact wire form:
// new_name \x11 new_args \x11 new_code [\x11 lib_id] [\x11 \x11 (init_code)].
// newName and newArgs/newCode are the minified replacements for
// f.Name/Args/Code (the caller has already run them through the
// minification driver); libID is the short identifier CompactNamer
// assigned to f's library group, "" if f belongs to the default group.
// includeInit should be true only for the first fragment of its library
// group, since a library's initializer runs once and is attached to just
// one of its functions.
//
// The double \x11 before the init block (rather than three singly
// delimited fields) is deliberate: it disambiguates "lib_id present, no
// init" from "no lib_id, init present", both of which would otherwise
// parse identically by field count alone.
func EncodeCompact(newName, newArgs, newCode, libID string, includeInit bool, initCode string) (string, error) {
	for field, v := range map[string]string{"name": newName, "args": newArgs, "lib": libID} {
		if err := checkNoDelimiter(field, v); err != nil {
			return "", err
		}
	}

	var b strings.Builder
	b.WriteString(newName)
	b.WriteByte(Delimiter)
	b.WriteString(newArgs)
	b.WriteByte(Delimiter)
	b.WriteString(escapeDelimiterInMinified(newCode))

	if libID != "" {
		b.WriteByte(Delimiter)
		b.WriteString(libID)
	}
	if includeInit && initCode != "" {
		b.WriteByte(Delimiter)
		b.WriteByte(Delimiter)
		b.WriteByte('(')
		b.WriteString(escapeDelimiterInMinified(initCode))
		b.WriteByte(')')
	}
	return b.String(), nil
}

func checkNoDelimiter(field, v string) error {
	if strings.ContainsRune(v, Delimiter) {
		return errors.DelimiterConflict(field)
	}
	return nil
}

// escapeControlChars escapes bytes 0x00-0x1F for safe embedding in a
// WebAssembly UTF-8 field-name string: the named C escapes for
// \0 \t \n \v \f \r, and \xNN for everything else in that range.
func escapeControlChars(s string) string {
	needsEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 0x00:
			b.WriteString(`\0`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\v':
			b.WriteString(`\v`)
		case c == '\f':
			b.WriteString(`\f`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < 0x20:
			b.WriteString(`\x`)
			b.WriteByte(hexDigitChar(c >> 4))
			b.WriteByte(hexDigitChar(c & 0xf))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func hexDigitChar(v byte) byte {
	if v < 10 {
		return '0' + v
	}
	return 'a' + (v - 10)
}

// escapeDelimiterInMinified escapes any literal \x11 byte that survived
// into a minified string literal, turning it into the four-character
// textual escape \x11. Minifiers routinely re-encode embedded control
// bytes inside string literals verbatim; without this second pass the
// rewritten module's field name would contain a literal delimiter byte
// and could never be parsed back by Parse.
func escapeDelimiterInMinified(s string) string {
	if !strings.ContainsRune(s, Delimiter) {
		return s
	}
	return strings.ReplaceAll(s, string(Delimiter), `\x11`)
}
