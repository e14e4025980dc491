package fragment

import (
	"strings"

	"github.com/schellingb/wajic-sub001/errors"
)

// Parse splits raw on the \x11 delimiter into up to five fields and
// builds a Fragment, normalizing js_args as it goes. raw is the full
// field-name string of a J-module import (not the "J." module prefix,
// just the field).
//
// A record with fewer than three fields (missing js_code) means the
// module has already been through this pipeline once: the fragment table
// has already been extracted and the field name holds only the compact
// short name. Per the wire contract that is reported as
// errors.AlreadyProcessed, not a format error, since it is an expected
// state transition rather than malformed input.
func Parse(raw string) (Fragment, error) {
	parts := strings.Split(raw, string(Delimiter))
	if len(parts) < 3 {
		return Fragment{}, errors.AlreadyProcessed()
	}

	f := Fragment{
		Name: parts[0],
		Args: NormalizeArgs(parts[1]),
		Code: unescapeControlChars(parts[2]),
	}
	if len(parts) > 3 {
		f.Lib = parts[3]
	}
	if len(parts) > 4 {
		f.Init = unescapeControlChars(unwrapParens(parts[4]))
	}
	return f, nil
}

// unwrapParens strips one layer of surrounding parentheses, as js_init is
// wrapped in them at emission time per the wire contract.
func unwrapParens(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		return s[1 : len(s)-1]
	}
	return s
}

// NormalizeArgs turns a C-style parameter list (as the compile-time macro
// layer emits it) into a comma-joined list of JS argument identifiers.
//
// The transformation:
//   - A lone "void" or an empty list yields "".
//   - Surrounding parentheses are stripped.
//   - Each "<type> <name>[...]" entry's array suffix "[...]" is dropped.
//   - A trailing "= default" or "WA_ARG(default)" default-value tail is
//     dropped.
//   - If the type text indicates a 64-bit value (matches int64_t, uint64_t,
//     long long, or a trailing "64"), the single C parameter is split into
//     two JS arguments name_lo, name_hi, since WebAssembly passes a 64-bit
//     argument as two lowered 32-bit halves at the JS boundary.
//   - Otherwise the bare name is emitted.
func NormalizeArgs(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSpace(s)
	if s == "" || s == "void" {
		return ""
	}

	var out []string
	for _, entry := range splitTopLevelCommas(s) {
		entry = strings.TrimSpace(entry)
		if entry == "" || entry == "void" {
			continue
		}
		name, is64 := normalizeParam(entry)
		if name == "" {
			continue
		}
		if is64 {
			out = append(out, name+"_lo", name+"_hi")
		} else {
			out = append(out, name)
		}
	}
	return strings.Join(out, ", ")
}

// splitTopLevelCommas splits on commas that are not nested inside
// parentheses, so a default-argument tail like "WA_ARG(1,2)" does not get
// sliced in half.
func splitTopLevelCommas(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func normalizeParam(entry string) (name string, is64 bool) {
	entry = stripDefaultTail(entry)
	entry = stripArraySuffix(entry)
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "", false
	}

	fields := strings.Fields(entry)
	if len(fields) == 0 {
		return "", false
	}
	name = strings.TrimLeft(fields[len(fields)-1], "*&")
	typeText := strings.Join(fields[:len(fields)-1], " ")
	if len(fields) == 1 {
		// A bare identifier with no type text: still a valid name.
		typeText = ""
	}
	return name, is64BitType(typeText)
}

func stripArraySuffix(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

// stripDefaultTail removes a trailing "= expr" or "WA_ARG(expr)" default
// value marker from a single parameter entry.
func stripDefaultTail(s string) string {
	if i := strings.Index(s, "WA_ARG("); i >= 0 {
		return s[:i]
	}
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i]
	}
	return s
}

func is64BitType(typeText string) bool {
	t := strings.ToLower(typeText)
	switch {
	case strings.Contains(t, "int64_t"),
		strings.Contains(t, "uint64_t"),
		strings.Contains(t, "long long"),
		strings.HasSuffix(t, "64"):
		return true
	}
	return false
}

// unescapeControlChars reverses escapeControlChars: turns the textual
// escapes this wire format uses for bytes 0x00-0x1F back into the raw
// control bytes. Unknown-to-us escape sequences are passed through
// unchanged rather than erroring, since js_code/js_init are opaque text
// this tool never fully parses.
func unescapeControlChars(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		switch next {
		case '0':
			b.WriteByte(0x00)
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'x':
			if i+3 < len(s) {
				if v, ok := hexByte(s[i+2], s[i+3]); ok {
					b.WriteByte(v)
					i += 3
					continue
				}
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func hexByte(hi, lo byte) (byte, bool) {
	h, ok1 := hexDigit(hi)
	l, ok2 := hexDigit(lo)
	if !ok1 || !ok2 {
		return 0, false
	}
	return h<<4 | l, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
