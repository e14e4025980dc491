package minify

import (
	"strings"

	"github.com/schellingb/wajic-sub001/errors"
)

// Flatten rewrites every "WA.name" member access in src to the flat
// identifier "WA_name", so later minification can mangle it like any
// other top-level local instead of treating WA as a live object the
// embedding page must keep satisfying. This is a hand-rolled token scan,
// not a JS parser: none of the retrieved repos import a JS AST library
// for Go, so WA.<ident> is recognized lexically. A computed access with a
// literal string key (WA['foo']) is just as simple and is flattened the
// same way; only a non-literal key (WA[dynamic]) aborts, since there is
// no identifier to flatten it to.
func Flatten(src string) (string, error) {
	var b strings.Builder
	b.Grow(len(src))

	i := 0
	for i < len(src) {
		c := src[i]

		if c == '\'' || c == '"' || c == '`' {
			j := skipStringLiteral(src, i)
			b.WriteString(src[i:j])
			i = j
			continue
		}
		if c == '/' && i+1 < len(src) && (src[i+1] == '/' || src[i+1] == '*') {
			j := skipComment(src, i)
			b.WriteString(src[i:j])
			i = j
			continue
		}

		if matchesWAMember(src, i) {
			j := i + 3 // past "WA."
			k := j
			for k < len(src) && isIdentByte(src[k]) {
				k++
			}
			if k == j {
				return "", errors.New(errors.PhaseSynthesize, errors.KindUnsupported).
					Detail("WA. followed by an empty or non-identifier member name").Build()
			}
			b.WriteString("WA_")
			b.WriteString(src[j:k])
			i = k
			continue
		}

		if matchesWAComputedMember(src, i) {
			if name, j, ok := literalComputedMemberName(src, i); ok {
				b.WriteString("WA_")
				b.WriteString(name)
				i = j
				continue
			}
			return "", errors.New(errors.PhaseSynthesize, errors.KindUnsupported).
				Detail("WA[...] computed member access cannot be flattened").Build()
		}

		b.WriteByte(c)
		i++
	}
	return b.String(), nil
}

func matchesWAMember(src string, i int) bool {
	if i+3 > len(src) || src[i:i+2] != "WA" || src[i+2] != '.' {
		return false
	}
	if i > 0 && isIdentByte(src[i-1]) {
		return false // part of a longer identifier, e.g. "fooWA."
	}
	return true
}

func matchesWAComputedMember(src string, i int) bool {
	if i+3 > len(src) || src[i:i+2] != "WA" || src[i+2] != '[' {
		return false
	}
	if i > 0 && isIdentByte(src[i-1]) {
		return false
	}
	return true
}

// literalComputedMemberName recognizes WA['name'] / WA["name"], where
// name is itself a plain identifier, and returns that name plus the
// index just past the closing "]". Anything else (a non-string key, an
// unterminated string, or string content that isn't itself a valid
// identifier) reports false so the caller can abort instead.
func literalComputedMemberName(src string, i int) (string, int, bool) {
	j := i + 3 // past "WA["
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j >= len(src) || (src[j] != '\'' && src[j] != '"') {
		return "", 0, false
	}
	quote := src[j]
	end := skipStringLiteral(src, j)
	if end == 0 || end > len(src) || src[end-1] != quote {
		return "", 0, false
	}
	name := src[j+1 : end-1]
	if name == "" {
		return "", 0, false
	}
	for k := 0; k < len(name); k++ {
		if !isIdentByte(name[k]) {
			return "", 0, false
		}
	}
	k := end
	for k < len(src) && (src[k] == ' ' || src[k] == '\t') {
		k++
	}
	if k >= len(src) || src[k] != ']' {
		return "", 0, false
	}
	return name, k + 1, true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func skipStringLiteral(src string, i int) int {
	quote := src[i]
	j := i + 1
	for j < len(src) {
		if src[j] == '\\' {
			j += 2
			continue
		}
		if src[j] == quote {
			return j + 1
		}
		j++
	}
	return j
}

func skipComment(src string, i int) int {
	if src[i+1] == '/' {
		j := i + 2
		for j < len(src) && src[j] != '\n' {
			j++
		}
		return j
	}
	j := i + 2
	for j+1 < len(src) {
		if src[j] == '*' && src[j+1] == '/' {
			return j + 2
		}
		j++
	}
	return len(src)
}
