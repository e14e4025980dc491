package wat

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/schellingb/wajic-sub001/leb128"
)

// Compile parses a WebAssembly Text fixture and encodes it to the binary
// format. It is a hand-rolled S-expression reader, not a JS/Rust-grade WAT
// toolchain: it only understands the shapes this project's own test
// fixtures need (module/import/memory/global/func declarations,
// i32/i64/f32/f64 value types, and a bare i32.const body), so it stays small enough to read in
// one sitting.
func Compile(src string) ([]byte, error) {
	toks := tokenize(src)
	pos := 0
	root, err := parseSexpr(toks, &pos)
	if err != nil {
		return nil, err
	}
	if pos != len(toks) {
		return nil, fmt.Errorf("wat: unexpected input after the closing ')'")
	}
	kw, ok := root.head()
	if !ok || kw != "module" {
		return nil, fmt.Errorf("wat: expected a (module ...) form")
	}
	return compileModule(root.list[1:])
}

// sexpr is a parsed S-expression node: either a leaf atom (list == nil) or
// a parenthesized list of child nodes.
type sexpr struct {
	atom string
	list []*sexpr
}

func (s *sexpr) isList() bool { return s.list != nil }

func (s *sexpr) head() (string, bool) {
	if !s.isList() || len(s.list) == 0 {
		return "", false
	}
	return s.list[0].atom, true
}

type token struct {
	text string
}

func tokenize(src string) []token {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(' || c == ')':
			toks = append(toks, token{text: string(c)})
			i++
		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			toks = append(toks, token{text: src[i+1 : j]})
			i = j + 1
		default:
			j := i
			for j < len(src) && !isSpaceByte(src[j]) && src[j] != '(' && src[j] != ')' {
				j++
			}
			toks = append(toks, token{text: src[i:j]})
			i = j
		}
	}
	return toks
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func parseSexpr(toks []token, pos *int) (*sexpr, error) {
	if *pos >= len(toks) {
		return nil, fmt.Errorf("wat: unexpected end of input")
	}
	t := toks[*pos]
	if t.text == ")" {
		return nil, fmt.Errorf("wat: unexpected ')'")
	}
	if t.text != "(" {
		*pos++
		return &sexpr{atom: t.text}, nil
	}
	*pos++
	items := []*sexpr{}
	for {
		if *pos >= len(toks) {
			return nil, fmt.Errorf("wat: unclosed '('")
		}
		if toks[*pos].text == ")" {
			*pos++
			break
		}
		item, err := parseSexpr(toks, pos)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &sexpr{list: items}, nil
}

// moduleBuilder accumulates section contents in declaration order and
// assembles them into a binary module. Index spaces (func/memory/table/
// global) always put every import ahead of every same-kind definition, per
// the WASM spec, regardless of where in the source text the import was
// written; addImport runs over the whole module before any definitions do.
type moduleBuilder struct {
	types       [][]byte
	imports     [][]byte
	funcTypeIdx []uint32
	memories    [][]byte
	globals     [][]byte
	exports     [][]byte
	code        [][]byte

	nextFuncIdx   uint32
	nextMemIdx    uint32
	nextGlobalIdx uint32
	nextTableIdx  uint32
}

func compileModule(items []*sexpr) ([]byte, error) {
	b := &moduleBuilder{}

	for _, it := range items {
		kw, ok := it.head()
		if !ok || kw != "import" {
			continue
		}
		if err := b.addImport(it.list[1:]); err != nil {
			return nil, err
		}
	}

	for _, it := range items {
		kw, ok := it.head()
		if !ok {
			return nil, fmt.Errorf("wat: module form must start with a keyword")
		}
		switch kw {
		case "import":
			continue
		case "memory":
			if err := b.addMemory(it.list[1:]); err != nil {
				return nil, err
			}
		case "global":
			if err := b.addGlobal(it.list[1:]); err != nil {
				return nil, err
			}
		case "func":
			if err := b.addFunc(it.list[1:]); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("wat: unsupported module form %q", kw)
		}
	}

	return b.encode(), nil
}

func (b *moduleBuilder) addType(params, results []byte) uint32 {
	var t bytes.Buffer
	t.WriteByte(0x60)
	leb128.WriteUvarint32(&t, uint32(len(params)))
	t.Write(params)
	leb128.WriteUvarint32(&t, uint32(len(results)))
	t.Write(results)
	idx := uint32(len(b.types))
	b.types = append(b.types, t.Bytes())
	return idx
}

func (b *moduleBuilder) addImport(items []*sexpr) error {
	if len(items) != 3 || items[2] == nil || !items[2].isList() {
		return fmt.Errorf("wat: import requires a module name, a field name, and a descriptor")
	}
	modName, field := items[0].atom, items[1].atom
	desc := items[2]
	kind, ok := desc.head()
	if !ok {
		return fmt.Errorf("wat: malformed import descriptor")
	}

	switch kind {
	case "func":
		params, results, err := parseFuncType(desc.list[1:])
		if err != nil {
			return err
		}
		typeIdx := b.addType(params, results)
		d := leb128.AppendUvarint32(nil, typeIdx)
		b.imports = append(b.imports, encodeImportEntry(modName, field, 0x00, d))
		b.nextFuncIdx++
	case "memory":
		min, max, err := parseLimits(desc.list[1:])
		if err != nil {
			return err
		}
		b.imports = append(b.imports, encodeImportEntry(modName, field, 0x02, encodeLimits(min, max)))
		b.nextMemIdx++
	case "table":
		min, max, err := parseLimits(desc.list[1:])
		if err != nil {
			return err
		}
		d := append([]byte{0x70}, encodeLimits(min, max)...)
		b.imports = append(b.imports, encodeImportEntry(modName, field, 0x01, d))
		b.nextTableIdx++
	case "global":
		valtype, mutable, err := parseGlobalTypeDesc(desc.list[1:])
		if err != nil {
			return err
		}
		d := []byte{valtype, mutByte(mutable)}
		b.imports = append(b.imports, encodeImportEntry(modName, field, 0x03, d))
		b.nextGlobalIdx++
	default:
		return fmt.Errorf("wat: unsupported import kind %q", kind)
	}
	return nil
}

func (b *moduleBuilder) addMemory(items []*sexpr) error {
	exportName, hasExport := findExport(items)
	min, max, err := parseLimits(items)
	if err != nil {
		return err
	}
	memIdx := b.nextMemIdx
	b.nextMemIdx++
	b.memories = append(b.memories, encodeLimits(min, max))
	if hasExport {
		b.exports = append(b.exports, encodeExport(exportName, 0x02, memIdx))
	}
	return nil
}

func (b *moduleBuilder) addGlobal(items []*sexpr) error {
	var valtype byte
	var mutable, typeSet bool
	var initExpr *sexpr

	for _, it := range items {
		if !it.isList() {
			continue // $name identifier
		}
		if len(it.list) == 0 {
			continue
		}
		switch it.list[0].atom {
		case "mut":
			vt, err := encodeValType(it.list[1].atom)
			if err != nil {
				return err
			}
			valtype, mutable, typeSet = vt, true, true
		case "export":
			// No fixture exports a global yet; nothing to wire up.
		default:
			initExpr = it
		}
	}
	if !typeSet {
		for _, it := range items {
			if it.isList() || it.atom == "" {
				continue
			}
			vt, err := encodeValType(it.atom)
			if err != nil {
				return err
			}
			valtype, mutable, typeSet = vt, false, true
			break
		}
	}
	if !typeSet {
		return fmt.Errorf("wat: global is missing a value type")
	}
	if initExpr == nil {
		return fmt.Errorf("wat: global is missing an initializer expression")
	}

	initBytes, err := encodeConstExpr(initExpr)
	if err != nil {
		return err
	}
	var g bytes.Buffer
	g.WriteByte(valtype)
	g.WriteByte(mutByte(mutable))
	g.Write(initBytes)
	b.globals = append(b.globals, g.Bytes())
	b.nextGlobalIdx++
	return nil
}

func (b *moduleBuilder) addFunc(items []*sexpr) error {
	exportName, hasExport := findExport(items)
	var params, results []byte
	var bodyExpr *sexpr

	for _, it := range items {
		if !it.isList() || len(it.list) == 0 {
			continue // $name identifier
		}
		switch it.list[0].atom {
		case "export":
			continue
		case "param":
			vt, err := parseValTypeList(it.list[1:])
			if err != nil {
				return err
			}
			params = append(params, vt...)
		case "result":
			vt, err := parseValTypeList(it.list[1:])
			if err != nil {
				return err
			}
			results = append(results, vt...)
		default:
			if bodyExpr != nil {
				return fmt.Errorf("wat: a function body may hold only a single instruction")
			}
			bodyExpr = it
		}
	}

	typeIdx := b.addType(params, results)
	b.funcTypeIdx = append(b.funcTypeIdx, typeIdx)
	funcIdx := b.nextFuncIdx
	b.nextFuncIdx++

	body, err := encodeFuncBody(bodyExpr)
	if err != nil {
		return err
	}
	b.code = append(b.code, body)

	if hasExport {
		b.exports = append(b.exports, encodeExport(exportName, 0x00, funcIdx))
	}
	return nil
}

func (b *moduleBuilder) encode() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = appendVecSection(out, 0x01, b.types)
	out = appendVecSection(out, 0x02, b.imports)
	if len(b.funcTypeIdx) > 0 {
		var payload []byte
		payload = leb128.AppendUvarint32(payload, uint32(len(b.funcTypeIdx)))
		for _, idx := range b.funcTypeIdx {
			payload = leb128.AppendUvarint32(payload, idx)
		}
		out = appendSection(out, 0x03, payload)
	}
	out = appendVecSection(out, 0x05, b.memories)
	out = appendVecSection(out, 0x06, b.globals)
	out = appendVecSection(out, 0x07, b.exports)
	out = appendVecSection(out, 0x0A, b.code)
	return out
}

// appendVecSection writes section id as a WASM "vector" section: an entry
// count followed by each already-encoded entry, concatenated. Sections with
// no entries are omitted, per convention.
func appendVecSection(out []byte, id byte, entries [][]byte) []byte {
	if len(entries) == 0 {
		return out
	}
	var payload []byte
	payload = leb128.AppendUvarint32(payload, uint32(len(entries)))
	for _, e := range entries {
		payload = append(payload, e...)
	}
	return appendSection(out, id, payload)
}

func appendSection(out []byte, id byte, payload []byte) []byte {
	out = append(out, id)
	out = leb128.AppendUvarint32(out, uint32(len(payload)))
	return append(out, payload...)
}

func encodeImportEntry(mod, field string, kind byte, desc []byte) []byte {
	var e []byte
	e = leb128.AppendString(e, mod)
	e = leb128.AppendString(e, field)
	e = append(e, kind)
	return append(e, desc...)
}

func encodeExport(name string, kind byte, idx uint32) []byte {
	var e []byte
	e = leb128.AppendString(e, name)
	e = append(e, kind)
	return leb128.AppendUvarint32(e, idx)
}

func encodeLimits(min uint32, max *uint32) []byte {
	var buf bytes.Buffer
	if max != nil {
		buf.WriteByte(0x01)
		leb128.WriteUvarint32(&buf, min)
		leb128.WriteUvarint32(&buf, *max)
	} else {
		buf.WriteByte(0x00)
		leb128.WriteUvarint32(&buf, min)
	}
	return buf.Bytes()
}

func encodeFuncBody(bodyExpr *sexpr) ([]byte, error) {
	var instr []byte
	if bodyExpr == nil {
		instr = []byte{0x0B}
	} else {
		var err error
		instr, err = encodeConstExpr(bodyExpr)
		if err != nil {
			return nil, err
		}
	}
	body := leb128.AppendUvarint32(nil, 0) // no local-decl groups
	body = append(body, instr...)
	out := leb128.AppendUvarint32(nil, uint32(len(body)))
	return append(out, body...), nil
}

// encodeConstExpr supports exactly the one instruction this project's
// fixtures use as a global or function body: i32.const.
func encodeConstExpr(expr *sexpr) ([]byte, error) {
	if len(expr.list) < 2 || expr.list[0].atom != "i32.const" {
		return nil, fmt.Errorf("wat: only i32.const is supported as an instruction")
	}
	n, err := strconv.ParseInt(expr.list[1].atom, 0, 32)
	if err != nil {
		return nil, fmt.Errorf("wat: invalid i32.const operand %q: %w", expr.list[1].atom, err)
	}
	var buf bytes.Buffer
	buf.WriteByte(0x41)
	leb128.WriteVarint32(&buf, int32(n))
	buf.WriteByte(0x0B)
	return buf.Bytes(), nil
}

func parseFuncType(items []*sexpr) (params, results []byte, err error) {
	for _, it := range items {
		if !it.isList() || len(it.list) == 0 {
			continue
		}
		switch it.list[0].atom {
		case "param":
			vt, e := parseValTypeList(it.list[1:])
			if e != nil {
				return nil, nil, e
			}
			params = append(params, vt...)
		case "result":
			vt, e := parseValTypeList(it.list[1:])
			if e != nil {
				return nil, nil, e
			}
			results = append(results, vt...)
		}
	}
	return params, results, nil
}

func parseValTypeList(items []*sexpr) ([]byte, error) {
	var out []byte
	for _, it := range items {
		if it.isList() {
			return nil, fmt.Errorf("wat: expected a value type")
		}
		if strings.HasPrefix(it.atom, "$") {
			continue // a named param/result identifier, type follows
		}
		vt, err := encodeValType(it.atom)
		if err != nil {
			return nil, err
		}
		out = append(out, vt)
	}
	return out, nil
}

func encodeValType(name string) (byte, error) {
	switch name {
	case "i32":
		return 0x7F, nil
	case "i64":
		return 0x7E, nil
	case "f32":
		return 0x7D, nil
	case "f64":
		return 0x7C, nil
	default:
		return 0, fmt.Errorf("wat: unknown value type %q", name)
	}
}

func parseGlobalTypeDesc(items []*sexpr) (valtype byte, mutable bool, err error) {
	if len(items) == 0 {
		return 0, false, fmt.Errorf("wat: global import is missing a value type")
	}
	it := items[0]
	if it.isList() {
		if len(it.list) < 2 || it.list[0].atom != "mut" {
			return 0, false, fmt.Errorf("wat: malformed global type")
		}
		vt, e := encodeValType(it.list[1].atom)
		return vt, true, e
	}
	vt, e := encodeValType(it.atom)
	return vt, false, e
}

// parseLimits scans for a leading "min [max]" pair of decimal atoms, per
// the WAT limits grammar, skipping any other atom in the list (a $name, or
// a table element-type keyword like funcref) and any nested list (e.g. the
// (export "x") clause memory/table declarations may carry).
func parseLimits(items []*sexpr) (min uint32, max *uint32, err error) {
	var nums []uint32
	for _, it := range items {
		if it.isList() {
			continue
		}
		n, perr := strconv.ParseUint(it.atom, 10, 32)
		if perr != nil {
			continue
		}
		nums = append(nums, uint32(n))
	}
	if len(nums) == 0 {
		return 0, nil, fmt.Errorf("wat: limits require at least a minimum")
	}
	min = nums[0]
	if len(nums) > 1 {
		m := nums[1]
		max = &m
	}
	return min, max, nil
}

func findExport(items []*sexpr) (name string, ok bool) {
	for _, it := range items {
		if it.isList() && len(it.list) >= 2 && it.list[0].atom == "export" {
			return it.list[1].atom, true
		}
	}
	return "", false
}

func mutByte(mutable bool) byte {
	if mutable {
		return 1
	}
	return 0
}
