package wasmfile

import (
	"github.com/schellingb/wajic-sub001/errors"
	"github.com/schellingb/wajic-sub001/leb128"
)

// ReadImports decodes the import section payload module[start:end] (as
// produced by Walk for SectionImport) into a slice of Import values, in
// file order.
func ReadImports(module []byte, start, end int) ([]Import, error) {
	data := module[:end]
	off := start
	count, n := leb128.Uvarint32(data[off:])
	if n < 0 {
		return nil, errors.Overflow(errors.PhaseDecode, []string{"import", "count"}, "malformed vector length")
	}
	off += n

	imports := make([]Import, 0, count)
	for i := uint32(0); i < count; i++ {
		mod, next, err := leb128.ReadString(data, off)
		if err != nil {
			return nil, err
		}
		off = next

		fieldStart := off
		field, next, err := leb128.ReadString(data, off)
		if err != nil {
			return nil, err
		}
		fieldLen := next - fieldStart
		off = next

		if off >= len(data) {
			return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"import", "kind"}, off, len(data))
		}
		kind := ImportKind(data[off])
		off++

		imp := Import{
			Module:      mod,
			Field:       field,
			Kind:        kind,
			fieldOffset: fieldStart,
			fieldLen:    fieldLen,
		}

		switch kind {
		case KindFunc:
			idx, w := leb128.Uvarint32(data[off:])
			if w < 0 {
				return nil, errors.Overflow(errors.PhaseDecode, []string{"import", "typeidx"}, "malformed type index")
			}
			imp.TypeIdx = idx
			off += w

		case KindTable:
			if off >= len(data) {
				return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"import", "table", "elemtype"}, off, len(data))
			}
			imp.TableElemType = data[off]
			off++
			lim, next, err := readLimits(data, off)
			if err != nil {
				return nil, err
			}
			imp.TableLimits = lim
			off = next

		case KindMemory:
			lim, next, err := readLimits(data, off)
			if err != nil {
				return nil, err
			}
			imp.MemoryLimits = lim
			off = next

		case KindGlobal:
			if off+1 >= len(data) {
				return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"import", "global"}, off, len(data))
			}
			imp.GlobalValType = data[off]
			imp.GlobalMutable = data[off+1] != 0
			off += 2

		default:
			return nil, errors.Unsupported(errors.PhaseDecode, "unknown import kind tag")
		}

		imports = append(imports, imp)
	}
	return imports, nil
}

// readLimits decodes a table/memory limits record (flags byte, min, and an
// optional max) starting at off, returning the offset just past it.
func readLimits(data []byte, off int) (Limits, int, error) {
	if off >= len(data) {
		return Limits{}, 0, errors.OutOfBounds(errors.PhaseDecode, []string{"limits"}, off, len(data))
	}
	flags := data[off]
	off++

	min, n := leb128.Uvarint32(data[off:])
	if n < 0 {
		return Limits{}, 0, errors.Overflow(errors.PhaseDecode, []string{"limits", "min"}, "malformed limits.min")
	}
	off += n

	lim := Limits{Min: min, Shared: flags&0x02 != 0, present: true}
	if flags&0x01 != 0 {
		max, n := leb128.Uvarint32(data[off:])
		if n < 0 {
			return Limits{}, 0, errors.Overflow(errors.PhaseDecode, []string{"limits", "max"}, "malformed limits.max")
		}
		off += n
		lim.HasMax = true
		lim.Max = &max
	}
	return lim, off, nil
}

// ReadExports decodes the export section payload module[start:end] (as
// produced by Walk for SectionExport).
func ReadExports(module []byte, start, end int) ([]Export, error) {
	data := module[:end]
	off := start
	count, n := leb128.Uvarint32(data[off:])
	if n < 0 {
		return nil, errors.Overflow(errors.PhaseDecode, []string{"export", "count"}, "malformed vector length")
	}
	off += n

	exports := make([]Export, 0, count)
	for i := uint32(0); i < count; i++ {
		entryStart := off
		field, next, err := leb128.ReadString(data, off)
		if err != nil {
			return nil, err
		}
		off = next

		if off >= len(data) {
			return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"export", "kind"}, off, len(data))
		}
		kind := ImportKind(data[off])
		off++

		idx, w := leb128.Uvarint32(data[off:])
		if w < 0 {
			return nil, errors.Overflow(errors.PhaseDecode, []string{"export", "index"}, "malformed export index")
		}
		off += w

		exports = append(exports, Export{
			Field:       field,
			Kind:        kind,
			Index:       idx,
			entryOffset: entryStart,
			entryLen:    off - entryStart,
		})
	}
	return exports, nil
}

// HasMemory reports whether the module defines a memory, either via the
// import section (a memory import from any module) or the memory
// section (an internally defined memory). Callers pass both section
// ranges as found by Walk; either may be the zero range (0,0) if the
// section is absent.
func HasMemory(module []byte, importStart, importEnd, memStart, memEnd int) (bool, error) {
	if memEnd > memStart {
		count, n := leb128.Uvarint32(module[memStart:memEnd])
		if n >= 0 && count > 0 {
			return true, nil
		}
	}
	if importEnd > importStart {
		imports, err := ReadImports(module, importStart, importEnd)
		if err != nil {
			return false, err
		}
		for _, imp := range imports {
			if imp.Kind == KindMemory {
				return true, nil
			}
		}
	}
	return false, nil
}

// GlobalInit is the restricted set of global initializer expressions this
// project understands: a single i32.const followed by end, per spec.md
// §4.B ("global init-exprs are read only far enough to confirm they are a
// bare i32.const"). Any other opcode sequence is reported as unsupported
// rather than guessed at.
type GlobalInit struct {
	ValType byte
	Mutable bool
	Value   int32
}

// ReadGlobals decodes the global section payload, restricted to globals
// whose initializer is a bare `i32.const N end`. A global using any other
// initializer form yields errors.Unsupported, since nothing in this
// project's pipeline needs to evaluate richer constant expressions.
func ReadGlobals(module []byte, start, end int) ([]GlobalInit, error) {
	data := module[:end]
	off := start
	count, n := leb128.Uvarint32(data[off:])
	if n < 0 {
		return nil, errors.Overflow(errors.PhaseDecode, []string{"global", "count"}, "malformed vector length")
	}
	off += n

	globals := make([]GlobalInit, 0, count)
	for i := uint32(0); i < count; i++ {
		if off+1 >= len(data) {
			return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"global"}, off, len(data))
		}
		valType := data[off]
		mutable := data[off+1] != 0
		off += 2

		if off >= len(data) || data[off] != 0x41 { // i32.const
			return nil, errors.Unsupported(errors.PhaseDecode, "global init-expr is not a bare i32.const")
		}
		off++

		val, w := leb128.Varint32(data[off:])
		if w < 0 {
			return nil, errors.Overflow(errors.PhaseDecode, []string{"global", "init"}, "malformed i32.const operand")
		}
		off += w

		if off >= len(data) || data[off] != 0x0b { // end
			return nil, errors.Unsupported(errors.PhaseDecode, "global init-expr missing end opcode")
		}
		off++

		globals = append(globals, GlobalInit{ValType: valType, Mutable: mutable, Value: val})
	}
	return globals, nil
}

// ReadCustomSections scans the whole module and decodes every custom
// section in file order, each with its header offset recorded so
// custom.go can splice sections out or replace them in place. Unlike the
// other readers here it does not take a pre-computed range from Walk: it
// needs each section's header start, which a plain Visitor(id, start,
// end) call does not expose.
func ReadCustomSections(module []byte) ([]CustomSection, error) {
	var out []CustomSection
	off := 8 // past magic + version, checked by the caller's Walk pass
	for off < len(module) {
		headerStart := off
		id := SectionID(module[off])
		off++
		size, n := leb128.Uvarint32(module[off:])
		if n < 0 {
			return nil, errors.Overflow(errors.PhaseDecode, nil, "malformed section size")
		}
		off += n
		payloadStart := off
		payloadEnd := payloadStart + int(size)
		if payloadEnd > len(module) {
			return nil, errors.OutOfBounds(errors.PhaseDecode, []string{id.String()}, payloadEnd, len(module))
		}

		if id == SectionCustom {
			name, nameEnd, err := leb128.ReadString(module, payloadStart)
			if err != nil {
				return nil, err
			}
			out = append(out, CustomSection{
				Name:    name,
				Payload: module[nameEnd:payloadEnd],
				offset:  headerStart,
				length:  payloadEnd - headerStart,
			})
		}
		off = payloadEnd
	}
	return out, nil
}
