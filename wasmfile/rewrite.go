package wasmfile

import (
	"github.com/schellingb/wajic-sub001/leb128"
)

// RewriteImportFields replaces the field-name string of selected import
// entries, returning a new copy of the whole module with the import
// section resized to fit. newFields maps an import's (Module, Field) pair,
// as it existed before any rewrite, to the replacement field string it
// should carry afterward. Imports not present in newFields are left
// untouched. If the module has no import section, newFields is ignored
// and module is returned unmodified.
//
// Because a field rename can change the encoded length of the import
// section (the LEB128 length prefix of the field string, and the section's
// own size LEB128, both have variable width), this rebuilds the import
// section payload from scratch rather than trying to splice bytes in
// place, the way the teacher's rewriteImportSection does for its type
// section.
func RewriteImportFields(module []byte, newFields map[[2]string]string) ([]byte, error) {
	sec, ok, err := findSection(module, SectionImport)
	if err != nil {
		return nil, err
	}
	if !ok {
		return module, nil
	}

	imports, err := ReadImports(module, sec.payloadStart, sec.payloadEnd)
	if err != nil {
		return nil, err
	}

	payload := leb128.NewBuffer()
	payload.AppendUvarint32(uint32(len(imports)))
	for _, imp := range imports {
		field := imp.Field
		if repl, ok := newFields[[2]string{imp.Module, imp.Field}]; ok {
			field = repl
		}
		payload.AppendString(imp.Module)
		payload.AppendString(field)
		appendImportDescriptor(payload, imp)
	}
	newPayload := payload.Finalize()

	return spliceSection(module, sec.headerStart, sec.payloadEnd, SectionImport, newPayload), nil
}

func appendImportDescriptor(buf *leb128.Buffer, imp Import) {
	buf.AppendByte(byte(imp.Kind))
	switch imp.Kind {
	case KindFunc:
		buf.AppendUvarint32(imp.TypeIdx)
	case KindTable:
		buf.AppendByte(imp.TableElemType)
		appendLimits(buf, imp.TableLimits)
	case KindMemory:
		appendLimits(buf, imp.MemoryLimits)
	case KindGlobal:
		buf.AppendByte(imp.GlobalValType)
		if imp.GlobalMutable {
			buf.AppendByte(1)
		} else {
			buf.AppendByte(0)
		}
	}
}

func appendLimits(buf *leb128.Buffer, lim Limits) {
	flags := byte(0)
	if lim.HasMax {
		flags |= 0x01
	}
	if lim.Shared {
		flags |= 0x02
	}
	buf.AppendByte(flags)
	buf.AppendUvarint32(lim.Min)
	if lim.HasMax {
		buf.AppendUvarint32(*lim.Max)
	}
}

// spliceSection replaces the section occupying module[headerStart:payloadEnd]
// with a freshly-sized section carrying id and newPayload, returning a new
// module buffer. Bytes before headerStart and after payloadEnd are copied
// verbatim.
func spliceSection(module []byte, headerStart, payloadEnd int, id SectionID, newPayload []byte) []byte {
	out := make([]byte, 0, len(module)-payloadEnd+headerStart+len(newPayload)+8)
	out = append(out, module[:headerStart]...)
	out = append(out, byte(id))
	out = leb128.AppendUvarint32(out, uint32(len(newPayload)))
	out = append(out, newPayload...)
	out = append(out, module[payloadEnd:]...)
	return out
}
