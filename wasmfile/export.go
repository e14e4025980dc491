package wasmfile

import (
	"github.com/schellingb/wajic-sub001/leb128"
)

// RemoveExports strips every export whose name appears in drop, returning
// a new copy of the module with the export section's vector count and
// size LEB128 both recomputed. This is the mirror of RewriteImportFields:
// spec.md's verifier trims exports the loader it is building never
// references (malloc/free only wired when nothing else already provides
// them), and removing an entry shrinks the section by a variable number
// of bytes, so the whole section is rebuilt rather than spliced byte-wise.
//
// If the module has no export section, or none of drop's names are
// exported, module is returned unmodified.
func RemoveExports(module []byte, drop map[string]bool) ([]byte, error) {
	if len(drop) == 0 {
		return module, nil
	}

	sec, ok, err := findSection(module, SectionExport)
	if err != nil {
		return nil, err
	}
	if !ok {
		return module, nil
	}

	exports, err := ReadExports(module, sec.payloadStart, sec.payloadEnd)
	if err != nil {
		return nil, err
	}

	kept := exports[:0:0]
	removedAny := false
	for _, exp := range exports {
		if drop[exp.Field] {
			removedAny = true
			continue
		}
		kept = append(kept, exp)
	}
	if !removedAny {
		return module, nil
	}

	payload := leb128.NewBuffer()
	payload.AppendUvarint32(uint32(len(kept)))
	for _, exp := range kept {
		payload.AppendString(exp.Field)
		payload.AppendByte(byte(exp.Kind))
		payload.AppendUvarint32(exp.Index)
	}

	return spliceSection(module, sec.headerStart, sec.payloadEnd, SectionExport, payload.Finalize()), nil
}

// ExportNames returns the set of names the module's export section
// carries, for the verifier to test against (e.g. "does this module
// export malloc?").
func ExportNames(module []byte) (map[string]bool, error) {
	sec, ok, err := findSection(module, SectionExport)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	exports, err := ReadExports(module, sec.payloadStart, sec.payloadEnd)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(exports))
	for _, exp := range exports {
		names[exp.Field] = true
	}
	return names, nil
}
