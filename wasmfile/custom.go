package wasmfile

import (
	"github.com/schellingb/wajic-sub001/leb128"
)

// AppendCustomSection returns a copy of module with a new custom section
// named name carrying payload, appended at the very end of the module.
// Custom sections may legally appear anywhere and any number of times, so
// this never needs to touch an existing section's bytes.
//
// If replaceExisting is true and a custom section named name already
// exists, it is removed first, so AppendCustomSection is idempotent when
// called repeatedly with the same name: embedding a module's source map
// or original filename twice never leaves two stale copies behind.
func AppendCustomSection(module []byte, name string, payload []byte, replaceExisting bool) ([]byte, error) {
	if replaceExisting {
		stripped, err := RemoveCustomSections(module, func(n string) bool { return n == name })
		if err != nil {
			return nil, err
		}
		module = stripped
	}

	body := leb128.NewBuffer()
	body.AppendString(name)
	body.Append(payload)
	encodedPayload := body.Finalize()

	out := make([]byte, 0, len(module)+len(encodedPayload)+8)
	out = append(out, module...)
	out = append(out, byte(SectionCustom))
	out = leb128.AppendUvarint32(out, uint32(len(encodedPayload)))
	out = append(out, encodedPayload...)
	return out, nil
}

// RemoveCustomSections returns a copy of module with every custom section
// whose name matches drop removed. Matching sections are spliced out in a
// single front-to-back rebuild rather than one removal per match, so
// offsets recorded by an earlier ReadCustomSections call are never reused
// across a structural change.
func RemoveCustomSections(module []byte, drop func(name string) bool) ([]byte, error) {
	sections, err := ReadCustomSections(module)
	if err != nil {
		return nil, err
	}

	var toRemove []CustomSection
	for _, cs := range sections {
		if drop(cs.Name) {
			toRemove = append(toRemove, cs)
		}
	}
	if len(toRemove) == 0 {
		return module, nil
	}

	out := make([]byte, 0, len(module))
	cursor := 0
	for _, cs := range toRemove {
		out = append(out, module[cursor:cs.offset]...)
		cursor = cs.offset + cs.length
	}
	out = append(out, module[cursor:]...)
	return out, nil
}

// CustomSectionNames returns the names of every custom section present in
// module, in file order (duplicates included, since nothing in the binary
// format forbids two custom sections sharing a name).
func CustomSectionNames(module []byte) ([]string, error) {
	sections, err := ReadCustomSections(module)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(sections))
	for i, cs := range sections {
		names[i] = cs.Name
	}
	return names, nil
}
