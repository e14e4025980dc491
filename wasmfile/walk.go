package wasmfile

import (
	"github.com/schellingb/wajic-sub001/errors"
	"github.com/schellingb/wajic-sub001/leb128"
)

// Magic and Version are the eight header bytes every WebAssembly binary
// module must start with.
var (
	Magic   = [4]byte{0x00, 0x61, 0x73, 0x6d}
	Version = [4]byte{0x01, 0x00, 0x00, 0x00}
)

// Visitor is invoked once per top-level section, in file order, with the
// byte offsets of the section's payload (the bytes after the id and the
// size LEB128, up to but excluding the next section). The module's raw
// bytes are always available to the visitor as module[start:end]; Walk
// never copies a payload out.
type Visitor func(id SectionID, start, end int) error

// Walk scans module's top-level section headers and invokes visit for
// each one. It does not decode section payloads itself; that is left to
// the read.go helpers, which the visitor calls selectively by section id.
//
// Walk returns early, passing through the visitor's error, the moment any
// visitor call returns a non-nil error.
func Walk(module []byte, visit Visitor) error {
	if len(module) < 8 {
		return errors.OutOfBounds(errors.PhaseDecode, []string{"header"}, 0, len(module))
	}
	if !matches(module[0:4], Magic[:]) {
		return errors.InvalidData(errors.PhaseDecode, nil, "not a wasm module: bad magic")
	}
	if !matches(module[4:8], Version[:]) {
		return errors.InvalidData(errors.PhaseDecode, nil, "unsupported wasm version")
	}

	off := 8
	for off < len(module) {
		id := SectionID(module[off])
		off++
		size, n := leb128.Uvarint32(module[off:])
		if n < 0 {
			return errors.Overflow(errors.PhaseDecode, nil, "malformed section size")
		}
		off += n
		start := off
		end := start + int(size)
		if end > len(module) {
			return errors.OutOfBounds(errors.PhaseDecode, []string{id.String(), "section"}, end, len(module))
		}
		if err := visit(id, start, end); err != nil {
			return err
		}
		off = end
	}
	return nil
}

func matches(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sectionBound describes one top-level section's position: headerStart is
// the offset of its id byte, payloadStart/payloadEnd bracket its payload.
type sectionBound struct {
	id                        SectionID
	headerStart               int
	payloadStart, payloadEnd int
}

// findSection performs its own forward scan (rather than reusing Walk, so
// it can track each section's header offset, which the public Visitor
// signature deliberately omits) and returns the bounds of the first
// section matching id. A module is only ever standard-encoded with at
// most one of each non-custom section id, so "first" is unambiguous for
// every caller in this package.
func findSection(module []byte, id SectionID) (sectionBound, bool, error) {
	off := 8
	for off < len(module) {
		headerStart := off
		gotID := SectionID(module[off])
		off++
		size, n := leb128.Uvarint32(module[off:])
		if n < 0 {
			return sectionBound{}, false, errors.Overflow(errors.PhaseDecode, nil, "malformed section size")
		}
		off += n
		payloadStart := off
		payloadEnd := payloadStart + int(size)
		if payloadEnd > len(module) {
			return sectionBound{}, false, errors.OutOfBounds(errors.PhaseDecode, []string{gotID.String()}, payloadEnd, len(module))
		}
		if gotID == id {
			return sectionBound{id: id, headerStart: headerStart, payloadStart: payloadStart, payloadEnd: payloadEnd}, true, nil
		}
		off = payloadEnd
	}
	return sectionBound{}, false, nil
}
