package leb128

import (
	"bytes"
	"io"

	"github.com/schellingb/wajic-sub001/errors"
)

// MaxBytes32 is the widest a 32-bit unsigned LEB128 value may legally be
// encoded in: ceil(32/7) continuation groups. A longer encoding is a
// format error per spec.md §4.A ("longer encodings are a format error").
const MaxBytes32 = 5

// ReadUvarint32 reads an unsigned LEB128 value bounded to 32 bits from r.
func ReadUvarint32(r io.ByteReader) (uint32, error) {
	var result uint32
	var shift uint
	for i := 0; i < MaxBytes32; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if i == MaxBytes32-1 && b&0x70 != 0 {
			return 0, errors.Overflow(errors.PhaseDecode, nil, "leb128 value exceeds 32 bits")
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, errors.Overflow(errors.PhaseDecode, nil, "leb128 value exceeds 32 bits")
}

// WriteUvarint32 writes an unsigned LEB128 value to w.
func WriteUvarint32(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// AppendUvarint32 appends the LEB128 encoding of v to dst and returns the
// extended slice.
func AppendUvarint32(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// EncodeUvarint32 returns the LEB128 encoding of v as a standalone slice.
func EncodeUvarint32(v uint32) []byte {
	return AppendUvarint32(nil, v)
}

// Uvarint32Len returns the number of bytes needed to encode v, 1..5.
func Uvarint32Len(v uint32) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

// Uvarint32 decodes an unsigned LEB128 value from data starting at
// offset 0, returning the value and the number of bytes consumed. It
// never panics: a truncated or over-wide encoding returns (0, -1).
func Uvarint32(data []byte) (uint32, int) {
	var result uint32
	var shift uint
	for i := 0; i < len(data) && i < MaxBytes32; i++ {
		b := data[i]
		if i == MaxBytes32-1 && b&0x70 != 0 {
			return 0, -1
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1
		}
		shift += 7
	}
	return 0, -1
}

// PutUvarint32 writes the LEB128 encoding of v into dst, which must be at
// least Uvarint32Len(v) bytes long, and returns the number of bytes written.
func PutUvarint32(dst []byte, v uint32) int {
	i := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst[i] = b
		i++
		if v == 0 {
			return i
		}
	}
}

// Varint32 decodes a signed LEB128 value from data starting at offset 0
// the way Uvarint32 does for unsigned values: it returns the value and the
// number of bytes consumed, or (0, -1) on truncation or overflow, and
// never panics.
func Varint32(data []byte) (int32, int) {
	var result int32
	var shift uint
	var b byte
	i := 0
	for shift < 35 {
		if i >= len(data) {
			return 0, -1
		}
		b = data[i]
		i++
		result |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if b&0x80 != 0 {
		return 0, -1
	}
	if shift < 32 && b&0x40 != 0 {
		result |= ^int32(0) << shift
	}
	return result, i
}

// ReadVarint32 reads a signed LEB128 value from r.
func ReadVarint32(r io.ByteReader) (int32, error) {
	var result int32
	var shift uint
	var b byte
	var err error
	for shift < 35 {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if b&0x80 != 0 {
		return 0, errors.Overflow(errors.PhaseDecode, nil, "signed leb128 value exceeds 32 bits")
	}
	if shift < 32 && b&0x40 != 0 {
		result |= ^int32(0) << shift
	}
	return result, nil
}

// WriteVarint32 writes a signed LEB128 value to w.
func WriteVarint32(w *bytes.Buffer, v int32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			w.WriteByte(b)
			return
		}
		w.WriteByte(b | 0x80)
	}
}

// AppendString appends a length-prefixed UTF-8 string to dst.
func AppendString(dst []byte, s string) []byte {
	dst = AppendUvarint32(dst, uint32(len(s)))
	return append(dst, s...)
}

// ReadString reads a length-prefixed UTF-8 string from data at offset off,
// returning the string and the offset just past it.
func ReadString(data []byte, off int) (string, int, error) {
	n, w := Uvarint32(data[off:])
	if w < 0 {
		return "", 0, errors.Overflow(errors.PhaseDecode, nil, "string length leb128 malformed")
	}
	start := off + w
	end := start + int(n)
	if end > len(data) {
		return "", 0, errors.OutOfBounds(errors.PhaseDecode, []string{"string"}, start, len(data))
	}
	return string(data[start:end]), end, nil
}

// Buffer is a growable append-only byte sink that amortizes growth in
// 64 KiB increments, matching spec.md §4.A's growable-buffer contract.
type Buffer struct {
	buf []byte
}

const growthIncrement = 64 * 1024

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append appends raw bytes.
func (b *Buffer) Append(p []byte) {
	b.grow(len(p))
	b.buf = append(b.buf, p...)
}

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(c byte) {
	b.grow(1)
	b.buf = append(b.buf, c)
}

// AppendUvarint32 appends an unsigned LEB128 value.
func (b *Buffer) AppendUvarint32(v uint32) {
	b.grow(Uvarint32Len(v))
	b.buf = AppendUvarint32(b.buf, v)
}

// AppendString appends a length-prefixed UTF-8 string.
func (b *Buffer) AppendString(s string) {
	b.grow(Uvarint32Len(uint32(len(s))) + len(s))
	b.buf = AppendString(b.buf, s)
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.buf)
}

func (b *Buffer) grow(n int) {
	need := len(b.buf) + n
	if cap(b.buf) >= need {
		return
	}
	newCap := cap(b.buf)
	if newCap == 0 {
		newCap = growthIncrement
	}
	for newCap < need {
		newCap += growthIncrement
	}
	grown := make([]byte, len(b.buf), newCap)
	copy(grown, b.buf)
	b.buf = grown
}

// Finalize returns a copy of the buffer's contents trimmed to exact
// length. The Buffer itself is left unchanged and stays usable.
func (b *Buffer) Finalize() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}
