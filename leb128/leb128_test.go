package leb128_test

import (
	"bytes"
	"testing"

	"github.com/schellingb/wajic-sub001/leb128"
)

func TestUvarint32RoundTrip(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0x80, 0x02}, 256},
		{[]byte{0xff, 0x7f}, 16383},
		{[]byte{0x80, 0x80, 0x01}, 16384},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			var buf bytes.Buffer
			leb128.WriteUvarint32(&buf, tt.value)
			if !bytes.Equal(buf.Bytes(), tt.encoded) {
				t.Errorf("encode %d: got %v, want %v", tt.value, buf.Bytes(), tt.encoded)
			}

			r := bytes.NewReader(tt.encoded)
			got, err := leb128.ReadUvarint32(r)
			if err != nil {
				t.Fatalf("ReadUvarint32: %v", err)
			}
			if got != tt.value {
				t.Errorf("ReadUvarint32 = %d, want %d", got, tt.value)
			}

			got2, n := leb128.Uvarint32(tt.encoded)
			if got2 != tt.value || n != len(tt.encoded) {
				t.Errorf("Uvarint32 = (%d, %d), want (%d, %d)", got2, n, tt.value, len(tt.encoded))
			}

			if got3 := leb128.EncodeUvarint32(tt.value); !bytes.Equal(got3, tt.encoded) {
				t.Errorf("EncodeUvarint32(%d) = %v, want %v", tt.value, got3, tt.encoded)
			}

			if n := leb128.Uvarint32Len(tt.value); n != len(tt.encoded) {
				t.Errorf("Uvarint32Len(%d) = %d, want %d", tt.value, n, len(tt.encoded))
			}
		})
	}
}

func TestVarint32RoundTrip(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   int32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, -1},
		{[]byte{0x3f}, 63},
		{[]byte{0xc0, 0x00}, 64},
		{[]byte{0x40}, -64},
		{[]byte{0xbf, 0x7f}, -65},
		{[]byte{0xff, 0x00}, 127},
		{[]byte{0x80, 0x7f}, -128},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x7e}, -129},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			var buf bytes.Buffer
			leb128.WriteVarint32(&buf, tt.value)
			if !bytes.Equal(buf.Bytes(), tt.encoded) {
				t.Errorf("encode %d: got %v, want %v", tt.value, buf.Bytes(), tt.encoded)
			}

			r := bytes.NewReader(tt.encoded)
			got, err := leb128.ReadVarint32(r)
			if err != nil {
				t.Fatalf("ReadVarint32: %v", err)
			}
			if got != tt.value {
				t.Errorf("ReadVarint32 = %d, want %d", got, tt.value)
			}
		})
	}
}

func TestUvarint32Overflow(t *testing.T) {
	// six continuation bytes: more than the 32-bit budget allows.
	data := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	if _, n := leb128.Uvarint32(data); n != -1 {
		t.Errorf("expected overflow sentinel, got n=%d", n)
	}

	r := bytes.NewReader(data)
	if _, err := leb128.ReadUvarint32(r); err == nil {
		t.Error("expected overflow error")
	}
}

func TestReadUvarint32Truncated(t *testing.T) {
	r := bytes.NewReader([]byte{0x80})
	if _, err := leb128.ReadUvarint32(r); err == nil {
		t.Error("expected error on truncated input")
	}
}

func TestStringRoundTrip(t *testing.T) {
	dst := leb128.AppendString(nil, "hello")
	got, end, err := leb128.ReadString(dst, 0)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadString = %q, want %q", got, "hello")
	}
	if end != len(dst) {
		t.Errorf("end = %d, want %d", end, len(dst))
	}
}

func TestStringTruncated(t *testing.T) {
	dst := leb128.AppendString(nil, "hello")
	dst = dst[:len(dst)-2] // chop off the tail of the payload
	if _, _, err := leb128.ReadString(dst, 0); err == nil {
		t.Error("expected out-of-bounds error for truncated string")
	}
}

func TestBufferGrowthAndFinalize(t *testing.T) {
	b := leb128.NewBuffer()
	for i := 0; i < 1000; i++ {
		b.AppendUvarint32(uint32(i))
	}
	b.AppendString("tail")
	out := b.Finalize()
	if b.Len() != len(out) {
		t.Errorf("Len() = %d, want %d", b.Len(), len(out))
	}
	if !bytes.HasSuffix(out, leb128.AppendString(nil, "tail")) {
		t.Error("Finalize did not preserve trailing string")
	}
}
