package assemble

import (
	"bytes"
	"testing"
)

// decodeW64 mirrors the JS decoder in loader/inline.go, kept here only to
// verify EncodeW64 round-trips without needing a JS engine in this test.
func decodeW64(s string) []byte {
	rev := make(map[byte]int, 64)
	for i, c := range w64Alphabet {
		rev[c] = i
	}
	pad := int(s[len(s)-1] - '0')
	body := s[:len(s)-1]
	out := make([]byte, 0, len(body)/4*3)
	for i := 0; i < len(body); i += 4 {
		v := 0
		for j := 0; j < 4; j++ {
			v = v*64 + rev[body[i+j]]
		}
		out = append(out, byte(v>>16), byte(v>>8), byte(v))
	}
	return out[:len(out)-pad]
}

func TestEncodeW64RoundTrips(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0xFF},
		{0x01, 0x02},
		{0x01, 0x02, 0x03},
		[]byte("hello, wasm!"),
		bytes.Repeat([]byte{0xAB, 0xCD, 0xEF}, 100),
	}
	for _, data := range cases {
		enc := EncodeW64(data)
		got := decodeW64(enc)
		if !bytes.Equal(got, data) {
			t.Errorf("round trip mismatch for %x: got %x via %q", data, got, enc)
		}
	}
}

func TestEncodeW64UsesSafeAlphabet(t *testing.T) {
	enc := EncodeW64([]byte{1, 2, 3, 4, 5, 6, 7})
	for i := 0; i < len(enc)-1; i++ {
		c := enc[i]
		if c == '\\' || c == '\'' {
			t.Fatalf("encoded text contains unsafe byte %q at index %d: %q", c, i, enc)
		}
	}
}
