package loader

import (
	"strings"

	"github.com/schellingb/wajic-sub001/verifier"
)

// writeMarshalling emits the string/array marshalling primitives, each
// gated on the verifier flag that requested it, per spec.md §4.F step 4.
func writeMarshalling(b *strings.Builder, f verifier.Flags) {
	if f.NeedsSetViews {
		b.WriteString(`function MSetViews() {
  MU8 = new Uint8Array(MEM.buffer);
  MU16 = new Uint16Array(MEM.buffer);
  MU32 = new Uint32Array(MEM.buffer);
  MI32 = new Int32Array(MEM.buffer);
  MF32 = new Float32Array(MEM.buffer);
}
`)
	}

	if f.NeedsStringPut {
		b.WriteString(`function MStrPut(str, ptr, bufSize) {
  var u8 = MU8;
  var bytes = new TextEncoder().encode(str);
  var len = bytes.length;
  if (bufSize !== undefined) {
    if (len >= bufSize) {
      len = bufSize - 1;
      while (len > 0 && (bytes[len] & 0xC0) === 0x80) len--;
    }
  }
  var dest = ptr;
  if (!dest) {
    if (!ASM.malloc) abort('MEM', 'MStrPut requires malloc');
    dest = ASM.malloc(len + 1);
  }
  u8.set(bytes.subarray(0, len), dest);
  u8[dest + len] = 0;
  return ptr ? len : dest;
}
`)
	}

	if f.NeedsStringGet {
		b.WriteString(`function MStrGet(ptr, length) {
  if (!ptr) return '';
  var end = ptr;
  if (length !== undefined) {
    end = ptr + length;
  } else {
    while (end < MU8.length && MU8[end] !== 0) end++;
  }
  return new TextDecoder('utf8').decode(MU8.subarray(ptr, end));
}
`)
	}

	if f.NeedsArrayPut {
		b.WriteString(`function MArrPut(a) {
  if (!ASM.malloc) abort('MEM', 'MArrPut requires malloc');
  var bytes = new Uint8Array(a.buffer || a, a.byteOffset || 0, a.byteLength !== undefined ? a.byteLength : a.length);
  var ptr = ASM.malloc(bytes.length);
  MU8.set(bytes, ptr);
  return ptr;
}
`)
	}
}
