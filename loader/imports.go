package loader

import (
	"fmt"
	"sort"
	"strings"
)

// writeImportObject emits the WebAssembly import object: one shim per
// fragment library group under "J", plus the fixed env/wasi shims the
// verifier's flags say the module actually needs, per spec.md §4.F step 6.
func writeImportObject(b *strings.Builder, opts Options) error {
	writeLibraries(b, opts.Libraries)

	b.WriteString("var J = {\n")
	names := make([]string, 0, len(opts.Libraries))
	for _, lib := range opts.Libraries {
		for _, fn := range lib.Funcs {
			names = append(names, fn.Name)
		}
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(b, "  %s: %s,\n", n, n)
	}
	b.WriteString("};\n")

	if opts.Flags.IsWASI {
		writeWASIFilesystemShims(b, opts)
	}
	b.WriteString("var envImports = {\n")
	b.WriteString("  memory: MEM,\n")
	if opts.Flags.UsesSbrk {
		b.WriteString(`  sbrk: function(increment) {
    var old = WASM_HEAP;
    var next = old + increment;
    if (increment > 0) {
      if (next > WASM_HEAP_MAX) abort('MEM', 'out of memory');
      var pagesNeeded = Math.ceil(next / 65536) - MEM.buffer.byteLength / 65536;
      if (pagesNeeded > 0) { MEM.grow(pagesNeeded); MSetViews(); }
    }
    WASM_HEAP = next;
    return old;
  },
`)
	}
	b.WriteString(`  __assert_fail: function(cond, file, line, fn) { abort('ASSERT', MStrGet(cond) + ' at ' + MStrGet(file) + ':' + line); },
  abort: function() { abort('ABORT', 'abort() called'); },
  __cxa_throw: function(ptr, type, destructor) { abort('EXC', 'uncaught C++ exception'); },
  __cxa_atexit: function() { return 0; },
  __lock: function() {},
  __unlock: function() {},
  getTempRet0: function() { return TEMP; },
  setTempRet0: function(v) { TEMP = v; },
  emscripten_notify_memory_growth: function() { MSetViews(); },
  emscripten_date_now: function() { return Date.now(); },
`)
	b.WriteString(`  gettimeofday: function(ptr) {
    var now = Date.now();
    MU32[ptr >> 2] = Math.floor(now / 1000);
    MU32[(ptr >> 2) + 1] = (now % 1000) * 1000;
    return 0;
  },
  clock_gettime: function(clkId, ptr) {
    var now = Date.now();
    MU32[ptr >> 2] = Math.floor(now / 1000);
    MU32[(ptr >> 2) + 1] = (now % 1000) * 1e6;
    return 0;
  },
  clock_getres: function(clkId, ptr) {
    MU32[ptr >> 2] = 0;
    MU32[(ptr >> 2) + 1] = 1e6;
    return 0;
  },
`)
	for _, fn := range []string{"sin", "cos", "tan", "asin", "acos", "atan", "atan2", "exp", "log", "pow", "sqrt", "ceil", "floor", "fabs", "round", "rint", "trunc"} {
		mathName := fn
		if mathName == "fabs" {
			mathName = "abs"
		}
		if mathName == "rint" {
			mathName = "round"
		}
		fmt.Fprintf(b, "  %s: Math.%s,\n  f%s: Math.%s,\n", fn, mathName, fn, mathName)
	}
	if opts.Flags.IsWASI && opts.Flags.UsesFileDescriptors {
		b.WriteString("  __sys_open: __sys_open,\n  fd_write: fd_write,\n  fd_read: fd_read,\n  fd_seek: fd_seek,\n  fd_close: fd_close,\n")
	}
	b.WriteString("};\n")

	b.WriteString("var importObject = { env: envImports")
	if opts.Flags.IsWASI {
		b.WriteString(", wasi_snapshot_preview1: envImports")
	}
	if len(opts.Libraries) > 0 {
		b.WriteString(", J: J")
	}
	b.WriteString(" };\n")

	return nil
}

// writeLibraries emits one function declaration per fragment, followed by
// each library group's initializer text wrapped in an immediately invoked
// function, emitted once per group, per spec.md's js_lib semantics ("one evaluation per unique init text per
// library group").
func writeLibraries(b *strings.Builder, libs []LibraryGroup) {
	for _, lib := range libs {
		for _, fn := range lib.Funcs {
			fmt.Fprintf(b, "function %s(%s) {\n%s\n}\n", fn.Name, fn.Args, fn.Code)
		}
		if lib.Init != "" {
			fmt.Fprintf(b, "(function() {\n%s\n})();\n", lib.Init)
		}
	}
}

// writeWASIFilesystemShims emits the FILES lookup table backed by embedded
// "|name" custom sections and, when opts.Flags.UsesFileDescriptors is set,
// the __sys_open function and the fd_write/fd_read/fd_seek/fd_close quartet.
// It writes top-level declarations, so it runs before the envImports
// literal that lists those functions.
func writeWASIFilesystemShims(b *strings.Builder, opts Options) {
	b.WriteString("var FILES = {\n")
	names := make([]string, 0, len(opts.EmbeddedFiles))
	for name := range opts.EmbeddedFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "  %s: %s,\n", jsStringLiteral(name), jsBase64Literal(opts.EmbeddedFiles[name]))
	}
	b.WriteString("};\n")

	if !opts.Flags.UsesFileDescriptors {
		return
	}
	b.WriteString(`function __sys_open(pathPtr, flags, mode) {
  var path = MStrGet(pathPtr);
  var data = FILES[path];
  if (data === undefined) return -1;
  var fd = FPTS.length;
  FPTS.push({ data: decodeBase64(data), pos: 0 });
  return fd;
}
function fd_write(fd, iovPtr, iovCnt, nwrittenPtr) {
  var total = 0;
  for (var i = 0; i < iovCnt; i++) {
    var p = iovPtr + i * 8;
    var bufPtr = MU32[p >> 2];
    var bufLen = MU32[(p >> 2) + 1];
    var text = MStrGet(bufPtr, bufLen);
    WA.print(text);
    total += bufLen;
  }
  MU32[nwrittenPtr >> 2] = total;
  return 0;
}
function fd_read(fd, iovPtr, iovCnt, nreadPtr) {
  var f = FPTS[fd];
  if (!f) return 8; // EBADF
  var total = 0;
  for (var i = 0; i < iovCnt; i++) {
    var p = iovPtr + i * 8;
    var bufPtr = MU32[p >> 2];
    var bufLen = MU32[(p >> 2) + 1];
    var remaining = f.data.length - f.pos;
    var n = Math.min(bufLen, remaining);
    MU8.set(f.data.subarray(f.pos, f.pos + n), bufPtr);
    f.pos += n;
    total += n;
    if (n < bufLen) break;
  }
  MU32[nreadPtr >> 2] = total;
  return 0;
}
function fd_seek(fd, offsetLow, offsetHigh, whence, newOffsetPtr) {
  var f = FPTS[fd];
  if (!f) return 8;
  if (whence === 0) f.pos = offsetLow;
  else if (whence === 1) f.pos += offsetLow;
  else f.pos = f.data.length + offsetLow;
  MU32[newOffsetPtr >> 2] = f.pos;
  return 0;
}
function fd_close(fd) {
  FPTS[fd] = null;
  return 0;
}
function decodeBase64(s) {
  var bin = atob(s);
  var out = new Uint8Array(bin.length);
  for (var i = 0; i < bin.length; i++) out[i] = bin.charCodeAt(i);
  return out;
}
`)
}

func jsBase64Literal(data []byte) string {
	return jsStringLiteral(encodeBase64(data))
}

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func encodeBase64(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 3 {
		var chunk [3]byte
		n := copy(chunk[:], data[i:])
		v := uint32(chunk[0])<<16 | uint32(chunk[1])<<8 | uint32(chunk[2])
		b.WriteByte(base64Alphabet[(v>>18)&0x3F])
		b.WriteByte(base64Alphabet[(v>>12)&0x3F])
		if n > 1 {
			b.WriteByte(base64Alphabet[(v>>6)&0x3F])
		} else {
			b.WriteByte('=')
		}
		if n > 2 {
			b.WriteByte(base64Alphabet[v&0x3F])
		} else {
			b.WriteByte('=')
		}
	}
	return b.String()
}
