package loader

import (
	"strings"
	"testing"

	"github.com/schellingb/wajic-sub001/verifier"
)

// TestSynthesizeConsoleLogFragment covers spec.md's S1 scenario: a single
// console.log fragment plus an imported env.memory, with no malloc/sbrk.
func TestSynthesizeConsoleLogFragment(t *testing.T) {
	opts := Options{
		Flags: verifier.Flags{
			NeedsSetViews:  true,
			NeedsStringGet: true,
		},
		Memory:      MemorySpec{Imported: true, InitialPages: 16},
		ExportNames: map[string]bool{},
		Libraries: []LibraryGroup{
			{Funcs: []FragmentFunc{{Name: "js_log", Args: "ptr", Code: "console.log(MStrGet(ptr));"}}},
		},
		Load: LoadInline,
	}

	out, err := Synthesize(opts)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, want := range []string{
		"function js_log(ptr)",
		"console.log(MStrGet(ptr))",
		"new WebAssembly.Memory(",
		"MStrGet",
		"J: J",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "sbrk:") {
		t.Errorf("did not expect sbrk shim without UsesSbrk")
	}
}

// TestSynthesizeSbrkMemoryGrowth covers S2: sbrk plus an exported memory,
// which should pull in WASM_HEAP bookkeeping and MSetViews on growth.
func TestSynthesizeSbrkMemoryGrowth(t *testing.T) {
	opts := Options{
		Flags: verifier.Flags{
			UsesSbrk:      true,
			NeedsSetViews: true,
		},
		Memory:      MemorySpec{Imported: false},
		ExportNames: map[string]bool{"memory": true},
		Load:        LoadInline,
	}

	out, err := Synthesize(opts)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, want := range []string{
		"WASM_HEAP",
		"sbrk: function(increment)",
		"MEM = ASM.memory;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "new WebAssembly.Memory(") {
		t.Errorf("memory is exported, loader should not construct one")
	}
}

// TestSynthesizeMainWithMallocStartup covers S3: a main(argc, argv) export
// plus malloc, which should allocate 10 bytes, write the two-byte "W\0"
// argv[0] string at ptr+8, set argv[1] to a null pointer, and call
// main(1, ptr) with that 2-slot array.
func TestSynthesizeMainWithMallocStartup(t *testing.T) {
	opts := Options{
		Flags: verifier.Flags{
			HasMalloc:       true,
			HasMainWithArgs: true,
			NeedsStringPut:  true,
			NeedsSetViews:   true,
			NeedsMU32:       true,
		},
		Memory:      MemorySpec{Imported: true, InitialPages: 16},
		ExportNames: map[string]bool{"main": true},
		Load:        LoadInline,
	}

	out, err := Synthesize(opts)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, want := range []string{
		"ASM.malloc(10)",
		"MU8[argPtr + 8] = 87;",
		"MU8[argPtr + 9] = 0;",
		"MU32[argPtr >> 2] = argPtr + 8;",
		"MU32[(argPtr + 4) >> 2] = 0;",
		"ASM.main(1, argPtr);",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

// TestSynthesizeWASIFileDescriptors covers S4: wasi_snapshot_preview1
// fd_read/fd_write plus an embedded file reachable through __sys_open.
func TestSynthesizeWASIFileDescriptors(t *testing.T) {
	opts := Options{
		Flags: verifier.Flags{
			IsWASI:              true,
			UsesFileDescriptors: true,
			NeedsSetViews:       true,
			NeedsStringGet:      true,
		},
		Memory:        MemorySpec{Imported: true, InitialPages: 16},
		ExportNames:   map[string]bool{},
		EmbeddedFiles: map[string][]byte{"hello.txt": []byte("hi")},
		Load:          LoadInline,
	}

	out, err := Synthesize(opts)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, want := range []string{
		"wasi_snapshot_preview1: envImports",
		"function fd_write(",
		"function fd_read(",
		"function __sys_open(",
		"'hello.txt':",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

// TestSynthesizeFlagsAreMonotonic spot-checks that unset flags never leak
// their primitives into the output, independent of which flags are set.
func TestSynthesizeFlagsAreMonotonic(t *testing.T) {
	opts := Options{
		Flags:       verifier.Flags{},
		Memory:      MemorySpec{Imported: true, InitialPages: 16},
		ExportNames: map[string]bool{},
		Load:        LoadInline,
	}

	out, err := Synthesize(opts)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, unwanted := range []string{
		"function MStrPut", "function MStrGet", "function MArrPut",
		"function MSetViews", "WASM_HEAP", "fd_write", "fd_read",
		"__sys_open", "wasi_snapshot_preview1",
	} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output unexpectedly contains %q with all flags unset\n%s", unwanted, out)
		}
	}
}

func TestSynthesizeStreamingLoad(t *testing.T) {
	opts := Options{
		Flags:       verifier.Flags{},
		Memory:      MemorySpec{Imported: true, InitialPages: 16},
		ExportNames: map[string]bool{},
		Load:        LoadStreaming,
		ModuleURL:   "module.wasm",
	}

	out, err := Synthesize(opts)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !strings.Contains(out, "instantiateStreaming(fetch('module.wasm')") {
		t.Errorf("expected streaming fetch of module.wasm\n%s", out)
	}
}
