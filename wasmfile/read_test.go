package wasmfile_test

import (
	"testing"

	"github.com/schellingb/wajic-sub001/wasmfile"
)

func sectionRange(t *testing.T, bin []byte, want wasmfile.SectionID) (int, int, bool) {
	t.Helper()
	var start, end int
	found := false
	err := wasmfile.Walk(bin, func(id wasmfile.SectionID, s, e int) error {
		if id == want {
			start, end, found = s, e, true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return start, end, found
}

func TestReadImports(t *testing.T) {
	bin := compile(t, `(module
		(import "env" "f" (func (param i32)))
		(import "env" "mem" (memory 1 10))
		(import "env" "tbl" (table 2 funcref))
		(import "env" "g" (global i32)))`)

	start, end, ok := sectionRange(t, bin, wasmfile.SectionImport)
	if !ok {
		t.Fatal("no import section found")
	}
	imports, err := wasmfile.ReadImports(bin, start, end)
	if err != nil {
		t.Fatalf("ReadImports: %v", err)
	}
	if len(imports) != 4 {
		t.Fatalf("expected 4 imports, got %d", len(imports))
	}

	if imports[0].Kind != wasmfile.KindFunc || imports[0].Field != "f" {
		t.Errorf("import[0] = %+v", imports[0])
	}
	if imports[1].Kind != wasmfile.KindMemory || imports[1].MemoryLimits.Min != 1 || !imports[1].MemoryLimits.HasMax || *imports[1].MemoryLimits.Max != 10 {
		t.Errorf("import[1] = %+v", imports[1])
	}
	if imports[2].Kind != wasmfile.KindTable || imports[2].TableLimits.Min != 2 {
		t.Errorf("import[2] = %+v", imports[2])
	}
	if imports[3].Kind != wasmfile.KindGlobal || imports[3].GlobalMutable {
		t.Errorf("import[3] = %+v", imports[3])
	}
}

func TestReadExports(t *testing.T) {
	bin := compile(t, `(module
		(func $f (export "f") (result i32) (i32.const 1))
		(memory (export "memory") 1))`)

	start, end, ok := sectionRange(t, bin, wasmfile.SectionExport)
	if !ok {
		t.Fatal("no export section found")
	}
	exports, err := wasmfile.ReadExports(bin, start, end)
	if err != nil {
		t.Fatalf("ReadExports: %v", err)
	}
	if len(exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(exports))
	}
	names := map[string]wasmfile.ImportKind{}
	for _, e := range exports {
		names[e.Field] = e.Kind
	}
	if names["f"] != wasmfile.KindFunc {
		t.Errorf("expected f to be a func export, got %v", names["f"])
	}
	if names["memory"] != wasmfile.KindMemory {
		t.Errorf("expected memory to be a memory export, got %v", names["memory"])
	}
}

func TestHasMemoryImportedVsDefined(t *testing.T) {
	imported := compile(t, `(module (import "env" "memory" (memory 1)))`)
	is, is2, importOK := sectionRange(t, imported, wasmfile.SectionImport)
	ms, me, _ := sectionRange(t, imported, wasmfile.SectionMemory)
	if !importOK {
		t.Fatal("expected import section")
	}
	has, err := wasmfile.HasMemory(imported, is, is2, ms, me)
	if err != nil {
		t.Fatalf("HasMemory: %v", err)
	}
	if !has {
		t.Error("expected HasMemory to report true for an imported memory")
	}

	defined := compile(t, `(module (memory 1))`)
	ms2, me2, memOK := sectionRange(t, defined, wasmfile.SectionMemory)
	if !memOK {
		t.Fatal("expected memory section")
	}
	has2, err := wasmfile.HasMemory(defined, 0, 0, ms2, me2)
	if err != nil {
		t.Fatalf("HasMemory: %v", err)
	}
	if !has2 {
		t.Error("expected HasMemory to report true for a defined memory")
	}

	none := compile(t, `(module)`)
	has3, err := wasmfile.HasMemory(none, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("HasMemory: %v", err)
	}
	if has3 {
		t.Error("expected HasMemory to report false when no memory is present")
	}
}

func TestReadGlobalsRestrictsToI32Const(t *testing.T) {
	bin := compile(t, `(module (global (mut i32) (i32.const 42)))`)
	start, end, ok := sectionRange(t, bin, wasmfile.SectionGlobal)
	if !ok {
		t.Fatal("no global section")
	}
	globals, err := wasmfile.ReadGlobals(bin, start, end)
	if err != nil {
		t.Fatalf("ReadGlobals: %v", err)
	}
	if len(globals) != 1 || globals[0].Value != 42 || !globals[0].Mutable {
		t.Errorf("globals = %+v", globals)
	}
}

func TestReadCustomSections(t *testing.T) {
	bin := compile(t, `(module)`)
	bin, err := wasmfile.AppendCustomSection(bin, "name", []byte("hello"), false)
	if err != nil {
		t.Fatalf("AppendCustomSection: %v", err)
	}
	sections, err := wasmfile.ReadCustomSections(bin)
	if err != nil {
		t.Fatalf("ReadCustomSections: %v", err)
	}
	if len(sections) != 1 || sections[0].Name != "name" || string(sections[0].Payload) != "hello" {
		t.Errorf("sections = %+v", sections)
	}
}
