package wasmfile_test

import (
	"testing"

	"github.com/schellingb/wajic-sub001/wasmfile"
)

func TestRemoveExports(t *testing.T) {
	bin := compile(t, `(module
		(func $malloc (export "malloc") (param i32) (result i32) (i32.const 0))
		(func $keep (export "keep") (result i32) (i32.const 1))
		(memory (export "memory") 1))`)

	out, err := wasmfile.RemoveExports(bin, map[string]bool{"malloc": true})
	if err != nil {
		t.Fatalf("RemoveExports: %v", err)
	}

	names, err := wasmfile.ExportNames(out)
	if err != nil {
		t.Fatalf("ExportNames: %v", err)
	}
	if names["malloc"] {
		t.Error("expected malloc export to be removed")
	}
	if !names["keep"] || !names["memory"] {
		t.Errorf("expected other exports preserved, got %v", names)
	}

	if err := wasmfile.Walk(out, func(wasmfile.SectionID, int, int) error { return nil }); err != nil {
		t.Fatalf("module with exports removed failed to walk: %v", err)
	}
}

func TestRemoveExportsNoMatchIsNoop(t *testing.T) {
	bin := compile(t, `(module (func $f (export "f") (result i32) (i32.const 1)))`)
	out, err := wasmfile.RemoveExports(bin, map[string]bool{"nonexistent": true})
	if err != nil {
		t.Fatalf("RemoveExports: %v", err)
	}
	if string(out) != string(bin) {
		t.Error("expected no-op when no export names match")
	}
}

func TestRemoveExportsEmptyDropIsNoop(t *testing.T) {
	bin := compile(t, `(module (func $f (export "f") (result i32) (i32.const 1)))`)
	out, err := wasmfile.RemoveExports(bin, nil)
	if err != nil {
		t.Fatalf("RemoveExports: %v", err)
	}
	if string(out) != string(bin) {
		t.Error("expected no-op for empty drop set")
	}
}
