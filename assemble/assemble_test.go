package assemble

import (
	"strings"
	"testing"

	"github.com/schellingb/wajic-sub001/wat"
)

func TestAssembleModuleOnly(t *testing.T) {
	mod := []byte{0x00, 0x61, 0x73, 0x6d}
	out, warnings, err := Assemble(mod, "", AssembleOptions{Emit: Emit{Module: true}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if string(out.Module) != string(mod) {
		t.Errorf("module bytes not passed through unchanged")
	}
	if out.Loader != "" || out.HTML != "" {
		t.Errorf("expected only module output, got loader=%q html=%q", out.Loader, out.HTML)
	}
}

func TestAssembleLoaderOnly(t *testing.T) {
	out, warnings, err := Assemble(nil, "var x = 1;", AssembleOptions{Emit: Emit{Loader: true}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if out.Loader != "var x = 1;" {
		t.Errorf("loader source not passed through unchanged, got %q", out.Loader)
	}
}

func TestAssembleHTMLInlinesLoader(t *testing.T) {
	out, _, err := Assemble(nil, "var x = 1;", AssembleOptions{
		Emit:  Emit{HTML: true},
		Title: "my module",
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(out.HTML, "<title>my module</title>") {
		t.Errorf("expected title in HTML, got %q", out.HTML)
	}
	if !strings.Contains(out.HTML, "var x = 1;") {
		t.Errorf("expected loader source inlined into HTML, got %q", out.HTML)
	}
}

func TestAssembleHTMLWarnsWithNoLoaderOrURL(t *testing.T) {
	_, warnings, err := Assemble(nil, "", AssembleOptions{Emit: Emit{HTML: true}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(warnings) == 0 {
		t.Fatal("expected a warning when HTML has nothing to reference")
	}
}

func TestAssembleHTMLProgressOverlay(t *testing.T) {
	out, _, err := Assemble(nil, "var x = 1;", AssembleOptions{
		Emit:     Emit{HTML: true},
		Progress: true,
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(out.HTML, "wa_progress_bar") {
		t.Errorf("expected progress bar markup, got %q", out.HTML)
	}
}

func TestAssembleSelfCheckAcceptsValidModule(t *testing.T) {
	mod, err := wat.Compile(`(module (memory (export "memory") 1))`)
	if err != nil {
		t.Fatalf("wat.Compile: %v", err)
	}
	out, _, err := Assemble(mod, "", AssembleOptions{Emit: Emit{Module: true}, SelfCheck: true})
	if err != nil {
		t.Fatalf("Assemble with valid module: %v", err)
	}
	if len(out.Module) != len(mod) {
		t.Errorf("expected module to pass through unchanged")
	}
}

func TestAssembleSelfCheckRejectsCorruptModule(t *testing.T) {
	mod, err := wat.Compile(`(module (memory (export "memory") 1))`)
	if err != nil {
		t.Fatalf("wat.Compile: %v", err)
	}
	truncated := mod[:len(mod)-1]
	_, _, err = Assemble(truncated, "", AssembleOptions{Emit: Emit{Module: true}, SelfCheck: true})
	if err == nil {
		t.Fatal("expected SelfCheck to reject a truncated module")
	}
}

func TestEncodeInlineSelectsScheme(t *testing.T) {
	data := []byte("hello wasm")
	w64 := EncodeInline(data, EncodingW64)
	rle := EncodeInline(data, EncodingRLE85)
	if w64 == rle {
		t.Errorf("expected different output for different encodings")
	}
	if w64 != EncodeW64(data) {
		t.Errorf("EncodeInline(W64) mismatch")
	}
	if rle != EncodeRLE85(data) {
		t.Errorf("EncodeInline(RLE85) mismatch")
	}
}
