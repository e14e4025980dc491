package minify

import (
	"strings"
	"testing"
)

func TestMinifyPresetMergeIsPassthrough(t *testing.T) {
	src := "function foo( ) {\n  return   1;\n}\n"
	out, err := Minify(src, PresetMerge)
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	if out != src {
		t.Errorf("PresetMerge changed source:\n%q\nwant:\n%q", out, src)
	}
}

func TestMinifyTopLevelShrinksWhitespace(t *testing.T) {
	src := "function foo( ) {\n  return   1;\n}\n"
	out, err := Minify(src, PresetTopLevel)
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	if len(out) >= len(src) {
		t.Errorf("expected minified output shorter than input, got %q", out)
	}
	if !strings.Contains(out, "function foo") && !strings.Contains(out, "function(){") {
		t.Errorf("unexpected minified output: %q", out)
	}
}

func TestMinifyTopLevelRejectsInvalidSyntax(t *testing.T) {
	_, err := Minify("function( {{{ :::", PresetTopLevel)
	if err == nil {
		t.Fatal("expected an error for invalid JS syntax")
	}
	if !strings.Contains(err.Error(), "minify:") {
		t.Errorf("expected error to be wrapped as minify.Error, got %v", err)
	}
}
