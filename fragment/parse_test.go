package fragment_test

import (
	"strings"
	"testing"

	"github.com/schellingb/wajic-sub001/fragment"
)

func TestParseBasic(t *testing.T) {
	raw := "log" + "\x11" + "(int x)" + "\x11" + "{ console.log(x); }"
	f, err := fragment.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Name != "log" {
		t.Errorf("Name = %q", f.Name)
	}
	if f.Args != "x" {
		t.Errorf("Args = %q, want %q", f.Args, "x")
	}
	if f.Code != "{ console.log(x); }" {
		t.Errorf("Code = %q", f.Code)
	}
	if f.Lib != "" || f.Init != "" {
		t.Errorf("expected empty lib/init, got lib=%q init=%q", f.Lib, f.Init)
	}
}

func TestParseWithLibAndInit(t *testing.T) {
	raw := strings.Join([]string{"f", "", "{return 1}", "mylib", "(var x = 1;)"}, "\x11")
	f, err := fragment.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Lib != "mylib" {
		t.Errorf("Lib = %q", f.Lib)
	}
	if f.Init != "var x = 1;" {
		t.Errorf("Init = %q", f.Init)
	}
}

func TestParseMissingCodeIsAlreadyProcessed(t *testing.T) {
	_, err := fragment.Parse("a\x11b")
	if err == nil {
		t.Fatal("expected error for missing js_code")
	}
}

func TestNormalizeArgsVoidAndEmpty(t *testing.T) {
	for _, in := range []string{"", "void", "(void)", "  void  "} {
		if got := fragment.NormalizeArgs(in); got != "" {
			t.Errorf("NormalizeArgs(%q) = %q, want empty", in, got)
		}
	}
}

func TestNormalizeArgsSimple(t *testing.T) {
	got := fragment.NormalizeArgs("int x, char *name")
	if got != "x, name" {
		t.Errorf("NormalizeArgs = %q, want %q", got, "x, name")
	}
}

func TestNormalizeArgs64Bit(t *testing.T) {
	got := fragment.NormalizeArgs("int64_t val")
	if got != "val_lo, val_hi" {
		t.Errorf("NormalizeArgs = %q, want %q", got, "val_lo, val_hi")
	}
}

func TestNormalizeArgsArraySuffix(t *testing.T) {
	got := fragment.NormalizeArgs("int buf[4]")
	if got != "buf" {
		t.Errorf("NormalizeArgs = %q, want %q", got, "buf")
	}
}

func TestNormalizeArgsDefaultTail(t *testing.T) {
	got := fragment.NormalizeArgs("int flag = 0")
	if got != "flag" {
		t.Errorf("NormalizeArgs = %q, want %q", got, "flag")
	}
	got2 := fragment.NormalizeArgs("int flag WA_ARG(0)")
	if got2 != "flag" {
		t.Errorf("NormalizeArgs = %q, want %q", got2, "flag")
	}
}

func TestNormalizeArgsMultiple(t *testing.T) {
	got := fragment.NormalizeArgs("int a, int64_t b, float c")
	if got != "a, b_lo, b_hi, c" {
		t.Errorf("NormalizeArgs = %q", got)
	}
}
