package fragment_test

import (
	"testing"

	"github.com/schellingb/wajic-sub001/fragment"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	tests := []fragment.Fragment{
		{Name: "log", Args: "x", Code: "{ console.log(x); }"},
		{Name: "f", Args: "", Code: "{return 1}", Lib: "mylib"},
		{Name: "g", Args: "a, b", Code: "{return a+b}", Lib: "mylib", Init: "var shared = 0;"},
	}
	for _, f := range tests {
		encoded, err := fragment.Encode(f)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", f, err)
		}
		got, err := fragment.Parse(encoded)
		if err != nil {
			t.Fatalf("Parse(%q): %v", encoded, err)
		}
		if got != f {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, f)
		}
	}
}

func TestEncodeRejectsEmbeddedDelimiter(t *testing.T) {
	_, err := fragment.Encode(fragment.Fragment{Name: "bad\x11name", Args: "", Code: "{}"})
	if err == nil {
		t.Fatal("expected DelimiterConflict error")
	}
}

func TestEncodeEscapesControlChars(t *testing.T) {
	f := fragment.Fragment{Name: "f", Args: "", Code: "line1\nline2\x01"}
	encoded, err := fragment.Encode(f)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got, err := fragment.Parse(encoded); err != nil || got.Code != f.Code {
		t.Errorf("round trip of control chars failed: got %+v, err %v", got, err)
	}
}

func TestEncodeCompactDisambiguatesLibAndInit(t *testing.T) {
	withLibNoInit, err := fragment.EncodeCompact("a", "", "{}", "L", false, "")
	if err != nil {
		t.Fatal(err)
	}
	noLibWithInit, err := fragment.EncodeCompact("b", "", "{}", "", true, "var x=1;")
	if err != nil {
		t.Fatal(err)
	}
	if withLibNoInit == noLibWithInit {
		t.Fatal("expected distinct wire forms for lib-only vs init-only fragments")
	}
}

func TestCompactNamerSequence(t *testing.T) {
	n := fragment.NewCompactNamer()
	var got []string
	for i := 0; i < 53; i++ {
		got = append(got, n.Next())
	}
	if got[0] != "a" || got[25] != "z" || got[26] != "A" || got[51] != "Z" || got[52] != "aa" {
		t.Errorf("unexpected sequence: %v", got)
	}
}
