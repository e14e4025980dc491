package wasmfile_test

import (
	"testing"

	"github.com/schellingb/wajic-sub001/wasmfile"
)

func TestAppendCustomSectionRoundTrip(t *testing.T) {
	bin := compile(t, `(module)`)
	out, err := wasmfile.AppendCustomSection(bin, "wajic.fragments", []byte("payload"), false)
	if err != nil {
		t.Fatalf("AppendCustomSection: %v", err)
	}

	names, err := wasmfile.CustomSectionNames(out)
	if err != nil {
		t.Fatalf("CustomSectionNames: %v", err)
	}
	if len(names) != 1 || names[0] != "wajic.fragments" {
		t.Fatalf("names = %v", names)
	}

	if err := wasmfile.Walk(out, func(wasmfile.SectionID, int, int) error { return nil }); err != nil {
		t.Fatalf("module with custom section failed to walk: %v", err)
	}
}

func TestAppendCustomSectionIdempotentReplace(t *testing.T) {
	bin := compile(t, `(module)`)
	first, err := wasmfile.AppendCustomSection(bin, "name", []byte("one"), true)
	if err != nil {
		t.Fatalf("AppendCustomSection (first): %v", err)
	}
	second, err := wasmfile.AppendCustomSection(first, "name", []byte("two"), true)
	if err != nil {
		t.Fatalf("AppendCustomSection (second): %v", err)
	}

	sections, err := wasmfile.ReadCustomSections(second)
	if err != nil {
		t.Fatalf("ReadCustomSections: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected exactly one custom section after idempotent replace, got %d", len(sections))
	}
	if string(sections[0].Payload) != "two" {
		t.Errorf("expected latest payload to win, got %q", sections[0].Payload)
	}
}

func TestAppendCustomSectionWithoutReplaceDuplicates(t *testing.T) {
	bin := compile(t, `(module)`)
	first, err := wasmfile.AppendCustomSection(bin, "name", []byte("one"), false)
	if err != nil {
		t.Fatalf("AppendCustomSection (first): %v", err)
	}
	second, err := wasmfile.AppendCustomSection(first, "name", []byte("two"), false)
	if err != nil {
		t.Fatalf("AppendCustomSection (second): %v", err)
	}

	sections, err := wasmfile.ReadCustomSections(second)
	if err != nil {
		t.Fatalf("ReadCustomSections: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected two custom sections without replace, got %d", len(sections))
	}
}

func TestRemoveCustomSections(t *testing.T) {
	bin := compile(t, `(module)`)
	bin, err := wasmfile.AppendCustomSection(bin, "keep", []byte("a"), false)
	if err != nil {
		t.Fatal(err)
	}
	bin, err = wasmfile.AppendCustomSection(bin, "drop", []byte("b"), false)
	if err != nil {
		t.Fatal(err)
	}
	bin, err = wasmfile.AppendCustomSection(bin, "keep", []byte("c"), false)
	if err != nil {
		t.Fatal(err)
	}

	out, err := wasmfile.RemoveCustomSections(bin, func(name string) bool { return name == "drop" })
	if err != nil {
		t.Fatalf("RemoveCustomSections: %v", err)
	}
	sections, err := wasmfile.ReadCustomSections(out)
	if err != nil {
		t.Fatalf("ReadCustomSections: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 remaining sections, got %d", len(sections))
	}
	for _, s := range sections {
		if s.Name == "drop" {
			t.Error("drop section should have been removed")
		}
	}
}
