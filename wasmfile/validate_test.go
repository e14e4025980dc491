package wasmfile_test

import (
	"context"
	"testing"

	"github.com/schellingb/wajic-sub001/wasmfile"
)

func TestValidateAcceptsWellFormedModule(t *testing.T) {
	bin := compile(t, `(module (func $f (export "f") (result i32) (i32.const 1)))`)
	if err := wasmfile.Validate(context.Background(), bin); err != nil {
		t.Fatalf("Validate rejected a well-formed module: %v", err)
	}
}

func TestValidateRejectsTruncatedModule(t *testing.T) {
	bin := compile(t, `(module (func $f (export "f") (result i32) (i32.const 1)))`)
	truncated := bin[:len(bin)-1]
	if err := wasmfile.Validate(context.Background(), truncated); err == nil {
		t.Fatal("expected Validate to reject a truncated module")
	}
}
