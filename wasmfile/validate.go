package wasmfile

import (
	"context"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/schellingb/wajic-sub001/errors"
)

// Validate compiles module with wazero and discards the result. It never
// instantiates or runs anything; the only question it answers is whether
// the bytes this package has been splicing still form a well-formed
// module wazero's own validator accepts. Grounded on the teacher's
// WazeroEngine.LoadModule, which calls the same runtime.CompileModule
// ahead of instantiation, minus everything downstream of compilation.
func Validate(ctx context.Context, module []byte) error {
	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, module)
	if err != nil {
		Logger().Warn("wazero rejected the rewritten module", zap.Error(err))
		return errors.Wrap(errors.PhaseValidate, errors.KindInvalidData, err, "wazero rejected the rewritten module")
	}
	return compiled.Close(ctx)
}
