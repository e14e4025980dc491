package loader

import "strings"

// writeStartup emits step 8's startup sequence inside the .then() callback
// writeInstantiation opened, then closes that callback. spec.md step 8
// lists five conditions. __wasm_call_ctors, main/__main_argc_argv (called
// with or without arguments) and WajicMain each fire on their own export
// (a module can export both main and WajicMain, and both run);
// __original_main and __main_void form an if/else pair, so at most one of
// them runs; WA.started() is always called.
func writeStartup(b *strings.Builder, opts Options) {
	if opts.ExportNames["__wasm_call_ctors"] {
		b.WriteString("if (ASM.__wasm_call_ctors) ASM.__wasm_call_ctors();\n")
	}

	if opts.ExportNames["main"] || opts.ExportNames["__main_argc_argv"] {
		mainName := "main"
		if !opts.ExportNames["main"] {
			mainName = "__main_argc_argv"
		}
		if opts.Flags.HasMainWithArgs {
			b.WriteString(`var argPtr = ASM.malloc(10);
MU8[argPtr + 8] = 87;
MU8[argPtr + 9] = 0;
MU32[argPtr >> 2] = argPtr + 8;
MU32[(argPtr + 4) >> 2] = 0;
ASM.` + mainName + `(1, argPtr);
`)
		} else {
			b.WriteString("ASM." + mainName + "();\n")
		}
	}

	if opts.ExportNames["__original_main"] {
		b.WriteString("ASM.__original_main();\n")
	} else if opts.ExportNames["__main_void"] {
		b.WriteString("ASM.__main_void();\n")
	}

	if opts.ExportNames["WajicMain"] {
		b.WriteString("ASM.WajicMain();\n")
	}

	b.WriteString("WA.started();\n")
	b.WriteString("})\n")
}
