package verifier

import (
	"strings"

	"github.com/schellingb/wajic-sub001/errors"
)

// Analyze derives Flags from in, following spec.md §4.E's literal
// substring/kind tests, then runs the fatal consistency checks. It
// returns any non-fatal findings (unused malloc/free, for the native
// optimizer to prune) as Warnings even on success.
func Analyze(in Input) (Flags, []Warning, error) {
	var f Flags
	var warnings []Warning

	allCode := strings.Join(in.FragmentCode, "\n")

	for _, imp := range in.Imports {
		if strings.Contains(strings.ToLower(imp.Module), "wasi") {
			f.IsWASI = true
		}
		if imp.Module == "env" && imp.Field == "sbrk" {
			f.UsesSbrk = true
		}
	}
	if f.IsWASI && hasImport(in.Imports, "env", "__sys_open") {
		f.UsesFileDescriptors = true
	}

	f.HasMalloc = in.ExportNames["malloc"]
	f.HasFree = in.ExportNames["free"]
	f.HasMainWithArgs = (in.ExportNames["main"] || in.ExportNames["__main_argc_argv"]) && f.HasMalloc
	f.HasMainNoArgs = (in.ExportNames["main"] || in.ExportNames["__main_argc_argv"]) && !f.HasMalloc
	f.HasCtors = in.ExportNames["__wasm_call_ctors"]
	f.HasWajicMain = in.ExportNames["WajicMain"]

	f.NeedsMU8 = strings.Contains(allCode, "MU8") || needsStringOrArray(allCode) || f.HasMainWithArgs
	f.NeedsMU16 = strings.Contains(allCode, "MU16")
	f.NeedsMU32 = strings.Contains(allCode, "MU32") || f.HasMainWithArgs
	f.NeedsMI32 = strings.Contains(allCode, "MI32")
	f.NeedsMF32 = strings.Contains(allCode, "MF32")
	f.NeedsSetViews = f.NeedsMU8 || f.NeedsMU16 || f.NeedsMU32 || f.NeedsMI32 || f.NeedsMF32
	f.NeedsMemoryObject = f.NeedsSetViews || f.UsesSbrk

	f.NeedsStringPut = strings.Contains(allCode, "MStrPut") || f.IsWASI || strings.Contains(allCode, "__assert_fail")
	f.NeedsStringGet = strings.Contains(allCode, "MStrGet") || f.IsWASI || strings.Contains(allCode, "__assert_fail")
	f.NeedsArrayPut = strings.Contains(allCode, "MArrPut")

	f.NeedsMalloc = strings.Contains(allCode, "ASM.malloc") || f.HasMainWithArgs || strings.Contains(allCode, "MStrPut") || f.NeedsArrayPut

	f.NeedsModuleHandle = strings.Contains(allCode, "WM")
	f.NeedsExportsHandle = strings.Contains(allCode, "ASM")
	f.NeedsTempSlot = strings.Contains(allCode, "TEMP") || strings.Contains(allCode, "getTempRet0") || strings.Contains(allCode, "setTempRet0")

	if f.NeedsMemoryObject && !in.HasMemory {
		return Flags{}, nil, errors.MissingMemory("needs_memory_object")
	}
	if f.NeedsMalloc && !f.HasMalloc {
		return Flags{}, nil, errors.MissingExport("needs_malloc", "malloc")
	}

	if in.ExportNames["malloc"] && !strings.Contains(allCode, "malloc") && !f.HasMainWithArgs {
		warnings = append(warnings, warn("malloc is exported but not referenced by any fragment; safe to strip"))
	}
	if in.ExportNames["free"] && !strings.Contains(allCode, "free") {
		warnings = append(warnings, warn("free is exported but not referenced by any fragment; safe to strip"))
	}

	return f, warnings, nil
}

func warn(message string) Warning {
	Logger().Warn(message)
	return Warning{Message: message}
}

func hasImport(imports []ImportRef, module, field string) bool {
	for _, imp := range imports {
		if imp.Module == module && imp.Field == field {
			return true
		}
	}
	return false
}

func needsStringOrArray(code string) bool {
	return strings.Contains(code, "MStrPut") || strings.Contains(code, "MStrGet") || strings.Contains(code, "MArrPut")
}
