// Command wajicup reads a processed or unprocessed WebAssembly module,
// runs the rewrite/verify/synthesize/assemble pipeline spec.md describes,
// and writes whichever artifacts were requested.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/schellingb/wajic-sub001/assemble"
	"github.com/schellingb/wajic-sub001/fragment"
	"github.com/schellingb/wajic-sub001/loader"
	"github.com/schellingb/wajic-sub001/minify"
	"github.com/schellingb/wajic-sub001/verifier"
	"github.com/schellingb/wajic-sub001/wasmfile"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to the input wasm file")
		outModule   = flag.String("out-module", "", "Path to write the processed module (empty: don't emit)")
		outLoader   = flag.String("out-loader", "", "Path to write the loader script (empty: don't emit)")
		outHTML     = flag.String("out-html", "", "Path to write the HTML shell (empty: don't emit)")
		inline      = flag.Bool("inline", true, "Embed the module inside the loader instead of referencing it by URL")
		rle         = flag.Bool("rle", false, "Use RLE85 instead of W64 for inline module encoding")
		topLevel    = flag.Bool("minify", true, "Run the loader through the top-level minifier")
		selfCheck   = flag.Bool("self-check", true, "Validate the rewritten module with wazero before emitting")
		progress    = flag.Bool("progress", false, "Add a progress-bar overlay to the HTML shell")
		title       = flag.String("title", "", "HTML document title")
		interactive = flag.Bool("i", false, "Interactive mode: inspect the module's fragments and flags")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: wajicup -wasm <file.wasm> [-out-module f] [-out-loader f] [-out-html f]")
		fmt.Fprintln(os.Stderr, "       wajicup -wasm <file.wasm> -i  (interactive inspector)")
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(*wasmFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := runOptions{
		wasmFile:  *wasmFile,
		outModule: *outModule,
		outLoader: *outLoader,
		outHTML:   *outHTML,
		inline:    *inline,
		rle:       *rle,
		topLevel:  *topLevel,
		selfCheck: *selfCheck,
		progress:  *progress,
		title:     *title,
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type runOptions struct {
	wasmFile, outModule, outLoader, outHTML, title string
	inline, rle, topLevel, selfCheck, progress      bool
}

func run(opts runOptions) error {
	mod, err := os.ReadFile(opts.wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	imports, err := importsOf(mod)
	if err != nil {
		return fmt.Errorf("read imports: %w", err)
	}
	exports, err := exportsOf(mod)
	if err != nil {
		return fmt.Errorf("read exports: %w", err)
	}
	hasMemory, err := hasMemoryIn(mod)
	if err != nil {
		return fmt.Errorf("check memory: %w", err)
	}

	// A module written without a sibling loader (or HTML shell, which
	// inlines its own loader) must stay standalone per spec.md §4.H: its
	// J.* fields keep their fragment bodies, just compacted, instead of
	// being stripped down to bare placeholder names only the extracted
	// loader could resolve.
	standalone := opts.outLoader == "" && opts.outHTML == ""
	fragments, renamed, err := extractFragments(mod, imports, standalone)
	if err != nil {
		return fmt.Errorf("extract fragments: %w", err)
	}

	flags, warnings, err := verifier.Analyze(verifier.Input{
		Imports:      importRefs(imports),
		ExportNames:  exports,
		FragmentCode: fragmentTexts(fragments),
		HasMemory:    hasMemory,
	})
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
	}

	encoding := loader.EncodingW64
	assembleEncoding := assemble.EncodingW64
	if opts.rle {
		encoding = loader.EncodingRLE85
		assembleEncoding = assemble.EncodingRLE85
	}

	loaderOpts := loader.Options{
		Flags:       flags,
		Memory:      memorySpec(imports, exports),
		Libraries:   groupByLibrary(fragments),
		ExportNames: exports,
		Load:        loader.LoadFetch,
		Encoding:    encoding,
		ModuleURL:   opts.wasmFile,
	}
	if opts.inline {
		loaderOpts.Load = loader.LoadInline
		loaderOpts.InlineModule = assemble.EncodeInline(renamed, assembleEncoding)
	}

	loaderSrc, err := loader.Synthesize(loaderOpts)
	if err != nil {
		return fmt.Errorf("synthesize loader: %w", err)
	}
	if opts.topLevel {
		loaderSrc, err = minify.Minify(loaderSrc, minify.PresetTopLevel)
		if err != nil {
			return fmt.Errorf("minify loader: %w", err)
		}
	}

	artifacts, asmWarnings, err := assemble.Assemble(renamed, loaderSrc, assemble.AssembleOptions{
		Emit: assemble.Emit{
			Module: opts.outModule != "",
			Loader: opts.outLoader != "",
			HTML:   opts.outHTML != "",
		},
		Encoding:  assembleEncoding,
		Inline:    opts.inline,
		ModuleURL: opts.wasmFile,
		Title:     opts.title,
		Progress:  opts.progress,
		SelfCheck: opts.selfCheck,
	})
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	for _, w := range asmWarnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
	}

	if opts.outModule != "" {
		if err := os.WriteFile(opts.outModule, artifacts.Module, 0o644); err != nil {
			return fmt.Errorf("write module: %w", err)
		}
	}
	if opts.outLoader != "" {
		if err := os.WriteFile(opts.outLoader, []byte(artifacts.Loader), 0o644); err != nil {
			return fmt.Errorf("write loader: %w", err)
		}
	}
	if opts.outHTML != "" {
		if err := os.WriteFile(opts.outHTML, []byte(artifacts.HTML), 0o644); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
	}
	return nil
}

func importsOf(mod []byte) ([]wasmfile.Import, error) {
	var imports []wasmfile.Import
	err := wasmfile.Walk(mod, func(id wasmfile.SectionID, start, end int) error {
		if id != wasmfile.SectionImport {
			return nil
		}
		var err error
		imports, err = wasmfile.ReadImports(mod, start, end)
		return err
	})
	return imports, err
}

func exportsOf(mod []byte) (map[string]bool, error) {
	return wasmfile.ExportNames(mod)
}

func hasMemoryIn(mod []byte) (bool, error) {
	var importStart, importEnd, memStart, memEnd int
	err := wasmfile.Walk(mod, func(id wasmfile.SectionID, start, end int) error {
		switch id {
		case wasmfile.SectionImport:
			importStart, importEnd = start, end
		case wasmfile.SectionMemory:
			memStart, memEnd = start, end
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return wasmfile.HasMemory(mod, importStart, importEnd, memStart, memEnd)
}

func importRefs(imports []wasmfile.Import) []verifier.ImportRef {
	refs := make([]verifier.ImportRef, len(imports))
	for i, imp := range imports {
		refs[i] = verifier.ImportRef{Module: imp.Module, Field: imp.Field}
	}
	return refs
}

// extractFragments parses every "J" import's field as a fragment. When
// standalone is true the module must keep working without an accompanying
// loader, so each field is rewritten to spec.md §4.D's compact wire form
// (name+args+code, still carrying the function body) rather than a bare
// placeholder letter. When standalone is false the caller is about to pull
// the fragments into a loader (per §4.F step 1), so a bare short name is
// enough: the body itself leaves the module for loaderOpts.Libraries.
func extractFragments(mod []byte, imports []wasmfile.Import, standalone bool) ([]fragment.Fragment, []byte, error) {
	var fragments []fragment.Fragment
	newFields := make(map[[2]string]string)
	namer := fragment.CompactNamer{}
	libNamer := fragment.CompactNamer{}
	libIDs := make(map[string]string)
	libInitWritten := make(map[string]bool)

	for _, imp := range imports {
		if imp.Module != "J" {
			continue
		}
		f, err := fragment.Parse(imp.Field)
		if err != nil {
			return nil, nil, err
		}
		fragments = append(fragments, f)

		shortName := namer.Next()
		if !standalone {
			newFields[[2]string{imp.Module, imp.Field}] = shortName
			continue
		}

		libID := ""
		if f.Lib != "" {
			id, ok := libIDs[f.Lib]
			if !ok {
				id = libNamer.Next()
				libIDs[f.Lib] = id
			}
			libID = id
		}
		includeInit := f.Init != "" && !libInitWritten[f.Lib]
		if includeInit {
			libInitWritten[f.Lib] = true
		}
		compact, err := fragment.EncodeCompact(shortName, f.Args, f.Code, libID, includeInit, f.Init)
		if err != nil {
			return nil, nil, err
		}
		newFields[[2]string{imp.Module, imp.Field}] = compact
	}

	renamed, err := wasmfile.RewriteImportFields(mod, newFields)
	if err != nil {
		return nil, nil, err
	}
	return fragments, renamed, nil
}

func fragmentTexts(fragments []fragment.Fragment) []string {
	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Code + f.Init
	}
	return texts
}

func memorySpec(imports []wasmfile.Import, exports map[string]bool) loader.MemorySpec {
	for _, imp := range imports {
		if imp.Kind == wasmfile.KindMemory && imp.Module == "env" && imp.Field == "memory" {
			initial := uint32(1)
			if imp.MemoryLimits.Min > 0 {
				initial = imp.MemoryLimits.Min
			}
			return loader.MemorySpec{Imported: true, InitialPages: initial}
		}
	}
	return loader.MemorySpec{Imported: false}
}

func groupByLibrary(fragments []fragment.Fragment) []loader.LibraryGroup {
	order := make([]string, 0)
	groups := make(map[string]*loader.LibraryGroup)
	namer := fragment.CompactNamer{}

	for _, f := range fragments {
		g, ok := groups[f.Lib]
		if !ok {
			g = &loader.LibraryGroup{Name: f.Lib}
			groups[f.Lib] = g
			order = append(order, f.Lib)
		}
		g.Init += f.Init
		g.Funcs = append(g.Funcs, loader.FragmentFunc{
			Name: namer.Next(),
			Args: fragment.NormalizeArgs(f.Args),
			Code: f.Code,
		})
	}

	result := make([]loader.LibraryGroup, 0, len(order))
	for _, name := range order {
		result = append(result, *groups[name])
	}
	return result
}
