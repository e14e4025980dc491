package assemble

import (
	"context"
	"fmt"
	"strings"

	"github.com/schellingb/wajic-sub001/wasmfile"
)

// InlineEncoding mirrors loader.InlineEncoding without importing the
// loader package, so callers can pick an encoding before they've built a
// loader.Options value.
type InlineEncoding int

const (
	EncodingW64 InlineEncoding = iota
	EncodingRLE85
)

// Assemble decides which of {module, loader, HTML} to emit, per
// spec.md §4.H. mod is the already-processed module (fragments still
// inside it in compact form, or with short letter import names if the
// caller already extracted them into loaderSrc).
func Assemble(mod []byte, loaderSrc string, opts AssembleOptions) (Artifacts, []Warning, error) {
	var out Artifacts
	var warnings []Warning

	if opts.SelfCheck {
		if err := wasmfile.Validate(context.Background(), mod); err != nil {
			return Artifacts{}, warnings, err
		}
	}

	if opts.Emit.Module {
		out.Module = mod
	}

	if opts.Emit.Loader {
		if loaderSrc == "" {
			warnings = append(warnings, warn("loader requested but no loader source was supplied"))
		}
		out.Loader = loaderSrc
	}

	if opts.Emit.HTML {
		html, w := buildHTML(loaderSrc, opts)
		out.HTML = html
		warnings = append(warnings, w...)
	}

	return out, warnings, nil
}

// EncodeInline encodes mod using the requested inline scheme, for a
// caller that wants to embed the module directly into loader text
// (loader.Options.InlineModule) rather than ship it as a sibling file.
func EncodeInline(mod []byte, enc InlineEncoding) string {
	if enc == EncodingRLE85 {
		return EncodeRLE85(mod)
	}
	return EncodeW64(mod)
}

func buildHTML(loaderSrc string, opts AssembleOptions) (string, []Warning) {
	var warnings []Warning
	title := opts.Title
	if title == "" {
		title = "WebAssembly module"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	b.WriteString("</head>\n<body>\n")

	if opts.Progress {
		b.WriteString(`<div id="wa_progress" style="width:100%;height:4px;background:#333;">
  <div id="wa_progress_bar" style="width:0%;height:100%;background:#0a0;"></div>
</div>
`)
	}
	b.WriteString(`<pre id="wa_log"></pre>
<canvas id="wa_canvas"></canvas>
`)

	switch {
	case loaderSrc != "":
		b.WriteString("<script>\n")
		b.WriteString(loaderSrc)
		b.WriteString("</script>\n")
	case opts.ModuleURL != "":
		fmt.Fprintf(&b, "<script src=%q></script>\n", loaderFileName(opts.ModuleURL))
	default:
		warnings = append(warnings, warn("HTML requested with neither loader source nor a loader URL"))
	}

	if opts.Progress {
		b.WriteString(`<script>
(function() {
  var bar = document.getElementById('wa_progress_bar');
  if (!bar || !self.WA) return;
  var prevModule = self.WA.module;
  if (typeof prevModule !== 'string') return;
  var xhr = new XMLHttpRequest();
  xhr.open('GET', prevModule, true);
  xhr.responseType = 'arraybuffer';
  xhr.onprogress = function(e) {
    if (e.lengthComputable) bar.style.width = (100 * e.loaded / e.total) + '%';
  };
  xhr.send();
})();
</script>
`)
	}

	b.WriteString("</body>\n</html>\n")
	return b.String(), warnings
}

func warn(message string) Warning {
	Logger().Warn(message)
	return Warning{Message: message}
}

func loaderFileName(moduleURL string) string {
	if idx := strings.LastIndex(moduleURL, "."); idx > 0 {
		return moduleURL[:idx] + ".js"
	}
	return moduleURL + ".js"
}
