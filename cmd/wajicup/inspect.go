package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/schellingb/wajic-sub001/fragment"
	"github.com/schellingb/wajic-sub001/verifier"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fragmentNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#98FB98")).
				Bold(true)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	flagOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	flagOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// inspectPage is one screen the inspector can show: either a single
// fragment's decoded fields or the module-wide derived flags.
type inspectPage struct {
	title string
	body  string
}

type inspectModel struct {
	filename string
	err      error
	pages    []inspectPage
	cursor   int
	width    int
	body     viewport.Model
	ready    bool
}

func newInspectModel(filename string) *inspectModel {
	return &inspectModel{filename: filename}
}

type loadedModuleMsg struct {
	err   error
	pages []inspectPage
}

func (m *inspectModel) Init() tea.Cmd {
	return m.loadModule
}

func (m *inspectModel) loadModule() tea.Msg {
	mod, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedModuleMsg{err: fmt.Errorf("read file: %w", err)}
	}

	imports, err := importsOf(mod)
	if err != nil {
		return loadedModuleMsg{err: fmt.Errorf("read imports: %w", err)}
	}
	exports, err := exportsOf(mod)
	if err != nil {
		return loadedModuleMsg{err: fmt.Errorf("read exports: %w", err)}
	}
	hasMemory, err := hasMemoryIn(mod)
	if err != nil {
		return loadedModuleMsg{err: fmt.Errorf("check memory: %w", err)}
	}

	fragments, _, err := extractFragments(mod, imports, false)
	if err != nil {
		return loadedModuleMsg{err: fmt.Errorf("extract fragments: %w", err)}
	}

	flags, warnings, err := verifier.Analyze(verifier.Input{
		Imports:      importRefs(imports),
		ExportNames:  exports,
		FragmentCode: fragmentTexts(fragments),
		HasMemory:    hasMemory,
	})
	if err != nil {
		return loadedModuleMsg{err: fmt.Errorf("verify: %w", err)}
	}

	var pages []inspectPage
	pages = append(pages, inspectPage{title: "feature flags", body: renderFlags(flags, warnings)})
	for i, f := range fragments {
		pages = append(pages, inspectPage{
			title: fmt.Sprintf("fragment %d/%d", i+1, len(fragments)),
			body:  renderFragment(f),
		})
	}
	return loadedModuleMsg{pages: pages}
}

func renderFlags(flags verifier.Flags, warnings []verifier.Warning) string {
	var b strings.Builder
	line := func(name string, on bool) {
		style := flagOffStyle
		mark := "off"
		if on {
			style, mark = flagOnStyle, "on"
		}
		fmt.Fprintf(&b, "  %s: %s\n", fieldStyle.Render(name), style.Render(mark))
	}
	line("has_malloc", flags.HasMalloc)
	line("has_free", flags.HasFree)
	line("uses_sbrk", flags.UsesSbrk)
	line("is_wasi", flags.IsWASI)
	line("uses_file_descriptors", flags.UsesFileDescriptors)
	line("needs_string_put", flags.NeedsStringPut)
	line("needs_string_get", flags.NeedsStringGet)
	line("needs_array_put", flags.NeedsArrayPut)
	line("needs_set_views", flags.NeedsSetViews)
	line("has_main_with_args", flags.HasMainWithArgs)
	line("has_main_no_args", flags.HasMainNoArgs)
	line("has_ctors", flags.HasCtors)
	line("has_wajic_main", flags.HasWajicMain)

	if len(warnings) > 0 {
		b.WriteString("\nwarnings:\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "  - %s\n", w.Message)
		}
	}
	return b.String()
}

func renderFragment(f fragment.Fragment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", fieldStyle.Render("name:"), fragmentNameStyle.Render(f.Name))
	fmt.Fprintf(&b, "%s %s\n", fieldStyle.Render("args:"), f.Args)
	if f.Lib != "" {
		fmt.Fprintf(&b, "%s %s\n", fieldStyle.Render("lib:"), f.Lib)
	}
	b.WriteString("\n")
	b.WriteString(fieldStyle.Render("code:"))
	b.WriteString("\n")
	b.WriteString(f.Code)
	b.WriteString("\n")
	if f.HasInit() {
		b.WriteString("\n")
		b.WriteString(fieldStyle.Render("init:"))
		b.WriteString("\n")
		b.WriteString(f.Init)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedModuleMsg:
		m.err = msg.err
		m.pages = msg.pages
		m.syncViewportContent()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		headerLines := 4
		footerLines := 2
		height := msg.Height - headerLines - footerLines
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.body = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.body.Width = msg.Width
			m.body.Height = height
		}
		m.syncViewportContent()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n":
			if m.cursor < len(m.pages)-1 {
				m.cursor++
				m.syncViewportContent()
			}
			return m, nil
		case "left", "h", "p":
			if m.cursor > 0 {
				m.cursor--
				m.syncViewportContent()
			}
			return m, nil
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		return m, cmd
	}
	return m, nil
}

// syncViewportContent refreshes the viewport with the current page's body
// and scrolls back to the top, so paging to a new fragment doesn't carry
// over the previous page's scroll position.
func (m *inspectModel) syncViewportContent() {
	if !m.ready || len(m.pages) == 0 {
		return
	}
	m.body.SetContent(m.pages[m.cursor].body)
	m.body.GotoTop()
}

func (m *inspectModel) View() string {
	width := m.width
	if width <= 0 {
		width = terminalWidth()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf(" wajicup inspect: %s ", m.filename)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.pages) == 0 {
		b.WriteString("loading...\n")
		return b.String()
	}

	page := m.pages[m.cursor]
	b.WriteString(fragmentNameStyle.Render(page.title))
	b.WriteString("\n")
	if width > 0 {
		b.WriteString(strings.Repeat("-", min(width, 60)))
		b.WriteString("\n")
	}
	if m.ready {
		b.WriteString(m.body.View())
	} else {
		b.WriteString(page.body)
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"[%d/%d] left/right to page, up/down to scroll, q to quit", m.cursor+1, len(m.pages))))
	return b.String()
}

// terminalWidth queries the controlling terminal's column count, falling
// back to a fixed width when stdout isn't a terminal (piped output, CI).
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func runInteractive(wasmFile string) error {
	p := tea.NewProgram(newInspectModel(wasmFile))
	_, err := p.Run()
	return err
}
