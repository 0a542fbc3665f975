package output

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Reporter receives deployment progress events. Rendering (spinner, plain
// text, silence) is entirely its concern.
type Reporter interface {
	// Println prints a standalone line above the progress display
	Println(msg string)
	// SetPrefix sets a prefix rendered before every subsequent message
	SetPrefix(prefix string)
	// SetMessage replaces the current progress message
	SetMessage(msg string)
	// Finish renders a final message and stops the display
	Finish(msg string)
	// Stop tears the display down without a final message. It must be
	// called before an error is printed so the terminal is restored.
	Stop()
}

// NewReporter creates the appropriate reporter based on TTY availability.
// A quiet splog gets a reporter that discards everything.
func NewReporter(splog *Splog) Reporter {
	if splog.IsQuiet() {
		return &QuietReporter{}
	}
	if IsTTY() {
		return NewSpinnerReporter()
	}
	return NewPlainReporter(splog)
}

// QuietReporter discards all progress events
type QuietReporter struct{}

func (r *QuietReporter) Println(string) {}
func (r *QuietReporter) SetPrefix(string) {}
func (r *QuietReporter) SetMessage(string) {}
func (r *QuietReporter) Finish(string) {}
func (r *QuietReporter) Stop() {}

// PlainReporter prints progress line by line (non-TTY). Repeated messages are
// only rendered once.
type PlainReporter struct {
	splog  *Splog
	prefix string
	last   string
}

// NewPlainReporter creates a new plain reporter
func NewPlainReporter(splog *Splog) *PlainReporter {
	return &PlainReporter{splog: splog}
}

func (r *PlainReporter) Println(msg string) {
	r.splog.Info("%s", msg)
}

func (r *PlainReporter) SetPrefix(prefix string) {
	r.prefix = prefix
}

func (r *PlainReporter) SetMessage(msg string) {
	line := r.compose(msg)
	if line == r.last {
		return
	}
	r.last = line
	r.splog.Info("%s", line)
}

func (r *PlainReporter) Finish(msg string) {
	r.splog.Info("%s", r.compose(msg))
}

// Stop is a no-op: plain output holds no terminal state
func (r *PlainReporter) Stop() {}

func (r *PlainReporter) compose(msg string) string {
	if r.prefix == "" {
		return msg
	}
	return r.prefix + " " + msg
}

// SpinnerReporter uses bubbletea for an animated spinner (TTY)
type SpinnerReporter struct {
	program *tea.Program
}

// NewSpinnerReporter creates a new spinner reporter and starts rendering
func NewSpinnerReporter() *SpinnerReporter {
	model := newSpinnerModel()
	program := tea.NewProgram(model, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))

	// Run program in background
	go func() {
		_, _ = program.Run()
	}()

	return &SpinnerReporter{program: program}
}

func (r *SpinnerReporter) Println(msg string) {
	r.program.Println(msg)
}

func (r *SpinnerReporter) SetPrefix(prefix string) {
	r.program.Send(reporterPrefixMsg{prefix: prefix})
}

func (r *SpinnerReporter) SetMessage(msg string) {
	r.program.Send(reporterUpdateMsg{message: msg})
}

func (r *SpinnerReporter) Finish(msg string) {
	r.program.Send(reporterFinishMsg{message: msg})
	r.program.Wait()
}

// Stop quits the bubbletea program and waits for it to restore the terminal
func (r *SpinnerReporter) Stop() {
	r.program.Quit()
	r.program.Wait()
}

// Internal bubbletea model for the spinner
type spinnerModel struct {
	spinner spinner.Model
	prefix  string
	message string
	done    bool
	styles  reporterStyles
}

type reporterStyles struct {
	spinnerStyle lipgloss.Style
	prefixStyle  lipgloss.Style
	doneStyle    lipgloss.Style
}

type reporterPrefixMsg struct {
	prefix string
}

type reporterUpdateMsg struct {
	message string
}

type reporterFinishMsg struct {
	message string
}

func newSpinnerModel() *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &spinnerModel{
		spinner: s,
		styles: reporterStyles{
			spinnerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
			prefixStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
			doneStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		},
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case reporterPrefixMsg:
		m.prefix = msg.prefix
		return m, nil

	case reporterUpdateMsg:
		m.message = msg.message
		return m, m.spinner.Tick

	case reporterFinishMsg:
		m.message = msg.message
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *spinnerModel) View() string {
	var b strings.Builder

	if m.done {
		b.WriteString(m.styles.doneStyle.Render("•"))
	} else {
		b.WriteString(m.spinner.View())
	}
	b.WriteString(" ")

	if m.prefix != "" {
		b.WriteString(m.styles.prefixStyle.Render(m.prefix))
		b.WriteString(" ")
	}

	b.WriteString(m.message)
	b.WriteString("\n")

	return b.String()
}
