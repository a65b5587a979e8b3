package contentcheck

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter shows progress while activities are checked.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter when running interactively, or a
// LineReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineReporter{w: os.Stderr}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Checking activities"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LineReporter prints one line per activity, suitable for CI logs.
type LineReporter struct {
	w     io.Writer
	total int
}

// NewLineReporter writes progress lines to w.
func NewLineReporter(w io.Writer) *LineReporter { return &LineReporter{w: w} }

func (r *LineReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.w, "Checking %d activities\n", total)
}

func (r *LineReporter) Update(current int, message string) {
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *LineReporter) Finish() {
	fmt.Fprintln(r.w, "Content check complete")
}
