package cli

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/vijay-prabhu/billsample/internal/progress"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

// Spinner frames for animated progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Terminal provides terminal-aware output utilities
type Terminal struct {
	IsTerminal   bool
	UseColor     bool
	spinnerIndex int
}

// NewTerminal creates a new Terminal instance
func NewTerminal() *Terminal {
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal, // Only use color in terminal
	}
}

// ClearLine clears the current line (terminal only)
func (t *Terminal) ClearLine() {
	if t.IsTerminal {
		fmt.Print("\r\033[K")
	}
}

// Flush ensures output is written immediately
func (t *Terminal) Flush() {
	os.Stdout.Sync()
}

// Spinner returns the next spinner frame
func (t *Terminal) Spinner() string {
	if !t.IsTerminal {
		return ""
	}
	frame := spinnerFrames[t.spinnerIndex]
	t.spinnerIndex = (t.spinnerIndex + 1) % len(spinnerFrames)
	return frame
}

// spin returns the next spinner frame followed by a space, or nothing
// outside a terminal
func (t *Terminal) spin() string {
	if f := t.Spinner(); f != "" {
		return f + " "
	}
	return ""
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// FormatETA formats a duration as a human-readable ETA string
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}

// PhaseColor returns the appropriate color for a pipeline phase
func PhaseColor(phase progress.Phase) string {
	switch phase {
	case progress.PhaseListing:
		return ColorCyan
	case progress.PhaseAnalyzing:
		return ColorBlue
	case progress.PhaseSampling:
		return ColorYellow
	case progress.PhaseCopying:
		return ColorPurple
	case progress.PhaseReporting:
		return ColorGreen
	default:
		return ColorWhite
	}
}

// ProgressPrinter renders progress updates on stdout. In a terminal the
// current line is redrawn; otherwise a line is printed on phase changes and
// at completion.
func (t *Terminal) ProgressPrinter() progress.Callback {
	var lastPhase progress.Phase
	var phaseStart time.Time

	return func(p progress.Progress) {
		if p.Phase != lastPhase {
			phaseStart = time.Now()
		}
		p.StartedAt = phaseStart

		msg := t.progressMessage(p)

		if t.IsTerminal {
			t.ClearLine()
			fmt.Print(t.Color(PhaseColor(p.Phase), msg))
			t.Flush()
		} else if p.Phase != lastPhase || (p.Total > 0 && p.Current == p.Total) {
			fmt.Println(msg)
		}
		lastPhase = p.Phase
	}
}

func (t *Terminal) progressMessage(p progress.Progress) string {
	eta := ""
	if d := p.ETA(); d > 0 {
		eta = fmt.Sprintf(" (ETA: %s)", FormatETA(d))
	}

	switch p.Phase {
	case progress.PhaseListing:
		if p.Total > 0 {
			return fmt.Sprintf("Listing bills: %d found", p.Total)
		}
		return fmt.Sprintf("%sListing bills...", t.spin())
	case progress.PhaseAnalyzing:
		return fmt.Sprintf("Analyzing: %d/%d bills (%d%%)%s", p.Current, p.Total, p.Percentage(), eta)
	case progress.PhaseSampling:
		return fmt.Sprintf("%sSampling: %d/%d bills", t.spin(), p.Current, p.Total)
	case progress.PhaseCopying:
		return fmt.Sprintf("Copying: %d/%d bills (%d%%)%s", p.Current, p.Total, p.Percentage(), eta)
	case progress.PhaseReporting:
		return fmt.Sprintf("%sWriting report...", t.spin())
	default:
		return p.Description
	}
}
