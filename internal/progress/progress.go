// Package progress carries progress updates from long-running phases to an
// observer such as the terminal renderer.
package progress

import "time"

// Phase represents the current pipeline phase
type Phase string

const (
	PhaseListing   Phase = "listing"
	PhaseAnalyzing Phase = "analyzing"
	PhaseSampling  Phase = "sampling"
	PhaseCopying   Phase = "copying"
	PhaseReporting Phase = "reporting"
)

// Progress represents the current progress of a phase
type Progress struct {
	Phase       Phase
	Current     int       // Current item being processed
	Total       int       // Total items in this phase
	Description string    // Human-readable description
	StartedAt   time.Time // When this phase started (for ETA calculation)
}

// Callback is called with progress updates. A nil Callback is a no-op.
type Callback func(Progress)

// Report invokes the callback if it is set
func (cb Callback) Report(phase Phase, current, total int, desc string) {
	if cb == nil {
		return
	}
	cb(Progress{
		Phase:       phase,
		Current:     current,
		Total:       total,
		Description: desc,
	})
}

// ETA returns the estimated time remaining based on current progress
func (p Progress) ETA() time.Duration {
	if p.Current == 0 || p.Total == 0 || p.StartedAt.IsZero() {
		return 0
	}
	elapsed := time.Since(p.StartedAt)
	rate := float64(p.Current) / elapsed.Seconds()
	if rate <= 0 {
		return 0
	}
	remaining := p.Total - p.Current
	return time.Duration(float64(remaining)/rate) * time.Second
}

// Percentage returns the completion percentage (0-100)
func (p Progress) Percentage() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Current * 100) / p.Total
}
