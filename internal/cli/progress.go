package cli

import (
	"fmt"
	"strings"
	"time"
)

// maxETA bounds the displayed estimate; the recursion for large n would
// otherwise report absurd durations.
const maxETA = 24 * time.Hour

// progressTracker aggregates the fractions reported by the calculators of a
// comparison run. A fraction is calls made over fibonacci.RecursiveCalls(n),
// and the recursion makes calls at a constant rate, so the time left is the
// outstanding fraction divided by the rate observed since start.
type progressTracker struct {
	fractions []float64
	start     time.Time
	now       func() time.Time
}

func newProgressTracker(numCalculators int) *progressTracker {
	return &progressTracker{
		fractions: make([]float64, numCalculators),
		start:     time.Now(),
		now:       time.Now,
	}
}

// record stores the latest fraction for calculator index. Unknown indices
// are ignored.
func (t *progressTracker) record(index int, fraction float64) {
	if index < 0 || index >= len(t.fractions) {
		return
	}
	t.fractions[index] = min(max(fraction, 0), 1)
}

// average is the mean fraction over all calculators.
func (t *progressTracker) average() float64 {
	if len(t.fractions) == 0 {
		return 0
	}
	var sum float64
	for _, f := range t.fractions {
		sum += f
	}
	return sum / float64(len(t.fractions))
}

// eta returns the expected time to completion, or 0 while no rate is known
// yet or once everything is done.
func (t *progressTracker) eta() time.Duration {
	done := t.average()
	elapsed := t.now().Sub(t.start)
	if done <= 0 || done >= 1 || elapsed < 100*time.Millisecond {
		return 0
	}
	left := time.Duration(float64(elapsed) * (1 - done) / done)
	return min(left, maxETA)
}

// status renders the progress line shown next to the spinner.
func (t *progressTracker) status() string {
	done := t.average()
	return formatProgressLine(progressLabel(len(t.fractions)), done, formatETA(t.eta()))
}

func progressLabel(numCalculators int) string {
	if numCalculators > 1 {
		return "Avg progress"
	}
	return "Progress"
}

func formatProgressLine(label string, done float64, eta string) string {
	return fmt.Sprintf("%s: %6.2f%% [%s] ETA: %s", label, done*100, progressBar(done, ProgressBarWidth), eta)
}

// progressBar draws fraction as a bar of width cells. The fraction is clamped
// to [0, 1].
func progressBar(fraction float64, width int) string {
	filled := int(min(max(fraction, 0), 1) * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// formatETA prints an estimate at second precision below an hour and minute
// precision above, dropping zero trailing units ("2m", "1h15m").
func formatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta >= time.Hour:
		eta = eta.Truncate(time.Minute)
	default:
		eta = eta.Truncate(time.Second)
	}
	s := eta.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}
