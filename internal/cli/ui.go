// The cli package provides the command-line presentation layer of numex: the
// asynchronous display of Fibonacci progress, the formatting of every
// exercise result, and the interactive REPL.
package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/ui"
)

// FormatExecutionDuration prints d in µs below a millisecond, in ms below a
// second and with time.Duration's own format above.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// ProgressRefreshRate is both the spinner frame interval and the status
	// line refresh period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the number of cells in the progress bar.
	ProgressBarWidth = 40
	// HistogramBarWidth is the width of the longest bar in a histogram chart.
	HistogramBarWidth = 40
)

// Theme colors, resolved on every call so a theme switch applies at once.

func ColorReset() string     { return ui.ColorReset() }
func ColorRed() string       { return ui.ColorRed() }
func ColorGreen() string     { return ui.ColorGreen() }
func ColorYellow() string    { return ui.ColorYellow() }
func ColorBlue() string      { return ui.ColorBlue() }
func ColorMagenta() string   { return ui.ColorMagenta() }
func ColorCyan() string      { return ui.ColorCyan() }
func ColorBold() string      { return ui.ColorBold() }
func ColorUnderline() string { return ui.ColorUnderline() }

// Spinner is the part of a terminal spinner DisplayProgress drives.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

// newSpinner is swapped out in tests.
var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// DisplayProgress renders progress updates under a spinner until
// progressChan is closed, then prints a final 100% line that stays on screen.
// It calls wg.Done on return. With no calculators it only drains the channel.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	if numCalculators <= 0 {
		for range progressChan {
		}
		return
	}

	tracker := newProgressTracker(numCalculators)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				// The spinner owns the line until stopped.
				s.Stop()
				fmt.Fprintln(out, formatProgressLine(progressLabel(numCalculators), 1, "< 1s"))
				return
			}
			tracker.record(update.CalculatorIndex, update.Value)
		case <-ticker.C:
			s.UpdateSuffix(" " + tracker.status())
		}
	}
}

// formatNumberString groups the digits of v by thousands: 12586269025
// prints as "12,586,269,025".
func formatNumberString(v uint64) string {
	return numberPrinter.Sprintf("%d", v)
}

var numberPrinter = message.NewPrinter(language.English)
