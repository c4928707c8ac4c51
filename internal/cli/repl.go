package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/numex/internal/dataset"
	"github.com/agbru/numex/internal/neutron"
	"github.com/agbru/numex/internal/service"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the Fibonacci strategy selected at startup.
	DefaultAlgo string
	// Timeout bounds every evaluation.
	Timeout time.Duration
}

// REPL is an interactive session evaluating exercises through a Service.
type REPL struct {
	config      REPLConfig
	svc         service.Service
	currentAlgo string
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a new REPL bound to svc. An empty or "all" default
// algorithm selects the first one the service lists.
func NewREPL(svc service.Service, config REPLConfig) *REPL {
	currentAlgo := config.DefaultAlgo
	if currentAlgo == "" || currentAlgo == "all" {
		if algos := svc.Algorithms(); len(algos) > 0 {
			currentAlgo = algos[0]
		}
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}

	return &REPL{
		config:      config,
		svc:         svc,
		currentAlgo: currentAlgo,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start runs the session until "exit", EOF or cancellation of ctx.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		if ctx.Err() != nil {
			fmt.Fprintf(r.out, "\n%sSession canceled.%s\n", ColorYellow(), ColorReset())
			return
		}
		fmt.Fprint(r.out, ColorGreen()+"numex> "+ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ColorRed(), err, ColorReset())
			continue
		}
		atEOF := errors.Is(err, io.EOF)

		input = strings.TrimSpace(input)
		if input != "" && !r.processCommand(ctx, input) {
			return
		}
		if atEOF {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sNumerical exercises - Interactive Mode%s               %s║%s\n",
		ColorCyan(), ColorReset(), ColorBold(), ColorReset(), ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ColorCyan(), ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  %sfib <n>%s                     - Calculate F(n) with the current algorithm\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %salgo <name>%s                 - Change algorithm (%s)\n", ColorYellow(), ColorReset(), r.getAlgoList())
	fmt.Fprintf(r.out, "  %scompare <n>%s                 - Compare all algorithms for F(n)\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %slist%s                        - List available algorithms\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sleap <year>%s                 - Test a Gregorian leap year\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %shist <edges> <data>%s         - Bin data into edges\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %schi2 <model> <meas> <err>%s   - Chi-squared of a model\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sfit <x> <y> <err>%s           - Weighted parabola fit\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %senergy <e> <tof> <l1> <l2> <mode>%s - Energy transfer\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s                      - Display current configuration\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s                        - Display this help\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s                 - Exit interactive mode\n", ColorYellow(), ColorReset(), ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "Lists are comma-separated, e.g. %s0,1,2.5%s.\n", ColorCyan(), ColorReset())
}

func (r *REPL) getAlgoList() string {
	return strings.Join(r.svc.Algorithms(), ", ")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "fib", "calc", "c":
		r.cmdFib(ctx, args)
	case "algo", "a":
		r.cmdAlgo(args)
	case "compare", "cmp":
		r.cmdCompare(ctx, args)
	case "list", "ls":
		r.cmdList()
	case "leap":
		r.cmdLeap(ctx, args)
	case "hist":
		r.cmdHistogram(ctx, args)
	case "chi2":
		r.cmdChiSquared(ctx, args)
	case "fit":
		r.cmdFit(ctx, args)
	case "energy":
		r.cmdEnergy(ctx, args)
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ColorGreen(), ColorReset())
		return false
	default:
		// A bare number is a shortcut for "fib <n>".
		if n, err := strconv.ParseUint(cmd, 10, 64); err == nil {
			r.fibonacci(ctx, n)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ColorRed(), cmd, ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ColorYellow(), ColorReset())
		}
	}

	return true
}

func (r *REPL) usage(format string) {
	fmt.Fprintf(r.out, "%sUsage: %s%s\n", ColorRed(), format, ColorReset())
}

func (r *REPL) fail(err error) {
	fmt.Fprintf(r.out, "%sError: %v%s\n", ColorRed(), err, ColorReset())
}

func (r *REPL) parseIndex(arg string) (uint64, bool) {
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ColorRed(), arg, ColorReset())
		return 0, false
	}
	return n, true
}

// parseLists parses each argument as a comma-separated list of floats.
func (r *REPL) parseLists(args []string) ([][]float64, bool) {
	lists := make([][]float64, len(args))
	for i, arg := range args {
		values, err := dataset.ParseFloatList(arg)
		if err != nil {
			r.fail(err)
			return nil, false
		}
		lists[i] = values
	}
	return lists, true
}

func (r *REPL) cmdFib(ctx context.Context, args []string) {
	if len(args) != 1 {
		r.usage("fib <n>")
		return
	}
	if n, ok := r.parseIndex(args[0]); ok {
		r.fibonacci(ctx, n)
	}
}

func (r *REPL) fibonacci(ctx context.Context, n uint64) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	start := time.Now()
	value, err := r.svc.Fibonacci(ctx, r.currentAlgo, n)
	if err != nil {
		r.fail(err)
		return
	}
	DisplayFibonacci(r.out, FibonacciResult{N: n, Value: value, Algorithm: r.currentAlgo, Duration: time.Since(start)})
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		r.usage("algo <name>")
		fmt.Fprintf(r.out, "Available algorithms: %s\n", r.getAlgoList())
		return
	}

	name := strings.ToLower(args[0])
	for _, algo := range r.svc.Algorithms() {
		if algo == name {
			r.currentAlgo = name
			fmt.Fprintf(r.out, "Algorithm changed to: %s%s%s\n", ColorGreen(), name, ColorReset())
			return
		}
	}
	fmt.Fprintf(r.out, "%sUnknown algorithm: %s%s\n", ColorRed(), name, ColorReset())
	fmt.Fprintf(r.out, "Available algorithms: %s\n", r.getAlgoList())
}

func (r *REPL) cmdCompare(ctx context.Context, args []string) {
	if len(args) != 1 {
		r.usage("compare <n>")
		return
	}
	n, ok := r.parseIndex(args[0])
	if !ok {
		return
	}

	fmt.Fprintf(r.out, "\n%sComparison for F(%d):%s\n", ColorBold(), n, ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ColorCyan(), ColorReset())

	var first uint64
	haveFirst := false
	for _, name := range r.svc.Algorithms() {
		callCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
		start := time.Now()
		value, err := r.svc.Fibonacci(callCtx, name, n)
		duration := time.Since(start)
		cancel()

		if err != nil {
			fmt.Fprintf(r.out, "  %s%-12s%s: %sError - %v%s\n",
				ColorYellow(), name, ColorReset(), ColorRed(), err, ColorReset())
			continue
		}
		if !haveFirst {
			first, haveFirst = value, true
		}

		status := ColorGreen() + "✓" + ColorReset()
		if value != first {
			status = ColorRed() + "✗ INCONSISTENT" + ColorReset()
		}
		fmt.Fprintf(r.out, "  %s%-12s%s: %s%12s%s %s\n",
			ColorYellow(), name, ColorReset(),
			ColorCyan(), FormatExecutionDuration(duration), ColorReset(),
			status)
	}

	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ColorCyan(), ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable algorithms:%s\n", ColorBold(), ColorReset())
	for _, name := range r.svc.Algorithms() {
		marker := "  "
		if name == r.currentAlgo {
			marker = ColorGreen() + "► " + ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%s%s\n", marker, ColorYellow(), name, ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdLeap(ctx context.Context, args []string) {
	if len(args) != 1 {
		r.usage("leap <year>")
		return
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid year: %s%s\n", ColorRed(), args[0], ColorReset())
		return
	}
	leap, err := r.svc.LeapYear(ctx, year)
	if err != nil {
		r.fail(err)
		return
	}
	DisplayLeapYear(r.out, LeapYearResult{Year: year, Leap: leap})
}

func (r *REPL) cmdHistogram(ctx context.Context, args []string) {
	if len(args) != 2 {
		r.usage("hist <edges> <data>")
		return
	}
	lists, ok := r.parseLists(args)
	if !ok {
		return
	}
	edges, data := lists[0], lists[1]
	counts, err := r.svc.Histogram(ctx, data, edges)
	if err != nil {
		r.fail(err)
		return
	}
	DisplayHistogram(r.out, HistogramResult{Counts: counts, Edges: edges})
}

func (r *REPL) cmdChiSquared(ctx context.Context, args []string) {
	if len(args) != 3 {
		r.usage("chi2 <model> <meas> <errors>")
		return
	}
	lists, ok := r.parseLists(args)
	if !ok {
		return
	}
	chi2, err := r.svc.ChiSquared(ctx, lists[0], lists[1], lists[2])
	if err != nil {
		r.fail(err)
		return
	}
	DisplayChiSquared(r.out, ChiSquaredResult{Value: chi2, Points: len(lists[0])})
}

func (r *REPL) cmdFit(ctx context.Context, args []string) {
	if len(args) != 3 {
		r.usage("fit <x> <y> <errors>")
		return
	}
	lists, ok := r.parseLists(args)
	if !ok {
		return
	}
	x, y, errs := lists[0], lists[1], lists[2]
	p, err := r.svc.FitParabola(ctx, x, y, errs, []float64{0, 0, 0})
	if err != nil {
		r.fail(err)
		return
	}
	chi2, err := r.svc.ChiSquared(ctx, p.Predict(x), y, errs)
	if err != nil {
		r.fail(err)
		return
	}
	DisplayParabola(r.out, ParabolaResult{Fit: p, ChiSquared: chi2})
}

func (r *REPL) cmdEnergy(ctx context.Context, args []string) {
	if len(args) != 5 {
		r.usage("energy <ei_or_ef> <tof> <l1> <l2> <direct|indirect>")
		return
	}
	values := make([]float64, 4)
	for i, arg := range args[:4] {
		v, err := dataset.ParseFloat(arg)
		if err != nil {
			r.fail(err)
			return
		}
		values[i] = v
	}
	mode, err := neutron.ParseMode(args[4])
	if err != nil {
		r.fail(err)
		return
	}
	e, err := r.svc.EnergyTransfer(ctx, values[0], values[1], values[2], values[3], mode)
	if err != nil {
		r.fail(err)
		return
	}
	DisplayEnergyTransfer(r.out, EnergyTransferResult{Mode: mode, Value: e})
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  Algorithm:      %s%s%s\n", ColorCyan(), r.currentAlgo, ColorReset())
	fmt.Fprintf(r.out, "  Timeout:        %s%s%s\n", ColorCyan(), r.config.Timeout, ColorReset())
	fmt.Fprintln(r.out)
}
