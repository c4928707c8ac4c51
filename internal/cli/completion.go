package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/numex/pkg/models"
)

// completionFlag describes one command-line flag for the completion scripts.
// Values lists the candidate arguments; "@file" completes file names and an
// empty Values with Arg set accepts free input.
type completionFlag struct {
	Name   string
	Short  string
	Desc   string
	Arg    bool
	Values []string
}

// Shells lists the shells GenerateCompletion supports.
var Shells = []string{"bash", "zsh", "fish"}

func completionFlags(algorithms []string) []completionFlag {
	exercises := make([]string, 0, len(models.Exercises()))
	for _, e := range models.Exercises() {
		exercises = append(exercises, string(e))
	}
	return []completionFlag{
		{Name: "help", Short: "h", Desc: "Show help message"},
		{Name: "version", Short: "V", Desc: "Show version information"},
		{Name: "exercise", Short: "e", Desc: "Exercise to evaluate", Arg: true, Values: exercises},
		{Name: "algo", Desc: "Fibonacci algorithm", Arg: true, Values: append(append([]string{}, algorithms...), "all")},
		{Name: "n", Desc: "Fibonacci index", Arg: true},
		{Name: "year", Desc: "Year to test", Arg: true},
		{Name: "data", Desc: "Samples to bin", Arg: true},
		{Name: "edges", Desc: "Histogram bin edges", Arg: true},
		{Name: "bins", Desc: "Number of uniform bins", Arg: true},
		{Name: "range", Desc: "Range of uniform bins", Arg: true},
		{Name: "model", Desc: "Model predictions", Arg: true},
		{Name: "meas", Desc: "Measured values", Arg: true},
		{Name: "errors", Desc: "Measurement uncertainties", Arg: true},
		{Name: "x", Desc: "Abscissae to fit", Arg: true},
		{Name: "y", Desc: "Ordinates to fit", Arg: true},
		{Name: "start", Desc: "Starting parameters", Arg: true},
		{Name: "ei", Desc: "Incident or final energy in joules", Arg: true},
		{Name: "tof", Desc: "Time of flight in seconds", Arg: true},
		{Name: "l1", Desc: "Primary flight path in meters", Arg: true},
		{Name: "l2", Desc: "Secondary flight path in meters", Arg: true},
		{Name: "mode", Desc: "Spectrometer geometry", Arg: true, Values: []string{"direct", "indirect"}},
		{Name: "input", Short: "i", Desc: "YAML or JSON dataset", Arg: true, Values: []string{"@file"}},
		{Name: "timeout", Desc: "Maximum execution time", Arg: true, Values: []string{"10s", "1m", "5m"}},
		{Name: "max-n", Desc: "Largest Fibonacci index accepted", Arg: true},
		{Name: "log-level", Desc: "Log level", Arg: true, Values: []string{"debug", "info", "warn", "error"}},
		{Name: "json", Desc: "Output in JSON format"},
		{Name: "quiet", Short: "q", Desc: "Quiet mode for scripts"},
		{Name: "no-color", Desc: "Disable colored output"},
		{Name: "server", Desc: "Start HTTP server mode"},
		{Name: "port", Desc: "Server port", Arg: true, Values: []string{"8080", "3000", "9000"}},
		{Name: "interactive", Desc: "Start interactive REPL mode"},
		{Name: "check", Desc: "Run the built-in self-checks"},
		{Name: "completion", Desc: "Generate completion script", Arg: true, Values: Shells},
	}
}

// GenerateCompletion writes a completion script for shell to out.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: One of Shells.
//   - algorithms: The registered Fibonacci algorithm names.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	flags := completionFlags(algorithms)
	switch strings.ToLower(shell) {
	case "bash":
		return generateBashCompletion(out, flags)
	case "zsh":
		return generateZshCompletion(out, flags)
	case "fish":
		return generateFishCompletion(out, flags)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(Shells, ", "))
	}
}

func generateBashCompletion(out io.Writer, flags []completionFlag) error {
	var b strings.Builder
	b.WriteString("# Bash completion script for numex\n")
	b.WriteString("# Add this to ~/.bashrc: source <(numex -completion bash)\n\n")
	b.WriteString("_numex_completions() {\n")
	b.WriteString("    local cur prev opts\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")

	opts := make([]string, 0, 2*len(flags))
	for _, f := range flags {
		opts = append(opts, "-"+f.Name)
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}
	fmt.Fprintf(&b, "    opts=%q\n\n", strings.Join(opts, " "))

	b.WriteString("    case \"${prev}\" in\n")
	for _, f := range flags {
		if len(f.Values) == 0 {
			continue
		}
		pattern := "-" + f.Name
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		fmt.Fprintf(&b, "        %s)\n", pattern)
		if f.Values[0] == "@file" {
			b.WriteString("            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n")
		} else {
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(f.Values, " "))
		}
		b.WriteString("            return 0\n            ;;\n")
	}
	b.WriteString("    esac\n\n")
	b.WriteString("    if [[ ${cur} == -* ]]; then\n")
	b.WriteString("        COMPREPLY=( $(compgen -W \"${opts}\" -- \"${cur}\") )\n")
	b.WriteString("    fi\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _numex_completions numex\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func generateZshCompletion(out io.Writer, flags []completionFlag) error {
	var b strings.Builder
	b.WriteString("#compdef numex\n\n")
	b.WriteString("# Zsh completion script for numex\n\n")
	b.WriteString("_numex() {\n")
	b.WriteString("    _arguments -s \\\n")
	for i, f := range flags {
		entry := "'-" + f.Name
		if f.Short != "" {
			entry = fmt.Sprintf("'(-%s -%s)'{-%s,-%s}'", f.Short, f.Name, f.Short, f.Name)
		}
		entry += "[" + f.Desc + "]"
		switch {
		case len(f.Values) > 0 && f.Values[0] == "@file":
			entry += ":file:_files"
		case len(f.Values) > 0:
			entry += ":" + f.Name + ":(" + strings.Join(f.Values, " ") + ")"
		case f.Arg:
			entry += ":" + f.Name + ": "
		}
		entry += "'"
		if i < len(flags)-1 {
			entry += " \\"
		}
		fmt.Fprintf(&b, "        %s\n", entry)
	}
	b.WriteString("}\n\n_numex \"$@\"\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func generateFishCompletion(out io.Writer, flags []completionFlag) error {
	var b strings.Builder
	b.WriteString("# Fish completion script for numex\n")
	b.WriteString("# Add this to ~/.config/fish/completions/numex.fish\n\n")
	b.WriteString("complete -c numex -f\n")
	for _, f := range flags {
		// The flag package accepts single-dash long names, which fish calls
		// old-style options.
		line := "complete -c numex -o " + f.Name
		if f.Short != "" {
			line += " -o " + f.Short
		}
		line += " -d '" + f.Desc + "'"
		switch {
		case len(f.Values) > 0 && f.Values[0] == "@file":
			line += " -rF"
		case len(f.Values) > 0:
			line += " -xa '" + strings.Join(f.Values, " ") + "'"
		case f.Arg:
			line += " -x"
		}
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(out, b.String())
	return err
}
