package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/numex/internal/ui"
)

// setCustomUsage configures the flag set with a colored usage function.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		// Respect NO_COLOR even before app initialization
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}

		out := fs.Output()

		fmt.Fprintf(out, "\n%snumex%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Scientific-computing exercises: Fibonacci, leap years, histograms,\n")
		fmt.Fprintf(out, "chi-squared, weighted parabola fits and neutron energy transfer.\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags]\n\n%sFlags:%s\n", t.Warning, t.Reset, fs.Name(), t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			flagSig := fmt.Sprintf("-%s", f.Name)
			if len(name) > 0 {
				flagSig += " " + name
			}

			fmt.Fprintf(out, "  %s%-25s%s %s", t.Primary, flagSig, t.Reset, usage)

			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintf(out, "\n%sEnvironment:%s\n  Every flag can be set as %sNAME (e.g. %sEXERCISE=histogram, %sEDGES=0,1,2).\n\n",
			t.Warning, t.Reset, EnvPrefix, EnvPrefix, EnvPrefix)
	}
}
