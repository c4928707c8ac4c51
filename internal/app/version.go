// Package app wires configuration, the exercise service and the presentation
// layers (CLI, REPL, HTTP server, self-checks) into the numex program.
package app

import (
	"fmt"
	"io"
	"runtime"
	"slices"
)

// Stamped at link time:
//
//	go build -ldflags "-X github.com/agbru/numex/internal/app.Version=v0.3.0 -X github.com/agbru/numex/internal/app.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var (
	versionFlags = []string{"-version", "--version", "-V"}
	jsonFlags    = []string{"-json", "--json"}
)

// HasVersionFlag reports whether args request the version. It runs before
// flag parsing, so the flag wins wherever it appears and whatever else is
// on the command line.
func HasVersionFlag(args []string) bool {
	return hasAnyFlag(args, versionFlags)
}

func hasAnyFlag(args, names []string) bool {
	return slices.ContainsFunc(args, func(arg string) bool {
		return slices.Contains(names, arg)
	})
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// CurrentBuild combines the link-time fields with the runtime platform.
func CurrentBuild() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// PrintVersion writes CurrentBuild to out, as JSON when args also hold -json.
func PrintVersion(out io.Writer, args []string) error {
	info := CurrentBuild()
	if hasAnyFlag(args, jsonFlags) {
		return writeJSON(out, info)
	}
	_, err := fmt.Fprintf(out, "numex %s\n  commit    %s\n  built     %s\n  go        %s\n  platform  %s\n",
		info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
	return err
}
