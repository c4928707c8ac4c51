// Package testutil holds helpers shared by the package tests.
package testutil

import "regexp"

// csi matches ANSI control sequences such as the SGR color codes the themes
// emit ("\x1b[1;32m") and the cursor controls of the spinner ("\x1b[K").
var csi = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// StripAnsiCodes returns s without ANSI control sequences, so assertions can
// match rendered output whatever theme is active.
func StripAnsiCodes(s string) string {
	return csi.ReplaceAllString(s, "")
}
