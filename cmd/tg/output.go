package main

import (
	"fmt"
	"io"
	"os"

	"github.com/stokewood/triage/internal/resolve"
	"github.com/stokewood/triage/internal/ui"
)

// fail reports a handled error and keeps the process exit status zero.
// Only configuration failures abort the process with a non-zero status.
func fail(err error) error {
	fmt.Fprintln(os.Stderr, ui.Error(fmt.Sprintf("Error: %v", err)))
	return nil
}

// printProjectCandidates renders the disambiguation list of an
// ambiguous project search.
func printProjectCandidates(w io.Writer, candidates []resolve.Candidate) {
	fmt.Fprintln(w, ui.Info("Projects by name found:"))
	for _, c := range candidates {
		fmt.Fprintf(w, "* ID: %d - Name: %s - %s\n", c.ID, c.Name, c.FullName)
	}
	fmt.Fprintln(w, ui.Info(`Select a project ID and use it as the "project_id" option or config value`))
}
