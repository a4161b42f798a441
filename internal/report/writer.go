package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/tadasu/pkg/utils"
)

// OutputFormat is the format for run output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const maxMessageWidth = 200

// WriteRun writes a run report to w in the given format.
func WriteRun(w io.Writer, run *Run, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	default:
		writeRunText(w, run)
		return nil
	}
}

func writeRunText(w io.Writer, run *Run) {
	elapsed := run.FinishedAt.Sub(run.StartedAt)
	fmt.Fprintf(w, "\nValidation of %s: %s (%dms, %d findings)\n\n",
		run.Root, run.Status, elapsed.Milliseconds(), len(run.Findings))
	for _, f := range run.Findings {
		location := f.File
		if location == "" {
			location = f.Folder
		}
		if location != "" {
			fmt.Fprintf(w, "  [%s] %s: %s\n", f.Level, location, utils.Truncate(f.Message, maxMessageWidth))
		} else {
			fmt.Fprintf(w, "  [%s] %s\n", f.Level, utils.Truncate(f.Message, maxMessageWidth))
		}
	}
	if run.Failed() {
		fmt.Fprintf(w, "\nFAILED: %s\n", run.Message)
	}
}
