package report

import (
	"encoding/json"
	"io"
)

func init() {
	Register(FormatJSON, writeJSON)
}

// writeJSON prints a single report as an object and several as an array.
func writeJSON(w io.Writer, reports []Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	return enc.Encode(reports)
}
