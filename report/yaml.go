package report

import (
	"io"

	"gopkg.in/yaml.v3"
)

func init() {
	Register(FormatYAML, writeYAML)
}

// writeYAML prints a single report as a mapping and several as a sequence.
func writeYAML(w io.Writer, reports []Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	var err error
	if len(reports) == 1 {
		err = enc.Encode(reports[0])
	} else {
		err = enc.Encode(reports)
	}
	if err != nil {
		return err
	}
	return enc.Close()
}
