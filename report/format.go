package report

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
)

// Format is an output format for reports
type Format int

const (
	FormatUnknown Format = iota
	FormatText           // the classic calculator printout
	FormatJSON
	FormatYAML
)

// String returns the name of the Format
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat returns the format with the given name, case-insensitive.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatUnknown, fmt.Errorf("unknown output format %q (valid: %s)", name, strings.Join(Names(), ", "))
}

// DetectFormat picks the format from a file extension.
// Returns FormatUnknown if the extension is not recognized.
func DetectFormat(filename string) Format {
	ext := filepath.Ext(filename)
	if ext == "" {
		return FormatUnknown
	}
	f, err := ParseFormat(ext[1:])
	if err != nil {
		return FormatUnknown
	}
	return f
}

// Writer renders reports in one format.
type Writer func(w io.Writer, reports []Report) error

var writers = map[Format]Writer{}

// Register makes a writer available for a format
func Register(f Format, writer Writer) {
	writers[f] = writer
}

// Names lists the registered format names.
func Names() []string {
	var names []string
	for f := range writers {
		names = append(names, f.String())
	}
	slices.Sort(names)
	return names
}

// Write renders reports in the given format.
func Write(w io.Writer, f Format, reports ...Report) error {
	writer, ok := writers[f]
	if !ok {
		return fmt.Errorf("no writer for format %v", f)
	}
	return writer(w, reports)
}
