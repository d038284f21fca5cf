package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// printOutput renders v on stdout in the format selected by --output.
func printOutput(v any) error {
	return writeOutput(os.Stdout, outputFormat, v)
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (use json or yaml)", format)
	}
}
