package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/capnp-import/errors"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// printFormatted writes v as JSON or YAML, or calls text for the plain format.
func printFormatted(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case "", formatText:
		return text(w)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errUtils.Build(fmt.Errorf("%w: %q", errUtils.ErrUnsupportedFormat, format)).
			WithHintf("Use one of %s, %s or %s", formatText, formatJSON, formatYAML).
			WithExitCode(errUtils.ExitCodeUsage).
			Err()
	}
}
