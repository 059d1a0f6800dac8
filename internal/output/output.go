// Package output renders a VersionArtifacts set as the oracle's text,
// JSON, or single-variable CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/oracle"
)

// WriteText writes every artifact variable as sorted key=value lines.
func WriteText(w io.Writer, artifacts oracle.VersionArtifacts) error {
	vars := artifacts.Variables()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s=%s\n", k, vars[k]); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the full artifact set as pretty-printed JSON.
func WriteJSON(w io.Writer, artifacts oracle.VersionArtifacts) error {
	data, err := json.MarshalIndent(artifacts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling artifacts to JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON output: %w", err)
	}
	_, err = w.Write([]byte("\n"))
	return err
}

// WriteVariable writes a single named variable's value, or an
// UnknownVariable error if name isn't one of the names
// VersionArtifacts.Variables returns.
func WriteVariable(w io.Writer, artifacts oracle.VersionArtifacts, name string) error {
	val, ok := artifacts.Variables()[name]
	if !ok {
		return errorkind.New(errorkind.UnknownVariable, fmt.Errorf("unknown variable %q", name))
	}
	_, err := fmt.Fprintln(w, val)
	return err
}
