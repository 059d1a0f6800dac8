package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/semver"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
)

var setVersionCmd = &cobra.Command{
	Use:   "set-version <version>",
	Short: "Update the version field of the effective version.json",
	Long: "Rewrites the version field of the nearest version.json (creating one when\n" +
		"none exists) and stages the change for commit. Every other field of the\n" +
		"document is left untouched.",
	Args: cobra.ExactArgs(1),
	RunE: setVersionRunE,
}

func init() {
	rootCmd.AddCommand(setVersionCmd)
}

func setVersionRunE(_ *cobra.Command, args []string) error {
	if _, err := semver.Parse(args[0]); err != nil {
		return errorkind.New(errorkind.VersionSpecFormat, err)
	}

	store, err := objectstore.Open(flagPath)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}
	if store.WorkDir() == "" {
		return fmt.Errorf("set-version requires a working tree")
	}

	_, existing, err := versionfile.Discover(projectDir())
	if err != nil {
		return err
	}

	target := existing
	switch {
	case target == "":
		target = filepath.Join(projectDir(), "version.json")
	case strings.HasSuffix(target, "version.txt"):
		// Migrate the legacy document to version.json in place.
		target = filepath.Join(filepath.Dir(target), "version.json")
	}

	content, err := updatedVersionJSON(existing, args[0])
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(store.WorkDir(), target)
	if err != nil {
		return fmt.Errorf("resolving %s relative to the working tree: %w", target, err)
	}
	rel = filepath.ToSlash(rel)
	if err := store.StageFile(rel, content); err != nil {
		return err
	}

	fmt.Fprintf(buildCtx.Stdout, "%s now specifies version %s\n", rel, args[0])
	return nil
}

// updatedVersionJSON rewrites only the version field, round-tripping the
// existing document through a generic map so fields this tool doesn't
// model survive unchanged.
func updatedVersionJSON(existingPath, version string) ([]byte, error) {
	doc := map[string]any{}
	if existingPath != "" && strings.HasSuffix(existingPath, "version.json") {
		data, err := os.ReadFile(existingPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", existingPath, err)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errorkind.New(errorkind.ConfigFormat, fmt.Errorf("parsing %s: %w", existingPath, err))
		}
	}
	doc["version"] = version

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering version.json: %w", err)
	}
	return append(out, '\n'), nil
}
