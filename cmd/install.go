package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/semver"
)

var (
	flagInstallVersion string
	flagInstallPath    string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Initialize a version.json for this repository",
	Long: "Writes a starter version.json (and stages it for commit) so the repository\n" +
		"starts producing deterministic versions.",
	Args: cobra.NoArgs,
	RunE: installRunE,
}

func init() {
	installCmd.Flags().StringVar(&flagInstallVersion, "version", "1.0-beta", "initial version for the new version.json")
	installCmd.Flags().StringVar(&flagInstallPath, "path", "", "directory for version.json, relative to the repository root")
	rootCmd.AddCommand(installCmd)
}

func installRunE(_ *cobra.Command, _ []string) error {
	if _, err := semver.Parse(flagInstallVersion); err != nil {
		return errorkind.New(errorkind.VersionSpecFormat, err)
	}

	store, err := objectstore.Open(flagPath)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}
	if store.WorkDir() == "" {
		return fmt.Errorf("install requires a working tree")
	}

	doc := map[string]any{
		"$schema": "https://raw.githubusercontent.com/go-gitversioning/gitversioning/main/version.schema.json",
		"version": flagInstallVersion,
		"publicReleaseRefSpec": []string{
			`^refs/heads/main$`,
			`^refs/heads/v\d+(?:\.\d+)?$`,
		},
		"cloudBuild": map[string]any{
			"buildNumber": map[string]any{
				"enabled": false,
			},
		},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("rendering version.json: %w", err)
	}
	data = append(data, '\n')

	rel := filepath.ToSlash(filepath.Join(flagInstallPath, "version.json"))
	if err := store.StageFile(rel, data); err != nil {
		return err
	}

	fmt.Fprintf(buildCtx.Stdout, "created %s with version %s\n", rel, flagInstallVersion)
	return nil
}
