package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/go-gitversioning/gitversioning/internal/cloudbuild"
	"github.com/go-gitversioning/gitversioning/internal/emitter"
	"github.com/go-gitversioning/gitversioning/internal/oracle"
	"github.com/go-gitversioning/gitversioning/internal/output"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
	"github.com/go-gitversioning/gitversioning/internal/versionnumber"
)

var (
	flagMetadata []string
	flagVariable string
	flagFormat   string
	flagEmitLang string
	flagEmitPath string
)

var getVersionCmd = &cobra.Command{
	Use:   "get-version [committish]",
	Short: "Compute the full version artifact set for a commit",
	Long: "Computes every version artifact (assembly version, package versions, build\n" +
		"number, commit id encodings, public-release flag) for the named committish,\n" +
		"defaulting to HEAD.",
	Args: cobra.MaximumNArgs(1),
	RunE: getVersionRunE,
}

func init() {
	getVersionCmd.Flags().StringSliceVar(&flagMetadata, "metadata", nil, "additional identifiers for the build metadata segment")
	getVersionCmd.Flags().StringVar(&flagVariable, "variable", "", "print a single named variable instead of the full set")
	getVersionCmd.Flags().StringVar(&flagFormat, "format", "text", "output format: text or json")
	getVersionCmd.Flags().StringVar(&flagEmitLang, "emit-lang", "", "emit the artifacts as generated source instead: go, json, or yaml")
	getVersionCmd.Flags().StringVar(&flagEmitPath, "emit-path", "", "file to write the emitted source to (default stdout)")
	rootCmd.AddCommand(getVersionCmd)
}

func getVersionRunE(_ *cobra.Command, args []string) error {
	committish := ""
	if len(args) > 0 {
		committish = args[0]
	}

	// A recognized cloud provider's ref wins over HEAD's own name when
	// deciding public-release status.
	provider := cloudbuild.Detect(buildCtx.Env)
	var cloudRef *oracle.CloudBuildRef
	if ref := provider.BuildingRef(buildCtx.Env); ref != "" {
		cloudRef = &oracle.CloudBuildRef{Ref: ref}
	}

	artifacts, err := oracle.Create(oracle.CreateParams{
		RepoPath:     flagPath,
		Subdirectory: flagProject,
		Committish:   committish,
		Metadata:     flagMetadata,
		CloudBuild:   cloudRef,
	})
	if err != nil {
		return err
	}

	if artifacts.BuildNumber >= versionnumber.BuildCeiling {
		fmt.Fprintf(buildCtx.Stderr, "warning: version height %d clamps at the %d build-number ceiling\n",
			artifacts.BuildNumber, versionnumber.BuildCeiling)
	}

	if err := emitCloudCommands(provider, artifacts); err != nil {
		return err
	}

	if flagEmitLang != "" {
		return emitArtifacts(artifacts)
	}

	if flagVariable != "" {
		return output.WriteVariable(buildCtx.Stdout, artifacts, flagVariable)
	}
	switch flagFormat {
	case "json":
		return output.WriteJSON(buildCtx.Stdout, artifacts)
	case "", "text":
		return output.WriteText(buildCtx.Stdout, artifacts)
	default:
		return fmt.Errorf("unknown output format %q", flagFormat)
	}
}

// emitArtifacts renders the artifact set as generated source in the
// requested language, to --emit-path or stdout.
func emitArtifacts(artifacts oracle.VersionArtifacts) error {
	data, err := emitter.Emit(artifacts, emitter.Language(flagEmitLang))
	if err != nil {
		return err
	}
	if flagEmitPath != "" {
		if err := os.WriteFile(flagEmitPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", flagEmitPath, err)
		}
		fmt.Fprintf(buildCtx.Stdout, "wrote %s\n", flagEmitPath)
		return nil
	}
	_, err = buildCtx.Stdout.Write(data)
	return err
}

// emitCloudCommands writes the provider's logger command lines when a
// cloud CI system is detected and the configuration opts in to build
// number or variable injection.
func emitCloudCommands(provider cloudbuild.Provider, artifacts oracle.VersionArtifacts) error {
	if provider == cloudbuild.None {
		return nil
	}
	opts, _, err := versionfile.Discover(projectDir())
	if err != nil || opts == nil {
		return nil
	}

	if artifacts.CloudBuildNumber != "" {
		if err := provider.EmitBuildNumber(buildCtx.Stdout, artifacts.CloudBuildNumber); err != nil {
			return err
		}
	}

	if opts.CloudBuild == nil || opts.CloudBuild.SetVersionVariables == nil || !*opts.CloudBuild.SetVersionVariables {
		return nil
	}
	vars := artifacts.Variables()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := provider.EmitVariable(buildCtx.Stdout, "GitVersioning_"+name, vars[name]); err != nil {
			return err
		}
	}
	return nil
}
