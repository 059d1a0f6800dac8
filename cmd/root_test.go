package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
)

func TestRootCmd_HasExpectedFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	require.NotNil(t, flags.Lookup("path"))
	require.NotNil(t, flags.Lookup("project"))
}

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	want := []string{
		"get-version",
		"set-version",
		"install",
		"get-commits",
		"tag",
		"prepare-release",
		"version",
	}

	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range want {
		require.True(t, names[name], "%s subcommand should be registered", name)
	}
}

func TestExitCodeFor_StableCodes(t *testing.T) {
	cases := []struct {
		kind errorkind.Kind
		code int
	}{
		{errorkind.GitObjectNotFound, 3},
		{errorkind.ShallowClone, 6},
		{errorkind.ConfigMissing, 9},
		{errorkind.TagConflict, 10},
		{errorkind.UnknownVariable, 11},
		{errorkind.VersionSpecFormat, 2},
	}
	for _, tc := range cases {
		err := errorkind.New(tc.kind, fmt.Errorf("boom"))
		require.Equal(t, tc.code, exitCodeFor(err), "kind %s", tc.kind)
	}
}

func TestExitCodeFor_UnclassifiedErrorIsOne(t *testing.T) {
	require.Equal(t, 1, exitCodeFor(errors.New("plain failure")))
}
