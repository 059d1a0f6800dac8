// Package cloudbuild detects which cloud CI provider a build is running
// under from its environment variables and emits that provider's
// log-command syntax for setting a build number and exposing variables.
// Provider selection is a plain switch, never a type hierarchy: each
// provider needs only a handful of env-var lookups and a couple of
// printf-shaped emit lines.
package cloudbuild

import (
	"fmt"
	"io"
)

// Provider names a cloud CI system.
type Provider string

const (
	AppVeyor       Provider = "AppVeyor"
	AzurePipelines Provider = "AzurePipelines"
	GitHubActions  Provider = "GitHubActions"
	GitLabCI       Provider = "GitLabCI"
	TeamCity       Provider = "TeamCity"
	None           Provider = "None"
)

// Detect inspects env for the marker variables each CI provider sets and
// returns the first match. Order matters only when two providers somehow
// set overlapping markers in a nested build, which does not happen in
// practice.
func Detect(env map[string]string) Provider {
	switch {
	case env["APPVEYOR"] != "":
		return AppVeyor
	case env["TF_BUILD"] != "":
		return AzurePipelines
	case env["GITHUB_ACTIONS"] != "":
		return GitHubActions
	case env["GITLAB_CI"] != "":
		return GitLabCI
	case env["TEAMCITY_VERSION"] != "":
		return TeamCity
	default:
		return None
	}
}

// BuildingRef returns the ref the provider believes it is building, or ""
// if the provider is None or doesn't expose one.
func (p Provider) BuildingRef(env map[string]string) string {
	switch p {
	case AppVeyor:
		return env["APPVEYOR_REPO_BRANCH"]
	case AzurePipelines:
		return env["BUILD_SOURCEBRANCH"]
	case GitHubActions:
		return env["GITHUB_REF"]
	case GitLabCI:
		return env["CI_COMMIT_REF_NAME"]
	case TeamCity:
		return env["BUILD_VCS_BRANCH"]
	default:
		return ""
	}
}

// EmitBuildNumber writes the provider-specific log command that sets the
// CI build number to number.
func (p Provider) EmitBuildNumber(w io.Writer, number string) error {
	var line string
	switch p {
	case AppVeyor:
		line = fmt.Sprintf("Update-AppveyorBuild -Version \"%s\"\n", number)
	case AzurePipelines:
		line = fmt.Sprintf("##vso[build.updatebuildnumber]%s\n", number)
	case GitHubActions:
		return nil // GitHub Actions has no build-number concept; see EmitVariable.
	case GitLabCI:
		return nil // GitLab CI has no build-number concept.
	case TeamCity:
		line = fmt.Sprintf("##teamcity[buildNumber '%s']\n", number)
	default:
		return nil
	}
	_, err := io.WriteString(w, line)
	return err
}

// EmitVariable writes the provider-specific log command that exposes a
// named key/value pair as a build variable.
func (p Provider) EmitVariable(w io.Writer, key, value string) error {
	var line string
	switch p {
	case AppVeyor:
		line = fmt.Sprintf("Set-AppveyorBuildVariable -Name \"%s\" -Value \"%s\"\n", key, value)
	case AzurePipelines:
		line = fmt.Sprintf("##vso[task.setvariable variable=%s]%s\n", key, value)
	case GitHubActions:
		line = fmt.Sprintf("%s=%s\n", key, value)
	case GitLabCI:
		line = fmt.Sprintf("%s=%s\n", key, value)
	case TeamCity:
		line = fmt.Sprintf("##teamcity[setParameter name='%s' value='%s']\n", key, value)
	default:
		return nil
	}
	_, err := io.WriteString(w, line)
	return err
}
