package versionfile

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema is the authoritative JSON schema for version.json,
// kept in sync with the documented version.json format.
const documentSchema = `
{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "$schema": { "type": "string" },
    "inherit": { "type": "boolean" },
    "version": {
      "type": "string",
      "pattern": "^\\d+(\\.\\d+){1,3}(-[0-9A-Za-z\\-\\.{}]+)?(\\+[0-9A-Za-z\\-\\.{}]+)?$"
    },
    "assemblyVersion": {
      "oneOf": [
        { "type": "string" },
        {
          "type": "object",
          "properties": {
            "version": { "type": "string" },
            "precision": { "enum": ["Major", "Minor", "Build", "Revision"] }
          }
        }
      ]
    },
    "buildNumberOffset": { "type": "integer" },
    "semVer1NumericIdentifierPadding": { "type": "integer", "minimum": 1 },
    "gitCommitIdShortFixedLength": { "type": "integer", "minimum": 1 },
    "gitCommitIdShortAutoMinimum": { "type": "integer", "minimum": 0 },
    "publicReleaseRefSpec": { "type": "array", "items": { "type": "string" } },
    "nuGetPackageVersion": {
      "type": "object",
      "properties": { "semVer": { "enum": [1, 2] } }
    },
    "pathFilters": { "type": "array", "items": { "type": "string" } },
    "cloudBuild": {
      "type": "object",
      "properties": {
        "setVersionVariables": { "type": "boolean" },
        "buildNumber": {
          "type": "object",
          "properties": {
            "enabled": { "type": "boolean" },
            "includeCommitId": {
              "type": "object",
              "properties": {
                "when": { "enum": ["Always", "NonPublicReleaseOnly", "Never"] },
                "where": { "enum": ["BuildMetadata", "FourthVersionComponent"] }
              }
            }
          }
        }
      }
    },
    "release": {
      "type": "object",
      "properties": {
        "branchName": { "type": "string" },
        "versionIncrement": { "enum": ["Major", "Minor", "Build"] },
        "firstUnstableTag": { "type": "string" },
        "versionFieldCount": { "enum": [1, 2, 3] }
      }
    }
  }
}
`

var compiledSchema *gojsonschema.Schema

func schema() (*gojsonschema.Schema, error) {
	if compiledSchema != nil {
		return compiledSchema, nil
	}
	loader := gojsonschema.NewStringLoader(documentSchema)
	s, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("compiling version.json schema: %w", err)
	}
	compiledSchema = s
	return s, nil
}

// validateAgainstSchema checks raw version.json bytes against
// documentSchema, collecting every violation into a single error.
func validateAgainstSchema(data []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validating version.json: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("version.json failed schema validation:\n%s", strings.Join(msgs, "\n"))
}
