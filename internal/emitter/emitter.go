// Package emitter renders a VersionArtifacts set into source-level or
// structured-data form for consumers that want version information baked
// into a build rather than queried at runtime — the
// Go-native replacement for the original tool's per-language AssemblyInfo
// generation.
package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/go-gitversioning/gitversioning/internal/oracle"
)

// Language selects the emitted representation.
type Language string

const (
	LanguageGo   Language = "go"
	LanguageJSON Language = "json"
	LanguageYAML Language = "yaml"
)

// Emit renders artifacts in the given language.
func Emit(artifacts oracle.VersionArtifacts, lang Language) ([]byte, error) {
	switch lang {
	case LanguageGo:
		return emitGo(artifacts)
	case LanguageJSON:
		return json.MarshalIndent(artifacts, "", "  ")
	case LanguageYAML:
		return yaml.Marshal(artifacts)
	default:
		return nil, fmt.Errorf("unsupported emitter language %q", lang)
	}
}

var goTemplate = template.Must(template.New("go").Parse(`// Code generated by gitversioning. DO NOT EDIT.
package version

const (
{{- range .}}
	{{.Name}} = {{.Value}}
{{- end}}
)
`))

type goConst struct {
	Name  string
	Value string
}

func emitGo(artifacts oracle.VersionArtifacts) ([]byte, error) {
	vars := artifacts.Variables()
	// Emitted with their native Go types below, not as quoted strings.
	delete(vars, "GitVersionHeight")
	delete(vars, "PublicRelease")

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	consts := make([]goConst, 0, len(names)+2)
	for _, name := range names {
		consts = append(consts, goConst{Name: name, Value: fmt.Sprintf("%q", vars[name])})
	}
	consts = append(consts,
		goConst{Name: "GitVersionHeight", Value: fmt.Sprintf("%d", artifacts.GitVersionHeight)},
		goConst{Name: "PublicRelease", Value: fmt.Sprintf("%t", artifacts.PublicRelease)},
	)

	var buf bytes.Buffer
	if err := goTemplate.Execute(&buf, consts); err != nil {
		return nil, fmt.Errorf("rendering go source: %w", err)
	}
	return buf.Bytes(), nil
}
