// Package codegen manages user-supplied formula executor source: skeleton
// generation from a manifest, and a small on-disk store with a syntax gate.
package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/vk/flowsheet/internal/config"
)

// executorTemplate is the skeleton handed to someone implementing a custom
// formula. It compiles as-is and echoes its inputs until the body is filled
// in.
const executorTemplate = `package custom

import (
	"github.com/vk/flowsheet/internal/formula"
	"github.com/vk/flowsheet/internal/tabular"
)

// {{.TypeName}} implements {{.Name}}: {{.Description}}
type {{.TypeName}} struct{}

func ({{.TypeName}}) ValidateParams(params formula.Params) error {
{{- range .RequiredParams}}
	if !params.Has({{printf "%q" .}}) {
		return &formula.ValidationError{Formula: {{printf "%q" $.Name}}, Param: {{printf "%q" .}}, Reason: "missing required parameter"}
	}
{{- end}}
	return nil
}

func ({{.TypeName}}) OutputColumns(params formula.Params) []string {
	return []string{ {{printf "%q" .ResultColumn}} }
}

func ({{.TypeName}}) Execute(rows []tabular.Row, params formula.Params) ([]tabular.Row, error) {
	out := make([]tabular.Row, len(rows))
	for i, r := range rows {
		nr := r.Clone()
		// TODO: compute the result for this row.
		out[i] = nr
	}
	return out, nil
}
`

var tmpl = template.Must(template.New("executor").Parse(executorTemplate))

type templateData struct {
	Name           string
	TypeName       string
	Description    string
	ResultColumn   string
	RequiredParams []string
}

// Generate renders an executor skeleton for the manifest. The generated
// file uses the manifest's parameter schema for its validation stub and the
// conventional <formula>_result output column.
func Generate(m *config.FormulaManifest) (string, error) {
	if m == nil || m.Name == "" {
		return "", fmt.Errorf("manifest has no name")
	}
	data := templateData{
		Name:         m.Name,
		TypeName:     typeName(m.Name),
		Description:  m.Description,
		ResultColumn: strings.ToLower(m.Name) + "_result",
	}
	for _, p := range m.Params {
		if p.Required && p.Default == nil {
			data.RequiredParams = append(data.RequiredParams, p.Name)
		}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render skeleton: %w", err)
	}
	return buf.String(), nil
}

// typeName turns SOME_FORMULA into someFormulaExecutor.
func typeName(name string) string {
	parts := strings.Split(strings.ToLower(name), "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "") + "Executor"
}
