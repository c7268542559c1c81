package export

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/alexanderramin/glazingpm/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("export").Funcs(template.FuncMap{
	"money":    func(c domain.Cents) string { return c.String() },
	"join":     strings.Join,
	"label":    scopeLabel,
	"material": func(m domain.MaterialCategory) string { return m.Label() },
}).ParseFS(templateFS, "templates/*.tmpl"))

func scopeLabel(v any) string {
	switch s := v.(type) {
	case domain.ScopeCategory:
		return s.Label()
	case string:
		return domain.ScopeCategory(s).Label()
	}
	return fmt.Sprint(v)
}

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}
