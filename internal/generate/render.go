package generate

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"text/template"
)

var moduleTemplate = template.Must(template.New("module").Parse(`// Code generated by autoinject generate. DO NOT EDIT.

package {{.Name}}

import "github.com/Ngone6325/autoinject"

// Module lists the injectable constructors of package {{.Name}}.
var Module = autoinject.NewModule(
	{{printf "%q" .ImportPath}},
{{- range .Requires}}
	{{printf "%q" .}},
{{- end}}
)
{{- if .Services}}.Provide(
{{- range .Services}}
	{{.Constructor}},
{{- end}}
){{end}}

func init() {
	autoinject.MustRegisterModule(Module)
{{- if .Entry}}
	autoinject.SetEntry(Module.Name())
{{- end}}
}
`))

// Render returns the formatted module file for pkg. The entry package also
// names itself the entry module of the default catalog.
func Render(pkg *Package, entry bool) ([]byte, error) {
	var buf bytes.Buffer
	err := moduleTemplate.Execute(&buf, struct {
		*Package
		Entry bool
	}{pkg, entry})
	if err != nil {
		return nil, fmt.Errorf("generate: render %s: %w", pkg.ImportPath, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generate: format %s: %w", pkg.ImportPath, err)
	}
	return src, nil
}

// Write renders pkg into the file name inside the package directory.
func Write(pkg *Package, entry bool, name string) (string, error) {
	src, err := Render(pkg, entry)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = DefaultOutput
	}
	out := filepath.Join(pkg.Dir, name)
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out, nil
}

// Targets returns the packages that get a module file: every package with
// services, plus the entry package. The entry must be among pkgs.
func Targets(pkgs []*Package, entry string) ([]*Package, error) {
	var out []*Package
	found := entry == ""
	for _, p := range pkgs {
		if p.ImportPath == entry {
			found = true
			out = append(out, p)
			continue
		}
		if p.HasModule() {
			out = append(out, p)
		}
	}
	if !found {
		return nil, fmt.Errorf("generate: entry package %s not loaded", entry)
	}
	return out, nil
}
