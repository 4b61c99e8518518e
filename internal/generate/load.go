// Package generate finds marked types in Go source and renders the module
// files that list their constructors for autoinject.
package generate

import (
	"errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/Ngone6325/autoinject"
	"github.com/Ngone6325/autoinject/di"
)

// MarkerPackage is the import path declaring Inject and Injectable.
const MarkerPackage = "github.com/Ngone6325/autoinject"

// DefaultOutput is the file name of generated module files.
const DefaultOutput = "zz_autoinject.gen.go"

var (
	ErrNoModule           = errors.New("generate: no module path in go.mod")
	ErrMissingConstructor = errors.New("generate: marked type has no constructor")
	ErrInvalidConstructor = errors.New("generate: constructor must take no type parameters and return one value")
	ErrGenericService     = errors.New("generate: generic types cannot be marked")
	ErrPatternOutsideRoot = errors.New("generate: pattern is outside the module root")
)

// Service is a marked type and its constructor.
type Service struct {
	Type        string
	Constructor string
	Marker      string // "Inject[store.IUserRepo]" or "Injectable"
	Lifetime    di.LifetimeScope
	Pos         token.Position
}

// Package is a parsed package directory.
type Package struct {
	Dir        string
	ImportPath string
	Name       string
	Imports    []string
	Services   []Service

	// Requires holds the nearest packages with services reachable through imports.
	Requires []string
}

// HasModule reports whether a module file is generated for p when it is not the entry.
func (p *Package) HasModule() bool { return len(p.Services) > 0 }

// Load parses the package directories matched by patterns under root, the
// directory holding go.mod. A pattern is a directory relative to root; a
// trailing "/..." includes every directory below it. No patterns means "./...".
func Load(root string, patterns []string) ([]*Package, error) {
	modPath, err := modulePath(root)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	dirs, err := expand(root, patterns)
	if err != nil {
		return nil, err
	}

	var pkgs []*Package
	for _, dir := range dirs {
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return nil, err
		}
		importPath := modPath
		if rel != "." {
			importPath = path.Join(modPath, filepath.ToSlash(rel))
		}
		pkg, err := parsePackage(dir, importPath)
		if err != nil {
			return nil, err
		}
		if pkg != nil {
			pkgs = append(pkgs, pkg)
		}
	}

	link(pkgs)
	return pkgs, nil
}

func modulePath(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	p := modfile.ModulePath(data)
	if p == "" {
		return "", ErrNoModule
	}
	return p, nil
}

func expand(root string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, pattern := range patterns {
		recursive := pattern == "..." || strings.HasSuffix(pattern, "/...")
		base := strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
		if base == "" {
			base = "."
		}
		dir := filepath.Join(root, filepath.FromSlash(base))
		if rel, err := filepath.Rel(root, dir); err != nil || strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("%w: %s", ErrPatternOutsideRoot, pattern)
		}

		if !recursive {
			add(dir)
			continue
		}
		err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if p != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if p != root && p != dir {
				if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
					return filepath.SkipDir // nested module
				}
			}
			add(p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("generate: walk %s: %w", pattern, err)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func includeFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		name != DefaultOutput
}

// parsePackage returns nil for directories without Go files.
func parsePackage(dir, importPath string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, e := range entries {
		if e.IsDir() || !includeFile(e.Name()) {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, e.Name()), nil, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
		if isIgnored(f) {
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, nil
	}

	pkg := &Package{Dir: dir, ImportPath: importPath, Name: files[0].Name.Name}
	imports := make(map[string]bool)
	ctors := make(map[string]*ast.FuncDecl)
	var marked []Service

	for _, f := range files {
		if importPath == MarkerPackage {
			continue
		}
		for _, imp := range f.Imports {
			p, _ := strconv.Unquote(imp.Path.Value)
			imports[p] = true
		}
		alias := markerAlias(f)
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil && strings.HasPrefix(d.Name.Name, "New") {
					ctors[d.Name.Name] = d
				}
			case *ast.GenDecl:
				if alias == "" || d.Tok != token.TYPE {
					continue
				}
				svcs, err := markedTypes(fset, d, alias)
				if err != nil {
					return nil, err
				}
				marked = append(marked, svcs...)
			}
		}
	}
	for _, svc := range marked {
		fn, ok := ctors[svc.Constructor]
		if !ok {
			return nil, fmt.Errorf("%w: %s at %s needs func %s", ErrMissingConstructor, svc.Type, svc.Pos, svc.Constructor)
		}
		if fn.Type.TypeParams != nil || fn.Type.Results == nil || resultCount(fn.Type.Results) != 1 {
			return nil, fmt.Errorf("%w: %s at %s", ErrInvalidConstructor, svc.Constructor, fset.Position(fn.Pos()))
		}
		pkg.Services = append(pkg.Services, svc)
	}
	sort.Slice(pkg.Services, func(i, j int) bool { return pkg.Services[i].Type < pkg.Services[j].Type })

	for p := range imports {
		pkg.Imports = append(pkg.Imports, p)
	}
	sort.Strings(pkg.Imports)
	return pkg, nil
}

// isIgnored reports whether the build constraint of f excludes it once the
// "ignore" and "wireinject" tags are off. Every other tag counts as set.
func isIgnored(f *ast.File) bool {
	for _, cg := range f.Comments {
		if cg.Pos() >= f.Package {
			break
		}
		for _, c := range cg.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				return false
			}
			return !expr.Eval(func(tag string) bool {
				return tag != "ignore" && tag != "wireinject"
			})
		}
	}
	return false
}

func resultCount(fl *ast.FieldList) int {
	n := 0
	for _, f := range fl.List {
		if len(f.Names) == 0 {
			n++
		} else {
			n += len(f.Names)
		}
	}
	return n
}

// markerAlias returns the name f uses for the marker package, or "" when f does not import it.
func markerAlias(f *ast.File) string {
	for _, imp := range f.Imports {
		p, _ := strconv.Unquote(imp.Path.Value)
		if p != MarkerPackage {
			continue
		}
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				return ""
			}
			return imp.Name.Name
		}
		return path.Base(p)
	}
	return ""
}

func markedTypes(fset *token.FileSet, d *ast.GenDecl, alias string) ([]Service, error) {
	var out []Service
	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok || st.Fields == nil {
			continue
		}
		for _, field := range st.Fields.List {
			if len(field.Names) != 0 {
				continue
			}
			marker, ok := markerName(field.Type, alias)
			if !ok {
				continue
			}
			pos := fset.Position(ts.Pos())
			if ts.TypeParams != nil {
				return nil, fmt.Errorf("%w: %s at %s", ErrGenericService, ts.Name.Name, pos)
			}
			lifetime, err := fieldLifetime(field)
			if err != nil {
				return nil, fmt.Errorf("%w: %s at %s: %v", autoinject.ErrInvalidLifetime, ts.Name.Name, pos, err)
			}
			out = append(out, Service{
				Type:        ts.Name.Name,
				Constructor: "New" + ts.Name.Name,
				Marker:      marker,
				Lifetime:    lifetime,
				Pos:         pos,
			})
			break
		}
	}
	return out, nil
}

// markerName matches alias.Injectable and alias.Inject[T].
func markerName(expr ast.Expr, alias string) (string, bool) {
	isSel := func(e ast.Expr, name string) bool {
		sel, ok := e.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != name {
			return false
		}
		id, ok := sel.X.(*ast.Ident)
		return ok && id.Name == alias
	}

	switch e := expr.(type) {
	case *ast.SelectorExpr:
		if isSel(e, "Injectable") {
			return "Injectable", true
		}
	case *ast.IndexExpr:
		if isSel(e.X, "Inject") {
			return "Inject[" + exprString(e.Index) + "]", true
		}
	case *ast.IndexListExpr:
		if isSel(e.X, "Inject") {
			args := make([]string, len(e.Indices))
			for i, idx := range e.Indices {
				args[i] = exprString(idx)
			}
			return "Inject[" + strings.Join(args, ", ") + "]", true
		}
	}
	return "", false
}

func exprString(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.SelectorExpr:
		return exprString(x.X) + "." + x.Sel.Name
	case *ast.StarExpr:
		return "*" + exprString(x.X)
	default:
		return fmt.Sprintf("%T", e)
	}
}

func fieldLifetime(field *ast.Field) (di.LifetimeScope, error) {
	if field.Tag == nil {
		return di.Scoped, nil
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return 0, err
	}
	tag := reflect.StructTag(raw).Get(autoinject.TagKey)
	if tag == "" {
		return di.Scoped, nil
	}
	return di.ParseLifetime(tag)
}

// link fills Requires: for each package, the nearest packages with services
// reachable through imports among pkgs. Packages without services are looked through.
func link(pkgs []*Package) {
	byPath := make(map[string]*Package, len(pkgs))
	for _, p := range pkgs {
		byPath[p.ImportPath] = p
	}

	for _, p := range pkgs {
		visited := map[string]bool{p.ImportPath: true}
		queue := append([]string(nil), p.Imports...)
		requires := make(map[string]bool)
		for len(queue) > 0 {
			ip := queue[0]
			queue = queue[1:]
			if visited[ip] {
				continue
			}
			visited[ip] = true
			dep, ok := byPath[ip]
			if !ok {
				continue
			}
			if dep.HasModule() {
				requires[ip] = true
				continue
			}
			queue = append(queue, dep.Imports...)
		}
		p.Requires = p.Requires[:0]
		for ip := range requires {
			p.Requires = append(p.Requires, ip)
		}
		sort.Strings(p.Requires)
	}
}
