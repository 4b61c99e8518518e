package generate

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ngone6325/autoinject"
	"github.com/Ngone6325/autoinject/di"
)

// writeTree creates files (slash-separated paths) under a new temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func shopTree() map[string]string {
	return map[string]string{
		"go.mod": "module example.com/shop\n\ngo 1.24\n",
		"store/store.go": `package store

import "github.com/Ngone6325/autoinject"

type Repo interface{ Find() string }

type SQLRepo struct {
	autoinject.Inject[Repo] ` + "`inject:\"singleton\"`" + `
	dsn string
}

func NewSQLRepo() *SQLRepo { return &SQLRepo{} }

func (*SQLRepo) Find() string { return "" }

type Cache struct {
	autoinject.Injectable
}

func NewCache() *Cache { return &Cache{} }

type helper struct{}
`,
		"store/store_test.go": `package store

import "github.com/Ngone6325/autoinject"

type fake struct {
	autoinject.Injectable
}
`,
		"bridge/bridge.go": `package bridge

import "example.com/shop/store"

var _ store.Repo
`,
		"app/app.go": `package app

import (
	ai "github.com/Ngone6325/autoinject"

	"example.com/shop/bridge"
)

type Handler struct {
	ai.Injectable ` + "`inject:\"transient\"`" + `
}

func NewHandler() *Handler { return &Handler{} }

var _ = bridge.X
`,
		"app/wire.go": `//go:build wireinject

package app

import "github.com/Ngone6325/autoinject"

type Ignored struct {
	autoinject.Injectable
}
`,
		"testdata/skip.go": "package skip\n",
		"_hidden/skip.go":  "package hidden\n",
	}
}

func byPath(pkgs []*Package) map[string]*Package {
	m := make(map[string]*Package, len(pkgs))
	for _, p := range pkgs {
		m[p.ImportPath] = p
	}
	return m
}

func TestLoad(t *testing.T) {
	root := writeTree(t, shopTree())

	pkgs, err := Load(root, nil)
	require.NoError(t, err)

	got := byPath(pkgs)
	require.Len(t, got, 3)
	require.Contains(t, got, "example.com/shop/store")
	require.Contains(t, got, "example.com/shop/bridge")
	require.Contains(t, got, "example.com/shop/app")

	store := got["example.com/shop/store"]
	assert.Equal(t, "store", store.Name)
	require.Len(t, store.Services, 2)
	assert.Equal(t, "Cache", store.Services[0].Type)
	assert.Equal(t, "Injectable", store.Services[0].Marker)
	assert.Equal(t, di.Scoped, store.Services[0].Lifetime)
	assert.Equal(t, "SQLRepo", store.Services[1].Type)
	assert.Equal(t, "NewSQLRepo", store.Services[1].Constructor)
	assert.Equal(t, "Inject[Repo]", store.Services[1].Marker)
	assert.Equal(t, di.Singleton, store.Services[1].Lifetime)
	assert.Empty(t, store.Requires)

	assert.False(t, got["example.com/shop/bridge"].HasModule())

	app := got["example.com/shop/app"]
	require.Len(t, app.Services, 1)
	assert.Equal(t, "Handler", app.Services[0].Type)
	assert.Equal(t, di.Transient, app.Services[0].Lifetime)
	assert.Equal(t, []string{"example.com/shop/store"}, app.Requires)
}

func TestLoadPatterns(t *testing.T) {
	root := writeTree(t, shopTree())

	pkgs, err := Load(root, []string{"./store", "app"})
	require.NoError(t, err)
	got := byPath(pkgs)
	assert.Len(t, got, 2)
	// bridge was not loaded, so app cannot see store through it
	assert.Empty(t, got["example.com/shop/app"].Requires)

	_, err = Load(root, []string{"../elsewhere"})
	assert.ErrorIs(t, err, ErrPatternOutsideRoot)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  error
	}{
		{
			name: "missing constructor",
			files: map[string]string{"a/a.go": `package a

import "github.com/Ngone6325/autoinject"

type Svc struct{ autoinject.Injectable }
`},
			want: ErrMissingConstructor,
		},
		{
			name: "constructor with two results",
			files: map[string]string{"a/a.go": `package a

import "github.com/Ngone6325/autoinject"

type Svc struct{ autoinject.Injectable }

func NewSvc() (*Svc, error) { return nil, nil }
`},
			want: ErrInvalidConstructor,
		},
		{
			name: "invalid lifetime",
			files: map[string]string{"a/a.go": `package a

import "github.com/Ngone6325/autoinject"

type Svc struct {
	autoinject.Injectable ` + "`inject:\"forever\"`" + `
}

func NewSvc() *Svc { return nil }
`},
			want: autoinject.ErrInvalidLifetime,
		},
		{
			name: "generic type",
			files: map[string]string{"a/a.go": `package a

import "github.com/Ngone6325/autoinject"

type Box[T any] struct{ autoinject.Injectable }

func NewBox() *Box[int] { return nil }
`},
			want: ErrGenericService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.files["go.mod"] = "module example.com/m\n"
			_, err := Load(writeTree(t, tt.files), nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadNoGoMod(t *testing.T) {
	_, err := Load(t.TempDir(), nil)
	assert.Error(t, err)

	_, err = Load(writeTree(t, map[string]string{"go.mod": "go 1.24\n"}), nil)
	assert.ErrorIs(t, err, ErrNoModule)
}

func TestRender(t *testing.T) {
	root := writeTree(t, shopTree())
	pkgs, err := Load(root, nil)
	require.NoError(t, err)
	got := byPath(pkgs)

	src, err := Render(got["example.com/shop/app"], true)
	require.NoError(t, err)
	text := string(src)
	assert.Contains(t, text, "// Code generated by autoinject generate. DO NOT EDIT.")
	assert.Contains(t, text, "package app")
	assert.Contains(t, text, `autoinject.NewModule(
	"example.com/shop/app",
	"example.com/shop/store",
).Provide(
	NewHandler,
)`)
	assert.Contains(t, text, "autoinject.SetEntry(Module.Name())")

	_, err = parser.ParseFile(token.NewFileSet(), "gen.go", src, 0)
	require.NoError(t, err)

	src, err = Render(got["example.com/shop/store"], false)
	require.NoError(t, err)
	assert.Contains(t, string(src), "NewCache,\n\tNewSQLRepo,")
	assert.NotContains(t, string(src), "SetEntry")
}

func TestRenderEntryWithoutServices(t *testing.T) {
	src, err := Render(&Package{Name: "main", ImportPath: "example.com/m/cmd"}, true)
	require.NoError(t, err)
	assert.NotContains(t, string(src), "Provide")
	assert.Contains(t, string(src), `var Module = autoinject.NewModule(
	"example.com/m/cmd",
)`)
}

func TestTargetsAndWrite(t *testing.T) {
	root := writeTree(t, shopTree())
	pkgs, err := Load(root, nil)
	require.NoError(t, err)

	targets, err := Targets(pkgs, "example.com/shop/bridge")
	require.NoError(t, err)
	assert.Len(t, targets, 3)

	_, err = Targets(pkgs, "example.com/shop/nowhere")
	assert.Error(t, err)

	targets, err = Targets(pkgs, "")
	require.NoError(t, err)
	require.Len(t, targets, 2)

	out, err := Write(targets[0], false, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, filepath.Base(out))
	assert.FileExists(t, out)

	// generated files are not parsed on the next run
	again, err := Load(root, nil)
	require.NoError(t, err)
	assert.Equal(t, len(pkgs), len(again))
}

func TestLoadBuildConstraints(t *testing.T) {
	root := writeTree(t, map[string]string{
		"go.mod": "module example.com/m\n",
		"a/kept.go": `//go:build !wireinject

package a

import "github.com/Ngone6325/autoinject"

type Kept struct{ autoinject.Injectable }

func NewKept() *Kept { return nil }
`,
		"a/tool.go": `//go:build ignore

package main

import "github.com/Ngone6325/autoinject"

type Dropped struct{ autoinject.Injectable }
`,
	})

	pkgs, err := Load(root, nil)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "a", pkgs[0].Name)
	require.Len(t, pkgs[0].Services, 1)
	assert.Equal(t, "Kept", pkgs[0].Services[0].Type)
}
