package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-ir/packages/compiler/src/config"
	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/util"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newProject(t *testing.T, files map[string]string) *config.CompilerConfig {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.FileName), "[compiler]\njobs = 2\n\n[output]\ndir = \"out\"\n")
	for name, content := range files {
		writeFile(t, filepath.Join(root, name), content)
	}
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	require.NoError(t, err)
	return cfg
}

func TestCompile(t *testing.T) {
	t.Run("should compile and emit every component", func(t *testing.T) {
		cfg := newProject(t, map[string]string{
			"app/app.component.toml": `
name = "AppComponent"
selector = "app-root"
template = "<div>{{ name }}</div>"
`,
			"app/shell.component.toml": `
name = "ShellComponent"
selector = "app-shell"
templateUrl = "shell.component.html"
imports = ["AppComponent"]
`,
			"app/shell.component.html": "<app-root></app-root>",
		})

		report, err := Compile(context.Background(), cfg, Options{Emit: true})
		require.NoError(t, err)
		require.NoError(t, report.Err())
		require.Len(t, report.Results, 2)

		app := report.Results[0]
		assert.Equal(t, "AppComponent", app.Name)
		assert.Equal(t, filepath.Join(cfg.Root, "out", "app", "app.component.js"), app.OutputPath)
		assert.Contains(t, app.Output, "import * as i0 from '@angular/core';")
		assert.Contains(t, app.Output, "AppComponent.ɵcmp = i0.ɵɵdefineComponent(")
		assert.Contains(t, app.Output, "i0.ɵɵtextInterpolate(ctx.name)")

		written, err := os.ReadFile(app.OutputPath)
		require.NoError(t, err)
		assert.Equal(t, app.Output, string(written))

		shell := report.Results[1]
		assert.Equal(t, "ShellComponent", shell.Name)
		assert.Contains(t, shell.Output, "from './app.component';")
		assert.Contains(t, shell.Output, ".AppComponent")
	})

	t.Run("should reuse cached results", func(t *testing.T) {
		cfg := newProject(t, map[string]string{
			"hello.component.toml": "name = \"HelloComponent\"\ntemplate = \"<p>{{ greeting }}</p>\"\n",
		})
		cache, err := OpenDiskCache(cfg.CacheDir())
		require.NoError(t, err)

		first, err := Compile(context.Background(), cfg, Options{Cache: cache})
		require.NoError(t, err)
		require.False(t, first.Results[0].Cached)

		second, err := Compile(context.Background(), cfg, Options{Cache: cache})
		require.NoError(t, err)
		assert.True(t, second.Results[0].Cached)
		assert.Equal(t, first.Results[0].Output, second.Results[0].Output)
		assert.NotEqual(t, first.Session, second.Session)

		writeFile(t, filepath.Join(cfg.Root, "hello.component.toml"), "name = \"HelloComponent\"\ntemplate = \"<p>{{ other }}</p>\"\n")
		third, err := Compile(context.Background(), cfg, Options{Cache: cache})
		require.NoError(t, err)
		assert.False(t, third.Results[0].Cached)
		assert.Contains(t, third.Results[0].Output, "ctx.other")
	})

	t.Run("should report template errors without output", func(t *testing.T) {
		cfg := newProject(t, map[string]string{
			"broken.component.toml": "name = \"BrokenComponent\"\ntemplate = \"@if (ready) {\"\n",
		})
		report, err := Compile(context.Background(), cfg, Options{Emit: true})
		require.NoError(t, err)

		res := report.Results[0]
		assert.Empty(t, res.Output)
		assert.NoError(t, res.Err)
		require.NotEmpty(t, res.Diagnostics)
		assert.Equal(t, diagnostics.SeverityError, res.Diagnostics[0].Severity)
		assert.Equal(t, diagnostics.CodeTemplateParseError, res.Diagnostics[0].Code)
		assert.Error(t, report.Err())

		_, err = os.Stat(res.OutputPath)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("should fail a component with unknown imports", func(t *testing.T) {
		cfg := newProject(t, map[string]string{
			"a.component.toml": "name = \"AComponent\"\ntemplate = \"a\"\nimports = [\"Missing\"]\n",
			"b.component.toml": "name = \"BComponent\"\ntemplate = \"b\"\n",
		})
		report, err := Compile(context.Background(), cfg, Options{})
		require.NoError(t, err)
		require.Len(t, report.Results, 2)
		assert.ErrorContains(t, report.Results[0].Err, "unknown declaration")
		assert.NoError(t, report.Results[1].Err)
		assert.NotEmpty(t, report.Results[1].Output)
	})

	t.Run("should abort on invalid manifests", func(t *testing.T) {
		cfg := newProject(t, map[string]string{
			"a.component.toml": "template = \"a\"\n",
		})
		_, err := Compile(context.Background(), cfg, Options{})
		assert.ErrorContains(t, err, "missing name")
	})

	t.Run("should reject duplicate component names", func(t *testing.T) {
		cfg := newProject(t, map[string]string{
			"a/x.component.toml": "name = \"X\"\ntemplate = \"a\"\n",
			"b/x.component.toml": "name = \"X\"\ntemplate = \"b\"\n",
		})
		_, err := Compile(context.Background(), cfg, Options{})
		assert.ErrorContains(t, err, "duplicate declaration")
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		cfg := newProject(t, map[string]string{
			"a.component.toml": "name = \"A\"\ntemplate = \"a\"\n",
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Compile(ctx, cfg, Options{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDiscover(t *testing.T) {
	cfg := newProject(t, map[string]string{
		".gitignore":                     "generated/\n",
		"src/app.component.toml":         "",
		"src/nested/list.component.toml": "",
		"src/notes.toml":                 "",
		"generated/gen.component.toml":   "",
		"node_modules/x.component.toml":  "",
		".hidden/h.component.toml":       "",
		"out/o.component.toml":           "",
	})
	paths, err := Discover(cfg)
	require.NoError(t, err)

	want := []string{
		filepath.Join(cfg.Root, "src", "app.component.toml"),
		filepath.Join(cfg.Root, "src", "nested", "list.component.toml"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("discovered manifests (-want +got):\n%s", diff)
	}
}

func TestDiskCache(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	require.NoError(t, err)

	key := (&Hasher{}).Add("a").Add("b").Sum()
	assert.NotEqual(t, key, (&Hasher{}).Add("ab").Sum(), "parts must not run together")

	_, ok, err := cache.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	file := util.NewParseSourceFile("<p>{{ x | nope }}</p>", "p.html")
	diags := []diagnostics.Diagnostic{
		diagnostics.NewError(diagnostics.CodeMissingPipe, util.SpanForOffsets(file, 3, 17), "No pipe found with name 'nope'."),
		diagnostics.NewWarning(diagnostics.CodeUnusedStandaloneImports, nil, "NgIf is not used"),
	}
	encoded, err := encodeDiagnostics(diags)
	require.NoError(t, err)
	require.NoError(t, cache.Put(key, &CachePayload{Name: "P", Output: "out", Diagnostics: encoded}))

	payload, ok, err := cache.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "out", payload.Output)

	decoded := decodeDiagnostics(payload.Diagnostics, file)
	require.Len(t, decoded, 2)
	assert.Equal(t, "{{ x | nope }}", decoded[0].Span.String())
	assert.Equal(t, diagnostics.CodeMissingPipe, decoded[0].Code)
	assert.Nil(t, decoded[1].Span)
	assert.Equal(t, diagnostics.SeverityWarning, decoded[1].Severity)

	require.NoError(t, cache.DropAll())
	_, ok, err = cache.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	var nilCache *DiskCache
	require.NoError(t, nilCache.Put(key, &CachePayload{}))
	_, ok, err = nilCache.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModuleSpecifier(t *testing.T) {
	cases := []struct {
		importer, target, want string
	}{
		{"app/shell.component", "app/app.component", "./app.component"},
		{"app/shell.component", "shared/button.component", "../shared/button.component"},
		{"root.component", "app/a/deep.component", "./app/a/deep.component"},
		{"a/b/c.component", "d.component", "../../d.component"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, moduleSpecifier(tc.importer, tc.target), "%s -> %s", tc.importer, tc.target)
	}
}

func TestPanicError(t *testing.T) {
	cause := errors.New("boom")
	assert.ErrorIs(t, panicError(cause), cause)
	assert.EqualError(t, panicError("AssertionError: bad slot"), "AssertionError: bad slot")
}
