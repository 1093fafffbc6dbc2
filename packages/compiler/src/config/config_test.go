package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-ir/packages/compiler/src/config"
	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/render3/view"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewCompilerConfig(t *testing.T) {
	cfg := config.NewCompilerConfig(config.WithJobs(3), config.WithPreserveWhitespaces(true))
	assert.Equal(t, 3, cfg.Compiler.Jobs)
	assert.True(t, cfg.Compiler.PreserveWhitespaces)
	assert.Equal(t, "info", cfg.Compiler.LogLevel)
	assert.Equal(t, []string{"."}, cfg.Compiler.Include)

	mode, err := cfg.DeclarationListEmitMode()
	require.NoError(t, err)
	assert.Equal(t, view.DeclarationListEmitModeDirect, mode)
}

func TestLoad(t *testing.T) {
	t.Run("should decode tables and keep defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, filepath.Join(dir, config.FileName), `
[compiler]
jobs = 2
declarationListEmitMode = "closure"

[output]
dir = "out"

[[directive]]
name = "TooltipDirective"
selector = "[tooltip]"
from = "@acme/ui"
inputs = ["tooltip"]

[[pipe]]
name = "CurrencyPipe"
pipe = "currency"
from = "@angular/common"

[[module]]
name = "UiModule"
from = "@acme/ui"
exports = ["TooltipDirective"]
`)
		cfg, err := config.Load(path, config.WithLogLevel("debug"))
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.Root)
		assert.Equal(t, 2, cfg.Compiler.Jobs)
		assert.Equal(t, "debug", cfg.Compiler.LogLevel)
		assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir())
		assert.Equal(t, filepath.Join(dir, ".ngc-ir", "cache"), cfg.CacheDir())

		mode, err := cfg.DeclarationListEmitMode()
		require.NoError(t, err)
		assert.Equal(t, view.DeclarationListEmitModeClosure, mode)

		want := []config.DirectiveConfig{{Name: "TooltipDirective", Selector: "[tooltip]", From: "@acme/ui", Inputs: []string{"tooltip"}}}
		if diff := cmp.Diff(want, cfg.Directives); diff != "" {
			t.Errorf("directives (-want +got):\n%s", diff)
		}
		assert.Equal(t, "currency", cfg.Pipes[0].Pipe)
		assert.Equal(t, []string{"TooltipDirective"}, cfg.Modules[0].Exports)
	})

	errorCases := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[compiler]\nthreads = 4\n", "unknown keys: compiler.threads"},
		{"negative jobs", "[compiler]\njobs = -1\n", "must not be negative"},
		{"emit mode", "[compiler]\ndeclarationListEmitMode = \"lazy\"\n", "unknown mode"},
		{"encapsulation", "[compiler]\ndefaultEncapsulation = \"Native\"\n", "unknown encapsulation"},
		{"directive selector", "[[directive]]\nname = \"X\"\n", "missing selector"},
		{"syntax", "[compiler\n", "failed to parse TOML"},
	}
	for _, tc := range errorCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(t.TempDir(), config.FileName), tc.content)
			_, err := config.Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, filepath.Join(root, config.FileName), "")
	nested := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok, err := config.Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, path, found)

	cfg, err := config.LoadOrDefault(nested)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Root)

	empty := t.TempDir()
	cfg, err = config.LoadOrDefault(empty)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, empty, cfg.Root)
}

func TestManifest(t *testing.T) {
	t.Run("should load a component with a template file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "todo.component.html"), "<li>{{ item }}</li>")
		writeFile(t, filepath.Join(dir, "todo.component.css"), "li { color: red; }")
		path := writeFile(t, filepath.Join(dir, "todo.component.toml"), `
name = "TodoComponent"
selector = "app-todo"
templateUrl = "todo.component.html"
styles = ["li { margin: 0; }"]
styleUrls = ["todo.component.css"]
changeDetection = "OnPush"
imports = ["NgIf"]

[[input]]
name = "item"
required = true

[[output]]
name = "done"
alias = "todoDone"

[[viewQuery]]
property = "row"
selectors = ["row"]
first = true

[host]
[[host.attribute]]
name = "role"
value = "listitem"
[[host.listener]]
key = "click"
expression = "toggle()"
`)
		m, err := config.LoadManifest(path)
		require.NoError(t, err)
		assert.Equal(t, "TodoComponent", m.Name)
		assert.True(t, m.IsStandalone())
		assert.Equal(t, "todo.component.js", m.OutputName())

		cd, err := m.ChangeDetectionStrategy()
		require.NoError(t, err)
		assert.Equal(t, core.ChangeDetectionStrategyOnPush, cd)

		source, url, err := m.ReadTemplate()
		require.NoError(t, err)
		assert.Equal(t, "<li>{{ item }}</li>", source)
		assert.Equal(t, filepath.Join(dir, "todo.component.html"), url)

		styles, err := m.ReadStyles()
		require.NoError(t, err)
		assert.Equal(t, []string{"li { margin: 0; }", "li { color: red; }"}, styles)

		assert.Equal(t, []config.HostAttributeManifest{{Name: "role", Value: "listitem"}}, m.Host.Attributes)
		assert.Equal(t, "toggle()", m.Host.Listeners[0].Expression)
		assert.Equal(t, "todoDone", m.Outputs[0].Alias)
	})

	t.Run("should attribute inline templates to the manifest", func(t *testing.T) {
		path := writeFile(t, filepath.Join(t.TempDir(), "app.component.toml"), "name = \"App\"\ntemplate = \"hi\"\nstandalone = false\n")
		m, err := config.LoadManifest(path)
		require.NoError(t, err)
		assert.False(t, m.IsStandalone())
		source, url, err := m.ReadTemplate()
		require.NoError(t, err)
		assert.Equal(t, "hi", source)
		assert.Equal(t, path, url)
	})

	errorCases := []struct {
		name    string
		content string
		want    string
	}{
		{"missing name", "template = \"x\"\n", "missing name"},
		{"two templates", "name = \"A\"\ntemplate = \"x\"\ntemplateUrl = \"a.html\"\n", "exactly one of"},
		{"no template", "name = \"A\"\n", "exactly one of"},
		{"change detection", "name = \"A\"\ntemplate = \"x\"\nchangeDetection = \"Eager\"\n", "unknown changeDetection"},
		{"query predicate", "name = \"A\"\ntemplate = \"x\"\n[[contentQuery]]\nproperty = \"q\"\n", "either selectors or a predicate"},
		{"unknown key", "name = \"A\"\ntemplate = \"x\"\ncolour = 1\n", "unknown key colour"},
	}
	for _, tc := range errorCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(t.TempDir(), "a.component.toml"), tc.content)
			_, err := config.LoadManifest(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
