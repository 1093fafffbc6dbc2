package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/util"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--color", "off", "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files["ngc-ir.toml"] = "[output]\ndir = \"out\"\n"
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestCompileCommand(t *testing.T) {
	root := writeProject(t, map[string]string{
		"app.component.toml": "name = \"AppComponent\"\nselector = \"app-root\"\ntemplate = \"<h1>{{ title }}</h1>\"\n",
	})

	out, err := execute(t, "compile", root)
	require.NoError(t, err)
	assert.Contains(t, out, "[1/1] AppComponent ok -> "+filepath.Join("out", "app.component.js"))
	assert.Contains(t, out, "compiled 1/1 components")

	emitted, err := os.ReadFile(filepath.Join(root, "out", "app.component.js"))
	require.NoError(t, err)
	assert.Contains(t, string(emitted), "ɵɵtextInterpolate(ctx.title)")

	out, err = execute(t, "compile", root)
	require.NoError(t, err)
	assert.Contains(t, out, "(cached)")

	out, err = execute(t, "cache", "clean", root)
	require.NoError(t, err)
	assert.Contains(t, out, "removed "+filepath.Join(".ngc-ir", "cache"))
}

func TestCheckCommand(t *testing.T) {
	root := writeProject(t, map[string]string{
		"broken.component.toml": "name = \"BrokenComponent\"\ntemplate = \"@if (ready) {\"\n",
	})

	out, err := execute(t, "check", root)
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, "error NG5002: Unclosed block \"@if\"")
	assert.Contains(t, out, "[1/1] BrokenComponent errors")
	assert.Contains(t, out, "checked 0/1 components")

	_, err = os.Stat(filepath.Join(root, "out"))
	assert.True(t, os.IsNotExist(err), "check must not write output")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "ngc-ir", payload.Tool)
	assert.Equal(t, Version, payload.Version)

	_, err = execute(t, "version", "--format", "yaml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestPrintDiagnostics(t *testing.T) {
	defer func(old bool) { color.NoColor = old }(color.NoColor)
	color.NoColor = true

	file := util.NewParseSourceFile("<ul>\n  <li>{{ item | nope }}</li>\n</ul>", filepath.Join("/proj", "list.html"))
	diags := []diagnostics.Diagnostic{
		diagnostics.NewError(diagnostics.CodeMissingPipe, util.SpanForOffsets(file, 11, 28), "No pipe found with name 'nope'."),
		diagnostics.NewWarning(diagnostics.CodeUnusedStandaloneImports, nil, "NgIf is not used within the template of ListComponent"),
	}

	var out bytes.Buffer
	printDiagnostics(&out, "/proj", diags)

	want := "list.html:2:7 - error NG8004: No pipe found with name 'nope'.\n" +
		"\n" +
		"2   <li>{{ item | nope }}</li>\n" +
		"        ~~~~~~~~~~~~~~~~~\n" +
		"\n" +
		"warning NG8113: NgIf is not used within the template of ListComponent\n" +
		"\n"
	assert.Equal(t, want, out.String())
}
