// Package config loads the project configuration (ngc-ir.toml) and the
// component manifests (*.component.toml) that the driver compiles.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/render3/view"
)

// FileName is the project configuration file looked up by Find
const FileName = "ngc-ir.toml"

// CompilerConfig represents the compiler configuration
type CompilerConfig struct {
	// Path of the loaded file; empty for the default configuration.
	Path string `toml:"-"`
	// Root directory of the project. Relative paths resolve against it.
	Root string `toml:"-"`

	Compiler CompilerOptions `toml:"compiler"`
	Output   OutputOptions   `toml:"output"`

	// Declarations available to component imports besides the
	// components of the project itself.
	Directives []DirectiveConfig `toml:"directive"`
	Pipes      []PipeConfig      `toml:"pipe"`
	Modules    []ModuleConfig    `toml:"module"`
}

// CompilerOptions is the [compiler] table
type CompilerOptions struct {
	// Jobs bounds the number of components compiled at once; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
	// CacheDir holds compiled outputs keyed by content hash.
	CacheDir string `toml:"cacheDir"`
	// DeclarationListEmitMode is "direct" or "closure".
	DeclarationListEmitMode string `toml:"declarationListEmitMode"`
	LogLevel                string `toml:"logLevel"`
	// DefaultEncapsulation applies to manifests that do not set one.
	DefaultEncapsulation string `toml:"defaultEncapsulation"`
	PreserveWhitespaces  bool   `toml:"preserveWhitespaces"`
	// Include lists the directories scanned for manifests.
	Include []string `toml:"include"`
}

// OutputOptions is the [output] table
type OutputOptions struct {
	Dir string `toml:"dir"`
}

// DirectiveConfig declares an external directive or component
type DirectiveConfig struct {
	Name      string   `toml:"name"`
	Selector  string   `toml:"selector"`
	From      string   `toml:"from"`
	Inputs    []string `toml:"inputs"`
	Outputs   []string `toml:"outputs"`
	ExportAs  []string `toml:"exportAs"`
	Component bool     `toml:"component"`
}

// PipeConfig declares an external pipe
type PipeConfig struct {
	Name string `toml:"name"`
	Pipe string `toml:"pipe"`
	From string `toml:"from"`
}

// ModuleConfig declares an external NgModule and the declarations it exports
type ModuleConfig struct {
	Name    string   `toml:"name"`
	From    string   `toml:"from"`
	Exports []string `toml:"exports"`
}

// NewCompilerConfig creates a new CompilerConfig with optional parameters
func NewCompilerConfig(opts ...CompilerConfigOption) *CompilerConfig {
	config := &CompilerConfig{
		Root: ".",
		Compiler: CompilerOptions{
			CacheDir:                filepath.Join(".ngc-ir", "cache"),
			DeclarationListEmitMode: "direct",
			LogLevel:                "info",
			DefaultEncapsulation:    "Emulated",
			PreserveWhitespaces:     PreserveWhitespacesDefault(nil, false),
			Include:                 []string{"."},
		},
		Output: OutputOptions{Dir: filepath.Join("dist", "ngc-ir")},
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// CompilerConfigOption is a function that modifies CompilerConfig
type CompilerConfigOption func(*CompilerConfig)

// WithJobs sets the parallelism of the driver
func WithJobs(jobs int) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Compiler.Jobs = jobs
	}
}

// WithLogLevel sets the log level
func WithLogLevel(level string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Compiler.LogLevel = level
	}
}

// WithOutputDir sets the output directory
func WithOutputDir(dir string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Output.Dir = dir
	}
}

// WithDefaultEncapsulation sets the default encapsulation
func WithDefaultEncapsulation(encapsulation string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Compiler.DefaultEncapsulation = encapsulation
	}
}

// WithPreserveWhitespaces sets whether to preserve whitespaces
func WithPreserveWhitespaces(preserve bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Compiler.PreserveWhitespaces = preserve
	}
}

// PreserveWhitespacesDefault returns the default value for preserveWhitespaces
func PreserveWhitespacesDefault(preserveWhitespacesOption *bool, defaultSetting bool) bool {
	if preserveWhitespacesOption == nil {
		return defaultSetting
	}
	return *preserveWhitespacesOption
}

// Find walks up from startDir looking for ngc-ir.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads the configuration at path. Keys the file leaves out keep
// their defaults; unknown keys are an error.
func Load(path string, opts ...CompilerConfigOption) (*CompilerConfig, error) {
	cfg := NewCompilerConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration found from startDir, or returns the
// defaults rooted at startDir when there is none.
func LoadOrDefault(startDir string, opts ...CompilerConfigOption) (*CompilerConfig, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if ok {
		return Load(path, opts...)
	}
	root, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", startDir, err)
	}
	cfg := NewCompilerConfig(opts...)
	cfg.Root = root
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be expressed by the TOML types
func (c *CompilerConfig) Validate() error {
	if c.Compiler.Jobs < 0 {
		return fmt.Errorf("[compiler].jobs must not be negative, got %d", c.Compiler.Jobs)
	}
	if _, err := c.DeclarationListEmitMode(); err != nil {
		return err
	}
	if _, ok := core.ParseViewEncapsulation(c.Compiler.DefaultEncapsulation); !ok {
		return fmt.Errorf("[compiler].defaultEncapsulation: unknown encapsulation %q", c.Compiler.DefaultEncapsulation)
	}
	for i, dir := range c.Directives {
		if strings.TrimSpace(dir.Name) == "" {
			return fmt.Errorf("[[directive]] #%d: missing name", i+1)
		}
		if strings.TrimSpace(dir.Selector) == "" {
			return fmt.Errorf("[[directive]] %s: missing selector", dir.Name)
		}
	}
	for i, pipe := range c.Pipes {
		if strings.TrimSpace(pipe.Name) == "" || strings.TrimSpace(pipe.Pipe) == "" {
			return fmt.Errorf("[[pipe]] #%d: name and pipe are required", i+1)
		}
	}
	for i, module := range c.Modules {
		if strings.TrimSpace(module.Name) == "" {
			return fmt.Errorf("[[module]] #%d: missing name", i+1)
		}
	}
	return nil
}

// DeclarationListEmitMode decodes [compiler].declarationListEmitMode
func (c *CompilerConfig) DeclarationListEmitMode() (view.DeclarationListEmitMode, error) {
	switch strings.ToLower(c.Compiler.DeclarationListEmitMode) {
	case "", "direct":
		return view.DeclarationListEmitModeDirect, nil
	case "closure":
		return view.DeclarationListEmitModeClosure, nil
	}
	return 0, fmt.Errorf("[compiler].declarationListEmitMode: unknown mode %q", c.Compiler.DeclarationListEmitMode)
}

// Resolve makes path absolute against the project root
func (c *CompilerConfig) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}

// OutputDir returns the absolute output directory
func (c *CompilerConfig) OutputDir() string {
	return c.Resolve(c.Output.Dir)
}

// CacheDir returns the absolute cache directory
func (c *CompilerConfig) CacheDir() string {
	return c.Resolve(c.Compiler.CacheDir)
}
