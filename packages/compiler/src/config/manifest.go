package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ngc-ir/packages/compiler/src/core"
)

// ManifestSuffix names the files describing one component each
const ManifestSuffix = ".component.toml"

// ComponentManifest is the metadata of one component, as written in a
// *.component.toml file.
type ComponentManifest struct {
	Path string `toml:"-"`

	Name        string   `toml:"name"`
	Selector    string   `toml:"selector"`
	Template    string   `toml:"template"`
	TemplateURL string   `toml:"templateUrl"`
	Styles      []string `toml:"styles"`
	StyleURLs   []string `toml:"styleUrls"`

	// Emulated, None or ShadowDom; empty uses the project default.
	Encapsulation string `toml:"encapsulation"`
	// Default or OnPush
	ChangeDetection     string `toml:"changeDetection"`
	Standalone          *bool  `toml:"standalone"`
	Signals             bool   `toml:"signals"`
	PreserveWhitespaces *bool  `toml:"preserveWhitespaces"`
	UsesInheritance     bool   `toml:"usesInheritance"`

	// Class names of directives, pipes and modules the template may use.
	Imports   []string `toml:"imports"`
	ExportAs  []string `toml:"exportAs"`
	Providers []string `toml:"providers"`

	Inputs      []InputManifest  `toml:"input"`
	Outputs     []OutputManifest `toml:"output"`
	Queries     []QueryManifest  `toml:"contentQuery"`
	ViewQueries []QueryManifest  `toml:"viewQuery"`
	Host        HostManifest     `toml:"host"`
}

// InputManifest is one [[input]]
type InputManifest struct {
	Name      string `toml:"name"`
	Alias     string `toml:"alias"`
	Required  bool   `toml:"required"`
	Signal    bool   `toml:"signal"`
	Transform string `toml:"transform"`
}

// OutputManifest is one [[output]]
type OutputManifest struct {
	Name  string `toml:"name"`
	Alias string `toml:"alias"`
}

// QueryManifest is one [[contentQuery]] or [[viewQuery]]. A query matches
// either Selectors (local reference names) or the Predicate type.
type QueryManifest struct {
	Property                string   `toml:"property"`
	Selectors               []string `toml:"selectors"`
	Predicate               string   `toml:"predicate"`
	First                   bool     `toml:"first"`
	Descendants             bool     `toml:"descendants"`
	Static                  bool     `toml:"static"`
	Signal                  bool     `toml:"signal"`
	Read                    string   `toml:"read"`
	EmitDistinctChangesOnly *bool    `toml:"emitDistinctChangesOnly"`
}

// HostManifest is the [host] table
type HostManifest struct {
	Attributes []HostAttributeManifest `toml:"attribute"`
	Listeners  []HostBindingManifest   `toml:"listener"`
	Properties []HostBindingManifest   `toml:"property"`
}

// HostAttributeManifest is a static host attribute
type HostAttributeManifest struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// HostBindingManifest is a host listener or property binding
type HostBindingManifest struct {
	Key        string `toml:"key"`
	Expression string `toml:"expression"`
}

// LoadManifest reads and validates a component manifest
func LoadManifest(path string) (*ComponentManifest, error) {
	var m ComponentManifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0].String())
	}
	m.Path = path
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// Validate checks required fields and enumerated values
func (m *ComponentManifest) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("missing name")
	}
	hasInline := m.Template != ""
	hasURL := m.TemplateURL != ""
	if hasInline == hasURL {
		return fmt.Errorf("component %s: exactly one of template and templateUrl is required", m.Name)
	}
	if m.Encapsulation != "" {
		if _, ok := core.ParseViewEncapsulation(m.Encapsulation); !ok {
			return fmt.Errorf("component %s: unknown encapsulation %q", m.Name, m.Encapsulation)
		}
	}
	if _, err := m.ChangeDetectionStrategy(); err != nil {
		return fmt.Errorf("component %s: %w", m.Name, err)
	}
	for _, input := range m.Inputs {
		if input.Name == "" {
			return fmt.Errorf("component %s: [[input]] without name", m.Name)
		}
	}
	for _, output := range m.Outputs {
		if output.Name == "" {
			return fmt.Errorf("component %s: [[output]] without name", m.Name)
		}
	}
	for _, q := range append(append([]QueryManifest(nil), m.Queries...), m.ViewQueries...) {
		if q.Property == "" {
			return fmt.Errorf("component %s: query without property", m.Name)
		}
		if (len(q.Selectors) == 0) == (q.Predicate == "") {
			return fmt.Errorf("component %s: query %s needs either selectors or a predicate", m.Name, q.Property)
		}
	}
	return nil
}

// ChangeDetectionStrategy decodes changeDetection; empty means Default.
func (m *ComponentManifest) ChangeDetectionStrategy() (core.ChangeDetectionStrategy, error) {
	switch m.ChangeDetection {
	case "", "Default":
		return core.ChangeDetectionStrategyDefault, nil
	case "OnPush":
		return core.ChangeDetectionStrategyOnPush, nil
	}
	return 0, fmt.Errorf("unknown changeDetection %q", m.ChangeDetection)
}

// IsStandalone reports whether the component is standalone; the default is true.
func (m *ComponentManifest) IsStandalone() bool {
	return m.Standalone == nil || *m.Standalone
}

// Dir returns the directory holding the manifest
func (m *ComponentManifest) Dir() string {
	return filepath.Dir(m.Path)
}

// ReadTemplate returns the template source and the URL diagnostics refer to.
// An inline template is attributed to the manifest itself.
func (m *ComponentManifest) ReadTemplate() (string, string, error) {
	if m.TemplateURL == "" {
		return m.Template, m.Path, nil
	}
	path := filepath.Join(m.Dir(), filepath.FromSlash(m.TemplateURL))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("component %s: failed to read template: %w", m.Name, err)
	}
	return string(data), path, nil
}

// ReadStyles returns inline styles followed by the contents of styleUrls
func (m *ComponentManifest) ReadStyles() ([]string, error) {
	styles := append([]string(nil), m.Styles...)
	for _, url := range m.StyleURLs {
		data, err := os.ReadFile(filepath.Join(m.Dir(), filepath.FromSlash(url)))
		if err != nil {
			return nil, fmt.Errorf("component %s: failed to read style: %w", m.Name, err)
		}
		styles = append(styles, string(data))
	}
	return styles, nil
}

// OutputName is the emitted file name: app.component.toml becomes app.component.js
func (m *ComponentManifest) OutputName() string {
	return strings.TrimSuffix(filepath.Base(m.Path), ManifestSuffix) + ".component.js"
}
