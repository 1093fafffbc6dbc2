package driver

import (
	"path"
	"strings"

	"github.com/hashicorp/go-multierror"

	"ngc-ir/packages/compiler/src/config"
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/view"
)

const (
	angularCommon = "@angular/common"
	angularForms  = "@angular/forms"
)

// Declarations of @angular/common and @angular/forms that templates can
// import without declaring them in ngc-ir.toml.
var (
	builtinDirectives = []config.DirectiveConfig{
		{Name: "NgIf", Selector: "[ngIf]", From: angularCommon, Inputs: []string{"ngIf", "ngIfThen", "ngIfElse"}},
		{Name: "NgForOf", Selector: "[ngFor][ngForOf]", From: angularCommon, Inputs: []string{"ngForOf", "ngForTrackBy", "ngForTemplate"}},
		{Name: "NgClass", Selector: "[ngClass]", From: angularCommon, Inputs: []string{"class", "ngClass"}},
		{Name: "NgStyle", Selector: "[ngStyle]", From: angularCommon, Inputs: []string{"ngStyle"}},
		{Name: "NgSwitch", Selector: "[ngSwitch]", From: angularCommon, Inputs: []string{"ngSwitch"}},
		{Name: "NgSwitchCase", Selector: "[ngSwitchCase]", From: angularCommon, Inputs: []string{"ngSwitchCase"}},
		{Name: "NgSwitchDefault", Selector: "[ngSwitchDefault]", From: angularCommon},
		{Name: "NgTemplateOutlet", Selector: "[ngTemplateOutlet]", From: angularCommon, Inputs: []string{"ngTemplateOutletContext", "ngTemplateOutlet", "ngTemplateOutletInjector"}},
		{Name: "NgModel", Selector: "[ngModel]:not([formControlName]):not([formControl])", From: angularForms, Inputs: []string{"name", "disabled", "ngModel", "ngModelOptions"}, Outputs: []string{"ngModelChange"}, ExportAs: []string{"ngModel"}},
		{Name: "NgForm", Selector: "form:not([ngNoForm]):not([formGroup]),ng-form,[ngForm]", From: angularForms, Inputs: []string{"ngFormOptions"}, Outputs: []string{"ngSubmit"}, ExportAs: []string{"ngForm"}},
	}

	builtinPipes = []config.PipeConfig{
		{Name: "AsyncPipe", Pipe: "async", From: angularCommon},
		{Name: "JsonPipe", Pipe: "json", From: angularCommon},
		{Name: "UpperCasePipe", Pipe: "uppercase", From: angularCommon},
		{Name: "LowerCasePipe", Pipe: "lowercase", From: angularCommon},
		{Name: "DatePipe", Pipe: "date", From: angularCommon},
		{Name: "DecimalPipe", Pipe: "number", From: angularCommon},
		{Name: "SlicePipe", Pipe: "slice", From: angularCommon},
	}

	builtinModules = []config.ModuleConfig{
		{Name: "CommonModule", From: angularCommon, Exports: []string{
			"NgIf", "NgForOf", "NgClass", "NgStyle", "NgSwitch", "NgSwitchCase", "NgSwitchDefault", "NgTemplateOutlet",
			"AsyncPipe", "JsonPipe", "UpperCasePipe", "LowerCasePipe", "DatePipe", "DecimalPipe", "SlicePipe",
		}},
		{Name: "FormsModule", From: angularForms, Exports: []string{"NgModel", "NgForm"}},
	}
)

// localComponent is a component compiled in this session, importable by
// the others under its output module path.
type localComponent struct {
	manifest *config.ComponentManifest
	// Slash separated path of the emitted module relative to the output
	// directory, without extension.
	module string
}

// seedRegistry registers the builtin declarations, the ones configured in
// ngc-ir.toml, and the project's own components. Configured declarations
// replace builtins of the same name.
func seedRegistry(reg *view.MetadataRegistry, cfg *config.CompilerConfig, locals []*localComponent) error {
	configured := make(map[string]bool)
	for _, d := range cfg.Directives {
		configured[d.Name] = true
	}
	for _, p := range cfg.Pipes {
		configured[p.Name] = true
	}
	for _, m := range cfg.Modules {
		configured[m.Name] = true
	}

	var result *multierror.Error
	register := func(directives []config.DirectiveConfig, pipes []config.PipeConfig, modules []config.ModuleConfig, skip map[string]bool) {
		for _, d := range directives {
			if skip[d.Name] {
				continue
			}
			result = multierror.Append(result, reg.RegisterDirective(d.Name, directiveMetadata(d)))
		}
		for _, p := range pipes {
			if skip[p.Name] {
				continue
			}
			result = multierror.Append(result, reg.RegisterPipe(p.Name, &view.R3PipeDependencyMetadata{
				R3TemplateDependency: dependency(view.R3TemplateDependencyKindPipe, p.Name, p.From),
				Name:                 p.Pipe,
			}))
		}
		for _, m := range modules {
			if skip[m.Name] {
				continue
			}
			result = multierror.Append(result, reg.RegisterModule(m.Name, &view.R3NgModuleDependencyMetadata{
				R3TemplateDependency: dependency(view.R3TemplateDependencyKindNgModule, m.Name, m.From),
			}, m.Exports))
		}
	}
	register(builtinDirectives, builtinPipes, builtinModules, configured)
	register(cfg.Directives, cfg.Pipes, cfg.Modules, nil)

	for _, local := range locals {
		m := local.manifest
		inputs := make([]string, len(m.Inputs))
		for i, input := range m.Inputs {
			inputs[i] = publicName(input.Name, input.Alias)
		}
		outputs := make([]string, len(m.Outputs))
		for i, out := range m.Outputs {
			outputs[i] = publicName(out.Name, out.Alias)
		}
		result = multierror.Append(result, reg.RegisterDirective(m.Name, &view.R3DirectiveDependencyMetadata{
			R3TemplateDependency: dependency(view.R3TemplateDependencyKindDirective, m.Name, local.module),
			Selector:             m.Selector,
			Inputs:               inputs,
			Outputs:              outputs,
			ExportAs:             m.ExportAs,
			IsComponent:          true,
		}))
	}
	return result.ErrorOrNil()
}

func directiveMetadata(d config.DirectiveConfig) *view.R3DirectiveDependencyMetadata {
	return &view.R3DirectiveDependencyMetadata{
		R3TemplateDependency: dependency(view.R3TemplateDependencyKindDirective, d.Name, d.From),
		Selector:             d.Selector,
		Inputs:               d.Inputs,
		Outputs:              d.Outputs,
		ExportAs:             d.ExportAs,
		IsComponent:          d.Component,
	}
}

func dependency(kind view.R3TemplateDependencyKind, name, from string) view.R3TemplateDependency {
	var typ output.OutputExpression = output.Variable(name)
	if from != "" {
		typ = output.ImportExpr(&output.ExternalReference{ModuleName: from, Name: name})
	}
	return view.R3TemplateDependency{Kind: kind, Type: typ, ImportedFrom: from}
}

func publicName(name, alias string) string {
	if alias != "" {
		return alias
	}
	return name
}

// relativeTo rewrites references to local components as module specifiers
// relative to the importing module.
func relativeTo(deps []view.R3TemplateDependencyMetadata, importer string, locals map[string]bool) []view.R3TemplateDependencyMetadata {
	result := make([]view.R3TemplateDependencyMetadata, len(deps))
	for i, dep := range deps {
		result[i] = dep
		directive, ok := dep.(*view.R3DirectiveDependencyMetadata)
		if !ok || !locals[directive.ImportedFrom] {
			continue
		}
		spec := moduleSpecifier(importer, directive.ImportedFrom)
		clone := *directive
		clone.ImportedFrom = spec
		clone.Type = output.ImportExpr(&output.ExternalReference{ModuleName: spec, Name: typeName(directive.Type)})
		result[i] = &clone
	}
	return result
}

func typeName(expr output.OutputExpression) string {
	switch e := expr.(type) {
	case *output.ExternalExpr:
		return e.Value.Name
	case *output.ReadVarExpr:
		return e.Name
	}
	return ""
}

// moduleSpecifier returns the import path of target as seen from importer;
// both are slash separated and relative to the output directory.
func moduleSpecifier(importer, target string) string {
	rel := relPath(path.Dir(importer), target)
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}

func relPath(from, to string) string {
	fromParts := splitPath(from)
	toParts := splitPath(to)
	i := 0
	for i < len(fromParts) && i < len(toParts)-1 && fromParts[i] == toParts[i] {
		i++
	}
	var parts []string
	for range fromParts[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[i:]...)
	return path.Join(parts...)
}

func splitPath(p string) []string {
	p = path.Clean(p)
	if p == "." || p == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}
