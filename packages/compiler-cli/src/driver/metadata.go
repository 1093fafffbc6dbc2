package driver

import (
	"ngc-ir/packages/compiler/src/config"
	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template_parser"
)

// componentMetadata describes m for the pipeline. deps are the resolved
// imports of m.
func componentMetadata(m *config.ComponentManifest, cfg *config.CompilerConfig, parsed *template_parser.ParsedTemplate, styles []string, deps []view.R3TemplateDependencyMetadata) (*view.R3ComponentMetadata, error) {
	encapsulationName := m.Encapsulation
	if encapsulationName == "" {
		encapsulationName = cfg.Compiler.DefaultEncapsulation
	}
	encapsulation, _ := core.ParseViewEncapsulation(encapsulationName)
	changeDetection, err := m.ChangeDetectionStrategy()
	if err != nil {
		return nil, err
	}
	emitMode, err := cfg.DeclarationListEmitMode()
	if err != nil {
		return nil, err
	}

	meta := &view.R3ComponentMetadata{
		Name:     m.Name,
		Type:     output.Variable(m.Name),
		Selector: m.Selector,
		Template: view.R3ComponentTemplateMetadata{
			Nodes: parsed.Nodes,
			File:  parsed.File,
		},
		Declarations:            deps,
		DeclarationListEmitMode: emitMode,
		Styles:                  append(append([]string(nil), styles...), parsed.Styles...),
		Encapsulation:           encapsulation,
		ChangeDetection:         &changeDetection,
		Queries:                 queries(m.Queries),
		ViewQueries:             queries(m.ViewQueries),
		Host:                    host(m.Host),
		ExportAs:                m.ExportAs,
		UsesInheritance:         m.UsesInheritance,
		IsStandalone:            m.IsStandalone(),
		IsSignal:                m.Signals,
	}

	for _, input := range m.Inputs {
		in := view.R3InputMetadata{
			ClassPropertyName:   input.Name,
			BindingPropertyName: publicName(input.Name, input.Alias),
			Required:            input.Required,
			IsSignal:            input.Signal,
		}
		if input.Transform != "" {
			in.TransformFunction = output.Variable(input.Transform)
		}
		meta.Inputs = append(meta.Inputs, in)
	}
	for _, out := range m.Outputs {
		meta.Outputs = append(meta.Outputs, view.R3OutputMetadata{
			ClassPropertyName:   out.Name,
			BindingPropertyName: publicName(out.Name, out.Alias),
		})
	}
	if len(m.Providers) > 0 {
		providers := make([]output.OutputExpression, len(m.Providers))
		for i, name := range m.Providers {
			providers[i] = output.Variable(name)
		}
		meta.Providers = output.LiteralArr(providers...)
	}
	return meta, nil
}

func queries(manifests []config.QueryManifest) []view.R3QueryMetadata {
	var result []view.R3QueryMetadata
	for _, q := range manifests {
		query := view.R3QueryMetadata{
			PropertyName:            q.Property,
			First:                   q.First,
			PredicateSelectors:      q.Selectors,
			Descendants:             q.Descendants,
			EmitDistinctChangesOnly: q.EmitDistinctChangesOnly == nil || *q.EmitDistinctChangesOnly,
			Static:                  q.Static,
			IsSignal:                q.Signal,
		}
		if q.Predicate != "" {
			query.PredicateType = output.Variable(q.Predicate)
		}
		if q.Read != "" {
			query.Read = output.Variable(q.Read)
		}
		result = append(result, query)
	}
	return result
}

func host(m config.HostManifest) view.R3HostMetadata {
	var h view.R3HostMetadata
	for _, attr := range m.Attributes {
		h.Attributes = append(h.Attributes, view.R3HostAttribute{Name: attr.Name, Value: attr.Value})
	}
	for _, l := range m.Listeners {
		h.Listeners = append(h.Listeners, view.R3HostBinding{Key: l.Key, Expression: l.Expression})
	}
	for _, p := range m.Properties {
		h.Properties = append(h.Properties, view.R3HostBinding{Key: p.Key, Expression: p.Expression})
	}
	return h
}
