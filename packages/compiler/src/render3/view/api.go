package view

import (
	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3"
	"ngc-ir/packages/compiler/src/util"
)

// DeclarationListEmitMode specifies how a list of declaration type references should be emitted into the generated code.
type DeclarationListEmitMode int

const (
	// DeclarationListEmitModeDirect - The list of declarations is emitted into the generated code as is.
	// ```ts
	// dependencies: [MyDir],
	// ```
	DeclarationListEmitModeDirect DeclarationListEmitMode = iota

	// DeclarationListEmitModeClosure - The list of declarations is wrapped inside a closure, which
	// is needed when at least one declaration is a forward reference.
	// ```ts
	// dependencies: () => [MyDir, ForwardDir],
	// ```
	DeclarationListEmitModeClosure
)

// R3TemplateDependencyKind represents the kind of template dependency
type R3TemplateDependencyKind int

const (
	R3TemplateDependencyKindDirective R3TemplateDependencyKind = iota
	R3TemplateDependencyKindPipe
	R3TemplateDependencyKindNgModule
)

func (k R3TemplateDependencyKind) String() string {
	switch k {
	case R3TemplateDependencyKindDirective:
		return "directive"
	case R3TemplateDependencyKindPipe:
		return "pipe"
	}
	return "module"
}

// R3ComponentMetadata contains information needed to compile a component for the render3 runtime.
type R3ComponentMetadata struct {
	// Name of the component type.
	Name string

	// An expression representing a reference to the component class.
	Type output.OutputExpression

	// Unparsed selector of the component; empty when there is none.
	Selector string

	// Information about the component's template.
	Template R3ComponentTemplateMetadata

	// Directives, pipes and modules visible to the template. UsedDependencies
	// of a compilation refers to positions in this list.
	Declarations []R3TemplateDependencyMetadata

	// Specifies how the `dependencies` array, if generated, needs to be emitted.
	DeclarationListEmitMode DeclarationListEmitMode

	// Styles scoped to the component.
	Styles []string

	// An encapsulation policy for the component's styling.
	Encapsulation core.ViewEncapsulation

	// Strategy used for detecting changes in the component. nil means
	// the runtime default.
	ChangeDetection *core.ChangeDetectionStrategy

	// Information about the content queries made by the component.
	Queries []R3QueryMetadata

	// Information about the view queries made by the component.
	ViewQueries []R3QueryMetadata

	// Mappings indicating how the component interacts with its host element.
	Host R3HostMetadata

	// Inputs in declaration order.
	Inputs []R3InputMetadata

	// Outputs in declaration order.
	Outputs []R3OutputMetadata

	// Names under which the component is exported in templates.
	ExportAs []string

	// The providers expression, or nil.
	Providers output.OutputExpression

	// Whether the component class extends another decorated class.
	UsesInheritance bool

	IsStandalone bool
	IsSignal     bool
}

// R3ComponentTemplateMetadata contains information about the component's template.
type R3ComponentTemplateMetadata struct {
	// Parsed nodes of the template.
	Nodes []render3.Node

	// Source file the nodes were parsed from; used for diagnostics spans.
	File *util.ParseSourceFile
}

// R3InputMetadata contains metadata for an individual input on a directive.
type R3InputMetadata struct {
	ClassPropertyName   string
	BindingPropertyName string
	Required            bool
	IsSignal            bool
	// Transform function for the input, or nil.
	TransformFunction output.OutputExpression
}

// R3OutputMetadata maps a class property to the public event name.
type R3OutputMetadata struct {
	ClassPropertyName   string
	BindingPropertyName string
}

// R3TemplateDependencyMetadata is one entry of R3ComponentMetadata.Declarations.
type R3TemplateDependencyMetadata interface {
	Dependency() *R3TemplateDependency
}

// R3TemplateDependency is a dependency that's used within a component template.
type R3TemplateDependency struct {
	Kind R3TemplateDependencyKind

	// The type of the dependency as an expression.
	Type output.OutputExpression

	// Module the dependency is imported from, e.g. `@angular/common`.
	ImportedFrom string

	// Span of the dependency in the component's imports, for diagnostics.
	SourceSpan *util.ParseSourceSpan
}

// Dependency implements R3TemplateDependencyMetadata
func (d *R3TemplateDependency) Dependency() *R3TemplateDependency { return d }

// R3DirectiveDependencyMetadata contains information about a directive that is used in a component template.
type R3DirectiveDependencyMetadata struct {
	R3TemplateDependency

	// The selector of the directive.
	Selector string

	// The binding property names of the inputs of the directive.
	Inputs []string

	// The binding property names of the outputs of the directive.
	Outputs []string

	// Names under which the directive is exported, if any.
	ExportAs []string

	// If true then this directive is actually a component.
	IsComponent bool
}

// R3PipeDependencyMetadata contains information about a pipe that is used in a component template.
type R3PipeDependencyMetadata struct {
	R3TemplateDependency

	Name string
}

// R3NgModuleDependencyMetadata contains information about an NgModule that is used in a component template.
type R3NgModuleDependencyMetadata struct {
	R3TemplateDependency
}

// R3QueryMetadata contains information needed to compile a query (view or content).
type R3QueryMetadata struct {
	// Name of the property on the class to update with query results.
	PropertyName string

	// Whether to read only the first matching result, or an array of results.
	First bool

	// String selectors the query matches. Used when PredicateType is nil.
	PredicateSelectors []string

	// An expression for a type or `InjectionToken` predicate, or nil.
	PredicateType output.OutputExpression

	// Whether to include only direct children or all descendants.
	Descendants bool

	// Fire change events only when the result actually changed.
	EmitDistinctChangesOnly bool

	// Type to read from each matched node, or nil for the default.
	Read output.OutputExpression

	// Whether or not this query should collect only static results.
	// For signal-based queries this has no effect.
	Static bool

	// Whether the query is signal-based.
	IsSignal bool
}

// R3HostMetadata contains mappings indicating how the class interacts with its
// host element (host bindings, listeners, etc). Entries keep declaration
// order so the emitted code is stable.
type R3HostMetadata struct {
	// Static attributes, `role="button"`.
	Attributes []R3HostAttribute

	// Event bindings: key is `click` or `window:resize`, value the handler.
	Listeners []R3HostBinding

	// Property bindings: key is `title`, `attr.x`, `class.x` or `style.x`.
	Properties []R3HostBinding
}

// R3HostAttribute is a static host attribute
type R3HostAttribute struct {
	Name  string
	Value string
}

// R3HostBinding is an unparsed host property or listener binding
type R3HostBinding struct {
	Key        string
	Expression string
}

// IsEmpty reports whether the host metadata declares nothing.
func (h *R3HostMetadata) IsEmpty() bool {
	return len(h.Attributes) == 0 && len(h.Listeners) == 0 && len(h.Properties) == 0
}
