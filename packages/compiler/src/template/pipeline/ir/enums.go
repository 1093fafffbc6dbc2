package ir

// OpKind distinguishes different kinds of IR operations
type OpKind int

const (
	// OpKindListEnd - the head and tail sentinels of an OpList
	OpKindListEnd OpKind = iota
	// OpKindStatement - wraps an output AST statement
	OpKindStatement
	// OpKindVariable - declares and initializes a SemanticVariable
	OpKindVariable
	// OpKindElementStart - begins rendering of an element
	OpKindElementStart
	// OpKindElement - renders an element with no children
	OpKindElement
	// OpKindElementEnd - ends an element previously started with ElementStart
	OpKindElementEnd
	// OpKindContainerStart - begins an `ng-container`
	OpKindContainerStart
	// OpKindContainer - an `ng-container` with no children
	OpKindContainer
	// OpKindContainerEnd - ends an `ng-container`
	OpKindContainerEnd
	// OpKindTemplate - declares an embedded view
	OpKindTemplate
	// OpKindConditionalCreate - declares the first branch of an `@if` or `@switch`
	OpKindConditionalCreate
	// OpKindConditionalBranchCreate - declares a subsequent branch of an `@if` or `@switch`
	OpKindConditionalBranchCreate
	// OpKindRepeaterCreate - declares the body (and optional empty view) of a `@for`
	OpKindRepeaterCreate
	// OpKindListener - declares an event listener for an element
	OpKindListener
	// OpKindText - renders a text node
	OpKindText
	// OpKindProjectionDef - configures the content projection definition of the view
	OpKindProjectionDef
	// OpKindProjection - creates a content projection slot
	OpKindProjection
	// OpKindNamespace - switches the active namespace
	OpKindNamespace
	// OpKindPipe - instantiates a pipe
	OpKindPipe
	// OpKindDeclareLet - initializes the slot of a `@let` declaration
	OpKindDeclareLet
	// OpKindExtractedAttribute - a static or bound name destined for an element's const array
	OpKindExtractedAttribute
	// OpKindDisableBindings - stops binding evaluation inside an `ngNonBindable` element
	OpKindDisableBindings
	// OpKindEnableBindings - resumes binding evaluation after an `ngNonBindable` element
	OpKindEnableBindings

	// OpKindProperty - binds an expression to a property of an element
	OpKindProperty
	// OpKindTwoWayProperty - the property side of a two-way binding
	OpKindTwoWayProperty
	// OpKindAttribute - binds an expression to an attribute of an element
	OpKindAttribute
	// OpKindClassProp - binds an expression to a single class
	OpKindClassProp
	// OpKindStyleProp - binds an expression to a single style property
	OpKindStyleProp
	// OpKindClassMap - binds an expression to the classes of an element
	OpKindClassMap
	// OpKindStyleMap - binds an expression to the styles of an element
	OpKindStyleMap
	// OpKindInterpolateText - interpolates text into a text node
	OpKindInterpolateText
	// OpKindConditional - selects the branch of a conditional to render
	OpKindConditional
	// OpKindRepeater - updates the collection of a repeater
	OpKindRepeater
	// OpKindAdvance - advances the runtime's implicit slot context
	OpKindAdvance
	// OpKindStoreLet - stores the current value of a `@let` declaration
	OpKindStoreLet
)

var opKindNames = [...]string{
	"ListEnd", "Statement", "Variable", "ElementStart", "Element", "ElementEnd",
	"ContainerStart", "Container", "ContainerEnd", "Template", "ConditionalCreate",
	"ConditionalBranchCreate", "RepeaterCreate", "Listener", "Text", "ProjectionDef",
	"Projection", "Namespace", "Pipe", "DeclareLet", "ExtractedAttribute", "DisableBindings", "EnableBindings", "Property", "TwoWayProperty",
	"Attribute", "ClassProp", "StyleProp", "ClassMap", "StyleMap", "InterpolateText",
	"Conditional", "Repeater", "Advance", "StoreLet",
}

func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return "Unknown"
}

// ExpressionKind distinguishes different kinds of IR expressions
type ExpressionKind int

const (
	// ExpressionKindLexicalRead - read of a variable in a lexical scope
	ExpressionKindLexicalRead ExpressionKind = iota
	// ExpressionKindContext - a reference to the context of a view
	ExpressionKindContext
	// ExpressionKindTrackContext - a reference to the view context inside a track function
	ExpressionKindTrackContext
	// ExpressionKindReadVariable - read of a variable declared in a VariableOp
	ExpressionKindReadVariable
	// ExpressionKindNextContext - navigates to an ancestor view context
	ExpressionKindNextContext
	// ExpressionKindReference - retrieves the value of a local reference
	ExpressionKindReference
	// ExpressionKindStoreLet - stores the value of a `@let` declaration
	ExpressionKindStoreLet
	// ExpressionKindContextLetReference - a `@let` declaration read from another view
	ExpressionKindContextLetReference
	// ExpressionKindGetCurrentView - snapshots the current view
	ExpressionKindGetCurrentView
	// ExpressionKindRestoreView - restores a snapshotted view
	ExpressionKindRestoreView
	// ExpressionKindResetView - resets the current view after RestoreView
	ExpressionKindResetView
	// ExpressionKindPipeBinding - binding to a pipe transformation
	ExpressionKindPipeBinding
	// ExpressionKindSafePropertyRead - `a?.b`, expanded into a null check
	ExpressionKindSafePropertyRead
	// ExpressionKindSafeKeyedRead - `a?.[b]`, expanded into a null check
	ExpressionKindSafeKeyedRead
	// ExpressionKindSafeInvokeFunction - `a?.()`, expanded into a null check
	ExpressionKindSafeInvokeFunction
	// ExpressionKindSafeTernary - intermediate form of an expanded safe read
	ExpressionKindSafeTernary
	// ExpressionKindEmpty - stripped before generating the final output
	ExpressionKindEmpty
	// ExpressionKindAssignTemporary - an assignment to a temporary variable
	ExpressionKindAssignTemporary
	// ExpressionKindReadTemporary - a read of a temporary variable
	ExpressionKindReadTemporary
	// ExpressionKindSlotLiteral - emits the literal index of a slot
	ExpressionKindSlotLiteral
	// ExpressionKindConditionalCase - a test expression of a conditional branch
	ExpressionKindConditionalCase
	// ExpressionKindTwoWayBindingSet - writes back the value of a two-way binding
	ExpressionKindTwoWayBindingSet
)

// VariableFlags describes flags for variables
type VariableFlags int

const (
	VariableFlagsNone VariableFlags = 0
	// VariableFlagsAlwaysInline - inline the variable at every use, regardless of count
	VariableFlagsAlwaysInline VariableFlags = 0b0001
)

// SemanticVariableKind distinguishes between different kinds of SemanticVariables
type SemanticVariableKind int

const (
	// SemanticVariableKindContext - the context of a particular view
	SemanticVariableKindContext SemanticVariableKind = iota
	// SemanticVariableKindIdentifier - an identifier declared in the lexical scope of a view
	SemanticVariableKindIdentifier
	// SemanticVariableKindSavedView - a saved state used to restore a view
	SemanticVariableKindSavedView
	// SemanticVariableKindAlias - an alias generated by a special embedded view type
	SemanticVariableKindAlias
)

// BindingKind is the kind of an element binding, used when collecting consts
type BindingKind int

const (
	BindingKindAttribute BindingKind = iota
	BindingKindClassName
	BindingKindStyleProperty
	BindingKindProperty
	BindingKindTemplate
	BindingKindTwoWayProperty
)

// Namespace is the active element namespace
type Namespace int

const (
	NamespaceHTML Namespace = iota
	NamespaceSVG
	NamespaceMath
)

// TemplateKind tells apart `<ng-template>`, structural templates and control flow blocks
type TemplateKind int

const (
	TemplateKindNgTemplate TemplateKind = iota
	TemplateKindStructural
	TemplateKindBlock
)

// VisitorContextFlag is passed to expression visitors and transforms
type VisitorContextFlag int

const (
	VisitorContextFlagNone VisitorContextFlag = 0
	// VisitorContextFlagInChildOperation - the expression lives in a listener
	// handler or a repeater track-by list, not in the op itself
	VisitorContextFlagInChildOperation VisitorContextFlag = 0b0001
)
