package ir

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/util"
)

// ConsumesSlotOpTrait marks an op which needs NumSlotsUsed data slots,
// starting at the slot of Handle. Xref is the entity stored in the slot.
type ConsumesSlotOpTrait struct {
	Handle       SlotHandle
	NumSlotsUsed int
	Xref         XrefId
}

// GetConsumesSlotTrait implements ConsumesSlot
func (t *ConsumesSlotOpTrait) GetConsumesSlotTrait() *ConsumesSlotOpTrait { return t }

// ConsumesSlot is implemented by every op occupying data slots
type ConsumesSlot interface {
	Op
	GetConsumesSlotTrait() *ConsumesSlotOpTrait
}

func slotTrait(xref XrefId, handle SlotHandle) ConsumesSlotOpTrait {
	return ConsumesSlotOpTrait{Handle: handle, NumSlotsUsed: 1, Xref: xref}
}

// LocalRef is a `#name="target"` reference declared on an element
type LocalRef struct {
	Name   string
	Target string
}

// ElementOrContainerOpBase is shared by elements, containers and templates
type ElementOrContainerOpBase struct {
	OpBase
	ConsumesSlotOpTrait

	// Index of the static attribute array in consts, set by const collection.
	Attributes *ConstIndex

	LocalRefs []LocalRef

	// Index of the flattened local refs in consts, set when refs are lifted.
	LocalRefsIndex *ConstIndex

	NonBindable bool

	StartSourceSpan *util.ParseSourceSpan
	SourceSpan      *util.ParseSourceSpan
}

// GetElementBase gives phases uniform access to element-like ops
func (o *ElementOrContainerOpBase) GetElementBase() *ElementOrContainerOpBase { return o }

// ElementOrContainerOp is implemented by element, container and template ops
type ElementOrContainerOp interface {
	CreateOp
	GetElementBase() *ElementOrContainerOpBase
}

func elementBase(xref XrefId, handle SlotHandle, start, whole *util.ParseSourceSpan) ElementOrContainerOpBase {
	return ElementOrContainerOpBase{
		ConsumesSlotOpTrait: slotTrait(xref, handle),
		StartSourceSpan:     start,
		SourceSpan:          whole,
	}
}

// ElementStartOp begins an element that has children
type ElementStartOp struct {
	ElementOrContainerOpBase
	Tag       string
	Namespace Namespace
}

func NewElementStartOp(tag string, xref XrefId, handle SlotHandle, namespace Namespace, start, whole *util.ParseSourceSpan) *ElementStartOp {
	return &ElementStartOp{
		ElementOrContainerOpBase: elementBase(xref, handle, start, whole),
		Tag:                      tag,
		Namespace:                namespace,
	}
}

func (*ElementStartOp) GetKind() OpKind { return OpKindElementStart }
func (*ElementStartOp) isCreateOp()     {}

// ElementOp is an element without children
type ElementOp struct {
	ElementOrContainerOpBase
	Tag       string
	Namespace Namespace
}

// NewElementOpFrom collapses an empty element's start op. The result is not
// linked into any list.
func NewElementOpFrom(start *ElementStartOp) *ElementOp {
	op := &ElementOp{ElementOrContainerOpBase: start.ElementOrContainerOpBase, Tag: start.Tag, Namespace: start.Namespace}
	op.OpBase = OpBase{}
	return op
}

func (*ElementOp) GetKind() OpKind { return OpKindElement }
func (*ElementOp) isCreateOp()     {}

// ElementEndOp closes the element Xref
type ElementEndOp struct {
	OpBase
	Xref       XrefId
	SourceSpan *util.ParseSourceSpan
}

func NewElementEndOp(xref XrefId, span *util.ParseSourceSpan) *ElementEndOp {
	return &ElementEndOp{Xref: xref, SourceSpan: span}
}

func (*ElementEndOp) GetKind() OpKind { return OpKindElementEnd }
func (*ElementEndOp) isCreateOp()     {}

// ContainerStartOp begins an `ng-container` that has children
type ContainerStartOp struct {
	ElementOrContainerOpBase
}

func NewContainerStartOp(xref XrefId, handle SlotHandle, start, whole *util.ParseSourceSpan) *ContainerStartOp {
	return &ContainerStartOp{ElementOrContainerOpBase: elementBase(xref, handle, start, whole)}
}

func (*ContainerStartOp) GetKind() OpKind { return OpKindContainerStart }
func (*ContainerStartOp) isCreateOp()     {}

// ContainerOp is an `ng-container` without children
type ContainerOp struct {
	ElementOrContainerOpBase
}

// NewContainerOpFrom collapses an empty container's start op. The result is
// not linked into any list.
func NewContainerOpFrom(start *ContainerStartOp) *ContainerOp {
	op := &ContainerOp{ElementOrContainerOpBase: start.ElementOrContainerOpBase}
	op.OpBase = OpBase{}
	return op
}

func (*ContainerOp) GetKind() OpKind { return OpKindContainer }
func (*ContainerOp) isCreateOp()     {}

// ContainerEndOp closes the container Xref
type ContainerEndOp struct {
	OpBase
	Xref       XrefId
	SourceSpan *util.ParseSourceSpan
}

func NewContainerEndOp(xref XrefId, span *util.ParseSourceSpan) *ContainerEndOp {
	return &ContainerEndOp{Xref: xref, SourceSpan: span}
}

func (*ContainerEndOp) GetKind() OpKind { return OpKindContainerEnd }
func (*ContainerEndOp) isCreateOp()     {}

// EmbeddedViewOpBase is shared by the ops declaring an embedded view. Xref is
// both the slot entity and the xref of the child view. Decls and Vars are
// copied from the child view by variable counting.
type EmbeddedViewOpBase struct {
	ElementOrContainerOpBase
	// Tag of the host element, "" when there is none.
	Tag                string
	Namespace          Namespace
	FunctionNameSuffix string
	Decls              int
	Vars               int
}

// GetEmbeddedViewBase gives phases uniform access to view-declaring ops
func (o *EmbeddedViewOpBase) GetEmbeddedViewBase() *EmbeddedViewOpBase { return o }

// EmbeddedViewOp is implemented by the ops declaring one embedded view
type EmbeddedViewOp interface {
	ElementOrContainerOp
	GetEmbeddedViewBase() *EmbeddedViewOpBase
}

// TemplateOp declares an `<ng-template>` or a structural template
type TemplateOp struct {
	EmbeddedViewOpBase
	TemplateKind TemplateKind
}

func NewTemplateOp(xref XrefId, handle SlotHandle, kind TemplateKind, tag string, suffix string, namespace Namespace, start, whole *util.ParseSourceSpan) *TemplateOp {
	return &TemplateOp{
		EmbeddedViewOpBase: EmbeddedViewOpBase{
			ElementOrContainerOpBase: elementBase(xref, handle, start, whole),
			Tag:                      tag,
			Namespace:                namespace,
			FunctionNameSuffix:       suffix,
		},
		TemplateKind: kind,
	}
}

func (*TemplateOp) GetKind() OpKind { return OpKindTemplate }
func (*TemplateOp) isCreateOp()     {}

// ConditionalCreateOp declares the first branch of an `@if` or `@switch`
type ConditionalCreateOp struct {
	EmbeddedViewOpBase
}

func NewConditionalCreateOp(xref XrefId, handle SlotHandle, tag string, suffix string, start, whole *util.ParseSourceSpan) *ConditionalCreateOp {
	return &ConditionalCreateOp{EmbeddedViewOpBase{
		ElementOrContainerOpBase: elementBase(xref, handle, start, whole),
		Tag:                      tag,
		FunctionNameSuffix:       suffix,
	}}
}

func (*ConditionalCreateOp) GetKind() OpKind { return OpKindConditionalCreate }
func (*ConditionalCreateOp) isCreateOp()     {}

// ConditionalBranchCreateOp declares a further branch of an `@if` or `@switch`
type ConditionalBranchCreateOp struct {
	EmbeddedViewOpBase
}

func NewConditionalBranchCreateOp(xref XrefId, handle SlotHandle, tag string, suffix string, start, whole *util.ParseSourceSpan) *ConditionalBranchCreateOp {
	return &ConditionalBranchCreateOp{EmbeddedViewOpBase{
		ElementOrContainerOpBase: elementBase(xref, handle, start, whole),
		Tag:                      tag,
		FunctionNameSuffix:       suffix,
	}}
}

func (*ConditionalBranchCreateOp) GetKind() OpKind { return OpKindConditionalBranchCreate }
func (*ConditionalBranchCreateOp) isCreateOp()     {}

// RepeaterVarNames are the names a `@for` body uses for its builtins
type RepeaterVarNames struct {
	// Every alias of `$index` (`$index` itself and `let i = $index`).
	DollarIndex []string
	// The loop item.
	DollarImplicit string
}

// RepeaterCreateOp declares the body of a `@for` (Xref) and its optional
// `@empty` view. It consumes two slots, three with an empty view.
type RepeaterCreateOp struct {
	EmbeddedViewOpBase

	// 0 when the loop has no `@empty` block; the root view is always xref 0.
	EmptyView       XrefId
	EmptyTag        string
	EmptyAttributes *ConstIndex
	EmptyDecls      int
	EmptyVars       int

	// The track expression as written.
	Track output.OutputExpression
	// The optimized track function, set by track function optimization.
	TrackByFn output.OutputExpression
	// Ops of a track function that could not be pooled as a pure function.
	TrackByOps *OpList
	// Whether the track function reads the component instance.
	UsesComponentInstance bool

	VarNames RepeaterVarNames
}

func NewRepeaterCreateOp(primaryView XrefId, handle SlotHandle, emptyView XrefId, tag string, track output.OutputExpression, varNames RepeaterVarNames, start, whole *util.ParseSourceSpan) *RepeaterCreateOp {
	op := &RepeaterCreateOp{
		EmbeddedViewOpBase: EmbeddedViewOpBase{
			ElementOrContainerOpBase: elementBase(primaryView, handle, start, whole),
			Tag:                      tag,
			FunctionNameSuffix:       "For",
		},
		EmptyView: emptyView,
		Track:     track,
		VarNames:  varNames,
	}
	op.NumSlotsUsed = 2
	if emptyView != 0 {
		op.NumSlotsUsed = 3
	}
	return op
}

func (*RepeaterCreateOp) GetKind() OpKind { return OpKindRepeaterCreate }
func (*RepeaterCreateOp) isCreateOp()     {}

// ListenerOp declares an event listener on the element Target. HandlerOps
// holds the handler body; the last op returns the handler's value.
type ListenerOp struct {
	OpBase
	Target     XrefId
	TargetSlot SlotHandle
	Tag        string
	Name       string
	// EventTarget is `window`, `document` or `body` for global listeners.
	EventTarget         string
	HostListener        bool
	IsTwoWay            bool
	HandlerOps          *OpList
	HandlerFnName       string
	ConsumesDollarEvent bool
	SourceSpan          *util.ParseSourceSpan
}

func NewListenerOp(target XrefId, targetSlot SlotHandle, name, tag string, handlerOps *OpList, eventTarget string, hostListener bool, span *util.ParseSourceSpan) *ListenerOp {
	return &ListenerOp{
		Target:       target,
		TargetSlot:   targetSlot,
		Tag:          tag,
		Name:         name,
		EventTarget:  eventTarget,
		HostListener: hostListener,
		HandlerOps:   handlerOps,
		SourceSpan:   span,
	}
}

// NewTwoWayListenerOp creates the event side of `[(name)]`
func NewTwoWayListenerOp(target XrefId, targetSlot SlotHandle, name, tag string, handlerOps *OpList, span *util.ParseSourceSpan) *ListenerOp {
	op := NewListenerOp(target, targetSlot, name, tag, handlerOps, "", false, span)
	op.IsTwoWay = true
	return op
}

func (*ListenerOp) GetKind() OpKind { return OpKindListener }
func (*ListenerOp) isCreateOp()     {}

// TextOp creates a text node
type TextOp struct {
	OpBase
	ConsumesSlotOpTrait
	InitialValue string
	SourceSpan   *util.ParseSourceSpan
}

func NewTextOp(xref XrefId, handle SlotHandle, initialValue string, span *util.ParseSourceSpan) *TextOp {
	return &TextOp{ConsumesSlotOpTrait: slotTrait(xref, handle), InitialValue: initialValue, SourceSpan: span}
}

func (*TextOp) GetKind() OpKind { return OpKindText }
func (*TextOp) isCreateOp()     {}

// ProjectionDefOp declares the projection slots of the component. Def is
// nil when the only selector is the wildcard.
type ProjectionDefOp struct {
	OpBase
	Def output.OutputExpression
}

func NewProjectionDefOp(def output.OutputExpression) *ProjectionDefOp {
	return &ProjectionDefOp{Def: def}
}

func (*ProjectionDefOp) GetKind() OpKind { return OpKindProjectionDef }
func (*ProjectionDefOp) isCreateOp()     {}

// ProjectionOp is an `<ng-content>`. SourceOrder is the job-wide position of
// the projection in the template; ProjectionSlotIndex is derived from it.
type ProjectionOp struct {
	OpBase
	ConsumesSlotOpTrait
	ProjectionSlotIndex int
	Selector            string
	SourceOrder         int
	// Static attributes of the `<ng-content>`, as consts.
	Attributes output.OutputExpression
	SourceSpan *util.ParseSourceSpan
}

func NewProjectionOp(xref XrefId, handle SlotHandle, selector string, sourceOrder int, span *util.ParseSourceSpan) *ProjectionOp {
	return &ProjectionOp{
		ConsumesSlotOpTrait: slotTrait(xref, handle),
		Selector:            selector,
		SourceOrder:         sourceOrder,
		SourceSpan:          span,
	}
}

func (*ProjectionOp) GetKind() OpKind { return OpKindProjection }
func (*ProjectionOp) isCreateOp()     {}

// NamespaceOp switches the namespace of subsequently created elements
type NamespaceOp struct {
	OpBase
	Active Namespace
}

func NewNamespaceOp(active Namespace) *NamespaceOp {
	return &NamespaceOp{Active: active}
}

func (*NamespaceOp) GetKind() OpKind { return OpKindNamespace }
func (*NamespaceOp) isCreateOp()     {}

// PipeOp instantiates the pipe Name
type PipeOp struct {
	OpBase
	ConsumesSlotOpTrait
	Name string
}

func NewPipeOp(xref XrefId, handle SlotHandle, name string) *PipeOp {
	return &PipeOp{ConsumesSlotOpTrait: slotTrait(xref, handle), Name: name}
}

func (*PipeOp) GetKind() OpKind { return OpKindPipe }
func (*PipeOp) isCreateOp()     {}

// DisableBindingsOp turns off binding evaluation for the descendants of
// the `ngNonBindable` element Xref
type DisableBindingsOp struct {
	OpBase
	Xref XrefId
}

func NewDisableBindingsOp(xref XrefId) *DisableBindingsOp {
	return &DisableBindingsOp{Xref: xref}
}

func (*DisableBindingsOp) GetKind() OpKind { return OpKindDisableBindings }
func (*DisableBindingsOp) isCreateOp()     {}

// EnableBindingsOp ends the non-bindable region opened for Xref
type EnableBindingsOp struct {
	OpBase
	Xref XrefId
}

func NewEnableBindingsOp(xref XrefId) *EnableBindingsOp {
	return &EnableBindingsOp{Xref: xref}
}

func (*EnableBindingsOp) GetKind() OpKind { return OpKindEnableBindings }
func (*EnableBindingsOp) isCreateOp()     {}

// DeclareLetOp reserves the slot of a `@let` declaration
type DeclareLetOp struct {
	OpBase
	ConsumesSlotOpTrait
	DeclaredName string
	SourceSpan   *util.ParseSourceSpan
}

func NewDeclareLetOp(xref XrefId, handle SlotHandle, declaredName string, span *util.ParseSourceSpan) *DeclareLetOp {
	return &DeclareLetOp{ConsumesSlotOpTrait: slotTrait(xref, handle), DeclaredName: declaredName, SourceSpan: span}
}

func (*DeclareLetOp) GetKind() OpKind { return OpKindDeclareLet }
func (*DeclareLetOp) isCreateOp()     {}

// ExtractedAttributeOp records a name that belongs in the const array of
// the element Target. Expression is the static value of text attributes and
// nil for bindings. Const collection consumes and removes these ops.
type ExtractedAttributeOp struct {
	OpBase
	Target      XrefId
	BindingKind BindingKind
	Namespace   string
	Name        string
	Expression  output.OutputExpression
}

func NewExtractedAttributeOp(target XrefId, kind BindingKind, namespace, name string, expression output.OutputExpression) *ExtractedAttributeOp {
	return &ExtractedAttributeOp{Target: target, BindingKind: kind, Namespace: namespace, Name: name, Expression: expression}
}

func (*ExtractedAttributeOp) GetKind() OpKind { return OpKindExtractedAttribute }
func (*ExtractedAttributeOp) isCreateOp()     {}
