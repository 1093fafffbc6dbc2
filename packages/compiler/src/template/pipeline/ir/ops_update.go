package ir

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/util"
)

// DependsOnSlotContextOpTrait marks an update op which runs with the
// runtime's implicit slot context selecting Target.
type DependsOnSlotContextOpTrait struct {
	Target     XrefId
	SourceSpan *util.ParseSourceSpan
}

// GetDependsOnSlotContextTrait implements DependsOnSlotContext
func (t *DependsOnSlotContextOpTrait) GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait {
	return t
}

// DependsOnSlotContext is implemented by ops that need an advance() to
// their target before they run
type DependsOnSlotContext interface {
	Op
	GetDependsOnSlotContextTrait() *DependsOnSlotContextOpTrait
}

func slotContext(target XrefId, span *util.ParseSourceSpan) DependsOnSlotContextOpTrait {
	return DependsOnSlotContextOpTrait{Target: target, SourceSpan: span}
}

// Interpolation is `s0{{e0}}s1...`. Strings always holds one more entry than
// Expressions.
type Interpolation struct {
	Strings     []string
	Expressions []output.OutputExpression
}

func NewInterpolation(strings []string, expressions []output.OutputExpression) *Interpolation {
	if len(strings) != len(expressions)+1 {
		panic(NewInternalError("interpolation with %d strings and %d expressions", len(strings), len(expressions)))
	}
	return &Interpolation{Strings: strings, Expressions: expressions}
}

// IsSingleExpression reports `{{e}}` with nothing around it
func (i *Interpolation) IsSingleExpression() bool {
	return len(i.Expressions) == 1 && i.Strings[0] == "" && i.Strings[1] == ""
}

// PropertyOp binds Expression, or Interpolation, to the property Name
type PropertyOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	Name          string
	Expression    output.OutputExpression
	Interpolation *Interpolation
	// Set for bindings produced by a structural directive's microsyntax.
	IsStructuralTemplateAttribute bool
	TemplateKind                  TemplateKind
	BindingKind                   BindingKind
	// Runtime sanitizer applied to the value, set by sanitizer resolution.
	Sanitizer output.OutputExpression
}

func NewPropertyOp(target XrefId, name string, expression output.OutputExpression, interpolation *Interpolation, span *util.ParseSourceSpan) *PropertyOp {
	return &PropertyOp{
		DependsOnSlotContextOpTrait: slotContext(target, span),
		Name:                        name,
		Expression:                  expression,
		Interpolation:               interpolation,
		BindingKind:                 BindingKindProperty,
	}
}

func (*PropertyOp) GetKind() OpKind { return OpKindProperty }
func (*PropertyOp) isUpdateOp()     {}

// TwoWayPropertyOp is the property side of `[(name)]`
type TwoWayPropertyOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	Name       string
	Expression output.OutputExpression
}

func NewTwoWayPropertyOp(target XrefId, name string, expression output.OutputExpression, span *util.ParseSourceSpan) *TwoWayPropertyOp {
	return &TwoWayPropertyOp{DependsOnSlotContextOpTrait: slotContext(target, span), Name: name, Expression: expression}
}

func (*TwoWayPropertyOp) GetKind() OpKind { return OpKindTwoWayProperty }
func (*TwoWayPropertyOp) isUpdateOp()     {}

// AttributeOp binds an attribute
type AttributeOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	Name          string
	Namespace     string
	Expression    output.OutputExpression
	Interpolation *Interpolation
	Sanitizer     output.OutputExpression
}

func NewAttributeOp(target XrefId, namespace, name string, expression output.OutputExpression, interpolation *Interpolation, span *util.ParseSourceSpan) *AttributeOp {
	return &AttributeOp{
		DependsOnSlotContextOpTrait: slotContext(target, span),
		Name:                        name,
		Namespace:                   namespace,
		Expression:                  expression,
		Interpolation:               interpolation,
	}
}

func (*AttributeOp) GetKind() OpKind { return OpKindAttribute }
func (*AttributeOp) isUpdateOp()     {}

// ClassPropOp toggles the class Name
type ClassPropOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	Name       string
	Expression output.OutputExpression
}

func NewClassPropOp(target XrefId, name string, expression output.OutputExpression, span *util.ParseSourceSpan) *ClassPropOp {
	return &ClassPropOp{DependsOnSlotContextOpTrait: slotContext(target, span), Name: name, Expression: expression}
}

func (*ClassPropOp) GetKind() OpKind { return OpKindClassProp }
func (*ClassPropOp) isUpdateOp()     {}

// StylePropOp binds the style property Name, with an optional Unit
type StylePropOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	Name       string
	Expression output.OutputExpression
	Unit       string
}

func NewStylePropOp(target XrefId, name string, expression output.OutputExpression, unit string, span *util.ParseSourceSpan) *StylePropOp {
	return &StylePropOp{DependsOnSlotContextOpTrait: slotContext(target, span), Name: name, Expression: expression, Unit: unit}
}

func (*StylePropOp) GetKind() OpKind { return OpKindStyleProp }
func (*StylePropOp) isUpdateOp()     {}

// ClassMapOp binds `[class]`, or an interpolated `class` attribute
type ClassMapOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	Expression    output.OutputExpression
	Interpolation *Interpolation
}

func NewClassMapOp(target XrefId, expression output.OutputExpression, span *util.ParseSourceSpan) *ClassMapOp {
	return &ClassMapOp{DependsOnSlotContextOpTrait: slotContext(target, span), Expression: expression}
}

func (*ClassMapOp) GetKind() OpKind { return OpKindClassMap }
func (*ClassMapOp) isUpdateOp()     {}

// StyleMapOp binds `[style]`, or an interpolated `style` attribute
type StyleMapOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	Expression    output.OutputExpression
	Interpolation *Interpolation
}

func NewStyleMapOp(target XrefId, expression output.OutputExpression, span *util.ParseSourceSpan) *StyleMapOp {
	return &StyleMapOp{DependsOnSlotContextOpTrait: slotContext(target, span), Expression: expression}
}

func (*StyleMapOp) GetKind() OpKind { return OpKindStyleMap }
func (*StyleMapOp) isUpdateOp()     {}

// InterpolateTextOp updates the text node Target
type InterpolateTextOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	Interpolation *Interpolation
}

func NewInterpolateTextOp(target XrefId, interpolation *Interpolation, span *util.ParseSourceSpan) *InterpolateTextOp {
	return &InterpolateTextOp{DependsOnSlotContextOpTrait: slotContext(target, span), Interpolation: interpolation}
}

func (*InterpolateTextOp) GetKind() OpKind { return OpKindInterpolateText }
func (*InterpolateTextOp) isUpdateOp()     {}

// ConditionalOp picks the branch of an `@if` or `@switch`. Target is the
// first branch. Test is the `@switch` subject, nil for `@if`. Processed is
// the single test expression built from Conditions.
type ConditionalOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	TargetSlot   SlotHandle
	Test         output.OutputExpression
	Conditions   []*ConditionalCaseExpr
	Processed    output.OutputExpression
	ContextValue output.OutputExpression
}

func NewConditionalOp(target XrefId, targetSlot SlotHandle, test output.OutputExpression, conditions []*ConditionalCaseExpr, span *util.ParseSourceSpan) *ConditionalOp {
	return &ConditionalOp{
		DependsOnSlotContextOpTrait: slotContext(target, span),
		TargetSlot:                  targetSlot,
		Test:                        test,
		Conditions:                  conditions,
	}
}

func (*ConditionalOp) GetKind() OpKind { return OpKindConditional }
func (*ConditionalOp) isUpdateOp()     {}

// RepeaterOp feeds Collection to the repeater Target
type RepeaterOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	TargetSlot SlotHandle
	Collection output.OutputExpression
}

func NewRepeaterOp(target XrefId, targetSlot SlotHandle, collection output.OutputExpression, span *util.ParseSourceSpan) *RepeaterOp {
	return &RepeaterOp{DependsOnSlotContextOpTrait: slotContext(target, span), TargetSlot: targetSlot, Collection: collection}
}

func (*RepeaterOp) GetKind() OpKind { return OpKindRepeater }
func (*RepeaterOp) isUpdateOp()     {}

// AdvanceOp moves the implicit slot context Delta slots forward
type AdvanceOp struct {
	OpBase
	Delta      int
	SourceSpan *util.ParseSourceSpan
}

func NewAdvanceOp(delta int, span *util.ParseSourceSpan) *AdvanceOp {
	return &AdvanceOp{Delta: delta, SourceSpan: span}
}

func (*AdvanceOp) GetKind() OpKind { return OpKindAdvance }
func (*AdvanceOp) isUpdateOp()     {}

// StoreLetOp stores the value of the `@let` declaration Target
type StoreLetOp struct {
	OpBase
	DependsOnSlotContextOpTrait
	DeclaredName string
	Value        output.OutputExpression
}

func NewStoreLetOp(target XrefId, declaredName string, value output.OutputExpression, span *util.ParseSourceSpan) *StoreLetOp {
	return &StoreLetOp{DependsOnSlotContextOpTrait: slotContext(target, span), DeclaredName: declaredName, Value: value}
}

func (*StoreLetOp) GetKind() OpKind { return OpKindStoreLet }
func (*StoreLetOp) isUpdateOp()     {}
