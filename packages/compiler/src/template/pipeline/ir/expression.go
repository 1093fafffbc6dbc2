package ir

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/util"
)

// ExpressionTransform converts one expression into another. Transforms are
// applied bottom-up by TransformExpressionsInExpression.
type ExpressionTransform func(expr output.OutputExpression, flags VisitorContextFlag) output.OutputExpression

// Expression is a logical IR expression. IR expressions live inside output
// ASTs until reification replaces them; printing one is a pipeline bug.
type Expression interface {
	output.OutputExpression
	GetExprKind() ExpressionKind
	// TransformInternalExpressions runs transform over the nested
	// expressions, replacing them in place.
	TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag)
	isIrExpression()
}

// ExpressionBase implements the parts of Expression every IR expression shares
type ExpressionBase struct {
	output.ExpressionBase
}

// VisitExpression panics: IR expressions are never printed
func (e *ExpressionBase) VisitExpression(output.ExpressionVisitor, interface{}) interface{} {
	panic(NewInternalError("IR expressions must be reified before printing"))
}

// IsConstant returns false
func (e *ExpressionBase) IsConstant() bool { return false }

// TransformInternalExpressions does nothing for leaf expressions
func (e *ExpressionBase) TransformInternalExpressions(ExpressionTransform, VisitorContextFlag) {}

func (e *ExpressionBase) isIrExpression() {}

func spanned(span *util.ParseSourceSpan) ExpressionBase {
	return ExpressionBase{output.ExpressionBase{SourceSpan: span}}
}

// IsIrExpression checks whether expr is a logical IR expression
func IsIrExpression(expr output.OutputExpression) bool {
	_, ok := expr.(Expression)
	return ok
}

// LexicalReadExpr is a read of a name in the template's lexical scope
type LexicalReadExpr struct {
	ExpressionBase
	Name string
}

func NewLexicalReadExpr(name string, span *util.ParseSourceSpan) *LexicalReadExpr {
	return &LexicalReadExpr{ExpressionBase: spanned(span), Name: name}
}

func (e *LexicalReadExpr) GetExprKind() ExpressionKind { return ExpressionKindLexicalRead }

func (e *LexicalReadExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*LexicalReadExpr)
	return ok && e.Name == o.Name
}

func (e *LexicalReadExpr) Clone() output.OutputExpression {
	return NewLexicalReadExpr(e.Name, e.SourceSpan)
}

// ReferenceExpr retrieves the value of a local reference. Offset is the
// position of the reference among the refs of its target element.
type ReferenceExpr struct {
	ExpressionBase
	Target     XrefId
	TargetSlot SlotHandle
	Offset     int
}

func NewReferenceExpr(target XrefId, targetSlot SlotHandle, offset int) *ReferenceExpr {
	return &ReferenceExpr{Target: target, TargetSlot: targetSlot, Offset: offset}
}

func (e *ReferenceExpr) GetExprKind() ExpressionKind { return ExpressionKindReference }

func (e *ReferenceExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*ReferenceExpr)
	return ok && e.Target == o.Target && e.Offset == o.Offset
}

func (e *ReferenceExpr) Clone() output.OutputExpression {
	return NewReferenceExpr(e.Target, e.TargetSlot, e.Offset)
}

// ContextExpr is the context object of a view
type ContextExpr struct {
	ExpressionBase
	View XrefId
}

func NewContextExpr(view XrefId) *ContextExpr {
	return &ContextExpr{View: view}
}

func (e *ContextExpr) GetExprKind() ExpressionKind { return ExpressionKindContext }

func (e *ContextExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*ContextExpr)
	return ok && e.View == o.View
}

func (e *ContextExpr) Clone() output.OutputExpression { return NewContextExpr(e.View) }

// TrackContextExpr is the component context as seen from a track function
type TrackContextExpr struct {
	ExpressionBase
	View XrefId
}

func NewTrackContextExpr(view XrefId) *TrackContextExpr {
	return &TrackContextExpr{View: view}
}

func (e *TrackContextExpr) GetExprKind() ExpressionKind { return ExpressionKindTrackContext }

func (e *TrackContextExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*TrackContextExpr)
	return ok && e.View == o.View
}

func (e *TrackContextExpr) Clone() output.OutputExpression { return NewTrackContextExpr(e.View) }

// NextContextExpr steps Steps views up the runtime's context stack
type NextContextExpr struct {
	ExpressionBase
	Steps int
}

func NewNextContextExpr(steps int) *NextContextExpr {
	return &NextContextExpr{Steps: steps}
}

func (e *NextContextExpr) GetExprKind() ExpressionKind { return ExpressionKindNextContext }

func (e *NextContextExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*NextContextExpr)
	return ok && e.Steps == o.Steps
}

func (e *NextContextExpr) Clone() output.OutputExpression { return NewNextContextExpr(e.Steps) }

// GetCurrentViewExpr snapshots the current view so a listener can restore it
type GetCurrentViewExpr struct {
	ExpressionBase
}

func NewGetCurrentViewExpr() *GetCurrentViewExpr { return &GetCurrentViewExpr{} }

func (e *GetCurrentViewExpr) GetExprKind() ExpressionKind { return ExpressionKindGetCurrentView }

func (e *GetCurrentViewExpr) IsEquivalent(other output.OutputExpression) bool {
	_, ok := other.(*GetCurrentViewExpr)
	return ok
}

func (e *GetCurrentViewExpr) Clone() output.OutputExpression { return NewGetCurrentViewExpr() }

// RestoreViewExpr restores a snapshotted view. View names the view until
// name resolution replaces it with Expr, a read of the saved view variable.
type RestoreViewExpr struct {
	ExpressionBase
	View XrefId
	Expr output.OutputExpression
}

func NewRestoreViewExpr(view XrefId) *RestoreViewExpr {
	return &RestoreViewExpr{View: view}
}

func (e *RestoreViewExpr) GetExprKind() ExpressionKind { return ExpressionKindRestoreView }

func (e *RestoreViewExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*RestoreViewExpr)
	if !ok || e.View != o.View {
		return false
	}
	return output.NullSafeIsEquivalent(e.Expr, o.Expr)
}

func (e *RestoreViewExpr) Clone() output.OutputExpression {
	clone := NewRestoreViewExpr(e.View)
	if e.Expr != nil {
		clone.Expr = e.Expr.Clone()
	}
	return clone
}

func (e *RestoreViewExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	if e.Expr != nil {
		e.Expr = TransformExpressionsInExpression(e.Expr, transform, flags)
	}
}

// ResetViewExpr resets the current view after a restore, returning Expr
type ResetViewExpr struct {
	ExpressionBase
	Expr output.OutputExpression
}

func NewResetViewExpr(expr output.OutputExpression) *ResetViewExpr {
	return &ResetViewExpr{Expr: expr}
}

func (e *ResetViewExpr) GetExprKind() ExpressionKind { return ExpressionKindResetView }

func (e *ResetViewExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*ResetViewExpr)
	return ok && e.Expr.IsEquivalent(o.Expr)
}

func (e *ResetViewExpr) Clone() output.OutputExpression { return NewResetViewExpr(e.Expr.Clone()) }

func (e *ResetViewExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	e.Expr = TransformExpressionsInExpression(e.Expr, transform, flags)
}

// ReadVariableExpr reads the variable declared by the VariableOp with Xref.
// Name is filled in by the naming phase.
type ReadVariableExpr struct {
	ExpressionBase
	Xref XrefId
	Name string
}

func NewReadVariableExpr(xref XrefId) *ReadVariableExpr {
	return &ReadVariableExpr{Xref: xref}
}

func (e *ReadVariableExpr) GetExprKind() ExpressionKind { return ExpressionKindReadVariable }

func (e *ReadVariableExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*ReadVariableExpr)
	return ok && e.Xref == o.Xref
}

func (e *ReadVariableExpr) Clone() output.OutputExpression {
	return &ReadVariableExpr{Xref: e.Xref, Name: e.Name}
}

// PipeBindingExpr applies the pipe instantiated in TargetSlot to Args.
// VarOffset is computed by variable counting.
type PipeBindingExpr struct {
	ExpressionBase
	Target     XrefId
	TargetSlot SlotHandle
	Name       string
	Args       []output.OutputExpression
	VarOffset  int
}

func NewPipeBindingExpr(target XrefId, targetSlot SlotHandle, name string, args []output.OutputExpression) *PipeBindingExpr {
	return &PipeBindingExpr{Target: target, TargetSlot: targetSlot, Name: name, Args: args}
}

func (e *PipeBindingExpr) GetExprKind() ExpressionKind { return ExpressionKindPipeBinding }

func (e *PipeBindingExpr) IsEquivalent(other output.OutputExpression) bool {
	return false
}

func (e *PipeBindingExpr) Clone() output.OutputExpression {
	clone := NewPipeBindingExpr(e.Target, e.TargetSlot, e.Name, output.CloneAll(e.Args))
	clone.VarOffset = e.VarOffset
	return clone
}

func (e *PipeBindingExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	for i, arg := range e.Args {
		e.Args[i] = TransformExpressionsInExpression(arg, transform, flags)
	}
}

// SafePropertyReadExpr is `receiver?.name`
type SafePropertyReadExpr struct {
	ExpressionBase
	Receiver output.OutputExpression
	Name     string
}

func NewSafePropertyReadExpr(receiver output.OutputExpression, name string) *SafePropertyReadExpr {
	return &SafePropertyReadExpr{Receiver: receiver, Name: name}
}

func (e *SafePropertyReadExpr) GetExprKind() ExpressionKind { return ExpressionKindSafePropertyRead }

func (e *SafePropertyReadExpr) IsEquivalent(output.OutputExpression) bool { return false }

func (e *SafePropertyReadExpr) Clone() output.OutputExpression {
	return NewSafePropertyReadExpr(e.Receiver.Clone(), e.Name)
}

func (e *SafePropertyReadExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	e.Receiver = TransformExpressionsInExpression(e.Receiver, transform, flags)
}

// SafeKeyedReadExpr is `receiver?.[index]`
type SafeKeyedReadExpr struct {
	ExpressionBase
	Receiver output.OutputExpression
	Index    output.OutputExpression
}

func NewSafeKeyedReadExpr(receiver, index output.OutputExpression, span *util.ParseSourceSpan) *SafeKeyedReadExpr {
	return &SafeKeyedReadExpr{ExpressionBase: spanned(span), Receiver: receiver, Index: index}
}

func (e *SafeKeyedReadExpr) GetExprKind() ExpressionKind { return ExpressionKindSafeKeyedRead }

func (e *SafeKeyedReadExpr) IsEquivalent(output.OutputExpression) bool { return false }

func (e *SafeKeyedReadExpr) Clone() output.OutputExpression {
	return NewSafeKeyedReadExpr(e.Receiver.Clone(), e.Index.Clone(), e.SourceSpan)
}

func (e *SafeKeyedReadExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	e.Receiver = TransformExpressionsInExpression(e.Receiver, transform, flags)
	e.Index = TransformExpressionsInExpression(e.Index, transform, flags)
}

// SafeInvokeFunctionExpr is `receiver?.(args)`
type SafeInvokeFunctionExpr struct {
	ExpressionBase
	Receiver output.OutputExpression
	Args     []output.OutputExpression
}

func NewSafeInvokeFunctionExpr(receiver output.OutputExpression, args []output.OutputExpression) *SafeInvokeFunctionExpr {
	return &SafeInvokeFunctionExpr{Receiver: receiver, Args: args}
}

func (e *SafeInvokeFunctionExpr) GetExprKind() ExpressionKind {
	return ExpressionKindSafeInvokeFunction
}

func (e *SafeInvokeFunctionExpr) IsEquivalent(output.OutputExpression) bool { return false }

func (e *SafeInvokeFunctionExpr) Clone() output.OutputExpression {
	return NewSafeInvokeFunctionExpr(e.Receiver.Clone(), output.CloneAll(e.Args))
}

func (e *SafeInvokeFunctionExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	e.Receiver = TransformExpressionsInExpression(e.Receiver, transform, flags)
	for i, arg := range e.Args {
		e.Args[i] = TransformExpressionsInExpression(arg, transform, flags)
	}
}

// SafeTernaryExpr is `guard == null ? null : expr`, produced while
// expanding safe reads
type SafeTernaryExpr struct {
	ExpressionBase
	Guard output.OutputExpression
	Expr  output.OutputExpression
}

func NewSafeTernaryExpr(guard, expr output.OutputExpression) *SafeTernaryExpr {
	return &SafeTernaryExpr{Guard: guard, Expr: expr}
}

func (e *SafeTernaryExpr) GetExprKind() ExpressionKind { return ExpressionKindSafeTernary }

func (e *SafeTernaryExpr) IsEquivalent(output.OutputExpression) bool { return false }

func (e *SafeTernaryExpr) Clone() output.OutputExpression {
	return NewSafeTernaryExpr(e.Guard.Clone(), e.Expr.Clone())
}

func (e *SafeTernaryExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	e.Guard = TransformExpressionsInExpression(e.Guard, transform, flags)
	e.Expr = TransformExpressionsInExpression(e.Expr, transform, flags)
}

// EmptyExpr stands in for a missing binding value
type EmptyExpr struct {
	ExpressionBase
}

func NewEmptyExpr(span *util.ParseSourceSpan) *EmptyExpr {
	return &EmptyExpr{ExpressionBase: spanned(span)}
}

func (e *EmptyExpr) GetExprKind() ExpressionKind { return ExpressionKindEmpty }

func (e *EmptyExpr) IsEquivalent(other output.OutputExpression) bool {
	_, ok := other.(*EmptyExpr)
	return ok
}

func (e *EmptyExpr) Clone() output.OutputExpression { return NewEmptyExpr(e.SourceSpan) }

// AssignTemporaryExpr stores Expr in the temporary Xref
type AssignTemporaryExpr struct {
	ExpressionBase
	Expr output.OutputExpression
	Xref XrefId
	Name string
}

func NewAssignTemporaryExpr(expr output.OutputExpression, xref XrefId) *AssignTemporaryExpr {
	return &AssignTemporaryExpr{Expr: expr, Xref: xref}
}

func (e *AssignTemporaryExpr) GetExprKind() ExpressionKind { return ExpressionKindAssignTemporary }

func (e *AssignTemporaryExpr) IsEquivalent(output.OutputExpression) bool { return false }

func (e *AssignTemporaryExpr) Clone() output.OutputExpression {
	clone := NewAssignTemporaryExpr(e.Expr.Clone(), e.Xref)
	clone.Name = e.Name
	return clone
}

func (e *AssignTemporaryExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	e.Expr = TransformExpressionsInExpression(e.Expr, transform, flags)
}

// ReadTemporaryExpr reads the temporary Xref
type ReadTemporaryExpr struct {
	ExpressionBase
	Xref XrefId
	Name string
}

func NewReadTemporaryExpr(xref XrefId) *ReadTemporaryExpr {
	return &ReadTemporaryExpr{Xref: xref}
}

func (e *ReadTemporaryExpr) GetExprKind() ExpressionKind { return ExpressionKindReadTemporary }

func (e *ReadTemporaryExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*ReadTemporaryExpr)
	return ok && e.Xref == o.Xref
}

func (e *ReadTemporaryExpr) Clone() output.OutputExpression {
	return &ReadTemporaryExpr{Xref: e.Xref, Name: e.Name}
}

// SlotLiteralExpr prints the index of Slot once it is allocated
type SlotLiteralExpr struct {
	ExpressionBase
	Slot SlotHandle
}

func NewSlotLiteralExpr(slot SlotHandle) *SlotLiteralExpr {
	return &SlotLiteralExpr{Slot: slot}
}

func (e *SlotLiteralExpr) GetExprKind() ExpressionKind { return ExpressionKindSlotLiteral }

func (e *SlotLiteralExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*SlotLiteralExpr)
	return ok && e.Slot == o.Slot
}

func (e *SlotLiteralExpr) Clone() output.OutputExpression { return NewSlotLiteralExpr(e.Slot) }

// ConditionalCaseExpr is the test of one conditional branch. Expr is nil for
// an `@else` or `@default` branch. Alias is the `as` variable of an `@if`.
type ConditionalCaseExpr struct {
	ExpressionBase
	Expr       output.OutputExpression
	Target     XrefId
	TargetSlot SlotHandle
	Alias      *IdentifierVariable
}

func NewConditionalCaseExpr(expr output.OutputExpression, target XrefId, targetSlot SlotHandle, alias *IdentifierVariable) *ConditionalCaseExpr {
	return &ConditionalCaseExpr{Expr: expr, Target: target, TargetSlot: targetSlot, Alias: alias}
}

func (e *ConditionalCaseExpr) GetExprKind() ExpressionKind { return ExpressionKindConditionalCase }

func (e *ConditionalCaseExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*ConditionalCaseExpr)
	return ok && e.Target == o.Target && output.NullSafeIsEquivalent(e.Expr, o.Expr)
}

func (e *ConditionalCaseExpr) Clone() output.OutputExpression {
	var expr output.OutputExpression
	if e.Expr != nil {
		expr = e.Expr.Clone()
	}
	return NewConditionalCaseExpr(expr, e.Target, e.TargetSlot, e.Alias)
}

func (e *ConditionalCaseExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	if e.Expr != nil {
		e.Expr = TransformExpressionsInExpression(e.Expr, transform, flags)
	}
}

// TwoWayBindingSetExpr writes Value back to Target from a two-way listener
type TwoWayBindingSetExpr struct {
	ExpressionBase
	Target output.OutputExpression
	Value  output.OutputExpression
}

func NewTwoWayBindingSetExpr(target, value output.OutputExpression) *TwoWayBindingSetExpr {
	return &TwoWayBindingSetExpr{Target: target, Value: value}
}

func (e *TwoWayBindingSetExpr) GetExprKind() ExpressionKind { return ExpressionKindTwoWayBindingSet }

func (e *TwoWayBindingSetExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*TwoWayBindingSetExpr)
	return ok && e.Target.IsEquivalent(o.Target) && e.Value.IsEquivalent(o.Value)
}

func (e *TwoWayBindingSetExpr) Clone() output.OutputExpression {
	return NewTwoWayBindingSetExpr(e.Target.Clone(), e.Value.Clone())
}

func (e *TwoWayBindingSetExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	e.Target = TransformExpressionsInExpression(e.Target, transform, flags)
	e.Value = TransformExpressionsInExpression(e.Value, transform, flags)
}

// ContextLetReferenceExpr reads a `@let` declaration of another view
type ContextLetReferenceExpr struct {
	ExpressionBase
	Target     XrefId
	TargetSlot SlotHandle
}

func NewContextLetReferenceExpr(target XrefId, targetSlot SlotHandle) *ContextLetReferenceExpr {
	return &ContextLetReferenceExpr{Target: target, TargetSlot: targetSlot}
}

func (e *ContextLetReferenceExpr) GetExprKind() ExpressionKind {
	return ExpressionKindContextLetReference
}

func (e *ContextLetReferenceExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*ContextLetReferenceExpr)
	return ok && e.Target == o.Target
}

func (e *ContextLetReferenceExpr) Clone() output.OutputExpression {
	return NewContextLetReferenceExpr(e.Target, e.TargetSlot)
}

// StoreLetExpr stores Value in the `@let` declaration Target and returns it
type StoreLetExpr struct {
	ExpressionBase
	Target XrefId
	Value  output.OutputExpression
}

func NewStoreLetExpr(target XrefId, value output.OutputExpression, span *util.ParseSourceSpan) *StoreLetExpr {
	return &StoreLetExpr{ExpressionBase: spanned(span), Target: target, Value: value}
}

func (e *StoreLetExpr) GetExprKind() ExpressionKind { return ExpressionKindStoreLet }

func (e *StoreLetExpr) IsEquivalent(other output.OutputExpression) bool {
	o, ok := other.(*StoreLetExpr)
	return ok && e.Target == o.Target && e.Value.IsEquivalent(o.Value)
}

func (e *StoreLetExpr) Clone() output.OutputExpression {
	return NewStoreLetExpr(e.Target, e.Value.Clone(), e.SourceSpan)
}

func (e *StoreLetExpr) TransformInternalExpressions(transform ExpressionTransform, flags VisitorContextFlag) {
	e.Value = TransformExpressionsInExpression(e.Value, transform, flags)
}
