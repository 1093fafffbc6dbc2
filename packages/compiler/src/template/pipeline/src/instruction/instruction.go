package pipeline_instruction

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/r3_identifiers"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/util"
)

// call is a helper function to create a statement operation from an instruction call
func call(instruction *output.ExternalReference, args []output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	expr := output.NewInvokeFunctionExpr(output.ImportExpr(instruction), args, sourceSpan, false)
	return ir.NewStatementOp(output.NewExpressionStatement(expr, sourceSpan))
}

func callExpr(instruction *output.ExternalReference, args ...output.OutputExpression) output.OutputExpression {
	return output.Call(output.ImportExpr(instruction), args...)
}

func constLiteral(index *ir.ConstIndex) output.OutputExpression {
	if index == nil {
		return output.NullExpr
	}
	return output.Literal(int(*index))
}

func elementOrContainerBase(instruction *output.ExternalReference, slot int, tag *string, constIndex, localRefIndex *ir.ConstIndex, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	args := []output.OutputExpression{output.Literal(slot)}
	if tag != nil {
		args = append(args, output.Literal(*tag))
	}
	if localRefIndex != nil {
		args = append(args, constLiteral(constIndex), constLiteral(localRefIndex))
	} else if constIndex != nil {
		args = append(args, constLiteral(constIndex))
	}
	return call(instruction, args, sourceSpan)
}

// Element creates an element without children
func Element(slot int, tag string, constIndex, localRefIndex *ir.ConstIndex, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return elementOrContainerBase(r3_identifiers.Element, slot, &tag, constIndex, localRefIndex, sourceSpan)
}

// ElementStart opens an element
func ElementStart(slot int, tag string, constIndex, localRefIndex *ir.ConstIndex, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return elementOrContainerBase(r3_identifiers.ElementStart, slot, &tag, constIndex, localRefIndex, sourceSpan)
}

func ElementEnd(sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return call(r3_identifiers.ElementEnd, nil, sourceSpan)
}

func ElementContainerStart(slot int, constIndex, localRefIndex *ir.ConstIndex, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return elementOrContainerBase(r3_identifiers.ElementContainerStart, slot, nil, constIndex, localRefIndex, sourceSpan)
}

func ElementContainer(slot int, constIndex, localRefIndex *ir.ConstIndex, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return elementOrContainerBase(r3_identifiers.ElementContainer, slot, nil, constIndex, localRefIndex, sourceSpan)
}

func ElementContainerEnd() *ir.StatementOp {
	return call(r3_identifiers.ElementContainerEnd, nil, nil)
}

// templateBase builds the shared argument list of the instructions that
// declare an embedded view. Trailing nulls are dropped.
func templateBase(instruction *output.ExternalReference, slot int, templateFnRef output.OutputExpression, decls, vars int, tag string, constIndex, localRefs *ir.ConstIndex, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	args := []output.OutputExpression{
		output.Literal(slot),
		templateFnRef,
		output.Literal(decls),
		output.Literal(vars),
	}
	if tag != "" {
		args = append(args, output.Literal(tag))
	} else {
		args = append(args, output.NullExpr)
	}
	args = append(args, constLiteral(constIndex))
	if localRefs != nil {
		args = append(args, constLiteral(localRefs), output.ImportExpr(r3_identifiers.TemplateRefExtractor))
	}

	for len(args) > 0 {
		lit, ok := args[len(args)-1].(*output.LiteralExpr)
		if !ok || lit.Value != nil {
			break
		}
		args = args[:len(args)-1]
	}
	return call(instruction, args, sourceSpan)
}

// Template declares an `<ng-template>` or structural template
func Template(slot int, templateFnRef output.OutputExpression, decls, vars int, tag string, constIndex, localRefs *ir.ConstIndex, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return templateBase(r3_identifiers.TemplateCreate, slot, templateFnRef, decls, vars, tag, constIndex, localRefs, sourceSpan)
}

// ConditionalCreate declares the first branch of a conditional
func ConditionalCreate(slot int, templateFnRef output.OutputExpression, decls, vars int, tag string, constIndex, localRefs *ir.ConstIndex, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return templateBase(r3_identifiers.ConditionalCreate, slot, templateFnRef, decls, vars, tag, constIndex, localRefs, sourceSpan)
}

// ConditionalBranchCreate declares a further branch of a conditional
func ConditionalBranchCreate(slot int, templateFnRef output.OutputExpression, decls, vars int, tag string, constIndex, localRefs *ir.ConstIndex, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return templateBase(r3_identifiers.ConditionalBranch, slot, templateFnRef, decls, vars, tag, constIndex, localRefs, sourceSpan)
}

// RepeaterEmptyView describes the `@empty` block of a repeater
type RepeaterEmptyView struct {
	FnName     string
	Decls      int
	Vars       int
	Tag        string
	ConstIndex *ir.ConstIndex
}

// RepeaterCreate declares a `@for` block
func RepeaterCreate(slot int, viewFnName string, decls, vars int, tag string, constIndex *ir.ConstIndex, trackByFn output.OutputExpression, trackByUsesComponentInstance bool, empty *RepeaterEmptyView, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	var tagExpr output.OutputExpression = output.NullExpr
	if tag != "" {
		tagExpr = output.Literal(tag)
	}
	args := []output.OutputExpression{
		output.Literal(slot),
		output.Variable(viewFnName),
		output.Literal(decls),
		output.Literal(vars),
		tagExpr,
		constLiteral(constIndex),
		trackByFn,
	}
	if trackByUsesComponentInstance || empty != nil {
		args = append(args, output.Literal(trackByUsesComponentInstance))
		if empty != nil {
			args = append(args, output.Variable(empty.FnName), output.Literal(empty.Decls), output.Literal(empty.Vars))
			if empty.Tag != "" || empty.ConstIndex != nil {
				if empty.Tag != "" {
					args = append(args, output.Literal(empty.Tag))
				} else {
					args = append(args, output.NullExpr)
				}
			}
			if empty.ConstIndex != nil {
				args = append(args, constLiteral(empty.ConstIndex))
			}
		}
	}
	return call(r3_identifiers.RepeaterCreate, args, sourceSpan)
}

func Repeater(collection output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return call(r3_identifiers.Repeater, []output.OutputExpression{collection}, sourceSpan)
}

var eventTargetResolvers = map[string]*output.ExternalReference{
	"window":   r3_identifiers.ResolveWindow,
	"document": r3_identifiers.ResolveDocument,
	"body":     r3_identifiers.ResolveBody,
}

// Listener registers handlerFn for the event name. eventTarget is "" or one
// of the global targets.
func Listener(name string, handlerFn output.OutputExpression, eventTarget string, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	args := []output.OutputExpression{output.Literal(name), handlerFn}
	if eventTarget != "" {
		resolver, ok := eventTargetResolvers[eventTarget]
		if !ok {
			panic(ir.NewInternalError("unexpected global target %q defined for %q event", eventTarget, name))
		}
		args = append(args, output.ImportExpr(resolver))
	}
	return call(r3_identifiers.Listener, args, sourceSpan)
}

func TwoWayListener(name string, handlerFn output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return call(r3_identifiers.TwoWayListener, []output.OutputExpression{output.Literal(name), handlerFn}, sourceSpan)
}

// TwoWayBindingSet creates a two-way binding set expression
func TwoWayBindingSet(target, value output.OutputExpression) output.OutputExpression {
	return callExpr(r3_identifiers.TwoWayBindingSet, target, value)
}

func Pipe(slot int, name string) *ir.StatementOp {
	return call(r3_identifiers.Pipe, []output.OutputExpression{output.Literal(slot), output.Literal(name)}, nil)
}

// Namespace switches the namespace of the elements created next
func Namespace(ns ir.Namespace) *ir.StatementOp {
	switch ns {
	case ir.NamespaceSVG:
		return call(r3_identifiers.NamespaceSVG, nil, nil)
	case ir.NamespaceMath:
		return call(r3_identifiers.NamespaceMathML, nil, nil)
	}
	return call(r3_identifiers.NamespaceHTML, nil, nil)
}

func DisableBindings() *ir.StatementOp {
	return call(r3_identifiers.DisableBindings, nil, nil)
}

func EnableBindings() *ir.StatementOp {
	return call(r3_identifiers.EnableBindings, nil, nil)
}

func Advance(delta int, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	var args []output.OutputExpression
	if delta > 1 {
		args = append(args, output.Literal(delta))
	}
	return call(r3_identifiers.Advance, args, sourceSpan)
}

func Reference(slot int) output.OutputExpression {
	return callExpr(r3_identifiers.Reference, output.Literal(slot))
}

func NextContext(steps int) output.OutputExpression {
	if steps == 1 {
		return callExpr(r3_identifiers.NextContext)
	}
	return callExpr(r3_identifiers.NextContext, output.Literal(steps))
}

func GetCurrentView() output.OutputExpression {
	return callExpr(r3_identifiers.GetCurrentView)
}

func RestoreView(savedView output.OutputExpression) output.OutputExpression {
	return callExpr(r3_identifiers.RestoreView, savedView)
}

func ResetView(returnValue output.OutputExpression) output.OutputExpression {
	return callExpr(r3_identifiers.ResetView, returnValue)
}

// Text creates a text node; an empty initial value is omitted
func Text(slot int, initialValue string, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	args := []output.OutputExpression{output.Literal(slot)}
	if initialValue != "" {
		args = append(args, output.Literal(initialValue))
	}
	return call(r3_identifiers.Text, args, sourceSpan)
}

func ProjectionDef(def output.OutputExpression) *ir.StatementOp {
	var args []output.OutputExpression
	if def != nil {
		args = append(args, def)
	}
	return call(r3_identifiers.ProjectionDef, args, nil)
}

// Projection projects content into slot. The slot index is omitted when it
// is zero and no attributes follow.
func Projection(slot, projectionSlotIndex int, attributes output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	args := []output.OutputExpression{output.Literal(slot)}
	if projectionSlotIndex != 0 || attributes != nil {
		args = append(args, output.Literal(projectionSlotIndex))
		if attributes != nil {
			args = append(args, attributes)
		}
	}
	return call(r3_identifiers.Projection, args, sourceSpan)
}

func DeclareLet(slot int, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return call(r3_identifiers.DeclareLet, []output.OutputExpression{output.Literal(slot)}, sourceSpan)
}

func StoreLet(value output.OutputExpression, sourceSpan *util.ParseSourceSpan) output.OutputExpression {
	return output.NewInvokeFunctionExpr(output.ImportExpr(r3_identifiers.StoreLet), []output.OutputExpression{value}, sourceSpan, false)
}

func ReadContextLet(slot int) output.OutputExpression {
	return callExpr(r3_identifiers.ReadContextLet, output.Literal(slot))
}

// Property binds a property. An interpolation wraps value in the matching
// interpolate instruction first.
func Property(name string, value output.OutputExpression, interpolation *ir.Interpolation, sanitizer output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return propertyBase(r3_identifiers.Property, name, bindingValue(value, interpolation, sourceSpan), sanitizer, sourceSpan)
}

// HostProperty binds a property of the host element
func HostProperty(name string, value, sanitizer output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return propertyBase(r3_identifiers.HostProperty, name, value, sanitizer, sourceSpan)
}

func TwoWayProperty(name string, value, sanitizer output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return propertyBase(r3_identifiers.TwoWayProperty, name, value, sanitizer, sourceSpan)
}

func propertyBase(instruction *output.ExternalReference, name string, value, sanitizer output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	args := []output.OutputExpression{output.Literal(name), value}
	if sanitizer != nil {
		args = append(args, sanitizer)
	}
	return call(instruction, args, sourceSpan)
}

// Attribute binds an attribute. The sanitizer slot is filled with null when
// only a namespace follows.
func Attribute(name string, value output.OutputExpression, interpolation *ir.Interpolation, sanitizer output.OutputExpression, namespace string, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	args := []output.OutputExpression{output.Literal(name), bindingValue(value, interpolation, sourceSpan)}
	if sanitizer != nil || namespace != "" {
		if sanitizer == nil {
			sanitizer = output.NullExpr
		}
		args = append(args, sanitizer)
	}
	if namespace != "" {
		args = append(args, output.Literal(namespace))
	}
	return call(r3_identifiers.Attribute, args, sourceSpan)
}

func StyleProp(name string, value output.OutputExpression, unit string, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	args := []output.OutputExpression{output.Literal(name), value}
	if unit != "" {
		args = append(args, output.Literal(unit))
	}
	return call(r3_identifiers.StyleProp, args, sourceSpan)
}

func ClassProp(name string, value output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return call(r3_identifiers.ClassProp, []output.OutputExpression{output.Literal(name), value}, sourceSpan)
}

func StyleMap(value output.OutputExpression, interpolation *ir.Interpolation, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return call(r3_identifiers.StyleMap, []output.OutputExpression{bindingValue(value, interpolation, sourceSpan)}, sourceSpan)
}

func ClassMap(value output.OutputExpression, interpolation *ir.Interpolation, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	return call(r3_identifiers.ClassMap, []output.OutputExpression{bindingValue(value, interpolation, sourceSpan)}, sourceSpan)
}

// Conditional selects the branch to render. contextValue is passed along
// for `@if (x; as alias)`.
func Conditional(condition, contextValue output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	args := []output.OutputExpression{condition}
	if contextValue != nil {
		args = append(args, contextValue)
	}
	return call(r3_identifiers.Conditional, args, sourceSpan)
}

// PipeBind calls the pipe in slot: pipeBind1..4 with the arguments inline,
// pipeBindV with an array above four arguments.
func PipeBind(slot, varOffset int, args []output.OutputExpression) output.OutputExpression {
	if len(args) < 1 {
		panic(ir.NewInternalError("pipeBind() argument count out of bounds: %d", len(args)))
	}
	instruction := r3_identifiers.PipeBindN(len(args))
	allArgs := []output.OutputExpression{output.Literal(slot), output.Literal(varOffset)}
	if instruction == r3_identifiers.PipeBindV {
		allArgs = append(allArgs, output.LiteralArr(args...))
	} else {
		allArgs = append(allArgs, args...)
	}
	return callExpr(instruction, allArgs...)
}

// TextInterpolate updates the text node selected by the slot context
func TextInterpolate(strings []string, expressions []output.OutputExpression, sourceSpan *util.ParseSourceSpan) *ir.StatementOp {
	interpolationArgs := collateInterpolationArgs(strings, expressions)
	expr := callVariadicInstructionExpr(TextInterpolateConfig, interpolationArgs, sourceSpan)
	return ir.NewStatementOp(output.NewExpressionStatement(expr, sourceSpan))
}

// bindingValue lowers an interpolated binding to its interpolate call. A
// lone `{{e}}` binds e directly.
func bindingValue(value output.OutputExpression, interpolation *ir.Interpolation, sourceSpan *util.ParseSourceSpan) output.OutputExpression {
	if interpolation == nil {
		return value
	}
	if interpolation.IsSingleExpression() {
		return interpolation.Expressions[0]
	}
	interpolationArgs := collateInterpolationArgs(interpolation.Strings, interpolation.Expressions)
	return callVariadicInstructionExpr(ValueInterpolateConfig, interpolationArgs, sourceSpan)
}

// collateInterpolationArgs interleaves strings and expressions:
// `s0, e0, s1, ..., sN`. A lone expression between empty strings stands alone.
func collateInterpolationArgs(strings []string, expressions []output.OutputExpression) []output.OutputExpression {
	if len(strings) != len(expressions)+1 {
		panic(ir.NewInternalError("expected specific shape of args for strings/expressions in interpolation: strings=%d, expressions=%d",
			len(strings), len(expressions)))
	}
	if len(expressions) == 1 && strings[0] == "" && strings[1] == "" {
		return []output.OutputExpression{expressions[0]}
	}
	args := make([]output.OutputExpression, 0, 2*len(expressions)+1)
	for i, expr := range expressions {
		args = append(args, output.Literal(strings[i]), expr)
	}
	return append(args, output.Literal(strings[len(expressions)]))
}

// VariadicInstructionConfig describes a specific flavor of instruction used to represent variadic instructions
type VariadicInstructionConfig struct {
	// Constant picks the fixed-arity instruction for n, or nil above the
	// fixed-arity range.
	Constant func(n int) *output.ExternalReference
	Variable *output.ExternalReference
	Mapping  func(argCount int) int
}

func interpolationArity(argCount int) int {
	if argCount%2 == 0 {
		panic(ir.NewInternalError("expected odd number of arguments"))
	}
	return (argCount - 1) / 2
}

// TextInterpolateConfig is the config for the textInterpolate instruction
var TextInterpolateConfig = VariadicInstructionConfig{
	Constant: func(n int) *output.ExternalReference {
		switch {
		case n == 0:
			return r3_identifiers.TextInterpolate
		case n <= 8:
			return r3_identifiers.TextInterpolateN(n)
		}
		return nil
	},
	Variable: r3_identifiers.TextInterpolateV,
	Mapping:  interpolationArity,
}

// ValueInterpolateConfig is the config for the value interpolate instruction
var ValueInterpolateConfig = VariadicInstructionConfig{
	Constant: func(n int) *output.ExternalReference {
		switch {
		case n == 0:
			return r3_identifiers.Interpolate
		case n <= 8:
			return r3_identifiers.InterpolateN(n)
		}
		return nil
	},
	Variable: r3_identifiers.InterpolateV,
	Mapping:  interpolationArity,
}

// callVariadicInstructionExpr calls a variadic instruction and returns an expression
func callVariadicInstructionExpr(config VariadicInstructionConfig, interpolationArgs []output.OutputExpression, sourceSpan *util.ParseSourceSpan) output.OutputExpression {
	// mapping need to be done before potentially dropping the last interpolation argument
	n := config.Mapping(len(interpolationArgs))

	// In the case the interpolation instruction ends with an empty string we drop it
	// And the runtime will take care of it.
	if len(interpolationArgs) > 1 {
		if lit, ok := interpolationArgs[len(interpolationArgs)-1].(*output.LiteralExpr); ok && lit.Value == "" {
			interpolationArgs = interpolationArgs[:len(interpolationArgs)-1]
		}
	}

	if instruction := config.Constant(n); instruction != nil {
		return output.NewInvokeFunctionExpr(output.ImportExpr(instruction), interpolationArgs, sourceSpan, false)
	}
	return output.NewInvokeFunctionExpr(output.ImportExpr(config.Variable),
		[]output.OutputExpression{output.LiteralArr(interpolationArgs...)}, sourceSpan, false)
}
