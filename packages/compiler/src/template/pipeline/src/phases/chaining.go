package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/r3_identifiers"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// chainCompatibility maps each chainable instruction to the instruction a
// chain of it continues with.
var chainCompatibility = map[*output.ExternalReference]*output.ExternalReference{
	r3_identifiers.Attribute:             r3_identifiers.Attribute,
	r3_identifiers.ClassProp:             r3_identifiers.ClassProp,
	r3_identifiers.Element:               r3_identifiers.Element,
	r3_identifiers.ElementContainer:      r3_identifiers.ElementContainer,
	r3_identifiers.ElementContainerEnd:   r3_identifiers.ElementContainerEnd,
	r3_identifiers.ElementContainerStart: r3_identifiers.ElementContainerStart,
	r3_identifiers.ElementEnd:            r3_identifiers.ElementEnd,
	r3_identifiers.ElementStart:          r3_identifiers.ElementStart,
	r3_identifiers.HostProperty:          r3_identifiers.HostProperty,
	r3_identifiers.Listener:              r3_identifiers.Listener,
	r3_identifiers.Property:              r3_identifiers.Property,
	r3_identifiers.StyleProp:             r3_identifiers.StyleProp,
	r3_identifiers.TemplateCreate:        r3_identifiers.TemplateCreate,
	r3_identifiers.TwoWayProperty:        r3_identifiers.TwoWayProperty,
	r3_identifiers.TwoWayListener:        r3_identifiers.TwoWayListener,
	r3_identifiers.DeclareLet:            r3_identifiers.DeclareLet,
	r3_identifiers.ConditionalCreate:     r3_identifiers.ConditionalBranch,
	r3_identifiers.ConditionalBranch:     r3_identifiers.ConditionalBranch,
	r3_identifiers.ViewQuery:             r3_identifiers.ViewQuery,
	r3_identifiers.ContentQuery:          r3_identifiers.ContentQuery,
}

// maxChainLength limits the maximum number of chained instructions to prevent running out of stack depth
const maxChainLength = 256

// Chain post-processes a reified view compilation and converts sequential calls to chainable instructions
// into chain calls.
//
// For example, two `elementStart` operations in sequence:
//
//	elementStart(0, 'div');
//	elementStart(1, 'span');
//
// Can be called as a chain instead:
//
//	elementStart(0, 'div')(1, 'span');
func Chain(job compilation.Job) {
	for _, unit := range job.GetUnits() {
		ChainOperationsInList(unit.GetCreate())
		ChainOperationsInList(unit.GetUpdate())
	}
}

type chain struct {
	instruction *output.ExternalReference
	expression  output.OutputExpression
	op          *ir.StatementOp
	length      int
}

// ChainOperationsInList chains the reified statements of a single list
func ChainOperationsInList(ops *ir.OpList) {
	var current *chain
	for _, op := range ops.Ops() {
		call, instruction, ok := instructionCall(op)
		if !ok {
			// This type of statement isn't chainable.
			current = nil
			continue
		}
		compatible, chainable := chainCompatibility[instruction]
		if !chainable {
			current = nil
			continue
		}

		// This instruction can be chained. It can either be added on to the previous chain (if
		// compatible) or it can be the start of a new chain.
		if current != nil && chainCompatibility[current.instruction] == compatible && current.length < maxChainLength {
			expr := output.NewInvokeFunctionExpr(current.expression, call.Args, call.SourceSpan, call.Pure)
			current.expression = expr
			current.op.Statement = output.NewExpressionStatement(expr, call.SourceSpan)
			current.length++
			ops.Remove(op)
			continue
		}

		// Leave this instruction alone for now, but consider it the start of a new chain.
		current = &chain{
			instruction: instruction,
			expression:  call,
			op:          op.(*ir.StatementOp),
			length:      1,
		}
	}
}

// instructionCall matches a statement that is a bare call of a runtime instruction
func instructionCall(op ir.Op) (*output.InvokeFunctionExpr, *output.ExternalReference, bool) {
	stmtOp, ok := op.(*ir.StatementOp)
	if !ok {
		return nil, nil, false
	}
	stmt, ok := stmtOp.Statement.(*output.ExpressionStatement)
	if !ok {
		return nil, nil, false
	}
	call, ok := stmt.Expr.(*output.InvokeFunctionExpr)
	if !ok {
		return nil, nil, false
	}
	ext, ok := call.Fn.(*output.ExternalExpr)
	if !ok {
		return nil, nil, false
	}
	return call, ext.Value, true
}
