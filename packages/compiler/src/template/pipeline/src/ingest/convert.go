package ingest

import (
	"fmt"

	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/expression_parser"
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	pipeline_conversion "ngc-ir/packages/compiler/src/template/pipeline/src/conversion"
	"ngc-ir/packages/compiler/src/util"
)

// converter turns binding expression ASTs into output and IR expressions.
// component is nil for host bindings, where pipes are rejected.
type converter struct {
	job       *compilation.CompilationJob
	component *compilation.ComponentCompilationJob
	root      ir.XrefId
	file      *util.ParseSourceFile
	lenient   bool
}

// convertSourceSpan maps absolute offsets onto the template file. Without a
// file the span of the enclosing node is used.
func (c *converter) convertSourceSpan(span expression_parser.ParseSpan, base *util.ParseSourceSpan) *util.ParseSourceSpan {
	if c.file == nil {
		return base
	}
	return util.SpanForOffsets(c.file, span.Start, span.End)
}

func (c *converter) convertAll(asts []expression_parser.AST, base *util.ParseSourceSpan) []output.OutputExpression {
	result := make([]output.OutputExpression, len(asts))
	for i, ast := range asts {
		result[i] = c.convertAst(ast, base)
	}
	return result
}

// convertAst converts a template AST expression into an output AST expression
func (c *converter) convertAst(ast expression_parser.AST, base *util.ParseSourceSpan) output.OutputExpression {
	span := c.convertSourceSpan(ast.GetSpan(), base)

	switch n := ast.(type) {
	case *expression_parser.PropertyRead:
		switch n.Receiver.(type) {
		case *expression_parser.ImplicitReceiver:
			return ir.NewLexicalReadExpr(n.Name, span)
		case *expression_parser.ThisReceiver:
			return output.NewReadPropExpr(ir.NewContextExpr(c.root), n.Name, span)
		}
		return output.NewReadPropExpr(c.convertAst(n.Receiver, base), n.Name, span)
	case *expression_parser.PropertyWrite:
		var target output.OutputExpression
		switch n.Receiver.(type) {
		case *expression_parser.ImplicitReceiver, *expression_parser.ThisReceiver:
			target = output.NewReadPropExpr(ir.NewContextExpr(c.root), n.Name, span)
		default:
			target = output.NewReadPropExpr(c.convertAst(n.Receiver, base), n.Name, span)
		}
		return output.NewBinaryOperatorExpr(output.BinaryOperatorAssign, target, c.convertAst(n.Value, base), span)
	case *expression_parser.KeyedWrite:
		target := output.NewReadKeyExpr(c.convertAst(n.Receiver, base), c.convertAst(n.Key, base), span)
		return output.NewBinaryOperatorExpr(output.BinaryOperatorAssign, target, c.convertAst(n.Value, base), span)
	case *expression_parser.KeyedRead:
		return output.NewReadKeyExpr(c.convertAst(n.Receiver, base), c.convertAst(n.Key, base), span)
	case *expression_parser.Call:
		if isAnyCast(n) {
			return c.convertAst(n.Args[0], base)
		}
		return output.NewInvokeFunctionExpr(c.convertAst(n.Receiver, base), c.convertAll(n.Args, base), span, false)
	case *expression_parser.SafeCall:
		return ir.NewSafeInvokeFunctionExpr(c.convertAst(n.Receiver, base), c.convertAll(n.Args, base))
	case *expression_parser.SafePropertyRead:
		return ir.NewSafePropertyReadExpr(c.convertAst(n.Receiver, base), n.Name)
	case *expression_parser.SafeKeyedRead:
		return ir.NewSafeKeyedReadExpr(c.convertAst(n.Receiver, base), c.convertAst(n.Key, base), span)
	case *expression_parser.LiteralPrimitive:
		if _, ok := n.Value.(expression_parser.Undefined); ok {
			return output.NewReadVarExpr("undefined", span)
		}
		return output.NewLiteralExpr(n.Value, span)
	case *expression_parser.LiteralArray:
		return output.NewLiteralArrayExpr(c.convertAll(n.Expressions, base), span)
	case *expression_parser.LiteralMap:
		entries := make([]*output.LiteralMapEntry, len(n.Keys))
		for i, key := range n.Keys {
			entries[i] = output.NewLiteralMapEntry(key.Key, c.convertAst(n.Values[i], base), key.Quoted)
		}
		return output.NewLiteralMapExpr(entries, span)
	case *expression_parser.Binary:
		op, ok := pipeline_conversion.BinaryOperators[n.Operation]
		if !ok {
			panic(ir.NewInternalError("unsupported binary operator %s", n.Operation))
		}
		return output.NewBinaryOperatorExpr(op, c.convertAst(n.Left, base), c.convertAst(n.Right, base), span)
	case *expression_parser.Unary:
		switch n.Operator {
		case "-":
			return output.NewUnaryOperatorExpr(output.UnaryOperatorMinus, c.convertAst(n.Expr, base), span)
		case "+":
			return output.NewUnaryOperatorExpr(output.UnaryOperatorPlus, c.convertAst(n.Expr, base), span)
		}
		panic(ir.NewInternalError("unsupported unary operator %s", n.Operator))
	case *expression_parser.PrefixNot:
		return output.NewNotExpr(c.convertAst(n.Expression, base), span)
	case *expression_parser.TypeofExpression:
		return output.NewTypeofExpr(c.convertAst(n.Expression, base), span)
	case *expression_parser.NonNullAssert:
		return c.convertAst(n.Expression, base)
	case *expression_parser.Conditional:
		return output.NewConditionalExpr(
			c.convertAst(n.Condition, base),
			c.convertAst(n.TrueExp, base),
			c.convertAst(n.FalseExp, base),
			span,
		)
	case *expression_parser.ParenthesizedExpression:
		return output.NewParenthesizedExpr(c.convertAst(n.Expression, base), span)
	case *expression_parser.BindingPipe:
		return c.convertPipe(n, base, span)
	case *expression_parser.EmptyExpr:
		return ir.NewEmptyExpr(span)
	case *expression_parser.Interpolation, *expression_parser.Chain, *expression_parser.ImplicitReceiver, *expression_parser.ThisReceiver:
		panic(ir.NewInternalError("unexpected %T at expression position", ast))
	}
	panic(ir.NewInternalError("unhandled expression type %T", ast))
}

func (c *converter) convertPipe(pipe *expression_parser.BindingPipe, base, span *util.ParseSourceSpan) output.OutputExpression {
	if c.component == nil {
		c.job.Diagnostics.Add(diagnostics.NewError(diagnostics.CodeTemplateParseError, span,
			fmt.Sprintf("Host bindings cannot contain pipes, found '%s'.", pipe.Name)))
		return c.convertAst(pipe.Exp, base)
	}
	if !c.lenient && !c.component.HasPipe(pipe.Name) {
		c.job.Diagnostics.Add(diagnostics.NewError(diagnostics.CodeMissingPipe,
			c.convertSourceSpan(pipe.NameSpan, span),
			fmt.Sprintf("No pipe found with name '%s'.", pipe.Name)))
	}
	args := append([]output.OutputExpression{c.convertAst(pipe.Exp, base)}, c.convertAll(pipe.Args, base)...)
	return ir.NewPipeBindingExpr(c.job.AllocateXrefId(), c.job.Slots.New(), pipe.Name, args)
}

// convertAstWithInterpolation returns either a single expression or, for
// `a{{b}}c` values, an interpolation
func (c *converter) convertAstWithInterpolation(value *expression_parser.ASTWithSource, base *util.ParseSourceSpan) (output.OutputExpression, *ir.Interpolation) {
	if interpolation, ok := value.AST.(*expression_parser.Interpolation); ok {
		return nil, ir.NewInterpolation(interpolation.Strings, c.convertAll(interpolation.Expressions, base))
	}
	return c.convertAst(value.AST, base), nil
}

// isAnyCast reports `$any(x)`, which only exists for the type checker
func isAnyCast(call *expression_parser.Call) bool {
	read, ok := call.Receiver.(*expression_parser.PropertyRead)
	if !ok || read.Name != "$any" || len(call.Args) != 1 {
		return false
	}
	_, implicit := read.Receiver.(*expression_parser.ImplicitReceiver)
	return implicit
}

// concatInterpolation lowers an interpolation to string concatenation, for
// bindings whose instruction takes a single value
func concatInterpolation(interpolation *ir.Interpolation) output.OutputExpression {
	var result output.OutputExpression = output.Literal(interpolation.Strings[0])
	for i, expr := range interpolation.Expressions {
		result = output.Binary(output.BinaryOperatorPlus, result, expr)
		if s := interpolation.Strings[i+1]; s != "" {
			result = output.Binary(output.BinaryOperatorPlus, result, output.Literal(s))
		}
	}
	return result
}
