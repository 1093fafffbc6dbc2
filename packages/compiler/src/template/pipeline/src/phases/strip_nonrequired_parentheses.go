package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// StripNonrequiredParentheses strips all parentheses written in the template except in the
// following situations where they are required:
//
//  1. When mixing nullish coalescing (`??`) and logical and/or operators (`&&`, `||`). For
//     example, `a ?? b && c` is not valid JavaScript, but `a ?? (b && c)` is.
//
//  2. Ternary expression used as an operand for nullish coalescing, e.g. `(a ? b : c) ?? d`.
//
// The printer re-parenthesizes by precedence, so the remaining groupings are never needed.
func StripNonrequiredParentheses(job compilation.Job) {
	// Check which parentheses are required.
	required := map[*output.ParenthesizedExpr]bool{}
	for _, unit := range job.GetUnits() {
		visitUnitExpressions(unit, func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
			binary, ok := expr.(*output.BinaryOperatorExpr)
			if !ok {
				return
			}
			switch binary.Operator {
			case output.BinaryOperatorNullishCoalesce:
				checkNullishCoalescingParens(binary, required)
			case output.BinaryOperatorAnd, output.BinaryOperatorOr:
				checkAndOrParens(binary, required)
			}
		})
	}

	// Remove any non-required parentheses.
	for _, unit := range job.GetUnits() {
		transformUnitExpressions(unit, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
			if paren, ok := expr.(*output.ParenthesizedExpr); ok && !required[paren] {
				return paren.Expr
			}
			return expr
		})
	}
}

func checkNullishCoalescingParens(expr *output.BinaryOperatorExpr, required map[*output.ParenthesizedExpr]bool) {
	for _, operand := range []output.OutputExpression{expr.Lhs, expr.Rhs} {
		paren, ok := operand.(*output.ParenthesizedExpr)
		if !ok {
			continue
		}
		if _, ternary := paren.Expr.(*output.ConditionalExpr); ternary || isLogicalAndOr(paren.Expr) {
			required[paren] = true
		}
	}
}

func checkAndOrParens(expr *output.BinaryOperatorExpr, required map[*output.ParenthesizedExpr]bool) {
	paren, ok := expr.Lhs.(*output.ParenthesizedExpr)
	if !ok {
		return
	}
	if binary, ok := paren.Expr.(*output.BinaryOperatorExpr); ok && binary.Operator == output.BinaryOperatorNullishCoalesce {
		required[paren] = true
	}
}

func isLogicalAndOr(expr output.OutputExpression) bool {
	binary, ok := expr.(*output.BinaryOperatorExpr)
	return ok && (binary.Operator == output.BinaryOperatorAnd || binary.Operator == output.BinaryOperatorOr)
}
