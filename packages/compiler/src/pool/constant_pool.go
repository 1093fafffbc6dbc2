package constant

import (
	"fmt"
	"strings"

	"ngc-ir/packages/compiler/src/output"
)

const (
	constantPrefix = "_c"
	// PoolInclusionLengthThresholdForStrings is the length from which string
	// literals are pooled. Shorter strings and other primitives are inlined.
	PoolInclusionLengthThresholdForStrings = 50
)

// FixupExpression is a place-holder handed out for a pooled literal. It
// prints as the literal until the literal is seen a second time, at which
// point every fixup handed out for it is redirected to the shared constant.
type FixupExpression struct {
	output.ExpressionBase
	original output.OutputExpression
	resolved output.OutputExpression
	shared   bool
}

// NewFixupExpression creates a fixup resolving to expr
func NewFixupExpression(resolved output.OutputExpression) *FixupExpression {
	return &FixupExpression{
		ExpressionBase: output.ExpressionBase{SourceSpan: resolved.GetSourceSpan()},
		original:       resolved,
		resolved:       resolved,
	}
}

// VisitExpression prints through to the resolved expression
func (f *FixupExpression) VisitExpression(visitor output.ExpressionVisitor, context interface{}) interface{} {
	return f.resolved.VisitExpression(visitor, context)
}

// IsEquivalent checks if two expressions are equivalent
func (f *FixupExpression) IsEquivalent(e output.OutputExpression) bool {
	if other, ok := e.(*FixupExpression); ok {
		return f.resolved.IsEquivalent(other.resolved)
	}
	return false
}

// IsConstant returns true
func (f *FixupExpression) IsConstant() bool {
	return true
}

// Clone returns the receiver; fixups are shared by identity.
func (f *FixupExpression) Clone() output.OutputExpression {
	return f
}

// Shared reports whether the literal was moved into a shared constant.
func (f *FixupExpression) Shared() bool {
	return f.shared
}

// Resolved returns the expression the fixup currently prints as.
func (f *FixupExpression) Resolved() output.OutputExpression {
	return f.resolved
}

func (f *FixupExpression) fixup(expression output.OutputExpression) {
	f.resolved = expression
	f.shared = true
}

// ConstantPool collects constants that are hoisted out of the generated
// definitions and shared between them.
type ConstantPool struct {
	statements      []output.OutputStatement
	literals        map[string]*FixupExpression
	sharedConstants map[string]output.OutputExpression
	claimedNames    map[string]int
	nextNameIndex   int
}

// NewConstantPool creates a new ConstantPool
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		literals:        make(map[string]*FixupExpression),
		sharedConstants: make(map[string]output.OutputExpression),
		claimedNames:    make(map[string]int),
	}
}

// GetConstLiteral returns literal, or a fixup that turns into a shared
// `const _cN` reference once the same structure is requested again (or
// immediately when forceShared is set).
func (cp *ConstantPool) GetConstLiteral(literal output.OutputExpression, forceShared bool) output.OutputExpression {
	if (isLiteralExpr(literal) && !isLongStringLiteral(literal)) || isFixupExpression(literal) {
		return literal
	}
	key := GenericKeyFnInstance.KeyOf(literal)
	fixup, exists := cp.literals[key]
	if !exists {
		fixup = NewFixupExpression(literal)
		cp.literals[key] = fixup
	}

	if (exists && !fixup.shared) || (!exists && forceShared) {
		name := cp.freshName()
		cp.statements = append(cp.statements, output.Const(name, literal))
		fixup.fixup(output.Variable(name))
	}
	return fixup
}

// GetSharedConstant declares one constant per key of def and returns a
// reference to it.
func (cp *ConstantPool) GetSharedConstant(def SharedConstantDefinition, expr output.OutputExpression) output.OutputExpression {
	key := def.KeyOf(expr)
	if _, exists := cp.sharedConstants[key]; !exists {
		id := cp.freshName()
		cp.sharedConstants[key] = output.Variable(id)
		cp.statements = append(cp.statements, def.ToSharedConstantDeclaration(id, expr))
	}
	return cp.sharedConstants[key]
}

// GetSharedFunctionReference returns a reference to an equivalent function
// already in the pool, declaring fn under a name derived from prefix
// otherwise. With useIndexedName the name is always suffixed with a per-prefix
// counter (`_forTrack0`, `_forTrack1`).
func (cp *ConstantPool) GetSharedFunctionReference(fn output.OutputExpression, prefix string, useIndexedName bool) output.OutputExpression {
	_, isArrow := fn.(*output.ArrowFunctionExpr)

	for _, current := range cp.statements {
		if isArrow {
			if declareVar, ok := current.(*output.DeclareVarStmt); ok && declareVar.Value != nil && declareVar.Value.IsEquivalent(fn) {
				return output.Variable(declareVar.Name)
			}
			continue
		}
		if declareFn, ok := current.(*output.DeclareFunctionStmt); ok {
			if fnExpr, ok := fn.(*output.FunctionExpr); ok && fnExpr.IsEquivalentToStmt(declareFn) {
				return output.Variable(declareFn.Name)
			}
		}
	}

	var name string
	if useIndexedName {
		name = cp.indexedName(prefix)
	} else {
		name = cp.UniqueName(prefix)
	}
	if fnExpr, ok := fn.(*output.FunctionExpr); ok {
		cp.statements = append(cp.statements, fnExpr.ToDeclStmt(name, output.StmtModifierNone))
	} else {
		cp.statements = append(cp.statements, output.Const(name, fn))
	}
	return output.Variable(name)
}

// UniqueName returns preferred the first time it is requested, then
// preferred_1, preferred_2 and so on.
func (cp *ConstantPool) UniqueName(preferred string) string {
	count := cp.claimedNames[preferred]
	cp.claimedNames[preferred] = count + 1
	if count == 0 {
		return preferred
	}
	return fmt.Sprintf("%s_%d", preferred, count)
}

func (cp *ConstantPool) indexedName(prefix string) string {
	key := "#" + prefix
	count := cp.claimedNames[key]
	cp.claimedNames[key] = count + 1
	return fmt.Sprintf("%s%d", prefix, count)
}

// freshName uses its own counter so `_cN` numbering is independent of
// UniqueName claims.
func (cp *ConstantPool) freshName() string {
	name := fmt.Sprintf("%s%d", constantPrefix, cp.nextNameIndex)
	cp.nextNameIndex++
	return name
}

// Statements returns the pooled declarations in creation order
func (cp *ConstantPool) Statements() []output.OutputStatement {
	return cp.statements
}

// AddStatement appends a statement to the pool
func (cp *ConstantPool) AddStatement(stmt output.OutputStatement) {
	cp.statements = append(cp.statements, stmt)
}

// ExpressionKeyFn derives a structural key from an expression
type ExpressionKeyFn interface {
	KeyOf(expr output.OutputExpression) string
}

// SharedConstantDefinition keys and declares caller-defined shared constants
type SharedConstantDefinition interface {
	ExpressionKeyFn
	ToSharedConstantDeclaration(declName string, keyExpr output.OutputExpression) output.OutputStatement
}

// GenericKeyFn generates structural keys for literal expressions
type GenericKeyFn struct{}

// GenericKeyFnInstance is the shared GenericKeyFn
var GenericKeyFnInstance = &GenericKeyFn{}

// KeyOf returns a key that is equal for structurally equal literals
func (g *GenericKeyFn) KeyOf(expr output.OutputExpression) string {
	switch e := expr.(type) {
	case *output.LiteralExpr:
		if str, ok := e.Value.(string); ok {
			return fmt.Sprintf("%q", str)
		}
		return fmt.Sprintf("%v", e.Value)
	case *output.LiteralArrayExpr:
		entries := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			entries[i] = g.KeyOf(entry)
		}
		return "[" + strings.Join(entries, ",") + "]"
	case *output.LiteralMapExpr:
		entries := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			key := entry.Key
			if entry.Quoted {
				key = fmt.Sprintf("%q", key)
			}
			entries[i] = key + ":" + g.KeyOf(entry.Value)
		}
		return "{" + strings.Join(entries, ",") + "}"
	case *output.ExternalExpr:
		return fmt.Sprintf("import(%q, %q)", e.Value.ModuleName, e.Value.Name)
	case *output.ReadVarExpr:
		return fmt.Sprintf("read(%s)", e.Name)
	case *output.TypeofExpr:
		return fmt.Sprintf("typeof(%s)", g.KeyOf(e.Expr))
	case *FixupExpression:
		return g.KeyOf(e.original)
	default:
		panic(fmt.Sprintf("AssertionError: GenericKeyFn does not handle expressions of type %T", expr))
	}
}

func isLongStringLiteral(expr output.OutputExpression) bool {
	if lit, ok := expr.(*output.LiteralExpr); ok {
		if str, ok := lit.Value.(string); ok {
			return len(str) >= PoolInclusionLengthThresholdForStrings
		}
	}
	return false
}

func isLiteralExpr(expr output.OutputExpression) bool {
	_, ok := expr.(*output.LiteralExpr)
	return ok
}

func isFixupExpression(expr output.OutputExpression) bool {
	_, ok := expr.(*FixupExpression)
	return ok
}
