package expression_parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize renders an expression AST back into normalized source text.
// Used for diagnostics and for tests.
func Serialize(ast AST) string {
	switch ast := ast.(type) {
	case nil:
		return ""
	case *ASTWithSource:
		return Serialize(ast.AST)
	case *EmptyExpr, *ImplicitReceiver:
		return ""
	case *ThisReceiver:
		return "this"
	case *Unary:
		return ast.Operator + Serialize(ast.Expr)
	case *Binary:
		return fmt.Sprintf("%s %s %s", Serialize(ast.Left), ast.Operation, Serialize(ast.Right))
	case *Chain:
		parts := make([]string, len(ast.Expressions))
		for i, expr := range ast.Expressions {
			parts[i] = Serialize(expr)
		}
		return strings.Join(parts, "; ")
	case *Conditional:
		return fmt.Sprintf("%s ? %s : %s", Serialize(ast.Condition), Serialize(ast.TrueExp), Serialize(ast.FalseExp))
	case *BindingPipe:
		var b strings.Builder
		fmt.Fprintf(&b, "%s | %s", Serialize(ast.Exp), ast.Name)
		for _, arg := range ast.Args {
			b.WriteString(":" + Serialize(arg))
		}
		return b.String()
	case *PropertyRead:
		return memberAccess(ast.Receiver, ".", ast.Name)
	case *SafePropertyRead:
		return Serialize(ast.Receiver) + "?." + ast.Name
	case *PropertyWrite:
		return memberAccess(ast.Receiver, ".", ast.Name) + " = " + Serialize(ast.Value)
	case *KeyedRead:
		return fmt.Sprintf("%s[%s]", Serialize(ast.Receiver), Serialize(ast.Key))
	case *SafeKeyedRead:
		return fmt.Sprintf("%s?.[%s]", Serialize(ast.Receiver), Serialize(ast.Key))
	case *KeyedWrite:
		return fmt.Sprintf("%s[%s] = %s", Serialize(ast.Receiver), Serialize(ast.Key), Serialize(ast.Value))
	case *Call:
		return fmt.Sprintf("%s(%s)", Serialize(ast.Receiver), serializeList(ast.Args))
	case *SafeCall:
		return fmt.Sprintf("%s?.(%s)", Serialize(ast.Receiver), serializeList(ast.Args))
	case *LiteralArray:
		return "[" + serializeList(ast.Expressions) + "]"
	case *LiteralMap:
		entries := make([]string, len(ast.Keys))
		for i, key := range ast.Keys {
			name := key.Key
			if key.Quoted {
				name = "'" + name + "'"
			}
			entries[i] = name + ": " + Serialize(ast.Values[i])
		}
		return "{" + strings.Join(entries, ", ") + "}"
	case *LiteralPrimitive:
		return serializePrimitive(ast.Value)
	case *Interpolation:
		var b strings.Builder
		for i, str := range ast.Strings {
			b.WriteString(str)
			if i < len(ast.Expressions) {
				b.WriteString("{{ " + Serialize(ast.Expressions[i]) + " }}")
			}
		}
		return b.String()
	case *PrefixNot:
		return "!" + Serialize(ast.Expression)
	case *TypeofExpression:
		return "typeof " + Serialize(ast.Expression)
	case *NonNullAssert:
		return Serialize(ast.Expression) + "!"
	case *ParenthesizedExpression:
		return "(" + Serialize(ast.Expression) + ")"
	}
	panic(fmt.Sprintf("AssertionError: unsupported expression %T", ast))
}

func memberAccess(receiver AST, sep, name string) string {
	switch receiver.(type) {
	case *ImplicitReceiver, nil:
		return name
	}
	return Serialize(receiver) + sep + name
}

func serializeList(asts []AST) string {
	parts := make([]string, len(asts))
	for i, ast := range asts {
		parts[i] = Serialize(ast)
	}
	return strings.Join(parts, ", ")
}

func serializePrimitive(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case Undefined:
		return "undefined"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
	}
	return fmt.Sprint(value)
}
