package ir_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
)

func expectInternalError(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if _, ok := r.(ir.InternalError); !ok {
			t.Errorf("expected an InternalError panic, got %v", r)
		}
	}()
	fn()
}

func kinds(list *ir.OpList) []ir.OpKind {
	var result []ir.OpKind
	for _, op := range list.Ops() {
		result = append(result, op.GetKind())
	}
	return result
}

func TestSlotArena(t *testing.T) {
	t.Run("should assign each handle exactly once", func(t *testing.T) {
		arena := ir.NewSlotArena()
		a, b := arena.New(), arena.New()
		if a == b {
			t.Fatalf("expected distinct handles")
		}
		if _, ok := arena.Lookup(a); ok {
			t.Errorf("expected a fresh handle to be unassigned")
		}
		arena.Assign(a, 0)
		arena.Assign(b, 3)
		if arena.Slot(b) != 3 {
			t.Errorf("expected slot 3, got %d", arena.Slot(b))
		}
		expectInternalError(t, func() { arena.Assign(a, 1) })
	})

	t.Run("should fail to read an unassigned handle", func(t *testing.T) {
		arena := ir.NewSlotArena()
		h := arena.New()
		expectInternalError(t, func() { arena.Slot(h) })
		expectInternalError(t, func() { arena.Slot(ir.SlotHandle(7)) })
	})
}

func TestOpList(t *testing.T) {
	t.Run("should keep insertion order", func(t *testing.T) {
		list := ir.NewOpList()
		text := ir.NewTextOp(1, 0, "", nil)
		end := ir.NewElementEndOp(0, nil)
		list.Push(text)
		list.Push(end)
		list.Prepend([]ir.Op{ir.NewNamespaceOp(ir.NamespaceSVG), ir.NewProjectionDefOp(nil)})
		list.InsertBefore(end, ir.NewPipeOp(2, 1, "async"))
		list.InsertAfter(text, ir.NewDeclareLetOp(3, 2, "x", nil))

		want := []ir.OpKind{ir.OpKindNamespace, ir.OpKindProjectionDef, ir.OpKindText, ir.OpKindDeclareLet, ir.OpKindPipe, ir.OpKindElementEnd}
		if diff := cmp.Diff(want, kinds(list)); diff != "" {
			t.Errorf("unexpected ops (-want +got):\n%s", diff)
		}
		if list.Len() != 6 {
			t.Errorf("expected 6 ops, got %d", list.Len())
		}
	})

	t.Run("should replace and remove", func(t *testing.T) {
		list := ir.NewOpList()
		a := ir.NewAdvanceOp(1, nil)
		b := ir.NewAdvanceOp(2, nil)
		list.Push(a)
		list.Push(b)
		list.ReplaceWithMany(a, []ir.Op{
			ir.NewStatementOp(output.Stmt(output.Variable("x"))),
			ir.NewStatementOp(output.Stmt(output.Variable("y"))),
		})
		list.Remove(b)
		list.Replace(list.Ops()[1], ir.NewAdvanceOp(5, nil))

		want := []ir.OpKind{ir.OpKindStatement, ir.OpKindAdvance}
		if diff := cmp.Diff(want, kinds(list)); diff != "" {
			t.Errorf("unexpected ops (-want +got):\n%s", diff)
		}
		if adv := list.Ops()[1].(*ir.AdvanceOp); adv.Delta != 5 {
			t.Errorf("expected the replacement op, got delta %d", adv.Delta)
		}
	})

	t.Run("should reject ops owned by another list", func(t *testing.T) {
		first, second := ir.NewOpList(), ir.NewOpList()
		op := ir.NewAdvanceOp(1, nil)
		first.Push(op)
		expectInternalError(t, func() { second.Push(op) })
		expectInternalError(t, func() { second.Remove(op) })
		expectInternalError(t, func() { first.Remove(first.Head()) })
	})
}

func TestTransformExpressionsInOp(t *testing.T) {
	t.Run("should flag expressions of listener handlers", func(t *testing.T) {
		handler := ir.NewOpList()
		handler.Push(ir.NewStatementOp(output.Return(ir.NewLexicalReadExpr("inner", nil))))
		listener := ir.NewListenerOp(1, 0, "click", "div", handler, "", false, nil)

		var seen []string
		ir.VisitExpressionsInOp(listener, func(expr output.OutputExpression, flags ir.VisitorContextFlag) {
			if read, ok := expr.(*ir.LexicalReadExpr); ok {
				if flags&ir.VisitorContextFlagInChildOperation == 0 {
					t.Errorf("expected the child operation flag for %s", read.Name)
				}
				seen = append(seen, read.Name)
			}
		})
		if diff := cmp.Diff([]string{"inner"}, seen); diff != "" {
			t.Errorf("unexpected reads (-want +got):\n%s", diff)
		}
	})

	t.Run("should replace nested expressions", func(t *testing.T) {
		interpolation := ir.NewInterpolation([]string{"", ""}, []output.OutputExpression{
			output.Prop(ir.NewLexicalReadExpr("user", nil), "name"),
		})
		op := ir.NewInterpolateTextOp(1, interpolation, nil)
		ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
			if read, ok := expr.(*ir.LexicalReadExpr); ok {
				return output.Prop(output.Variable("ctx"), read.Name)
			}
			return expr
		}, ir.VisitorContextFlagNone)

		got := output.NewAbstractJsEmitterVisitor(nil).EmitExpression(op.Interpolation.Expressions[0])
		if got != "ctx.user.name" {
			t.Errorf("expected ctx.user.name, got %s", got)
		}
	})
}
