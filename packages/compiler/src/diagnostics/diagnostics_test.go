package diagnostics_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"

	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/util"
)

func TestBag(t *testing.T) {
	file := util.NewParseSourceFile("<div>{{ a | missing }}</div>", "app.html")

	t.Run("should fold only errors into Err", func(t *testing.T) {
		bag := diagnostics.NewBag()
		bag.Add(diagnostics.NewWarning(diagnostics.CodeUnusedStandaloneImports, nil, "NgIf is not used"))
		if bag.Err() != nil {
			t.Errorf("expected no error for warnings only, got %v", bag.Err())
		}
		bag.Add(diagnostics.NewError(diagnostics.CodeMissingPipe, util.SpanForOffsets(file, 12, 19), "No pipe found with name 'missing'."))
		bag.Add(diagnostics.NewError(diagnostics.CodeMissingReferenceTarget, nil, "No directive found with exportAs 'form'."))

		var merr *multierror.Error
		if !errors.As(bag.Err(), &merr) {
			t.Fatalf("expected a multierror, got %T", bag.Err())
		}
		if len(merr.Errors) != 2 {
			t.Errorf("expected 2 errors, got %d", len(merr.Errors))
		}
		if !strings.Contains(bag.Err().Error(), "NG8004") {
			t.Errorf("expected NG8004 in %q", bag.Err().Error())
		}
	})

	t.Run("should sort by position then severity", func(t *testing.T) {
		bag := diagnostics.NewBag()
		bag.Add(diagnostics.NewWarning(diagnostics.CodeUnusedStandaloneImports, util.SpanForOffsets(file, 5, 6), "late"))
		bag.Add(diagnostics.NewWarning(diagnostics.CodeUnusedStandaloneImports, util.SpanForOffsets(file, 0, 4), "warn"))
		bag.Add(diagnostics.NewError(diagnostics.CodeMissingPipe, util.SpanForOffsets(file, 0, 4), "err"))
		bag.Sort()

		var got []string
		for _, d := range bag.Items() {
			got = append(got, d.Message)
		}
		if diff := cmp.Diff([]string{"err", "warn", "late"}, got); diff != "" {
			t.Errorf("unexpected order (-want +got):\n%s", diff)
		}
	})

	t.Run("should merge bags", func(t *testing.T) {
		a, b := diagnostics.NewBag(), diagnostics.NewBag()
		b.Add(diagnostics.NewError(diagnostics.CodeMissingControlFlowDirective, nil, "x"))
		a.Merge(b)
		a.Merge(nil)
		if a.Len() != 1 || !a.HasErrors() {
			t.Errorf("expected one error after merge, got %d", a.Len())
		}
	})
}

func TestCode(t *testing.T) {
	if got := diagnostics.CodeUnusedStandaloneImports.ID(); got != "NG8113" {
		t.Errorf("expected NG8113, got %s", got)
	}
}
