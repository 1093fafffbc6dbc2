package core_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-ir/packages/compiler/src/core"
)

func TestParseSelectorToR3Selector(t *testing.T) {
	tests := []struct {
		selector string
		want     core.R3CssSelectorList
	}{
		{"", core.R3CssSelectorList{}},
		{"my-cmp", core.R3CssSelectorList{{"my-cmp"}}},
		{"[ngIf]", core.R3CssSelectorList{{"", "ngIf", ""}}},
		{".a.b", core.R3CssSelectorList{{"", core.SelectorFlagsCLASS, "a", "b"}}},
		{"div:not([x])", core.R3CssSelectorList{{"div", core.SelectorFlagsNOT | core.SelectorFlagsATTRIBUTE, "x", ""}}},
		{"a, b", core.R3CssSelectorList{{"a"}, {"b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := core.ParseSelectorToR3Selector(tt.selector)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected encoding (-want +got):\n%s", diff)
			}
		})
	}
}
