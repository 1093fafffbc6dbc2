package phases

import (
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// DeduplicateTextBindings removes repeated static attributes of an element.
// Like an HTML parser, the first occurrence wins.
func DeduplicateTextBindings(job compilation.Job) {
	type key struct {
		target    ir.XrefId
		namespace string
		name      string
	}
	for _, unit := range job.GetUnits() {
		seen := map[key]bool{}
		for _, op := range unit.GetCreate().Ops() {
			attr, ok := op.(*ir.ExtractedAttributeOp)
			if !ok || attr.BindingKind != ir.BindingKindAttribute {
				continue
			}
			k := key{attr.Target, attr.Namespace, attr.Name}
			if seen[k] {
				unit.GetCreate().Remove(op)
				continue
			}
			seen[k] = true
		}
	}
}
