package pipeline

import (
	"fmt"
	"strings"

	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/r3_identifiers"
)

// EmitModule renders definitions as one JavaScript module. Each definition
// is assigned to the static `ɵcmp` field of its component class, preceded by
// the statements it depends on. Every referenced module gets a namespace
// import; `@angular/core` is always `i0`.
func EmitModule(defs []*ComponentDefinition) string {
	imports := output.NewImportManager(r3_identifiers.CORE)
	emitter := output.NewAbstractJsEmitterVisitor(imports)

	var statements []output.OutputStatement
	for _, def := range defs {
		statements = append(statements, def.Statements...)
		field := output.Prop(output.Variable(def.Name), "ɵcmp")
		statements = append(statements, output.Stmt(output.Assign(field, def.Expression)))
	}
	body := emitter.EmitStatements(statements)

	var b strings.Builder
	for _, module := range imports.Modules() {
		fmt.Fprintf(&b, "import * as %s from '%s';\n", imports.AliasFor(module), module)
	}
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}
