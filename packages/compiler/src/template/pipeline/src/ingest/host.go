package ingest

import (
	"fmt"
	"strings"

	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/expression_parser"
	"ngc-ir/packages/compiler/src/output"
	constant "ngc-ir/packages/compiler/src/pool"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// globalEventTargets are the `target:` prefixes a host listener may use
var globalEventTargets = []string{"window", "document", "body"}

// IngestHostBinding processes the host metadata of a component into a
// HostBindingCompilationJob
func IngestHostBinding(name string, meta *view.R3HostMetadata, pool *constant.ConstantPool) *compilation.HostBindingCompilationJob {
	job := compilation.NewHostBindingCompilationJob(name, pool)
	c := &converter{job: job.CompilationJob, root: job.Root.Xref}
	parser := expression_parser.NewParser(expression_parser.NewLexer())
	location := name + " host"

	for _, attr := range meta.Attributes {
		job.Root.Create.Push(ir.NewExtractedAttributeOp(job.Root.Xref, ir.BindingKindAttribute, "", attr.Name, output.Literal(attr.Value)))
	}

	for _, property := range meta.Properties {
		ast := parser.ParseBinding(property.Expression, location, 0)
		if !reportParseErrors(job.CompilationJob, ast.Errors) {
			continue
		}
		job.Root.Update.Push(c.hostPropertyOp(job.Root.Xref, property.Key, ast))
	}

	for _, listener := range meta.Listeners {
		ast := parser.ParseAction(listener.Expression, location, 0)
		if !reportParseErrors(job.CompilationJob, ast.Errors) {
			continue
		}
		eventName, target := splitEventTarget(listener.Key)
		handlerOps := c.makeListenerHandlerOps(ast, nil)
		job.Root.Create.Push(ir.NewListenerOp(job.Root.Xref, ir.NoSlot, eventName, "", handlerOps, target, true, nil))
	}
	return job
}

func (c *converter) hostPropertyOp(xref ir.XrefId, key string, value *expression_parser.ASTWithSource) ir.UpdateOp {
	expr := c.convertAst(value.AST, nil)
	switch {
	case strings.HasPrefix(key, "attr."):
		return ir.NewAttributeOp(xref, "", strings.TrimPrefix(key, "attr."), expr, nil, nil)
	case strings.HasPrefix(key, "class."):
		return ir.NewClassPropOp(xref, strings.TrimPrefix(key, "class."), expr, nil)
	case strings.HasPrefix(key, "style."):
		name, unit, _ := strings.Cut(strings.TrimPrefix(key, "style."), ".")
		return ir.NewStylePropOp(xref, name, expr, unit, nil)
	case key == "class":
		return ir.NewClassMapOp(xref, expr, nil)
	case key == "style":
		return ir.NewStyleMapOp(xref, expr, nil)
	}
	return ir.NewPropertyOp(xref, key, expr, nil, nil)
}

// splitEventTarget splits `window:resize` into the event and its global target
func splitEventTarget(key string) (string, string) {
	target, event, found := strings.Cut(key, ":")
	if !found {
		return key, ""
	}
	for _, known := range globalEventTargets {
		if target == known {
			return event, target
		}
	}
	return key, ""
}

func reportParseErrors(job *compilation.CompilationJob, errs []*expression_parser.ParserError) bool {
	for _, err := range errs {
		job.Diagnostics.Add(diagnostics.NewError(diagnostics.CodeTemplateParseError, nil,
			fmt.Sprintf("%s in [%s] in %s", err.Message, err.Input, err.Location)))
	}
	return len(errs) == 0
}
