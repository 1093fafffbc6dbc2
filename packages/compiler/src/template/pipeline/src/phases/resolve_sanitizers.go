package phases

import (
	"strings"

	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/r3_identifiers"
	"ngc-ir/packages/compiler/src/schema"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	pipeline_util "ngc-ir/packages/compiler/src/template/pipeline/src/util"
)

var sanitizerFns = map[core.SecurityContext]*output.ExternalReference{
	core.SecurityContextHTML:         r3_identifiers.SanitizeHtml,
	core.SecurityContextRESOURCE_URL: r3_identifiers.SanitizeResourceUrl,
	core.SecurityContextSCRIPT:       r3_identifiers.SanitizeScript,
	core.SecurityContextSTYLE:        r3_identifiers.SanitizeStyle,
	core.SecurityContextURL:          r3_identifiers.SanitizeUrl,
}

// ResolveSanitizers attaches the runtime sanitizer matching the security
// context of each property and attribute binding. Security-sensitive
// `<iframe>` attributes without a sanitizer get validated instead.
func ResolveSanitizers(job compilation.Job) {
	host := job.GetBase().Kind == compilation.CompilationJobKindHost
	for _, unit := range job.GetUnits() {
		elements := pipeline_util.CreateOpXrefMap(unit)
		for _, op := range unit.GetUpdate().Ops() {
			var name string
			var target ir.XrefId
			var sanitizer *output.OutputExpression
			switch o := op.(type) {
			case *ir.PropertyOp:
				name, target, sanitizer = o.Name, o.Target, &o.Sanitizer
			case *ir.AttributeOp:
				name, target, sanitizer = o.Name, o.Target, &o.Sanitizer
			default:
				continue
			}

			// Host bindings do not know their element; only the tag-independent
			// entries of the schema apply and any element may be an iframe.
			tag := "*"
			isIframe := host
			if !host {
				start, ok := elements[target].(*ir.ElementStartOp)
				if !ok {
					continue
				}
				tag = start.Tag
				isIframe = strings.ToLower(start.Tag) == "iframe"
			}

			if fn, ok := sanitizerFns[schema.SecurityContextOf(tag, name)]; ok {
				*sanitizer = output.ImportExpr(fn)
			} else if isIframe && schema.IsIframeSecuritySensitiveAttr(name) {
				*sanitizer = output.ImportExpr(r3_identifiers.ValidateIframeAttribute)
			}
		}
	}
}
