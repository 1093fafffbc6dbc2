package schema

import (
	"strings"
	"sync"

	"ngc-ir/packages/compiler/src/core"
)

var (
	securitySchemaOnce sync.Once
	securitySchema     map[string]core.SecurityContext
)

// SecuritySchema maps `tag|property` (lower case, `*` for every tag) to the
// security context of the property
func SecuritySchema() map[string]core.SecurityContext {
	securitySchemaOnce.Do(func() {
		securitySchema = map[string]core.SecurityContext{}
		registerContext(core.SecurityContextHTML, []string{
			"iframe|srcdoc",
			"*|innerHTML",
			"*|outerHTML",
		})
		registerContext(core.SecurityContextSTYLE, []string{
			"*|style",
		})
		// No SCRIPT contexts: the template parser strips script elements.
		registerContext(core.SecurityContextURL, []string{
			"*|formAction",
			"area|href",
			"area|ping",
			"audio|src",
			"a|href",
			"a|ping",
			"blockquote|cite",
			"body|background",
			"del|cite",
			"form|action",
			"img|src",
			"input|src",
			"ins|cite",
			"q|cite",
			"source|src",
			"track|src",
			"video|poster",
			"video|src",
		})
		registerContext(core.SecurityContextRESOURCE_URL, []string{
			"applet|code",
			"applet|codebase",
			"base|href",
			"embed|src",
			"frame|src",
			"head|profile",
			"html|manifest",
			"iframe|src",
			"link|href",
			"media|src",
			"object|codebase",
			"object|data",
			"script|src",
		})
	})
	return securitySchema
}

func registerContext(ctx core.SecurityContext, specs []string) {
	for _, spec := range specs {
		securitySchema[strings.ToLower(spec)] = ctx
	}
}

// SecurityContextOf looks up the security context of binding name on tag.
// Attribute bindings are matched the same way as properties.
func SecurityContextOf(tag, name string) core.SecurityContext {
	schema := SecuritySchema()
	tag, name = strings.ToLower(tag), strings.ToLower(name)
	if ctx, ok := schema[tag+"|"+name]; ok {
		return ctx
	}
	if ctx, ok := schema["*|"+name]; ok {
		return ctx
	}
	return core.SecurityContextNONE
}

// iframeSecuritySensitiveAttrs must be static on an `<iframe>`, so the
// runtime sees them before the frame loads
var iframeSecuritySensitiveAttrs = map[string]bool{
	"sandbox":         true,
	"allow":           true,
	"allowfullscreen": true,
	"referrerpolicy":  true,
	"csp":             true,
	"fetchpriority":   true,
}

// IsIframeSecuritySensitiveAttr reports whether binding attrName on an
// `<iframe>` needs runtime validation. The DOM treats names case-insensitively.
func IsIframeSecuritySensitiveAttr(attrName string) bool {
	return iframeSecuritySensitiveAttrs[strings.ToLower(attrName)]
}
