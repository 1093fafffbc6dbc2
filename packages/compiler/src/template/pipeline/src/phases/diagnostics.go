package phases

import (
	"fmt"

	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// Imports from these modules are resolved through namespace imports and
// can not be attributed to one declaration.
var frameworkModules = map[string]bool{
	"@angular/core":   true,
	"@angular/common": true,
	"@angular/forms":  true,
}

// CheckUnusedImports reports every declaration of the component that the
// template never used.
func CheckUnusedImports(job *compilation.ComponentCompilationJob) {
	for i, dep := range job.AvailableDependencies {
		if job.IsDependencyUsed(i) {
			continue
		}

		var name string
		switch d := dep.(type) {
		case *view.R3DirectiveDependencyMetadata:
			// Without a selector the directive metadata is unresolved; assume
			// it is used.
			if d.Selector == "" {
				continue
			}
			name = typeName(d.Type)
		case *view.R3PipeDependencyMetadata:
			name = d.Name
		default:
			continue
		}

		meta := dep.Dependency()
		if frameworkModules[moduleOf(meta)] {
			continue
		}
		job.Diagnostics.Add(diagnostics.NewWarning(
			diagnostics.CodeUnusedStandaloneImports,
			meta.SourceSpan,
			fmt.Sprintf("%s is not used within the template of %s", name, job.ComponentName),
		))
	}
}

func typeName(expr output.OutputExpression) string {
	switch e := expr.(type) {
	case *output.ReadVarExpr:
		return e.Name
	case *output.ExternalExpr:
		if e.Value.Name != "" {
			return e.Value.Name
		}
	}
	return "Unknown"
}

func moduleOf(dep *view.R3TemplateDependency) string {
	if dep.ImportedFrom != "" {
		return dep.ImportedFrom
	}
	if ext, ok := dep.Type.(*output.ExternalExpr); ok {
		return ext.Value.ModuleName
	}
	return ""
}
