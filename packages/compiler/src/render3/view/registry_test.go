package view_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/view"
)

func directive(name, selector string) *view.R3DirectiveDependencyMetadata {
	return &view.R3DirectiveDependencyMetadata{
		R3TemplateDependency: view.R3TemplateDependency{
			Kind: view.R3TemplateDependencyKindDirective,
			Type: output.Variable(name),
		},
		Selector: selector,
	}
}

func names(deps []view.R3TemplateDependencyMetadata) []string {
	var result []string
	for _, dep := range deps {
		result = append(result, output.NewAbstractJsEmitterVisitor(nil).EmitExpression(dep.Dependency().Type))
	}
	return result
}

func TestMetadataRegistry(t *testing.T) {
	t.Run("should expand modules into their exports", func(t *testing.T) {
		registry := view.NewSession()
		defer registry.Release()
		if err := registry.RegisterDirective("NgIf", directive("NgIf", "[ngIf]")); err != nil {
			t.Fatal(err)
		}
		pipe := &view.R3PipeDependencyMetadata{
			R3TemplateDependency: view.R3TemplateDependency{Kind: view.R3TemplateDependencyKindPipe, Type: output.Variable("AsyncPipe")},
			Name:                 "async",
		}
		if err := registry.RegisterPipe("AsyncPipe", pipe); err != nil {
			t.Fatal(err)
		}
		module := &view.R3NgModuleDependencyMetadata{
			R3TemplateDependency: view.R3TemplateDependency{Kind: view.R3TemplateDependencyKindNgModule, Type: output.Variable("CommonModule")},
		}
		if err := registry.RegisterModule("CommonModule", module, []string{"NgIf", "AsyncPipe"}); err != nil {
			t.Fatal(err)
		}

		deps, err := registry.Resolve([]string{"CommonModule", "NgIf"})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"CommonModule", "NgIf", "AsyncPipe"}, names(deps)); diff != "" {
			t.Errorf("unexpected dependencies (-want +got):\n%s", diff)
		}
	})

	t.Run("should report unknown imports", func(t *testing.T) {
		registry := view.NewSession()
		defer registry.Release()
		_, err := registry.Resolve([]string{"Missing"})
		if !errors.Is(err, view.ErrUnknownDeclaration) {
			t.Errorf("expected ErrUnknownDeclaration, got %v", err)
		}
	})

	t.Run("should reject duplicate names", func(t *testing.T) {
		registry := view.NewSession()
		defer registry.Release()
		_ = registry.RegisterDirective("A", directive("A", "a"))
		if err := registry.RegisterDirective("A", directive("A", "a")); !errors.Is(err, view.ErrDuplicateDeclaration) {
			t.Errorf("expected ErrDuplicateDeclaration, got %v", err)
		}
	})

	t.Run("should count references", func(t *testing.T) {
		registry := view.NewSession()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			worker := registry.Acquire()
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer worker.Release()
				_, _ = worker.Resolve(nil)
			}()
		}
		wg.Wait()
		if registry.Refs() != 1 {
			t.Errorf("expected 1 reference, got %d", registry.Refs())
		}
		registry.Release()
		defer func() {
			if recover() == nil {
				t.Errorf("expected a panic when acquiring a released registry")
			}
		}()
		registry.Acquire()
	})
}
