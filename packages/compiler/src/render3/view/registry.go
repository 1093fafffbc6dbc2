package view

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownDeclaration is returned when an import names nothing registered
	ErrUnknownDeclaration = errors.New("unknown declaration")
	// ErrDuplicateDeclaration is returned when a name is registered twice
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
)

// ModuleEntry is a registered NgModule and the declarations it exports
type ModuleEntry struct {
	Metadata *R3NgModuleDependencyMetadata
	Exports  []string
}

// MetadataRegistry is the directive/pipe/module table of one compilation
// session. It is shared read-mostly between parallel jobs, so every access
// goes through the lock. Sessions are reference counted: the creator holds
// one reference, every worker Acquires its own, and the tables are dropped
// when the last reference is Released.
type MetadataRegistry struct {
	mu         sync.RWMutex
	refs       int
	directives map[string]*R3DirectiveDependencyMetadata
	pipes      map[string]*R3PipeDependencyMetadata
	modules    map[string]*ModuleEntry
}

// NewSession creates a registry holding one reference
func NewSession() *MetadataRegistry {
	return &MetadataRegistry{
		refs:       1,
		directives: make(map[string]*R3DirectiveDependencyMetadata),
		pipes:      make(map[string]*R3PipeDependencyMetadata),
		modules:    make(map[string]*ModuleEntry),
	}
}

// Acquire adds a reference. Acquiring a released registry panics.
func (r *MetadataRegistry) Acquire() *MetadataRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs <= 0 {
		panic("AssertionError: metadata registry used after release")
	}
	r.refs++
	return r
}

// Release drops a reference and clears the tables once none remain.
func (r *MetadataRegistry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs <= 0 {
		panic("AssertionError: metadata registry released twice")
	}
	r.refs--
	if r.refs == 0 {
		r.directives = nil
		r.pipes = nil
		r.modules = nil
	}
}

// Refs returns the current reference count
func (r *MetadataRegistry) Refs() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refs
}

// RegisterDirective adds a directive or component under its class name
func (r *MetadataRegistry) RegisterDirective(name string, meta *R3DirectiveDependencyMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, name)
	}
	r.directives[name] = meta
	return nil
}

// RegisterPipe adds a pipe under its class name
func (r *MetadataRegistry) RegisterPipe(name string, meta *R3PipeDependencyMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, name)
	}
	r.pipes[name] = meta
	return nil
}

// RegisterModule adds an NgModule exporting the named declarations
func (r *MetadataRegistry) RegisterModule(name string, meta *R3NgModuleDependencyMetadata, exports []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, name)
	}
	r.modules[name] = &ModuleEntry{Metadata: meta, Exports: exports}
	return nil
}

func (r *MetadataRegistry) taken(name string) bool {
	if r.refs <= 0 {
		panic("AssertionError: metadata registry used after release")
	}
	_, isDir := r.directives[name]
	_, isPipe := r.pipes[name]
	_, isModule := r.modules[name]
	return isDir || isPipe || isModule
}

// Resolve turns a component's import list into template dependencies.
// A module contributes itself followed by its exports; repeated
// declarations keep their first position.
func (r *MetadataRegistry) Resolve(imports []string) ([]R3TemplateDependencyMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.refs <= 0 {
		panic("AssertionError: metadata registry used after release")
	}

	var result []R3TemplateDependencyMetadata
	seen := make(map[string]bool)
	var missing []string
	var add func(name string, viaModule bool)
	add = func(name string, viaModule bool) {
		if seen[name] {
			return
		}
		seen[name] = true
		if dir, ok := r.directives[name]; ok {
			result = append(result, dir)
			return
		}
		if pipe, ok := r.pipes[name]; ok {
			result = append(result, pipe)
			return
		}
		if module, ok := r.modules[name]; ok && !viaModule {
			result = append(result, module.Metadata)
			for _, export := range module.Exports {
				add(export, true)
			}
			return
		}
		missing = append(missing, name)
	}
	for _, name := range imports {
		add(name, false)
	}
	if len(missing) > 0 {
		return result, fmt.Errorf("%w: %v", ErrUnknownDeclaration, missing)
	}
	return result, nil
}
