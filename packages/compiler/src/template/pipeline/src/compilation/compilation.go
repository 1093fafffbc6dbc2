package compilation

import (
	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/output"
	constant "ngc-ir/packages/compiler/src/pool"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
)

// CompilationJobKind represents the kind of compilation job
type CompilationJobKind int

const (
	// CompilationJobKindTmpl - Template compilation
	CompilationJobKindTmpl CompilationJobKind = iota
	// CompilationJobKindHost - Host binding compilation
	CompilationJobKindHost
	// CompilationJobKindBoth - marks phases that run for both kinds of job
	CompilationJobKindBoth
)

func (k CompilationJobKind) String() string {
	switch k {
	case CompilationJobKindTmpl:
		return "template"
	case CompilationJobKindHost:
		return "host"
	}
	return "both"
}

// Job is the part of a compilation job phases can share between template
// and host binding compilation.
type Job interface {
	GetBase() *CompilationJob
	GetUnits() []CompilationUnit
	GetRoot() CompilationUnit
	GetFnSuffix() string
}

// CompilationJob is an entire ongoing compilation, which will result in one or more template functions when complete.
// Contains one or more corresponding compilation units.
type CompilationJob struct {
	ComponentName string
	Pool          *constant.ConstantPool
	Kind          CompilationJobKind
	Slots         *ir.SlotArena
	Diagnostics   *diagnostics.Bag
	nextXrefId    ir.XrefId
}

func newCompilationJob(componentName string, pool *constant.ConstantPool, kind CompilationJobKind) *CompilationJob {
	return &CompilationJob{
		ComponentName: componentName,
		Pool:          pool,
		Kind:          kind,
		Slots:         ir.NewSlotArena(),
		Diagnostics:   diagnostics.NewBag(),
	}
}

// GetBase implements Job
func (j *CompilationJob) GetBase() *CompilationJob { return j }

// AllocateXrefId generates a new unique `ir.XrefId` in this job
func (j *CompilationJob) AllocateXrefId() ir.XrefId {
	id := j.nextXrefId
	j.nextXrefId++
	return id
}

// ComponentCompilationJob is compilation-in-progress of a whole component's template,
// including the main template and any embedded views.
type ComponentCompilationJob struct {
	*CompilationJob
	Root *ViewCompilationUnit
	// Views by xref; views lists them in allocation order.
	Views map[ir.XrefId]*ViewCompilationUnit
	views []*ViewCompilationUnit

	// Literal array of the raw `<ng-content>` selectors, or nil.
	ContentSelectors   output.OutputExpression
	Consts             []output.OutputExpression
	ConstsInitializers []output.OutputStatement

	// Declarations visible to the template, in import order.
	AvailableDependencies []view.R3TemplateDependencyMetadata
	used                  []bool

	DeclarationListEmitMode view.DeclarationListEmitMode

	nextProjectionOrder int
}

// NewComponentCompilationJob creates a job with an empty root view
func NewComponentCompilationJob(componentName string, pool *constant.ConstantPool, dependencies []view.R3TemplateDependencyMetadata, mode view.DeclarationListEmitMode) *ComponentCompilationJob {
	job := &ComponentCompilationJob{
		CompilationJob:          newCompilationJob(componentName, pool, CompilationJobKindTmpl),
		Views:                   make(map[ir.XrefId]*ViewCompilationUnit),
		AvailableDependencies:   dependencies,
		used:                    make([]bool, len(dependencies)),
		DeclarationListEmitMode: mode,
	}
	job.Root = job.newView(nil)
	return job
}

func (j *ComponentCompilationJob) newView(parent *ir.XrefId) *ViewCompilationUnit {
	unit := NewViewCompilationUnit(j, j.AllocateXrefId(), parent)
	j.Views[unit.Xref] = unit
	j.views = append(j.views, unit)
	return unit
}

// AllocateView adds a `ViewCompilationUnit` for a new embedded view to this compilation
func (j *ComponentCompilationJob) AllocateView(parent ir.XrefId) *ViewCompilationUnit {
	return j.newView(&parent)
}

// AllocateProjectionOrder returns the next template-order index of an `<ng-content>`
func (j *ComponentCompilationJob) AllocateProjectionOrder() int {
	order := j.nextProjectionOrder
	j.nextProjectionOrder++
	return order
}

// GetUnits returns all view compilation units in allocation order
func (j *ComponentCompilationJob) GetUnits() []CompilationUnit {
	units := make([]CompilationUnit, len(j.views))
	for i, unit := range j.views {
		units[i] = unit
	}
	return units
}

// GetViews returns all views in allocation order
func (j *ComponentCompilationJob) GetViews() []*ViewCompilationUnit {
	return j.views
}

// GetRoot returns the root view compilation unit
func (j *ComponentCompilationJob) GetRoot() CompilationUnit {
	return j.Root
}

// GetFnSuffix returns the function suffix for template compilation
func (j *ComponentCompilationJob) GetFnSuffix() string {
	return "Template"
}

// AddConst adds a constant `o.Expression` to the compilation and returns its index in the `consts` array
func (j *ComponentCompilationJob) AddConst(newConst output.OutputExpression, initializers []output.OutputStatement) ir.ConstIndex {
	for idx := range j.Consts {
		if j.Consts[idx].IsEquivalent(newConst) {
			return ir.ConstIndex(idx)
		}
	}
	idx := len(j.Consts)
	j.Consts = append(j.Consts, newConst)
	j.ConstsInitializers = append(j.ConstsInitializers, initializers...)
	return ir.ConstIndex(idx)
}

// MarkDependencyUsed records the use of AvailableDependencies[index]
func (j *ComponentCompilationJob) MarkDependencyUsed(index int) {
	j.used[index] = true
}

// MarkPipeUsed records the use of the pipe with the given name and reports
// whether any available pipe has it.
func (j *ComponentCompilationJob) MarkPipeUsed(name string) bool {
	found := false
	for i, dep := range j.AvailableDependencies {
		if pipe, ok := dep.(*view.R3PipeDependencyMetadata); ok && pipe.Name == name {
			j.used[i] = true
			found = true
		}
	}
	return found
}

// HasPipe reports whether a pipe with the given name is available
func (j *ComponentCompilationJob) HasPipe(name string) bool {
	for _, dep := range j.AvailableDependencies {
		if pipe, ok := dep.(*view.R3PipeDependencyMetadata); ok && pipe.Name == name {
			return true
		}
	}
	return false
}

// IsDependencyUsed reports whether AvailableDependencies[index] was used
func (j *ComponentCompilationJob) IsDependencyUsed(index int) bool {
	return j.used[index]
}

// UsedDependencies returns the indexes of the used dependencies, ascending
func (j *ComponentCompilationJob) UsedDependencies() []int {
	var result []int
	for i, used := range j.used {
		if used {
			result = append(result, i)
		}
	}
	return result
}

// CompilationUnit is compiled into a template function. Some example units are views and host bindings.
type CompilationUnit interface {
	GetXref() ir.XrefId
	GetJob() Job
	GetCreate() *ir.OpList
	GetUpdate() *ir.OpList
	GetFnName() string
	SetFnName(name string)
	GetVars() int
	SetVars(vars int)
}

// UnitOps returns every op of unit: the create list, then the handler ops of
// listeners and repeater track functions, then the update list.
func UnitOps(unit CompilationUnit) []ir.Op {
	var result []ir.Op
	for _, op := range unit.GetCreate().Ops() {
		result = append(result, op)
		switch o := op.(type) {
		case *ir.ListenerOp:
			result = append(result, o.HandlerOps.Ops()...)
		case *ir.RepeaterCreateOp:
			if o.TrackByOps != nil {
				result = append(result, o.TrackByOps.Ops()...)
			}
		}
	}
	return append(result, unit.GetUpdate().Ops()...)
}

// ContextRef as the value of a context variable binds the name to the whole
// view context instead of one of its properties.
const ContextRef = "CTX_REF_MARKER"

// ContextVariable is a name bound to a property of a view's context, e.g.
// `item` to `$implicit`
type ContextVariable struct {
	Name  string
	Value string
}

// ViewCompilationUnit is compilation-in-progress of an individual view within a template.
type ViewCompilationUnit struct {
	Job    *ComponentCompilationJob
	Xref   ir.XrefId
	Parent *ir.XrefId
	Create *ir.OpList
	Update *ir.OpList
	FnName string
	Decls  int
	Vars   int

	// Context variables in declaration order.
	ContextVariables []ContextVariable
	// Aliases in declaration order.
	Aliases []*ir.AliasVariable
}

// NewViewCompilationUnit creates a new ViewCompilationUnit
func NewViewCompilationUnit(job *ComponentCompilationJob, xref ir.XrefId, parent *ir.XrefId) *ViewCompilationUnit {
	return &ViewCompilationUnit{
		Job:    job,
		Xref:   xref,
		Parent: parent,
		Create: ir.NewOpList(),
		Update: ir.NewOpList(),
	}
}

// SetContextVariable binds name to the context property value
func (v *ViewCompilationUnit) SetContextVariable(name, value string) {
	for i := range v.ContextVariables {
		if v.ContextVariables[i].Name == name {
			v.ContextVariables[i].Value = value
			return
		}
	}
	v.ContextVariables = append(v.ContextVariables, ContextVariable{Name: name, Value: value})
}

// GetXref returns the xref ID
func (v *ViewCompilationUnit) GetXref() ir.XrefId { return v.Xref }

// GetJob returns the compilation job
func (v *ViewCompilationUnit) GetJob() Job { return v.Job }

// GetCreate returns the create operations list
func (v *ViewCompilationUnit) GetCreate() *ir.OpList { return v.Create }

// GetUpdate returns the update operations list
func (v *ViewCompilationUnit) GetUpdate() *ir.OpList { return v.Update }

// GetFnName returns the function name
func (v *ViewCompilationUnit) GetFnName() string { return v.FnName }

// SetFnName sets the function name
func (v *ViewCompilationUnit) SetFnName(name string) { v.FnName = name }

// GetVars returns the number of variable slots
func (v *ViewCompilationUnit) GetVars() int { return v.Vars }

// SetVars sets the number of variable slots
func (v *ViewCompilationUnit) SetVars(vars int) { v.Vars = vars }

// HostBindingCompilationJob is compilation-in-progress of a host binding,
// which contains a single unit for that host binding.
type HostBindingCompilationJob struct {
	*CompilationJob
	Root *HostBindingCompilationUnit
}

// NewHostBindingCompilationJob creates a new HostBindingCompilationJob
func NewHostBindingCompilationJob(componentName string, pool *constant.ConstantPool) *HostBindingCompilationJob {
	job := &HostBindingCompilationJob{
		CompilationJob: newCompilationJob(componentName, pool, CompilationJobKindHost),
	}
	job.Root = &HostBindingCompilationUnit{
		Job:    job,
		Xref:   job.AllocateXrefId(),
		Create: ir.NewOpList(),
		Update: ir.NewOpList(),
	}
	return job
}

// GetUnits returns all host binding compilation units
func (j *HostBindingCompilationJob) GetUnits() []CompilationUnit {
	return []CompilationUnit{j.Root}
}

// GetRoot returns the root host binding compilation unit
func (j *HostBindingCompilationJob) GetRoot() CompilationUnit {
	return j.Root
}

// GetFnSuffix returns the function suffix for host binding compilation
func (j *HostBindingCompilationJob) GetFnSuffix() string {
	return "HostBindings"
}

// HostBindingCompilationUnit is the single unit of a host binding job.
// Attributes holds the static host attributes, or nil.
type HostBindingCompilationUnit struct {
	Job        *HostBindingCompilationJob
	Xref       ir.XrefId
	Create     *ir.OpList
	Update     *ir.OpList
	FnName     string
	Vars       int
	Attributes *output.LiteralArrayExpr
}

func (h *HostBindingCompilationUnit) GetXref() ir.XrefId     { return h.Xref }
func (h *HostBindingCompilationUnit) GetJob() Job            { return h.Job }
func (h *HostBindingCompilationUnit) GetCreate() *ir.OpList  { return h.Create }
func (h *HostBindingCompilationUnit) GetUpdate() *ir.OpList  { return h.Update }
func (h *HostBindingCompilationUnit) GetFnName() string      { return h.FnName }
func (h *HostBindingCompilationUnit) SetFnName(name string)  { h.FnName = name }
func (h *HostBindingCompilationUnit) GetVars() int           { return h.Vars }
func (h *HostBindingCompilationUnit) SetVars(vars int)       { h.Vars = vars }
