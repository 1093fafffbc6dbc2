package r3_identifiers

import (
	"ngc-ir/packages/compiler/src/output"
)

// CORE is the module every runtime instruction is imported from
const CORE = "@angular/core"

func core(name string) *output.ExternalReference {
	return &output.ExternalReference{ModuleName: CORE, Name: name}
}

// Namespaces
var (
	NamespaceHTML   = core("ɵɵnamespaceHTML")
	NamespaceMathML = core("ɵɵnamespaceMathML")
	NamespaceSVG    = core("ɵɵnamespaceSVG")
)

// Structure
var (
	Element               = core("ɵɵelement")
	ElementStart          = core("ɵɵelementStart")
	ElementEnd            = core("ɵɵelementEnd")
	ElementContainer      = core("ɵɵelementContainer")
	ElementContainerStart = core("ɵɵelementContainerStart")
	ElementContainerEnd   = core("ɵɵelementContainerEnd")
	TemplateCreate        = core("ɵɵtemplate")
	ConditionalCreate     = core("ɵɵconditionalCreate")
	ConditionalBranch     = core("ɵɵconditionalBranchCreate")
	RepeaterCreate        = core("ɵɵrepeaterCreate")
	Text                  = core("ɵɵtext")
	ProjectionDef         = core("ɵɵprojectionDef")
	Projection            = core("ɵɵprojection")
	Pipe                  = core("ɵɵpipe")
	DeclareLet            = core("ɵɵdeclareLet")
	Advance               = core("ɵɵadvance")
	DisableBindings       = core("ɵɵdisableBindings")
	EnableBindings        = core("ɵɵenableBindings")
)

// Bindings
var (
	Property          = core("ɵɵproperty")
	TwoWayProperty    = core("ɵɵtwoWayProperty")
	Attribute         = core("ɵɵattribute")
	ClassProp         = core("ɵɵclassProp")
	StyleProp         = core("ɵɵstyleProp")
	ClassMap          = core("ɵɵclassMap")
	StyleMap          = core("ɵɵstyleMap")
	HostProperty      = core("ɵɵhostProperty")
	Conditional       = core("ɵɵconditional")
	Repeater          = core("ɵɵrepeater")
	StoreLet          = core("ɵɵstoreLet")
	ReadContextLet    = core("ɵɵreadContextLet")
	Listener          = core("ɵɵlistener")
	TwoWayListener    = core("ɵɵtwoWayListener")
	TwoWayBindingSet  = core("ɵɵtwoWayBindingSet")
	TextInterpolate   = core("ɵɵtextInterpolate")
	TextInterpolate1  = core("ɵɵtextInterpolate1")
	TextInterpolate2  = core("ɵɵtextInterpolate2")
	TextInterpolate3  = core("ɵɵtextInterpolate3")
	TextInterpolate4  = core("ɵɵtextInterpolate4")
	TextInterpolate5  = core("ɵɵtextInterpolate5")
	TextInterpolate6  = core("ɵɵtextInterpolate6")
	TextInterpolate7  = core("ɵɵtextInterpolate7")
	TextInterpolate8  = core("ɵɵtextInterpolate8")
	TextInterpolateV  = core("ɵɵtextInterpolateV")
	Interpolate       = core("ɵɵinterpolate")
	Interpolate1      = core("ɵɵinterpolate1")
	Interpolate2      = core("ɵɵinterpolate2")
	Interpolate3      = core("ɵɵinterpolate3")
	Interpolate4      = core("ɵɵinterpolate4")
	Interpolate5      = core("ɵɵinterpolate5")
	Interpolate6      = core("ɵɵinterpolate6")
	Interpolate7      = core("ɵɵinterpolate7")
	Interpolate8      = core("ɵɵinterpolate8")
	InterpolateV      = core("ɵɵinterpolateV")
	PipeBind1         = core("ɵɵpipeBind1")
	PipeBind2         = core("ɵɵpipeBind2")
	PipeBind3         = core("ɵɵpipeBind3")
	PipeBind4         = core("ɵɵpipeBind4")
	PipeBindV         = core("ɵɵpipeBindV")
	ComponentInstance = core("ɵɵcomponentInstance")

	RepeaterTrackByIndex    = core("ɵɵrepeaterTrackByIndex")
	RepeaterTrackByIdentity = core("ɵɵrepeaterTrackByIdentity")
)

// Context
var (
	NextContext    = core("ɵɵnextContext")
	GetCurrentView = core("ɵɵgetCurrentView")
	RestoreView    = core("ɵɵrestoreView")
	ResetView      = core("ɵɵresetView")
	Reference      = core("ɵɵreference")

	TemplateRefExtractor = core("ɵɵtemplateRefExtractor")
)

// Global event targets of listeners such as `window:resize`
var (
	ResolveWindow   = core("ɵɵresolveWindow")
	ResolveDocument = core("ɵɵresolveDocument")
	ResolveBody     = core("ɵɵresolveBody")
)

// Sanitization
var (
	SanitizeHtml            = core("ɵɵsanitizeHtml")
	SanitizeStyle           = core("ɵɵsanitizeStyle")
	SanitizeScript          = core("ɵɵsanitizeScript")
	SanitizeUrl             = core("ɵɵsanitizeUrl")
	SanitizeResourceUrl     = core("ɵɵsanitizeResourceUrl")
	ValidateIframeAttribute = core("ɵɵvalidateIframeAttribute")
)

// Queries
var (
	ViewQuery          = core("ɵɵviewQuery")
	ViewQuerySignal    = core("ɵɵviewQuerySignal")
	ContentQuery       = core("ɵɵcontentQuery")
	ContentQuerySignal = core("ɵɵcontentQuerySignal")
	QueryRefresh       = core("ɵɵqueryRefresh")
	QueryAdvance       = core("ɵɵqueryAdvance")
	LoadQuery          = core("ɵɵloadQuery")
)

// Definitions
var (
	DefineComponent          = core("ɵɵdefineComponent")
	ProvidersFeature         = core("ɵɵProvidersFeature")
	InheritDefinitionFeature = core("ɵɵInheritDefinitionFeature")
)

var textInterpolates = []*output.ExternalReference{
	TextInterpolate, TextInterpolate1, TextInterpolate2, TextInterpolate3, TextInterpolate4,
	TextInterpolate5, TextInterpolate6, TextInterpolate7, TextInterpolate8,
}

var interpolates = []*output.ExternalReference{
	Interpolate, Interpolate1, Interpolate2, Interpolate3, Interpolate4,
	Interpolate5, Interpolate6, Interpolate7, Interpolate8,
}

var pipeBinds = []*output.ExternalReference{PipeBind1, PipeBind2, PipeBind3, PipeBind4}

// TextInterpolateN returns the text interpolation instruction for n
// expressions: textInterpolate1..8, textInterpolateV above eight.
func TextInterpolateN(n int) *output.ExternalReference {
	if n < 1 || n > 8 {
		return TextInterpolateV
	}
	return textInterpolates[n]
}

// InterpolateN returns the property interpolation instruction for n
// expressions: interpolate1..8, interpolateV above eight.
func InterpolateN(n int) *output.ExternalReference {
	if n < 1 || n > 8 {
		return InterpolateV
	}
	return interpolates[n]
}

// PipeBindN returns pipeBind1..4 for n arguments, pipeBindV above four.
func PipeBindN(n int) *output.ExternalReference {
	if n < 1 || n > 4 {
		return PipeBindV
	}
	return pipeBinds[n-1]
}
