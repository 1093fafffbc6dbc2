package core

import (
	"ngc-ir/packages/compiler/src/css"
)

// ChangeDetectionStrategy is the runtime change detection strategy
type ChangeDetectionStrategy int

const (
	ChangeDetectionStrategyOnPush  ChangeDetectionStrategy = 0
	ChangeDetectionStrategyDefault ChangeDetectionStrategy = 1
)

// ViewEncapsulation controls how component styles are scoped
type ViewEncapsulation int

const (
	ViewEncapsulationEmulated  ViewEncapsulation = 0
	ViewEncapsulationNone      ViewEncapsulation = 2
	ViewEncapsulationShadowDom ViewEncapsulation = 3
)

// ParseViewEncapsulation maps a manifest value to a ViewEncapsulation.
func ParseViewEncapsulation(s string) (ViewEncapsulation, bool) {
	switch s {
	case "", "Emulated":
		return ViewEncapsulationEmulated, true
	case "None":
		return ViewEncapsulationNone, true
	case "ShadowDom":
		return ViewEncapsulationShadowDom, true
	}
	return 0, false
}

// InputFlags are stored next to an input's public name in the inputs map
type InputFlags int

const (
	InputFlagsNone                       InputFlags = 0
	InputFlagsSignalBased                InputFlags = 1 << 0
	InputFlagsHasDecoratorInputTransform InputFlags = 1 << 1
)

// SecurityContext is the kind of value a DOM property or attribute accepts,
// which decides how a bound value is sanitized
type SecurityContext int

const (
	SecurityContextNONE SecurityContext = iota
	SecurityContextHTML
	SecurityContextSTYLE
	SecurityContextSCRIPT
	SecurityContextURL
	SecurityContextRESOURCE_URL
)

// SelectorFlags are the markers of the runtime selector encoding
type SelectorFlags int

const (
	SelectorFlagsNOT       SelectorFlags = 0b0001
	SelectorFlagsATTRIBUTE SelectorFlags = 0b0010
	SelectorFlagsELEMENT   SelectorFlags = 0b0100
	SelectorFlagsCLASS     SelectorFlags = 0b1000
)

// AttributeMarker separates sections of a static attribute array
type AttributeMarker int

const (
	AttributeMarkerNamespaceURI AttributeMarker = 0
	AttributeMarkerClasses      AttributeMarker = 1
	AttributeMarkerStyles       AttributeMarker = 2
	AttributeMarkerBindings     AttributeMarker = 3
	AttributeMarkerTemplate     AttributeMarker = 4
	AttributeMarkerProjectAs    AttributeMarker = 5
	AttributeMarkerI18n         AttributeMarker = 6
)

// R3CssSelector is a flat encoded selector: strings and SelectorFlags.
type R3CssSelector []interface{}

// R3CssSelectorList is a list of encoded selectors.
type R3CssSelectorList []R3CssSelector

// ParseSelectorToR3Selector encodes a selector string in the runtime's
// array form, e.g. `div.a:not([b])` as ['div', '', 8, 'a', 3, 'b', ''].
// An empty selector encodes as an empty list.
func ParseSelectorToR3Selector(selector string) (R3CssSelectorList, error) {
	if selector == "" {
		return R3CssSelectorList{}, nil
	}
	selectors, err := css.ParseCssSelector(selector)
	if err != nil {
		return nil, err
	}
	result := make(R3CssSelectorList, 0, len(selectors))
	for _, s := range selectors {
		result = append(result, toR3Selector(s))
	}
	return result, nil
}

func toR3Selector(selector *css.CssSelector) R3CssSelector {
	positive := toSimpleSelector(selector)
	for _, notSelector := range selector.NotSelectors {
		positive = append(positive, toNegativeSelector(notSelector)...)
	}
	return positive
}

func toSimpleSelector(selector *css.CssSelector) R3CssSelector {
	element := selector.Element
	if element == "*" {
		element = ""
	}
	result := R3CssSelector{element}
	for _, attr := range selector.Attrs {
		result = append(result, attr)
	}
	return append(result, classes(selector)...)
}

func toNegativeSelector(selector *css.CssSelector) R3CssSelector {
	var result R3CssSelector
	switch {
	case selector.Element != "":
		result = R3CssSelector{SelectorFlagsNOT | SelectorFlagsELEMENT, selector.Element}
		for _, attr := range selector.Attrs {
			result = append(result, attr)
		}
		result = append(result, classes(selector)...)
	case len(selector.Attrs) > 0:
		result = R3CssSelector{SelectorFlagsNOT | SelectorFlagsATTRIBUTE}
		for _, attr := range selector.Attrs {
			result = append(result, attr)
		}
		result = append(result, classes(selector)...)
	case len(selector.ClassNames) > 0:
		result = R3CssSelector{SelectorFlagsNOT | SelectorFlagsCLASS}
		for _, c := range selector.ClassNames {
			result = append(result, c)
		}
	}
	return result
}

func classes(selector *css.CssSelector) R3CssSelector {
	if len(selector.ClassNames) == 0 {
		return nil
	}
	result := R3CssSelector{SelectorFlagsCLASS}
	for _, c := range selector.ClassNames {
		result = append(result, c)
	}
	return result
}
