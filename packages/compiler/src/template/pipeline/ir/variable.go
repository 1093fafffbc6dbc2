package ir

import "ngc-ir/packages/compiler/src/output"

// SemanticVariable is what a VariableOp declares. Names are assigned by the
// naming phase; until then GetName returns "".
type SemanticVariable interface {
	GetKind() SemanticVariableKind
	GetName() string
	SetName(name string)
	isSemanticVariable()
}

type variableBase struct {
	name string
}

func (v *variableBase) GetName() string     { return v.name }
func (v *variableBase) SetName(name string) { v.name = name }
func (v *variableBase) isSemanticVariable() {}

// ContextVariable is the context object of View
type ContextVariable struct {
	variableBase
	View XrefId
}

func NewContextVariable(view XrefId) *ContextVariable {
	return &ContextVariable{View: view}
}

func (*ContextVariable) GetKind() SemanticVariableKind { return SemanticVariableKindContext }

// IdentifierVariable is a name declared in the template: a context variable
// such as a loop item, a local reference or a `@let`. Local marks a `@let`
// read in the view that declares it.
type IdentifierVariable struct {
	variableBase
	Identifier string
	Local      bool
}

func NewIdentifierVariable(identifier string, local bool) *IdentifierVariable {
	return &IdentifierVariable{Identifier: identifier, Local: local}
}

func (*IdentifierVariable) GetKind() SemanticVariableKind { return SemanticVariableKindIdentifier }

// SavedViewVariable holds the result of getCurrentView() for View
type SavedViewVariable struct {
	variableBase
	View XrefId
}

func NewSavedViewVariable(view XrefId) *SavedViewVariable {
	return &SavedViewVariable{View: view}
}

func (*SavedViewVariable) GetKind() SemanticVariableKind { return SemanticVariableKindSavedView }

// AliasVariable is inlined wherever it is read, e.g. `$first` of a `@for`
type AliasVariable struct {
	variableBase
	Identifier string
	Expression output.OutputExpression
}

func NewAliasVariable(identifier string, expression output.OutputExpression) *AliasVariable {
	return &AliasVariable{Identifier: identifier, Expression: expression}
}

func (*AliasVariable) GetKind() SemanticVariableKind { return SemanticVariableKindAlias }
