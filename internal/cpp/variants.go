package cpp

// Access is a member access level.
type Access int

const (
	Public Access = iota
	Protected
	Private
)

func (a Access) String() string {
	switch a {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// VirtualSpec describes how a member function participates in overriding.
type VirtualSpec int

const (
	NonVirtual VirtualSpec = iota
	Virtual
	PureVirtual
	Override
	Final
)

// IsVirtual reports whether the function is virtual in any form.
func (v VirtualSpec) IsVirtual() bool { return v != NonVirtual }

// Definition is the body marker of a function declaration.
type Definition int

const (
	Declaration Definition = iota
	Defaulted
	Deleted
)

// RefQualifier is the reference qualifier of a member function.
type RefQualifier int

const (
	NoRef RefQualifier = iota
	LValueRef
	RValueRef
)

// CVQualifier is the cv qualification of a member function.
type CVQualifier int

const (
	NoCV CVQualifier = iota
	Const
	Volatile
	ConstVolatile
)

// ClassKeyword selects between class, struct and union.
type ClassKeyword int

const (
	ClassKeywordClass ClassKeyword = iota
	ClassKeywordStruct
	ClassKeywordUnion
)

func (k ClassKeyword) String() string {
	switch k {
	case ClassKeywordStruct:
		return "struct"
	case ClassKeywordUnion:
		return "union"
	default:
		return "class"
	}
}

// File is the root of an entity tree.
type File struct{ Base }

func (*File) Kind() Kind { return FileKind }

// InclusionDirective is an #include. Ident is the included path.
type InclusionDirective struct {
	Base
	System bool
}

func (*InclusionDirective) Kind() Kind { return InclusionDirectiveKind }

// MacroDefinition is a #define. Params is nil for object-like macros and
// holds the text between the parentheses otherwise.
type MacroDefinition struct {
	Base
	Params      *string
	Replacement string
}

func (*MacroDefinition) Kind() Kind { return MacroDefinitionKind }

// LanguageLinkage is an extern "LANG" block. Ident is the language.
type LanguageLinkage struct{ Base }

func (*LanguageLinkage) Kind() Kind { return LanguageLinkageKind }

type Namespace struct {
	Base
	Inline bool
}

func (*Namespace) Kind() Kind { return NamespaceKind }

type NamespaceAlias struct {
	Base
	Target string
}

func (*NamespaceAlias) Kind() Kind { return NamespaceAliasKind }

// UsingDirective is "using namespace Target;".
type UsingDirective struct {
	Base
	Target string
}

func (*UsingDirective) Kind() Kind { return UsingDirectiveKind }

// UsingDeclaration is "using Target;".
type UsingDeclaration struct {
	Base
	Target string
}

func (*UsingDeclaration) Kind() Kind { return UsingDeclarationKind }

type TypeAlias struct {
	Base
	Target string
}

func (*TypeAlias) Kind() Kind { return TypeAliasKind }

// AliasTemplate holds its template parameters as members.
type AliasTemplate struct {
	Base
	Alias *TypeAlias
}

func (*AliasTemplate) Kind() Kind { return AliasTemplateKind }

type Enum struct {
	Base
	Scoped     bool
	Underlying string
}

func (*Enum) Kind() Kind { return EnumKind }

type EnumValue struct {
	Base
	Value string
}

func (*EnumValue) Kind() Kind { return EnumValueKind }

type Class struct {
	Base
	Keyword ClassKeyword
	Final   bool
	Bases   []*BaseClass
}

func (*Class) Kind() Kind { return ClassKind }

// BaseClass names a base of a class. Ident is the base type as written.
type BaseClass struct {
	Base
	Access  Access
	Virtual bool
}

func (*BaseClass) Kind() Kind { return BaseClassKind }

// AccessSpecifier marks an access change inside a class body.
type AccessSpecifier struct {
	Base
	Access Access
}

func (*AccessSpecifier) Kind() Kind { return AccessSpecifierKind }

type Variable struct {
	Base
	Type        string
	Init        string
	Static      bool
	ThreadLocal bool
	Constexpr   bool
}

func (*Variable) Kind() Kind { return VariableKind }

type MemberVariable struct {
	Base
	Type    string
	Init    string
	Mutable bool
}

func (*MemberVariable) Kind() Kind { return MemberVariableKind }

type Bitfield struct {
	Base
	Type    string
	Bits    string
	Init    string
	Mutable bool
}

func (*Bitfield) Kind() Kind { return BitfieldKind }

// Signature is shared by the function family. Parameters are members of
// the owning entity. Noexcept is empty for no clause, "true" for a bare
// noexcept and the condition otherwise.
type Signature struct {
	Return     string
	Variadic   bool
	Noexcept   string
	Constexpr  bool
	Definition Definition
}

type FunctionParameter struct {
	Base
	Type    string
	Default string
}

func (*FunctionParameter) Kind() Kind { return FunctionParameterKind }

type Function struct {
	Base
	Signature
	Static bool
}

func (*Function) Kind() Kind { return FunctionKind }

type MemberFunction struct {
	Base
	Signature
	Virtual VirtualSpec
	CV      CVQualifier
	Ref     RefQualifier
	Static  bool
}

func (*MemberFunction) Kind() Kind { return MemberFunctionKind }

// ConversionOp is "operator T()". Ident is "operator T" and Return is T.
type ConversionOp struct {
	Base
	Signature
	Virtual  VirtualSpec
	CV       CVQualifier
	Ref      RefQualifier
	Explicit bool
}

func (*ConversionOp) Kind() Kind { return ConversionOpKind }

type Constructor struct {
	Base
	Signature
	Explicit bool
}

func (*Constructor) Kind() Kind { return ConstructorKind }

type Destructor struct {
	Base
	Signature
	Virtual VirtualSpec
}

func (*Destructor) Kind() Kind { return DestructorKind }

// TemplateTypeParameter is "typename T" or "class... Ts".
type TemplateTypeParameter struct {
	Base
	Keyword  string
	Variadic bool
	Default  string
}

func (*TemplateTypeParameter) Kind() Kind { return TemplateTypeParameterKind }

type NonTypeTemplateParameter struct {
	Base
	Type     string
	Variadic bool
	Default  string
}

func (*NonTypeTemplateParameter) Kind() Kind { return NonTypeTemplateParameterKind }

// TemplateTemplateParameter holds its own template parameters as members.
type TemplateTemplateParameter struct {
	Base
	Variadic bool
	Default  string
}

func (*TemplateTemplateParameter) Kind() Kind { return TemplateTemplateParameterKind }

// FunctionTemplate holds its template parameters as members and wraps a
// function, member function, conversion operator or constructor.
type FunctionTemplate struct {
	Base
	Function Entity
}

func (*FunctionTemplate) Kind() Kind { return FunctionTemplateKind }

// FunctionTemplateSpecialization is "template <> f<Args>(...)". Ident is the
// specialized name including its argument list.
type FunctionTemplateSpecialization struct {
	Base
	Function Entity
}

func (*FunctionTemplateSpecialization) Kind() Kind {
	return FunctionTemplateSpecializationKind
}

type ClassTemplate struct {
	Base
	Class *Class
}

func (*ClassTemplate) Kind() Kind { return ClassTemplateKind }

// ClassTemplateFullSpecialization is "template <> class Box<int>". Ident is
// the specialized name including its argument list.
type ClassTemplateFullSpecialization struct {
	Base
	Class *Class
}

func (*ClassTemplateFullSpecialization) Kind() Kind {
	return ClassTemplateFullSpecializationKind
}

// ClassTemplatePartialSpecialization holds its own template parameters as
// members. Ident is the specialized name including its argument list.
type ClassTemplatePartialSpecialization struct {
	Base
	Class *Class
}

func (*ClassTemplatePartialSpecialization) Kind() Kind {
	return ClassTemplatePartialSpecializationKind
}

// Invalid is the sentinel produced for declarations the frontend could not
// interpret.
type Invalid struct{ Base }

func (*Invalid) Kind() Kind { return InvalidKind }

// Parameters returns the function parameters of a function-family entity.
func Parameters(e Entity) []*FunctionParameter {
	var out []*FunctionParameter
	for _, c := range e.Children() {
		if p, ok := c.(*FunctionParameter); ok {
			out = append(out, p)
		}
	}
	return out
}

// SignatureOf returns the signature of a function-family entity, or nil.
func SignatureOf(e Entity) *Signature {
	switch f := e.(type) {
	case *Function:
		return &f.Signature
	case *MemberFunction:
		return &f.Signature
	case *ConversionOp:
		return &f.Signature
	case *Constructor:
		return &f.Signature
	case *Destructor:
		return &f.Signature
	}
	return nil
}

// ClassOf returns e as a class, looking through class templates.
func ClassOf(e Entity) *Class {
	if c, ok := e.(*Class); ok {
		return c
	}
	if c, ok := Wrapped(e).(*Class); ok {
		return c
	}
	return nil
}
