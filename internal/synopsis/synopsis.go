// Package synopsis renders C++ entities back into declaration text.
package synopsis

import (
	"fmt"
	"strings"

	"cppdoc/internal/cpp"
	"cppdoc/internal/markup"
)

// Policy is the part of the blacklist the generator consults.
type Policy interface {
	IsSynopsisBlacklisted(e cpp.Entity) bool
	ExtractPrivate() bool
}

// Options control the layout of the generated text.
type Options struct {
	// TabWidth is the indentation of class, enum and (optionally) namespace
	// bodies. Zero means 4.
	TabWidth int
	// ExtractPrivate shows private members even when the policy does not.
	ExtractPrivate bool
	// IndentNamespaces indents namespace and linkage bodies.
	IndentNamespaces bool
	// Documented reports whether an entity is documented on its own. It
	// defaults to cpp.HasDocumentation.
	Documented func(cpp.Entity) bool
	// Exclude hides entities in addition to the policy, for example those
	// whose comment excludes them.
	Exclude func(cpp.Entity) bool
}

// DefaultOptions returns the options used by the command line tool.
func DefaultOptions() Options {
	return Options{TabWidth: 4}
}

// UnhandledKindError reports an entity the generator has no writer for.
type UnhandledKindError struct {
	Kind cpp.Kind
	Name string
}

func (e *UnhandledKindError) Error() string {
	return fmt.Sprintf("synopsis: unhandled entity kind %s (%q)", e.Kind, e.Name)
}

// Write renders e as a top-level synopsis into a code block appended to
// parent.
func Write(parent markup.Container, e cpp.Entity, policy Policy, opts Options) (*markup.CodeBlock, error) {
	text, err := String(e, policy, opts)
	if err != nil {
		return nil, err
	}
	return markup.MakeCodeBlock(parent, "cpp", text)
}

// String renders e as a top-level synopsis.
func String(e cpp.Entity, policy Policy, opts Options) (string, error) {
	g := newGenerator(policy, opts)
	g.dispatch(e, true, "")
	if g.err != nil {
		return "", g.err
	}
	return g.out.String(), nil
}

type generator struct {
	out            *codeWriter
	policy         Policy
	opts           Options
	extractPrivate bool
	err            error
}

func newGenerator(policy Policy, opts Options) *generator {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	if opts.Documented == nil {
		opts.Documented = cpp.HasDocumentation
	}
	g := &generator{out: newCodeWriter(), policy: policy, opts: opts}
	g.extractPrivate = opts.ExtractPrivate || (policy != nil && policy.ExtractPrivate())
	return g
}

func (g *generator) w(parts ...string) {
	for _, p := range parts {
		g.out.write(p)
	}
}

func (g *generator) blacklisted(e cpp.Entity) bool {
	if g.policy != nil && g.policy.IsSynopsisBlacklisted(e) {
		return true
	}
	return g.opts.Exclude != nil && g.opts.Exclude(e)
}

// dispatch writes e. An entity without its own documentation is always
// written as if it were top level, because nothing else will show its body.
func (g *generator) dispatch(e cpp.Entity, topLevel bool, overrideName string) {
	if g.err != nil {
		return
	}
	if !topLevel && !g.opts.Documented(e) {
		topLevel = true
	}

	switch v := e.(type) {
	case *cpp.File:
		g.writeFile(v)
	case *cpp.InclusionDirective:
		g.writeInclude(v)
	case *cpp.MacroDefinition:
		g.writeMacro(v)
	case *cpp.LanguageLinkage:
		g.w(`extern "`, v.Name(), `"`)
		g.writeEntityRange(v.Children())
	case *cpp.Namespace:
		if v.Inline {
			g.w("inline ")
		}
		g.w("namespace ", v.Name())
		g.writeEntityRange(v.Children())
	case *cpp.NamespaceAlias:
		g.w("namespace ", v.Name(), " = ", v.Target, ";")
	case *cpp.UsingDirective:
		g.w("using namespace ", v.Target, ";")
	case *cpp.UsingDeclaration:
		g.w("using ", v.Target, ";")
	case *cpp.TypeAlias:
		g.writeTypeAlias(v)
	case *cpp.AliasTemplate:
		g.writeTemplateParameters(v.Children())
		g.out.newline()
		if v.Alias != nil {
			g.writeTypeAlias(v.Alias)
		}
	case *cpp.Enum:
		g.writeEnum(v, topLevel)
	case *cpp.EnumValue:
		g.w(v.Name())
		if v.Value != "" {
			g.w(" = ", v.Value)
		}
	case *cpp.BaseClass:
		g.writeBase(v)
	case *cpp.Class:
		g.writeClass(v, topLevel, overrideName)
	case *cpp.Variable:
		g.writeVariable(v)
	case *cpp.MemberVariable:
		if v.Mutable {
			g.w("mutable ")
		}
		g.writeTypeValueDefault(v.Type, v.Name(), v.Init, false)
		g.w(";")
	case *cpp.Bitfield:
		if v.Mutable {
			g.w("mutable ")
		}
		g.writeTypeValueDefault(v.Type, v.Name(), "", false)
		g.w(" : ", v.Bits)
		if v.Init != "" {
			g.w(" = ", v.Init)
		}
		g.w(";")
	case *cpp.Function:
		g.writeFunction(v, overrideName)
	case *cpp.MemberFunction:
		g.writePrefix(v.Virtual, v.Constexpr, false, v.Static)
		g.w(v.Return, " ")
		g.writeParameters(v, overrideName, &v.Signature)
		g.writeCVRef(v.CV, v.Ref)
		g.writeNoexcept(&v.Signature)
		g.writeOverrideFinal(v.Virtual)
		g.writeDefinition(&v.Signature, v.Virtual)
	case *cpp.ConversionOp:
		g.writePrefix(v.Virtual, v.Constexpr, v.Explicit, false)
		g.writeParameters(v, overrideName, &v.Signature)
		g.writeCVRef(v.CV, v.Ref)
		g.writeNoexcept(&v.Signature)
		g.writeOverrideFinal(v.Virtual)
		g.writeDefinition(&v.Signature, v.Virtual)
	case *cpp.Constructor:
		g.writePrefix(cpp.NonVirtual, v.Constexpr, v.Explicit, false)
		g.writeParameters(v, overrideName, &v.Signature)
		g.writeNoexcept(&v.Signature)
		g.writeDefinition(&v.Signature, cpp.NonVirtual)
	case *cpp.Destructor:
		g.writePrefix(cpp.NonVirtual, v.Constexpr, false, false)
		g.writeParameters(v, overrideName, &v.Signature)
		g.writeNoexcept(&v.Signature)
		g.writeOverrideFinal(v.Virtual)
		g.writeDefinition(&v.Signature, v.Virtual)
	case *cpp.FunctionParameter:
		g.writeTypeValueDefault(v.Type, v.Name(), v.Default, false)
	case *cpp.TemplateTypeParameter:
		g.writeTypeParameter(v)
	case *cpp.NonTypeTemplateParameter:
		g.writeTypeValueDefault(v.Type, v.Name(), v.Default, v.Variadic)
	case *cpp.TemplateTemplateParameter:
		g.writeTemplateParameters(v.Children())
		g.w(" class")
		if v.Variadic {
			g.w("...")
		}
		if v.Name() != "" {
			g.w(" ", v.Name())
		}
		if v.Default != "" {
			g.w(" = ", v.Default)
		}
	case *cpp.FunctionTemplate:
		g.writeTemplateParameters(v.Children())
		g.out.newline()
		g.dispatchWrapped(v.Function, topLevel, "")
	case *cpp.FunctionTemplateSpecialization:
		g.w("template <>")
		g.out.newline()
		g.dispatchWrapped(v.Function, topLevel, v.Name())
	case *cpp.ClassTemplate:
		g.writeTemplateParameters(v.Children())
		g.out.newline()
		g.dispatchWrapped(v.Class, topLevel, "")
	case *cpp.ClassTemplateFullSpecialization:
		g.w("template <>")
		g.out.newline()
		g.dispatchWrapped(v.Class, topLevel, v.Name())
	case *cpp.ClassTemplatePartialSpecialization:
		g.writeTemplateParameters(v.Children())
		g.out.newline()
		g.dispatchWrapped(v.Class, topLevel, v.Name())

	case *cpp.AccessSpecifier, *cpp.Invalid:
		// nothing to show
	default:
		g.err = &UnhandledKindError{Kind: e.Kind(), Name: e.Name()}
	}
}

func (g *generator) dispatchWrapped(e cpp.Entity, topLevel bool, overrideName string) {
	switch v := e.(type) {
	case nil:
		return
	case *cpp.Class:
		if v == nil {
			return
		}
	}
	g.dispatch(e, topLevel, overrideName)
}

//=== preprocessor ===//

func (g *generator) writeFile(f *cpp.File) {
	children := f.Children()
	g.out.writeRange(len(children), g.out.blankLine, func(i int) bool {
		e := children[i]
		if g.blacklisted(e) {
			return false
		}
		g.dispatch(e, false, "")
		return true
	})
}

func (g *generator) writeInclude(i *cpp.InclusionDirective) {
	if i.System {
		g.w("#include <", i.Name(), ">")
	} else {
		g.w(`#include "`, i.Name(), `"`)
	}
}

func (g *generator) writeMacro(m *cpp.MacroDefinition) {
	g.w("#define ", m.Name())
	if m.Params != nil {
		g.w("(", *m.Params, ")")
	}
	if m.Replacement != "" {
		g.w(" ", m.Replacement)
	}
}

//=== scopes ===//

// writeEntityRange writes a namespace or linkage body.
func (g *generator) writeEntityRange(children []cpp.Entity) {
	width := 0
	if g.opts.IndentNamespaces {
		width = g.opts.TabWidth
	}
	g.writeBody(width, g.out.blankLine, children, func(e cpp.Entity) bool {
		if g.blacklisted(e) {
			return false
		}
		g.dispatch(e, false, "")
		return true
	})
}

// writeBody writes a brace-delimited listing. A listing where nothing was
// written collapses to " {}".
func (g *generator) writeBody(width int, sep func(), children []cpp.Entity, fn func(cpp.Entity) bool) {
	start := g.out.mark()
	g.out.newline()
	g.w("{")
	g.out.newline()

	inner := g.out.mark()
	g.out.indented(width, func() {
		g.out.writeRange(len(children), sep, func(i int) bool {
			return fn(children[i])
		})
	})
	if !g.out.written(inner) {
		g.out.rewind(start)
		g.w(" {}")
		return
	}

	g.out.newline()
	g.w("}")
}

func (g *generator) writeTypeAlias(a *cpp.TypeAlias) {
	g.w("using ", a.Name(), " = ", a.Target, ";")
}

func (g *generator) writeEnum(e *cpp.Enum, topLevel bool) {
	g.w("enum ")
	if e.Scoped {
		g.w("class ")
	}
	g.w(e.Name())
	if e.Name() == "" || topLevel {
		if e.Underlying != "" {
			g.out.newline()
			g.w(": ", e.Underlying)
		}
		g.writeBody(g.opts.TabWidth, g.out.newline, e.Children(), func(v cpp.Entity) bool {
			if g.blacklisted(v) {
				return false
			}
			m := g.out.mark()
			g.dispatch(v, false, "")
			if !g.out.written(m) {
				return false
			}
			g.w(",")
			return true
		})
	}
	g.w(";")
}

func (g *generator) writeBase(b *cpp.BaseClass) {
	g.w(b.Access.String(), " ")
	if b.Virtual {
		g.w("virtual ")
	}
	g.w(b.Name())
}

func (g *generator) writeClass(c *cpp.Class, topLevel bool, overrideName string) {
	name := c.Name()
	if overrideName != "" {
		name = overrideName
	}
	g.w(c.Keyword.String())
	if name != "" {
		g.w(" ", name)
	}

	if name == "" || topLevel {
		if c.Final {
			g.w(" final")
		}
		g.writeBases(c)
		g.writeMembers(c)
	}
	g.w(";")
}

func (g *generator) writeBases(c *cpp.Class) {
	var bases []*cpp.BaseClass
	for _, b := range c.Bases {
		if g.extractPrivate || b.Access != cpp.Private {
			bases = append(bases, b)
		}
	}
	if len(bases) == 0 {
		return
	}
	g.out.newline()
	g.w(": ")
	for i, b := range bases {
		if i > 0 {
			g.w(", ")
		}
		g.writeBase(b)
	}
}

// writeMembers writes a class body. An access header is written only when
// the access differs from the last written member's.
func (g *generator) writeMembers(c *cpp.Class) {
	lastAccess := cpp.Public
	if c.Keyword == cpp.ClassKeywordClass {
		lastAccess = cpp.Private
	}
	curAccess := lastAccess
	needAccess := false

	g.writeBody(g.opts.TabWidth, g.out.blankLine, c.Children(), func(e cpp.Entity) bool {
		if spec, ok := e.(*cpp.AccessSpecifier); ok {
			curAccess = spec.Access
			needAccess = curAccess != lastAccess
			return false
		}
		if g.blacklisted(e) {
			return false
		}
		if Hidden(e, curAccess, g.extractPrivate) {
			return false
		}
		head := g.out.mark()
		prevAccess, prevNeed := lastAccess, needAccess
		if needAccess {
			g.writeAccess(curAccess)
			needAccess = false
			lastAccess = curAccess
		}
		body := g.out.mark()
		g.dispatch(e, false, "")
		if !g.out.written(body) {
			// an empty member must not leave its access header behind
			g.out.rewind(head)
			lastAccess, needAccess = prevAccess, prevNeed
			return false
		}
		return true
	})
}

func (g *generator) writeAccess(a cpp.Access) {
	g.out.indented(-g.opts.TabWidth, func() {
		g.w(a.String(), ":")
		g.out.newline()
	})
}

// Hidden reports whether a class member with the given access is left out
// of synopses. Private virtual members stay visible since they can be
// overridden.
func Hidden(member cpp.Entity, access cpp.Access, extractPrivate bool) bool {
	return !extractPrivate && access == cpp.Private && !isVirtual(member)
}

func isVirtual(e cpp.Entity) bool {
	switch v := e.(type) {
	case *cpp.MemberFunction:
		return v.Virtual.IsVirtual()
	case *cpp.ConversionOp:
		return v.Virtual.IsVirtual()
	case *cpp.Destructor:
		return v.Virtual.IsVirtual()
	case *cpp.FunctionTemplate:
		return isVirtual(v.Function)
	}
	return false
}

//=== variables ===//

func (g *generator) writeVariable(v *cpp.Variable) {
	if _, inClass := v.SemanticParent().(*cpp.Class); inClass || v.Static {
		g.w("static ")
	}
	if v.ThreadLocal {
		g.w("thread_local ")
	}
	if v.Constexpr {
		g.w("constexpr ")
	}
	g.writeTypeValueDefault(v.Type, v.Name(), v.Init, false)
	g.w(";")
}

// writeTypeValueDefault writes "TYPE NAME = DEFAULT". Array extents of the
// type move behind the name.
func (g *generator) writeTypeValueDefault(typ, name, def string, variadic bool) {
	suffix := ""
	if i := strings.IndexByte(typ, '['); i > 0 && name != "" {
		typ, suffix = strings.TrimRight(typ[:i], " "), typ[i:]
	}
	g.w(typ)
	if variadic {
		g.w("...")
	}
	if name != "" {
		g.w(" ", name)
	}
	g.w(suffix)
	if def != "" {
		g.w(" = ", def)
	}
}

//=== functions ===//

func (g *generator) writeFunction(f *cpp.Function, overrideName string) {
	if f.Static {
		g.w("static ")
	}
	if f.Constexpr {
		g.w("constexpr ")
	}
	g.w(f.Return, " ")
	g.writeParameters(f, overrideName, &f.Signature)
	g.writeNoexcept(&f.Signature)
	g.writeDefinition(&f.Signature, cpp.NonVirtual)
}

func (g *generator) writePrefix(virt cpp.VirtualSpec, constexpr, explicit, static bool) {
	if explicit {
		g.w("explicit ")
	}
	if constexpr {
		g.w("constexpr ")
	}
	if static {
		g.w("static ")
	}
	if virt == cpp.Virtual || virt == cpp.PureVirtual {
		g.w("virtual ")
	}
}

func (g *generator) writeParameters(f cpp.Entity, overrideName string, sig *cpp.Signature) {
	name := f.Name()
	if overrideName != "" {
		name = overrideName
	}
	g.w(name, "(")
	params := cpp.Parameters(f)
	g.out.writeRange(len(params), func() { g.w(", ") }, func(i int) bool {
		g.dispatch(params[i], false, "")
		return true
	})
	if sig.Variadic {
		if len(params) > 0 {
			g.w(", ")
		}
		g.w("...")
	}
	g.w(")")
}

func (g *generator) writeCVRef(cv cpp.CVQualifier, ref cpp.RefQualifier) {
	switch cv {
	case cpp.Const:
		g.w(" const")
	case cpp.Volatile:
		g.w(" volatile")
	case cpp.ConstVolatile:
		g.w(" const volatile")
	}
	switch ref {
	case cpp.LValueRef:
		g.w(" &")
	case cpp.RValueRef:
		g.w(" &&")
	}
}

func (g *generator) writeNoexcept(sig *cpp.Signature) {
	switch sig.Noexcept {
	case "":
	case "true":
		g.w(" noexcept")
	default:
		g.w(" noexcept(", sig.Noexcept, ")")
	}
}

func (g *generator) writeOverrideFinal(virt cpp.VirtualSpec) {
	switch virt {
	case cpp.Override:
		g.w(" override")
	case cpp.Final:
		g.w(" final")
	}
}

func (g *generator) writeDefinition(sig *cpp.Signature, virt cpp.VirtualSpec) {
	switch {
	case virt == cpp.PureVirtual:
		g.w(" = 0;")
	case sig.Definition == cpp.Defaulted:
		g.w(" = default;")
	case sig.Definition == cpp.Deleted:
		g.w(" = delete;")
	default:
		g.w(";")
	}
}

//=== templates ===//

func (g *generator) writeTemplateParameters(params []cpp.Entity) {
	g.w("template <")
	g.out.writeRange(len(params), func() { g.w(", ") }, func(i int) bool {
		if g.blacklisted(params[i]) {
			return false
		}
		g.dispatch(params[i], false, "")
		return true
	})
	g.w(">")
}

func (g *generator) writeTypeParameter(p *cpp.TemplateTypeParameter) {
	keyword := p.Keyword
	if keyword == "" {
		keyword = "typename"
	}
	g.w(keyword)
	if p.Variadic {
		g.w("...")
	}
	if p.Name() != "" {
		g.w(" ", p.Name())
	}
	if p.Default != "" {
		g.w(" = ", p.Default)
	}
}
