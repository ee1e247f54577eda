package synopsis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cppdoc/internal/blacklist"
	"cppdoc/internal/cpp"
	"cppdoc/internal/markup"
)

func base(name, doc string) cpp.Base {
	return cpp.Base{Ident: name, Doc: doc}
}

func render(t *testing.T, e cpp.Entity, bl *blacklist.Blacklist) string {
	t.Helper()
	if bl == nil {
		bl = blacklist.New()
	}
	out, err := String(e, bl, DefaultOptions())
	require.NoError(t, err)
	return out
}

func access(parent cpp.Entity, a cpp.Access) {
	cpp.Add(parent, &cpp.AccessSpecifier{Access: a})
}

func TestEndToEnd(t *testing.T) {
	file := &cpp.File{Base: base("a.hpp", "")}
	ns := cpp.Add(file, &cpp.Namespace{Base: base("ns", "")})
	class := cpp.Add(ns, &cpp.Class{Base: base("C", "")})
	access(class, cpp.Public)
	cpp.Add(class, &cpp.MemberFunction{
		Base:      base("f", "Does f."),
		Signature: cpp.Signature{Return: "void", Noexcept: "true"},
		CV:        cpp.Const,
	})
	access(class, cpp.Private)
	cpp.Add(class, &cpp.MemberFunction{
		Base:      base("g", "Does g."),
		Signature: cpp.Signature{Return: "void"},
		Virtual:   cpp.Virtual,
	})

	assert.Equal(t,
		"namespace ns\n{\nclass C\n{\npublic:\n    void f() const noexcept;\n\nprivate:\n    virtual void g();\n};\n}",
		render(t, ns, nil))
}

func TestAccessCompaction(t *testing.T) {
	class := &cpp.Class{Base: base("C", "")}
	access(class, cpp.Public)
	cpp.Add(class, &cpp.MemberVariable{Base: base("a", "x"), Type: "int"})
	access(class, cpp.Private)
	cpp.Add(class, &cpp.MemberFunction{
		Base:      base("b", "x"),
		Signature: cpp.Signature{Return: "void"},
		Virtual:   cpp.Virtual,
	})
	access(class, cpp.Protected)
	access(class, cpp.Private)
	cpp.Add(class, &cpp.MemberFunction{Base: base("c", "x"), Signature: cpp.Signature{Return: "void"}})
	cpp.Add(class, &cpp.MemberVariable{Base: base("hidden", "x"), Type: "int"})

	bl := blacklist.New()
	bl.AddSynopsis("c", cpp.AnyKind)

	want := "class C\n{\npublic:\n    int a;\n\nprivate:\n    virtual void b();\n};"
	assert.Equal(t, want, render(t, class, bl))

	t.Run("extract private", func(t *testing.T) {
		bl := blacklist.New()
		bl.SetExtractPrivate(true)
		out := render(t, class, bl)
		assert.Contains(t, out, "    void c();")
		assert.Contains(t, out, "    int hidden;")
		assert.Equal(t, 1, countOf(out, "private:"))
		assert.NotContains(t, out, "protected:")
	})
}

func TestAccessCompaction_EmptyMember(t *testing.T) {
	build := func(invalidLast bool) *cpp.Class {
		class := &cpp.Class{Base: base("C", "")}
		access(class, cpp.Public)
		cpp.Add(class, &cpp.MemberVariable{Base: base("a", ""), Type: "int"})
		access(class, cpp.Protected)
		if invalidLast {
			cpp.Add(class, &cpp.Invalid{})
			return class
		}
		cpp.Add(class, &cpp.Invalid{})
		cpp.Add(class, &cpp.MemberVariable{Base: base("b", ""), Type: "int"})
		return class
	}

	t.Run("between members", func(t *testing.T) {
		assert.Equal(t,
			"class C\n{\npublic:\n    int a;\n\nprotected:\n    int b;\n};",
			render(t, build(false), nil))
	})

	t.Run("last member", func(t *testing.T) {
		assert.Equal(t, "class C\n{\npublic:\n    int a;\n};", render(t, build(true), nil))
	})

	t.Run("only member", func(t *testing.T) {
		class := &cpp.Class{Base: base("C", "")}
		access(class, cpp.Public)
		cpp.Add(class, &cpp.Invalid{})
		assert.Equal(t, "class C {};", render(t, class, nil))
	})

	t.Run("enum value", func(t *testing.T) {
		enum := &cpp.Enum{Base: base("e", "")}
		cpp.Add(enum, &cpp.EnumValue{Base: base("x", "")})
		cpp.Add(enum, &cpp.Invalid{})
		assert.Equal(t, "enum e\n{\n    x,\n};", render(t, enum, nil))
	})
}

func countOf(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}

func TestTopLevelPromotion(t *testing.T) {
	ns := &cpp.Namespace{Base: base("ns", "")}
	undocumented := cpp.Add(ns, &cpp.Class{Base: base("A", ""), Keyword: cpp.ClassKeywordStruct})
	cpp.Add(undocumented, &cpp.MemberVariable{Base: base("x", ""), Type: "int"})
	documented := cpp.Add(ns, &cpp.Class{Base: base("B", "A documented class.")})
	cpp.Add(documented, &cpp.MemberVariable{Base: base("y", ""), Type: "int"})

	assert.Equal(t,
		"namespace ns\n{\nstruct A\n{\n    int x;\n};\n\nclass B;\n}",
		render(t, ns, nil))

	// requested directly, the documented class expands; its only member is private
	assert.Equal(t, "class B {};", render(t, documented, nil))
}

func TestClassTemplates(t *testing.T) {
	t.Run("full specialization uses the specialized name", func(t *testing.T) {
		class := &cpp.Class{Base: base("Box", ""), Keyword: cpp.ClassKeywordStruct}
		cpp.Add(class, &cpp.MemberVariable{Base: base("value", ""), Type: "int"})
		spec := &cpp.ClassTemplateFullSpecialization{Base: base("Box<int>", "Boxed int."), Class: class}
		cpp.SetParent(class, spec)

		assert.Equal(t, "template <>\nstruct Box<int>\n{\n    int value;\n};", render(t, spec, nil))
	})

	t.Run("primary template", func(t *testing.T) {
		tmpl := &cpp.ClassTemplate{Base: base("Box", "A box.")}
		cpp.Add(tmpl, &cpp.TemplateTypeParameter{Base: base("T", ""), Keyword: "typename"})
		cpp.Add(tmpl, &cpp.NonTypeTemplateParameter{Base: base("N", ""), Type: "std::size_t", Default: "4"})
		class := &cpp.Class{Base: base("Box", ""), Final: true}
		class.Bases = []*cpp.BaseClass{
			{Base: base("Storage<T>", ""), Access: cpp.Public},
			{Base: base("detail::Impl", ""), Access: cpp.Private},
		}
		access(class, cpp.Public)
		cpp.Add(class, &cpp.Constructor{
			Base:      base("Box", "Creates."),
			Signature: cpp.Signature{Definition: cpp.Defaulted, Noexcept: "true"},
		})
		cpp.Add(class, &cpp.Destructor{
			Base:      base("~Box", "Destroys."),
			Signature: cpp.Signature{},
			Virtual:   cpp.Override,
		})
		tmpl.Class = class
		cpp.SetParent(class, tmpl)

		want := "template <typename T, std::size_t N = 4>\n" +
			"class Box final\n" +
			": public Storage<T>\n" +
			"{\n" +
			"public:\n" +
			"    Box() noexcept = default;\n" +
			"\n" +
			"    ~Box() override;\n" +
			"};"
		assert.Equal(t, want, render(t, tmpl, nil))
	})

	t.Run("pure virtual destructor has no virtual prefix", func(t *testing.T) {
		class := &cpp.Class{Base: base("B", ""), Keyword: cpp.ClassKeywordStruct}
		cpp.Add(class, &cpp.Destructor{Base: base("~B", "Destroys."), Virtual: cpp.PureVirtual})
		cpp.Add(class, &cpp.Destructor{Base: base("~D", "Destroys."), Virtual: cpp.Virtual})

		assert.Equal(t, "struct B\n{\n    ~B() = 0;\n\n    ~D();\n};", render(t, class, nil))
	})

	t.Run("partial specialization", func(t *testing.T) {
		spec := &cpp.ClassTemplatePartialSpecialization{Base: base("Box<T*>", "Pointers.")}
		cpp.Add(spec, &cpp.TemplateTypeParameter{Base: base("T", ""), Keyword: "class"})
		class := &cpp.Class{Base: base("Box", ""), Keyword: cpp.ClassKeywordStruct}
		spec.Class = class
		cpp.SetParent(class, spec)

		assert.Equal(t, "template <class T>\nstruct Box<T*> {};", render(t, spec, nil))
	})
}

func TestFunctions(t *testing.T) {
	t.Run("function template", func(t *testing.T) {
		tmpl := &cpp.FunctionTemplate{Base: base("max", "Larger value.")}
		cpp.Add(tmpl, &cpp.TemplateTypeParameter{Base: base("T", "")})
		fn := &cpp.Function{Base: base("max", ""), Signature: cpp.Signature{Return: "T const&", Constexpr: true}}
		cpp.Add(fn, &cpp.FunctionParameter{Base: base("a", ""), Type: "T const&"})
		cpp.Add(fn, &cpp.FunctionParameter{Base: base("b", ""), Type: "T const&"})
		tmpl.Function = fn
		cpp.SetParent(fn, tmpl)

		assert.Equal(t, "template <typename T>\nconstexpr T const& max(T const& a, T const& b);", render(t, tmpl, nil))
	})

	t.Run("specialization", func(t *testing.T) {
		spec := &cpp.FunctionTemplateSpecialization{Base: base("max<int>", "")}
		fn := &cpp.Function{Base: base("max", ""), Signature: cpp.Signature{Return: "int", Variadic: true}}
		cpp.Add(fn, &cpp.FunctionParameter{Base: base("a", ""), Type: "int", Default: "0"})
		spec.Function = fn
		cpp.SetParent(fn, spec)

		assert.Equal(t, "template <>\nint max<int>(int a = 0, ...);", render(t, spec, nil))
	})

	t.Run("member qualifiers", func(t *testing.T) {
		class := &cpp.Class{Base: base("S", ""), Keyword: cpp.ClassKeywordStruct}
		cpp.Add(class, &cpp.MemberFunction{
			Base:      base("get", "x"),
			Signature: cpp.Signature{Return: "int", Noexcept: "sizeof(T) < 4"},
			CV:        cpp.ConstVolatile,
			Ref:       cpp.RValueRef,
			Virtual:   cpp.Final,
		})
		cpp.Add(class, &cpp.MemberFunction{
			Base:      base("run", "x"),
			Signature: cpp.Signature{Return: "void"},
			Virtual:   cpp.PureVirtual,
		})
		cpp.Add(class, &cpp.MemberFunction{
			Base:      base("make", "x"),
			Signature: cpp.Signature{Return: "S"},
			Static:    true,
		})
		cpp.Add(class, &cpp.ConversionOp{
			Base:      base("operator bool", "x"),
			Signature: cpp.Signature{Return: "bool"},
			Explicit:  true,
			CV:        cpp.Const,
		})
		cpp.Add(class, &cpp.Constructor{
			Base:      base("S", "x"),
			Signature: cpp.Signature{Definition: cpp.Deleted},
		})

		want := "struct S\n{\n" +
			"    int get() const volatile && noexcept(sizeof(T) < 4) final;\n\n" +
			"    virtual void run() = 0;\n\n" +
			"    static S make();\n\n" +
			"    explicit operator bool() const;\n\n" +
			"    S() = delete;\n" +
			"};"
		assert.Equal(t, want, render(t, class, nil))
	})
}

func TestVariablesAndEnums(t *testing.T) {
	file := &cpp.File{}
	cpp.Add(file, &cpp.InclusionDirective{Base: base("vector", ""), System: true})
	cpp.Add(file, &cpp.InclusionDirective{Base: base("detail.hpp", "")})
	params := "a, b"
	cpp.Add(file, &cpp.MacroDefinition{Base: base("MAX", ""), Params: &params, Replacement: "((a) > (b) ? (a) : (b))"})
	cpp.Add(file, &cpp.Variable{Base: base("table", ""), Type: "int[4]", ThreadLocal: true})
	class := cpp.Add(file, &cpp.Class{Base: base("Flags", ""), Keyword: cpp.ClassKeywordStruct})
	cpp.Add(class, &cpp.Variable{Base: base("count", ""), Type: "int", Constexpr: true, Init: "3"})
	cpp.Add(class, &cpp.Bitfield{Base: base("bits", ""), Type: "unsigned", Bits: "3", Mutable: true})
	enum := cpp.Add(file, &cpp.Enum{Base: base("color", ""), Scoped: true, Underlying: "std::uint8_t"})
	cpp.Add(enum, &cpp.EnumValue{Base: base("red", "")})
	cpp.Add(enum, &cpp.EnumValue{Base: base("green", ""), Value: "2"})
	cpp.Add(enum, &cpp.EnumValue{Base: base("detail_value", "")})
	cpp.Add(file, &cpp.TypeAlias{Base: base("byte", ""), Target: "unsigned char"})
	cpp.Add(file, &cpp.NamespaceAlias{Base: base("fs", ""), Target: "std::filesystem"})

	bl := blacklist.New()
	bl.AddSynopsis("detail_value", cpp.EnumValueKind)

	want := "#include <vector>\n\n" +
		"#include \"detail.hpp\"\n\n" +
		"#define MAX(a, b) ((a) > (b) ? (a) : (b))\n\n" +
		"thread_local int table[4];\n\n" +
		"struct Flags\n{\n    static constexpr int count = 3;\n\n    mutable unsigned bits : 3;\n};\n\n" +
		"enum class color\n: std::uint8_t\n{\n    red,\n    green = 2,\n};\n\n" +
		"using byte = unsigned char;\n\n" +
		"namespace fs = std::filesystem;"
	assert.Equal(t, want, render(t, file, bl))
}

func TestLinkageAndEmptyNamespace(t *testing.T) {
	linkage := &cpp.LanguageLinkage{Base: base("C", "")}
	cpp.Add(linkage, &cpp.Function{Base: base("init", "x"), Signature: cpp.Signature{Return: "int"}})
	ns := &cpp.Namespace{Base: base("empty", ""), Inline: true}

	assert.Equal(t, "extern \"C\"\n{\nint init();\n}", render(t, linkage, nil))
	// an empty body collapses onto the declaration line after one space
	assert.Equal(t, "inline namespace empty {}", render(t, ns, nil))

	opts := DefaultOptions()
	opts.IndentNamespaces = true
	out, err := String(linkage, blacklist.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "extern \"C\"\n{\n    int init();\n}", out)
}

func TestTemplateTemplateParameter(t *testing.T) {
	tmpl := &cpp.AliasTemplate{Base: base("apply", "")}
	ttp := cpp.Add(tmpl, &cpp.TemplateTemplateParameter{Base: base("F", ""), Variadic: false})
	cpp.Add(ttp, &cpp.TemplateTypeParameter{Base: base("", ""), Variadic: true})
	cpp.Add(tmpl, &cpp.TemplateTypeParameter{Base: base("Ts", ""), Variadic: true})
	alias := &cpp.TypeAlias{Base: base("apply", ""), Target: "F<Ts...>"}
	tmpl.Alias = alias
	cpp.SetParent(alias, tmpl)

	assert.Equal(t,
		"template <template <typename...> class F, typename... Ts>\nusing apply = F<Ts...>;",
		render(t, tmpl, nil))
}

func TestExcludeHook(t *testing.T) {
	ns := &cpp.Namespace{Base: base("ns", "")}
	cpp.Add(ns, &cpp.Function{Base: base("shown", "x"), Signature: cpp.Signature{Return: "void"}})
	cpp.Add(ns, &cpp.Function{Base: base("hidden", "x"), Signature: cpp.Signature{Return: "void"}})

	opts := DefaultOptions()
	opts.Exclude = func(e cpp.Entity) bool { return e.Name() == "hidden" }
	out, err := String(ns, nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "namespace ns\n{\nvoid shown();\n}", out)
}

type unknown struct{ cpp.Base }

func (*unknown) Kind() cpp.Kind { return cpp.KindCount }

func TestErrors(t *testing.T) {
	ns := &cpp.Namespace{Base: base("ns", "")}
	cpp.Add(ns, &cpp.AccessSpecifier{})
	cpp.Add(ns, &cpp.Invalid{})
	assert.Equal(t, "namespace ns {}", render(t, ns, nil))

	cpp.Add(ns, &unknown{})
	_, err := String(ns, nil, DefaultOptions())
	var unhandled *UnhandledKindError
	require.ErrorAs(t, err, &unhandled)
	assert.Equal(t, cpp.KindCount, unhandled.Kind)
}

func TestWriteAppendsCodeBlock(t *testing.T) {
	doc := markup.NewDocument()
	fn := &cpp.Function{Base: base("f", ""), Signature: cpp.Signature{Return: "void"}}

	cb, err := Write(doc, fn, blacklist.New(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "cpp", cb.Info())
	assert.Equal(t, "void f();", cb.Content())
	require.Len(t, doc.Children(), 1)
	assert.Same(t, cb, doc.Children()[0])

	_, err = Write(nil, fn, blacklist.New(), DefaultOptions())
	assert.ErrorIs(t, err, markup.ErrNoParent)
}
