package extractor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cppdoc/internal/cpp"
)

func child(t *testing.T, parent cpp.Entity, name string) cpp.Entity {
	t.Helper()
	for _, c := range parent.Children() {
		if c.Name() == name {
			return c
		}
	}
	require.Failf(t, "missing child", "%s has no child %q", parent.Name(), name)
	return nil
}

func kinds(e cpp.Entity) []cpp.Kind {
	var out []cpp.Kind
	for _, c := range e.Children() {
		out = append(out, c.Kind())
	}
	return out
}

func TestExtractor_ExtractFile(t *testing.T) {
	file, err := New().ExtractFile(context.Background(), filepath.Join("testdata", "sample.hpp"), "sample.hpp")
	require.NoError(t, err)
	assert.Equal(t, "sample.hpp", file.Name())

	t.Run("Preprocessor", func(t *testing.T) {
		assert.Equal(t, []cpp.Kind{
			cpp.InclusionDirectiveKind,
			cpp.InclusionDirectiveKind,
			cpp.MacroDefinitionKind,
			cpp.NamespaceKind,
		}, kinds(file), "the include guard define is dropped")

		system := file.Children()[0].(*cpp.InclusionDirective)
		assert.Equal(t, "cstddef", system.Name())
		assert.True(t, system.System)
		local := file.Children()[1].(*cpp.InclusionDirective)
		assert.Equal(t, "detail/config.hpp", local.Name())
		assert.False(t, local.System)

		macro := child(t, file, "SAMPLE_MAX").(*cpp.MacroDefinition)
		require.NotNil(t, macro.Params)
		assert.Equal(t, "a, b", *macro.Params)
		assert.Equal(t, "((a) > (b) ? (a) : (b))", macro.Replacement)
		assert.Equal(t, "/// Largest of two values.", macro.Comment())
	})

	ns := child(t, file, "sample")

	t.Run("Enum", func(t *testing.T) {
		e := child(t, ns, "color").(*cpp.Enum)
		assert.True(t, e.Scoped)
		assert.Equal(t, "unsigned char", e.Underlying)
		assert.Equal(t, "/// The colors a widget can have.", e.Comment())
		require.Len(t, e.Children(), 3)

		green := e.Children()[1].(*cpp.EnumValue)
		assert.Equal(t, "2", green.Value)
		assert.Equal(t, "///< The default.", green.Comment())
		assert.Empty(t, e.Children()[2].Comment(), "a trailing comment belongs to the value before it")
	})

	t.Run("Class", func(t *testing.T) {
		class := child(t, ns, "widget").(*cpp.Class)
		assert.Equal(t, cpp.ClassKeywordClass, class.Keyword)
		assert.Equal(t, "/// A widget.\n///\n/// \\returns nothing, it is a class.", class.Comment())
		assert.Equal(t, []cpp.Kind{
			cpp.AccessSpecifierKind,
			cpp.ConstructorKind,
			cpp.MemberFunctionKind,
			cpp.MemberFunctionKind,
			cpp.AccessSpecifierKind,
			cpp.MemberVariableKind,
			cpp.BitfieldKind,
		}, kinds(class))

		size := child(t, class, "size").(*cpp.MemberFunction)
		assert.Equal(t, "std::size_t", size.Return)
		assert.Equal(t, cpp.Const, size.CV)
		assert.Equal(t, "true", size.Noexcept)

		draw := child(t, class, "draw").(*cpp.MemberFunction)
		assert.Equal(t, cpp.Virtual, draw.Virtual)
		params := cpp.Parameters(draw)
		require.Len(t, params, 2)
		assert.Equal(t, "int", params[0].Type)
		assert.Equal(t, "x", params[0].Name())
		assert.Equal(t, "0", params[1].Default)

		flags := child(t, class, "flags_").(*cpp.Bitfield)
		assert.Equal(t, "unsigned", flags.Type)
		assert.Equal(t, "3", flags.Bits)

		access := class.Children()[4].(*cpp.AccessSpecifier)
		assert.Equal(t, cpp.Private, access.Access)
	})

	t.Run("Functions", func(t *testing.T) {
		add := child(t, ns, "add").(*cpp.Function)
		assert.Equal(t, "int", add.Return)
		assert.Len(t, cpp.Parameters(add), 2)
		assert.Contains(t, add.Comment(), `\param b the second`)

		tmpl := child(t, ns, "max").(*cpp.FunctionTemplate)
		assert.Equal(t, "/// Picks the larger value.", tmpl.Comment())
		require.Len(t, tmpl.Children(), 1)
		param := tmpl.Children()[0].(*cpp.TemplateTypeParameter)
		assert.Equal(t, "T", param.Name())
		assert.Equal(t, "typename", param.Keyword)

		fn := tmpl.Function.(*cpp.Function)
		assert.Same(t, tmpl, fn.SemanticParent())
		assert.Empty(t, fn.Comment())
		assert.True(t, cpp.HasDocumentation(fn))
		assert.Equal(t, "const T&", cpp.Parameters(fn)[0].Type)

		helper := child(t, child(t, ns, "detail"), "helper").(*cpp.Function)
		assert.True(t, helper.Variadic)
		assert.Equal(t, "char*", cpp.Parameters(helper)[0].Type)
	})

	t.Run("Alias", func(t *testing.T) {
		alias := child(t, ns, "size_type").(*cpp.TypeAlias)
		assert.Equal(t, "std::size_t", alias.Target)
	})

	t.Run("Locations", func(t *testing.T) {
		loc := child(t, ns, "widget").Location()
		assert.Equal(t, "sample.hpp", loc.File)
		assert.Equal(t, 23, loc.Line)
		assert.Greater(t, loc.EndLine, loc.Line)
	})
}

func TestExtract_Templates(t *testing.T) {
	src := []byte(`
/// Primary.
template <typename T, int N = 3>
struct box
{
    T value;
};

/// Full.
template <>
struct box<void, 0>
{
};

/// Partial.
template <typename T>
struct box<T*, 1>
{
};

/// Alias.
template <typename T>
using ptr = T*;
`)
	file, err := New().Extract(context.Background(), "box.hpp", src)
	require.NoError(t, err)
	require.Len(t, file.Children(), 4)

	primary := file.Children()[0].(*cpp.ClassTemplate)
	assert.Equal(t, "box", primary.Name())
	assert.Equal(t, "/// Primary.", primary.Comment())
	require.Len(t, primary.Children(), 2)
	nttp := primary.Children()[1].(*cpp.NonTypeTemplateParameter)
	assert.Equal(t, "int", nttp.Type)
	assert.Equal(t, "3", nttp.Default)
	assert.Equal(t, cpp.ClassKeywordStruct, primary.Class.Keyword)
	assert.Equal(t, []cpp.Kind{cpp.MemberVariableKind}, kinds(primary.Class))

	full := file.Children()[1].(*cpp.ClassTemplateFullSpecialization)
	assert.Equal(t, "box<void, 0>", full.Name())
	assert.Equal(t, "box", full.Class.Name())

	partial := file.Children()[2].(*cpp.ClassTemplatePartialSpecialization)
	assert.Equal(t, "box<T*, 1>", partial.Name())
	assert.Len(t, partial.Children(), 1)

	alias := file.Children()[3].(*cpp.AliasTemplate)
	assert.Equal(t, "ptr", alias.Name())
	assert.Equal(t, "T*", alias.Alias.Target)
}

func TestExtract_Linkage(t *testing.T) {
	src := []byte("extern \"C\" {\n/// Starts.\nint start(void);\n}\n")
	file, err := New().Extract(context.Background(), "c.h", src)
	require.NoError(t, err)

	require.Len(t, file.Children(), 1)
	linkage := file.Children()[0].(*cpp.LanguageLinkage)
	assert.Equal(t, "C", linkage.Name())
	start := child(t, linkage, "start").(*cpp.Function)
	assert.Equal(t, "/// Starts.", start.Comment())
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := New().ExtractFile(context.Background(), filepath.Join("testdata", "missing.hpp"), "missing.hpp")
	assert.Error(t, err)
}
