package generator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cppdoc/internal/blacklist"
	"cppdoc/internal/cpp"
	"cppdoc/internal/markup"
	"cppdoc/internal/synopsis"
)

func base(name, doc string) cpp.Base {
	return cpp.Base{Ident: name, Doc: doc}
}

// widgetFile is
//
//	namespace ns {
//	/// A widget.
//	class widget {
//	public:
//	    /// Returns the size.
//	    /// \returns the size.
//	    int size() const;
//	private:
//	    int count_;
//	};
//	/// Adds.
//	/// \param a first
//	/// \param b second
//	int add(int a, int b);
//	/// \exclude
//	void secret();
//	}
func widgetFile(name string) *cpp.File {
	file := &cpp.File{Base: base(name, "")}
	ns := cpp.Add(file, &cpp.Namespace{Base: base("ns", "")})

	class := cpp.Add(ns, &cpp.Class{Base: base("widget", "/// A widget.")})
	cpp.Add(class, &cpp.AccessSpecifier{Access: cpp.Public})
	cpp.Add(class, &cpp.MemberFunction{
		Base:      base("size", "/// Returns the size.\n/// \\returns the size."),
		Signature: cpp.Signature{Return: "int"},
		CV:        cpp.Const,
	})
	cpp.Add(class, &cpp.AccessSpecifier{Access: cpp.Private})
	cpp.Add(class, &cpp.MemberVariable{Base: base("count_", "/// Hidden."), Type: "int"})

	add := cpp.Add(ns, &cpp.Function{
		Base:      base("add", "/// Adds.\n/// \\param a first\n/// \\param b second"),
		Signature: cpp.Signature{Return: "int"},
	})
	cpp.Add(add, &cpp.FunctionParameter{Base: base("a", ""), Type: "int"})
	cpp.Add(add, &cpp.FunctionParameter{Base: base("b", ""), Type: "int"})

	cpp.Add(ns, &cpp.Function{Base: base("secret", "/// \\exclude"), Signature: cpp.Signature{Return: "void"}})
	return file
}

func names(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, cpp.QualifiedName(e.Entity))
	}
	return out
}

func TestCollect(t *testing.T) {
	file := widgetFile("w.hpp")

	entries, excluded, err := Collect(file, blacklist.New(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"ns::widget", "ns::widget::size", "ns::add"}, names(entries))
	require.Len(t, excluded, 1)
	for e := range excluded {
		assert.Equal(t, "secret", e.Name())
	}

	t.Run("extract private", func(t *testing.T) {
		entries, _, err := Collect(file, blacklist.New(), true)
		require.NoError(t, err)
		assert.Contains(t, names(entries), "ns::widget::count_")
	})

	t.Run("documentation blacklist", func(t *testing.T) {
		bl := blacklist.New()
		bl.AddDocumentation("widget", cpp.ClassKind)
		entries, _, err := Collect(file, bl, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"ns::widget::size", "ns::add"}, names(entries))
	})

	t.Run("synopsis blacklist hides the subtree", func(t *testing.T) {
		bl := blacklist.New()
		bl.AddSynopsis("widget", cpp.AnyKind)
		entries, _, err := Collect(file, bl, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"ns::add"}, names(entries))
	})
}

func TestCollect_Templates(t *testing.T) {
	file := &cpp.File{Base: base("t.hpp", "")}
	tmpl := cpp.Add(file, &cpp.FunctionTemplate{Base: base("max", "/// Larger value.")})
	cpp.Add(tmpl, &cpp.TemplateTypeParameter{Base: base("T", ""), Keyword: "typename"})
	fn := &cpp.Function{Base: base("max", ""), Signature: cpp.Signature{Return: "T"}}
	tmpl.Function = fn
	cpp.SetParent(fn, tmpl)

	entries, _, err := Collect(file, blacklist.New(), false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Same(t, tmpl, entries[0].Entity)
	assert.Equal(t, "Function template", Title(entries[0].Entity))
}

func TestBuildPage(t *testing.T) {
	page, err := BuildPage(widgetFile("w.hpp"), blacklist.New(), synopsis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "w.hpp", page.Header)
	assert.Len(t, page.Entries, 3)

	md, err := markup.Markdown(page.Document)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "# Header file `w.hpp`\n\n```cpp\nnamespace ns\n{\nclass widget;\n\nint add(int a, int b);\n}\n```\n"), md)
	assert.NotContains(t, md, "secret")
	assert.NotContains(t, md, "count_")
	assert.Contains(t, md, "### Class `ns::widget`\n\n```cpp\nclass widget\n{\npublic:\n    int size() const;\n};\n```\n\nA widget.\n")
	assert.Contains(t, md, "### Member function `ns::widget::size`\n\n```cpp\nint size() const;\n```\n\nReturns the size.\n\n**Returns:** the size.\n")
	assert.Contains(t, md, "### Function `ns::add`\n\n```cpp\nint add(int a, int b);\n```\n\nAdds.\n\n- **a:** first\n- **b:** second\n")
	assert.Equal(t, 3, strings.Count(md, "---\n"))
}

func TestBuildIndex(t *testing.T) {
	g := New(blacklist.New(), synopsis.DefaultOptions(), Markdown, 2)
	doc, err := g.BuildIndex([]string{"b/c.hpp", "a.hpp"})
	require.NoError(t, err)

	md, err := markup.Markdown(doc)
	require.NoError(t, err)
	assert.Equal(t, "# Project index\n\n- [`a.hpp`](a.hpp.md)\n- [`b/c.hpp`](b/c.hpp.md)\n", md)
}

func TestGenerate(t *testing.T) {
	out := t.TempDir()
	files := []*cpp.File{widgetFile("w.hpp"), widgetFile("sub/v.hpp")}

	g := New(blacklist.New(), synopsis.DefaultOptions(), Markdown, 2)
	report, err := g.Generate(context.Background(), files, out)
	require.NoError(t, err)

	for _, rel := range []string{"w.hpp.md", "sub/v.hpp.md", "index.md", ReportFile} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel)))
		assert.NoError(t, err, rel)
	}

	assert.Equal(t, 2, report.Summary.FileCount)
	require.Len(t, report.Files, 2)
	assert.Equal(t, "sub/v.hpp", report.Files[0].Header)
	assert.Equal(t, 3, report.Files[1].Documented)

	data, err := os.ReadFile(filepath.Join(out, ReportFile))
	require.NoError(t, err)
	var saved Report
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "generate", saved.Mode)
	assert.Equal(t, "markdown", saved.Format)
	assert.Len(t, saved.Stages, 3)
}

func TestGenerate_HTML(t *testing.T) {
	out := t.TempDir()
	g := New(blacklist.New(), synopsis.DefaultOptions(), HTML, 1)
	_, err := g.Generate(context.Background(), []*cpp.File{widgetFile("w.hpp")}, out)
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(out, "w.hpp.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h1>Header file <code>w.hpp</code></h1>")
	assert.Contains(t, string(page), `<pre><code class="language-cpp">`)

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `<a href="w.hpp.html"><code>w.hpp</code></a>`)
}

type unknown struct{ cpp.Base }

func (*unknown) Kind() cpp.Kind { return cpp.KindCount }

func TestGenerate_Error(t *testing.T) {
	file := widgetFile("bad.hpp")
	cpp.Add(file, &unknown{Base: base("x", "")})

	g := New(blacklist.New(), synopsis.DefaultOptions(), Markdown, 1)
	report, err := g.Generate(context.Background(), []*cpp.File{file}, t.TempDir())
	require.Error(t, err)
	var unhandled *synopsis.UnhandledKindError
	assert.ErrorAs(t, err, &unhandled)
	require.NotEmpty(t, report.Signals)
	assert.Equal(t, "critical", report.Signals[0].Severity)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Markdown, f)

	f, err = ParseFormat("html")
	require.NoError(t, err)
	assert.Equal(t, ".html", f.Ext())

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
