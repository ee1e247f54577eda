package synopsis

import (
	"bytes"
	"strings"
)

// codeWriter accumulates declaration text. Indentation is applied lazily at
// the first character of a line, so blank lines carry no trailing spaces.
type codeWriter struct {
	buf       bytes.Buffer
	indent    int
	lineStart bool
}

func newCodeWriter() *codeWriter {
	return &codeWriter{lineStart: true}
}

func (w *codeWriter) write(s string) {
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		line := s
		if i >= 0 {
			line = s[:i]
		}
		if line != "" {
			if w.lineStart {
				w.buf.WriteString(strings.Repeat(" ", w.indent))
				w.lineStart = false
			}
			w.buf.WriteString(line)
		}
		if i < 0 {
			return
		}
		w.newline()
		s = s[i+1:]
	}
}

func (w *codeWriter) newline() {
	w.buf.WriteByte('\n')
	w.lineStart = true
}

func (w *codeWriter) blankLine() {
	w.newline()
	w.newline()
}

// indented runs fn with the indentation changed by width and restores it
// afterwards.
func (w *codeWriter) indented(width int, fn func()) {
	w.indent += width
	defer func() { w.indent -= width }()
	fn()
}

type mark struct {
	len       int
	lineStart bool
}

func (w *codeWriter) mark() mark {
	return mark{len: w.buf.Len(), lineStart: w.lineStart}
}

func (w *codeWriter) rewind(m mark) {
	w.buf.Truncate(m.len)
	w.lineStart = m.lineStart
}

func (w *codeWriter) written(m mark) bool {
	return w.buf.Len() != m.len
}

// writeRange writes entries with sep between two written entries. fn
// reports whether it wrote its entry; a rejected or empty entry leaves no
// separator behind.
func (w *codeWriter) writeRange(n int, sep func(), fn func(i int) bool) {
	first := true
	for i := 0; i < n; i++ {
		m := w.mark()
		if !first {
			sep()
		}
		entry := w.mark()
		if fn(i) && w.written(entry) {
			first = false
		} else {
			w.rewind(m)
		}
	}
}

func (w *codeWriter) String() string {
	return w.buf.String()
}
