package comment

import "strings"

var linePrefixes = []string{"///<", "//!<", "///", "//!", "//"}

var blockPrefixes = []string{"/**<", "/*!<", "/**", "/*!", "/*"}

// Strip removes C++ comment markers from raw. Consecutive line comments and
// block comments may be mixed. Leading and trailing blank lines are dropped.
func Strip(raw string) string {
	var out []string
	inBlock := false
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		s := strings.TrimLeft(line, " \t")
		if inBlock {
			s, inBlock = blockLine(s)
			out = append(out, s)
			continue
		}
		if p, ok := prefix(s, blockPrefixes); ok {
			s, inBlock = blockLine(dropSpace(s[len(p):]))
			out = append(out, s)
			continue
		}
		if p, ok := prefix(s, linePrefixes); ok {
			s = dropSpace(s[len(p):])
		}
		out = append(out, strings.TrimRight(s, " \t"))
	}

	for len(out) > 0 && strings.TrimSpace(out[0]) == "" {
		out = out[1:]
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// blockLine strips a line inside a block comment and reports whether the
// block continues.
func blockLine(s string) (string, bool) {
	open := true
	if i := strings.Index(s, "*/"); i >= 0 {
		s, open = s[:i], false
	}
	if strings.HasPrefix(s, "*") && !strings.HasPrefix(s, "**") {
		s = dropSpace(s[1:])
	}
	return strings.TrimRight(s, " \t"), open
}

func prefix(s string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}

func dropSpace(s string) string {
	return strings.TrimPrefix(s, " ")
}
