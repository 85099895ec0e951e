package generator

import (
	"html"
	"regexp"
	"strings"
)

// attr is a single key/value pair. Lists of attrs keep their order so the
// output is stable.
type attr struct {
	key   string
	value string
}

// quote wraps a value that is itself HTML-like markup in angle brackets and
// anything else in double quotes. Nothing is escaped: a plain value holding a
// double quote produces invalid DOT.
func quote(value string) string {
	if strings.HasPrefix(value, "<") {
		return "<" + value + ">"
	}
	return `"` + value + `"`
}

func attrs(list []attr, sep string) string {
	parts := make([]string, len(list))
	for i, a := range list {
		parts[i] = a.key + "=" + quote(a.value)
	}
	return strings.Join(parts, sep)
}

func tag(name, content string, list ...attr) string {
	if len(list) == 0 {
		return "<" + name + ">" + content + "</" + name + ">"
	}
	return "<" + name + " " + attrs(list, " ") + ">" + content + "</" + name + ">"
}

func font(content string, list ...attr) string {
	return tag("font", content, list...)
}

func bold(content string, list ...attr) string {
	return font(tag("b", content), list...)
}

func italic(content string) string {
	return font(tag("i", content), attr{"color", "grey60"})
}

func td(content string, list ...attr) string {
	return tag("td", content, append([]attr{{"align", "left"}}, list...)...)
}

func tr(cells ...string) string {
	return tag("tr", strings.Join(cells, ""))
}

func table(rows []string, list ...attr) string {
	base := []attr{{"border", "0"}, {"cellspacing", "0.5"}}
	return tag("table", strings.Join(rows, ""), append(base, list...)...)
}

// text escapes a value placed between HTML-like tags.
func text(s string) string {
	return html.EscapeString(s)
}

var plainID = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*|-?(\.[0-9]+|[0-9]+(\.[0-9]*)?))$`)

var keywords = map[string]bool{
	"node": true, "edge": true, "graph": true,
	"digraph": true, "subgraph": true, "strict": true,
}

// ident returns name as a DOT identifier, double-quoting it when it is not a
// plain identifier or numeral.
func ident(name string) string {
	if plainID.MatchString(name) && !keywords[strings.ToLower(name)] {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}
