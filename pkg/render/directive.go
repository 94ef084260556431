package render

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// DirectiveKind enumerates the placeholder forms a literal template accepts.
type DirectiveKind int

const (
	// DirectivePlain renders the attribute at Path (%<path>).
	DirectivePlain DirectiveKind = iota
	// DirectiveType renders the Type at Path through the type table (%<@path>).
	DirectiveType
	// DirectiveToggle renders one of the kind's toggle templates (%<.name>).
	DirectiveToggle
	// DirectiveHook delegates to a named custom hook (%<#name>).
	DirectiveHook
	// DirectiveList renders a sequence attribute with a join mode (%<path:mode>).
	DirectiveList
)

// ListMode selects how a list directive joins its elements.
type ListMode int

const (
	// ListJoin joins elements with Sep (:join 'sep').
	ListJoin ListMode = iota
	// ListLines puts one element per line (:lines).
	ListLines
	// ListBlocks puts one element per paragraph, separated by a blank line (:blocks).
	ListBlocks
	// ListStatements puts one terminated statement per line (:semi).
	ListStatements
	// ListFirst renders only the first element (:first).
	ListFirst
)

// Directive is one parsed placeholder.
type Directive struct {
	Kind DirectiveKind
	// Path is the attribute path, toggle name or hook name.
	Path string
	Mode ListMode
	Sep  string
	Raw  string
}

// directivePattern matches %<...>; quoted separators may contain '>'.
var directivePattern = regexp2.MustCompile(`%<(?<body>(?:'[^']*'|"[^"]*"|[^>'"])+)>`, regexp2.None)

var prefixKinds = map[byte]DirectiveKind{
	'@': DirectiveType,
	'.': DirectiveToggle,
	'#': DirectiveHook,
}

type segment struct {
	text      string
	directive *Directive
}

type templateLine struct {
	depth    int
	blank    bool
	literal  bool
	segments []segment
}

// indentUnit is the number of spaces one nesting level occupies in template
// source text, independent of the target's output indentation.
const indentUnit = 4

// Literal is a parsed template: dedented lines, each with its relative depth
// and its sequence of text and directive segments.
type Literal struct {
	source string
	lines  []templateLine
	// inline literals come from a single source line and keep their
	// surrounding whitespace when rendered.
	inline bool
}

// ParseLiteral parses template source text. Multi-line sources are dedented;
// a single-line source is kept verbatim so fragments such as " : public %<base>"
// keep their leading spaces.
func ParseLiteral(src string) (*Literal, error) {
	if !strings.Contains(src, "\n") {
		return parseInline(src)
	}
	rawLines := dedent(src)
	lit := &Literal{source: src, lines: make([]templateLine, 0, len(rawLines))}
	for _, raw := range rawLines {
		trimmed := strings.TrimLeft(raw, " ")
		if strings.TrimSpace(trimmed) == "" {
			lit.lines = append(lit.lines, templateLine{blank: true})
			continue
		}
		segments, err := parseSegments(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTemplate, strings.TrimSpace(src), err)
		}
		lit.lines = append(lit.lines, newLine((len(raw)-len(trimmed))/indentUnit, segments))
	}
	return lit, nil
}

func parseInline(src string) (*Literal, error) {
	lit := &Literal{source: src, inline: true}
	if strings.TrimSpace(src) == "" {
		return lit, nil
	}
	segments, err := parseSegments(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTemplate, src, err)
	}
	lit.lines = []templateLine{newLine(0, segments)}
	return lit, nil
}

func newLine(depth int, segments []segment) templateLine {
	line := templateLine{depth: depth, segments: segments}
	for _, seg := range segments {
		if seg.directive == nil && strings.TrimSpace(seg.text) != "" {
			line.literal = true
		}
	}
	return line
}

// MustParseLiteral panics when src does not parse.
func MustParseLiteral(src string) *Literal {
	lit, err := ParseLiteral(src)
	if err != nil {
		panic(err)
	}
	return lit
}

// Source returns the original template text.
func (l *Literal) Source() string {
	return l.source
}

// Directives returns every directive in source order.
func (l *Literal) Directives() []Directive {
	var out []Directive
	for _, line := range l.lines {
		for _, seg := range line.segments {
			if seg.directive != nil {
				out = append(out, *seg.directive)
			}
		}
	}
	return out
}

func parseSegments(line string) ([]segment, error) {
	// regexp2 reports match offsets in runes.
	runes := []rune(line)
	var out []segment
	pos := 0
	m, err := directivePattern.FindStringMatch(line)
	for ; m != nil && err == nil; m, err = directivePattern.FindNextMatch(m) {
		if m.Index > pos {
			out = append(out, segment{text: string(runes[pos:m.Index])})
		}
		d, perr := parseDirective(m.GroupByName("body").String())
		if perr != nil {
			return nil, perr
		}
		d.Raw = m.String()
		out = append(out, segment{directive: d})
		pos = m.Index + m.Length
	}
	if err != nil {
		return nil, err
	}
	if pos < len(runes) {
		out = append(out, segment{text: string(runes[pos:])})
	}
	return out, nil
}

func parseDirective(body string) (*Directive, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("empty directive")
	}

	if kind, ok := prefixKinds[body[0]]; ok {
		name := strings.TrimSpace(body[1:])
		if name == "" {
			return nil, fmt.Errorf("directive %q is missing a name", body)
		}
		return &Directive{Kind: kind, Path: name}, nil
	}

	path, modifier, hasModifier := strings.Cut(body, ":")
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("directive %q has no attribute", body)
	}
	if !hasModifier {
		return &Directive{Kind: DirectivePlain, Path: path}, nil
	}

	d := &Directive{Kind: DirectiveList, Path: path}
	modifier = strings.TrimSpace(modifier)
	name, arg, _ := strings.Cut(modifier, " ")
	switch name {
	case "join":
		sep, err := unquote(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("directive %q: %v", body, err)
		}
		d.Mode, d.Sep = ListJoin, sep
	case "lines":
		d.Mode = ListLines
	case "blocks":
		d.Mode = ListBlocks
	case "semi":
		d.Mode = ListStatements
	case "first":
		d.Mode = ListFirst
	default:
		return nil, fmt.Errorf("directive %q: unknown modifier %q", body, name)
	}
	return d, nil
}

func unquote(s string) (string, error) {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], nil
	}
	return "", fmt.Errorf("join separator must be quoted, got %q", s)
}

// dedent strips leading and trailing blank lines and the common indentation.
// Tabs are expanded to indentUnit spaces first.
func dedent(src string) []string {
	lines := strings.Split(strings.ReplaceAll(src, "\t", strings.Repeat(" ", indentUnit)), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if common < 0 || indent < common {
			common = indent
		}
	}
	if common <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= common {
			out[i] = line[common:]
		} else {
			out[i] = strings.TrimLeft(line, " ")
		}
	}
	return out
}
