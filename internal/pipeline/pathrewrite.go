package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidSelector indicates a selector that cascadia cannot compile.
var ErrInvalidSelector = errors.New("invalid selector")

// refAttr tags every start tag of the parsed copy with its position in the
// source so matched nodes can be traced back to raw bytes.
const refAttr = "data-assetpath-ref"

// Rule pairs a CSS selector with the attribute rewritten on its matches.
type Rule struct {
	Selector  string
	Attribute string
	matcher   cascadia.Selector
}

// NewRule compiles selector and normalizes attribute to lower case.
func NewRule(selector, attribute string) (Rule, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, selector, err)
	}
	return Rule{
		Selector:  selector,
		Attribute: strings.ToLower(strings.TrimSpace(attribute)),
		matcher:   m,
	}, nil
}

// Change records one attribute value replaced by RewriteAttributes.
type Change struct {
	Selector  string
	Attribute string
	Old       string
	New       string
}

// ValueFunc maps an attribute value to its replacement.
type ValueFunc func(value string) (string, error)

// RewriteAttributes applies fn to every attribute selected by rules and returns
// the fragment with only those attribute values replaced.
//
// Rules apply in order. When two rules select the same attribute of the same
// element, the second sees the first one's output. Bytes outside the replaced
// values (tag case, attribute order, whitespace, comments) are kept as-is, and a
// fragment with no changes is returned unchanged.
//
// The first error returned by fn aborts the rewrite.
func RewriteAttributes(fragment string, rules []Rule, fn ValueFunc) (string, []Change, error) {
	if fragment == "" || len(rules) == 0 {
		return fragment, nil, nil
	}

	tags, marked := indexStartTags(fragment)
	if len(tags) == 0 {
		return fragment, nil, nil
	}

	root, err := parseHTML(marked)
	if err != nil {
		return "", nil, err
	}
	doc := goquery.NewDocumentFromNode(root)

	type target struct {
		tag  int
		attr string
	}
	type state struct {
		span     valueSpan
		original string
		current  string
	}

	states := make(map[target]*state)
	var order []target
	var changes []Change
	var fnErr error

	for _, rule := range rules {
		if rule.Attribute == "" || rule.matcher == nil {
			continue
		}

		// Misnested formatting elements are cloned by the parser, and every
		// clone carries the ref of the same source tag.
		visited := make(map[int]bool)

		doc.FindMatcher(rule.matcher).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			n := sel.Get(0)
			idx, ok := tagIndex(n, len(tags))
			if !ok {
				return true // synthesized by the parser, no source bytes
			}
			if visited[idx] {
				return true
			}
			visited[idx] = true

			key := target{tag: idx, attr: rule.Attribute}
			st, seen := states[key]
			if !seen {
				val, ok := attrValue(n, rule.Attribute)
				if !ok {
					return true
				}
				span, ok := tags[idx].locate(rule.Attribute)
				if !ok {
					return true
				}
				st = &state{span: span, original: val, current: val}
				states[key] = st
				order = append(order, key)
			}

			next, err := fn(st.current)
			if err != nil {
				fnErr = err
				return false
			}
			if next == st.current {
				return true
			}

			changes = append(changes, Change{
				Selector:  rule.Selector,
				Attribute: rule.Attribute,
				Old:       st.current,
				New:       next,
			})
			st.current = next
			return true
		})

		if fnErr != nil {
			return "", nil, fnErr
		}
	}

	edits := make([]edit, 0, len(order))
	for _, key := range order {
		st := states[key]
		if st.current == st.original {
			continue
		}
		edits = append(edits, st.span.replace(tags[key.tag].offset, st.current))
	}
	if len(edits) == 0 {
		return fragment, changes, nil
	}

	return applyEdits(fragment, edits), changes, nil
}

// startTag is a start tag as it appears in the source.
type startTag struct {
	offset int
	raw    string
}

// indexStartTags tokenizes content, records every start tag with its byte
// offset, and returns a copy where each start tag carries refAttr.
//
// The tokenizer follows the parser on raw text: noscript content is markup
// since scripting is disabled, and so is the content of title, style and the
// like inside svg or math.
func indexStartTags(content string) ([]startTag, string) {
	z := html.NewTokenizer(strings.NewReader(content))

	var tags []startTag
	var marked strings.Builder
	marked.Grow(len(content) + len(content)/4)

	var scope foreignScope
	offset := 0
	for {
		tt := z.Next()
		raw := string(z.Raw()) // copied, TagName lower-cases the buffer

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			cut := tagNameEnd(raw)
			marked.WriteString(raw[:cut])
			marked.WriteString(" " + refAttr + `="` + strconv.Itoa(len(tags)) + `"`)
			marked.WriteString(raw[cut:])
			tags = append(tags, startTag{offset: offset, raw: raw})

			name, _ := z.TagName()
			if tt == html.StartTagToken && scope.start(string(name)) {
				z.NextIsNotRawText()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			scope.end(string(name))
			marked.WriteString(raw)
		default:
			marked.WriteString(raw)
		}
		offset += len(raw)

		if tt == html.ErrorToken {
			break
		}
	}

	return tags, marked.String()
}

// foreignScope follows svg and math content closely enough to tell the
// tokenizer when a start tag opens markup rather than raw text. The stack holds
// svg, math and the integration points opened inside them; tags in between are
// not tracked.
type foreignScope struct {
	stack []string
}

func (s *foreignScope) top() string {
	if len(s.stack) == 0 {
		return ""
	}
	return s.stack[len(s.stack)-1]
}

func (s *foreignScope) foreign() bool {
	top := s.top()
	return top == "svg" || top == "math"
}

// start records an opened element and reports whether its content is markup
// even if the tokenizer would read it as raw text.
func (s *foreignScope) start(name string) bool {
	if !s.foreign() {
		if name == "svg" || name == "math" {
			s.stack = append(s.stack, name)
		}
		return name == "noscript"
	}

	switch {
	case breaksOutOfForeign[name]:
		for s.foreign() {
			s.stack = s.stack[:len(s.stack)-1]
		}
		return name == "noscript"
	case name == "svg" || name == "math":
		s.stack = append(s.stack, name)
	case integrationPoints[s.top()][name]:
		s.stack = append(s.stack, name)
	}
	return true
}

func (s *foreignScope) end(name string) {
	if s.top() == name {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// integrationPoints lists, per foreign root, the elements whose content is
// parsed as HTML again.
var integrationPoints = map[string]map[string]bool{
	"svg":  {"foreignobject": true, "desc": true, "title": true},
	"math": {"mi": true, "mo": true, "mn": true, "ms": true, "mtext": true},
}

// breaksOutOfForeign lists the HTML start tags that close open svg or math
// elements.
var breaksOutOfForeign = map[string]bool{
	"b": true, "big": true, "blockquote": true, "body": true, "br": true,
	"center": true, "code": true, "dd": true, "div": true, "dl": true,
	"dt": true, "em": true, "embed": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "head": true,
	"hr": true, "i": true, "img": true, "li": true, "listing": true,
	"menu": true, "meta": true, "nobr": true, "ol": true, "p": true,
	"pre": true, "ruby": true, "s": true, "small": true, "span": true,
	"strong": true, "strike": true, "sub": true, "sup": true, "table": true,
	"tt": true, "u": true, "ul": true, "var": true,
}

// valueSpan locates an attribute value inside a raw start tag.
// For a value-less attribute start == end == end of the name.
type valueSpan struct {
	start    int
	end      int
	quote    byte
	hasValue bool
}

// replace builds the edit writing value over the span, keeping the
// original quote character when there was one.
func (s valueSpan) replace(tagOffset int, value string) edit {
	escaped := html.EscapeString(value)

	var text string
	switch {
	case !s.hasValue:
		text = `="` + escaped + `"`
	case s.quote != 0:
		text = string(s.quote) + escaped + string(s.quote)
	default:
		text = `"` + escaped + `"`
	}

	return edit{start: tagOffset + s.start, end: tagOffset + s.end, text: text}
}

// locate finds the first occurrence of name in the tag's attribute list,
// following the tokenizer's attribute rules. Later duplicates are ignored,
// matching the parser.
func (t startTag) locate(name string) (valueSpan, bool) {
	raw := t.raw
	i := tagNameEnd(raw)

	for i < len(raw) {
		for i < len(raw) && (isSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			return valueSpan{}, false
		}

		nameStart := i
		i++ // the first character belongs to the name, even '='
		for i < len(raw) && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' && raw[i] != '=' {
			i++
		}
		nameEnd := i
		span := valueSpan{start: nameEnd, end: nameEnd}

		j := skipSpace(raw, nameEnd)
		if j < len(raw) && raw[j] == '=' {
			j = skipSpace(raw, j+1)
			if j < len(raw) && (raw[j] == '"' || raw[j] == '\'') {
				q := raw[j]
				end := len(raw)
				if closing := strings.IndexByte(raw[j+1:], q); closing >= 0 {
					end = j + 1 + closing + 1
				}
				span = valueSpan{start: j, end: end, quote: q, hasValue: true}
			} else {
				end := j
				for end < len(raw) && !isSpace(raw[end]) && raw[end] != '>' {
					end++
				}
				span = valueSpan{start: j, end: end, hasValue: true}
			}
			i = span.end
		}

		if strings.EqualFold(raw[nameStart:nameEnd], name) {
			return span, true
		}
	}

	return valueSpan{}, false
}

// edit replaces content[start:end] with text.
type edit struct {
	start int
	end   int
	text  string
}

func applyEdits(content string, edits []edit) string {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var buf strings.Builder
	buf.Grow(len(content))

	last := 0
	for _, e := range edits {
		buf.WriteString(content[last:e.start])
		buf.WriteString(e.text)
		last = e.end
	}
	buf.WriteString(content[last:])

	return buf.String()
}

// tagNameEnd returns the index just past the tag name of a raw start tag.
func tagNameEnd(raw string) int {
	i := 1
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}
	return i
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// tagIndex reads the source position stamped on n by indexStartTags.
func tagIndex(n *html.Node, count int) (int, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == refAttr {
			idx, err := strconv.Atoi(a.Val)
			if err != nil || idx < 0 || idx >= count {
				return 0, false
			}
			return idx, true
		}
	}
	return 0, false
}

// attrValue returns the parsed value of name on n. Foreign attributes such as
// xlink:href are matched by their qualified name.
func attrValue(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		if key == name {
			return a.Val, true
		}
	}
	return "", false
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Scripting is disabled so noscript content is parsed as markup.
// Fragments are parsed in a body context and gathered under a document node
// so selectors run the same way on both.
func parseHTML(content string) (*html.Node, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		return html.ParseWithOptions(strings.NewReader(content), html.ParseOptionEnableScripting(false))
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragmentWithOptions(strings.NewReader(content), body, html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, nil
}
