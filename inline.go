package orgf

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// InlineKind identifies the kind of an inline span.
type InlineKind uint8

const (
	InlineText InlineKind = iota
	InlineBold
	InlineItalic
	InlineUnderline
	InlineVerbatim
	InlineCode
	InlineStrikethrough
	InlineLink
	InlineTimestamp
	InlineSubscript
	InlineSuperscript
	InlineEntity
	InlineMacro
	InlineSnippet
	InlineLineBreak
	InlineTarget
	InlineStatisticsCookie
	InlineFootnoteReference
)

var inlineKindNames = [...]string{
	InlineText:              "Text",
	InlineBold:              "Bold",
	InlineItalic:            "Italic",
	InlineUnderline:         "Underline",
	InlineVerbatim:          "Verbatim",
	InlineCode:              "Code",
	InlineStrikethrough:     "Strikethrough",
	InlineLink:              "Link",
	InlineTimestamp:         "Timestamp",
	InlineSubscript:         "Subscript",
	InlineSuperscript:       "Superscript",
	InlineEntity:            "Entity",
	InlineMacro:             "Macro",
	InlineSnippet:           "Snippet",
	InlineLineBreak:         "LineBreak",
	InlineTarget:            "Target",
	InlineStatisticsCookie:  "StatisticsCookie",
	InlineFootnoteReference: "FootnoteReference",
}

func (k InlineKind) String() string {
	if int(k) < len(inlineKindNames) {
		return inlineKindNames[k]
	}
	return "Text"
}

// Span is one node of resolved inline markup. Container spans (emphasis,
// sub/superscripts, described links) own Children; leaf spans carry their
// literal content in Text.
type Span struct {
	Kind      InlineKind
	Text      string
	Children  []Span
	Link      *Link
	Timestamp *Timestamp
	Entity    *Entity
	Macro     *Macro
	Snippet   *Snippet
}

// IsContainer reports whether the span is emitted as an InlineStart/InlineEnd pair.
func (s *Span) IsContainer() bool {
	switch s.Kind {
	case InlineBold, InlineItalic, InlineUnderline, InlineStrikethrough, InlineSubscript, InlineSuperscript:
		return true
	case InlineLink:
		return len(s.Children) > 0
	}
	return false
}

// PlainText returns the text content of the span without markup.
func (s *Span) PlainText() string {
	if len(s.Children) == 0 {
		if s.Kind == InlineEntity && s.Entity != nil {
			return s.Entity.UTF8
		}
		return s.Text
	}
	return SpansText(s.Children)
}

// SpansText concatenates the plain text of spans.
func SpansText(spans []Span) string {
	var b strings.Builder
	for i := range spans {
		b.WriteString(spans[i].PlainText())
	}
	return b.String()
}

// Link is the payload of link spans. Type is the link scheme ("https",
// "file", ...), "custom-id" for "#id", "headline" for "*title", or "fuzzy".
type Link struct {
	Target string
	Type   string
	Path   string
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true,
}

// IsImage reports whether the target points at an image file.
func (l *Link) IsImage() bool {
	return imageExtensions[strings.ToLower(path.Ext(l.Path))]
}

// Macro is the payload of "{{{name(args)}}}" spans.
type Macro struct {
	Name string
	Args []string
}

// Snippet is the payload of "@@backend:value@@" export snippets.
type Snippet struct {
	Backend string
	Value   string
}

const maxInlineDepth = 3

const (
	emphasisPre  = "-({'\""
	emphasisPost = "-.,;:!?')}[\"\\"
)

var linkSchemes = []string{
	"https", "http", "ftp", "mailto", "file", "doi", "news", "id", "shell", "elisp", "info", "irc", "help",
}

var bareURLPrefixes = []string{"https://", "http://", "ftp://", "mailto:", "file:", "doi:"}

// ResolveInline splits text into inline spans. The spans cover the input
// with no gaps: unmatched markup stays plain text.
func ResolveInline(text string) []Span {
	return resolveInline(text, 0, 0)
}

func resolveInline(s string, depth int, open uint32) []Span {
	var out []Span
	textStart := 0
	for i := 0; i < len(s); {
		span, n, ok := matchInline(s, i, depth, open)
		if !ok {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			continue
		}
		if i > textStart {
			out = appendText(out, s[textStart:i])
		}
		out = append(out, span)
		i += n
		textStart = i
	}
	if textStart < len(s) {
		out = appendText(out, s[textStart:])
	}
	return out
}

func appendText(out []Span, text string) []Span {
	if n := len(out); n > 0 && out[n-1].Kind == InlineText {
		out[n-1].Text += text
		return out
	}
	return append(out, Span{Kind: InlineText, Text: text})
}

func matchInline(s string, i, depth int, open uint32) (Span, int, bool) {
	switch c := s[i]; c {
	case '*', '/', '=', '~', '+':
		return matchEmphasis(s, i, depth, open)
	case '_':
		if sp, n, ok := matchEmphasis(s, i, depth, open); ok {
			return sp, n, ok
		}
		return matchScript(s, i, depth, open)
	case '^':
		return matchScript(s, i, depth, open)
	case '[':
		return matchBracket(s, i, depth, open)
	case '<':
		return matchAngle(s, i)
	case '\\':
		return matchBackslash(s, i)
	case '{':
		return matchMacro(s, i)
	case '@':
		return matchSnippet(s, i)
	default:
		if isASCIILetter(c) {
			return matchBareURL(s, i)
		}
	}
	return Span{}, 0, false
}

func emphasisKind(marker byte) InlineKind {
	switch marker {
	case '*':
		return InlineBold
	case '/':
		return InlineItalic
	case '_':
		return InlineUnderline
	case '=':
		return InlineVerbatim
	case '~':
		return InlineCode
	default:
		return InlineStrikethrough
	}
}

func matchEmphasis(s string, i, depth int, open uint32) (Span, int, bool) {
	marker := s[i]
	kind := emphasisKind(marker)
	if depth >= maxInlineDepth || open&(1<<kind) != 0 {
		return Span{}, 0, false
	}
	if i > 0 {
		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		if !unicode.IsSpace(prev) && !strings.ContainsRune(emphasisPre, prev) {
			return Span{}, 0, false
		}
	}
	if i+1 >= len(s) {
		return Span{}, 0, false
	}
	if first, _ := utf8.DecodeRuneInString(s[i+1:]); unicode.IsSpace(first) {
		return Span{}, 0, false
	}
	newlines := 0
	for j := i + 2; j < len(s); j++ {
		if s[j] == '\n' {
			newlines++
			if newlines > 1 {
				return Span{}, 0, false
			}
			continue
		}
		if s[j] != marker {
			continue
		}
		if last, _ := utf8.DecodeLastRuneInString(s[:j]); unicode.IsSpace(last) {
			continue
		}
		if j+1 < len(s) {
			next, _ := utf8.DecodeRuneInString(s[j+1:])
			if !unicode.IsSpace(next) && !strings.ContainsRune(emphasisPost, next) {
				continue
			}
		}
		body := s[i+1 : j]
		span := Span{Kind: kind}
		if kind == InlineVerbatim || kind == InlineCode {
			span.Text = body
		} else {
			span.Children = resolveInline(body, depth+1, open|1<<kind)
		}
		return span, j + 1 - i, true
	}
	return Span{}, 0, false
}

func matchScript(s string, i, depth int, open uint32) (Span, int, bool) {
	if i == 0 || i+1 >= len(s) {
		return Span{}, 0, false
	}
	if prev, _ := utf8.DecodeLastRuneInString(s[:i]); unicode.IsSpace(prev) {
		return Span{}, 0, false
	}
	kind := InlineSubscript
	if s[i] == '^' {
		kind = InlineSuperscript
	}
	rest := s[i+1:]
	switch {
	case rest[0] == '{':
		level := 0
		for j := 0; j < len(rest); j++ {
			switch rest[j] {
			case '{':
				level++
			case '}':
				level--
				if level == 0 {
					if j == 1 {
						return Span{}, 0, false
					}
					return Span{Kind: kind, Children: resolveInline(rest[1:j], depth+1, open)}, j + 2, true
				}
			case '\n':
				return Span{}, 0, false
			}
		}
		return Span{}, 0, false
	case rest[0] == '*':
		return Span{Kind: kind, Children: []Span{{Kind: InlineText, Text: "*"}}}, 2, true
	}
	j := 0
	if rest[0] == '+' || rest[0] == '-' {
		j++
	}
	end := -1
	for k := j; k < len(rest); k++ {
		c := rest[k]
		if isASCIIAlnum(c) {
			end = k + 1
			continue
		}
		if c == ',' || c == '.' || c == '\\' {
			continue
		}
		break
	}
	if end <= j {
		return Span{}, 0, false
	}
	return Span{Kind: kind, Children: []Span{{Kind: InlineText, Text: rest[:end]}}}, end + 1, true
}

func matchBracket(s string, i, depth int, open uint32) (Span, int, bool) {
	rest := s[i:]
	switch {
	case strings.HasPrefix(rest, "[["):
		return matchLink(rest, depth, open)
	case strings.HasPrefix(rest, "[fn:"):
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Span{}, 0, false
		}
		label := rest[4:end]
		if label == "" || !isLabel(label) {
			return Span{}, 0, false
		}
		return Span{Kind: InlineFootnoteReference, Text: label}, end + 1, true
	}
	if n := matchCookie(rest); n > 0 {
		return Span{Kind: InlineStatisticsCookie, Text: rest[:n]}, n, true
	}
	if ts, n, ok := scanTimestamp(rest); ok {
		return Span{Kind: InlineTimestamp, Text: ts.Raw, Timestamp: ts}, n, true
	}
	return Span{}, 0, false
}

func matchLink(rest string, depth int, open uint32) (Span, int, bool) {
	end := strings.Index(rest, "]]")
	if end < 0 {
		return Span{}, 0, false
	}
	inner := rest[2:end]
	target, desc := inner, ""
	hasDesc := false
	if k := strings.Index(inner, "]["); k >= 0 {
		target, desc, hasDesc = inner[:k], inner[k+2:], true
	}
	if target == "" || strings.ContainsAny(target, "[]") || (hasDesc && desc == "") {
		return Span{}, 0, false
	}
	target = strings.Join(strings.Fields(target), " ")
	span := Span{Kind: InlineLink, Link: newLink(target)}
	if hasDesc {
		span.Children = resolveInline(desc, depth+1, open)
	} else {
		span.Text = target
	}
	return span, end + 2, true
}

func newLink(target string) *Link {
	l := &Link{Target: target, Type: "fuzzy", Path: target}
	switch {
	case strings.HasPrefix(target, "#"):
		l.Type, l.Path = "custom-id", target[1:]
	case strings.HasPrefix(target, "*"):
		l.Type, l.Path = "headline", target[1:]
	case strings.HasPrefix(target, "/"), strings.HasPrefix(target, "./"), strings.HasPrefix(target, "../"), strings.HasPrefix(target, "~/"):
		l.Type = "file"
	default:
		if scheme, p, ok := splitScheme(target); ok {
			l.Type, l.Path = scheme, p
		}
	}
	return l
}

func splitScheme(target string) (string, string, bool) {
	colon := strings.IndexByte(target, ':')
	if colon <= 0 {
		return "", "", false
	}
	scheme := strings.ToLower(target[:colon])
	for _, known := range linkSchemes {
		if scheme == known {
			p := target[colon+1:]
			if scheme == "file" {
				p = strings.TrimPrefix(p, "//")
			}
			return scheme, p, true
		}
	}
	return "", "", false
}

func matchCookie(rest string) int {
	i := 1
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}
	if i >= len(rest) {
		return 0
	}
	switch rest[i] {
	case '%':
		i++
	case '/':
		i++
		for i < len(rest) && isDigit(rest[i]) {
			i++
		}
	default:
		return 0
	}
	if i < len(rest) && rest[i] == ']' {
		return i + 1
	}
	return 0
}

func matchAngle(s string, i int) (Span, int, bool) {
	rest := s[i:]
	if strings.HasPrefix(rest, "<<") && !strings.HasPrefix(rest, "<<<") {
		end := strings.Index(rest, ">>")
		if end > 2 {
			name := rest[2:end]
			if !strings.ContainsAny(name, "<>\n") && strings.TrimSpace(name) == name {
				return Span{Kind: InlineTarget, Text: name}, end + 2, true
			}
		}
		return Span{}, 0, false
	}
	if ts, n, ok := scanTimestamp(rest); ok {
		return Span{Kind: InlineTimestamp, Text: ts.Raw, Timestamp: ts}, n, true
	}
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		return Span{}, 0, false
	}
	target := rest[1:end]
	if strings.ContainsAny(target, "<\n") {
		return Span{}, 0, false
	}
	if _, p, ok := splitScheme(target); ok && p != "" {
		return Span{Kind: InlineLink, Text: target, Link: newLink(target)}, end + 1, true
	}
	return Span{}, 0, false
}

func matchBackslash(s string, i int) (Span, int, bool) {
	rest := s[i:]
	if strings.HasPrefix(rest, `\\`) {
		j := 2
		for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t') {
			j++
		}
		if j == len(rest) || rest[j] == '\n' {
			return Span{Kind: InlineLineBreak}, j, true
		}
		return Span{}, 0, false
	}
	j := 1
	for j < len(rest) && isASCIILetter(rest[j]) {
		j++
	}
	if j == 1 {
		return Span{}, 0, false
	}
	ent, ok := entities[rest[1:j]]
	if !ok {
		return Span{}, 0, false
	}
	if strings.HasPrefix(rest[j:], "{}") {
		j += 2
	}
	return Span{Kind: InlineEntity, Text: rest[:j], Entity: &ent}, j, true
}

func matchMacro(s string, i int) (Span, int, bool) {
	rest := s[i:]
	if !strings.HasPrefix(rest, "{{{") {
		return Span{}, 0, false
	}
	end := strings.Index(rest, "}}}")
	if end < 0 {
		return Span{}, 0, false
	}
	body := rest[3:end]
	if body == "" || !isASCIILetter(body[0]) || strings.IndexByte(body, '\n') >= 0 {
		return Span{}, 0, false
	}
	name, args := body, ""
	if k := strings.IndexByte(body, '('); k >= 0 {
		if !strings.HasSuffix(body, ")") {
			return Span{}, 0, false
		}
		name, args = body[:k], body[k+1:len(body)-1]
	}
	for j := 0; j < len(name); j++ {
		c := name[j]
		if !isASCIIAlnum(c) && c != '-' && c != '_' {
			return Span{}, 0, false
		}
	}
	return Span{Kind: InlineMacro, Text: rest[:end+3], Macro: &Macro{Name: name, Args: splitMacroArgs(args)}}, end + 3, true
}

func splitMacroArgs(args string) []string {
	if args == "" {
		return nil
	}
	var out []string
	var cur strings.Builder
	for i := 0; i < len(args); i++ {
		if args[i] == '\\' && i+1 < len(args) && args[i+1] == ',' {
			cur.WriteByte(',')
			i++
			continue
		}
		if args[i] == ',' {
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(args[i])
	}
	return append(out, strings.TrimSpace(cur.String()))
}

func matchSnippet(s string, i int) (Span, int, bool) {
	rest := s[i:]
	if !strings.HasPrefix(rest, "@@") {
		return Span{}, 0, false
	}
	colon := strings.IndexByte(rest, ':')
	if colon <= 2 {
		return Span{}, 0, false
	}
	backend := rest[2:colon]
	for j := 0; j < len(backend); j++ {
		if !isASCIIAlnum(backend[j]) && backend[j] != '-' {
			return Span{}, 0, false
		}
	}
	end := strings.Index(rest[colon+1:], "@@")
	if end < 0 {
		return Span{}, 0, false
	}
	value := rest[colon+1 : colon+1+end]
	n := colon + 1 + end + 2
	return Span{Kind: InlineSnippet, Text: value, Snippet: &Snippet{Backend: backend, Value: value}}, n, true
}

func matchBareURL(s string, i int) (Span, int, bool) {
	if i > 0 {
		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			return Span{}, 0, false
		}
	}
	rest := s[i:]
	prefix := ""
	for _, p := range bareURLPrefixes {
		if len(rest) > len(p) && strings.EqualFold(rest[:len(p)], p) {
			prefix = p
			break
		}
	}
	if prefix == "" {
		return Span{}, 0, false
	}
	end := len(prefix)
	for end < len(rest) {
		c := rest[end]
		if c == ' ' || c == '\t' || c == '\n' || strings.IndexByte("<>[]()\"", c) >= 0 {
			break
		}
		end++
	}
	for end > len(prefix) && strings.IndexByte(".,;:!?'", rest[end-1]) >= 0 {
		end--
	}
	if end == len(prefix) {
		return Span{}, 0, false
	}
	target := rest[:end]
	return Span{Kind: InlineLink, Text: target, Link: newLink(target)}, end, true
}

func isLabel(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isASCIIAlnum(c) && c != '-' && c != '_' {
			return false
		}
	}
	return true
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIAlnum(b byte) bool {
	return isASCIILetter(b) || isDigit(b)
}

// walkSpans yields the inline events for spans. It stops early when yield
// returns false and reports whether the walk completed.
func walkSpans(spans []Span, yield func(Event) bool) bool {
	for i := range spans {
		sp := &spans[i]
		switch {
		case sp.Kind == InlineText:
			if !yield(Event{Kind: EventText, Text: sp.Text}) {
				return false
			}
		case sp.IsContainer():
			if !yield(Event{Kind: EventInlineStart, Span: sp}) {
				return false
			}
			if !walkSpans(sp.Children, yield) {
				return false
			}
			if !yield(Event{Kind: EventInlineEnd, Span: sp}) {
				return false
			}
		default:
			if !yield(Event{Kind: EventInline, Span: sp, Text: sp.Text}) {
				return false
			}
		}
	}
	return true
}
