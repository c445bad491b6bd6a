package orgf

import "strings"

type lineKind uint8

const (
	lineBlank lineKind = iota
	lineHeadline
	lineRule
	lineListItem
	lineTableRow
	lineBlockBegin
	lineBlockEnd
	lineDynamicBegin
	lineDynamicEnd
	lineDrawerBegin
	lineDrawerEnd
	linePlanning
	lineClock
	lineKeyword
	lineComment
	lineFixedWidth
	lineText
	lineRaw
)

var lineKindNames = [...]string{
	lineBlank:        "blank",
	lineHeadline:     "headline",
	lineRule:         "rule",
	lineListItem:     "list-item",
	lineTableRow:     "table-row",
	lineBlockBegin:   "block-begin",
	lineBlockEnd:     "block-end",
	lineDynamicBegin: "dynamic-begin",
	lineDynamicEnd:   "dynamic-end",
	lineDrawerBegin:  "drawer-begin",
	lineDrawerEnd:    "drawer-end",
	linePlanning:     "planning",
	lineClock:        "clock",
	lineKeyword:      "keyword",
	lineComment:      "comment",
	lineFixedWidth:   "fixed-width",
	lineText:         "text",
	lineRaw:          "raw",
}

func (k lineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "unknown"
}

// line is one classified input line. Which fields are set depends on kind:
// text is the content after the structural prefix (headline rest, item
// body, comment body, fixed-width body, keyword value); name is the block,
// drawer or keyword name; value holds block parameters.
type line struct {
	kind   lineKind
	num    int
	raw    string
	indent int
	text   string
	level  int
	name   string
	value  string

	// list items
	bullet   string
	ordered  bool
	counter  string
	checkbox CheckboxState
	tag      string
	hasTag   bool
}

// scanner splits a buffer into classified lines. It enters raw mode on its
// own after a verbatim block begin line and leaves it at the matching end.
type scanner struct {
	src    string
	pos    int
	num    int
	rawEnd string
	peeked *line
}

func newScanner(src string) scanner {
	return scanner{src: src}
}

// next returns the next classified line.
func (s *scanner) next() (line, bool) {
	if s.peeked != nil {
		ln := *s.peeked
		s.peeked = nil
		return ln, true
	}
	if s.pos >= len(s.src) {
		return line{}, false
	}
	end := strings.IndexByte(s.src[s.pos:], '\n')
	var text string
	if end < 0 {
		text = s.src[s.pos:]
		s.pos = len(s.src)
	} else {
		text = s.src[s.pos : s.pos+end]
		s.pos += end + 1
	}
	text = strings.TrimSuffix(text, "\r")
	s.num++
	ln := s.classify(text)
	ln.num = s.num
	return ln, true
}

// peek returns the next line without consuming it.
func (s *scanner) peek() (line, bool) {
	if s.peeked != nil {
		return *s.peeked, true
	}
	ln, ok := s.next()
	if !ok {
		return line{}, false
	}
	s.peeked = &ln
	return ln, true
}

func (s *scanner) classify(text string) line {
	if s.rawEnd != "" {
		return s.classifyRaw(text)
	}
	ln := line{kind: lineText, raw: text}
	if isBlank(text) {
		ln.kind = lineBlank
		return ln
	}
	if text[0] == '*' {
		level := 0
		for level < len(text) && text[level] == '*' {
			level++
		}
		if level == len(text) || text[level] == ' ' || text[level] == '\t' {
			ln.kind = lineHeadline
			ln.level = level
			ln.text = strings.TrimSpace(text[level:])
			return ln
		}
	}
	ln.indent = indentWidth(text)
	t := strings.TrimLeft(text, " \t")
	ln.text = t
	switch {
	case strings.HasPrefix(t, "#+"):
		s.classifyHashPlus(&ln, t)
	case t[0] == '#' && (len(t) == 1 || t[1] == ' ' || t[1] == '\t'):
		ln.kind = lineComment
		if len(t) > 1 {
			ln.text = t[2:]
		} else {
			ln.text = ""
		}
	case t[0] == ':':
		classifyColon(&ln, t)
	case hasFoldPrefix(t, "SCHEDULED:"), hasFoldPrefix(t, "DEADLINE:"), hasFoldPrefix(t, "CLOSED:"):
		ln.kind = linePlanning
	case hasFoldPrefix(t, "CLOCK:"):
		ln.kind = lineClock
		ln.text = strings.TrimSpace(t[len("CLOCK:"):])
	case isRule(t):
		ln.kind = lineRule
	case t[0] == '|':
		ln.kind = lineTableRow
	default:
		classifyListItem(&ln, t)
	}
	return ln
}

func (s *scanner) classifyRaw(text string) line {
	ln := line{kind: lineRaw, raw: text, indent: indentWidth(text)}
	t := strings.TrimLeft(text, " \t")
	if hasFoldPrefix(t, "#+end_") {
		name := strings.TrimSpace(t[len("#+end_"):])
		if strings.EqualFold(name, s.rawEnd) {
			s.rawEnd = ""
			ln.kind = lineBlockEnd
			ln.name = name
			ln.text = t
			return ln
		}
	}
	ln.text = unescapeRaw(text)
	return ln
}

func (s *scanner) classifyHashPlus(ln *line, t string) {
	switch {
	case hasFoldPrefix(t, "#+begin_"):
		rest := t[len("#+begin_"):]
		name, params := splitField(rest)
		if name == "" {
			return
		}
		ln.kind = lineBlockBegin
		ln.name = name
		ln.value = params
		if blockKindFor(name).Verbatim() {
			s.rawEnd = name
		}
	case hasFoldPrefix(t, "#+end_"):
		name, _ := splitField(t[len("#+end_"):])
		if name == "" {
			return
		}
		ln.kind = lineBlockEnd
		ln.name = name
	case hasFoldPrefix(t, "#+begin:"):
		ln.kind = lineDynamicBegin
		ln.name, ln.value = splitField(strings.TrimSpace(t[len("#+begin:"):]))
	case hasFoldPrefix(t, "#+end:"):
		ln.kind = lineDynamicEnd
	default:
		colon := strings.IndexByte(t, ':')
		if colon <= 2 {
			return
		}
		key := t[2:colon]
		if strings.ContainsAny(key, " \t") {
			return
		}
		ln.kind = lineKeyword
		ln.name = key
		ln.value = strings.TrimSpace(t[colon+1:])
	}
}

func classifyColon(ln *line, t string) {
	if len(t) == 1 || t[1] == ' ' || t[1] == '\t' {
		ln.kind = lineFixedWidth
		if len(t) > 1 {
			ln.text = t[2:]
		} else {
			ln.text = ""
		}
		return
	}
	rest := strings.TrimRight(t, " \t")
	if len(rest) < 3 || rest[len(rest)-1] != ':' {
		return
	}
	name := rest[1 : len(rest)-1]
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isASCIIAlnum(c) && c != '-' && c != '_' {
			return
		}
	}
	ln.name = name
	if strings.EqualFold(name, "END") {
		ln.kind = lineDrawerEnd
		return
	}
	ln.kind = lineDrawerBegin
}

func classifyListItem(ln *line, t string) {
	n := 0
	switch {
	case t[0] == '-' || t[0] == '+' || (t[0] == '*' && ln.indent > 0):
		n = 1
	case isDigit(t[0]):
		for n < len(t) && isDigit(t[n]) {
			n++
		}
		if n >= len(t) || (t[n] != '.' && t[n] != ')') {
			return
		}
		n++
		ln.ordered = true
	default:
		return
	}
	if n < len(t) && t[n] != ' ' && t[n] != '\t' {
		ln.ordered = false
		return
	}
	ln.kind = lineListItem
	ln.bullet = t[:n]
	rest := strings.TrimLeft(t[n:], " \t")
	if strings.HasPrefix(rest, "[@") {
		if end := strings.IndexByte(rest, ']'); end > 2 {
			ln.counter = rest[2:end]
			rest = strings.TrimLeft(rest[end+1:], " \t")
		}
	}
	if len(rest) >= 3 && rest[0] == '[' && rest[2] == ']' && (len(rest) == 3 || rest[3] == ' ' || rest[3] == '\t') {
		switch rest[1] {
		case ' ':
			ln.checkbox = CheckboxOff
		case 'X', 'x':
			ln.checkbox = CheckboxOn
		case '-':
			ln.checkbox = CheckboxTrans
		}
		if ln.checkbox != CheckboxNone {
			rest = strings.TrimLeft(rest[3:], " \t")
		}
	}
	if !ln.ordered {
		if k := strings.Index(rest, " ::"); k >= 0 && (k+3 == len(rest) || rest[k+3] == ' ' || rest[k+3] == '\t') {
			ln.tag = strings.TrimSpace(rest[:k])
			ln.hasTag = true
			rest = strings.TrimLeft(rest[k+3:], " \t")
		}
	}
	ln.text = rest
}

// unescapeRaw removes the comma Org inserts before "*" and "#+" at the start
// of lines inside verbatim blocks.
func unescapeRaw(text string) string {
	t := strings.TrimLeft(text, " \t")
	if !strings.HasPrefix(t, ",") {
		return text
	}
	after := strings.TrimLeft(t, ",")
	if !strings.HasPrefix(after, "*") && !strings.HasPrefix(after, "#+") {
		return text
	}
	lead := len(text) - len(t)
	return text[:lead] + t[1:]
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}

func isRule(t string) bool {
	t = strings.TrimRight(t, " \t")
	if len(t) < 5 {
		return false
	}
	for i := 0; i < len(t); i++ {
		if t[i] != '-' {
			return false
		}
	}
	return true
}

// indentWidth returns the column of the first non-blank character, with
// tabs advancing to the next multiple of eight.
func indentWidth(s string) int {
	col := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			col++
		case '\t':
			col += 8 - col%8
		default:
			return col
		}
	}
	return col
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func splitField(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}
