package orgf

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/wrap"
)

// wordPart is a run of text sharing one style. link is the OSC 8 target.
type wordPart struct {
	text  string
	style Style
	link  string
	hard  bool
}

type ansiWord struct {
	parts []wordPart
	width int
	hard  bool
}

type ansiTable struct {
	rows [][]string
	cur  []string
}

// ANSIExporter folds events into themed terminal text. Paragraphs and
// headlines are buffered per element and wrapped to the configured width.
type ANSIExporter struct {
	w      io.Writer
	width  int
	styles Styles
	cfg    renderConfig
	err    error

	skip       int
	parts      []wordPart
	styleStack []Style
	links      []string
	prefixes   []string
	marker     string
	markerAt   int
	lists      int
	verse      int
	raw        *Block
	rawBody    strings.Builder
	table      *ansiTable
	gap        bool
}

// NewANSIExporter returns a terminal exporter writing to w. A width of zero
// disables wrapping; a nil theme selects DefaultTheme.
func NewANSIExporter(w io.Writer, width int, theme Theme, opts ...RenderOption) *ANSIExporter {
	e := &ANSIExporter{}
	e.reset(w, width, theme, newRenderConfig(opts))
	return e
}

func (e *ANSIExporter) reset(w io.Writer, width int, theme Theme, cfg renderConfig) {
	if theme == nil {
		theme = DefaultTheme()
	}
	e.w = w
	e.width = width
	e.styles = theme.Styles()
	e.cfg = cfg
	e.err = nil
	e.skip = 0
	e.parts = e.parts[:0]
	e.styleStack = e.styleStack[:0]
	e.links = e.links[:0]
	e.prefixes = e.prefixes[:0]
	e.marker = ""
	e.markerAt = 0
	e.lists = 0
	e.verse = 0
	e.raw = nil
	e.rawBody.Reset()
	e.table = nil
	e.gap = false
}

// Handle processes one event.
func (e *ANSIExporter) Handle(ev Event) error {
	if e.err != nil {
		return e.err
	}
	if e.skip > 0 {
		switch {
		case ev.Kind.IsStart():
			e.skip++
		case ev.Kind.IsEnd():
			e.skip--
		}
		return nil
	}
	switch ev.Kind {
	case EventHeadlineStart:
		e.headline(ev.Headline)
	case EventParagraphStart, EventTableCellStart:
		e.parts = e.parts[:0]
	case EventParagraphEnd:
		e.flushText()
	case EventListStart:
		if e.lists == 0 {
			e.writeGap()
		}
		e.lists++
	case EventListEnd:
		e.lists--
		if e.lists == 0 {
			e.gap = true
		}
	case EventListItemStart:
		e.item(ev.Item)
	case EventListItemEnd:
		if e.marker != "" {
			e.emitLine("")
		}
		e.popPrefix()
	case EventTableStart:
		e.writeGap()
		e.table = &ansiTable{}
	case EventTableRowStart:
		e.table.cur = nil
	case EventTableRowEnd:
		if ev.Row.Separator {
			e.table.rows = append(e.table.rows, nil)
		} else {
			e.table.rows = append(e.table.rows, e.table.cur)
		}
	case EventTableCellEnd:
		e.table.cur = append(e.table.cur, e.joinParts())
		e.parts = e.parts[:0]
	case EventTableEnd:
		e.flushTable()
		e.table = nil
	case EventGreaterBlockStart:
		e.blockStart(ev.Block)
	case EventGreaterBlockEnd:
		e.blockEnd(ev.Block)
	case EventDrawerStart:
		if !e.cfg.drawers {
			e.skip = 1
			return nil
		}
		e.writeGap()
		e.emitLine(e.styled(":"+ev.Drawer.Name+":", e.styles.Meta))
	case EventDrawerEnd:
		e.emitLine(e.styled(":END:", e.styles.Meta))
		e.gap = e.lists == 0
	case EventInlineStart:
		e.inlineStart(ev.Span)
	case EventInlineEnd:
		e.inlineEnd(ev.Span)
	case EventInline:
		e.inline(ev.Span)
	case EventText:
		if e.raw != nil {
			e.rawBody.WriteString(ev.Text)
			return e.err
		}
		e.addText(ev.Text, e.current())
	case EventHorizontalRule:
		e.writeGap()
		n := e.available()
		if n <= 0 {
			n = 40
		}
		e.emitLine(e.styled(strings.Repeat("─", n), e.styles.ThematicBreak))
		e.gap = e.lists == 0
	case EventFixedWidth:
		e.codeLines(ev.Text, "")
	case EventKeyword:
		if strings.EqualFold(ev.Keyword.Key, "TITLE") && ev.Keyword.Value != "" {
			e.writeGap()
			e.emitLine(e.styled(sanitize(ev.Keyword.Value), e.styles.Heading[0]))
			e.gap = true
		}
	case EventNodeProperty:
		e.emitLine(e.styled(":"+ev.Property.Key+": "+ev.Property.Value, e.styles.Meta))
	}
	return e.err
}

// Flush writes any buffered text.
func (e *ANSIExporter) Flush() error {
	if e.err != nil {
		return e.err
	}
	if len(e.parts) > 0 {
		e.flushText()
	}
	return e.err
}

func (e *ANSIExporter) headline(h *Headline) {
	if h.Commented {
		e.skip = 1
		return
	}
	hs := e.styles.Heading[min(h.Level, len(e.styles.Heading))-1]
	e.parts = e.parts[:0]
	e.parts = append(e.parts, wordPart{text: strings.Repeat("*", h.Level), style: hs})
	if h.Keyword != "" {
		st := e.styles.Todo
		if h.Todo == TodoDone {
			st = e.styles.Done
		}
		e.parts = append(e.parts, wordPart{text: " "}, wordPart{text: h.Keyword, style: st})
	}
	if h.Priority != "" {
		e.parts = append(e.parts, wordPart{text: " "}, wordPart{text: "[#" + h.Priority + "]", style: e.styles.Priority})
	}
	e.parts = append(e.parts, wordPart{text: " "})
	e.styleStack = append(e.styleStack[:0], hs)
	walkSpans(h.Title, func(ev Event) bool {
		return e.Handle(ev) == nil
	})
	e.styleStack = e.styleStack[:0]
	if len(h.Tags) > 0 {
		e.parts = append(e.parts, wordPart{text: " "}, wordPart{text: ":" + strings.Join(h.Tags, ":") + ":", style: e.styles.Tag})
	}
	e.prefixes = e.prefixes[:0]
	e.flushText()
	e.gap = true
}

func (e *ANSIExporter) item(it *ListItem) {
	marker := "•"
	if it.Bullet != "" && isDigit(it.Bullet[0]) {
		marker = it.Bullet
	}
	switch it.Checkbox {
	case CheckboxOff:
		marker += " [ ]"
	case CheckboxOn:
		marker += " [X]"
	case CheckboxTrans:
		marker += " [-]"
	}
	if it.Tag != nil {
		e.parts = e.parts[:0]
		e.styleStack = append(e.styleStack[:0], e.styles.Bold)
		walkSpans(it.Tag, func(ev Event) bool {
			return e.Handle(ev) == nil
		})
		e.styleStack = e.styleStack[:0]
		e.marker = e.styled(marker, e.styles.ListMarker) + " "
		e.markerAt = len(e.prefixes)
		e.prefixes = append(e.prefixes, strings.Repeat(" ", ansi.PrintableRuneWidth(marker)+1))
		e.flushText()
		return
	}
	e.marker = e.styled(marker, e.styles.ListMarker) + " "
	e.markerAt = len(e.prefixes)
	e.prefixes = append(e.prefixes, strings.Repeat(" ", ansi.PrintableRuneWidth(marker)+1))
}

func (e *ANSIExporter) blockStart(b *Block) {
	switch b.Kind {
	case BlockSrc, BlockExample:
		e.raw = b
		e.rawBody.Reset()
	case BlockExport, BlockComment:
		e.skip = 1
	case BlockQuote:
		e.writeGap()
		e.prefixes = append(e.prefixes, e.styled("│", e.styles.Quote)+" ")
	case BlockVerse:
		e.verse++
		e.prefixes = append(e.prefixes, "")
	default:
		e.prefixes = append(e.prefixes, "")
	}
}

func (e *ANSIExporter) blockEnd(b *Block) {
	switch b.Kind {
	case BlockSrc, BlockExample:
		e.raw = nil
		e.codeLines(e.rawBody.String(), b.Language)
		e.rawBody.Reset()
	default:
		if b.Kind == BlockVerse && e.verse > 0 {
			e.verse--
		}
		e.popPrefix()
		e.gap = e.lists == 0
	}
}

func (e *ANSIExporter) codeLines(body, lang string) {
	e.writeGap()
	if lang != "" {
		e.emitLine(e.styled(lang, e.styles.Meta))
	}
	avail := e.available() - 2
	for _, l := range strings.Split(body, "\n") {
		l = sanitize(strings.ReplaceAll(l, "\t", "    "))
		if avail > 0 && ansi.PrintableRuneWidth(l) > avail {
			l = truncateWithEllipsis(l, avail)
		}
		e.emitLine("  " + e.styled(l, e.styles.CodeBlock))
	}
	e.gap = e.lists == 0
}

func (e *ANSIExporter) inlineStart(sp *Span) {
	var st Style
	switch sp.Kind {
	case InlineBold:
		st = e.styles.Bold
	case InlineItalic:
		st = e.styles.Italic
	case InlineUnderline:
		st = e.styles.Underline
	case InlineStrikethrough:
		st = e.styles.Strikethrough
	case InlineSubscript:
		e.addText("_", e.current())
	case InlineSuperscript:
		e.addText("^", e.current())
	case InlineLink:
		st = e.styles.LinkText
		e.links = append(e.links, sp.Link.Target)
	}
	e.styleStack = append(e.styleStack, Style{Prefix: e.current().Prefix + st.Prefix})
}

func (e *ANSIExporter) inlineEnd(sp *Span) {
	if n := len(e.styleStack); n > 0 {
		e.styleStack = e.styleStack[:n-1]
	}
	if sp.Kind != InlineLink {
		return
	}
	if n := len(e.links); n > 0 {
		e.links = e.links[:n-1]
	}
	if !e.cfg.osc8 && sp.Link.Target != SpansText(sp.Children) {
		limit := e.available() / 2
		if limit <= 0 {
			limit = len(sp.Link.Target)
		}
		e.parts = append(e.parts, wordPart{text: " "},
			wordPart{text: "(" + fitURL(sp.Link.Target, limit) + ")", style: e.styles.LinkURL})
	}
}

func (e *ANSIExporter) inline(sp *Span) {
	switch sp.Kind {
	case InlineVerbatim:
		e.addText(sp.Text, e.styles.Verbatim)
	case InlineCode:
		e.addText(sp.Text, e.styles.CodeInline)
	case InlineTimestamp:
		e.addText(sp.Text, e.styles.Timestamp)
	case InlineEntity:
		e.addText(sp.Entity.UTF8, e.current())
	case InlineMacro:
		if tmpl, ok := e.cfg.macros[sp.Macro.Name]; ok {
			e.addText(expandMacro(tmpl, sp.Macro.Args), e.current())
		}
	case InlineLineBreak:
		e.parts = append(e.parts, wordPart{hard: true})
	case InlineFootnoteReference:
		e.addText("["+sp.Text+"]", e.styles.LinkURL)
	case InlineLink:
		text := sp.Text
		if limit := e.available(); limit > 0 && !e.cfg.osc8 {
			text = fitURL(text, limit)
		}
		e.parts = append(e.parts, wordPart{text: sanitize(text), style: e.styles.LinkText, link: e.linkTarget(sp.Link.Target)})
	case InlineSnippet, InlineTarget:
	default:
		e.addText(sp.Text, e.current())
	}
}

func (e *ANSIExporter) linkTarget(target string) string {
	if !e.cfg.osc8 {
		return ""
	}
	return target
}

func (e *ANSIExporter) current() Style {
	if n := len(e.styleStack); n > 0 {
		return e.styleStack[n-1]
	}
	return e.styles.Text
}

func (e *ANSIExporter) addText(text string, st Style) {
	link := ""
	if n := len(e.links); n > 0 {
		link = e.linkTarget(e.links[n-1])
	}
	if e.verse > 0 {
		for {
			idx := strings.IndexByte(text, '\n')
			if idx < 0 {
				break
			}
			if idx > 0 {
				e.parts = append(e.parts, wordPart{text: sanitize(text[:idx]), style: st, link: link})
			}
			e.parts = append(e.parts, wordPart{hard: true})
			text = text[idx+1:]
		}
		if text == "" {
			return
		}
	}
	e.parts = append(e.parts, wordPart{text: sanitize(text), style: st, link: link})
}

func (e *ANSIExporter) flushText() {
	lines := e.wrapParts(e.parts, e.available())
	e.parts = e.parts[:0]
	e.writeGap()
	for _, l := range lines {
		e.emitLine(l)
	}
	e.gap = e.lists == 0
}

// words splits parts at whitespace. A word may span several parts.
func words(parts []wordPart) []ansiWord {
	var out []ansiWord
	var cur ansiWord
	flush := func() {
		if len(cur.parts) > 0 {
			out = append(out, cur)
		}
		cur = ansiWord{}
	}
	for _, p := range parts {
		if p.hard {
			flush()
			out = append(out, ansiWord{hard: true})
			continue
		}
		start := 0
		for i, r := range p.text {
			if !unicode.IsSpace(r) {
				continue
			}
			if i > start {
				seg := p
				seg.text = p.text[start:i]
				cur.parts = append(cur.parts, seg)
				cur.width += ansi.PrintableRuneWidth(seg.text)
			}
			flush()
			start = i + utf8.RuneLen(r)
		}
		if start < len(p.text) {
			seg := p
			seg.text = p.text[start:]
			cur.parts = append(cur.parts, seg)
			cur.width += ansi.PrintableRuneWidth(seg.text)
		}
	}
	flush()
	return out
}

// wrapParts lays words out greedily in lines of at most avail columns. An
// avail of zero or less disables wrapping.
func (e *ANSIExporter) wrapParts(parts []wordPart, avail int) []string {
	var lines []string
	var b strings.Builder
	lw := 0
	newline := func() {
		lines = append(lines, b.String())
		b.Reset()
		lw = 0
	}
	for _, w := range words(parts) {
		if w.hard {
			newline()
			continue
		}
		if lw > 0 && avail > 0 && lw+1+w.width > avail {
			newline()
		}
		if lw > 0 {
			b.WriteByte(' ')
			lw++
		}
		if avail > 0 && w.width > avail && e.cfg.softWrap {
			first := w.parts[0]
			var plain strings.Builder
			for _, p := range w.parts {
				plain.WriteString(p.text)
			}
			for i, chunk := range strings.Split(wrap.String(plain.String(), avail), "\n") {
				if i > 0 {
					newline()
				}
				first.text = chunk
				e.writePart(&b, first)
				lw = ansi.PrintableRuneWidth(chunk)
			}
			continue
		}
		for _, p := range w.parts {
			e.writePart(&b, p)
		}
		lw += w.width
	}
	if lw > 0 || len(lines) == 0 {
		lines = append(lines, b.String())
	}
	return lines
}

func (e *ANSIExporter) writePart(b *strings.Builder, p wordPart) {
	b.WriteString(osc8Link(p.link, e.styled(p.text, p.style)))
}

// joinParts renders parts on a single line.
func (e *ANSIExporter) joinParts() string {
	var b strings.Builder
	for i, w := range words(e.parts) {
		if w.hard {
			continue
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		for _, p := range w.parts {
			e.writePart(&b, p)
		}
	}
	return b.String()
}

func (e *ANSIExporter) flushTable() {
	t := e.table
	var widths []int
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], ansi.PrintableRuneWidth(cell))
		}
	}
	if len(widths) == 0 {
		return
	}
	bar := e.styled("│", e.styles.TableBorder)
	for _, row := range t.rows {
		var b strings.Builder
		if row == nil {
			segs := make([]string, len(widths))
			for i, w := range widths {
				segs[i] = strings.Repeat("─", w+2)
			}
			e.emitLine(e.styled("├"+strings.Join(segs, "┼")+"┤", e.styles.TableBorder))
			continue
		}
		b.WriteString(bar)
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(" " + padding.String(cell, uint(w)) + " " + bar)
		}
		e.emitLine(b.String())
	}
	e.gap = e.lists == 0
}

func (e *ANSIExporter) styled(text string, st Style) string {
	if st.Prefix == "" || text == "" {
		return text
	}
	return st.Prefix + text + ansiReset
}

func (e *ANSIExporter) popPrefix() {
	if n := len(e.prefixes); n > 0 {
		e.prefixes = e.prefixes[:n-1]
	}
	if e.markerAt >= len(e.prefixes) {
		e.marker = ""
	}
}

func (e *ANSIExporter) linePrefix() string {
	var b strings.Builder
	for i, p := range e.prefixes {
		if i == e.markerAt && e.marker != "" {
			b.WriteString(e.marker)
			continue
		}
		b.WriteString(p)
	}
	e.marker = ""
	return b.String()
}

func (e *ANSIExporter) available() int {
	if e.width <= 0 {
		return 0
	}
	n := e.width - ansi.PrintableRuneWidth(strings.Join(e.prefixes, ""))
	return max(n, 10)
}

func (e *ANSIExporter) writeGap() {
	if !e.gap {
		return
	}
	e.gap = false
	e.write("\n")
}

func (e *ANSIExporter) emitLine(l string) {
	e.write(strings.TrimRight(e.linePrefix()+l, " ") + "\n")
}

func (e *ANSIExporter) write(s string) {
	if e.err != nil {
		return
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = fmt.Errorf("render: %w", err)
	}
}

// sanitize drops control characters that would corrupt terminal output.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if isControlRune(r) {
			return -1
		}
		return r
	}, s)
}
