package orgf

import (
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLTag is one entry of the HTML mapping table.
type HTMLTag struct {
	Atom  atom.Atom
	Class string
}

// HTMLTags is the mapping table of HTMLExporter. Replacing an entry changes
// the element written for that construct; the event handling stays the same.
type HTMLTags struct {
	Headline      HTMLTag
	Section       HTMLTag
	Headings      [6]atom.Atom
	Paragraph     HTMLTag
	Unordered     HTMLTag
	Ordered       HTMLTag
	Descriptive   HTMLTag
	Item          HTMLTag
	Term          HTMLTag
	Description   HTMLTag
	Table         HTMLTag
	TableHead     HTMLTag
	TableBody     HTMLTag
	TableRow      HTMLTag
	HeaderCell    HTMLTag
	DataCell      HTMLTag
	Bold          HTMLTag
	Italic        HTMLTag
	Underline     HTMLTag
	Verbatim      HTMLTag
	Code          HTMLTag
	Strikethrough HTMLTag
	Subscript     HTMLTag
	Superscript   HTMLTag
	Link          HTMLTag
	Image         HTMLTag
	Timestamp     HTMLTag
	Quote         HTMLTag
	Center        HTMLTag
	Verse         HTMLTag
	Src           HTMLTag
	Example       HTMLTag
	Special       HTMLTag
	Drawer        HTMLTag
	Property      HTMLTag
	Rule          HTMLTag
	LineBreak     HTMLTag
}

// DefaultHTMLTags returns the mapping table used when no WithHTMLTags option is given.
func DefaultHTMLTags() HTMLTags {
	return HTMLTags{
		Headline:      HTMLTag{Atom: atom.Section},
		Section:       HTMLTag{Atom: atom.Div},
		Headings:      [6]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6},
		Paragraph:     HTMLTag{Atom: atom.P},
		Unordered:     HTMLTag{Atom: atom.Ul},
		Ordered:       HTMLTag{Atom: atom.Ol},
		Descriptive:   HTMLTag{Atom: atom.Dl},
		Item:          HTMLTag{Atom: atom.Li},
		Term:          HTMLTag{Atom: atom.Dt},
		Description:   HTMLTag{Atom: atom.Dd},
		Table:         HTMLTag{Atom: atom.Table},
		TableHead:     HTMLTag{Atom: atom.Thead},
		TableBody:     HTMLTag{Atom: atom.Tbody},
		TableRow:      HTMLTag{Atom: atom.Tr},
		HeaderCell:    HTMLTag{Atom: atom.Th},
		DataCell:      HTMLTag{Atom: atom.Td},
		Bold:          HTMLTag{Atom: atom.B},
		Italic:        HTMLTag{Atom: atom.I},
		Underline:     HTMLTag{Atom: atom.Span, Class: "underline"},
		Verbatim:      HTMLTag{Atom: atom.Code},
		Code:          HTMLTag{Atom: atom.Code},
		Strikethrough: HTMLTag{Atom: atom.Del},
		Subscript:     HTMLTag{Atom: atom.Sub},
		Superscript:   HTMLTag{Atom: atom.Sup},
		Link:          HTMLTag{Atom: atom.A},
		Image:         HTMLTag{Atom: atom.Img},
		Timestamp:     HTMLTag{Atom: atom.Span, Class: "timestamp"},
		Quote:         HTMLTag{Atom: atom.Blockquote},
		Center:        HTMLTag{Atom: atom.Div, Class: "center"},
		Verse:         HTMLTag{Atom: atom.Div, Class: "verse"},
		Src:           HTMLTag{Atom: atom.Pre, Class: "src"},
		Example:       HTMLTag{Atom: atom.Pre, Class: "example"},
		Special:       HTMLTag{Atom: atom.Div},
		Drawer:        HTMLTag{Atom: atom.Div, Class: "drawer"},
		Property:      HTMLTag{Atom: atom.P, Class: "property"},
		Rule:          HTMLTag{Atom: atom.Hr},
		LineBreak:     HTMLTag{Atom: atom.Br},
	}
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeText escapes text content.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes an attribute value, quotes included.
func EscapeAttr(s string) string {
	return html.EscapeString(s)
}

type htmlTable struct {
	buffering bool
	header    bool
	rows      int
	pending   []Event
}

// HTMLExporter folds events into HTML. It keeps a stack of the closing
// tags of every open construct.
type HTMLExporter struct {
	w       io.Writer
	cfg     renderConfig
	tags    HTMLTags
	closers []string
	skip    int
	rawHTML bool
	verse   int
	table   *htmlTable
	title   string
	started bool
	err     error
}

// NewHTMLExporter returns an exporter writing to w.
func NewHTMLExporter(w io.Writer, opts ...RenderOption) *HTMLExporter {
	e := &HTMLExporter{}
	e.reset(w, newRenderConfig(opts))
	return e
}

func (e *HTMLExporter) reset(w io.Writer, cfg renderConfig) {
	e.w = w
	e.cfg = cfg
	e.tags = DefaultHTMLTags()
	if cfg.tags != nil {
		e.tags = *cfg.tags
	}
	e.closers = e.closers[:0]
	e.skip = 0
	e.rawHTML = false
	e.verse = 0
	e.table = nil
	e.title = cfg.title
	e.started = false
	e.err = nil
}

// Handle writes the markup for one event.
func (e *HTMLExporter) Handle(ev Event) error {
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
	if t := e.table; t != nil && t.buffering && ev.Kind != EventTableStart {
		e.bufferTable(ev)
		return e.err
	}
	e.render(ev)
	return e.err
}

// Flush closes the standalone document. Constructs left open by a truncated
// stream are closed as well.
func (e *HTMLExporter) Flush() error {
	if e.err != nil {
		return e.err
	}
	for len(e.closers) > 0 {
		e.write(e.popCloser())
	}
	if e.cfg.standalone {
		e.prologue()
		e.write("</body>\n</html>\n")
	}
	return e.err
}

func (e *HTMLExporter) bufferTable(ev Event) {
	t := e.table
	switch {
	case ev.Kind == EventTableRowStart && ev.Row.Separator:
		if t.rows == 0 {
			t.pending = append(t.pending, ev)
			return
		}
		e.write("<" + e.tags.Table.open() + "><" + e.tags.TableHead.open() + ">")
		t.buffering, t.header = false, true
		e.replay()
		t.header = false
		e.write("</" + e.tags.TableHead.name() + "><" + e.tags.TableBody.open() + ">")
		e.render(ev)
	case ev.Kind == EventTableEnd:
		e.write("<" + e.tags.Table.open() + "><" + e.tags.TableBody.open() + ">")
		t.buffering = false
		e.replay()
		e.render(ev)
	default:
		if ev.Kind == EventTableRowStart {
			t.rows++
		}
		t.pending = append(t.pending, ev)
	}
}

func (e *HTMLExporter) replay() {
	t := e.table
	pending := t.pending
	t.pending = nil
	for _, ev := range pending {
		e.render(ev)
	}
}

func (e *HTMLExporter) render(ev Event) {
	switch ev.Kind {
	case EventHeadlineStart:
		e.headline(ev.Headline)
	case EventSectionStart:
		if ev.Headline == nil {
			e.pushCloser("")
			return
		}
		e.open(e.tags.Section, "outline-text-"+strconv.Itoa(ev.Headline.Level), "")
	case EventParagraphStart:
		e.open(e.tags.Paragraph, "", "")
	case EventListStart:
		switch ev.List.Kind {
		case ListOrdered:
			e.open(e.tags.Ordered, "", "")
		case ListDescriptive:
			e.open(e.tags.Descriptive, "", "")
		default:
			e.open(e.tags.Unordered, "", "")
		}
	case EventListItemStart:
		e.listItem(ev.Item)
	case EventTableStart:
		e.table = &htmlTable{buffering: true}
	case EventTableEnd:
		e.write("</" + e.tags.TableBody.name() + "></" + e.tags.Table.name() + ">\n")
		e.table = nil
	case EventTableRowStart:
		if ev.Row.Separator {
			e.pushCloser("")
			return
		}
		e.open(e.tags.TableRow, "", "")
	case EventTableCellStart:
		if e.table != nil && e.table.header {
			e.open(e.tags.HeaderCell, "", "")
		} else {
			e.open(e.tags.DataCell, "", "")
		}
	case EventGreaterBlockStart:
		e.block(ev.Block)
	case EventDrawerStart:
		if !e.cfg.drawers {
			e.skip = 1
			return
		}
		e.open(e.tags.Drawer, strings.ToLower(ev.Drawer.Name), "")
	case EventInlineStart:
		e.inlineStart(ev.Span)
	case EventHeadlineEnd, EventSectionEnd, EventParagraphEnd, EventListEnd, EventListItemEnd,
		EventTableRowEnd, EventTableCellEnd, EventDrawerEnd, EventInlineEnd:
		e.write(e.popCloser())
	case EventGreaterBlockEnd:
		e.write(e.popCloser())
		e.rawHTML = false
		if ev.Block.Kind == BlockVerse && e.verse > 0 {
			e.verse--
		}
	case EventInline:
		e.inline(ev.Span)
	case EventText:
		if e.rawHTML {
			e.write(ev.Text)
			return
		}
		if e.verse > 0 {
			e.write(strings.ReplaceAll(EscapeText(ev.Text), "\n", "<"+e.tags.LineBreak.open()+">\n"))
			return
		}
		e.write(EscapeText(ev.Text))
	case EventHorizontalRule:
		e.write("<" + e.tags.Rule.open() + ">\n")
	case EventFixedWidth:
		e.write("<" + e.tags.Example.open() + ">" + EscapeText(ev.Text) + "</" + e.tags.Example.name() + ">\n")
	case EventKeyword:
		e.keyword(ev.Keyword)
	case EventNodeProperty:
		e.write("<" + e.tags.Property.open() + ">" + EscapeText(ev.Property.Key) + ": " +
			EscapeText(ev.Property.Value) + "</" + e.tags.Property.name() + ">\n")
	case EventComment, EventClock:
	}
}

func (e *HTMLExporter) headline(h *Headline) {
	if h.Commented {
		e.skip = 1
		return
	}
	level := h.Level
	e.open(e.tags.Headline, "outline-"+strconv.Itoa(level), "")
	heading := e.tags.Headings[min(level, len(e.tags.Headings))-1].String()
	e.write("<" + heading + ">")
	if h.Keyword != "" {
		class := "todo"
		if h.Todo == TodoDone {
			class = "done"
		}
		e.write(`<span class="` + class + " " + EscapeAttr(h.Keyword) + `">` + EscapeText(h.Keyword) + "</span> ")
	}
	if h.Priority != "" {
		e.write(`<span class="priority">[` + EscapeText(h.Priority) + "]</span> ")
	}
	walkSpans(h.Title, func(ev Event) bool {
		e.render(ev)
		return e.err == nil
	})
	if len(h.Tags) > 0 {
		e.write(` <span class="tags">`)
		for i, tag := range h.Tags {
			if i > 0 {
				e.write("&nbsp;")
			}
			e.write(`<span class="tag">` + EscapeText(tag) + "</span>")
		}
		e.write("</span>")
	}
	e.write("</" + heading + ">\n")
}

func (e *HTMLExporter) listItem(item *ListItem) {
	if item.Tag != nil {
		e.write("<" + e.tags.Term.open() + ">")
		walkSpans(item.Tag, func(ev Event) bool {
			e.render(ev)
			return e.err == nil
		})
		e.write("</" + e.tags.Term.name() + ">")
		e.open(e.tags.Description, "", "")
	} else {
		attrs := ""
		if item.Counter != "" {
			attrs = ` value="` + EscapeAttr(item.Counter) + `"`
		}
		e.open(e.tags.Item, "", attrs)
	}
	switch item.Checkbox {
	case CheckboxOff:
		e.write("<code>[&nbsp;]</code> ")
	case CheckboxOn:
		e.write("<code>[X]</code> ")
	case CheckboxTrans:
		e.write("<code>[-]</code> ")
	}
}

func (e *HTMLExporter) block(b *Block) {
	switch b.Kind {
	case BlockComment:
		e.skip = 1
	case BlockExport:
		if !strings.EqualFold(b.Language, "html") {
			e.skip = 1
			return
		}
		e.rawHTML = true
		e.pushCloser("")
	case BlockSrc:
		class := ""
		if b.Language != "" {
			class = "src-" + b.Language
		}
		e.open(e.tags.Src, class, "")
	case BlockExample:
		e.open(e.tags.Example, "", "")
	case BlockQuote:
		e.open(e.tags.Quote, "", "")
	case BlockCenter:
		e.open(e.tags.Center, "", "")
	case BlockVerse:
		e.verse++
		e.open(e.tags.Verse, "", "")
	default:
		e.open(e.tags.Special, strings.ToLower(b.Name), "")
	}
}

func (e *HTMLExporter) inlineStart(sp *Span) {
	switch sp.Kind {
	case InlineBold:
		e.open(e.tags.Bold, "", "")
	case InlineItalic:
		e.open(e.tags.Italic, "", "")
	case InlineUnderline:
		e.open(e.tags.Underline, "", "")
	case InlineStrikethrough:
		e.open(e.tags.Strikethrough, "", "")
	case InlineSubscript:
		e.open(e.tags.Subscript, "", "")
	case InlineSuperscript:
		e.open(e.tags.Superscript, "", "")
	case InlineLink:
		e.open(e.tags.Link, "", ` href="`+EscapeAttr(linkHref(sp.Link))+`"`)
	default:
		e.pushCloser("")
	}
}

func (e *HTMLExporter) inline(sp *Span) {
	switch sp.Kind {
	case InlineVerbatim:
		e.wrap(e.tags.Verbatim, EscapeText(sp.Text))
	case InlineCode:
		e.wrap(e.tags.Code, EscapeText(sp.Text))
	case InlineTimestamp:
		e.wrap(e.tags.Timestamp, EscapeText(sp.Text))
	case InlineEntity:
		e.write(sp.Entity.HTML)
	case InlineMacro:
		if tmpl, ok := e.cfg.macros[sp.Macro.Name]; ok {
			e.write(EscapeText(expandMacro(tmpl, sp.Macro.Args)))
		}
	case InlineSnippet:
		if strings.EqualFold(sp.Snippet.Backend, "html") {
			e.write(sp.Snippet.Value)
		}
	case InlineLineBreak:
		e.write("<" + e.tags.LineBreak.open() + ">")
	case InlineTarget:
		e.write(`<a id="` + EscapeAttr(sp.Text) + `"></a>`)
	case InlineFootnoteReference:
		e.write(`<sup><a href="#fn.` + EscapeAttr(sp.Text) + `">` + EscapeText(sp.Text) + "</a></sup>")
	case InlineLink:
		href := linkHref(sp.Link)
		if sp.Link.IsImage() {
			e.write("<" + e.tags.Image.open() + ` src="` + EscapeAttr(href) + `" alt="` +
				EscapeAttr(path.Base(sp.Link.Path)) + `">`)
			return
		}
		e.write("<" + e.tags.Link.open() + ` href="` + EscapeAttr(href) + `">` + EscapeText(sp.Text) +
			"</" + e.tags.Link.name() + ">")
	default:
		e.write(EscapeText(sp.Text))
	}
}

func (e *HTMLExporter) keyword(k *Keyword) {
	switch strings.ToUpper(k.Key) {
	case "TITLE":
		if e.title == "" {
			e.title = k.Value
		}
	case "HTML":
		e.write(k.Value + "\n")
	}
}

func linkHref(l *Link) string {
	switch l.Type {
	case "file":
		return l.Path
	case "custom-id":
		return "#" + l.Path
	case "headline", "fuzzy":
		return "#" + l.Path
	}
	return l.Target
}

// expandMacro substitutes $1..$9 in tmpl.
func expandMacro(tmpl string, args []string) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '$' && i+1 < len(tmpl) && tmpl[i+1] >= '1' && tmpl[i+1] <= '9' {
			n := int(tmpl[i+1] - '1')
			if n < len(args) {
				b.WriteString(args[n])
			}
			i++
			continue
		}
		b.WriteByte(tmpl[i])
	}
	return b.String()
}

func (t HTMLTag) name() string {
	return t.Atom.String()
}

func (t HTMLTag) open() string {
	if t.Class == "" {
		return t.Atom.String()
	}
	return t.Atom.String() + ` class="` + EscapeAttr(t.Class) + `"`
}

// open writes the start tag of t with an extra class and raw attributes and
// pushes its closing tag.
func (e *HTMLExporter) open(t HTMLTag, class, attrs string) {
	classes := strings.TrimSpace(t.Class + " " + class)
	tag := t.name()
	if classes != "" {
		tag += ` class="` + EscapeAttr(classes) + `"`
	}
	e.write("<" + tag + attrs + ">")
	e.pushCloser("</" + t.name() + ">")
}

func (e *HTMLExporter) wrap(t HTMLTag, body string) {
	e.write("<" + t.open() + ">" + body + "</" + t.name() + ">")
}

func (e *HTMLExporter) pushCloser(s string) {
	e.closers = append(e.closers, s)
}

func (e *HTMLExporter) popCloser() string {
	if len(e.closers) == 0 {
		return ""
	}
	s := e.closers[len(e.closers)-1]
	e.closers = e.closers[:len(e.closers)-1]
	return s
}

func (e *HTMLExporter) prologue() {
	if e.started {
		return
	}
	e.started = true
	if !e.cfg.standalone {
		return
	}
	title := EscapeText(e.title)
	e.emit("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>" + title + "</title>\n</head>\n<body>\n")
	if title != "" {
		e.emit(`<h1 class="title">` + title + "</h1>\n")
	}
}

func (e *HTMLExporter) write(s string) {
	if s == "" || e.err != nil {
		return
	}
	e.prologue()
	e.emit(s)
}

func (e *HTMLExporter) emit(s string) {
	if e.err != nil {
		return
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = fmt.Errorf("render: %w", err)
	}
}
