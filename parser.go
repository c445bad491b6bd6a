package orgf

import (
	"fmt"
	"iter"
	"strings"
)

type ctxKind uint8

const (
	ctxHeadline ctxKind = iota
	ctxSection
	ctxParagraph
	ctxList
	ctxItem
	ctxTable
	ctxBlock
	ctxDrawer
	ctxFixedWidth
)

// closesOnBlank reports whether a blank line ends the context. Blocks,
// drawers, sections and headlines have their own terminators.
func (k ctxKind) closesOnBlank() bool {
	switch k {
	case ctxParagraph, ctxTable, ctxFixedWidth, ctxItem, ctxList:
		return true
	}
	return false
}

// frame is one entry of the open-context stack. start is the event that
// opened it; the matching end event reuses its payload.
type frame struct {
	kind   ctxKind
	level  int
	indent int
	raw    bool
	start  Event
	lines  []string
}

// Parser produces the event stream of one buffer. Events are produced on
// demand: each refill of the internal queue consumes exactly one line.
// A Parser is single-use and not safe for concurrent use.
type Parser struct {
	sc       scanner
	stack    []frame
	queue    []Event
	head     int
	done     bool
	keywords todoKeywords
	recovery RecoveryHandler
}

// NewParser validates src and returns a parser positioned before the first
// event. src must not be modified while the parser is in use.
func NewParser(src []byte, opts ...ParseOption) (*Parser, error) {
	if err := ValidateInput(src); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	var cfg parseConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	p := &Parser{
		sc:       newScanner(string(trimBOM(src))),
		keywords: defaultTodoKeywords(),
		recovery: cfg.recovery,
	}
	if cfg.todo != nil || cfg.done != nil {
		p.keywords.todo, p.keywords.done = cfg.todo, cfg.done
	}
	return p, nil
}

// Parse returns every event of src.
func Parse(src []byte, opts ...ParseOption) ([]Event, error) {
	p, err := NewParser(src, opts...)
	if err != nil {
		return nil, err
	}
	var events []Event
	for ev := range p.All() {
		events = append(events, ev)
	}
	return events, nil
}

// Next returns the next event. It returns false once the stream is exhausted.
func (p *Parser) Next() (Event, bool) {
	for p.head == len(p.queue) {
		if p.done {
			return Event{}, false
		}
		p.queue = p.queue[:0]
		p.head = 0
		p.step()
	}
	ev := p.queue[p.head]
	p.queue[p.head] = Event{}
	p.head++
	return ev, true
}

// All adapts the parser to a range-over-func sequence. Breaking out of the
// loop leaves the parser where it stopped.
func (p *Parser) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			ev, ok := p.Next()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

func (p *Parser) step() {
	ln, ok := p.sc.next()
	if !ok {
		for len(p.stack) > 0 {
			p.popImplicit(0)
		}
		p.done = true
		return
	}
	p.handle(ln)
}

func (p *Parser) handle(ln line) {
	switch ln.kind {
	case lineRaw:
		c := p.top()
		c.lines = append(c.lines, ln.text)
		return
	case lineBlank:
		for len(p.stack) > 0 && p.top().kind.closesOnBlank() {
			p.pop()
		}
		return
	case lineHeadline:
		p.headline(ln)
		return
	}
	if c := p.top(); c != nil && c.kind == ctxDrawer && c.start.Drawer.IsProperties() && ln.kind != lineDrawerEnd {
		if prop, ok := parseProperty(strings.TrimLeft(ln.raw, " \t")); ok {
			p.emit(Event{Kind: EventNodeProperty, Property: prop})
			return
		}
	}
	switch ln.kind {
	case lineText, linePlanning:
		p.text(ln)
	case lineListItem:
		p.listItem(ln)
	case lineTableRow:
		p.tableRow(ln)
	case lineFixedWidth:
		p.fixedWidth(ln)
	case lineBlockBegin, lineDynamicBegin:
		p.openBlock(ln)
	case lineBlockEnd, lineDynamicEnd:
		p.closeBlock(ln)
	case lineDrawerBegin:
		p.openDrawer(ln)
	case lineDrawerEnd:
		p.closeDrawer(ln)
	default:
		p.leaf(ln)
	}
}

func (p *Parser) headline(ln line) {
	for len(p.stack) > 0 {
		c := p.top()
		if (c.kind == ctxHeadline || c.kind == ctxSection) && c.level > 0 && c.level < ln.level {
			break
		}
		p.popImplicit(ln.num)
	}
	if c := p.top(); c != nil && c.kind == ctxHeadline {
		p.openSection()
	}
	h := parseHeadline(ln.level, ln.text, &p.keywords)
	if next, ok := p.sc.peek(); ok && next.kind == linePlanning {
		p.sc.next()
		h.Planning = parsePlanning(next.text)
	}
	p.push(frame{kind: ctxHeadline, level: ln.level}, Event{Kind: EventHeadlineStart, Headline: h})
}

func (p *Parser) openSection() {
	var owner *Headline
	level := 0
	if c := p.top(); c != nil && c.kind == ctxHeadline {
		owner, level = c.start.Headline, c.level
	}
	p.push(frame{kind: ctxSection, level: level}, Event{Kind: EventSectionStart, Headline: owner})
}

// settle closes the contexts that cannot hold an element starting at
// indent and makes sure a section is open.
func (p *Parser) settle(indent int) {
loop:
	for len(p.stack) > 0 {
		c := p.top()
		switch c.kind {
		case ctxParagraph, ctxTable, ctxFixedWidth, ctxList:
		case ctxItem:
			if indent > c.indent {
				break loop
			}
		default:
			break loop
		}
		p.pop()
	}
	if c := p.top(); c == nil || c.kind == ctxHeadline {
		p.openSection()
	}
}

// continues reports whether a line at indent extends the open context of
// the given kind rather than starting a new element.
func (p *Parser) continues(kind ctxKind, indent int) bool {
	n := len(p.stack)
	if n == 0 || p.stack[n-1].kind != kind {
		return false
	}
	if n >= 2 && p.stack[n-2].kind == ctxItem {
		return indent > p.stack[n-2].indent
	}
	return true
}

func (p *Parser) text(ln line) {
	if p.continues(ctxParagraph, ln.indent) {
		c := p.top()
		c.lines = append(c.lines, ln.text)
		return
	}
	p.settle(ln.indent)
	p.push(frame{kind: ctxParagraph, lines: []string{ln.text}}, Event{Kind: EventParagraphStart})
}

func (p *Parser) fixedWidth(ln line) {
	if p.continues(ctxFixedWidth, ln.indent) {
		c := p.top()
		c.lines = append(c.lines, ln.text)
		return
	}
	p.settle(ln.indent)
	p.push(frame{kind: ctxFixedWidth, lines: []string{ln.text}}, Event{})
}

func (p *Parser) tableRow(ln line) {
	if !p.continues(ctxTable, ln.indent) {
		p.settle(ln.indent)
		p.push(frame{kind: ctxTable}, Event{Kind: EventTableStart})
	}
	row := parseTableRow(ln.text)
	p.emit(Event{Kind: EventTableRowStart, Row: row})
	for i := range row.Cells {
		cell := &row.Cells[i]
		p.emit(Event{Kind: EventTableCellStart, Cell: cell})
		walkSpans(cell.Content, p.yield)
		p.emit(Event{Kind: EventTableCellEnd, Cell: cell})
	}
	p.emit(Event{Kind: EventTableRowEnd, Row: row})
}

func parseTableRow(t string) *TableRow {
	t = strings.TrimRight(t, " \t")
	if strings.HasPrefix(t, "|-") {
		return &TableRow{Separator: true}
	}
	body := t[1:]
	if body == "" {
		return &TableRow{}
	}
	body = strings.TrimSuffix(body, "|")
	parts := strings.Split(body, "|")
	row := &TableRow{Cells: make([]TableCell, len(parts))}
	for i, part := range parts {
		raw := strings.TrimSpace(part)
		row.Cells[i] = TableCell{Raw: raw, Content: ResolveInline(raw)}
	}
	return row
}

func (p *Parser) listItem(ln line) {
loop:
	for len(p.stack) > 0 {
		c := p.top()
		switch c.kind {
		case ctxParagraph, ctxTable, ctxFixedWidth:
		case ctxItem:
			if ln.indent > c.indent {
				break loop
			}
		case ctxList:
			if c.indent <= ln.indent {
				break loop
			}
		default:
			break loop
		}
		p.pop()
	}
	if c := p.top(); c == nil || c.kind != ctxList {
		if c == nil || c.kind != ctxItem {
			p.settle(ln.indent)
		}
		list := &List{Kind: ListUnordered, Indent: ln.indent}
		switch {
		case ln.ordered:
			list.Kind = ListOrdered
		case ln.hasTag:
			list.Kind = ListDescriptive
		}
		p.push(frame{kind: ctxList, indent: ln.indent}, Event{Kind: EventListStart, List: list})
	}
	item := &ListItem{Bullet: ln.bullet, Indent: ln.indent, Counter: ln.counter, Checkbox: ln.checkbox}
	if ln.hasTag {
		item.Tag = ResolveInline(ln.tag)
	}
	p.push(frame{kind: ctxItem, indent: ln.indent}, Event{Kind: EventListItemStart, Item: item})
	if ln.text != "" {
		p.push(frame{kind: ctxParagraph, lines: []string{ln.text}}, Event{Kind: EventParagraphStart})
	}
}

func (p *Parser) openBlock(ln line) {
	p.settle(ln.indent)
	kind := blockKindFor(ln.name)
	if ln.kind == lineDynamicBegin {
		kind = BlockDynamic
	}
	b := &Block{Kind: kind, Name: ln.name, Parameters: ln.value}
	if kind == BlockSrc || kind == BlockExport {
		b.Language, _ = splitField(ln.value)
	}
	p.push(frame{kind: ctxBlock, raw: kind.Verbatim()}, Event{Kind: EventGreaterBlockStart, Block: b})
}

func (p *Parser) closeBlock(ln line) {
	idx := p.find(func(c *frame) bool {
		if c.kind != ctxBlock {
			return false
		}
		if ln.kind == lineDynamicEnd {
			return c.start.Block.Kind == BlockDynamic
		}
		return c.start.Block.Kind != BlockDynamic && strings.EqualFold(c.start.Block.Name, ln.name)
	})
	if idx < 0 {
		p.text(ln)
		return
	}
	p.closeTo(idx, ln.num)
}

// openDrawer starts a drawer. Drawers do not nest: inside an open drawer the
// line is text.
func (p *Parser) openDrawer(ln line) {
	if p.find(func(c *frame) bool { return c.kind == ctxDrawer }) >= 0 {
		p.text(ln)
		return
	}
	p.settle(ln.indent)
	p.push(frame{kind: ctxDrawer}, Event{Kind: EventDrawerStart, Drawer: &Drawer{Name: ln.name}})
}

func (p *Parser) closeDrawer(ln line) {
	idx := p.find(func(c *frame) bool { return c.kind == ctxDrawer })
	if idx < 0 {
		p.text(ln)
		return
	}
	p.closeTo(idx, ln.num)
}

func (p *Parser) leaf(ln line) {
	p.settle(ln.indent)
	switch ln.kind {
	case lineComment:
		p.emit(Event{Kind: EventComment, Text: ln.text})
	case lineKeyword:
		if isTodoKeyword(ln.name) {
			p.keywords.addSequence(ln.value)
		}
		p.emit(Event{Kind: EventKeyword, Keyword: &Keyword{Key: ln.name, Value: ln.value}})
	case lineRule:
		p.emit(Event{Kind: EventHorizontalRule})
	case lineClock:
		p.emit(Event{Kind: EventClock, Clock: parseClock(ln.text)})
	}
}

// find returns the stack index of the innermost context matching fn. The
// search does not cross a section or headline.
func (p *Parser) find(fn func(*frame) bool) int {
	for i := len(p.stack) - 1; i >= 0; i-- {
		c := &p.stack[i]
		if c.kind == ctxSection || c.kind == ctxHeadline {
			return -1
		}
		if fn(c) {
			return i
		}
	}
	return -1
}

// closeTo force-closes every context above idx, innermost first, then
// closes idx itself.
func (p *Parser) closeTo(idx, num int) {
	for len(p.stack)-1 > idx {
		p.popImplicit(num)
	}
	p.pop()
}

func (p *Parser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return &p.stack[len(p.stack)-1]
}

func (p *Parser) push(c frame, start Event) {
	c.start = start
	p.stack = append(p.stack, c)
	if start.Kind != eventInvalid {
		p.emit(start)
	}
}

func (p *Parser) pop() {
	c := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	switch c.kind {
	case ctxParagraph:
		walkSpans(ResolveInline(strings.Join(c.lines, "\n")), p.yield)
	case ctxFixedWidth:
		p.emit(Event{Kind: EventFixedWidth, Text: strings.Join(c.lines, "\n")})
		return
	case ctxBlock:
		if c.raw && len(c.lines) > 0 {
			p.emit(Event{Kind: EventText, Text: strings.Join(c.lines, "\n")})
		}
	}
	end := c.start
	end.Kind = c.start.Kind + 1
	p.emit(end)
}

// popImplicit closes the innermost context on behalf of a later line and
// reports blocks and drawers that lacked their end delimiter.
func (p *Parser) popImplicit(num int) {
	c := p.top()
	if p.recovery != nil {
		switch c.kind {
		case ctxBlock:
			p.recovery(Recovery{Line: num, Construct: "block", Name: c.start.Block.Name})
		case ctxDrawer:
			p.recovery(Recovery{Line: num, Construct: "drawer", Name: c.start.Drawer.Name})
		}
	}
	p.pop()
}

func (p *Parser) emit(ev Event) {
	p.queue = append(p.queue, ev)
}

func (p *Parser) yield(ev Event) bool {
	p.queue = append(p.queue, ev)
	return true
}
