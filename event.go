package orgf

// EventKind identifies an entry in the parse event stream.
type EventKind uint8

const (
	eventInvalid EventKind = iota
	// EventHeadlineStart opens a headline. Event.Headline carries the payload.
	EventHeadlineStart
	// EventHeadlineEnd closes the headline opened by the matching start.
	EventHeadlineEnd
	// EventSectionStart opens a section. Event.Headline is the owning headline,
	// or nil for the document preamble.
	EventSectionStart
	// EventSectionEnd closes a section.
	EventSectionEnd
	// EventParagraphStart opens a paragraph.
	EventParagraphStart
	// EventParagraphEnd closes a paragraph.
	EventParagraphEnd
	// EventListStart opens a plain list. Event.List carries the payload.
	EventListStart
	// EventListEnd closes a plain list.
	EventListEnd
	// EventListItemStart opens a list item. Event.Item carries the payload.
	EventListItemStart
	// EventListItemEnd closes a list item.
	EventListItemEnd
	// EventTableStart opens a table.
	EventTableStart
	// EventTableEnd closes a table.
	EventTableEnd
	// EventTableRowStart opens a table row. Event.Row carries the payload.
	EventTableRowStart
	// EventTableRowEnd closes a table row.
	EventTableRowEnd
	// EventTableCellStart opens a table cell. Event.Cell carries the payload.
	EventTableCellStart
	// EventTableCellEnd closes a table cell.
	EventTableCellEnd
	// EventGreaterBlockStart opens a greater block. Event.Block carries the payload.
	EventGreaterBlockStart
	// EventGreaterBlockEnd closes a greater block.
	EventGreaterBlockEnd
	// EventDrawerStart opens a drawer. Event.Drawer carries the payload.
	EventDrawerStart
	// EventDrawerEnd closes a drawer.
	EventDrawerEnd
	// EventInlineStart opens a container inline span (bold, link with
	// description, subscript, ...). Event.Span carries the payload.
	EventInlineStart
	// EventInlineEnd closes a container inline span.
	EventInlineEnd
	// EventInline is a leaf inline span (verbatim, code, timestamp, entity,
	// macro, ...). Event.Span carries the payload and Event.Text its literal text.
	EventInline
	// EventText is literal text. Inside verbatim blocks it is the whole body.
	EventText
	// EventComment is a comment line. Event.Text holds the text after "#".
	EventComment
	// EventHorizontalRule is a line of five or more dashes.
	EventHorizontalRule
	// EventKeyword is a "#+KEY: value" line. Event.Keyword carries the payload.
	EventKeyword
	// EventFixedWidth is a run of ": " lines. Event.Text holds the joined body.
	EventFixedWidth
	// EventClock is a CLOCK line. Event.Clock carries the payload.
	EventClock
	// EventNodeProperty is a property line inside a PROPERTIES drawer.
	EventNodeProperty
)

var eventKindNames = [...]string{
	eventInvalid:           "Invalid",
	EventHeadlineStart:     "HeadlineStart",
	EventHeadlineEnd:       "HeadlineEnd",
	EventSectionStart:      "SectionStart",
	EventSectionEnd:        "SectionEnd",
	EventParagraphStart:    "ParagraphStart",
	EventParagraphEnd:      "ParagraphEnd",
	EventListStart:         "ListStart",
	EventListEnd:           "ListEnd",
	EventListItemStart:     "ListItemStart",
	EventListItemEnd:       "ListItemEnd",
	EventTableStart:        "TableStart",
	EventTableEnd:          "TableEnd",
	EventTableRowStart:     "TableRowStart",
	EventTableRowEnd:       "TableRowEnd",
	EventTableCellStart:    "TableCellStart",
	EventTableCellEnd:      "TableCellEnd",
	EventGreaterBlockStart: "GreaterBlockStart",
	EventGreaterBlockEnd:   "GreaterBlockEnd",
	EventDrawerStart:       "DrawerStart",
	EventDrawerEnd:         "DrawerEnd",
	EventInlineStart:       "InlineStart",
	EventInlineEnd:         "InlineEnd",
	EventInline:            "Inline",
	EventText:              "Text",
	EventComment:           "Comment",
	EventHorizontalRule:    "HorizontalRule",
	EventKeyword:           "Keyword",
	EventFixedWidth:        "FixedWidth",
	EventClock:             "Clock",
	EventNodeProperty:      "NodeProperty",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "Invalid"
}

// IsStart reports whether k opens a construct that a later event closes.
func (k EventKind) IsStart() bool {
	switch k {
	case EventHeadlineStart, EventSectionStart, EventParagraphStart, EventListStart,
		EventListItemStart, EventTableStart, EventTableRowStart, EventTableCellStart,
		EventGreaterBlockStart, EventDrawerStart, EventInlineStart:
		return true
	}
	return false
}

// IsEnd reports whether k closes a construct.
func (k EventKind) IsEnd() bool {
	return k.Opener() != eventInvalid
}

// Opener returns the start kind matched by the end kind k, or the zero kind.
func (k EventKind) Opener() EventKind {
	switch k {
	case EventHeadlineEnd, EventSectionEnd, EventParagraphEnd, EventListEnd,
		EventListItemEnd, EventTableEnd, EventTableRowEnd, EventTableCellEnd,
		EventGreaterBlockEnd, EventDrawerEnd, EventInlineEnd:
		return k - 1
	}
	return eventInvalid
}

// Event is one entry of the parse stream. Only the payload field matching
// Kind is set; end events repeat the payload of their start event.
type Event struct {
	Kind     EventKind
	Text     string
	Span     *Span
	Headline *Headline
	Block    *Block
	Drawer   *Drawer
	List     *List
	Item     *ListItem
	Row      *TableRow
	Cell     *TableCell
	Keyword  *Keyword
	Property *NodeProperty
	Clock    *Clock
}

// Exporter consumes events. Flush is called once after the last event.
type Exporter interface {
	Handle(Event) error
	Flush() error
}
