package orgf

import "strings"

// TodoType classifies a headline keyword.
type TodoType uint8

const (
	// TodoNone means the headline has no keyword.
	TodoNone TodoType = iota
	// TodoOpen is a keyword from the "todo" half of the keyword set.
	TodoOpen
	// TodoDone is a keyword from the "done" half of the keyword set.
	TodoDone
)

// Headline is the payload of HeadlineStart and HeadlineEnd.
type Headline struct {
	Level     int
	Keyword   string
	Todo      TodoType
	Priority  string
	Title     []Span
	RawTitle  string
	Tags      []string
	Commented bool
	Archived  bool
	Planning  *Planning
}

// HasTag reports whether the headline carries tag.
func (h *Headline) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Planning holds the timestamps of a planning line directly below a headline.
type Planning struct {
	Scheduled *Timestamp
	Deadline  *Timestamp
	Closed    *Timestamp
}

// ListKind is the flavour of a plain list.
type ListKind uint8

const (
	ListUnordered ListKind = iota
	ListOrdered
	ListDescriptive
)

func (k ListKind) String() string {
	switch k {
	case ListOrdered:
		return "ordered"
	case ListDescriptive:
		return "descriptive"
	default:
		return "unordered"
	}
}

// List is the payload of ListStart and ListEnd.
type List struct {
	Kind   ListKind
	Indent int
}

// CheckboxState is the state of a "[ ]" cookie on a list item.
type CheckboxState uint8

const (
	CheckboxNone CheckboxState = iota
	CheckboxOff
	CheckboxOn
	CheckboxTrans
)

// ListItem is the payload of ListItemStart and ListItemEnd.
type ListItem struct {
	Bullet   string
	Indent   int
	Counter  string
	Checkbox CheckboxState
	Tag      []Span
}

// TableRow is the payload of TableRowStart and TableRowEnd. Separator rows
// carry no cells.
type TableRow struct {
	Separator bool
	Cells     []TableCell
}

// TableCell is the payload of TableCellStart and TableCellEnd.
type TableCell struct {
	Raw     string
	Content []Span
}

// BlockKind classifies a greater block by its name.
type BlockKind uint8

const (
	BlockSpecial BlockKind = iota
	BlockQuote
	BlockCenter
	BlockVerse
	BlockSrc
	BlockExample
	BlockExport
	BlockComment
	BlockDynamic
)

var blockKindNames = [...]string{
	BlockSpecial: "special",
	BlockQuote:   "quote",
	BlockCenter:  "center",
	BlockVerse:   "verse",
	BlockSrc:     "src",
	BlockExample: "example",
	BlockExport:  "export",
	BlockComment: "comment",
	BlockDynamic: "dynamic",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "special"
}

// Verbatim reports whether the body of a block of this kind is passed through unparsed.
func (k BlockKind) Verbatim() bool {
	switch k {
	case BlockSrc, BlockExample, BlockExport, BlockComment:
		return true
	}
	return false
}

func blockKindFor(name string) BlockKind {
	switch strings.ToLower(name) {
	case "quote":
		return BlockQuote
	case "center":
		return BlockCenter
	case "verse":
		return BlockVerse
	case "src":
		return BlockSrc
	case "example":
		return BlockExample
	case "export":
		return BlockExport
	case "comment":
		return BlockComment
	}
	return BlockSpecial
}

// Block is the payload of GreaterBlockStart and GreaterBlockEnd. Name keeps
// the spelling from the source; Language is the first parameter of src
// blocks and the backend of export blocks.
type Block struct {
	Kind       BlockKind
	Name       string
	Language   string
	Parameters string
}

// Drawer is the payload of DrawerStart and DrawerEnd.
type Drawer struct {
	Name string
}

// IsProperties reports whether this is a PROPERTIES drawer.
func (d *Drawer) IsProperties() bool {
	return strings.EqualFold(d.Name, "PROPERTIES")
}

// Keyword is the payload of EventKeyword.
type Keyword struct {
	Key   string
	Value string
}

// NodeProperty is one ":KEY: value" line of a PROPERTIES drawer.
type NodeProperty struct {
	Key   string
	Value string
}

// Clock is the payload of EventClock. Start is nil for a bare "CLOCK:" line.
type Clock struct {
	Start    *Timestamp
	Duration string
}

// Running reports whether the clock has no end time yet.
func (c *Clock) Running() bool {
	return c.Start != nil && c.Start.End == nil
}
