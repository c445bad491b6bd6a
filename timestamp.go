package orgf

import (
	"fmt"
	"strings"
	"time"
)

// Date is one end of a timestamp.
type Date struct {
	Year    int
	Month   int
	Day     int
	Weekday string
	HasTime bool
	Hour    int
	Minute  int
}

// Time converts the date to a time.Time in loc (UTC when loc is nil).
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, 0, 0, loc)
}

func (d Date) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d-%02d-%02d", d.Year, d.Month, d.Day)
	if d.Weekday != "" {
		b.WriteByte(' ')
		b.WriteString(d.Weekday)
	}
	if d.HasTime {
		fmt.Fprintf(&b, " %02d:%02d", d.Hour, d.Minute)
	}
	return b.String()
}

// Interval is a repeater ("+1w", "++2d", ".+1m") or warning ("-3d", "--1d") cookie.
type Interval struct {
	Mark  string
	Value int
	Unit  byte
}

func (i Interval) String() string {
	return fmt.Sprintf("%s%d%c", i.Mark, i.Value, i.Unit)
}

// Timestamp is an active ("<...>") or inactive ("[...]") Org timestamp.
// End is set for time ranges ("10:00-11:00") and date ranges ("<a>--<b>").
// Diary timestamps keep their sexp in Diary and leave the dates zero.
type Timestamp struct {
	Raw      string
	Active   bool
	Start    Date
	End      *Date
	Repeater *Interval
	Warning  *Interval
	Diary    string
}

// IsRange reports whether the timestamp spans two points in time.
func (t *Timestamp) IsRange() bool {
	return t.End != nil
}

// ParseTimestamp parses a complete timestamp, including "--" date ranges.
func ParseTimestamp(s string) (*Timestamp, error) {
	ts, n, ok := scanTimestamp(s)
	if !ok || n != len(s) {
		return nil, fmt.Errorf("timestamp: cannot parse %q", s)
	}
	return ts, nil
}

// scanTimestamp parses a timestamp at the start of s and returns the number
// of bytes consumed.
func scanTimestamp(s string) (*Timestamp, int, bool) {
	if strings.HasPrefix(s, "<%%(") {
		end := strings.Index(s, ")>")
		if end < 0 || strings.IndexByte(s[:end], '\n') >= 0 {
			return nil, 0, false
		}
		return &Timestamp{Raw: s[:end+2], Active: true, Diary: s[3 : end+1]}, end + 2, true
	}
	ts, n, ok := scanSingleTimestamp(s)
	if !ok {
		return nil, 0, false
	}
	if strings.HasPrefix(s[n:], "--") && ts.End == nil {
		if other, m, ok := scanSingleTimestamp(s[n+2:]); ok && other.Active == ts.Active {
			end := other.Start
			ts.End = &end
			n += 2 + m
		}
	}
	ts.Raw = s[:n]
	return ts, n, true
}

func scanSingleTimestamp(s string) (*Timestamp, int, bool) {
	if len(s) < 12 {
		return nil, 0, false
	}
	var closer byte
	switch s[0] {
	case '<':
		closer = '>'
	case '[':
		closer = ']'
	default:
		return nil, 0, false
	}
	c := tsCursor{s: s, pos: 1}
	ts := &Timestamp{Active: s[0] == '<'}
	year, ok := c.digits(4, 4)
	if !ok || !c.eat('-') {
		return nil, 0, false
	}
	month, ok := c.digits(2, 2)
	if !ok || !c.eat('-') {
		return nil, 0, false
	}
	day, ok := c.digits(2, 2)
	if !ok || month < 1 || month > 12 || day < 1 || day > 31 {
		return nil, 0, false
	}
	ts.Start = Date{Year: year, Month: month, Day: day}
	for {
		c.spaces()
		if c.peek() == closer {
			c.pos++
			ts.Raw = s[:c.pos]
			return ts, c.pos, true
		}
		if c.done() || c.peek() == '\n' {
			return nil, 0, false
		}
		switch {
		case isDigit(c.peek()):
			if ts.Start.HasTime {
				return nil, 0, false
			}
			h, m, ok := c.clock()
			if !ok {
				return nil, 0, false
			}
			ts.Start.HasTime, ts.Start.Hour, ts.Start.Minute = true, h, m
			if c.eat('-') {
				h2, m2, ok := c.clock()
				if !ok {
					return nil, 0, false
				}
				end := ts.Start
				end.Hour, end.Minute = h2, m2
				ts.End = &end
			}
		case c.peek() == '+' || c.peek() == '.':
			iv, ok := c.interval("+", "++", ".+")
			if !ok || ts.Repeater != nil {
				return nil, 0, false
			}
			ts.Repeater = &iv
		case c.peek() == '-':
			iv, ok := c.interval("-", "--")
			if !ok || ts.Warning != nil {
				return nil, 0, false
			}
			ts.Warning = &iv
		default:
			start := c.pos
			for !c.done() && !isTimestampDelim(c.peek()) {
				c.pos++
			}
			if c.pos == start || ts.Start.Weekday != "" || ts.Start.HasTime {
				return nil, 0, false
			}
			ts.Start.Weekday = s[start:c.pos]
		}
	}
}

func isTimestampDelim(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '>', ']', '+', '-':
		return true
	}
	return isDigit(b)
}

type tsCursor struct {
	s   string
	pos int
}

func (c *tsCursor) done() bool { return c.pos >= len(c.s) }

func (c *tsCursor) peek() byte {
	if c.done() {
		return 0
	}
	return c.s[c.pos]
}

func (c *tsCursor) eat(b byte) bool {
	if c.peek() == b && !c.done() {
		c.pos++
		return true
	}
	return false
}

func (c *tsCursor) spaces() {
	for !c.done() && (c.s[c.pos] == ' ' || c.s[c.pos] == '\t') {
		c.pos++
	}
}

func (c *tsCursor) digits(minN, maxN int) (int, bool) {
	n, v := 0, 0
	for !c.done() && isDigit(c.s[c.pos]) && n < maxN {
		v = v*10 + int(c.s[c.pos]-'0')
		c.pos++
		n++
	}
	return v, n >= minN
}

func (c *tsCursor) clock() (int, int, bool) {
	h, ok := c.digits(1, 2)
	if !ok || !c.eat(':') {
		return 0, 0, false
	}
	m, ok := c.digits(2, 2)
	if !ok || h > 24 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

func (c *tsCursor) interval(marks ...string) (Interval, bool) {
	mark := ""
	for _, m := range marks {
		if strings.HasPrefix(c.s[c.pos:], m) && len(m) > len(mark) {
			mark = m
		}
	}
	if mark == "" {
		return Interval{}, false
	}
	c.pos += len(mark)
	v, ok := c.digits(1, 9)
	if !ok || c.done() {
		return Interval{}, false
	}
	switch u := c.peek(); u {
	case 'h', 'd', 'w', 'm', 'y':
		c.pos++
		return Interval{Mark: mark, Value: v, Unit: u}, true
	}
	return Interval{}, false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
