package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pkt.systems/orgf"
)

// dumpEvents writes one line per event, indented by nesting depth.
func dumpEvents(w io.Writer, src []byte, opts []orgf.ParseOption) error {
	p, err := orgf.NewParser(src, opts...)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	depth := 0
	for ev := range p.All() {
		if ev.Kind.IsEnd() && depth > 0 {
			depth--
		}
		bw.WriteString(strings.Repeat("  ", depth))
		bw.WriteString(ev.Kind.String())
		if detail := eventDetail(ev); detail != "" {
			bw.WriteByte(' ')
			bw.WriteString(detail)
		}
		bw.WriteByte('\n')
		if ev.Kind.IsStart() {
			depth++
		}
	}
	return bw.Flush()
}

func eventDetail(ev orgf.Event) string {
	switch {
	case ev.Headline != nil && (ev.Kind == orgf.EventHeadlineStart || ev.Kind == orgf.EventHeadlineEnd):
		h := ev.Headline
		var b strings.Builder
		b.WriteString(strconv.Itoa(h.Level))
		if h.Keyword != "" {
			b.WriteString(" " + h.Keyword)
		}
		if h.Priority != "" {
			b.WriteString(" [#" + h.Priority + "]")
		}
		b.WriteString(" " + strconv.Quote(h.RawTitle))
		if len(h.Tags) > 0 {
			b.WriteString(" :" + strings.Join(h.Tags, ":") + ":")
		}
		return b.String()
	case ev.Span != nil:
		if ev.Kind == orgf.EventInline {
			return ev.Span.Kind.String() + " " + strconv.Quote(ev.Text)
		}
		return ev.Span.Kind.String()
	case ev.Block != nil:
		if ev.Block.Language != "" {
			return ev.Block.Kind.String() + " " + ev.Block.Language
		}
		if ev.Block.Kind == orgf.BlockSpecial || ev.Block.Kind == orgf.BlockDynamic {
			return ev.Block.Kind.String() + " " + ev.Block.Name
		}
		return ev.Block.Kind.String()
	case ev.Drawer != nil:
		return ev.Drawer.Name
	case ev.List != nil:
		return ev.List.Kind.String()
	case ev.Item != nil:
		return strconv.Quote(ev.Item.Bullet)
	case ev.Keyword != nil:
		return ev.Keyword.Key + "=" + strconv.Quote(ev.Keyword.Value)
	case ev.Property != nil:
		return ev.Property.Key + "=" + strconv.Quote(ev.Property.Value)
	case ev.Clock != nil && ev.Clock.Start != nil:
		return fmt.Sprintf("%s %s", ev.Clock.Start.Start, ev.Clock.Duration)
	case ev.Text != "":
		return strconv.Quote(ev.Text)
	}
	return ""
}
