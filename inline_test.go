package orgf

import (
	"fmt"
	"strings"
	"testing"
)

// spanString renders spans as Kind(children) for containers, Kind[text] for
// leaves and quoted strings for plain text.
func spanString(spans []Span) string {
	parts := make([]string, len(spans))
	for i := range spans {
		sp := &spans[i]
		switch {
		case sp.Kind == InlineText:
			parts[i] = fmt.Sprintf("%q", sp.Text)
		case len(sp.Children) > 0:
			parts[i] = sp.Kind.String() + "(" + spanString(sp.Children) + ")"
		default:
			parts[i] = sp.Kind.String() + "[" + sp.Text + "]"
		}
	}
	return strings.Join(parts, " ")
}

func TestResolveInline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just words", `"just words"`},
		{"inside word", "a*b*c", `"a*b*c"`},
		{"bold", "*bold*", `Bold("bold")`},
		{"surrounded", "x *b* y", `"x " Bold("b") " y"`},
		{"punctuation", "(*x*).", `"(" Bold("x") ")."`},
		{"italic", "/it/", `Italic("it")`},
		{"underline", "_under_", `Underline("under")`},
		{"strike", "+gone+", `Strikethrough("gone")`},
		{"verbatim literal", "=*x*=", `Verbatim[*x*]`},
		{"code", "~a < b~", `Code[a < b]`},
		{"nested", "*bold /it/*", `Bold("bold " Italic("it"))`},
		{"no same kind nesting", "*a *b* c*", `Bold("a *b") " c*"`},
		{"first closer wins", "/it *b/ c*", `Italic("it *b") " c*"`},
		{"depth limit", "*a /b _c +d+ c_ b/ a*", `Bold("a " Italic("b " Underline("c +d+ c") " b") " a")`},
		{"space after opener", "* not bold*", `"* not bold*"`},
		{"space before closer", "*not bold *", `"*not bold *"`},
		{"one newline", "*a\nb*", `Bold("a\nb")`},
		{"two newlines", "*a\nb\nc*", `"*a\nb\nc*"`},
		{"unicode", "*héllo* wörld", `Bold("héllo") " wörld"`},
		{"described link", "[[https://orgmode.org][Org *mode*]]", `Link("Org " Bold("mode"))`},
		{"plain link", "[[file:img.png]]", `Link[file:img.png]`},
		{"bare url", "see https://example.com/x.", `"see " Link[https://example.com/x] "."`},
		{"angle link", "<mailto:a@b.c>", `Link[mailto:a@b.c]`},
		{"timestamp", "at <2024-01-15 Mon 10:00>", `"at " Timestamp[<2024-01-15 Mon 10:00>]`},
		{"inactive timestamp", "[2024-01-15]", `Timestamp[[2024-01-15]]`},
		{"subscript", "H_2O", `"H" Subscript("2O")`},
		{"superscript braces", "x^{2}", `"x" Superscript("2")`},
		{"superscript", "mc^2", `"mc" Superscript("2")`},
		{"entity", `\alpha{}x`, `Entity[\alpha{}] "x"`},
		{"unknown entity", `\nosuch`, `"\\nosuch"`},
		{"line break", "a\\\\\nb", `"a" LineBreak[] "\nb"`},
		{"macro", "{{{kbd(C-x\\, C-s)}}}", `Macro[{{{kbd(C-x\, C-s)}}}]`},
		{"snippet", "@@html:<b>@@", `Snippet[<b>]`},
		{"cookies", "[2/3] [50%]", `StatisticsCookie[[2/3]] " " StatisticsCookie[[50%]]`},
		{"footnote", "x[fn:1]", `"x" FootnoteReference[1]`},
		{"target", "<<here>>", `Target[here]`},
		{"unclosed", "*open /also", `"*open /also"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := spanString(ResolveInline(tt.in)); got != tt.want {
				t.Fatalf("ResolveInline(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveInlinePayloads(t *testing.T) {
	t.Parallel()
	link := ResolveInline("[[https://orgmode.org][Org]]")[0].Link
	if link.Type != "https" || link.Target != "https://orgmode.org" {
		t.Fatalf("unexpected link %+v", link)
	}
	img := ResolveInline("[[file:img/cat.PNG]]")[0].Link
	if img.Type != "file" || img.Path != "img/cat.PNG" || !img.IsImage() {
		t.Fatalf("unexpected image link %+v", img)
	}
	for target, typ := range map[string]string{
		"#custom":  "custom-id",
		"*Heading": "headline",
		"./a.org":  "file",
		"Some":     "fuzzy",
	} {
		if l := ResolveInline("[[" + target + "]]")[0].Link; l.Type != typ {
			t.Fatalf("link %q: type %q, want %q", target, l.Type, typ)
		}
	}
	macro := ResolveInline("{{{kbd(C-x\\, C-s, two)}}}")[0].Macro
	if macro.Name != "kbd" || len(macro.Args) != 2 || macro.Args[0] != "C-x, C-s" || macro.Args[1] != "two" {
		t.Fatalf("unexpected macro %+v", macro)
	}
	snip := ResolveInline("@@latex:\\LaTeX@@")[0].Snippet
	if snip.Backend != "latex" || snip.Value != "\\LaTeX" {
		t.Fatalf("unexpected snippet %+v", snip)
	}
	ent := ResolveInline(`\rarr`)[0]
	if ent.PlainText() != "→" || ent.Entity.HTML != "&rarr;" {
		t.Fatalf("unexpected entity %+v", ent.Entity)
	}
}

func TestSpansText(t *testing.T) {
	t.Parallel()
	if got := SpansText(ResolveInline("*a* /b/ =c= \\alpha")); got != "a b c α" {
		t.Fatalf("unexpected plain text %q", got)
	}
}

func TestWalkSpans(t *testing.T) {
	t.Parallel()
	var got []string
	done := walkSpans(ResolveInline("a *b* ~c~"), func(ev Event) bool {
		got = append(got, describe(ev))
		return true
	})
	want := []string{"Text(a )", "InlineStart(Bold)", "Text(b)", "InlineEnd(Bold)", "Text( )", "Inline(Code c)"}
	if !done || strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("walkSpans = %v, want %v", got, want)
	}
	n := 0
	done = walkSpans(ResolveInline("a *b* c"), func(Event) bool {
		n++
		return n < 2
	})
	if done || n != 2 {
		t.Fatalf("expected walk to stop after 2 events, got %d (done=%v)", n, done)
	}
}

func TestLookupEntity(t *testing.T) {
	t.Parallel()
	if e, ok := LookupEntity("mdash"); !ok || e.UTF8 != "—" {
		t.Fatalf("unexpected mdash entity %+v %v", e, ok)
	}
	if _, ok := LookupEntity("nosuch"); ok {
		t.Fatalf("expected unknown entity to be rejected")
	}
}
