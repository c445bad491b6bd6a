package orgf

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"testing"
)

var ansiRegexp = regexp.MustCompile("\x1b\\[[0-9;]*[A-Za-z]")
var osc8Regexp = regexp.MustCompile("\x1b\\]8;;.*?\x1b\\\\")

func stripANSI(s string) string {
	s = ansiRegexp.ReplaceAllString(s, "")
	s = osc8Regexp.ReplaceAllString(s, "")
	return s
}

func readSample(t testing.TB) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/sample.org")
	if err != nil {
		t.Fatalf("read sample.org: %v", err)
	}
	return data
}

func renderANSI(t *testing.T, src []byte, width int, opts ...RenderOption) string {
	t.Helper()
	var out bytes.Buffer
	err := Render(RenderRequest{
		Source:  src,
		Writer:  &out,
		Format:  FormatANSI,
		Width:   width,
		Theme:   DefaultTheme(),
		Options: opts,
	})
	if err != nil {
		t.Fatalf("render ansi: %v", err)
	}
	return out.String()
}

func renderPlain(t *testing.T, src []byte, width int, opts ...RenderOption) string {
	t.Helper()
	plain, _ := ThemeByName("plain")
	var out bytes.Buffer
	err := Render(RenderRequest{
		Source:  src,
		Writer:  &out,
		Format:  FormatANSI,
		Width:   width,
		Theme:   plain,
		Options: opts,
	})
	if err != nil {
		t.Fatalf("render plain: %v", err)
	}
	return out.String()
}

func renderHTML(t *testing.T, src string, opts ...RenderOption) string {
	t.Helper()
	out, err := RenderHTML([]byte(src), opts...)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	return out
}

func parseEvents(t testing.TB, src string, opts ...ParseOption) []Event {
	t.Helper()
	events, err := Parse([]byte(src), opts...)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return events
}

// describe renders an event compactly for comparisons in tests.
func describe(ev Event) string {
	switch ev.Kind {
	case EventHeadlineStart, EventHeadlineEnd:
		return fmt.Sprintf("%s(%d %s)", ev.Kind, ev.Headline.Level, ev.Headline.RawTitle)
	case EventText, EventComment, EventFixedWidth:
		return fmt.Sprintf("%s(%s)", ev.Kind, ev.Text)
	case EventInlineStart, EventInlineEnd:
		return fmt.Sprintf("%s(%s)", ev.Kind, ev.Span.Kind)
	case EventInline:
		return fmt.Sprintf("%s(%s %s)", ev.Kind, ev.Span.Kind, ev.Text)
	case EventGreaterBlockStart, EventGreaterBlockEnd:
		return fmt.Sprintf("%s(%s)", ev.Kind, ev.Block.Kind)
	case EventDrawerStart, EventDrawerEnd:
		return fmt.Sprintf("%s(%s)", ev.Kind, ev.Drawer.Name)
	case EventListStart, EventListEnd:
		return fmt.Sprintf("%s(%s)", ev.Kind, ev.List.Kind)
	case EventKeyword:
		return fmt.Sprintf("%s(%s=%s)", ev.Kind, ev.Keyword.Key, ev.Keyword.Value)
	case EventNodeProperty:
		return fmt.Sprintf("%s(%s=%s)", ev.Kind, ev.Property.Key, ev.Property.Value)
	}
	return ev.Kind.String()
}

func describeAll(events []Event) string {
	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = describe(ev)
	}
	return strings.Join(lines, "\n")
}

// checkBalanced fails the test unless start and end events nest properly
// and the stack is empty at the end.
func checkBalanced(t *testing.T, events []Event) {
	t.Helper()
	var stack []EventKind
	for i, ev := range events {
		switch {
		case ev.Kind.IsStart():
			stack = append(stack, ev.Kind)
		case ev.Kind.IsEnd():
			if len(stack) == 0 {
				t.Fatalf("event %d: %s without open construct", i, ev.Kind)
			}
			top := stack[len(stack)-1]
			if top != ev.Kind.Opener() {
				t.Fatalf("event %d: %s closes %s", i, ev.Kind, top)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		t.Fatalf("unclosed constructs at end of stream: %v", stack)
	}
}

func expectEvents(t *testing.T, src string, want []string, opts ...ParseOption) {
	t.Helper()
	events := parseEvents(t, src, opts...)
	checkBalanced(t, events)
	got := describeAll(events)
	if exp := strings.Join(want, "\n"); got != exp {
		t.Fatalf("events mismatch for %q\n got:\n%s\nwant:\n%s", src, got, exp)
	}
}
