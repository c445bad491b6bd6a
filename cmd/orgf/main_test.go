package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestReadInputsFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.org")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	logger := zerolog.Nop()
	buf, err := readInputs(context.Background(), []string{path}, nil, logger)
	if err != nil {
		t.Fatalf("readInputs file: %v", err)
	}
	if string(buf) != "hello\n" {
		t.Fatalf("unexpected file content: %q", string(buf))
	}

	buf, err = readInputs(context.Background(), []string{"file://" + path}, nil, logger)
	if err != nil {
		t.Fatalf("readInputs file URL: %v", err)
	}
	if string(buf) != "hello\n" {
		t.Fatalf("unexpected file URL content: %q", string(buf))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("remote\n"))
	}))
	defer srv.Close()
	buf, err = readInputs(context.Background(), []string{srv.URL}, nil, logger)
	if err != nil {
		t.Fatalf("readInputs http: %v", err)
	}
	if string(buf) != "remote\n" {
		t.Fatalf("unexpected http content: %q", string(buf))
	}
}

func TestReadInputsConcatenates(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.org")
	second := filepath.Join(dir, "b.org")
	if err := os.WriteFile(first, []byte("* One"), 0o644); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := os.WriteFile(second, []byte("* Two\n"), 0o644); err != nil {
		t.Fatalf("write second: %v", err)
	}
	buf, err := readInputs(context.Background(), []string{first, second}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("readInputs concat: %v", err)
	}
	if string(buf) != "* One\n* Two\n" {
		t.Fatalf("unexpected concatenated content: %q", string(buf))
	}
}

func TestReadInputsStdin(t *testing.T) {
	buf, err := readInputs(context.Background(), nil, strings.NewReader("from stdin"), zerolog.Nop())
	if err != nil {
		t.Fatalf("readInputs stdin: %v", err)
	}
	if string(buf) != "from stdin" {
		t.Fatalf("unexpected stdin content: %q", string(buf))
	}
	if _, err := readInputs(context.Background(), []string{"  "}, nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for empty argument")
	}
}

func TestResolveOSC8(t *testing.T) {
	cases := map[string]bool{
		"on":  true,
		"off": false,
		"1":   true,
		"0":   false,
	}
	for input, want := range cases {
		got, err := resolveOSC8(input)
		if err != nil {
			t.Fatalf("resolveOSC8(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("resolveOSC8(%q)=%v want %v", input, got, want)
		}
	}
	if _, err := resolveOSC8("nope"); err == nil {
		t.Fatalf("expected error for invalid osc8 value")
	}
}

func TestParseFormat(t *testing.T) {
	if _, events, err := parseFormat("events"); err != nil || !events {
		t.Fatalf("events format: events=%v err=%v", events, err)
	}
	if f, events, err := parseFormat("HTML"); err != nil || events || f != 0 {
		t.Fatalf("html format: f=%d events=%v err=%v", f, events, err)
	}
	if _, _, err := parseFormat("pdf"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestBoringThemeHasNoPrefixes(t *testing.T) {
	styles := boringTheme().Styles()
	if styles.Text.Prefix != "" || styles.Bold.Prefix != "" || styles.LinkText.Prefix != "" {
		t.Fatalf("expected empty prefixes")
	}
	for i, h := range styles.Heading {
		if h.Prefix != "" {
			t.Fatalf("expected empty heading %d prefix", i+1)
		}
	}
}

func TestRunHTML(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "html"}, strings.NewReader("* Title\nbody\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "<h1>Title</h1>") || !strings.Contains(stdout.String(), "<p>body</p>") {
		t.Fatalf("unexpected html: %q", stdout.String())
	}
}

func TestRunBoringANSI(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-b", "-w", "40", "--osc8", "off"}, strings.NewReader("some *bold* text\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if strings.Contains(stdout.String(), "\x1b[") {
		t.Fatalf("expected no escape sequences: %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "some bold text") {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestRunEventsLogsRecovery(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "events"}, strings.NewReader("#+BEGIN_QUOTE\ntext\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "SectionStart\n  GreaterBlockStart quote\n") {
		t.Fatalf("unexpected events:\n%s", out)
	}
	if !strings.Contains(stderr.String(), "implicitly closed") {
		t.Fatalf("expected recovery warning, got %q", stderr.String())
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "doc.html")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", "html", "--standalone", "-o", path}, strings.NewReader("#+TITLE: Doc\ntext\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<title>Doc</title>") {
		t.Fatalf("unexpected document: %q", string(data))
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected empty stdout, got %q", stdout.String())
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--theme", "nope"}, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Fatalf("unknown theme exit %d", code)
	}
	if code := run([]string{"--format", "pdf"}, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Fatalf("unknown format exit %d", code)
	}
	stdout.Reset()
	if code := run([]string{"--list-themes"}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("list themes exit %d", code)
	}
	if !strings.Contains(stdout.String(), "plain\n") {
		t.Fatalf("expected plain theme listed: %q", stdout.String())
	}
}

func TestDumpEvents(t *testing.T) {
	var out bytes.Buffer
	src := []byte("* TODO [#A] Plan :work:\n#+BEGIN_SRC go\nx := 1\n#+END_SRC\n")
	if err := dumpEvents(&out, src, nil); err != nil {
		t.Fatalf("dumpEvents: %v", err)
	}
	want := strings.Join([]string{
		`HeadlineStart 1 TODO [#A] "Plan" :work:`,
		`  SectionStart`,
		`    GreaterBlockStart src go`,
		`      Text "x := 1"`,
		`    GreaterBlockEnd src go`,
		`  SectionEnd`,
		`HeadlineEnd 1 TODO [#A] "Plan" :work:`,
	}, "\n") + "\n"
	if out.String() != want {
		t.Fatalf("unexpected dump\n got:\n%s\nwant:\n%s", out.String(), want)
	}
}
