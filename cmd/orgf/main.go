package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/orgf"
	"pkt.systems/version"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
	fetchTimeout     = 30 * time.Second
)

func init() {
	version.SetDefaultModule("pkt.systems/orgf")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	format     string
	themeName  string
	width      int
	osc8       string
	listThemes bool
	outPath    string
	boring     bool
	standalone bool
	title      string
	drawers    bool
	softWrap   bool
	verbose    bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	flags := pflag.NewFlagSet("orgf", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.format, "format", "f", "ansi", "Output format: ansi|html|events")
	flags.StringVarP(&opts.themeName, "theme", "t", defaultThemeName, "Theme name")
	flags.IntVarP(&opts.width, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&opts.osc8, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.BoolVar(&opts.listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&opts.boring, "boring", "b", false, "Generate terminal output without ANSI styling")
	flags.BoolVar(&opts.standalone, "standalone", false, "Wrap HTML output in a complete document")
	flags.StringVar(&opts.title, "title", "", "Document title for --standalone (defaults to #+TITLE)")
	flags.BoolVar(&opts.drawers, "drawers", false, "Include drawer contents")
	flags.BoolVar(&opts.softWrap, "soft-wrap", false, "Break words longer than the output width")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log inputs and structural recoveries to stderr")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: orgf [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nInputs are files, file:// or http(s):// URLs. If none is given, Org text is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if opts.listThemes {
		printThemes(stdout)
		return 0
	}

	logger := newLogger(stderr, opts.verbose)

	format, events, err := parseFormat(opts.format)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --format %q: %v\n", opts.format, err)
		return 2
	}
	theme, ok := orgf.ThemeByName(opts.themeName)
	if !ok {
		fmt.Fprintf(stderr, "unknown theme %q\n\n", opts.themeName)
		printThemes(stderr)
		return 2
	}
	if opts.boring {
		theme = boringTheme()
	}
	osc8, err := resolveOSC8(opts.osc8)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --osc8 %q: %v\n", opts.osc8, err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	src, err := readInputs(ctx, flags.Args(), stdin, logger)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}

	writer, closeOut, err := resolveOutput(opts.outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	parseOpts := []orgf.ParseOption{orgf.WithRecoveryHandler(recoveryLogger(logger))}
	if events {
		if err := dumpEvents(writer, src, parseOpts); err != nil {
			fmt.Fprintf(stderr, "events: %v\n", err)
			return 1
		}
		return 0
	}

	renderOpts := []orgf.RenderOption{
		orgf.WithOSC8(osc8),
		orgf.WithDrawers(opts.drawers),
		orgf.WithSoftWrap(opts.softWrap),
		orgf.WithParseOptions(parseOpts...),
	}
	if opts.standalone {
		renderOpts = append(renderOpts, orgf.WithStandalone(opts.title))
	}
	width := resolveWidth(opts.width)
	logger.Debug().Str("format", opts.format).Int("width", width).Str("theme", theme.Name()).Msg("render")
	if err := orgf.Render(orgf.RenderRequest{
		Source:  src,
		Writer:  writer,
		Format:  format,
		Width:   width,
		Theme:   theme,
		Options: renderOpts,
	}); err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w), TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func recoveryLogger(logger zerolog.Logger) orgf.RecoveryHandler {
	return func(r orgf.Recovery) {
		ev := logger.Warn().Str("construct", r.Construct).Str("name", r.Name)
		if r.Line > 0 {
			ev = ev.Int("line", r.Line)
		} else {
			ev = ev.Bool("eof", true)
		}
		ev.Msg("implicitly closed")
	}
}

func parseFormat(value string) (orgf.Format, bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "ansi", "term", "terminal":
		return orgf.FormatANSI, false, nil
	case "html":
		return orgf.FormatHTML, false, nil
	case "events":
		return 0, true, nil
	default:
		return 0, false, fmt.Errorf("expected ansi|html|events")
	}
}

func printThemes(w io.Writer) {
	for _, name := range orgf.AvailableThemes() {
		fmt.Fprintln(w, name)
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return orgf.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

func boringTheme() orgf.Theme {
	return orgf.NewTheme("boring", orgf.Styles{})
}

// readInputs concatenates every input into one buffer. Inputs that do not end
// in a newline get one so a headline in the next input starts a line.
func readInputs(ctx context.Context, args []string, stdin io.Reader, logger zerolog.Logger) ([]byte, error) {
	if len(args) == 0 {
		logger.Debug().Str("input", "stdin").Msg("read")
		return io.ReadAll(stdin)
	}
	var buf bytes.Buffer
	for _, raw := range args {
		data, err := readInput(ctx, raw, stdin)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("input", raw).Int("bytes", len(data)).Msg("read")
		buf.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

func readInput(ctx context.Context, raw string, stdin io.Reader) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty input argument")
	}
	if raw == "-" {
		return io.ReadAll(stdin)
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return fetchURL(ctx, nil, raw)
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return os.ReadFile(normalizePath(path))
		}
	}
	return os.ReadFile(normalizePath(raw))
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
