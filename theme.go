package orgf

import (
	"sort"
	"strings"

	"pkt.systems/orgf/internal/palette"
)

const ansiReset = palette.Reset

// Style describes a terminal style as an ANSI prefix sequence.
type Style struct {
	Prefix string
}

// Styles groups the semantic styles used by the terminal exporter.
type Styles struct {
	Text          Style
	Heading       [6]Style
	Bold          Style
	Italic        Style
	Underline     Style
	Strikethrough Style
	Verbatim      Style
	CodeInline    Style
	CodeBlock     Style
	Quote         Style
	ListMarker    Style
	LinkText      Style
	LinkURL       Style
	ThematicBreak Style
	Todo          Style
	Done          Style
	Priority      Style
	Tag           Style
	Timestamp     Style
	TableBorder   Style
	Meta          Style
}

// Theme provides named styles for terminal rendering.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func style(prefixes ...string) Style {
	var b strings.Builder
	for _, p := range prefixes {
		b.WriteString(p)
	}
	return Style{Prefix: b.String()}
}

func stylesFromPalette(p palette.Palette) Styles {
	return Styles{
		Text:          style(p.Text),
		Heading:       [6]Style{style(palette.Bold, p.H1), style(palette.Bold, p.H2), style(palette.Bold, p.H3), style(p.H4), style(p.H5), style(p.H6)},
		Bold:          style(palette.Bold, p.Strong),
		Italic:        style(palette.Italic, p.Emphasis),
		Underline:     style(palette.Underline, p.Text),
		Strikethrough: style(palette.Strike, p.Text),
		Verbatim:      style(p.CodeInline),
		CodeInline:    style(p.CodeInline),
		CodeBlock:     style(p.CodeBlock),
		Quote:         style(palette.Italic, p.Quote),
		ListMarker:    style(p.ListMarker),
		LinkText:      style(palette.Underline, p.LinkText),
		LinkURL:       style(p.LinkURL),
		ThematicBreak: style(p.ThematicBreak),
		Todo:          style(palette.Bold, p.Todo),
		Done:          style(palette.Bold, p.Done),
		Priority:      style(p.Priority),
		Tag:           style(p.Tag),
		Timestamp:     style(p.Timestamp),
		TableBorder:   style(p.TableBorder),
		Meta:          style(palette.Faint, p.Meta),
	}
}

var builtinThemes = map[string]Theme{
	"default":          theme{name: "default", styles: stylesFromPalette(palette.PaletteDefault)},
	"gruvbox":          theme{name: "gruvbox", styles: stylesFromPalette(palette.PaletteDoomGruvbox)},
	"gruvbox-light":    theme{name: "gruvbox-light", styles: stylesFromPalette(palette.PaletteGruvboxLight)},
	"dracula":          theme{name: "dracula", styles: stylesFromPalette(palette.PaletteDoomDracula)},
	"nord":             theme{name: "nord", styles: stylesFromPalette(palette.PaletteDoomNord)},
	"tokyo-night":      theme{name: "tokyo-night", styles: stylesFromPalette(palette.PaletteTokyoNight)},
	"catppuccin-mocha": theme{name: "catppuccin-mocha", styles: stylesFromPalette(palette.PaletteCatppuccinMocha)},
	"solarized-dark":   theme{name: "solarized-dark", styles: stylesFromPalette(palette.PaletteSolarizedDark)},
	"solarized-light":  theme{name: "solarized-light", styles: stylesFromPalette(palette.PaletteSolarizedLight)},
	"github-dark":      theme{name: "github-dark", styles: stylesFromPalette(palette.PaletteGithubDark)},
	"github-light":     theme{name: "github-light", styles: stylesFromPalette(palette.PaletteGithubLight)},
	"one-dark":         theme{name: "one-dark", styles: stylesFromPalette(palette.PaletteOneDark)},
	"rose-pine":        theme{name: "rose-pine", styles: stylesFromPalette(palette.PaletteRosePine)},
	"kanagawa":         theme{name: "kanagawa", styles: stylesFromPalette(palette.PaletteKanagawa)},
	"plain":            theme{name: "plain", styles: Styles{}},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}
