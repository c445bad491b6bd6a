// Package palette holds the colour palettes behind the built-in terminal themes.
package palette

import (
	"strconv"
	"strings"
)

// SGR attribute sequences.
const (
	Reset     = "\x1b[0m"
	Bold      = "\x1b[1m"
	Faint     = "\x1b[2m"
	Italic    = "\x1b[3m"
	Underline = "\x1b[4m"
	Strike    = "\x1b[9m"
)

// Palette is a set of foreground sequences, one per semantic role.
type Palette struct {
	Text          string
	H1            string
	H2            string
	H3            string
	H4            string
	H5            string
	H6            string
	Emphasis      string
	Strong        string
	CodeInline    string
	CodeBlock     string
	Quote         string
	ListMarker    string
	LinkText      string
	LinkURL       string
	ThematicBreak string
	Todo          string
	Done          string
	Priority      string
	Tag           string
	Timestamp     string
	TableBorder   string
	Meta          string
}

// FG returns the 24-bit foreground sequence for a "#rrggbb" colour. Malformed
// input yields an empty sequence.
func FG(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return ""
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ""
	}
	r, g, b := v>>16&0xff, v>>8&0xff, v&0xff
	return "\x1b[38;2;" + strconv.FormatUint(r, 10) + ";" + strconv.FormatUint(g, 10) + ";" + strconv.FormatUint(b, 10) + "m"
}

// ansi16 returns a basic 16-colour foreground sequence.
func ansi16(code int) string {
	return "\x1b[" + strconv.Itoa(code) + "m"
}

// PaletteDefault only uses the 16 standard colours so it follows the
// terminal's own scheme.
var PaletteDefault = Palette{
	H1:            ansi16(95),
	H2:            ansi16(94),
	H3:            ansi16(96),
	H4:            ansi16(92),
	H5:            ansi16(93),
	H6:            ansi16(37),
	CodeInline:    ansi16(33),
	CodeBlock:     ansi16(33),
	Quote:         ansi16(90),
	ListMarker:    ansi16(36),
	LinkText:      ansi16(34),
	LinkURL:       ansi16(90),
	ThematicBreak: ansi16(90),
	Todo:          ansi16(91),
	Done:          ansi16(32),
	Priority:      ansi16(93),
	Tag:           ansi16(35),
	Timestamp:     ansi16(36),
	TableBorder:   ansi16(90),
	Meta:          ansi16(90),
}

func truecolor(text, h1, h2, h3, h4, accent, code, muted, link, red, green, yellow, purple string) Palette {
	return Palette{
		Text:          FG(text),
		H1:            FG(h1),
		H2:            FG(h2),
		H3:            FG(h3),
		H4:            FG(h4),
		H5:            FG(accent),
		H6:            FG(muted),
		Emphasis:      FG(text),
		Strong:        FG(text),
		CodeInline:    FG(code),
		CodeBlock:     FG(code),
		Quote:         FG(muted),
		ListMarker:    FG(accent),
		LinkText:      FG(link),
		LinkURL:       FG(muted),
		ThematicBreak: FG(muted),
		Todo:          FG(red),
		Done:          FG(green),
		Priority:      FG(yellow),
		Tag:           FG(purple),
		Timestamp:     FG(accent),
		TableBorder:   FG(muted),
		Meta:          FG(muted),
	}
}

var (
	PaletteDoomGruvbox = truecolor("#ebdbb2", "#fb4934", "#fabd2f", "#b8bb26", "#83a598", "#8ec07c", "#fe8019",
		"#928374", "#83a598", "#fb4934", "#b8bb26", "#fabd2f", "#d3869b")
	PaletteGruvboxLight = truecolor("#3c3836", "#9d0006", "#b57614", "#79740e", "#076678", "#427b58", "#af3a03",
		"#7c6f64", "#076678", "#9d0006", "#79740e", "#b57614", "#8f3f71")
	PaletteDoomDracula = truecolor("#f8f8f2", "#ff79c6", "#bd93f9", "#8be9fd", "#50fa7b", "#8be9fd", "#f1fa8c",
		"#6272a4", "#8be9fd", "#ff5555", "#50fa7b", "#f1fa8c", "#bd93f9")
	PaletteDoomNord = truecolor("#d8dee9", "#88c0d0", "#81a1c1", "#8fbcbb", "#a3be8c", "#88c0d0", "#ebcb8b",
		"#4c566a", "#81a1c1", "#bf616a", "#a3be8c", "#ebcb8b", "#b48ead")
	PaletteTokyoNight = truecolor("#c0caf5", "#7aa2f7", "#bb9af7", "#7dcfff", "#9ece6a", "#2ac3de", "#e0af68",
		"#565f89", "#7aa2f7", "#f7768e", "#9ece6a", "#e0af68", "#bb9af7")
	PaletteCatppuccinMocha = truecolor("#cdd6f4", "#f38ba8", "#fab387", "#f9e2af", "#a6e3a1", "#94e2d5", "#fab387",
		"#6c7086", "#89b4fa", "#f38ba8", "#a6e3a1", "#f9e2af", "#cba6f7")
	PaletteSolarizedDark = truecolor("#93a1a1", "#cb4b16", "#b58900", "#859900", "#2aa198", "#268bd2", "#d33682",
		"#586e75", "#268bd2", "#dc322f", "#859900", "#b58900", "#6c71c4")
	PaletteSolarizedLight = truecolor("#586e75", "#cb4b16", "#b58900", "#859900", "#2aa198", "#268bd2", "#d33682",
		"#93a1a1", "#268bd2", "#dc322f", "#859900", "#b58900", "#6c71c4")
	PaletteGithubDark = truecolor("#c9d1d9", "#79c0ff", "#d2a8ff", "#7ee787", "#ffa657", "#79c0ff", "#a5d6ff",
		"#8b949e", "#58a6ff", "#ff7b72", "#7ee787", "#e3b341", "#d2a8ff")
	PaletteGithubLight = truecolor("#24292f", "#0550ae", "#8250df", "#116329", "#953800", "#0969da", "#0a3069",
		"#6e7781", "#0969da", "#cf222e", "#116329", "#9a6700", "#8250df")
	PaletteOneDark = truecolor("#abb2bf", "#e06c75", "#e5c07b", "#98c379", "#61afef", "#56b6c2", "#d19a66",
		"#5c6370", "#61afef", "#e06c75", "#98c379", "#e5c07b", "#c678dd")
	PaletteRosePine = truecolor("#e0def4", "#eb6f92", "#f6c177", "#ebbcba", "#31748f", "#9ccfd8", "#f6c177",
		"#6e6a86", "#9ccfd8", "#eb6f92", "#31748f", "#f6c177", "#c4a7e7")
	PaletteKanagawa = truecolor("#dcd7ba", "#e46876", "#ffa066", "#e6c384", "#98bb6c", "#7fb4ca", "#e6c384",
		"#727169", "#7e9cd8", "#e82424", "#98bb6c", "#ff9e3b", "#957fb8")
)
