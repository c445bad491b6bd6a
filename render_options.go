package orgf

// ParseOption configures a Parser.
type ParseOption func(*parseConfig)

type parseConfig struct {
	todo     []string
	done     []string
	recovery RecoveryHandler
}

// Recovery describes a block or drawer that was closed without its own
// end delimiter.
type Recovery struct {
	// Line is the 1-based line that forced the close, or 0 at end of input.
	Line      int
	Construct string
	Name      string
}

// RecoveryHandler receives implicit closes. It is called synchronously from
// Parser.Next.
type RecoveryHandler func(Recovery)

// WithTodoKeywords replaces the default TODO/DONE keyword set. In-buffer
// "#+TODO:" lines still take precedence.
func WithTodoKeywords(todo, done []string) ParseOption {
	return func(cfg *parseConfig) {
		cfg.todo = append([]string(nil), todo...)
		cfg.done = append([]string(nil), done...)
	}
}

// WithRecoveryHandler reports structural recoveries to fn.
func WithRecoveryHandler(fn RecoveryHandler) ParseOption {
	return func(cfg *parseConfig) {
		cfg.recovery = fn
	}
}

// RenderOption configures the HTML and terminal exporters.
type RenderOption func(*renderConfig)

type renderConfig struct {
	tags       *HTMLTags
	standalone bool
	title      string
	drawers    bool
	macros     map[string]string
	osc8       bool
	softWrap   bool
	parse      []ParseOption
}

// WithHTMLTags substitutes the element mapping table of the HTML exporter.
func WithHTMLTags(tags HTMLTags) RenderOption {
	return func(cfg *renderConfig) {
		t := tags
		cfg.tags = &t
	}
}

// WithStandalone wraps HTML output in a complete document. An empty title
// falls back to the buffer's "#+TITLE:" keyword.
func WithStandalone(title string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.standalone = true
		cfg.title = title
	}
}

// WithDrawers includes drawer contents in the output.
func WithDrawers(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.drawers = enabled
	}
}

// WithMacros expands "{{{name(args)}}}" using templates where $1..$9 are
// replaced by arguments. Unknown macros are dropped.
func WithMacros(macros map[string]string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.macros = macros
	}
}

// WithOSC8 enables or disables OSC 8 hyperlinks in terminal output.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithSoftWrap enables soft wrapping for long words in terminal output.
func WithSoftWrap(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.softWrap = enabled
	}
}

// WithParseOptions forwards options to the parser used by Render and RenderHTML.
func WithParseOptions(opts ...ParseOption) RenderOption {
	return func(cfg *renderConfig) {
		cfg.parse = append(cfg.parse, opts...)
	}
}

func newRenderConfig(opts []RenderOption) renderConfig {
	var cfg renderConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
