package orgf

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

var htmlExporterPool = sync.Pool{
	New: func() any {
		return &HTMLExporter{}
	},
}

var ansiExporterPool = sync.Pool{
	New: func() any {
		return &ANSIExporter{}
	},
}

// Format selects the exporter used by Render.
type Format uint8

const (
	// FormatHTML renders with HTMLExporter.
	FormatHTML Format = iota
	// FormatANSI renders themed terminal text with ANSIExporter.
	FormatANSI
)

// RenderRequest configures Render.
type RenderRequest struct {
	Source  []byte
	Writer  io.Writer
	Format  Format
	Width   int
	Theme   Theme
	Options []RenderOption
}

// Render parses req.Source and writes it to req.Writer in req.Format.
func Render(req RenderRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	cfg := newRenderConfig(req.Options)
	p, err := NewParser(req.Source, cfg.parse...)
	if err != nil {
		return err
	}
	switch req.Format {
	case FormatHTML:
		e := htmlExporterPool.Get().(*HTMLExporter)
		e.reset(req.Writer, cfg)
		err = Export(p, e)
		e.reset(io.Discard, renderConfig{})
		htmlExporterPool.Put(e)
	case FormatANSI:
		e := ansiExporterPool.Get().(*ANSIExporter)
		e.reset(req.Writer, req.Width, req.Theme, cfg)
		err = Export(p, e)
		e.reset(io.Discard, 0, nil, renderConfig{})
		ansiExporterPool.Put(e)
	default:
		err = fmt.Errorf("render: unknown format %d", req.Format)
	}
	return err
}

// RenderHTML renders src as an HTML fragment (or document with WithStandalone).
func RenderHTML(src []byte, opts ...RenderOption) (string, error) {
	var b strings.Builder
	if err := Render(RenderRequest{Source: src, Writer: &b, Format: FormatHTML, Options: opts}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Export feeds every remaining event of p to e and flushes it.
func Export(p *Parser, e Exporter) error {
	for ev := range p.All() {
		if err := e.Handle(ev); err != nil {
			return err
		}
	}
	return e.Flush()
}
