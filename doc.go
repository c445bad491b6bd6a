// Package orgf parses Org-mode text into a pull-based event stream and
// renders that stream as HTML or themed terminal text.
//
// Parsing is lazy: NewParser validates the buffer and does nothing else.
// Each call to Parser.Next classifies at most one more line and returns the
// events it produced. Start and end events always nest, even for malformed
// input; unterminated blocks and drawers are closed innermost-first.
//
// Core properties:
//   - One []byte in, events out; no file or network access
//   - Gap-free inline spans with Org emphasis boundary rules
//   - Exporters are plain consumers of the Exporter interface
//   - HTML element choice lives in a replaceable HTMLTags table
//
// Example:
//
//	p, err := orgf.NewParser([]byte("* TODO Hello :work:\nSome *bold* text.\n"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for ev := range p.All() {
//		fmt.Println(ev.Kind)
//	}
//
//	html, err := orgf.RenderHTML(src, orgf.WithStandalone(""))
//
// Terminal output goes through Render with FormatANSI and a Theme.
package orgf
