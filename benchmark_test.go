package orgf

import (
	"bytes"
	"io"
	"strconv"
	"testing"
)

func BenchmarkParse(b *testing.B) {
	data := readSample(b)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, err := NewParser(data)
		if err != nil {
			b.Fatalf("parser: %v", err)
		}
		for {
			if _, ok := p.Next(); !ok {
				break
			}
		}
	}
}

func BenchmarkRenderHTML(b *testing.B) {
	data := readSample(b)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	var out bytes.Buffer
	out.Grow(len(data) * 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out.Reset()
		_ = Render(RenderRequest{Source: data, Writer: &out, Format: FormatHTML})
	}
}

func BenchmarkRenderANSI(b *testing.B) {
	data := readSample(b)
	widths := []int{50, 60, 80}
	for _, width := range widths {
		b.Run(intToWidthLabel(width), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = Render(RenderRequest{
					Source: data,
					Writer: io.Discard,
					Format: FormatANSI,
					Width:  width,
					Theme:  DefaultTheme(),
				})
			}
		})
	}
}

func BenchmarkResolveInline(b *testing.B) {
	text := "Some *bold* and /italic/ text with [[https://orgmode.org][a link]], ~code~, \\alpha and <2024-03-01 Fri>."
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ResolveInline(text)
	}
}

func intToWidthLabel(width int) string {
	return "w" + strconv.Itoa(width)
}
