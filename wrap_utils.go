package orgf

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "…"

// truncateWithEllipsis cuts text to limit printable cells, the last being an
// ellipsis.
func truncateWithEllipsis(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	return truncate.StringWithTail(text, uint(limit), ellipsis)
}

// displayTarget drops the link type ("https://", "file:", "mailto:") and a
// trailing slash from a link target.
func displayTarget(target string) string {
	if idx := strings.Index(target, "://"); idx > 0 {
		target = target[idx+3:]
	} else if idx := strings.IndexByte(target, ':'); idx > 0 && isLinkType(target[:idx]) {
		target = target[idx+1:]
	}
	if len(target) > 1 {
		target = strings.TrimSuffix(target, "/")
	}
	return target
}

func isLinkType(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != '+' && c != '-' {
			return false
		}
	}
	return true
}

// fitURL shortens a link target for display within limit cells.
func fitURL(target string, limit int) string {
	if ansi.PrintableRuneWidth(target) <= limit {
		return target
	}
	if short := displayTarget(target); ansi.PrintableRuneWidth(short) <= limit {
		return short
	}
	return truncateWithEllipsis(target, limit)
}
