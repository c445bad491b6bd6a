package orgf

import (
	"os"
	"strconv"
	"strings"
)

const (
	osc8Start = "\x1b]8;;"
	osc8End   = "\x1b]8;;\x1b\\"
)

// osc8Link wraps text in an OSC 8 hyperlink to target.
func osc8Link(target, text string) string {
	if target == "" {
		return text
	}
	return osc8Start + sanitize(target) + "\x1b\\" + text + osc8End
}

// DetectOSC8Support reports whether the terminal described by the
// environment likely renders OSC 8 hyperlinks. ORGF_OSC8=0 or 1 overrides
// the detection.
func DetectOSC8Support() bool {
	return detectOSC8(os.Getenv)
}

func detectOSC8(getenv func(string) string) bool {
	switch getenv("ORGF_OSC8") {
	case "0":
		return false
	case "1":
		return true
	}
	if getenv("DOMTERM") != "" || getenv("WT_SESSION") != "" {
		return true
	}
	switch getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode", "ghostty":
		return true
	}
	if strings.Contains(strings.ToLower(getenv("TERM")), "kitty") {
		return true
	}
	if n, err := strconv.Atoi(getenv("VTE_VERSION")); err == nil && n >= 5000 {
		return true
	}
	return false
}
