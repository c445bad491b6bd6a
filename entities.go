package orgf

// Entity is a named special character such as \alpha or \rarr.
type Entity struct {
	Name string
	HTML string
	UTF8 string
}

// entities is a subset of org-entities covering Greek letters, arrows,
// punctuation, and the usual typographic symbols.
var entities = map[string]Entity{}

func init() {
	for _, e := range []Entity{
		{"alpha", "&alpha;", "α"}, {"beta", "&beta;", "β"}, {"gamma", "&gamma;", "γ"},
		{"delta", "&delta;", "δ"}, {"epsilon", "&epsilon;", "ε"}, {"zeta", "&zeta;", "ζ"},
		{"eta", "&eta;", "η"}, {"theta", "&theta;", "θ"}, {"iota", "&iota;", "ι"},
		{"kappa", "&kappa;", "κ"}, {"lambda", "&lambda;", "λ"}, {"mu", "&mu;", "μ"},
		{"nu", "&nu;", "ν"}, {"xi", "&xi;", "ξ"}, {"pi", "&pi;", "π"}, {"rho", "&rho;", "ρ"},
		{"sigma", "&sigma;", "σ"}, {"tau", "&tau;", "τ"}, {"upsilon", "&upsilon;", "υ"},
		{"phi", "&phi;", "φ"}, {"chi", "&chi;", "χ"}, {"psi", "&psi;", "ψ"},
		{"omega", "&omega;", "ω"}, {"Gamma", "&Gamma;", "Γ"}, {"Delta", "&Delta;", "Δ"},
		{"Theta", "&Theta;", "Θ"}, {"Lambda", "&Lambda;", "Λ"}, {"Pi", "&Pi;", "Π"},
		{"Sigma", "&Sigma;", "Σ"}, {"Phi", "&Phi;", "Φ"}, {"Psi", "&Psi;", "Ψ"},
		{"Omega", "&Omega;", "Ω"},
		{"rarr", "&rarr;", "→"}, {"to", "&rarr;", "→"}, {"larr", "&larr;", "←"},
		{"uarr", "&uarr;", "↑"}, {"darr", "&darr;", "↓"}, {"harr", "&harr;", "↔"},
		{"rArr", "&rArr;", "⇒"}, {"Rightarrow", "&rArr;", "⇒"}, {"lArr", "&lArr;", "⇐"},
		{"Leftarrow", "&lArr;", "⇐"}, {"hArr", "&hArr;", "⇔"},
		{"nbsp", "&nbsp;", " "}, {"ensp", "&ensp;", " "}, {"emsp", "&emsp;", " "},
		{"thinsp", "&thinsp;", " "}, {"shy", "&shy;", "­"},
		{"ndash", "&ndash;", "–"}, {"mdash", "&mdash;", "—"}, {"hellip", "&hellip;", "…"},
		{"dots", "&hellip;", "…"}, {"laquo", "&laquo;", "«"}, {"raquo", "&raquo;", "»"},
		{"lsquo", "&lsquo;", "‘"}, {"rsquo", "&rsquo;", "’"}, {"ldquo", "&ldquo;", "“"},
		{"rdquo", "&rdquo;", "”"}, {"bull", "&bull;", "•"}, {"middot", "&middot;", "·"},
		{"copy", "&copy;", "©"}, {"reg", "&reg;", "®"}, {"trade", "&trade;", "™"},
		{"deg", "&deg;", "°"}, {"pm", "&plusmn;", "±"}, {"plusmn", "&plusmn;", "±"},
		{"times", "&times;", "×"}, {"div", "&divide;", "÷"}, {"minus", "&minus;", "−"},
		{"ne", "&ne;", "≠"}, {"neq", "&ne;", "≠"}, {"le", "&le;", "≤"}, {"ge", "&ge;", "≥"},
		{"approx", "&asymp;", "≈"}, {"infin", "&infin;", "∞"}, {"infty", "&infin;", "∞"},
		{"sum", "&sum;", "∑"}, {"prod", "&prod;", "∏"}, {"radic", "&radic;", "√"},
		{"sect", "&sect;", "§"}, {"para", "&para;", "¶"}, {"euro", "&euro;", "€"},
		{"pound", "&pound;", "£"}, {"yen", "&yen;", "¥"}, {"cent", "&cent;", "¢"},
		{"amp", "&amp;", "&"}, {"lt", "&lt;", "<"}, {"gt", "&gt;", ">"},
		{"checkmark", "&#10003;", "✓"}, {"star", "*", "*"}, {"vert", "&vert;", "|"},
		{"backslash", "\\", "\\"}, {"dollar", "$", "$"}, {"under", "_", "_"},
	} {
		entities[e.Name] = e
	}
}

// LookupEntity returns the entity registered under name.
func LookupEntity(name string) (Entity, bool) {
	e, ok := entities[name]
	return e, ok
}
