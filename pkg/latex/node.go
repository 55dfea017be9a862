// node.go defines the parsed math tree: a tagged union over the construct
// kinds the translator understands in both directions.
package latex

// NodeKind tags the variant of a Node.
type NodeKind int

const (
	KindRun     NodeKind = iota // literal text
	KindGroup                   // braced group
	KindFrac                    // fraction
	KindScript                  // sub/sup/subsup
	KindNary                    // n-ary operator with limits and body
	KindRadical                 // square/nth root
	KindAccent                  // accented base
	KindDelim                   // delimiter-fenced group
	KindFunc                    // named function application
	KindMatrix                  // matrix environment
	KindEqArray                 // aligned/gathered/cases equation array
)

// Node is one parsed math construct. Fields apply per kind; unused fields
// stay nil or empty.
type Node struct {
	Kind NodeKind

	Text     string  // KindRun: text; KindNary: operator char; KindAccent: accent char; KindFunc: name
	Command  string  // source command name for accents and n-ary operators
	Children []*Node // KindGroup, KindDelim: content

	Num, Den       *Node // KindFrac
	Base, Sub, Sup *Node // KindScript; Sub/Sup also used by KindNary
	Body           *Node // KindNary, KindRadical, KindAccent, KindFunc
	Degree         *Node // KindRadical: nil for square roots

	Open, Close string // KindDelim
	Env         string // KindMatrix, KindEqArray: environment name
	Rows        [][]*Node

	Limits string // KindNary: "limits", "nolimits", or ""
}

func run(text string) *Node {
	return &Node{Kind: KindRun, Text: text}
}

func group(children []*Node) *Node {
	return &Node{Kind: KindGroup, Children: children}
}

// flatten unwraps single-child groups so {x} and x parse identically.
func flatten(n *Node) *Node {
	for n != nil && n.Kind == KindGroup && len(n.Children) == 1 {
		n = n.Children[0]
	}
	return n
}

// naryOps maps n-ary operator commands to their operator characters.
var naryOps = map[string]string{
	"sum":    "∑",
	"prod":   "∏",
	"coprod": "∐",
	"int":    "∫",
	"iint":   "∬",
	"oint":   "∮",
	"bigcup": "⋃",
	"bigcap": "⋂",
}

// accents maps accent commands to combining characters.
var accents = map[string]string{
	"hat":      "̂",
	"bar":      "̄",
	"overline": "̅",
	"vec":      "⃗",
	"dot":      "̇",
	"ddot":     "̈",
	"tilde":    "̃",
	"check":    "̌",
}

// functions are the recognized multi-letter function names.
var functions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"log": true, "ln": true, "exp": true, "lim": true, "min": true, "max": true,
	"det": true, "arg": true, "gcd": true,
}

// environments maps known environment names to their fence characters.
// Empty fences mean a bare equation array or matrix.
var environments = map[string]struct{ open, close string }{
	"matrix":   {"", ""},
	"pmatrix":  {"(", ")"},
	"bmatrix":  {"[", "]"},
	"Bmatrix":  {"{", "}"},
	"vmatrix":  {"|", "|"},
	"cases":    {"{", ""},
	"aligned":  {"", ""},
	"gathered": {"", ""},
}

// eqArrayEnvs are environments rendered as equation arrays, not matrices.
var eqArrayEnvs = map[string]bool{
	"cases": true, "aligned": true, "gathered": true,
}

// symbols maps symbol commands to their unicode characters.
var symbols = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ",
	"epsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ",
	"nu": "ν", "xi": "ξ", "pi": "π", "rho": "ρ",
	"sigma": "σ", "tau": "τ", "upsilon": "υ", "phi": "φ",
	"chi": "χ", "psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ",
	"Xi": "Ξ", "Pi": "Π", "Sigma": "Σ", "Phi": "Φ",
	"Psi": "Ψ", "Omega": "Ω",
	"infty": "∞", "partial": "∂", "nabla": "∇",
	"pm": "±", "mp": "∓", "times": "×", "div": "÷",
	"cdot": "⋅", "leq": "≤", "geq": "≥", "neq": "≠",
	"approx": "≈", "equiv": "≡", "sim": "∼",
	"rightarrow": "→", "leftarrow": "←", "Rightarrow": "⇒",
	"to": "→", "in": "∈", "notin": "∉", "subset": "⊂",
	"subseteq": "⊆", "cup": "∪", "cap": "∩",
	"forall": "∀", "exists": "∃", "emptyset": "∅",
	"ldots": "…", "cdots": "⋯", "prime": "′",
}

// symbolNames is the reverse of symbols, preferring the canonical alias
// (e.g. U+2192 renders as \rightarrow, not \to).
var symbolNames = buildSymbolNames()

func buildSymbolNames() map[string]string {
	names := make(map[string]string, len(symbols))
	for name, ch := range symbols {
		if existing, ok := names[ch]; ok && len(existing) <= len(name) {
			continue
		}
		names[ch] = name
	}
	// Canonical aliases where several commands share a character.
	names["→"] = "rightarrow"
	return names
}
