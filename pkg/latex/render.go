// render.go writes a math tree back to LaTeX source. Output is normalized:
// whitespace collapsed, single-character groups unbraced, aliases rendered
// under their canonical names.
package latex

import "strings"

// RenderLaTeX serializes a node list to math source.
func RenderLaTeX(nodes []*Node) string {
	var sb strings.Builder
	renderNodes(&sb, nodes)
	return strings.TrimSpace(collapseSpaces(sb.String()))
}

// Normalize parses and re-renders source: the canonical form used when
// comparing math expressions for semantic equality.
func Normalize(source string) string {
	return RenderLaTeX(Parse(source))
}

func renderNodes(sb *strings.Builder, nodes []*Node) {
	for _, n := range nodes {
		renderNode(sb, n)
	}
}

func renderNode(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindRun:
		renderRunText(sb, n.Text)
	case KindGroup:
		if len(n.Children) == 1 {
			renderNode(sb, n.Children[0])
			return
		}
		sb.WriteString("{")
		renderNodes(sb, n.Children)
		sb.WriteString("}")
	case KindFrac:
		sb.WriteString("\\frac")
		renderBraced(sb, n.Num)
		renderBraced(sb, n.Den)
	case KindScript:
		renderScriptBase(sb, n.Base)
		if n.Sub != nil {
			sb.WriteString("_")
			renderArg(sb, n.Sub)
		}
		if n.Sup != nil {
			sb.WriteString("^")
			renderArg(sb, n.Sup)
		}
	case KindNary:
		renderNary(sb, n)
	case KindRadical:
		sb.WriteString("\\sqrt")
		if n.Degree != nil {
			sb.WriteString("[")
			renderNode(sb, n.Degree)
			sb.WriteString("]")
		}
		renderBraced(sb, n.Body)
	case KindAccent:
		name := n.Command
		if name == "" {
			name = accentName(n.Text)
		}
		sb.WriteString("\\" + name)
		renderBraced(sb, n.Body)
	case KindDelim:
		sb.WriteString("\\left")
		sb.WriteString(delimSource(n.Open))
		renderNodes(sb, n.Children)
		sb.WriteString("\\right")
		sb.WriteString(delimSource(n.Close))
	case KindFunc:
		sb.WriteString("\\" + n.Text + " ")
		if n.Body != nil {
			renderArg(sb, n.Body)
		}
	case KindMatrix, KindEqArray:
		renderEnvironment(sb, n)
	}
}

// renderRunText maps unicode symbols back to their commands.
func renderRunText(sb *strings.Builder, text string) {
	for _, r := range text {
		ch := string(r)
		if name, ok := symbolNames[ch]; ok {
			sb.WriteString("\\" + name + " ")
			continue
		}
		if name := accentName(ch); name != "" {
			sb.WriteString("\\" + name + " ")
			continue
		}
		sb.WriteString(ch)
	}
}

func accentName(ch string) string {
	for name, c := range accents {
		if c == ch && name != "overline" {
			return name
		}
	}
	return ""
}

// renderBraced always wraps the node in braces (frac, sqrt, accent args).
// Groups are unwrapped first so braces never double up.
func renderBraced(sb *strings.Builder, n *Node) {
	sb.WriteString("{")
	if n != nil && n.Kind == KindGroup {
		renderNodes(sb, n.Children)
	} else {
		renderNode(sb, n)
	}
	sb.WriteString("}")
}

// renderArg braces the argument unless it is a single plain character.
func renderArg(sb *strings.Builder, n *Node) {
	if n != nil && n.Kind == KindRun {
		runes := []rune(n.Text)
		if len(runes) == 1 {
			if _, symbolic := symbolNames[n.Text]; !symbolic {
				sb.WriteString(n.Text)
				return
			}
		}
	}
	renderBraced(sb, n)
}

// renderScriptBase braces composite bases so the script binds to the whole
// construct when re-parsed.
func renderScriptBase(sb *strings.Builder, base *Node) {
	if base == nil {
		return
	}
	base = flatten(base)
	switch base.Kind {
	case KindRun:
		if len([]rune(base.Text)) <= 1 {
			renderNode(sb, base)
			return
		}
	case KindDelim, KindFunc:
		renderNode(sb, base)
		return
	}
	renderBraced(sb, base)
}

func renderNary(sb *strings.Builder, n *Node) {
	name := n.Command
	if name == "" {
		for cmd, ch := range naryOps {
			if ch == n.Text {
				name = cmd
				break
			}
		}
	}
	if name == "" {
		renderRunText(sb, n.Text)
		return
	}
	sb.WriteString("\\" + name)
	switch n.Limits {
	case "limits":
		sb.WriteString("\\limits")
	case "nolimits":
		sb.WriteString("\\nolimits")
	}
	if n.Sub != nil {
		sb.WriteString("_")
		renderArg(sb, n.Sub)
	}
	if n.Sup != nil {
		sb.WriteString("^")
		renderArg(sb, n.Sup)
	}
	if n.Body != nil {
		renderBraced(sb, n.Body)
	}
	sb.WriteString(" ")
}

func delimSource(ch string) string {
	switch ch {
	case "":
		return "."
	case "{":
		return "\\{"
	case "}":
		return "\\}"
	case "‖":
		return "\\Vert "
	case "⟨":
		return "\\langle "
	case "⟩":
		return "\\rangle "
	case "⌈":
		return "\\lceil "
	case "⌉":
		return "\\rceil "
	case "⌊":
		return "\\lfloor "
	case "⌋":
		return "\\rfloor "
	}
	return ch
}

func renderEnvironment(sb *strings.Builder, n *Node) {
	env := n.Env
	if env == "" {
		env = "matrix"
	}
	sb.WriteString("\\begin{" + env + "}")
	for i, row := range n.Rows {
		if i > 0 {
			sb.WriteString(" \\\\ ")
		}
		for j, cell := range row {
			if j > 0 {
				sb.WriteString(" & ")
			}
			renderCell(sb, cell)
		}
	}
	sb.WriteString("\\end{" + env + "}")
}

// renderCell renders a cell without wrapping braces.
func renderCell(sb *strings.Builder, cell *Node) {
	if cell != nil && cell.Kind == KindGroup {
		renderNodes(sb, cell.Children)
		return
	}
	renderNode(sb, cell)
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
