// from_omml.go parses an OMML fragment back into the math tree and renders
// LaTeX source. The tree walk is depth-bounded so pathological nesting
// cannot recurse without limit.
package latex

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// maxOMMLDepth bounds the recursive element walk.
const maxOMMLDepth = 64

// mathNamespace is the WordprocessingML math namespace bound to the m prefix.
const mathNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/math"

// FromOMML translates an OMML fragment (an m:oMath element, possibly inside
// m:oMathPara) into math source. The fragment carries the m prefix without a
// declaration, so it is parsed under a synthetic root that declares it.
func FromOMML(fragment string) (string, error) {
	wrapped := `<m:fragment xmlns:m="` + mathNamespace + `">` + fragment + `</m:fragment>`
	doc, err := xmlquery.Parse(strings.NewReader(wrapped))
	if err != nil {
		return "", fmt.Errorf("parsing OMML: %w", err)
	}
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return RenderLaTeX(NodesFromOMML(child)), nil
		}
	}
	return "", nil
}

// NodesFromOMML converts a parsed OMML XML node (and descendants) into the
// math tree. Unknown elements contribute their text content as literal runs.
func NodesFromOMML(root *xmlquery.Node) []*Node {
	return walkOMML(root, 0)
}

func walkOMML(n *xmlquery.Node, depth int) []*Node {
	if n == nil || depth > maxOMMLDepth {
		return nil
	}
	var out []*Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		out = append(out, elementToNodes(child, depth+1)...)
	}
	return out
}

func elementToNodes(el *xmlquery.Node, depth int) []*Node {
	if depth > maxOMMLDepth {
		return nil
	}
	switch el.Data {
	case "oMathPara", "oMath":
		return walkOMML(el, depth)
	case "r":
		if text := runText(el); text != "" {
			return []*Node{run(text)}
		}
		return nil
	case "f":
		return []*Node{{
			Kind: KindFrac,
			Num:  childGroup(el, "num", depth),
			Den:  childGroup(el, "den", depth),
		}}
	case "sSup":
		return []*Node{{
			Kind: KindScript,
			Base: childGroup(el, "e", depth),
			Sup:  childGroup(el, "sup", depth),
		}}
	case "sSub":
		return []*Node{{
			Kind: KindScript,
			Base: childGroup(el, "e", depth),
			Sub:  childGroup(el, "sub", depth),
		}}
	case "sSubSup":
		return []*Node{{
			Kind: KindScript,
			Base: childGroup(el, "e", depth),
			Sub:  childGroup(el, "sub", depth),
			Sup:  childGroup(el, "sup", depth),
		}}
	case "nary":
		return []*Node{naryFromOMML(el, depth)}
	case "rad":
		node := &Node{Kind: KindRadical, Body: childGroup(el, "e", depth)}
		if deg := childGroup(el, "deg", depth); deg != nil && !emptyNode(deg) {
			node.Degree = deg
		}
		return []*Node{node}
	case "acc":
		chr := propertyVal(el, "accPr", "chr")
		if chr == "" {
			chr = accents["hat"]
		}
		return []*Node{{Kind: KindAccent, Text: chr, Body: childGroup(el, "e", depth)}}
	case "d":
		return []*Node{delimFromOMML(el, depth)}
	case "func":
		name := ""
		if fn := childElement(el, "fName"); fn != nil {
			name = strings.TrimSpace(innerText(fn))
		}
		return []*Node{{Kind: KindFunc, Text: name, Body: childGroup(el, "e", depth)}}
	case "m":
		return []*Node{matrixFromOMML(el, depth)}
	case "eqArr":
		return []*Node{eqArrayFromOMML(el, depth)}
	default:
		// Unknown construct: its text content survives as a literal run.
		if text := innerText(el); strings.TrimSpace(text) != "" {
			return []*Node{run(text)}
		}
		return nil
	}
}

func naryFromOMML(el *xmlquery.Node, depth int) *Node {
	node := &Node{Kind: KindNary, Text: propertyVal(el, "naryPr", "chr")}
	if node.Text == "" {
		node.Text = naryOps["int"]
	}
	switch propertyVal(el, "naryPr", "limLoc") {
	case "undOvr":
		node.Limits = "limits"
	case "subSup":
		node.Limits = "nolimits"
	}
	if sub := childGroup(el, "sub", depth); !emptyNode(sub) {
		node.Sub = sub
	}
	if sup := childGroup(el, "sup", depth); !emptyNode(sup) {
		node.Sup = sup
	}
	if body := childGroup(el, "e", depth); !emptyNode(body) {
		node.Body = body
	}
	return node
}

func delimFromOMML(el *xmlquery.Node, depth int) *Node {
	node := &Node{Kind: KindDelim, Open: "(", Close: ")"}
	if pr := childElement(el, "dPr"); pr != nil {
		if beg := childElement(pr, "begChr"); beg != nil {
			node.Open = attrVal(beg, "val")
		}
		if end := childElement(pr, "endChr"); end != nil {
			node.Close = attrVal(end, "val")
		}
	}
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == "e" {
			node.Children = append(node.Children, walkOMML(child, depth+1)...)
		}
	}
	// A fenced matrix renders as its environment, not as \left..\right.
	if len(node.Children) == 1 {
		inner := node.Children[0]
		if inner.Kind == KindMatrix || inner.Kind == KindEqArray {
			if env := envForFences(node.Open, node.Close, inner.Kind); env != "" {
				inner.Env = env
				return inner
			}
		}
	}
	return node
}

func envForFences(open, close string, kind NodeKind) string {
	for env, fences := range environments {
		if fences.open != open || fences.close != close {
			continue
		}
		if eqArrayEnvs[env] == (kind == KindEqArray) {
			return env
		}
	}
	return ""
}

func matrixFromOMML(el *xmlquery.Node, depth int) *Node {
	node := &Node{Kind: KindMatrix, Env: "matrix"}
	for row := el.FirstChild; row != nil; row = row.NextSibling {
		if row.Type != xmlquery.ElementNode || row.Data != "mr" {
			continue
		}
		var cells []*Node
		for cell := row.FirstChild; cell != nil; cell = cell.NextSibling {
			if cell.Type == xmlquery.ElementNode && cell.Data == "e" {
				cells = append(cells, group(walkOMML(cell, depth+1)))
			}
		}
		node.Rows = append(node.Rows, cells)
	}
	return node
}

func eqArrayFromOMML(el *xmlquery.Node, depth int) *Node {
	node := &Node{Kind: KindEqArray, Env: "aligned"}
	for row := el.FirstChild; row != nil; row = row.NextSibling {
		if row.Type != xmlquery.ElementNode || row.Data != "e" {
			continue
		}
		node.Rows = append(node.Rows, []*Node{group(walkOMML(row, depth+1))})
	}
	return node
}

// childGroup collects a named child element's content as one group node.
func childGroup(el *xmlquery.Node, name string, depth int) *Node {
	child := childElement(el, name)
	if child == nil {
		return nil
	}
	nodes := walkOMML(child, depth+1)
	if len(nodes) == 0 {
		return nil
	}
	return flatten(group(nodes))
}

func childElement(el *xmlquery.Node, name string) *xmlquery.Node {
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == name {
			return child
		}
	}
	return nil
}

// propertyVal reads <el><prName><attrName m:val="..."/> style properties.
func propertyVal(el *xmlquery.Node, prName, attrName string) string {
	pr := childElement(el, prName)
	if pr == nil {
		return ""
	}
	target := childElement(pr, attrName)
	if target == nil {
		return ""
	}
	return attrVal(target, "val")
}

func attrVal(el *xmlquery.Node, name string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// runText concatenates the m:t children of a run element.
func runText(el *xmlquery.Node) string {
	var sb strings.Builder
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == "t" {
			sb.WriteString(innerText(child))
		}
	}
	return sb.String()
}

func innerText(el *xmlquery.Node) string {
	return el.InnerText()
}

func emptyNode(n *Node) bool {
	if n == nil {
		return true
	}
	if n.Kind == KindRun && n.Text == "" {
		return true
	}
	if n.Kind == KindGroup && len(n.Children) == 0 {
		return true
	}
	return false
}
