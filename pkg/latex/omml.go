// omml.go renders the math tree to Office Math Markup Language XML.
package latex

import (
	"fmt"
	"strings"
)

// ToOMML translates math source into an OMML fragment rooted at m:oMath
// (wrapped in m:oMathPara for display mode). The caller embeds the fragment
// in document XML that declares the m namespace prefix.
func ToOMML(source string, display bool) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("empty math source")
	}
	nodes := Parse(source)

	var sb strings.Builder
	if display {
		sb.WriteString("<m:oMathPara>")
	}
	sb.WriteString("<m:oMath>")
	writeNodes(&sb, nodes)
	sb.WriteString("</m:oMath>")
	if display {
		sb.WriteString("</m:oMathPara>")
	}
	return sb.String(), nil
}

func writeNodes(sb *strings.Builder, nodes []*Node) {
	for _, n := range nodes {
		writeNode(sb, n)
	}
}

func writeNode(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindRun:
		writeRun(sb, n.Text)
	case KindGroup:
		writeNodes(sb, n.Children)
	case KindFrac:
		sb.WriteString("<m:f><m:num>")
		writeNode(sb, n.Num)
		sb.WriteString("</m:num><m:den>")
		writeNode(sb, n.Den)
		sb.WriteString("</m:den></m:f>")
	case KindScript:
		writeScript(sb, n)
	case KindNary:
		writeNary(sb, n)
	case KindRadical:
		writeRadical(sb, n)
	case KindAccent:
		sb.WriteString(`<m:acc><m:accPr><m:chr m:val="` + escapeXML(n.Text) + `"/></m:accPr><m:e>`)
		writeNode(sb, n.Body)
		sb.WriteString("</m:e></m:acc>")
	case KindDelim:
		sb.WriteString(`<m:d><m:dPr><m:begChr m:val="` + escapeXML(n.Open) + `"/><m:endChr m:val="` + escapeXML(n.Close) + `"/></m:dPr><m:e>`)
		writeNodes(sb, n.Children)
		sb.WriteString("</m:e></m:d>")
	case KindFunc:
		sb.WriteString("<m:func><m:funcPr/><m:fName>")
		writeRun(sb, n.Text)
		sb.WriteString("</m:fName><m:e>")
		writeNode(sb, n.Body)
		sb.WriteString("</m:e></m:func>")
	case KindMatrix:
		writeMatrix(sb, n)
	case KindEqArray:
		writeEqArray(sb, n)
	}
}

func writeRun(sb *strings.Builder, text string) {
	if text == "" {
		return
	}
	sb.WriteString(`<m:r><m:t xml:space="preserve">`)
	sb.WriteString(escapeXML(text))
	sb.WriteString("</m:t></m:r>")
}

func writeScript(sb *strings.Builder, n *Node) {
	tag := "m:sSup"
	if n.Sub != nil && n.Sup != nil {
		tag = "m:sSubSup"
	} else if n.Sub != nil {
		tag = "m:sSub"
	}
	sb.WriteString("<" + tag + "><m:e>")
	writeNode(sb, n.Base)
	sb.WriteString("</m:e>")
	if n.Sub != nil {
		sb.WriteString("<m:sub>")
		writeNode(sb, n.Sub)
		sb.WriteString("</m:sub>")
	}
	if n.Sup != nil {
		sb.WriteString("<m:sup>")
		writeNode(sb, n.Sup)
		sb.WriteString("</m:sup>")
	}
	sb.WriteString("</" + tag + ">")
}

func writeNary(sb *strings.Builder, n *Node) {
	sb.WriteString(`<m:nary><m:naryPr><m:chr m:val="` + escapeXML(n.Text) + `"/>`)
	switch n.Limits {
	case "limits":
		sb.WriteString(`<m:limLoc m:val="undOvr"/>`)
	case "nolimits":
		sb.WriteString(`<m:limLoc m:val="subSup"/>`)
	}
	sb.WriteString("</m:naryPr><m:sub>")
	writeNode(sb, n.Sub)
	sb.WriteString("</m:sub><m:sup>")
	writeNode(sb, n.Sup)
	sb.WriteString("</m:sup><m:e>")
	writeNode(sb, n.Body)
	sb.WriteString("</m:e></m:nary>")
}

func writeRadical(sb *strings.Builder, n *Node) {
	sb.WriteString("<m:rad><m:radPr>")
	if n.Degree == nil {
		sb.WriteString(`<m:degHide m:val="1"/>`)
	}
	sb.WriteString("</m:radPr><m:deg>")
	writeNode(sb, n.Degree)
	sb.WriteString("</m:deg><m:e>")
	writeNode(sb, n.Body)
	sb.WriteString("</m:e></m:rad>")
}

func writeMatrix(sb *strings.Builder, n *Node) {
	fences := environments[n.Env]
	if fences.open != "" || fences.close != "" {
		sb.WriteString(`<m:d><m:dPr><m:begChr m:val="` + escapeXML(fences.open) + `"/><m:endChr m:val="` + escapeXML(fences.close) + `"/></m:dPr><m:e>`)
	}
	sb.WriteString("<m:m>")
	for _, row := range n.Rows {
		sb.WriteString("<m:mr>")
		for _, cell := range row {
			sb.WriteString("<m:e>")
			writeNode(sb, cell)
			sb.WriteString("</m:e>")
		}
		sb.WriteString("</m:mr>")
	}
	sb.WriteString("</m:m>")
	if fences.open != "" || fences.close != "" {
		sb.WriteString("</m:e></m:d>")
	}
}

func writeEqArray(sb *strings.Builder, n *Node) {
	fences := environments[n.Env]
	if fences.open != "" || fences.close != "" {
		sb.WriteString(`<m:d><m:dPr><m:begChr m:val="` + escapeXML(fences.open) + `"/><m:endChr m:val="` + escapeXML(fences.close) + `"/></m:dPr><m:e>`)
	}
	sb.WriteString("<m:eqArr>")
	for _, row := range n.Rows {
		sb.WriteString("<m:e>")
		for i, cell := range row {
			if i > 0 {
				writeRun(sb, "&")
			}
			writeNode(sb, cell)
		}
		sb.WriteString("</m:e>")
	}
	sb.WriteString("</m:eqArr>")
	if fences.open != "" || fences.close != "" {
		sb.WriteString("</m:e></m:d>")
	}
}

// escapeXML escapes special XML characters in a string.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
