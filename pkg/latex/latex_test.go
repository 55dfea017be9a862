package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLex(t *testing.T) {
	tokens := Lex(`\frac{a}{b} + x^2_i & \\`)

	var kinds []TokenKind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		TokCommand, TokBraceOpen, TokText, TokBraceClose,
		TokBraceOpen, TokText, TokBraceClose,
		TokText, TokText, TokSup, TokText, TokSub, TokText,
		TokAlign, TokCommand,
	}, kinds)
	assert.Equal(t, "frac", tokens[0].Text)
	assert.Equal(t, "\\", tokens[len(tokens)-1].Text)
}

func TestParse_ScriptBindsToNearestAtom(t *testing.T) {
	nodes := Parse("ab^2")
	require.Len(t, nodes, 2)
	assert.Equal(t, KindRun, nodes[0].Kind)
	assert.Equal(t, "a", nodes[0].Text)
	require.Equal(t, KindScript, nodes[1].Kind)
	assert.Equal(t, "b", nodes[1].Base.Text)
	assert.Equal(t, "2", nodes[1].Sup.Text)
}

func TestParse_SubSupCombined(t *testing.T) {
	nodes := Parse("x_i^2")
	require.Len(t, nodes, 1)
	n := nodes[0]
	require.Equal(t, KindScript, n.Kind)
	assert.Equal(t, "i", n.Sub.Text)
	assert.Equal(t, "2", n.Sup.Text)
}

func TestParse_NaryLimits(t *testing.T) {
	nodes := Parse(`\sum\limits_{i=0}^{n}`)
	require.Len(t, nodes, 1)
	n := nodes[0]
	require.Equal(t, KindNary, n.Kind)
	assert.Equal(t, "∑", n.Text)
	assert.Equal(t, "limits", n.Limits)
	assert.Equal(t, "i=0", n.Sub.Text)
	assert.Equal(t, "n", n.Sup.Text)
}

func TestParse_UnknownCommandDegrades(t *testing.T) {
	nodes := Parse(`\mysterycmd x`)
	require.Len(t, nodes, 2)
	assert.Equal(t, KindRun, nodes[0].Kind)
	assert.Equal(t, `\mysterycmd`, nodes[0].Text)
}

func TestParse_UnknownEnvironmentDegrades(t *testing.T) {
	nodes := Parse(`\begin{weird} x`)
	require.NotEmpty(t, nodes)
	assert.Equal(t, KindRun, nodes[0].Kind)
	assert.Equal(t, `\begin{weird}`, nodes[0].Text)
}

func TestParse_DelimSplitsCombinedToken(t *testing.T) {
	nodes := Parse(`\left(x+y\right)`)
	require.Len(t, nodes, 1)
	n := nodes[0]
	require.Equal(t, KindDelim, n.Kind)
	assert.Equal(t, "(", n.Open)
	assert.Equal(t, ")", n.Close)
	require.Len(t, n.Children, 1)
	assert.Equal(t, "x+y", n.Children[0].Text)
}

func TestParse_OverAlias(t *testing.T) {
	nodes := Parse(`{a \over b}`)
	require.Len(t, nodes, 1)
	n := flatten(nodes[0])
	require.Equal(t, KindFrac, n.Kind)
	assert.Equal(t, "\\frac{a}{b}", RenderLaTeX([]*Node{n}))
}

func TestToOMML_Superscript(t *testing.T) {
	omml, err := ToOMML("x^2", false)
	require.NoError(t, err)
	assert.Contains(t, omml, "<m:sSup>")
	assert.Contains(t, omml, "<m:oMath>")
	assert.NotContains(t, omml, "oMathPara")
}

func TestToOMML_DisplayMode(t *testing.T) {
	omml, err := ToOMML(`\frac{1}{2}`, true)
	require.NoError(t, err)
	assert.Contains(t, omml, "<m:oMathPara>")
	assert.Contains(t, omml, "<m:f>")
}

func TestToOMML_Empty(t *testing.T) {
	_, err := ToOMML("   ", false)
	assert.Error(t, err)
}

func TestRoundtrip_Constructs(t *testing.T) {
	exprs := []string{
		`x^2`,
		`x_i`,
		`x_i^2`,
		`ab^2`,
		`\frac{a}{b}`,
		`\frac{x+1}{y-1}`,
		`\sqrt{x}`,
		`\sqrt[3]{x+1}`,
		`\sum_{i=0}^{n} i`,
		`\int_0^1 f(x)dx`,
		`\sum\limits_{k} k`,
		`\hat{x}`,
		`\vec{v}`,
		`\sin x`,
		`\log {xy}`,
		`\left(x+y\right)`,
		`\left[\frac{a}{b}\right]`,
		`\alpha +\beta`,
		`x\rightarrow \infty`,
		`\begin{matrix}a & b \\ c & d\end{matrix}`,
		`\begin{pmatrix}1 & 0 \\ 0 & 1\end{pmatrix}`,
		`\begin{bmatrix}x \\ y\end{bmatrix}`,
		`\begin{cases}x & x>0 \\ 0 & x\leq 0\end{cases}`,
		`\begin{aligned}a=b \\ c=d\end{aligned}`,
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			omml, err := ToOMML(expr, false)
			require.NoError(t, err)

			back, err := FromOMML(omml)
			require.NoError(t, err)
			assert.Equal(t, Normalize(expr), Normalize(back),
				"OMML roundtrip must be semantically lossless")
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"whitespace", `x + y`, `x  +   y`},
		{"single char braces", `x^{2}`, `x^2`},
		{"over alias", `{a \over b}`, `\frac{a}{b}`},
		{"arrow alias", `x \to y`, `x \rightarrow y`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Normalize(tt.a), Normalize(tt.b))
		})
	}
}

func TestFromOMML_UndeclaredPrefix(t *testing.T) {
	// Generated fragments use the m prefix without declaring it; FromOMML
	// must accept its own output as-is.
	fragment, err := ToOMML("x^2", false)
	require.NoError(t, err)
	require.NotContains(t, fragment, "xmlns")

	src, err := FromOMML(fragment)
	require.NoError(t, err)
	assert.Equal(t, Normalize("x^2"), Normalize(src))
}

func TestFromOMML_UnknownElementKeepsText(t *testing.T) {
	src, err := FromOMML(`<m:oMath><m:weird><m:t>leftover</m:t></m:weird></m:oMath>`)
	require.NoError(t, err)
	assert.Contains(t, src, "leftover")
}

func TestFromOMML_DepthBound(t *testing.T) {
	// Deeply nested groups beyond the walk bound must not recurse forever.
	var opening, closing string
	for i := 0; i < 200; i++ {
		opening += `<m:d><m:e>`
		closing += `</m:e></m:d>`
	}
	_, err := FromOMML(`<m:oMath>` + opening + `<m:r><m:t>x</m:t></m:r>` + closing + `</m:oMath>`)
	assert.NoError(t, err)
}
