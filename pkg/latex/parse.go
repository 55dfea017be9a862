// parse.go builds the math tree from the token stream by recursive descent.
// Unknown commands degrade to literal runs; unmatched delimiters are kept as
// literal text. Parsing always terminates: every iteration consumes at least
// one token.
package latex

import "strings"

type parser struct {
	tokens []Token
	pos    int
}

// Parse lexes and parses math source into a node list.
func Parse(source string) []*Node {
	p := &parser{tokens: Lex(source)}
	return p.parseSequence(nil)
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// reinject replaces the current token with a text token holding the
// remainder after a leading segment was consumed (combined delimiter+content
// tokens, argument splitting).
func (p *parser) reinject(tok Token, consumed int) {
	rest := tok.Text[consumed:]
	if rest == "" {
		return
	}
	p.pos--
	p.tokens[p.pos] = Token{Kind: TokText, Text: rest, Pos: tok.Pos + consumed}
}

// stopSet lists commands that end the current sequence without being
// consumed here.
type stopSet struct {
	braceClose bool
	align      bool
	commands   map[string]bool
}

func (s *stopSet) stops(tok Token) bool {
	if s == nil {
		return false
	}
	switch tok.Kind {
	case TokBraceClose:
		return s.braceClose
	case TokAlign:
		return s.align
	case TokCommand:
		return s.commands[tok.Text]
	}
	return false
}

// parseSequence parses nodes until a stop token or end of input. Trailing
// superscript and subscript operators bind to the nearest preceding atom.
func (p *parser) parseSequence(stop *stopSet) []*Node {
	var atoms []*Node
	for {
		tok, ok := p.peek()
		if !ok || stop.stops(tok) {
			return atoms
		}

		switch tok.Kind {
		case TokSup, TokSub:
			p.pos++
			atoms = p.attachScript(atoms, tok.Kind)
		case TokCommand:
			if tok.Text == "over" {
				// Infix alias: everything so far over everything after.
				p.pos++
				den := p.parseSequence(stop)
				return []*Node{{Kind: KindFrac, Num: group(atoms), Den: group(den)}}
			}
			if (tok.Text == "limits" || tok.Text == "nolimits") &&
				len(atoms) > 0 && atoms[len(atoms)-1].Kind == KindNary {
				// Trailing display-limits modifier binds to its operator.
				p.pos++
				atoms[len(atoms)-1].Limits = tok.Text
				continue
			}
			atoms = append(atoms, p.parseOne(tok))
		default:
			atoms = append(atoms, p.parseOne(tok))
		}
	}
}

// attachScript pops the nearest atom and wraps it in a script node. When the
// preceding atom is a multi-character run, only its last character becomes
// the script base. x^2_3 and x_3^2 both produce a combined sub-sup script.
func (p *parser) attachScript(atoms []*Node, kind TokenKind) []*Node {
	var base *Node
	if len(atoms) > 0 {
		last := atoms[len(atoms)-1]
		atoms = atoms[:len(atoms)-1]
		if last.Kind == KindRun && len([]rune(last.Text)) > 1 {
			runes := []rune(last.Text)
			atoms = append(atoms, run(string(runes[:len(runes)-1])))
			last = run(string(runes[len(runes)-1:]))
		}
		base = last
	} else {
		base = run("")
	}

	// An n-ary operator binds its limits directly.
	if base.Kind == KindNary && base.Body == nil {
		p.setNaryLimit(base, kind)
		return append(atoms, base)
	}

	script := &Node{Kind: KindScript, Base: base}
	p.setScriptArm(script, kind)

	// The complementary operator may follow: x^2_3.
	if next, ok := p.peek(); ok && (next.Kind == TokSup || next.Kind == TokSub) && next.Kind != kind {
		p.pos++
		p.setScriptArm(script, next.Kind)
	}
	return append(atoms, script)
}

func (p *parser) setScriptArm(script *Node, kind TokenKind) {
	arg := flatten(p.parseArg())
	if kind == TokSup {
		script.Sup = arg
	} else {
		script.Sub = arg
	}
}

func (p *parser) setNaryLimit(nary *Node, kind TokenKind) {
	arg := flatten(p.parseArg())
	if kind == TokSup {
		nary.Sup = arg
	} else {
		nary.Sub = arg
	}
	// A braced group right after both limits becomes the operator body.
	if next, ok := p.peek(); ok {
		switch {
		case next.Kind == TokSup && nary.Sup == nil, next.Kind == TokSub && nary.Sub == nil:
			p.pos++
			p.setNaryLimit(nary, next.Kind)
			return
		case next.Kind == TokBraceOpen:
			nary.Body = flatten(p.parseArg())
		}
	}
}

// parseOne parses a single atom starting at tok.
func (p *parser) parseOne(tok Token) *Node {
	p.pos++
	switch tok.Kind {
	case TokText:
		return run(tok.Text)
	case TokBraceOpen:
		children := p.parseSequence(&stopSet{braceClose: true})
		if next, ok := p.peek(); ok && next.Kind == TokBraceClose {
			p.pos++
		}
		return group(children)
	case TokBraceClose:
		return run("}")
	case TokAlign:
		return run("&")
	case TokCommand:
		return p.parseCommand(tok)
	}
	return run("")
}

func (p *parser) parseCommand(tok Token) *Node {
	name := tok.Text
	switch {
	case name == "frac" || name == "dfrac" || name == "tfrac":
		num := flatten(p.parseArg())
		den := flatten(p.parseArg())
		return &Node{Kind: KindFrac, Num: num, Den: den}

	case name == "sqrt":
		return p.parseRadical()

	case name == "left":
		return p.parseDelim()

	case name == "begin":
		return p.parseEnvironment()

	case naryOps[name] != "":
		return &Node{Kind: KindNary, Text: naryOps[name], Command: name}

	case accents[name] != "":
		body := flatten(p.parseArg())
		return &Node{Kind: KindAccent, Text: accents[name], Command: name, Body: body}

	case functions[name]:
		return &Node{Kind: KindFunc, Text: name, Body: flatten(p.parseArg())}

	case symbols[name] != "":
		return run(symbols[name])

	case len(name) == 1 && !isLetter(name[0]):
		// Escaped literal: \{ \} \, \\ etc.
		switch name {
		case ",", ";", "!", " ":
			return run(" ")
		default:
			return run(name)
		}

	default:
		// Unknown command degrades to a literal run of its source text.
		return run("\\" + name)
	}
}

// parseArg parses one argument: a braced group, a command atom, or a single
// character split off a text token.
func (p *parser) parseArg() *Node {
	tok, ok := p.peek()
	if !ok {
		return run("")
	}
	switch tok.Kind {
	case TokBraceOpen:
		p.pos++
		children := p.parseSequence(&stopSet{braceClose: true})
		if next, ok := p.peek(); ok && next.Kind == TokBraceClose {
			p.pos++
		}
		return group(children)
	case TokCommand:
		p.pos++
		return p.parseCommand(tok)
	case TokText:
		p.pos++
		runes := []rune(tok.Text)
		first := string(runes[0])
		p.reinject(tok, len(first))
		return run(first)
	default:
		return run("")
	}
}

// parseRadical parses \sqrt with an optional [degree].
func (p *parser) parseRadical() *Node {
	node := &Node{Kind: KindRadical}
	if tok, ok := p.peek(); ok && tok.Kind == TokText && strings.HasPrefix(tok.Text, "[") {
		if end := strings.IndexByte(tok.Text, ']'); end > 0 {
			node.Degree = run(tok.Text[1:end])
			p.pos++
			p.reinject(tok, end+1)
		}
	}
	node.Body = flatten(p.parseArg())
	return node
}

// parseDelim parses \left<d> ... \right<d>. The combined delimiter+content
// token splits its leading character off; the remainder is reinjected.
func (p *parser) parseDelim() *Node {
	node := &Node{Kind: KindDelim}
	node.Open = p.parseDelimChar()
	node.Children = p.parseSequence(&stopSet{commands: map[string]bool{"right": true}})
	if tok, ok := p.peek(); ok && tok.Kind == TokCommand && tok.Text == "right" {
		p.pos++
		node.Close = p.parseDelimChar()
	}
	return node
}

// delimNames maps delimiter commands to their characters; "." is the
// invisible delimiter.
var delimNames = map[string]string{
	"{": "{", "}": "}", "|": "|", "vert": "|", "Vert": "‖",
	"langle": "⟨", "rangle": "⟩", "lceil": "⌈",
	"rceil": "⌉", "lfloor": "⌊", "rfloor": "⌋", ".": "",
}

func (p *parser) parseDelimChar() string {
	tok, ok := p.peek()
	if !ok {
		return ""
	}
	switch tok.Kind {
	case TokText:
		p.pos++
		ch := string([]rune(tok.Text)[0])
		p.reinject(tok, len(ch))
		if ch == "." {
			return ""
		}
		return ch
	case TokCommand:
		if ch, known := delimNames[tok.Text]; known {
			p.pos++
			return ch
		}
	}
	return ""
}

// parseEnvironment parses \begin{env} rows \end{env}. Unknown environments
// degrade to a literal run of the opening command.
func (p *parser) parseEnvironment() *Node {
	envName, ok := p.parseBracedName()
	if !ok {
		return run("\\begin")
	}
	if _, known := environments[envName]; !known {
		return run("\\begin{" + envName + "}")
	}

	node := &Node{Env: envName}
	if eqArrayEnvs[envName] {
		node.Kind = KindEqArray
	} else {
		node.Kind = KindMatrix
	}

	stops := &stopSet{align: true, commands: map[string]bool{"\\": true, "end": true}}
	var row []*Node
	for {
		cell := p.parseSequence(stops)
		row = append(row, group(cell))

		tok, ok := p.peek()
		if !ok {
			break
		}
		p.pos++
		if tok.Kind == TokAlign {
			continue
		}
		if tok.Kind == TokCommand && tok.Text == "\\" {
			node.Rows = append(node.Rows, row)
			row = nil
			continue
		}
		// \end{env}
		p.parseBracedName()
		break
	}
	if len(row) > 0 {
		node.Rows = append(node.Rows, row)
	}
	return node
}

// parseBracedName reads {name} and returns the name.
func (p *parser) parseBracedName() (string, bool) {
	tok, ok := p.peek()
	if !ok || tok.Kind != TokBraceOpen {
		return "", false
	}
	p.pos++
	nameTok, ok := p.peek()
	if !ok || nameTok.Kind != TokText {
		return "", false
	}
	p.pos++
	if close, ok := p.peek(); ok && close.Kind == TokBraceClose {
		p.pos++
	}
	return nameTok.Text, true
}
