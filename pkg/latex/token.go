// token.go lexes math source into the flat token stream consumed by the
// recursive-descent parser.
package latex

// TokenKind identifies a math token.
type TokenKind int

const (
	TokText       TokenKind = iota // literal characters
	TokCommand                     // \name or \<single non-letter>
	TokBraceOpen                   // {
	TokBraceClose                  // }
	TokSup                         // ^
	TokSub                         // _
	TokAlign                       // & column separator
)

// Token is one lexed unit. Text holds the literal characters or the command
// name without its backslash.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int // byte offset in the source
}

// Lex scans source into tokens. Whitespace separates tokens and is
// otherwise dropped; consecutive literal characters form one text token
// (the parser splits them when a script binds to the last character).
func Lex(source string) []Token {
	var tokens []Token
	pos := 0
	textStart := -1

	flush := func(end int) {
		if textStart >= 0 && end > textStart {
			tokens = append(tokens, Token{Kind: TokText, Text: source[textStart:end], Pos: textStart})
		}
		textStart = -1
	}

	for pos < len(source) {
		c := source[pos]
		switch c {
		case ' ', '\t', '\n', '\r':
			flush(pos)
			pos++
		case '\\':
			flush(pos)
			start := pos
			pos++
			nameStart := pos
			for pos < len(source) && isLetter(source[pos]) {
				pos++
			}
			if pos == nameStart && pos < len(source) {
				// Single-character command such as \{ or \\ or \,
				pos++
			}
			tokens = append(tokens, Token{Kind: TokCommand, Text: source[nameStart:pos], Pos: start})
		case '{':
			flush(pos)
			tokens = append(tokens, Token{Kind: TokBraceOpen, Pos: pos})
			pos++
		case '}':
			flush(pos)
			tokens = append(tokens, Token{Kind: TokBraceClose, Pos: pos})
			pos++
		case '^':
			flush(pos)
			tokens = append(tokens, Token{Kind: TokSup, Pos: pos})
			pos++
		case '_':
			flush(pos)
			tokens = append(tokens, Token{Kind: TokSub, Pos: pos})
			pos++
		case '&':
			flush(pos)
			tokens = append(tokens, Token{Kind: TokAlign, Pos: pos})
			pos++
		default:
			if textStart < 0 {
				textStart = pos
			}
			pos++
		}
	}
	flush(len(source))
	return tokens
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
