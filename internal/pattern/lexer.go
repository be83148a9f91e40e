package pattern

import "fmt"

// TokenType defines the kinds of tokens in the pattern DSL.
type TokenType int

const (
	TokenIdent      TokenType = iota // Kind, fragment or capture name
	TokenUnderscore                  // _
	TokenLParen                      // (
	TokenRParen                      // )
	TokenComma                       // ,
	TokenPipe                        // |
	TokenHash                        // #
	TokenStar                        // *
	TokenQuestion                    // ?
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenIdent:
		return "identifier"
	case TokenUnderscore:
		return "'_'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenPipe:
		return "'|'"
	case TokenHash:
		return "'#'"
	case TokenStar:
		return "'*'"
	case TokenQuestion:
		return "'?'"
	case TokenEOF:
		return "end of pattern"
	default:
		return "unknown"
	}
}

// Token is a single lexical token with its byte offset in the input.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

// SyntaxError reports malformed pattern text.
type SyntaxError struct {
	Position int
	Msg      string
	Err      error // sentinel classifying the error, if any
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pattern:%d: %v: %s", e.Position, e.Err, e.Msg)
	}
	return fmt.Sprintf("pattern:%d: %s", e.Position, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Lexer scans pattern text into tokens.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

// NewLexer returns a Lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0),
	}
}

var punctuation = map[byte]TokenType{
	'(': TokenLParen,
	')': TokenRParen,
	',': TokenComma,
	'|': TokenPipe,
	'#': TokenHash,
	'*': TokenStar,
	'?': TokenQuestion,
}

// Tokenize scans the whole input. The token list always ends with TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		c := l.input[l.position]
		switch {
		case isSpace(c):
			l.position++

		case c == '/' && l.position+1 < len(l.input) && l.input[l.position+1] == '/':
			l.skipComment()

		case isIdentChar(c) && !isDigit(c):
			l.lexIdent()

		default:
			typ, ok := punctuation[c]
			if !ok {
				return nil, &SyntaxError{Position: l.position, Msg: fmt.Sprintf("unexpected character %q", c)}
			}
			l.addToken(typ, string(c), l.position)
			l.position++
		}
	}
	l.addToken(TokenEOF, "", l.position)
	return l.tokens, nil
}

func (l *Lexer) lexIdent() {
	start := l.position
	for l.position < len(l.input) && isIdentChar(l.input[l.position]) {
		l.position++
	}
	word := l.input[start:l.position]
	if word == "_" {
		l.addToken(TokenUnderscore, word, start)
		return
	}
	l.addToken(TokenIdent, word, start)
}

func (l *Lexer) skipComment() {
	for l.position < len(l.input) && l.input[l.position] != '\n' {
		l.position++
	}
}

func (l *Lexer) addToken(typ TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Position: pos})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentChar(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
