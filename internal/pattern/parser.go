package pattern

import (
	"fmt"

	"github.com/gnolang/shapelint/internal/syntax"
)

// Fragment expands a named pattern function, such as some_loop, at parse time.
type Fragment func(args []Pattern) (Pattern, error)

// Option configures Parse.
type Option func(*Parser)

// WithFragment registers a fragment under name, replacing any built-in of
// the same name. Fragment names must start with a lower-case letter.
func WithFragment(name string, f Fragment) Option {
	return func(p *Parser) {
		p.fragments[name] = f
	}
}

// Parser builds a Pattern from the tokens of a Lexer.
type Parser struct {
	tokens    []Token
	current   int
	fragments map[string]Fragment
}

// NewParser returns a Parser over tokens with the built-in fragments registered.
func NewParser(tokens []Token, opts ...Option) *Parser {
	p := &Parser{
		tokens:    tokens,
		fragments: builtinFragments(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses DSL text into a Pattern. The result still has to be compiled.
func Parse(src string, opts ...Option) (Pattern, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens, opts...).Parse()
}

// MustParse is like Parse but panics on error.
func MustParse(src string, opts ...Option) Pattern {
	p, err := Parse(src, opts...)
	if err != nil {
		panic(fmt.Sprintf("pattern: Parse(%q): %v", src, err))
	}
	return p
}

// Parse consumes all tokens and returns the pattern they describe.
func (p *Parser) Parse() (Pattern, error) {
	if p.peek().Type == TokenEOF {
		return nil, p.errorf("empty pattern")
	}
	pat, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.errorf("unexpected %s", tok.Type)
	}
	return pat, nil
}

// parseAlt parses item ('|' item)*.
func (p *Parser) parseAlt() (Pattern, error) {
	first, err := p.parseItem()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TokenPipe {
		return first, nil
	}
	branches := []Pattern{first}
	for p.peek().Type == TokenPipe {
		p.advance()
		next, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		branches = append(branches, next)
	}
	return &Alternation{Branches: branches}, nil
}

// parseItem parses primary quantifier? ('#' name)*.
func (p *Parser) parseItem() (Pattern, error) {
	pat, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch p.peek().Type {
	case TokenStar:
		p.advance()
		pat = &ZeroOrMore{Inner: pat}
	case TokenQuestion:
		p.advance()
		pat = &Optional{Inner: pat}
	}
	if t := p.peek().Type; t == TokenStar || t == TokenQuestion {
		return nil, &SyntaxError{Position: p.peek().Position, Msg: "quantifier applied twice", Err: ErrNestedQuantifier}
	}
	for p.peek().Type == TokenHash {
		p.advance()
		name := p.peek()
		if name.Type != TokenIdent {
			return nil, p.errorf("expected capture name after '#', found %s", name.Type)
		}
		p.advance()
		pat = &Capture{Name: name.Value, Inner: pat}
	}
	return pat, nil
}

func (p *Parser) parsePrimary() (Pattern, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenUnderscore:
		p.advance()
		return &Wildcard{}, nil

	case TokenLParen:
		p.advance()
		if p.peek().Type == TokenRParen {
			return nil, p.errorf("empty group")
		}
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenIdent:
		p.advance()
		if isUpper(tok.Value[0]) {
			return p.parseVariant(tok)
		}
		return p.parseFragment(tok)

	default:
		return nil, p.errorf("unexpected %s", tok.Type)
	}
}

func (p *Parser) parseVariant(kind Token) (Pattern, error) {
	if p.peek().Type != TokenLParen {
		return Kind(syntax.Kind(kind.Value)), nil
	}
	p.advance()
	slots, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return V(syntax.Kind(kind.Value), slots...), nil
}

func (p *Parser) parseFragment(name Token) (Pattern, error) {
	frag, ok := p.fragments[name.Value]
	if !ok {
		return nil, &SyntaxError{Position: name.Position, Msg: fmt.Sprintf("unknown fragment %q", name.Value)}
	}
	var args []Pattern
	if p.peek().Type == TokenLParen {
		p.advance()
		var err error
		if args, err = p.parseArgs(); err != nil {
			return nil, err
		}
	}
	pat, err := frag(args)
	if err != nil {
		return nil, &SyntaxError{Position: name.Position, Msg: fmt.Sprintf("%s: %v", name.Value, err)}
	}
	return pat, nil
}

// parseArgs parses a slot list up to and including the closing parenthesis.
func (p *Parser) parseArgs() ([]Pattern, error) {
	args := []Pattern{}
	for {
		switch p.peek().Type {
		case TokenRParen:
			p.advance()
			return args, nil
		case TokenEOF:
			return nil, p.errorf("missing ')'")
		}
		arg, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Type == TokenComma {
			p.advance()
		}
	}
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TokenEOF, Position: -1}
	}
	return p.tokens[p.current]
}

func (p *Parser) advance() {
	if p.current < len(p.tokens) {
		p.current++
	}
}

func (p *Parser) expect(typ TokenType) error {
	if tok := p.peek(); tok.Type != typ {
		return p.errorf("expected %s, found %s", typ, tok.Type)
	}
	p.advance()
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Position: p.peek().Position, Msg: fmt.Sprintf(format, args...)}
}
