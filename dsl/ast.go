package dsl

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Document is the root AST node of a rich text markup file:
//
//	richtext <name> { statements... }
type Document struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"Newline* 'richtext' @Ident"`
	Body *Block         `parser:"@@ Newline*"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block: an assignment, a command or a bare string.
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command is a keyword followed by arguments and an optional block.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// Arg returns the i-th argument value, or "" when absent.
func (c *Command) Arg(i int) string {
	if c == nil || i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i].Value
}

// TextLiteral is a bare string statement.
type TextLiteral struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Value StringLiteral  `parser:"@String"`
}

// Value is the right hand side of an assignment.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Expr   *Expression    `parser:"| @@"`
}

// Text flattens the value to a string. Expression tokens are joined with
// single spaces so that "bold italic" stays two words.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Expr != nil:
		words := make([]string, 0, len(v.Expr.Parts))
		for _, p := range v.Expr.Parts {
			words = append(words, p.Value)
		}
		return strings.Join(words, " ")
	default:
		return ""
	}
}

// Parse parses markup from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses markup from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
