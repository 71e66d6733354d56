package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "RawString", Pattern: "`[^`]*`"},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `;`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a newsletter content file.
//
//	newsletter "Bästerås Weekly" {
//	  article "News1" { image "photo.jpg"; "Body text" }
//	  article "News2" { "Body text" }
//	  office "Office News" { "Body text" }
//	}
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Title    StringLiteral  `parser:"Newline* 'newsletter' @(String | RawString)"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (article/office/footer).
type Section struct {
	Article *ArticleSection `parser:"  @@"`
	Office  *OfficeSection  `parser:"| @@"`
	Footer  *FooterSection  `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Article != nil:
		return "article"
	case s.Office != nil:
		return "office"
	case s.Footer != nil:
		return "footer"
	default:
		return "unknown"
	}
}

// ArticleSection is a news article with an optional heading and image.
type ArticleSection struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Heading *StringLiteral `parser:"'article' @(String | RawString)?"`
	Block   *Block         `parser:"@@"`
}

// OfficeSection holds the office news block.
type OfficeSection struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Heading *StringLiteral `parser:"'office' @(String | RawString)?"`
	Block   *Block         `parser:"@@"`
}

// FooterSection overrides the footer lines, one literal per line.
type FooterSection struct {
	Block *Block `parser:"'footer' @@"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block: an image reference or a text literal.
type Statement struct {
	Image *StringLiteral `parser:"  'image' @(String | RawString)"`
	Text  *StringLiteral `parser:"| @(String | RawString)"`
}

// Text joins all text literals of the block with single spaces.
func (b *Block) Text() string {
	return strings.Join(b.Lines(), " ")
}

// Lines returns the non-empty text literals in order.
func (b *Block) Lines() []string {
	if b == nil {
		return nil
	}
	var out []string
	for _, st := range b.Statements {
		if st.Text == nil {
			continue
		}
		if s := strings.TrimSpace(string(*st.Text)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Image returns the first image reference of the block, or "".
func (b *Block) Image() string {
	if b == nil {
		return ""
	}
	for _, st := range b.Statements {
		if st.Image != nil {
			return string(*st.Image)
		}
	}
	return ""
}

// Articles returns the article sections in document order.
func (d *Document) Articles() []*ArticleSection {
	var out []*ArticleSection
	for _, s := range d.Sections {
		if s.Article != nil {
			out = append(out, s.Article)
		}
	}
	return out
}

// Office returns the first office section, or nil.
func (d *Document) Office() *OfficeSection {
	for _, s := range d.Sections {
		if s.Office != nil {
			return s.Office
		}
	}
	return nil
}

// Footer returns the first footer section, or nil.
func (d *Document) Footer() *FooterSection {
	for _, s := range d.Sections {
		if s.Footer != nil {
			return s.Footer
		}
	}
	return nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// String returns the literal value, "" for nil.
func (s *StringLiteral) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
