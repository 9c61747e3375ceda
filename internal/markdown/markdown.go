// Package markdown renders recipe instructions and reads recipe documents
// that carry their metadata in YAML frontmatter.
package markdown

import (
	"bytes"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

var ErrNoFrontmatter = errors.New("recipe document has no frontmatter")

// RecipeDocument is the frontmatter of an imported recipe. Food is a food id
// or an exact food name.
type RecipeDocument struct {
	Name        string           `yaml:"name"`
	Servings    int              `yaml:"servings"`
	Ingredients []IngredientLine `yaml:"ingredients"`

	Instructions string `yaml:"-"`
}

type IngredientLine struct {
	Food     string  `yaml:"food"`
	Quantity float64 `yaml:"quantity"`
	Unit     string  `yaml:"unit"`
}

type Parser struct {
	md  goldmark.Markdown
	doc goldmark.Markdown // md plus frontmatter, for imports
}

// NewParser builds renderers with GFM and typographic quotes. Raw HTML in the
// source is dropped (goldmark's default, html.WithUnsafe is not set).
func NewParser() *Parser {
	return &Parser{
		md:  newMarkdown(),
		doc: newMarkdown(&frontmatter.Extender{}),
	}
}

func newMarkdown(extra ...goldmark.Extender) goldmark.Markdown {
	extensions := append([]goldmark.Extender{extension.GFM, extension.Typographer}, extra...)
	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
		),
	)
}

// Render converts instructions to HTML.
func (p *Parser) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseRecipe decodes the frontmatter of a recipe document. The markdown
// after the frontmatter becomes Instructions.
func (p *Parser) ParseRecipe(source []byte) (*RecipeDocument, error) {
	ctx := parser.NewContext()
	var buf bytes.Buffer
	if err := p.doc.Convert(source, &buf, parser.WithContext(ctx)); err != nil {
		return nil, err
	}

	data := frontmatter.Get(ctx)
	if data == nil {
		return nil, ErrNoFrontmatter
	}

	doc := &RecipeDocument{}
	if err := data.Decode(doc); err != nil {
		return nil, err
	}
	doc.Instructions = body(string(source))

	return doc, nil
}

// body strips a leading "---" delimited block.
func body(source string) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	if !strings.HasPrefix(source, "---\n") {
		return strings.TrimSpace(source)
	}

	rest := source[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return ""
	}
	rest = rest[end+len("\n---"):]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = ""
	}
	return strings.TrimSpace(rest)
}
