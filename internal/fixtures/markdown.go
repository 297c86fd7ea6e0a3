package fixtures

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-unicms/internal/locale"
)

// DefaultBodyField receives the rendered body of a Markdown fixture unless
// the front matter names another text field.
const DefaultBodyField = "description"

// markdownEnvelope is the front matter of a Markdown fixture. Lang selects
// the variant that receives the body; it defaults to ru.
type markdownEnvelope struct {
	Document  `yaml:",inline"`
	Lang      string `yaml:"lang"`
	BodyField string `yaml:"body_field"`
}

// Renderer converts Markdown bodies to HTML.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds a goldmark renderer with GFM, linkify and task lists.
func NewRenderer() *Renderer {
	return &Renderer{engine: goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
	)}
}

// Render returns the HTML for source without the trailing newline.
func (r *Renderer) Render(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("fixtures: render markdown: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// parseMarkdown reads the front matter into a document and stores the
// rendered body in the chosen text field.
func parseMarkdown(source []byte, renderer *Renderer, normalizer *locale.Normalizer) (*Document, error) {
	var env markdownEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	doc := env.Document
	if strings.TrimSpace(string(body)) == "" {
		return &doc, nil
	}

	field := strings.TrimSpace(env.BodyField)
	if field == "" {
		field = DefaultBodyField
	}
	lang := normalizer.Normalize(env.Lang)

	rendered, err := renderer.Render(body)
	if err != nil {
		return nil, err
	}
	if doc.Texts == nil {
		doc.Texts = map[string]locale.Text{}
	}
	doc.Texts[field] = setVariant(doc.Texts[field], lang, rendered)
	return &doc, nil
}

func setVariant(t locale.Text, lang locale.Language, value string) locale.Text {
	switch lang {
	case locale.EN:
		t.EN = value
	case locale.KG:
		t.KG = value
	default:
		t.RU = value
	}
	return t
}
