// Package markdown renders report documents: YAML frontmatter for
// metadata, GitHub-flavoured markdown for the body.
package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

var ErrNoFrontmatter = errors.New("document has no frontmatter")

type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.Typographer,
				&frontmatter.Extender{},
			),
			goldmark.WithRendererOptions(goldmarkhtml.WithXHTML()),
		),
	}
}

// Render converts source to HTML. When meta is non-nil the document must
// open with frontmatter, which is decoded into meta.
func (r *Renderer) Render(source []byte, meta any) (string, error) {
	pc := parser.NewContext()
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	if meta != nil {
		data := frontmatter.Get(pc)
		if data == nil {
			return "", ErrNoFrontmatter
		}
		if err := data.Decode(meta); err != nil {
			return "", fmt.Errorf("decode frontmatter: %w", err)
		}
	}

	return buf.String(), nil
}
