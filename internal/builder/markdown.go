package builder

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
}

type pageMeta struct {
	Title string `yaml:"title"`
}

// renderMarkdown converts a markdown fragment to HTML. The title comes from
// YAML frontmatter when present, otherwise from the file name.
func (b *Builder) renderMarkdown(name string, src []byte) (html []byte, title string, err error) {
	var meta pageMeta
	body, fmErr := frontmatter.Parse(bytes.NewReader(src), &meta)
	if fmErr != nil {
		fmt.Printf("Warning: could not parse frontmatter for %s: %v. Treating as pure markdown.\n", name, fmErr)
		body = src
	}

	var buf bytes.Buffer
	if err := b.markdown.Convert(body, &buf); err != nil {
		return nil, "", fmt.Errorf("failed to convert markdown in %s: %w", name, err)
	}

	title = meta.Title
	if title == "" {
		title = titleFromName(name)
	}
	return buf.Bytes(), title, nil
}

// titleFromName turns "getting-started.md" into "Getting Started".
func titleFromName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
	return cases.Title(language.English).String(base)
}
