package builder

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/yuin/goldmark"

	"github.com/rjauquet/sitegen/internal/config"
	"github.com/rjauquet/sitegen/internal/model"
)

// Builder generates the site. Every build rereads the template and all
// fragments and rewrites every output file; nothing is cached between runs.
type Builder struct {
	cfg      config.Config
	site     *model.Site
	markdown goldmark.Markdown
}

func New(cfg config.Config, site *model.Site) *Builder {
	return &Builder{
		cfg:      cfg,
		site:     site,
		markdown: newMarkdown(),
	}
}

// Build composes one output page per fragment in the content directory by
// splicing the fragment into the template at the marker line. The template
// is validated before anything is written, so a marker problem produces no
// output at all. The first failing fragment aborts the build.
func (b *Builder) Build() error {
	tpl, err := LoadTemplate(b.cfg.Template)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(b.cfg.Output, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", b.cfg.Output, err)
	}
	if b.cfg.IndexOutput != "" {
		if err := os.MkdirAll(b.cfg.IndexOutput, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create index output directory %s: %w", b.cfg.IndexOutput, err)
		}
	}

	if b.cfg.Static != "" {
		if _, err := os.Stat(b.cfg.Static); err == nil {
			if err := copyDir(b.cfg.Static, b.cfg.Output); err != nil {
				return fmt.Errorf("failed to copy static assets: %w", err)
			}
		} else {
			fmt.Printf("Static directory %s not found, skipping copy.\n", b.cfg.Static)
		}
	}

	entries, err := os.ReadDir(b.cfg.Content)
	if err != nil {
		return fmt.Errorf("failed to read content directory %s: %w", b.cfg.Content, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			fmt.Printf("Skipping directory %s\n", filepath.Join(b.cfg.Content, entry.Name()))
			continue
		}
		if err := b.buildPage(tpl, entry.Name()); err != nil {
			return err
		}
	}

	return nil
}

func (b *Builder) buildPage(tpl *Template, name string) error {
	src, err := os.ReadFile(filepath.Join(b.cfg.Content, name))
	if err != nil {
		return fmt.Errorf("failed to read fragment %s: %w", name, err)
	}

	fragment := src
	outName := name
	title := titleFromName(name)

	if strings.EqualFold(filepath.Ext(name), ".md") {
		fragment, title, err = b.renderMarkdown(name, src)
		if err != nil {
			return err
		}
		outName = strings.TrimSuffix(name, filepath.Ext(name)) + ".html"
	}

	doc := expandTokens(tpl.Render(fragment), b.tokens(title))

	destDir := b.cfg.Output
	if b.cfg.IndexOutput != "" && outName == "index.html" {
		destDir = b.cfg.IndexOutput
	}
	outPath := filepath.Join(destDir, outName)

	if err := atomic.WriteFile(outPath, bytes.NewReader(doc)); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	fmt.Printf("Generated %s\n", outPath)
	return nil
}

// tokens is the substitution map for one page: every site param plus the
// page title, which wins over a site-level "title" param.
func (b *Builder) tokens(title string) map[string]string {
	params := make(map[string]string)
	if b.site != nil {
		for key := range b.site.Params {
			params[key] = b.site.ParamString(key)
		}
	}
	params["title"] = title
	return params
}
