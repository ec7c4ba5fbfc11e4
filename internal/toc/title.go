package toc

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var titleCaser = cases.Title(language.English)

// DeriveTitle determines the display title for a content file.
// Precedence: frontmatter title, first markdown heading, title-cased
// filename.
func DeriveTitle(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return titleFromFilename(path)
	}

	fm, body := splitFrontmatter(content)
	if fm != nil {
		var fields struct {
			Title string `yaml:"title"`
		}
		if yaml.Unmarshal(fm, &fields) == nil && fields.Title != "" {
			return strings.TrimSpace(fields.Title)
		}
	}

	if filepath.Ext(path) == ".md" {
		if h := firstHeading(body); h != "" {
			return h
		}
	}

	return titleFromFilename(path)
}

// splitFrontmatter separates `---` delimited YAML frontmatter from the body.
// Returns a nil frontmatter when the document does not start with one.
func splitFrontmatter(content []byte) (frontmatter, body []byte) {
	open := []byte("---\n")
	if !bytes.HasPrefix(content, open) {
		return nil, content
	}
	rest := content[len(open):]
	idx := bytes.Index(rest, []byte("\n---\n"))
	if idx < 0 {
		return nil, content
	}
	return rest[:idx], rest[idx+len("\n---\n"):]
}

// firstHeading returns the text of the first heading in a markdown body.
func firstHeading(body []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(body))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			var sb strings.Builder
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*gmast.Text); ok {
					sb.Write(t.Segment.Value(body))
				}
			}
			title = strings.TrimSpace(sb.String())
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

// titleFromFilename turns "getting-started.md" into "Getting Started".
func titleFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.FieldsFunc(stem, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

// titleCaseName turns "ape-vyper" into "Ape-Vyper" (hyphens preserved).
func titleCaseName(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		parts[i] = titleCaser.String(p)
	}
	return strings.Join(parts, "-")
}
