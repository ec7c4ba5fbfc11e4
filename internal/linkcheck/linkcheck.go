// Package linkcheck scans rendered HTML for local links whose targets do
// not exist on disk. External schemes are left to Sphinx's own linkcheck
// builder; this pass is purely file-system based and needs no network.
package linkcheck

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// BrokenLink is one unresolvable local reference.
type BrokenLink struct {
	File   string // HTML file containing the link, relative to the scan root
	Target string // the href/src as written
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s: broken link %q", b.File, b.Target)
}

// Scan walks root for .html files and verifies every relative href/src
// resolves to an existing file or directory. Results are sorted by file
// then target for deterministic output.
func Scan(root string) ([]BrokenLink, error) {
	var broken []BrokenLink

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		refs, err := extractRefs(path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		for _, ref := range refs {
			target, ok := localTarget(ref)
			if !ok {
				continue
			}
			resolved := filepath.Join(filepath.Dir(path), filepath.FromSlash(target))
			if _, statErr := os.Stat(resolved); statErr != nil {
				broken = append(broken, BrokenLink{File: rel, Target: ref})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(broken, func(i, j int) bool {
		if broken[i].File != broken[j].File {
			return broken[i].File < broken[j].File
		}
		return broken[i].Target < broken[j].Target
	})
	return broken, nil
}

// extractRefs parses one HTML file and collects href/src attribute values.
func extractRefs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, err
	}

	var refs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "href" || attr.Key == "src" {
					refs = append(refs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

// localTarget reduces a reference to its checkable path part. Returns false
// for external schemes, absolute paths, pure fragments, and empty refs.
func localTarget(ref string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if strings.HasPrefix(u.Path, "/") || u.Path == "" {
		return "", false
	}
	return u.Path, true
}
