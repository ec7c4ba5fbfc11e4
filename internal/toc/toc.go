// Package toc assembles the table-of-contents index consumed by Sphinx.
//
// The assembler scans the conventional subfolders (userguides/, commands/,
// methoddocs/) for content files and renders a reST document with one
// toctree block per section. Missing subfolders are omitted. The output is
// deterministic: an unchanged docs tree renders a byte-identical document.
package toc

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
	"git.home.luguber.info/inful/sphinxkit/internal/project"
)

// Section captions, in render order.
const (
	CaptionUserGuides   = "User Guides"
	CaptionCLIReference = "CLI Reference"
	CaptionPyReference  = "Python Reference"
	CaptionPluginPyRef  = "Plugin Python Reference"
	CaptionCorePyRef    = "Core Python Reference"
)

// quickstartRef is pinned to the top of the guides section when present.
const quickstartRef = "userguides/quickstart"

// GeneratedMarker identifies an index.rst written by sphinxkit. A
// user-authored index without this marker is never overwritten.
const GeneratedMarker = ".. generated by sphinxkit; edits will be overwritten"

// Entry references one discovered content file.
type Entry struct {
	Ref     string // toctree reference, e.g. "userguides/quickstart"
	Title   string // display title (frontmatter > heading > filename)
	Section string // caption of the owning section
}

// Document is the assembled table of contents.
type Document struct {
	Title    string
	Sections []SectionBlock
}

// SectionBlock is one toctree block.
type SectionBlock struct {
	Caption string
	Entries []Entry
}

// Assembler scans a project's docs tree.
type Assembler struct {
	proj          *project.Project
	pluginPrefix  string
	titleOverride string
}

// NewAssembler creates an assembler for the given project. pluginPrefix
// separates plugin methoddocs into their own section; titleOverride replaces
// the derived "<Name>-Docs" title when non-empty.
func NewAssembler(proj *project.Project, pluginPrefix, titleOverride string) *Assembler {
	return &Assembler{proj: proj, pluginPrefix: pluginPrefix, titleOverride: titleOverride}
}

// Assemble scans the conventional subfolders and produces the ordered
// document. Empty or missing subfolders simply yield fewer sections.
func (a *Assembler) Assemble() (*Document, error) {
	doc := &Document{Title: a.docTitle()}

	guides, err := a.scanSection(project.UserguidesDir, CaptionUserGuides)
	if err != nil {
		return nil, err
	}
	guides = pinQuickstart(guides)

	cli, err := a.scanSection(project.CommandsDir, CaptionCLIReference)
	if err != nil {
		return nil, err
	}

	methods, err := a.scanSection(project.MethoddocsDir, CaptionPyReference)
	if err != nil {
		return nil, err
	}
	plugin, core := a.splitPluginDocs(methods)

	doc.Sections = appendSection(doc.Sections, CaptionUserGuides, guides)
	doc.Sections = appendSection(doc.Sections, CaptionCLIReference, cli)
	if len(plugin) > 0 {
		// Core (or alike): plugins get their own caption.
		doc.Sections = appendSection(doc.Sections, CaptionPluginPyRef, retag(plugin, CaptionPluginPyRef))
		doc.Sections = appendSection(doc.Sections, CaptionCorePyRef, retag(core, CaptionCorePyRef))
	} else {
		doc.Sections = appendSection(doc.Sections, CaptionPyReference, core)
	}

	return doc, nil
}

// scanSection lists content files in one conventional subfolder,
// non-recursive, sorted lexically by reference.
func (a *Assembler) scanSection(dirName, caption string) ([]Entry, error) {
	dir := filepath.Join(a.proj.DocsPath(), dirName)
	infos, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", dirName, err)
	}

	var entries []Entry
	for _, info := range infos {
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			continue
		}
		ext := filepath.Ext(info.Name())
		if ext != ".md" && ext != ".rst" {
			continue
		}
		stem := strings.TrimSuffix(info.Name(), ext)
		entries = append(entries, Entry{
			Ref:     dirName + "/" + stem,
			Title:   DeriveTitle(filepath.Join(dir, info.Name())),
			Section: caption,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Ref < entries[j].Ref })
	slog.Debug("Scanned docs section", logfields.Section(caption), slog.Int("entries", len(entries)))
	return entries, nil
}

// splitPluginDocs separates plugin-prefixed methoddocs from core ones.
func (a *Assembler) splitPluginDocs(entries []Entry) (plugin, core []Entry) {
	if a.pluginPrefix == "" {
		return nil, entries
	}
	for _, e := range entries {
		if strings.HasPrefix(filepath.Base(e.Ref), a.pluginPrefix) {
			plugin = append(plugin, e)
		} else {
			core = append(core, e)
		}
	}
	return plugin, core
}

func (a *Assembler) docTitle() string {
	if a.titleOverride != "" {
		return a.titleOverride
	}
	// Deduced: "Ape-Docs" or "Ape-Vyper-Docs", etc.
	return titleCaseName(a.proj.Name) + "-Docs"
}

// pinQuickstart moves userguides/quickstart to the front, keeping the rest
// in sorted order.
func pinQuickstart(guides []Entry) []Entry {
	for i, g := range guides {
		if g.Ref == quickstartRef {
			pinned := make([]Entry, 0, len(guides))
			pinned = append(pinned, g)
			pinned = append(pinned, guides[:i]...)
			pinned = append(pinned, guides[i+1:]...)
			return pinned
		}
	}
	return guides
}

func appendSection(sections []SectionBlock, caption string, entries []Entry) []SectionBlock {
	if len(entries) == 0 {
		return sections
	}
	return append(sections, SectionBlock{Caption: caption, Entries: entries})
}

func retag(entries []Entry, caption string) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Section = caption
		out[i] = e
	}
	return out
}

// Render emits the reST index document expected by the renderer.
func (d *Document) Render() string {
	var b strings.Builder
	b.WriteString(GeneratedMarker + "\n\n")
	b.WriteString(d.Title + "\n")
	b.WriteString(strings.Repeat("=", len(d.Title)) + "\n\n")

	blocks := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		var sb strings.Builder
		fmt.Fprintf(&sb, ".. toctree::\n   :caption: %s\n   :maxdepth: 1\n\n", s.Caption)
		for _, e := range s.Entries {
			fmt.Fprintf(&sb, "   %s\n", e.Ref)
		}
		blocks = append(blocks, sb.String())
	}
	b.WriteString(strings.Join(blocks, "\n"))
	return b.String()
}

// WriteIndex renders the document into docs/index.rst. An existing index
// without the generated marker is preserved.
func WriteIndex(proj *project.Project, doc *Document) error {
	indexPath := proj.IndexPath()
	if existing, err := os.ReadFile(indexPath); err == nil {
		if !strings.Contains(string(existing), GeneratedMarker) {
			return nil // user-authored index, leave untouched
		}
	}
	return os.WriteFile(indexPath, []byte(doc.Render()), 0o644)
}
