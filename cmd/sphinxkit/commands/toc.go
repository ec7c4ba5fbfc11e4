package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sphinxkit/internal/toc"
)

// TocCmd implements the 'toc' command: a discovery dry-run printing the
// assembled index document.
type TocCmd struct {
	Path   string `arg:"" default:"." help:"Project path"`
	Name   string `help:"Package name override"`
	Titles bool   `help:"List discovered entries with their display titles instead of the index document"`
}

func (t *TocCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	proj, err := resolveProject(t.Path, t.Name, cfg)
	if err != nil {
		return err
	}
	if err := proj.RequireDocs(); err != nil {
		return err
	}

	assembler := toc.NewAssembler(proj, cfg.PluginPrefix, cfg.Title)
	doc, err := assembler.Assemble()
	if err != nil {
		return err
	}

	if t.Titles {
		for _, section := range doc.Sections {
			fmt.Printf("%s:\n", section.Caption)
			for _, entry := range section.Entries {
				fmt.Printf("  %-40s %s\n", entry.Ref, entry.Title)
			}
		}
		return nil
	}

	fmt.Println(doc.Render())
	return nil
}
