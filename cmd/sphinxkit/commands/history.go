package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sphinxkit/internal/history"
)

// HistoryCmd lists recent build records.
type HistoryCmd struct {
	Limit int `help:"Maximum number of records to show" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	records, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No build history recorded yet")
		return nil
	}

	fmt.Printf("%-20s %-16s %-8s %-8s %s\n", "STARTED", "PROJECT", "MODE", "OUTCOME", "DURATION")
	for _, rec := range records {
		fmt.Printf("%-20s %-16s %-8s %-8s %s\n",
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.Project, rec.Mode, rec.Outcome, rec.Duration.Round(10*time.Millisecond))
	}
	return nil
}
