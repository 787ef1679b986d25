package main

import (
	"fmt"
	"os"

	"checkdesk/internal/api"
	"checkdesk/internal/config"
	"checkdesk/internal/export"
	"checkdesk/internal/filter"
	"checkdesk/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "checkdesk:", err)
		os.Exit(2)
	}

	client := api.New(cfg.BaseURL, cfg.Timeout)
	cache := filter.NewCache(client, filter.DefaultMaxAge)
	ctl := filter.NewController(cache)

	exporter, err := export.New(client, cfg.ExportDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "checkdesk:", err)
		os.Exit(2)
	}

	m := ui.NewModel(cfg, client, cache, ctl, exporter)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "checkdesk:", err)
		os.Exit(1)
	}
}
