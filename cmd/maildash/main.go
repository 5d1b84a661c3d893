package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtran/maildash/internal/api"
	"github.com/dtran/maildash/internal/app"
	"github.com/dtran/maildash/internal/config"
	"github.com/dtran/maildash/internal/credential"
	"github.com/dtran/maildash/internal/logging"
	"github.com/dtran/maildash/internal/store"
)

var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", config.DefaultPath(), "path to config file")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("maildash %s\n", version)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		// The TUI owns the terminal; without a log file we run silent.
		logger = logging.Null()
	}

	client := api.NewClient(cfg.API.BaseURL, credential.Session{},
		cfg.RequestTimeout(), logger)

	cache, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("opening session cache: %w", err)
	}
	defer cache.Close()

	logger.Info("starting maildash", "version", version, "api", cfg.API.BaseURL)

	m := app.New(cfg, client, cache, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}

	return nil
}
