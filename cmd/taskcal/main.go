// Package main implements the taskcal CLI: a terminal task calendar.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/task-calendar/internal/app"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/store"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	dbPath     string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "taskcal",
		Short:         "Taskcal - tasks on a day, week and month calendar",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", model.DefaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "Task database (overrides storage.path)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Write a debug log to taskcal-debug.log")

	rootCmd.AddCommand(addCmd(flags))
	rootCmd.AddCommand(layoutCmd(flags))
	rootCmd.AddCommand(seedCmd(flags))

	return rootCmd
}

// open loads the configuration and opens the task store it points at.
func (f *rootFlags) open() (*model.AppConfig, *store.SQLiteStore, error) {
	cfg, err := model.LoadConfig(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if f.dbPath != "" {
		cfg.Storage.Path = f.dbPath
	}

	if cfg.Storage.Path != ":memory:" {
		dir := filepath.Dir(cfg.Storage.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating data directory %s: %w", dir, err)
		}
	}

	s, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening task store %s: %w", cfg.Storage.Path, err)
	}
	return cfg, s, nil
}

func runTUI(flags *rootFlags) error {
	// The terminal belongs to the TUI, so logs go to a file or nowhere.
	if flags.debug {
		lf, err := tea.LogToFile("taskcal-debug.log", "taskcal")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer lf.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, s, err := flags.open()
	if err != nil {
		return err
	}
	defer s.Close()

	root := app.New(s, cfg)
	defer root.Close()

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running calendar: %w", err)
	}
	return nil
}
