package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/cwarden/zcal/internal/config"
	"github.com/cwarden/zcal/internal/logging"
	"github.com/cwarden/zcal/internal/store"
	"github.com/cwarden/zcal/internal/ui"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	cfgFile string
	dataDir string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "zcal",
	Short: "A personal calendar for the terminal",
	Long: `Z-Calendar is a personal calendar with month and day views, emoji
events, themes and shareable event cards. Events are kept in local
files under the data directory.`,
	PersistentPreRunE: initConfig,
	RunE:              runTUI,
	SilenceUsage:      true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/zcal/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the calendar data")
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if dataDir != "" {
		if cfg.LogFile == filepath.Join(cfg.DataDir, "zcal.log") {
			cfg.LogFile = ""
		}
		cfg.DataDir = dataDir
		cfg.Normalize()
	}
	return nil
}

// openStore loads the calendar from the configured data directory. The
// returned cleanup closes the store and the log file.
func openStore() (*store.Store, *slog.Logger, func(), error) {
	fs, err := store.NewFileStorage(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	logger, logCloser, err := logging.Setup(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	st := store.New(fs,
		store.WithLogger(logger),
		store.WithDefaults(cfg.View(), cfg.Theme()),
	)
	st.Load()

	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to stop storage watcher", "err", err)
		}
		closeQuietly(logCloser)
	}
	return st, logger, cleanup, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	st, logger, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	model := ui.NewModel(cfg, st, logger)
	if cfg.WatchStorage {
		if err := model.WatchStorage(); err != nil {
			logger.Warn("storage watching disabled", "err", err)
		}
	}

	logger.Info("starting", "data_dir", cfg.DataDir, "events", len(st.Events()))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
