// Package cli wires configuration, logging, storage and the board session
// into cobra commands. Running the root command with no subcommand starts
// the TUI.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/framebuilder/internal/board"
	"github.com/jask/framebuilder/internal/config"
	"github.com/jask/framebuilder/internal/database"
	"github.com/jask/framebuilder/internal/database/repository"
	"github.com/jask/framebuilder/internal/service"
	"github.com/jask/framebuilder/internal/tui"
)

// Options replaces collaborators in tests.
type Options struct {
	Clipboard service.Clipboard
	NewID     func() string
}

type runtime struct {
	opts Options

	dbPath       string
	snapshotPath string
	logPath      string
	logLevel     string

	cfg     config.Config
	log     *zap.Logger
	db      *sql.DB
	repo    *repository.BoardRepo
	session *service.Session
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(Options{})
}

func newRootCmd(opts Options) *cobra.Command {
	r := &runtime{opts: opts}
	cmd := &cobra.Command{
		Use:   "framebuilder",
		Short: "Arrange captions and images into ordered frames",
		Long: `framebuilder collects image URLs into a library, groups size variants of the
same picture, and arranges them into captioned frames for a carousel.

Run without a subcommand to open the interactive board.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			return r.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			r.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runTUI(cmd.Context())
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&r.dbPath, "db", "", "sqlite database path (overrides database.path)")
	f.StringVar(&r.snapshotPath, "snapshot", "", "snapshot file path (overrides snapshot.path)")
	f.StringVar(&r.logPath, "log", "", "log file path (overrides log.path)")
	f.StringVar(&r.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newIngestCmd(r),
		newFrameCmd(r),
		newImageCmd(r),
		newPlaceCmd(r),
		newExportCmd(r),
		newSnapshotCmd(r),
		newResetCmd(r),
		newSeedCmd(r),
	)
	return cmd
}

func (r *runtime) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if r.dbPath != "" {
		cfg.Database.Path = r.dbPath
	}
	if r.snapshotPath != "" {
		cfg.Snapshot.Path = r.snapshotPath
	}
	if r.logPath != "" {
		cfg.Log.Path = r.logPath
	}
	if r.logLevel != "" {
		cfg.Log.Level = r.logLevel
	}
	r.cfg = cfg

	log, err := buildLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	r.log = log.With(zap.String("cmd", cmd.Name()))
	return nil
}

// buildLogger writes JSON logs to the configured file, or stderr when no
// file is set, so the TUI keeps the terminal.
func buildLogger(lc config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Level != "" {
		lvl, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	if lc.Path != "" {
		if err := os.MkdirAll(filepath.Dir(lc.Path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		zc.OutputPaths = []string{lc.Path}
		zc.ErrorOutputPaths = []string{lc.Path}
	}
	return zc.Build()
}

// open prepares the database and loads the saved board into a session.
func (r *runtime) open(ctx context.Context) (*service.Session, error) {
	if r.session != nil {
		return r.session, nil
	}
	db, err := database.Prepare(ctx, r.cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.repo = repository.NewBoardRepo(db)
	s := service.NewSession(r.repo, r.log)
	if r.opts.NewID != nil {
		s.NewID = r.opts.NewID
	}
	switch err := s.Load(ctx); {
	case errors.Is(err, board.ErrNoSnapshot):
		if !r.cfg.UI.SidebarOpen {
			s.ToggleSidebar()
		}
	case err != nil:
		return nil, err
	}
	r.session = s
	r.log.Debug("board opened", zap.String("db", r.cfg.Database.Path))
	return s, nil
}

func (r *runtime) close() {
	if r.db != nil {
		_ = r.db.Close()
		r.db = nil
	}
	if r.log != nil {
		_ = r.log.Sync()
	}
	r.session = nil
}

func (r *runtime) clipboard() service.Clipboard {
	if r.opts.Clipboard != nil {
		return r.opts.Clipboard
	}
	return service.SystemClipboard()
}

func (r *runtime) exporter() *service.Exporter {
	return &service.Exporter{
		Format:    r.cfg.Export.Format,
		Indent:    r.cfg.Export.Indent,
		Clipboard: r.clipboard(),
		Log:       r.log,
	}
}

// saveExportFormat rewrites the config file with a new export format. It
// reloads the file so command-line overrides are not persisted.
func saveExportFormat(format string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Export.Format = format
	return config.Save(cfg)
}

func (r *runtime) runTUI(ctx context.Context) error {
	s, err := r.open(ctx)
	if err != nil {
		return err
	}
	app := tui.New(ctx, r.cfg, tui.Deps{
		Session:        s,
		Exporter:       r.exporter(),
		Clipboard:      r.clipboard(),
		StoryboardPath: filepath.Join(filepath.Dir(r.cfg.Database.Path), "storyboard.png"),
		SaveFormat:     saveExportFormat,
		Log:            r.log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
