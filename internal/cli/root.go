package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sandeepkv93/tbetodo/internal/config"
	"github.com/sandeepkv93/tbetodo/internal/logging"
	"github.com/sandeepkv93/tbetodo/internal/storage"
	"github.com/sandeepkv93/tbetodo/internal/tracker"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// skipStore marks commands that manage storage themselves.
const skipStore = "skip-store"

// app is the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	fs      afero.Fs
	cfgFile string
	envFile string

	cfg     config.Config
	logger  *slog.Logger
	store   storage.Store
	tracker *tracker.Tracker
	// loadErr is the error from the initial tracker load, if any.
	loadErr error
}

// Option adjusts a root command, mostly for tests.
type Option func(*app)

// WithFs replaces the filesystem used by the document backend and the import.
func WithFs(fsys afero.Fs) Option {
	return func(a *app) { a.fs = fsys }
}

// NewRootCmd builds the command tree. Running it with no subcommand starts
// the terminal UI.
func NewRootCmd(version string, opts ...Option) *cobra.Command {
	a := &app{v: config.New(), fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "tbetodo",
		Short: "A personal task tracker with subtasks, priorities and a terminal UI",
		Long: `tbetodo keeps a list of tasks, each with an importance and optional subtasks,
moving through new, started, finalising and completed.

Running tbetodo with no command opens the terminal UI.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runTUI,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./.tbetodo.yaml)")
	flags.StringVar(&a.envFile, "env-file", "", "env file (default ./.env)")
	flags.String("backend", "", "storage backend: sqlite or document")
	flags.String("document-path", "", "path of the JSON task document")
	flags.String("database-path", "", "path of the SQLite database")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
	for key, flag := range map[string]string{
		"backend":       "backend",
		"document_path": "document-path",
		"database_path": "database-path",
		"log.level":     "log-level",
		"log.format":    "log-format",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newTUICmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newRemoveCmd(a),
		newSubCmd(a),
		newExportCmd(a),
		newMigrateCmd(a),
	)
	for _, tr := range transitionCommands {
		root.AddCommand(newTransitionCmd(a, tr))
	}
	a.closeAfterRun(root)
	return root
}

// Execute runs the command line and reports any error on stderr.
func Execute(ctx context.Context, version string) error {
	root := NewRootCmd(version)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, config.LoadOptions{ConfigFile: a.cfgFile, EnvFile: a.envFile})
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.logger = logger

	if cmd.Annotations[skipStore] != "" {
		return nil
	}
	store, err := storage.Open(cmd.Context(), a.storageOptions(storage.Backend(cfg.Backend)))
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	a.store = store
	a.tracker = tracker.New(store, logger)
	a.loadErr = a.tracker.Load(cmd.Context())
	return nil
}

// closeAfterRun wraps every RunE in the tree so the store is closed whether
// the command succeeds or fails. PersistentPostRunE only runs on success.
func (a *app) closeAfterRun(cmd *cobra.Command) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) (err error) {
			defer func() {
				if cerr := a.closeStore(); err == nil {
					err = cerr
				}
			}()
			return run(c, args)
		}
	}
	for _, sub := range cmd.Commands() {
		a.closeAfterRun(sub)
	}
}

func (a *app) closeStore() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *app) storageOptions(backend storage.Backend) storage.Options {
	return storage.Options{
		Backend:      backend,
		DocumentPath: a.cfg.DocumentPath,
		DatabasePath: a.cfg.DatabasePath,
		Fs:           a.fs,
		Logger:       a.logger,
	}
}

// loaded returns the tracker. Malformed content already loads as an empty
// list; only a store that could not be read at all stops a command, so a
// scripted edit never overwrites data it failed to read.
func (a *app) loaded() (*tracker.Tracker, error) {
	if errors.Is(a.loadErr, storage.ErrIOFailure) {
		return nil, fmt.Errorf("load tasks: %w", a.loadErr)
	}
	return a.tracker, nil
}
