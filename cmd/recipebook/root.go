package main

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/catalog"
	"github.com/hammamikhairi/recipebook/internal/config"
	"github.com/hammamikhairi/recipebook/internal/ingredient"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// tuiLogFile is where the browser logs when no log file is configured, so
// log lines do not tear the screen.
const tuiLogFile = ".recipebook-logs/recipebook.log"

var (
	cfgFile string
	verbose bool
	quiet   bool

	v   = config.New()
	cfg *config.Config
	log *logger.Logger

	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "recipebook",
	Short: "Browse, search and cook from a recipe CSV file",
	Long: `Recipebook loads a CSV of recipes (recipe_name, ingredients, directions,
total_time), normalizes ingredient units and fractions, and lets you search
it, follow a recipe step by step, export it or serve it over HTTP.

Without a subcommand the interactive browser starts.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	// Set here rather than in the literal: setup refers to rootCmd.
	rootCmd.PersistentPreRunE = setup
	rootCmd.RunE = runBrowse

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./recipebook.yaml or ~/.config/recipebook/recipebook.yaml)")
	pf.String("data", "recipes.csv", "recipe CSV file or glob such as \"data/**/*.csv\"")
	pf.Bool("watch", false, "reload the catalog when the data files change")
	pf.String("log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	pf.Bool("strict-units", true, "only accept known unit spellings")
	pf.Bool("dedupe", false, "drop rows repeating an earlier recipe name")
	pf.String("sessions", "", "directory to keep checklist sessions in (default: memory only)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose/debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "disable all logging")

	bind := map[string]string{
		"data":           "data",
		"watch":          "watch",
		"log.file":       "log-file",
		"units.strict":   "strict-units",
		"catalog.dedupe": "dedupe",
		"sessions.dir":   "sessions",
	}
	for key, flag := range bind {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind %s: %v", flag, err))
		}
	}
}

// setup loads the configuration and opens the log output.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	level := cfg.LogLevel()
	if verbose {
		level = logger.LevelVerbose
	}
	if quiet {
		level = logger.LevelOff
	}

	logFile := cfg.Log.File
	if logFile == "" && (cmd == rootCmd || cmd == browseCmd) {
		logFile = tuiLogFile
	}
	out := openLog(logFile)

	// Third-party packages that use the standard logger write to the same
	// place.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	log = logger.New(level, out)
	log.Debug("config: data=%s watch=%t units=%s dedupe=%t", cfg.Data, cfg.Watch, cfg.UnitPolicy(), cfg.Catalog.Dedupe)
	return nil
}

// openLog returns the log destination. An empty path or "stderr" means
// stderr; a file that cannot be opened falls back to stderr.
func openLog(path string) io.Writer {
	if path == "" || path == "stderr" {
		return os.Stderr
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr
	}
	logCloser = f
	return f
}

// openStore loads the configured data path.
func openStore() (*catalog.Store, error) {
	store, err := catalog.Open(cfg.Data, log,
		catalog.WithParser(ingredient.NewParser(cfg.UnitPolicy())),
		catalog.WithDedupe(cfg.Catalog.Dedupe),
	)
	if err != nil {
		return nil, fmt.Errorf("loading recipes from %s: %w", cfg.Data, err)
	}
	return store, nil
}

// startWatcher reloads store on file changes until the command's context
// ends. It does nothing unless watching is enabled.
func startWatcher(cmd *cobra.Command, store *catalog.Store) {
	if !cfg.Watch {
		return
	}
	w := catalog.NewWatcher(store, log)
	go func() {
		if err := w.Run(cmd.Context()); err != nil {
			log.Error("watcher stopped: %v", err)
		}
	}()
}
