package main

import (
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/display"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/engine"
	"github.com/hammamikhairi/recipebook/internal/export"
	"github.com/hammamikhairi/recipebook/internal/query"
	"github.com/hammamikhairi/recipebook/internal/storage"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Search recipes and follow one step by step (default)",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}

	sessions, err := openSessions(cmd)
	if err != nil {
		return err
	}
	eng := engine.New(store, sessions, log)
	browser := display.NewBrowser(store, eng, query.NewParser(log), log,
		display.WithExport(cfg.Export.Dir, format),
	)
	store.OnReload(browser.NotifyReload)
	startWatcher(cmd, store)

	log.Info("browser started with %d recipes from %s", store.Catalog().Len(), cfg.Data)
	return browser.Run(cmd.Context())
}

// openSessions returns the checklist store: YAML files under sessions.dir
// when set, memory otherwise. Old finished sessions are pruned on open.
func openSessions(cmd *cobra.Command) (domain.SessionStore, error) {
	if cfg.Sessions.Dir == "" {
		return storage.NewMemoryStore(log), nil
	}
	fs, err := storage.OpenFileStore(cfg.Sessions.Dir, log)
	if err != nil {
		return nil, err
	}
	if cfg.Sessions.Keep > 0 {
		if _, err := fs.Prune(cmd.Context(), cfg.Sessions.Keep); err != nil {
			log.Warn("pruning sessions: %v", err)
		}
	}
	return fs, nil
}
