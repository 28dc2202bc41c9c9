package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/api"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		startWatcher(cmd, store)

		if log.GetLevel() != logger.LevelVerbose {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      api.NewRouter(store, cfg, log),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errc := make(chan error, 1)
		go func() {
			log.Info("serving %d recipes on %s", store.Catalog().Len(), cfg.Server.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
			close(errc)
		}()

		select {
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
			}
			return nil
		case <-cmd.Context().Done():
		}

		log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info("server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "listen address")
	if err := v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(fmt.Sprintf("bind addr: %v", err))
	}
}
