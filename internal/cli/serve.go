package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reblol/Pulsepanion/internal/httpapi"
	"github.com/reblol/Pulsepanion/internal/llm"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve summaries over HTTP",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: http.addr from config, :8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")

	e := setup()
	if addr == "" {
		addr = e.cfg.HTTP.Addr
	}

	var completer llm.Completer
	if e.cfg.LLM.APIKey != "" {
		c, err := llm.New(cmd.Context(), e.cfg.LLM)
		if err != nil {
			exitErr("init provider", err)
		}
		completer = c
	} else {
		e.logger.Warn("no API key configured; /v1/summaries will fail, /v1/previews still works",
			zap.String("provider", e.cfg.LLM.Provider))
	}

	s, closeFn := e.newSummarizer(completer)
	defer closeFn()

	srv := httpapi.NewServer(httpapi.NewHandler(s, e.logger), e.logger)

	go func() {
		e.logger.Info("starting server", zap.String("addr", addr),
			zap.String("provider", e.cfg.LLM.Provider), zap.String("model", e.cfg.LLM.Model))
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	e.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		e.logger.Error("server shutdown failed", zap.Error(err))
	}
	e.logger.Info("server stopped")
}
