package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groundchat/internal/capture"
	"groundchat/internal/chat"
	"groundchat/internal/exchange"
	"groundchat/internal/server"
	"groundchat/internal/web"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat page and its API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator, err := exchange.NewGeminiGenerator(ctx, cfg.APIKey)
	if err != nil {
		return err
	}

	// Inject the adapter into the conversation store.
	exchangeService := exchange.NewService(generator, cfg.Model)
	chatService := chat.NewService(exchangeService)

	router := server.NewRouter(
		web.NewHandler(),
		exchange.NewHandler(exchangeService),
		chat.NewHandler(chatService),
		capture.NewHandler(),
	)
	srv := server.NewServer(cfg.Server, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	log.Printf("Using model %s", cfg.Model)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down cleanly: %w", err)
	}
	return nil
}
