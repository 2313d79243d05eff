package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/user/hotline/internal/audio"
	"github.com/user/hotline/internal/classify"
	"github.com/user/hotline/internal/notify"
	"github.com/user/hotline/internal/orchestrator"
	"github.com/user/hotline/internal/prompt"
	"github.com/user/hotline/internal/state"
	"github.com/user/hotline/internal/webhook"
	"github.com/user/hotline/pkg/llm"
	"github.com/user/hotline/pkg/llm/openai"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the answering service daemon",
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "hotline.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	// Stores
	sessions := state.NewSessionStore()
	archive := state.NewArchive()

	// LLM providers: the responder carries the conversation, the
	// classifier only emits a short label.
	responderCfg := &llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	}
	if cfg.LLM.Temperature != 0 {
		responderCfg.Temperature = &cfg.LLM.Temperature
	}
	responder := openai.New(responderCfg)

	// Labels must be stable across identical transcripts, so the
	// classifier pins temperature zero.
	classifierTemp := float32(0)
	classifierProvider := openai.New(&llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.Classifier.MaxTokens,
		Temperature: &classifierTemp,
	})
	transcriber := openai.New(&llm.Config{
		BaseURL:         cfg.LLM.BaseURL,
		APIKey:          cfg.LLM.APIKey,
		TranscribeModel: cfg.LLM.TranscribeModel,
	})

	// History trimmer
	trimmer, err := prompt.New(cfg.LLM.Model, cfg.LLM.MaxContextTokens)
	if err != nil {
		return fmt.Errorf("create history trimmer: %w", err)
	}

	// Notification channels
	dispatcher := notify.NewDispatcher(int64(cfg.Notify.MaxConcurrent))
	if cfg.SMTP.Host != "" {
		email, err := notify.NewEmail(notify.EmailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		})
		if err != nil {
			return fmt.Errorf("create email channel: %w", err)
		}
		dispatcher.Register("email", email)
		slog.Info("email channel registered", "to", cfg.SMTP.To)
	} else {
		slog.Warn("email channel disabled (no SMTP host)")
	}
	if cfg.Telegram.Token != "" {
		telegram, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return fmt.Errorf("create telegram channel: %w", err)
		}
		dispatcher.Register("telegram", telegram)
		slog.Info("telegram channel registered", "chat_id", cfg.Telegram.ChatID)
	} else {
		slog.Warn("telegram channel disabled (no token)")
	}

	// Orchestrator
	orch := orchestrator.New(
		sessions,
		archive,
		responder,
		classify.New(classifierProvider),
		transcriber,
		audio.NewFetcher(),
		dispatcher,
		trimmer,
	)

	// HTTP server
	srv := webhook.NewServer(orch, archive, cfg.CORSOrigins)
	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("hotline started",
			"listen", cfg.Listen,
			"log_level", cfg.LogLevel,
			"llm_model", cfg.LLM.Model,
			"transcribe_model", cfg.LLM.TranscribeModel,
			"pid_file", pidPath,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	slog.Info("shutting down", "signal", sig)
	cancel()
	dispatcher.Wait()
	return nil
}
