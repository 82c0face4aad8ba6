package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mrsingh-rishi/voice-doc/audio"
	"github.com/mrsingh-rishi/voice-doc/config"
	"github.com/mrsingh-rishi/voice-doc/dictation"
	"github.com/mrsingh-rishi/voice-doc/llm"
	"github.com/mrsingh-rishi/voice-doc/logger"
	"github.com/mrsingh-rishi/voice-doc/server"
	"github.com/mrsingh-rishi/voice-doc/service"
	"github.com/mrsingh-rishi/voice-doc/stt"
	"github.com/mrsingh-rishi/voice-doc/transport"
	"github.com/mrsingh-rishi/voice-doc/tts"
)

func main() {
	configFile := flag.String("c", "", "config file (json or yaml)")
	flag.Parse()

	// Load .env if present
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, falling back to environment variables")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if err := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Stdout: cfg.Log.Stdout,
		MaxAge: cfg.Log.MaxAge,
	}); err != nil {
		logger.Fatalf("init logger: %v", err)
	}

	store, err := audio.NewStore(cfg.Server.TempDir)
	if err != nil {
		logger.Fatalf("audio store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	httpClient := transport.NewHTTPClient(cfg.HTTP.Timeout)

	provider, err := llm.NewProvider(ctx, cfg, httpClient)
	if err != nil {
		logger.Fatalf("llm provider: %v", err)
	}
	transcriber := stt.NewSarvamClient(cfg.Sarvam.APIKey, cfg.Sarvam.BaseURL, cfg.Sarvam.STTModel, cfg.Sarvam.LanguageCode, httpClient)
	synthesizer := tts.NewSarvamClient(cfg.Sarvam.APIKey, cfg.Sarvam.BaseURL, cfg.Sarvam.Speaker, cfg.Sarvam.LanguageCode, store, httpClient)

	svc := service.NewDocumentService(provider, transcriber, synthesizer, store, service.Options{
		MinTranscriptLength: cfg.LLM.MinTranscriptLength,
	})
	sessions := dictation.NewRegistry()

	app := server.New(cfg.Server, server.Deps{
		Context:  ctx,
		Service:  svc,
		Store:    store,
		Sessions: sessions,
	})

	go func() {
		logger.Infof("voice-doc listening on %s (llm=%s)", cfg.Server.Address(), provider.Name())
		if err := app.Listen(cfg.Server.Address()); err != nil {
			logger.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
	sessions.CloseAll()
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
