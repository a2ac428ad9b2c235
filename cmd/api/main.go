package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"diagen/internal/artifact"
	"diagen/internal/assistant"
	"diagen/internal/config"
	"diagen/internal/diagram"
	"diagen/internal/handler"
	"diagen/internal/llm"
	"diagen/internal/logging"
	"diagen/internal/metrics"
	"diagen/internal/render"
	"diagen/internal/server"
	"diagen/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := buildLLMClient(ctx, cfg, log)
	if err != nil {
		log.Fatal("init llm client", zap.Error(err))
	}
	defer client.Close()
	log.Info("llm client ready", zap.String("client", client.Name()))

	vocab := diagram.NewVocabulary()
	parser := diagram.NewParser(vocab, log)
	templates := diagram.NewTemplates(vocab)

	renderer, err := render.New(cfg.OutDir, cfg.Render.Timeout, log)
	if err != nil {
		log.Fatal("init renderer", zap.Error(err))
	}

	var mirror artifact.Mirror
	if cfg.Artifact.Enabled {
		s3, err := artifact.NewS3Mirror(artifact.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			Prefix:    cfg.Artifact.Prefix,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			log.Warn("artifact mirror disabled", zap.Error(err))
		} else {
			mirror = s3
			log.Info("artifact mirror enabled", zap.String("bucket", cfg.Artifact.Bucket))
		}
	}

	met := metrics.New()
	gen := service.NewGenerator(client, parser, templates, renderer, mirror, cfg.OutDir, met, log)
	asst := assistant.New(client, gen, assistant.NewStore(), met, log)
	h := handler.New(gen, asst, cfg.OutDir, client.Name(), log)

	srv := server.New(cfg.Port, server.NewMux(h, met, log), log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}
}

func buildLLMClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (llm.Client, error) {
	if cfg.LLM.Mock {
		log.Info("running with mock llm client")
		return llm.NewFakeClient(), nil
	}
	return llm.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.RPS, cfg.LLM.Burst, log)
}
