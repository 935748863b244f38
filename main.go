package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pawpedia/amazon"
	"pawpedia/config"
	"pawpedia/dogapi"
	"pawpedia/genai"
	"pawpedia/pipeline"
	"pawpedia/retry"
	"pawpedia/server"
	"pawpedia/store"
)

func main() {
	configPath := flag.String("config", "config/config.yml", "path to config file")
	task := flag.String("task", "", "seeding task to run: blogs|facts|breeds|shop")
	serve := flag.Bool("serve", false, "start the preview server instead of running a task")
	addr := flag.String("addr", "", "listen address when --serve (overrides config)")
	count := flag.Int("count", 0, "fact count for -task facts (overrides config)")
	mock := flag.Bool("mock", false, "use the mock text generator instead of the real API")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	st, err := buildStore(cfg.Store)
	if err != nil {
		log.Fatal("store init failed", zap.Error(err))
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		srv, err := server.New(st, log)
		if err != nil {
			log.Fatal("server init failed", zap.Error(err))
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		log.Info("starting preview server", zap.String("addr", listen))
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
		return
	}

	if *task == "" {
		fmt.Fprintln(os.Stderr, "either --task or --serve is required")
		os.Exit(1)
	}

	gen, err := buildCompleter(cfg.LLM, *mock)
	if err != nil {
		log.Fatal("llm init failed", zap.Error(err))
	}
	images := dogapi.New(cfg.DogAPIBase, nil)
	products := amazon.New(amazon.Config{
		Endpoint:   cfg.Amazon.Endpoint,
		PartnerTag: cfg.Amazon.PartnerTag,
	}, nil, log)

	report, err := runTask(ctx, *task, cfg, gen, images, products, st, log, *count)
	if err != nil && !errors.Is(err, pipeline.ErrRunAborted) {
		log.Fatal("task failed", zap.String("task", *task), zap.Error(err))
	}
	log.Info("task finished",
		zap.String("task", *task),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Bool("aborted", report.Aborted))
	if report.Aborted {
		os.Exit(2)
	}
}

func runTask(ctx context.Context, task string, cfg config.Config, gen genai.Completer,
	images pipeline.ImageSource, products pipeline.ProductSource, st store.Store,
	log *zap.Logger, count int,
) (*pipeline.Report, error) {
	switch task {
	case "blogs":
		runner := pipeline.New(gen, images, products, st, runConfig(cfg.Tasks.Blogs.TaskConfig), log)
		return runner.GenerateBlogs(ctx, cfg.Tasks.Blogs.Topics)
	case "facts":
		if count <= 0 {
			count = cfg.Tasks.Facts.Count
		}
		runner := pipeline.New(gen, images, products, st, runConfig(cfg.Tasks.Facts.TaskConfig), log)
		return runner.GenerateFacts(ctx, count)
	case "breeds":
		runner := pipeline.New(gen, images, products, st, runConfig(cfg.Tasks.Breeds.TaskConfig), log)
		return runner.GenerateBreeds(ctx)
	case "shop":
		runner := pipeline.New(gen, images, products, st, pipeline.Config{}, log)
		return runner.UpdateShop(ctx, cfg.Tasks.Shop.Categories)
	default:
		return nil, fmt.Errorf("unknown task %q (valid: blogs, facts, breeds, shop)", task)
	}
}

func runConfig(t config.TaskConfig) pipeline.Config {
	return pipeline.Config{
		SuccessDelay: t.SuccessDelay.Std(),
		FailureDelay: t.FailureDelay.Std(),
		Retry: retry.Config{
			MaxAttempts: t.MaxAttempts,
			BaseDelay:   t.BaseDelay.Std(),
		},
		BreakerThreshold: t.BreakerThreshold,
	}
}

func buildCompleter(cfg config.LLMConfig, mock bool) (genai.Completer, error) {
	if mock || cfg.Provider == "mock" {
		return genai.Mock{}, nil
	}
	return genai.NewOpenAI(genai.Config{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	})
}

func buildStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "redis":
		return store.NewRedis(cfg.Redis)
	case "sqlite":
		return store.NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}
